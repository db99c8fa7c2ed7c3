package main

import (
	"embed"
	"fmt"
	"os"
)

//go:embed all:frontend/dist
var assets embed.FS

func main() {
	if err := Execute(assets); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
