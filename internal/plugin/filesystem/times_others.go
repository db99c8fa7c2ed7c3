//go:build !linux && !darwin && !windows

package filesystem

import (
	"io/fs"
	"time"
)

func fileTimes(path string, fi fs.FileInfo) (atime, birthtime time.Time) {
	return fi.ModTime(), fi.ModTime()
}
