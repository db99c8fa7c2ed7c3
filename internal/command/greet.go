// Package command holds the handlers the front-end can invoke directly.
package command

// Greet formats the greeting shown by the front-end starter page.
func Greet(name string) string {
	return "Hello, " + name + "! You've been greeted from Rust!"
}

// Greeter exposes Greet to the front-end.
type Greeter struct{}

// NewGreeter returns the greet command handler.
func NewGreeter() *Greeter {
	return &Greeter{}
}

// Greet returns a greeting for the given name
func (g *Greeter) Greet(name string) string {
	return Greet(name)
}
