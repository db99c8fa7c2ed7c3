// Package plugin defines the contract between the application bootstrapper
// and the services it attaches to the Wails application.
package plugin

import (
	"context"

	"github.com/wailsapp/wails/v2/pkg/options"
	"go.uber.org/zap"
)

// Plugin identifiers, in the order the bootstrapper attaches them.
const (
	OS          = "os"
	SQL         = "sql"
	FS          = "fs"
	Opener      = "opener"
	Share       = "share"
	WindowState = "window-state"
)

// Order is the canonical attach order. It never depends on configuration.
var Order = []string{OS, SQL, FS, Opener, Share, WindowState}

// Plugin is a service registered with the application. Init runs before the
// run loop starts; an Init error aborts startup.
type Plugin interface {
	Name() string
	Init() error
}

// Configurer adjusts the window options before the window is created.
type Configurer interface {
	Configure(app *options.App)
}

// Starter is notified once the run loop has a runtime context.
type Starter interface {
	Startup(ctx context.Context)
}

// Closer is notified when the user asks to close the main window.
type Closer interface {
	BeforeClose(ctx context.Context)
}

// Stopper releases resources at application termination.
type Stopper interface {
	Shutdown(ctx context.Context) error
}

// Binder exposes a front-end API. API must return a pointer to a struct
// whose exported methods are the only ones bound to the front-end; the
// plugin's lifecycle methods are never bound.
type Binder interface {
	API() interface{}
}

// Host carries what every plugin gets from the application.
type Host struct {
	Log     *zap.Logger
	DataDir string
}

// Logger returns a child logger named after the plugin.
func (h *Host) Logger(name string) *zap.Logger {
	if h == nil || h.Log == nil {
		return zap.NewNop()
	}
	return h.Log.Named(name)
}
