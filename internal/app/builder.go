// Package app assembles the Wails application: it attaches plugins in a
// fixed order, registers the command handlers and starts the run loop.
package app

import (
	"context"
	"fmt"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/xcenweb/delin-ocr/internal/plugin"
	"go.uber.org/zap"
)

// Runner starts the run loop and blocks until the application exits.
type Runner func(opts *options.App) error

// WailsRunner runs the real Wails run loop.
func WailsRunner(opts *options.App) error {
	return wails.Run(opts)
}

// Builder collects plugins and command handlers before startup.
type Builder struct {
	log      *zap.Logger
	plugins  []plugin.Plugin
	handlers []interface{}
}

// NewBuilder returns an empty builder.
func NewBuilder(log *zap.Logger) *Builder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Builder{log: log}
}

// Plugin attaches p after the plugins already attached.
func (b *Builder) Plugin(p plugin.Plugin) *Builder {
	b.plugins = append(b.plugins, p)
	return b
}

// Invoke registers command handlers exposed to the front-end.
func (b *Builder) Invoke(handlers ...interface{}) *Builder {
	b.handlers = append(b.handlers, handlers...)
	return b
}

// Registered returns the attached plugin names in order.
func (b *Builder) Registered() []string {
	names := make([]string, len(b.plugins))
	for i, p := range b.plugins {
		names[i] = p.Name()
	}
	return names
}

// Build initialises every plugin in attach order and wires the lifecycle
// hooks into opts. Startup is all-or-nothing: on the first failure the
// plugins initialised so far are stopped and the error is returned.
func (b *Builder) Build(opts *options.App) (*App, error) {
	if opts == nil {
		opts = &options.App{}
	}

	seen := make(map[string]bool, len(b.plugins))
	for _, p := range b.plugins {
		if seen[p.Name()] {
			return nil, fmt.Errorf("plugin %q registered twice", p.Name())
		}
		seen[p.Name()] = true
	}

	for i, p := range b.plugins {
		if err := p.Init(); err != nil {
			stopPlugins(context.Background(), b.log, b.plugins[:i])
			return nil, fmt.Errorf("failed to initialize plugin %s: %w", p.Name(), err)
		}
		b.log.Debug("plugin initialized", zap.String("plugin", p.Name()))
	}

	a := &App{log: b.log, plugins: b.plugins, opts: opts}

	for _, p := range b.plugins {
		if c, ok := p.(plugin.Configurer); ok {
			c.Configure(opts)
		}
	}

	opts.OnStartup = chainStartup(opts.OnStartup, a.Startup)
	opts.OnBeforeClose = chainBeforeClose(opts.OnBeforeClose, a.BeforeClose)
	opts.OnShutdown = chainShutdown(a.Shutdown, opts.OnShutdown)

	for _, p := range b.plugins {
		if binder, ok := p.(plugin.Binder); ok {
			opts.Bind = append(opts.Bind, binder.API())
		}
	}
	opts.Bind = append(opts.Bind, b.handlers...)
	return a, nil
}

// Run builds the application and blocks in run until it exits.
func (b *Builder) Run(opts *options.App, run Runner) error {
	if run == nil {
		run = WailsRunner
	}
	a, err := b.Build(opts)
	if err != nil {
		return err
	}
	b.log.Info("starting run loop", zap.Strings("plugins", a.Plugins()), zap.Int("handlers", len(b.handlers)))
	if err := run(a.Options()); err != nil {
		a.Shutdown(context.Background())
		return fmt.Errorf("error while running application: %w", err)
	}
	return nil
}

func chainStartup(first, then func(context.Context)) func(context.Context) {
	if first == nil {
		return then
	}
	return func(ctx context.Context) {
		first(ctx)
		then(ctx)
	}
}

func chainBeforeClose(first, then func(context.Context) bool) func(context.Context) bool {
	if first == nil {
		return then
	}
	return func(ctx context.Context) bool {
		if first(ctx) {
			return true
		}
		return then(ctx)
	}
}

func chainShutdown(first, then func(context.Context)) func(context.Context) {
	if then == nil {
		return first
	}
	return func(ctx context.Context) {
		first(ctx)
		then(ctx)
	}
}
