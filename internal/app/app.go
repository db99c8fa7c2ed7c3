package app

import (
	"context"
	"sync"

	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/xcenweb/delin-ocr/internal/plugin"
	"go.uber.org/zap"
)

// App drives the lifecycle of the attached plugins from the Wails hooks.
type App struct {
	ctx context.Context
	log *zap.Logger

	plugins []plugin.Plugin
	opts    *options.App

	shutdownOnce sync.Once
}

// Options returns the options to pass to the run loop.
func (a *App) Options() *options.App {
	return a.opts
}

// Plugins returns the attached plugin names in attach order.
func (a *App) Plugins() []string {
	names := make([]string, len(a.plugins))
	for i, p := range a.plugins {
		names[i] = p.Name()
	}
	return names
}

// Startup is called at application startup
func (a *App) Startup(ctx context.Context) {
	a.ctx = ctx
	for _, p := range a.plugins {
		if s, ok := p.(plugin.Starter); ok {
			s.Startup(ctx)
		}
	}
	a.log.Info("application started", zap.Strings("plugins", a.Plugins()))
}

// BeforeClose is called when the user tries to close the window. It never
// prevents the close.
func (a *App) BeforeClose(ctx context.Context) (prevent bool) {
	for _, p := range a.plugins {
		if c, ok := p.(plugin.Closer); ok {
			c.BeforeClose(ctx)
		}
	}
	return false
}

// Shutdown is called at application termination. Plugins stop in reverse
// attach order; errors are logged.
func (a *App) Shutdown(ctx context.Context) {
	a.shutdownOnce.Do(func() {
		stopPlugins(ctx, a.log, a.plugins)
		a.log.Info("application stopped")
	})
}

func stopPlugins(ctx context.Context, log *zap.Logger, plugins []plugin.Plugin) {
	for i := len(plugins) - 1; i >= 0; i-- {
		s, ok := plugins[i].(plugin.Stopper)
		if !ok {
			continue
		}
		if err := s.Shutdown(ctx); err != nil {
			log.Warn("plugin shutdown failed", zap.String("plugin", plugins[i].Name()), zap.Error(err))
		}
	}
}
