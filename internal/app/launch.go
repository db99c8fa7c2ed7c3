package app

import (
	"io/fs"

	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
	"github.com/xcenweb/delin-ocr/internal/config"
	"github.com/xcenweb/delin-ocr/internal/logging"
	"github.com/xcenweb/delin-ocr/internal/plugin"
)

// NewOptions returns the window options for cfg serving assets.
func NewOptions(cfg *config.Config, host *plugin.Host, assets fs.FS) *options.App {
	return &options.App{
		Title:     cfg.Window.Title,
		Width:     cfg.Window.Width,
		Height:    cfg.Window.Height,
		MinWidth:  cfg.Window.MinWidth,
		MinHeight: cfg.Window.MinHeight,
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		BackgroundColour: &options.RGBA{R: 255, G: 255, B: 255, A: 1},
		Logger:           logging.NewWailsLogger(host.Logger("")),
		LogLevel:         logging.WailsLevel(cfg.LogLevel),
	}
}

// NewBuilderFromConfig attaches the plugins and commands enabled in cfg.
func NewBuilderFromConfig(cfg *config.Config, host *plugin.Host) (*Builder, error) {
	plugins, err := BuildPlugins(cfg, host)
	if err != nil {
		return nil, err
	}
	handlers, err := BuildCommands(cfg, host)
	if err != nil {
		return nil, err
	}

	b := NewBuilder(host.Logger("app"))
	for _, p := range plugins {
		b.Plugin(p)
	}
	b.Invoke(handlers...)
	return b, nil
}

// Launch builds the application for cfg and blocks until it exits.
func Launch(cfg *config.Config, host *plugin.Host, assets fs.FS, run Runner) error {
	b, err := NewBuilderFromConfig(cfg, host)
	if err != nil {
		return err
	}
	return b.Run(NewOptions(cfg, host, assets), run)
}
