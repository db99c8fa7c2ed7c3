package main

import (
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"
	"github.com/xcenweb/delin-ocr/internal/app"
	"github.com/xcenweb/delin-ocr/internal/config"
	"github.com/xcenweb/delin-ocr/internal/logging"
	"github.com/xcenweb/delin-ocr/internal/plugin"
	"go.uber.org/zap"
)

// Version is set at build time with -ldflags "-X main.Version=...".
var Version = "0.1.0"

var (
	configPath string
	debug      bool
	plugins    []string
)

// Execute runs the root command. With no subcommand it opens the window.
func Execute(assets fs.FS) error {
	root := newRootCmd(assets)
	return root.Execute()
}

func newRootCmd(assets fs.FS) *cobra.Command {
	root := &cobra.Command{
		Use:           "delin-ocr",
		Short:         "Delin OCR desktop application",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return launch(cfg, assets)
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default <user config dir>/DelinOCR/config.yaml)")
	root.Flags().BoolVar(&debug, "debug", false, "log at debug level")
	root.PersistentFlags().StringSliceVar(&plugins, "plugins", nil, "enabled plugins, overrides the config file")

	root.AddCommand(pluginsCmd(), versionCmd())
	return root
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path := configPath
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("plugins") {
		cfg.Plugins = plugins
	}
	if debug {
		cfg.LogLevel = "debug"
	}
	return cfg, nil
}

func launch(cfg *config.Config, assets fs.FS) error {
	dataDir, err := cfg.ResolveDataDir()
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.LogLevel, dataDir)
	if err != nil {
		return err
	}
	defer logger.Sync()

	logger.Info("starting",
		zap.String("version", Version),
		zap.String("dataDir", dataDir),
		zap.Strings("plugins", cfg.Plugins),
	)

	host := &plugin.Host{Log: logger, DataDir: dataDir}
	dist, err := fs.Sub(assets, "frontend/dist")
	if err != nil {
		return err
	}
	if err := app.Launch(cfg, host, dist, app.WailsRunner); err != nil {
		logger.Error("application exited", zap.Error(err))
		return err
	}
	return nil
}

func pluginsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plugins",
		Short: "List the plugins and commands that would be attached",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			b, err := app.NewBuilderFromConfig(cfg, &plugin.Host{})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, name := range b.Registered() {
				fmt.Fprintln(out, name)
			}
			for _, name := range cfg.Commands {
				fmt.Fprintf(out, "command:%s\n", name)
			}
			return nil
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), Version)
		},
	}
}
