package app

import (
	"fmt"
	"slices"

	"github.com/xcenweb/delin-ocr/internal/command"
	"github.com/xcenweb/delin-ocr/internal/config"
	"github.com/xcenweb/delin-ocr/internal/plugin"
	"github.com/xcenweb/delin-ocr/internal/plugin/filesystem"
	"github.com/xcenweb/delin-ocr/internal/plugin/opener"
	"github.com/xcenweb/delin-ocr/internal/plugin/osinfo"
	"github.com/xcenweb/delin-ocr/internal/plugin/share"
	"github.com/xcenweb/delin-ocr/internal/plugin/sqldb"
	"github.com/xcenweb/delin-ocr/internal/plugin/windowstate"
)

// Command names accepted in the config, in registration order.
const (
	CommandGreet    = "greet"
	CommandSettings = "settings"
	CommandTags     = "tags"
)

var commandOrder = []string{CommandGreet, CommandSettings, CommandTags}

// BuildPlugins constructs the enabled plugins in the canonical order of
// plugin.Order, independent of the order in cfg. Unknown names fail.
func BuildPlugins(cfg *config.Config, host *plugin.Host) ([]plugin.Plugin, error) {
	enabled, err := enabledSet(cfg.Plugins, plugin.Order, "plugin")
	if err != nil {
		return nil, err
	}

	var plugins []plugin.Plugin
	for _, name := range plugin.Order {
		if !enabled[name] {
			continue
		}
		switch name {
		case plugin.OS:
			plugins = append(plugins, osinfo.New(host))
		case plugin.SQL:
			plugins = append(plugins, sqldb.New(host))
		case plugin.FS:
			plugins = append(plugins, filesystem.New(host))
		case plugin.Opener:
			plugins = append(plugins, opener.New(host))
		case plugin.Share:
			plugins = append(plugins, share.New(host))
		case plugin.WindowState:
			plugins = append(plugins, windowstate.New(host, cfg.WindowAutosave))
		}
	}
	return plugins, nil
}

// BuildCommands constructs the enabled command handlers.
func BuildCommands(cfg *config.Config, host *plugin.Host) ([]interface{}, error) {
	enabled, err := enabledSet(cfg.Commands, commandOrder, "command")
	if err != nil {
		return nil, err
	}

	var handlers []interface{}
	for _, name := range commandOrder {
		if !enabled[name] {
			continue
		}
		switch name {
		case CommandGreet:
			handlers = append(handlers, command.NewGreeter())
		case CommandSettings:
			handlers = append(handlers, command.NewSettings(config.NewSettingsStore(host.DataDir), host.Logger("settings")))
		case CommandTags:
			handlers = append(handlers, command.NewTagger())
		}
	}
	return handlers, nil
}

func enabledSet(names, known []string, kind string) (map[string]bool, error) {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		if !slices.Contains(known, n) {
			return nil, fmt.Errorf("unknown %s %q (known: %v)", kind, n, known)
		}
		set[n] = true
	}
	return set, nil
}
