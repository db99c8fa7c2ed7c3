package app

import (
	"context"
	"reflect"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/xcenweb/delin-ocr/internal/command"
	"github.com/xcenweb/delin-ocr/internal/config"
	"github.com/xcenweb/delin-ocr/internal/plugin"
	"go.uber.org/zap/zaptest"
)

func testHost(t *testing.T) *plugin.Host {
	return &plugin.Host{Log: zaptest.NewLogger(t), DataDir: t.TempDir()}
}

func names(plugins []plugin.Plugin) []string {
	out := make([]string, len(plugins))
	for i, p := range plugins {
		out[i] = p.Name()
	}
	return out
}

func TestBuildPluginsCanonicalOrder(t *testing.T) {
	cfg := config.Default()
	cfg.Plugins = []string{"window-state", "share", "fs", "os", "opener", "sql", "fs"}

	plugins, err := BuildPlugins(cfg, testHost(t))
	require.NoError(t, err)
	assert.Equal(t, []string{"os", "sql", "fs", "opener", "share", "window-state"}, names(plugins))
}

func TestBuildPluginsSubset(t *testing.T) {
	cfg := config.Default()
	cfg.Plugins = []string{"fs", "os"}
	plugins, err := BuildPlugins(cfg, testHost(t))
	require.NoError(t, err)
	assert.Equal(t, []string{"os", "fs"}, names(plugins))

	cfg.Plugins = []string{}
	plugins, err = BuildPlugins(cfg, testHost(t))
	require.NoError(t, err)
	assert.Empty(t, plugins)
}

func TestBuildPluginsUnknown(t *testing.T) {
	cfg := config.Default()
	cfg.Plugins = []string{"os", "updater"}
	_, err := BuildPlugins(cfg, testHost(t))
	assert.ErrorContains(t, err, `unknown plugin "updater"`)
}

func TestBuildCommands(t *testing.T) {
	cfg := config.Default()
	handlers, err := BuildCommands(cfg, testHost(t))
	require.NoError(t, err)
	require.Len(t, handlers, 3)
	assert.IsType(t, &command.Greeter{}, handlers[0])
	assert.IsType(t, &command.Settings{}, handlers[1])
	assert.IsType(t, &command.Tagger{}, handlers[2])

	cfg.Commands = nil
	handlers, err = BuildCommands(cfg, testHost(t))
	require.NoError(t, err)
	assert.Empty(t, handlers)

	cfg.Commands = []string{"shell"}
	_, err = BuildCommands(cfg, testHost(t))
	assert.Error(t, err)
}

func TestLaunch(t *testing.T) {
	cfg := config.Default()
	cfg.Plugins = []string{"os", "sql", "fs", "opener", "share"}
	cfg.Commands = []string{"greet"}
	assets := fstest.MapFS{"index.html": {Data: []byte("<html></html>")}}

	var got *options.App
	err := Launch(cfg, testHost(t), assets, func(opts *options.App) error {
		got = opts
		opts.OnStartup(context.Background())
		opts.OnShutdown(context.Background())
		return nil
	})
	require.NoError(t, err)

	require.NotNil(t, got)
	assert.Equal(t, "Delin OCR", got.Title)
	assert.Equal(t, 1024, got.Width)
	require.NotNil(t, got.AssetServer)
	assert.Equal(t, assets, got.AssetServer.Assets)
	require.Len(t, got.Bind, 6)
	greeter, ok := got.Bind[5].(*command.Greeter)
	require.True(t, ok)
	assert.Equal(t, "Hello, World! You've been greeted from Rust!", greeter.Greet("World"))
}

func TestLaunchFailsOnBadConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Plugins = []string{"tray"}
	ran := false
	err := Launch(cfg, testHost(t), fstest.MapFS{}, func(*options.App) error {
		ran = true
		return nil
	})
	assert.Error(t, err)
	assert.False(t, ran)
}

func TestBindExposesOnlyFrontendMethods(t *testing.T) {
	cfg := config.Default()
	b, err := NewBuilderFromConfig(cfg, testHost(t))
	require.NoError(t, err)
	opts := &options.App{}
	a, err := b.Build(opts)
	require.NoError(t, err)
	defer a.Shutdown(context.Background())

	lifecycle := map[string]bool{
		"Name": true, "Init": true, "Configure": true,
		"Startup": true, "BeforeClose": true, "Shutdown": true, "API": true,
	}
	optionsType := reflect.TypeOf(&options.App{})
	ctxType := reflect.TypeOf((*context.Context)(nil)).Elem()

	require.Len(t, opts.Bind, len(plugin.Order)+3)
	for _, v := range opts.Bind {
		typ := reflect.TypeOf(v)
		require.Equal(t, reflect.Ptr, typ.Kind(), "%T", v)
		require.Equal(t, reflect.Struct, typ.Elem().Kind(), "%T", v)
		require.Positive(t, typ.NumMethod(), "%T binds nothing", v)
		for i := 0; i < typ.NumMethod(); i++ {
			m := typ.Method(i)
			assert.False(t, lifecycle[m.Name], "%T exposes %s", v, m.Name)
			for j := 1; j < m.Type.NumIn(); j++ {
				in := m.Type.In(j)
				assert.NotEqual(t, optionsType, in, "%T.%s", v, m.Name)
				assert.NotEqual(t, ctxType, in, "%T.%s", v, m.Name)
				assert.NotEqual(t, reflect.Func, in.Kind(), "%T.%s", v, m.Name)
			}
		}
	}
}
