package opener

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xcenweb/delin-ocr/internal/plugin"
	"go.uber.org/zap/zaptest"
)

type call struct {
	name string
	args []string
}

func newPlugin(t *testing.T, goos string) (*Plugin, *[]call) {
	t.Helper()
	var calls []call
	p := New(&plugin.Host{Log: zaptest.NewLogger(t)})
	p.goos = goos
	p.run = func(name string, args ...string) error {
		calls = append(calls, call{name, args})
		return nil
	}
	return p, &calls
}

func TestOpenURLSchemes(t *testing.T) {
	p, calls := newPlugin(t, "linux")

	for _, u := range []string{"https://example.com", "HTTP://example.com/a?b=c", "mailto:a@b.c", "tel:+123"} {
		assert.NoError(t, p.OpenURL(u), u)
	}
	assert.Len(t, *calls, 4)
	assert.Equal(t, call{"xdg-open", []string{"https://example.com"}}, (*calls)[0])

	for _, u := range []string{"file:///etc/passwd", "javascript:alert(1)", "ftp://host/x"} {
		assert.ErrorIs(t, p.OpenURL(u), ErrSchemeNotAllowed, u)
	}
	assert.Error(t, p.OpenURL("://bad"))
	assert.Len(t, *calls, 4)
}

func TestOpenURLUsesBrowserAfterStartup(t *testing.T) {
	p, calls := newPlugin(t, "linux")
	var opened []string
	p.browser = func(ctx context.Context, url string) { opened = append(opened, url) }

	p.Startup(context.Background())
	require.NoError(t, p.OpenURL("https://example.com"))
	assert.Equal(t, []string{"https://example.com"}, opened)
	assert.Empty(t, *calls)
}

func TestOpenPath(t *testing.T) {
	file := filepath.Join(t.TempDir(), "scan.png")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	tests := []struct {
		goos string
		with string
		want call
	}{
		{"linux", "", call{"xdg-open", []string{file}}},
		{"linux", "gimp", call{"gimp", []string{file}}},
		{"darwin", "", call{"open", []string{file}}},
		{"darwin", "Preview", call{"open", []string{"-a", "Preview", file}}},
		{"windows", "", call{"rundll32", []string{"url.dll,FileProtocolHandler", file}}},
	}
	for _, tc := range tests {
		t.Run(tc.goos+"/"+tc.with, func(t *testing.T) {
			p, calls := newPlugin(t, tc.goos)
			require.NoError(t, p.OpenPath(file, tc.with))
			assert.Equal(t, []call{tc.want}, *calls)
		})
	}

	p, calls := newPlugin(t, "linux")
	assert.Error(t, p.OpenPath("relative/scan.png", ""))
	assert.Error(t, p.OpenPath(filepath.Join(t.TempDir(), "missing"), ""))
	assert.Empty(t, *calls)
}

func TestRevealItemInDir(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "scan.png")
	require.NoError(t, os.WriteFile(file, nil, 0644))

	p, calls := newPlugin(t, "linux")
	require.NoError(t, p.RevealItemInDir(file))
	assert.Equal(t, call{"xdg-open", []string{dir}}, (*calls)[0])

	p, calls = newPlugin(t, "darwin")
	require.NoError(t, p.RevealItemInDir(file))
	assert.Equal(t, call{"open", []string{"-R", file}}, (*calls)[0])

	p, calls = newPlugin(t, "windows")
	require.NoError(t, p.RevealItemInDir(file))
	assert.Equal(t, call{"explorer", []string{"/select," + file}}, (*calls)[0])
}
