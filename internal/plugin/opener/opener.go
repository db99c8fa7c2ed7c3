// Package opener opens URLs and files with the system's default handlers.
package opener

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/xcenweb/delin-ocr/internal/plugin"
	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"
	"go.uber.org/zap"
)

// AllowedSchemes are the URL schemes OpenURL accepts.
var AllowedSchemes = []string{"http", "https", "mailto", "tel"}

// ErrSchemeNotAllowed is returned by OpenURL for other schemes.
var ErrSchemeNotAllowed = errors.New("url scheme not allowed")

// Plugin is the opener service.
type Plugin struct {
	log  *zap.Logger
	ctx  context.Context
	goos string

	browser func(ctx context.Context, url string)
	run     func(name string, args ...string) error
}

// New returns the opener plugin.
func New(h *plugin.Host) *Plugin {
	p := &Plugin{
		log:     h.Logger(plugin.Opener),
		goos:    runtime.GOOS,
		browser: wailsRuntime.BrowserOpenURL,
	}
	p.run = p.start
	return p
}

func (p *Plugin) Name() string { return plugin.Opener }

func (p *Plugin) Init() error { return nil }

// Startup keeps the runtime context for browser calls.
func (p *Plugin) Startup(ctx context.Context) {
	p.ctx = ctx
}

// OpenURL opens an http, https, mailto or tel URL in the default handler.
func (p *Plugin) OpenURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if !slices.Contains(AllowedSchemes, strings.ToLower(u.Scheme)) {
		return fmt.Errorf("%w: %q", ErrSchemeNotAllowed, u.Scheme)
	}
	p.log.Info("opening url", zap.String("url", raw))
	if p.ctx != nil {
		p.browser(p.ctx, raw)
		return nil
	}
	name, args := openCommand(p.goos, raw, "")
	return p.run(name, args...)
}

// OpenPath opens an absolute path with the default application, or with
// the application named by with.
func (p *Plugin) OpenPath(path string, with string) error {
	if err := checkPath(path); err != nil {
		return err
	}
	p.log.Info("opening path", zap.String("path", path), zap.String("with", with))
	name, args := openCommand(p.goos, path, with)
	return p.run(name, args...)
}

// RevealItemInDir shows the path selected in the system file manager.
func (p *Plugin) RevealItemInDir(path string) error {
	if err := checkPath(path); err != nil {
		return err
	}
	name, args := revealCommand(p.goos, path)
	return p.run(name, args...)
}

func checkPath(path string) error {
	if !filepath.IsAbs(path) {
		return fmt.Errorf("path must be absolute: %q", path)
	}
	if _, err := os.Stat(path); err != nil {
		return err
	}
	return nil
}

// start launches the command without waiting for it to finish.
func (p *Plugin) start(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	configureCmd(cmd)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", name, err)
	}
	go func() {
		if err := cmd.Wait(); err != nil {
			p.log.Debug("opener command exited", zap.String("cmd", name), zap.Error(err))
		}
	}()
	return nil
}

func openCommand(goos, target, with string) (string, []string) {
	switch goos {
	case "darwin":
		if with != "" {
			return "open", []string{"-a", with, target}
		}
		return "open", []string{target}
	case "windows":
		if with != "" {
			return with, []string{target}
		}
		return "rundll32", []string{"url.dll,FileProtocolHandler", target}
	default:
		if with != "" {
			return with, []string{target}
		}
		return "xdg-open", []string{target}
	}
}

func revealCommand(goos, path string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{"-R", path}
	case "windows":
		return "explorer", []string{"/select," + path}
	default:
		// xdg has no "select"; open the containing directory
		return "xdg-open", []string{filepath.Dir(path)}
	}
}
