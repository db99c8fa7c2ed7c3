// Package share hands text and scanned files to other applications. On the
// desktop the hand-off goes through the system clipboard.
package share

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/xcenweb/delin-ocr/internal/plugin"
	"github.com/xcenweb/delin-ocr/internal/plugin/filesystem"
	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"
	"go.uber.org/zap"
)

// Share methods reported in Result.
const (
	MethodText     = "clipboard-text"
	MethodFileList = "clipboard-files"
)

var errFileListUnsupported = errors.New("file list clipboard not supported on this platform")

// ErrNotStarted is returned when sharing before the window exists.
var ErrNotStarted = errors.New("share: application not started")

// Result describes a completed share.
type Result struct {
	ID     string `json:"id"`
	Method string `json:"method"`
	Count  int    `json:"count"`
}

// Plugin is the share service.
type Plugin struct {
	log   *zap.Logger
	ctx   context.Context
	scope *filesystem.Plugin

	setText  func(ctx context.Context, text string) error
	setFiles func(paths []string) error
}

// New returns the share plugin. Shared files must live in the data dir.
func New(h *plugin.Host) *Plugin {
	return &Plugin{
		log:      h.Logger(plugin.Share),
		scope:    filesystem.New(h),
		setText:  wailsRuntime.ClipboardSetText,
		setFiles: writeFileList,
	}
}

func (p *Plugin) Name() string { return plugin.Share }

// Init prepares the path scope.
func (p *Plugin) Init() error {
	if err := p.scope.Init(); err != nil {
		return fmt.Errorf("share: %w", err)
	}
	return nil
}

// Startup keeps the runtime context for clipboard calls.
func (p *Plugin) Startup(ctx context.Context) {
	p.ctx = ctx
}

// ShareText puts text on the clipboard.
func (p *Plugin) ShareText(text string) (*Result, error) {
	if p.ctx == nil {
		return nil, ErrNotStarted
	}
	if err := p.setText(p.ctx, text); err != nil {
		return nil, fmt.Errorf("share text: %w", err)
	}
	return p.done(MethodText, 1), nil
}

// ShareFiles shares files given relative to the data dir. Where the platform
// clipboard cannot carry a file list, the absolute paths are shared as text,
// one per line.
func (p *Plugin) ShareFiles(paths []string) (*Result, error) {
	if len(paths) == 0 {
		return nil, errors.New("share: no files")
	}
	if p.ctx == nil {
		return nil, ErrNotStarted
	}

	abs := make([]string, 0, len(paths))
	for _, rel := range paths {
		if !p.scope.Exists(rel) {
			return nil, fmt.Errorf("share: %q does not exist", rel)
		}
		a, err := p.scope.Resolve(rel)
		if err != nil {
			return nil, fmt.Errorf("share: %w", err)
		}
		abs = append(abs, a)
	}

	err := p.setFiles(abs)
	if err == nil {
		return p.done(MethodFileList, len(abs)), nil
	}
	if !errors.Is(err, errFileListUnsupported) {
		p.log.Warn("file list clipboard failed, sharing paths as text", zap.Error(err))
	}
	if err := p.setText(p.ctx, strings.Join(abs, "\n")); err != nil {
		return nil, fmt.Errorf("share files: %w", err)
	}
	return p.done(MethodText, len(abs)), nil
}

func (p *Plugin) done(method string, count int) *Result {
	r := &Result{ID: uuid.NewString(), Method: method, Count: count}
	p.log.Info("shared", zap.String("id", r.ID), zap.String("method", method), zap.Int("count", count))
	return r
}
