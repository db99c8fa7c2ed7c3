// Package windowstate remembers the main window geometry between runs.
package windowstate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/xcenweb/delin-ocr/internal/plugin"
	"go.uber.org/zap"
)

// FileName is the state file inside the data dir.
const FileName = ".window-state.json"

// State is the persisted window geometry. X, Y, Width and Height describe
// the normal (not maximised) window.
type State struct {
	X         int  `json:"x"`
	Y         int  `json:"y"`
	Width     int  `json:"width"`
	Height    int  `json:"height"`
	Maximised bool `json:"maximised"`
}

// Valid reports whether the state can be applied to a window.
func (s State) Valid() bool {
	return s.Width > 0 && s.Height > 0
}

// Plugin is the window-state service.
type Plugin struct {
	path     string
	log      *zap.Logger
	win      window
	autosave time.Duration

	mu    sync.Mutex
	ctx   context.Context
	state State

	stopChan chan struct{}
	done     chan struct{}
}

// New returns the window-state plugin. A positive autosave interval also
// saves the state periodically while the app runs.
func New(h *plugin.Host, autosave time.Duration) *Plugin {
	return &Plugin{
		path:     filepath.Join(h.DataDir, FileName),
		log:      h.Logger(plugin.WindowState),
		win:      wailsWindow{},
		autosave: autosave,
	}
}

func (p *Plugin) Name() string { return plugin.WindowState }

// Init loads the saved state. A missing or unreadable file leaves the
// window at its configured defaults.
func (p *Plugin) Init() error {
	data, err := os.ReadFile(p.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		p.log.Warn("cannot read window state", zap.Error(err))
		return nil
	}
	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		p.log.Warn("ignoring corrupt window state", zap.Error(err))
		return nil
	}
	if !s.Valid() {
		p.log.Warn("ignoring invalid window state", zap.Int("width", s.Width), zap.Int("height", s.Height))
		return nil
	}
	p.state = s
	return nil
}

// State returns the last loaded or saved state.
func (p *Plugin) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Configure applies the saved size before the window is created.
func (p *Plugin) Configure(app *options.App) {
	s := p.State()
	if !s.Valid() {
		return
	}
	app.Width = max(s.Width, app.MinWidth)
	app.Height = max(s.Height, app.MinHeight)
	if s.Maximised {
		app.WindowStartState = options.Maximised
	}
}

// Startup restores the window position and starts autosaving.
func (p *Plugin) Startup(ctx context.Context) {
	p.mu.Lock()
	p.ctx = ctx
	s := p.state
	p.mu.Unlock()

	if s.Valid() && !s.Maximised {
		p.win.SetPosition(ctx, s.X, s.Y)
	}
	if p.autosave > 0 {
		p.stopChan = make(chan struct{})
		p.done = make(chan struct{})
		go p.loop(p.autosave)
	}
}

// BeforeClose saves the state while the window still exists.
func (p *Plugin) BeforeClose(ctx context.Context) {
	if err := p.save(ctx); err != nil {
		p.log.Warn("failed to save window state", zap.Error(err))
	}
}

// Shutdown stops autosaving.
func (p *Plugin) Shutdown(ctx context.Context) error {
	if p.stopChan != nil {
		close(p.stopChan)
		<-p.done
		p.stopChan = nil
	}
	return nil
}

// SaveWindowState captures and writes the current window state.
func (p *Plugin) SaveWindowState() error {
	p.mu.Lock()
	ctx := p.ctx
	p.mu.Unlock()
	if ctx == nil {
		return errors.New("window-state: application not started")
	}
	return p.save(ctx)
}

// RestoreState applies the saved state to the running window.
func (p *Plugin) RestoreState() error {
	p.mu.Lock()
	ctx, s := p.ctx, p.state
	p.mu.Unlock()
	if ctx == nil {
		return errors.New("window-state: application not started")
	}
	if !s.Valid() {
		return nil
	}
	p.win.SetSize(ctx, s.Width, s.Height)
	p.win.SetPosition(ctx, s.X, s.Y)
	if s.Maximised {
		p.win.Maximise(ctx)
	}
	return nil
}

func (p *Plugin) loop(interval time.Duration) {
	defer close(p.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.mu.Lock()
			ctx := p.ctx
			p.mu.Unlock()
			if err := p.save(ctx); err != nil {
				p.log.Debug("autosave failed", zap.Error(err))
			}
		case <-p.stopChan:
			return
		}
	}
}

// save captures the window geometry. While maximised only the flag is
// updated so the normal geometry survives.
func (p *Plugin) save(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	s := p.state
	if p.win.IsMaximised(ctx) {
		s.Maximised = true
	} else {
		s.Maximised = false
		s.Width, s.Height = p.win.Size(ctx)
		s.X, s.Y = p.win.Position(ctx)
	}
	if !s.Valid() {
		return fmt.Errorf("window-state: refusing to save %dx%d", s.Width, s.Height)
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p.path), 0755); err != nil {
		return err
	}
	tmp := p.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	if err := os.Rename(tmp, p.path); err != nil {
		return err
	}
	p.state = s
	return nil
}
