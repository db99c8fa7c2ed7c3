package windowstate

import (
	"context"

	"github.com/wailsapp/wails/v2/pkg/runtime"
)

// window is the subset of the Wails window runtime the plugin uses.
type window interface {
	Size(ctx context.Context) (int, int)
	Position(ctx context.Context) (int, int)
	IsMaximised(ctx context.Context) bool
	SetSize(ctx context.Context, w, h int)
	SetPosition(ctx context.Context, x, y int)
	Maximise(ctx context.Context)
}

type wailsWindow struct{}

func (wailsWindow) Size(ctx context.Context) (int, int) { return runtime.WindowGetSize(ctx) }
func (wailsWindow) Position(ctx context.Context) (int, int) { return runtime.WindowGetPosition(ctx) }
func (wailsWindow) IsMaximised(ctx context.Context) bool { return runtime.WindowIsMaximised(ctx) }
func (wailsWindow) SetSize(ctx context.Context, w, h int) { runtime.WindowSetSize(ctx, w, h) }
func (wailsWindow) SetPosition(ctx context.Context, x, y int) { runtime.WindowSetPosition(ctx, x, y) }
func (wailsWindow) Maximise(ctx context.Context) { runtime.WindowMaximise(ctx) }
