// Package softview presents the software rasterizer through Ebitengine,
// which also runs in the browser when built for js/wasm.
package softview

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"globedrive/internal/app"
	"globedrive/internal/raster"
	"globedrive/internal/scene"
)

const (
	repeatDelay    = 30 // ticks before a held key repeats
	repeatInterval = 3
)

var arrowKeys = map[ebiten.Key]app.Key{
	ebiten.KeyArrowUp:    app.KeyUp,
	ebiten.KeyArrowDown:  app.KeyDown,
	ebiten.KeyArrowLeft:  app.KeyLeft,
	ebiten.KeyArrowRight: app.KeyRight,
}

// View is a scene.Renderer that rasterizes on the CPU and uploads the
// result to an ebiten.Image every frame.
type View struct {
	*raster.Canvas
}

func New(cfg scene.Config) *View {
	return &View{Canvas: raster.NewCanvas(cfg.Window.Width, cfg.Window.Height)}
}

// game adapts a controller and view to ebiten.Game.
type game struct {
	view   *View
	ctrl   *app.Controller
	reload <-chan scene.Config
	frame  *ebiten.Image
	touch  []ebiten.TouchID
}

// Run opens the window (or canvas, in the browser) and blocks until it is
// closed. reload may be nil.
func Run(v *View, c *app.Controller, cfg scene.Config, reload <-chan scene.Config) error {
	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	g := &game{view: v, ctrl: c, reload: reload}
	if err := ebiten.RunGame(g); err != nil {
		return fmt.Errorf("softview: %w", err)
	}
	return nil
}

func (g *game) Update() error {
	select {
	case cfg, ok := <-g.reload:
		if ok {
			g.ctrl.Reconfigure(cfg)
		} else {
			g.reload = nil
		}
	default:
	}

	for k, key := range arrowKeys {
		if pressedOrRepeated(k) {
			g.ctrl.KeyDown(key)
		}
	}

	g.touch = inpututil.AppendJustPressedTouchIDs(g.touch[:0])
	if len(g.touch) > 0 {
		x, y := ebiten.TouchPosition(g.touch[0])
		g.ctrl.TouchStart([]app.Point{{X: float64(x), Y: float64(y)}})
	} else if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		g.ctrl.TouchStart([]app.Point{{X: float64(x), Y: float64(y)}})
	}
	return nil
}

func pressedOrRepeated(k ebiten.Key) bool {
	d := inpututil.KeyPressDuration(k)
	return d == 1 || (d >= repeatDelay && (d-repeatDelay)%repeatInterval == 0)
}

func (g *game) Draw(screen *ebiten.Image) {
	g.ctrl.Frame()

	img := g.view.Image
	b := img.Bounds()
	if g.frame == nil || g.frame.Bounds().Dx() != b.Dx() || g.frame.Bounds().Dy() != b.Dy() {
		if g.frame != nil {
			g.frame.Deallocate()
		}
		g.frame = ebiten.NewImage(b.Dx(), b.Dy())
	}
	g.frame.WritePixels(img.Pix)
	screen.DrawImage(g.frame, nil)
}

// Layout reports the outside size to the controller, so the canvas always
// matches the window one to one.
func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.ctrl.Resize(outsideWidth, outsideHeight)
	w, h := g.ctrl.Size()
	return w, h
}

var _ scene.Renderer = (*View)(nil)
