// Package display presents an easel.GraphicsManager in a window using
// Ebitengine. It owns the real-time loop: every tick it dispatches key
// events, runs the per-frame callback, steps the scheduler, and uploads
// only the regions the manager reports as redrawn.
package display

import (
	"fmt"
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/phlox-arcade/easel"
)

// RunConfig configures Run. Zero values choose sensible defaults.
type RunConfig struct {
	Title string
	// Width and Height default to the manager's target size.
	Width, Height int
	// FPS is the logic tick rate; 0 keeps the scheduler's rate.
	FPS int
	// ShowFPS overlays actual FPS/TPS in the window corner.
	ShowFPS bool
	// Frame runs once per tick before the scheduler steps.
	Frame func()
	// Quit is checked once per tick; returning true ends Run cleanly.
	Quit func() bool
}

// KeyMode selects when a key binding fires.
type KeyMode int

const (
	// KeyHeld fires every frame the key is down.
	KeyHeld KeyMode = iota
	// KeyPressed fires once on the press.
	KeyPressed
	// KeyReleased fires once on the release.
	KeyReleased
	// KeyRepeat fires on the press, then after Delay frames, then every
	// Repeat frames while held.
	KeyRepeat
)

// KeyBinding attaches a function to a key.
type KeyBinding struct {
	Key    ebiten.Key
	Mode   KeyMode
	Delay  int // frames before the first repeat (KeyRepeat)
	Repeat int // frames between repeats (KeyRepeat)
	Fn     func()
}

// Game adapts a GraphicsManager to ebiten.Game. Construct with New, add
// key bindings, then call Run.
type Game struct {
	mgr   *easel.GraphicsManager
	sched *easel.Scheduler
	cfg   RunConfig

	frame    *ebiten.Image
	fpsBg    *ebiten.Image
	scratch  []byte
	bindings []*binding
	quit     bool
}

type binding struct {
	KeyBinding
	held int // frames held, KeyRepeat only
}

// New wraps a manager for presentation.
func New(mgr *easel.GraphicsManager, cfg RunConfig) *Game {
	sz := mgr.Target().Size()
	if cfg.Width == 0 {
		cfg.Width = sz.X
	}
	if cfg.Height == 0 {
		cfg.Height = sz.Y
	}
	return &Game{
		mgr:   mgr,
		sched: mgr.Scheduler(),
		cfg:   cfg,
		frame: ebiten.NewImage(sz.X, sz.Y),
	}
}

// Bind registers key bindings. Bindings fire in registration order.
func (g *Game) Bind(bs ...KeyBinding) {
	for _, b := range bs {
		if b.Mode == KeyRepeat && b.Repeat <= 0 {
			b.Repeat = 1
		}
		g.bindings = append(g.bindings, &binding{KeyBinding: b})
	}
}

// Run opens the window and blocks until quit.
func (g *Game) Run() error {
	if g.cfg.Title != "" {
		ebiten.SetWindowTitle(g.cfg.Title)
	}
	ebiten.SetWindowSize(g.cfg.Width, g.cfg.Height)
	fps := g.cfg.FPS
	if fps == 0 {
		fps = g.sched.FPS()
	} else {
		g.sched.SetFPS(float64(fps))
	}
	ebiten.SetTPS(fps)
	err := ebiten.RunGame(g)
	if err == errQuit {
		return nil
	}
	return err
}

var errQuit = fmt.Errorf("display: quit")

// Update implements ebiten.Game: input, frame callback, scheduler step.
func (g *Game) Update() error {
	if g.quit || (g.cfg.Quit != nil && g.cfg.Quit()) {
		return errQuit
	}
	g.dispatchKeys()
	if g.cfg.Frame != nil {
		g.cfg.Frame()
	}
	g.sched.Step()
	return nil
}

// Quit makes Run return cleanly at the end of the current tick.
func (g *Game) Quit() {
	g.quit = true
}

func (g *Game) dispatchKeys() {
	for _, b := range g.bindings {
		switch b.Mode {
		case KeyHeld:
			if ebiten.IsKeyPressed(b.Key) {
				b.Fn()
			}
		case KeyPressed:
			if inpututil.IsKeyJustPressed(b.Key) {
				b.Fn()
			}
		case KeyReleased:
			if inpututil.IsKeyJustReleased(b.Key) {
				b.Fn()
			}
		case KeyRepeat:
			if !ebiten.IsKeyPressed(b.Key) {
				b.held = 0
				continue
			}
			fire := b.held == 0
			if !fire && b.held >= b.Delay {
				fire = (b.held-b.Delay)%b.Repeat == 0
			}
			b.held++
			if fire {
				b.Fn()
			}
		}
	}
}

// Draw implements ebiten.Game: composites the manager and uploads only
// what changed.
func (g *Game) Draw(screen *ebiten.Image) {
	full, rects := g.mgr.Draw()
	target := g.mgr.Target()
	if full {
		g.frame.WritePixels(target.RGBA().Pix)
	} else {
		for _, r := range rects {
			g.upload(target.RGBA(), r)
		}
	}
	op := &ebiten.DrawImageOptions{}
	op.Blend = ebiten.BlendCopy
	screen.DrawImage(g.frame, op)
	if g.cfg.ShowFPS {
		g.drawFPS(screen)
	}
}

// upload copies one rectangle of the composited frame to the GPU image.
func (g *Game) upload(src *image.RGBA, r image.Rectangle) {
	w, h := r.Dx(), r.Dy()
	need := 4 * w * h
	if cap(g.scratch) < need {
		g.scratch = make([]byte, need)
	}
	buf := g.scratch[:need]
	for y := 0; y < h; y++ {
		row := src.PixOffset(r.Min.X, r.Min.Y+y)
		copy(buf[4*w*y:4*w*(y+1)], src.Pix[row:row+4*w])
	}
	g.frame.SubImage(r).(*ebiten.Image).WritePixels(buf)
}

func (g *Game) drawFPS(screen *ebiten.Image) {
	if g.fpsBg == nil {
		// Semi-transparent backing so the text stays readable.
		g.fpsBg = ebiten.NewImage(100, 16)
		g.fpsBg.Fill(color.RGBA{0, 0, 0, 128})
	}
	screen.DrawImage(g.fpsBg, nil)
	ebitenutil.DebugPrint(screen, fmt.Sprintf("FPS: %.1f TPS: %.1f",
		ebiten.ActualFPS(), ebiten.ActualTPS()))
}

// Layout implements ebiten.Game.
func (g *Game) Layout(int, int) (int, int) {
	sz := g.mgr.Target().Size()
	return sz.X, sz.Y
}
