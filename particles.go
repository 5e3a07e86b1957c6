package easel

import (
	"image"
	"image/color"
	"math"
	"math/rand/v2"
)

// EmitterConfig controls particle bursts.
type EmitterConfig struct {
	// Life is the mean particle lifetime in seconds; individual particles
	// vary by up to LifeVar around it.
	Life    float64
	LifeVar float64
	// Speed is the mean initial speed in pixels per second.
	Speed    float64
	SpeedVar float64
	// Gravity is a constant acceleration in pixels per second squared.
	Gravity [2]float64
	// Size is the particle square's side length in pixels.
	Size int
	// FadeOut makes particles lose alpha linearly over their lifetime.
	FadeOut bool
	// Colours are candidate particle colours, chosen uniformly per
	// particle.
	Colours []color.RGBA
}

type particle struct {
	x, y   float64
	vx, vy float64
	gx, gy float64
	life   float64
	max    float64
	size   int
	fade   bool
	col    color.RGBA
}

// Particles is a graphic that renders short-lived particle squares into
// its own surface. It steps itself once per frame through the scheduler
// it was created with, so it animates without any per-frame calls from
// the owner.
type Particles struct {
	Graphic

	sched   *Scheduler
	stepID  TimeoutID
	pool    []particle
	drawn   image.Rectangle // region covered by the last render
	stopped bool
}

// NewParticles constructs a particle graphic covering a w x h region at
// pos. It registers a per-frame step with sched; call Stop when done.
func NewParticles(sched *Scheduler, pos image.Point, w, h int, layer Layer) *Particles {
	p := &Particles{sched: sched}
	p.Graphic = *NewGraphic(NewSurface(w, h), pos, layer)
	p.stepID = sched.AddTimeout(func() bool {
		p.step(1 / float64(sched.FPS()))
		return !p.stopped
	}, FrameCount(1), Delay{})
	return p
}

// Active returns the number of live particles.
func (p *Particles) Active() int { return len(p.pool) }

// Stop deregisters the per-frame step and clears all particles.
func (p *Particles) Stop() {
	if p.stopped {
		return
	}
	p.stopped = true
	p.sched.RemoveTimeout(p.stepID)
	p.pool = p.pool[:0]
	p.render()
}

// Burst spawns n particles at a point in surface-local coordinates, with
// directions spread uniformly over the full circle.
func (p *Particles) Burst(at image.Point, n int, cfg EmitterConfig) {
	if p.stopped {
		panic("easel: Burst on stopped Particles")
	}
	size := cfg.Size
	if size <= 0 {
		size = 1
	}
	for i := 0; i < n; i++ {
		angle := rand.Float64() * 2 * math.Pi
		speed := cfg.Speed + (rand.Float64()*2-1)*cfg.SpeedVar
		life := cfg.Life + (rand.Float64()*2-1)*cfg.LifeVar
		if life <= 0 {
			continue
		}
		col := color.RGBA{R: 255, G: 255, B: 255, A: 255}
		if len(cfg.Colours) > 0 {
			col = cfg.Colours[rand.IntN(len(cfg.Colours))]
		}
		sin, cos := math.Sincos(angle)
		p.pool = append(p.pool, particle{
			x: float64(at.X), y: float64(at.Y),
			vx: cos * speed, vy: sin * speed,
			gx: cfg.Gravity[0], gy: cfg.Gravity[1],
			life: life, max: life,
			size: size, fade: cfg.FadeOut, col: col,
		})
	}
	p.step(0)
}

// step advances all particles by dt seconds and re-renders.
func (p *Particles) step(dt float64) {
	if len(p.pool) == 0 && dt > 0 {
		return
	}
	for i := 0; i < len(p.pool); {
		pt := &p.pool[i]
		pt.life -= dt
		if pt.life <= 0 {
			// swap-remove keeps the pool dense
			p.pool[i] = p.pool[len(p.pool)-1]
			p.pool = p.pool[:len(p.pool)-1]
			continue
		}
		pt.vx += pt.gx * dt
		pt.vy += pt.gy * dt
		pt.x += pt.vx * dt
		pt.y += pt.vy * dt
		i++
	}
	p.render()
}

// render repaints the live particles, dirtying only the union of the
// previous and current particle regions so a burst stays incremental.
func (p *Particles) render() {
	sfc := p.Surface()
	bounds := sfc.Bounds()
	if !p.drawn.Empty() {
		sfc.Fill(color.RGBA{}, p.drawn)
	}
	var cur image.Rectangle
	for i := range p.pool {
		pt := &p.pool[i]
		col := pt.col
		if pt.fade {
			col.A = uint8(float64(col.A) * pt.life / pt.max)
		}
		half := pt.size / 2
		r := image.Rect(
			Round(pt.x)-half, Round(pt.y)-half,
			Round(pt.x)-half+pt.size, Round(pt.y)-half+pt.size,
		).Intersect(bounds)
		if !r.Empty() {
			sfc.Fill(col, r)
			cur = cur.Union(r)
		}
	}
	if p.drawn.Empty() && cur.Empty() {
		return
	}
	p.DirtyLocal(p.drawn, cur)
	p.drawn = cur
}
