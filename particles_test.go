package easel

import (
	"image"
	"image/color"
	"testing"
)

func stillConfig(life float64) EmitterConfig {
	return EmitterConfig{Life: life, Size: 2, Colours: []color.RGBA{red}}
}

func TestBurstSpawnsAndPaints(t *testing.T) {
	s, _ := newTestScheduler(10)
	p := NewParticles(s, image.Pt(0, 0), 20, 20, 0)
	p.Burst(image.Pt(5, 5), 8, stillConfig(1))
	if got := p.Active(); got != 8 {
		t.Fatalf("Active() = %d, want 8", got)
	}
	// Zero speed keeps every particle on the burst point.
	if got := p.Surface().RGBA().RGBAAt(4, 4); got != red {
		t.Errorf("pixel at burst point = %v, want %v", got, red)
	}
}

func TestBurstSkipsDeadOnArrival(t *testing.T) {
	s, _ := newTestScheduler(10)
	p := NewParticles(s, image.Pt(0, 0), 20, 20, 0)
	p.Burst(image.Pt(5, 5), 5, stillConfig(0))
	if got := p.Active(); got != 0 {
		t.Errorf("Active() = %d, want 0 for non-positive lifetimes", got)
	}
}

func TestStepExpiresParticles(t *testing.T) {
	s, _ := newTestScheduler(10)
	p := NewParticles(s, image.Pt(0, 0), 20, 20, 0)
	p.Burst(image.Pt(5, 5), 4, stillConfig(0.5))
	p.step(0.25)
	if got := p.Active(); got != 4 {
		t.Fatalf("Active() after half life = %d, want 4", got)
	}
	p.step(0.3)
	if got := p.Active(); got != 0 {
		t.Fatalf("Active() past lifetime = %d, want 0", got)
	}
	if got := p.Surface().RGBA().RGBAAt(4, 4); got != (color.RGBA{}) {
		t.Errorf("pixel after expiry = %v, want cleared", got)
	}
}

func TestGravityMovesParticles(t *testing.T) {
	s, _ := newTestScheduler(10)
	p := NewParticles(s, image.Pt(0, 0), 40, 40, 0)
	cfg := stillConfig(10)
	cfg.Gravity = [2]float64{0, 10}
	p.Burst(image.Pt(10, 5), 3, cfg)
	p.step(1)
	p.step(1)
	// After two one-second steps under gy=10: y = 5 + 10 + 20 = 35.
	if got := p.Surface().RGBA().RGBAAt(9, 34); got != red {
		t.Errorf("pixel under gravity = %v, want %v", got, red)
	}
	if got := p.Surface().RGBA().RGBAAt(9, 4); got == red {
		t.Errorf("burst point still painted after falling")
	}
}

func TestFadeOutReducesAlpha(t *testing.T) {
	s, _ := newTestScheduler(10)
	p := NewParticles(s, image.Pt(0, 0), 20, 20, 0)
	cfg := stillConfig(1)
	cfg.FadeOut = true
	p.Burst(image.Pt(5, 5), 1, cfg)
	p.step(0.5)
	got := p.Surface().RGBA().RGBAAt(4, 4)
	if got.A == 0 || got.A >= 255 {
		t.Errorf("alpha at half life = %d, want partially faded", got.A)
	}
}

func TestSchedulerDrivesSteps(t *testing.T) {
	s, _ := newTestScheduler(10)
	p := NewParticles(s, image.Pt(0, 0), 20, 20, 0)
	p.Burst(image.Pt(5, 5), 3, stillConfig(0.25))
	for i := 0; i < 4; i++ {
		s.Step()
	}
	if got := p.Active(); got != 0 {
		t.Errorf("Active() after scheduled frames = %d, want 0", got)
	}
}

func TestRenderDirtiesOnlyParticleBounds(t *testing.T) {
	s, _ := newTestScheduler(10)
	p := NewParticles(s, image.Pt(0, 0), 40, 40, 0)
	p.Burst(image.Pt(5, 5), 4, stillConfig(10))
	burst := image.Rect(4, 4, 6, 6)
	for _, r := range p.takeDirty() {
		if !r.In(burst) {
			t.Fatalf("burst dirtied %v, want within %v", r, burst)
		}
	}
	// A falling particle dirties its old and new positions, nothing more.
	cfg := stillConfig(10)
	cfg.Gravity = [2]float64{0, 10}
	p2 := NewParticles(s, image.Pt(0, 0), 40, 40, 0)
	p2.Burst(image.Pt(10, 5), 1, cfg)
	p2.takeDirty()
	p2.step(1)
	want := image.Rect(9, 4, 11, 16)
	for _, r := range p2.takeDirty() {
		if !r.In(want) {
			t.Errorf("step dirtied %v, want within %v", r, want)
		}
	}
}

func TestStopClearsAndDeregisters(t *testing.T) {
	s, _ := newTestScheduler(10)
	p := NewParticles(s, image.Pt(0, 0), 20, 20, 0)
	p.Burst(image.Pt(5, 5), 6, stillConfig(5))
	p.Stop()
	if got := p.Active(); got != 0 {
		t.Errorf("Active() after Stop = %d, want 0", got)
	}
	if got := p.Surface().RGBA().RGBAAt(4, 4); got != (color.RGBA{}) {
		t.Errorf("pixel after Stop = %v, want cleared", got)
	}
	p.Stop()
	s.Step()
	defer func() {
		if recover() == nil {
			t.Fatal("Burst on stopped emitter did not panic")
		}
	}()
	p.Burst(image.Pt(5, 5), 1, stillConfig(1))
}
