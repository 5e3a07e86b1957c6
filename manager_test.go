package easel

import (
	"image"
	"image/color"
	"testing"
)

func testManager(w, h int) *GraphicsManager {
	s, _ := newTestScheduler(10)
	return NewGraphicsManager(s, w, h)
}

func solidGraphic(c color.RGBA, r image.Rectangle, layer Layer) *Graphic {
	g := NewGraphic(NewSolidSurface(c, r.Dx(), r.Dy()), r.Min, layer)
	return g
}

func drawAll(t *testing.T, m *GraphicsManager) {
	t.Helper()
	m.Draw()
}

// --- Draw contract ---

func TestDrawSecondTimeIsFalsy(t *testing.T) {
	m := testManager(20, 20)
	m.Add(solidGraphic(red, image.Rect(0, 0, 5, 5), 0))
	full, rects := m.Draw()
	if !full && len(rects) == 0 {
		t.Fatal("first draw should report drawn regions")
	}
	full, rects = m.Draw()
	if full || rects != nil {
		t.Errorf("second draw = (%v, %v), want nothing to do", full, rects)
	}
}

func TestDrawPaintsGraphic(t *testing.T) {
	m := testManager(20, 20)
	m.Add(solidGraphic(red, image.Rect(2, 2, 7, 7), 0))
	drawAll(t, m)
	if got := m.Target().RGBA().RGBAAt(3, 3); got != red {
		t.Errorf("pixel (3,3) = %v, want red", got)
	}
	if got := m.Target().RGBA().RGBAAt(10, 10); got != (color.RGBA{}) {
		t.Errorf("pixel (10,10) = %v, want transparent", got)
	}
}

func TestMoveRedrawsBothFootprints(t *testing.T) {
	m := testManager(30, 30)
	g := solidGraphic(red, image.Rect(0, 0, 5, 5), 0)
	m.Add(g)
	drawAll(t, m)
	g.MoveTo(10, 10)
	full, rects := m.Draw()
	if full {
		t.Fatal("a single move should redraw incrementally")
	}
	covered := func(p image.Point) bool {
		for _, r := range rects {
			if p.In(r) {
				return true
			}
		}
		return false
	}
	if !covered(image.Pt(1, 1)) || !covered(image.Pt(11, 11)) {
		t.Errorf("redrawn rects %v should cover old and new positions", rects)
	}
	if got := m.Target().RGBA().RGBAAt(1, 1); got != (color.RGBA{}) {
		t.Errorf("old position = %v, want cleared", got)
	}
	if got := m.Target().RGBA().RGBAAt(11, 11); got != red {
		t.Errorf("new position = %v, want red", got)
	}
}

func TestVisibilityToggleRedraws(t *testing.T) {
	m := testManager(20, 20)
	g := solidGraphic(red, image.Rect(0, 0, 5, 5), 0)
	m.Add(g)
	drawAll(t, m)
	g.Visible = false
	full, rects := m.Draw()
	if full || len(rects) == 0 {
		t.Fatalf("hiding = (%v, %v), want incremental redraw", full, rects)
	}
	if got := m.Target().RGBA().RGBAAt(1, 1); got != (color.RGBA{}) {
		t.Errorf("hidden graphic's area = %v, want cleared", got)
	}
	g.Visible = true
	drawAll(t, m)
	if got := m.Target().RGBA().RGBAAt(1, 1); got != red {
		t.Errorf("reshown graphic's area = %v, want red", got)
	}
}

func TestRemoveClearsArea(t *testing.T) {
	m := testManager(20, 20)
	g := solidGraphic(red, image.Rect(0, 0, 5, 5), 0)
	m.Add(g)
	drawAll(t, m)
	m.Remove(g)
	if g.Manager() != nil {
		t.Error("removed graphic should have no manager")
	}
	drawAll(t, m)
	if got := m.Target().RGBA().RGBAAt(1, 1); got != (color.RGBA{}) {
		t.Errorf("removed graphic's area = %v, want cleared", got)
	}
	// Removing again is a silent no-op.
	m.Remove(g)
}

func TestLayerOrder(t *testing.T) {
	m := testManager(20, 20)
	// Lower layers draw first, so the higher layer wins the pixel.
	m.Add(solidGraphic(red, image.Rect(0, 0, 10, 10), 0))
	m.Add(solidGraphic(blue, image.Rect(0, 0, 10, 10), 1))
	drawAll(t, m)
	if got := m.Target().RGBA().RGBAAt(5, 5); got != blue {
		t.Errorf("pixel = %v, want the higher layer on top", got)
	}
}

func TestSetLayerReorders(t *testing.T) {
	m := testManager(20, 20)
	r := solidGraphic(red, image.Rect(0, 0, 10, 10), 0)
	b := solidGraphic(blue, image.Rect(0, 0, 10, 10), 1)
	m.Add(r, b)
	drawAll(t, m)
	r.SetLayer(2)
	m.Dirty()
	drawAll(t, m)
	if got := m.Target().RGBA().RGBAAt(5, 5); got != red {
		t.Errorf("pixel = %v, want red after moving it above", got)
	}
}

func TestOcclusionCulling(t *testing.T) {
	m := testManager(20, 20)
	back := solidGraphic(red, image.Rect(0, 0, 10, 10), 0)
	front := solidGraphic(blue, image.Rect(0, 0, 10, 10), 1)
	m.Add(back, front)
	drawAll(t, m)
	// Redraw a region fully under the opaque front graphic: the back one
	// must not surface through.
	m.Dirty(image.Rect(2, 2, 8, 8))
	drawAll(t, m)
	if got := m.Target().RGBA().RGBAAt(5, 5); got != blue {
		t.Errorf("pixel = %v, want the opaque front graphic", got)
	}
}

func TestFullRedrawThreshold(t *testing.T) {
	m := testManager(200, 200)
	m.Add(solidGraphic(red, image.Rect(0, 0, 200, 200), 0))
	drawAll(t, m)
	// Far more disjoint dirty rects than the incremental path allows.
	for i := 0; i < 70; i++ {
		x := (i % 10) * 20
		y := (i / 10) * 20
		m.Dirty(image.Rect(x, y, x+1, y+1))
	}
	full, _ := m.Draw()
	if !full {
		t.Error("draw with 70 disjoint dirty rects should fall back to a full redraw")
	}
}

func TestDirtyNoArgsMarksEverything(t *testing.T) {
	m := testManager(20, 20)
	m.Add(solidGraphic(red, image.Rect(0, 0, 20, 20), 0))
	drawAll(t, m)
	m.Dirty()
	full, rects := m.Draw()
	if full {
		t.Fatal("one whole-surface rect still merges to a single incremental rect")
	}
	if len(rects) != 1 || rects[0] != m.Target().Bounds() {
		t.Errorf("rects = %v, want the whole target", rects)
	}
}

// --- Membership ---

func TestAddReparents(t *testing.T) {
	m1 := testManager(20, 20)
	m2 := testManager(20, 20)
	g := solidGraphic(red, image.Rect(0, 0, 5, 5), 0)
	m1.Add(g)
	m2.Add(g)
	if g.Manager() != m2 {
		t.Error("adding to a second manager should reparent")
	}
	drawAll(t, m1)
	if got := m1.Target().RGBA().RGBAAt(1, 1); got != (color.RGBA{}) {
		t.Errorf("first manager still draws the graphic: %v", got)
	}
}

func TestAddOnOverlayLayerPanics(t *testing.T) {
	m := testManager(20, 20)
	defer func() {
		if recover() == nil {
			t.Error("adding a graphic on LayerOverlay should panic")
		}
	}()
	m.Add(solidGraphic(red, image.Rect(0, 0, 5, 5), LayerOverlay))
}

func TestGroupSpreadsIntoAdd(t *testing.T) {
	m := testManager(20, 20)
	gr := NewGroup(
		solidGraphic(red, image.Rect(0, 0, 5, 5), 0),
		solidGraphic(blue, image.Rect(10, 0, 15, 5), 0),
	)
	m.Add(gr...)
	drawAll(t, m)
	if got := m.Target().RGBA().RGBAAt(1, 1); got != red {
		t.Errorf("first group member not drawn: %v", got)
	}
	if got := m.Target().RGBA().RGBAAt(11, 1); got != blue {
		t.Errorf("second group member not drawn: %v", got)
	}
	gr.MoveBy(0, 10)
	if gr.Rect() != image.Rect(0, 10, 15, 15) {
		t.Errorf("group Rect = %v, want the union moved down", gr.Rect())
	}
}

// --- Fading ---

func TestFadeTo(t *testing.T) {
	m := testManager(20, 20)
	m.Add(solidGraphic(red, image.Rect(0, 0, 20, 20), 0))
	drawAll(t, m)
	black := color.RGBA{A: 255}
	m.FadeTo(black, 0.5)
	if !m.Fading() {
		t.Fatal("FadeTo should start a fade")
	}
	s := m.Scheduler()
	for i := 0; i < 10; i++ {
		s.Step()
		drawAll(t, m)
	}
	if m.Fading() {
		t.Error("fade should have finished")
	}
	if ov := m.Overlay(); ov == nil || ov.Colour() != black {
		t.Fatalf("overlay colour = %v, want %v", m.Overlay(), black)
	}
	if got := m.Target().RGBA().RGBAAt(5, 5); got != black {
		t.Errorf("pixel = %v, want fully faded to black", got)
	}
}

func TestFadeOverlayDrawsAboveEverything(t *testing.T) {
	m := testManager(20, 20)
	m.Add(solidGraphic(red, image.Rect(0, 0, 20, 20), 5))
	drawAll(t, m)
	m.FadeTo(color.RGBA{A: 255}, 0.1)
	s := m.Scheduler()
	for i := 0; i < 5; i++ {
		s.Step()
		drawAll(t, m)
	}
	if got := m.Target().RGBA().RGBAAt(5, 5); got != (color.RGBA{A: 255}) {
		t.Errorf("pixel = %v, want the overlay above layer 5", got)
	}
}

func TestCancelFade(t *testing.T) {
	m := testManager(20, 20)
	m.Add(solidGraphic(red, image.Rect(0, 0, 20, 20), 0))
	drawAll(t, m)
	m.FadeTo(color.RGBA{A: 255}, 1)
	m.Scheduler().Step()
	m.CancelFade()
	if m.Fading() || m.Overlay() != nil {
		t.Fatal("CancelFade should stop the fade and drop the overlay")
	}
	for i := 0; i < 20; i++ {
		m.Scheduler().Step()
	}
	drawAll(t, m)
	if got := m.Target().RGBA().RGBAAt(5, 5); got != red {
		t.Errorf("pixel = %v, want the fade undone", got)
	}
}

func TestFadeIn(t *testing.T) {
	m := testManager(20, 20)
	m.Add(solidGraphic(red, image.Rect(0, 0, 20, 20), 0))
	drawAll(t, m)
	m.FadeTo(color.RGBA{A: 255}, 0.2)
	s := m.Scheduler()
	for i := 0; i < 5; i++ {
		s.Step()
		drawAll(t, m)
	}
	m.FadeIn(0.2)
	for i := 0; i < 5; i++ {
		s.Step()
		drawAll(t, m)
	}
	if m.Overlay() != nil {
		t.Error("FadeIn should remove the overlay when done")
	}
	drawAll(t, m)
	if got := m.Target().RGBA().RGBAAt(5, 5); got != red {
		t.Errorf("pixel = %v, want the scene visible again", got)
	}
}

// --- Nesting ---

func TestNestedManagerComposites(t *testing.T) {
	s, _ := newTestScheduler(10)
	parent := NewGraphicsManager(s, 40, 40)
	child := NewGraphicsManager(s, 10, 10)
	child.Add(solidGraphic(red, image.Rect(0, 0, 10, 10), 0))
	child.MoveTo(5, 5)
	parent.Add(child)
	drawAll(t, parent)
	if got := parent.Target().RGBA().RGBAAt(7, 7); got != red {
		t.Errorf("pixel = %v, want the child's content composited in", got)
	}
}

func TestNestedManagerPropagatesDirt(t *testing.T) {
	s, _ := newTestScheduler(10)
	parent := NewGraphicsManager(s, 40, 40)
	child := NewGraphicsManager(s, 10, 10)
	g := solidGraphic(red, image.Rect(0, 0, 5, 5), 0)
	child.Add(g)
	parent.Add(child)
	drawAll(t, parent)
	full, rects := parent.Draw()
	if full || rects != nil {
		t.Fatalf("settled nest = (%v, %v), want nothing to do", full, rects)
	}
	g.MoveTo(5, 5)
	full, rects = parent.Draw()
	if full || len(rects) == 0 {
		t.Fatalf("child change = (%v, %v), want incremental parent redraw", full, rects)
	}
	if got := parent.Target().RGBA().RGBAAt(7, 7); got != red {
		t.Errorf("pixel = %v, want the moved child content", got)
	}
}
