package easel

import (
	"image"
	"image/color"
	"sort"
)

// maxDirtyRects is the merged dirty rectangle count above which a frame
// falls back to a full redraw.
const maxDirtyRects = 60

// GraphicsManager owns a set of graphics split across draw layers and
// composites them onto a render target with incremental dirty-rectangle
// redraw. Lower layers draw first and so appear behind higher ones; the
// fade overlay sits on a reserved layer and always draws last.
//
// A manager is itself a Graphic, so managers nest: a child manager
// composites its own contents in its preDraw and then behaves like any
// other graphic of its parent.
type GraphicsManager struct {
	Graphic

	sched  *Scheduler
	target *Surface

	layers map[Layer][]Item
	order  []Layer // draw order: ascending, overlay last

	// dirty regions of the render target, local coordinates
	selfDirty []image.Rectangle

	overlay *Colour
	fading  bool
	fadeID  TimeoutID
}

// NewGraphicsManager constructs a manager compositing onto a fresh
// transparent w x h render target. The scheduler drives fades and may be
// shared between managers.
func NewGraphicsManager(sched *Scheduler, w, h int) *GraphicsManager {
	target := NewSurface(w, h)
	m := &GraphicsManager{
		sched:  sched,
		target: target,
		layers: make(map[Layer][]Item),
	}
	m.Graphic = *NewGraphic(target, image.Point{}, 0)
	// A fresh manager draws everything once.
	m.selfDirty = append(m.selfDirty, target.Bounds())
	return m
}

// Scheduler returns the scheduler driving this manager's fades.
func (m *GraphicsManager) Scheduler() *Scheduler { return m.sched }

// Target returns the render target surface.
func (m *GraphicsManager) Target() *Surface { return m.target }

func (m *GraphicsManager) surfaceOf() *Surface { return m.target }

// Layers returns the occupied layers in draw order.
func (m *GraphicsManager) Layers() []Layer {
	return append([]Layer(nil), m.order...)
}

// Overlay returns the fade overlay, or nil when no fade is active.
func (m *GraphicsManager) Overlay() *Colour { return m.overlay }

// Fading reports whether a fade is currently running.
func (m *GraphicsManager) Fading() bool { return m.fading }

func layerDrawsBefore(a, b Layer) bool {
	// The overlay layer is reserved and always draws last.
	if a == LayerOverlay {
		return false
	}
	if b == LayerOverlay {
		return true
	}
	return a < b
}

// Add registers graphics with this manager on their own layers. A graphic
// already owned by another manager is detached from it first. The overlay
// layer is reserved.
func (m *GraphicsManager) Add(items ...Item) {
	for _, it := range items {
		if it.graphic().layer == LayerOverlay {
			panic("easel: LayerOverlay is reserved for the fade overlay")
		}
		m.addItem(it)
	}
}

func (m *GraphicsManager) addItem(it Item) {
	g := it.graphic()
	if g.manager == m {
		return
	}
	if g.manager != nil {
		g.manager.Remove(it)
	}
	g.manager = m
	g.self = it
	// Forces the footprint dirty on the next draw.
	g.wasVisible = false
	l := g.layer
	if _, ok := m.layers[l]; !ok {
		m.order = append(m.order, l)
		sort.Slice(m.order, func(i, j int) bool {
			return layerDrawsBefore(m.order[i], m.order[j])
		})
	}
	m.layers[l] = append(m.layers[l], it)
}

// Remove detaches graphics from this manager, marking their footprints
// dirty. Removing a graphic that is not here is a no-op.
func (m *GraphicsManager) Remove(items ...Item) {
	for _, it := range items {
		g := it.graphic()
		if g.manager != m {
			continue
		}
		l := g.layer
		members := m.layers[l]
		for i, o := range members {
			if o.graphic() == g {
				m.layers[l] = append(members[:i], members[i+1:]...)
				break
			}
		}
		if len(m.layers[l]) == 0 {
			delete(m.layers, l)
			for i, ol := range m.order {
				if ol == l {
					m.order = append(m.order[:i], m.order[i+1:]...)
					break
				}
			}
		}
		g.manager = nil
		m.selfDirty = append(m.selfDirty, g.lastPostrotRect, g.postrotRect)
		g.dirty = nil
	}
}

// Dirty marks regions of the render target (local coordinates) as needing
// redraw; with no arguments the whole target is marked.
func (m *GraphicsManager) Dirty(rects ...image.Rectangle) {
	if len(rects) == 0 {
		m.selfDirty = append(m.selfDirty, m.target.Bounds())
		return
	}
	m.selfDirty = append(m.selfDirty, rects...)
}

// preDraw composites this manager's contents, then forwards the drawn
// regions to the parent as dirty rectangles in parent coordinates.
func (m *GraphicsManager) preDraw() {
	full, rects := m.Draw()
	if full {
		m.dirty = append(m.dirty, m.postrotRect)
		return
	}
	off := m.postrotRect.Min
	for _, r := range rects {
		m.dirty = append(m.dirty, r.Add(off))
	}
}

// Draw composites every visible graphic onto the render target,
// redrawing only what changed. It returns (true, nil) after a full
// redraw, (false, rects) after an incremental one, and (false, nil) when
// nothing needed drawing.
func (m *GraphicsManager) Draw() (full bool, rects []image.Rectangle) {
	dest := m.target
	bounds := dest.Bounds()
	if debugMode {
		debugCheckLayer(m)
	}

	items := m.drawOrder()
	for _, it := range items {
		it.preDraw()
	}

	dirty := m.selfDirty
	m.selfDirty = nil
	for _, it := range items {
		g := it.graphic()
		dirty = append(dirty, g.takeDirty()...)
		if g.Visible != g.wasVisible {
			dirty = append(dirty, g.lastPostrotRect, g.postrotRect)
		}
		g.wasVisible = g.Visible
	}

	n := 0
	for _, r := range dirty {
		if r = r.Intersect(bounds); !r.Empty() {
			dirty[n] = r
			n++
		}
	}
	dirty = dirty[:n]
	if len(dirty) == 0 {
		return false, nil
	}
	dirty = mergeRects(dirty)

	if len(dirty) > maxDirtyRects {
		m.fullRedraw(dest, items, bounds)
		debugFrame(m, true, 1, 0)
		return true, nil
	}

	// For each dirty rect, walk front to back and stop at the first
	// graphic that fully occludes it; everything behind is culled for
	// that rect.
	perGraphic := make(map[*Graphic][]image.Rectangle)
	culled := 0
	for _, r := range dirty {
		covered := false
		for i := len(items) - 1; i >= 0; i-- {
			g := items[i].graphic()
			if !g.Visible {
				continue
			}
			rr := r.Intersect(g.postrotRect)
			if rr.Empty() {
				continue
			}
			if covered {
				culled++
				continue
			}
			perGraphic[g] = append(perGraphic[g], rr)
			if g.OpaqueIn(r) {
				covered = true
			}
		}
		if !covered {
			dest.Fill(color.RGBA{}, r)
		}
	}
	for _, it := range items {
		g := it.graphic()
		if rs := perGraphic[g]; len(rs) > 0 {
			g.draw(dest, rs)
		}
	}
	debugFrame(m, false, len(dirty), culled)
	return false, dirty
}

// drawOrder returns all owned items back to front.
func (m *GraphicsManager) drawOrder() []Item {
	var items []Item
	for _, l := range m.order {
		items = append(items, m.layers[l]...)
	}
	return items
}

func (m *GraphicsManager) fullRedraw(dest *Surface, items []Item, bounds image.Rectangle) {
	dest.FillAll(color.RGBA{})
	for _, it := range items {
		g := it.graphic()
		if !g.Visible {
			continue
		}
		if r := g.postrotRect.Intersect(bounds); !r.Empty() {
			g.draw(dest, []image.Rectangle{r})
		}
	}
}

// --- Fading ---

// FadeTo fades the whole target to the given colour over t seconds using
// the reserved overlay layer. A fade already in progress is retargeted
// from its current colour.
func (m *GraphicsManager) FadeTo(col color.RGBA, t float64) {
	m.stopFade()
	if m.overlay == nil {
		start := col
		start.A = 0
		ov := NewColour(start, m.target.Bounds(), LayerOverlay)
		m.overlay = ov
		m.addItem(ov)
	}
	ov := m.overlay
	m.fading = true
	m.fadeID = m.sched.InterpSimple(
		colourValue(ov.Colour()), colourValue(col), t,
		func(v Value) { ov.SetColour(valueColour(v)) },
		func() { m.fading = false },
	)
}

// FadeIn fades the overlay back to fully transparent over t seconds and
// then removes it. Without an overlay it is a no-op.
func (m *GraphicsManager) FadeIn(t float64) {
	if m.overlay == nil {
		return
	}
	m.stopFade()
	ov := m.overlay
	target := ov.Colour()
	target.A = 0
	m.fading = true
	m.fadeID = m.sched.InterpSimple(
		colourValue(ov.Colour()), colourValue(target), t,
		func(v Value) { ov.SetColour(valueColour(v)) },
		func() {
			m.fading = false
			m.removeOverlay()
		},
	)
}

// CancelFade stops any running fade and removes the overlay immediately.
func (m *GraphicsManager) CancelFade() {
	m.stopFade()
	m.removeOverlay()
}

func (m *GraphicsManager) stopFade() {
	if m.fading {
		m.sched.RemoveTimeout(m.fadeID)
		m.fading = false
	}
}

func (m *GraphicsManager) removeOverlay() {
	if m.overlay != nil {
		m.Remove(m.overlay)
		m.overlay = nil
	}
}
