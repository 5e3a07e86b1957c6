package easel

import (
	"image"
	"math"
)

// Builtin transform stage names, in default pipeline order.
const (
	TransformResize = "resize"
	TransformCrop   = "crop"
	TransformFlip   = "flip"
	TransformRotate = "rotate"
	TransformFill   = "fill" // Colour only
)

// defaultRotateThreshold is the angle change below which rotation is
// treated as identity, to avoid needless resampling.
const defaultRotateThreshold = 2 * math.Pi / 500

// TransformFunc applies a custom transform stage. It receives the surface
// before this stage and the args this stage was applied with the previous
// time (nil if never), and must return one of:
//   - a new surface (the transformed result; src must not be modified),
//   - src itself, meaning the transform does nothing with these args,
//   - nil, meaning the effect is identical to the previous application
//     (only valid when lastArgs is non-nil).
type TransformFunc func(src *Surface, lastArgs, args []any) *Surface

// transformStage is one entry in a graphic's transform pipeline. args is
// nil until the stage has been applied at least once; src is the surface
// snapshot the stage was last applied to. apply/undo mutate graphic-level
// derived state (scale, crop rect, rotation offset) without touching the
// surface.
type transformStage struct {
	name  string
	fn    TransformFunc // nil for builtins
	args  any
	src   *Surface
	apply func(*Graphic)
	undo  func(*Graphic)
}

// StagePos addresses a position in the transform pipeline for
// [Graphic.TransformAt]. The zero value means "current position if the
// stage exists, else append".
type StagePos struct {
	kind    uint8 // 0 default, 1 index, 2 before, 3 after
	index   int
	relName string
}

// AtIndex positions a transform at an explicit pipeline index.
func AtIndex(i int) StagePos {
	return StagePos{kind: 1, index: i}
}

// BeforeStage positions a transform immediately before the named stage
// (appends if the name is not in the pipeline).
func BeforeStage(name string) StagePos {
	return StagePos{kind: 2, relName: name}
}

// AfterStage positions a transform immediately after the named stage
// (appends if the name is not in the pipeline).
func AfterStage(name string) StagePos {
	return StagePos{kind: 3, relName: name}
}

// Item is anything a GraphicsManager can own: a Graphic or a type
// embedding one.
type Item interface {
	graphic() *Graphic
	preDraw()
}

// Graphic is a drawable rectangular surface with a screen position, a draw
// layer, and a chain of independently cacheable transforms.
//
// Position and size may be read through accessors and changed through the
// chainable mutator methods; both forms observe identical state. A Graphic
// belongs to at most one GraphicsManager at a time.
type Graphic struct {
	// Visible controls whether the graphic is drawn. Toggling it makes the
	// footprint dirty on the next manager draw.
	Visible bool

	surface     *Surface
	rect        image.Rectangle // pre-rotation: position + logical size
	postrotRect image.Rectangle // actually drawn: offset by rotation growth
	rotOffset   image.Point
	scale       [2]float64
	croppedTo   *image.Rectangle
	flip        [2]bool
	angle       float64
	opaque      bool

	transforms      []*transformStage
	rotateThreshold float64

	manager   *GraphicsManager
	self      Item // the wrapper registered with the manager
	layer     Layer
	blitFlags BlitFlags

	lastRect        image.Rectangle
	lastPostrotRect image.Rectangle
	wasVisible      bool
	dirty           []image.Rectangle // absolute screen coords
}

// NewGraphic constructs a graphic from an already-decoded surface at the
// given position and layer.
func NewGraphic(sfc *Surface, pos image.Point, layer Layer) *Graphic {
	g := &Graphic{
		Visible:         true,
		scale:           [2]float64{1, 1},
		rotateThreshold: defaultRotateThreshold,
		layer:           layer,
	}
	sz := sfc.Size()
	g.rect = image.Rectangle{Min: pos, Max: pos.Add(sz)}
	g.postrotRect = g.rect
	g.lastRect = g.rect
	g.lastPostrotRect = g.rect
	g.surface = sfc
	g.opaque = sfc.Opaque()
	g.transforms = []*transformStage{
		{name: TransformResize, src: sfc},
		{name: TransformCrop, src: sfc},
		{name: TransformFlip, src: sfc},
		{name: TransformRotate, src: sfc},
	}
	return g
}

func (g *Graphic) graphic() *Graphic { return g }

// preDraw is called by the owning manager before dirty computation.
// Overridden by nested managers to composite their children first.
func (g *Graphic) preDraw() {}

// --- Accessors ---

// Surface returns the (possibly transformed) surface used for drawing.
func (g *Graphic) Surface() *Surface { return g.surface }

// Rect returns the on-screen rectangle covered, excluding rotation growth.
func (g *Graphic) Rect() image.Rectangle { return g.rect }

// DrawRect returns the rectangle actually drawn in, including rotation
// growth.
func (g *Graphic) DrawRect() image.Rectangle { return g.postrotRect }

// LastRect returns the rectangle at the time of the last draw.
func (g *Graphic) LastRect() image.Rectangle { return g.lastRect }

// Pos returns the top-left corner of the rectangle.
func (g *Graphic) Pos() image.Point { return g.rect.Min }

// X returns the x coordinate of the top-left corner.
func (g *Graphic) X() int { return g.rect.Min.X }

// Y returns the y coordinate of the top-left corner.
func (g *Graphic) Y() int { return g.rect.Min.Y }

// Size returns the rectangle's size.
func (g *Graphic) Size() image.Point { return g.rect.Size() }

// W returns the rectangle's width.
func (g *Graphic) W() int { return g.rect.Dx() }

// H returns the rectangle's height.
func (g *Graphic) H() int { return g.rect.Dy() }

// Scale returns the current (x, y) scaling ratios.
func (g *Graphic) Scale() (float64, float64) { return g.scale[0], g.scale[1] }

// Flipped returns the current per-axis flip state.
func (g *Graphic) Flipped() (bool, bool) { return g.flip[0], g.flip[1] }

// Angle returns the current rotation in radians, anticlockwise.
func (g *Graphic) Angle() float64 { return g.angle }

// CroppedRect returns the rectangle currently cropped to, or the full
// pre-crop surface rectangle if uncropped.
func (g *Graphic) CroppedRect() image.Rectangle {
	if g.croppedTo != nil {
		return *g.croppedTo
	}
	return g.SurfaceBefore(TransformCrop).Bounds()
}

// Opaque reports whether this graphic paints opaque pixels across its
// entire rectangle.
func (g *Graphic) Opaque() bool { return g.opaque }

// OpaqueIn reports whether this graphic alone fully occludes r.
func (g *Graphic) OpaqueIn(r image.Rectangle) bool {
	return g.opaque && r.In(g.postrotRect)
}

// Layer returns the graphic's draw layer.
func (g *Graphic) Layer() Layer { return g.layer }

// Manager returns the owning manager, or nil.
func (g *Graphic) Manager() *GraphicsManager { return g.manager }

// BlitFlags returns the compositing flags used when drawing.
func (g *Graphic) BlitFlags() BlitFlags { return g.blitFlags }

// Transforms returns the pipeline's stage names in order.
func (g *Graphic) Transforms() []string {
	names := make([]string, len(g.transforms))
	for i, st := range g.transforms {
		names[i] = st.name
	}
	return names
}

// --- Mutators ---

// SetRect moves and resizes the graphic so that its rectangle becomes r.
// Resizing goes through the resize transform, so it round-trips with the
// chainable mutators.
func (g *Graphic) SetRect(r image.Rectangle) {
	if r == g.rect {
		return
	}
	if r.Size() != g.rect.Size() {
		g.Resize(r.Dx(), r.Dy())
	}
	if r.Min != g.rect.Min {
		g.setPos(r.Min)
	}
}

func (g *Graphic) setPos(p image.Point) {
	g.rect = image.Rectangle{Min: p, Max: p.Add(g.rect.Size())}
	g.postrotRect = image.Rectangle{
		Min: p.Add(g.rotOffset),
		Max: p.Add(g.rotOffset).Add(g.postrotRect.Size()),
	}
	g.markDirty()
}

// MoveTo moves the top-left corner to (x, y).
func (g *Graphic) MoveTo(x, y int) *Graphic {
	g.SetRect(image.Rectangle{
		Min: image.Pt(x, y),
		Max: image.Pt(x, y).Add(g.rect.Size()),
	})
	return g
}

// MoveBy moves by the given number of pixels.
func (g *Graphic) MoveBy(dx, dy int) *Graphic {
	g.SetRect(g.rect.Add(image.Pt(dx, dy)))
	return g
}

// SetLayer moves the graphic to another draw layer, re-registering with
// its manager if it has one.
func (g *Graphic) SetLayer(layer Layer) *Graphic {
	if layer == g.layer {
		return g
	}
	m := g.manager
	it := g.self
	if it == nil {
		it = g
	}
	if m != nil {
		m.Remove(it)
	}
	g.layer = layer
	if m != nil {
		m.Add(it)
	}
	return g
}

// SetBlitFlags changes the compositing flags used when drawing.
func (g *Graphic) SetBlitFlags(flags BlitFlags) *Graphic {
	if flags != g.blitFlags {
		g.blitFlags = flags
		g.markDirty()
	}
	return g
}

// SetRotateThreshold changes the angle change below which rotation is a
// no-op. Call ReapplyTransform afterwards if a rotation is already
// applied.
func (g *Graphic) SetRotateThreshold(t float64) *Graphic {
	g.rotateThreshold = t
	return g
}

// AlignTo positions the graphic's rectangle within ref (see [AlignRect]).
func (g *Graphic) AlignTo(ref image.Rectangle, pos Align, pad, offset image.Point) *Graphic {
	g.SetRect(AlignRect(g.rect.Size(), ref, pos, pad, offset))
	return g
}

// AlignIn positions the graphic within its manager's surface.
func (g *Graphic) AlignIn(pos Align) *Graphic {
	if g.manager == nil || g.manager.surfaceOf() == nil {
		panic("easel: AlignIn requires a manager with a surface")
	}
	return g.AlignTo(g.manager.surfaceOf().Bounds(), pos, image.Point{}, image.Point{})
}

// Snapshot returns a shallow copy of the current state: an untransformed
// graphic showing exactly what this one currently shows.
func (g *Graphic) Snapshot() *Graphic {
	c := NewGraphic(g.surface, g.postrotRect.Min, g.layer)
	c.Visible = g.Visible
	c.blitFlags = g.blitFlags
	return c
}

// markDirty flags the old and new drawn footprints for the next manager
// draw.
func (g *Graphic) markDirty() {
	g.dirty = append(g.dirty, g.lastPostrotRect, g.postrotRect)
}

// DirtyLocal marks sub-rectangles of the current surface (surface-local
// coordinates) as changed, for callers that draw into the surface
// directly.
func (g *Graphic) DirtyLocal(rects ...image.Rectangle) {
	for _, r := range rects {
		g.dirty = append(g.dirty, r.Add(g.postrotRect.Min))
	}
}

// takeDirty returns and clears the accumulated dirty rectangles.
func (g *Graphic) takeDirty() []image.Rectangle {
	d := g.dirty
	g.dirty = nil
	return d
}

// setSurface installs a new current surface and refreshes the derived
// rectangles and opacity flag.
func (g *Graphic) setSurface(s *Surface) {
	g.surface = s
	g.opaque = s.Opaque()
	pre := g.sizeBeforeRotate(s)
	p := g.rect.Min
	g.rect = image.Rectangle{Min: p, Max: p.Add(pre)}
	g.postrotRect = image.Rectangle{
		Min: p.Add(g.rotOffset),
		Max: p.Add(g.rotOffset).Add(s.Size()),
	}
}

// sizeBeforeRotate returns the logical size: the size of the surface
// before the rotate stage, or of cur if rotation is not applied.
func (g *Graphic) sizeBeforeRotate(cur *Surface) image.Point {
	if i := g.stageIndex(TransformRotate); i >= 0 && g.transforms[i].args != nil {
		return g.transforms[i].src.Size()
	}
	return cur.Size()
}

func (g *Graphic) stageIndex(name string) int {
	for i, st := range g.transforms {
		if st.name == name {
			return i
		}
	}
	return -1
}

// SurfaceBefore returns the surface as it was before the named stage, or
// the current surface if the stage is absent or never applied.
func (g *Graphic) SurfaceBefore(name string) *Surface {
	if i := g.stageIndex(name); i >= 0 && g.transforms[i].src != nil {
		return g.transforms[i].src
	}
	return g.surface
}

// --- Transform pipeline ---

// Transform applies or re-applies the named transform with the given args,
// keeping its current pipeline position (or appending if new). Builtin
// stages pass fn as nil.
func (g *Graphic) Transform(name string, fn TransformFunc, args ...any) *Graphic {
	return g.TransformAt(name, fn, StagePos{}, args...)
}

// TransformAt is Transform with explicit pipeline placement. Placement
// applies when the stage first joins the pipeline; a stage already
// present keeps its position. Inserting a stage undoes every subsequent
// stage and replays it afterwards, so derived state stays consistent
// with pipeline order.
func (g *Graphic) TransformAt(name string, fn TransformFunc, pos StagePos, args ...any) *Graphic {
	var boxed any
	if fn == nil {
		boxed = g.builtinArgs(name, args)
	} else {
		boxed = args
	}
	g.applyStage(name, fn, pos, boxed)
	return g
}

// applyStage is the core of the pipeline: resolves the target position,
// undoes trailing stages when repositioning, applies the stage, and
// replays the tail.
func (g *Graphic) applyStage(name string, fn TransformFunc, pos StagePos, args any) {
	ts := g.transforms
	existing := g.stageIndex(name)
	position := -1
	if existing >= 0 {
		position = existing
	} else {
		switch pos.kind {
		case 1:
			if pos.index >= 0 && pos.index < len(ts) {
				position = pos.index
			}
		case 2:
			if i := g.stageIndex(pos.relName); i >= 0 {
				position = i
			}
		case 3:
			if i := g.stageIndex(pos.relName); i >= 0 && i+1 < len(ts) {
				position = i + 1
			}
		}
	}

	var src, lastNewSfc *Surface
	var lastArgs any
	var applyFn, undoFn func(*Graphic)
	if position >= 0 {
		st := ts[position]
		src = st.src
		if position == len(ts)-1 {
			lastNewSfc = g.surface
		} else {
			lastNewSfc = ts[position+1].src
		}
		// Undo this stage and everything after it, back to front.
		for i := len(ts) - 1; i >= position; i-- {
			if ts[i].undo != nil {
				ts[i].undo(g)
			}
		}
		if st.name == name {
			lastArgs, applyFn, undoFn = st.args, st.apply, st.undo
		} else {
			// Inserting a new stage here; the displaced stage keeps its
			// record and will be replayed below.
			ts = append(ts, nil)
			copy(ts[position+1:], ts[position:])
			ts[position] = &transformStage{name: name, fn: fn}
			g.transforms = ts
		}
	} else {
		src = g.surface
		lastNewSfc = g.surface
	}

	var newSfc *Surface
	if fn == nil {
		var ap, un func(*Graphic)
		newSfc, ap, un = g.applyBuiltin(name, src, lastArgs, args)
		if ap != nil {
			applyFn = ap
		}
		if un != nil {
			undoFn = un
		}
	} else {
		la, _ := lastArgs.([]any)
		newSfc = fn(src, la, args.([]any))
	}

	if newSfc == src {
		// Identity with these args: record and keep the input surface.
		st := g.recordStage(name, fn, position)
		st.args, st.src, st.apply, st.undo = args, src, nil, nil
		g.setSurface(src)
	} else {
		if newSfc == nil {
			// Identical effect to the previous application.
			if lastArgs == nil {
				panic("easel: transform returned nil but was never applied")
			}
			args = lastArgs
			newSfc = lastNewSfc
		}
		st := g.recordStage(name, fn, position)
		st.args, st.src, st.apply, st.undo = args, src, applyFn, undoFn
		if fn == nil && applyFn != nil {
			applyFn(g)
		}
		g.setSurface(newSfc)
	}

	if position >= 0 {
		// Replay every subsequent stage so the chain end state reflects
		// pipeline order; never-applied stages just refresh their
		// snapshot.
		tail := append([]*transformStage(nil), g.transforms[position+1:]...)
		g.transforms = g.transforms[:position+1]
		for _, st := range tail {
			if st.args != nil {
				g.applyStage(st.name, st.fn, StagePos{}, st.args)
			} else {
				g.transforms = append(g.transforms, &transformStage{
					name: st.name, fn: st.fn, src: g.surface,
				})
			}
		}
	}
	g.markDirty()
}

// recordStage returns the stage to fill in for name: the one at position
// (when repositioning), the existing one, or a freshly appended one.
func (g *Graphic) recordStage(name string, fn TransformFunc, position int) *transformStage {
	if position >= 0 {
		return g.transforms[position]
	}
	if i := g.stageIndex(name); i >= 0 {
		return g.transforms[i]
	}
	st := &transformStage{name: name, fn: fn}
	g.transforms = append(g.transforms, st)
	return st
}

// UndoTransforms undoes the stage at index upto and everything after it,
// removing them from the pipeline.
func (g *Graphic) UndoTransforms(upto int) {
	if upto < 0 || upto >= len(g.transforms) {
		return
	}
	removed := g.transforms[upto:]
	g.transforms = g.transforms[:upto]
	for i := len(removed) - 1; i >= 0; i-- {
		if removed[i].undo != nil {
			removed[i].undo(g)
		}
	}
	g.setSurface(removed[0].src)
	g.markDirty()
}

// ReapplyTransform undoes then replays the pipeline from the stage at
// index start, picking up upstream changes such as a replaced source
// surface.
func (g *Graphic) ReapplyTransform(start int) {
	if start < 0 || start >= len(g.transforms) {
		return
	}
	saved := append([]*transformStage(nil), g.transforms[start:]...)
	g.UndoTransforms(start)
	for _, st := range saved {
		if st.args != nil {
			g.applyStage(st.name, st.fn, StagePos{}, st.args)
		} else {
			g.transforms = append(g.transforms, &transformStage{
				name: st.name, fn: st.fn, src: g.surface,
			})
		}
	}
}

// ReapplyTransformNamed is ReapplyTransform addressed by stage name. A
// name not in the pipeline is a no-op.
func (g *Graphic) ReapplyTransformNamed(name string) {
	if i := g.stageIndex(name); i >= 0 {
		g.ReapplyTransform(i)
	}
}

// SetSource replaces the pre-transform source surface (e.g. after the
// decoded image changed) and replays the whole pipeline.
func (g *Graphic) SetSource(sfc *Surface) *Graphic {
	if len(g.transforms) == 0 {
		g.setSurface(sfc)
		g.markDirty()
		return g
	}
	saved := append([]*transformStage(nil), g.transforms...)
	g.transforms = g.transforms[:0]
	g.setSurface(sfc)
	for _, st := range saved {
		if st.args != nil {
			g.applyStage(st.name, st.fn, StagePos{}, st.args)
		} else {
			g.transforms = append(g.transforms, &transformStage{
				name: st.name, fn: st.fn, src: g.surface,
			})
		}
	}
	g.markDirty()
	return g
}

// --- Builtin transforms ---

type resizeArgs struct {
	w, h  int // 0 keeps the current dimension
	about image.Point
}

type cropArgs struct{ r image.Rectangle }

type flipArgs struct{ x, y bool }

type rotateArgs struct {
	angle    float64
	about    image.Point
	aboutSet bool
}

func (g *Graphic) builtinArgs(name string, args []any) any {
	switch name {
	case TransformResize:
		a := resizeArgs{}
		if len(args) > 0 {
			a.w = args[0].(int)
		}
		if len(args) > 1 {
			a.h = args[1].(int)
		}
		if len(args) > 2 {
			a.about = args[2].(image.Point)
		}
		return a
	case TransformCrop:
		return cropArgs{r: args[0].(image.Rectangle)}
	case TransformFlip:
		return flipArgs{x: args[0].(bool), y: args[1].(bool)}
	case TransformRotate:
		a := rotateArgs{angle: args[0].(float64)}
		if len(args) > 1 {
			a.about = args[1].(image.Point)
			a.aboutSet = true
		}
		return a
	default:
		panic("easel: unknown builtin transform " + name)
	}
}

func (g *Graphic) applyBuiltin(name string, src *Surface, lastArgs, args any) (*Surface, func(*Graphic), func(*Graphic)) {
	switch name {
	case TransformResize:
		return g.resizeStage(src, lastArgs, args.(resizeArgs))
	case TransformCrop:
		return g.cropStage(src, lastArgs, args.(cropArgs))
	case TransformFlip:
		return g.flipStage(src, lastArgs, args.(flipArgs))
	case TransformRotate:
		return g.rotateStage(src, lastArgs, args.(rotateArgs))
	default:
		panic("easel: unknown builtin transform " + name)
	}
}

func (g *Graphic) resizeStage(src *Surface, lastArgs any, a resizeArgs) (*Surface, func(*Graphic), func(*Graphic)) {
	start := src.Size()
	w, h := a.w, a.h
	if w == 0 {
		w = start.X
	}
	if h == 0 {
		h = start.Y
	}
	if la, ok := lastArgs.(resizeArgs); ok {
		lw, lh := la.w, la.h
		if lw == 0 {
			lw = start.X
		}
		if lh == 0 {
			lh = start.Y
		}
		if w == lw && h == lh && a.about == la.about {
			return nil, nil, nil
		}
	}
	if w == start.X && h == start.Y && a.about == (image.Point{}) {
		return src, nil, nil
	}
	// A zero-size source has no pixels to resample and no meaningful
	// scale ratio; the axis keeps scale 1 and no anchor offset.
	sx, sy := 1.0, 1.0
	if start.X > 0 {
		sx = float64(w) / float64(start.X)
	}
	if start.Y > 0 {
		sy = float64(h) / float64(start.Y)
	}
	// Offset the position so the anchor point stays fixed on screen.
	offset := image.Pt(
		Round((1-sx)*float64(a.about.X)),
		Round((1-sy)*float64(a.about.Y)),
	)
	apply := func(g *Graphic) {
		g.scale = [2]float64{sx, sy}
		g.rect = g.rect.Add(offset)
	}
	undo := func(g *Graphic) {
		g.scale = [2]float64{1, 1}
		g.rect = g.rect.Sub(offset)
	}
	out := NewSurface(w, h)
	if start.X > 0 && start.Y > 0 {
		out = src.scaled(w, h)
	}
	return out, apply, undo
}

func (g *Graphic) cropStage(src *Surface, lastArgs any, a cropArgs) (*Surface, func(*Graphic), func(*Graphic)) {
	if la, ok := lastArgs.(cropArgs); ok && la.r == a.r {
		return nil, nil, nil
	}
	if a.r == src.Bounds() {
		return src, nil, nil
	}
	d := a.r.Min
	apply := func(g *Graphic) {
		g.rect = g.rect.Add(d)
		r := a.r
		g.croppedTo = &r
	}
	undo := func(g *Graphic) {
		g.rect = g.rect.Sub(d)
		g.croppedTo = nil
	}
	return src.cropped(a.r), apply, undo
}

func (g *Graphic) flipStage(src *Surface, lastArgs any, a flipArgs) (*Surface, func(*Graphic), func(*Graphic)) {
	if la, ok := lastArgs.(flipArgs); ok && la == a {
		return nil, nil, nil
	}
	if !a.x && !a.y {
		return src, nil, nil
	}
	apply := func(g *Graphic) { g.flip = [2]bool{a.x, a.y} }
	undo := func(g *Graphic) { g.flip = [2]bool{false, false} }
	return src.flipped(a.x, a.y), apply, undo
}

func (g *Graphic) rotateStage(src *Surface, lastArgs any, a rotateArgs) (*Surface, func(*Graphic), func(*Graphic)) {
	sz := src.Size()
	cx, cy := float64(sz.X)/2, float64(sz.Y)/2
	aboutX, aboutY := cx, cy
	if a.aboutSet {
		aboutX, aboutY = float64(a.about.X), float64(a.about.Y)
	}
	if la, ok := lastArgs.(rotateArgs); ok {
		lx, ly := cx, cy
		if la.aboutSet {
			lx, ly = float64(la.about.X), float64(la.about.Y)
		}
		if math.Abs(a.angle-la.angle) < g.rotateThreshold && aboutX == lx && aboutY == ly {
			return nil, nil, nil
		}
	}
	if math.Abs(a.angle) < g.rotateThreshold {
		return src, nil, nil
	}
	newSfc := src.rotated(a.angle)
	// Keep the rotation anchor fixed: find where the anchor lands in the
	// rotated surface and offset the draw position to compensate.
	nsz := newSfc.Size()
	vx := cx - aboutX
	vy := cy - aboutY
	sin, cos := math.Sincos(a.angle)
	axNew := float64(nsz.X)/2 - (cos*vx + sin*vy)
	ayNew := float64(nsz.Y)/2 - (-sin*vx + cos*vy)
	offset := image.Pt(Round(aboutX-axNew), Round(aboutY-ayNew))
	apply := func(g *Graphic) {
		g.angle = a.angle
		g.rotOffset = offset
	}
	undo := func(g *Graphic) {
		g.angle = 0
		g.rotOffset = image.Point{}
	}
	return newSfc, apply, undo
}

// --- Chainable transform mutators ---

// Resize resizes to w x h pixels; 0 keeps a dimension unchanged.
func (g *Graphic) Resize(w, h int) *Graphic {
	return g.Transform(TransformResize, nil, w, h)
}

// ResizeAbout resizes to w x h, scaling about the given point (relative to
// the graphic's top-left) so that point stays fixed on screen.
func (g *Graphic) ResizeAbout(w, h int, about image.Point) *Graphic {
	return g.Transform(TransformResize, nil, w, h, about)
}

// Rescale scales by the given ratios of the pre-resize size.
func (g *Graphic) Rescale(sx, sy float64) *Graphic {
	return g.RescaleAbout(sx, sy, image.Point{})
}

// RescaleAbout scales by ratios about the given point.
func (g *Graphic) RescaleAbout(sx, sy float64, about image.Point) *Graphic {
	sz := g.SurfaceBefore(TransformResize).Size()
	return g.ResizeAbout(Round(sx*float64(sz.X)), Round(sy*float64(sz.Y)), about)
}

// Crop crops the surface to r, which need not lie within the surface;
// uncovered areas become transparent.
func (g *Graphic) Crop(r image.Rectangle) *Graphic {
	return g.Transform(TransformCrop, nil, r)
}

// Flip mirrors the graphic over either axis.
func (g *Graphic) Flip(x, y bool) *Graphic {
	return g.Transform(TransformFlip, nil, x, y)
}

// Rotate rotates to the given angle in radians, anticlockwise, about the
// graphic's centre. Angles within the rotate threshold of the previous
// application are no-ops.
func (g *Graphic) Rotate(angle float64) *Graphic {
	return g.Transform(TransformRotate, nil, angle)
}

// RotateAbout rotates about the given point relative to the graphic's
// top-left.
func (g *Graphic) RotateAbout(angle float64, about image.Point) *Graphic {
	return g.Transform(TransformRotate, nil, angle, about)
}

// --- Drawing ---

// draw blits the listed sub-rectangles (absolute screen coordinates,
// guaranteed to lie within the drawn rect) to dest and records the drawn
// rectangle for next-frame dirty computation. It mutates no other state.
func (g *Graphic) draw(dest *Surface, rects []image.Rectangle) {
	off := g.postrotRect.Min
	for _, r := range rects {
		dest.Blit(g.surface, r.Min, r.Sub(off), g.blitFlags)
	}
	g.lastPostrotRect = g.postrotRect
	g.lastRect = g.rect
}
