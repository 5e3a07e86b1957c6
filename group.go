package easel

import "image"

// GraphicsGroup is a flat collection of graphics treated as a unit.
// Because it is a slice, it spreads directly into manager calls:
//
//	mgr.Add(group...)
//
// Broadcast mutators apply to every member; they do not keep members in
// any fixed relative arrangement beyond what MoveBy preserves.
type GraphicsGroup []Item

// NewGroup collects the given items into a group.
func NewGroup(items ...Item) GraphicsGroup {
	return GraphicsGroup(items)
}

// Rect returns the union of all members' rectangles.
func (gr GraphicsGroup) Rect() image.Rectangle {
	var u image.Rectangle
	for _, it := range gr {
		u = u.Union(it.graphic().Rect())
	}
	return u
}

// MoveBy moves every member by the given number of pixels.
func (gr GraphicsGroup) MoveBy(dx, dy int) GraphicsGroup {
	for _, it := range gr {
		it.graphic().MoveBy(dx, dy)
	}
	return gr
}

// SetVisible shows or hides every member.
func (gr GraphicsGroup) SetVisible(v bool) GraphicsGroup {
	for _, it := range gr {
		it.graphic().Visible = v
	}
	return gr
}

// SetLayer moves every member to the given layer.
func (gr GraphicsGroup) SetLayer(layer Layer) GraphicsGroup {
	for _, it := range gr {
		it.graphic().SetLayer(layer)
	}
	return gr
}

// OpaqueIn reports whether any single member fully occludes r.
func (gr GraphicsGroup) OpaqueIn(r image.Rectangle) bool {
	for _, it := range gr {
		if it.graphic().OpaqueIn(r) {
			return true
		}
	}
	return false
}
