package easel

import (
	"fmt"
	"os"
)

// debugMode enables per-draw stats on stderr and extra invariant checks.
// Toggle with SetDebugMode.
var debugMode bool

// SetDebugMode turns draw diagnostics on or off for the whole package.
// When on, every manager draw that does work logs its dirty rectangle
// count and occlusion culls to stderr.
func SetDebugMode(on bool) {
	debugMode = on
}

// DebugMode reports whether draw diagnostics are on.
func DebugMode() bool {
	return debugMode
}

// debugFrame prints per-draw compositing metrics.
func debugFrame(m *GraphicsManager, full bool, dirtyRects, culled int) {
	if !debugMode {
		return
	}
	graphics := 0
	for _, members := range m.layers {
		graphics += len(members)
	}
	if full {
		_, _ = fmt.Fprintf(os.Stderr,
			"[easel] full redraw | layers: %d | graphics: %d\n",
			len(m.order), graphics)
		return
	}
	_, _ = fmt.Fprintf(os.Stderr,
		"[easel] dirty rects: %d | culled blits: %d | layers: %d | graphics: %d\n",
		dirtyRects, culled, len(m.order), graphics)
}

// debugCheckLayer panics when a graphic's recorded layer disagrees with
// the layer it is filed under. Only called in debug mode.
func debugCheckLayer(m *GraphicsManager) {
	for l, members := range m.layers {
		for _, it := range members {
			if g := it.graphic(); g.layer != l {
				panic(fmt.Sprintf("easel debug: graphic on layer %d filed under %d", g.layer, l))
			}
		}
	}
}
