package easel

import (
	"image"
	"math"
)

// Layer determines draw order within a GraphicsManager: lower layers are
// drawn first, so they appear behind higher ones.
type Layer int

// LayerOverlay is reserved for a manager's fade overlay, which always draws
// last regardless of how the layer sorts. Adding an ordinary graphic on this
// layer is a usage error.
const LayerOverlay Layer = math.MinInt

// BlitFlags selects the compositing operation used when a graphic's surface
// is blitted to its destination.
type BlitFlags uint8

const (
	// BlitAlpha is standard source-over alpha blending.
	BlitAlpha BlitFlags = iota
	// BlitCopy replaces destination pixels outright, alpha included.
	BlitCopy
	// BlitAdd adds source channels onto the destination, saturating.
	BlitAdd
)

// Align describes per-axis placement inside a reference rectangle:
// negative is start-aligned (left/top), zero is centered, positive is
// end-aligned (right/bottom).
type Align struct {
	X, Y int
}

// AlignCenter centers on both axes.
var AlignCenter = Align{0, 0}

// Round returns x rounded to the nearest integer, halves away from zero.
func Round(x float64) int {
	y := int(x)
	if x > 0 {
		if x-float64(y) >= 0.5 {
			y++
		}
	} else if float64(y)-x >= 0.5 {
		y--
	}
	return y
}

// AlignRect places a size-sz rectangle within ref according to pos, with pad
// inset from ref's edges (negative pad allows placement outside) and a final
// offset. Returns the placed rectangle.
func AlignRect(sz image.Point, ref image.Rectangle, pos Align, pad, offset image.Point) image.Rectangle {
	ref = image.Rect(
		ref.Min.X+pad.X, ref.Min.Y+pad.Y,
		ref.Max.X-pad.X, ref.Max.Y-pad.Y,
	)
	place := func(align, refMin, refW, w, off int) int {
		switch {
		case align < 0:
			return refMin + off
		case align == 0:
			return refMin + Round(float64(refW-w)/2) + off
		default:
			return refMin + refW - w + off
		}
	}
	x := place(pos.X, ref.Min.X, ref.Dx(), sz.X, offset.X)
	y := place(pos.Y, ref.Min.Y, ref.Dy(), sz.Y, offset.Y)
	return image.Rect(x, y, x+sz.X, y+sz.Y)
}

// mergeRects collapses a list of rectangles into a covering set with no two
// overlapping, by unioning any pair that intersects until stable. Empty
// rectangles are discarded. The input slice is reused.
func mergeRects(rects []image.Rectangle) []image.Rectangle {
	out := rects[:0]
	for _, r := range rects {
		if r.Empty() {
			continue
		}
		out = append(out, r)
	}
	for {
		merged := false
		for i := 0; i < len(out); i++ {
			for j := i + 1; j < len(out); j++ {
				if out[i].Overlaps(out[j]) {
					out[i] = out[i].Union(out[j])
					out[j] = out[len(out)-1]
					out = out[:len(out)-1]
					merged = true
					j--
				}
			}
		}
		if !merged {
			return out
		}
	}
}
