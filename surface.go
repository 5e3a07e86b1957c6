package easel

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// Surface is a CPU pixel buffer, the unit of all compositing in the engine.
// A Surface's bounds always start at (0, 0); placement on screen is the
// owning Graphic's concern.
//
// Surfaces track whether they are known to be fully opaque, which the
// manager uses for occlusion culling.
type Surface struct {
	pix    *image.RGBA
	opaque bool
}

// NewSurface returns a fully transparent surface of the given size.
func NewSurface(w, h int) *Surface {
	return &Surface{pix: image.NewRGBA(image.Rect(0, 0, w, h))}
}

// NewSolidSurface returns a surface filled with the given colour.
func NewSolidSurface(c color.RGBA, w, h int) *Surface {
	s := NewSurface(w, h)
	s.FillAll(c)
	return s
}

// SurfaceFromImage copies an already-decoded image into a new surface.
// Decoding itself is a collaborator's job; this only adapts the result.
func SurfaceFromImage(img image.Image) *Surface {
	b := img.Bounds()
	pix := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(pix, pix.Rect, img, b.Min, draw.Src)
	return &Surface{pix: pix, opaque: pix.Opaque()}
}

// Size returns the surface's width and height.
func (s *Surface) Size() image.Point {
	return s.pix.Rect.Size()
}

// Bounds returns the surface's rectangle, anchored at (0, 0).
func (s *Surface) Bounds() image.Rectangle {
	return s.pix.Rect
}

// Opaque reports whether the surface is known to paint every pixel with
// full alpha.
func (s *Surface) Opaque() bool {
	return s.opaque
}

// RGBA exposes the backing pixel buffer for direct drawing. Callers that
// introduce transparency must not rely on Opaque afterwards; use
// RecheckOpaque if it matters.
func (s *Surface) RGBA() *image.RGBA {
	return s.pix
}

// RecheckOpaque rescans the pixel data to refresh the opacity flag.
func (s *Surface) RecheckOpaque() bool {
	s.opaque = s.pix.Opaque()
	return s.opaque
}

// Clone returns a deep copy.
func (s *Surface) Clone() *Surface {
	pix := image.NewRGBA(s.pix.Rect)
	copy(pix.Pix, s.pix.Pix)
	return &Surface{pix: pix, opaque: s.opaque}
}

// FillAll fills the whole surface with c, replacing existing pixels.
func (s *Surface) FillAll(c color.RGBA) {
	draw.Draw(s.pix, s.pix.Rect, image.NewUniform(c), image.Point{}, draw.Src)
	s.opaque = c.A == 0xff
}

// Fill fills the given rectangle (clipped to the surface) with c,
// replacing existing pixels.
func (s *Surface) Fill(c color.RGBA, r image.Rectangle) {
	r = r.Intersect(s.pix.Rect)
	if r.Empty() {
		return
	}
	draw.Draw(s.pix, r, image.NewUniform(c), image.Point{}, draw.Src)
	if c.A != 0xff {
		s.opaque = false
	} else if r == s.pix.Rect {
		s.opaque = true
	}
}

// Blit draws the srcR portion of src with its top-left corner at dst,
// clipped to the destination, using the given compositing flags.
func (s *Surface) Blit(src *Surface, dst image.Point, srcR image.Rectangle, flags BlitFlags) {
	srcR = srcR.Intersect(src.pix.Rect)
	if srcR.Empty() {
		return
	}
	dstR := image.Rectangle{Min: dst, Max: dst.Add(srcR.Size())}
	switch flags {
	case BlitCopy:
		draw.Draw(s.pix, dstR, src.pix, srcR.Min, draw.Src)
	case BlitAdd:
		s.blitAdd(src, dstR, srcR.Min)
	default:
		draw.Draw(s.pix, dstR, src.pix, srcR.Min, draw.Over)
	}
}

// blitAdd saturating-adds src channels onto the destination.
func (s *Surface) blitAdd(src *Surface, dstR image.Rectangle, sp image.Point) {
	clipped := dstR.Intersect(s.pix.Rect)
	if clipped.Empty() {
		return
	}
	sp = sp.Add(clipped.Min.Sub(dstR.Min))
	for y := 0; y < clipped.Dy(); y++ {
		d := s.pix.PixOffset(clipped.Min.X, clipped.Min.Y+y)
		o := src.pix.PixOffset(sp.X, sp.Y+y)
		for x := 0; x < clipped.Dx()*4; x++ {
			v := uint16(s.pix.Pix[d+x]) + uint16(src.pix.Pix[o+x])
			if v > 0xff {
				v = 0xff
			}
			s.pix.Pix[d+x] = uint8(v)
		}
	}
}

// scaled returns the surface smoothly resampled to w x h.
func (s *Surface) scaled(w, h int) *Surface {
	out := NewSurface(w, h)
	xdraw.CatmullRom.Scale(out.pix, out.pix.Rect, s.pix, s.pix.Rect, xdraw.Src, nil)
	out.opaque = s.opaque
	return out
}

// flipped returns the surface mirrored over the requested axes.
func (s *Surface) flipped(fx, fy bool) *Surface {
	sz := s.Size()
	out := NewSurface(sz.X, sz.Y)
	for y := 0; y < sz.Y; y++ {
		sy := y
		if fy {
			sy = sz.Y - 1 - y
		}
		for x := 0; x < sz.X; x++ {
			sx := x
			if fx {
				sx = sz.X - 1 - x
			}
			d := out.pix.PixOffset(x, y)
			o := s.pix.PixOffset(sx, sy)
			copy(out.pix.Pix[d:d+4], s.pix.Pix[o:o+4])
		}
	}
	out.opaque = s.opaque
	return out
}

// cropped returns the r portion of the surface. r may extend beyond the
// source; uncovered areas are transparent.
func (s *Surface) cropped(r image.Rectangle) *Surface {
	out := NewSurface(r.Dx(), r.Dy())
	in := r.Intersect(s.pix.Rect)
	if !in.Empty() {
		draw.Draw(out.pix, in.Sub(r.Min), s.pix, in.Min, draw.Src)
	}
	out.opaque = s.opaque && r.In(s.pix.Rect)
	return out
}

// rotated returns the surface rotated anticlockwise by angle radians,
// sized to the rotated bounding box. The result has non-rectangular
// coverage, so it is never opaque.
func (s *Surface) rotated(angle float64) *Surface {
	sz := s.Size()
	w, h := float64(sz.X), float64(sz.Y)
	sin, cos := math.Sincos(angle)
	nw := int(math.Ceil(math.Abs(w*cos) + math.Abs(h*sin)))
	nh := int(math.Ceil(math.Abs(w*sin) + math.Abs(h*cos)))
	out := NewSurface(nw, nh)
	// Map source points into the destination: rotate about the centre.
	// Screen coordinates have y down, so an anticlockwise rotation uses
	// the transposed rotation matrix.
	cx, cy := w/2, h/2
	ncx, ncy := float64(nw)/2, float64(nh)/2
	m := f64.Aff3{
		cos, sin, ncx - cos*cx - sin*cy,
		-sin, cos, ncy + sin*cx - cos*cy,
	}
	xdraw.BiLinear.Transform(out.pix, m, s.pix, s.pix.Rect, xdraw.Over, nil)
	return out
}
