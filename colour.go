package easel

import (
	"image"
	"image/color"
)

// Colour is a solid-coloured rectangle. The fill is implemented as a
// transform stage early in the pipeline, so the rectangle can still be
// resized, cropped, flipped and rotated like any other graphic.
type Colour struct {
	Graphic
	colour color.RGBA
}

// NewColour constructs a solid rectangle covering r on the given layer.
func NewColour(c color.RGBA, r image.Rectangle, layer Layer) *Colour {
	cl := &Colour{}
	base := NewGraphic(NewSurface(r.Dx(), r.Dy()), r.Min, layer)
	cl.Graphic = *base
	cl.SetColour(c)
	return cl
}

// Colour returns the current fill colour.
func (c *Colour) Colour() color.RGBA { return c.colour }

// SetColour changes the fill colour. Setting the same colour again is a
// no-op.
func (c *Colour) SetColour(col color.RGBA) *Colour {
	if i := c.stageIndex(TransformFill); i >= 0 && c.transforms[i].args != nil && col == c.colour {
		return c
	}
	c.colour = col
	c.TransformAt(TransformFill, fillStage, BeforeStage(TransformCrop), col)
	return c
}

// fillStage is the transform stage backing SetColour.
func fillStage(src *Surface, lastArgs, args []any) *Surface {
	col := args[0].(color.RGBA)
	if lastArgs != nil && lastArgs[0].(color.RGBA) == col {
		return nil
	}
	sz := src.Size()
	return NewSolidSurface(col, sz.X, sz.Y)
}

// colourValue converts a colour to a 4-element numeric Value for
// interpolation.
func colourValue(c color.RGBA) Value {
	return Nums(float64(c.R), float64(c.G), float64(c.B), float64(c.A))
}

// valueColour converts an interpolated Value back to a colour, clamping
// each channel to [0, 255].
func valueColour(v Value) color.RGBA {
	ch := func(i int) uint8 {
		x := Round(v.At(i).Float())
		if x < 0 {
			x = 0
		} else if x > 255 {
			x = 255
		}
		return uint8(x)
	}
	return color.RGBA{R: ch(0), G: ch(1), B: ch(2), A: ch(3)}
}
