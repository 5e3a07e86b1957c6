package easel

import (
	"image"
	"image/color"
	"testing"
)

func TestColourFillsItsRect(t *testing.T) {
	c := NewColour(red, image.Rect(10, 20, 30, 40), 3)
	if got := c.Rect(); got != image.Rect(10, 20, 30, 40) {
		t.Errorf("Rect() = %v, want (10,20)-(30,40)", got)
	}
	assertPixel(t, c.Surface(), 0, 0, red)
	assertPixel(t, c.Surface(), 19, 19, red)
	if !c.Surface().Opaque() {
		t.Error("opaque fill should yield an opaque surface")
	}
	if got := c.Colour(); got != red {
		t.Errorf("Colour() = %v, want %v", got, red)
	}
}

func TestSetColourRepaints(t *testing.T) {
	c := NewColour(red, image.Rect(0, 0, 8, 8), 0)
	c.SetColour(blue)
	assertPixel(t, c.Surface(), 4, 4, blue)
	if got := c.Colour(); got != blue {
		t.Errorf("Colour() = %v, want %v", got, blue)
	}
}

func TestSetColourSameIsNoop(t *testing.T) {
	c := NewColour(red, image.Rect(0, 0, 8, 8), 0)
	before := c.Surface()
	c.SetColour(red)
	if c.Surface() != before {
		t.Error("setting the same colour rebuilt the surface")
	}
}

func TestColourFillRunsBeforeCrop(t *testing.T) {
	c := NewColour(red, image.Rect(0, 0, 10, 10), 0)
	c.Crop(image.Rect(2, 2, 6, 6))
	if got := c.Rect().Size(); got != image.Pt(4, 4) {
		t.Fatalf("cropped size = %v, want 4x4", got)
	}
	assertPixel(t, c.Surface(), 0, 0, red)
	// A colour change must flow through the crop stage.
	c.SetColour(blue)
	if got := c.Rect().Size(); got != image.Pt(4, 4) {
		t.Errorf("size after recolour = %v, want crop preserved", got)
	}
	assertPixel(t, c.Surface(), 0, 0, blue)
}

func TestTranslucentColourNotOpaque(t *testing.T) {
	c := NewColour(color.RGBA{R: 255, A: 128}, image.Rect(0, 0, 4, 4), 0)
	if c.Surface().Opaque() {
		t.Error("translucent fill reported opaque")
	}
	if c.OpaqueIn(image.Rect(0, 0, 4, 4)) {
		t.Error("OpaqueIn true for a translucent colour")
	}
}
