package easel

import (
	"image"
	"testing"
)

// --- Round ---

func TestRound(t *testing.T) {
	cases := []struct {
		in   float64
		want int
	}{
		{0, 0},
		{0.4, 0},
		{0.5, 1},
		{1.5, 2},
		{-0.4, 0},
		{-0.5, -1},
		{-1.5, -2},
		{2.0, 2},
	}
	for _, c := range cases {
		if got := Round(c.in); got != c.want {
			t.Errorf("Round(%v) = %d, want %d", c.in, got, c.want)
		}
	}
}

// --- AlignRect ---

func TestAlignRect(t *testing.T) {
	ref := image.Rect(0, 0, 100, 50)
	sz := image.Pt(10, 10)

	if got := AlignRect(sz, ref, Align{-1, -1}, image.Point{}, image.Point{}); got != image.Rect(0, 0, 10, 10) {
		t.Errorf("start align = %v", got)
	}
	if got := AlignRect(sz, ref, AlignCenter, image.Point{}, image.Point{}); got != image.Rect(45, 20, 55, 30) {
		t.Errorf("center align = %v", got)
	}
	if got := AlignRect(sz, ref, Align{1, 1}, image.Point{}, image.Point{}); got != image.Rect(90, 40, 100, 50) {
		t.Errorf("end align = %v", got)
	}
}

func TestAlignRectPadAndOffset(t *testing.T) {
	ref := image.Rect(0, 0, 100, 50)
	sz := image.Pt(10, 10)
	got := AlignRect(sz, ref, Align{-1, 1}, image.Pt(5, 5), image.Pt(2, -2))
	want := image.Rect(7, 33, 17, 43)
	if got != want {
		t.Errorf("padded align = %v, want %v", got, want)
	}
}

// --- mergeRects ---

func TestMergeRectsDisjoint(t *testing.T) {
	in := []image.Rectangle{
		image.Rect(0, 0, 10, 10),
		image.Rect(20, 20, 30, 30),
	}
	out := mergeRects(in)
	if len(out) != 2 {
		t.Fatalf("merged %d rects, want 2", len(out))
	}
}

func TestMergeRectsOverlapping(t *testing.T) {
	in := []image.Rectangle{
		image.Rect(0, 0, 10, 10),
		image.Rect(5, 5, 15, 15),
		image.Rect(14, 14, 20, 20),
	}
	out := mergeRects(in)
	if len(out) != 1 {
		t.Fatalf("merged %d rects, want 1", len(out))
	}
	if out[0] != image.Rect(0, 0, 20, 20) {
		t.Errorf("union = %v, want (0,0)-(20,20)", out[0])
	}
}

func TestMergeRectsDropsEmpty(t *testing.T) {
	in := []image.Rectangle{
		{},
		image.Rect(0, 0, 5, 5),
		image.Rect(3, 3, 3, 8),
	}
	out := mergeRects(in)
	if len(out) != 1 || out[0] != image.Rect(0, 0, 5, 5) {
		t.Errorf("merged = %v, want [(0,0)-(5,5)]", out)
	}
}
