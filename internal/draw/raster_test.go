package draw

import (
	"math"
	"testing"
)

// assertAll fails unless every pixel of fb equals want.
func assertAll(t *testing.T, fb *FrameBuffer, want Pixel) {
	t.Helper()
	for y := 0; y < fb.Height(); y++ {
		for x := 0; x < fb.Width(); x++ {
			got, err := fb.Pixel(x, y)
			if err != nil {
				t.Fatalf("Pixel(%d, %d): %v", x, y, err)
			}
			if got != want {
				t.Fatalf("pixel (%d, %d) = %+v, want %+v", x, y, got, want)
			}
		}
	}
}

func mustPixel(t *testing.T, fb *FrameBuffer, x, y int) Pixel {
	t.Helper()
	p, err := fb.Pixel(x, y)
	if err != nil {
		t.Fatalf("Pixel(%d, %d): %v", x, y, err)
	}
	return p
}

func TestRasterizeEmptyQueue(t *testing.T) {
	fb := Rasterize(NewQueue(0), 8, 5)
	if fb.Width() != 8 || fb.Height() != 5 {
		t.Fatalf("size = %dx%d, want 8x5", fb.Width(), fb.Height())
	}
	assertAll(t, fb, Black)

	assertAll(t, Rasterize(nil, 3, 3), Black)
}

func TestRasterizeSingleQuad(t *testing.T) {
	q := NewQueue(1)
	red := Color{1, 0, 0}
	q.Push(1, 1, 2, red)

	fb := Rasterize(q, 4, 4)
	want := Quantize(red)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			inside := x >= 1 && x < 3 && y >= 1 && y < 3
			got := mustPixel(t, fb, x, y)
			switch {
			case inside && got != want:
				t.Errorf("pixel (%d, %d) = %+v, want %+v", x, y, got, want)
			case !inside && got != Black:
				t.Errorf("pixel (%d, %d) = %+v, want black", x, y, got)
			}
		}
	}
}

func TestRasterizeOutsideBuffer(t *testing.T) {
	quads := []Quad{
		{X: 10, Y: 0, Size: 5},
		{X: 0, Y: 10, Size: 5},
		{X: -5, Y: 0, Size: 5},
		{X: 0, Y: -5, Size: 2},
		{X: -100, Y: -100, Size: 50},
		{X: 4, Y: 4, Size: 3},
	}
	for _, quad := range quads {
		q := NewQueue(1)
		q.Push(quad.X, quad.Y, quad.Size, Color{1, 1, 1})
		fb := Rasterize(q, 4, 4)
		if !fb.Equal(NewFrameBuffer(4, 4)) {
			t.Errorf("quad %+v changed the buffer", quad)
		}
	}
}

func TestRasterizeDegenerateQuads(t *testing.T) {
	q := NewQueue(4)
	q.Push(1, 1, 0, Color{1, 1, 1})
	q.Push(1, 1, -3, Color{1, 1, 1})
	q.Push(1.2, 1.2, 0.5, Color{1, 1, 1}) // inside one pixel, floors to an empty span
	q.Push(math.NaN(), 0, 2, Color{1, 1, 1})
	q.Push(0, 0, math.NaN(), Color{1, 1, 1})
	q.Push(math.Inf(-1), 0, math.Inf(1), Color{1, 1, 1})

	assertAll(t, Rasterize(q, 4, 4), Black)
}

func TestRasterizeClipsPartialQuads(t *testing.T) {
	q := NewQueue(2)
	q.Push(-1.5, -1.5, 3, Color{0, 1, 0}) // covers [0,1.5) -> pixel 0 only
	q.Push(2.5, 2.5, 10, Color{0, 0, 1})  // covers [2.5,4) -> pixels 2..3

	fb := Rasterize(q, 4, 4)
	green, blue := Quantize(Color{0, 1, 0}), Quantize(Color{0, 0, 1})

	if got := mustPixel(t, fb, 0, 0); got != green {
		t.Errorf("(0,0) = %+v, want green", got)
	}
	if got := mustPixel(t, fb, 1, 1); got != Black {
		t.Errorf("(1,1) = %+v, want black", got)
	}
	for _, p := range [][2]int{{2, 2}, {3, 3}, {2, 3}, {3, 2}} {
		if got := mustPixel(t, fb, p[0], p[1]); got != blue {
			t.Errorf("(%d,%d) = %+v, want blue", p[0], p[1], got)
		}
	}
}

func TestRasterizePainterOrder(t *testing.T) {
	q := NewQueue(2)
	first, second := Color{1, 0, 0}, Color{0, 0, 1}
	q.Push(0, 0, 3, first)
	q.Push(1, 1, 3, second)

	fb := Rasterize(q, 4, 4)
	if got := mustPixel(t, fb, 0, 0); got != Quantize(first) {
		t.Errorf("(0,0) = %+v, want first color", got)
	}
	// Overlap [1,3)x[1,3) shows only the later quad.
	for y := 1; y < 3; y++ {
		for x := 1; x < 3; x++ {
			if got := mustPixel(t, fb, x, y); got != Quantize(second) {
				t.Errorf("overlap (%d,%d) = %+v, want second color", x, y, got)
			}
		}
	}
	if got := mustPixel(t, fb, 3, 3); got != Quantize(second) {
		t.Errorf("(3,3) = %+v, want second color", got)
	}
}

func TestRasterizeDeterministic(t *testing.T) {
	q := NewQueue(3)
	q.PushTexture(TextureGoldMine, 3, 3, 1)
	q.PushTexture(TextureForest, 5, 4, 1)
	q.PushTexture(TextureWorker, 1, 1, 1)

	a := Rasterize(q, 12, 12)
	b := Rasterize(q, 12, 12)
	if !a.Equal(b) {
		t.Fatal("two rasterizations of the same queue differ")
	}

	reused := NewFrameBuffer(12, 12)
	reused.Fill(Pixel{9, 9, 9})
	RasterizeInto(reused, q)
	if !reused.Equal(a) {
		t.Fatal("RasterizeInto differs from Rasterize")
	}
}

func TestFootprint(t *testing.T) {
	tests := []struct {
		quad           Quad
		x0, y0, x1, y1 int
		ok             bool
	}{
		{Quad{X: 1, Y: 1, Size: 2}, 1, 1, 3, 3, true},
		{Quad{X: 0.9, Y: 0.1, Size: 1.2}, 0, 0, 2, 1, true},
		{Quad{X: -2, Y: 3, Size: 4}, 0, 3, 2, 4, true},
		{Quad{X: 3.5, Y: 3.5, Size: 4}, 3, 3, 4, 4, true},
		{Quad{X: 4, Y: 0, Size: 1}, 0, 0, 0, 0, false},
		{Quad{X: 1.1, Y: 1.1, Size: 0.8}, 0, 0, 0, 0, false},
	}
	for _, tt := range tests {
		x0, y0, x1, y1, ok := Footprint(tt.quad, 4, 4)
		if ok != tt.ok || x0 != tt.x0 || y0 != tt.y0 || x1 != tt.x1 || y1 != tt.y1 {
			t.Errorf("Footprint(%+v) = (%d,%d,%d,%d,%v), want (%d,%d,%d,%d,%v)",
				tt.quad, x0, y0, x1, y1, ok, tt.x0, tt.y0, tt.x1, tt.y1, tt.ok)
		}
	}
}

func TestQueue(t *testing.T) {
	q := NewQueue(0)
	q.PushTexture(TextureWorker, 1, 2, 16)
	if q.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", q.Len())
	}
	got := q.Quads()[0]
	if got.Color != (Color{0.2, 0.4, 1.0}) || got.Size != 16 || got.X != 1 || got.Y != 2 {
		t.Errorf("quad = %+v", got)
	}

	clone := q.Clone()
	q.Reset()
	if q.Len() != 0 {
		t.Errorf("Len() after Reset = %d, want 0", q.Len())
	}
	if clone.Len() != 1 {
		t.Errorf("clone Len() = %d, want 1", clone.Len())
	}

	var nilQueue *Queue
	if nilQueue.Len() != 0 || nilQueue.Quads() != nil {
		t.Error("nil queue should be empty")
	}
}
