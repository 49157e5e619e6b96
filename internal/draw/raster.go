package draw

import "math"

// Footprint returns the half-open pixel rectangle [x0, x1) x [y0, y1) covered by q
// on a width x height buffer. ok is false when the intersection is empty.
//
// The quad is clamped to the buffer before truncating to integers, so the
// conversion only ever sees values in [0, width] and [0, height].
func Footprint(q Quad, width, height int) (x0, y0, x1, y1 int, ok bool) {
	left := math.Max(q.X, 0)
	top := math.Max(q.Y, 0)
	right := math.Min(q.X+q.Size, float64(width))
	bottom := math.Min(q.Y+q.Size, float64(height))

	// Negated so NaN coordinates count as empty.
	if !(right > left) || !(bottom > top) {
		return 0, 0, 0, 0, false
	}

	x0, y0 = int(left), int(top)
	x1, y1 = int(right), int(bottom)
	if x1 <= x0 || y1 <= y0 {
		return 0, 0, 0, 0, false
	}
	return x0, y0, x1, y1, true
}

// Rasterize paints every quad of q, in order, onto a new black width x height buffer.
// A nil queue yields a black buffer.
func Rasterize(q *Queue, width, height int) *FrameBuffer {
	fb := NewFrameBuffer(width, height)
	paint(fb, q)
	return fb
}

// RasterizeInto clears fb to black and paints q onto it, reusing its memory.
func RasterizeInto(fb *FrameBuffer, q *Queue) {
	fb.Clear()
	paint(fb, q)
}

func paint(fb *FrameBuffer, q *Queue) {
	for _, quad := range q.Quads() {
		x0, y0, x1, y1, ok := Footprint(quad, fb.width, fb.height)
		if !ok {
			continue
		}
		fb.fillRect(x0, y0, x1, y1, Quantize(quad.Color))
	}
}
