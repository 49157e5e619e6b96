package draw

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// ErrOutOfBounds is returned when a pixel read addresses a coordinate outside the buffer.
var ErrOutOfBounds = errors.New("draw: pixel out of bounds")

// FrameBuffer is a fixed-size grid of pixels, row-major with the origin at the top-left.
//
// Writes outside the buffer are dropped silently because quad footprints may
// exceed the buffer edges. Reads outside the buffer return ErrOutOfBounds.
type FrameBuffer struct {
	width  int
	height int
	pixels []Pixel // Flat slice: [y * width + x]
}

// NewFrameBuffer creates a black frame buffer. Negative dimensions are treated as zero.
func NewFrameBuffer(width, height int) *FrameBuffer {
	width = max(width, 0)
	height = max(height, 0)
	return &FrameBuffer{
		width:  width,
		height: height,
		pixels: make([]Pixel, width*height),
	}
}

// Width returns the buffer width in pixels.
func (fb *FrameBuffer) Width() int {
	return fb.width
}

// Height returns the buffer height in pixels.
func (fb *FrameBuffer) Height() int {
	return fb.height
}

// InBounds reports whether (x, y) addresses a pixel of the buffer.
func (fb *FrameBuffer) InBounds(x, y int) bool {
	return x >= 0 && x < fb.width && y >= 0 && y < fb.height
}

// SetPixel sets the pixel at (x, y). Out-of-bounds writes are ignored.
func (fb *FrameBuffer) SetPixel(x, y int, p Pixel) {
	if fb.InBounds(x, y) {
		fb.pixels[y*fb.width+x] = p
	}
}

// Pixel returns the pixel at (x, y), or ErrOutOfBounds.
func (fb *FrameBuffer) Pixel(x, y int) (Pixel, error) {
	if !fb.InBounds(x, y) {
		return Pixel{}, fmt.Errorf("%w: (%d, %d) not in %dx%d", ErrOutOfBounds, x, y, fb.width, fb.height)
	}
	return fb.pixels[y*fb.width+x], nil
}

// Fill sets every pixel to p.
func (fb *FrameBuffer) Fill(p Pixel) {
	for i := range fb.pixels {
		fb.pixels[i] = p
	}
}

// Clear resets every pixel to black.
func (fb *FrameBuffer) Clear() {
	clear(fb.pixels)
}

// fillRect fills the half-open rectangle [x0, x1) x [y0, y1), which must lie inside the buffer.
func (fb *FrameBuffer) fillRect(x0, y0, x1, y1 int, p Pixel) {
	for y := y0; y < y1; y++ {
		row := fb.pixels[y*fb.width+x0 : y*fb.width+x1]
		for i := range row {
			row[i] = p
		}
	}
}

// Equal reports whether both buffers have the same size and pixels.
func (fb *FrameBuffer) Equal(other *FrameBuffer) bool {
	if fb.width != other.width || fb.height != other.height {
		return false
	}
	for i, p := range fb.pixels {
		if other.pixels[i] != p {
			return false
		}
	}
	return true
}

// Bounds implements the image.Image interface.
func (fb *FrameBuffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, fb.width, fb.height)
}

// ColorModel implements the image.Image interface.
func (fb *FrameBuffer) ColorModel() color.Model {
	return color.RGBAModel
}

// At implements the image.Image interface. Points outside the buffer are
// transparent black, as image.Image requires.
func (fb *FrameBuffer) At(x, y int) color.Color {
	if !fb.InBounds(x, y) {
		return color.RGBA{}
	}
	p := fb.pixels[y*fb.width+x]
	return color.RGBA{R: p.R, G: p.G, B: p.B, A: 0xff}
}

// Ensure FrameBuffer can be handed to image encoders.
var _ image.Image = (*FrameBuffer)(nil)
