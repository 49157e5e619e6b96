package draw

import (
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Color is a linear RGB triple. Channels are nominally in [0, 1] but are not
// clamped until quantized.
type Color struct {
	R, G, B float64
}

// Pixel is an 8-bit RGB value as stored in a FrameBuffer.
type Pixel struct {
	R, G, B uint8
}

// Black is the initial value of every FrameBuffer pixel.
var Black = Pixel{}

// Quantize converts a Color to a Pixel. Each channel is clamped to [0, 1],
// scaled by 255 and rounded half up.
func Quantize(c Color) Pixel {
	r, g, b := colorful.Color{R: c.R, G: c.G, B: c.B}.Clamped().RGB255()
	return Pixel{R: r, G: g, B: b}
}

// Hex returns the pixel as a "#rrggbb" string.
func (p Pixel) Hex() string {
	return colorful.Color{
		R: float64(p.R) / 255,
		G: float64(p.G) / 255,
		B: float64(p.B) / 255,
	}.Hex()
}

// Texture identifies a placeholder sprite. Every texture renders as a flat square.
type Texture int

const (
	TextureWorker Texture = iota
	TextureBarracks
	TextureGoldMine
	TextureForest
)

// Textures lists every texture in declaration order.
var Textures = []Texture{TextureWorker, TextureBarracks, TextureGoldMine, TextureForest}

// Color returns the placeholder color for the texture.
func (t Texture) Color() Color {
	switch t {
	case TextureWorker:
		return Color{0.2, 0.4, 1.0}
	case TextureBarracks:
		return Color{0.7, 0.2, 0.2}
	case TextureGoldMine:
		return Color{1.0, 0.85, 0.1}
	case TextureForest:
		return Color{0.1, 0.7, 0.1}
	}
	panic("draw: unknown texture")
}

func (t Texture) String() string {
	switch t {
	case TextureWorker:
		return "worker"
	case TextureBarracks:
		return "barracks"
	case TextureGoldMine:
		return "goldmine"
	case TextureForest:
		return "forest"
	}
	return "unknown"
}
