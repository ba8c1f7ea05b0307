package pixel

import (
	"image"
	"image/color"
	"image/draw"
)

type Image interface {
	draw.Image

	// Clear the image.
	Clear()

	// Fill the image with a single color.
	Fill(color.Color)
}

// Buffer holds the pixel values and is the container used by the image
// formats in this package.
type Buffer struct {
	// Rect is the image bounding box.
	Rect image.Rectangle

	// Pix are the image pixels.
	Pix []byte

	// Stride is the Pix stride (in bytes) between vertically adjacent pixels.
	Stride int
}

func (p *Buffer) Bounds() image.Rectangle {
	return p.Rect
}

func (p *Buffer) Clear() {
	for i := range p.Pix {
		p.Pix[i] = 0x00
	}
}

func makeBuffer(w, h, stride, size int) Buffer {
	return Buffer{
		Rect:   image.Rect(0, 0, w, h),
		Pix:    make([]byte, size),
		Stride: stride,
	}
}

// RGBImage is a 24-bits per pixel 8-8-8-bit RGB image, stored as packed RGB
// triplets in row-major order. It matches the panel's native color format and
// is used as the staging frame for full-frame and rectangular RAM copies.
type RGBImage struct {
	Buffer
}

func NewRGBImage(w, h int) *RGBImage {
	return &RGBImage{
		Buffer: makeBuffer(w, h, w*3, w*3*h),
	}
}

func (p *RGBImage) ColorModel() color.Model {
	return RGBModel
}

// PixOffset returns the index of the first byte of the pixel at (x, y).
func (p *RGBImage) PixOffset(x, y int) int {
	return y*p.Stride + x*3
}

func (p *RGBImage) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return color.Transparent
	}

	i := p.PixOffset(x, y)
	return RGB{R: p.Pix[i], G: p.Pix[i+1], B: p.Pix[i+2]}
}

func (p *RGBImage) Set(x, y int, c color.Color) {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return
	}

	i := p.PixOffset(x, y)
	v := rgbModel(c).(RGB)
	p.Pix[i+0] = v.R
	p.Pix[i+1] = v.G
	p.Pix[i+2] = v.B
}

func (p *RGBImage) Fill(c color.Color) {
	v := rgbModel(c).(RGB)
	for i, l := 0, len(p.Pix); i < l; i += 3 {
		p.Pix[i+0] = v.R
		p.Pix[i+1] = v.G
		p.Pix[i+2] = v.B
	}
}

// Interface checks.
var (
	_ Image = (*RGBImage)(nil)
)
