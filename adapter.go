package v5display

import (
	"image"
	"image/color"
	"image/draw"
	"iter"

	"github.com/BeatGlow/v5display/pixel"
)

// RenderMode selects how adapter writes reach the device.
type RenderMode uint8

const (
	// Immediate forwards every write to the device as it happens.
	Immediate RenderMode = iota

	// DoubleBuffered collects writes in the frame buffer until Render is
	// called, which pushes the whole frame in one copy.
	DoubleBuffered
)

// Pixel is a single colored point in a draw stream.
type Pixel struct {
	P image.Point
	C color.Color
}

// Adapter exposes a display [Device] as a draw target for Go's image
// ecosystem. It implements [draw.Image] and consumes pixel streams via
// [Adapter.DrawPixels].
//
// The adapter takes exclusive ownership of the device and keeps a frame
// buffer mirroring everything written, which backs [Adapter.At] and
// double-buffered rendering.
type Adapter struct {
	dev   Device
	frame *pixel.RGBImage
	mode  RenderMode
	err   error
}

// New wraps a display device. No I/O happens until the first write.
func New(dev Device) *Adapter {
	return &Adapter{
		dev:   dev,
		frame: pixel.NewRGBImage(Width, Height),
	}
}

func (a *Adapter) String() string {
	return a.dev.String()
}

// Close closes the underlying device.
func (a *Adapter) Close() error {
	return a.dev.Close()
}

// Bounds is the drawable area, always (0,0)-(480,272).
func (a *Adapter) Bounds() image.Rectangle {
	return image.Rect(0, 0, Width, Height)
}

// ColorModel is the panel's native color model.
func (a *Adapter) ColorModel() color.Model {
	return pixel.RGBModel
}

// At returns the color last written at (x, y).
func (a *Adapter) At(x, y int) color.Color {
	return a.frame.At(x, y)
}

// DrawPixels consumes a single-pass stream of pixels. Pixels outside the
// display bounds are silently discarded, so partially off-screen shapes
// degrade gracefully. The first device write error stops consumption and is
// returned; pixels already written stay on the display.
func (a *Adapter) DrawPixels(pixels iter.Seq[Pixel]) error {
	for p := range pixels {
		if !p.P.In(a.Bounds()) {
			continue
		}
		c := pixel.RGBModel.Convert(p.C).(pixel.RGB)
		a.frame.Set(p.P.X, p.P.Y, c)
		if a.mode == Immediate {
			if err := a.dev.SetPixel(p.P.X, p.P.Y, c); err != nil {
				return err
			}
		}
	}
	return nil
}

// Set writes a single pixel, with the same clipping policy as
// [Adapter.DrawPixels]. Because [draw.Image] has no error channel, a device
// write error is latched instead; collect it with [Adapter.Err] or
// [Adapter.Render].
func (a *Adapter) Set(x, y int, c color.Color) {
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return
	}
	v := pixel.RGBModel.Convert(c).(pixel.RGB)
	a.frame.Set(x, y, v)
	if a.mode == Immediate {
		if err := a.dev.SetPixel(x, y, v); err != nil && a.err == nil {
			a.err = err
		}
	}
}

// Err returns the first device write error latched by [Adapter.Set] since the
// last call, and clears it.
func (a *Adapter) Err() error {
	err := a.err
	a.err = nil
	return err
}

// Fill fills the whole display with a single color.
func (a *Adapter) Fill(c color.Color) error {
	return a.FillRect(a.Bounds(), c)
}

// Clear fills the whole display with black.
func (a *Adapter) Clear() error {
	return a.Fill(pixel.Black)
}

// FillRect fills a rectangle with a single color. The rectangle is clipped to
// the display bounds; a fully off-screen rectangle is a no-op, not an error.
func (a *Adapter) FillRect(r image.Rectangle, c color.Color) error {
	r = r.Canon().Intersect(a.Bounds())
	if r.Empty() {
		return nil
	}
	v := pixel.RGBModel.Convert(c).(pixel.RGB)
	a.fillFrame(r, v)
	if a.mode == Immediate {
		return a.dev.FillRect(r, v)
	}
	return nil
}

// DrawImage composites src into the rectangle r, aligned at sp, and pushes
// the affected rows in a single rectangular copy instead of per-pixel writes.
func (a *Adapter) DrawImage(r image.Rectangle, src image.Image, sp image.Point) error {
	r = r.Canon().Intersect(a.Bounds())
	if r.Empty() {
		return nil
	}
	draw.Draw(a.frame, r, src, sp, draw.Src)
	if a.mode == Immediate {
		return a.dev.CopyRect(r, a.frame.Pix[a.frame.PixOffset(r.Min.X, r.Min.Y):], a.frame.Stride)
	}
	return nil
}

// SetRenderMode sets the rendering mode of the display. Call
// [Adapter.Render] before switching back to [Immediate] to push any
// buffered writes.
func (a *Adapter) SetRenderMode(mode RenderMode) {
	a.mode = mode
}

// RenderMode returns the current rendering mode of the display.
func (a *Adapter) RenderMode() RenderMode {
	return a.mode
}

// Render pushes the buffered frame to the device when the rendering mode is
// [DoubleBuffered]. In [Immediate] mode it reports any latched write error,
// like [Adapter.Err].
func (a *Adapter) Render() error {
	if a.mode == DoubleBuffered {
		return a.dev.CopyRect(a.Bounds(), a.frame.Pix, a.frame.Stride)
	}
	return a.Err()
}

func (a *Adapter) fillFrame(r image.Rectangle, c pixel.RGB) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		i := a.frame.PixOffset(r.Min.X, y)
		for x := r.Min.X; x < r.Max.X; x++ {
			a.frame.Pix[i+0] = c.R
			a.frame.Pix[i+1] = c.G
			a.frame.Pix[i+2] = c.B
			i += 3
		}
	}
}

// Interface checks.
var (
	_ draw.Image = (*Adapter)(nil)
)
