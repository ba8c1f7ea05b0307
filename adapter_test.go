package v5display

import (
	"errors"
	"image"
	"image/color"
	"iter"
	"testing"

	"github.com/BeatGlow/v5display/pixel"
)

var errWrite = errors.New("pixel write failed")

type pixelWrite struct {
	x, y int
	c    pixel.RGB
}

// testDevice records writes and optionally fails pixel writes after a number
// of successful ones.
type testDevice struct {
	pixels    []pixelWrite
	fills     []image.Rectangle
	copies    []image.Rectangle
	attempts  int
	failAfter int
}

func newTestDevice() *testDevice {
	return &testDevice{failAfter: -1}
}

func (d *testDevice) String() string { return "test device" }
func (d *testDevice) Close() error { return nil }
func (d *testDevice) Show(bool) error { return nil }

func (d *testDevice) SetPixel(x, y int, c pixel.RGB) error {
	d.attempts++
	if d.failAfter >= 0 && len(d.pixels) >= d.failAfter {
		return errWrite
	}
	d.pixels = append(d.pixels, pixelWrite{x, y, c})
	return nil
}

func (d *testDevice) FillRect(r image.Rectangle, c pixel.RGB) error {
	d.fills = append(d.fills, r)
	return nil
}

func (d *testDevice) CopyRect(r image.Rectangle, pix []byte, stride int) error {
	n := r.Dx() * 3
	if stride < n || len(pix) < (r.Dy()-1)*stride+n {
		return errors.New("short pixel data")
	}
	d.copies = append(d.copies, r)
	return nil
}

func pixelSeq(pixels ...Pixel) iter.Seq[Pixel] {
	return func(yield func(Pixel) bool) {
		for _, p := range pixels {
			if !yield(p) {
				return
			}
		}
	}
}

func TestAdapterBounds(t *testing.T) {
	a := New(newTestDevice())

	want := image.Rect(0, 0, 480, 272)
	for i := 0; i < 3; i++ {
		if v := a.Bounds(); v != want {
			t.Fatalf("expected bounds %s, got %s", want, v)
		}
	}
	if v := a.ColorModel(); v != pixel.RGBModel {
		t.Errorf("expected color model %T, got %T", pixel.RGBModel, v)
	}
}

func TestDrawPixels(t *testing.T) {
	t.Run("in-bounds", func(t *testing.T) {
		for _, test := range []image.Point{
			image.Pt(0, 0),
			image.Pt(479, 271),
			image.Pt(479, 0),
			image.Pt(0, 271),
			image.Pt(123, 45),
		} {
			dev := newTestDevice()
			a := New(dev)

			c := color.RGBA{R: 0x12, G: 0x34, B: 0x56, A: 0xff}
			if err := a.DrawPixels(pixelSeq(Pixel{P: test, C: c})); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(dev.pixels) != 1 {
				t.Fatalf("expected 1 write for %s, got %d", test, len(dev.pixels))
			}
			want := pixelWrite{test.X, test.Y, pixel.RGB{R: 0x12, G: 0x34, B: 0x56}}
			if dev.pixels[0] != want {
				t.Errorf("expected write %#+v, got %#+v", want, dev.pixels[0])
			}
		}
	})

	t.Run("out-of-bounds", func(t *testing.T) {
		dev := newTestDevice()
		a := New(dev)

		err := a.DrawPixels(pixelSeq(
			Pixel{P: image.Pt(500, 10), C: pixel.White},
			Pixel{P: image.Pt(-1, 5), C: pixel.White},
			Pixel{P: image.Pt(480, 0), C: pixel.White},
			Pixel{P: image.Pt(0, 272), C: pixel.White},
			Pixel{P: image.Pt(0, -1), C: pixel.White},
		))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if dev.attempts != 0 {
			t.Errorf("expected 0 writes, got %d", dev.attempts)
		}
	})

	t.Run("empty", func(t *testing.T) {
		dev := newTestDevice()
		a := New(dev)

		if err := a.DrawPixels(pixelSeq()); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if dev.attempts != 0 {
			t.Errorf("expected 0 writes, got %d", dev.attempts)
		}
	})

	t.Run("mixed", func(t *testing.T) {
		dev := newTestDevice()
		a := New(dev)

		err := a.DrawPixels(pixelSeq(
			Pixel{P: image.Pt(500, 10), C: pixel.White},
			Pixel{P: image.Pt(479, 271), C: pixel.White},
			Pixel{P: image.Pt(-1, 5), C: pixel.White},
		))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(dev.pixels) != 1 {
			t.Fatalf("expected 1 write, got %d", len(dev.pixels))
		}
		if want := (pixelWrite{479, 271, pixel.White}); dev.pixels[0] != want {
			t.Errorf("expected write %#+v, got %#+v", want, dev.pixels[0])
		}
	})
}

func TestDrawPixelsConversion(t *testing.T) {
	for _, test := range []struct {
		color color.Color
		want  pixel.RGB
	}{
		{color.Black, pixel.Black},
		{color.White, pixel.White},
		{color.RGBA{R: 0xff, A: 0xff}, pixel.RGB{R: 0xff}},
		{color.RGBA{G: 0xff, A: 0xff}, pixel.RGB{G: 0xff}},
		{color.RGBA{B: 0xff, A: 0xff}, pixel.RGB{B: 0xff}},
	} {
		dev := newTestDevice()
		a := New(dev)

		if err := a.DrawPixels(pixelSeq(Pixel{P: image.Pt(1, 1), C: test.color})); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(dev.pixels) != 1 {
			t.Fatalf("expected 1 write, got %d", len(dev.pixels))
		}
		if dev.pixels[0].c != test.want {
			t.Errorf("expected %#+v to be written as %#+v, got %#+v", test.color, test.want, dev.pixels[0].c)
		}
	}
}

func TestDrawPixelsError(t *testing.T) {
	dev := newTestDevice()
	dev.failAfter = 2 // third write fails
	a := New(dev)

	var yielded int
	seq := func(yield func(Pixel) bool) {
		for i := 0; i < 5; i++ {
			yielded++
			if !yield(Pixel{P: image.Pt(i, 0), C: pixel.White}) {
				return
			}
		}
	}

	if err := a.DrawPixels(seq); !errors.Is(err, errWrite) {
		t.Fatalf("expected %v, got %v", errWrite, err)
	}
	if len(dev.pixels) != 2 {
		t.Errorf("expected 2 successful writes before the failure, got %d", len(dev.pixels))
	}
	if dev.attempts != 3 {
		t.Errorf("expected 3 write attempts, got %d", dev.attempts)
	}
	if yielded != 3 {
		t.Errorf("expected consumption to stop after 3 pixels, got %d", yielded)
	}
}

func TestSet(t *testing.T) {
	t.Run("write-through", func(t *testing.T) {
		dev := newTestDevice()
		a := New(dev)

		a.Set(10, 20, color.RGBA{R: 0xff, A: 0xff})
		if err := a.Err(); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(dev.pixels) != 1 {
			t.Fatalf("expected 1 write, got %d", len(dev.pixels))
		}
		if want := (pixelWrite{10, 20, pixel.RGB{R: 0xff}}); dev.pixels[0] != want {
			t.Errorf("expected write %#+v, got %#+v", want, dev.pixels[0])
		}
		if v := a.At(10, 20); v != (pixel.RGB{R: 0xff}) {
			t.Errorf("expected At to read back the written color, got %#+v", v)
		}
	})

	t.Run("out-of-bounds", func(t *testing.T) {
		dev := newTestDevice()
		a := New(dev)

		a.Set(480, 272, pixel.White)
		a.Set(-1, -1, pixel.White)
		if dev.attempts != 0 {
			t.Errorf("expected 0 writes, got %d", dev.attempts)
		}
		if err := a.Err(); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})

	t.Run("latched-error", func(t *testing.T) {
		dev := newTestDevice()
		dev.failAfter = 0
		a := New(dev)

		a.Set(1, 1, pixel.White)
		a.Set(2, 2, pixel.White)
		if err := a.Err(); !errors.Is(err, errWrite) {
			t.Fatalf("expected %v, got %v", errWrite, err)
		}
		if err := a.Err(); err != nil {
			t.Errorf("expected error to be cleared, got %v", err)
		}
	})
}

func TestFillRect(t *testing.T) {
	t.Run("clipped", func(t *testing.T) {
		dev := newTestDevice()
		a := New(dev)

		if err := a.FillRect(image.Rect(470, 260, 500, 300), pixel.White); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(dev.fills) != 1 {
			t.Fatalf("expected 1 fill, got %d", len(dev.fills))
		}
		if want := image.Rect(470, 260, 480, 272); dev.fills[0] != want {
			t.Errorf("expected fill %s, got %s", want, dev.fills[0])
		}
		if v := a.At(479, 271); v != pixel.White {
			t.Errorf("expected frame pixel to be white, got %#+v", v)
		}
	})

	t.Run("off-screen", func(t *testing.T) {
		dev := newTestDevice()
		a := New(dev)

		if err := a.FillRect(image.Rect(500, 300, 600, 400), pixel.White); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(dev.fills) != 0 {
			t.Errorf("expected 0 fills, got %d", len(dev.fills))
		}
	})
}

func TestDrawImage(t *testing.T) {
	dev := newTestDevice()
	a := New(dev)

	src := image.NewUniform(color.RGBA{G: 0xff, A: 0xff})
	if err := a.DrawImage(image.Rect(10, 10, 20, 20), src, image.Point{}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(dev.copies) != 1 {
		t.Fatalf("expected 1 copy, got %d", len(dev.copies))
	}
	if want := image.Rect(10, 10, 20, 20); dev.copies[0] != want {
		t.Errorf("expected copy %s, got %s", want, dev.copies[0])
	}
	if v := a.At(15, 15); v != (pixel.RGB{G: 0xff}) {
		t.Errorf("expected frame pixel to be green, got %#+v", v)
	}
}

func TestDoubleBuffered(t *testing.T) {
	dev := newTestDevice()
	a := New(dev)
	a.SetRenderMode(DoubleBuffered)

	if v := a.RenderMode(); v != DoubleBuffered {
		t.Fatalf("expected render mode %d, got %d", DoubleBuffered, v)
	}

	a.Set(1, 2, pixel.White)
	if err := a.DrawPixels(pixelSeq(Pixel{P: image.Pt(3, 4), C: pixel.White})); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if err := a.FillRect(image.Rect(0, 0, 10, 10), pixel.White); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if dev.attempts != 0 || len(dev.fills) != 0 || len(dev.copies) != 0 {
		t.Fatalf("expected no device writes before Render, got %d pixels, %d fills, %d copies",
			dev.attempts, len(dev.fills), len(dev.copies))
	}

	if err := a.Render(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(dev.copies) != 1 {
		t.Fatalf("expected 1 copy after Render, got %d", len(dev.copies))
	}
	if want := image.Rect(0, 0, Width, Height); dev.copies[0] != want {
		t.Errorf("expected full frame copy %s, got %s", want, dev.copies[0])
	}
}

func TestClear(t *testing.T) {
	dev := newTestDevice()
	a := New(dev)

	a.Set(5, 5, pixel.White)
	if err := a.Clear(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(dev.fills) != 1 {
		t.Fatalf("expected 1 fill, got %d", len(dev.fills))
	}
	if want := image.Rect(0, 0, Width, Height); dev.fills[0] != want {
		t.Errorf("expected full screen fill %s, got %s", want, dev.fills[0])
	}
	if v := a.At(5, 5); v != pixel.Black {
		t.Errorf("expected cleared pixel to be black, got %#+v", v)
	}
}
