package pixel

import (
	"image/color"
	"testing"
)

func TestRGB(t *testing.T) {
	for _, test := range []struct {
		color RGB
		want  uint32
	}{
		{RGB{}, 0x0000},
		{RGB{R: 0xff, G: 0xff, B: 0xff}, 0xffff},
		{RGB{R: 0x12, G: 0x12, B: 0x12}, 0x1212},
	} {
		r, g, b, a := test.color.RGBA()
		if r != test.want {
			t.Errorf("expected red to be %#04x, got %#04x", test.want, r)
		}
		if g != test.want {
			t.Errorf("expected green to be %#04x, got %#04x", test.want, g)
		}
		if b != test.want {
			t.Errorf("expected blue to be %#04x, got %#04x", test.want, b)
		}
		if a != 0xffff {
			t.Errorf("expected alpha to be 0xffff, got %#04x", a)
		}
	}
}

func TestRGBStorage(t *testing.T) {
	for _, test := range []struct {
		color RGB
		want  uint32
	}{
		{RGB{}, 0x000000},
		{RGB{R: 0xff}, 0xff0000},
		{RGB{G: 0xff}, 0x00ff00},
		{RGB{B: 0xff}, 0x0000ff},
		{RGB{R: 0x12, G: 0x34, B: 0x56}, 0x123456},
	} {
		if v := test.color.Storage(); v != test.want {
			t.Errorf("expected %#+v to pack to %#06x, got %#06x", test.color, test.want, v)
		}
		if c := FromStorage(test.want); c != test.color {
			t.Errorf("expected %#06x to unpack to %#+v, got %#+v", test.want, test.color, c)
		}
	}
}

func TestRGBModel(t *testing.T) {
	for _, test := range []struct {
		color color.Color
		want  RGB
	}{
		{color.RGBA{R: 0xff, A: 0xff}, RGB{R: 0xff}},
		{color.RGBA{G: 0xff, A: 0xff}, RGB{G: 0xff}},
		{color.RGBA{B: 0xff, A: 0xff}, RGB{B: 0xff}},
		{color.RGBA{R: 0x12, G: 0x34, B: 0x56, A: 0xff}, RGB{R: 0x12, G: 0x34, B: 0x56}},
		{color.Gray16{Y: 0xabcd}, RGB{R: 0xab, G: 0xab, B: 0xab}},
		{RGB{R: 0x01, G: 0x02, B: 0x03}, RGB{R: 0x01, G: 0x02, B: 0x03}},
	} {
		if c := RGBModel.Convert(test.color).(RGB); c != test.want {
			t.Errorf("expected %#+v to convert to %#+v, got %#+v", test.color, test.want, c)
		}
	}
}

func TestCRGB16(t *testing.T) {
	for _, test := range []struct {
		color RGB
		want  CRGB16
		back  RGB
	}{
		{RGB{}, CRGB16{0x0000}, RGB{}},
		{RGB{R: 0xff, G: 0xff, B: 0xff}, CRGB16{0xffff}, RGB{R: 0xff, G: 0xff, B: 0xff}},
		{RGB{R: 0xff}, CRGB16{0xf800}, RGB{R: 0xff}},
		{RGB{G: 0xff}, CRGB16{0x07e0}, RGB{G: 0xff}},
		{RGB{B: 0xff}, CRGB16{0x001f}, RGB{B: 0xff}},
	} {
		c := CRGB16Model.Convert(test.color).(CRGB16)
		if c != test.want {
			t.Errorf("expected %#+v to convert to %#04x, got %#04x", test.color, test.want.V, c.V)
		}
		if back := RGBModel.Convert(c).(RGB); back != test.back {
			t.Errorf("expected %#04x to round-trip to %#+v, got %#+v", c.V, test.back, back)
		}
	}
}
