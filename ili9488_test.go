package v5display

import (
	"errors"
	"image"
	"reflect"
	"testing"

	"periph.io/x/conn/v3/gpio"

	"github.com/BeatGlow/v5display/pixel"
)

type connEvent struct {
	command bool
	data    []byte
}

// testConn records the command and data stream sent to the controller.
type testConn struct {
	events []connEvent
}

func (c *testConn) String() string         { return "test conn" }
func (c *testConn) Close() error           { return nil }
func (c *testConn) Reset(gpio.Level) error { return nil }

func (c *testConn) Command(cmnd byte, data ...byte) error {
	c.events = append(c.events, connEvent{command: true, data: append([]byte{cmnd}, data...)})
	return nil
}

func (c *testConn) Data(data ...byte) error {
	c.events = append(c.events, connEvent{data: append([]byte(nil), data...)})
	return nil
}

func command(b ...byte) connEvent { return connEvent{command: true, data: b} }
func data(b ...byte) connEvent    { return connEvent{data: b} }

func testILI9488(t *testing.T) (Device, *testConn) {
	t.Helper()
	c := new(testConn)
	d, err := ILI9488(c, nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	c.events = nil
	return d, c
}

func TestILI9488SetPixel(t *testing.T) {
	d, c := testILI9488(t)

	if err := d.SetPixel(3, 7, pixel.RGB{R: 0x10, G: 0x20, B: 0x30}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	// The 32-row reserved band shifts the page address window.
	want := []connEvent{
		command(ili9488CASET), data(0x00), data(0x03), data(0x00), data(0x03),
		command(ili9488PASET), data(0x00), data(0x27), data(0x00), data(0x27),
		command(ili9488RAMWR),
		data(0x10, 0x20, 0x30),
	}
	if !reflect.DeepEqual(c.events, want) {
		t.Errorf("expected command stream\n%#v\ngot\n%#v", want, c.events)
	}
}

func TestILI9488FillRect(t *testing.T) {
	d, c := testILI9488(t)

	if err := d.FillRect(image.Rect(0, 0, 2, 3), pixel.RGB{R: 0xaa}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	row := data(0xaa, 0x00, 0x00, 0xaa, 0x00, 0x00)
	want := []connEvent{
		command(ili9488CASET), data(0x00), data(0x00), data(0x00), data(0x01),
		command(ili9488PASET), data(0x00), data(0x20), data(0x00), data(0x22),
		command(ili9488RAMWR),
		row, row, row,
	}
	if !reflect.DeepEqual(c.events, want) {
		t.Errorf("expected command stream\n%#v\ngot\n%#v", want, c.events)
	}
}

func TestILI9488CopyRect(t *testing.T) {
	d, c := testILI9488(t)

	pix := []byte{
		1, 2, 3, 4, 5, 6,
		7, 8, 9, 10, 11, 12,
	}
	if err := d.CopyRect(image.Rect(0, 0, 2, 2), pix, 6); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	want := []connEvent{
		command(ili9488CASET), data(0x00), data(0x00), data(0x00), data(0x01),
		command(ili9488PASET), data(0x00), data(0x20), data(0x00), data(0x21),
		command(ili9488RAMWR),
		data(1, 2, 3, 4, 5, 6),
		data(7, 8, 9, 10, 11, 12),
	}
	if !reflect.DeepEqual(c.events, want) {
		t.Errorf("expected command stream\n%#v\ngot\n%#v", want, c.events)
	}

	t.Run("out-of-bounds", func(t *testing.T) {
		if err := d.CopyRect(image.Rect(479, 271, 481, 273), pix, 6); !errors.Is(err, ErrBounds) {
			t.Errorf("expected %v, got %v", ErrBounds, err)
		}
	})

	t.Run("short-data", func(t *testing.T) {
		if err := d.CopyRect(image.Rect(0, 0, 2, 2), pix[:6], 6); err == nil {
			t.Errorf("expected an error for short pixel data")
		}
	})
}
