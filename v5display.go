// Package v5display contains drivers and a standard draw target for the
// display panel found on V5-class robot brains.
//
// The panel exposes a 480×272 user-drawable area with a 24-bit RGB native
// color format. An [Adapter] wraps a [Device] and implements [draw.Image], so
// anything in Go's image ecosystem that renders onto a draw.Image (image/draw
// compositing, golang.org/x/image/font text, freetype rasterization) can
// render straight onto the panel:
//
//	dev, err := v5display.ILI9488(conn, nil)
//	if err != nil {
//		...
//	}
//	display := v5display.New(dev)
//	draw.Draw(display, display.Bounds(), img, image.Point{}, draw.Src)
package v5display

import (
	"errors"
	"image"
	"os"

	"periph.io/x/conn/v3/gpio"

	"github.com/BeatGlow/v5display/pixel"
)

var debug bool

func init() {
	debug = os.Getenv("V5DISPLAY_DEBUG") != ""
}

// Errors
var (
	ErrBounds = errors.New("v5display: out of display bounds")
)

// Panel dimensions of the user-drawable area, in pixels.
const (
	Width  = 480
	Height = 272
)

// headerRows is the reserved status band at the top of the display controller
// RAM. Drivers apply it as a row offset; user coordinates never include it.
const headerRows = 32

// Rotation defines pixel rotation.
type Rotation uint8

// Supported rotations.
const (
	NoRotation Rotation = iota
	Rotate90            // Rotate 90° clock wise
	Rotate180           // Rotate 180°
	Rotate270           // Rotate 270° clock wise
)

func (r Rotation) String() string {
	switch r % 4 {
	case Rotate90:
		return "90°"
	case Rotate180:
		return "180°"
	case Rotate270:
		return "270°"
	default:
		return "0°"
	}
}

// Device is a display peripheral that can accept pixel writes for the panel's
// user area. All coordinates are user-area coordinates in [0, Width) ×
// [0, Height); drivers own any controller RAM offsets.
//
// A Device is exclusively owned by the [Adapter] that wraps it; sharing one
// device between adapters leaves the controller write window in an undefined
// state.
type Device interface {
	String() string

	// Close the display device.
	Close() error

	// SetPixel writes a single pixel in the panel's native color format.
	SetPixel(x, y int, c pixel.RGB) error

	// FillRect fills a rectangle with a single color.
	FillRect(r image.Rectangle, c pixel.RGB) error

	// CopyRect copies packed RGB rows into the rectangle r. The pix slice
	// holds 3-byte pixels with the given stride between rows.
	CopyRect(r image.Rectangle, pix []byte, stride int) error

	// Show toggles the display on or off.
	Show(bool) error
}

// Config is the display configuration.
type Config struct {
	// Rotation of the display.
	Rotation Rotation

	// Backlight pin
	Backlight gpio.PinOut
}
