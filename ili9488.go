package v5display

import (
	"bytes"
	"fmt"
	"image"
	"time"

	"periph.io/x/conn/v3/gpio"

	"github.com/BeatGlow/v5display/conn"
	"github.com/BeatGlow/v5display/pixel"
)

// Registers (from ili9488.pdf).
const (
	ili9488NOP     = 0x00
	ili9488SWRESET = 0x01
	ili9488RDDID   = 0x04
	ili9488RDDST   = 0x09
	ili9488SLPIN   = 0x10
	ili9488SLPOUT  = 0x11 // Sleep Out
	ili9488PTLON   = 0x12
	ili9488NORON   = 0x13
	ili9488INVOFF  = 0x20
	ili9488INVON   = 0x21
	ili9488DISPOFF = 0x28 // Display Off
	ili9488DISPON  = 0x29 // Display On
	ili9488CASET   = 0x2A // Column Address Set
	ili9488PASET   = 0x2B // Page Address Set
	ili9488RAMWR   = 0x2C // Memory Write
	ili9488RAMRD   = 0x2E
	ili9488MADCTL  = 0x36 // Memory Access Control
	ili9488IDMOFF  = 0x38
	ili9488IDMON   = 0x39
	ili9488COLMOD  = 0x3A // Interface Pixel Format
	ili9488IFMODE  = 0xB0 // Interface Mode Control
	ili9488FRMCTR1 = 0xB1 // Frame Rate Control (normal mode)
	ili9488INVTR   = 0xB4 // Display Inversion Control
	ili9488DFC     = 0xB6 // Display Function Control
	ili9488EMS     = 0xB7 // Entry Mode Set
	ili9488PWCTRL1 = 0xC0 // Power Control 1
	ili9488PWCTRL2 = 0xC1 // Power Control 2
	ili9488VMCTRL  = 0xC5 // VCOM Control
	ili9488PGC     = 0xE0 // Positive Gamma Control
	ili9488NGC     = 0xE1 // Negative Gamma Control
	ili9488ADJCTL3 = 0xF7 // Adjust Control 3
)

// Memory Access Control (MADCTL) bit fields.
const (
	_                           byte = 1 << iota // D0: reserved
	_                                            // D1: reserved
	ili9488DisplayRefreshOrder                   // D2: MH
	ili9488BGROrder                              // D3: BGR
	ili9488LineAddressOrder                      // D4: ML
	ili9488PageColumnOrder                       // D5: MV
	ili9488ColumnAddressOrder                    // D6: MX
	ili9488PageAddressOrder                      // D7: MY
)

// ili9488 drives the brain panel's ILI9488-class controller. The controller
// RAM is 480×320; the visible 480×272 user area starts below the reserved
// status band, so all window addresses carry a fixed row offset.
type ili9488 struct {
	c         Conn
	rotation  Rotation
	colOffset int
	rowOffset int
	backlight gpio.PinOut
}

// ILI9488 opens the brain display panel on the given connection.
//
// The panel takes one byte per color channel in 18-bit mode; the controller
// ignores the low two bits of every channel byte, so colors lose 2 bits of
// precision per channel on the wire.
func ILI9488(c Conn, config *Config) (Device, error) {
	if config == nil {
		config = new(Config)
	}

	// Update mode and speed
	if spi, ok := c.(SPI); ok {
		spi.SetDataLow(false)
		if err := spi.SetMode(conn.SPIMode0); err != nil {
			return nil, err
		}
		if err := spi.SetMaxSpeed(32000000); err != nil {
			return nil, err
		}
	}

	d := &ili9488{
		c:         c,
		rowOffset: headerRows,
		backlight: config.Backlight,
	}

	if err := d.init(config); err != nil {
		return nil, err
	}

	return d, nil
}

func (d *ili9488) String() string {
	return fmt.Sprintf("ILI9488 %dx%d", Width, Height)
}

func (d *ili9488) Close() error {
	if err := d.Show(false); err != nil {
		_ = d.c.Close()
		return err
	}
	return d.c.Close()
}

// command sends each data byte separately, toggling the DC line per byte as
// the controller requires in serial mode.
func (d *ili9488) command(command byte, data ...byte) (err error) {
	if err = d.c.Command(command); err != nil {
		return
	}
	for _, data := range data {
		if err = d.c.Data(data); err != nil {
			return
		}
	}
	return
}

func (d *ili9488) commands(commands [][]byte) (err error) {
	for _, command := range commands {
		if err = d.command(command[0], command[1:]...); err != nil {
			return
		}
	}
	return
}

func (d *ili9488) data(data ...byte) error {
	return d.c.Data(data...)
}

func (d *ili9488) init(config *Config) (err error) {
	// reset the device.
	if err = d.c.Reset(gpio.High); err != nil {
		return
	}
	time.Sleep(100 * time.Millisecond)
	if err = d.c.Reset(gpio.Low); err != nil {
		return
	}
	time.Sleep(100 * time.Millisecond)
	if err = d.c.Reset(gpio.High); err != nil {
		return
	}

	// init display
	time.Sleep(10 * time.Millisecond)
	if err = d.command(ili9488SLPOUT); err != nil { // Sleep Out
		return
	}
	time.Sleep(120 * time.Millisecond)

	if err = d.commands([][]byte{
		{ili9488PGC, 0x00, 0x03, 0x09, 0x08, 0x16, 0x0A, 0x3F, 0x78, 0x4C, 0x09, 0x0A, 0x08, 0x16, 0x1A, 0x0F}, // Positive Gamma Control
		{ili9488NGC, 0x00, 0x16, 0x19, 0x03, 0x0F, 0x05, 0x32, 0x45, 0x46, 0x04, 0x0E, 0x0D, 0x35, 0x37, 0x0F}, // Negative Gamma Control
		{ili9488PWCTRL1, 0x17, 0x15},       // Power Control 1: Vreg1out, Vreg2out
		{ili9488PWCTRL2, 0x41},             // Power Control 2: VGH, VGL
		{ili9488VMCTRL, 0x00, 0x12, 0x80},  // VCOM Control: VCM_REG 0.8V
		{ili9488COLMOD, 0x66},              // Interface Pixel Format: 18-bit/pixel, one byte per channel
		{ili9488IFMODE, 0x00},              // Interface Mode Control: SDO not used
		{ili9488FRMCTR1, 0xA0},             // Frame Rate Control: 60Hz
		{ili9488INVTR, 0x02},               // Display Inversion Control: 2-dot
		{ili9488DFC, 0x02, 0x02},           // Display Function Control: normal scan
		{ili9488EMS, 0xC6},                 // Entry Mode Set
		{ili9488ADJCTL3, 0xA9, 0x51, 0x2C, 0x82}, // Adjust Control 3: fixed per datasheet
		{ili9488NORON}, // Normal Display Mode On
		{ili9488DISPON},
	}); err != nil {
		return
	}
	time.Sleep(25 * time.Millisecond)

	if d.backlight != nil {
		if err = d.backlight.Out(gpio.High); err != nil {
			return
		}
	}

	return d.SetRotation(config.Rotation)
}

func (d *ili9488) Show(show bool) error {
	var command = byte(ili9488DISPOFF)
	if show {
		command = byte(ili9488DISPON)
	}
	return d.command(command)
}

func (d *ili9488) SetRotation(rotation Rotation) error {
	rotation &= 3

	madctl := ili9488BGROrder
	switch rotation {
	case Rotate90:
		madctl |= ili9488ColumnAddressOrder | ili9488PageColumnOrder
	case Rotate180:
		madctl |= ili9488ColumnAddressOrder | ili9488PageAddressOrder
	case Rotate270:
		madctl |= ili9488PageAddressOrder | ili9488PageColumnOrder
	}

	d.rotation = rotation
	return d.command(ili9488MADCTL, madctl)
}

func (d *ili9488) setWindow(x0, y0, x1, y1 int) error {
	if d.rotation == Rotate90 || d.rotation == Rotate270 {
		x0 += d.rowOffset
		y0 += d.colOffset
		x1 += d.rowOffset
		y1 += d.colOffset
	} else {
		x0 += d.colOffset
		y0 += d.rowOffset
		x1 += d.colOffset
		y1 += d.rowOffset
	}
	return d.commands([][]byte{
		{ili9488CASET, byte(x0 >> 8), byte(x0), byte(x1 >> 8), byte(x1)}, // Column address
		{ili9488PASET, byte(y0 >> 8), byte(y0), byte(y1 >> 8), byte(y1)}, // Page address
		{ili9488RAMWR}, // Write to RAM
	})
}

func (d *ili9488) SetPixel(x, y int, c pixel.RGB) error {
	if err := d.setWindow(x, y, x, y); err != nil {
		return err
	}
	return d.data(c.R, c.G, c.B)
}

func (d *ili9488) FillRect(r image.Rectangle, c pixel.RGB) error {
	if r.Empty() {
		return nil
	}
	if err := d.setWindow(r.Min.X, r.Min.Y, r.Max.X-1, r.Max.Y-1); err != nil {
		return err
	}
	row := bytes.Repeat([]byte{c.R, c.G, c.B}, r.Dx())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		if err := d.data(row...); err != nil {
			return err
		}
	}
	return nil
}

func (d *ili9488) CopyRect(r image.Rectangle, pix []byte, stride int) error {
	if r.Empty() {
		return nil
	}
	if !r.In(image.Rect(0, 0, Width, Height)) {
		return ErrBounds
	}
	n := r.Dx() * 3
	if stride < n || len(pix) < (r.Dy()-1)*stride+n {
		return fmt.Errorf("v5display: pixel data too short for %s copy", r)
	}
	if err := d.setWindow(r.Min.X, r.Min.Y, r.Max.X-1, r.Max.Y-1); err != nil {
		return err
	}
	for y := 0; y < r.Dy(); y++ {
		if err := d.data(pix[y*stride : y*stride+n]...); err != nil {
			return err
		}
	}
	return nil
}

// Interface checks.
var (
	_ Device = (*ili9488)(nil)
)
