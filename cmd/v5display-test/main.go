package main

import (
	"flag"
	"fmt"
	"image/color"
	"os"
	"time"

	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"

	"github.com/BeatGlow/v5display"
	"github.com/BeatGlow/v5display/framebuffer"
	"github.com/BeatGlow/v5display/pixel"
)

func main() {
	spiBusFlag := flag.Int("spi-bus", 0, "SPI bus")
	spiDeviceFlag := flag.Int("spi-dev", 0, "SPI device")
	resetPinFlag := flag.String("reset", "GPIO25", "Reset GPIO pin")
	dcPinFlag := flag.String("dc", "GPIO24", "Data/Command GPIO pin (DC)")
	cePinFlag := flag.String("ce", "GPIO8", "Chip enable GPIO pin")
	blPinFlag := flag.String("bl", "GPIO19", "Backlight GPIO pin")
	fbFlag := flag.String("fb", "/dev/fb0", "Framebuffer device")
	rotateFlag := flag.String("rotate", "", "Display rotation")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Usage: %s <spi|fb>\n", os.Args[0])
		os.Exit(1)
	}

	var rotation v5display.Rotation
	switch *rotateFlag {
	case "", "no", "0":
		rotation = v5display.NoRotation
	case "90", "right", "cw":
		rotation = v5display.Rotate90
	case "180", "flip":
		rotation = v5display.Rotate180
	case "270", "left", "ccw":
		rotation = v5display.Rotate270
	default:
		fatal(fmt.Errorf("invalid rotation %q specified", *rotateFlag))
	}

	if _, err := host.Init(); err != nil {
		fatal(err)
	}

	var (
		dev v5display.Device
		err error
	)
	switch busType := flag.Arg(0); busType {
	case "spi":
		var conn v5display.Conn
		conn, err = v5display.OpenSPI(&v5display.SPIConfig{
			Bus:    *spiBusFlag,
			Device: *spiDeviceFlag,
			Reset:  gpioreg.ByName(*resetPinFlag),
			DC:     gpioreg.ByName(*dcPinFlag),
			CE:     gpioreg.ByName(*cePinFlag),
		})
		if err != nil {
			fatal(err)
		}
		dev, err = v5display.ILI9488(conn, &v5display.Config{
			Rotation:  rotation,
			Backlight: gpioreg.ByName(*blPinFlag),
		})
	case "fb":
		dev, err = framebuffer.Open(*fbFlag)
	default:
		err = fmt.Errorf("unsupported bus type %q", busType)
	}
	if err != nil {
		fatal(err)
	}

	display := v5display.New(dev)
	defer display.Close()
	fmt.Printf("using device: %s\n", display)

	if err = display.Clear(); err != nil {
		fatal(err)
	}

	// Draw box around the edge. The box is deliberately one pixel too large
	// on every side; the off-screen pixels are clipped.
	r := display.Bounds()
	for x := -1; x <= r.Max.X; x++ {
		display.Set(x, 0, pixel.White)
		display.Set(x, r.Max.Y-1, pixel.White)
	}
	for y := -1; y <= r.Max.Y; y++ {
		display.Set(0, y, pixel.White)
		display.Set(r.Max.X-1, y, pixel.White)
	}
	if err = display.Err(); err != nil {
		fatal(err)
	}

	display.SetRenderMode(v5display.DoubleBuffered)

	var (
		offset int
		ticker = time.NewTicker(50 * time.Millisecond)
	)
	defer ticker.Stop()

	fmt.Println("hit control-c to stop...")
	for {
		// Draw gradient inside the box.
		for y := 1; y < r.Max.Y-1; y++ {
			for x := 1; x < r.Max.X-1; x++ {
				display.Set(x, y, color.RGBA{
					R: uint8(x + y + offset),
					G: uint8(x - y + offset),
					B: uint8(x + y - offset),
					A: 0xff,
				})
			}
		}

		if err = display.Render(); err != nil {
			fatal(err)
		}

		offset++
		<-ticker.C
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "fatal: "+err.Error())
	os.Exit(1)
}
