// Command v5clock draws an analog clock with a digital readout on the brain
// display, refreshed once a second in double-buffered mode.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"os"
	"time"

	"github.com/golang/freetype"
	"github.com/golang/freetype/raster"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"

	"github.com/BeatGlow/v5display"
	"github.com/BeatGlow/v5display/framebuffer"
)

// margin between the clock face and the display border.
const margin = 10

func main() {
	spiBusFlag := flag.Int("spi-bus", 0, "SPI bus")
	spiDeviceFlag := flag.Int("spi-dev", 0, "SPI device")
	resetPinFlag := flag.String("reset", "GPIO25", "Reset GPIO pin")
	dcPinFlag := flag.String("dc", "GPIO24", "Data/Command GPIO pin (DC)")
	cePinFlag := flag.String("ce", "GPIO8", "Chip enable GPIO pin")
	blPinFlag := flag.String("bl", "GPIO19", "Backlight GPIO pin")
	fbFlag := flag.String("fb", "/dev/fb0", "Framebuffer device")
	fontFlag := flag.String("font", "", "TrueType font for the digital clock")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Usage: %s <spi|fb>\n", os.Args[0])
		os.Exit(1)
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
	display.SetRenderMode(v5display.DoubleBuffered)
	fmt.Printf("using device: %s\n", display)

	var face font.Face = basicfont.Face7x13
	if *fontFlag != "" {
		data, err := os.ReadFile(*fontFlag)
		if err != nil {
			fatal(err)
		}
		f, err := freetype.ParseFont(data)
		if err != nil {
			fatal(err)
		}
		face = truetype.NewFace(f, &truetype.Options{Size: 15})
	}

	var (
		bounds  = display.Bounds()
		center  = bounds.Size().Div(2)
		radius  = min(bounds.Dx(), bounds.Dy())/2 - margin
		frame   = image.NewRGBA(bounds)
		rast    = raster.NewRasterizer(bounds.Dx(), bounds.Dy())
		painter = raster.NewRGBAPainter(frame)
		ticker  = time.NewTicker(time.Second)

		faceColor = color.RGBA{B: 0xff, A: 0xff}
		tickColor = color.RGBA{R: 0xf0, G: 0xff, B: 0xff, A: 0xff}
		handColor = color.RGBA{R: 0xff, A: 0xff}
	)
	rast.UseNonZeroWinding = true
	defer ticker.Stop()

	for {
		now := time.Now()
		var (
			h = float64(now.Hour()%12) + float64(now.Minute())/60
			m = float64(now.Minute()) + float64(now.Second())/60
			s = float64(now.Second())
		)

		draw.Draw(frame, bounds, image.Black, image.Point{}, draw.Src)

		// Face outline and the 12 graduations.
		strokeCircle(rast, painter, center, radius, 2, faceColor)
		for i := 0; i < 12; i++ {
			angle := float64(i) / 12 * 2 * math.Pi
			strokeLine(rast, painter,
				polar(center, angle, float64(radius)),
				polar(center, angle, float64(radius-10)),
				1, tickColor)
		}

		// Hands.
		strokeLine(rast, painter, fixedPt(center), polar(center, h/12*2*math.Pi, float64(radius-60)), 3, handColor)
		strokeLine(rast, painter, fixedPt(center), polar(center, m/60*2*math.Pi, float64(radius-30)), 2, handColor)
		strokeLine(rast, painter, fixedPt(center), polar(center, s/60*2*math.Pi, float64(radius)), 1, handColor)
		fillCircle(rast, painter, center, 5, handColor)

		if err = display.DrawImage(bounds, frame, image.Point{}); err != nil {
			fatal(err)
		}

		// Digital clock between the 12 o'clock mark and the center.
		text := now.Format("15:04:05")
		drawer := &font.Drawer{
			Dst:  display,
			Src:  image.White,
			Face: face,
		}
		width := drawer.MeasureString(text)
		drawer.Dot = fixed.P(center.X, center.Y-radius/2).Sub(fixed.Point26_6{X: width / 2})
		drawer.DrawString(text)

		if err = display.Render(); err != nil {
			fatal(err)
		}

		<-ticker.C
	}
}

// polar converts an angle relative to the 12 o'clock position and a radius
// into a point around center.
func polar(center image.Point, angle, radius float64) fixed.Point26_6 {
	return fixed.P(
		center.X+int(math.Sin(angle)*radius),
		center.Y-int(math.Cos(angle)*radius),
	)
}

func fixedPt(p image.Point) fixed.Point26_6 {
	return fixed.P(p.X, p.Y)
}

func strokeLine(rast *raster.Rasterizer, painter *raster.RGBAPainter, a, b fixed.Point26_6, width int, c color.Color) {
	var path raster.Path
	path.Start(a)
	path.Add1(b)

	rast.Clear()
	raster.Stroke(rast, path, fixed.I(width), raster.RoundCapper, raster.RoundJoiner)
	painter.SetColor(c)
	rast.Rasterize(painter)
}

func strokeCircle(rast *raster.Rasterizer, painter *raster.RGBAPainter, center image.Point, radius, width int, c color.Color) {
	var path raster.Path
	addCircle(&path, center, radius)

	rast.Clear()
	raster.Stroke(rast, path, fixed.I(width), raster.RoundCapper, raster.RoundJoiner)
	painter.SetColor(c)
	rast.Rasterize(painter)
}

func fillCircle(rast *raster.Rasterizer, painter *raster.RGBAPainter, center image.Point, radius int, c color.Color) {
	rast.Clear()
	addCircle(rast, center, radius)
	painter.SetColor(c)
	rast.Rasterize(painter)
}

// addCircle approximates a circle with four cubic Bézier arcs.
func addCircle(a raster.Adder, center image.Point, radius int) {
	var (
		c = fixedPt(center)
		r = fixed.I(radius)
		k = fixed.Int26_6(float64(r) * 0.5523)
	)
	a.Start(fixed.Point26_6{X: c.X + r, Y: c.Y})
	a.Add3(
		fixed.Point26_6{X: c.X + r, Y: c.Y + k},
		fixed.Point26_6{X: c.X + k, Y: c.Y + r},
		fixed.Point26_6{X: c.X, Y: c.Y + r},
	)
	a.Add3(
		fixed.Point26_6{X: c.X - k, Y: c.Y + r},
		fixed.Point26_6{X: c.X - r, Y: c.Y + k},
		fixed.Point26_6{X: c.X - r, Y: c.Y},
	)
	a.Add3(
		fixed.Point26_6{X: c.X - r, Y: c.Y - k},
		fixed.Point26_6{X: c.X - k, Y: c.Y - r},
		fixed.Point26_6{X: c.X, Y: c.Y - r},
	)
	a.Add3(
		fixed.Point26_6{X: c.X + k, Y: c.Y - r},
		fixed.Point26_6{X: c.X + r, Y: c.Y - k},
		fixed.Point26_6{X: c.X + r, Y: c.Y},
	)
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "fatal: "+err.Error())
	os.Exit(1)
}
