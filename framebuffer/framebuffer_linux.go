package framebuffer

import (
	"errors"
	"fmt"
	"image"
	"os"
	"syscall"
	"unsafe"

	"github.com/BeatGlow/v5display"
	"github.com/BeatGlow/v5display/pixel"
)

const (
	// From <linux/fb.h>
	fbioGetVScreenInfo = 0x4600
	fbioGetFScreenInfo = 0x4602
)

// ErrNotSupported is returned for framebuffers with a pixel layout this
// package can't write to.
var ErrNotSupported = errors.New("framebuffer: unsupported color model")

// pixelFormat is the memory layout of one framebuffer pixel.
type pixelFormat int

const (
	formatRGB565 pixelFormat = iota // 16bpp 5-6-5, little-endian
	formatBGR24                     // 24bpp, bytes B G R
	formatBGRX32                    // 32bpp XRGB little-endian, bytes B G R X
	formatRGBX32                    // 32bpp XBGR little-endian, bytes R G B X
)

type linuxFrameBuffer struct {
	f          *os.File
	fd         uintptr
	mem        []byte
	stride     int // bytes per framebuffer row
	size       int // bytes per framebuffer pixel
	format     pixelFormat
	info       linuxFrameBufferInfo
	screenInfo linuxVarScreenInfo
}

// Open a Linux FrameBuffer device (fbdev) by name, typically /dev/fb[0..x].
// The framebuffer must be at least as large as the brain panel's user area.
func Open(name string) (v5display.Device, error) {
	f, err := os.OpenFile(name, os.O_RDWR, os.ModeDevice)
	if err != nil {
		return nil, err
	}

	fb := &linuxFrameBuffer{
		f:  f,
		fd: f.Fd(),
	}
	if err = fb.ioctl(fbioGetFScreenInfo, unsafe.Pointer(&fb.info)); err != nil {
		_ = f.Close()
		return nil, err
	}
	if err = fb.ioctl(fbioGetVScreenInfo, unsafe.Pointer(&fb.screenInfo)); err != nil {
		_ = f.Close()
		return nil, err
	}

	if fb.format, fb.size, err = linuxParseFormat(&fb.screenInfo); err != nil {
		_ = f.Close()
		return nil, err
	}
	fb.stride = int(fb.info.LineLength)

	if int(fb.screenInfo.Xres) < v5display.Width || int(fb.screenInfo.Yres) < v5display.Height {
		_ = f.Close()
		return nil, fmt.Errorf("framebuffer: %dx%d is smaller than the %dx%d panel area",
			fb.screenInfo.Xres, fb.screenInfo.Yres, v5display.Width, v5display.Height)
	}

	if fb.mem, err = syscall.Mmap(int(fb.fd), 0, int(fb.info.SmemLen), syscall.PROT_READ|syscall.PROT_WRITE, syscall.MAP_SHARED); err != nil {
		_ = f.Close()
		return nil, err
	}

	return fb, nil
}

func (fb *linuxFrameBuffer) String() string {
	return fmt.Sprintf("fbdev %dx%d %dbpp", fb.screenInfo.Xres, fb.screenInfo.Yres, fb.screenInfo.BitsPerPixel)
}

// Close the framebuffer device
func (fb *linuxFrameBuffer) Close() error {
	if err := syscall.Munmap(fb.mem); err != nil {
		return err
	}
	return fb.f.Close()
}

// Show is a no-op; fbdev has no panel power control.
func (fb *linuxFrameBuffer) Show(_ bool) error {
	return nil
}

func (fb *linuxFrameBuffer) SetPixel(x, y int, c pixel.RGB) error {
	fb.put(y*fb.stride+x*fb.size, c)
	return nil
}

func (fb *linuxFrameBuffer) FillRect(r image.Rectangle, c pixel.RGB) error {
	if !r.In(image.Rect(0, 0, v5display.Width, v5display.Height)) {
		return v5display.ErrBounds
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		off := y*fb.stride + r.Min.X*fb.size
		for x := r.Min.X; x < r.Max.X; x++ {
			fb.put(off, c)
			off += fb.size
		}
	}
	return nil
}

func (fb *linuxFrameBuffer) CopyRect(r image.Rectangle, pix []byte, stride int) error {
	if !r.In(image.Rect(0, 0, v5display.Width, v5display.Height)) {
		return v5display.ErrBounds
	}
	n := r.Dx() * 3
	if stride < n || len(pix) < (r.Dy()-1)*stride+n {
		return fmt.Errorf("framebuffer: pixel data too short for %s copy", r)
	}
	for y := 0; y < r.Dy(); y++ {
		src := pix[y*stride:]
		off := (r.Min.Y+y)*fb.stride + r.Min.X*fb.size
		for x := 0; x < r.Dx(); x++ {
			fb.put(off, pixel.RGB{R: src[x*3], G: src[x*3+1], B: src[x*3+2]})
			off += fb.size
		}
	}
	return nil
}

// put writes one pixel at the given byte offset in framebuffer memory.
func (fb *linuxFrameBuffer) put(off int, c pixel.RGB) {
	switch fb.format {
	case formatRGB565:
		v := pixel.CRGB16Model.Convert(c).(pixel.CRGB16).V
		fb.mem[off+0] = byte(v)
		fb.mem[off+1] = byte(v >> 8)
	case formatBGR24:
		fb.mem[off+0] = c.B
		fb.mem[off+1] = c.G
		fb.mem[off+2] = c.R
	case formatBGRX32:
		fb.mem[off+0] = c.B
		fb.mem[off+1] = c.G
		fb.mem[off+2] = c.R
		fb.mem[off+3] = 0xff
	case formatRGBX32:
		fb.mem[off+0] = c.R
		fb.mem[off+1] = c.G
		fb.mem[off+2] = c.B
		fb.mem[off+3] = 0xff
	}
}

func (d *linuxFrameBuffer) ioctl(cmd uintptr, arg unsafe.Pointer) (err error) {
	if _, _, errno := syscall.Syscall(syscall.SYS_IOCTL, d.fd, cmd, uintptr(arg)); errno != 0 {
		return &os.SyscallError{
			Syscall: "SYS_IOCTL",
			Err:     errno,
		}
	}
	return nil
}

type linuxFrameBufferInfo struct {
	ID         [16]byte  // Identification string eg "TT Builtin"
	SmemStart  uintptr   // Start of frame buffer mem
	SmemLen    uint32    // Length of frame buffer mem
	Type       uint32    // FB_TYPE_
	TypeAux    uint32    // Interleave for interleaved Planes
	Visual     uint32    // FB_VISUAL_
	Xpanstep   uint16    // Zero if no hardware panning
	Ypanstep   uint16    // Zero if no hardware panning
	Ywrapstep  uint16    // Zero if no hardware ywrap
	LineLength uint32    // Length of a line in bytes
	MmioStart  uintptr   // Start of Memory Mapped I/O (physical address)
	MmioLen    uint32    // Length of Memory Mapped I/O
	Accel      uint32    // Type of acceleration available
	Reserved   [3]uint16 // Reserved for future compatibility
}

// linuxBitField for the color
type linuxBitField struct {
	Offset   uint32 // Beginning of bitfield
	Length   uint32 // Length of bitfield
	MsbRight uint32 // != 0 : Most significant bit is right
}

// linuxVarScreenInfo contains device independent changeable information about
// a frame buffer device and a specific video mode.
type linuxVarScreenInfo struct {
	Xres                    uint32
	Yres                    uint32
	XresVirtual             uint32
	YresVirtual             uint32
	Xoffset                 uint32
	Yoffset                 uint32
	BitsPerPixel            uint32
	Grayscale               uint32
	Red, Green, Blue, Alpha linuxBitField
	Nonstd                  uint32
	Activate                uint32
	Height                  uint32
	Width                   uint32
	AccelFlags              uint32
	Pixclock                uint32
	LeftMargin              uint32
	RightMargin             uint32
	UpperMargin             uint32
	LowerMargin             uint32
	HsyncLen                uint32
	VsyncLen                uint32
	Sync                    uint32
	Vmode                   uint32
	Rotate                  uint32
	Colorspace              uint32
	Reserved                [4]uint32
}

func linuxParseFormat(info *linuxVarScreenInfo) (pixelFormat, int, error) {
	if info == nil {
		return 0, 0, errors.New("framebuffer: invalid VarScreenInfo")
	}

	switch info.BitsPerPixel {
	case 16:
		if info.Red.Offset == 11 && info.Red.Length == 5 &&
			info.Green.Offset == 5 && info.Green.Length == 6 &&
			info.Blue.Offset == 0 && info.Blue.Length == 5 {
			return formatRGB565, 2, nil
		}

	case 24:
		if info.Red.Offset == 16 && info.Green.Offset == 8 && info.Blue.Offset == 0 {
			return formatBGR24, 3, nil
		}

	case 32:
		switch {
		case info.Red.Offset == 16 && info.Green.Offset == 8 && info.Blue.Offset == 0:
			return formatBGRX32, 4, nil
		case info.Red.Offset == 0 && info.Green.Offset == 8 && info.Blue.Offset == 16:
			return formatRGBX32, 4, nil
		}
	}

	return 0, 0, ErrNotSupported
}

// Interface checks.
var (
	_ v5display.Device = (*linuxFrameBuffer)(nil)
)
