//go:build !linux

package framebuffer

import (
	"errors"

	"github.com/BeatGlow/v5display"
)

var ErrNotSupported = errors.New("framebuffer: not supported")

func Open(_ string) (v5display.Device, error) {
	return nil, ErrNotSupported
}
