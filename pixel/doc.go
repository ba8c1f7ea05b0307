// Package pixel implements the color models and frame buffers used by
// V5-class brain display panels.
//
// The native panel color is 24-bit [RGB], packed into a 0x00RRGGBB word in
// controller RAM. The package also provides the 16-bit 5-6-5 [CRGB16] format
// used when mirroring the panel onto common fbdev framebuffers. All types are
// compatible with Go's native [color.Color] and [image.Image] / [draw.Image]
// interfaces.
package pixel
