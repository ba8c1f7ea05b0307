// Package framebuffer exposes the operating system's native framebuffer as a
// v5display device. It is mainly useful for developing brain display UIs on a
// PC or SBC without panel hardware attached: the 480×272 user area is mapped
// to the top-left corner of the framebuffer.
//
// This requires framebuffer device support in the operating system. The
// framebuffer can be opened with the [Open] call, and will otherwise function
// like a regular display device.
package framebuffer
