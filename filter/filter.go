// Package filter implements region operations that read one pixmap and
// write another.
//
// A Filter writes only the pixels of dst inside the requested rectangle.
// Reads from src that fall outside src are clamped to its nearest edge pixel,
// so kernels near the border see an extended image rather than transparency.
// Filters work on premultiplied components obtained from pixmap.Format.Unpack
// and store results with Format.PackPremul, so src and dst may use different
// formats.
package filter

import (
	"image"
	"image/color"

	"github.com/gogpu/rasterlayer/pixmap"
)

// Filter transforms the pixels of src inside r and writes them to dst.
// Pixels of dst outside r are left untouched.
type Filter interface {
	Apply(dst, src *pixmap.Pixmap, r image.Rectangle)
}

// Func adapts an ordinary function to the Filter interface.
type Func func(dst, src *pixmap.Pixmap, r image.Rectangle)

// Apply calls f(dst, src, r).
func (f Func) Apply(dst, src *pixmap.Pixmap, r image.Rectangle) {
	f(dst, src, r)
}

// Flood fills the region with a single color, ignoring src.
type Flood struct {
	Color color.Color
}

// Apply implements Filter.
func (f Flood) Apply(dst, _ *pixmap.Pixmap, r image.Rectangle) {
	dst.Fill(r, dst.Format().Pack(f.Color))
}

// clip limits r to the area both pixmaps can address.
func clip(dst, src *pixmap.Pixmap, r image.Rectangle) image.Rectangle {
	return r.Intersect(dst.Bounds()).Intersect(src.Bounds())
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// toByte rounds a float component and clamps it to [0, hi].
func toByte(v float32, hi uint8) uint8 {
	v += 0.5
	if v <= 0 {
		return 0
	}
	if v >= float32(hi) {
		return hi
	}
	return uint8(v)
}

// store writes accumulated premultiplied components, keeping colors within
// alpha so the result stays a valid premultiplied value.
func store(dst *pixmap.Pixmap, x, y int, acc [4]float32) {
	a := toByte(acc[3], 255)
	if !dst.Format().HasAlpha() {
		a = 255
	}
	dst.SetValue(x, y, dst.Format().PackPremul(
		toByte(acc[0], a), toByte(acc[1], a), toByte(acc[2], a), a))
}
