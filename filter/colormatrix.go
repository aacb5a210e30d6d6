package filter

import (
	"image"
	"image/color"

	"github.com/gogpu/rasterlayer/pixmap"
)

// ColorMatrix applies a 4x5 matrix to straight (non-premultiplied) RGBA
// values in the range [0, 255]:
//
//	[R']   [a00 a01 a02 a03 a04]   [R]
//	[G'] = [a10 a11 a12 a13 a14] * [G]
//	[B']   [a20 a21 a22 a23 a24]   [B]
//	[A']   [a30 a31 a32 a33 a34]   [A]
//	                               [1]
type ColorMatrix struct {
	// Matrix holds the rows R, G, B, A of five entries each.
	Matrix [20]float32
}

// Identity returns a matrix that leaves pixels unchanged.
func Identity() *ColorMatrix {
	return &ColorMatrix{Matrix: [20]float32{
		1, 0, 0, 0, 0,
		0, 1, 0, 0, 0,
		0, 0, 1, 0, 0,
		0, 0, 0, 1, 0,
	}}
}

// Brightness scales the color channels by factor.
func Brightness(factor float32) *ColorMatrix {
	return &ColorMatrix{Matrix: [20]float32{
		factor, 0, 0, 0, 0,
		0, factor, 0, 0, 0,
		0, 0, factor, 0, 0,
		0, 0, 0, 1, 0,
	}}
}

// Saturation blends between Rec. 709 luminance (0) and the input (1).
func Saturation(factor float32) *ColorMatrix {
	const (
		lumR = 0.2126
		lumG = 0.7152
		lumB = 0.0722
	)
	inv := 1 - factor
	return &ColorMatrix{Matrix: [20]float32{
		lumR*inv + factor, lumG * inv, lumB * inv, 0, 0,
		lumR * inv, lumG*inv + factor, lumB * inv, 0, 0,
		lumR * inv, lumG * inv, lumB*inv + factor, 0, 0,
		0, 0, 0, 1, 0,
	}}
}

// Grayscale removes all color.
func Grayscale() *ColorMatrix { return Saturation(0) }

// Invert inverts the color channels and keeps alpha.
func Invert() *ColorMatrix {
	return &ColorMatrix{Matrix: [20]float32{
		-1, 0, 0, 0, 255,
		0, -1, 0, 0, 255,
		0, 0, -1, 0, 255,
		0, 0, 0, 1, 0,
	}}
}

// Apply implements Filter.
func (f *ColorMatrix) Apply(dst, src *pixmap.Pixmap, r image.Rectangle) {
	r = clip(dst, src, r)
	m := &f.Matrix
	sf, df := src.Format(), dst.Format()

	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			c := color.NRGBAModel.Convert(sf.Color(src.Value(x, y))).(color.NRGBA)
			in := [4]float32{float32(c.R), float32(c.G), float32(c.B), float32(c.A)}
			var out [4]uint8
			for row := 0; row < 4; row++ {
				o := m[row*5+4]
				for i, v := range in {
					o += m[row*5+i] * v
				}
				out[row] = toByte(o, 255)
			}
			dst.SetValue(x, y, df.Pack(color.NRGBA{R: out[0], G: out[1], B: out[2], A: out[3]}))
		}
	}
}
