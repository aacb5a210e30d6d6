package filter

import (
	"image"
	"sync"

	"github.com/gogpu/rasterlayer/pixmap"
)

// Blur is a separable Gaussian blur.
type Blur struct {
	// RadiusX and RadiusY are the standard deviations in pixels.
	RadiusX, RadiusY float64
}

// NewBlur returns a blur with the same radius in both directions.
func NewBlur(radius float64) *Blur {
	return &Blur{RadiusX: radius, RadiusY: radius}
}

// Apply implements Filter.
func (f *Blur) Apply(dst, src *pixmap.Pixmap, r image.Rectangle) {
	separable(dst, src, r, CachedGaussianKernel(f.RadiusX), CachedGaussianKernel(f.RadiusY))
}

// BoxBlur averages a (2*Radius+1) square neighbourhood.
type BoxBlur struct {
	Radius int
}

// Apply implements Filter.
func (f BoxBlur) Apply(dst, src *pixmap.Pixmap, r image.Rectangle) {
	k := BoxKernel(f.Radius)
	separable(dst, src, r, k, k)
}

var tempPool = sync.Pool{
	New: func() any { return new([]float32) },
}

func getTemp(n int) *[]float32 {
	buf := tempPool.Get().(*[]float32)
	if cap(*buf) < n {
		*buf = make([]float32, n)
	}
	*buf = (*buf)[:n]
	return buf
}

// separable convolves rows with kx into a float buffer and then columns of
// that buffer with ky into dst. The horizontal pass covers the rows the
// vertical kernel reaches so results inside r match a full-image blur.
func separable(dst, src *pixmap.Pixmap, r image.Rectangle, kx, ky []float32) {
	r = clip(dst, src, r)
	if r.Empty() {
		return
	}
	sb := src.Bounds()
	sf := src.Format()
	hx, hy := len(kx)/2, len(ky)/2

	rows := image.Rect(r.Min.X, max(r.Min.Y-hy, 0), r.Max.X, min(r.Max.Y+hy, sb.Max.Y))
	w := rows.Dx()

	buf := getTemp(w * rows.Dy() * 4)
	defer tempPool.Put(buf)
	tmp := *buf

	for y := rows.Min.Y; y < rows.Max.Y; y++ {
		for x := rows.Min.X; x < rows.Max.X; x++ {
			var acc [4]float32
			for k, wt := range kx {
				sx := clampInt(x+k-hx, 0, sb.Max.X-1)
				cr, cg, cb, ca := sf.Unpack(src.Value(sx, y))
				acc[0] += float32(cr) * wt
				acc[1] += float32(cg) * wt
				acc[2] += float32(cb) * wt
				acc[3] += float32(ca) * wt
			}
			i := ((y-rows.Min.Y)*w + x - rows.Min.X) * 4
			copy(tmp[i:i+4], acc[:])
		}
	}

	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			var acc [4]float32
			for k, wt := range ky {
				ty := clampInt(y+k-hy, rows.Min.Y, rows.Max.Y-1)
				i := ((ty-rows.Min.Y)*w + x - rows.Min.X) * 4
				acc[0] += tmp[i] * wt
				acc[1] += tmp[i+1] * wt
				acc[2] += tmp[i+2] * wt
				acc[3] += tmp[i+3] * wt
			}
			store(dst, x, y, acc)
		}
	}
}
