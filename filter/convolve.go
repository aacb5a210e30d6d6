package filter

import (
	"errors"
	"image"

	"github.com/gogpu/rasterlayer/pixmap"
)

// ErrBadKernel is returned for kernels with even or mismatched dimensions.
var ErrBadKernel = errors.New("filter: kernel dimensions must be odd and match weights")

// Convolution applies an arbitrary 2D kernel. Weights are row-major and are
// not normalized.
type Convolution struct {
	width, height int
	weights       []float32
}

// NewConvolution validates and wraps a kernel.
func NewConvolution(width, height int, weights []float32) (*Convolution, error) {
	if width <= 0 || height <= 0 || width%2 == 0 || height%2 == 0 || len(weights) != width*height {
		return nil, ErrBadKernel
	}
	w := make([]float32, len(weights))
	copy(w, weights)
	return &Convolution{width: width, height: height, weights: w}, nil
}

// Sharpen returns the 3x3 sharpening kernel.
func Sharpen() *Convolution {
	c, _ := NewConvolution(3, 3, []float32{
		0, -1, 0,
		-1, 5, -1,
		0, -1, 0,
	})
	return c
}

// Apply implements Filter.
func (c *Convolution) Apply(dst, src *pixmap.Pixmap, r image.Rectangle) {
	r = clip(dst, src, r)
	sb := src.Bounds()
	sf := src.Format()
	hx, hy := c.width/2, c.height/2

	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			var acc [4]float32
			for ky := 0; ky < c.height; ky++ {
				sy := clampInt(y+ky-hy, 0, sb.Max.Y-1)
				for kx := 0; kx < c.width; kx++ {
					wt := c.weights[ky*c.width+kx]
					if wt == 0 {
						continue
					}
					sx := clampInt(x+kx-hx, 0, sb.Max.X-1)
					cr, cg, cb, ca := sf.Unpack(src.Value(sx, sy))
					acc[0] += float32(cr) * wt
					acc[1] += float32(cg) * wt
					acc[2] += float32(cb) * wt
					acc[3] += float32(ca) * wt
				}
			}
			store(dst, x, y, acc)
		}
	}
}
