// Package clip rasterizes selection and region outlines into coverage
// masks.
package clip

import (
	"errors"
	"image"
	"image/draw"

	"golang.org/x/image/vector"
)

// ErrDegenerate is returned for outlines that enclose no pixels: fewer than
// three vertices, a zero-area bounding box, or collinear points.
var ErrDegenerate = errors.New("clip: degenerate polygon")

// Mask is an 8-bit coverage mask positioned in layer coordinates.
// Coverage 0 is outside, 255 fully inside.
type Mask struct {
	alpha *image.Alpha
}

// NewMask wraps an existing alpha image.
func NewMask(a *image.Alpha) *Mask {
	return &Mask{alpha: a}
}

// Polygon rasterizes the closed polygon with anti-aliased edges using the
// non-zero winding rule. The mask covers the polygon's integer bounding box.
func Polygon(pts []image.Point) (*Mask, error) {
	if len(pts) < 3 {
		return nil, ErrDegenerate
	}
	b := Bounds(pts)
	if b.Empty() {
		return nil, ErrDegenerate
	}

	z := vector.NewRasterizer(b.Dx(), b.Dy())
	z.MoveTo(float32(pts[0].X-b.Min.X), float32(pts[0].Y-b.Min.Y))
	for _, p := range pts[1:] {
		z.LineTo(float32(p.X-b.Min.X), float32(p.Y-b.Min.Y))
	}
	z.ClosePath()

	alpha := image.NewAlpha(b)
	z.Draw(alpha, b, image.Opaque, image.Point{})

	m := &Mask{alpha: alpha}
	if m.Empty() {
		return nil, ErrDegenerate
	}
	return m, nil
}

// Bounds returns the smallest integer rectangle containing all points.
func Bounds(pts []image.Point) image.Rectangle {
	if len(pts) == 0 {
		return image.Rectangle{}
	}
	r := image.Rectangle{Min: pts[0], Max: pts[0]}
	for _, p := range pts[1:] {
		r.Min.X = min(r.Min.X, p.X)
		r.Min.Y = min(r.Min.Y, p.Y)
		r.Max.X = max(r.Max.X, p.X)
		r.Max.Y = max(r.Max.Y, p.Y)
	}
	return r
}

// Bounds returns the rectangle the mask covers.
func (m *Mask) Bounds() image.Rectangle {
	return m.alpha.Rect
}

// Alpha returns the underlying alpha image.
func (m *Mask) Alpha() *image.Alpha {
	return m.alpha
}

// Coverage returns the coverage at (x, y). Points outside the mask return 0.
func (m *Mask) Coverage(x, y int) uint8 {
	if !(image.Point{X: x, Y: y}.In(m.alpha.Rect)) {
		return 0
	}
	return m.alpha.Pix[m.alpha.PixOffset(x, y)]
}

// Empty reports whether no pixel has coverage.
func (m *Mask) Empty() bool {
	for _, c := range m.alpha.Pix {
		if c != 0 {
			return false
		}
	}
	return true
}

// Translate returns a copy of the mask moved by d.
func (m *Mask) Translate(d image.Point) *Mask {
	a := image.NewAlpha(m.alpha.Rect.Add(d))
	copy(a.Pix, m.alpha.Pix)
	return &Mask{alpha: a}
}

// Intersect returns the product of two masks over the intersection of their
// bounds. Either argument may be nil, meaning full coverage.
func Intersect(a, b *Mask) *Mask {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	r := a.Bounds().Intersect(b.Bounds())
	out := image.NewAlpha(r)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			ca := uint32(a.Coverage(x, y))
			cb := uint32(b.Coverage(x, y))
			out.Pix[out.PixOffset(x, y)] = uint8((ca*cb + 127) / 255)
		}
	}
	return &Mask{alpha: out}
}

// FromRect returns a fully covered mask for r.
func FromRect(r image.Rectangle) *Mask {
	a := image.NewAlpha(r)
	draw.Draw(a, r, image.Opaque, image.Point{}, draw.Src)
	return &Mask{alpha: a}
}
