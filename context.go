package rasterlayer

import (
	"errors"
	"image"
	"image/color"
	"image/draw"

	"github.com/gogpu/rasterlayer/internal/clip"
	"github.com/gogpu/rasterlayer/pixmap"
)

// Context draws into a surface using layer coordinates. Writes are clipped
// to the buffer and to the current selection, and every call reports its
// damage once.
//
// Context implements draw.Image, so the image/draw routines can target it
// directly; each Set is then a separate write.
type Context struct {
	s *Surface
}

var _ draw.Image = (*Context)(nil)

// Context wakes the surface if needed, resolves pending growth and returns a
// drawing context.
func (s *Surface) Context() (*Context, error) {
	if err := s.lockLive(); err != nil {
		return nil, err
	}
	defer s.unlock()
	s.resolveLocked()
	return &Context{s: s}, nil
}

// Bounds implements image.Image. It is the surface's layer-space rectangle.
func (c *Context) Bounds() image.Rectangle {
	return c.s.Bounds()
}

// ColorModel implements image.Image.
func (c *Context) ColorModel() color.Model {
	return c.s.Format().Model()
}

// At implements image.Image.
func (c *Context) At(x, y int) color.Color {
	s := c.s
	if err := s.lockLive(); err != nil {
		return color.Transparent
	}
	defer s.unlock()
	return s.buf.At(x-s.loc.X, y-s.loc.Y)
}

// Set implements draw.Image.
func (c *Context) Set(x, y int, col color.Color) {
	_ = c.s.paintWith(image.Rect(x, y, x+1, y+1), nil, func(dst *pixmap.Pixmap, r image.Rectangle, _ image.Point) {
		dst.Set(r.Min.X, r.Min.Y, col)
	})
}

// Fill replaces the pixels of r with col.
func (c *Context) Fill(r image.Rectangle, col color.Color) error {
	return c.s.paintWith(r, nil, func(dst *pixmap.Pixmap, r image.Rectangle, _ image.Point) {
		dst.Fill(r, dst.Format().Pack(col))
	})
}

// Clear makes the pixels of r transparent.
func (c *Context) Clear(r image.Rectangle) error {
	return c.s.paintWith(r, nil, func(dst *pixmap.Pixmap, r image.Rectangle, _ image.Point) {
		dst.ClearRect(r)
	})
}

// DrawImage draws src into r with image/draw semantics: sp in src is
// aligned with r.Min.
func (c *Context) DrawImage(r image.Rectangle, src image.Image, sp image.Point, op draw.Op) error {
	return c.s.paintWith(r, nil, func(dst *pixmap.Pixmap, br image.Rectangle, org image.Point) {
		draw.Draw(dst, br, src, sp.Add(br.Min.Add(org).Sub(r.Min)), op)
	})
}

// FillPolygon fills the closed polygon with anti-aliased edges. Outlines
// that enclose no pixels draw nothing.
func (c *Context) FillPolygon(pts []image.Point, col color.Color) error {
	shape, err := clip.Polygon(pts)
	if errors.Is(err, clip.ErrDegenerate) {
		return nil
	}
	if err != nil {
		return err
	}
	return c.s.paintWith(shape.Bounds(), shape, func(dst *pixmap.Pixmap, r image.Rectangle, _ image.Point) {
		dst.Fill(r, dst.Format().Pack(col))
	})
}

// paintWith runs render over the layer-space rectangle r clipped to the
// buffer and selection. render receives a destination pixmap, the rectangle
// to draw in that pixmap's coordinates, and the layer position of the
// pixmap's origin. When a mask applies, render draws into a scratch copy
// whose pixels are then mixed into the buffer by coverage.
func (s *Surface) paintWith(r image.Rectangle, shape *clip.Mask, render func(dst *pixmap.Pixmap, r image.Rectangle, org image.Point)) error {
	if err := s.lockLive(); err != nil {
		return err
	}
	defer s.unlock()
	s.resolveLocked()

	br := r.Sub(s.loc).Intersect(s.buf.Bounds())
	selR, selM, ok, err := s.selection()
	if err != nil {
		return err
	}
	if ok {
		br = br.Intersect(selR.Sub(s.loc))
		shape = clip.Intersect(shape, selM)
	}
	if br.Empty() {
		return nil
	}

	if shape == nil {
		render(s.buf, br, s.loc)
	} else {
		scratch := s.buf.Crop(br)
		render(scratch, scratch.Bounds(), s.loc.Add(br.Min))
		blendMasked(s.buf, scratch, br, image.Point{}, shape, s.loc)
	}
	s.markLocked(br)
	return nil
}

// selection returns the current selection's layer-space bounds and
// coverage mask. ok is false when nothing is selected.
func (s *Surface) selection() (r image.Rectangle, m *clip.Mask, ok bool, err error) {
	if s.opts.selection == nil {
		return image.Rectangle{}, nil, false, nil
	}
	reg, ok := s.opts.selection.Clip()
	if !ok || reg == nil {
		return image.Rectangle{}, nil, false, nil
	}
	m, err = regionMask(reg)
	if err != nil {
		return image.Rectangle{}, nil, false, err
	}
	return reg.Bounds(), m, true, nil
}

// blendMasked mixes src into dst over the dst rectangle r. sp is the src
// point aligned with r.Min. Coverage is read from m at the dst point plus
// mo; a nil m means full coverage.
func blendMasked(dst, src *pixmap.Pixmap, r image.Rectangle, sp image.Point, m *clip.Mask, mo image.Point) {
	df, sf := dst.Format(), src.Format()
	d := sp.Sub(r.Min)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			cov := uint8(0xff)
			if m != nil {
				cov = m.Coverage(x+mo.X, y+mo.Y)
			}
			if cov == 0 {
				continue
			}
			v := src.Value(x+d.X, y+d.Y)
			if cov == 0xff && sf == df {
				dst.SetValue(x, y, v)
				continue
			}
			sr, sg, sb, sa := sf.Unpack(v)
			dr, dg, db, da := df.Unpack(dst.Value(x, y))
			dst.SetValue(x, y, df.PackPremul(
				lerp(dr, sr, cov), lerp(dg, sg, cov), lerp(db, sb, cov), lerp(da, sa, cov)))
		}
	}
}

func lerp(a, b, t uint8) uint8 {
	v := int(a)*(255-int(t)) + int(b)*int(t)
	return uint8((v + 127) / 255)
}
