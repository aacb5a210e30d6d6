package rasterlayer

import (
	"image"

	"github.com/gogpu/rasterlayer/blend"
	"github.com/gogpu/rasterlayer/filter"
	"github.com/gogpu/rasterlayer/internal/clip"
	"github.com/gogpu/rasterlayer/pixmap"
)

// ApplyRegionOp runs f over region, or over the whole buffer when region
// is nil. The filter renders into a scratch copy and only pixels inside the
// region are copied back, mixed by coverage at anti-aliased edges, so
// pixels outside the region are never touched. Regions are clipped to the
// buffer. Outside an open edit the operation records its own undo record.
func (s *Surface) ApplyRegionOp(f filter.Filter, region Region) error {
	return s.applyRegion("filter", f, region)
}

// ApplyComposite composites the buffer with itself through fn inside
// region, with the same masking as ApplyRegionOp. Each pixel p becomes
// fn(p, p); blend.Solid composites a constant color instead.
func (s *Surface) ApplyComposite(fn blend.Func, region Region) error {
	return s.applyRegion("composite", composite(fn), region)
}

func composite(fn blend.Func) filter.Filter {
	return filter.Func(func(dst, src *pixmap.Pixmap, r image.Rectangle) {
		r = r.Intersect(src.Bounds()).Intersect(dst.Bounds())
		sf, df := src.Format(), dst.Format()
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				cr, cg, cb, ca := sf.Unpack(src.Value(x, y))
				p := blend.Premul{R: cr, G: cg, B: cb, A: ca}
				o := fn(p, p)
				dst.SetValue(x, y, df.PackPremul(o.R, o.G, o.B, o.A))
			}
		}
	})
}

func (s *Surface) applyRegion(name string, f filter.Filter, region Region) error {
	if err := s.lockLive(); err != nil {
		return err
	}
	defer s.unlock()
	s.resolveLocked()

	r := s.buf.Bounds()
	var m *clip.Mask
	if region != nil {
		r = r.Intersect(region.Bounds().Sub(s.loc))
		var err error
		if m, err = regionMask(region); err != nil {
			return err
		}
	}
	if r.Empty() {
		return nil
	}

	auto := s.rec.state == recIdle
	if auto {
		_ = s.beginLocked(name, true)
	}

	scratch := s.opts.pool.Clone(s.buf)
	f.Apply(scratch, s.buf, r)
	blendMasked(s.buf, scratch, r, r.Min, m, s.loc)
	s.opts.pool.Put(scratch)
	s.markLocked(r)

	if auto {
		s.commitLocked()
	}
	return nil
}
