package rasterlayer

import (
	"image"

	"github.com/gogpu/rasterlayer/pixmap"
)

// SetLocation asks for the surface to also cover the placement of its
// current size at p. Growth is recorded but deferred until something needs
// the final bounds: a new edit, a drawing context, a paint or ChangeBounds.
// Existing pixels keep their layer position.
func (s *Surface) SetLocation(p image.Point) {
	s.mu.Lock()
	defer s.unlock()

	base := s.boundsLocked()
	if s.growing {
		base = s.pending
	}
	nr := base.Union(image.Rectangle{Min: p, Max: p.Add(s.size)})
	if nr == s.boundsLocked() {
		return
	}
	s.pending = nr
	s.growing = true
	Logger().Debug("growth pending", "surface", s.id, "bounds", nr)
}

// ResolvePendingGrowth performs growth recorded by SetLocation. It is a
// no-op when nothing is pending.
func (s *Surface) ResolvePendingGrowth() error {
	s.mu.Lock()
	if !s.growing {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	if err := s.lockLive(); err != nil {
		return err
	}
	defer s.unlock()
	s.resolveLocked()
	return nil
}

func (s *Surface) resolveLocked() {
	if !s.growing || s.buf == nil {
		return
	}
	s.growing = false
	s.growLocked(s.pending, nil)
}

// GrowCanvas enlarges the buffer to at least w×h without moving content.
// It never shrinks.
func (s *Surface) GrowCanvas(w, h int) error {
	if w < 0 || h < 0 {
		return pixmap.ErrInvalidDimensions
	}
	if err := s.lockLive(); err != nil {
		return err
	}
	defer s.unlock()
	s.resolveLocked()
	size := image.Pt(max(w, s.size.X), max(h, s.size.Y))
	s.growLocked(image.Rectangle{Min: s.loc, Max: s.loc.Add(size)}, nil)
	return nil
}

// Extend grows the buffer so that it covers the layer-space rectangle r.
func (s *Surface) Extend(r image.Rectangle) error {
	if r.Empty() {
		return nil
	}
	if err := s.lockLive(); err != nil {
		return err
	}
	defer s.unlock()
	s.resolveLocked()
	s.growLocked(r, nil)
	return nil
}

// Resize rescales the content into a new w×h buffer.
func (s *Surface) Resize(w, h int, interp pixmap.Interpolation) error {
	if err := s.lockLive(); err != nil {
		return err
	}
	defer s.unlock()
	s.resolveLocked()

	nb, err := pixmap.Resample(s.buf, w, h, interp)
	if err != nil {
		return err
	}
	old := s.boundsLocked()
	s.replaceLocked(nb)
	if s.rec.state == recRecording {
		s.rec.resized = true
	}
	s.markAllLocked()
	s.notifyRepaintLocked(old)
	s.boundsChangedLocked(old)
	return nil
}

// ConvertFormat changes the pixel format of the buffer.
func (s *Surface) ConvertFormat(f pixmap.Format) error {
	if err := s.lockLive(); err != nil {
		return err
	}
	defer s.unlock()
	if f == s.buf.Format() {
		return nil
	}
	nb, err := s.buf.Convert(f)
	if err != nil {
		return err
	}
	s.replaceLocked(nb)
	s.markAllLocked()
	return nil
}

// MoveTo translates the surface so that its buffer origin is at p and
// records the move in the history.
func (s *Surface) MoveTo(p image.Point) {
	s.mu.Lock()
	defer s.unlock()
	from := s.loc
	if from == p {
		return
	}
	s.moveLocked(p)
	if h := s.opts.history; h != nil {
		h.Record(&MoveEdit{owner: s, name: "move", from: from, to: p})
	}
}

func (s *Surface) moveLocked(p image.Point) {
	old := s.boundsLocked()
	if s.growing {
		s.pending = s.pending.Add(p.Sub(s.loc))
	}
	s.loc = p
	s.repaint.MarkAll()
	s.notifyRepaintLocked(old.Union(s.boundsLocked()))
	s.boundsChangedLocked(old)
}

// growLocked reallocates the buffer to cover nr ∪ current bounds, both in
// layer space. Pixels keep their layer position; the returned shift is how
// far they moved inside the buffer. Every record of the surface in the
// history except skip is translated by the shift.
func (s *Surface) growLocked(nr image.Rectangle, skip Edit) image.Point {
	old := s.boundsLocked()
	nr = nr.Union(old)
	if nr == old {
		return image.Point{}
	}
	nb, err := pixmap.New(nr.Dx(), nr.Dy(), s.buf.Format())
	if err != nil {
		Logger().Warn("canvas growth failed", "surface", s.id, "bounds", nr, "err", err)
		return image.Point{}
	}
	shift := s.loc.Sub(nr.Min)
	pixmap.Copy(nb, shift, s.buf, s.buf.Bounds())
	s.replaceLocked(nb)
	s.loc = nr.Min

	s.repaint.Translate(shift.X, shift.Y)
	if s.rec.state == recRecording {
		s.rec.shift = s.rec.shift.Add(shift)
		s.rec.damage.Translate(shift.X, shift.Y)
	}
	if shift != (image.Point{}) {
		s.zeroMovedLocked(shift, skip)
	}
	s.boundsChangedLocked(old)
	Logger().Debug("canvas grown", "surface", s.id, "bounds", nr, "shift", shift)
	return shift
}

// zeroMovedLocked translates the surface's records held by the history.
func (s *Surface) zeroMovedLocked(shift image.Point, skip Edit) {
	h := s.opts.history
	if h == nil {
		return
	}
	for _, e := range h.Edits() {
		if e == skip || e.Owner() != s {
			continue
		}
		switch e := e.(type) {
		case *PaintEdit:
			e.frame = e.frame.Add(shift)
		case *MoveEdit:
			e.from = e.from.Sub(shift)
			e.to = e.to.Sub(shift)
		}
	}
}

// subtract returns rectangles covering outer minus inner: full-width bands
// above and below inner, then the parts left and right of it.
func subtract(outer, inner image.Rectangle) []image.Rectangle {
	inner = inner.Intersect(outer)
	if inner.Empty() {
		if outer.Empty() {
			return nil
		}
		return []image.Rectangle{outer}
	}
	var out []image.Rectangle
	if inner.Min.Y > outer.Min.Y {
		out = append(out, image.Rect(outer.Min.X, outer.Min.Y, outer.Max.X, inner.Min.Y))
	}
	if inner.Max.Y < outer.Max.Y {
		out = append(out, image.Rect(outer.Min.X, inner.Max.Y, outer.Max.X, outer.Max.Y))
	}
	if inner.Min.X > outer.Min.X {
		out = append(out, image.Rect(outer.Min.X, inner.Min.Y, inner.Min.X, inner.Max.Y))
	}
	if inner.Max.X < outer.Max.X {
		out = append(out, image.Rect(inner.Max.X, inner.Min.Y, outer.Max.X, inner.Max.Y))
	}
	return out
}
