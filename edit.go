package rasterlayer

import (
	"image"

	"github.com/gogpu/rasterlayer/pixmap"
)

// Edit is a reversible change to a surface. The concrete types are
// *PaintEdit and *MoveEdit.
//
// An Edit is driven by a single goroutine, normally the history owner.
// Undo and Redo alternate; calling one twice in a row fails.
type Edit interface {
	// Name is the label passed to BeginEdit.
	Name() string
	Undo() error
	Redo() error
	CanUndo() bool
	CanRedo() bool
	// Die releases the record's pixels. Later Undo or Redo fail with
	// ErrEditDead.
	Die()
	// Owner is the surface the record changes.
	Owner() *Surface

	isEdit()
}

// PaintEdit restores the pixels of a region before or after an edit.
//
// Both images are placed inside frame, a rectangle in the owner's buffer
// coordinates that contains the pre-edit and post-edit placements. When the
// buffer grew during the edit the placements differ, and the part of frame
// not covered by the image being restored is cleared.
type PaintEdit struct {
	name   string
	owner  *Surface
	frame  image.Rectangle
	before side
	after  side
	// swap is set for Resize records: each side is the whole buffer at the
	// same origin. Applying such a record installs the side's image as the
	// buffer.
	swap   bool
	undone bool
	dead   bool
}

// side is one direction of a PaintEdit. at and clears are relative to the
// frame origin so that growth only needs to move the frame.
type side struct {
	img    *pixmap.Pixmap
	at     image.Point
	clears []image.Rectangle
}

func newPaintEdit(s *Surface, name string, pre, post image.Rectangle, before, after *pixmap.Pixmap) *PaintEdit {
	frame := pre.Union(post)
	rel := func(rs []image.Rectangle) []image.Rectangle {
		for i := range rs {
			rs[i] = rs[i].Sub(frame.Min)
		}
		return rs
	}
	return &PaintEdit{
		name:   name,
		owner:  s,
		frame:  frame,
		before: side{img: before, at: pre.Min.Sub(frame.Min), clears: rel(subtract(frame, pre))},
		after:  side{img: after, at: post.Min.Sub(frame.Min), clears: rel(subtract(frame, post))},
	}
}

func (*PaintEdit) isEdit() {}

// Name implements Edit.
func (e *PaintEdit) Name() string { return e.name }

// Owner implements Edit.
func (e *PaintEdit) Owner() *Surface { return e.owner }

// CanUndo implements Edit.
func (e *PaintEdit) CanUndo() bool { return !e.dead && !e.undone }

// CanRedo implements Edit.
func (e *PaintEdit) CanRedo() bool { return !e.dead && e.undone }

// Bounds returns the layer-space rectangle the record rewrites.
func (e *PaintEdit) Bounds() image.Rectangle {
	s := e.owner
	s.mu.Lock()
	defer s.mu.Unlock()
	return e.frame.Add(s.loc)
}

// Undo implements Edit.
func (e *PaintEdit) Undo() error {
	switch {
	case e.dead:
		return ErrEditDead
	case e.undone:
		return ErrCannotUndo
	}
	if err := e.owner.applyPaint(e, &e.before); err != nil {
		return err
	}
	e.undone = true
	return nil
}

// Redo implements Edit.
func (e *PaintEdit) Redo() error {
	switch {
	case e.dead:
		return ErrEditDead
	case !e.undone:
		return ErrCannotRedo
	}
	if err := e.owner.applyPaint(e, &e.after); err != nil {
		return err
	}
	e.undone = false
	return nil
}

// Die implements Edit.
func (e *PaintEdit) Die() {
	if e.dead {
		return
	}
	e.dead = true
	pool := e.owner.opts.pool
	pool.Put(e.before.img)
	pool.Put(e.after.img)
	e.before.img, e.after.img = nil, nil
}

// applyPaint writes one side of e back into the buffer: the target is
// cleared, the image drawn, and the side's clear rectangles blanked. The
// buffer grows first if the frame no longer fits. Resize records replace
// the buffer instead.
func (s *Surface) applyPaint(e *PaintEdit, sd *side) error {
	if err := s.lockLive(); err != nil {
		return err
	}
	defer s.unlock()
	s.resolveLocked()

	if e.swap && e.frame.Min == (image.Point{}) {
		s.swapLocked(sd)
		return nil
	}
	if !e.frame.In(s.buf.Bounds()) {
		shift := s.growLocked(e.frame.Add(s.loc), e)
		e.frame = e.frame.Add(shift)
	}
	if f := sd.img.Format(); f != s.buf.Format() {
		nb, err := s.buf.Convert(f)
		if err != nil {
			return err
		}
		s.replaceLocked(nb)
	}

	origin := e.frame.Min
	target := sd.img.Bounds().Add(origin.Add(sd.at))
	s.buf.ClearRect(target)
	pixmap.Copy(s.buf, target.Min, sd.img, sd.img.Bounds())
	for _, c := range sd.clears {
		s.buf.ClearRect(c.Add(origin))
	}

	s.repaint.MarkRect(e.frame)
	s.gen++
	s.notifyRepaintLocked(e.frame.Add(s.loc))
	if s.rec.state == recRecording {
		s.primeLocked()
	}
	return nil
}

// swapLocked replaces the buffer with a copy of sd's image.
func (s *Surface) swapLocked(sd *side) {
	old := s.boundsLocked()
	s.replaceLocked(s.opts.pool.Clone(sd.img))
	s.repaint.MarkAll()
	s.notifyRepaintLocked(old.Union(s.boundsLocked()))
	s.boundsChangedLocked(old)
	if s.rec.state == recRecording {
		s.primeLocked()
	}
}

// MoveEdit restores the surface location before or after MoveTo.
type MoveEdit struct {
	name     string
	owner    *Surface
	from, to image.Point
	undone   bool
	dead     bool
}

func (*MoveEdit) isEdit() {}

// Name implements Edit.
func (e *MoveEdit) Name() string { return e.name }

// Owner implements Edit.
func (e *MoveEdit) Owner() *Surface { return e.owner }

// CanUndo implements Edit.
func (e *MoveEdit) CanUndo() bool { return !e.dead && !e.undone }

// CanRedo implements Edit.
func (e *MoveEdit) CanRedo() bool { return !e.dead && e.undone }

// Points returns the buffer origins before and after the move.
func (e *MoveEdit) Points() (from, to image.Point) {
	s := e.owner
	s.mu.Lock()
	defer s.mu.Unlock()
	return e.from, e.to
}

// Undo implements Edit.
func (e *MoveEdit) Undo() error {
	switch {
	case e.dead:
		return ErrEditDead
	case e.undone:
		return ErrCannotUndo
	}
	e.apply(true)
	e.undone = true
	return nil
}

// Redo implements Edit.
func (e *MoveEdit) Redo() error {
	switch {
	case e.dead:
		return ErrEditDead
	case !e.undone:
		return ErrCannotRedo
	}
	e.apply(false)
	e.undone = false
	return nil
}

func (e *MoveEdit) apply(undo bool) {
	s := e.owner
	s.mu.Lock()
	defer s.unlock()
	p := e.to
	if undo {
		p = e.from
	}
	s.moveLocked(p)
}

// Die implements Edit.
func (e *MoveEdit) Die() { e.dead = true }
