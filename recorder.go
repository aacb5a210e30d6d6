package rasterlayer

import (
	"image"

	"github.com/gogpu/rasterlayer/internal/damage"
	"github.com/gogpu/rasterlayer/pixmap"
)

type recState uint8

const (
	recIdle recState = iota
	recRecording
	recPassive // begun while a non-painting tool was active
)

// recorder holds the state of the edit between BeginEdit and CommitEdit.
type recorder struct {
	state recState
	name  string

	// snap is the buffer as it was when the edit began, or when it was last
	// re-primed. shift is how far its pixels have since moved inside the
	// buffer through growth.
	snap  *pixmap.Pixmap
	shift image.Point

	// resized is set when Resize replaced the buffer during the edit.
	resized bool

	// damage is what the edit modified, in current buffer coordinates.
	damage *damage.Tracker
}

// BeginEdit starts recording an undoable edit. Pending growth is resolved
// first so the snapshot is taken in final coordinates. If a ToolQuery
// reports a non-painting tool, the edit is opened but nothing is recorded.
func (s *Surface) BeginEdit(name string) error {
	if err := s.lockLive(); err != nil {
		return err
	}
	defer s.unlock()
	return s.beginLocked(name, false)
}

func (s *Surface) beginLocked(name string, force bool) error {
	if s.rec.state != recIdle {
		return ErrEditInProgress
	}
	s.rec.name = name
	if !force && s.opts.tool != nil && !s.opts.tool.Painting() {
		s.rec.state = recPassive
		return nil
	}
	s.resolveLocked()
	s.rec.state = recRecording
	s.primeLocked()
	return nil
}

// primeLocked takes a fresh snapshot and forgets recorded damage.
func (s *Surface) primeLocked() {
	if s.rec.snap != nil {
		s.opts.pool.Put(s.rec.snap)
	}
	s.rec.snap = s.opts.pool.Clone(s.buf)
	s.rec.shift = image.Point{}
	s.rec.resized = false
	s.rec.damage.Flush()
}

// Editing reports whether an edit is open.
func (s *Surface) Editing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rec.state != recIdle
}

// CommitEdit closes the open edit and returns its record, which has also
// been passed to the History. It returns a nil Edit when nothing was
// modified or when the edit was opened by a non-painting tool.
func (s *Surface) CommitEdit() (Edit, error) {
	if err := s.lockLive(); err != nil {
		return nil, err
	}
	defer s.unlock()

	switch s.rec.state {
	case recIdle:
		return nil, ErrNoEdit
	case recPassive:
		s.rec.state = recIdle
		return nil, nil
	}
	e := s.commitLocked()
	if e == nil {
		return nil, nil
	}
	return e, nil
}

// CancelEdit closes the open edit without recording it. Pixels already
// modified stay modified.
func (s *Surface) CancelEdit() error {
	s.mu.Lock()
	defer s.unlock()
	if s.rec.state == recIdle {
		return ErrNoEdit
	}
	s.releaseSnapshotLocked()
	s.rec.state = recIdle
	return nil
}

func (s *Surface) releaseSnapshotLocked() {
	if s.rec.snap != nil {
		s.opts.pool.Put(s.rec.snap)
		s.rec.snap = nil
	}
	s.rec.damage.Flush()
}

// commitLocked builds the record for the recording edit and hands it to
// the history. It returns nil if nothing was damaged.
func (s *Surface) commitLocked() *PaintEdit {
	r := &s.rec
	r.state = recIdle
	if !r.damage.Modified() {
		s.releaseSnapshotLocked()
		return nil
	}

	snap, cur := r.snap, s.buf
	r.snap = nil

	var pre, post image.Rectangle
	var before, after *pixmap.Pixmap

	whole := r.damage.All() || r.shift != (image.Point{}) ||
		snap.Size() != cur.Size() || snap.Format() != cur.Format()
	if whole {
		pre = snap.Bounds().Add(r.shift)
		post = cur.Bounds()
		before = snap
		after = s.opts.pool.Clone(cur)
	} else {
		d := r.damage.Peek().Intersect(cur.Bounds())
		if d.Empty() {
			s.opts.pool.Put(snap)
			r.damage.Flush()
			return nil
		}
		pre, post = d, d
		before = snap.Crop(d)
		after = cur.Crop(d)
		s.opts.pool.Put(snap)
	}
	r.damage.Flush()

	e := newPaintEdit(s, r.name, pre, post, before, after)
	e.swap = whole && r.resized && pre.Min == post.Min && pre.Size() != post.Size()
	if h := s.opts.history; h != nil {
		h.Record(e)
	}
	return e
}
