package rasterlayer

import (
	"github.com/google/uuid"

	"github.com/gogpu/rasterlayer/hibernate"
	"github.com/gogpu/rasterlayer/pixmap"
)

// target exposes a surface to the hibernation queue.
type target struct {
	s *Surface
}

var _ hibernate.Target = target{}

func (t target) Key() uuid.UUID { return t.s.id }

// View lets the worker encode a copy of the live buffer, taken under the
// lock so that encoding does not block painting. Surfaces with an open edit
// are not offered.
func (t target) View(fn func(*pixmap.Pixmap) error) (uint64, bool, error) {
	s := t.s
	s.mu.Lock()
	if s.buf == nil || s.rec.state != recIdle {
		s.mu.Unlock()
		return 0, false, nil
	}
	gen := s.gen
	snap := s.opts.pool.Clone(s.buf)
	s.mu.Unlock()

	defer s.opts.pool.Put(snap)
	return gen, true, fn(snap)
}

// Park drops the live buffer if nothing changed since the encode at gen.
func (t target) Park(h hibernate.Handle, gen uint64) bool {
	s := t.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.buf == nil || s.gen != gen || s.rec.state != recIdle {
		return false
	}
	s.buf = nil
	s.parked = h
	s.isParked = true
	Logger().Debug("surface parked", "surface", s.id, "bytes", h.Bytes)
	return true
}

func (t target) Parked() (hibernate.Handle, bool) {
	s := t.s
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.parked, s.isParked
}

// Restore installs buf if h is still the parked handle.
func (t target) Restore(h hibernate.Handle, buf *pixmap.Pixmap) bool {
	s := t.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.isParked || s.parked.ID != h.ID {
		return false
	}
	s.buf = buf
	s.size = buf.Size()
	s.format = buf.Format()
	s.parked = hibernate.Handle{}
	s.isParked = false
	Logger().Debug("surface restored", "surface", s.id)
	return true
}
