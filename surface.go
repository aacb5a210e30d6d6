package rasterlayer

import (
	"context"
	"image"
	"sync"

	"github.com/google/uuid"

	"github.com/gogpu/rasterlayer/hibernate"
	"github.com/gogpu/rasterlayer/internal/damage"
	"github.com/gogpu/rasterlayer/layerfile"
	"github.com/gogpu/rasterlayer/pixmap"
)

// Surface is the mutable pixel buffer of one raster layer together with its
// placement in layer space, its damage tracking and its undo recorder.
type Surface struct {
	id   uuid.UUID
	opts surfaceOptions

	mu       sync.Mutex
	buf      *pixmap.Pixmap // nil while parked
	parked   hibernate.Handle
	isParked bool
	gen      uint64 // bumped on every pixel or buffer change
	size     image.Point
	format   pixmap.Format
	loc      image.Point
	pending  image.Rectangle // layer-space bounds after pending growth
	growing  bool
	visible  bool
	repaint  *damage.Tracker
	rec      recorder
	notes    []func() // run by unlock, outside the lock

	obsMu      sync.Mutex
	obsSeq     int
	boundsObs  []observer[BoundsObserver]
	visibleObs []observer[VisibilityObserver]
}

type observer[T any] struct {
	id int
	o  T
}

// NewSurface creates a transparent surface of w×h pixels.
func NewSurface(w, h int, opts ...SurfaceOption) (*Surface, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	buf, err := pixmap.New(w, h, o.format)
	if err != nil {
		return nil, err
	}
	return newSurface(buf, o.location, o), nil
}

// NewSurfaceFromImage creates a surface holding a copy of img with its
// buffer origin at the layer-space point at.
func NewSurfaceFromImage(img image.Image, at image.Point, opts ...SurfaceOption) (*Surface, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	buf, err := pixmap.FromImage(img, o.format)
	if err != nil {
		return nil, err
	}
	return newSurface(buf, at, o), nil
}

// NewSurfaceFromLayer creates a surface from a decoded layer file. The
// layer's format and offset are kept.
func NewSurfaceFromLayer(l layerfile.Layer, opts ...SurfaceOption) (*Surface, error) {
	if l.Image == nil {
		return nil, pixmap.ErrInvalidDimensions
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return newSurface(l.Image.Clone(), l.Offset, o), nil
}

func newSurface(buf *pixmap.Pixmap, loc image.Point, o surfaceOptions) *Surface {
	s := &Surface{
		id:      uuid.New(),
		opts:    o,
		buf:     buf,
		size:    buf.Size(),
		format:  buf.Format(),
		loc:     loc,
		visible: true,
	}
	s.repaint = damage.New(s.extent)
	s.rec.damage = damage.New(s.extent)
	return s
}

// extent is read by the damage trackers at flush time, under s.mu.
func (s *Surface) extent() image.Point { return s.size }

// ID returns the stable identity of the surface.
func (s *Surface) ID() uuid.UUID { return s.id }

// Location returns the layer-space position of buffer pixel (0, 0).
func (s *Surface) Location() image.Point {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loc
}

// Size returns the buffer dimensions. It does not wake the surface.
func (s *Surface) Size() image.Point {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.size
}

// Bounds returns the buffer's rectangle in layer space. Pending growth is
// not included until it is resolved.
func (s *Surface) Bounds() image.Rectangle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.boundsLocked()
}

func (s *Surface) boundsLocked() image.Rectangle {
	return image.Rectangle{Min: s.loc, Max: s.loc.Add(s.size)}
}

// Format returns the pixel format of the buffer.
func (s *Surface) Format() pixmap.Format {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.format
}

// Visible reports whether Paint draws the surface by default.
func (s *Surface) Visible() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visible
}

// SetVisible shows or hides the surface and notifies visibility observers.
func (s *Surface) SetVisible(v bool) {
	s.mu.Lock()
	defer s.unlock()
	if s.visible == v {
		return
	}
	s.visible = v
	s.notes = append(s.notes, func() {
		for _, o := range snapshot(s, &s.visibleObs) {
			o.VisibilityChanged(s, v)
		}
	})
	s.notifyRepaintLocked(s.boundsLocked())
}

// Image returns a copy of the buffer.
func (s *Surface) Image() (*pixmap.Pixmap, error) {
	if err := s.lockLive(); err != nil {
		return nil, err
	}
	defer s.unlock()
	s.resolveLocked()
	return s.buf.Clone(), nil
}

// Layer returns a copy of the buffer with its layer-space offset, ready for
// layerfile.Save.
func (s *Surface) Layer() (layerfile.Layer, error) {
	if err := s.lockLive(); err != nil {
		return layerfile.Layer{}, err
	}
	defer s.unlock()
	s.resolveLocked()
	return layerfile.Layer{Image: s.buf.Clone(), Offset: s.loc}, nil
}

// ChangeBounds returns the layer-space bounding rectangle of everything
// repainted since the previous call, or damage.Nowhere if nothing was.
func (s *Surface) ChangeBounds() image.Rectangle {
	s.lockResolved()
	defer s.unlock()
	r := s.repaint.Flush()
	if damage.IsNowhere(r) {
		return r
	}
	return r.Add(s.loc)
}

// Hibernated reports whether the buffer is currently parked in a store.
func (s *Surface) Hibernated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf == nil
}

// Hibernate asks the attached queue to park the buffer. It returns
// immediately; the request is dropped if the surface is edited or woken
// before the worker reaches it.
func (s *Surface) Hibernate() {
	if q := s.opts.queue; q != nil {
		q.Hibernate(target{s})
	}
}

// Wake restores a parked buffer. With immediate set it returns once the
// pixels are live; otherwise onDone is called from the worker.
func (s *Surface) Wake(ctx context.Context, immediate bool, onDone func(error)) error {
	q := s.opts.queue
	if q == nil {
		if onDone != nil {
			onDone(nil)
		}
		return nil
	}
	return q.Wake(ctx, target{s}, immediate, onDone)
}

// lockLive acquires s.mu with a live buffer, waking the surface as often as
// needed. On error the lock is not held.
func (s *Surface) lockLive() error {
	for {
		s.mu.Lock()
		if s.buf != nil {
			return nil
		}
		s.mu.Unlock()

		q := s.opts.queue
		if q == nil {
			return ErrHibernated
		}
		if err := q.Wake(context.Background(), target{s}, true, nil); err != nil {
			return err
		}
	}
}

// lockResolved acquires s.mu and resolves pending growth if the pixels can
// be made live.
func (s *Surface) lockResolved() {
	s.mu.Lock()
	if !s.growing || s.buf != nil {
		s.resolveLocked()
		return
	}
	s.mu.Unlock()
	if err := s.lockLive(); err != nil {
		s.mu.Lock()
		return
	}
	s.resolveLocked()
}

// unlock releases s.mu and then runs queued notifications.
func (s *Surface) unlock() {
	notes := s.notes
	s.notes = nil
	s.mu.Unlock()
	for _, fn := range notes {
		fn()
	}
}

// replaceLocked installs a new live buffer.
func (s *Surface) replaceLocked(buf *pixmap.Pixmap) {
	s.buf = buf
	s.size = buf.Size()
	s.format = buf.Format()
	s.gen++
}

// markLocked reports r, in buffer coordinates, as modified.
func (s *Surface) markLocked(r image.Rectangle) {
	if r.Empty() {
		return
	}
	s.repaint.MarkRect(r)
	if s.rec.state == recRecording {
		s.rec.damage.MarkRect(r)
	}
	s.gen++
	s.notifyRepaintLocked(r.Add(s.loc))
}

// markAllLocked reports the whole buffer as modified.
func (s *Surface) markAllLocked() {
	s.repaint.MarkAll()
	if s.rec.state == recRecording {
		s.rec.damage.MarkAll()
	}
	s.gen++
	s.notifyRepaintLocked(s.boundsLocked())
}

func (s *Surface) notifyRepaintLocked(r image.Rectangle) {
	if fn := s.opts.repaint; fn != nil && !r.Empty() {
		s.notes = append(s.notes, func() { fn(r) })
	}
}

func (s *Surface) boundsChangedLocked(old image.Rectangle) {
	now := s.boundsLocked()
	if now == old {
		return
	}
	s.notes = append(s.notes, func() {
		for _, o := range snapshot(s, &s.boundsObs) {
			o.BoundsChanged(s, old, now)
		}
	})
}

// AddBoundsObserver registers o and returns a function that removes it.
func (s *Surface) AddBoundsObserver(o BoundsObserver) (remove func()) {
	return addObserver(s, &s.boundsObs, o)
}

// AddVisibilityObserver registers o and returns a function that removes it.
func (s *Surface) AddVisibilityObserver(o VisibilityObserver) (remove func()) {
	return addObserver(s, &s.visibleObs, o)
}

func addObserver[T any](s *Surface, list *[]observer[T], o T) func() {
	s.obsMu.Lock()
	defer s.obsMu.Unlock()
	s.obsSeq++
	id := s.obsSeq
	*list = append(*list, observer[T]{id: id, o: o})
	return func() {
		s.obsMu.Lock()
		defer s.obsMu.Unlock()
		for i, e := range *list {
			if e.id == id {
				*list = append((*list)[:i:i], (*list)[i+1:]...)
				return
			}
		}
	}
}

func snapshot[T any](s *Surface, list *[]observer[T]) []T {
	s.obsMu.Lock()
	defer s.obsMu.Unlock()
	out := make([]T, len(*list))
	for i, e := range *list {
		out[i] = e.o
	}
	return out
}
