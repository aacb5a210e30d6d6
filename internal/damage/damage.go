// Package damage accumulates the region of a pixel buffer modified since
// it was last flushed.
//
// The tracker keeps one bounding rectangle rather than an exact region: a
// repaint of the over-approximation is cheaper than maintaining a set of
// disjoint rectangles. It is not thread safe; callers serialize access.
package damage

import (
	"image"
	"math"
)

// Nowhere is returned by Flush when nothing was modified. It is a zero-area
// rectangle at a location no buffer can occupy, which keeps it distinct from
// a genuine empty rectangle at the origin.
var Nowhere = image.Rectangle{
	Min: image.Pt(math.MinInt32, math.MinInt32),
	Max: image.Pt(math.MinInt32, math.MinInt32),
}

// IsNowhere reports whether r is the Nowhere sentinel.
func IsNowhere(r image.Rectangle) bool {
	return r == Nowhere
}

type state uint8

const (
	unmodified state = iota
	partial
	all
)

// Tracker accumulates damage rectangles in buffer coordinates.
type Tracker struct {
	state  state
	bounds image.Rectangle

	// extent reports the buffer size at flush time. It is consulted only
	// when the tracker is in the all-modified state.
	extent func() image.Point
}

// New creates a tracker. extent returns the current buffer dimensions.
func New(extent func() image.Point) *Tracker {
	return &Tracker{extent: extent}
}

// Mark records that the w×h rectangle at (x, y) changed. A negative w or h
// marks the whole buffer, whatever its size turns out to be at flush time.
// Zero-area rectangles are ignored.
func (t *Tracker) Mark(x, y, w, h int) {
	if t.state == all {
		return
	}
	if w < 0 || h < 0 {
		t.MarkAll()
		return
	}
	if w == 0 || h == 0 {
		return
	}
	r := image.Rect(x, y, x+w, y+h)
	if t.state == unmodified {
		t.bounds = r
		t.state = partial
		return
	}
	t.bounds = t.bounds.Union(r)
}

// MarkRect is Mark for an image.Rectangle.
func (t *Tracker) MarkRect(r image.Rectangle) {
	if r.Empty() {
		return
	}
	t.Mark(r.Min.X, r.Min.Y, r.Dx(), r.Dy())
}

// MarkAll promotes the tracker to the all-modified state. Further marks are
// no-ops until the next Flush.
func (t *Tracker) MarkAll() {
	t.state = all
	t.bounds = image.Rectangle{}
}

// Modified reports whether anything was marked since the last flush.
func (t *Tracker) Modified() bool {
	return t.state != unmodified
}

// All reports whether the tracker is in the all-modified state.
func (t *Tracker) All() bool {
	return t.state == all
}

// Peek returns what Flush would return without resetting.
func (t *Tracker) Peek() image.Rectangle {
	switch t.state {
	case all:
		return image.Rectangle{Max: t.extent()}
	case partial:
		return t.bounds
	default:
		return Nowhere
	}
}

// Flush returns the accumulated bounding rectangle and resets the tracker to
// unmodified. It returns Nowhere if nothing was marked.
func (t *Tracker) Flush() image.Rectangle {
	r := t.Peek()
	t.state = unmodified
	t.bounds = image.Rectangle{}
	return r
}

// Translate shifts pending partial damage by (dx, dy). It is used when the
// buffer grows and existing content moves inside it.
func (t *Tracker) Translate(dx, dy int) {
	if t.state == partial {
		t.bounds = t.bounds.Add(image.Pt(dx, dy))
	}
}
