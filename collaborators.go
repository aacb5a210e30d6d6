package rasterlayer

import "image"

// History receives committed edit records. Edits must return the records
// currently held so that canvas growth can translate those owned by the
// growing surface.
type History interface {
	Record(e Edit)
	Edits() []Edit
}

// Selection yields the current selection clip in layer coordinates.
// ok is false when nothing is selected.
type Selection interface {
	Clip() (r Region, ok bool)
}

// ToolQuery reports whether the active tool paints. Edits begun while a
// non-painting tool is active are not recorded.
type ToolQuery interface {
	Painting() bool
}

// BoundsObserver is notified when a surface's layer-space bounds change.
type BoundsObserver interface {
	BoundsChanged(s *Surface, old, new image.Rectangle)
}

// BoundsObserverFunc adapts a function to BoundsObserver.
type BoundsObserverFunc func(s *Surface, old, new image.Rectangle)

// BoundsChanged calls f.
func (f BoundsObserverFunc) BoundsChanged(s *Surface, old, new image.Rectangle) { f(s, old, new) }

// VisibilityObserver is notified when a surface is shown or hidden.
type VisibilityObserver interface {
	VisibilityChanged(s *Surface, visible bool)
}

// VisibilityObserverFunc adapts a function to VisibilityObserver.
type VisibilityObserverFunc func(s *Surface, visible bool)

// VisibilityChanged calls f.
func (f VisibilityObserverFunc) VisibilityChanged(s *Surface, visible bool) { f(s, visible) }
