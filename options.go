package rasterlayer

import (
	"image"

	"github.com/gogpu/rasterlayer/hibernate"
	"github.com/gogpu/rasterlayer/pixmap"
)

// SurfaceOption configures a Surface during creation.
// Use functional options to wire the surface to its host.
//
// Example:
//
//	// A bare surface: no undo history, no selection
//	s, _ := rasterlayer.NewSurface(640, 480)
//
//	// A surface wired into an editor
//	s, _ := rasterlayer.NewSurface(640, 480,
//	    rasterlayer.WithHistory(undo),
//	    rasterlayer.WithSelection(sel),
//	    rasterlayer.WithRepaint(view.Invalidate))
type SurfaceOption func(*surfaceOptions)

// surfaceOptions holds optional configuration for Surface creation.
type surfaceOptions struct {
	history   History
	selection Selection
	tool      ToolQuery
	repaint   func(image.Rectangle)
	queue     *hibernate.Queue
	pool      *pixmap.Pool
	format    pixmap.Format
	location  image.Point
}

// defaultOptions returns the default surface options.
func defaultOptions() surfaceOptions {
	return surfaceOptions{
		pool:   pixmap.DefaultPool(),
		format: pixmap.FormatARGB,
	}
}

// WithHistory sets the sink that receives committed undo records. Without
// one, CommitEdit still returns the record but nothing keeps it.
func WithHistory(h History) SurfaceOption {
	return func(o *surfaceOptions) {
		o.history = h
	}
}

// WithSelection sets the provider of the current selection clip.
func WithSelection(sel Selection) SurfaceOption {
	return func(o *surfaceOptions) {
		o.selection = sel
	}
}

// WithTool sets the query that decides whether BeginEdit records anything.
func WithTool(t ToolQuery) SurfaceOption {
	return func(o *surfaceOptions) {
		o.tool = t
	}
}

// WithRepaint sets a callback invoked with each damaged rectangle in layer
// coordinates. It is called after the surface lock is released.
func WithRepaint(fn func(image.Rectangle)) SurfaceOption {
	return func(o *surfaceOptions) {
		o.repaint = fn
	}
}

// WithHibernation attaches a queue that may park the buffer while the
// surface is idle.
func WithHibernation(q *hibernate.Queue) SurfaceOption {
	return func(o *surfaceOptions) {
		o.queue = q
	}
}

// WithPool sets the pool used for undo snapshots and scratch buffers.
func WithPool(p *pixmap.Pool) SurfaceOption {
	return func(o *surfaceOptions) {
		if p != nil {
			o.pool = p
		}
	}
}

// WithFormat sets the pixel format of a new surface. It is ignored when the
// surface is created from an existing layer.
func WithFormat(f pixmap.Format) SurfaceOption {
	return func(o *surfaceOptions) {
		o.format = f
	}
}

// WithLocation places the buffer origin in layer space.
func WithLocation(p image.Point) SurfaceOption {
	return func(o *surfaceOptions) {
		o.location = p
	}
}
