package rasterlayer

import (
	"image"
	"image/draw"
	"math"

	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/rasterlayer/pixmap"
)

// Goal says what a Paint call is for. It selects the resampling quality
// used when zooming.
type Goal uint8

const (
	// GoalDisplay paints for on-screen viewing.
	GoalDisplay Goal = iota
	// GoalThumbnail paints a reduced preview.
	GoalThumbnail
	// GoalExport paints for output at the highest quality.
	GoalExport
)

// PaintOptions controls Paint.
type PaintOptions struct {
	// Clip limits drawing to a rectangle of dst. The zero value draws
	// everywhere.
	Clip image.Rectangle

	// Zoom maps layer coordinates to dst coordinates. Zero means 1.
	Zoom float64

	Goal Goal

	// ShowSelection draws only the selected pixels.
	ShowSelection bool

	// IgnoreVisibility paints hidden surfaces too.
	IgnoreVisibility bool
}

// Paint composites the surface over dst. Layer point p lands on dst point
// p*Zoom. It returns false, drawing nothing, while the buffer is
// hibernated; the caller should wake the surface and repaint.
func (s *Surface) Paint(dst draw.Image, opts PaintOptions) bool {
	s.mu.Lock()
	if s.buf == nil {
		s.mu.Unlock()
		return false
	}
	defer s.unlock()
	s.resolveLocked()

	if !s.visible && !opts.IgnoreVisibility {
		return true
	}
	lb := s.boundsLocked()
	if lb.Empty() {
		return true
	}

	xo := &xdraw.Options{}
	if !opts.Clip.Empty() {
		xo.DstMask = opts.Clip
	}
	if opts.ShowSelection {
		selR, selM, ok, err := s.selection()
		switch {
		case err != nil:
			Logger().Debug("selection unavailable for paint", "surface", s.id, "err", err)
		case ok && selM != nil:
			xo.SrcMask, xo.SrcMaskP = selM.Alpha(), s.loc
		case ok:
			xo.SrcMask, xo.SrcMaskP = selR, s.loc
		}
	}

	zoom := opts.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	if zoom == 1 && opts.Goal == GoalDisplay {
		xdraw.Copy(dst, lb.Min, s.buf, s.buf.Bounds(), xdraw.Over, xo)
		return true
	}
	scaler(opts.Goal, zoom).Scale(dst, scaleRect(lb, zoom), s.buf, s.buf.Bounds(), xdraw.Over, xo)
	return true
}

func scaler(g Goal, zoom float64) xdraw.Scaler {
	switch {
	case g == GoalExport:
		return pixmap.Bicubic.Scaler()
	case g == GoalThumbnail || zoom < 1:
		return pixmap.Bilinear.Scaler()
	default:
		return pixmap.Nearest.Scaler()
	}
}

func scaleRect(r image.Rectangle, zoom float64) image.Rectangle {
	return image.Rect(
		int(math.Floor(float64(r.Min.X)*zoom)),
		int(math.Floor(float64(r.Min.Y)*zoom)),
		int(math.Ceil(float64(r.Max.X)*zoom)),
		int(math.Ceil(float64(r.Max.Y)*zoom)),
	)
}
