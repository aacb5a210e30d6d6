package rasterlayer

import (
	"errors"
	"image"

	"github.com/gogpu/rasterlayer/internal/clip"
)

// Region restricts an operation to part of a surface. Coordinates are in
// layer space.
type Region interface {
	// Bounds returns the smallest rectangle containing the region.
	Bounds() image.Rectangle

	// Mask returns per-pixel coverage over Bounds, or nil when the region
	// is the full rectangle.
	Mask() (*image.Alpha, error)
}

// RectRegion is a rectangular region.
type RectRegion image.Rectangle

// Bounds implements Region.
func (r RectRegion) Bounds() image.Rectangle { return image.Rectangle(r) }

// Mask implements Region.
func (r RectRegion) Mask() (*image.Alpha, error) { return nil, nil }

type polygonRegion struct {
	pts []image.Point
}

// PolygonRegion returns the region enclosed by a closed polygon.
func PolygonRegion(pts ...image.Point) Region {
	return polygonRegion{pts: append([]image.Point(nil), pts...)}
}

func (p polygonRegion) Bounds() image.Rectangle {
	return clip.Bounds(p.pts)
}

func (p polygonRegion) Mask() (*image.Alpha, error) {
	m, err := clip.Polygon(p.pts)
	if err != nil {
		return nil, err
	}
	return m.Alpha(), nil
}

// regionMask converts a region to a coverage mask. A nil mask means full
// coverage; callers always clip to Bounds as well. Degenerate outlines fall
// back to their bounding rectangle.
func regionMask(r Region) (*clip.Mask, error) {
	a, err := r.Mask()
	switch {
	case err == nil && a == nil:
		return nil, nil
	case err == nil:
		return clip.NewMask(a), nil
	case errors.Is(err, clip.ErrDegenerate):
		Logger().Debug("degenerate region, using bounds", "bounds", r.Bounds())
		return nil, nil
	default:
		return nil, err
	}
}
