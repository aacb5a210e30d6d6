package pixmap

import (
	"golang.org/x/image/draw"
)

// Interpolation selects the resampling kernel used when content is scaled.
type Interpolation uint8

const (
	// Nearest picks the nearest source pixel. Hard edges, no new colors.
	Nearest Interpolation = iota

	// Bilinear interpolates between the four nearest pixels.
	Bilinear

	// Bicubic uses the Catmull-Rom kernel for the sharpest result.
	Bicubic
)

// String returns a string representation of the interpolation mode.
func (i Interpolation) String() string {
	switch i {
	case Nearest:
		return "Nearest"
	case Bilinear:
		return "Bilinear"
	case Bicubic:
		return "Bicubic"
	default:
		return "Unknown"
	}
}

// Scaler returns the golang.org/x/image/draw scaler for the mode.
func (i Interpolation) Scaler() draw.Scaler {
	switch i {
	case Bilinear:
		return draw.ApproxBiLinear
	case Bicubic:
		return draw.CatmullRom
	default:
		return draw.NearestNeighbor
	}
}

// Resample scales src into a newly allocated width×height pixmap of the same
// format.
func Resample(src *Pixmap, width, height int, interp Interpolation) (*Pixmap, error) {
	dst, err := New(width, height, src.format)
	if err != nil {
		return nil, err
	}
	if width == 0 || height == 0 || src.width == 0 || src.height == 0 {
		return dst, nil
	}
	if width == src.width && height == src.height {
		copy(dst.pix, src.pix)
		return dst, nil
	}
	interp.Scaler().Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst, nil
}
