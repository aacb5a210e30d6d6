// Package pixmap provides the packed 32-bit pixel buffers used by raster
// layers.
//
// A Pixmap stores one uint32 per pixel in row-major order with no padding.
// The interpretation of the value is given by its Format. Pixmap implements
// draw.Image so the standard image/draw and golang.org/x/image/draw
// routines can read and write it directly.
package pixmap

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
)

// Common errors for pixmap operations.
var (
	// ErrInvalidDimensions is returned when width or height is negative.
	ErrInvalidDimensions = errors.New("pixmap: invalid dimensions")

	// ErrInvalidFormat is returned when the format is not recognized.
	ErrInvalidFormat = errors.New("pixmap: invalid format")

	// ErrDataTooSmall is returned when provided data is smaller than required.
	ErrDataTooSmall = errors.New("pixmap: data buffer too small")
)

// Pixmap is a rectangular buffer of packed pixels with its origin at (0, 0).
//
// Pixmap is not safe for concurrent mutation.
type Pixmap struct {
	pix    []uint32
	width  int
	height int
	format Format
}

var _ draw.Image = (*Pixmap)(nil)

// New allocates a zeroed pixmap. Zero-sized pixmaps are allowed.
func New(width, height int, format Format) (*Pixmap, error) {
	if width < 0 || height < 0 {
		return nil, ErrInvalidDimensions
	}
	if !format.IsValid() {
		return nil, ErrInvalidFormat
	}
	return &Pixmap{
		pix:    make([]uint32, width*height),
		width:  width,
		height: height,
		format: format,
	}, nil
}

// FromPix wraps existing pixel data without copying.
func FromPix(pix []uint32, width, height int, format Format) (*Pixmap, error) {
	if width < 0 || height < 0 {
		return nil, ErrInvalidDimensions
	}
	if !format.IsValid() {
		return nil, ErrInvalidFormat
	}
	if len(pix) < width*height {
		return nil, ErrDataTooSmall
	}
	return &Pixmap{
		pix:    pix[:width*height],
		width:  width,
		height: height,
		format: format,
	}, nil
}

// FromImage copies img into a new pixmap of the given format.
func FromImage(img image.Image, format Format) (*Pixmap, error) {
	b := img.Bounds()
	p, err := New(b.Dx(), b.Dy(), format)
	if err != nil {
		return nil, err
	}
	for y := 0; y < p.height; y++ {
		row := p.pix[y*p.width : (y+1)*p.width]
		for x := range row {
			row[x] = format.Pack(img.At(b.Min.X+x, b.Min.Y+y))
		}
	}
	return p, nil
}

// Clone returns a deep copy.
func (p *Pixmap) Clone() *Pixmap {
	pix := make([]uint32, len(p.pix))
	copy(pix, p.pix)
	return &Pixmap{pix: pix, width: p.width, height: p.height, format: p.format}
}

// Width returns the width in pixels.
func (p *Pixmap) Width() int { return p.width }

// Height returns the height in pixels.
func (p *Pixmap) Height() int { return p.height }

// Size returns the dimensions as a point.
func (p *Pixmap) Size() image.Point { return image.Pt(p.width, p.height) }

// Format returns the pixel format.
func (p *Pixmap) Format() Format { return p.format }

// Pix returns the packed pixel slice. Writes through it are visible in p.
func (p *Pixmap) Pix() []uint32 { return p.pix }

// Bounds implements image.Image.
func (p *Pixmap) Bounds() image.Rectangle {
	return image.Rect(0, 0, p.width, p.height)
}

// ColorModel implements image.Image.
func (p *Pixmap) ColorModel() color.Model {
	return p.format.Model()
}

// At implements image.Image. Out-of-bounds reads are transparent.
func (p *Pixmap) At(x, y int) color.Color {
	if !p.in(x, y) {
		return color.Transparent
	}
	return p.format.Color(p.pix[y*p.width+x])
}

// Set implements draw.Image. Out-of-bounds writes are ignored.
func (p *Pixmap) Set(x, y int, c color.Color) {
	if !p.in(x, y) {
		return
	}
	p.pix[y*p.width+x] = p.format.Pack(c)
}

// Value returns the packed pixel at (x, y), or 0 when out of bounds.
func (p *Pixmap) Value(x, y int) uint32 {
	if !p.in(x, y) {
		return 0
	}
	return p.pix[y*p.width+x]
}

// SetValue stores a packed pixel. Out-of-bounds writes are ignored.
func (p *Pixmap) SetValue(x, y int, v uint32) {
	if !p.in(x, y) {
		return
	}
	p.pix[y*p.width+x] = v
}

func (p *Pixmap) in(x, y int) bool {
	return x >= 0 && x < p.width && y >= 0 && y < p.height
}

// Fill stores v in every pixel of r ∩ Bounds().
func (p *Pixmap) Fill(r image.Rectangle, v uint32) {
	r = r.Intersect(p.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := p.pix[y*p.width+r.Min.X : y*p.width+r.Max.X]
		for i := range row {
			row[i] = v
		}
	}
}

// ClearRect zeroes r ∩ Bounds(): transparent for alpha formats, black otherwise.
func (p *Pixmap) ClearRect(r image.Rectangle) {
	p.Fill(r, 0)
}

// Crop returns a copy of r ∩ Bounds(). The result's origin is r.Min.
func (p *Pixmap) Crop(r image.Rectangle) *Pixmap {
	r = r.Intersect(p.Bounds())
	out := &Pixmap{
		pix:    make([]uint32, r.Dx()*r.Dy()),
		width:  r.Dx(),
		height: r.Dy(),
		format: p.format,
	}
	for y := 0; y < out.height; y++ {
		src := (r.Min.Y+y)*p.width + r.Min.X
		copy(out.pix[y*out.width:(y+1)*out.width], p.pix[src:src+out.width])
	}
	return out
}

// Copy copies sr of src into dst at dp and returns the destination rectangle
// actually written. The copy is clipped against both pixmaps. Pixels are
// converted when the formats differ.
func Copy(dst *Pixmap, dp image.Point, src *Pixmap, sr image.Rectangle) image.Rectangle {
	sr = sr.Intersect(src.Bounds())
	dr := sr.Add(dp.Sub(sr.Min)).Intersect(dst.Bounds())
	if dr.Empty() {
		return image.Rectangle{}
	}
	sp := sr.Min.Add(dr.Min.Sub(dp))
	w := dr.Dx()
	same := src.format == dst.format
	for y := 0; y < dr.Dy(); y++ {
		d := dst.pix[(dr.Min.Y+y)*dst.width+dr.Min.X:][:w]
		s := src.pix[(sp.Y+y)*src.width+sp.X:][:w]
		if same {
			copy(d, s)
			continue
		}
		for i, v := range s {
			d[i] = dst.format.PackPremul(src.format.Unpack(v))
		}
	}
	return dr
}

// Convert returns a copy of p in format f.
func (p *Pixmap) Convert(f Format) (*Pixmap, error) {
	out, err := New(p.width, p.height, f)
	if err != nil {
		return nil, err
	}
	Copy(out, image.Point{}, p, p.Bounds())
	return out, nil
}

// Equal reports whether a and b have the same size, format and pixels.
func Equal(a, b *Pixmap) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.width != b.width || a.height != b.height || a.format != b.format {
		return false
	}
	for i, v := range a.pix {
		if b.pix[i] != v {
			return false
		}
	}
	return true
}

// ToNRGBA converts the pixmap to a standard library image.
func (p *Pixmap) ToNRGBA() *image.NRGBA {
	img := image.NewNRGBA(p.Bounds())
	for y := 0; y < p.height; y++ {
		for x := 0; x < p.width; x++ {
			img.SetNRGBA(x, y, color.NRGBAModel.Convert(p.At(x, y)).(color.NRGBA))
		}
	}
	return img
}
