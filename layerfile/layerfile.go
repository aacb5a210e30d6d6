// Package layerfile reads and writes the binary raster layer format.
//
// A layer file is a revision byte followed by big-endian int32 fields:
//
//	type code, width, height, x offset, y offset, length
//
// and then length big-endian int32 pixels in row-major order. The type code
// is the numeric pixmap.Format and length must equal width*height.
package layerfile

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"io"
	"math"
	"os"

	"github.com/gogpu/rasterlayer/pixmap"
)

// Revision is the only format revision this package reads and writes.
const Revision = 1

// ErrCorrupt is wrapped by every validation failure.
var ErrCorrupt = errors.New("layerfile: corrupt layer data")

// Layer is a pixel buffer placed in layer space.
type Layer struct {
	Image  *pixmap.Pixmap
	Offset image.Point
}

// Bounds returns the layer-space rectangle covered by the image.
func (l Layer) Bounds() image.Rectangle {
	if l.Image == nil {
		return image.Rectangle{Min: l.Offset, Max: l.Offset}
	}
	return l.Image.Bounds().Add(l.Offset)
}

type header struct {
	Type, Width, Height, X, Y, Length int32
}

// Encode writes l to w.
func Encode(w io.Writer, l Layer) error {
	if l.Image == nil {
		return fmt.Errorf("layerfile: encode: nil image")
	}
	pix := l.Image.Pix()
	for _, f := range []struct {
		name string
		v    int
	}{
		{"width", l.Image.Width()}, {"height", l.Image.Height()},
		{"x offset", l.Offset.X}, {"y offset", l.Offset.Y}, {"length", len(pix)},
	} {
		if f.v < math.MinInt32 || f.v > math.MaxInt32 {
			return fmt.Errorf("layerfile: encode: %s %d does not fit in int32", f.name, f.v)
		}
	}
	h := header{
		Type:   int32(l.Image.Format()),
		Width:  int32(l.Image.Width()),
		Height: int32(l.Image.Height()),
		X:      int32(l.Offset.X),
		Y:      int32(l.Offset.Y),
		Length: int32(len(pix)),
	}
	bw := bufio.NewWriter(w)
	if err := bw.WriteByte(Revision); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.BigEndian, h); err != nil {
		return err
	}
	var b [4]byte
	for _, v := range pix {
		binary.BigEndian.PutUint32(b[:], v)
		if _, err := bw.Write(b[:]); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Decode reads a layer from r. Structural problems and truncated input are
// reported as errors wrapping ErrCorrupt; truncation also wraps
// io.ErrUnexpectedEOF.
func Decode(r io.Reader) (Layer, error) {
	br := bufio.NewReader(r)
	rev, err := br.ReadByte()
	if err != nil {
		return Layer{}, eof(err)
	}
	if rev != Revision {
		return Layer{}, fmt.Errorf("%w: unsupported revision %d", ErrCorrupt, rev)
	}

	var h header
	if err := binary.Read(br, binary.BigEndian, &h); err != nil {
		return Layer{}, eof(err)
	}
	format := pixmap.Format(h.Type)
	switch {
	case h.Type < 0 || h.Type > 0xff || !format.IsValid():
		return Layer{}, fmt.Errorf("%w: unknown type code %d", ErrCorrupt, h.Type)
	case h.Width < 0 || h.Height < 0:
		return Layer{}, fmt.Errorf("%w: negative size %dx%d", ErrCorrupt, h.Width, h.Height)
	case h.Length < 0:
		return Layer{}, fmt.Errorf("%w: negative length %d", ErrCorrupt, h.Length)
	case int64(h.Length) != int64(h.Width)*int64(h.Height):
		return Layer{}, fmt.Errorf("%w: length %d does not match %dx%d", ErrCorrupt, h.Length, h.Width, h.Height)
	}

	pix, err := readPixels(br, int(h.Length))
	if err != nil {
		return Layer{}, err
	}
	img, err := pixmap.FromPix(pix, int(h.Width), int(h.Height), format)
	if err != nil {
		return Layer{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return Layer{Image: img, Offset: image.Pt(int(h.X), int(h.Y))}, nil
}

// chunkPixels bounds how far the pixel slice grows ahead of the data
// actually read, so a header claiming a huge size cannot force a huge
// allocation.
const chunkPixels = 64 << 10

func readPixels(r io.Reader, n int) ([]uint32, error) {
	pix := make([]uint32, 0, min(n, chunkPixels))
	buf := make([]byte, 4*min(n, chunkPixels))
	for len(pix) < n {
		b := buf[:4*min(n-len(pix), chunkPixels)]
		if _, err := io.ReadFull(r, b); err != nil {
			return nil, eof(err)
		}
		for i := 0; i < len(b); i += 4 {
			pix = append(pix, binary.BigEndian.Uint32(b[i:]))
		}
	}
	return pix, nil
}

func eof(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: truncated: %w", ErrCorrupt, io.ErrUnexpectedEOF)
	}
	return err
}

// Save writes l to the named file, replacing it.
func Save(path string, l Layer) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return Encode(f, l)
}

// Load reads a layer from the named file.
func Load(path string) (Layer, error) {
	f, err := os.Open(path)
	if err != nil {
		return Layer{}, err
	}
	defer f.Close()
	l, err := Decode(f)
	if err != nil {
		return Layer{}, fmt.Errorf("layerfile: load %s: %w", path, err)
	}
	return l, nil
}
