package main

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/gogpu/rasterlayer/layerfile"
	"github.com/gogpu/rasterlayer/pixmap"
)

type infoCmd struct {
	Files []string `arg:"" type:"existingfile" help:"Layer files"`
}

func (c *infoCmd) Run(e *env) error {
	var failed int
	for _, name := range c.Files {
		l, err := layerfile.Load(name)
		if err != nil {
			failed++
			slog.Error("could not read layer", "file", name, "error", err)
			continue
		}
		fmt.Fprintf(e.out, "%s: %s %dx%d at %v\n",
			name, l.Image.Format(), l.Image.Width(), l.Image.Height(), l.Offset)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files could not be read", failed, len(c.Files))
	}
	return nil
}

type exportCmd struct {
	In     string `arg:"" type:"existingfile" help:"Layer file"`
	Out    string `arg:"" help:"Image file to write"`
	Format string `help:"Output format; auto picks it from the file extension" enum:"auto,png,bmp,tiff" default:"auto"`
}

func (c *exportCmd) Run(e *env) error {
	format := c.Format
	if format == "auto" {
		var err error
		if format, err = formatFromExt(c.Out); err != nil {
			return err
		}
	}
	l, err := layerfile.Load(c.In)
	if err != nil {
		return err
	}

	f, err := os.Create(c.Out)
	if err != nil {
		return err
	}
	if err := encodeImage(f, format, l.Image.ToNRGBA()); err != nil {
		f.Close()
		return fmt.Errorf("could not encode %q: %w", c.Out, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	slog.Info("exported", "from", c.In, "to", c.Out, "format", format)
	return nil
}

func formatFromExt(name string) (string, error) {
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".png":
		return "png", nil
	case ".bmp":
		return "bmp", nil
	case ".tif", ".tiff":
		return "tiff", nil
	default:
		return "", fmt.Errorf("cannot export to %q files; pass --format", ext)
	}
}

func encodeImage(w io.Writer, format string, img image.Image) error {
	switch format {
	case "bmp":
		return bmp.Encode(w, img)
	case "tiff":
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return png.Encode(w, img)
	}
}

type importCmd struct {
	In     string `arg:"" type:"existingfile" help:"Image file (png, jpeg, gif, bmp, tiff or webp)"`
	Out    string `arg:"" help:"Layer file to write"`
	Format string `help:"Pixel format of the layer" enum:"RGB,ARGB,ARGBPremul,BGR" default:"ARGB"`
	X      int    `help:"Layer x offset"`
	Y      int    `help:"Layer y offset"`
}

func (c *importCmd) Run(e *env) error {
	f, err := os.Open(c.In)
	if err != nil {
		return err
	}
	defer f.Close()
	img, kind, err := image.Decode(f)
	if err != nil {
		return fmt.Errorf("could not decode %q: %w", c.In, err)
	}

	pm, err := pixmap.FromImage(img, parseFormat(c.Format))
	if err != nil {
		return err
	}
	if err := layerfile.Save(c.Out, layerfile.Layer{Image: pm, Offset: image.Pt(c.X, c.Y)}); err != nil {
		return err
	}
	slog.Info("imported", "from", c.In, "type", kind, "to", c.Out, "size", pm.Size())
	return nil
}

// parseFormat maps a format name to its Format. The names are checked by
// kong before Run.
func parseFormat(name string) pixmap.Format {
	for _, f := range pixmap.Formats() {
		if f.String() == name {
			return f
		}
	}
	return pixmap.FormatARGB
}
