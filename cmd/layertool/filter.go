package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"slices"

	"github.com/alecthomas/kong"

	"github.com/gogpu/rasterlayer"
	"github.com/gogpu/rasterlayer/blend"
	"github.com/gogpu/rasterlayer/filter"
	"github.com/gogpu/rasterlayer/hibernate"
	"github.com/gogpu/rasterlayer/history"
	"github.com/gogpu/rasterlayer/layerfile"
)

var ops = []string{"blur", "box", "sharpen", "grayscale", "invert", "brightness", "tint"}

type filterCmd struct {
	Files   []string `arg:"" type:"existingfile" help:"Layer files to process"`
	Op      []string `help:"Operation to apply, in order; one of blur, box, sharpen, grayscale, invert, brightness, tint" required:""`
	Radius  float64  `help:"Blur radius in pixels" default:"2"`
	Amount  float64  `help:"Brightness factor" default:"1.2"`
	Tint    string   `help:"Tint color as #RRGGBB or #RRGGBBAA" default:"#ff000080"`
	Mode    string   `help:"Blend mode for tint" default:"SourceOver"`
	Rect    []int    `help:"Restrict to x0,y0,x1,y1 in layer coordinates"`
	Polygon []int    `help:"Restrict to the polygon x0,y0,x1,y1,x2,y2,... in layer coordinates"`
	Undo    int      `help:"Undo the last N operations before saving"`
	OutDir  string   `help:"Destination folder; files keep their names" default:"filtered"`

	region rasterlayer.Region `kong:"-"`
	tint   blend.Func         `kong:"-"`
}

func (c *filterCmd) Validate(kctx *kong.Context) error {
	for _, op := range c.Op {
		if !slices.Contains(ops, op) {
			return fmt.Errorf("unknown operation %q", op)
		}
	}
	mode, ok := blend.ParseMode(c.Mode)
	if !ok {
		return fmt.Errorf("unknown blend mode %q", c.Mode)
	}
	col, err := parseHexColor(c.Tint)
	if err != nil {
		return err
	}
	c.tint = blend.Solid(col, mode)

	switch {
	case len(c.Rect) > 0 && len(c.Polygon) > 0:
		return fmt.Errorf("--rect and --polygon are exclusive")
	case len(c.Rect) > 0:
		if len(c.Rect) != 4 {
			return fmt.Errorf("--rect needs 4 values, got %d", len(c.Rect))
		}
		c.region = rasterlayer.RectRegion(image.Rect(c.Rect[0], c.Rect[1], c.Rect[2], c.Rect[3]))
	case len(c.Polygon) > 0:
		if len(c.Polygon) < 6 || len(c.Polygon)%2 != 0 {
			return fmt.Errorf("--polygon needs at least 3 x,y pairs")
		}
		pts := make([]image.Point, 0, len(c.Polygon)/2)
		for i := 0; i < len(c.Polygon); i += 2 {
			pts = append(pts, image.Pt(c.Polygon[i], c.Polygon[i+1]))
		}
		c.region = rasterlayer.PolygonRegion(pts...)
	}
	if c.Undo < 0 {
		return fmt.Errorf("invalid undo count: %d", c.Undo)
	}
	return nil
}

// Run loads every file onto a surface and processes them one at a time.
// Surfaces not being processed are hibernated so that large batches keep
// only one live buffer.
func (c *filterCmd) Run(e *env) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	store, err := hibernate.Open(e.cfg.Store, hibernate.StoreConfig{Dir: e.cfg.SpoolDir})
	if err != nil {
		return err
	}
	q := hibernate.NewQueue(store,
		hibernate.WithWorkers(e.cfg.Workers),
		hibernate.WithCycleTimeout(e.cfg.CycleTimeout),
		hibernate.WithLogger(slog.Default().With("component", "hibernate")),
	)
	q.Start(ctx)
	defer q.Close()

	hist := history.New(e.cfg.HistoryLimit)
	surfaces := make([]*rasterlayer.Surface, 0, len(c.Files))
	for _, name := range c.Files {
		l, err := layerfile.Load(name)
		if err != nil {
			return err
		}
		s, err := rasterlayer.NewSurfaceFromLayer(l,
			rasterlayer.WithHistory(hist),
			rasterlayer.WithHibernation(q))
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		s.Hibernate()
		surfaces = append(surfaces, s)
	}

	for i, s := range surfaces {
		if err := ctx.Err(); err != nil {
			return err
		}
		for _, op := range c.Op {
			if err := c.apply(s, op); err != nil {
				return fmt.Errorf("%s: %s: %w", c.Files[i], op, err)
			}
		}
		slog.Debug("filtered", "file", c.Files[i], "ops", len(c.Op))
		s.Hibernate()
	}

	for n := 0; n < c.Undo; n++ {
		if _, err := hist.Undo(); errors.Is(err, history.ErrNothingToUndo) {
			break
		} else if err != nil {
			return err
		}
	}

	if err := os.MkdirAll(c.OutDir, 0o755); err != nil {
		return fmt.Errorf("unable to create destination folder %q: %w", c.OutDir, err)
	}
	for i, s := range surfaces {
		l, err := s.Layer()
		if err != nil {
			return err
		}
		out := filepath.Join(c.OutDir, filepath.Base(c.Files[i]))
		if err := layerfile.Save(out, l); err != nil {
			return err
		}
		s.Hibernate()
	}
	undo, redo := hist.Len()
	slog.Info("stats", "files", len(surfaces), "undoable", undo, "undone", redo)
	return q.Sync(ctx)
}

func (c *filterCmd) apply(s *rasterlayer.Surface, op string) error {
	switch op {
	case "blur":
		return s.ApplyRegionOp(filter.NewBlur(c.Radius), c.region)
	case "box":
		return s.ApplyRegionOp(filter.BoxBlur{Radius: int(c.Radius)}, c.region)
	case "sharpen":
		return s.ApplyRegionOp(filter.Sharpen(), c.region)
	case "grayscale":
		return s.ApplyRegionOp(filter.Grayscale(), c.region)
	case "invert":
		return s.ApplyRegionOp(filter.Invert(), c.region)
	case "brightness":
		return s.ApplyRegionOp(filter.Brightness(float32(c.Amount)), c.region)
	case "tint":
		return s.ApplyComposite(c.tint, c.region)
	}
	return fmt.Errorf("unknown operation %q", op)
}

// parseHexColor reads #RRGGBB or #RRGGBBAA into a premultiplied color.
func parseHexColor(s string) (blend.Premul, error) {
	var r, g, b uint8
	a := uint8(0xff)
	var err error
	switch len(s) {
	case 7:
		_, err = fmt.Sscanf(s, "#%02x%02x%02x", &r, &g, &b)
	case 9:
		_, err = fmt.Sscanf(s, "#%02x%02x%02x%02x", &r, &g, &b, &a)
	default:
		return blend.Premul{}, fmt.Errorf("invalid color %q", s)
	}
	if err != nil {
		return blend.Premul{}, fmt.Errorf("could not read color %q: %w", s, err)
	}
	mul := func(c uint8) uint8 { return uint8((uint32(c)*uint32(a) + 127) / 255) }
	return blend.Premul{R: mul(r), G: mul(g), B: mul(b), A: a}, nil
}
