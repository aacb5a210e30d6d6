// Command layertool inspects, converts and filters layer files.
//
// Usage:
//
//	layertool info a.layer b.layer
//	layertool export a.layer a.png
//	layertool import photo.webp photo.layer --x=10 --y=20
//	layertool filter *.layer --op=blur --op=invert --out-dir=out
//
// Settings that are not per invocation are read from LAYERTOOL_* environment
// variables; see internal/config.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/gogpu/rasterlayer"
	"github.com/gogpu/rasterlayer/internal/config"
)

// env is passed to every command's Run method.
type env struct {
	cfg *config.Config
	out io.Writer
}

type cli struct {
	Info   infoCmd   `cmd:"" help:"Print the header of layer files"`
	Export exportCmd `cmd:"" help:"Convert a layer file to an image"`
	Import importCmd `cmd:"" help:"Convert an image to a layer file"`
	Filter filterCmd `cmd:"" help:"Apply filters to layer files"`
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "layertool:", err)
		os.Exit(2)
	}
	logger := newLogger(cfg, os.Stderr)
	slog.SetDefault(logger)
	rasterlayer.SetLogger(logger)

	var c cli
	kctx := kong.Parse(&c,
		kong.Name("layertool"),
		kong.Description("Inspect, convert and filter raster layer files."),
		kong.UsageOnError(),
	)
	kctx.FatalIfErrorf(kctx.Run(&env{cfg: cfg, out: os.Stdout}))
}

func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	level, _ := cfg.Level()
	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
