package rasterlayer

import (
	"image"
	"testing"

	"github.com/gogpu/rasterlayer/blend"
	"github.com/gogpu/rasterlayer/filter"
	"github.com/gogpu/rasterlayer/pixmap"
)

func invertedPattern(x, y int) uint32 {
	v := patternValue(x, y)
	return v&0xFF000000 | ^v&0x00FFFFFF
}

func TestRegionOpMasksPolygon(t *testing.T) {
	h := &sliceHistory{}
	s := newPatternSurface(t, 20, 20, WithHistory(h))
	before := mustImage(t, s)
	tri := PolygonRegion(image.Pt(5, 5), image.Pt(15, 5), image.Pt(10, 15))

	if err := s.ApplyRegionOp(filter.Invert(), tri); err != nil {
		t.Fatal(err)
	}
	img := mustImage(t, s)

	box := image.Rect(5, 5, 15, 15)
	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			if image.Pt(x, y).In(box) {
				continue
			}
			if img.Value(x, y) != before.Value(x, y) {
				t.Fatalf("pixel (%d,%d) outside the region changed", x, y)
			}
		}
	}
	if got := img.Value(5, 14); got != before.Value(5, 14) {
		t.Errorf("pixel (5,14) inside the box but outside the triangle changed: %#x", got)
	}
	if got := img.Value(10, 8); got != invertedPattern(10, 8) {
		t.Errorf("pixel (10,8) = %#x, want %#x", got, invertedPattern(10, 8))
	}

	// Outside an edit the op records itself.
	if len(h.edits) != 1 {
		t.Fatalf("history has %d records, want 1", len(h.edits))
	}
	if err := h.edits[0].Undo(); err != nil {
		t.Fatal(err)
	}
	if !pixmap.Equal(mustImage(t, s), before) {
		t.Error("undo did not restore the pixels")
	}
}

func TestRegionOpInsideEdit(t *testing.T) {
	h := &sliceHistory{}
	s := newPatternSurface(t, 8, 8, WithHistory(h))
	if err := s.BeginEdit("effects"); err != nil {
		t.Fatal(err)
	}
	if err := s.ApplyRegionOp(filter.Invert(), RectRegion(image.Rect(0, 0, 2, 2))); err != nil {
		t.Fatal(err)
	}
	if err := s.ApplyRegionOp(filter.Invert(), RectRegion(image.Rect(4, 4, 6, 6))); err != nil {
		t.Fatal(err)
	}
	if len(h.edits) != 0 {
		t.Fatalf("ops inside an edit recorded %d records", len(h.edits))
	}
	e, err := s.CommitEdit()
	if err != nil || e == nil {
		t.Fatalf("CommitEdit = (%v, %v)", e, err)
	}
	if got := e.(*PaintEdit).Bounds(); got != image.Rect(0, 0, 6, 6) {
		t.Errorf("record bounds = %v, want (0,0)-(6,6)", got)
	}
}

func TestRegionOpClipsToBuffer(t *testing.T) {
	s := newPatternSurface(t, 8, 8, WithLocation(image.Pt(10, 10)))
	if err := s.ApplyRegionOp(filter.Invert(), RectRegion(image.Rect(0, 0, 12, 12))); err != nil {
		t.Fatal(err)
	}
	if got := s.ChangeBounds(); got != image.Rect(10, 10, 12, 12) {
		t.Errorf("ChangeBounds() = %v, want (10,10)-(12,12)", got)
	}
	if got := layerValue(t, s, 11, 11); got != invertedPattern(1, 1) {
		t.Errorf("pixel inside = %#x", got)
	}
	if got := layerValue(t, s, 12, 12); got != patternValue(2, 2) {
		t.Errorf("pixel outside = %#x", got)
	}

	// Entirely outside: nothing happens.
	if err := s.ApplyRegionOp(filter.Invert(), RectRegion(image.Rect(0, 0, 5, 5))); err != nil {
		t.Fatal(err)
	}
	if got := s.ChangeBounds(); got.Dx() != 0 || got.Dy() != 0 {
		t.Errorf("ChangeBounds() = %v, want nothing", got)
	}
}

func TestRegionOpDegeneratePolygon(t *testing.T) {
	s := newPatternSurface(t, 8, 8)
	line := PolygonRegion(image.Pt(2, 2), image.Pt(6, 6), image.Pt(4, 4))
	if err := s.ApplyRegionOp(filter.Flood{Color: pixmap.FormatARGB.Color(red)}, line); err != nil {
		t.Fatal(err)
	}
	// The bounding rectangle is used instead.
	if got := layerValue(t, s, 5, 2); got != red {
		t.Errorf("pixel (5,2) = %#x, want red", got)
	}
	if got := layerValue(t, s, 6, 6); got != patternValue(6, 6) {
		t.Errorf("pixel (6,6) = %#x, want unchanged", got)
	}
}

func TestRegionOpWholeBuffer(t *testing.T) {
	s := newPatternSurface(t, 6, 6)
	if err := s.ApplyRegionOp(filter.Invert(), nil); err != nil {
		t.Fatal(err)
	}
	for _, p := range []image.Point{{0, 0}, {5, 5}, {2, 4}} {
		if got := layerValue(t, s, p.X, p.Y); got != invertedPattern(p.X, p.Y) {
			t.Errorf("pixel %v = %#x, want inverted", p, got)
		}
	}
}

func TestApplyComposite(t *testing.T) {
	s := newTestSurface(t, 4, 4)
	blue := blend.Premul{B: 0xff, A: 0xff}
	if err := s.ApplyComposite(blend.Solid(blue, blend.SourceOver), RectRegion(image.Rect(0, 0, 2, 2))); err != nil {
		t.Fatal(err)
	}
	if got := layerValue(t, s, 1, 1); got != 0xFF0000FF {
		t.Errorf("pixel (1,1) = %#x, want opaque blue", got)
	}
	if got := layerValue(t, s, 3, 3); got != 0 {
		t.Errorf("pixel (3,3) = %#x, want untouched", got)
	}
}
