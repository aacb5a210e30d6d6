package rasterlayer

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/gogpu/rasterlayer/internal/damage"
	"github.com/gogpu/rasterlayer/layerfile"
	"github.com/gogpu/rasterlayer/pixmap"
)

const red = 0xFFFF0000

var redColor = color.NRGBA{R: 0xff, A: 0xff}

type sliceHistory struct {
	edits []Edit
}

func (h *sliceHistory) Record(e Edit) { h.edits = append(h.edits, e) }
func (h *sliceHistory) Edits() []Edit { return h.edits }

type staticSelection struct {
	r Region
}

func (s staticSelection) Clip() (Region, bool) { return s.r, s.r != nil }

type toolFunc func() bool

func (f toolFunc) Painting() bool { return f() }

func newTestSurface(t *testing.T, w, h int, opts ...SurfaceOption) *Surface {
	t.Helper()
	s, err := NewSurface(w, h, opts...)
	if err != nil {
		t.Fatalf("NewSurface: %v", err)
	}
	return s
}

// patternValue is an opaque pixel unique to (x, y).
func patternValue(x, y int) uint32 {
	return 0xFF000000 | uint32(x)<<16 | uint32(y)<<8 | 0x40
}

func newPatternSurface(t *testing.T, w, h int, opts ...SurfaceOption) *Surface {
	t.Helper()
	img, err := pixmap.New(w, h, pixmap.FormatARGB)
	if err != nil {
		t.Fatal(err)
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetValue(x, y, patternValue(x, y))
		}
	}
	s, err := NewSurfaceFromLayer(layerfile.Layer{Image: img}, opts...)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func mustImage(t *testing.T, s *Surface) *pixmap.Pixmap {
	t.Helper()
	img, err := s.Image()
	if err != nil {
		t.Fatalf("Image: %v", err)
	}
	return img
}

// layerValue reads the pixel at a layer-space point.
func layerValue(t *testing.T, s *Surface, x, y int) uint32 {
	t.Helper()
	loc := s.Location()
	return mustImage(t, s).Value(x-loc.X, y-loc.Y)
}

func mustContext(t *testing.T, s *Surface) *Context {
	t.Helper()
	dc, err := s.Context()
	if err != nil {
		t.Fatalf("Context: %v", err)
	}
	return dc
}

func TestNewSurface(t *testing.T) {
	s := newTestSurface(t, 16, 8, WithLocation(image.Pt(3, 4)))
	if got := s.Bounds(); got != image.Rect(3, 4, 19, 12) {
		t.Errorf("Bounds() = %v", got)
	}
	if s.Format() != pixmap.FormatARGB {
		t.Errorf("Format() = %v, want ARGB", s.Format())
	}
	if !s.Visible() || s.Hibernated() || s.Editing() {
		t.Error("new surface has unexpected state")
	}
	if other := newTestSurface(t, 1, 1); other.ID() == s.ID() {
		t.Error("surfaces share an ID")
	}

	if _, err := NewSurface(-1, 4); !errors.Is(err, pixmap.ErrInvalidDimensions) {
		t.Errorf("NewSurface(-1, 4): err = %v", err)
	}
	if _, err := NewSurface(4, 4, WithFormat(pixmap.Format(99))); !errors.Is(err, pixmap.ErrInvalidFormat) {
		t.Errorf("bad format: err = %v", err)
	}
}

func TestNewSurfaceFromImage(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	src.SetNRGBA(2, 1, redColor)
	s, err := NewSurfaceFromImage(src, image.Pt(-1, -1))
	if err != nil {
		t.Fatal(err)
	}
	if got := layerValue(t, s, 1, 0); got != red {
		t.Errorf("pixel = %#x, want red", got)
	}
}

func TestLayerRoundTrip(t *testing.T) {
	s := newPatternSurface(t, 5, 3)
	s.MoveTo(image.Pt(7, -2))

	l, err := s.Layer()
	if err != nil {
		t.Fatal(err)
	}
	path := t.TempDir() + "/l.layer"
	if err := layerfile.Save(path, l); err != nil {
		t.Fatal(err)
	}
	back, err := layerfile.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	s2, err := NewSurfaceFromLayer(back)
	if err != nil {
		t.Fatal(err)
	}
	if s2.Bounds() != s.Bounds() {
		t.Errorf("bounds = %v, want %v", s2.Bounds(), s.Bounds())
	}
	if !pixmap.Equal(mustImage(t, s2), mustImage(t, s)) {
		t.Error("pixels differ after save and load")
	}
}

func TestChangeBounds(t *testing.T) {
	s := newTestSurface(t, 20, 20, WithLocation(image.Pt(10, 10)))
	if got := s.ChangeBounds(); !damage.IsNowhere(got) {
		t.Fatalf("fresh surface ChangeBounds() = %v, want Nowhere", got)
	}

	dc := mustContext(t, s)
	if err := dc.Fill(image.Rect(10, 10, 12, 12), redColor); err != nil {
		t.Fatal(err)
	}
	if err := dc.Fill(image.Rect(15, 13, 16, 20), redColor); err != nil {
		t.Fatal(err)
	}
	if got := s.ChangeBounds(); got != image.Rect(10, 10, 16, 20) {
		t.Errorf("ChangeBounds() = %v, want (10,10)-(16,20)", got)
	}
	if got := s.ChangeBounds(); !damage.IsNowhere(got) {
		t.Errorf("second ChangeBounds() = %v, want Nowhere", got)
	}

	// Writes outside the buffer are clipped and report nothing.
	if err := dc.Fill(image.Rect(0, 0, 5, 5), redColor); err != nil {
		t.Fatal(err)
	}
	if got := s.ChangeBounds(); !damage.IsNowhere(got) {
		t.Errorf("clipped write reported %v", got)
	}

	if err := dc.Fill(image.Rect(11, 11, 12, 12), redColor); err != nil {
		t.Fatal(err)
	}
	if err := s.ConvertFormat(pixmap.FormatARGBPremul); err != nil {
		t.Fatal(err)
	}
	if err := dc.Fill(image.Rect(11, 11, 12, 12), redColor); err != nil {
		t.Fatal(err)
	}
	if got := s.ChangeBounds(); got != image.Rect(10, 10, 30, 30) {
		t.Errorf("after format change ChangeBounds() = %v, want whole surface", got)
	}
}

func TestRepaintCallback(t *testing.T) {
	var got []image.Rectangle
	s := newTestSurface(t, 8, 8,
		WithLocation(image.Pt(10, 10)),
		WithRepaint(func(r image.Rectangle) { got = append(got, r) }))

	if err := mustContext(t, s).Fill(image.Rect(9, 9, 12, 12), redColor); err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0] != image.Rect(10, 10, 12, 12) {
		t.Errorf("repaint calls = %v, want [(10,10)-(12,12)]", got)
	}
}

func TestObservers(t *testing.T) {
	s := newTestSurface(t, 4, 4)

	var bounds [][2]image.Rectangle
	remove := s.AddBoundsObserver(BoundsObserverFunc(func(_ *Surface, old, now image.Rectangle) {
		bounds = append(bounds, [2]image.Rectangle{old, now})
	}))
	var shown []bool
	s.AddVisibilityObserver(VisibilityObserverFunc(func(_ *Surface, v bool) {
		shown = append(shown, v)
	}))

	if err := s.GrowCanvas(8, 6); err != nil {
		t.Fatal(err)
	}
	if len(bounds) != 1 || bounds[0][0] != image.Rect(0, 0, 4, 4) || bounds[0][1] != image.Rect(0, 0, 8, 6) {
		t.Errorf("bounds notifications = %v", bounds)
	}
	remove()
	if err := s.GrowCanvas(10, 10); err != nil {
		t.Fatal(err)
	}
	if len(bounds) != 1 {
		t.Errorf("removed observer still notified: %v", bounds)
	}

	s.SetVisible(false)
	s.SetVisible(false)
	s.SetVisible(true)
	if len(shown) != 2 || shown[0] || !shown[1] {
		t.Errorf("visibility notifications = %v, want [false true]", shown)
	}
}

func TestGrowCanvasKeepsContent(t *testing.T) {
	s := newPatternSurface(t, 4, 4)
	if err := s.GrowCanvas(2, 6); err != nil {
		t.Fatal(err)
	}
	if got := s.Size(); got != image.Pt(4, 6) {
		t.Errorf("Size() = %v, want (4,6): GrowCanvas must not shrink", got)
	}
	if got := layerValue(t, s, 3, 3); got != patternValue(3, 3) {
		t.Errorf("pixel moved: %#x", got)
	}
	if got := layerValue(t, s, 0, 5); got != 0 {
		t.Errorf("new area = %#x, want transparent", got)
	}
	if err := s.GrowCanvas(-1, 2); !errors.Is(err, pixmap.ErrInvalidDimensions) {
		t.Errorf("negative size: err = %v", err)
	}
}

func TestSetLocationDefersGrowth(t *testing.T) {
	s := newPatternSurface(t, 10, 10)
	s.SetLocation(image.Pt(-5, -5))
	if got := s.Bounds(); got != image.Rect(0, 0, 10, 10) {
		t.Errorf("Bounds() before resolve = %v", got)
	}
	if err := s.ResolvePendingGrowth(); err != nil {
		t.Fatal(err)
	}
	if got := s.Bounds(); got != image.Rect(-5, -5, 10, 10) {
		t.Errorf("Bounds() after resolve = %v", got)
	}
	if got := layerValue(t, s, 2, 7); got != patternValue(2, 7) {
		t.Errorf("content moved in layer space: %#x", got)
	}
	// Idempotent.
	if err := s.ResolvePendingGrowth(); err != nil {
		t.Fatal(err)
	}
	if got := s.Bounds(); got != image.Rect(-5, -5, 10, 10) {
		t.Errorf("Bounds() after second resolve = %v", got)
	}

	// A placement already covered needs no growth.
	s.SetLocation(image.Pt(-2, -2))
	if err := s.ResolvePendingGrowth(); err != nil {
		t.Fatal(err)
	}
	if got := s.Bounds(); got != image.Rect(-5, -5, 10, 10) {
		t.Errorf("covered placement grew the surface: %v", got)
	}
}

func TestSubtract(t *testing.T) {
	outer := image.Rect(0, 0, 15, 15)
	got := subtract(outer, image.Rect(5, 5, 15, 15))
	want := []image.Rectangle{image.Rect(0, 0, 15, 5), image.Rect(0, 5, 5, 15)}
	if len(got) != len(want) {
		t.Fatalf("subtract = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("band %d = %v, want %v", i, got[i], want[i])
		}
	}
	if got := subtract(outer, outer); len(got) != 0 {
		t.Errorf("subtract of equal rects = %v", got)
	}
	var area int
	for _, r := range subtract(outer, image.Rect(3, 4, 9, 10)) {
		area += r.Dx() * r.Dy()
	}
	if area != 15*15-6*6 {
		t.Errorf("bands cover %d pixels, want %d", area, 15*15-36)
	}
}
