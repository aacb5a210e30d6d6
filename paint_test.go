package rasterlayer

import (
	"image"
	"image/color"
	"image/draw"
	"testing"
)

func newRedSurface(t *testing.T, w, h int, opts ...SurfaceOption) *Surface {
	t.Helper()
	s := newTestSurface(t, w, h, opts...)
	if err := mustContext(t, s).Fill(s.Bounds(), redColor); err != nil {
		t.Fatal(err)
	}
	return s
}

func TestPaint(t *testing.T) {
	transparent := color.NRGBA{}
	tests := []struct {
		name string
		opts PaintOptions
		want map[image.Point]color.NRGBA
	}{
		{
			name: "offset",
			want: map[image.Point]color.NRGBA{
				{1, 1}: redColor, {2, 2}: redColor, {0, 0}: transparent, {3, 3}: transparent,
			},
		},
		{
			name: "zoom",
			opts: PaintOptions{Zoom: 2},
			want: map[image.Point]color.NRGBA{
				{2, 2}: redColor, {5, 5}: redColor, {1, 1}: transparent, {6, 6}: transparent,
			},
		},
		{
			name: "clip",
			opts: PaintOptions{Clip: image.Rect(0, 0, 2, 2)},
			want: map[image.Point]color.NRGBA{
				{1, 1}: redColor, {2, 2}: transparent,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newRedSurface(t, 2, 2, WithLocation(image.Pt(1, 1)))
			dst := image.NewNRGBA(image.Rect(0, 0, 8, 8))
			if !s.Paint(dst, tt.opts) {
				t.Fatal("Paint returned false for a live surface")
			}
			for p, want := range tt.want {
				if got := dst.NRGBAAt(p.X, p.Y); got != want {
					t.Errorf("dst %v = %v, want %v", p, got, want)
				}
			}
		})
	}
}

func TestPaintVisibility(t *testing.T) {
	s := newRedSurface(t, 2, 2)
	s.SetVisible(false)

	dst := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	if !s.Paint(dst, PaintOptions{}) {
		t.Fatal("Paint returned false")
	}
	if got := dst.NRGBAAt(0, 0); got.A != 0 {
		t.Errorf("hidden surface painted %v", got)
	}
	s.Paint(dst, PaintOptions{IgnoreVisibility: true})
	if got := dst.NRGBAAt(0, 0); got != redColor {
		t.Errorf("IgnoreVisibility painted %v, want red", got)
	}
}

func TestPaintShowSelection(t *testing.T) {
	sel := staticSelection{RectRegion(image.Rect(1, 1, 2, 2))}
	s := newTestSurface(t, 2, 2, WithLocation(image.Pt(1, 1)))
	// Fill before attaching the selection so the whole buffer is red.
	if err := mustContext(t, s).Fill(s.Bounds(), redColor); err != nil {
		t.Fatal(err)
	}
	s.opts.selection = sel

	dst := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	s.Paint(dst, PaintOptions{ShowSelection: true})
	if got := dst.NRGBAAt(1, 1); got != redColor {
		t.Errorf("selected pixel = %v, want red", got)
	}
	if got := dst.NRGBAAt(2, 2); got.A != 0 {
		t.Errorf("unselected pixel = %v, want transparent", got)
	}
}

func TestContextDrawing(t *testing.T) {
	s := newTestSurface(t, 6, 6, WithLocation(image.Pt(10, 10)))
	dc := mustContext(t, s)

	if got := dc.Bounds(); got != image.Rect(10, 10, 16, 16) {
		t.Errorf("Bounds() = %v", got)
	}
	dc.Set(12, 12, redColor)
	if got := dc.At(12, 12); got != redColor {
		t.Errorf("At(12,12) = %v, want red", got)
	}

	if err := dc.DrawImage(image.Rect(14, 14, 20, 20), image.NewUniform(redColor), image.Point{}, draw.Src); err != nil {
		t.Fatal(err)
	}
	if got := layerValue(t, s, 15, 15); got != red {
		t.Errorf("DrawImage pixel = %#x, want red", got)
	}
	if got := layerValue(t, s, 13, 13); got != 0 {
		t.Errorf("pixel outside DrawImage = %#x", got)
	}

	if err := dc.Clear(image.Rect(0, 0, 100, 100)); err != nil {
		t.Fatal(err)
	}
	if got := layerValue(t, s, 15, 15); got != 0 {
		t.Errorf("Clear left %#x", got)
	}
}

func TestContextFillPolygon(t *testing.T) {
	s := newTestSurface(t, 8, 8)
	dc := mustContext(t, s)
	if err := dc.FillPolygon([]image.Point{{0, 0}, {8, 0}, {0, 8}}, redColor); err != nil {
		t.Fatal(err)
	}
	if got := layerValue(t, s, 1, 1); got != red {
		t.Errorf("interior pixel = %#x, want red", got)
	}
	if got := layerValue(t, s, 7, 7); got != 0 {
		t.Errorf("exterior pixel = %#x, want transparent", got)
	}

	// Degenerate outlines draw nothing.
	s.ChangeBounds()
	if err := dc.FillPolygon([]image.Point{{0, 0}, {4, 4}}, redColor); err != nil {
		t.Fatal(err)
	}
	if got := s.ChangeBounds(); got.Dx() != 0 || got.Dy() != 0 {
		t.Errorf("degenerate polygon reported damage %v", got)
	}
}

func TestContextSelectionClips(t *testing.T) {
	sel := staticSelection{RectRegion(image.Rect(2, 2, 4, 4))}
	s := newTestSurface(t, 6, 6, WithSelection(sel))
	if err := mustContext(t, s).Fill(s.Bounds(), redColor); err != nil {
		t.Fatal(err)
	}
	if got := s.ChangeBounds(); got != image.Rect(2, 2, 4, 4) {
		t.Errorf("ChangeBounds() = %v, want the selection", got)
	}
	for p, want := range map[image.Point]uint32{{2, 2}: red, {3, 3}: red, {1, 1}: 0, {4, 4}: 0} {
		if got := layerValue(t, s, p.X, p.Y); got != want {
			t.Errorf("pixel %v = %#x, want %#x", p, got, want)
		}
	}
}

func TestContextPolygonSelection(t *testing.T) {
	sel := staticSelection{PolygonRegion(image.Pt(0, 0), image.Pt(8, 0), image.Pt(0, 8))}
	s := newTestSurface(t, 8, 8, WithSelection(sel))
	if err := mustContext(t, s).Fill(s.Bounds(), redColor); err != nil {
		t.Fatal(err)
	}
	if got := layerValue(t, s, 1, 1); got != red {
		t.Errorf("selected pixel = %#x, want red", got)
	}
	if got := layerValue(t, s, 7, 7); got != 0 {
		t.Errorf("unselected pixel = %#x, want transparent", got)
	}
}
