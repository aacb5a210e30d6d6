package pixmap

import (
	"testing"
)

func TestResample(t *testing.T) {
	src, _ := New(2, 2, FormatARGB)
	src.Fill(src.Bounds(), 0xff00ff00)

	for _, interp := range []Interpolation{Nearest, Bilinear, Bicubic} {
		t.Run(interp.String(), func(t *testing.T) {
			dst, err := Resample(src, 6, 4, interp)
			if err != nil {
				t.Fatal(err)
			}
			if dst.Width() != 6 || dst.Height() != 4 {
				t.Fatalf("size = %dx%d, want 6x4", dst.Width(), dst.Height())
			}
			for i, v := range dst.Pix() {
				if v != 0xff00ff00 {
					t.Fatalf("pixel %d = %#08x, want uniform green", i, v)
				}
			}
		})
	}
}

func TestResampleNearestBlocks(t *testing.T) {
	src, _ := New(2, 1, FormatARGB)
	src.SetValue(0, 0, 0xffff0000)
	src.SetValue(1, 0, 0xff0000ff)

	dst, err := Resample(src, 4, 1, Nearest)
	if err != nil {
		t.Fatal(err)
	}
	want := []uint32{0xffff0000, 0xffff0000, 0xff0000ff, 0xff0000ff}
	for x, w := range want {
		if got := dst.Value(x, 0); got != w {
			t.Errorf("x=%d: %#08x, want %#08x", x, got, w)
		}
	}
}

func TestResampleEmpty(t *testing.T) {
	src, _ := New(3, 3, FormatARGB)
	dst, err := Resample(src, 0, 5, Bilinear)
	if err != nil || dst.Width() != 0 {
		t.Errorf("Resample to zero width = %v, %v", dst, err)
	}
	if _, err := Resample(src, -1, 1, Nearest); err == nil {
		t.Error("negative size should fail")
	}
}
