package pixmap

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		width   int
		height  int
		format  Format
		wantErr error
	}{
		{"valid ARGB", 100, 100, FormatARGB, nil},
		{"valid RGB", 50, 20, FormatRGB, nil},
		{"zero size", 0, 0, FormatARGB, nil},
		{"negative width", -1, 10, FormatARGB, ErrInvalidDimensions},
		{"negative height", 10, -1, FormatARGB, ErrInvalidDimensions},
		{"unknown format", 10, 10, Format(0), ErrInvalidFormat},
		{"unknown format high", 10, 10, Format(99), ErrInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := New(tt.width, tt.height, tt.format)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if p.Width() != tt.width || p.Height() != tt.height {
				t.Errorf("size = %dx%d, want %dx%d", p.Width(), p.Height(), tt.width, tt.height)
			}
			if len(p.Pix()) != tt.width*tt.height {
				t.Errorf("len(Pix()) = %d, want %d", len(p.Pix()), tt.width*tt.height)
			}
		})
	}
}

func TestFromPix(t *testing.T) {
	if _, err := FromPix(make([]uint32, 5), 3, 2, FormatARGB); !errors.Is(err, ErrDataTooSmall) {
		t.Errorf("FromPix() error = %v, want ErrDataTooSmall", err)
	}
	data := []uint32{1, 2, 3, 4, 5, 6}
	p, err := FromPix(data, 3, 2, FormatARGB)
	if err != nil {
		t.Fatalf("FromPix() = %v", err)
	}
	p.SetValue(0, 0, 42)
	if data[0] != 42 {
		t.Error("FromPix should not copy the slice")
	}
}

func TestFormatColorRoundTrip(t *testing.T) {
	tests := []struct {
		format Format
		in     color.Color
		want   uint32
	}{
		{FormatARGB, color.NRGBA{R: 0x11, G: 0x22, B: 0x33, A: 0x80}, 0x80112233},
		{FormatARGBPremul, color.RGBA{R: 0x10, G: 0x20, B: 0x30, A: 0x80}, 0x80102030},
		{FormatRGB, color.RGBA{R: 0xaa, G: 0xbb, B: 0xcc, A: 0xff}, 0x00aabbcc},
		{FormatBGR, color.RGBA{R: 0xaa, G: 0xbb, B: 0xcc, A: 0xff}, 0x00ccbbaa},
	}
	for _, tt := range tests {
		t.Run(tt.format.String(), func(t *testing.T) {
			got := tt.format.Pack(tt.in)
			if got != tt.want {
				t.Errorf("Pack() = %#08x, want %#08x", got, tt.want)
			}
			if back := tt.format.Pack(tt.format.Color(got)); back != got {
				t.Errorf("Pack(Color(v)) = %#08x, want %#08x", back, got)
			}
		})
	}
}

func TestUnpackPackPremul(t *testing.T) {
	for _, f := range Formats() {
		v := f.Pack(color.NRGBA{R: 200, G: 100, B: 50, A: 255})
		if got := f.PackPremul(f.Unpack(v)); got != v {
			t.Errorf("%v: PackPremul(Unpack(%#08x)) = %#08x", f, v, got)
		}
	}
	if r, g, b, a := FormatARGB.Unpack(0x80ff0000); r != 0x80 || g != 0 || b != 0 || a != 0x80 {
		t.Errorf("Unpack half red = (%d,%d,%d,%d), want (128,0,0,128)", r, g, b, a)
	}
}

func TestCropAndCopy(t *testing.T) {
	p, _ := New(4, 4, FormatARGB)
	for i := range p.Pix() {
		p.Pix()[i] = uint32(i)
	}

	c := p.Crop(image.Rect(1, 1, 3, 10))
	if c.Width() != 2 || c.Height() != 3 {
		t.Fatalf("Crop size = %dx%d, want 2x3", c.Width(), c.Height())
	}
	if c.Value(0, 0) != 5 || c.Value(1, 2) != 14 {
		t.Errorf("Crop values = %d,%d, want 5,14", c.Value(0, 0), c.Value(1, 2))
	}

	dst, _ := New(4, 4, FormatARGB)
	dr := Copy(dst, image.Pt(3, 3), c, c.Bounds())
	if dr != image.Rect(3, 3, 4, 4) {
		t.Errorf("Copy() wrote %v, want (3,3)-(4,4)", dr)
	}
	if dst.Value(3, 3) != 5 {
		t.Errorf("dst(3,3) = %d, want 5", dst.Value(3, 3))
	}
	if dst.Value(2, 2) != 0 {
		t.Error("Copy wrote outside its clipped rectangle")
	}

	dr = Copy(dst, image.Pt(-1, -1), c, c.Bounds())
	if dr != image.Rect(0, 0, 1, 2) {
		t.Errorf("Copy() with negative offset wrote %v, want (0,0)-(1,2)", dr)
	}
	if dst.Value(0, 0) != 10 {
		t.Errorf("dst(0,0) = %d, want 10", dst.Value(0, 0))
	}
}

func TestFillAndClear(t *testing.T) {
	p, _ := New(3, 3, FormatARGB)
	p.Fill(image.Rect(-5, -5, 2, 2), 0xffffffff)
	if p.Value(1, 1) != 0xffffffff || p.Value(2, 2) != 0 {
		t.Error("Fill did not clip to bounds")
	}
	p.ClearRect(p.Bounds())
	for _, v := range p.Pix() {
		if v != 0 {
			t.Fatal("ClearRect left a non-zero pixel")
		}
	}
}

func TestConvertAndEqual(t *testing.T) {
	p, _ := New(2, 1, FormatARGB)
	p.Set(0, 0, color.NRGBA{R: 255, A: 255})
	p.Set(1, 0, color.NRGBA{G: 255, A: 255})

	q, err := p.Convert(FormatBGR)
	if err != nil {
		t.Fatal(err)
	}
	if q.Value(0, 0) != 0x0000ff || q.Value(1, 0) != 0x00ff00 {
		t.Errorf("BGR values = %#x %#x", q.Value(0, 0), q.Value(1, 0))
	}
	back, _ := q.Convert(FormatARGB)
	if !Equal(p, back) {
		t.Error("opaque ARGB → BGR → ARGB should be lossless")
	}
	if Equal(p, q) {
		t.Error("Equal should compare formats")
	}
	if !Equal(nil, nil) || Equal(p, nil) {
		t.Error("Equal nil handling")
	}
}

func TestFromImage(t *testing.T) {
	src := image.NewNRGBA(image.Rect(10, 10, 12, 11))
	src.SetNRGBA(10, 10, color.NRGBA{R: 1, G: 2, B: 3, A: 4})
	p, err := FromImage(src, FormatARGB)
	if err != nil {
		t.Fatal(err)
	}
	if p.Value(0, 0) != 0x04010203 {
		t.Errorf("FromImage value = %#08x, want 0x04010203", p.Value(0, 0))
	}
	out := p.ToNRGBA()
	if out.NRGBAAt(0, 0) != (color.NRGBA{R: 1, G: 2, B: 3, A: 4}) {
		t.Errorf("ToNRGBA = %v", out.NRGBAAt(0, 0))
	}
}
