package pixmap

import "image/color"

// Format is the pixel storage format of a Pixmap. Every format packs one
// pixel into a uint32; the numeric values are persisted by layerfile and
// must not change.
type Format uint8

const (
	// FormatRGB is 0x00RRGGBB. The top byte is ignored and pixels are opaque.
	FormatRGB Format = 1

	// FormatARGB is 0xAARRGGBB with straight (non-premultiplied) alpha.
	// This is the default format for layers.
	FormatARGB Format = 2

	// FormatARGBPremul is 0xAARRGGBB with premultiplied alpha.
	FormatARGBPremul Format = 3

	// FormatBGR is 0x00BBGGRR. The top byte is ignored and pixels are opaque.
	FormatBGR Format = 4
)

// FormatInfo contains metadata about a pixel format.
type FormatInfo struct {
	Name            string
	HasAlpha        bool
	IsPremultiplied bool
}

var formatInfoTable = map[Format]FormatInfo{
	FormatRGB:        {Name: "RGB"},
	FormatARGB:       {Name: "ARGB", HasAlpha: true},
	FormatARGBPremul: {Name: "ARGBPremul", HasAlpha: true, IsPremultiplied: true},
	FormatBGR:        {Name: "BGR"},
}

// Formats lists every known format in type-code order.
func Formats() []Format {
	return []Format{FormatRGB, FormatARGB, FormatARGBPremul, FormatBGR}
}

// IsValid reports whether f is a known format.
func (f Format) IsValid() bool {
	_, ok := formatInfoTable[f]
	return ok
}

// Info returns the FormatInfo for f, or the zero value for unknown formats.
func (f Format) Info() FormatInfo {
	return formatInfoTable[f]
}

// HasAlpha reports whether the format stores an alpha channel.
func (f Format) HasAlpha() bool {
	return f.Info().HasAlpha
}

// IsPremultiplied reports whether the stored color is premultiplied.
func (f Format) IsPremultiplied() bool {
	return f.Info().IsPremultiplied
}

// String returns a string representation of the format.
func (f Format) String() string {
	if info, ok := formatInfoTable[f]; ok {
		return info.Name
	}
	return "Unknown"
}

// Model returns the color model matching the format's storage.
func (f Format) Model() color.Model {
	switch f {
	case FormatARGB:
		return color.NRGBAModel
	default:
		return color.RGBAModel
	}
}

// Color decodes a packed pixel.
func (f Format) Color(v uint32) color.Color {
	switch f {
	case FormatARGB:
		return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: uint8(v >> 24)}
	case FormatARGBPremul:
		return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: uint8(v >> 24)}
	case FormatBGR:
		return color.RGBA{R: uint8(v), G: uint8(v >> 8), B: uint8(v >> 16), A: 0xff}
	default:
		return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}
	}
}

// Pack encodes c in the format.
func (f Format) Pack(c color.Color) uint32 {
	switch f {
	case FormatARGB:
		n := color.NRGBAModel.Convert(c).(color.NRGBA)
		return argb(n.R, n.G, n.B, n.A)
	case FormatARGBPremul:
		p := color.RGBAModel.Convert(c).(color.RGBA)
		return argb(p.R, p.G, p.B, p.A)
	case FormatBGR:
		n := color.NRGBAModel.Convert(c).(color.NRGBA)
		return uint32(n.B)<<16 | uint32(n.G)<<8 | uint32(n.R)
	default:
		n := color.NRGBAModel.Convert(c).(color.NRGBA)
		return uint32(n.R)<<16 | uint32(n.G)<<8 | uint32(n.B)
	}
}

// Unpack returns the premultiplied RGBA components of a packed pixel.
// Blending and filtering work on these values.
func (f Format) Unpack(v uint32) (r, g, b, a uint8) {
	switch f {
	case FormatARGB:
		a = uint8(v >> 24)
		return mulDiv255(uint8(v>>16), a), mulDiv255(uint8(v>>8), a), mulDiv255(uint8(v), a), a
	case FormatARGBPremul:
		return uint8(v >> 16), uint8(v >> 8), uint8(v), uint8(v >> 24)
	case FormatBGR:
		return uint8(v), uint8(v >> 8), uint8(v >> 16), 0xff
	default:
		return uint8(v >> 16), uint8(v >> 8), uint8(v), 0xff
	}
}

// PackPremul encodes premultiplied RGBA components in the format.
func (f Format) PackPremul(r, g, b, a uint8) uint32 {
	switch f {
	case FormatARGB:
		if a == 0 {
			return 0
		}
		return argb(unpremul(r, a), unpremul(g, a), unpremul(b, a), a)
	case FormatARGBPremul:
		return argb(r, g, b, a)
	case FormatBGR:
		return uint32(b)<<16 | uint32(g)<<8 | uint32(r)
	default:
		return uint32(r)<<16 | uint32(g)<<8 | uint32(b)
	}
}

func argb(r, g, b, a uint8) uint32 {
	return uint32(a)<<24 | uint32(r)<<16 | uint32(g)<<8 | uint32(b)
}

func mulDiv255(c, a uint8) uint8 {
	t := uint32(c)*uint32(a) + 128
	return uint8((t + t>>8) >> 8)
}

func unpremul(c, a uint8) uint8 {
	v := (uint32(c)*255 + uint32(a)/2) / uint32(a)
	if v > 255 {
		v = 255
	}
	return uint8(v)
}
