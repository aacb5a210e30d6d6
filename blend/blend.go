// Package blend implements the compositing operators used by
// Surface.ApplyComposite.
//
// All operators work on premultiplied 8-bit components. Pixel formats are
// converted with pixmap.Format.Unpack and PackPremul around each call.
//
// References:
//   - Porter-Duff: "Compositing Digital Images" (1984)
//   - W3C Compositing and Blending Level 1: https://www.w3.org/TR/compositing-1/
package blend

// Premul is a premultiplied RGBA color with 8-bit components.
type Premul struct {
	R, G, B, A uint8
}

// Func blends src onto dst and returns the result.
type Func func(src, dst Premul) Premul

// Mode names a built-in operator.
type Mode uint8

const (
	Clear           Mode = iota // 0
	Source                      // S
	Destination                 // D
	SourceOver                  // S + D*(1-Sa)
	DestinationOver             // S*(1-Da) + D
	SourceIn                    // S*Da
	DestinationIn               // D*Sa
	SourceOut                   // S*(1-Da)
	DestinationOut              // D*(1-Sa)
	SourceAtop                  // S*Da + D*(1-Sa)
	DestinationAtop             // S*(1-Da) + D*Sa
	Xor                         // S*(1-Da) + D*(1-Sa)
	Plus                        // min(S+D, 1)
	Modulate                    // S*D
	Multiply                    // separable multiply with alpha compositing
	Screen                      // S + D - S*D
	Darken                      // min of the composited results
	Lighten                     // max of the composited results
	Difference                  // |S - D| with alpha compositing
)

var modeNames = [...]string{
	"Clear", "Source", "Destination", "SourceOver", "DestinationOver",
	"SourceIn", "DestinationIn", "SourceOut", "DestinationOut",
	"SourceAtop", "DestinationAtop", "Xor", "Plus", "Modulate",
	"Multiply", "Screen", "Darken", "Lighten", "Difference",
}

// String returns the operator name.
func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return "Unknown"
}

// ParseMode resolves a mode from its name.
func ParseMode(name string) (Mode, bool) {
	for i, n := range modeNames {
		if n == name {
			return Mode(i), true
		}
	}
	return 0, false
}

// Get returns the function for mode. Unknown modes fall back to SourceOver.
func Get(mode Mode) Func {
	switch mode {
	case Clear:
		return func(Premul, Premul) Premul { return Premul{} }
	case Source:
		return func(s, _ Premul) Premul { return s }
	case Destination:
		return func(_, d Premul) Premul { return d }
	case DestinationOver:
		return func(s, d Premul) Premul { return sourceOver(d, s) }
	case SourceIn:
		return func(s, d Premul) Premul { return scale(s, d.A) }
	case DestinationIn:
		return func(s, d Premul) Premul { return scale(d, s.A) }
	case SourceOut:
		return func(s, d Premul) Premul { return scale(s, 255-d.A) }
	case DestinationOut:
		return func(s, d Premul) Premul { return scale(d, 255-s.A) }
	case SourceAtop:
		return sourceAtop
	case DestinationAtop:
		return func(s, d Premul) Premul { return sourceAtop(d, s) }
	case Xor:
		return xor
	case Plus:
		return plus
	case Modulate:
		return func(s, d Premul) Premul {
			return Premul{mulDiv255(s.R, d.R), mulDiv255(s.G, d.G), mulDiv255(s.B, d.B), mulDiv255(s.A, d.A)}
		}
	case Multiply:
		return separable(func(s, d, sa, da uint8) uint8 {
			return addClamp(addClamp(mulDiv255(s, d), mulDiv255(s, 255-da)), mulDiv255(d, 255-sa))
		})
	case Screen:
		return separable(func(s, d, _, _ uint8) uint8 {
			return addClamp(s, d-mulDiv255(s, d))
		})
	case Darken:
		return separable(func(s, d, sa, da uint8) uint8 {
			return min(addClamp(s, mulDiv255(d, 255-sa)), addClamp(d, mulDiv255(s, 255-da)))
		})
	case Lighten:
		return separable(func(s, d, sa, da uint8) uint8 {
			return max(addClamp(s, mulDiv255(d, 255-sa)), addClamp(d, mulDiv255(s, 255-da)))
		})
	case Difference:
		return separable(func(s, d, sa, da uint8) uint8 {
			a, b := mulDiv255(s, da), mulDiv255(d, sa)
			v := int(s) + int(d) - 2*int(min(a, b))
			return uint8(max(0, min(255, v)))
		})
	default:
		return sourceOver
	}
}

// Solid returns a Func that ignores its source and composites c onto the
// destination with mode. Self-composites use it to tint a region.
func Solid(c Premul, mode Mode) Func {
	fn := Get(mode)
	return func(_, d Premul) Premul { return fn(c, d) }
}

// Fade returns a Func that scales the destination by alpha/255.
func Fade(alpha uint8) Func {
	return func(_, d Premul) Premul { return scale(d, alpha) }
}

func sourceOver(s, d Premul) Premul {
	inv := 255 - s.A
	return Premul{
		addClamp(s.R, mulDiv255(d.R, inv)),
		addClamp(s.G, mulDiv255(d.G, inv)),
		addClamp(s.B, mulDiv255(d.B, inv)),
		addClamp(s.A, mulDiv255(d.A, inv)),
	}
}

func sourceAtop(s, d Premul) Premul {
	inv := 255 - s.A
	return Premul{
		addClamp(mulDiv255(s.R, d.A), mulDiv255(d.R, inv)),
		addClamp(mulDiv255(s.G, d.A), mulDiv255(d.G, inv)),
		addClamp(mulDiv255(s.B, d.A), mulDiv255(d.B, inv)),
		d.A,
	}
}

func xor(s, d Premul) Premul {
	invDa, invSa := 255-d.A, 255-s.A
	return Premul{
		addClamp(mulDiv255(s.R, invDa), mulDiv255(d.R, invSa)),
		addClamp(mulDiv255(s.G, invDa), mulDiv255(d.G, invSa)),
		addClamp(mulDiv255(s.B, invDa), mulDiv255(d.B, invSa)),
		addClamp(mulDiv255(s.A, invDa), mulDiv255(d.A, invSa)),
	}
}

func plus(s, d Premul) Premul {
	return Premul{addClamp(s.R, d.R), addClamp(s.G, d.G), addClamp(s.B, d.B), addClamp(s.A, d.A)}
}

// separable builds a blend mode from a per-channel function on premultiplied
// values. The alpha channel always uses source-over.
func separable(ch func(s, d, sa, da uint8) uint8) Func {
	return func(s, d Premul) Premul {
		return Premul{
			R: ch(s.R, d.R, s.A, d.A),
			G: ch(s.G, d.G, s.A, d.A),
			B: ch(s.B, d.B, s.A, d.A),
			A: addClamp(s.A, mulDiv255(d.A, 255-s.A)),
		}
	}
}

func scale(c Premul, a uint8) Premul {
	return Premul{mulDiv255(c.R, a), mulDiv255(c.G, a), mulDiv255(c.B, a), mulDiv255(c.A, a)}
}

// mulDiv255 multiplies two byte values and divides by 255 with rounding.
func mulDiv255(a, b uint8) uint8 {
	return uint8((uint16(a)*uint16(b) + 127) / 255)
}

func addClamp(a, b uint8) uint8 {
	sum := uint16(a) + uint16(b)
	if sum > 255 {
		return 255
	}
	return uint8(sum)
}
