// Package colorconv implements the per-format pack/unpack routines between
// native texture bytes and the canonical linear RGBA32F intermediate that
// every cross-format operation in this engine routes through. It mirrors
// the teacher's graphics/color package in keeping colour math as small,
// pure, well-tested free functions rather than method-heavy types (compare
// graphics/color/rgba.go's xyzToSRGB/srgbToXYZ pair).
package colorconv

import (
	"encoding/binary"
	"math"

	"github.com/cubeimage/engine/format"
	"github.com/cubeimage/engine/internal/half"
)

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// ToRGBA32F unpacks one pixel of src (exactly format.BytesPerPixel(f)
// bytes) into out, in canonical (r, g, b, a) order. A format with no alpha
// channel yields a=1. BGR/BGRA formats have byte 0 as blue; this function
// un-swizzles that back to RGBA order.
func ToRGBA32F(out *[4]float32, f format.TextureFormat, src []byte) {
	switch f {
	case format.BGR8:
		out[2] = float32(src[0]) / 255
		out[1] = float32(src[1]) / 255
		out[0] = float32(src[2]) / 255
		out[3] = 1
	case format.RGB8:
		out[0] = float32(src[0]) / 255
		out[1] = float32(src[1]) / 255
		out[2] = float32(src[2]) / 255
		out[3] = 1
	case format.BGRA8:
		out[2] = float32(src[0]) / 255
		out[1] = float32(src[1]) / 255
		out[0] = float32(src[2]) / 255
		out[3] = float32(src[3]) / 255
	case format.RGBA8:
		out[0] = float32(src[0]) / 255
		out[1] = float32(src[1]) / 255
		out[2] = float32(src[2]) / 255
		out[3] = float32(src[3]) / 255
	case format.RGB16:
		for c := 0; c < 3; c++ {
			out[c] = float32(binary.LittleEndian.Uint16(src[c*2:])) / 65535
		}
		out[3] = 1
	case format.RGBA16:
		for c := 0; c < 4; c++ {
			out[c] = float32(binary.LittleEndian.Uint16(src[c*2:])) / 65535
		}
	case format.RGB16F:
		for c := 0; c < 3; c++ {
			out[c] = half.ToFloat32(binary.LittleEndian.Uint16(src[c*2:]))
		}
		out[3] = 1
	case format.RGBA16F:
		for c := 0; c < 4; c++ {
			out[c] = half.ToFloat32(binary.LittleEndian.Uint16(src[c*2:]))
		}
	case format.RGB32F:
		for c := 0; c < 3; c++ {
			out[c] = math.Float32frombits(binary.LittleEndian.Uint32(src[c*4:]))
		}
		out[3] = 1
	case format.RGBA32F:
		for c := 0; c < 4; c++ {
			out[c] = math.Float32frombits(binary.LittleEndian.Uint32(src[c*4:]))
		}
	case format.RGBE:
		unpackRGBE(out, src)
	default:
		out[0], out[1], out[2], out[3] = 0, 0, 0, 1
	}
}

// FromRGBA32F packs rgba into dst (exactly format.BytesPerPixel(f) bytes).
// Values are clamped to [0,1] before quantizing to integer formats; an
// alpha channel present in rgba but absent from f is dropped.
func FromRGBA32F(dst []byte, f format.TextureFormat, rgba [4]float32) {
	switch f {
	case format.BGR8:
		dst[0] = quantize8(rgba[2])
		dst[1] = quantize8(rgba[1])
		dst[2] = quantize8(rgba[0])
	case format.RGB8:
		dst[0] = quantize8(rgba[0])
		dst[1] = quantize8(rgba[1])
		dst[2] = quantize8(rgba[2])
	case format.BGRA8:
		dst[0] = quantize8(rgba[2])
		dst[1] = quantize8(rgba[1])
		dst[2] = quantize8(rgba[0])
		dst[3] = quantize8(rgba[3])
	case format.RGBA8:
		dst[0] = quantize8(rgba[0])
		dst[1] = quantize8(rgba[1])
		dst[2] = quantize8(rgba[2])
		dst[3] = quantize8(rgba[3])
	case format.RGB16:
		for c := 0; c < 3; c++ {
			binary.LittleEndian.PutUint16(dst[c*2:], quantize16(rgba[c]))
		}
	case format.RGBA16:
		for c := 0; c < 4; c++ {
			binary.LittleEndian.PutUint16(dst[c*2:], quantize16(rgba[c]))
		}
	case format.RGB16F:
		for c := 0; c < 3; c++ {
			binary.LittleEndian.PutUint16(dst[c*2:], half.FromFloat32(rgba[c]))
		}
	case format.RGBA16F:
		for c := 0; c < 4; c++ {
			binary.LittleEndian.PutUint16(dst[c*2:], half.FromFloat32(rgba[c]))
		}
	case format.RGB32F:
		for c := 0; c < 3; c++ {
			binary.LittleEndian.PutUint32(dst[c*4:], math.Float32bits(rgba[c]))
		}
	case format.RGBA32F:
		for c := 0; c < 4; c++ {
			binary.LittleEndian.PutUint32(dst[c*4:], math.Float32bits(rgba[c]))
		}
	case format.RGBE:
		packRGBE(dst, rgba)
	}
}

// quantize8 converts f in [0,1] to a byte, clamping first and truncating
// per spec §4.2 ("rounded by truncation").
func quantize8(f float32) byte {
	return byte(clamp01(f) * 255)
}

func quantize16(f float32) uint16 {
	return uint16(clamp01(f) * 65535)
}

// unpackRGBE decodes a shared-exponent RGBE quadruple. An exponent byte of
// zero is the degenerate all-black case and decodes to (0,0,0,1) exactly.
func unpackRGBE(out *[4]float32, src []byte) {
	e := src[3]
	if e == 0 {
		out[0], out[1], out[2], out[3] = 0, 0, 0, 1
		return
	}
	scale := float32(math.Ldexp(1, int(e)-128-8))
	out[0] = float32(src[0]) * scale
	out[1] = float32(src[1]) * scale
	out[2] = float32(src[2]) * scale
	out[3] = 1
}

// packRGBE encodes rgb into a shared-exponent quadruple. The alpha channel
// is dropped (RGBE has no alpha). A pure-black input round-trips to all
// zero bytes, including the exponent.
func packRGBE(dst []byte, rgba [4]float32) {
	r, g, b := rgba[0], rgba[1], rgba[2]
	m := r
	if g > m {
		m = g
	}
	if b > m {
		m = b
	}
	if m <= 0 {
		dst[0], dst[1], dst[2], dst[3] = 0, 0, 0, 0
		return
	}

	e := int(math.Ceil(math.Log2(float64(m))))
	// clamp so that E+128 fits in a byte
	if e > 127 {
		e = 127
	}
	if e < -128 {
		e = -128
	}
	scale := float32(255 * math.Pow(2, float64(-e)))

	dst[0] = quantizeRGBEChannel(r * scale)
	dst[1] = quantizeRGBEChannel(g * scale)
	dst[2] = quantizeRGBEChannel(b * scale)
	dst[3] = byte(e + 128)
}

func quantizeRGBEChannel(v float32) byte {
	if v < 0 {
		v = 0
	}
	if v > 255 {
		v = 255
	}
	return byte(math.Round(float64(v)))
}
