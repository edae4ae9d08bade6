package imgcore

import (
	"math"

	"github.com/cubeimage/engine/format"
)

// ApplyGamma raises every RGB channel to the power gamma, in place, leaving
// alpha untouched. It is a no-op when gamma is within 1e-4 of 1.0. The
// image is temporarily viewed as RGBA32F and converted back if needed.
func ApplyGamma(im *Image, gamma float64) {
	if math.Abs(gamma-1) < 1e-4 {
		return
	}

	if im.Format != format.RGBA32F {
		converted := Convert(im, format.RGBA32F)
		gammaInPlace(converted, gamma)
		back := Convert(converted, im.Format)
		*im = *back
		return
	}
	gammaInPlace(im, gamma)
}

func gammaInPlace(im *Image, gamma float64) {
	bpp := format.BytesPerPixel(format.RGBA32F)
	for i := 0; i+bpp <= len(im.Data); i += bpp {
		px := im.Data[i : i+bpp]
		for c := 0; c < 3; c++ {
			v := f32bits(px, c)
			v = float32(math.Pow(float64(v), gamma))
			putF32Channel(px, c, v)
		}
	}
}

// Clamp clamps every channel of im to [0,1], in place, working in RGBA32F.
func Clamp(im *Image) {
	if im.Format != format.RGBA32F {
		converted := Convert(im, format.RGBA32F)
		clampInPlace(converted)
		back := Convert(converted, im.Format)
		*im = *back
		return
	}
	clampInPlace(im)
}

func clampInPlace(im *Image) {
	bpp := format.BytesPerPixel(format.RGBA32F)
	for i := 0; i+bpp <= len(im.Data); i += bpp {
		px := im.Data[i : i+bpp]
		for c := 0; c < 4; c++ {
			v := f32bits(px, c)
			if v < 0 {
				v = 0
			} else if v > 1 {
				v = 1
			}
			putF32Channel(px, c, v)
		}
	}
}

func putF32Channel(b []byte, c int, v float32) {
	var tmp [4]float32
	tmp[0] = f32bits(b, 0)
	tmp[1] = f32bits(b, 1)
	tmp[2] = f32bits(b, 2)
	tmp[3] = f32bits(b, 3)
	tmp[c] = v
	putF32bits(b, tmp)
}
