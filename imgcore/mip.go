package imgcore

import "github.com/cubeimage/engine/format"

// GenerateMipChain returns a copy of src with mip levels synthesized up to
// min(maxMips, MaxMips), stopping early after the first level whose width
// or height is 1. Mip 0, and any mip already present in src (index < src.NumMips),
// is copied verbatim; only mips at or above src.NumMips are computed, each
// texel the arithmetic mean of the corresponding 2x2 block of its parent
// level, across all four channels. Building happens in RGBA32F; the result
// is converted back to src.Format.
func GenerateMipChain(src *Image, maxMips int) *Image {
	if maxMips > MaxMips {
		maxMips = MaxMips
	}
	if maxMips < 1 {
		maxMips = 1
	}

	work, _ := RefOrConvert(src, format.RGBA32F)

	numMips := 1
	for numMips < maxMips && mipDim(work.Width, numMips-1) > 1 && mipDim(work.Height, numMips-1) > 1 {
		numMips++
	}

	dst := New(work.Width, work.Height, format.RGBA32F, numMips, work.NumFaces)

	for face := 0; face < work.NumFaces; face++ {
		for m := 0; m < numMips; m++ {
			w, h, _ := MipSize(dst, m)
			if m < work.NumMips {
				// copy verbatim from the source's own data at this level
				srcOff := MipOffsets(work)[face][m]
				dstOff := MipOffsets(dst)[face][m]
				_, _, size := MipSize(work, m)
				copy(dst.Data[dstOff:dstOff+size], work.Data[srcOff:srcOff+size])
				continue
			}

			pw, ph, _ := MipSize(dst, m-1)
			for y := 0; y < h; y++ {
				for x := 0; x < w; x++ {
					x0, x1 := 2*x, min(2*x+1, pw-1)
					y0, y1 := 2*y, min(2*y+1, ph-1)

					var p00, p10, p01, p11 [4]float32
					pixelAt(dst, x0, y0, m-1, face, &p00)
					pixelAt(dst, x1, y0, m-1, face, &p10)
					pixelAt(dst, x0, y1, m-1, face, &p01)
					pixelAt(dst, x1, y1, m-1, face, &p11)

					var avg [4]float32
					for c := 0; c < 4; c++ {
						avg[c] = (p00[c] + p10[c] + p01[c] + p11[c]) / 4
					}
					setPixelAt(dst, x, y, m, face, avg)
				}
			}
		}
	}

	if src.Format == format.RGBA32F {
		return dst
	}
	return Convert(dst, src.Format)
}
