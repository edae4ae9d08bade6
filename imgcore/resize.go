package imgcore

import "github.com/cubeimage/engine/format"

// Resize returns a new single-mip Image with each face independently
// resampled to (newW, newH). Resizing works in RGBA32F: each destination
// pixel is the average of the stepX x stepY box of source pixels anchored
// at the truncated source coordinate, so downsampling box-filters and
// upsampling repeats the nearest source pixel. Output alpha is always 1;
// mipmaps are not regenerated. The result is converted back to src.Format.
func Resize(src *Image, newW, newH int) *Image {
	work, wasRef := RefOrConvert(src, format.RGBA32F)

	dst := New(newW, newH, format.RGBA32F, 1, work.NumFaces)

	stepX := srcW(work.Width, newW)
	stepY := srcW(work.Height, newH)

	for face := 0; face < work.NumFaces; face++ {
		for yD := 0; yD < newH; yD++ {
			ySrc := yD * work.Height / newH
			for xD := 0; xD < newW; xD++ {
				xSrc := xD * work.Width / newW

				var sum [3]float32
				count := 0
				for dy := 0; dy < stepY; dy++ {
					sy := ySrc + dy
					if sy >= work.Height {
						break
					}
					for dx := 0; dx < stepX; dx++ {
						sx := xSrc + dx
						if sx >= work.Width {
							break
						}
						var px [4]float32
						pixelAt(work, sx, sy, 0, face, &px)
						sum[0] += px[0]
						sum[1] += px[1]
						sum[2] += px[2]
						count++
					}
				}
				out := [4]float32{sum[0] / float32(count), sum[1] / float32(count), sum[2] / float32(count), 1}
				setPixelAt(dst, xD, yD, 0, face, out)
			}
		}
	}

	_ = wasRef // work aliases src when true; nothing further to release
	if src.Format == format.RGBA32F {
		return dst
	}
	return Convert(dst, src.Format)
}

func srcW(srcDim, newDim int) int {
	if newDim <= 0 {
		return 1
	}
	step := srcDim / newDim
	if step < 1 {
		return 1
	}
	return step
}

func pixelAt(im *Image, x, y, mip, face int, out *[4]float32) {
	off := PixelOffset(im, x, y, mip, face)
	bpp := format.BytesPerPixel(im.Format)
	src := im.Data[off : off+bpp]
	out[0] = f32bits(src, 0)
	out[1] = f32bits(src, 1)
	out[2] = f32bits(src, 2)
	out[3] = f32bits(src, 3)
}

func setPixelAt(im *Image, x, y, mip, face int, val [4]float32) {
	off := PixelOffset(im, x, y, mip, face)
	putF32bits(im.Data[off:off+16], val)
}
