package imgcore

import (
	"github.com/cubeimage/engine/colorconv"
	"github.com/cubeimage/engine/format"
)

// GetPixel writes pixel (x, y) of face/mip into out, converting it to
// targetFormat if that differs from im.Format. out must be at least
// format.BytesPerPixel(targetFormat) bytes.
func GetPixel(im *Image, x, y, mip, face int, targetFormat format.TextureFormat, out []byte) {
	off := PixelOffset(im, x, y, mip, face)
	bpp := format.BytesPerPixel(im.Format)
	src := im.Data[off : off+bpp]

	if targetFormat == im.Format {
		copy(out, src)
		return
	}

	var rgba [4]float32
	colorconv.ToRGBA32F(&rgba, im.Format, src)
	colorconv.FromRGBA32F(out, targetFormat, rgba)
}

// SetPixel writes val (in im.Format) into pixel (x, y) of face/mip.
func SetPixel(im *Image, x, y, mip, face int, val []byte) {
	off := PixelOffset(im, x, y, mip, face)
	bpp := format.BytesPerPixel(im.Format)
	copy(im.Data[off:off+bpp], val[:bpp])
}
