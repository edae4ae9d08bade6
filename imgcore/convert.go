package imgcore

import (
	"github.com/cubeimage/engine/colorconv"
	"github.com/cubeimage/engine/format"
)

// Convert returns src re-encoded in targetFormat. If the formats already
// match, the returned Image is a byte-identical clone; otherwise every
// pixel of every face/mip is routed through RGBA32F.
func Convert(src *Image, targetFormat format.TextureFormat) *Image {
	if src.Format == targetFormat {
		return src.Clone()
	}

	dst := New(src.Width, src.Height, targetFormat, src.NumMips, src.NumFaces)
	srcBpp := format.BytesPerPixel(src.Format)
	dstBpp := format.BytesPerPixel(targetFormat)

	srcOff := MipOffsets(src)
	dstOff := MipOffsets(dst)

	for f := 0; f < src.NumFaces; f++ {
		for m := 0; m < src.NumMips; m++ {
			w, h, _ := MipSize(src, m)
			sBase := srcOff[f][m]
			dBase := dstOff[f][m]
			for i := 0; i < w*h; i++ {
				sPix := src.Data[sBase+i*srcBpp : sBase+(i+1)*srcBpp]
				dPix := dst.Data[dBase+i*dstBpp : dBase+(i+1)*dstBpp]

				switch {
				case src.Format == format.RGBA32F:
					var rgba [4]float32
					colorconv.ToRGBA32F(&rgba, format.RGBA32F, sPix)
					colorconv.FromRGBA32F(dPix, targetFormat, rgba)
				case targetFormat == format.RGBA32F:
					var rgba [4]float32
					colorconv.ToRGBA32F(&rgba, src.Format, sPix)
					colorconv.FromRGBA32F(dPix, format.RGBA32F, rgba)
				default:
					var rgba [4]float32
					colorconv.ToRGBA32F(&rgba, src.Format, sPix)
					colorconv.FromRGBA32F(dPix, targetFormat, rgba)
				}
			}
		}
	}
	return dst
}

// RefOrConvert returns a shared, non-owning view of src when src.Format
// already matches targetFormat (wasRef == true, and the caller must not
// mutate or outlive src), or a fresh owned copy in targetFormat otherwise
// (wasRef == false). This is the idiom every higher-level transform uses to
// avoid a redundant allocation when no conversion is actually needed.
func RefOrConvert(src *Image, targetFormat format.TextureFormat) (out *Image, wasRef bool) {
	if src.Format == targetFormat {
		return src, true
	}
	return Convert(src, targetFormat), false
}
