// Package imgcore implements the Image value type, its mip/face offset
// arithmetic, pixel addressing, and every transform that operates on it:
// format conversion, resize, mipmap generation, gamma/clamp, in-place
// rotation/flip, and the cubemap/cross/lat-long/strip layout conversions.
// It corresponds to layers L3 and L4 of the design.
//
// Every Image is owned exclusively by its holder; RefOrConvert (convert.go)
// is the only place a shared, non-owning view is produced, and it is
// returned as a tagged Image plus a "was ref" boolean rather than through
// manual reference counting, per the design notes on avoiding that footgun.
package imgcore

import (
	"github.com/cubeimage/engine/format"
)

const (
	// MaxMips is the largest mip count an Image may carry (spec §3).
	MaxMips = 16
)

// Image is the single core entity of this engine: a face-major,
// mip-major, row-major packed pixel buffer plus its shape.
type Image struct {
	Data     []byte
	Width    int
	Height   int
	Format   format.TextureFormat
	NumMips  int
	NumFaces int
}

// New allocates a zeroed Image with the given shape. width and height are
// the base-level (mip 0) dimensions.
func New(width, height int, f format.TextureFormat, numMips, numFaces int) *Image {
	size := DataSize(width, height, f, numMips, numFaces)
	return &Image{
		Data:     make([]byte, size),
		Width:    width,
		Height:   height,
		Format:   f,
		NumMips:  numMips,
		NumFaces: numFaces,
	}
}

// mipDim returns max(1, dim>>mip), the standard mip-chain dimension
// halving rule used throughout this package.
func mipDim(dim, mip int) int {
	d := dim >> uint(mip)
	if d < 1 {
		return 1
	}
	return d
}

// DataSize computes the exact byte length of the packed pixel buffer for
// the given shape, per spec §3 invariant (1).
func DataSize(width, height int, f format.TextureFormat, numMips, numFaces int) int {
	bpp := format.BytesPerPixel(f)
	total := 0
	for m := 0; m < numMips; m++ {
		w := mipDim(width, m)
		h := mipDim(height, m)
		total += w * h * bpp
	}
	return total * numFaces
}

// NumPixels returns the total pixel count across every mip of every face.
func (im *Image) NumPixels() int {
	total := 0
	for m := 0; m < im.NumMips; m++ {
		total += mipDim(im.Width, m) * mipDim(im.Height, m)
	}
	return total * im.NumFaces
}

// IsCubemap reports whether im is a six-face, square cubemap.
func (im *Image) IsCubemap() bool {
	return im.NumFaces == 6 && im.Width == im.Height
}

// IsLatLong reports whether im's aspect ratio matches a 2:1 equirectangular
// map, within the tolerance in spec §4.4.
func (im *Image) IsLatLong() bool {
	if im.Height == 0 {
		return false
	}
	aspect := float64(im.Width) / float64(im.Height)
	return absf(aspect-2) < 1e-5
}

// IsHStrip reports whether im is a horizontal strip of six square faces.
func (im *Image) IsHStrip() bool {
	return im.Width == 6*im.Height
}

// MipOffsets returns byte offsets [face][mip] into im.Data, walking
// face-major then mip-major storage order (spec §3 invariant 2).
func MipOffsets(im *Image) [6][MaxMips]int {
	var offsets [6][MaxMips]int
	bpp := format.BytesPerPixel(im.Format)
	offset := 0
	faceSize := 0
	for m := 0; m < im.NumMips; m++ {
		faceSize += mipDim(im.Width, m) * mipDim(im.Height, m) * bpp
	}
	for f := 0; f < im.NumFaces; f++ {
		faceOffset := offset
		mipOff := 0
		for m := 0; m < im.NumMips; m++ {
			offsets[f][m] = faceOffset + mipOff
			mipOff += mipDim(im.Width, m) * mipDim(im.Height, m) * bpp
		}
		offset += faceSize
	}
	return offsets
}

// FaceOffsets returns the byte offset of the start of each face (its mip 0).
func FaceOffsets(im *Image) [6]int {
	offs := MipOffsets(im)
	var out [6]int
	for f := 0; f < im.NumFaces; f++ {
		out[f] = offs[f][0]
	}
	return out
}

// MipSize returns width, height and byte length for a given mip level.
func MipSize(im *Image, mip int) (w, h, size int) {
	w = mipDim(im.Width, mip)
	h = mipDim(im.Height, mip)
	size = w * h * format.BytesPerPixel(im.Format)
	return
}

// PixelOffset resolves the byte offset of pixel (x, y) at the given mip and
// face in im's native format.
func PixelOffset(im *Image, x, y, mip, face int) int {
	offs := MipOffsets(im)
	w, _, _ := MipSize(im, mip)
	bpp := format.BytesPerPixel(im.Format)
	return offs[face][mip] + (y*w+x)*bpp
}

// Clone returns a deep, independently-owned copy of im. Every transform
// that must not mutate its input uses Clone rather than reusing im.Data,
// keeping the Owned/Borrowed distinction of spec §3 invariant 5 explicit at
// the type level instead of via a "was_ref" flag threaded by hand.
func (im *Image) Clone() *Image {
	out := &Image{
		Data:     make([]byte, len(im.Data)),
		Width:    im.Width,
		Height:   im.Height,
		Format:   im.Format,
		NumMips:  im.NumMips,
		NumFaces: im.NumFaces,
	}
	copy(out.Data, im.Data)
	return out
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
