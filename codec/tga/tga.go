// Package tga implements the reader and writer for uncompressed and
// RLE-compressed true-color Targa images (image types 2 and 10).
package tga

import (
	"bytes"
	"fmt"
	"io"

	"github.com/cubeimage/engine/diag"
	"github.com/cubeimage/engine/format"
	"github.com/cubeimage/engine/imgcore"
)

const headerSize = 18

const (
	imageTypeUncompressedTrueColor = 2
	imageTypeRLETrueColor          = 10
)

const footerSignature = "TRUEVISION-XFILE.\x00"

const (
	descriptorFlipHorizontal = 0x10
	descriptorFlipVertical   = 0x20
)

type header struct {
	idLength      byte
	colorMapType  byte
	imageType     byte
	colorMapStart uint16
	colorMapLen   uint16
	colorMapDepth byte
	xOrigin       uint16
	yOrigin       uint16
	width         uint16
	height        uint16
	pixelDepth    byte
	descriptor    byte
}

func le16(b []byte) uint16 {
	return uint16(b[0]) | uint16(b[1])<<8
}

func putLE16(b []byte, v uint16) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
}

func readHeader(b []byte) header {
	return header{
		idLength:      b[0],
		colorMapType:  b[1],
		imageType:     b[2],
		colorMapStart: le16(b[3:5]),
		colorMapLen:   le16(b[5:7]),
		colorMapDepth: b[7],
		xOrigin:       le16(b[8:10]),
		yOrigin:       le16(b[10:12]),
		width:         le16(b[12:14]),
		height:        le16(b[14:16]),
		pixelDepth:    b[16],
		descriptor:    b[17],
	}
}

// Decode reads a TGA stream and returns the decoded Image (BGR8 or BGRA8,
// single face, single mip).
func Decode(r io.Reader, w diag.Warnings) (*imgcore.Image, error) {
	hdrBuf := make([]byte, headerSize)
	if _, err := io.ReadFull(r, hdrBuf); err != nil {
		return nil, diag.New("tga.Decode", diag.KindIO, err)
	}
	h := readHeader(hdrBuf)

	if h.imageType != imageTypeUncompressedTrueColor && h.imageType != imageTypeRLETrueColor {
		return nil, diag.New("tga.Decode", diag.KindUnsupportedFormat, fmt.Errorf("unsupported TGA image type %d", h.imageType))
	}

	var texFormat format.TextureFormat
	switch h.pixelDepth {
	case 24:
		texFormat = format.BGR8
	case 32:
		texFormat = format.BGRA8
	default:
		diag.Warn(w, diag.KindUnsupportedFormat, "unsupported TGA pixel depth %d", h.pixelDepth)
		return nil, diag.New("tga.Decode", diag.KindUnsupportedFormat, fmt.Errorf("unsupported pixel depth %d", h.pixelDepth))
	}
	bpp := format.BytesPerPixel(texFormat)

	if h.idLength > 0 {
		if _, err := io.CopyN(io.Discard, r, int64(h.idLength)); err != nil {
			return nil, diag.New("tga.Decode", diag.KindIO, err)
		}
	}
	if h.colorMapType != 0 {
		mapBytes := int(h.colorMapLen) * ((int(h.colorMapDepth) + 7) / 8)
		if _, err := io.CopyN(io.Discard, r, int64(mapBytes)); err != nil {
			return nil, diag.New("tga.Decode", diag.KindIO, err)
		}
	}

	width, height := int(h.width), int(h.height)
	pixels := make([]byte, width*height*bpp)

	if h.imageType == imageTypeUncompressedTrueColor {
		if _, err := io.ReadFull(r, pixels); err != nil {
			return nil, diag.New("tga.Decode", diag.KindIO, err)
		}
	} else {
		if err := decodeRLE(r, pixels, bpp); err != nil {
			return nil, diag.New("tga.Decode", diag.KindIO, err)
		}
	}

	img := imgcore.New(width, height, texFormat, 1, 1)
	copy(img.Data, pixels)

	var ops []imgcore.Op
	var mask imgcore.OpMask
	if h.descriptor&descriptorFlipHorizontal != 0 {
		mask |= imgcore.FlipY
	}
	if h.descriptor&descriptorFlipVertical == 0 {
		mask |= imgcore.FlipX
	}
	if mask != 0 {
		ops = append(ops, imgcore.Op{Face: 0, Mask: mask})
		imgcore.Transform(img, w, ops...)
	}

	return img, nil
}

func decodeRLE(r io.Reader, out []byte, bpp int) error {
	pos := 0
	pixel := make([]byte, bpp)
	var hdr [1]byte
	for pos < len(out) {
		if _, err := io.ReadFull(r, hdr[:]); err != nil {
			return err
		}
		count := int(hdr[0]&0x7F) + 1
		if hdr[0]&0x80 != 0 {
			if _, err := io.ReadFull(r, pixel); err != nil {
				return err
			}
			for i := 0; i < count && pos < len(out); i++ {
				copy(out[pos:pos+bpp], pixel)
				pos += bpp
			}
		} else {
			for i := 0; i < count && pos < len(out); i++ {
				if _, err := io.ReadFull(r, pixel); err != nil {
					return err
				}
				copy(out[pos:pos+bpp], pixel)
				pos += bpp
			}
		}
	}
	return nil
}

// Encode writes im as an uncompressed TGA stream. Per spec Non-goals, RLE
// writing is not implemented; the writer always emits raw pixel data,
// bottom-up (origin at bottom-left, the Targa convention), followed by the
// standard TRUEVISION-XFILE footer.
func Encode(w io.Writer, im *imgcore.Image) error {
	if !format.IsFormatAllowed(format.TGA, im.Format) {
		return diag.New("tga.Encode", diag.KindUnsupportedFormat, fmt.Errorf("%s not allowed for TGA", im.Format))
	}

	var buf bytes.Buffer
	hdr := make([]byte, headerSize)
	hdr[2] = imageTypeUncompressedTrueColor
	putLE16(hdr[12:14], uint16(im.Width))
	putLE16(hdr[14:16], uint16(im.Height))
	bpp := format.BytesPerPixel(im.Format)
	hdr[16] = byte(bpp * 8)
	hdr[17] = 0 // origin at bottom-left, matching the bottom-up row order below
	buf.Write(hdr)

	rowBytes := im.Width * bpp
	for y := im.Height - 1; y >= 0; y-- {
		buf.Write(im.Data[y*rowBytes : (y+1)*rowBytes])
	}

	buf.Write(make([]byte, 8)) // extension + developer area offsets, unused
	buf.WriteString(footerSignature)

	if _, err := w.Write(buf.Bytes()); err != nil {
		return diag.New("tga.Encode", diag.KindIO, err)
	}
	return nil
}
