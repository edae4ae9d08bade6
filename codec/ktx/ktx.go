// Package ktx implements the KTX 1.1 reader and writer: a 12-byte magic, a
// 52-byte little-endian header, an optional key-value block, then pixel
// data padded to 4-byte row/face/mip boundaries per UNPACK_ALIGNMENT.
package ktx

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/cubeimage/engine/diag"
	"github.com/cubeimage/engine/format"
	"github.com/cubeimage/engine/imgcore"
)

var fileMagic = [12]byte{0xAB, 'K', 'T', 'X', ' ', '1', '1', 0xBB, '\r', '\n', 0x1A, '\n'}

const headerSize = 13 * 4

const unpackAlignment = 4

// GL constants (spec §6).
const (
	glUnsignedByte  = 0x1401
	glUnsignedShort = 0x1403
	glHalfFloat     = 0x140B
	glFloat         = 0x1406

	glRGB  = 0x1907
	glRGBA = 0x1908

	glRGBA32F = 0x8814
	glRGB32F  = 0x8815
	glRGBA16F = 0x881A
	glRGB16F  = 0x881B

	glRGBA16UI = 0x8D76
	glRGB16UI  = 0x8D77
	glRGBA8UI  = 0x8D7C
	glRGB8UI   = 0x8D7D
)

// endianness is the reference value a conformant reader compares its own
// byte-swap of against to detect endian mismatch (KTX 1.1 spec, cmft's
// KTX_ENDIAN_REF).
const endianness = 0x04030201

type header struct {
	endianness            uint32
	glType                uint32
	glTypeSize            uint32
	glFormat              uint32
	glInternalFormat      uint32
	glBaseInternalFormat  uint32
	pixelWidth            uint32
	pixelHeight           uint32
	pixelDepth            uint32
	numberOfArrayElements uint32
	numberOfFaces         uint32
	numberOfMipmapLevels  uint32
	bytesOfKeyValueData   uint32
}

type glDescriptor struct {
	glType, glFormat, glInternalFormat, glBaseInternalFormat uint32
}

func descriptorFor(f format.TextureFormat) (glDescriptor, bool) {
	switch f {
	case format.RGB8:
		return glDescriptor{glUnsignedByte, glRGB, glRGB8UI, glRGB}, true
	case format.RGBA8:
		return glDescriptor{glUnsignedByte, glRGBA, glRGBA8UI, glRGBA}, true
	case format.RGB16:
		return glDescriptor{glUnsignedShort, glRGB, glRGB16UI, glRGB}, true
	case format.RGBA16:
		return glDescriptor{glUnsignedShort, glRGBA, glRGBA16UI, glRGBA}, true
	case format.RGB16F:
		return glDescriptor{glHalfFloat, glRGB, glRGB16F, glRGB}, true
	case format.RGBA16F:
		return glDescriptor{glHalfFloat, glRGBA, glRGBA16F, glRGBA}, true
	case format.RGB32F:
		return glDescriptor{glFloat, glRGB, glRGB32F, glRGB}, true
	case format.RGBA32F:
		return glDescriptor{glFloat, glRGBA, glRGBA32F, glRGBA}, true
	}
	return glDescriptor{}, false
}

func formatFromInternal(internal uint32) (format.TextureFormat, bool) {
	switch internal {
	case glRGB8UI:
		return format.RGB8, true
	case glRGBA8UI:
		return format.RGBA8, true
	case glRGB16UI:
		return format.RGB16, true
	case glRGBA16UI:
		return format.RGBA16, true
	case glRGB16F:
		return format.RGB16F, true
	case glRGBA16F:
		return format.RGBA16F, true
	case glRGB32F:
		return format.RGB32F, true
	case glRGBA32F:
		return format.RGBA32F, true
	}
	return format.Unknown, false
}

func align4(n int) int {
	return (n + 3) &^ 3
}

func readHeaderStruct(b []byte) header {
	var h header
	fields := []*uint32{
		&h.endianness,
		&h.glType, &h.glTypeSize, &h.glFormat, &h.glInternalFormat, &h.glBaseInternalFormat,
		&h.pixelWidth, &h.pixelHeight, &h.pixelDepth,
		&h.numberOfArrayElements, &h.numberOfFaces, &h.numberOfMipmapLevels, &h.bytesOfKeyValueData,
	}
	for i, f := range fields {
		*f = binary.LittleEndian.Uint32(b[i*4 : i*4+4])
	}
	return h
}

// Decode reads a KTX stream and returns the decoded Image.
func Decode(r io.Reader, w diag.Warnings) (*imgcore.Image, error) {
	var magicBuf [12]byte
	if _, err := io.ReadFull(r, magicBuf[:]); err != nil {
		return nil, diag.New("ktx.Decode", diag.KindIO, err)
	}
	if magicBuf != fileMagic {
		return nil, diag.New("ktx.Decode", diag.KindMagicMismatch, fmt.Errorf("bad KTX magic"))
	}

	hdrBuf := make([]byte, headerSize)
	if _, err := io.ReadFull(r, hdrBuf); err != nil {
		return nil, diag.New("ktx.Decode", diag.KindIO, err)
	}
	h := readHeaderStruct(hdrBuf)

	if h.endianness != endianness {
		return nil, diag.New("ktx.Decode", diag.KindInvalidHeader, fmt.Errorf("unexpected endianness marker 0x%x", h.endianness))
	}

	if h.pixelDepth > 1 {
		return nil, diag.New("ktx.Decode", diag.KindUnsupportedFormat, fmt.Errorf("volume textures not supported"))
	}
	if h.numberOfArrayElements > 1 {
		return nil, diag.New("ktx.Decode", diag.KindUnsupportedFormat, fmt.Errorf("array textures not supported"))
	}

	texFormat, ok := formatFromInternal(h.glInternalFormat)
	if !ok {
		return nil, diag.New("ktx.Decode", diag.KindUnsupportedFormat, fmt.Errorf("unrecognized glInternalFormat 0x%x", h.glInternalFormat))
	}
	if !format.IsFormatAllowed(format.KTX, texFormat) {
		return nil, diag.New("ktx.Decode", diag.KindUnsupportedFormat, fmt.Errorf("%s not allowed for KTX", texFormat))
	}

	numFaces := int(h.numberOfFaces)
	if numFaces != 1 && numFaces != 6 {
		return nil, diag.New("ktx.Decode", diag.KindInvalidHeader, fmt.Errorf("numberOfFaces must be 1 or 6, got %d", numFaces))
	}
	numMips := int(h.numberOfMipmapLevels)
	if numMips == 0 {
		diag.Warn(w, diag.KindInvalidHeader, "numberOfMipmapLevels is zero, coercing to 1")
		numMips = 1
	}

	if h.bytesOfKeyValueData > 0 {
		if _, err := io.CopyN(io.Discard, r, int64(h.bytesOfKeyValueData)); err != nil {
			return nil, diag.New("ktx.Decode", diag.KindIO, err)
		}
	}

	width, height := int(h.pixelWidth), int(h.pixelHeight)
	bpp := format.BytesPerPixel(texFormat)
	img := imgcore.New(width, height, texFormat, numMips, numFaces)
	offs := imgcore.MipOffsets(img)

	for m := 0; m < numMips; m++ {
		var faceSizeBuf [4]byte
		if _, err := io.ReadFull(r, faceSizeBuf[:]); err != nil {
			return nil, diag.New("ktx.Decode", diag.KindIO, err)
		}
		faceSize := binary.LittleEndian.Uint32(faceSizeBuf[:])

		mw, mh, _ := imgcore.MipSize(img, m)
		rowBytes := mw * bpp
		paddedRow := align4(rowBytes)

		for face := 0; face < numFaces; face++ {
			dstBase := offs[face][m]
			for y := 0; y < mh; y++ {
				rowBuf := make([]byte, paddedRow)
				if _, err := io.ReadFull(r, rowBuf); err != nil {
					return nil, diag.New("ktx.Decode", diag.KindIO, err)
				}
				copy(img.Data[dstBase+y*rowBytes:dstBase+(y+1)*rowBytes], rowBuf[:rowBytes])
			}
			if pad := align4(int(faceSize)) - int(faceSize); pad > 0 {
				if _, err := io.CopyN(io.Discard, r, int64(pad)); err != nil {
					return nil, diag.New("ktx.Decode", diag.KindIO, err)
				}
			}
		}

		mipBytes := int(faceSize) * numFaces
		if pad := align4(mipBytes) - mipBytes; pad > 0 {
			if _, err := io.CopyN(io.Discard, r, int64(pad)); err != nil {
				return nil, diag.New("ktx.Decode", diag.KindIO, err)
			}
		}
	}

	return img, nil
}

// Encode writes im as a KTX stream.
func Encode(w io.Writer, im *imgcore.Image) error {
	if !format.IsFormatAllowed(format.KTX, im.Format) {
		return diag.New("ktx.Encode", diag.KindUnsupportedFormat, fmt.Errorf("%s not allowed for KTX", im.Format))
	}
	desc, ok := descriptorFor(im.Format)
	if !ok {
		return diag.New("ktx.Encode", diag.KindUnsupportedFormat, fmt.Errorf("no GL descriptor for %s", im.Format))
	}

	var buf bytes.Buffer
	buf.Write(fileMagic[:])

	bpp := format.BytesPerPixel(im.Format)

	hdr := make([]byte, headerSize)
	binary.LittleEndian.PutUint32(hdr[0:4], endianness)
	binary.LittleEndian.PutUint32(hdr[4:8], desc.glType)
	binary.LittleEndian.PutUint32(hdr[8:12], uint32(bytesPerComponent(im.Format)))
	binary.LittleEndian.PutUint32(hdr[12:16], desc.glFormat)
	binary.LittleEndian.PutUint32(hdr[16:20], desc.glInternalFormat)
	binary.LittleEndian.PutUint32(hdr[20:24], desc.glBaseInternalFormat)
	binary.LittleEndian.PutUint32(hdr[24:28], uint32(im.Width))
	binary.LittleEndian.PutUint32(hdr[28:32], uint32(im.Height))
	binary.LittleEndian.PutUint32(hdr[32:36], 0)
	binary.LittleEndian.PutUint32(hdr[36:40], 0)
	binary.LittleEndian.PutUint32(hdr[40:44], uint32(im.NumFaces))
	binary.LittleEndian.PutUint32(hdr[44:48], uint32(im.NumMips))
	binary.LittleEndian.PutUint32(hdr[48:52], 0)
	buf.Write(hdr)

	offs := imgcore.MipOffsets(im)
	for m := 0; m < im.NumMips; m++ {
		mw, mh, _ := imgcore.MipSize(im, m)
		rowBytes := mw * bpp
		paddedRow := align4(rowBytes)
		faceSize := mh * paddedRow

		var faceSizeBuf [4]byte
		binary.LittleEndian.PutUint32(faceSizeBuf[:], uint32(faceSize))
		buf.Write(faceSizeBuf[:])

		for face := 0; face < im.NumFaces; face++ {
			base := offs[face][m]
			padBytes := make([]byte, paddedRow-rowBytes)
			for y := 0; y < mh; y++ {
				buf.Write(im.Data[base+y*rowBytes : base+(y+1)*rowBytes])
				buf.Write(padBytes)
			}
			if pad := align4(faceSize) - faceSize; pad > 0 {
				buf.Write(make([]byte, pad))
			}
		}

		mipBytes := faceSize * im.NumFaces
		if pad := align4(mipBytes) - mipBytes; pad > 0 {
			buf.Write(make([]byte, pad))
		}
	}

	if _, err := w.Write(buf.Bytes()); err != nil {
		return diag.New("ktx.Encode", diag.KindIO, err)
	}
	return nil
}

func bytesPerComponent(f format.TextureFormat) int {
	d, _ := format.Info(f)
	if d.Channels == 0 {
		return 1
	}
	return d.BytesPerPixel / d.Channels
}
