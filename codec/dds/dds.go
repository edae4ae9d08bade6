// Package dds implements the DDS (DirectDraw Surface) reader and writer.
// It supports the plain and DX10-extended headers, the cubemap cap bits and
// the small subset of DXGI/D3DFMT codes the engine's TextureFormat registry
// maps to; block-compressed (DXT/BC) payloads are recognized only so they
// can be rejected.
package dds

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/cubeimage/engine/diag"
	"github.com/cubeimage/engine/format"
	"github.com/cubeimage/engine/imgcore"
)

const (
	magic       = "DDS "
	headerSize  = 124
	dx10HdrSize = 20
	pixFmtSize  = 32
)

// Header flags (spec §6).
const (
	ddsdCaps        = 0x1
	ddsdHeight      = 0x2
	ddsdWidth       = 0x4
	ddsdPitch       = 0x8
	ddsdPixelFormat = 0x1000
	ddsdMipMapCount = 0x20000
)

const (
	ddpfAlphaPixels = 0x1
	ddpfFourCC      = 0x4
	ddpfRGB         = 0x40
)

const (
	ddscapsTexture  = 0x1000
	ddscapsMipMap   = 0x400000
	ddscapsComplex  = 0x8
	ddscaps2Cubemap = 0x200
	allFacesMask    = 0xFC00
)

const d3d10ResourceMiscTextureCube = 0x4

const d3d10ResourceDimensionTexture2D = 3

const (
	dxgiR32G32B32A32Float = 2
	dxgiR16G16B16A16Float = 10
	dxgiR16G16B16A16UInt  = 12
)

var fourCCDX10 = [4]byte{'D', 'X', '1', '0'}

type pixelFormat struct {
	size        uint32
	flags       uint32
	fourCC      [4]byte
	rgbBitCount uint32
	rBitMask    uint32
	gBitMask    uint32
	bBitMask    uint32
	aBitMask    uint32
}

type header struct {
	size        uint32
	flags       uint32
	height      uint32
	width       uint32
	pitch       uint32
	depth       uint32
	mipMapCount uint32
	pf          pixelFormat
	caps        uint32
	caps2       uint32
	caps3       uint32
	caps4       uint32
}

type dx10Header struct {
	dxgiFormat        uint32
	resourceDimension uint32
	miscFlag          uint32
	arraySize         uint32
	miscFlags2        uint32
}

func readPixelFormat(b []byte) pixelFormat {
	var pf pixelFormat
	pf.size = binary.LittleEndian.Uint32(b[0:4])
	pf.flags = binary.LittleEndian.Uint32(b[4:8])
	copy(pf.fourCC[:], b[8:12])
	pf.rgbBitCount = binary.LittleEndian.Uint32(b[12:16])
	pf.rBitMask = binary.LittleEndian.Uint32(b[16:20])
	pf.gBitMask = binary.LittleEndian.Uint32(b[20:24])
	pf.bBitMask = binary.LittleEndian.Uint32(b[24:28])
	pf.aBitMask = binary.LittleEndian.Uint32(b[28:32])
	return pf
}

func readHeader(b []byte) header {
	var h header
	h.size = binary.LittleEndian.Uint32(b[0:4])
	h.flags = binary.LittleEndian.Uint32(b[4:8])
	h.height = binary.LittleEndian.Uint32(b[8:12])
	h.width = binary.LittleEndian.Uint32(b[12:16])
	h.pitch = binary.LittleEndian.Uint32(b[16:20])
	h.depth = binary.LittleEndian.Uint32(b[20:24])
	h.mipMapCount = binary.LittleEndian.Uint32(b[24:28])
	h.pf = readPixelFormat(b[76:108])
	h.caps = binary.LittleEndian.Uint32(b[108:112])
	h.caps2 = binary.LittleEndian.Uint32(b[112:116])
	h.caps3 = binary.LittleEndian.Uint32(b[116:120])
	h.caps4 = binary.LittleEndian.Uint32(b[120:124])
	return h
}

func readDX10Header(b []byte) dx10Header {
	var h dx10Header
	h.dxgiFormat = binary.LittleEndian.Uint32(b[0:4])
	h.resourceDimension = binary.LittleEndian.Uint32(b[4:8])
	h.miscFlag = binary.LittleEndian.Uint32(b[8:12])
	h.arraySize = binary.LittleEndian.Uint32(b[12:16])
	h.miscFlags2 = binary.LittleEndian.Uint32(b[16:20])
	return h
}

func fourCCUint32(b [4]byte) uint32 {
	return binary.LittleEndian.Uint32(b[:])
}

func formatFromFourCC(fourCC [4]byte) (format.TextureFormat, bool) {
	v := fourCCUint32(fourCC)
	switch v {
	case 36:
		return format.RGBA16, true
	case 113:
		return format.RGBA16F, true
	case 116:
		return format.RGBA32F, true
	}
	return format.Unknown, false
}

func formatFromDXGI(code uint32) (format.TextureFormat, bool) {
	switch code {
	case dxgiR32G32B32A32Float:
		return format.RGBA32F, true
	case dxgiR16G16B16A16Float:
		return format.RGBA16F, true
	case dxgiR16G16B16A16UInt:
		return format.RGBA16, true
	}
	return format.Unknown, false
}

func dxgiFromFormat(f format.TextureFormat) (uint32, bool) {
	switch f {
	case format.RGBA32F:
		return dxgiR32G32B32A32Float, true
	case format.RGBA16F:
		return dxgiR16G16B16A16Float, true
	case format.RGBA16:
		return dxgiR16G16B16A16UInt, true
	}
	return 0, false
}

// resolveNonDX10Format is the reader's non-DX10 resolution path: a known
// fourCC wins, then the RGB/alpha flags combined with rgbBitCount (24 or
// 32), and finally a bytes-per-pixel guess, which is reported through w.
func resolveNonDX10Format(pf pixelFormat, w diag.Warnings) (format.TextureFormat, bool) {
	if pf.flags&ddpfFourCC != 0 {
		if f, ok := formatFromFourCC(pf.fourCC); ok {
			return f, true
		}
	}
	switch {
	case pf.flags&ddpfRGB != 0 && pf.rgbBitCount == 24:
		return format.BGR8, true
	case pf.flags&ddpfRGB != 0 && pf.flags&ddpfAlphaPixels != 0 && pf.rgbBitCount == 32:
		return format.BGRA8, true
	}
	f, ok := guessByBytesPerPixel(pf.rgbBitCount / 8)
	if ok {
		diag.Warn(w, diag.KindUnsupportedFormat, "pixel format guessed as %s from %d bytes per pixel", f, pf.rgbBitCount/8)
	}
	return f, ok
}

// guessByBytesPerPixel is the last-resort fallback described in spec §4.5 and
// resolved per the Open Question in §9: follow the registry's declared
// first-match order rather than an arbitrary pick.
func guessByBytesPerPixel(bpp uint32) (format.TextureFormat, bool) {
	for _, f := range format.AllowedFormats(format.DDS) {
		if uint32(format.BytesPerPixel(f)) == bpp {
			return f, true
		}
	}
	return format.Unknown, false
}

// Decode reads a DDS stream and returns the decoded Image.
func Decode(r io.Reader, w diag.Warnings) (*imgcore.Image, error) {
	var magicBuf [4]byte
	if _, err := io.ReadFull(r, magicBuf[:]); err != nil {
		return nil, diag.New("dds.Decode", diag.KindIO, err)
	}
	if string(magicBuf[:]) != magic {
		return nil, diag.New("dds.Decode", diag.KindMagicMismatch, fmt.Errorf("bad DDS magic"))
	}

	hdrBuf := make([]byte, headerSize)
	if _, err := io.ReadFull(r, hdrBuf); err != nil {
		return nil, diag.New("dds.Decode", diag.KindIO, err)
	}
	h := readHeader(hdrBuf)

	if h.size != headerSize {
		return nil, diag.New("dds.Decode", diag.KindInvalidHeader, fmt.Errorf("header size %d != %d", h.size, headerSize))
	}
	required := ddsdCaps | ddsdHeight | ddsdWidth | ddsdPixelFormat
	if h.flags&uint32(required) != uint32(required) {
		return nil, diag.New("dds.Decode", diag.KindInvalidHeader, fmt.Errorf("missing mandatory flags"))
	}
	if h.caps&ddscapsTexture == 0 {
		return nil, diag.New("dds.Decode", diag.KindInvalidHeader, fmt.Errorf("DDSCAPS_TEXTURE not set"))
	}

	numMips := int(h.mipMapCount)
	if numMips == 0 {
		diag.Warn(w, diag.KindInvalidHeader, "mipMapCount is zero, coercing to 1")
		numMips = 1
	}

	isCubemap := h.caps2&ddscaps2Cubemap != 0
	if isCubemap && h.caps2&allFacesMask != allFacesMask {
		return nil, diag.New("dds.Decode", diag.KindUnsupportedFormat, fmt.Errorf("partial cubemap not supported"))
	}
	numFaces := 1
	if isCubemap {
		numFaces = 6
	}

	hasDX10 := h.pf.flags&ddpfFourCC != 0 && h.pf.fourCC == fourCCDX10

	var dx10Buf []byte
	if hasDX10 {
		dx10Buf = make([]byte, dx10HdrSize)
		if _, err := io.ReadFull(r, dx10Buf); err != nil {
			return nil, diag.New("dds.Decode", diag.KindIO, err)
		}
	}

	var texFormat format.TextureFormat
	var ok bool
	if hasDX10 {
		dx10 := readDX10Header(dx10Buf)
		if dx10.resourceDimension != d3d10ResourceDimensionTexture2D {
			return nil, diag.New("dds.Decode", diag.KindUnsupportedFormat, fmt.Errorf("resourceDimension %d is not a 2D texture", dx10.resourceDimension))
		}
		if dx10.arraySize > 1 {
			return nil, diag.New("dds.Decode", diag.KindUnsupportedFormat, fmt.Errorf("arraySize>1 not supported"))
		}
		texFormat, ok = formatFromDXGI(dx10.dxgiFormat)
	} else {
		texFormat, ok = resolveNonDX10Format(h.pf, w)
	}
	if !ok {
		return nil, diag.New("dds.Decode", diag.KindUnsupportedFormat, fmt.Errorf("unrecognized pixel format"))
	}
	if !format.IsFormatAllowed(format.DDS, texFormat) {
		return nil, diag.New("dds.Decode", diag.KindUnsupportedFormat, fmt.Errorf("%s not allowed for DDS", texFormat))
	}

	rest, err := io.ReadAll(r)
	if err != nil {
		return nil, diag.New("dds.Decode", diag.KindIO, err)
	}

	// Some encoders set the FourCC=DX10 marker without actually writing the
	// 20-byte extension header. Detect this by comparing declared payload
	// size against what remains, and retract the read if they already match.
	expected := imgcore.DataSize(int(h.width), int(h.height), texFormat, numMips, numFaces)
	if hasDX10 && len(rest) < expected && len(dx10Buf)+len(rest) >= expected {
		rest = append(dx10Buf, rest...)
	}

	if len(rest) < expected {
		return nil, diag.New("dds.Decode", diag.KindInvalidHeader, fmt.Errorf("payload too short: have %d want %d", len(rest), expected))
	}

	img := imgcore.New(int(h.width), int(h.height), texFormat, numMips, numFaces)
	copy(img.Data, rest[:expected])
	return img, nil
}

// Encode writes im as a DDS stream.
func Encode(w io.Writer, im *imgcore.Image) error {
	if !format.IsFormatAllowed(format.DDS, im.Format) {
		return diag.New("dds.Encode", diag.KindUnsupportedFormat, fmt.Errorf("%s not allowed for DDS", im.Format))
	}

	var buf bytes.Buffer
	buf.WriteString(magic)

	bpp := format.BytesPerPixel(im.Format)
	pitch := im.Width * bpp

	hdr := make([]byte, headerSize)
	binary.LittleEndian.PutUint32(hdr[0:4], headerSize)
	flags := uint32(ddsdCaps | ddsdHeight | ddsdWidth | ddsdPitch | ddsdPixelFormat)
	if im.NumMips > 1 {
		flags |= ddsdMipMapCount
	}
	binary.LittleEndian.PutUint32(hdr[4:8], flags)
	binary.LittleEndian.PutUint32(hdr[8:12], uint32(im.Height))
	binary.LittleEndian.PutUint32(hdr[12:16], uint32(im.Width))
	binary.LittleEndian.PutUint32(hdr[16:20], uint32(pitch))
	binary.LittleEndian.PutUint32(hdr[24:28], uint32(im.NumMips))

	dxgi, isDX10 := dxgiFromFormat(im.Format)

	pf := make([]byte, pixFmtSize)
	binary.LittleEndian.PutUint32(pf[0:4], pixFmtSize)
	if isDX10 {
		binary.LittleEndian.PutUint32(pf[4:8], ddpfFourCC)
		copy(pf[8:12], fourCCDX10[:])
	} else if im.Format == format.BGR8 {
		binary.LittleEndian.PutUint32(pf[4:8], ddpfRGB)
		binary.LittleEndian.PutUint32(pf[12:16], 24)
	} else if im.Format == format.BGRA8 {
		binary.LittleEndian.PutUint32(pf[4:8], ddpfRGB|ddpfAlphaPixels)
		binary.LittleEndian.PutUint32(pf[12:16], 32)
	}
	copy(hdr[76:108], pf)

	caps := uint32(ddscapsTexture)
	if im.NumMips > 1 {
		caps |= ddscapsComplex | ddscapsMipMap
	}
	var caps2 uint32
	if im.NumFaces == 6 {
		caps |= ddscapsComplex
		caps2 = ddscaps2Cubemap | allFacesMask
	}
	binary.LittleEndian.PutUint32(hdr[108:112], caps)
	binary.LittleEndian.PutUint32(hdr[112:116], caps2)

	buf.Write(hdr)

	if isDX10 {
		dx10 := make([]byte, dx10HdrSize)
		binary.LittleEndian.PutUint32(dx10[0:4], dxgi)
		binary.LittleEndian.PutUint32(dx10[4:8], d3d10ResourceDimensionTexture2D)
		if im.NumFaces == 6 {
			binary.LittleEndian.PutUint32(dx10[8:12], d3d10ResourceMiscTextureCube)
		}
		binary.LittleEndian.PutUint32(dx10[12:16], 1)
		buf.Write(dx10)
	}

	buf.Write(im.Data)

	_, err := w.Write(buf.Bytes())
	if err != nil {
		return diag.New("dds.Encode", diag.KindIO, err)
	}
	return nil
}
