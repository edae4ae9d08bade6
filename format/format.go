// Package format implements the pixel-format registry: the fixed table of
// texture formats this engine understands, their byte layout, and which
// formats each container file type is permitted to hold. The registry is
// pure and stateless, mirroring the teacher's graphics/color package
// keeping colour-space metadata as plain data rather than behaviour spread
// across many types.
package format

// PixelKind describes how the bytes of a single channel are encoded.
type PixelKind int

const (
	KindUint8 PixelKind = iota
	KindUint16
	KindHalfFloat
	KindFloat32
)

// TextureFormat enumerates every pixel format this engine can hold in an
// Image. The ordinals are fixed and observable: the DDS reader's
// bytes-per-pixel fallback heuristic (see codec/dds) walks
// AllowedFormats(DDS) in this order when it has to guess.
type TextureFormat int

const (
	BGR8 TextureFormat = iota
	RGB8
	RGB16
	RGB16F
	RGB32F
	RGBE
	BGRA8
	RGBA8
	RGBA16
	RGBA16F
	RGBA32F
	Unknown
)

func (f TextureFormat) String() string {
	switch f {
	case BGR8:
		return "BGR8"
	case RGB8:
		return "RGB8"
	case RGB16:
		return "RGB16"
	case RGB16F:
		return "RGB16F"
	case RGB32F:
		return "RGB32F"
	case RGBE:
		return "RGBE"
	case BGRA8:
		return "BGRA8"
	case RGBA8:
		return "RGBA8"
	case RGBA16:
		return "RGBA16"
	case RGBA16F:
		return "RGBA16F"
	case RGBA32F:
		return "RGBA32F"
	default:
		return "Unknown"
	}
}

// Descriptor is the per-format metadata table row described in spec §3.
type Descriptor struct {
	BytesPerPixel int
	Channels      int
	HasAlpha      bool
	Kind          PixelKind
}

var descriptors = map[TextureFormat]Descriptor{
	BGR8:    {BytesPerPixel: 3, Channels: 3, HasAlpha: false, Kind: KindUint8},
	RGB8:    {BytesPerPixel: 3, Channels: 3, HasAlpha: false, Kind: KindUint8},
	RGB16:   {BytesPerPixel: 6, Channels: 3, HasAlpha: false, Kind: KindUint16},
	RGB16F:  {BytesPerPixel: 6, Channels: 3, HasAlpha: false, Kind: KindHalfFloat},
	RGB32F:  {BytesPerPixel: 12, Channels: 3, HasAlpha: false, Kind: KindFloat32},
	RGBE:    {BytesPerPixel: 4, Channels: 4, HasAlpha: false, Kind: KindUint8},
	BGRA8:   {BytesPerPixel: 4, Channels: 4, HasAlpha: true, Kind: KindUint8},
	RGBA8:   {BytesPerPixel: 4, Channels: 4, HasAlpha: true, Kind: KindUint8},
	RGBA16:  {BytesPerPixel: 8, Channels: 4, HasAlpha: true, Kind: KindUint16},
	RGBA16F: {BytesPerPixel: 8, Channels: 4, HasAlpha: true, Kind: KindHalfFloat},
	RGBA32F: {BytesPerPixel: 16, Channels: 4, HasAlpha: true, Kind: KindFloat32},
}

// Info returns the descriptor for format f. ok is false for Unknown or any
// unrecognized ordinal.
func Info(f TextureFormat) (d Descriptor, ok bool) {
	d, ok = descriptors[f]
	return d, ok
}

// BytesPerPixel is a convenience wrapper around Info for callers that only
// need the stride.
func BytesPerPixel(f TextureFormat) int {
	d, _ := descriptors[f]
	return d.BytesPerPixel
}

// FileType identifies a container file format for the purposes of the
// permitted-format lists below.
type FileType int

const (
	DDS FileType = iota
	KTX
	TGA
	HDR
)

func (t FileType) String() string {
	switch t {
	case DDS:
		return "DDS"
	case KTX:
		return "KTX"
	case TGA:
		return "TGA"
	case HDR:
		return "HDR"
	default:
		return "unknown file type"
	}
}

// Extension returns the conventional file extension for t, including the
// leading dot.
func (t FileType) Extension() string {
	switch t {
	case DDS:
		return ".dds"
	case KTX:
		return ".ktx"
	case TGA:
		return ".tga"
	case HDR:
		return ".hdr"
	default:
		return ""
	}
}

// allowed lists formats in the fixed order given by spec §4.1; the DDS
// reader's bpp-guess fallback (codec/dds) relies on this order to pick a
// deterministic first match when several allowed formats share a bpp.
var allowed = map[FileType][]TextureFormat{
	DDS: {BGR8, BGRA8, RGBA16, RGBA16F, RGBA32F},
	KTX: {RGB8, RGB16, RGB16F, RGB32F, RGBA8, RGBA16, RGBA16F, RGBA32F},
	TGA: {BGR8, BGRA8},
	HDR: {RGBE},
}

// AllowedFormats returns the fixed, ordered list of texture formats file
// type t is permitted to store. The returned slice must not be mutated.
func AllowedFormats(t FileType) []TextureFormat {
	return allowed[t]
}

// IsFormatAllowed reports whether file type t may store pixel format f.
func IsFormatAllowed(t FileType, f TextureFormat) bool {
	for _, a := range allowed[t] {
		if a == f {
			return true
		}
	}
	return false
}
