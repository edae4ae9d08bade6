package cubeimage

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cubeimage/engine/codec/dds"
	"github.com/cubeimage/engine/codec/hdr"
	"github.com/cubeimage/engine/codec/ktx"
	"github.com/cubeimage/engine/codec/tga"
	"github.com/cubeimage/engine/diag"
	"github.com/cubeimage/engine/format"
	"github.com/cubeimage/engine/imgcore"
)

// Image is the engine's core value type; it is defined in imgcore and
// re-exported here so callers of this package never need a second import.
type Image = imgcore.Image

// TextureFormat and FileType are re-exported from the format registry for
// the same reason.
type TextureFormat = format.TextureFormat
type FileType = format.FileType

const (
	DDS = format.DDS
	KTX = format.KTX
	TGA = format.TGA
	HDR = format.HDR
)

// LoadOption configures Load.
type LoadOption func(*loadConfig)

type loadConfig struct {
	convertTo TextureFormat
	convert   bool
	warnings  Warnings
}

// ConvertTo requests that Load convert the decoded image to f before
// returning it.
func ConvertTo(f TextureFormat) LoadOption {
	return func(c *loadConfig) {
		c.convertTo = f
		c.convert = true
	}
}

// WithWarnings supplies a collaborator that receives non-fatal diagnostics
// emitted while loading.
func WithWarnings(w Warnings) LoadOption {
	return func(c *loadConfig) {
		c.warnings = w
	}
}

// DetectFormat sniffs the leading bytes of a file and reports which codec
// would be dispatched to, generalizing the magic-byte checks in Load. peek
// must contain at least the first 18 bytes of the stream for the TGA
// heuristic to be reliable.
func DetectFormat(peek []byte) (FileType, bool) {
	if len(peek) >= 4 && string(peek[:4]) == "DDS " {
		return format.DDS, true
	}
	if len(peek) >= 4 && peek[0] == 0xAB && peek[1] == 'K' && peek[2] == 'T' && peek[3] == 'X' {
		return format.KTX, true
	}
	if len(peek) >= 4 && string(peek[:4]) == "#?RA" {
		return format.HDR, true
	}
	if len(peek) >= 3 {
		imageType := peek[2]
		colorMapType := peek[1]
		switch imageType {
		case 1, 2, 3, 9, 10, 11:
			if colorMapType == 0 || colorMapType == 1 {
				return format.TGA, true
			}
		}
	}
	return 0, false
}

// Load reads and decodes an image from r, dispatching to the appropriate
// codec based on the file's magic bytes.
func Load(r io.Reader, opts ...LoadOption) (*Image, error) {
	var cfg loadConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	br := bufio.NewReaderSize(r, 32)
	peek, _ := br.Peek(18)

	ft, ok := DetectFormat(peek)
	if !ok {
		return nil, NewError("Load", KindMagicMismatch, fmt.Errorf("unrecognized file format"))
	}

	var img *Image
	var err error
	switch ft {
	case format.DDS:
		img, err = dds.Decode(br, cfg.warnings)
	case format.KTX:
		img, err = ktx.Decode(br, cfg.warnings)
	case format.HDR:
		img, err = hdr.Decode(br, cfg.warnings)
	case format.TGA:
		img, err = tga.Decode(br, cfg.warnings)
	}
	if err != nil {
		return nil, err
	}

	if cfg.convert && cfg.convertTo != img.Format {
		img = imgcore.Convert(img, cfg.convertTo)
	}
	return img, nil
}

// SaveOption configures Save.
type SaveOption func(*saveConfig)

type saveConfig struct {
	convertTo TextureFormat
	convert   bool
}

// SaveConvertTo requests that Save convert im to f before encoding it.
func SaveConvertTo(f TextureFormat) SaveOption {
	return func(c *saveConfig) {
		c.convertTo = f
		c.convert = true
	}
}

// Save encodes im using the codec for fileType and writes it to w. If the
// image's format is not among fileType's AllowedFormats and no
// SaveConvertTo option resolves the mismatch, Save fails and names the
// formats that would have been accepted.
func Save(w io.Writer, im *Image, fileType FileType, opts ...SaveOption) error {
	var cfg saveConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	out := im
	if cfg.convert && cfg.convertTo != im.Format {
		out = imgcore.Convert(im, cfg.convertTo)
	}

	if !format.IsFormatAllowed(fileType, out.Format) {
		return NewError("Save", KindUnsupportedFormat, fmt.Errorf(
			"%s does not accept %s; allowed formats: %v", fileType, out.Format, format.AllowedFormats(fileType)))
	}

	switch fileType {
	case format.DDS:
		return dds.Encode(w, out)
	case format.KTX:
		return ktx.Encode(w, out)
	case format.HDR:
		return hdr.Encode(w, out)
	case format.TGA:
		return tga.Encode(w, out)
	}
	return NewError("Save", KindInternal, fmt.Errorf("unknown file type %v", fileType))
}

// SaveFile encodes im and writes it to path, appending fileType's
// conventional extension when path does not already end in it. This is the
// path-based counterpart to Save, per spec §4.6's "appends the file-type's
// extension" note.
func SaveFile(path string, im *Image, fileType FileType, opts ...SaveOption) error {
	if !strings.EqualFold(filepath.Ext(path), fileType.Extension()) {
		path += fileType.Extension()
	}

	f, err := os.Create(path)
	if err != nil {
		return NewError("SaveFile", KindIO, err)
	}
	defer f.Close()

	return Save(f, im, fileType, opts...)
}

var _ diag.Warnings = (*CollectWarnings)(nil)
