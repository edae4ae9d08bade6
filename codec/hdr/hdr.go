// Package hdr implements the Radiance (.hdr/.pic) reader and writer: an
// ASCII header, an optional per-scanline RLE encoding of RGBE quadruples,
// and a raw fallback body.
package hdr

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cubeimage/engine/diag"
	"github.com/cubeimage/engine/format"
	"github.com/cubeimage/engine/imgcore"
)

const magicLine = "#?RADIANCE"

// Decode reads a Radiance stream and returns the decoded Image (always
// RGBE, single face, single mip).
func Decode(r io.Reader, w diag.Warnings) (*imgcore.Image, error) {
	br := bufio.NewReader(r)

	line, err := readLine(br)
	if err != nil {
		return nil, diag.New("hdr.Decode", diag.KindIO, err)
	}
	if !strings.HasPrefix(line, "#?RA") {
		return nil, diag.New("hdr.Decode", diag.KindMagicMismatch, fmt.Errorf("missing #?RADIANCE magic"))
	}

	for {
		line, err = readLine(br)
		if err != nil {
			return nil, diag.New("hdr.Decode", diag.KindIO, err)
		}
		if line == "" {
			break
		}
		// FORMAT/GAMMA/EXPOSURE are parsed but not applied: the RGBE
		// pixel data decodes the same regardless of their value, and
		// Image has no field to carry per-file exposure/gamma metadata
		// through the rest of the pipeline. See DESIGN.md.
		if key, _, ok := strings.Cut(line, "="); ok {
			switch key {
			case "FORMAT", "GAMMA", "EXPOSURE":
			default:
				diag.Warn(w, diag.KindInvalidHeader, "unrecognized header line %q", line)
			}
		}
	}

	dimLine, err := readLine(br)
	if err != nil {
		return nil, diag.New("hdr.Decode", diag.KindIO, err)
	}
	height, width, err := parseDimensions(dimLine)
	if err != nil {
		return nil, diag.New("hdr.Decode", diag.KindInvalidHeader, err)
	}

	img := imgcore.New(width, height, format.RGBE, 1, 1)

	first4 := make([]byte, 4)
	n, err := io.ReadFull(br, first4)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, diag.New("hdr.Decode", diag.KindIO, err)
	}

	isRLE := width >= 8 && width <= 32767 && n == 4 &&
		first4[0] == 2 && first4[1] == 2 && first4[2] == byte(width>>8) && first4[3] == byte(width&0xFF)

	if isRLE {
		for y := 0; y < height; y++ {
			var scanline []byte
			if y == 0 {
				scanline, err = decodeRLEScanline(br, width)
			} else {
				var hdr4 [4]byte
				if _, err = io.ReadFull(br, hdr4[:]); err != nil {
					break
				}
				if hdr4[0] != 2 || hdr4[1] != 2 {
					return nil, diag.New("hdr.Decode", diag.KindInvalidHeader, fmt.Errorf("expected RLE scanline header at row %d", y))
				}
				scanline, err = decodeRLEScanline(br, width)
			}
			if err != nil {
				return nil, diag.New("hdr.Decode", diag.KindIO, err)
			}
			copy(img.Data[y*width*4:(y+1)*width*4], scanline)
		}
	} else {
		raw := make([]byte, width*4)
		copy(raw, first4[:n])
		if n < len(raw) {
			if _, err := io.ReadFull(br, raw[n:]); err != nil {
				return nil, diag.New("hdr.Decode", diag.KindIO, err)
			}
		}
		copy(img.Data[0:width*4], raw)
		if height > 1 {
			if _, err := io.ReadFull(br, img.Data[width*4:]); err != nil {
				return nil, diag.New("hdr.Decode", diag.KindIO, err)
			}
		}
	}

	return img, nil
}

func readLine(br *bufio.Reader) (string, error) {
	line, err := br.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func parseDimensions(line string) (height, width int, err error) {
	// "-Y <h> +X <w>"
	fields := strings.Fields(line)
	if len(fields) != 4 || fields[0] != "-Y" || fields[2] != "+X" {
		return 0, 0, fmt.Errorf("unsupported dimension line %q", line)
	}
	h, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, 0, err
	}
	wv, err := strconv.Atoi(fields[3])
	if err != nil {
		return 0, 0, err
	}
	return h, wv, nil
}

// decodeRLEScanline decodes one width-wide scanline stored as four
// separate per-channel RLE streams, then re-interleaves them into RGBE
// quadruples.
func decodeRLEScanline(br *bufio.Reader, width int) ([]byte, error) {
	var channels [4][]byte
	for c := 0; c < 4; c++ {
		buf := make([]byte, 0, width)
		for len(buf) < width {
			b, err := br.ReadByte()
			if err != nil {
				return nil, err
			}
			if b > 128 {
				count := int(b) - 128
				v, err := br.ReadByte()
				if err != nil {
					return nil, err
				}
				for i := 0; i < count; i++ {
					buf = append(buf, v)
				}
			} else {
				count := int(b)
				for i := 0; i < count; i++ {
					v, err := br.ReadByte()
					if err != nil {
						return nil, err
					}
					buf = append(buf, v)
				}
			}
		}
		channels[c] = buf
	}

	out := make([]byte, width*4)
	for i := 0; i < width; i++ {
		out[i*4+0] = channels[0][i]
		out[i*4+1] = channels[1][i]
		out[i*4+2] = channels[2][i]
		out[i*4+3] = channels[3][i]
	}
	return out, nil
}

// Encode writes im as a Radiance stream. Per spec Non-goals, the writer
// always emits raw (non-RLE) scanlines even though the header still claims
// the 32-bit RLE RGBE format, matching common permissive readers.
func Encode(w io.Writer, im *imgcore.Image) error {
	if im.Format != format.RGBE {
		return diag.New("hdr.Encode", diag.KindUnsupportedFormat, fmt.Errorf("HDR only stores RGBE, got %s", im.Format))
	}

	var buf bytes.Buffer
	buf.WriteString(magicLine + "\n")
	buf.WriteString("FORMAT=32-bit_rle_rgbe\n")
	// Image carries no per-file exposure/gamma metadata (see Decode), so
	// the writer always emits the neutral EXPOSURE=1.0 rather than a value
	// it would have to invent.
	buf.WriteString("EXPOSURE=1.0\n")
	buf.WriteString("\n")
	fmt.Fprintf(&buf, "-Y %d +X %d\n", im.Height, im.Width)
	buf.Write(im.Data)

	if _, err := w.Write(buf.Bytes()); err != nil {
		return diag.New("hdr.Encode", diag.KindIO, err)
	}
	return nil
}
