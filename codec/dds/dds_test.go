package dds

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/cubeimage/engine/format"
	"github.com/cubeimage/engine/imgcore"
)

func TestCubemapRoundTrip(t *testing.T) {
	// spec §8 scenario 1: 4x4 6-face cubemap, solid per-face colors. DDS's
	// allowed format list (format.go, matching cmft's s_ddsValidFormats)
	// has no 8-bit RGBA entry, only BGRA8, so unlike the scenario's literal
	// RGBA8 this uses BGRA8 as the DDS-storable equivalent.
	colors := [6][4]byte{
		{255, 0, 0, 255}, {0, 255, 0, 255}, {0, 0, 255, 255},
		{255, 255, 0, 255}, {0, 255, 255, 255}, {255, 0, 255, 255},
	}
	im := imgcore.New(4, 4, format.BGRA8, 1, 6)
	offs := imgcore.FaceOffsets(im)
	for f := 0; f < 6; f++ {
		for p := 0; p < 16; p++ {
			copy(im.Data[offs[f]+p*4:offs[f]+p*4+4], colors[f][:])
		}
	}

	var buf bytes.Buffer
	if err := Encode(&buf, im); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	got, err := Decode(&buf, nil)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if got.NumFaces != 6 || got.NumMips != 1 || got.Width != 4 || got.Height != 4 {
		t.Fatalf("shape mismatch: faces=%d mips=%d %dx%d", got.NumFaces, got.NumMips, got.Width, got.Height)
	}
	if !bytes.Equal(got.Data, im.Data) {
		t.Error("round trip produced different pixel bytes")
	}
}

func TestDecodeRejectsBadMagic(t *testing.T) {
	_, err := Decode(bytes.NewReader([]byte("NOPE")), nil)
	if err == nil {
		t.Fatal("expected an error for bad magic")
	}
}

func TestEncodeRejectsDisallowedFormat(t *testing.T) {
	im := imgcore.New(2, 2, format.RGB8, 1, 1)
	var buf bytes.Buffer
	if err := Encode(&buf, im); err == nil {
		t.Fatal("expected an error, RGB8 is not allowed for DDS")
	}
}

func TestDecodeRejectsNon2DResourceDimension(t *testing.T) {
	im := imgcore.New(2, 2, format.RGBA32F, 1, 1)
	var buf bytes.Buffer
	if err := Encode(&buf, im); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	stream := buf.Bytes()

	// The DX10 extension header immediately follows the 4-byte magic and
	// 124-byte plain header; resourceDimension is its second uint32.
	dx10Off := len(magic) + headerSize
	binary.LittleEndian.PutUint32(stream[dx10Off+4:dx10Off+8], 2) // D3D10_RESOURCE_DIMENSION_TEXTURE1D

	if _, err := Decode(bytes.NewReader(stream), nil); err == nil {
		t.Fatal("expected an error for a non-2D resourceDimension")
	}
}
