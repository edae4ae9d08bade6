package tga

import (
	"bytes"
	"testing"

	"github.com/cubeimage/engine/format"
	"github.com/cubeimage/engine/imgcore"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	// spec §8 scenario 6: a 4x1 BGR8 image, pixels {red,red,red,green}.
	im := imgcore.New(4, 1, format.BGR8, 1, 1)
	red := []byte{0, 0, 255}
	green := []byte{0, 255, 0}
	copy(im.Data[0:3], red)
	copy(im.Data[3:6], red)
	copy(im.Data[6:9], red)
	copy(im.Data[9:12], green)

	var buf bytes.Buffer
	if err := Encode(&buf, im); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	got, err := Decode(&buf, nil)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.Width != 4 || got.Height != 1 {
		t.Fatalf("shape = %dx%d, want 4x1", got.Width, got.Height)
	}
	if !bytes.Equal(got.Data, im.Data) {
		t.Errorf("round trip mismatch: got %v, want %v", got.Data, im.Data)
	}
}

func TestDecodeHandConstructedRLE(t *testing.T) {
	// spec §8 scenario 6: {0x82,B,G,R, 0x00,B',G',R'} for {red,red,red,green}.
	red := []byte{0, 0, 255}
	green := []byte{0, 255, 0}

	var hdr [headerSize]byte
	hdr[2] = imageTypeRLETrueColor
	putLE16(hdr[12:14], 4)
	putLE16(hdr[14:16], 1)
	hdr[16] = 24
	hdr[17] = descriptorFlipVertical // top-down in file, matches our in-memory row order

	var buf bytes.Buffer
	buf.Write(hdr[:])
	buf.WriteByte(0x82)
	buf.Write(red)
	buf.WriteByte(0x00)
	buf.Write(green)

	got, err := Decode(&buf, nil)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	want := append(append(append(append([]byte{}, red...), red...), red...), green...)
	if !bytes.Equal(got.Data, want) {
		t.Errorf("decoded RLE pixels = %v, want %v", got.Data, want)
	}
}

func TestEncodeRejectsDisallowedFormat(t *testing.T) {
	im := imgcore.New(2, 2, format.RGBA32F, 1, 1)
	var buf bytes.Buffer
	if err := Encode(&buf, im); err == nil {
		t.Fatal("expected an error, RGBA32F is not allowed for TGA")
	}
}
