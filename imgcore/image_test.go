package imgcore

import (
	"testing"

	"github.com/cubeimage/engine/format"
)

func TestDataSize(t *testing.T) {
	// 8x8 RGBA32F, 4 mips, 1 face: (64+16+4+1)*16 bytes, per spec §8 scenario 5.
	got := DataSize(8, 8, format.RGBA32F, 4, 1)
	want := (64 + 16 + 4 + 1) * 16
	if got != want {
		t.Errorf("DataSize = %d, want %d", got, want)
	}
}

func TestDataSizeMultiFace(t *testing.T) {
	got := DataSize(4, 4, format.RGBA8, 1, 6)
	want := 4 * 4 * 4 * 6
	if got != want {
		t.Errorf("DataSize = %d, want %d", got, want)
	}
}

func TestIsCubemap(t *testing.T) {
	im := New(4, 4, format.RGBA8, 1, 6)
	if !im.IsCubemap() {
		t.Error("6-face square image should be a cubemap")
	}
	flat := New(4, 4, format.RGBA8, 1, 1)
	if flat.IsCubemap() {
		t.Error("single-face image should not be a cubemap")
	}
}

func TestIsLatLong(t *testing.T) {
	im := New(512, 256, format.RGBA32F, 1, 1)
	if !im.IsLatLong() {
		t.Error("512x256 should be lat-long (2:1 aspect)")
	}
	im2 := New(512, 255, format.RGBA32F, 1, 1)
	if im2.IsLatLong() {
		t.Error("512x255 should not be lat-long")
	}
}

func TestMipOffsetsFaceMajor(t *testing.T) {
	im := New(4, 4, format.RGBA8, 2, 6)
	offs := MipOffsets(im)
	faceSize := (4*4 + 2*2) * 4
	for f := 0; f < 6; f++ {
		if offs[f][0] != f*faceSize {
			t.Errorf("face %d mip 0 offset = %d, want %d", f, offs[f][0], f*faceSize)
		}
	}
}

func TestPixelOffsetRoundTrip(t *testing.T) {
	im := New(4, 4, format.RGBA8, 1, 1)
	off := PixelOffset(im, 2, 3, 0, 0)
	want := (3*4 + 2) * 4
	if off != want {
		t.Errorf("PixelOffset = %d, want %d", off, want)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	im := New(2, 2, format.RGBA8, 1, 1)
	im.Data[0] = 42
	clone := im.Clone()
	clone.Data[0] = 7
	if im.Data[0] != 42 {
		t.Error("mutating clone affected original")
	}
}
