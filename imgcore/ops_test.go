package imgcore

import (
	"testing"

	"github.com/cubeimage/engine/diag"
	"github.com/cubeimage/engine/format"
)

func TestRotate180SwapsDiagonalPairs(t *testing.T) {
	im := New(2, 2, format.RGBA8, 1, 1)
	// pixel values 0,1,2,3 (one byte per pixel's red channel for simplicity)
	for i := 0; i < 4; i++ {
		im.Data[i*4] = byte(i)
	}
	Transform(im, nil, Op{Face: 0, Mask: Rot180})
	got := []byte{im.Data[0], im.Data[4], im.Data[8], im.Data[12]}
	want := []byte{3, 2, 1, 0}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("pixel %d = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestRotate90x4IsIdentity(t *testing.T) {
	im := New(2, 2, format.RGBA8, 1, 1)
	for i := 0; i < 16; i++ {
		im.Data[i] = byte(i)
	}
	orig := im.Clone()

	Transform(im, nil,
		Op{Face: 0, Mask: Rot90},
		Op{Face: 0, Mask: Rot90},
		Op{Face: 0, Mask: Rot90},
		Op{Face: 0, Mask: Rot90},
	)
	for i := range im.Data {
		if im.Data[i] != orig.Data[i] {
			t.Fatalf("4x Rot90 is not identity at byte %d: got %d, want %d", i, im.Data[i], orig.Data[i])
		}
	}
}

func TestRotationSkippedOnNonSquare(t *testing.T) {
	im := New(4, 2, format.RGBA8, 1, 1)
	orig := im.Clone()
	var collect diag.Collect
	Transform(im, &collect, Op{Face: 0, Mask: Rot90})

	if len(collect.Messages) == 0 {
		t.Error("expected a warning for rotation on non-square image")
	}
	for i := range im.Data {
		if im.Data[i] != orig.Data[i] {
			t.Fatal("non-square rotation should be a no-op")
		}
	}
}

func TestFlipXReversesRows(t *testing.T) {
	im := New(2, 2, format.RGBA8, 1, 1)
	for i := 0; i < 4; i++ {
		im.Data[i*4] = byte(i)
	}
	Transform(im, nil, Op{Face: 0, Mask: FlipX})
	got := []byte{im.Data[0], im.Data[4], im.Data[8], im.Data[12]}
	want := []byte{2, 3, 0, 1}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("pixel %d = %d, want %d", i, got[i], want[i])
		}
	}
}
