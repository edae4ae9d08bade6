package imgcore

import (
	"testing"

	"github.com/cubeimage/engine/format"
)

func TestGenerateMipChain8x8(t *testing.T) {
	im := New(8, 8, format.RGBA32F, 1, 1)
	for p := 0; p < im.NumPixels(); p++ {
		putF32bits(im.Data[p*16:p*16+16], [4]float32{1, 1, 1, 1})
	}

	out := GenerateMipChain(im, 16)
	if out.NumMips != 4 {
		t.Fatalf("NumMips = %d, want 4", out.NumMips)
	}

	wantSize := (64 + 16 + 4 + 1) * 16
	if len(out.Data) != wantSize {
		t.Errorf("data size = %d, want %d", len(out.Data), wantSize)
	}

	offs := MipOffsets(out)
	for m := 0; m < out.NumMips; m++ {
		w, h, _ := MipSize(out, m)
		base := offs[0][m]
		for p := 0; p < w*h; p++ {
			var px [4]float32
			off := base + p*16
			px[0] = f32bits(out.Data[off:], 0)
			px[1] = f32bits(out.Data[off:], 1)
			px[2] = f32bits(out.Data[off:], 2)
			px[3] = f32bits(out.Data[off:], 3)
			if px != [4]float32{1, 1, 1, 1} {
				t.Fatalf("mip %d pixel %d = %v, want all-ones", m, p, px)
			}
		}
	}
}

func TestGenerateMipChain1x1(t *testing.T) {
	im := New(1, 1, format.RGBA32F, 1, 1)
	out := GenerateMipChain(im, 16)
	if out.NumMips != 1 {
		t.Errorf("NumMips = %d, want 1", out.NumMips)
	}
}

func TestGenerateMipChainPreservesExistingMips(t *testing.T) {
	im := New(4, 4, format.RGBA32F, 2, 1)
	offs := MipOffsets(im)
	putF32bits(im.Data[offs[0][1]:], [4]float32{9, 9, 9, 9})

	out := GenerateMipChain(im, 4)
	outOffs := MipOffsets(out)
	var px [4]float32
	base := outOffs[0][1]
	px[0] = f32bits(out.Data[base:], 0)
	px[1] = f32bits(out.Data[base:], 1)
	px[2] = f32bits(out.Data[base:], 2)
	px[3] = f32bits(out.Data[base:], 3)
	if px != [4]float32{9, 9, 9, 9} {
		t.Errorf("preserved mip 1 pixel = %v, want (9,9,9,9)", px)
	}
}
