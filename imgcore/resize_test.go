package imgcore

import (
	"testing"

	"github.com/cubeimage/engine/format"
)

func TestResizeToOnePixelAverages(t *testing.T) {
	im := New(2, 2, format.RGBA32F, 1, 1)
	vals := [4][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	for i, v := range vals {
		off := i * 16
		putF32bits(im.Data[off:off+16], [4]float32{v[0], v[1], v[2], 1})
	}

	out := Resize(im, 1, 1)
	var got [4]float32
	got[0] = f32bits(out.Data, 0)
	got[1] = f32bits(out.Data, 1)
	got[2] = f32bits(out.Data, 2)

	want := [3]float32{0.25, 0.25, 0.25}
	for c := 0; c < 3; c++ {
		if diff := got[c] - want[c]; diff > 1e-5 || diff < -1e-5 {
			t.Errorf("channel %d = %v, want %v", c, got[c], want[c])
		}
	}
}

func TestResizeUpsampleRepeatsNearest(t *testing.T) {
	im := New(1, 1, format.RGBA8, 1, 1)
	copy(im.Data, []byte{100, 150, 200, 255})

	out := Resize(im, 4, 4)
	if out.Width != 4 || out.Height != 4 {
		t.Fatalf("shape = %dx%d, want 4x4", out.Width, out.Height)
	}
	for p := 0; p < 16; p++ {
		if out.Data[p*4] < 90 || out.Data[p*4] > 110 {
			t.Errorf("pixel %d channel 0 = %d, want near 100", p, out.Data[p*4])
		}
	}
}
