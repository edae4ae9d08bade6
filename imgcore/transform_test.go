package imgcore

import (
	"testing"

	"github.com/cubeimage/engine/format"
)

func TestApplyGammaIdentityAtOne(t *testing.T) {
	im := New(1, 1, format.RGBA32F, 1, 1)
	putF32bits(im.Data, [4]float32{0.5, 0.25, 0.75, 1})
	before := im.Clone()

	ApplyGamma(im, 1.0)
	for i := range im.Data {
		if im.Data[i] != before.Data[i] {
			t.Fatal("apply_gamma(1.0) should be a no-op")
		}
	}
}

func TestApplyGammaLeavesAlphaAlone(t *testing.T) {
	im := New(1, 1, format.RGBA32F, 1, 1)
	putF32bits(im.Data, [4]float32{0.5, 0.5, 0.5, 0.3})
	ApplyGamma(im, 2.0)

	alpha := f32bits(im.Data, 3)
	if alpha != 0.3 {
		t.Errorf("alpha = %v, want unchanged 0.3", alpha)
	}
	r := f32bits(im.Data, 0)
	if diff := r - 0.25; diff > 1e-5 || diff < -1e-5 {
		t.Errorf("r = %v, want 0.25 (0.5^2)", r)
	}
}

func TestClampIdempotent(t *testing.T) {
	im := New(1, 1, format.RGBA32F, 1, 1)
	putF32bits(im.Data, [4]float32{-1, 2, 0.5, 3})

	Clamp(im)
	first := im.Clone()
	Clamp(im)
	for i := range im.Data {
		if im.Data[i] != first.Data[i] {
			t.Fatal("clamp should be idempotent")
		}
	}

	want := [4]float32{0, 1, 0.5, 1}
	var got [4]float32
	for c := 0; c < 4; c++ {
		got[c] = f32bits(im.Data, c)
	}
	if got != want {
		t.Errorf("clamped = %v, want %v", got, want)
	}
}
