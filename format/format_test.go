package format

import "testing"

func TestBytesPerPixel(t *testing.T) {
	cases := []struct {
		f    TextureFormat
		want int
	}{
		{BGR8, 3},
		{RGBA8, 4},
		{RGB16, 6},
		{RGBA16F, 8},
		{RGBA32F, 16},
		{RGBE, 4},
	}
	for _, c := range cases {
		if got := BytesPerPixel(c.f); got != c.want {
			t.Errorf("BytesPerPixel(%v) = %d, want %d", c.f, got, c.want)
		}
	}
}

func TestIsFormatAllowed(t *testing.T) {
	if !IsFormatAllowed(DDS, BGRA8) {
		t.Error("BGRA8 should be allowed for DDS")
	}
	if IsFormatAllowed(DDS, RGB8) {
		t.Error("RGB8 should not be allowed for DDS")
	}
	if !IsFormatAllowed(HDR, RGBE) {
		t.Error("RGBE should be allowed for HDR")
	}
	if IsFormatAllowed(TGA, RGBA32F) {
		t.Error("RGBA32F should not be allowed for TGA")
	}
}

func TestAllowedFormatsOrderIsStable(t *testing.T) {
	got := AllowedFormats(DDS)
	want := []TextureFormat{BGR8, BGRA8, RGBA16, RGBA16F, RGBA32F}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("AllowedFormats(DDS)[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestInfoUnknown(t *testing.T) {
	if _, ok := Info(Unknown); ok {
		t.Error("Info(Unknown) should report ok=false")
	}
}
