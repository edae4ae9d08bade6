package cubeimage

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/cubeimage/engine/format"
	"github.com/cubeimage/engine/imgcore"
)

func TestDetectFormat(t *testing.T) {
	cases := []struct {
		name string
		peek []byte
		want FileType
		ok   bool
	}{
		{"dds", []byte("DDS \x00\x00\x00\x00"), DDS, true},
		{"ktx", []byte{0xAB, 'K', 'T', 'X', ' ', '1', '1'}, KTX, true},
		{"hdr", []byte("#?RADIANCE\n"), HDR, true},
		{"tga", []byte{0, 0, 2, 0, 0, 0}, TGA, true},
		{"unknown", []byte("nope"), 0, false},
	}
	for _, c := range cases {
		got, ok := DetectFormat(c.peek)
		if ok != c.ok {
			t.Errorf("%s: ok = %v, want %v", c.name, ok, c.ok)
			continue
		}
		if ok && got != c.want {
			t.Errorf("%s: format = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestLoadSaveDDSRoundTrip(t *testing.T) {
	im := imgcore.New(2, 2, format.BGRA8, 1, 1)
	for i := range im.Data {
		im.Data[i] = byte(i)
	}

	var buf bytes.Buffer
	if err := Save(&buf, im, DDS); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load(&buf)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !bytes.Equal(got.Data, im.Data) {
		t.Error("load(save(im)) produced different bytes")
	}
}

func TestSaveRejectsDisallowedFormatWithMessage(t *testing.T) {
	im := imgcore.New(2, 2, format.RGB32F, 1, 1)
	var buf bytes.Buffer
	err := Save(&buf, im, TGA)
	if err == nil {
		t.Fatal("expected an error, RGB32F is not allowed for TGA")
	}
}

func TestLoadWithConvertTo(t *testing.T) {
	im := imgcore.New(1, 1, format.BGRA8, 1, 1)
	copy(im.Data, []byte{10, 20, 30, 255})

	var buf bytes.Buffer
	if err := Save(&buf, im, DDS); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load(&buf, ConvertTo(format.RGBA32F))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Format != format.RGBA32F {
		t.Errorf("Format = %v, want RGBA32F", got.Format)
	}
}

func TestSaveFileAppendsExtension(t *testing.T) {
	im := imgcore.New(2, 2, format.BGRA8, 1, 1)
	stem := filepath.Join(t.TempDir(), "cubemap")

	if err := SaveFile(stem, im, DDS); err != nil {
		t.Fatalf("SaveFile: %v", err)
	}

	f, err := os.Open(stem + ".dds")
	if err != nil {
		t.Fatalf("expected %s.dds to exist: %v", stem, err)
	}
	defer f.Close()

	got, err := Load(f)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !bytes.Equal(got.Data, im.Data) {
		t.Error("SaveFile/Load round trip produced different bytes")
	}
}

func TestSaveFileKeepsExistingExtension(t *testing.T) {
	im := imgcore.New(2, 2, format.BGRA8, 1, 1)
	path := filepath.Join(t.TempDir(), "cubemap.dds")

	if err := SaveFile(path, im, DDS); err != nil {
		t.Fatalf("SaveFile: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected %s to exist unmodified: %v", path, err)
	}
}

func TestCollectWarningsReceivesMessages(t *testing.T) {
	var collect CollectWarnings
	im := imgcore.New(4, 2, format.RGBA8, 1, 1)
	imgcore.Transform(im, &collect, imgcore.Op{Face: 0, Mask: imgcore.Rot90})
	if len(collect.Messages) == 0 {
		t.Error("expected a warning for rotating a non-square image")
	}
}
