package imgutil

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func header12(prefix []byte) []byte {
	h := make([]byte, 12)
	copy(h, prefix)
	return h
}

func TestDetectHeader(t *testing.T) {
	webpHeader := append([]byte("RIFF\x24\x00\x00\x00"), []byte("WEBP")...)

	cases := []struct {
		name   string
		header []byte
		want   Kind
	}{
		{"jpeg", header12([]byte{0xff, 0xd8, 0xff, 0xe0}), KindJPEG},
		{"png", header12([]byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a}), KindPNG},
		{"gif", header12([]byte("GIF89a")), KindGIF},
		{"bmp", header12([]byte("BM")), KindBMP},
		{"webp", webpHeader, KindWebP},
		{"riff but not webp", header12([]byte("RIFF\x24\x00\x00\x00WAVE")), KindUnknown},
		{"text", header12([]byte("hello worl")), KindUnknown},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := DetectHeader(tc.header)
			if err != nil {
				t.Fatalf("DetectHeader: %v", err)
			}
			if got != tc.want {
				t.Fatalf("DetectHeader = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestDetectHeaderShort(t *testing.T) {
	if _, err := DetectHeader([]byte{0xff, 0xd8}); err == nil {
		t.Fatal("expected error for short header")
	}
}

func TestSniffFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "photo.bin")

	data := header12([]byte{0xff, 0xd8, 0xff, 0xe1})
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	kind, err := SniffFile(path)
	if err != nil {
		t.Fatalf("SniffFile: %v", err)
	}
	if kind != KindJPEG {
		t.Fatalf("SniffFile = %v, want %v", kind, KindJPEG)
	}
}

func TestSniffReader(t *testing.T) {
	kind, err := SniffReader(bytes.NewReader(header12(pngSig)))
	if err != nil {
		t.Fatalf("SniffReader: %v", err)
	}
	if kind != KindPNG {
		t.Fatalf("SniffReader = %v, want %v", kind, KindPNG)
	}
}

func TestProbe(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tiny.png")

	img := image.NewRGBA(image.Rect(0, 0, 30, 20))
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	w, h, err := Probe(path)
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if w != 30 || h != 20 {
		t.Fatalf("Probe = %dx%d, want 30x20", w, h)
	}
}

func TestKindString(t *testing.T) {
	if got := KindWebP.String(); got != "webp" {
		t.Fatalf("KindWebP.String() = %q", got)
	}
	if got := KindUnknown.String(); got != "unknown" {
		t.Fatalf("KindUnknown.String() = %q", got)
	}
}
