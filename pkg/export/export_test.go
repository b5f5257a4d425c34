package export

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/bmp"
)

func testImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 8, 6))
	for y := 0; y < 6; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 30), G: uint8(y * 40), B: 128, A: 255})
		}
	}
	return img
}

func TestWritePNGRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.png")
	if err := Write(path, testImage()); err != nil {
		t.Fatalf("Write: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	decoded, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode written PNG: %v", err)
	}
	if decoded.Bounds() != image.Rect(0, 0, 8, 6) {
		t.Errorf("bounds = %v", decoded.Bounds())
	}
}

func TestWriteBMP(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.bmp")
	if err := Write(path, testImage()); err != nil {
		t.Fatalf("Write: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	decoded, err := bmp.Decode(f)
	if err != nil {
		t.Fatalf("decode written BMP: %v", err)
	}
	if got, want := decoded.At(1, 0), testImage().At(1, 0); !sameColor(got, want) {
		t.Errorf("pixel (1,0) = %v, want %v", got, want)
	}
}

func TestWriteUnsupportedExtension(t *testing.T) {
	if err := Write(filepath.Join(t.TempDir(), "page.gif"), testImage()); err == nil {
		t.Fatal("expected error for .gif")
	}
}

func TestWriteTo(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteTo(&buf, ".png", testImage()); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	if _, err := png.Decode(&buf); err != nil {
		t.Errorf("decode streamed PNG: %v", err)
	}
}

func sameColor(a, b color.Color) bool {
	ar, ag, ab, _ := a.RGBA()
	br, bg, bb, _ := b.RGBA()
	return ar == br && ag == bg && ab == bb
}
