package inpaint

import (
	"context"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"
)

func TestFlatFillPaintsOnlyMaskedPixels(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	mask := image.NewGray(image.Rect(0, 0, 10, 10))
	mask.SetGray(3, 3, color.Gray{Y: 255})
	mask.SetGray(4, 3, color.Gray{Y: 255})

	out, err := FlatFill{}.Inpaint(context.Background(), img, mask)
	if err != nil {
		t.Fatalf("Inpaint: %v", err)
	}

	if r, g, b, _ := out.At(3, 3).RGBA(); r != 0xffff || g != 0xffff || b != 0xffff {
		t.Errorf("masked pixel not filled white: got %v", out.At(3, 3))
	}
	if r, _, _, _ := out.At(0, 0).RGBA(); r != 200<<8|200 {
		t.Errorf("unmasked pixel changed: got %v", out.At(0, 0))
	}
	if r, _, _, _ := img.At(3, 3).RGBA(); r != 200<<8|200 {
		t.Error("input image was modified")
	}
}

func TestFlatFillCustomColor(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	mask := image.NewGray(image.Rect(0, 0, 4, 4))
	mask.SetGray(1, 1, color.Gray{Y: 255})

	out, err := FlatFill{Color: color.RGBA{R: 255, A: 255}}.Inpaint(context.Background(), img, mask)
	if err != nil {
		t.Fatalf("Inpaint: %v", err)
	}
	if r, g, _, _ := out.At(1, 1).RGBA(); r != 0xffff || g != 0 {
		t.Errorf("masked pixel = %v, want red", out.At(1, 1))
	}
}

func TestFindResultPrefersOutSuffix(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"other.png", "page_out.png"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	got, err := findResult(dir, "page.png")
	if err != nil {
		t.Fatalf("findResult: %v", err)
	}
	if filepath.Base(got) != "page_out.png" {
		t.Errorf("got %s, want page_out.png", got)
	}
}

func TestFindResultFallsBackToFirstFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "result.png"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := findResult(dir, "page.png")
	if err != nil {
		t.Fatalf("findResult: %v", err)
	}
	if filepath.Base(got) != "result.png" {
		t.Errorf("got %s", got)
	}
}

func TestFindResultEmptyDir(t *testing.T) {
	if _, err := findResult(t.TempDir(), "page.png"); err == nil {
		t.Fatal("expected error for empty output dir")
	}
}
