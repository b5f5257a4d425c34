package session

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/S0HElL/TL-pipeline/pkg/region"
	"github.com/S0HElL/TL-pipeline/pkg/typeset"
)

func testPage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 20, 20))
	img.Set(5, 5, color.RGBA{R: 255, A: 255})
	return img
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.tlsession")

	regions := []region.Region{
		{
			ID:             3,
			SourceBox:      image.Rect(1, 2, 10, 12),
			EditBox:        image.Rect(0, 2, 11, 12),
			SourceText:     "こんにちは",
			TranslatedText: "Hello",
			Orientation:    typeset.Vertical,
			Style:          region.DefaultStyle(),
		},
	}

	if err := Save(path, &Session{Page: testPage(), Cleaned: testPage(), Regions: regions}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if got.Page == nil || got.Page.Bounds() != image.Rect(0, 0, 20, 20) {
		t.Errorf("page not restored: %v", got.Page)
	}
	if got.Cleaned == nil {
		t.Error("cleaned page not restored")
	}
	if len(got.Regions) != 1 {
		t.Fatalf("got %d regions, want 1", len(got.Regions))
	}
	r := got.Regions[0]
	if r.ID != 3 || r.TranslatedText != "Hello" || r.Orientation != typeset.Vertical {
		t.Errorf("region not restored: %+v", r)
	}
	if r.EditBox != image.Rect(0, 2, 11, 12) {
		t.Errorf("edit box = %v", r.EditBox)
	}
}

func TestSaveWithoutCleanedPage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.tlsession")
	if err := Save(path, &Session{Page: testPage()}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Cleaned != nil {
		t.Error("cleaned page should be nil")
	}
	if got.Regions != nil && len(got.Regions) != 0 {
		t.Errorf("regions = %v, want none", got.Regions)
	}
}

func TestSaveRequiresPage(t *testing.T) {
	if err := Save(filepath.Join(t.TempDir(), "x.tlsession"), &Session{}); err == nil {
		t.Fatal("expected error for session without a page")
	}
}

func TestLoadRejectsBundleWithoutPage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.tlsession")
	if err := Save(path, &Session{Page: testPage()}); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.tlsession")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
