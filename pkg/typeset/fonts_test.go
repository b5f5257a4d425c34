package typeset

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestFontManagerMeasure(t *testing.T) {
	fm, err := NewFontManager(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
	if err != nil {
		t.Fatalf("NewFontManager: %v", err)
	}

	ext, err := fm.Measure(DefaultFamily, 24, "HELLO")
	if err != nil {
		t.Fatalf("Measure: %v", err)
	}
	if ext.Width <= 0 || ext.Height <= 0 {
		t.Errorf("extents = %+v, want positive width and height", ext)
	}

	// Same inputs, same answer — the solver depends on it.
	again, err := fm.Measure(DefaultFamily, 24, "HELLO")
	if err != nil {
		t.Fatalf("Measure: %v", err)
	}
	if again != ext {
		t.Errorf("second Measure = %+v, want %+v", again, ext)
	}

	// A longer string at the same size is wider.
	longer, err := fm.Measure(DefaultFamily, 24, "HELLO WORLD")
	if err != nil {
		t.Fatalf("Measure: %v", err)
	}
	if longer.Width <= ext.Width {
		t.Errorf("longer text width %v not greater than %v", longer.Width, ext.Width)
	}
}

func TestFontManagerUnknownFamilyWarnsOnce(t *testing.T) {
	var buf bytes.Buffer
	fm, err := NewFontManager(slog.New(slog.NewTextHandler(&buf, nil)))
	if err != nil {
		t.Fatalf("NewFontManager: %v", err)
	}

	base, err := fm.Measure(DefaultFamily, 16, "ABC")
	if err != nil {
		t.Fatalf("Measure: %v", err)
	}

	for i := 0; i < 3; i++ {
		got, err := fm.Measure("NoSuchFamily", 16, "ABC")
		if err != nil {
			t.Fatalf("Measure with unknown family: %v", err)
		}
		if got != base {
			t.Errorf("fallback extents = %+v, want default-family extents %+v", got, base)
		}
	}

	if n := strings.Count(buf.String(), "unknown font family"); n != 1 {
		t.Errorf("warning logged %d times, want exactly once per family", n)
	}
}

func TestFontManagerRejectsNonPositiveSize(t *testing.T) {
	fm, err := NewFontManager(nil)
	if err != nil {
		t.Fatalf("NewFontManager: %v", err)
	}
	if _, err := fm.Face(DefaultFamily, 0); err == nil {
		t.Error("Face(0) succeeded, want error")
	}
}
