package typeset

import (
	"strings"
	"testing"
)

func TestBreakLinesGreedyWrap(t *testing.T) {
	m := fakeMeasurer{}

	// At size 10 each rune is 6px wide. "HELLO THERE" is 11 runes = 66px.
	tests := []struct {
		name     string
		text     string
		maxWidth float64
		want     []string
		forced   bool
	}{
		{
			name:     "single line fits",
			text:     "HELLO THERE",
			maxWidth: 66,
			want:     []string{"HELLO THERE"},
		},
		{
			name:     "wraps at token boundary",
			text:     "HELLO THERE WORLD",
			maxWidth: 70,
			want:     []string{"HELLO THERE", "WORLD"},
		},
		{
			name:     "one token per line when narrow",
			text:     "HELLO THERE WORLD",
			maxWidth: 36,
			want:     []string{"HELLO", "THERE", "WORLD"},
		},
		{
			name:     "oversized token placed alone and flagged",
			text:     "A EXTRAORDINARILY B",
			maxWidth: 30,
			want:     []string{"A", "EXTRAORDINARILY", "B"},
			forced:   true,
		},
		{
			name:     "explicit newline is a hard break",
			text:     "HI\nTHERE",
			maxWidth: 1000,
			want:     []string{"HI", "THERE"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			lines, forced, err := BreakLines(m, DefaultFamily, 10, tc.text, tc.maxWidth)
			if err != nil {
				t.Fatalf("BreakLines: %v", err)
			}
			if got := lineTexts(lines); !equalStrings(got, tc.want) {
				t.Errorf("lines = %q, want %q", got, tc.want)
			}
			if forced != tc.forced {
				t.Errorf("forced = %v, want %v", forced, tc.forced)
			}
		})
	}
}

func TestBreakLinesNeverSplitsTokens(t *testing.T) {
	m := fakeMeasurer{}
	text := "SOMETHING WICKED THIS WAY COMES"

	for _, maxWidth := range []float64{10, 25, 40, 80, 200} {
		lines, _, err := BreakLines(m, DefaultFamily, 12, text, maxWidth)
		if err != nil {
			t.Fatalf("BreakLines: %v", err)
		}
		rejoined := strings.Join(lineTexts(lines), " ")
		if rejoined != text {
			t.Errorf("maxWidth %v: rejoined %q, want %q", maxWidth, rejoined, text)
		}
	}
}

func TestBreakColumns(t *testing.T) {
	m := fakeMeasurer{}

	// Size 10: each rune cell is 10px tall, 6px wide.
	cols, forced, err := BreakColumns(m, DefaultFamily, 10, "こんにちは世界", 30)
	if err != nil {
		t.Fatalf("BreakColumns: %v", err)
	}
	want := []string{"こんに", "ちは世", "界"}
	if got := lineTexts(cols); !equalStrings(got, want) {
		t.Errorf("columns = %q, want %q", got, want)
	}
	if forced {
		t.Error("forced = true, want false")
	}

	for _, c := range cols {
		if c.Height > 30 {
			t.Errorf("column %q height %v exceeds 30", c.Text, c.Height)
		}
		if c.Width != 6 {
			t.Errorf("column %q width = %v, want 6", c.Text, c.Width)
		}
	}
}

func TestBreakColumnsDropsSpacesAndBreaksOnNewline(t *testing.T) {
	m := fakeMeasurer{}

	cols, _, err := BreakColumns(m, DefaultFamily, 10, "ab cd\nef", 1000)
	if err != nil {
		t.Fatalf("BreakColumns: %v", err)
	}
	want := []string{"abcd", "ef"}
	if got := lineTexts(cols); !equalStrings(got, want) {
		t.Errorf("columns = %q, want %q", got, want)
	}
}

func lineTexts(lines []Line) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.Text
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
