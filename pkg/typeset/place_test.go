package typeset

import (
	"image"
	"testing"
)

func solvedPlan(t *testing.T, text string, box image.Rectangle, o Orientation, opts FitOptions) Plan {
	t.Helper()
	plan, err := Fit(fakeMeasurer{}, text, DefaultFamily, box, o, opts)
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	return plan
}

func TestPlaceHorizontalAlignment(t *testing.T) {
	box := image.Rect(0, 0, 200, 80)
	opts := FitOptions{MinPx: 8, MaxPx: 20, PaddingPx: 4, SizeHint: 10}
	// Size 10: "HELLO" is 30px wide, writable area is 192×72.

	tests := []struct {
		align Alignment
		wantX float64
	}{
		{AlignLeft, 4},
		{AlignCenter, 4 + (192-30)/2.0},
		{AlignRight, 4 + 192 - 30},
	}

	for _, tc := range tests {
		t.Run(string(tc.align), func(t *testing.T) {
			plan := solvedPlan(t, "HELLO", box, Horizontal, opts)
			Place(&plan, box, tc.align, opts.PaddingPx)

			if got := plan.Lines[0].X; got != tc.wantX {
				t.Errorf("X = %v, want %v", got, tc.wantX)
			}
		})
	}
}

func TestPlaceBlockVerticallyCentered(t *testing.T) {
	box := image.Rect(0, 0, 200, 80)
	opts := FitOptions{MinPx: 8, MaxPx: 20, PaddingPx: 4, SizeHint: 10}

	// Two hard lines at size 10: block height = 10 + 10 + 2 = 22.
	plan := solvedPlan(t, "HELLO\nWORLD", box, Horizontal, opts)
	Place(&plan, box, AlignLeft, opts.PaddingPx)

	wantTop := 4 + (72-22)/2.0
	if got := plan.Lines[0].Y; got != wantTop {
		t.Errorf("first line Y = %v, want %v", got, wantTop)
	}
	if got := plan.Lines[1].Y; got != wantTop+12 {
		t.Errorf("second line Y = %v, want %v", got, wantTop+12)
	}
}

func TestPlaceVerticalColumnsRightToLeft(t *testing.T) {
	box := image.Rect(0, 0, 100, 44)
	opts := FitOptions{MinPx: 10, MaxPx: 10, PaddingPx: 2, SizeHint: 10}

	// Writable 96×40 at size 10: four runes per column of height 40, two
	// columns of width 6 with a 2px gap → block 14×40.
	plan := solvedPlan(t, "あいうえおかきく", box, Vertical, opts)
	Place(&plan, box, AlignLeft, opts.PaddingPx)

	if len(plan.Lines) != 2 {
		t.Fatalf("len(Lines) = %d, want 2", len(plan.Lines))
	}

	first, second := plan.Lines[0], plan.Lines[1]
	if first.X <= second.X {
		t.Errorf("reading order broken: first column X %v must be right of second %v", first.X, second.X)
	}

	// Block centered horizontally: left edge at 2 + (96-14)/2 = 43.
	if second.X != 43 {
		t.Errorf("leftmost column X = %v, want 43", second.X)
	}
	if first.X != 43+6+2 {
		t.Errorf("rightmost column X = %v, want %v", first.X, 43+6+2.0)
	}

	// Left alignment anchors columns to the top of the writable area.
	if first.Y != 2 || second.Y != 2 {
		t.Errorf("column Y = %v/%v, want 2/2", first.Y, second.Y)
	}
}

func TestPlaceEmptyPlanIsNoop(t *testing.T) {
	plan := Plan{}
	Place(&plan, image.Rect(0, 0, 10, 10), AlignCenter, 2)
	if !plan.Empty() {
		t.Errorf("plan gained lines: %+v", plan)
	}
}
