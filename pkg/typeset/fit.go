// fit.go — The fit solver: binary search for the largest font size whose
// wrapped lines fit a region's padded box.
package typeset

import (
	"errors"
	"fmt"
	"image"
	"strings"
)

// ErrDegenerateBox is returned when a box collapses to a non-positive
// writable area after padding subtraction. Callers skip such regions from
// rendering and flag them instead of producing a degenerate layout.
var ErrDegenerateBox = errors.New("typeset: box has no writable area after padding")

// FitOptions bound the fit solver's search.
type FitOptions struct {
	MinPx     int `json:"minPx"`
	MaxPx     int `json:"maxPx"`
	PaddingPx int `json:"paddingPx"`

	// SizeHint pins the font size. When set, the solver uses it as the
	// requested size and only searches when that size is infeasible,
	// reporting overflow so the user who pinned the size gets a warning
	// instead of a silent override.
	SizeHint int `json:"sizeHint,omitempty"`
}

// DefaultFitOptions mirrors the size range and inner padding the
// surrounding pipeline has always used for dialogue regions.
func DefaultFitOptions() FitOptions {
	return FitOptions{MinPx: 10, MaxPx: 50, PaddingPx: 5}
}

// Fit chooses the largest feasible font size for text inside box and
// returns the resulting (unplaced) plan. When no size in range fits, the
// plan uses MinPx with Overflow set — the text is never dropped.
//
// The search is a binary search over integer sizes: wrapped extent grows
// monotonically with size, so feasibility is monotone and the search
// converges on the largest feasible size deterministically. Equal-largest
// ties from discrete stepping resolve toward the larger size.
func Fit(m Measurer, text, family string, box image.Rectangle, o Orientation, opts FitOptions) (Plan, error) {
	plan := Plan{FontFamily: family, Orientation: o}

	availW := float64(box.Dx() - 2*opts.PaddingPx)
	availH := float64(box.Dy() - 2*opts.PaddingPx)
	if availW <= 0 || availH <= 0 {
		return plan, fmt.Errorf("%w: box %v with padding %d", ErrDegenerateBox, box, opts.PaddingPx)
	}

	if strings.TrimSpace(text) == "" {
		return plan, nil
	}
	if opts.MinPx <= 0 || opts.MaxPx < opts.MinPx {
		return plan, fmt.Errorf("typeset: invalid size range [%d, %d]", opts.MinPx, opts.MaxPx)
	}

	if opts.SizeHint > 0 {
		attempt, ok, err := layoutAt(m, text, family, o, opts.SizeHint, availW, availH)
		if err != nil {
			return plan, err
		}
		if ok {
			attempt.FontFamily = family
			return attempt, nil
		}
		// Pinned size does not fit: fall back to the search but keep the
		// overflow flag raised so the caller can warn.
		searched, err := search(m, text, family, o, opts, availW, availH)
		if err != nil {
			return plan, err
		}
		searched.Overflow = true
		return searched, nil
	}

	return search(m, text, family, o, opts, availW, availH)
}

// search runs the binary search over [MinPx, MaxPx].
func search(m Measurer, text, family string, o Orientation, opts FitOptions, availW, availH float64) (Plan, error) {
	var best *Plan

	lo, hi := opts.MinPx, opts.MaxPx
	for lo <= hi {
		mid := (lo + hi) / 2
		attempt, ok, err := layoutAt(m, text, family, o, mid, availW, availH)
		if err != nil {
			return Plan{}, err
		}
		if ok {
			best = &attempt
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}

	if best == nil {
		// Nothing in range fits: lay out at the minimum size and report
		// overflow rather than dropping text.
		attempt, _, err := layoutAt(m, text, family, o, opts.MinPx, availW, availH)
		if err != nil {
			return Plan{}, err
		}
		attempt.Overflow = true
		best = &attempt
	}

	best.FontFamily = family
	return *best, nil
}

// layoutAt breaks text at one candidate size and reports feasibility:
// the widest line fits the available width and the stacked block — line
// heights plus inter-line gaps — fits the available height. For vertical
// orientation the axes swap.
func layoutAt(m Measurer, text, family string, o Orientation, sizePx int, availW, availH float64) (Plan, bool, error) {
	plan := Plan{FontSizePx: sizePx, Orientation: o}

	gapProbe, err := m.Measure(family, float64(sizePx), "M")
	if err != nil {
		return plan, false, err
	}
	plan.LineGap = gapProbe.LineGap

	if o == Vertical {
		cols, forced, err := BreakColumns(m, family, float64(sizePx), text, availH)
		if err != nil {
			return plan, false, err
		}
		plan.Lines = cols
		plan.HadForcedBreak = forced

		var maxExtent, total float64
		for i, c := range cols {
			if c.Height > maxExtent {
				maxExtent = c.Height
			}
			total += c.Width
			if i > 0 {
				total += plan.LineGap
			}
		}
		plan.BlockWidth = total
		plan.BlockHeight = maxExtent
		return plan, maxExtent <= availH && total <= availW, nil
	}

	lines, forced, err := BreakLines(m, family, float64(sizePx), text, availW)
	if err != nil {
		return plan, false, err
	}
	plan.Lines = lines
	plan.HadForcedBreak = forced

	var maxExtent, total float64
	for i, l := range lines {
		if l.Width > maxExtent {
			maxExtent = l.Width
		}
		total += l.Height
		if i > 0 {
			total += plan.LineGap
		}
	}
	plan.BlockWidth = maxExtent
	plan.BlockHeight = total
	return plan, maxExtent <= availW && total <= availH, nil
}
