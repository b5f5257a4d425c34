// planner.go - Bridges the region table to the typesetter: each region's
// text, box, orientation and style become one fit-and-place solve.
package pipeline

import (
	"github.com/S0HElL/TL-pipeline/pkg/region"
	"github.com/S0HElL/TL-pipeline/pkg/typeset"
)

type fitPlanner struct {
	measurer typeset.Measurer
	opts     typeset.FitOptions
}

// NewPlanner returns a planner that solves a region's layout with the
// given measurer. A region's style may pin the font size; everything else
// comes from opts.
func NewPlanner(m typeset.Measurer, opts typeset.FitOptions) region.Planner {
	return fitPlanner{measurer: m, opts: opts}
}

// Plan implements region.Planner.
func (p fitPlanner) Plan(r region.Region) (typeset.Plan, error) {
	opts := p.opts
	opts.SizeHint = r.Style.FontSizeHint

	plan, err := typeset.Fit(p.measurer, r.TranslatedText, r.Style.FontFamily, r.EditBox, r.Orientation, opts)
	if err != nil {
		return typeset.Plan{}, err
	}
	typeset.Place(&plan, r.EditBox, r.Style.Alignment, opts.PaddingPx)
	return plan, nil
}
