// Package typeset implements the box-constrained text layout engine:
// measuring text, breaking it into lines, solving for the largest font size
// that fits a region, and placing the solved lines at pixel coordinates.
//
// All operations are pure computations over their inputs — the same text,
// box, and font always produce the same layout, which is what lets the
// editor preview a region without re-running translation.
package typeset

// Orientation selects the reading direction of a region.
type Orientation string

const (
	// Horizontal text reads left-to-right in rows.
	Horizontal Orientation = "horizontal"
	// Vertical text reads top-to-bottom in columns, columns right-to-left.
	Vertical Orientation = "vertical"
)

// Alignment anchors lines inside the padded box. For vertical text the
// same values anchor columns along the vertical axis (left = top,
// right = bottom).
type Alignment string

const (
	AlignLeft   Alignment = "left"
	AlignCenter Alignment = "center"
	AlignRight  Alignment = "right"
)

// Line is one laid-out line of text. For Vertical orientation a Line is a
// column and Text holds its runes in top-to-bottom order.
//
// X and Y are the pixel origin of the line's top-left corner, filled in by
// Place. Rasterizers add the face ascent themselves when positioning the
// baseline dot.
type Line struct {
	Text   string  `json:"text"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

// Plan is the solved layout for one region: the chosen font size, the
// broken lines, and (after Place) their pixel origins. A Plan with no
// lines means the region has no text to render.
type Plan struct {
	FontFamily  string      `json:"fontFamily"`
	FontSizePx  int         `json:"fontSizePx"`
	Orientation Orientation `json:"orientation"`
	Lines       []Line      `json:"lines,omitempty"`

	// LineGap is the extra leading between lines (between columns for
	// vertical text) at the chosen size.
	LineGap float64 `json:"lineGap"`

	// BlockWidth and BlockHeight are the extents of the whole line block.
	BlockWidth  float64 `json:"blockWidth"`
	BlockHeight float64 `json:"blockHeight"`

	// Overflow is set when no size in the allowed range fits the text, or
	// when a pinned size hint turned out to be infeasible. The text is
	// still laid out — never dropped — so the caller can surface a marker.
	Overflow bool `json:"overflow"`

	// HadForcedBreak is set when a single token wider than the available
	// extent had to be placed alone on its own line.
	HadForcedBreak bool `json:"hadForcedBreak"`
}

// Empty reports whether the plan has nothing to render.
func (p Plan) Empty() bool {
	return len(p.Lines) == 0
}
