// place.go — Maps solved lines to pixel origins inside the padded box.
package typeset

import "image"

// Place assigns pixel origins to the plan's lines within box, honoring the
// alignment and the plan's orientation. Horizontal alignment anchors each
// line left / centered / right inside the padded box; the whole block is
// always centered top-to-bottom, which matches the natural reading
// expectation for dialogue. For vertical text the roles swap: the column
// block is centered left-to-right and alignment anchors columns along the
// vertical axis (left = top, right = bottom).
//
// Place only computes coordinates — rasterization is the rendering
// collaborator's job.
func Place(plan *Plan, box image.Rectangle, align Alignment, paddingPx int) {
	if plan.Empty() {
		return
	}

	inner := box.Inset(paddingPx)
	availW := float64(inner.Dx())
	availH := float64(inner.Dy())
	minX := float64(inner.Min.X)
	minY := float64(inner.Min.Y)

	if plan.Orientation == Vertical {
		// Columns: block centered horizontally, laid out right-to-left in
		// reading order.
		x := minX + (availW-plan.BlockWidth)/2 + plan.BlockWidth
		for i := range plan.Lines {
			col := &plan.Lines[i]
			x -= col.Width
			col.X = x
			x -= plan.LineGap

			switch align {
			case AlignRight:
				col.Y = minY + availH - col.Height
			case AlignCenter:
				col.Y = minY + (availH-col.Height)/2
			default:
				col.Y = minY
			}
		}
		return
	}

	y := minY + (availH-plan.BlockHeight)/2
	for i := range plan.Lines {
		line := &plan.Lines[i]
		switch align {
		case AlignCenter:
			line.X = minX + (availW-line.Width)/2
		case AlignRight:
			line.X = minX + availW - line.Width
		default:
			line.X = minX
		}
		line.Y = y
		y += line.Height + plan.LineGap
	}
}
