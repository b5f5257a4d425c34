package typeset

import "unicode/utf8"

// fakeMeasurer is a deterministic measurer for layout tests: every rune
// advances 0.6×size, a line is exactly size tall, and the gap is 0.2×size.
// Layout assertions become simple arithmetic instead of depending on a
// real font asset.
type fakeMeasurer struct{}

func (fakeMeasurer) Measure(family string, sizePx float64, text string) (Extents, error) {
	return Extents{
		Width:   0.6 * sizePx * float64(utf8.RuneCountInString(text)),
		Height:  sizePx,
		LineGap: 0.2 * sizePx,
	}, nil
}
