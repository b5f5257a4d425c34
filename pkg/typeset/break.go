// break.go — Greedy line breaking for horizontal rows and vertical columns.
package typeset

import "strings"

// BreakLines wraps text into lines no wider than maxWidth using greedy
// word wrap: whitespace-delimited tokens accumulate onto the current line
// while the measured width of "current + space + token" stays within
// maxWidth, otherwise the token starts a new line.
//
// A single token wider than maxWidth is placed alone on its own line — a
// token is never split mid-word — and the forced flag is set so the fit
// solver can treat that size as an overflow candidate. Explicit newlines in
// the text are honored as hard breaks.
func BreakLines(m Measurer, family string, sizePx float64, text string, maxWidth float64) ([]Line, bool, error) {
	var (
		lines  []Line
		forced bool
	)

	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			continue
		}

		current := words[0]
		for _, word := range words[1:] {
			candidate := current + " " + word
			ext, err := m.Measure(family, sizePx, candidate)
			if err != nil {
				return nil, false, err
			}
			if ext.Width <= maxWidth {
				current = candidate
				continue
			}

			line, wide, err := measuredLine(m, family, sizePx, current, maxWidth)
			if err != nil {
				return nil, false, err
			}
			forced = forced || wide
			lines = append(lines, line)
			current = word
		}

		line, wide, err := measuredLine(m, family, sizePx, current, maxWidth)
		if err != nil {
			return nil, false, err
		}
		forced = forced || wide
		lines = append(lines, line)
	}

	return lines, forced, nil
}

// measuredLine measures one finished line and reports whether it exceeds
// the allowed width (only possible for a lone oversized token).
func measuredLine(m Measurer, family string, sizePx float64, text string, maxWidth float64) (Line, bool, error) {
	ext, err := m.Measure(family, sizePx, text)
	if err != nil {
		return Line{}, false, err
	}
	return Line{Text: text, Width: ext.Width, Height: ext.Height}, ext.Width > maxWidth, nil
}

// BreakColumns wraps text into vertical columns no taller than maxHeight.
// The roles of width and height swap relative to BreakLines: runes stack
// top-to-bottom within a column and a new column starts when the next rune
// would exceed maxHeight. The returned lines are columns in reading order —
// first line is the rightmost column; Place assigns x positions
// right-to-left. Spaces are dropped (vertical CJK text carries no word
// gaps); newlines force a column break.
func BreakColumns(m Measurer, family string, sizePx float64, text string, maxHeight float64) ([]Line, bool, error) {
	var (
		cols   []Line
		forced bool

		colRunes  []rune
		colHeight float64
		colWidth  float64
	)

	flush := func() {
		if len(colRunes) == 0 {
			return
		}
		cols = append(cols, Line{
			Text:   string(colRunes),
			Width:  colWidth,
			Height: colHeight,
		})
		colRunes = nil
		colHeight = 0
		colWidth = 0
	}

	for _, r := range text {
		if r == '\n' {
			flush()
			continue
		}
		if r == ' ' || r == '\t' {
			continue
		}

		ext, err := m.Measure(family, sizePx, string(r))
		if err != nil {
			return nil, false, err
		}

		if len(colRunes) > 0 && colHeight+ext.Height > maxHeight {
			flush()
		}
		if ext.Height > maxHeight {
			forced = true
		}

		colRunes = append(colRunes, r)
		colHeight += ext.Height
		if ext.Width > colWidth {
			colWidth = ext.Width
		}
	}
	flush()

	return cols, forced, nil
}
