// metrics.go — The measurement contract the layout engine is built on.
package typeset

// Extents are the rendered dimensions of a string at a given font and size.
type Extents struct {
	Width   float64 // advance width in pixels
	Height  float64 // ascent + descent in pixels
	LineGap float64 // extra leading between consecutive lines
}

// Measurer reports rendered text extents for a font family at a pixel size.
//
// Implementations must be deterministic for a given font asset and must not
// depend on any rendering-surface state: the fit solver calls Measure many
// times while searching and relies on identical answers every time. Any
// backend that can answer this one question is substitutable — the engine
// has no other coupling to the font stack.
type Measurer interface {
	Measure(family string, sizePx float64, text string) (Extents, error)
}
