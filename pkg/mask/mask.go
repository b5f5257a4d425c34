// Package mask builds the binary erasure raster handed to the inpainting
// step: every region's edit box, padded, clamped to the canvas, dilated,
// and unioned into a single one-channel image. The mask is always rebuilt
// from the full region set — never patched incrementally — so overlapping
// boxes merge into one connected erasure area instead of leaving seams,
// and identical inputs always produce byte-identical output.
package mask

import (
	"image"
	"image/color"
	"log/slog"
)

// Erase and Keep are the two mask pixel values.
const (
	Keep  uint8 = 0
	Erase uint8 = 255
)

// Options control how far the erasure area extends past each edit box.
type Options struct {
	// PaddingPx expands every box on all sides before rasterization, so
	// the inpainter also repaints the glyph anti-aliasing halo.
	PaddingPx int `json:"paddingPx"`

	// DilationPx is the morphological dilation radius applied to each
	// padded box's footprint, rounding its corners and softening edges
	// for the inpainting model.
	DilationPx int `json:"dilationPx"`
}

// DefaultOptions matches the padding the pipeline has always used for
// erasure masks.
func DefaultOptions() Options {
	return Options{PaddingPx: 10, DilationPx: 2}
}

// Build rasterizes the given edit boxes into an erasure mask with the same
// dimensions as the source canvas. Boxes that clamp to a zero-area
// rectangle at the canvas edge are skipped with a logged note rather than
// propagated. Overlapping or touching footprints union naturally: a pixel
// is Erase if any box claims it.
func Build(boxes []image.Rectangle, canvas image.Rectangle, opts Options, logger *slog.Logger) *image.Gray {
	if logger == nil {
		logger = slog.Default()
	}

	out := image.NewGray(canvas)
	for _, box := range boxes {
		padded := box.Inset(-opts.PaddingPx)
		clamped := padded.Intersect(canvas)
		if clamped.Empty() {
			logger.Info("mask: box outside canvas after clamping, skipped",
				"box", box.String(), "padded", padded.String())
			continue
		}
		stampDilated(out, clamped, opts.DilationPx, canvas)
	}
	return out
}

// stampDilated sets every pixel within Euclidean distance radius of rect
// to Erase — the dilation of an axis-aligned rectangle by a disk, which is
// the rectangle grown by the radius with quarter-circle corners. Computing
// the shape directly keeps the stamp exact and cheap compared to a
// per-pixel neighborhood sweep.
func stampDilated(dst *image.Gray, rect image.Rectangle, radius int, canvas image.Rectangle) {
	grown := rect.Inset(-radius).Intersect(canvas)
	r2 := radius * radius

	for y := grown.Min.Y; y < grown.Max.Y; y++ {
		dy := 0
		if y < rect.Min.Y {
			dy = rect.Min.Y - y
		} else if y >= rect.Max.Y {
			dy = y - rect.Max.Y + 1
		}
		for x := grown.Min.X; x < grown.Max.X; x++ {
			dx := 0
			if x < rect.Min.X {
				dx = rect.Min.X - x
			} else if x >= rect.Max.X {
				dx = x - rect.Max.X + 1
			}
			if dx*dx+dy*dy <= r2 {
				dst.SetGray(x, y, color.Gray{Y: Erase})
			}
		}
	}
}
