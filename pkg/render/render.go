// render.go - Rasterizes typeset plans onto the cleaned page.
// Draws each line at its solved position with a white outline so text
// stays readable over busy artwork, and handles vertical plans by
// stacking runes down each column.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log/slog"
	"strconv"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/S0HElL/TL-pipeline/pkg/region"
	"github.com/S0HElL/TL-pipeline/pkg/typeset"
)

// Renderer draws typeset plans onto images.
type Renderer struct {
	fonts        *typeset.FontManager
	OutlineWidth int
	OutlineColor color.Color
	logger       *slog.Logger
}

// NewRenderer creates a renderer with a 2px white outline.
func NewRenderer(fonts *typeset.FontManager, logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{
		fonts:        fonts,
		OutlineWidth: 2,
		OutlineColor: color.White,
		logger:       logger,
	}
}

// Draw renders the plan for one region onto dst. Overflowing plans are
// still drawn at their minimum size, with the region outlined so an
// editor can spot text that did not fit.
func (r *Renderer) Draw(dst draw.Image, reg region.Region, plan typeset.Plan) error {
	if plan.Empty() {
		return nil
	}

	face, err := r.fonts.Face(plan.FontFamily, float64(plan.FontSizePx))
	if err != nil {
		return fmt.Errorf("region %d: %w", reg.ID, err)
	}
	ascent, err := r.fonts.Ascent(plan.FontFamily, float64(plan.FontSizePx))
	if err != nil {
		return fmt.Errorf("region %d: %w", reg.ID, err)
	}

	textColor := parseHexColor(reg.Style.Color)

	for _, line := range plan.Lines {
		if plan.Orientation == typeset.Vertical {
			if err := r.drawColumn(dst, face, line, ascent, textColor, plan); err != nil {
				return fmt.Errorf("region %d: %w", reg.ID, err)
			}
			continue
		}
		baseline := int(line.Y + ascent + 0.5)
		r.drawOutlined(dst, face, line.Text, int(line.X+0.5), baseline, textColor)
	}

	if plan.Overflow {
		r.logger.Warn("text overflows region, drawn at minimum size", "region", reg.ID)
		StrokeRect(dst, reg.EditBox, color.RGBA{R: 220, A: 255}, 1)
	}
	return nil
}

// drawColumn draws one vertical column rune by rune, each rune centered
// on the column's width.
func (r *Renderer) drawColumn(dst draw.Image, face font.Face, line typeset.Line, ascent float64, col color.Color, plan typeset.Plan) error {
	y := line.Y
	for _, rn := range line.Text {
		ext, err := r.fonts.Measure(plan.FontFamily, float64(plan.FontSizePx), string(rn))
		if err != nil {
			return err
		}
		x := line.X + (line.Width-ext.Width)/2
		r.drawOutlined(dst, face, string(rn), int(x+0.5), int(y+ascent+0.5), col)
		y += ext.Height
	}
	return nil
}

// drawOutlined draws text with an outline halo under it. The halo is the
// same string drawn at every offset within the outline width.
func (r *Renderer) drawOutlined(dst draw.Image, face font.Face, text string, x, y int, col color.Color) {
	w := r.OutlineWidth
	if w > 0 {
		for dy := -w; dy <= w; dy++ {
			for dx := -w; dx <= w; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				drawString(dst, face, text, x+dx, y+dy, r.OutlineColor)
			}
		}
	}
	drawString(dst, face, text, x, y, col)
}

// drawString draws text at the specified baseline position.
func drawString(dst draw.Image, face font.Face, text string, x, y int, col color.Color) {
	drawer := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	drawer.DrawString(text)
}

// StrokeRect draws the border of rect with the given stroke width,
// clipped to dst's bounds.
func StrokeRect(dst draw.Image, rect image.Rectangle, col color.Color, width int) {
	outer := rect.Intersect(dst.Bounds())
	if outer.Empty() {
		return
	}
	inner := outer.Inset(width)
	for y := outer.Min.Y; y < outer.Max.Y; y++ {
		for x := outer.Min.X; x < outer.Max.X; x++ {
			if !(image.Pt(x, y).In(inner)) {
				dst.Set(x, y, col)
			}
		}
	}
}

// parseHexColor converts a "#rrggbb" color string to color.RGBA.
func parseHexColor(hex string) color.RGBA {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return color.RGBA{A: 255} // Default black
	}

	r, _ := strconv.ParseUint(hex[0:2], 16, 8)
	g, _ := strconv.ParseUint(hex[2:4], 16, 8)
	b, _ := strconv.ParseUint(hex[4:6], 16, 8)

	return color.RGBA{uint8(r), uint8(g), uint8(b), 255}
}
