// Package ocr provides the text-region detection collaborator: it finds
// the source-language text blocks on a page and hands the core their
// bounding boxes and raw text as append-only seed data. The engine itself
// never depends on the detection backend — anything implementing Detector
// can seed the region ledger.
package ocr

import (
	"context"
	"image"
	"sort"
	"strings"
)

// Detection is one detected text block.
type Detection struct {
	Box        image.Rectangle `json:"box"`
	Text       string          `json:"text"`
	Vertical   bool            `json:"vertical"`
	Confidence float64         `json:"confidence"`
}

// Detector locates text blocks on a page image.
type Detector interface {
	Detect(ctx context.Context, img image.Image) ([]Detection, error)
}

// DefaultGroupGapPx is the vertical proximity within which detections are
// considered lines of the same speech bubble.
const DefaultGroupGapPx = 50

// GroupDetections merges detections that are vertically close into single
// translation units: detections are sorted top-to-bottom then
// left-to-right, and a detection whose top edge sits within gapPx below
// the previous one's bottom edge joins its group. Each group becomes one
// detection with the union box and the texts joined in reading order, so
// multi-line bubbles translate as one context-aware unit instead of line
// by line.
func GroupDetections(dets []Detection, gapPx int) []Detection {
	if len(dets) == 0 {
		return nil
	}

	sorted := make([]Detection, len(dets))
	copy(sorted, dets)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Box.Min.Y != sorted[j].Box.Min.Y {
			return sorted[i].Box.Min.Y < sorted[j].Box.Min.Y
		}
		return sorted[i].Box.Min.X < sorted[j].Box.Min.X
	})

	var groups [][]Detection
	current := []Detection{sorted[0]}
	for _, d := range sorted[1:] {
		prev := current[len(current)-1]
		gap := d.Box.Min.Y - prev.Box.Max.Y
		if gap >= 0 && gap <= gapPx {
			current = append(current, d)
			continue
		}
		groups = append(groups, current)
		current = []Detection{d}
	}
	groups = append(groups, current)

	out := make([]Detection, 0, len(groups))
	for _, g := range groups {
		out = append(out, mergeGroup(g))
	}
	return out
}

// mergeGroup folds one group into a single detection: union box, joined
// text, lowest confidence, vertical if any member was vertical.
func mergeGroup(g []Detection) Detection {
	merged := g[0]
	texts := make([]string, 0, len(g))
	if s := strings.TrimSpace(g[0].Text); s != "" {
		texts = append(texts, s)
	}

	for _, d := range g[1:] {
		merged.Box = merged.Box.Union(d.Box)
		if s := strings.TrimSpace(d.Text); s != "" {
			texts = append(texts, s)
		}
		if d.Confidence < merged.Confidence {
			merged.Confidence = d.Confidence
		}
		merged.Vertical = merged.Vertical || d.Vertical
	}

	merged.Text = strings.Join(texts, " ")
	return merged
}

// looksVertical reports whether a detected box is likely a vertical text
// column. Tesseract reports geometry only, so a tall narrow block is the
// best available signal for CJK column text.
func looksVertical(box image.Rectangle) bool {
	return box.Dy() > 2*box.Dx()
}
