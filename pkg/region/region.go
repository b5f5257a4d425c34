// Package region maintains the ledger of detected text regions as they
// move through the detect → edit → render pipeline. The ledger is the only
// shared mutable state in the system: it serializes all mutations behind
// one lock, stamps every entry with a version, and caches each region's
// solved render plan, recomputing lazily when a relevant field changed.
package region

import (
	"image"

	"github.com/S0HElL/TL-pipeline/pkg/typeset"
)

// ID identifies a region. IDs are assigned at detection time, increase
// monotonically, and are never reused within a session; deleting a region
// retires its ID. Monotonic IDs also give the mask builder a deterministic
// iteration order, which the byte-identical-mask requirement depends on.
type ID int64

// Style carries the user-adjustable presentation of a region's text.
type Style struct {
	FontFamily string `json:"fontFamily"`

	// FontSizeHint pins the font size in pixels; 0 lets the fit solver
	// search. A pinned size that does not fit is reported as overflow
	// rather than silently overridden.
	FontSizeHint int `json:"fontSizeHint,omitempty"`

	// Color is the text fill as "#rrggbb".
	Color string `json:"color"`

	Alignment typeset.Alignment `json:"alignment"`
}

// DefaultStyle returns the style new regions start with.
func DefaultStyle() Style {
	return Style{
		FontFamily: typeset.DefaultFamily,
		Color:      "#000000",
		Alignment:  typeset.AlignCenter,
	}
}

// Region is one detected or edited text area. Values of this type are
// immutable snapshots — all mutation goes through the Ledger.
type Region struct {
	ID ID `json:"id"`

	// SourceBox is the rectangle as originally detected. It never changes
	// after creation.
	SourceBox image.Rectangle `json:"sourceBox"`

	// EditBox starts equal to SourceBox and moves only by explicit editor
	// action. Always non-empty.
	EditBox image.Rectangle `json:"editBox"`

	SourceText     string `json:"sourceText"`
	TranslatedText string `json:"translatedText"`

	Orientation typeset.Orientation `json:"orientation"`
	Style       Style               `json:"style"`
}

// Planner solves the layout for one region snapshot. Implementations must
// be pure: the ledger may call Plan concurrently for different regions and
// discards results that raced with a newer edit.
type Planner interface {
	Plan(Region) (typeset.Plan, error)
}
