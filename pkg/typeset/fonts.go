// fonts.go — Font management with custom TTF/OTF support and embedded
// fallback font. Uses golang.org/x/image/font for OpenType parsing and
// measurement. Defaults to Go Regular when a family is unknown or a custom
// font fails to load.
package typeset

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// DefaultFamily is the family name of the embedded fallback font.
const DefaultFamily = "default"

type faceKey struct {
	family string
	sizePx float64
}

// FontManager loads fonts by family name and serves cached faces. It
// implements Measurer. Unknown families resolve to the default family with
// a warning logged once per family per session, not per call.
type FontManager struct {
	mu     sync.Mutex
	fonts  map[string]*opentype.Font
	faces  map[faceKey]font.Face
	warned map[string]bool
	logger *slog.Logger
}

// NewFontManager creates a font manager with the embedded Go Regular font
// registered as the default family.
func NewFontManager(logger *slog.Logger) (*FontManager, error) {
	if logger == nil {
		logger = slog.Default()
	}

	parsed, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse embedded font: %w", err)
	}

	return &FontManager{
		fonts:  map[string]*opentype.Font{DefaultFamily: parsed},
		faces:  make(map[faceKey]font.Face),
		warned: make(map[string]bool),
		logger: logger,
	}, nil
}

// LoadFont registers a TTF/OTF file under the given family name.
func (fm *FontManager) LoadFont(family, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read font %s: %w", path, err)
	}

	parsed, err := opentype.Parse(data)
	if err != nil {
		return fmt.Errorf("parse font %s: %w", path, err)
	}

	fm.mu.Lock()
	fm.fonts[family] = parsed
	fm.mu.Unlock()
	return nil
}

// Face returns a cached font.Face for the family at the given pixel size,
// falling back to the default family for unknown names.
func (fm *FontManager) Face(family string, sizePx float64) (font.Face, error) {
	if sizePx <= 0 {
		return nil, fmt.Errorf("font size %v: must be positive", sizePx)
	}

	fm.mu.Lock()
	defer fm.mu.Unlock()

	key := faceKey{family: family, sizePx: sizePx}
	if face, ok := fm.faces[key]; ok {
		return face, nil
	}

	parsed, ok := fm.fonts[family]
	if !ok {
		if !fm.warned[family] {
			fm.warned[family] = true
			fm.logger.Warn("unknown font family, using default", "family", family)
		}
		parsed = fm.fonts[DefaultFamily]
	}

	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    sizePx,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create font face: %w", err)
	}

	fm.faces[key] = face
	return face, nil
}

// Measure implements Measurer using the resolved face's metrics.
func (fm *FontManager) Measure(family string, sizePx float64, text string) (Extents, error) {
	face, err := fm.Face(family, sizePx)
	if err != nil {
		return Extents{}, err
	}

	adv := font.MeasureString(face, text)
	m := face.Metrics()

	ascDesc := m.Ascent + m.Descent
	gap := m.Height - ascDesc
	if gap < 0 {
		gap = 0
	}

	return Extents{
		Width:   fixedToFloat(adv),
		Height:  fixedToFloat(ascDesc),
		LineGap: fixedToFloat(gap),
	}, nil
}

// Ascent returns the ascent in pixels of the resolved face, used by
// rasterizers to convert a line's top origin into a baseline dot.
func (fm *FontManager) Ascent(family string, sizePx float64) (float64, error) {
	face, err := fm.Face(family, sizePx)
	if err != nil {
		return 0, err
	}
	return fixedToFloat(face.Metrics().Ascent), nil
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
