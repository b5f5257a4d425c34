//go:build ocr

// tesseract.go — Detection backed by the Tesseract engine via gosseract.
// Requires Tesseract installed on the system and the "ocr" build tag:
//
//	go build -tags ocr
//
// On macOS: brew install tesseract. On Ubuntu/Debian:
// apt-get install tesseract-ocr (plus language data, e.g.
// tesseract-ocr-jpn and tesseract-ocr-jpn-vert for manga).
package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"

	"github.com/otiai10/gosseract/v2"
)

// Client wraps Tesseract for text-block detection.
type Client struct {
	client *gosseract.Client
}

// New creates a Tesseract-backed detector. Close it to release the engine.
func New(lang string) (*Client, error) {
	c := gosseract.NewClient()
	if lang != "" {
		if err := c.SetLanguage(lang); err != nil {
			c.Close()
			return nil, fmt.Errorf("set language %q: %w", lang, err)
		}
	}
	return &Client{client: c}, nil
}

// Close releases the Tesseract engine.
func (c *Client) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// Detect implements Detector: it runs block-level page segmentation and
// returns one detection per text block, with a geometry-based vertical
// orientation guess.
func (c *Client) Detect(ctx context.Context, img image.Image) ([]Detection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode page for detection: %w", err)
	}
	if err := c.client.SetImageFromBytes(buf.Bytes()); err != nil {
		return nil, fmt.Errorf("set detection image: %w", err)
	}

	blocks, err := c.client.GetBoundingBoxes(gosseract.RIL_BLOCK)
	if err != nil {
		return nil, fmt.Errorf("detect text blocks: %w", err)
	}

	dets := make([]Detection, 0, len(blocks))
	for _, b := range blocks {
		box := image.Rect(b.Box.Min.X, b.Box.Min.Y, b.Box.Max.X, b.Box.Max.Y)
		if box.Empty() {
			continue
		}
		dets = append(dets, Detection{
			Box:        box,
			Text:       b.Word,
			Vertical:   looksVertical(box),
			Confidence: b.Confidence,
		})
	}
	return dets, nil
}
