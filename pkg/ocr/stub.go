//go:build !ocr

// stub.go — Detection stub used when the "ocr" build tag is not set.
// All operations return ErrNotEnabled; rebuild with -tags ocr (and
// Tesseract installed) to enable real detection.
package ocr

import (
	"context"
	"errors"
	"image"
)

// ErrNotEnabled is returned when detection is requested but OCR support
// was not compiled in. Rebuild with -tags ocr to enable it.
var ErrNotEnabled = errors.New("ocr: detection not enabled; rebuild with -tags ocr")

// Client is a stub detector that fails every operation.
type Client struct{}

// New returns an error indicating OCR support is not enabled.
func New(lang string) (*Client, error) {
	return nil, ErrNotEnabled
}

// Close is a no-op; safe on a nil client.
func (c *Client) Close() error { return nil }

// Detect returns ErrNotEnabled.
func (c *Client) Detect(ctx context.Context, img image.Image) ([]Detection, error) {
	return nil, ErrNotEnabled
}
