// Package export writes finished pages to disk.
//
// The format is inferred from the file extension; PNG is the lossless
// default, BMP and JPEG cover pipelines that feed the pages into tools
// with narrower format support.
package export

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"golang.org/x/image/bmp"
)

// Write saves img to the given path. The format is inferred from the file
// extension:
//   - ".png" → PNG image
//   - ".bmp" → 24-bit uncompressed BMP
//   - ".jpg" / ".jpeg" → JPEG at quality 95
func Write(path string, img image.Image) error {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".png":
		return writeFile(path, img, png.Encode)
	case ".bmp":
		return writeFile(path, img, bmp.Encode)
	case ".jpg", ".jpeg":
		if err := imaging.Save(img, path, imaging.JPEGQuality(95)); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported format %q: use .png, .bmp or .jpg", ext)
	}
}

// WriteTo encodes img to an io.Writer. The format is specified by ext
// (".png" or ".bmp"). This is useful for streaming pages over HTTP.
func WriteTo(w io.Writer, ext string, img image.Image) error {
	switch strings.ToLower(ext) {
	case ".png":
		return png.Encode(w, img)
	case ".bmp":
		return bmp.Encode(w, img)
	default:
		return fmt.Errorf("unsupported format %q: use .png or .bmp", ext)
	}
}

func writeFile(path string, img image.Image, encode func(io.Writer, image.Image) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	if err := encode(f, img); err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return f.Sync()
}
