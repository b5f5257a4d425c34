// Package session saves and restores editing sessions as ZIP bundles.
//
// A .tlsession bundle contains the original page (page.png), the cleaned
// page if inpainting has run (cleaned.png), and regions.json with every
// region's boxes, text and style, so a page can be reopened for further
// editing with nothing recomputed from scratch.
package session

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/S0HElL/TL-pipeline/pkg/region"
)

const (
	pageEntry    = "page.png"
	cleanedEntry = "cleaned.png"
	regionsEntry = "regions.json"
)

// Session is the editable state of one page.
type Session struct {
	Page    image.Image
	Cleaned image.Image // nil until inpainting has run
	Regions []region.Region
}

// Save writes the session to a .tlsession bundle at path.
func Save(path string, s *Session) error {
	if s.Page == nil {
		return fmt.Errorf("session has no page image")
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := zip.NewWriter(f)

	if err := writeImage(w, pageEntry, s.Page); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if s.Cleaned != nil {
		if err := writeImage(w, cleanedEntry, s.Cleaned); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}

	data, err := json.MarshalIndent(s.Regions, "", "  ")
	if err != nil {
		return fmt.Errorf("encode regions: %w", err)
	}
	entry, err := w.Create(regionsEntry)
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if _, err := entry.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	if err := w.Close(); err != nil {
		return fmt.Errorf("finalize %s: %w", path, err)
	}
	return f.Sync()
}

// Load opens a .tlsession bundle and restores the session.
func Load(path string) (*Session, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer r.Close()

	var s Session
	for _, f := range r.File {
		switch f.Name {
		case pageEntry:
			if s.Page, err = readImage(f); err != nil {
				return nil, fmt.Errorf("read %s: %w", path, err)
			}
		case cleanedEntry:
			if s.Cleaned, err = readImage(f); err != nil {
				return nil, fmt.Errorf("read %s: %w", path, err)
			}
		case regionsEntry:
			data, err := readAll(f)
			if err != nil {
				return nil, fmt.Errorf("read %s: %w", path, err)
			}
			if err := json.Unmarshal(data, &s.Regions); err != nil {
				return nil, fmt.Errorf("parse regions.json: %w", err)
			}
		}
	}

	if s.Page == nil {
		return nil, fmt.Errorf("%s: bundle has no %s", path, pageEntry)
	}
	return &s, nil
}

func writeImage(w *zip.Writer, name string, img image.Image) error {
	entry, err := w.Create(name)
	if err != nil {
		return err
	}
	return png.Encode(entry, img)
}

func readImage(f *zip.File) (image.Image, error) {
	data, err := readAll(f)
	if err != nil {
		return nil, err
	}
	return png.Decode(bytes.NewReader(data))
}

func readAll(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(rc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
