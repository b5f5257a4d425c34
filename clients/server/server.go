// Package server provides the interactive page editor HTTP API. A page is
// opened once per server, edited through the region endpoints, and
// re-rendered on demand; the mask and preview endpoints always reflect
// the latest edits.
package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"sync"

	"github.com/disintegration/imaging"

	"github.com/S0HElL/TL-pipeline/pkg/export"
	"github.com/S0HElL/TL-pipeline/pkg/mask"
	"github.com/S0HElL/TL-pipeline/pkg/pipeline"
	"github.com/S0HElL/TL-pipeline/pkg/region"
	"github.com/S0HElL/TL-pipeline/pkg/session"
	"github.com/S0HElL/TL-pipeline/pkg/typeset"
)

// ── Server ──

type srv struct {
	pipe   *pipeline.Pipeline
	opts   pipeline.Options
	logger *slog.Logger

	mu   sync.Mutex
	page image.Image // nil until a page is opened
}

// New builds the editor API handler around a configured pipeline.
func New(pipe *pipeline.Pipeline, opts pipeline.Options, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	s := &srv{pipe: pipe, opts: opts, logger: logger}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/open", s.handleOpen)
	mux.HandleFunc("GET /api/regions", s.handleListRegions)
	mux.HandleFunc("GET /api/regions/{id}", s.handleGetRegion)
	mux.HandleFunc("PATCH /api/regions/{id}", s.handlePatchRegion)
	mux.HandleFunc("DELETE /api/regions/{id}", s.handleDeleteRegion)
	mux.HandleFunc("GET /api/mask.png", s.handleMask)
	mux.HandleFunc("GET /api/preview.png", s.handlePreview)
	mux.HandleFunc("GET /api/session", s.handleExportSession)
	mux.HandleFunc("POST /api/session", s.handleImportSession)
	return mux
}

// ListenAndServe runs the editor API on the given port.
func ListenAndServe(port string, pipe *pipeline.Pipeline, opts pipeline.Options, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	addr := ":" + port
	logger.Info("editor API listening", "addr", addr)
	return http.ListenAndServe(addr, New(pipe, opts, logger))
}

// ── Open ──

type openRequest struct {
	Path string `json:"path"`
}

// handleOpen loads a page, runs the full pipeline on it, and returns the
// detected regions. The page can come from a JSON body naming a path on
// the server, or from a multipart upload under the "file" field.
func (s *srv) handleOpen(w http.ResponseWriter, r *http.Request) {
	img, err := s.readPage(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if _, err := s.pipe.Process(r.Context(), img); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	s.mu.Lock()
	s.page = img
	s.mu.Unlock()

	writeJSON(w, s.pipe.Ledger().Snapshot())
}

func (s *srv) readPage(r *http.Request) (image.Image, error) {
	if file, _, err := r.FormFile("file"); err == nil {
		defer file.Close()
		img, err := imaging.Decode(file)
		if err != nil {
			return nil, fmt.Errorf("decode uploaded page: %w", err)
		}
		return img, nil
	}

	var req openRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Path == "" {
		return nil, fmt.Errorf("request needs a page upload or a path")
	}
	img, err := imaging.Open(req.Path)
	if err != nil {
		return nil, fmt.Errorf("open page %s: %w", req.Path, err)
	}
	return img, nil
}

// ── Regions ──

func (s *srv) handleListRegions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.pipe.Ledger().Snapshot())
}

// regionDetail pairs a region with its solved plan so the editor can show
// overflow and degenerate-box states without a separate render call.
type regionDetail struct {
	Region    region.Region `json:"region"`
	Plan      *typeset.Plan `json:"plan,omitempty"`
	PlanError string        `json:"planError,omitempty"`
}

func (s *srv) handleGetRegion(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	reg, found := s.pipe.Ledger().Get(id)
	if !found {
		http.NotFound(w, r)
		return
	}

	detail := regionDetail{Region: reg}
	if plan, err := s.pipe.Ledger().RenderPlan(id); err != nil {
		detail.PlanError = err.Error()
	} else {
		detail.Plan = &plan
	}
	writeJSON(w, detail)
}

// regionPatch carries the editable fields; absent fields are untouched.
type regionPatch struct {
	EditBox        *image.Rectangle     `json:"editBox"`
	TranslatedText *string              `json:"translatedText"`
	Orientation    *typeset.Orientation `json:"orientation"`
	Style          *region.Style        `json:"style"`
}

func (s *srv) handlePatchRegion(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var patch regionPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "decode patch: "+err.Error(), http.StatusBadRequest)
		return
	}

	ledger := s.pipe.Ledger()
	if _, found := ledger.Get(id); !found {
		http.NotFound(w, r)
		return
	}

	apply := func(err error) bool {
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return false
		}
		return true
	}
	if patch.EditBox != nil && !apply(ledger.SetEditBox(id, *patch.EditBox)) {
		return
	}
	if patch.TranslatedText != nil && !apply(ledger.SetTranslatedText(id, *patch.TranslatedText)) {
		return
	}
	if patch.Orientation != nil && !apply(ledger.SetOrientation(id, *patch.Orientation)) {
		return
	}
	if patch.Style != nil && !apply(ledger.SetStyle(id, *patch.Style)) {
		return
	}

	reg, _ := ledger.Get(id)
	writeJSON(w, reg)
}

func (s *srv) handleDeleteRegion(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if _, found := s.pipe.Ledger().Get(id); !found {
		http.NotFound(w, r)
		return
	}
	s.pipe.Ledger().Delete(id)
	writeJSON(w, map[string]any{"status": "deleted", "id": id})
}

// ── Rendering ──

func (s *srv) handleMask(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	page := s.page
	s.mu.Unlock()
	if page == nil {
		http.Error(w, "no page open", http.StatusConflict)
		return
	}

	m := mask.Build(s.pipe.Ledger().EditBoxes(), page.Bounds(), s.opts.Mask, s.logger)
	w.Header().Set("Content-Type", "image/png")
	if err := export.WriteTo(w, ".png", m); err != nil {
		s.logger.Error("stream mask", "error", err)
	}
}

func (s *srv) handlePreview(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	page := s.page
	s.mu.Unlock()
	if page == nil {
		http.Error(w, "no page open", http.StatusConflict)
		return
	}

	res, err := s.pipe.Compose(r.Context(), page)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	if err := export.WriteTo(w, ".png", res.Final); err != nil {
		s.logger.Error("stream preview", "error", err)
	}
}

// ── Session bundles ──

func (s *srv) handleExportSession(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	page := s.page
	s.mu.Unlock()
	if page == nil {
		http.Error(w, "no page open", http.StatusConflict)
		return
	}

	tmp, err := os.CreateTemp("", "session-*.tlsession")
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	tmp.Close()
	defer os.Remove(tmp.Name())

	bundle := &session.Session{Page: page, Regions: s.pipe.Ledger().Snapshot()}
	if err := session.Save(tmp.Name(), bundle); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	data, err := os.ReadFile(tmp.Name())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="page.tlsession"`)
	w.Write(data)
}

func (s *srv) handleImportSession(w http.ResponseWriter, r *http.Request) {
	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "no file uploaded", http.StatusBadRequest)
		return
	}
	defer file.Close()

	tmp, err := os.CreateTemp("", "session-*.tlsession")
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.ReadFrom(file); err != nil {
		tmp.Close()
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	tmp.Close()

	bundle, err := session.Load(tmp.Name())
	if err != nil {
		http.Error(w, "invalid session bundle: "+err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	s.page = bundle.Page
	s.mu.Unlock()
	s.pipe.Ledger().Reset()
	s.pipe.Ledger().Restore(bundle.Regions)

	writeJSON(w, s.pipe.Ledger().Snapshot())
}

// ── Helpers ──

func parseID(w http.ResponseWriter, r *http.Request) (region.ID, bool) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		http.Error(w, "invalid region id: "+raw, http.StatusBadRequest)
		return 0, false
	}
	return region.ID(id), true
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Write(buf.Bytes())
}
