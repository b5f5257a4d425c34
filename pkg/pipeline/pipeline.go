// Package pipeline wires the full page flow: detect text regions, group
// them into bubbles, translate each region, mask and inpaint the source
// text, then typeset and draw the translations onto the cleaned page.
//
// Every collaborator sits behind an interface, so a run can mix a real
// OCR backend with an identity translator, or a learned inpainting model
// with the flat fill, without the orchestration changing.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log/slog"
	"sync"

	"github.com/disintegration/imaging"

	"github.com/S0HElL/TL-pipeline/pkg/inpaint"
	"github.com/S0HElL/TL-pipeline/pkg/mask"
	"github.com/S0HElL/TL-pipeline/pkg/ocr"
	"github.com/S0HElL/TL-pipeline/pkg/region"
	"github.com/S0HElL/TL-pipeline/pkg/render"
	"github.com/S0HElL/TL-pipeline/pkg/translate"
	"github.com/S0HElL/TL-pipeline/pkg/typeset"
)

// Options controls detection grouping, masking, fitting and concurrency.
type Options struct {
	GroupGapPx int
	Mask       mask.Options
	Fit        typeset.FitOptions
	Workers    int // concurrent translation requests
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		GroupGapPx: ocr.DefaultGroupGapPx,
		Mask:       mask.DefaultOptions(),
		Fit:        typeset.DefaultFitOptions(),
		Workers:    4,
	}
}

// Pipeline orchestrates one page at a time. Safe for sequential reuse
// across pages; the ledger is reset at the start of each run.
type Pipeline struct {
	Detector   ocr.Detector
	Translator translate.Translator
	Inpainter  inpaint.Inpainter

	fonts    *typeset.FontManager
	ledger   *region.Ledger
	renderer *render.Renderer
	opts     Options
	logger   *slog.Logger
}

// New creates a pipeline around the given collaborators. A ledger and
// renderer are constructed internally, sharing the font manager.
func New(det ocr.Detector, tr translate.Translator, inp inpaint.Inpainter, fonts *typeset.FontManager, opts Options, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Workers <= 0 {
		opts.Workers = DefaultOptions().Workers
	}
	return &Pipeline{
		Detector:   det,
		Translator: tr,
		Inpainter:  inp,
		fonts:      fonts,
		ledger:     region.NewLedger(NewPlanner(fonts, opts.Fit), logger),
		renderer:   render.NewRenderer(fonts, logger),
		opts:       opts,
		logger:     logger,
	}
}

// Ledger exposes the region table for editing between or after runs.
func (p *Pipeline) Ledger() *region.Ledger { return p.ledger }

// Fonts exposes the shared font manager.
func (p *Pipeline) Fonts() *typeset.FontManager { return p.fonts }

// Result is everything a run produces. Cleaned is the page after
// inpainting and Final is the cleaned page with translations drawn on.
type Result struct {
	Source  image.Image
	Mask    *image.Gray
	Cleaned image.Image
	Final   *image.RGBA
}

// Run loads a page from disk and processes it.
func (p *Pipeline) Run(ctx context.Context, imagePath string) (*Result, error) {
	img, err := imaging.Open(imagePath)
	if err != nil {
		return nil, fmt.Errorf("open page %s: %w", imagePath, err)
	}
	return p.Process(ctx, img)
}

// Process runs detection, translation, inpainting and rendering on an
// in-memory page. Per-region failures are logged and skipped; only
// page-level failures abort the run.
func (p *Pipeline) Process(ctx context.Context, img image.Image) (*Result, error) {
	detections, err := p.Detector.Detect(ctx, img)
	if err != nil {
		return nil, fmt.Errorf("detect text: %w", err)
	}
	groups := ocr.GroupDetections(detections, p.opts.GroupGapPx)
	p.logger.Info("detected text regions", "raw", len(detections), "grouped", len(groups))

	p.ledger.Reset()
	for _, d := range groups {
		o := typeset.Horizontal
		if d.Vertical {
			o = typeset.Vertical
		}
		p.ledger.Add(d.Box, d.Text, o)
	}

	if err := p.translateAll(ctx); err != nil {
		return nil, err
	}

	return p.Compose(ctx, img)
}

// Compose rebuilds the page from the current ledger state: mask, inpaint,
// typeset, draw. Called again after interactive edits to re-render
// without re-detecting or re-translating.
func (p *Pipeline) Compose(ctx context.Context, img image.Image) (*Result, error) {
	pageMask := mask.Build(p.ledger.EditBoxes(), img.Bounds(), p.opts.Mask, p.logger)

	cleaned, err := p.Inpainter.Inpaint(ctx, img, pageMask)
	if err != nil {
		return nil, fmt.Errorf("inpaint page: %w", err)
	}

	final := image.NewRGBA(cleaned.Bounds())
	draw.Draw(final, final.Bounds(), cleaned, cleaned.Bounds().Min, draw.Src)

	for _, r := range p.ledger.Snapshot() {
		plan, err := p.ledger.RenderPlan(r.ID)
		if err != nil {
			if errors.Is(err, typeset.ErrDegenerateBox) {
				p.logger.Warn("region box too small to typeset", "region", r.ID, "box", r.EditBox)
				render.StrokeRect(final, r.EditBox, color.RGBA{R: 220, A: 255}, 1)
				continue
			}
			p.logger.Error("plan region", "region", r.ID, "error", err)
			continue
		}
		if err := p.renderer.Draw(final, r, plan); err != nil {
			p.logger.Error("draw region", "region", r.ID, "error", err)
		}
	}

	return &Result{Source: img, Mask: pageMask, Cleaned: cleaned, Final: final}, nil
}

// translateAll runs the translator over every region with bounded
// concurrency. A failed translation leaves that region's translated text
// empty and the run continues.
func (p *Pipeline) translateAll(ctx context.Context) error {
	regions := p.ledger.Snapshot()
	jobs := make(chan region.Region)

	var wg sync.WaitGroup
	for i := 0; i < p.opts.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for r := range jobs {
				out, err := p.Translator.Translate(ctx, r.SourceText)
				if err != nil {
					p.logger.Error("translate region", "region", r.ID, "error", err)
					continue
				}
				if err := p.ledger.SetTranslatedText(r.ID, translate.Normalize(out)); err != nil {
					p.logger.Error("store translation", "region", r.ID, "error", err)
				}
			}
		}()
	}

	for _, r := range regions {
		if ctx.Err() != nil {
			close(jobs)
			wg.Wait()
			return ctx.Err()
		}
		jobs <- r
	}
	close(jobs)
	wg.Wait()
	return nil
}
