// tlpipe — Comic translation pipeline.
//
// Usage:
//
//	tlpipe run -i <page> -o <file> [options]
//	tlpipe serve [--port 8080]
//	tlpipe mask --session <bundle> -o <file>
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/S0HElL/TL-pipeline/clients/server"
	"github.com/S0HElL/TL-pipeline/pkg/export"
	"github.com/S0HElL/TL-pipeline/pkg/inpaint"
	"github.com/S0HElL/TL-pipeline/pkg/mask"
	"github.com/S0HElL/TL-pipeline/pkg/ocr"
	"github.com/S0HElL/TL-pipeline/pkg/pipeline"
	"github.com/S0HElL/TL-pipeline/pkg/session"
	"github.com/S0HElL/TL-pipeline/pkg/translate"
	"github.com/S0HElL/TL-pipeline/pkg/typeset"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "run":
		if err := runPipeline(os.Args[2:]); err != nil {
			fatal(err)
		}
	case "serve":
		if err := runServe(os.Args[2:]); err != nil {
			fatal(err)
		}
	case "mask":
		if err := runMask(os.Args[2:]); err != nil {
			fatal(err)
		}
	case "help", "-h", "--help":
		printUsage()
	default:
		printUsage()
		fatal(fmt.Errorf("unknown command %q", os.Args[1]))
	}
}

// commonFlags are shared by run and serve.
type commonFlags struct {
	lang              string
	translateEndpoint string
	translateKey      string
	translateModel    string
	inpaintBinary     string
	fonts             []string
	verbose           bool
}

func (c *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&c.lang, "lang", "jpn", "OCR language (tesseract language code)")
	fs.StringVar(&c.translateEndpoint, "translate-endpoint", "", "Chat-completions endpoint; empty keeps source text")
	fs.StringVar(&c.translateKey, "translate-key", os.Getenv("TLPIPE_API_KEY"), "Translation API key")
	fs.StringVar(&c.translateModel, "translate-model", "gpt-4o-mini", "Translation model name")
	fs.StringVar(&c.inpaintBinary, "inpaint", "", "Inpainting CLI binary; empty uses flat white fill")
	fs.BoolVar(&c.verbose, "v", false, "Debug logging")
	fs.Func("font", "Register a font as family=path (repeatable)", func(v string) error {
		c.fonts = append(c.fonts, v)
		return nil
	})
}

// buildPipeline assembles collaborators from the flags.
func (c *commonFlags) buildPipeline() (*pipeline.Pipeline, pipeline.Options, *slog.Logger, error) {
	level := slog.LevelInfo
	if c.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	fonts, err := typeset.NewFontManager(logger)
	if err != nil {
		return nil, pipeline.Options{}, nil, err
	}
	for _, spec := range c.fonts {
		family, path, ok := strings.Cut(spec, "=")
		if !ok {
			return nil, pipeline.Options{}, nil, fmt.Errorf("invalid --font %q: want family=path", spec)
		}
		if err := fonts.LoadFont(family, path); err != nil {
			return nil, pipeline.Options{}, nil, err
		}
	}

	var detector ocr.Detector
	if tess, err := ocr.New(c.lang); err != nil {
		if !errors.Is(err, ocr.ErrNotEnabled) {
			return nil, pipeline.Options{}, nil, fmt.Errorf("ocr backend: %w", err)
		}
		logger.Warn("ocr support not compiled in, detection disabled; rebuild with -tags ocr")
		detector = noopDetector{}
	} else {
		detector = tess
	}

	var translator translate.Translator = translate.Identity{}
	if c.translateEndpoint != "" {
		translator = translate.NewClient(c.translateEndpoint, c.translateKey, c.translateModel)
	}

	var inpainter inpaint.Inpainter = inpaint.FlatFill{}
	if c.inpaintBinary != "" {
		cmd := inpaint.NewCommand(c.inpaintBinary)
		cmd.Logger = logger
		inpainter = cmd
	}

	opts := pipeline.DefaultOptions()
	return pipeline.New(detector, translator, inpainter, fonts, opts, logger), opts, logger, nil
}

func runPipeline(args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	var c commonFlags
	c.register(fs)

	var input, output, sessionOut string
	fs.StringVar(&input, "i", "", "Input page image")
	fs.StringVar(&output, "o", "", "Output file (.png, .bmp or .jpg)")
	fs.StringVar(&sessionOut, "session", "", "Also save a .tlsession bundle here (optional)")

	fs.Usage = printUsage
	if err := fs.Parse(args); err != nil {
		return err
	}
	if input == "" || output == "" {
		printUsage()
		return fmt.Errorf("run needs -i and -o")
	}

	pipe, _, logger, err := c.buildPipeline()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := pipe.Run(ctx, input)
	if err != nil {
		return err
	}

	if err := export.Write(output, res.Final); err != nil {
		return err
	}
	logger.Info("page written", "output", output, "regions", pipe.Ledger().Len())

	if sessionOut != "" {
		bundle := &session.Session{
			Page:    res.Source,
			Cleaned: res.Cleaned,
			Regions: pipe.Ledger().Snapshot(),
		}
		if err := session.Save(sessionOut, bundle); err != nil {
			return err
		}
		logger.Info("session saved", "path", sessionOut)
	}
	return nil
}

func runServe(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	var c commonFlags
	c.register(fs)

	var port string
	fs.StringVar(&port, "port", "8080", "HTTP port")
	fs.StringVar(&port, "p", "8080", "HTTP port")

	fs.Usage = printUsage
	if err := fs.Parse(args); err != nil {
		return err
	}

	pipe, opts, logger, err := c.buildPipeline()
	if err != nil {
		return err
	}
	return server.ListenAndServe(port, pipe, opts, logger)
}

// runMask rebuilds the erasure mask from a saved session without touching
// OCR or translation, for feeding an inpainting tool by hand.
func runMask(args []string) error {
	fs := flag.NewFlagSet("mask", flag.ExitOnError)
	var bundlePath, output string
	fs.StringVar(&bundlePath, "session", "", "Path to a .tlsession bundle")
	fs.StringVar(&output, "o", "mask.png", "Output mask image")

	fs.Usage = printUsage
	if err := fs.Parse(args); err != nil {
		return err
	}
	if bundlePath == "" {
		printUsage()
		return fmt.Errorf("mask needs --session")
	}

	bundle, err := session.Load(bundlePath)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	boxes := make([]image.Rectangle, 0, len(bundle.Regions))
	for _, r := range bundle.Regions {
		boxes = append(boxes, r.EditBox)
	}
	m := mask.Build(boxes, bundle.Page.Bounds(), mask.DefaultOptions(), logger)
	if err := export.Write(output, m); err != nil {
		return err
	}
	logger.Info("mask written", "output", output, "regions", len(boxes))
	return nil
}

// noopDetector stands in when no OCR backend is available; pages open
// with zero regions and are populated from session bundles instead.
type noopDetector struct{}

func (noopDetector) Detect(ctx context.Context, img image.Image) ([]ocr.Detection, error) {
	return nil, nil
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func printUsage() {
	fmt.Print(`tlpipe — Comic translation pipeline

USAGE:
    tlpipe run -i <page> -o <file> [options]
    tlpipe serve [--port 8080] [options]
    tlpipe mask --session <bundle> -o <file>

RUN:
    -i <path>                   Input page image
    -o <path>                   Output file (.png, .bmp or .jpg)
    --session <path>            Also save an editable .tlsession bundle
    --lang <code>               OCR language (default: jpn)
    --translate-endpoint <url>  Chat-completions endpoint; empty keeps source text
    --translate-key <key>       API key (or TLPIPE_API_KEY)
    --translate-model <name>    Model name (default: gpt-4o-mini)
    --inpaint <binary>          Inpainting CLI; empty uses flat white fill
    --font family=path          Register a TTF/OTF font (repeatable)
    -v                          Debug logging

SERVE:
    tlpipe serve [--port 8080]  Start the editor API server

MASK:
    tlpipe mask --session page.tlsession -o mask.png

EXAMPLES:
    tlpipe run -i page.png -o page_en.png
    tlpipe run -i page.png -o page_en.png --translate-endpoint https://api.openai.com/v1/chat/completions
    tlpipe run -i page.png -o page_en.png --inpaint iopaint --session page.tlsession
    tlpipe serve --port 8080 --font manga=fonts/animeace.ttf
`)
}
