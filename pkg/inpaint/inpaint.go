// Package inpaint removes the source text from a page by repainting the
// masked pixels. The Command backend shells out to an external inpainting
// model; FlatFill is the dependency-free fallback.
package inpaint

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/disintegration/imaging"
)

// Inpainter repaints the pixels selected by mask (value 255 means erase)
// and returns the cleaned page. The input image is never modified.
type Inpainter interface {
	Inpaint(ctx context.Context, img image.Image, mask *image.Gray) (image.Image, error)
}

// FlatFill paints every masked pixel with a solid color. It is crude next
// to a learned model but fully deterministic, which makes it the default
// for tests and offline runs.
type FlatFill struct {
	Color color.Color
}

// Inpaint implements Inpainter.
func (f FlatFill) Inpaint(ctx context.Context, img image.Image, mask *image.Gray) (image.Image, error) {
	fill := f.Color
	if fill == nil {
		fill = color.White
	}
	out := imaging.Clone(img)
	b := out.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if mask.GrayAt(x, y).Y > 0 {
				out.Set(x, y, fill)
			}
		}
	}
	return out, nil
}

// Command runs an external inpainting CLI. The binary is invoked as
//
//	<binary> run --image <dir> --mask <dir> --output <dir> --model <model> --device <device>
//
// with the page and mask written to temp directories, and the result is
// read back from the output directory.
type Command struct {
	Binary string
	Model  string
	Device string
	Logger *slog.Logger
}

// NewCommand creates a Command inpainter with the lama model on cpu.
func NewCommand(binary string) *Command {
	return &Command{Binary: binary, Model: "lama", Device: "cpu"}
}

// Inpaint implements Inpainter.
func (c *Command) Inpaint(ctx context.Context, img image.Image, mask *image.Gray) (image.Image, error) {
	logger := c.Logger
	if logger == nil {
		logger = slog.Default()
	}

	workDir, err := os.MkdirTemp("", "inpaint-*")
	if err != nil {
		return nil, fmt.Errorf("create inpaint work dir: %w", err)
	}
	defer os.RemoveAll(workDir)

	imageDir := filepath.Join(workDir, "image")
	maskDir := filepath.Join(workDir, "mask")
	outputDir := filepath.Join(workDir, "output")
	for _, dir := range []string{imageDir, maskDir, outputDir} {
		if err := os.Mkdir(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create inpaint work dir: %w", err)
		}
	}

	const pageName = "page.png"
	if err := imaging.Save(img, filepath.Join(imageDir, pageName)); err != nil {
		return nil, fmt.Errorf("write inpaint input: %w", err)
	}
	if err := imaging.Save(mask, filepath.Join(maskDir, pageName)); err != nil {
		return nil, fmt.Errorf("write inpaint mask: %w", err)
	}

	cmd := exec.CommandContext(ctx, c.Binary, "run",
		"--image", imageDir,
		"--mask", maskDir,
		"--output", outputDir,
		"--model", c.Model,
		"--device", c.Device,
	)
	logger.Info("running inpainter", "binary", c.Binary, "model", c.Model)
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("inpainter %s: %w: %s", c.Binary, err, out)
	}

	resultPath, err := findResult(outputDir, pageName)
	if err != nil {
		return nil, err
	}
	result, err := imaging.Open(resultPath)
	if err != nil {
		return nil, fmt.Errorf("read inpaint result: %w", err)
	}
	return result, nil
}

// findResult prefers the conventional {name}_out.png, falling back to the
// first file the inpainter left in the output directory.
func findResult(dir, inputName string) (string, error) {
	base := inputName[:len(inputName)-len(filepath.Ext(inputName))]
	preferred := filepath.Join(dir, base+"_out.png")
	if _, err := os.Stat(preferred); err == nil {
		return preferred, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("read inpaint output dir: %w", err)
	}
	for _, e := range entries {
		if !e.IsDir() {
			return filepath.Join(dir, e.Name()), nil
		}
	}
	return "", fmt.Errorf("inpainter produced no output in %s", dir)
}
