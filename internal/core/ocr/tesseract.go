package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// TesseractConfig configures the tesseract CLI engine.
type TesseractConfig struct {
	Binary              string // binary name or absolute path; if empty -> "tesseract"
	Lang                string // default "eng"
	TessdataDir         string
	PSM                 int // 0 leaves tesseract's default
	OEM                 int // 0 leaves tesseract's default
	EnableTSVConfidence bool
}

// Recognition is the output of one engine run over one raster image.
type Recognition struct {
	Text       string
	Confidence float32 // 0 when not measured
	Warnings   []string
}

// Tesseract recognizes text by shelling out to the tesseract binary.
type Tesseract struct {
	cfg    TesseractConfig
	runner Runner
	logger *slog.Logger
}

func NewTesseract(cfg TesseractConfig, runner Runner, logger *slog.Logger) *Tesseract {
	if logger == nil {
		logger = slog.Default()
	}
	if runner == nil {
		runner = ExecRunner{}
	}
	if cfg.Binary == "" {
		cfg.Binary = "tesseract"
	}
	if cfg.Lang == "" {
		cfg.Lang = "eng"
	}
	return &Tesseract{cfg: cfg, runner: runner, logger: logger}
}

// Lang reports the recognition language passed to the engine.
func (t *Tesseract) Lang() string { return t.cfg.Lang }

// Recognize runs tesseract over one encoded image (PNG or JPEG).
// No text found is a successful empty Recognition.
func (t *Tesseract) Recognize(ctx context.Context, image []byte) (Recognition, error) {
	f, err := os.CreateTemp("", "docsum-ocr-*")
	if err != nil {
		return Recognition{}, fmt.Errorf("tesseract: temp file: %w", err)
	}
	path := f.Name()
	defer func() {
		if err := os.Remove(path); err != nil {
			t.logger.Warn("failed to remove temp image", "path", path, "error", err)
		}
	}()
	if _, err := f.Write(image); err != nil {
		_ = f.Close()
		return Recognition{}, fmt.Errorf("tesseract: write temp image: %w", err)
	}
	if err := f.Close(); err != nil {
		return Recognition{}, fmt.Errorf("tesseract: close temp image: %w", err)
	}

	// tesseract <file> stdout -l <lang>
	out, errb, err := t.runner.Run(ctx, t.cfg.Binary, t.logger, t.args(path)...)
	if err != nil {
		if msg := strings.TrimSpace(string(errb)); msg != "" {
			return Recognition{}, fmt.Errorf("tesseract: %w: %s", err, truncate(msg, 512))
		}
		return Recognition{}, fmt.Errorf("tesseract: %w", err)
	}
	rec := Recognition{Text: Normalize(string(out))}

	if t.cfg.EnableTSVConfidence && rec.Text != "" {
		tsv, _, err := t.runner.Run(ctx, t.cfg.Binary, t.logger, append(t.args(path), "tsv")...)
		if err != nil {
			rec.Warnings = append(rec.Warnings, fmt.Sprintf("tesseract tsv: %v", err))
		} else if c, ok := meanTSVConfidence(string(tsv)); ok {
			rec.Confidence = c
		}
	}
	return rec, nil
}

func (t *Tesseract) args(path string) []string {
	args := []string{path, "stdout", "-l", t.cfg.Lang}
	if t.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", t.cfg.TessdataDir)
	}
	if t.cfg.PSM > 0 {
		args = append(args, "--psm", strconv.Itoa(t.cfg.PSM))
	}
	if t.cfg.OEM > 0 {
		args = append(args, "--oem", strconv.Itoa(t.cfg.OEM))
	}
	return args
}
