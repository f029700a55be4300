package extract

import (
	"context"
	"log/slog"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/joseph-ayodele/docsum/constants"
	"github.com/joseph-ayodele/docsum/internal/common"
	"github.com/joseph-ayodele/docsum/internal/core/ocr"
)

// DefaultPageSeparator joins PDF page texts.
const DefaultPageSeparator = "\n\f\n"

// Config tunes the PDF strategy and labels results.
type Config struct {
	Language         string // reported in Result.Language
	MaxOCRPages      int    // OCR budget per PDF; 0 = no limit
	MinEmbeddedChars int    // below this many non-space runes a PDF page is OCRed; 0 = whitespace-only rule
	PageSeparator    string // default DefaultPageSeparator
}

// Extractor turns one InputDocument into a Result. It holds no per-call
// state and is safe to reuse.
type Extractor struct {
	cfg        Config
	engine     Engine
	rasterizer Rasterizer
	logger     *slog.Logger
}

// NewExtractor builds an Extractor around an OCR engine and a page
// rasterizer. A nil logger means slog.Default().
func NewExtractor(cfg Config, engine Engine, rasterizer Rasterizer, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.PageSeparator == "" {
		cfg.PageSeparator = DefaultPageSeparator
	}
	if cfg.MaxOCRPages < 0 {
		cfg.MaxOCRPages = 0
	}
	return &Extractor{cfg: cfg, engine: engine, rasterizer: rasterizer, logger: logger}
}

// NewFromConfig wires tesseract and pdftoppm from the OCR configuration.
func NewFromConfig(c common.OCRConfig, logger *slog.Logger) *Extractor {
	runner := ocr.ExecRunner{}
	engine := ocr.NewTesseract(ocr.TesseractConfig{
		Binary:              c.Tesseract,
		Lang:                c.Lang,
		TessdataDir:         c.TessdataDir,
		PSM:                 c.PSM,
		OEM:                 c.OEM,
		EnableTSVConfidence: c.EnableTSVConfidence,
	}, runner, logger)
	rasterizer := ocr.NewPoppler(c.Pdftoppm, c.DPI, runner, logger)
	return NewExtractor(Config{
		Language:         engine.Lang(),
		MaxOCRPages:      c.MaxOCRPages,
		MinEmbeddedChars: c.MinEmbeddedChars,
		PageSeparator:    c.PageSeparator,
	}, engine, rasterizer, logger)
}

// Extract validates the declared format, checks the content signature and
// runs the matching strategy.
func (e *Extractor) Extract(ctx context.Context, doc InputDocument) (Result, error) {
	start := time.Now()
	logger := common.LoggerFor(ctx, e.logger)

	if !doc.Format.Valid() {
		logger.Warn("extract.rejected", "format", doc.Format, "filename", doc.Filename)
		if doc.Format == "" {
			return Result{}, common.UnsupportedFormatError("no format declared")
		}
		return Result{}, common.UnsupportedFormatError("format %q is not supported", string(doc.Format))
	}
	if len(doc.Data) == 0 {
		return Result{}, common.DecodeError("empty payload", nil)
	}
	if err := checkSignature(doc); err != nil {
		logger.Warn("extract.rejected", "format", doc.Format, "filename", doc.Filename, "error", err)
		return Result{}, err
	}

	logger.Debug("extract.start", "format", doc.Format, "filename", doc.Filename, "bytes", len(doc.Data))

	var (
		res Result
		err error
	)
	switch doc.Format {
	case constants.IMAGE:
		res, err = e.extractImage(ctx, doc)
	case constants.PDF:
		res, err = e.extractPDF(ctx, doc)
	case constants.DOCX:
		res, err = e.extractDOCX(doc)
	}
	if err != nil {
		logger.Error("extract.failed", "format", doc.Format, "kind", common.KindOf(err), "error", err)
		return Result{}, err
	}

	res.Format = doc.Format
	res.Duration = time.Since(start)
	logger.Info("extract.done",
		"format", res.Format,
		"units", len(res.Pages),
		"ocr_pages", res.OCRPages,
		"warnings", len(res.Warnings),
		"chars", len(res.Text),
		"duration_ms", res.Duration.Milliseconds(),
	)
	return res, nil
}

// checkSignature rejects payloads whose content is recognisably another
// supported format. Unknown signatures are left to the decoder.
func checkSignature(doc InputDocument) error {
	detected := mimetype.Detect(doc.Data)
	got := constants.FormatFromMIME(detected.String())
	if got == "" || got == doc.Format {
		return nil
	}
	return common.UnsupportedFormatError("content looks like %s (%s), declared %s",
		got, detected.String(), doc.Format)
}
