package core

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/docsum/internal/common"
	"github.com/joseph-ayodele/docsum/internal/core/extract"
	"github.com/joseph-ayodele/docsum/internal/llm"
)

// TextExtractor is stage 1: document -> text.
type TextExtractor interface {
	Extract(ctx context.Context, doc extract.InputDocument) (extract.Result, error)
}

// Summarizer is stage 2: text -> summary.
type Summarizer interface {
	Summarize(ctx context.Context, text, credential string) (string, error)
}

// Options select the stages of one Process call.
type Options struct {
	Summarize  bool
	Credential string // overrides the configured API key when set
}

// Outcome is everything one Process call produced.
type Outcome struct {
	RequestID  string         `json:"request_id"`
	Extraction extract.Result `json:"extraction"`
	Summary    string         `json:"summary,omitempty"`
	Truncated  bool           `json:"truncated,omitempty"`
}

// Processor coordinates extraction then (optionally) summarization for one
// document.
type Processor struct {
	logger        *slog.Logger
	extractor     TextExtractor
	summarizer    Summarizer
	maxInputChars int
}

// NewProcessor wires the two stages. summarizer may be nil when only
// extraction is needed; maxInputChars of 0 disables truncation.
func NewProcessor(logger *slog.Logger, extractor TextExtractor, summarizer Summarizer, maxInputChars int) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		logger:        logger,
		extractor:     extractor,
		summarizer:    summarizer,
		maxInputChars: maxInputChars,
	}
}

// Process runs the stages for doc. Extraction errors come back as-is; a
// summarization error comes back with the extraction already in the Outcome.
func (p *Processor) Process(ctx context.Context, doc extract.InputDocument, opts Options) (Outcome, error) {
	rid := common.RequestIDFromContext(ctx)
	if rid == "" {
		rid = uuid.New().String()
		ctx = common.WithRequestID(ctx, rid)
	}
	logger := common.LoggerFor(ctx, p.logger)
	out := Outcome{RequestID: rid}

	res, err := p.extractor.Extract(ctx, doc)
	if err != nil {
		logger.Error("processor.extract.failed", "filename", doc.Filename, "kind", common.KindOf(err), "error", err)
		return out, err
	}
	out.Extraction = res
	logger.Debug("processor extract success",
		"filename", doc.Filename,
		"format", res.Format,
		"units", len(res.Pages),
		"ocr_pages", res.OCRPages,
	)

	if !opts.Summarize {
		return out, nil
	}
	if p.summarizer == nil {
		return out, common.ServiceError("summarization is not configured", nil)
	}

	text, truncated := llm.Truncate(res.Text, p.maxInputChars)
	if truncated {
		logger.Warn("processor.summarize.input_truncated", "chars", len(res.Text), "max_chars", p.maxInputChars)
	}
	out.Truncated = truncated

	summary, err := p.summarizer.Summarize(ctx, text, opts.Credential)
	if err != nil {
		logger.Error("processor.summarize.failed", "kind", common.KindOf(err), "error", err)
		return out, err
	}
	out.Summary = summary
	logger.Info("processor summarize success", "summary_len", len(summary))
	return out, nil
}
