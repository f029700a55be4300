package llm

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/joseph-ayodele/docsum/internal/common"
)

// GatewayConfig holds the generation parameters shared by every call.
type GatewayConfig struct {
	Model           string  // provider default when empty
	Temperature     float32 // 0..2
	MaxOutputTokens int32   // default 1024
	APIKey          string  // process-wide credential, read once at startup
}

// Gateway turns extracted text into a summary through one provider. It keeps
// no state between calls and never retries.
type Gateway struct {
	gen    Generator
	cfg    GatewayConfig
	logger *slog.Logger
}

func NewGateway(gen Generator, cfg GatewayConfig, logger *slog.Logger) *Gateway {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Model == "" {
		cfg.Model = gen.DefaultModel()
	}
	if cfg.MaxOutputTokens <= 0 {
		cfg.MaxOutputTokens = 1024
	}
	return &Gateway{gen: gen, cfg: cfg, logger: logger}
}

// Provider names the backing generator.
func (g *Gateway) Provider() string { return g.gen.Name() }

// Summarize sends text to the provider and returns the generated summary.
// An explicit credential wins over the configured one.
func (g *Gateway) Summarize(ctx context.Context, text, credential string) (string, error) {
	logger := common.LoggerFor(ctx, g.logger)

	if strings.TrimSpace(text) == "" {
		return "", common.EmptyInputError("nothing to summarize: text is blank")
	}
	key := strings.TrimSpace(credential)
	if key == "" {
		key = strings.TrimSpace(g.cfg.APIKey)
	}
	if key == "" {
		return "", common.AuthError("no API key configured for "+g.gen.Name(), nil)
	}

	start := time.Now()
	logger.Info("llm.summarize.start",
		"provider", g.gen.Name(),
		"model", g.cfg.Model,
		"temp", g.cfg.Temperature,
		"text_len", len(text),
	)
	out, err := g.gen.Generate(ctx, Request{
		APIKey:          key,
		Model:           g.cfg.Model,
		Prompt:          BuildSummaryPrompt(text),
		Temperature:     g.cfg.Temperature,
		MaxOutputTokens: g.cfg.MaxOutputTokens,
	})
	elapsed := time.Since(start).Milliseconds()
	if err != nil {
		logger.Error("llm.summarize.failed", "provider", g.gen.Name(), "error", err, "elapsed_ms", elapsed)
		return "", classify(err)
	}
	summary := strings.TrimSpace(out)
	if summary == "" {
		logger.Error("llm.summarize.empty_output", "provider", g.gen.Name(), "elapsed_ms", elapsed)
		return "", common.ServiceError("provider returned an empty summary", nil)
	}
	logger.Info("llm.summarize.ok", "provider", g.gen.Name(), "summary_len", len(summary), "elapsed_ms", elapsed)
	return summary, nil
}

func classify(err error) error {
	var pe *ProviderError
	if errors.As(err, &pe) && pe.Unauthorized() {
		return common.AuthError("credential rejected by "+pe.Provider, err)
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return common.ServiceError("summarization timed out", err)
	case errors.Is(err, context.Canceled):
		return common.ServiceError("summarization canceled", err)
	}
	return common.ServiceError("summarization failed", err)
}
