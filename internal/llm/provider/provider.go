// Package provider builds the summarizer gateway for the configured backend.
package provider

import (
	"fmt"
	"log/slog"

	"github.com/joseph-ayodele/docsum/internal/common"
	"github.com/joseph-ayodele/docsum/internal/llm"
	"github.com/joseph-ayodele/docsum/internal/llm/gemini"
	"github.com/joseph-ayodele/docsum/internal/llm/openai"
)

// NewGenerator returns the provider client named by cfg.Provider.
func NewGenerator(cfg common.LLMConfig, logger *slog.Logger) (llm.Generator, error) {
	switch cfg.Provider {
	case common.ProviderGemini, "":
		return gemini.NewClient(cfg.BaseURL, logger), nil
	case common.ProviderOpenAI:
		return openai.NewClient(openai.Config{BaseURL: cfg.BaseURL}, logger), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}

// NewGateway wires a gateway from configuration. The credential is read
// from cfg once, here.
func NewGateway(cfg common.LLMConfig, logger *slog.Logger) (*llm.Gateway, error) {
	gen, err := NewGenerator(cfg, logger)
	if err != nil {
		return nil, err
	}
	return llm.NewGateway(gen, llm.GatewayConfig{
		Model:           cfg.Model,
		Temperature:     cfg.Temperature,
		MaxOutputTokens: cfg.MaxOutputTokens,
		APIKey:          cfg.APIKey(),
	}, logger), nil
}
