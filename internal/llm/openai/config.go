package openai

import (
	"log/slog"
	"strings"
)

const (
	Name         = "openai"
	DefaultModel = "gpt-4o-mini"
)

// Config for the OpenAI client.
type Config struct {
	BaseURL string // default https://api.openai.com/v1; any OpenAI-compatible endpoint works
}

// Client calls the Chat Completions API.
type Client struct {
	cfg    Config
	logger *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	return &Client{cfg: cfg, logger: logger}
}

func (c *Client) Name() string         { return Name }
func (c *Client) DefaultModel() string { return DefaultModel }
