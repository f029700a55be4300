package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/genai"

	"github.com/joseph-ayodele/docsum/internal/llm"
)

const (
	Name         = "gemini"
	DefaultModel = "gemini-2.5-flash"
)

// Client calls the Gemini API through the genai SDK. A genai client is built
// per call because the credential may differ between calls.
type Client struct {
	baseURL string
	logger  *slog.Logger
}

func NewClient(baseURL string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), logger: logger}
}

func (c *Client) Name() string         { return Name }
func (c *Client) DefaultModel() string { return DefaultModel }

func (c *Client) Generate(ctx context.Context, req llm.Request) (string, error) {
	cfg := &genai.ClientConfig{
		APIKey:  req.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if c.baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: c.baseURL}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return "", &llm.ProviderError{Provider: Name, Err: fmt.Errorf("create client: %w", err)}
	}

	result, err := client.Models.GenerateContent(ctx, req.Model, genai.Text(req.Prompt), &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(req.Temperature),
		MaxOutputTokens: req.MaxOutputTokens,
	})
	if err != nil {
		return "", &llm.ProviderError{Provider: Name, StatusCode: statusOf(err), AuthFailed: rejectsCredential(err), Err: err}
	}
	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return "", &llm.ProviderError{Provider: Name, Err: errors.New("empty response")}
	}

	var b strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		if part != nil && part.Text != "" && !part.Thought {
			b.WriteString(part.Text)
		}
	}
	c.logger.Debug("gemini.generate.ok",
		"model", req.Model,
		"finish_reason", result.Candidates[0].FinishReason,
		"chars", b.Len(),
	)
	return b.String(), nil
}

func apiErrorOf(err error) (genai.APIError, bool) {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return *apiErrPtr, true
	}
	return genai.APIError{}, false
}

// statusOf extracts the HTTP status from a genai API error.
func statusOf(err error) int {
	apiErr, ok := apiErrorOf(err)
	if !ok {
		return 0
	}
	return apiErr.Code
}

// rejectsCredential reports whether Gemini refused the API key. An invalid
// key comes back as 400 INVALID_ARGUMENT with reason API_KEY_INVALID.
func rejectsCredential(err error) bool {
	apiErr, ok := apiErrorOf(err)
	if !ok {
		return false
	}
	switch apiErr.Status {
	case "UNAUTHENTICATED", "PERMISSION_DENIED":
		return true
	}
	for _, d := range apiErr.Details {
		if reason, _ := d["reason"].(string); authReasons[reason] {
			return true
		}
	}
	return false
}

var authReasons = map[string]bool{
	"API_KEY_INVALID":               true,
	"API_KEY_SERVICE_BLOCKED":       true,
	"API_KEY_HTTP_REFERRER_BLOCKED": true,
}
