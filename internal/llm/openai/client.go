package openai

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/joseph-ayodele/docsum/internal/llm"
)

// Generate sends the prompt as a single user message. The SDK's own retries
// are disabled so a call reaches the provider exactly once.
func (c *Client) Generate(ctx context.Context, req llm.Request) (string, error) {
	start := time.Now()
	opts := []option.RequestOption{
		option.WithAPIKey(req.APIKey),
		option.WithMaxRetries(0),
	}
	if c.cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(c.cfg.BaseURL))
	}
	client := openai.NewClient(opts...)

	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:               openai.ChatModel(req.Model),
		Messages:            []openai.ChatCompletionMessageParamUnion{openai.UserMessage(req.Prompt)},
		Temperature:         openai.Float(float64(req.Temperature)),
		MaxCompletionTokens: openai.Int(int64(req.MaxOutputTokens)),
	})
	if err != nil {
		status := 0
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			status = apiErr.StatusCode
		}
		c.logger.Error("openai.generate.http_error",
			"model", req.Model, "status", status, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", &llm.ProviderError{Provider: Name, StatusCode: status, Err: err}
	}
	if len(resp.Choices) == 0 {
		return "", &llm.ProviderError{Provider: Name, Err: errors.New("chat completion choices are missing")}
	}

	c.logger.Debug("openai.generate.ok",
		"model", resp.Model,
		"finish_reason", resp.Choices[0].FinishReason,
		"total_tokens", resp.Usage.TotalTokens,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
