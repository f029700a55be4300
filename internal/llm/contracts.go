package llm

import (
	"context"
	"fmt"
)

// Request is one text-generation call.
type Request struct {
	APIKey          string
	Model           string
	Prompt          string
	Temperature     float32
	MaxOutputTokens int32
}

// Generator performs exactly one generation call against a provider.
type Generator interface {
	Name() string
	DefaultModel() string
	Generate(ctx context.Context, req Request) (string, error)
}

// ProviderError is a failed provider call, with the HTTP status when the
// provider answered at all.
type ProviderError struct {
	Provider   string
	StatusCode int  // 0 when no response was received
	AuthFailed bool // provider-specific signal that the credential was rejected
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: status %d: %v", e.Provider, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// Unauthorized reports whether the provider rejected the credential.
func (e *ProviderError) Unauthorized() bool {
	return e.AuthFailed || e.StatusCode == 401 || e.StatusCode == 403
}
