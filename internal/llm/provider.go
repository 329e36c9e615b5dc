// Package llm abstracts the language-model backend used for claim
// extraction, thesis extraction and verdict generation.
package llm

import (
	"context"
	"encoding/json"
)

// Provider defines the interface for language-model backends
type Provider interface {
	// Name returns the provider name
	Name() string

	// Complete issues one structured-output request and returns the raw
	// JSON payload. Implementations must request schema-constrained JSON
	// output from the backend.
	Complete(ctx context.Context, req CompletionRequest) (json.RawMessage, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// CompletionRequest contains the input for one structured completion
type CompletionRequest struct {
	// System is the system instruction constraining the model's role
	System string

	// Prompt is the user-facing request text
	Prompt string

	// MaxTokens limits the response length (0 uses the provider default)
	MaxTokens int
}

// Config holds provider configuration
type Config struct {
	// Provider name: "openai"
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for the backend
	APIKey string

	// BaseURL for custom endpoints
	BaseURL string

	// Timeout for API requests, in seconds
	Timeout int

	// MaxTokens for response generation
	MaxTokens int
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:  "openai",
		Timeout:   60,
		MaxTokens: 2000,
	}
}
