// Package llm provides a pluggable interface for text-generation providers.
package llm

import (
	"context"
	"fmt"

	"github.com/reblol/Pulsepanion/internal/config"
)

// Request is a single two-message completion request.
type Request struct {
	Model       string
	System      string
	User        string
	Temperature float64
	MaxTokens   int
}

// Completer generates text for a request. Implementations make exactly one
// outbound call per Complete and do not retry.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
	Provider() string
}

// UpstreamError reports a failed call to the text-generation service:
// transport errors, non-2xx responses, undecodable bodies or empty results.
type UpstreamError struct {
	Provider   string
	StatusCode int // 0 when no HTTP response was received
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s error %d: %v", e.Provider, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s request failed: %v", e.Provider, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// --- Factory ---

// New creates the completer selected by cfg.Provider.
func New(ctx context.Context, cfg config.LLM) (Completer, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI, "":
		return NewOpenAIClient(cfg.BaseURL, cfg.APIKey, cfg.Timeout), nil
	case config.ProviderGemini:
		return NewGeminiClient(ctx, cfg.BaseURL, cfg.APIKey, cfg.Timeout)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}
