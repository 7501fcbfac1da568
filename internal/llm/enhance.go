package llm

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/sentralab/sentra/internal/model"
)

// Enhancer coordinates optional LLM review of a finished assessment. The
// deterministic verdict is computed before any provider call and is never
// altered; enhancement can only attach an overlay.
type Enhancer struct {
	provider Provider
	config   Config
}

// NewEnhancer creates an enhancer from configuration. An empty provider name
// yields a valid, disabled enhancer.
func NewEnhancer(config Config) (*Enhancer, error) {
	provider, err := NewProvider(config)
	if err != nil {
		return nil, err
	}
	return &Enhancer{provider: provider, config: config}, nil
}

// NewEnhancerWithProvider wraps an already-built provider. Callers that stub
// the provider (tests, embedders) inject through here.
func NewEnhancerWithProvider(provider Provider, config Config) *Enhancer {
	return &Enhancer{provider: provider, config: config}
}

// IsEnabled reports whether a provider is configured.
func (e *Enhancer) IsEnabled() bool {
	return e.provider != nil
}

// ProviderName returns the configured provider's name, or "" when disabled.
func (e *Enhancer) ProviderName() string {
	if e.provider == nil {
		return ""
	}
	return e.provider.Name()
}

// Enhance sends the anonymized content and the deterministic verdict to the
// provider and returns the overlay, or nil when enhancement is disabled or
// fails. Failures never propagate: an unavailable provider, a transport
// error, a timeout or even a panicking provider all leave the caller with
// exactly the result it already had.
func (e *Enhancer) Enhance(ctx context.Context, content string, result *model.AnalysisResult) (overlay *model.Enhancement) {
	if e.provider == nil {
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "⚠ LLM enhancement panicked: %v\n", r)
			overlay = nil
		}
	}()

	timeout := time.Duration(e.config.Timeout) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if !e.provider.IsAvailable(ctx) {
		fmt.Fprintf(os.Stderr, "⚠ LLM provider %s not available, keeping deterministic result\n", e.provider.Name())
		return nil
	}

	req := EnhanceRequest{
		Content:    content,
		Score:      result.Risk.Value,
		Level:      string(result.Risk.Level),
		Categories: result.Categories,
		Model:      e.config.Model,
		MaxTokens:  e.config.MaxTokens,
	}

	resp, err := e.provider.Enhance(ctx, req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "⚠ LLM enhancement failed: %v\n", err)
		return nil
	}
	if resp == nil || resp.Assessment == "" {
		fmt.Fprintf(os.Stderr, "⚠ LLM enhancement returned no assessment\n")
		return nil
	}

	return &model.Enhancement{
		Provider:     e.provider.Name(),
		Model:        resp.Model,
		Assessment:   resp.Assessment,
		RevisedScore: resp.RevisedScore,
		BaseValue:    result.Risk.Value,
		BaseLevel:    result.Risk.Level,
		TokensUsed:   resp.TokensUsed,
	}
}
