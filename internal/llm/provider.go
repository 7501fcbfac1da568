package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Enhance reviews a deterministic assessment and returns a second opinion
	Enhance(ctx context.Context, req EnhanceRequest) (*EnhanceResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// EnhanceRequest contains the input for LLM review
type EnhanceRequest struct {
	// Content is the processed (already anonymized) text. Raw input must
	// never reach a provider.
	Content string

	// Score is the deterministic engine's verdict, 0-100
	Score int

	// Level is the verdict's risk level label
	Level string

	// Categories are the pattern categories that contributed
	Categories []string

	// Prompt is an optional custom prompt (if empty, use default)
	Prompt string

	// Model is the specific model to use (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// EnhanceResponse contains the LLM's review output
type EnhanceResponse struct {
	// Assessment is the analyst-style narrative
	Assessment string

	// RevisedScore is the model's suggested score, nil when it gave none.
	// Advisory only: it never replaces the deterministic value.
	RevisedScore *int

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "anthropic", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// MaxTokens for response generation
	MaxTokens int

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:  "", // Disabled by default
		Model:     "",
		Timeout:   30,
		MaxTokens: 300,
	}
}

// BuildPrompt constructs the default enhancement prompt. The model sees the
// anonymized text and the finished verdict; it is asked for a structured
// second opinion, not a rescore of raw input.
func BuildPrompt(req EnhanceRequest) string {
	prompt := fmt.Sprintf(`You are a cybersecurity and threat intelligence analyst. Review the following content for threats, violence, or other harmful intent.

Content:
%s

A deterministic engine scored this content %d/100 (%s).`, req.Content, req.Score, req.Level)

	if len(req.Categories) > 0 {
		prompt += fmt.Sprintf("\nTriggered categories: %s.", strings.Join(req.Categories, ", "))
	}

	prompt += `

Respond with a single JSON object and nothing else:
{"assessment": "<two or three sentence analyst assessment>", "revised_score": <integer 0-100>}`

	return prompt
}

// ParseAssessment pulls the structured verdict out of a model reply. Models
// wrap JSON in prose often enough that the parse is lenient: the outermost
// {...} block is tried first, and a reply with no usable JSON becomes a plain
// assessment with no revised score.
func ParseAssessment(text string) (string, *int) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		var verdict struct {
			Assessment   string `json:"assessment"`
			RevisedScore *int   `json:"revised_score"`
		}
		if err := json.Unmarshal([]byte(text[start:end+1]), &verdict); err == nil && verdict.Assessment != "" {
			if verdict.RevisedScore != nil {
				v := clampScore(*verdict.RevisedScore)
				verdict.RevisedScore = &v
			}
			return strings.TrimSpace(verdict.Assessment), verdict.RevisedScore
		}
	}
	return strings.TrimSpace(text), nil
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
