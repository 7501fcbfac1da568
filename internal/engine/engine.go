// Package engine wires the deterministic analysis pipeline: anonymize,
// detect, aggregate, explain, advise. One input, one bounded verdict, no
// hidden state between calls.
package engine

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/sentralab/sentra/internal/detect"
	"github.com/sentralab/sentra/internal/llm"
	"github.com/sentralab/sentra/internal/model"
	"github.com/sentralab/sentra/internal/redact"
	"github.com/sentralab/sentra/internal/score"
)

// engineName labels results produced by the deterministic pipeline.
const engineName = "Sentra Pattern Engine"

const (
	// previewLength bounds the stored content preview.
	previewLength = 200

	// chunkSize and documentCap bound document-mode analysis: only the
	// first documentCap characters are read, in chunkSize slices.
	chunkSize   = 2000
	documentCap = 10000
)

// Engine is the deterministic analysis pipeline. Safe for concurrent use:
// rule data is immutable after construction and calls share no state.
type Engine struct {
	cfg      *model.Config
	registry *detect.Registry
	enhancer *llm.Enhancer
}

// New validates the configuration and builds an engine. With local mode on,
// any configured LLM provider is ignored and nothing leaves the process.
func New(cfg *model.Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:      cfg,
		registry: detect.Default(),
	}

	if !cfg.Engine.LocalMode {
		enhancer, err := llm.NewEnhancer(llm.ConfigFromModel(cfg.LLM))
		if err != nil {
			return nil, &model.ConfigError{Field: "llm.provider", Reason: err.Error()}
		}
		e.enhancer = enhancer
	}
	return e, nil
}

// SetEnhancer replaces the enhancement port. A nil enhancer disables it.
func (e *Engine) SetEnhancer(enh *llm.Enhancer) {
	e.enhancer = enh
}

// EnhancementEnabled reports whether an LLM provider will be consulted.
func (e *Engine) EnhancementEnabled() bool {
	return e.enhancer != nil && e.enhancer.IsEnabled()
}

// Analyze runs the full pipeline over one piece of content. The deterministic
// verdict is complete before any enhancement call; a failing provider leaves
// the result exactly as if enhancement were disabled.
func (e *Engine) Analyze(ctx context.Context, content string) (*model.AnalysisResult, error) {
	started := time.Now()

	if strings.TrimSpace(content) == "" {
		return nil, model.NewInputError("content is empty")
	}
	if max := e.cfg.Engine.MaxInputChars; max > 0 && len([]rune(content)) > max {
		return nil, model.NewInputError("content exceeds %d characters", max)
	}

	// The fingerprint covers the original bytes: masking must not change
	// content identity.
	sum := sha256.Sum256([]byte(content))
	hash := hex.EncodeToString(sum[:])[:16]

	processed := content
	anonymized := false
	if e.cfg.Engine.Anonymize {
		processed, anonymized = redact.PII(content)
	}

	normalized := detect.Normalize(processed)

	patternMatches, categoryHits := e.registry.Scan(normalized)
	entityScan := detect.Entities(normalized)
	sentiment := detect.Sentiment(normalized)

	outcome := score.Aggregate(categoryHits, entityScan, sentiment, e.cfg.Engine.Thresholds)

	categories := make([]string, 0, len(categoryHits))
	for _, cat := range outcome.Categories() {
		categories = append(categories, string(cat))
	}

	matches := make([]model.Match, 0, len(patternMatches)+len(entityScan.Matches))
	matches = append(matches, patternMatches...)
	matches = append(matches, entityScan.Matches...)

	result := &model.AnalysisResult{
		ContentHash:     hash,
		ContentPreview:  preview(processed),
		Risk:            outcome.Score,
		Flagged:         outcome.Score.Value >= e.cfg.Engine.Thresholds.Medium,
		Categories:      categories,
		Matches:         matches,
		Sentiment:       sentiment,
		Explanation:     score.Explain(outcome, sentiment, e.cfg.Engine.Thresholds),
		Recommendations: score.Recommend(outcome.Score.Level, outcome.Categories()),
		Anonymized:      anonymized,
		Engine:          engineName,
	}

	if e.enhancer != nil && e.enhancer.IsEnabled() {
		if overlay := e.enhancer.Enhance(ctx, processed, result); overlay != nil {
			result.Enhanced = true
			result.Enhancement = overlay
			result.Engine = fmt.Sprintf("%s + %s", engineName, overlay.Provider)
		}
	}

	result.ProcessingMS = float64(time.Since(started).Microseconds()) / 1000
	return result, nil
}

// AnalyzeDocument assesses long material chunk by chunk and returns the
// highest-risk chunk's result plus every chunk result in order. Only the
// first part of an oversized document is read; ties go to the earlier chunk.
func (e *Engine) AnalyzeDocument(ctx context.Context, content string) (*model.AnalysisResult, []*model.AnalysisResult, error) {
	if strings.TrimSpace(content) == "" {
		return nil, nil, model.NewInputError("content is empty")
	}

	runes := []rune(content)
	if len(runes) > documentCap {
		runes = runes[:documentCap]
	}

	var (
		best    *model.AnalysisResult
		results []*model.AnalysisResult
	)
	for start := 0; start < len(runes); start += chunkSize {
		end := start + chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		chunk := string(runes[start:end])
		if strings.TrimSpace(chunk) == "" {
			continue
		}

		res, err := e.Analyze(ctx, chunk)
		if err != nil {
			return nil, nil, err
		}
		results = append(results, res)
		if best == nil || res.Risk.Value > best.Risk.Value {
			best = res
		}
	}

	if best == nil {
		return nil, nil, model.NewInputError("content is empty")
	}
	return best, results, nil
}

func preview(text string) string {
	r := []rune(text)
	if len(r) <= previewLength {
		return text
	}
	return string(r[:previewLength]) + "..."
}
