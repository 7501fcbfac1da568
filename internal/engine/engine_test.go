package engine

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/sentralab/sentra/internal/llm"
	"github.com/sentralab/sentra/internal/model"
)

type stubProvider struct {
	name      string
	available bool
	resp      *llm.EnhanceResponse
	err       error
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Enhance(ctx context.Context, req llm.EnhanceRequest) (*llm.EnhanceResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.resp, nil
}

func (s *stubProvider) IsAvailable(ctx context.Context) bool { return s.available }

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	eng, err := New(model.DefaultConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return eng
}

// canonical serializes a result with the timing field zeroed, so two runs of
// the same input compare equal.
func canonical(t *testing.T, r *model.AnalysisResult) string {
	t.Helper()
	clone := *r
	clone.ProcessingMS = 0
	b, err := json.Marshal(&clone)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return string(b)
}

func TestAnalyzeThreatIsCritical(t *testing.T) {
	eng := newTestEngine(t)

	res, err := eng.Analyze(context.Background(), "I will plant a bomb at the station tomorrow")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if res.Risk.Value != 77 {
		t.Errorf("score = %d, want 77", res.Risk.Value)
	}
	if res.Risk.Level != model.LevelCritical {
		t.Errorf("level = %s, want %s", res.Risk.Level, model.LevelCritical)
	}
	if !res.Flagged {
		t.Error("expected flagged")
	}
	if len(res.Categories) != 1 || res.Categories[0] != "violence" {
		t.Errorf("categories = %v, want [violence]", res.Categories)
	}
	if len(res.Matches) == 0 {
		t.Error("expected matches")
	}
	if len(res.Explanation) != 6 {
		t.Errorf("explanation statements = %d, want 6", len(res.Explanation))
	}
	if len(res.Recommendations) == 0 {
		t.Fatal("expected recommendations")
	}
	if !strings.HasPrefix(res.Recommendations[0].Action, "Escalate") {
		t.Errorf("first recommendation = %q, want escalation", res.Recommendations[0].Action)
	}
	if !regexp.MustCompile(`^[0-9a-f]{16}$`).MatchString(res.ContentHash) {
		t.Errorf("content hash = %q, want 16 hex chars", res.ContentHash)
	}
	if res.Engine != "Sentra Pattern Engine" {
		t.Errorf("engine = %q", res.Engine)
	}
	if res.Enhanced || res.Enhancement != nil {
		t.Error("expected no enhancement by default")
	}
}

func TestAnalyzeCleanContentIsSafe(t *testing.T) {
	eng := newTestEngine(t)

	res, err := eng.Analyze(context.Background(), "Good morning team, great job on the report!")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if res.Risk.Value != 0 {
		t.Errorf("score = %d, want 0", res.Risk.Value)
	}
	if res.Risk.Level != model.LevelSafe {
		t.Errorf("level = %s, want %s", res.Risk.Level, model.LevelSafe)
	}
	if res.Flagged {
		t.Error("clean content must not be flagged")
	}
	if res.Recommendations == nil {
		t.Fatal("recommendations must be empty, not nil")
	}
	if len(res.Recommendations) != 0 {
		t.Errorf("recommendations = %v, want none", res.Recommendations)
	}
	if len(res.Matches) != 0 {
		t.Errorf("matches = %v, want none", res.Matches)
	}
	if res.Sentiment.Polarity != model.SentimentPositive {
		t.Errorf("sentiment = %s, want %s", res.Sentiment.Polarity, model.SentimentPositive)
	}
	// Only the sentiment and level statements remain.
	if len(res.Explanation) != 2 {
		t.Errorf("explanation statements = %d, want 2", len(res.Explanation))
	}
}

func TestAnalyzeInputErrors(t *testing.T) {
	eng := newTestEngine(t)

	tests := []struct {
		name    string
		content string
	}{
		{"empty", ""},
		{"whitespace only", "   \n\t  "},
		{"over the size cap", strings.Repeat("a", 10001)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := eng.Analyze(context.Background(), tt.content)
			if err == nil {
				t.Fatal("expected error")
			}
			var inputErr *model.InputError
			if !errors.As(err, &inputErr) {
				t.Errorf("error type = %T, want *model.InputError", err)
			}
		})
	}
}

func TestAnalyzeFingerprintStableUnderAnonymization(t *testing.T) {
	content := "wire the payment and email boss@corp.com from 10.0.0.5"

	masked := newTestEngine(t)

	plainCfg := model.DefaultConfig()
	plainCfg.Engine.Anonymize = false
	plain, err := New(plainCfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	r1, err := masked.Analyze(context.Background(), content)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	r2, err := plain.Analyze(context.Background(), content)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if r1.ContentHash != r2.ContentHash {
		t.Errorf("fingerprints diverged: %s vs %s", r1.ContentHash, r2.ContentHash)
	}
	if !r1.Anonymized {
		t.Error("expected anonymized flag with masking on")
	}
	if r2.Anonymized {
		t.Error("expected no anonymized flag with masking off")
	}
	if !strings.Contains(r1.ContentPreview, "[EMAIL REDACTED]") || strings.Contains(r1.ContentPreview, "boss@corp.com") {
		t.Errorf("masked preview leaked PII: %q", r1.ContentPreview)
	}
	if !strings.Contains(r2.ContentPreview, "boss@corp.com") {
		t.Errorf("plain preview missing original text: %q", r2.ContentPreview)
	}
}

func TestAnalyzeDeterministic(t *testing.T) {
	eng := newTestEngine(t)
	content := "urgent: verify your account, then transfer the customer records to the usb drive"

	first, err := eng.Analyze(context.Background(), content)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	want := canonical(t, first)

	for i := 0; i < 5; i++ {
		res, err := eng.Analyze(context.Background(), content)
		if err != nil {
			t.Fatalf("Analyze: %v", err)
		}
		if got := canonical(t, res); got != want {
			t.Fatalf("results diverged on run %d:\n%s\n---\n%s", i, want, got)
		}
	}
}

func TestAnalyzeEnhancementOverlay(t *testing.T) {
	eng := newTestEngine(t)
	revised := 90
	eng.SetEnhancer(llm.NewEnhancerWithProvider(&stubProvider{
		name:      "stub",
		available: true,
		resp: &llm.EnhanceResponse{
			Assessment:   "Credible and specific threat.",
			RevisedScore: &revised,
			Model:        "stub-1",
			TokensUsed:   42,
		},
	}, llm.Config{Timeout: 5}))

	res, err := eng.Analyze(context.Background(), "I will plant a bomb at the station tomorrow")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if !res.Enhanced {
		t.Fatal("expected enhanced result")
	}
	if res.Enhancement == nil {
		t.Fatal("expected enhancement overlay")
	}
	if res.Enhancement.Assessment != "Credible and specific threat." {
		t.Errorf("assessment = %q", res.Enhancement.Assessment)
	}
	if res.Enhancement.RevisedScore == nil || *res.Enhancement.RevisedScore != 90 {
		t.Errorf("revised score = %v, want 90", res.Enhancement.RevisedScore)
	}

	// The overlay is additive: the deterministic verdict stays.
	if res.Risk.Value != 77 || res.Risk.Level != model.LevelCritical {
		t.Errorf("deterministic verdict changed: %+v", res.Risk)
	}
	if res.Enhancement.BaseValue != 77 || res.Enhancement.BaseLevel != model.LevelCritical {
		t.Errorf("overlay base = %d/%s, want 77/CRITICAL", res.Enhancement.BaseValue, res.Enhancement.BaseLevel)
	}
	if res.Engine != "Sentra Pattern Engine + stub" {
		t.Errorf("engine = %q", res.Engine)
	}
}

func TestAnalyzeEnhancementFailsClosed(t *testing.T) {
	content := "I will plant a bomb at the station tomorrow"

	baseline, err := newTestEngine(t).Analyze(context.Background(), content)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	want := canonical(t, baseline)

	tests := []struct {
		name string
		stub *stubProvider
	}{
		{"provider error", &stubProvider{name: "stub", available: true, err: errors.New("boom")}},
		{"provider unavailable", &stubProvider{name: "stub", available: false}},
		{"empty assessment", &stubProvider{name: "stub", available: true, resp: &llm.EnhanceResponse{}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng := newTestEngine(t)
			eng.SetEnhancer(llm.NewEnhancerWithProvider(tt.stub, llm.Config{Timeout: 5}))

			res, err := eng.Analyze(context.Background(), content)
			if err != nil {
				t.Fatalf("Analyze: %v", err)
			}
			if got := canonical(t, res); got != want {
				t.Errorf("failed enhancement altered the result:\n%s\n---\n%s", want, got)
			}
		})
	}
}

func TestAnalyzeDocumentPicksWorstChunk(t *testing.T) {
	eng := newTestEngine(t)

	padding := strings.Repeat("routine status update. ", 120)
	content := padding + "we will plant a bomb at the station"

	best, results, err := eng.AnalyzeDocument(context.Background(), content)
	if err != nil {
		t.Fatalf("AnalyzeDocument: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("chunks = %d, want 2", len(results))
	}
	if results[0].Risk.Level != model.LevelSafe {
		t.Errorf("first chunk level = %s, want SAFE", results[0].Risk.Level)
	}
	if best.Risk.Level != model.LevelCritical {
		t.Errorf("best chunk level = %s, want CRITICAL", best.Risk.Level)
	}
	if best != results[1] {
		t.Error("best should be the second chunk")
	}
}

func TestAnalyzeDocumentReadsBoundedPrefix(t *testing.T) {
	eng := newTestEngine(t)

	filler := strings.Repeat("calm seas and quiet skies. ", 400)
	content := filler + "we will plant a bomb at the station"

	best, results, err := eng.AnalyzeDocument(context.Background(), content)
	if err != nil {
		t.Fatalf("AnalyzeDocument: %v", err)
	}

	if len(results) != 5 {
		t.Errorf("chunks = %d, want 5", len(results))
	}
	if best.Risk.Level != model.LevelSafe {
		t.Errorf("best level = %s, want SAFE for text beyond the read bound", best.Risk.Level)
	}
}

func TestAnalyzeDocumentEmpty(t *testing.T) {
	eng := newTestEngine(t)
	_, _, err := eng.AnalyzeDocument(context.Background(), "  ")
	if err == nil {
		t.Fatal("expected error")
	}
	var inputErr *model.InputError
	if !errors.As(err, &inputErr) {
		t.Errorf("error type = %T, want *model.InputError", err)
	}
}
