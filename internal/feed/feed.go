// Package feed simulates a live monitoring stream. Items carry curated
// sample content with pre-assigned base scores, so dashboards and demos see
// realistic traffic without a real collector behind them.
package feed

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/sentralab/sentra/internal/model"
)

type sample struct {
	text string
	base int
}

var samples = []sample{
	{"Just checking in — everything okay on your end?", 5},
	{"URGENT: Verify your banking credentials immediately or account suspended.", 78},
	{"The quarterly report looks great, well done team.", 4},
	{"We need to talk. Meet me at the old warehouse at midnight. Delete this.", 72},
	{"Malware sample exfiltrating financial records from internal server.", 88},
	{"Happy to share the project update with everyone!", 6},
	{"Explosive devices rigged at three locations. Ready for signal.", 95},
	{"Can someone send me the API documentation link?", 3},
	{"They won't know what hit them. I have access to their systems.", 82},
	{"Great work on the presentation! See you at the conference.", 5},
	{"BREAKING: Source claims government suppressing cure — share before deleted!", 61},
	{"New zero-day exploit available for financial sector targets. $50k.", 91},
	{"Traffic's bad today, working from home this afternoon.", 2},
	{"The package will cross the border tonight. No records.", 69},
	{"Feeling anxious about the deadline but we'll manage it.", 8},
}

var sources = []string{
	"Twitter/X Stream", "Telegram Monitor", "Chat Simulator", "News Feed", "Email Gateway",
}

// Item is one simulated feed event. The score is the sample's base score
// plus noise, not an engine verdict; callers that want full evidence run
// Content through the engine themselves.
type Item struct {
	ID         string          `json:"id"`
	Timestamp  time.Time       `json:"timestamp"`
	Source     string          `json:"source"`
	Content    string          `json:"content"`
	Risk       model.RiskScore `json:"risk_score"`
	Flagged    bool            `json:"flagged"`
	Categories []string        `json:"categories"`
	Sentiment  model.Polarity  `json:"sentiment"`
}

// Generator produces feed items. Not safe for concurrent use; give each
// consumer its own.
type Generator struct {
	rng *rand.Rand
	th  model.Thresholds
}

func NewGenerator(th model.Thresholds) *Generator {
	return NewSeededGenerator(th, time.Now().UnixNano())
}

// NewSeededGenerator pins the random source, for reproducible streams.
func NewSeededGenerator(th model.Thresholds, seed int64) *Generator {
	return &Generator{
		rng: rand.New(rand.NewSource(seed)),
		th:  th,
	}
}

// Next returns one simulated item: a random sample, base score jittered by
// up to ±5, levelled through the configured thresholds.
func (g *Generator) Next() Item {
	s := samples[g.rng.Intn(len(samples))]

	value := s.base + g.rng.Intn(11) - 5
	if value < 0 {
		value = 0
	}
	if value > 100 {
		value = 100
	}

	var polarity model.Polarity
	switch {
	case value > 50:
		polarity = model.SentimentNegative
	case value < 20:
		polarity = model.SentimentPositive
	default:
		polarity = model.SentimentNeutral
	}

	return Item{
		ID:         fmt.Sprintf("LIVE-%05d", 10000+g.rng.Intn(90000)),
		Timestamp:  time.Now().UTC(),
		Source:     sources[g.rng.Intn(len(sources))],
		Content:    s.text,
		Risk:       model.RiskScore{Value: value, Level: g.th.Level(value)},
		Flagged:    value >= g.th.Medium,
		Categories: QuickCategories(s.text),
		Sentiment:  polarity,
	}
}

// Burst returns n items at once, for callers that page rather than stream.
func (g *Generator) Burst(n int) []Item {
	items := make([]Item, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, g.Next())
	}
	return items
}

// Stream emits one item per interval on the returned channel until ctx is
// canceled, then closes it.
func (g *Generator) Stream(ctx context.Context, interval time.Duration) <-chan Item {
	ch := make(chan Item)
	go func() {
		defer close(ch)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				select {
				case ch <- g.Next():
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return ch
}

var quickRules = []struct {
	label string
	terms []string
}{
	{"Violence", []string{"kill", "explosive", "attack", "weapon"}},
	{"Cybersecurity", []string{"malware", "exploit", "hack", "zero-day"}},
	{"Phishing", []string{"verify", "suspended", "urgent", "credentials"}},
	{"Misinformation", []string{"suppressed", "breaking", "share before"}},
	{"Suspicious Activity", []string{"warehouse", "border", "package", "midnight"}},
}

// QuickCategories labels content by keyword lookup alone. It trades the
// engine's precision for speed; feed rows only need a rough tag.
func QuickCategories(text string) []string {
	lower := strings.ToLower(text)
	var cats []string
	for _, rule := range quickRules {
		for _, term := range rule.terms {
			if strings.Contains(lower, term) {
				cats = append(cats, rule.label)
				break
			}
		}
	}
	return cats
}
