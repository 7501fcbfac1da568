package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/sentralab/sentra/internal/model"
	"github.com/sentralab/sentra/internal/session"
)

const banner = "═══════════════════════════════════════════════════════════"

// glyph marks a verdict line at a glance: flagged content gets the cross.
func glyph(flagged bool) string {
	if flagged {
		return "✗"
	}
	return "✓"
}

// yesNo renders a bool the way the summary view spells it.
func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

// writeJSON emits v as indented JSON, for --json mode and per-item verdict
// files.
func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// clipLine shortens one content line for progress output. Clipping is by
// rune so multibyte text cannot be cut mid-character.
func clipLine(s string) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) <= 60 {
		return s
	}
	return string(runes[:57]) + "..."
}

// renderResult writes the human summary view of one verdict.
func renderResult(w io.Writer, res *model.AnalysisResult) {
	categories := "none"
	if len(res.Categories) > 0 {
		categories = strings.Join(res.Categories, ", ")
	}

	sentiment := string(res.Sentiment.Polarity)
	if res.Sentiment.Polarity != model.SentimentNeutral {
		sentiment = fmt.Sprintf("%s (intensity %.2f)", sentiment, res.Sentiment.Intensity)
	}

	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "%s\n", banner)
	fmt.Fprintf(w, "  Sentra Threat Analysis\n")
	fmt.Fprintf(w, "%s\n", banner)
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "  Risk:         %d/100 %s\n", res.Risk.Value, res.Risk.Level)
	fmt.Fprintf(w, "  Flagged:      %s\n", yesNo(res.Flagged))
	fmt.Fprintf(w, "  Categories:   %s\n", categories)
	fmt.Fprintf(w, "  Sentiment:    %s\n", sentiment)
	fmt.Fprintf(w, "  Fingerprint:  %s\n", res.ContentHash)
	fmt.Fprintf(w, "  Anonymized:   %s\n", yesNo(res.Anonymized))
	fmt.Fprintf(w, "  Engine:       %s\n", res.Engine)
	fmt.Fprintf(w, "  Elapsed:      %.2fms\n", res.ProcessingMS)
	fmt.Fprintf(w, "\n")

	if len(res.Explanation) > 0 {
		fmt.Fprintf(w, "  Reasoning:\n")
		for i, stmt := range res.Explanation {
			fmt.Fprintf(w, "    %d. %s\n", i+1, stmt.Text)
		}
		fmt.Fprintf(w, "\n")
	}

	if len(res.Recommendations) > 0 {
		fmt.Fprintf(w, "  Recommendations:\n")
		for i, rec := range res.Recommendations {
			fmt.Fprintf(w, "    %d. %s\n", i+1, rec.Action)
		}
		fmt.Fprintf(w, "\n")
	}

	if res.Enhanced && res.Enhancement != nil {
		e := res.Enhancement
		label := e.Provider
		if e.Model != "" {
			label += " " + e.Model
		}
		fmt.Fprintf(w, "  Enhancement (%s):\n", label)
		fmt.Fprintf(w, "    %s\n", e.Assessment)
		if e.RevisedScore != nil {
			fmt.Fprintf(w, "    Revised score: %d (base %d %s)\n", *e.RevisedScore, e.BaseValue, e.BaseLevel)
		}
		fmt.Fprintf(w, "\n")
	}
}

// renderStats writes the session roll-up shown when a stream or batch ends.
func renderStats(w io.Writer, title string, stats session.Stats) {
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "%s\n", banner)
	fmt.Fprintf(w, "  %s\n", title)
	fmt.Fprintf(w, "%s\n", banner)
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "  Analyzed:     %d\n", stats.TotalAnalyzed)
	fmt.Fprintf(w, "  Flagged:      %d\n", stats.ThreatsDetected)
	fmt.Fprintf(w, "  Avg score:    %.1f\n", stats.AvgRiskScore)
	fmt.Fprintf(w, "  Threat level: %s\n", stats.ThreatLevel)
	if len(stats.ByLevel) > 0 {
		fmt.Fprintf(w, "  By level:    ")
		for _, level := range []model.RiskLevel{
			model.LevelSafe, model.LevelLow, model.LevelMedium, model.LevelHigh, model.LevelCritical,
		} {
			if n := stats.ByLevel[string(level)]; n > 0 {
				fmt.Fprintf(w, " %s=%d", level, n)
			}
		}
		fmt.Fprintf(w, "\n")
	}
	fmt.Fprintf(w, "\n")
}

// writeExport renders a session in the named format.
func writeExport(w io.Writer, format string, store *session.Store, th model.Thresholds) error {
	records := store.Records()
	stats := store.Stats()

	switch format {
	case "csv":
		return session.WriteCSV(w, records)
	case "json":
		return session.WriteJSON(w, stats, records)
	case "brief":
		return session.WriteBrief(w, stats, records, th)
	default:
		return fmt.Errorf("unknown export format %q (use csv, json, or brief)", format)
	}
}
