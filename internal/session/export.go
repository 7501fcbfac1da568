package session

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/sentralab/sentra/internal/model"
)

const privacyNotice = "Content was anonymized before analysis where enabled; exports carry masked previews only."

var csvHeader = []string{
	"ID", "Timestamp", "Source", "Risk Score", "Risk Level",
	"Categories", "Sentiment", "Flagged", "Content Preview",
}

// WriteCSV renders records as spreadsheet rows. Previews are clipped so one
// long message cannot blow up the sheet.
func WriteCSV(w io.Writer, records []*Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, rec := range records {
		row := []string{
			rec.ID,
			rec.Timestamp.Format("2006-01-02 15:04:05"),
			rec.Source,
			strconv.Itoa(rec.Result.Risk.Value),
			string(rec.Result.Risk.Level),
			rec.Result.CategoryLine(),
			string(rec.Result.Sentiment.Polarity),
			strconv.FormatBool(rec.Result.Flagged),
			clip(rec.Result.ContentPreview, 100),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// jsonExport is the envelope for JSON exports.
type jsonExport struct {
	ExportTimestamp string    `json:"export_timestamp"`
	SessionStats    Stats     `json:"session_stats"`
	AnalysisResults []*Record `json:"analysis_results"`
	PrivacyNotice   string    `json:"privacy_notice"`
}

// WriteJSON renders the full session, stats included, as indented JSON.
func WriteJSON(w io.Writer, stats Stats, records []*Record) error {
	if records == nil {
		records = []*Record{}
	}
	env := jsonExport{
		ExportTimestamp: time.Now().UTC().Format(time.RFC3339),
		SessionStats:    stats,
		AnalysisResults: records,
		PrivacyNotice:   privacyNotice,
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(env)
}

// WriteBrief renders a plain-text intelligence brief: summary, level
// breakdown, and every event at or above the high threshold.
func WriteBrief(w io.Writer, stats Stats, records []*Record, th model.Thresholds) error {
	var b strings.Builder
	rule := strings.Repeat("=", 70)

	b.WriteString(rule + "\n")
	b.WriteString("SENTRA THREAT INTELLIGENCE BRIEF\n")
	b.WriteString("Generated: " + time.Now().UTC().Format("2006-01-02 15:04:05 UTC") + "\n")
	b.WriteString(rule + "\n\n")

	b.WriteString("EXECUTIVE SUMMARY\n")
	b.WriteString(fmt.Sprintf("  Events analyzed:   %d\n", stats.TotalAnalyzed))
	b.WriteString(fmt.Sprintf("  Threats detected:  %d\n", stats.ThreatsDetected))
	b.WriteString(fmt.Sprintf("  Average risk:      %.1f/100\n", stats.AvgRiskScore))
	b.WriteString(fmt.Sprintf("  Session level:     %s\n\n", stats.ThreatLevel))

	b.WriteString("RISK BREAKDOWN\n")
	for _, level := range []model.RiskLevel{
		model.LevelCritical, model.LevelHigh, model.LevelMedium, model.LevelLow, model.LevelSafe,
	} {
		b.WriteString(fmt.Sprintf("  %-8s %d\n", level, stats.ByLevel[string(level)]))
	}
	b.WriteString("\n")

	b.WriteString("HIGH-RISK EVENTS\n")
	found := false
	for _, rec := range records {
		if rec.Result.Risk.Value < th.High {
			continue
		}
		found = true
		b.WriteString(fmt.Sprintf("  [%s] %s  score %d (%s)\n",
			rec.ID, rec.Timestamp.Format("15:04:05"), rec.Result.Risk.Value, rec.Result.Risk.Level))
		b.WriteString(fmt.Sprintf("    Source:     %s\n", rec.Source))
		b.WriteString(fmt.Sprintf("    Categories: %s\n", orDash(rec.Result.CategoryLine())))
		b.WriteString(fmt.Sprintf("    Preview:    %s\n", clip(rec.Result.ContentPreview, 100)))
	}
	if !found {
		b.WriteString("  (none)\n")
	}
	b.WriteString("\n")

	b.WriteString("PRIVACY NOTICE\n")
	b.WriteString("  " + privacyNotice + "\n")
	b.WriteString(rule + "\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func clip(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
