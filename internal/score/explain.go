package score

import (
	"fmt"

	"github.com/sentralab/sentra/internal/model"
)

// refDescriptions give each evidence statement its narrative tail.
var refDescriptions = map[string]string{
	string(model.CategoryViolence):           "language associated with violence or physical threats",
	string(model.CategoryCybersecurity):      "indicators of malware, intrusion or attack activity",
	string(model.CategorySocialEngineering):  "hallmarks of phishing or manipulation attempts",
	string(model.CategoryHateSpeech):         "hate speech or extremist rhetoric",
	string(model.CategoryMisinformation):     "misinformation or disinformation markers",
	string(model.CategorySuspiciousActivity): "signs of covert coordination",
	string(model.CategoryDataExfiltration):   "language consistent with data theft or exfiltration",
	string(model.KindWeapon):                 "weapon-related terms",
	string(model.KindThreatVerb):             "direct threat language",
	string(model.KindLocation):               "operationally sensitive location terms",
}

// Explain renders the outcome as an ordered trace: one statement per
// contributing category or entity kind (descending weight), then exactly one
// sentiment statement and one level statement. The trace is a pure function
// of the outcome, so identical input yields an identical trace.
func Explain(o Outcome, sentiment model.SentimentScore, th model.Thresholds) []model.Statement {
	stmts := make([]model.Statement, 0, len(o.Contributions)+2)

	for _, c := range o.Contributions {
		text := fmt.Sprintf("%s: %d hit(s) adding %.0f points; content contains %s.",
			c.Display, c.Hits, c.Weight, refDescriptions[c.Ref])
		if c.Ref == string(model.KindThreatVerb) && o.CoOccurrence > 0 {
			text += fmt.Sprintf(" Co-occurrence with weapon terms adds another %.0f points.", o.CoOccurrence)
		}
		stmts = append(stmts, model.Statement{Ref: c.Ref, Text: text, Hits: c.Hits, Weight: c.Weight})
	}

	stmts = append(stmts, sentimentStatement(sentiment))
	stmts = append(stmts, levelStatement(o.Score, th))
	return stmts
}

func sentimentStatement(s model.SentimentScore) model.Statement {
	var text string
	switch s.Polarity {
	case model.SentimentNegative:
		text = fmt.Sprintf("Negative sentiment (intensity %.2f) scales the base score up by %.0f%%.",
			s.Intensity, sentimentSwing*s.Intensity*100)
	case model.SentimentPositive:
		text = fmt.Sprintf("Positive sentiment (intensity %.2f) scales the base score down by %.0f%%.",
			s.Intensity, sentimentSwing*s.Intensity*100)
	default:
		text = "Neutral sentiment leaves the base score unchanged."
	}
	return model.Statement{Ref: "sentiment", Text: text}
}

func levelStatement(score model.RiskScore, th model.Thresholds) model.Statement {
	var reason string
	switch score.Level {
	case model.LevelCritical:
		reason = fmt.Sprintf("meets the critical threshold (%d)", th.Critical)
	case model.LevelHigh:
		reason = fmt.Sprintf("meets the high threshold (%d)", th.High)
	case model.LevelMedium:
		reason = fmt.Sprintf("meets the medium threshold (%d)", th.Medium)
	case model.LevelLow:
		reason = fmt.Sprintf("meets the low threshold (%d)", th.Low)
	default:
		reason = fmt.Sprintf("is below the low threshold (%d)", th.Low)
	}
	return model.Statement{
		Ref:  "level",
		Text: fmt.Sprintf("Final score %d %s: risk level %s.", score.Value, reason, score.Level),
	}
}
