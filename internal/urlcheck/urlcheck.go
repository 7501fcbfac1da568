// Package urlcheck scores URLs against offline phishing heuristics. Nothing
// is fetched; the verdict comes from the URL's shape alone.
package urlcheck

import (
	"net/url"
	"regexp"
	"strings"
)

// MaxScore is the ceiling of the heuristic scale: one point per weak signal,
// two for an IP-literal domain.
const MaxScore = 6

const (
	VerdictSafe       = "Safe"
	VerdictSuspicious = "Suspicious"
	VerdictHighRisk   = "High Risk"
)

var (
	ipInDomain      = regexp.MustCompile(`\d+\.\d+\.\d+\.\d+`)
	suspiciousWords = []string{"login", "verify", "bank", "secure", "update", "password"}
)

// Result is one URL's assessment.
type Result struct {
	URL      string   `json:"url"`
	Score    int      `json:"score"`
	MaxScore int      `json:"max_score"`
	Verdict  string   `json:"verdict"`
	Reasons  []string `json:"reasons"`
}

// Check scores a URL. Unparsable input is not an error: it simply has no
// domain and is judged on the remaining signals.
func Check(raw string) Result {
	score := 0
	reasons := []string{}

	if !strings.HasPrefix(raw, "https") {
		score++
		reasons = append(reasons, "Not HTTPS")
	}

	domain := ""
	if u, err := url.Parse(raw); err == nil {
		domain = u.Host
	}

	if ipInDomain.MatchString(domain) {
		score += 2
		reasons = append(reasons, "IP address in domain")
	}

	lower := strings.ToLower(raw)
	for _, w := range suspiciousWords {
		if strings.Contains(lower, w) {
			score++
			reasons = append(reasons, "Suspicious keywords detected")
			break
		}
	}

	if len(domain) > 30 {
		score++
		reasons = append(reasons, "Very long domain name")
	}

	return Result{
		URL:      raw,
		Score:    score,
		MaxScore: MaxScore,
		Verdict:  verdict(score),
		Reasons:  reasons,
	}
}

func verdict(score int) string {
	switch {
	case score == 0:
		return VerdictSafe
	case score <= 2:
		return VerdictSuspicious
	default:
		return VerdictHighRisk
	}
}
