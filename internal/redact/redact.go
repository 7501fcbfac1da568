// Package redact masks personally identifying tokens before any analysis or
// persistence sees the text. Raw input never travels further than this pass.
package redact

import "regexp"

// piiRedactor pairs a detection pattern with its replacement placeholder.
type piiRedactor struct {
	re          *regexp.Regexp
	placeholder string
}

// Order matters: IP addresses are masked before phone numbers, whose pattern
// would otherwise consume dotted quads digit by digit.
var piiRedactors = []piiRedactor{
	{regexp.MustCompile(`\b[\w.+-]+@[\w-]+\.\w+\b`), "[EMAIL REDACTED]"},
	{regexp.MustCompile(`\b(?:\d{1,3}\.){3}\d{1,3}\b`), "[IP REDACTED]"},
	{regexp.MustCompile(`\b(?:[0-9A-Fa-f]{1,4}:){7}[0-9A-Fa-f]{1,4}\b|\b(?:[0-9A-Fa-f]{1,4}:){1,7}:(?:[0-9A-Fa-f]{1,4}(?::[0-9A-Fa-f]{1,4}){0,6})?\b`), "[IP REDACTED]"},
	{regexp.MustCompile(`\b\+?\d[\d\s\-().]{7,14}\d\b`), "[PHONE REDACTED]"},
}

// PII replaces email addresses, IP addresses and phone-number-shaped digit
// runs with category placeholders. The returned flag reports whether anything
// was masked.
//
// The pass is idempotent: no placeholder contains a token the patterns match,
// so running it over already-masked text changes nothing.
func PII(text string) (string, bool) {
	masked := text
	applied := false
	for _, r := range piiRedactors {
		if !r.re.MatchString(masked) {
			continue
		}
		masked = r.re.ReplaceAllString(masked, r.placeholder)
		applied = true
	}
	return masked, applied
}
