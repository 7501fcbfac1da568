// Package passwd estimates password strength from search-space arithmetic.
// Nothing here stores or logs the password; callers get metrics only.
package passwd

import (
	"fmt"
	"math"
	"strings"
	"unicode"
)

// DefaultGuessRate models a well-resourced offline attacker hashing at one
// billion guesses per second.
const DefaultGuessRate = 1e9

type Strength string

const (
	StrengthWeak   Strength = "Weak"
	StrengthMedium Strength = "Medium"
	StrengthStrong Strength = "Strong"
)

// Report carries the strength metrics for one password.
type Report struct {
	EntropyBits float64  `json:"entropy_bits"`
	Guesses     float64  `json:"guesses"` // average search effort, half the space
	TimeSeconds float64  `json:"time_seconds"`
	TimeDisplay string   `json:"time_display"`
	Strength    Strength `json:"strength"`
	Suggestions []string `json:"suggestions"`
}

// Analyze estimates strength at the default guess rate.
func Analyze(password string) Report {
	return AnalyzeAtRate(password, DefaultGuessRate)
}

// AnalyzeAtRate computes entropy from the character pool, the average search
// effort, and the time to crack at the given guesses-per-second rate.
func AnalyzeAtRate(password string, guessesPerSecond float64) Report {
	var lower, upper, digit, symbol bool
	length := 0
	for _, r := range password {
		length++
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		default:
			symbol = true
		}
	}

	pool := 0
	if lower {
		pool += 26
	}
	if upper {
		pool += 26
	}
	if digit {
		pool += 10
	}
	if symbol {
		pool += 33 // the common printable symbols
	}

	if length == 0 || pool == 0 {
		return Report{
			TimeDisplay: "n/a",
			Strength:    StrengthWeak,
			Suggestions: []string{"Enter a password to analyze."},
		}
	}

	entropy := float64(length) * math.Log2(float64(pool))

	guesses := math.Pow(float64(pool), float64(length)) / 2
	if math.IsInf(guesses, 1) {
		guesses = math.MaxFloat64 // keep the report JSON-encodable
	}

	if guessesPerSecond < 1 {
		guessesPerSecond = 1
	}
	seconds := guesses / guessesPerSecond

	return Report{
		EntropyBits: math.Round(entropy*100) / 100,
		Guesses:     guesses,
		TimeSeconds: seconds,
		TimeDisplay: humanTime(seconds),
		Strength:    classify(entropy),
		Suggestions: suggestions(password, length, lower, upper, digit, symbol),
	}
}

func classify(entropyBits float64) Strength {
	switch {
	case entropyBits < 28:
		return StrengthWeak
	case entropyBits < 60:
		return StrengthMedium
	default:
		return StrengthStrong
	}
}

var commonSequences = []string{"123456", "qwerty", "admin"}

func suggestions(password string, length int, lower, upper, digit, symbol bool) []string {
	var s []string
	if length < 12 {
		s = append(s, "Increase length to at least 12 characters.")
	}
	if !upper {
		s = append(s, "Add uppercase letters (A-Z).")
	}
	if !lower {
		s = append(s, "Add lowercase letters (a-z).")
	}
	if !digit {
		s = append(s, "Include digits (0-9).")
	}
	if !symbol {
		s = append(s, "Include symbols (e.g. !@#$%).")
	}

	lowered := strings.ToLower(password)
	if strings.Contains(lowered, "password") || isCommonSequence(lowered) {
		s = append(s, "Avoid common words or simple sequences.")
	}

	if len(s) == 0 {
		s = append(s, "No immediate improvements suggested; consider increasing length for extra safety.")
	}
	return s
}

func isCommonSequence(lowered string) bool {
	trimmed := strings.TrimSpace(lowered)
	for _, seq := range commonSequences {
		if trimmed == seq {
			return true
		}
	}
	return false
}

func humanTime(seconds float64) string {
	const (
		minute = 60
		hour   = 3600
		day    = 86400
		year   = 31536000
	)
	switch {
	case seconds <= 1:
		return "<1 second"
	case seconds < minute:
		return fmt.Sprintf("%d seconds", int(seconds))
	case seconds < hour:
		return fmt.Sprintf("%d minutes", int(seconds/minute))
	case seconds < day:
		return fmt.Sprintf("%d hours", int(seconds/hour))
	case seconds < year:
		return fmt.Sprintf("%d days", int(seconds/day))
	}

	years := seconds / year
	if years < 100 {
		return fmt.Sprintf("%.1f years", years)
	}
	centuries := years / 100
	if centuries < 1000 {
		return fmt.Sprintf("%.1f centuries", centuries)
	}
	return "millennia+"
}
