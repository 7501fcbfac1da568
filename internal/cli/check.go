package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sentralab/sentra/internal/passwd"
	"github.com/sentralab/sentra/internal/urlcheck"
)

var checkGuessRate float64

// checkCmd groups the offline safety checks
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Offline safety checks",
	Long: `Quick checks that never leave the machine:
- url:      phishing heuristics for a link
- password: entropy-based strength estimate`,
}

var checkURLCmd = &cobra.Command{
	Use:   "url <url>",
	Short: "Score a URL with offline phishing heuristics",
	Long: `Scores a URL on weak phishing signals: missing HTTPS, an IP address
in place of a domain, suspicious keywords, and an overlong domain.
The check is heuristic and offline; nothing is fetched.

Example:
  sentra check url https://example.com
  sentra check url http://10.0.0.1.bank-login.example.com/verify`,
	Args: cobra.ExactArgs(1),
	RunE: runCheckURL,
}

var checkPasswordCmd = &cobra.Command{
	Use:   "password <password>",
	Short: "Estimate password strength from search-space entropy",
	Long: `Estimates strength as length x log2(pool size), with the average
time to crack at a configurable offline guess rate. The password is
never stored, sent anywhere, or echoed back.

Example:
  sentra check password 'Tr0ub4dor&3'
  sentra check password 'correct horse battery staple' --rate 1e12`,
	Args: cobra.ExactArgs(1),
	RunE: runCheckPassword,
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.AddCommand(checkURLCmd)
	checkCmd.AddCommand(checkPasswordCmd)

	checkPasswordCmd.Flags().Float64Var(&checkGuessRate, "rate", passwd.DefaultGuessRate, "attacker guesses per second")
}

func runCheckURL(cmd *cobra.Command, args []string) error {
	res := urlcheck.Check(args[0])
	if jsonOut {
		return writeJSON(os.Stdout, res)
	}

	fmt.Printf("\n%s %s\n", glyph(res.Score > 0), res.URL)
	fmt.Printf("  Verdict: %s (%d/%d)\n", res.Verdict, res.Score, res.MaxScore)
	if len(res.Reasons) > 0 {
		fmt.Printf("  Signals:\n")
		for _, reason := range res.Reasons {
			fmt.Printf("    - %s\n", reason)
		}
	}
	fmt.Printf("\n")
	return nil
}

func runCheckPassword(cmd *cobra.Command, args []string) error {
	report := passwd.AnalyzeAtRate(args[0], checkGuessRate)
	if jsonOut {
		return writeJSON(os.Stdout, report)
	}

	fmt.Printf("\n%s Password strength: %s\n", glyph(report.Strength == passwd.StrengthWeak), report.Strength)
	fmt.Printf("  Entropy:     %.1f bits\n", report.EntropyBits)
	fmt.Printf("  Crack time:  %s (at %g guesses/sec)\n", report.TimeDisplay, checkGuessRate)
	if len(report.Suggestions) > 0 {
		fmt.Printf("  Suggestions:\n")
		for _, s := range report.Suggestions {
			fmt.Printf("    - %s\n", s)
		}
	}
	fmt.Printf("\n")
	return nil
}
