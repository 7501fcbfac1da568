package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/sentralab/sentra/internal/engine"
	"github.com/sentralab/sentra/internal/extract"
)

var (
	analyzeFile    string
	analyzeHTML    bool
	analyzeChunks  bool
	noAnonymize    bool
	analyzeTimeout time.Duration
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze [text]",
	Short: "Analyze one piece of content for threat signals",
	Long: `Analyze scores a single piece of content:
- Normalize text and mask PII (emails, IPs, phone numbers)
- Match weighted threat patterns across seven categories
- Detect entities and their co-occurrence
- Fold pattern, entity, and sentiment signals into a 0-100 risk score
- Emit a deterministic reasoning trace and mitigation steps

The verdict is computed locally. With --llm an assessment from the
configured provider is attached on top; it never replaces the verdict.

Example:
  sentra analyze "we will strike the server room tomorrow"
  sentra analyze --file message.txt
  sentra analyze --file page.html --html
  sentra analyze --file report.txt --chunks
  sentra analyze "..." --llm --llm-provider ollama`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	// Input flags
	analyzeCmd.Flags().StringVar(&analyzeFile, "file", "", "read content from a file instead of the argument")
	analyzeCmd.Flags().BoolVar(&analyzeHTML, "html", false, "treat input as HTML and extract visible text first")
	analyzeCmd.Flags().BoolVar(&analyzeChunks, "chunks", false, "analyze long content in chunks and report the highest-risk one")
	analyzeCmd.Flags().BoolVar(&noAnonymize, "no-anonymize", false, "skip PII masking before analysis")
	analyzeCmd.Flags().DurationVar(&analyzeTimeout, "timeout", 30*time.Second, "overall analysis timeout")

	// LLM flags
	addLLMFlags(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	content, err := analyzeInput(args)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), analyzeTimeout)
	defer cancel()

	// Build configuration from flags
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if noAnonymize {
		cfg.Engine.Anonymize = false
	}
	if err := applyLLMFlags(cfg); err != nil {
		return err
	}

	if analyzeHTML {
		text, err := extract.VisibleText(strings.NewReader(content))
		if err != nil {
			return fmt.Errorf("extract html: %w", err)
		}
		content = text
	}

	eng, err := engine.New(cfg)
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "⚙️  Analyzing %d characters...\n", len(content))
		if eng.EnhancementEnabled() {
			fmt.Fprintf(os.Stderr, "⚙️  Enhancement: %s\n", cfg.LLM.Provider)
		}
	}

	if analyzeChunks {
		best, parts, err := eng.AnalyzeDocument(ctx, content)
		if err != nil {
			return fmt.Errorf("analyze failed: %w", err)
		}
		if verbose {
			for i, part := range parts {
				fmt.Fprintf(os.Stderr, "%s chunk %d: %d/100 %s\n",
					glyph(part.Flagged), i+1, part.Risk.Value, part.Risk.Level)
			}
			fmt.Fprintln(os.Stderr)
		}
		fmt.Fprintf(os.Stderr, "✓ Highest-risk chunk of %d shown\n", len(parts))
		if cfg.Output.JSON {
			return writeJSON(os.Stdout, best)
		}
		renderResult(os.Stdout, best)
		return nil
	}

	result, err := eng.Analyze(ctx, content)
	if err != nil {
		return fmt.Errorf("analyze failed: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Matched %d categories, %d evidence spans\n",
			len(result.Categories), len(result.Matches))
		if result.Enhanced {
			fmt.Fprintf(os.Stderr, "✓ Enhanced with %s\n", result.Enhancement.Provider)
		}
		fmt.Fprintln(os.Stderr)
	}

	if cfg.Output.JSON {
		return writeJSON(os.Stdout, result)
	}
	renderResult(os.Stdout, result)
	return nil
}

// analyzeInput resolves the content to score from the positional argument or
// the --file flag, one of which must be given.
func analyzeInput(args []string) (string, error) {
	switch {
	case analyzeFile != "" && len(args) > 0:
		return "", fmt.Errorf("pass text as an argument or via --file, not both")
	case analyzeFile != "":
		data, err := os.ReadFile(analyzeFile)
		if err != nil {
			return "", fmt.Errorf("read input: %w", err)
		}
		return string(data), nil
	case len(args) == 1:
		return args[0], nil
	default:
		return "", fmt.Errorf("nothing to analyze: pass text as an argument or use --file")
	}
}
