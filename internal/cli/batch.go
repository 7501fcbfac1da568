package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/sentralab/sentra/internal/engine"
	"github.com/sentralab/sentra/internal/model"
	"github.com/sentralab/sentra/internal/session"
	"github.com/sentralab/sentra/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
	batchRPS     float64
	batchBurst   int
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Analyze multiple texts from a file in parallel",
	Long: `Batch analyzes a file of texts, one per line:
- Blank lines and # comments are skipped, duplicates analyzed once
- Lines are scored in parallel with a configurable worker count
- Workers share a rate limit when enhancement is on
- One JSON verdict per line is written to the output directory
- Session exports (CSV, JSON, analyst brief) summarize the run

Example:
  sentra batch messages.txt
  sentra batch messages.txt --concurrency 10 --output-dir ./sentra-reports
  sentra batch messages.txt --llm --rps 2`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	// Concurrency flags
	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./sentra-reports", "output directory for verdicts and exports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().Float64Var(&batchRPS, "rps", 0, "requests per second across all workers (0 = config default)")
	batchCmd.Flags().IntVar(&batchBurst, "burst", 1, "rate limiter burst size")

	// LLM flags
	addLLMFlags(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]
	ctx, cancel := context.WithTimeout(cmd.Context(), batchTimeout)
	defer cancel()

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "%s\n", banner)
	fmt.Fprintf(os.Stderr, "  Sentra Batch Analysis\n")
	fmt.Fprintf(os.Stderr, "%s\n", banner)
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input file:   %s\n", file)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", concurrency)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)

	// Build configuration
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cfg.Concurrency.Workers = concurrency
	if err := applyLLMFlags(cfg); err != nil {
		return err
	}

	// Pacing protects the enhancement provider; local pattern analysis
	// runs unpaced unless a rate was asked for explicitly.
	rps, burst := 0.0, 0
	if !cfg.Engine.LocalMode {
		rps, burst = cfg.Concurrency.RequestsPerSecond, cfg.Concurrency.BurstSize
		fmt.Fprintf(os.Stderr, "  LLM:          %s\n", cfg.LLM.Provider)
	}
	if batchRPS > 0 {
		rps, burst = batchRPS, batchBurst
	}
	fmt.Fprintf(os.Stderr, "\n")

	// Create output directory
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	eng, err := engine.New(cfg)
	if err != nil {
		return err
	}

	processor := worker.NewBatchProcessor(eng, cfg.Concurrency.Workers, rps, burst)

	fmt.Fprintf(os.Stderr, "⚙️  Reading texts from file...\n")
	results, err := processor.ProcessFile(ctx, file)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	fmt.Fprintf(os.Stderr, "✓ Loaded %d texts\n", len(results))
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "⚙️  Analyzing with %d workers...\n", concurrency)
	fmt.Fprintf(os.Stderr, "\n")

	store := session.NewStore()
	source := filepath.Base(file)
	successCount := 0
	failureCount := 0

	for _, result := range results {
		if result.Error != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", clipLine(result.Content), result.Error)
			continue
		}

		successCount++
		store.Add(source, result.Result)

		verdictPath := filepath.Join(outputDir, result.Result.ContentHash+".json")
		if err := writeResultFile(verdictPath, result.Result); err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: write verdict: %v\n", clipLine(result.Content), err)
			continue
		}

		fmt.Fprintf(os.Stderr, "%s %3d/100 %-8s %s\n",
			glyph(result.Result.Flagged), result.Result.Risk.Value,
			result.Result.Risk.Level, clipLine(result.Content))
	}

	if err := writeSessionExports(outputDir, store, cfg.Engine.Thresholds); err != nil {
		return err
	}

	// Summary
	stats := store.Stats()
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "%s\n", banner)
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "%s\n", banner)
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d texts\n", len(results))
	fmt.Fprintf(os.Stderr, "  Success:   %d\n", successCount)
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", failureCount)
	fmt.Fprintf(os.Stderr, "  Flagged:   %d\n", stats.ThreatsDetected)
	fmt.Fprintf(os.Stderr, "  Output:    %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "\n")

	return nil
}

// writeResultFile writes one verdict as an indented JSON file.
func writeResultFile(path string, res *model.AnalysisResult) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := writeJSON(f, res); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// writeSessionExports writes the session roll-ups next to the per-item
// verdicts.
func writeSessionExports(dir string, store *session.Store, th model.Thresholds) error {
	exports := []struct {
		name   string
		format string
	}{
		{"session.csv", "csv"},
		{"session.json", "json"},
		{"brief.txt", "brief"},
	}

	for _, exp := range exports {
		f, err := os.Create(filepath.Join(dir, exp.name))
		if err != nil {
			return fmt.Errorf("create %s: %w", exp.name, err)
		}
		if err := writeExport(f, exp.format, store, th); err != nil {
			f.Close()
			return fmt.Errorf("write %s: %w", exp.name, err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("close %s: %w", exp.name, err)
		}
	}
	return nil
}
