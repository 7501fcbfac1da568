package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/sentralab/sentra/internal/engine"
	"github.com/sentralab/sentra/internal/feed"
	"github.com/sentralab/sentra/internal/model"
	"github.com/sentralab/sentra/internal/session"
)

var (
	feedCount    int
	feedInterval time.Duration
	feedDeep     bool
	feedExport   string
	feedOutput   string
)

// feedCmd represents the feed command
var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Stream simulated live monitoring events",
	Long: `Feed streams simulated monitoring events for demos and soak tests:
- Curated sample texts from realistic sources, with score jitter
- Quick keyword categories and a sentiment reading per event
- Optional full engine analysis of every event (--deep)
- Session statistics and an optional export when the stream ends

The stream stops after --count events, or on Ctrl-C.

Example:
  sentra feed
  sentra feed --count 20 --interval 500ms
  sentra feed --deep --export brief
  sentra feed --count 50 --export csv --output session.csv`,
	Args: cobra.NoArgs,
	RunE: runFeed,
}

func init() {
	rootCmd.AddCommand(feedCmd)

	feedCmd.Flags().IntVar(&feedCount, "count", 10, "number of events to stream (0 = until interrupted)")
	feedCmd.Flags().DurationVar(&feedInterval, "interval", 0, "delay between events (default from config)")
	feedCmd.Flags().BoolVar(&feedDeep, "deep", false, "run the full analysis engine on every event")
	feedCmd.Flags().StringVar(&feedExport, "export", "", "export the session when the stream ends (csv, json, brief)")
	feedCmd.Flags().StringVar(&feedOutput, "output", "", "export file path (default: stdout)")
}

func runFeed(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if feedInterval > 0 {
		cfg.Feed.Interval = feedInterval
	}
	if err := applyLLMFlags(cfg); err != nil {
		return err
	}

	// Reject a bad export format before streaming, not after.
	switch feedExport {
	case "", "csv", "json", "brief":
	default:
		return fmt.Errorf("unknown export format %q (use csv, json, or brief)", feedExport)
	}

	var eng *engine.Engine
	mode := "sampled scores"
	if feedDeep {
		if eng, err = engine.New(cfg); err != nil {
			return err
		}
		mode = "full engine analysis"
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "%s\n", banner)
	fmt.Fprintf(os.Stderr, "  Sentra Live Feed\n")
	fmt.Fprintf(os.Stderr, "%s\n", banner)
	fmt.Fprintf(os.Stderr, "\n")
	if feedCount > 0 {
		fmt.Fprintf(os.Stderr, "  Events:    %d\n", feedCount)
	} else {
		fmt.Fprintf(os.Stderr, "  Events:    until interrupted\n")
	}
	fmt.Fprintf(os.Stderr, "  Interval:  %v\n", cfg.Feed.Interval)
	fmt.Fprintf(os.Stderr, "  Mode:      %s\n", mode)
	fmt.Fprintf(os.Stderr, "\n")

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	gen := feed.NewGenerator(cfg.Engine.Thresholds)
	store := session.NewStore()

	seen := 0
	for item := range gen.Stream(ctx, cfg.Feed.Interval) {
		res := itemResult(ctx, eng, item)
		store.AddWithID(item.ID, item.Source, res)

		fmt.Fprintf(os.Stderr, "%s [%s] %-18s %3d/100 %-8s\n",
			glyph(res.Flagged), item.Timestamp.Format("15:04:05"),
			item.Source, res.Risk.Value, res.Risk.Level)
		fmt.Fprintf(os.Stderr, "             %s\n", clipLine(item.Content))

		seen++
		if feedCount > 0 && seen >= feedCount {
			cancel()
			break
		}
	}

	renderStats(os.Stderr, "Session Summary", store.Stats())

	if feedExport == "" {
		return nil
	}

	if feedOutput == "" {
		return writeExport(os.Stdout, feedExport, store, cfg.Engine.Thresholds)
	}

	f, err := os.Create(feedOutput)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	if err := writeExport(f, feedExport, store, cfg.Engine.Thresholds); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close export file: %w", err)
	}

	fmt.Fprintf(os.Stderr, "✓ Exported session to %s\n", feedOutput)
	return nil
}

// itemResult scores one feed event. In deep mode the engine produces the
// full verdict; otherwise the event's sampled reading is wrapped as a result
// so session stats and exports see a uniform shape.
func itemResult(ctx context.Context, eng *engine.Engine, item feed.Item) *model.AnalysisResult {
	if eng != nil {
		res, err := eng.Analyze(ctx, item.Content)
		if err == nil {
			return res
		}
		fmt.Fprintf(os.Stderr, "✗ %s: %v\n", item.ID, err)
	}
	return &model.AnalysisResult{
		ContentPreview: item.Content,
		Risk:           item.Risk,
		Flagged:        item.Flagged,
		Categories:     item.Categories,
		Sentiment:      model.SentimentScore{Polarity: item.Sentiment},
		Engine:         "Sentra Feed Sampler",
	}
}
