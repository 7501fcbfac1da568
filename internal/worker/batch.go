package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/sentralab/sentra/internal/model"
)

// Analyzer is the slice of the engine that batch processing needs.
type Analyzer interface {
	Analyze(ctx context.Context, content string) (*model.AnalysisResult, error)
}

// AnalyzeJob is one line of input headed for the engine.
type AnalyzeJob struct {
	Index    int
	Content  string
	Label    string
	Analyzer Analyzer
	Limiter  *Limiter
}

// Execute waits for rate-limit clearance, then analyzes.
func (j *AnalyzeJob) Execute(ctx context.Context) Result {
	if j.Limiter != nil {
		if err := j.Limiter.Wait(ctx, j.Label); err != nil {
			return &AnalyzeResult{Index: j.Index, Content: j.Content, Error: err}
		}
	}

	res, err := j.Analyzer.Analyze(ctx, j.Content)
	if err != nil {
		return &AnalyzeResult{Index: j.Index, Content: j.Content, Error: err}
	}
	return &AnalyzeResult{Index: j.Index, Content: j.Content, Result: res}
}

// AnalyzeResult pairs an input line with its verdict or error.
type AnalyzeResult struct {
	Index   int
	Content string
	Result  *model.AnalysisResult
	Error   error
}

func (r *AnalyzeResult) GetError() error {
	return r.Error
}

// BatchProcessor fans input lines out over a worker pool. Pacing matters
// when enhancement is on: every line becomes a provider call.
type BatchProcessor struct {
	analyzer    Analyzer
	concurrency int
	limiter     *Limiter
}

// NewBatchProcessor builds a processor. Zero requestsPerSecond disables
// pacing entirely.
func NewBatchProcessor(analyzer Analyzer, concurrency int, requestsPerSecond float64, burst int) *BatchProcessor {
	var limiter *Limiter
	if requestsPerSecond > 0 {
		limiter = NewLimiter(requestsPerSecond, burst)
	}

	return &BatchProcessor{
		analyzer:    analyzer,
		concurrency: concurrency,
		limiter:     limiter,
	}
}

// ProcessLines analyzes every line concurrently and returns results in input
// order, one per line, errors included.
func (b *BatchProcessor) ProcessLines(ctx context.Context, lines []string) []*AnalyzeResult {
	if len(lines) == 0 {
		return []*AnalyzeResult{}
	}

	pool := NewPool(b.concurrency)
	pool.Start()

	for i, line := range lines {
		pool.Submit(&AnalyzeJob{
			Index:    i,
			Content:  line,
			Label:    "batch",
			Analyzer: b.analyzer,
			Limiter:  b.limiter,
		})
	}

	results := pool.Wait()

	out := make([]*AnalyzeResult, 0, len(results))
	for _, r := range results {
		out = append(out, r.(*AnalyzeResult))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}

// ProcessFile reads inputs from a file and analyzes them concurrently.
func (b *BatchProcessor) ProcessFile(ctx context.Context, path string) ([]*AnalyzeResult, error) {
	lines, err := ReadLinesFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lines: %w", err)
	}
	return b.ProcessLines(ctx, lines), nil
}

// ReadLinesFromFile reads one input per line, skipping blanks and #-comments
// and dropping duplicates.
func ReadLinesFromFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var lines []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024) // a single message can be a whole paragraph

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !seen[line] {
			seen[line] = true
			lines = append(lines, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}
	return lines, nil
}
