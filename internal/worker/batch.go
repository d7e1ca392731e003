package worker

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/ppiankov/verinex/internal/model"
	"github.com/ppiankov/verinex/internal/pipeline"
)

// Checker scores pasted text or a fetched article
type Checker interface {
	CheckText(ctx context.Context, text string, obs pipeline.Observer) (*model.Report, error)
	CheckURL(ctx context.Context, url string, obs pipeline.Observer) (*model.Report, error)
}

// Entry is one item of a batch: either a text or a URL
type Entry struct {
	Index int    `json:"index"`
	Text  string `json:"text,omitempty"`
	URL   string `json:"url,omitempty"`
}

// IsURL reports whether the entry is fetched rather than pasted
func (e Entry) IsURL() bool {
	return e.URL != ""
}

// Label is a short name for progress output
func (e Entry) Label() string {
	if e.IsURL() {
		return e.URL
	}
	runes := []rune(strings.Join(strings.Fields(e.Text), " "))
	if len(runes) > 40 {
		return string(runes[:40]) + "..."
	}
	return string(runes)
}

// CheckJob checks a single entry
type CheckJob struct {
	Entry   Entry
	Checker Checker
	Limiter *Limiter
}

// Execute runs the check; URL entries wait on the per-domain limiter first
func (j *CheckJob) Execute(ctx context.Context) Result {
	res := &CheckResult{Entry: j.Entry}

	if j.Entry.IsURL() {
		if j.Limiter != nil {
			if err := j.Limiter.Wait(ctx, j.Entry.URL); err != nil {
				res.Error = fmt.Errorf("rate limit: %w", err)
				return res
			}
		}
		res.Report, res.Error = j.Checker.CheckURL(ctx, j.Entry.URL, nil)
		return res
	}

	res.Report, res.Error = j.Checker.CheckText(ctx, j.Entry.Text, nil)
	return res
}

// CheckResult is the outcome for one entry
type CheckResult struct {
	Entry  Entry
	Report *model.Report
	Error  error
}

// GetError returns the check error
func (r *CheckResult) GetError() error {
	return r.Error
}

// BatchProcessor checks many entries concurrently
type BatchProcessor struct {
	checker     Checker
	concurrency int
	limiter     *Limiter
	onResult    func(*CheckResult)
}

// NewBatchProcessor creates a processor. requestsPerSecond <= 0 disables
// the per-domain limit for URL entries.
func NewBatchProcessor(checker Checker, concurrency int, requestsPerSecond float64, burst int) *BatchProcessor {
	b := &BatchProcessor{
		checker:     checker,
		concurrency: concurrency,
	}
	if requestsPerSecond > 0 {
		b.limiter = NewLimiter(requestsPerSecond, burst)
	}
	return b
}

// OnResult registers a callback invoked as each entry completes
func (b *BatchProcessor) OnResult(fn func(*CheckResult)) *BatchProcessor {
	b.onResult = fn
	return b
}

// Process checks entries and returns results in input order
func (b *BatchProcessor) Process(ctx context.Context, entries []Entry) []*CheckResult {
	if len(entries) == 0 {
		return []*CheckResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	go func() {
		for _, e := range entries {
			if !pool.Submit(&CheckJob{Entry: e, Checker: b.checker, Limiter: b.limiter}) {
				break
			}
		}
		pool.Close()
	}()

	results := make([]*CheckResult, 0, len(entries))
	for r := range pool.Results() {
		res := r.(*CheckResult)
		if b.onResult != nil {
			b.onResult(res)
		}
		results = append(results, res)
	}

	// entries the pool never ran fail with the context error
	if len(results) < len(entries) {
		done := make(map[int]bool, len(results))
		for _, r := range results {
			done[r.Entry.Index] = true
		}
		err := ctx.Err()
		if err == nil {
			err = context.Canceled
		}
		for _, e := range entries {
			if !done[e.Index] {
				results = append(results, &CheckResult{Entry: e, Error: err})
			}
		}
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Entry.Index < results[j].Entry.Index
	})
	return results
}

// ProcessFile reads entries from a file and checks them
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*CheckResult, error) {
	entries, err := ReadEntriesFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read entries: %w", err)
	}
	return b.Process(ctx, entries), nil
}

// ReadEntriesFromFile reads entries from a file, one per line
func ReadEntriesFromFile(filePath string) ([]Entry, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	return ReadEntries(file)
}

// ReadEntries parses one entry per line. Lines starting with http:// or
// https:// are URLs, anything else is text to check. Blank lines and
// lines starting with # are skipped, and duplicates are dropped.
func ReadEntries(r io.Reader) ([]Entry, error) {
	var entries []Entry
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if seen[line] {
			continue
		}
		seen[line] = true

		e := Entry{Index: len(entries)}
		if strings.HasPrefix(line, "http://") || strings.HasPrefix(line, "https://") {
			e.URL = line
		} else {
			e.Text = line
		}
		entries = append(entries, e)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}
	return entries, nil
}

// Summary counts batch outcomes
type Summary struct {
	Total   int                         `json:"total"`
	Failed  int                         `json:"failed"`
	ByLevel map[model.VeracityLevel]int `json:"by_level"`
}

// Summarize tallies results by verdict level
func Summarize(results []*CheckResult) Summary {
	s := Summary{Total: len(results), ByLevel: make(map[model.VeracityLevel]int)}
	for _, r := range results {
		if r.Error != nil || r.Report == nil {
			s.Failed++
			continue
		}
		s.ByLevel[r.Report.Analysis.Verdict.Level]++
	}
	return s
}
