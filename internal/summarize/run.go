package summarize

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/matheus3301/chatvault/internal/vault"
)

// Summary reports a directory summarization outcome.
type Summary struct {
	Summarized int
	Skipped    int
	Failed     int
}

// Runner batches a summarizer over a transcript directory.
type Runner struct {
	sum       Summarizer
	maxTokens int
	rateLimit time.Duration
	logger    *zap.Logger
}

// NewRunner creates a Runner. maxTokens bounds the cleaned input per
// file; rateLimit is the pause between model calls.
func NewRunner(sum Summarizer, maxTokens int, rateLimit time.Duration, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{sum: sum, maxTokens: maxTokens, rateLimit: rateLimit, logger: logger}
}

// RunDirectory summarizes every .txt transcript in inDir into
// outDir/summary_<name>. Files whose summary already exists are
// skipped; per-file failures are counted and logged without stopping
// the batch.
func (r *Runner) RunDirectory(ctx context.Context, inDir, outDir string) (Summary, error) {
	entries, err := os.ReadDir(inDir)
	if err != nil {
		return Summary{}, fmt.Errorf("%w: read %s: %v", vault.ErrDirectoryUnavailable, inDir, err)
	}
	if err := os.MkdirAll(outDir, 0700); err != nil {
		return Summary{}, fmt.Errorf("%w: create %s: %v", vault.ErrDirectoryUnavailable, outDir, err)
	}

	var summary Summary
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".txt") {
			continue
		}
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		outPath := filepath.Join(outDir, "summary_"+entry.Name())
		if _, err := os.Stat(outPath); err == nil {
			r.logger.Debug("summary exists, skipping", zap.String("file", entry.Name()))
			summary.Skipped++
			continue
		}

		if err := r.summarizeFile(ctx, filepath.Join(inDir, entry.Name()), outPath); err != nil {
			r.logger.Warn("summarization failed",
				zap.String("file", entry.Name()), zap.Error(err))
			summary.Failed++
		} else {
			summary.Summarized++
		}

		if r.rateLimit > 0 {
			select {
			case <-time.After(r.rateLimit):
			case <-ctx.Done():
				return summary, ctx.Err()
			}
		}
	}

	r.logger.Info("summarization finished",
		zap.Int("summarized", summary.Summarized),
		zap.Int("skipped", summary.Skipped),
		zap.Int("failed", summary.Failed))
	return summary, nil
}

func (r *Runner) summarizeFile(ctx context.Context, inPath, outPath string) error {
	raw, err := os.ReadFile(inPath)
	if err != nil {
		return err
	}

	input := TruncateWords(CleanConversation(string(raw)), r.maxTokens)
	prose, err := r.sum.Summarize(ctx, input)
	if err != nil {
		return err
	}
	return os.WriteFile(outPath, []byte(StructuredSummary(prose)), 0600)
}
