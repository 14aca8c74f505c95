package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/matheus3301/chatvault/internal/vault"
	"go.uber.org/zap"
)

// Summary reports a directory extraction outcome.
type Summary struct {
	Processed int
	Failed    int
}

// ExtractDirectory runs the full classifier set over every .txt
// transcript in inDir and writes a key_info_<name> report into outDir.
// Per-file failures are counted and logged; only an unreadable input
// directory fails the run.
func ExtractDirectory(inDir, outDir string, logger *zap.Logger) (Summary, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

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
		inPath := filepath.Join(inDir, entry.Name())
		outPath := filepath.Join(outDir, "key_info_"+entry.Name())

		data, err := os.ReadFile(inPath)
		if err != nil {
			logger.Warn("skipping unreadable transcript", zap.String("file", inPath), zap.Error(err))
			summary.Failed++
			continue
		}

		report := RenderReport(Extract(string(data)))
		if err := os.WriteFile(outPath, []byte(report), 0600); err != nil {
			logger.Warn("failed to write report", zap.String("file", outPath), zap.Error(err))
			summary.Failed++
			continue
		}
		summary.Processed++
	}

	logger.Info("extraction finished",
		zap.Int("processed", summary.Processed),
		zap.Int("failed", summary.Failed))
	return summary, nil
}
