package archive

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/matheus3301/chatvault/internal/bus"
	"github.com/matheus3301/chatvault/internal/platform"
	"go.uber.org/zap"
)

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9_]`)

// SanitizeName converts a conversation title into a filename-safe
// token: whitespace becomes underscores, everything else outside
// [a-zA-Z0-9_] is stripped.
func SanitizeName(name string) string {
	if name == "" {
		name = "Unnamed"
	}
	name = strings.Join(strings.Fields(name), "_")
	return unsafeNameChars.ReplaceAllString(name, "")
}

// ExportFileName returns the transcript filename for a conversation.
func ExportFileName(conv platform.Conversation) string {
	return "export_" + SanitizeName(conv.Title) + ".txt"
}

// Summary reports a batch export outcome.
type Summary struct {
	Exported int
	Failed   int
}

// Exporter archives conversations into flat transcript files. Each
// conversation is an independent sequential stream; conversations are
// exported in parallel.
type Exporter struct {
	source   platform.Source
	outDir   string
	archiver Archiver
	bus      *bus.Bus
	logger   *zap.Logger
}

// NewExporter creates an exporter writing transcripts under outDir.
func NewExporter(source platform.Source, outDir string, loc *time.Location, b *bus.Bus, logger *zap.Logger) *Exporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Exporter{
		source:   source,
		outDir:   outDir,
		archiver: Archiver{Loc: loc},
		bus:      b,
		logger:   logger,
	}
}

// ExportAll archives every conversation in parallel and returns the
// batch summary. Per-conversation failures are recorded in the summary
// and in the transcript itself; they never abort the batch.
func (e *Exporter) ExportAll(ctx context.Context, convs []platform.Conversation, since time.Time) Summary {
	runID := uuid.New().String()
	e.logger.Info("export batch started",
		zap.String("run_id", runID),
		zap.Int("conversations", len(convs)),
		zap.Time("since", since))
	if e.bus != nil {
		e.bus.Emit(bus.KindExportStarted, runID)
	}

	var (
		mu      sync.Mutex
		summary Summary
		wg      sync.WaitGroup
	)
	for _, conv := range convs {
		wg.Add(1)
		go func(conv platform.Conversation) {
			defer wg.Done()
			err := e.ExportConversation(ctx, conv, since)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				summary.Failed++
			} else {
				summary.Exported++
			}
		}(conv)
	}
	wg.Wait()

	e.logger.Info("export batch finished",
		zap.String("run_id", runID),
		zap.Int("exported", summary.Exported),
		zap.Int("failed", summary.Failed))
	if e.bus != nil {
		e.bus.Emit(bus.KindExportFinished, summary)
	}
	return summary
}

// ExportConversation writes one conversation's transcript file. The
// returned error reports participant or message fetch failures; the
// file is still closed with the END GROUP marker and carries an inline
// diagnostic line, so a failed conversation leaves a readable partial
// transcript.
func (e *Exporter) ExportConversation(ctx context.Context, conv platform.Conversation, since time.Time) (retErr error) {
	if err := os.MkdirAll(e.outDir, 0700); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}
	path := filepath.Join(e.outDir, ExportFileName(conv))
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create transcript: %w", err)
	}
	defer func() {
		_, _ = fmt.Fprintf(f, "==== END GROUP ====\n")
		if closeErr := f.Close(); closeErr != nil && retErr == nil {
			retErr = closeErr
		}
		if retErr != nil {
			e.logger.Warn("conversation export failed",
				zap.String("conversation", conv.Title), zap.Error(retErr))
			if e.bus != nil {
				e.bus.Emit(bus.KindExportFailed, conv.ID)
			}
		}
	}()

	fmt.Fprintf(f, "\n==== START GROUP ====\n")
	fmt.Fprintf(f, "Group Name: %s\n", conv.Title)
	fmt.Fprintf(f, "Group ID: %s\n", conv.ID)
	fmt.Fprintf(f, "Exporting messages since: %s\n", since.UTC().Format(time.RFC3339))

	var parts []platform.Participant
	err = platform.Retry(ctx, 3, time.Second, func() error {
		var ferr error
		parts, ferr = e.source.Participants(ctx, conv)
		return ferr
	})
	if err != nil {
		fmt.Fprintf(f, "Error fetching participants or messages: %s\n", err.Error())
		return err
	}

	names := make([]string, len(parts))
	for i, p := range parts {
		names[i] = p.DisplayName()
	}
	fmt.Fprintf(f, "Participant Count: %d\n", len(parts))
	fmt.Fprintf(f, "Participants: %s\n", strings.Join(names, ", "))
	fmt.Fprintf(f, "==== MESSAGES ====\n")

	it := e.source.Messages(ctx, conv)
	return e.archiver.WriteMessages(ctx, f, it, BuildDirectory(parts), since)
}
