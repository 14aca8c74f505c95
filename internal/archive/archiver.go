// Package archive produces deterministic, date-grouped flat-text
// transcripts from a descending message stream, stopping at a time
// lower bound without fetching past it.
package archive

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/matheus3301/chatvault/internal/platform"
)

// MediaPlaceholder is rendered for messages without text.
const MediaPlaceholder = "<Media/Other Message>"

// Archiver renders message streams into transcript text. Loc controls
// the calendar fields used for date headers and times; nil means local
// time.
type Archiver struct {
	Loc *time.Location
}

func (a *Archiver) location() *time.Location {
	if a.Loc != nil {
		return a.Loc
	}
	return time.Local
}

// WriteMessages consumes the iterator newest-first and writes rendered
// message lines to w, stopping at the first message older than since.
// A date header line is emitted whenever the rendered date changes,
// so headers appear in descending order, each exactly once.
//
// If the source fails mid-iteration, a single diagnostic line is
// appended and the source error is returned; whatever was already
// written stays valid so the enclosing export can close the section.
func (a *Archiver) WriteMessages(ctx context.Context, w io.Writer, it platform.MessageIter, dir Directory, since time.Time) error {
	loc := a.location()
	bound := since.Unix()
	lastDate := ""

	for it.Next(ctx) {
		m := it.Message()
		if m.Timestamp < bound {
			// Descending stream: everything after this is older. Stop
			// without pulling further pages.
			break
		}

		ts := time.Unix(m.Timestamp, 0).In(loc)
		date := ts.Format("02/01/2006")
		if date != lastDate {
			if _, err := fmt.Fprintf(w, "----- %s -----\n", date); err != nil {
				return fmt.Errorf("write transcript: %w", err)
			}
			lastDate = date
		}

		text := m.Text
		if !m.HasText {
			text = MediaPlaceholder
		}
		if _, err := fmt.Fprintf(w, "[%s] %s: %s\n", ts.Format("15:04"), dir.Name(m.SenderID), text); err != nil {
			return fmt.Errorf("write transcript: %w", err)
		}
	}

	if err := it.Err(); err != nil {
		_, _ = fmt.Fprintf(w, "Error fetching participants or messages: %s\n", err.Error())
		return err
	}
	return nil
}
