package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/matheus3301/chatvault/internal/archive"
	"github.com/matheus3301/chatvault/internal/extract"
	"github.com/matheus3301/chatvault/internal/platform"
)

const (
	// fetchLimit bounds how many recent messages are pulled from each
	// selected conversation per search, keeping worst-case latency
	// proportional to the selection size.
	fetchLimit = 50

	// previewsPerConversation caps the result entries per conversation;
	// further matches collapse into an overflow count.
	previewsPerConversation = 3

	previewLen = 80
)

// rangeBounds maps the interactive time-range tokens to a lookback
// window. The zero duration means unbounded. This vocabulary is
// distinct from the export-side tokens in internal/archive.
var rangeBounds = map[string]time.Duration{
	"7days":   7 * 24 * time.Hour,
	"30days":  30 * 24 * time.Hour,
	"3months": 90 * 24 * time.Hour,
	"all":     0,
}

// SearchHit is one surfaced message. ConversationID and MessageID
// together form the deep-link reference; Text carries the full message
// body for the calendar and action-item lenses.
type SearchHit struct {
	ConversationID   string
	ConversationName string
	MessageID        string
	FormattedDate    string
	Preview          string
	Text             string
}

// DeepLink returns the identifier pair needed to point back at the
// original message. Turning it into a followable URL is up to the
// presenting surface.
func (h SearchHit) DeepLink() (conversationID, messageID string) {
	return h.ConversationID, h.MessageID
}

// SearchOutcome is the stored result of one search: the capped hit
// list plus, per conversation, how many further matches were found but
// not surfaced.
type SearchOutcome struct {
	Hits     []SearchHit
	Overflow map[string]int
}

// Engine drives search sessions against a message source. All session
// mutation goes through the Store, one atomic step per user action.
type Engine struct {
	source platform.Source
	store  *Store
	logger *zap.Logger

	attempts int
	backoff  time.Duration
	now      func() time.Time
}

// New creates an Engine over the given source and session store.
func New(source platform.Source, store *Store, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		source:   source,
		store:    store,
		logger:   logger,
		attempts: 3,
		backoff:  time.Second,
		now:      time.Now,
	}
}

// Start resets the user's session to Idle. Safe in any state.
func (e *Engine) Start(userID string) error {
	return e.store.Update(userID, func(s *Session) error {
		s.reset()
		return nil
	})
}

// Folders lists the account's folders. It does not touch session state.
func (e *Engine) Folders(ctx context.Context) ([]platform.Folder, error) {
	var folders []platform.Folder
	err := platform.Retry(ctx, e.attempts, e.backoff, func() error {
		var err error
		folders, err = e.source.Folders(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}
	return folders, nil
}

// SelectFolder picks the index-th folder (1-based) and loads its
// conversations as toggle candidates. Any previous selection is
// dropped.
func (e *Engine) SelectFolder(ctx context.Context, userID string, index int) ([]platform.Conversation, error) {
	folders, err := e.Folders(ctx)
	if err != nil {
		return nil, err
	}
	if index < 1 || index > len(folders) {
		return nil, fmt.Errorf("folder %d: out of range (have %d)", index, len(folders))
	}
	folder := folders[index-1]

	var all []platform.Conversation
	err = platform.Retry(ctx, e.attempts, e.backoff, func() error {
		var err error
		all, err = e.source.Conversations(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}

	var candidates []platform.Conversation
	for _, c := range all {
		if folder.Contains(c) {
			candidates = append(candidates, c)
		}
	}

	err = e.store.Update(userID, func(s *Session) error {
		if err := s.transition(FolderSelected); err != nil {
			return err
		}
		s.Folder = folder
		s.Candidates = candidates
		s.Selected = nil
		s.TimeRange = ""
		s.Results = SearchOutcome{}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return candidates, nil
}

// ToggleConversation flips the index-th candidate (1-based) in or out
// of the selection. An emptied selection drops the session back to
// FolderSelected.
func (e *Engine) ToggleConversation(userID string, index int) error {
	return e.store.Update(userID, func(s *Session) error {
		if index < 1 || index > len(s.Candidates) {
			return fmt.Errorf("conversation %d: out of range (have %d)", index, len(s.Candidates))
		}
		c := s.Candidates[index-1]

		next := len(s.Selected) + 1
		for _, sel := range s.Selected {
			if sel.ID == c.ID && sel.Kind == c.Kind {
				next = len(s.Selected) - 1
				break
			}
		}
		target := ConversationsSelected
		if next == 0 {
			target = FolderSelected
		}
		if err := s.transition(target); err != nil {
			return err
		}
		s.toggle(c)
		return nil
	})
}

// SetRange fixes the search lookback window. token must be one of
// 7days, 30days, 3months or all.
func (e *Engine) SetRange(userID string, token string) error {
	if _, ok := rangeBounds[token]; !ok {
		return fmt.Errorf("%w: %q", archive.ErrInvalidTimeRange, token)
	}
	return e.store.Update(userID, func(s *Session) error {
		if err := s.transition(ReadyToSearch); err != nil {
			return err
		}
		s.TimeRange = token
		return nil
	})
}

// Search runs a case-insensitive substring query over the selected
// conversations and stores the outcome on the session. The session is
// only mutated once the fetch has fully succeeded, so a source failure
// leaves it unchanged.
func (e *Engine) Search(ctx context.Context, userID string, query string) (SearchOutcome, error) {
	var (
		selected []platform.Conversation
		token    string
	)
	err := e.store.Update(userID, func(s *Session) error {
		if !canTransition(s.State, Searching) {
			return fmt.Errorf("%w: cannot search from %s", ErrInvalidSessionState, s.State)
		}
		if len(s.Selected) == 0 {
			return fmt.Errorf("%w: no conversations selected", ErrInvalidSessionState)
		}
		selected = append([]platform.Conversation(nil), s.Selected...)
		token = s.TimeRange
		return nil
	})
	if err != nil {
		return SearchOutcome{}, err
	}

	since := e.sinceFor(token)
	needle := strings.ToLower(query)
	outcome := SearchOutcome{Overflow: make(map[string]int)}

	for _, conv := range selected {
		hits, more, err := e.searchConversation(ctx, conv, needle, since)
		if err != nil {
			return SearchOutcome{}, fmt.Errorf("search %s: %w", conv.Title, err)
		}
		outcome.Hits = append(outcome.Hits, hits...)
		if more > 0 {
			outcome.Overflow[conv.ID] = more
		}
	}

	err = e.store.Update(userID, func(s *Session) error {
		if err := s.transition(Searching); err != nil {
			return err
		}
		if err := s.transition(ResultsReady); err != nil {
			return err
		}
		s.Results = outcome
		return nil
	})
	if err != nil {
		return SearchOutcome{}, err
	}
	e.logger.Info("search finished",
		zap.String("user", userID),
		zap.Int("hits", len(outcome.Hits)),
		zap.Int("conversations", len(selected)))
	return outcome, nil
}

func (e *Engine) searchConversation(ctx context.Context, conv platform.Conversation, needle string, since time.Time) ([]SearchHit, int, error) {
	var (
		hits []SearchHit
		more int
	)
	err := platform.Retry(ctx, e.attempts, e.backoff, func() error {
		hits = hits[:0]
		more = 0

		it := e.source.Messages(ctx, conv)
		fetched := 0
		for fetched < fetchLimit && it.Next(ctx) {
			m := it.Message()
			fetched++
			if m.Timestamp < since.Unix() {
				break
			}
			if !m.HasText || !strings.Contains(strings.ToLower(m.Text), needle) {
				continue
			}
			if len(hits) >= previewsPerConversation {
				more++
				continue
			}
			hits = append(hits, SearchHit{
				ConversationID:   conv.ID,
				ConversationName: conv.Title,
				MessageID:        m.ID,
				FormattedDate:    time.Unix(m.Timestamp, 0).Format("02/01/2006 15:04"),
				Preview:          previewOf(m.Text),
				Text:             m.Text,
			})
		}
		return it.Err()
	})
	if err != nil {
		return nil, 0, err
	}
	return hits, more, nil
}

// CalendarEvents filters the last results down to hits whose text
// carries a date or clock-time mention. Only valid in ResultsReady.
func (e *Engine) CalendarEvents(userID string) ([]SearchHit, error) {
	return e.lens(userID, func(info extract.CalendarInfo) bool {
		return info.HasDate || info.HasTime
	})
}

// ActionItems filters the last results down to hits whose text carries
// a scheduling or task keyword. Only valid in ResultsReady.
func (e *Engine) ActionItems(userID string) ([]SearchHit, error) {
	return e.lens(userID, func(info extract.CalendarInfo) bool {
		return len(info.ActionItems) > 0
	})
}

func (e *Engine) lens(userID string, keep func(extract.CalendarInfo) bool) ([]SearchHit, error) {
	var out []SearchHit
	err := e.store.Update(userID, func(s *Session) error {
		if s.State != ResultsReady {
			return fmt.Errorf("%w: no results in %s", ErrInvalidSessionState, s.State)
		}
		for _, hit := range s.Results.Hits {
			if keep(extract.DetectCalendar(hit.Text)) {
				out = append(out, hit)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Back returns the user's session to Idle.
func (e *Engine) Back(userID string) error {
	return e.Start(userID)
}

// Session returns a copy of the user's current session for rendering.
func (e *Engine) Session(userID string) (Session, error) {
	var snap Session
	err := e.store.Update(userID, func(s *Session) error {
		snap = *s
		return nil
	})
	return snap, err
}

func (e *Engine) sinceFor(token string) time.Time {
	window := rangeBounds[token]
	if window == 0 {
		return time.Unix(0, 0)
	}
	return e.now().Add(-window)
}

func canTransition(from, to State) bool {
	for _, s := range validTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

func previewOf(text string) string {
	runes := []rune(text)
	if len(runes) <= previewLen {
		return text
	}
	return string(runes[:previewLen-3]) + "..."
}
