// Package engine implements the per-user interactive search session: a
// finite-state conversation that narrows a corpus (folder, then
// conversations, then time range) before running free-text queries over
// the selected conversations.
package engine

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/matheus3301/chatvault/internal/platform"
)

// ErrInvalidSessionState reports an action that violates the session
// state machine. The session is left unchanged.
var ErrInvalidSessionState = errors.New("invalid session state")

// State represents a search session state.
type State string

const (
	Idle                  State = "IDLE"
	FolderSelected        State = "FOLDER_SELECTED"
	ConversationsSelected State = "CONVERSATIONS_SELECTED"
	ReadyToSearch         State = "READY_TO_SEARCH"
	Searching             State = "SEARCHING"
	ResultsReady          State = "RESULTS_READY"
)

// validTransitions defines allowed state transitions. Idle is reachable
// from every state via Back. Toggling can empty the selection, which
// drops ConversationsSelected back to FolderSelected.
var validTransitions = map[State][]State{
	Idle:                  {Idle, FolderSelected},
	FolderSelected:        {Idle, FolderSelected, ConversationsSelected},
	ConversationsSelected: {Idle, FolderSelected, ConversationsSelected, ReadyToSearch},
	ReadyToSearch:         {Idle, Searching},
	Searching:             {Idle, ResultsReady},
	ResultsReady:          {Idle, Searching},
}

// Session is one user's interactive state. All access goes through the
// owning Store; fields are never mutated outside an Update call.
type Session struct {
	UserID     string
	State      State
	Folder     platform.Folder
	Candidates []platform.Conversation // conversations of the selected folder
	Selected   []platform.Conversation // insertion order, toggle semantics
	TimeRange  string
	Results    SearchOutcome
	LastActive time.Time
}

func (s *Session) transition(to State) error {
	if !slices.Contains(validTransitions[s.State], to) {
		return fmt.Errorf("%w: cannot move from %s to %s", ErrInvalidSessionState, s.State, to)
	}
	s.State = to
	return nil
}

// toggle flips conversation membership in the selection by identity.
func (s *Session) toggle(c platform.Conversation) {
	for i, sel := range s.Selected {
		if sel.ID == c.ID && sel.Kind == c.Kind {
			s.Selected = append(s.Selected[:i], s.Selected[i+1:]...)
			return
		}
	}
	s.Selected = append(s.Selected, c)
}

// reset returns the session to Idle, dropping every selection.
func (s *Session) reset() {
	s.State = Idle
	s.Folder = platform.Folder{}
	s.Candidates = nil
	s.Selected = nil
	s.TimeRange = ""
	s.Results = SearchOutcome{}
}

// Store owns every live session, keyed by user identity. It is shared
// by the bot and the TUI and injected wherever sessions are consumed.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	now      func() time.Time
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{
		sessions: make(map[string]*Session),
		now:      time.Now,
	}
}

// Update runs fn against the user's session under the store lock,
// creating the session on first use. fn must not retain the session
// pointer and must leave the session unmodified when it returns an
// error.
func (st *Store) Update(userID string, fn func(*Session) error) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	s, ok := st.sessions[userID]
	if !ok {
		s = &Session{UserID: userID, State: Idle}
		st.sessions[userID] = s
	}
	if err := fn(s); err != nil {
		return err
	}
	s.LastActive = st.now()
	return nil
}

// Len returns the number of live sessions.
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// Evict drops sessions idle for longer than maxIdle and returns how
// many were removed.
func (st *Store) Evict(maxIdle time.Duration) int {
	st.mu.Lock()
	defer st.mu.Unlock()

	cutoff := st.now().Add(-maxIdle)
	removed := 0
	for id, s := range st.sessions {
		if s.LastActive.Before(cutoff) {
			delete(st.sessions, id)
			removed++
		}
	}
	return removed
}
