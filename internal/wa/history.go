package wa

import (
	"sort"
	"sync"

	"github.com/matheus3301/chatvault/internal/platform"
	"go.mau.fi/whatsmeow/types"
)

// History buffers messages delivered by HistorySync events, one
// descending slice per conversation. Iterators snapshot the buffer and
// block on Changed when they need older pages.
type History struct {
	mu     sync.Mutex
	chats  map[string][]platform.Message
	oldest map[string]*types.MessageInfo
	seen   map[string]map[string]bool
	wait   map[string][]chan struct{}
}

// NewHistory creates an empty history buffer.
func NewHistory() *History {
	return &History{
		chats:  make(map[string][]platform.Message),
		oldest: make(map[string]*types.MessageInfo),
		seen:   make(map[string]map[string]bool),
		wait:   make(map[string][]chan struct{}),
	}
}

// Add merges a batch into the conversation's buffer, deduplicating by
// message ID, and wakes every waiter for that conversation. infos must
// parallel msgs.
func (h *History) Add(chatID string, msgs []platform.Message, infos []*types.MessageInfo) {
	if len(msgs) == 0 {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	seen := h.seen[chatID]
	if seen == nil {
		seen = make(map[string]bool)
		h.seen[chatID] = seen
	}
	for i, m := range msgs {
		if seen[m.ID] {
			continue
		}
		seen[m.ID] = true
		h.chats[chatID] = append(h.chats[chatID], m)

		info := infos[i]
		if info == nil {
			continue
		}
		if cur := h.oldest[chatID]; cur == nil || info.Timestamp.Before(cur.Timestamp) {
			h.oldest[chatID] = info
		}
	}
	sort.SliceStable(h.chats[chatID], func(i, j int) bool {
		return h.chats[chatID][i].Timestamp > h.chats[chatID][j].Timestamp
	})

	for _, ch := range h.wait[chatID] {
		close(ch)
	}
	h.wait[chatID] = nil
}

// Snapshot returns a copy of the conversation's buffered messages,
// newest first.
func (h *History) Snapshot(chatID string) []platform.Message {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]platform.Message(nil), h.chats[chatID]...)
}

// OldestInfo returns the delivery info of the oldest buffered message,
// used to request the page before it. Nil when nothing is buffered.
func (h *History) OldestInfo(chatID string) *types.MessageInfo {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.oldest[chatID]
}

// Changed returns a channel closed on the conversation's next Add.
func (h *History) Changed(chatID string) <-chan struct{} {
	h.mu.Lock()
	defer h.mu.Unlock()
	ch := make(chan struct{})
	h.wait[chatID] = append(h.wait[chatID], ch)
	return ch
}
