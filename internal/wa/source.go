package wa

import (
	"context"
	"fmt"
	"time"

	"github.com/matheus3301/chatvault/internal/platform"
	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/types"
)

const (
	// historyPageSize is requested per older-page fetch. WhatsApp may
	// deliver less; delivery is asynchronous via HistorySync events.
	historyPageSize = 50

	// historyPageTimeout bounds how long an iterator waits for a
	// requested page before treating the stream as exhausted.
	historyPageTimeout = 30 * time.Second
)

// Folders synthesizes the two fixed groupings WhatsApp offers: group
// chats and direct conversations.
func (a *Adapter) Folders(ctx context.Context) ([]platform.Folder, error) {
	convs, err := a.Conversations(ctx)
	if err != nil {
		return nil, err
	}

	groups := platform.Folder{ID: "groups", Title: "Groups"}
	direct := platform.Folder{ID: "direct", Title: "Direct Messages"}
	for _, c := range convs {
		peer := platform.Peer{Kind: c.Kind, ID: c.ID}
		if c.Kind == platform.PeerChat {
			groups.Peers = append(groups.Peers, peer)
		} else {
			direct.Peers = append(direct.Peers, peer)
		}
	}
	return []platform.Folder{groups, direct}, nil
}

// Conversations lists joined groups plus direct conversations from the
// contact store.
func (a *Adapter) Conversations(ctx context.Context) ([]platform.Conversation, error) {
	groups, err := a.client.GetJoinedGroups(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list groups: %v", platform.ErrSourceUnavailable, err)
	}

	var convs []platform.Conversation
	for _, g := range groups {
		convs = append(convs, platform.Conversation{
			ID:    g.JID.String(),
			Title: g.Name,
			Kind:  platform.PeerChat,
		})
	}

	contacts, err := a.client.Store.Contacts.GetAllContacts(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list contacts: %v", platform.ErrSourceUnavailable, err)
	}
	for jid, info := range contacts {
		name := info.FullName
		if name == "" {
			name = info.PushName
		}
		if name == "" {
			continue
		}
		convs = append(convs, platform.Conversation{
			ID:    jid.ToNonAD().String(),
			Title: name,
			Kind:  platform.PeerUser,
		})
	}
	return convs, nil
}

// Participants returns the members of a group conversation, or the
// contact itself for a direct conversation.
func (a *Adapter) Participants(ctx context.Context, conv platform.Conversation) ([]platform.Participant, error) {
	jid, err := types.ParseJID(conv.ID)
	if err != nil {
		return nil, fmt.Errorf("parse JID: %w", err)
	}

	if conv.Kind != platform.PeerChat {
		info, err := a.client.Store.Contacts.GetContact(ctx, jid)
		if err != nil {
			return nil, fmt.Errorf("%w: get contact: %v", platform.ErrSourceUnavailable, err)
		}
		return []platform.Participant{{
			ID:        jid.String(),
			Username:  info.PushName,
			FirstName: info.FirstName,
		}}, nil
	}

	group, err := a.client.GetGroupInfo(ctx, jid)
	if err != nil {
		return nil, fmt.Errorf("%w: get group info: %v", platform.ErrSourceUnavailable, err)
	}

	parts := make([]platform.Participant, 0, len(group.Participants))
	for _, p := range group.Participants {
		member := p.JID.ToNonAD()
		contact, err := a.client.Store.Contacts.GetContact(ctx, member)
		part := platform.Participant{ID: member.String()}
		if err == nil {
			part.Username = contact.PushName
			part.FirstName = contact.FirstName
		}
		parts = append(parts, part)
	}
	return parts, nil
}

// Messages returns a newest-first iterator over the conversation's
// history. Buffered messages are yielded immediately; older pages are
// requested from the platform when the buffer runs out.
func (a *Adapter) Messages(ctx context.Context, conv platform.Conversation) platform.MessageIter {
	return &histIter{adapter: a, chatID: conv.ID}
}

type histIter struct {
	adapter *Adapter
	chatID  string
	buf     []platform.Message
	pos     int
	cur     platform.Message
	err     error
	drained bool
}

func (it *histIter) Next(ctx context.Context) bool {
	if it.err != nil {
		return false
	}
	for {
		if it.pos < len(it.buf) {
			it.cur = it.buf[it.pos]
			it.pos++
			return true
		}
		if snapshot := it.adapter.history.Snapshot(it.chatID); len(snapshot) > len(it.buf) {
			it.buf = snapshot
			continue
		}
		if it.drained {
			return false
		}
		if err := it.fetchOlder(ctx); err != nil {
			it.err = err
			return false
		}
		// A fetch that added nothing means no older history exists.
		if snapshot := it.adapter.history.Snapshot(it.chatID); len(snapshot) > len(it.buf) {
			it.buf = snapshot
		} else {
			it.drained = true
		}
	}
}

// fetchOlder asks the platform for the page before the oldest buffered
// message and waits for its HistorySync delivery. A timeout marks the
// stream exhausted rather than failing: WhatsApp sends nothing at all
// when no older history exists.
func (it *histIter) fetchOlder(ctx context.Context) error {
	oldest := it.adapter.history.OldestInfo(it.chatID)
	if oldest == nil {
		// Nothing buffered yet and nothing to anchor a request on;
		// wait for the initial sync to deliver this conversation.
		oldest = &types.MessageInfo{}
	}

	changed := it.adapter.history.Changed(it.chatID)

	own := it.adapter.client.Store.ID
	if own == nil {
		return fmt.Errorf("%w: not logged in", platform.ErrSourceUnavailable)
	}
	req := it.adapter.client.BuildHistorySyncRequest(oldest, historyPageSize)
	_, err := it.adapter.client.SendMessage(ctx, own.ToNonAD(), req, whatsmeow.SendRequestExtra{Peer: true})
	if err != nil {
		return fmt.Errorf("%w: request history page: %v", platform.ErrSourceUnavailable, err)
	}

	select {
	case <-changed:
		return nil
	case <-time.After(historyPageTimeout):
		it.drained = true
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (it *histIter) Message() platform.Message { return it.cur }

func (it *histIter) Err() error { return it.err }
