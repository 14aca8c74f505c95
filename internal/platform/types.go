// Package platform defines the data model and source interface the
// archiver and search engine consume. Concrete transports (internal/wa)
// implement Source; everything in this package is transport-agnostic.
package platform

import (
	"errors"
	"fmt"
)

// ErrSourceUnavailable wraps transient failures reaching the message
// source. Callers retry bounded attempts and then surface it to the
// enclosing per-conversation operation.
var ErrSourceUnavailable = errors.New("message source unavailable")

// PeerKind discriminates the peer union. Exhaustive switches over it
// replace type-based branching on transport types.
type PeerKind int

const (
	PeerChat PeerKind = iota
	PeerChannel
	PeerUser
)

// String returns the lowercase name of the kind.
func (k PeerKind) String() string {
	switch k {
	case PeerChat:
		return "chat"
	case PeerChannel:
		return "channel"
	case PeerUser:
		return "user"
	default:
		return fmt.Sprintf("PeerKind(%d)", int(k))
	}
}

// Peer identifies a conversation endpoint inside a folder definition.
type Peer struct {
	Kind PeerKind
	ID   string
}

// Folder is a platform-provided grouping of conversations.
type Folder struct {
	ID    string
	Title string
	Peers []Peer
}

// Contains reports whether the folder's peer list includes the given
// conversation.
func (f Folder) Contains(c Conversation) bool {
	for _, p := range f.Peers {
		if p.ID == c.ID && p.Kind == c.Kind {
			return true
		}
	}
	return false
}

// Conversation is a chat, channel or direct conversation.
type Conversation struct {
	ID    string
	Title string
	Kind  PeerKind
}

// Message is a single conversation message as delivered by the source.
// Timestamp is epoch seconds. Text is empty and HasText false for
// pure-media messages. Immutable once produced.
type Message struct {
	ID        string
	Timestamp int64
	SenderID  string
	Text      string
	HasText   bool
}

// Inbound is a live message as published on the bus: the normalized
// message plus the routing fields the interactive bot needs.
type Inbound struct {
	ChatID     string
	SenderName string
	FromMe     bool
	Message    Message
}

// Participant is one member of a conversation at export time.
type Participant struct {
	ID        string
	Username  string
	FirstName string
}

// DisplayName resolves the participant's export name: username, else
// first name, else "Unknown User".
func (p Participant) DisplayName() string {
	if p.Username != "" {
		return p.Username
	}
	if p.FirstName != "" {
		return p.FirstName
	}
	return "Unknown User"
}
