package platform

import "context"

// Source is the read surface of a chat platform. Implementations page
// lazily; the caller never sees more history than it consumes.
type Source interface {
	// Folders returns the account's conversation folders.
	Folders(ctx context.Context) ([]Folder, error)

	// Conversations returns the conversations visible to the account.
	Conversations(ctx context.Context) ([]Conversation, error)

	// Participants returns the members of a conversation.
	Participants(ctx context.Context, conv Conversation) ([]Participant, error)

	// Messages returns an iterator over the conversation's history in
	// descending chronological order (newest first). The iterator is
	// lazy, finite and non-restartable.
	Messages(ctx context.Context, conv Conversation) MessageIter
}

// Replier is the write surface used by the interactive bot to answer
// the controlling user.
type Replier interface {
	SendText(ctx context.Context, convID string, text string) (msgID string, err error)
}

// MessageIter is a pull-based iterator over a descending message
// stream. Usage follows the sql.Rows shape:
//
//	for it.Next(ctx) {
//	    m := it.Message()
//	    ...
//	}
//	if err := it.Err(); err != nil { ... }
//
// Abandoning the iterator early is allowed and stops further paging.
type MessageIter interface {
	Next(ctx context.Context) bool
	Message() Message
	Err() error
}

// SliceIter adapts an in-memory slice (already newest-first) to
// MessageIter. failAfter < 0 disables fault injection; otherwise Err
// reports failErr once failAfter messages have been yielded.
type SliceIter struct {
	msgs      []Message
	pos       int
	cur       Message
	failAfter int
	failErr   error
	err       error
}

// NewSliceIter creates an iterator over msgs.
func NewSliceIter(msgs []Message) *SliceIter {
	return &SliceIter{msgs: msgs, failAfter: -1}
}

// NewFailingIter creates an iterator that fails with err after yielding
// n messages. Used to exercise mid-stream source failures.
func NewFailingIter(msgs []Message, n int, err error) *SliceIter {
	return &SliceIter{msgs: msgs, failAfter: n, failErr: err}
}

func (it *SliceIter) Next(ctx context.Context) bool {
	if it.err != nil {
		return false
	}
	if err := ctx.Err(); err != nil {
		it.err = err
		return false
	}
	if it.failAfter >= 0 && it.pos >= it.failAfter {
		it.err = it.failErr
		return false
	}
	if it.pos >= len(it.msgs) {
		return false
	}
	it.cur = it.msgs[it.pos]
	it.pos++
	return true
}

func (it *SliceIter) Message() Message { return it.cur }

func (it *SliceIter) Err() error { return it.err }
