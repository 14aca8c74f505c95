package bot

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matheus3301/chatvault/internal/bus"
	"github.com/matheus3301/chatvault/internal/engine"
	"github.com/matheus3301/chatvault/internal/platform"
)

type fakeSource struct {
	folders []platform.Folder
	convs   []platform.Conversation
	msgs    map[string][]platform.Message
}

func (f *fakeSource) Folders(ctx context.Context) ([]platform.Folder, error) {
	return f.folders, nil
}

func (f *fakeSource) Conversations(ctx context.Context) ([]platform.Conversation, error) {
	return f.convs, nil
}

func (f *fakeSource) Participants(ctx context.Context, conv platform.Conversation) ([]platform.Participant, error) {
	return nil, nil
}

func (f *fakeSource) Messages(ctx context.Context, conv platform.Conversation) platform.MessageIter {
	return platform.NewSliceIter(f.msgs[conv.ID])
}

type fakeReplier struct {
	mu      sync.Mutex
	replies []string
	err     error
}

func (f *fakeReplier) SendText(ctx context.Context, convID string, text string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	f.replies = append(f.replies, text)
	return "reply-id", nil
}

func (f *fakeReplier) last(t *testing.T) string {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.replies) == 0 {
		t.Fatal("no reply sent")
	}
	return f.replies[len(f.replies)-1]
}

func (f *fakeReplier) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.replies)
}

func newTestResponder(replier *fakeReplier) *Responder {
	src := &fakeSource{
		folders: []platform.Folder{
			{ID: "f1", Title: "Work", Peers: []platform.Peer{{Kind: platform.PeerChat, ID: "c1"}}},
		},
		convs: []platform.Conversation{
			{ID: "c1", Title: "Team", Kind: platform.PeerChat},
		},
		msgs: map[string][]platform.Message{
			"c1": {{
				ID:        "m1",
				Timestamp: time.Now().Unix(),
				SenderID:  "u1",
				Text:      "release review tomorrow at 10:00",
				HasText:   true,
			}},
		},
	}
	eng := engine.New(src, engine.NewStore(), nil)
	r := New(bus.New(), eng, replier, nil)
	r.attempts = 1
	r.backoff = 0
	return r
}

func ownerMessage(text string) platform.Inbound {
	return platform.Inbound{
		ChatID: "owner@chat",
		FromMe: true,
		Message: platform.Message{
			ID: "in", Timestamp: time.Now().Unix(), Text: text, HasText: true,
		},
	}
}

func TestIgnoresForeignAndUnaddressedMessages(t *testing.T) {
	replier := &fakeReplier{}
	r := newTestResponder(replier)
	ctx := context.Background()

	// Not from the owner.
	r.handle(ctx, platform.Inbound{
		ChatID:  "owner@chat",
		FromMe:  false,
		Message: platform.Message{Text: commandPrefix + " folders", HasText: true},
	})
	// From the owner but not addressed to the bot.
	r.handle(ctx, ownerMessage("lunch anyone?"))

	if replier.count() != 0 {
		t.Errorf("replies = %d, want 0", replier.count())
	}
}

func TestFullCommandFlow(t *testing.T) {
	replier := &fakeReplier{}
	r := newTestResponder(replier)
	ctx := context.Background()

	steps := []struct {
		input string
		want  string
	}{
		{"!vault start", "Session reset"},
		{"!vault folders", "1. Work"},
		{"!vault folder 1", "1. Team"},
		{"!vault conv 1", "Selected: Team"},
		{"!vault range 7days", "Time range set to 7days"},
		{"!vault review", "Team ["},
		{"!vault calendar", "Calendar events:"},
		{"!vault actions", "Action items:"},
	}
	for _, step := range steps {
		r.handle(ctx, ownerMessage(step.input))
		if got := replier.last(t); !strings.Contains(got, step.want) {
			t.Fatalf("reply to %q = %q, want it to contain %q", step.input, got, step.want)
		}
	}
}

func TestStateViolationGetsFriendlyReply(t *testing.T) {
	replier := &fakeReplier{}
	r := newTestResponder(replier)

	r.handle(context.Background(), ownerMessage("!vault range 7days"))
	if got := replier.last(t); !strings.Contains(got, "Can't do that right now") {
		t.Errorf("reply = %q", got)
	}
}

func TestInvalidRangeTokenReply(t *testing.T) {
	replier := &fakeReplier{}
	r := newTestResponder(replier)

	r.handle(context.Background(), ownerMessage("!vault range fortnight"))
	if got := replier.last(t); !strings.Contains(got, "Unknown time range") {
		t.Errorf("reply = %q", got)
	}
}

func TestEmptyCommandShowsHelp(t *testing.T) {
	replier := &fakeReplier{}
	r := newTestResponder(replier)

	r.handle(context.Background(), ownerMessage("!vault"))
	if got := replier.last(t); !strings.Contains(got, "Commands:") {
		t.Errorf("reply = %q", got)
	}
}

func TestReplyFailurePublishedOnBus(t *testing.T) {
	replier := &fakeReplier{err: errors.New("send failed")}
	r := newTestResponder(replier)

	ch, unsub := r.bus.Subscribe("bot.", 10)
	defer unsub()

	r.handle(context.Background(), ownerMessage("!vault start"))

	deadline := time.After(time.Second)
	for {
		select {
		case evt := <-ch:
			if evt.Kind == bus.KindBotReplyFailed {
				return
			}
		case <-deadline:
			t.Fatal("no bot.reply_failed event")
		}
	}
}

func TestRunDispatchesFromBus(t *testing.T) {
	replier := &fakeReplier{}
	r := newTestResponder(replier)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		r.Run(ctx)
		close(done)
	}()

	r.bus.Emit(bus.KindPlatformMessage, ownerMessage("!vault folders"))

	deadline := time.Now().Add(2 * time.Second)
	for replier.count() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("no reply via bus dispatch")
		}
		time.Sleep(10 * time.Millisecond)
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop on context cancellation")
	}
}
