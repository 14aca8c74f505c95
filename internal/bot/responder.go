// Package bot turns live platform messages from the vault owner into
// search-session commands and replies in the same conversation. It is
// the conversational front end of the engine; the TUI is the other.
package bot

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/matheus3301/chatvault/internal/bus"
	"github.com/matheus3301/chatvault/internal/engine"
	"github.com/matheus3301/chatvault/internal/platform"
)

// commandPrefix keeps the bot from reacting to ordinary conversation:
// only owner messages starting with it are treated as commands.
const commandPrefix = "!vault"

// Responder consumes owner messages from the bus and answers them.
type Responder struct {
	bus     *bus.Bus
	engine  *engine.Engine
	replier platform.Replier
	logger  *zap.Logger

	attempts int
	backoff  time.Duration
}

// New creates a Responder. It does nothing until Run is called.
func New(b *bus.Bus, eng *engine.Engine, replier platform.Replier, logger *zap.Logger) *Responder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Responder{
		bus:      b,
		engine:   eng,
		replier:  replier,
		logger:   logger,
		attempts: 3,
		backoff:  time.Second,
	}
}

// Run subscribes to live messages and serves commands until ctx ends.
func (r *Responder) Run(ctx context.Context) {
	ch, unsub := r.bus.Subscribe("platform.", 64)
	defer unsub()

	for {
		select {
		case <-ctx.Done():
			return
		case evt := <-ch:
			if evt.Kind != bus.KindPlatformMessage {
				continue
			}
			inbound, ok := evt.Payload.(platform.Inbound)
			if !ok {
				continue
			}
			r.handle(ctx, inbound)
		}
	}
}

func (r *Responder) handle(ctx context.Context, in platform.Inbound) {
	if !in.FromMe || !in.Message.HasText {
		return
	}
	text, ok := stripPrefix(in.Message.Text)
	if !ok {
		return
	}

	cmd := engine.ParseCommand(text)
	r.bus.Emit(bus.KindBotCommand, cmd)

	reply := r.execute(ctx, in.ChatID, cmd)
	if reply == "" {
		return
	}

	err := platform.Retry(ctx, r.attempts, r.backoff, func() error {
		_, err := r.replier.SendText(ctx, in.ChatID, reply)
		return err
	})
	if err != nil {
		r.logger.Warn("reply failed", zap.String("chat", in.ChatID), zap.Error(err))
		r.bus.Emit(bus.KindBotReplyFailed, err.Error())
	}
}

// execute dispatches one command against the engine. The chat the
// owner writes from is the session key, so parallel conversations with
// the bot hold independent sessions.
func (r *Responder) execute(ctx context.Context, userID string, cmd engine.Command) string {
	switch cmd.Kind {
	case engine.CmdStart, engine.CmdBack:
		if err := r.engine.Start(userID); err != nil {
			return renderError(err)
		}
		return "Session reset. Send 'folders' to list your folders."

	case engine.CmdFolders:
		folders, err := r.engine.Folders(ctx)
		if err != nil {
			return renderError(err)
		}
		return renderFolders(folders)

	case engine.CmdFolder:
		candidates, err := r.engine.SelectFolder(ctx, userID, cmd.Index)
		if err != nil {
			return renderError(err)
		}
		return renderCandidates(candidates)

	case engine.CmdConv:
		if err := r.engine.ToggleConversation(userID, cmd.Index); err != nil {
			return renderError(err)
		}
		s, err := r.engine.Session(userID)
		if err != nil {
			return renderError(err)
		}
		return renderSelection(s.Selected)

	case engine.CmdRange:
		if err := r.engine.SetRange(userID, cmd.Arg); err != nil {
			return renderError(err)
		}
		return "Time range set to " + cmd.Arg + ". Send your search query."

	case engine.CmdCalendar:
		hits, err := r.engine.CalendarEvents(userID)
		if err != nil {
			return renderError(err)
		}
		return renderLens("Calendar events", hits)

	case engine.CmdActions:
		hits, err := r.engine.ActionItems(userID)
		if err != nil {
			return renderError(err)
		}
		return renderLens("Action items", hits)

	case engine.CmdQuery:
		if cmd.Arg == "" {
			return helpText
		}
		out, err := r.engine.Search(ctx, userID, cmd.Arg)
		if err != nil {
			return renderError(err)
		}
		return renderResults(out)
	}
	return ""
}

// stripPrefix returns the command body of an owner message, and
// whether it was addressed to the bot at all.
func stripPrefix(text string) (string, bool) {
	if !strings.HasPrefix(text, commandPrefix) {
		return "", false
	}
	rest := text[len(commandPrefix):]
	if rest != "" && rest[0] != ' ' {
		return "", false
	}
	return rest, true
}
