package wa

import (
	"github.com/matheus3301/chatvault/internal/bus"
	"github.com/matheus3301/chatvault/internal/platform"
	"github.com/matheus3301/chatvault/internal/status"
	"go.mau.fi/whatsmeow/types"
	"go.mau.fi/whatsmeow/types/events"
	"go.uber.org/zap"
)

// EventHandler processes whatsmeow events, drives the state machine,
// feeds the history buffer, and publishes parsed domain events on the
// bus. The bot and the exporter subscribe to the bus independently.
type EventHandler struct {
	bus     *bus.Bus
	machine *status.Machine
	history *History
	logger  *zap.Logger
}

// NewEventHandler creates a new event handler.
func NewEventHandler(b *bus.Bus, machine *status.Machine, history *History, logger *zap.Logger) *EventHandler {
	return &EventHandler{
		bus:     b,
		machine: machine,
		history: history,
		logger:  logger,
	}
}

// Handle is the main whatsmeow event handler function.
func (h *EventHandler) Handle(rawEvt any) {
	switch evt := rawEvt.(type) {
	case *events.Message:
		h.handleMessage(evt)
	case *events.Connected:
		h.logger.Info("WhatsApp connected")
		current := h.machine.Current()
		if current == status.AuthRequired || current == status.Reconnecting {
			_ = h.machine.Transition(status.Connecting)
		}
		_ = h.machine.Transition(status.Syncing)
		h.bus.Emit(bus.KindPlatformConnected, nil)
	case *events.Disconnected:
		h.logger.Warn("WhatsApp disconnected")
		_ = h.machine.Transition(status.Reconnecting)
		h.bus.Emit(bus.KindPlatformDropped, nil)
	case *events.HistorySync:
		h.handleHistorySync(evt)
	case *events.LoggedOut:
		h.logger.Warn("WhatsApp logged out", zap.String("reason", evt.Reason.String()))
		_ = h.machine.Transition(status.AuthRequired)
		h.bus.Emit(bus.KindPlatformLoggedOut, evt.Reason.String())
	}
}

func (h *EventHandler) handleMessage(evt *events.Message) {
	if h.machine.Current() == status.Syncing {
		_ = h.machine.Transition(status.Ready)
	}

	inbound := ParseLiveMessage(evt)
	info := &types.MessageInfo{ID: inbound.Message.ID, Timestamp: evt.Info.Timestamp}
	info.Chat = evt.Info.Chat
	info.Sender = evt.Info.Sender
	info.IsFromMe = evt.Info.IsFromMe
	h.history.Add(inbound.ChatID, []platform.Message{inbound.Message}, []*types.MessageInfo{info})

	h.bus.Emit(bus.KindPlatformMessage, inbound)
}

func (h *EventHandler) handleHistorySync(evt *events.HistorySync) {
	data := evt.Data
	if data == nil {
		return
	}

	total := 0
	for _, conv := range data.GetConversations() {
		chatJID := conv.GetID()
		var (
			msgs  []platform.Message
			infos []*types.MessageInfo
		)
		for _, hm := range conv.GetMessages() {
			wmsg := hm.GetMessage()
			if wmsg == nil {
				continue
			}
			msg, info := parseHistoryMessage(chatJID, wmsg)
			msgs = append(msgs, msg)
			infos = append(infos, info)
		}
		h.history.Add(chatJID, msgs, infos)
		total += len(msgs)
	}

	if total > 0 {
		h.logger.Debug("history batch buffered", zap.Int("messages", total))
		h.bus.Emit(bus.KindPlatformHistory, total)
	}
}
