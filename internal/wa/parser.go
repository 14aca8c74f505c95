package wa

import (
	"time"

	"github.com/matheus3301/chatvault/internal/platform"
	"go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/proto/waWeb"
	"go.mau.fi/whatsmeow/types"
	"go.mau.fi/whatsmeow/types/events"
)

// ParseLiveMessage normalizes a live whatsmeow message event into the
// bus payload shape.
func ParseLiveMessage(evt *events.Message) platform.Inbound {
	body := extractTextBody(evt.Message)
	return platform.Inbound{
		ChatID:     evt.Info.Chat.String(),
		SenderName: evt.Info.PushName,
		FromMe:     evt.Info.IsFromMe,
		Message: platform.Message{
			ID:        evt.Info.ID,
			Timestamp: evt.Info.Timestamp.Unix(),
			SenderID:  evt.Info.Sender.ToNonAD().String(),
			Text:      body,
			HasText:   body != "",
		},
	}
}

// parseHistoryMessage normalizes one history sync entry. The second
// return value carries what a later older-page request needs.
func parseHistoryMessage(chatJID string, wmsg *waWeb.WebMessageInfo) (platform.Message, *types.MessageInfo) {
	inner := wmsg.GetMessage()
	body := extractTextBody(inner)

	chat, _ := types.ParseJID(chatJID)
	sender := chat
	if p := wmsg.GetKey().GetParticipant(); p != "" {
		sender, _ = types.ParseJID(p)
	}

	msg := platform.Message{
		ID:        wmsg.GetKey().GetID(),
		Timestamp: int64(wmsg.GetMessageTimestamp()),
		SenderID:  sender.ToNonAD().String(),
		Text:      body,
		HasText:   body != "",
	}

	info := &types.MessageInfo{
		ID:        msg.ID,
		Timestamp: time.Unix(msg.Timestamp, 0),
	}
	info.Chat = chat
	info.Sender = sender
	info.IsFromMe = wmsg.GetKey().GetFromMe()
	return msg, info
}

func extractTextBody(msg *waE2E.Message) string {
	if msg == nil {
		return ""
	}
	if c := msg.GetConversation(); c != "" {
		return c
	}
	if ext := msg.GetExtendedTextMessage(); ext != nil {
		return ext.GetText()
	}
	return ""
}
