package bus

import "time"

// Event kinds published by chatvault components. Subscribers filter by
// namespace prefix, e.g. "platform." or "export.".
const (
	KindPlatformMessage   = "platform.message"
	KindPlatformHistory   = "platform.history_batch"
	KindPlatformConnected = "platform.connected"
	KindPlatformDropped   = "platform.disconnected"
	KindPlatformLoggedOut = "platform.logged_out"

	KindStatusChanged = "vault.status_changed"
	KindAuthQR        = "vault.qr_generated"
	KindAuthOK        = "vault.authenticated"
	KindAuthFailed    = "vault.auth_failed"

	KindExportStarted  = "export.started"
	KindExportFinished = "export.finished"
	KindExportFailed   = "export.failed"

	KindBotCommand     = "bot.command"
	KindBotReplyFailed = "bot.reply_failed"
)

// Event represents a domain event published on the bus.
type Event struct {
	Kind      string
	Timestamp time.Time
	Payload   any
}
