package archive

import "github.com/matheus3301/chatvault/internal/platform"

// UnknownSender is rendered when a message's sender is not in the
// participant directory. A directory miss is not an error.
const UnknownSender = "Unknown Sender"

// Directory maps sender IDs to display names. It is built once per
// conversation export and read-only afterward.
type Directory map[string]string

// BuildDirectory resolves display names for the given participants.
func BuildDirectory(parts []platform.Participant) Directory {
	d := make(Directory, len(parts))
	for _, p := range parts {
		d[p.ID] = p.DisplayName()
	}
	return d
}

// Name resolves a sender ID, falling back to UnknownSender.
func (d Directory) Name(senderID string) string {
	if name, ok := d[senderID]; ok {
		return name
	}
	return UnknownSender
}
