package bot

import (
	"errors"
	"fmt"
	"strings"

	"github.com/matheus3301/chatvault/internal/archive"
	"github.com/matheus3301/chatvault/internal/engine"
	"github.com/matheus3301/chatvault/internal/platform"
)

const helpText = "Commands: start | folders | folder <n> | conv <n> | " +
	"range <7days|30days|3months|all> | calendar | actions | back | <query>"

func renderFolders(folders []platform.Folder) string {
	if len(folders) == 0 {
		return "No folders available."
	}
	var sb strings.Builder
	sb.WriteString("Folders:\n")
	for i, f := range folders {
		fmt.Fprintf(&sb, "%d. %s (%d conversations)\n", i+1, f.Title, len(f.Peers))
	}
	sb.WriteString("Pick one with 'folder <n>'.")
	return sb.String()
}

func renderCandidates(convs []platform.Conversation) string {
	if len(convs) == 0 {
		return "This folder holds no conversations."
	}
	var sb strings.Builder
	sb.WriteString("Conversations:\n")
	for i, c := range convs {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, c.Title)
	}
	sb.WriteString("Toggle with 'conv <n>', then pick a range.")
	return sb.String()
}

func renderSelection(selected []platform.Conversation) string {
	if len(selected) == 0 {
		return "Selection is empty."
	}
	titles := make([]string, len(selected))
	for i, c := range selected {
		titles[i] = c.Title
	}
	return "Selected: " + strings.Join(titles, ", ")
}

func renderResults(out engine.SearchOutcome) string {
	if len(out.Hits) == 0 {
		return "No matches."
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d result(s):\n", len(out.Hits))
	for i, hit := range out.Hits {
		fmt.Fprintf(&sb, "%s [%s]\n  %s\n", hit.ConversationName, hit.FormattedDate, hit.Preview)
		lastOfConv := i == len(out.Hits)-1 || out.Hits[i+1].ConversationID != hit.ConversationID
		if more := out.Overflow[hit.ConversationID]; lastOfConv && more > 0 {
			fmt.Fprintf(&sb, "  ...and %d more in %s\n", more, hit.ConversationName)
		}
	}
	sb.WriteString("Refine with another query, or try 'calendar' / 'actions'.")
	return sb.String()
}

func renderLens(title string, hits []engine.SearchHit) string {
	if len(hits) == 0 {
		return title + ": none in the last results."
	}
	var sb strings.Builder
	sb.WriteString(title + ":\n")
	for _, hit := range hits {
		fmt.Fprintf(&sb, "%s [%s]\n  %s\n", hit.ConversationName, hit.FormattedDate, hit.Preview)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func renderError(err error) string {
	switch {
	case errors.Is(err, engine.ErrInvalidSessionState):
		return "Can't do that right now. " + helpText
	case errors.Is(err, archive.ErrInvalidTimeRange):
		return "Unknown time range. Use 7days, 30days, 3months or all."
	case errors.Is(err, platform.ErrSourceUnavailable):
		return "The platform is not reachable right now, try again shortly."
	default:
		return "Something went wrong: " + err.Error()
	}
}
