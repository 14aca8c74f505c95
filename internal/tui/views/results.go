package views

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/matheus3301/chatvault/internal/engine"
)

// Results shows search hits in a table, one row per surfaced message
// plus an overflow row per truncated conversation.
type Results struct {
	*tview.Table
}

// NewResults creates the results page.
func NewResults() *Results {
	t := tview.NewTable().SetSelectable(true, false).SetFixed(1, 0)
	t.SetBorder(true).SetTitle(" Results ")
	return &Results{Table: t}
}

// Update fills the table from a search outcome.
func (r *Results) Update(out engine.SearchOutcome) {
	r.Clear()
	r.SetTitle(fmt.Sprintf(" Results (%d) ", len(out.Hits)))

	headers := []string{"Conversation", "Date", "Preview"}
	for col, h := range headers {
		r.SetCell(0, col, tview.NewTableCell(h).
			SetTextColor(tcell.ColorYellow).
			SetSelectable(false))
	}

	row := 1
	for i, hit := range out.Hits {
		r.SetCell(row, 0, tview.NewTableCell(tview.Escape(hit.ConversationName)))
		r.SetCell(row, 1, tview.NewTableCell(hit.FormattedDate))
		r.SetCell(row, 2, tview.NewTableCell(tview.Escape(hit.Preview)).SetExpansion(1))
		row++

		lastOfConv := i == len(out.Hits)-1 || out.Hits[i+1].ConversationID != hit.ConversationID
		if more := out.Overflow[hit.ConversationID]; lastOfConv && more > 0 {
			r.SetCell(row, 2, tview.NewTableCell(
				fmt.Sprintf("...and %d more in %s", more, hit.ConversationName)).
				SetTextColor(tcell.ColorGray).
				SetSelectable(false))
			row++
		}
	}
}

// UpdateLens fills the table from a lens view over the last results.
func (r *Results) UpdateLens(title string, hits []engine.SearchHit) {
	r.Clear()
	r.SetTitle(fmt.Sprintf(" %s (%d) ", title, len(hits)))

	headers := []string{"Conversation", "Date", "Message"}
	for col, h := range headers {
		r.SetCell(0, col, tview.NewTableCell(h).
			SetTextColor(tcell.ColorYellow).
			SetSelectable(false))
	}
	for i, hit := range hits {
		r.SetCell(i+1, 0, tview.NewTableCell(tview.Escape(hit.ConversationName)))
		r.SetCell(i+1, 1, tview.NewTableCell(hit.FormattedDate))
		r.SetCell(i+1, 2, tview.NewTableCell(tview.Escape(hit.Preview)).SetExpansion(1))
	}
}
