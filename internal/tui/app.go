package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"go.uber.org/zap"

	"github.com/matheus3301/chatvault/internal/bus"
	"github.com/matheus3301/chatvault/internal/engine"
	"github.com/matheus3301/chatvault/internal/status"
	"github.com/matheus3301/chatvault/internal/tui/views"
	"github.com/matheus3301/chatvault/internal/wa"
)

// localUser keys the single interactive session driven by this TUI.
const localUser = "local"

var rangeChoices = []struct {
	token string
	label string
}{
	{"7days", "Last 7 days"},
	{"30days", "Last 30 days"},
	{"3months", "Last 3 months"},
	{"all", "All time"},
}

// App is the interactive search shell. It drives a single engine
// session through the folder/conversation/range/query flow.
type App struct {
	app       *tview.Application
	pages     *tview.Pages
	engine    *engine.Engine
	adapter   *wa.Adapter
	bus       *bus.Bus
	machine   *status.Machine
	logger    *zap.Logger
	statusBar *views.StatusBar
	authView  *views.AuthView
	folders   *views.Picker
	convs     *views.Picker
	ranges    *tview.List
	queryIn   *tview.InputField
	results   *views.Results
	ctx       context.Context
	cancel    context.CancelFunc
}

// NewApp creates the TUI application.
func NewApp(eng *engine.Engine, adapter *wa.Adapter, b *bus.Bus, machine *status.Machine, vaultName string, logger *zap.Logger) *App {
	ctx, cancel := context.WithCancel(context.Background())

	a := &App{
		app:       tview.NewApplication(),
		pages:     tview.NewPages(),
		engine:    eng,
		adapter:   adapter,
		bus:       b,
		machine:   machine,
		logger:    logger,
		statusBar: views.NewStatusBar(),
		authView:  views.NewAuthView(),
		folders:   views.NewPicker("Folders"),
		convs:     views.NewPicker("Conversations"),
		ranges:    tview.NewList().ShowSecondaryText(false),
		queryIn:   tview.NewInputField().SetLabel("Search: "),
		results:   views.NewResults(),
		ctx:       ctx,
		cancel:    cancel,
	}

	a.statusBar.SetVault(vaultName)
	a.statusBar.SetState(string(machine.Current()))
	a.setupCallbacks()
	a.setupLayout()

	return a
}

func (a *App) setupCallbacks() {
	a.folders.SetSelectedFunc(func(index int, _ string, _ string, _ rune) {
		a.selectFolder(index + 1)
	})

	a.ranges.SetBorder(true)
	a.ranges.SetTitle(" Time Range ")
	for _, rc := range rangeChoices {
		a.ranges.AddItem(rc.label, "", 0, nil)
	}
	a.ranges.SetSelectedFunc(func(index int, _ string, _ string, _ rune) {
		token := rangeChoices[index].token
		if err := a.engine.SetRange(localUser, token); err != nil {
			a.statusBar.SetFlash("Range failed: " + err.Error())
			return
		}
		a.queryIn.SetText("")
		a.pages.SwitchToPage("query")
		a.app.SetFocus(a.queryIn)
	})

	a.queryIn.SetBorder(true)
	a.queryIn.SetDoneFunc(func(key tcell.Key) {
		if key != tcell.KeyEnter {
			return
		}
		query := a.queryIn.GetText()
		if query == "" {
			return
		}
		a.runSearch(query)
	})
}

func (a *App) setupLayout() {
	a.pages.AddPage("auth", a.authView, true, false)
	a.pages.AddPage("folders", a.folders, true, true)
	a.pages.AddPage("conversations", a.convs, true, false)
	a.pages.AddPage("range", a.ranges, true, false)
	a.pages.AddPage("query", a.queryIn, true, false)
	a.pages.AddPage("results", a.results, true, false)

	root := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(a.pages, 0, 1, true).
		AddItem(a.statusBar, 1, 0, false)

	a.app.SetRoot(root, true)

	a.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		currentPage, _ := a.pages.GetFrontPage()

		if event.Key() == tcell.KeyEscape && currentPage != "folders" && currentPage != "auth" {
			a.showFolders()
			return nil
		}

		// Let text input widgets handle all keys normally.
		focused := a.app.GetFocus()
		if _, ok := focused.(*tview.InputField); ok {
			return event
		}

		if event.Key() != tcell.KeyRune {
			return event
		}

		switch event.Rune() {
		case 'q':
			a.app.Stop()
			return nil
		case ' ':
			if currentPage == "conversations" {
				a.toggleConversation(a.convs.GetCurrentItem())
				return nil
			}
		case 'n':
			if currentPage == "conversations" {
				if !a.convs.Marked() {
					a.statusBar.SetFlash("Mark at least one conversation first")
					return nil
				}
				a.pages.SwitchToPage("range")
				a.app.SetFocus(a.ranges)
				return nil
			}
		case 'c':
			if currentPage == "results" {
				a.showLens("Calendar Events", a.engine.CalendarEvents)
				return nil
			}
		case 'a':
			if currentPage == "results" {
				a.showLens("Action Items", a.engine.ActionItems)
				return nil
			}
		case '/':
			if currentPage == "results" {
				a.queryIn.SetText("")
				a.pages.SwitchToPage("query")
				a.app.SetFocus(a.queryIn)
				return nil
			}
		}

		return event
	})
}

func (a *App) showFolders() {
	go func() {
		if err := a.engine.Start(localUser); err != nil {
			a.flash("Reset failed: " + err.Error())
			return
		}
		folders, err := a.engine.Folders(a.ctx)
		if err != nil {
			a.flash("Folders failed: " + err.Error())
			return
		}
		labels := make([]string, len(folders))
		for i, f := range folders {
			labels[i] = fmt.Sprintf("%s (%d)", f.Title, len(f.Peers))
		}
		a.app.QueueUpdateDraw(func() {
			a.folders.SetItems(labels)
			a.pages.SwitchToPage("folders")
			a.app.SetFocus(a.folders)
		})
	}()
}

func (a *App) selectFolder(index int) {
	go func() {
		candidates, err := a.engine.SelectFolder(a.ctx, localUser, index)
		if err != nil {
			a.flash("Folder failed: " + err.Error())
			return
		}
		labels := make([]string, len(candidates))
		for i, c := range candidates {
			labels[i] = c.Title
		}
		a.app.QueueUpdateDraw(func() {
			a.convs.SetItems(labels)
			a.pages.SwitchToPage("conversations")
			a.app.SetFocus(a.convs)
			a.statusBar.SetFlash("space:mark  n:next  esc:back")
		})
	}()
}

func (a *App) toggleConversation(index int) {
	if err := a.engine.ToggleConversation(localUser, index+1); err != nil {
		a.statusBar.SetFlash("Toggle failed: " + err.Error())
		return
	}
	a.convs.ToggleMark(index)
}

func (a *App) runSearch(query string) {
	a.statusBar.SetFlash("Searching...")
	go func() {
		out, err := a.engine.Search(a.ctx, localUser, query)
		if err != nil {
			a.logger.Warn("interactive search failed", zap.Error(err))
			a.flash("Search failed: " + err.Error())
			return
		}
		a.app.QueueUpdateDraw(func() {
			a.results.Update(out)
			a.pages.SwitchToPage("results")
			a.app.SetFocus(a.results)
			a.statusBar.SetFlash("c:calendar  a:actions  /:new query  esc:back")
		})
	}()
}

func (a *App) showLens(title string, fetch func(string) ([]engine.SearchHit, error)) {
	hits, err := fetch(localUser)
	if err != nil {
		a.statusBar.SetFlash(title + " failed: " + err.Error())
		return
	}
	a.results.UpdateLens(title, hits)
}

func (a *App) flash(msg string) {
	a.app.QueueUpdateDraw(func() {
		a.statusBar.SetFlash(msg)
	})
}

// Run connects the adapter if needed and starts the TUI event loop.
func (a *App) Run() error {
	go a.watchStatus()

	if a.adapter.IsLoggedIn() {
		go func() {
			if err := a.adapter.Connect(); err != nil {
				a.flash("Connect failed: " + err.Error())
				return
			}
			a.showFolders()
		}()
	} else {
		a.pages.SwitchToPage("auth")
		a.authView.ShowMessage("Starting authentication...")
		go a.runAuthFlow()
	}

	return a.app.Run()
}

// watchStatus mirrors state machine transitions into the status bar.
func (a *App) watchStatus() {
	events, unsubscribe := a.bus.Subscribe("vault.", 16)
	defer unsubscribe()

	for {
		select {
		case evt, ok := <-events:
			if !ok {
				return
			}
			if evt.Kind != bus.KindStatusChanged {
				continue
			}
			change, ok := evt.Payload.(status.StatusChange)
			if !ok {
				continue
			}
			a.app.QueueUpdateDraw(func() {
				a.statusBar.SetState(string(change.To))
			})
		case <-a.ctx.Done():
			return
		}
	}
}

// runAuthFlow streams QR pairing events into the auth view and moves
// to the folder list once authenticated.
func (a *App) runAuthFlow() {
	events, err := a.adapter.StartQRAuth(a.ctx)
	if err != nil {
		a.logger.Error("auth flow failed to start", zap.Error(err))
		a.flash("Auth error: " + err.Error())
		return
	}

	for evt := range events {
		switch evt.Type {
		case wa.AuthEventQRCode:
			code := evt.QRCode
			a.app.QueueUpdateDraw(func() {
				a.authView.ShowQR(code)
			})
		case wa.AuthEventAuthenticated:
			a.app.QueueUpdateDraw(func() {
				a.authView.ShowMessage("Authenticated! Syncing history...")
			})
			// History trickles in after pairing; give the first
			// batches a moment before listing conversations.
			time.Sleep(2 * time.Second)
			a.showFolders()
			return
		case wa.AuthEventAuthFailed, wa.AuthEventTimeout:
			msg := evt.Message
			if msg == "" {
				msg = "Authentication failed"
			}
			a.app.QueueUpdateDraw(func() {
				a.authView.ShowMessage(msg)
			})
			return
		}
	}
}

// Stop gracefully shuts down the TUI.
func (a *App) Stop() {
	a.cancel()
	a.app.Stop()
}
