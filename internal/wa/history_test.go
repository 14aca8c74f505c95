package wa

import (
	"testing"
	"time"

	"github.com/matheus3301/chatvault/internal/platform"
	"go.mau.fi/whatsmeow/types"
)

func histMsg(id string, ts int64) platform.Message {
	return platform.Message{ID: id, Timestamp: ts, Text: id, HasText: true}
}

func histInfo(id string, ts int64) *types.MessageInfo {
	return &types.MessageInfo{ID: id, Timestamp: time.Unix(ts, 0)}
}

func TestHistoryAddSortsDescending(t *testing.T) {
	h := NewHistory()
	h.Add("c1",
		[]platform.Message{histMsg("a", 100), histMsg("b", 300), histMsg("c", 200)},
		[]*types.MessageInfo{histInfo("a", 100), histInfo("b", 300), histInfo("c", 200)})

	snap := h.Snapshot("c1")
	if len(snap) != 3 {
		t.Fatalf("len = %d, want 3", len(snap))
	}
	if snap[0].ID != "b" || snap[1].ID != "c" || snap[2].ID != "a" {
		t.Errorf("order = %s %s %s, want b c a", snap[0].ID, snap[1].ID, snap[2].ID)
	}
}

func TestHistoryDeduplicates(t *testing.T) {
	h := NewHistory()
	batch := []platform.Message{histMsg("a", 100)}
	infos := []*types.MessageInfo{histInfo("a", 100)}
	h.Add("c1", batch, infos)
	h.Add("c1", batch, infos)

	if got := len(h.Snapshot("c1")); got != 1 {
		t.Errorf("len = %d, want 1 after duplicate add", got)
	}
}

func TestHistoryOldestInfo(t *testing.T) {
	h := NewHistory()
	if h.OldestInfo("c1") != nil {
		t.Error("OldestInfo on empty history should be nil")
	}

	h.Add("c1",
		[]platform.Message{histMsg("new", 300)},
		[]*types.MessageInfo{histInfo("new", 300)})
	h.Add("c1",
		[]platform.Message{histMsg("old", 100)},
		[]*types.MessageInfo{histInfo("old", 100)})

	info := h.OldestInfo("c1")
	if info == nil || info.ID != "old" {
		t.Fatalf("OldestInfo = %+v, want the older message", info)
	}
}

func TestHistoryChangedWakesOnAdd(t *testing.T) {
	h := NewHistory()
	changed := h.Changed("c1")

	select {
	case <-changed:
		t.Fatal("channel closed before any add")
	default:
	}

	h.Add("c1", []platform.Message{histMsg("a", 100)}, []*types.MessageInfo{histInfo("a", 100)})

	select {
	case <-changed:
	case <-time.After(time.Second):
		t.Fatal("Changed channel not closed by Add")
	}
}

func TestHistoryChatsAreIndependent(t *testing.T) {
	h := NewHistory()
	h.Add("c1", []platform.Message{histMsg("a", 100)}, []*types.MessageInfo{histInfo("a", 100)})

	if got := len(h.Snapshot("c2")); got != 0 {
		t.Errorf("c2 snapshot = %d messages, want 0", got)
	}
}
