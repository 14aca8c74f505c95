package archive

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matheus3301/chatvault/internal/platform"
)

// fakeSource serves canned data for export tests.
type fakeSource struct {
	parts    map[string][]platform.Participant
	msgs     map[string][]platform.Message
	partsErr error
	msgsErr  error
}

func (f *fakeSource) Folders(context.Context) ([]platform.Folder, error) { return nil, nil }

func (f *fakeSource) Conversations(context.Context) ([]platform.Conversation, error) {
	return nil, nil
}

func (f *fakeSource) Participants(_ context.Context, conv platform.Conversation) ([]platform.Participant, error) {
	if f.partsErr != nil {
		return nil, f.partsErr
	}
	return f.parts[conv.ID], nil
}

func (f *fakeSource) Messages(_ context.Context, conv platform.Conversation) platform.MessageIter {
	if f.msgsErr != nil {
		return platform.NewFailingIter(f.msgs[conv.ID], 0, f.msgsErr)
	}
	return platform.NewSliceIter(f.msgs[conv.ID])
}

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Team Chat", "Team_Chat"},
		{"dev/ops #1", "devops_1"},
		{"", "Unnamed"},
		{"  spaced   out  ", "spaced_out"},
		{"émoji🎉name", "mojiname"},
	}
	for _, tt := range tests {
		if got := SanitizeName(tt.in); got != tt.want {
			t.Errorf("SanitizeName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExportConversationFormat(t *testing.T) {
	ts := time.Date(2024, 6, 15, 14, 30, 0, 0, time.UTC)
	src := &fakeSource{
		parts: map[string][]platform.Participant{
			"42": {
				{ID: "u1", Username: "alice"},
				{ID: "u2", FirstName: "Bob"},
			},
		},
		msgs: map[string][]platform.Message{
			"42": {
				{ID: "m2", Timestamp: ts.Unix(), SenderID: "u1", Text: "hello", HasText: true},
				{ID: "m1", Timestamp: ts.Add(-time.Hour).Unix(), SenderID: "u2", HasText: false},
			},
		},
	}

	dir := t.TempDir()
	e := NewExporter(src, dir, time.UTC, nil, nil)

	conv := platform.Conversation{ID: "42", Title: "Team Chat", Kind: platform.PeerChat}
	since := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	if err := e.ExportConversation(context.Background(), conv, since); err != nil {
		t.Fatalf("ExportConversation() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "export_Team_Chat.txt"))
	if err != nil {
		t.Fatal(err)
	}

	want := "\n==== START GROUP ====\n" +
		"Group Name: Team Chat\n" +
		"Group ID: 42\n" +
		"Exporting messages since: 2024-06-01T00:00:00Z\n" +
		"Participant Count: 2\n" +
		"Participants: alice, Bob\n" +
		"==== MESSAGES ====\n" +
		"----- 15/06/2024 -----\n" +
		"[14:30] alice: hello\n" +
		"[13:30] Bob: <Media/Other Message>\n" +
		"==== END GROUP ====\n"
	if string(data) != want {
		t.Errorf("transcript mismatch:\ngot:\n%q\nwant:\n%q", string(data), want)
	}
}

func TestExportParticipantFailure(t *testing.T) {
	src := &fakeSource{partsErr: errors.New("flood wait")}
	dir := t.TempDir()
	e := NewExporter(src, dir, time.UTC, nil, nil)

	conv := platform.Conversation{ID: "7", Title: "Bad", Kind: platform.PeerChannel}
	err := e.ExportConversation(context.Background(), conv, time.Unix(0, 0))
	if err == nil {
		t.Fatal("ExportConversation() expected error")
	}

	data, readErr := os.ReadFile(filepath.Join(dir, "export_Bad.txt"))
	if readErr != nil {
		t.Fatal(readErr)
	}
	out := string(data)
	if !strings.Contains(out, "Error fetching participants or messages: ") {
		t.Errorf("missing diagnostic line:\n%s", out)
	}
	if !strings.HasSuffix(out, "==== END GROUP ====\n") {
		t.Errorf("transcript not closed:\n%s", out)
	}
}

func TestExportAllContinuesPastFailures(t *testing.T) {
	ts := time.Now().Unix()
	src := &fakeSource{
		parts: map[string][]platform.Participant{
			"1": {{ID: "u1", Username: "alice"}},
			"2": {{ID: "u1", Username: "alice"}},
		},
		msgs: map[string][]platform.Message{
			"1": {{ID: "a", Timestamp: ts, SenderID: "u1", Text: "x", HasText: true}},
		},
		msgsErr: errors.New("dropped"),
	}

	dir := t.TempDir()
	e := NewExporter(src, dir, time.UTC, nil, nil)
	convs := []platform.Conversation{
		{ID: "1", Title: "One", Kind: platform.PeerChat},
		{ID: "2", Title: "Two", Kind: platform.PeerChat},
	}

	summary := e.ExportAll(context.Background(), convs, time.Unix(0, 0))
	if summary.Exported+summary.Failed != 2 {
		t.Errorf("summary accounts for %d conversations, want 2", summary.Exported+summary.Failed)
	}
	if summary.Failed != 2 {
		// Both iterators fail immediately (msgsErr applies to all).
		t.Errorf("Failed = %d, want 2", summary.Failed)
	}

	// Both transcripts must exist and be closed despite the failures.
	for _, name := range []string{"export_One.txt", "export_Two.txt"} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("transcript %s missing: %v", name, err)
		}
		if !strings.HasSuffix(string(data), "==== END GROUP ====\n") {
			t.Errorf("%s not closed", name)
		}
	}
}
