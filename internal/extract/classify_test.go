package extract

import (
	"reflect"
	"testing"
)

func TestEmails(t *testing.T) {
	text := "reach zoe@example.org or adam.b+test@corp.io\nno address here"
	got := Emails(text)
	want := []string{"adam.b+test@corp.io", "zoe@example.org"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Emails() = %v, want %v", got, want)
	}
}

func TestLinkPartition(t *testing.T) {
	text := "https://youtu.be/abc then https://twitter.com/x and https://example.com"
	got := ExtractLinks(text)

	if !reflect.DeepEqual(got.YouTube, []string{"https://youtu.be/abc"}) {
		t.Errorf("YouTube = %v", got.YouTube)
	}
	if !reflect.DeepEqual(got.Twitter, []string{"https://twitter.com/x"}) {
		t.Errorf("Twitter = %v", got.Twitter)
	}
	if !reflect.DeepEqual(got.Misc, []string{"https://example.com"}) {
		t.Errorf("Misc = %v", got.Misc)
	}
}

func TestLinkBucketsSorted(t *testing.T) {
	text := "https://youtube.com/z https://youtube.com/a"
	got := ExtractLinks(text)
	want := []string{"https://youtube.com/a", "https://youtube.com/z"}
	if !reflect.DeepEqual(got.YouTube, want) {
		t.Errorf("YouTube = %v, want %v", got.YouTube, want)
	}
}

func TestIsMeetingLine(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"Let's have a meeting at 3:00 PM", true},
		{"meeting on Monday", true},
		{"conference scheduled 2024-06-15", true},
		{"call me at 10:30", true},
		{"appointment on 2024/1/5", true},
		{"It was nice meeting you yesterday", false},
		{"Nice meeting you at 3:00 PM", false},
		{"just a meeting", false},
		{"lunch at 12:30", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			if got := IsMeetingLine(tt.line); got != tt.want {
				t.Errorf("IsMeetingLine(%q) = %v, want %v", tt.line, got, tt.want)
			}
		})
	}
}

func TestUsers(t *testing.T) {
	text := "[10:02] zoe: morning\n[10:05] adam: hi\n[10:06] zoe: again\nrandom line"
	got := Users(text)
	want := []string{"adam", "zoe"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Users() = %v, want %v", got, want)
	}
}

func TestAdminMessages(t *testing.T) {
	text := "[09:00] GroupAdmin: rules updated\n" +
		"[09:01] zoe: ok\n" +
		"[09:02] the_owner: welcome\n" +
		"[09:03] Moderator99: behave"
	got := AdminMessages(text)
	if len(got) != 3 {
		t.Fatalf("AdminMessages() returned %d lines, want 3: %v", len(got), got)
	}
	// Transcript order preserved.
	if got[0] != "[09:00] GroupAdmin: rules updated" {
		t.Errorf("first admin line = %q", got[0])
	}
}

func TestAdminKeywordMatchesNameNotBody(t *testing.T) {
	text := "[09:00] zoe: ping the admin please"
	if got := AdminMessages(text); len(got) != 0 {
		t.Errorf("AdminMessages() matched message body: %v", got)
	}
}

func TestMediaPinnedStarred(t *testing.T) {
	text := "[09:00] zoe: <Media: photo.jpg>\n" +
		"[09:01] adam: this was pinned yesterday\n" +
		"[09:02] zoe: I starred that\n" +
		"[09:03] adam: plain"

	if got := MediaMessages(text); len(got) != 1 {
		t.Errorf("MediaMessages() = %v, want 1 line", got)
	}
	if got := PinnedMessages(text); len(got) != 1 {
		t.Errorf("PinnedMessages() = %v, want 1 line", got)
	}
	if got := StarredMessages(text); len(got) != 1 {
		t.Errorf("StarredMessages() = %v, want 1 line", got)
	}
}

func TestClassifierTotality(t *testing.T) {
	for _, text := range []string{"", "nothing interesting here\nat all"} {
		r := Extract(text)
		for name, got := range map[string][]string{
			"Users":    r.Users,
			"Emails":   r.Emails,
			"YouTube":  r.YouTubeLinks,
			"Twitter":  r.TwitterLinks,
			"Misc":     r.MiscLinks,
			"Meetings": r.Meetings,
			"Admin":    r.AdminMessages,
			"Media":    r.MediaMessages,
			"Pinned":   r.PinnedMessages,
			"Starred":  r.StarredMessages,
		} {
			if len(got) != 0 {
				t.Errorf("%s on %q = %v, want empty", name, text, got)
			}
		}
	}
}

func TestDetectCalendar(t *testing.T) {
	info := DetectCalendar("review tomorrow at 14:00, set up the deck")
	if !info.HasDate {
		t.Error("HasDate = false, want true")
	}
	if !info.HasTime {
		t.Error("HasTime = false, want true")
	}
	if info.DateInfo == "" {
		t.Error("DateInfo is empty")
	}
	if len(info.ActionItems) == 0 {
		t.Error("ActionItems is empty")
	}
}

func TestDetectCalendarNothing(t *testing.T) {
	info := DetectCalendar("hello world")
	if info.HasDate || info.HasTime || len(info.ActionItems) != 0 {
		t.Errorf("DetectCalendar(plain) = %+v, want zero value", info)
	}
}
