// Package extract labels transcript text into key-information
// categories and renders the results as a deterministic report. Every
// classifier is a total function: no matches means an empty slice,
// never an error.
package extract

import (
	"regexp"
	"sort"
	"strings"
)

var (
	emailRe = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	linkRe  = regexp.MustCompile(`\bhttps?://\S+\b`)

	// Meeting lines pair a scheduling keyword with a later clock time
	// or an explicit date token. "nice meeting you" is a pleasantry,
	// not a meeting, and overrides both patterns.
	meetingTimeRe = regexp.MustCompile(`(?i)\b(meeting|appointment|call|conference)\b.*\b\d{1,2}:\d{2}\s*(?:am|pm)?\b`)
	meetingDateRe = regexp.MustCompile(`(?i)\b(meeting|appointment|call|conference)\b.*(\b\d{4}[-/]\d{1,2}[-/]\d{1,2}\b|\b(monday|tuesday|wednesday|thursday|friday|saturday|sunday)\b)`)
	niceMeetingRe = regexp.MustCompile(`(?i)nice meeting you`)

	// Transcript message lines: "[HH:MM] Name: text".
	senderPrefixRe = regexp.MustCompile(`^\[\d{1,2}:\d{2}\]\s*([^:]+):`)

	mediaMarkerRe = regexp.MustCompile(`<Media:[^>]*>`)
)

// adminKeywords are matched as substrings of the lower-cased sender
// name. Matching the name rather than the message body is deliberate.
var adminKeywords = []string{"admin", "owner", "moderator", "mod"}

// Emails returns every email token in text, sorted lexicographically.
func Emails(text string) []string {
	found := emailRe.FindAllString(text, -1)
	sort.Strings(found)
	return found
}

// Links holds URLs partitioned by destination.
type Links struct {
	YouTube []string
	Twitter []string
	Misc    []string
}

// ExtractLinks finds every URL in text and partitions it into YouTube,
// Twitter and miscellaneous buckets, each sorted independently.
func ExtractLinks(text string) Links {
	var l Links
	for _, u := range linkRe.FindAllString(text, -1) {
		switch {
		case strings.Contains(u, "youtube.com") || strings.Contains(u, "youtu.be"):
			l.YouTube = append(l.YouTube, u)
		case strings.Contains(u, "twitter.com"):
			l.Twitter = append(l.Twitter, u)
		default:
			l.Misc = append(l.Misc, u)
		}
	}
	sort.Strings(l.YouTube)
	sort.Strings(l.Twitter)
	sort.Strings(l.Misc)
	return l
}

// IsMeetingLine reports whether a single line mentions a meeting with
// a concrete time or date.
func IsMeetingLine(line string) bool {
	if niceMeetingRe.MatchString(line) {
		return false
	}
	return meetingTimeRe.MatchString(line) || meetingDateRe.MatchString(line)
}

// Meetings returns the meeting lines of text, sorted lexicographically.
func Meetings(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if IsMeetingLine(line) {
			out = append(out, line)
		}
	}
	sort.Strings(out)
	return out
}

// Users extracts the distinct sender names from transcript message
// lines, sorted lexicographically. Non-message lines contribute
// nothing.
func Users(text string) []string {
	seen := map[string]bool{}
	for _, line := range strings.Split(text, "\n") {
		m := senderPrefixRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		name := strings.TrimSpace(m[1])
		if name != "" {
			seen[name] = true
		}
	}
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// AdminMessages returns, in transcript order, the message lines whose
// sender name contains an admin-role keyword.
func AdminMessages(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		m := senderPrefixRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		name := strings.ToLower(strings.TrimSpace(m[1]))
		for _, kw := range adminKeywords {
			if strings.Contains(name, kw) {
				out = append(out, line)
				break
			}
		}
	}
	return out
}

// MediaMessages returns lines carrying a media marker, in transcript
// order.
func MediaMessages(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if mediaMarkerRe.MatchString(line) {
			out = append(out, line)
		}
	}
	return out
}

// PinnedMessages returns lines mentioning pinning, in transcript order.
func PinnedMessages(text string) []string {
	return linesContaining(text, "pinned")
}

// StarredMessages returns lines mentioning starring, in transcript order.
func StarredMessages(text string) []string {
	return linesContaining(text, "starred")
}

func linesContaining(text, needle string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if strings.Contains(strings.ToLower(line), needle) {
			out = append(out, line)
		}
	}
	return out
}

// Result holds the labeled output of a full extraction run over one
// transcript.
type Result struct {
	Users           []string
	Emails          []string
	YouTubeLinks    []string
	TwitterLinks    []string
	MiscLinks       []string
	Meetings        []string
	AdminMessages   []string
	MediaMessages   []string
	PinnedMessages  []string
	StarredMessages []string
}

// Extract runs every classifier over the transcript text.
func Extract(text string) Result {
	links := ExtractLinks(text)
	return Result{
		Users:           Users(text),
		Emails:          Emails(text),
		YouTubeLinks:    links.YouTube,
		TwitterLinks:    links.Twitter,
		MiscLinks:       links.Misc,
		Meetings:        Meetings(text),
		AdminMessages:   AdminMessages(text),
		MediaMessages:   MediaMessages(text),
		PinnedMessages:  PinnedMessages(text),
		StarredMessages: StarredMessages(text),
	}
}
