package extract

import (
	"regexp"
	"strings"
)

// The calendar detectors are deliberately looser than IsMeetingLine:
// the search lenses want anything date-ish, time-ish or task-ish in a
// surfaced message, not just firm meeting lines.
var (
	relaxedDatePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(today|tomorrow|next week|next month)\b`),
		regexp.MustCompile(`(?i)\b(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)\w*\s+\d{1,2}\b`),
		regexp.MustCompile(`\b\d{1,2}/\d{1,2}/\d{2,4}\b`),
		regexp.MustCompile(`\b\d{1,2}-\d{1,2}-\d{2,4}\b`),
	}
	relaxedTimePattern = regexp.MustCompile(`(?i)\b\d{1,2}:\d{2}\s*(?:am|pm)?\b`)
	actionVerbPattern  = regexp.MustCompile(`(?i)\b(meeting|call|discussion|review|presentation|deadline|due|reminder|schedule|book|arrange|set up|plan)\b`)
)

// CalendarInfo describes the calendar-relevant content of one message.
type CalendarInfo struct {
	HasDate     bool
	HasTime     bool
	DateInfo    string
	ActionItems []string
}

// DetectCalendar scans a message for date mentions, clock times and
// action-item keywords.
func DetectCalendar(text string) CalendarInfo {
	var info CalendarInfo

	for _, p := range relaxedDatePatterns {
		if matches := p.FindAllString(text, -1); matches != nil {
			info.HasDate = true
			info.DateInfo = strings.Join(matches, ", ")
			break
		}
	}

	if matches := relaxedTimePattern.FindAllString(text, -1); matches != nil {
		info.HasTime = true
		joined := strings.Join(matches, ", ")
		if info.DateInfo == "" {
			info.DateInfo = joined
		} else {
			info.DateInfo += " " + joined
		}
	}

	info.ActionItems = actionVerbPattern.FindAllString(text, -1)
	return info
}
