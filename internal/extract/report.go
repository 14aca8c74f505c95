package extract

import "strings"

// ReportHeader opens every extraction report.
const ReportHeader = "Extracted Key Information:"

// NoneFound is the placeholder body for an empty category.
const NoneFound = "None found."

type section struct {
	title   string
	entries []string
}

// RenderReport assembles the extraction result into the report text.
// Section order is fixed and the output is fully determined by the
// result, so re-rendering the same result is byte-identical.
func RenderReport(r Result) string {
	sections := []section{
		{"Users Found", r.Users},
		{"Emails Found", r.Emails},
		{"YouTube Links Found", r.YouTubeLinks},
		{"Twitter Links Found", r.TwitterLinks},
		{"Other Links Found", r.MiscLinks},
		{"Meetings Found", r.Meetings},
		{"Admin Messages Found", r.AdminMessages},
		{"Media Messages Found", r.MediaMessages},
		{"Pinned Messages Found", r.PinnedMessages},
		{"Starred Messages Found", r.StarredMessages},
	}

	var sb strings.Builder
	sb.WriteString(ReportHeader)
	sb.WriteString("\n")
	for i, s := range sections {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString("\n--- ")
		sb.WriteString(s.title)
		sb.WriteString(" ---\n")
		if len(s.entries) == 0 {
			sb.WriteString(NoneFound)
		} else {
			sb.WriteString(strings.Join(s.entries, "\n"))
		}
	}
	return sb.String()
}
