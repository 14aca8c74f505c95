package summarize

import (
	"regexp"
	"strings"
)

var (
	senderPrefixRe = regexp.MustCompile(`^\[\d{1,2}:\d{2}\]\s*[^:]*:\s*`)
	envelopeRe     = regexp.MustCompile(`^(====|-----)`)
)

// CleanConversation strips transcript structure down to the spoken
// text: envelope and date-header lines are dropped, sender prefixes
// removed, and the remaining lines joined with single spaces.
func CleanConversation(raw string) string {
	var parts []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || envelopeRe.MatchString(line) {
			continue
		}
		line = strings.TrimSpace(senderPrefixRe.ReplaceAllString(line, ""))
		if line != "" {
			parts = append(parts, line)
		}
	}
	return strings.Join(parts, " ")
}

// TruncateWords keeps at most max whitespace-separated tokens,
// bounding what is sent to the model.
func TruncateWords(text string, max int) string {
	tokens := strings.Fields(text)
	if len(tokens) <= max {
		return text
	}
	return strings.Join(tokens[:max], " ")
}

// StructuredSummary wraps the model's prose into the report template
// written next to each transcript.
func StructuredSummary(summary string) string {
	return strings.TrimSpace(`
1. Main Topics Discussed:
   ` + summary + `

2. Next Steps or Action Points:
   - [Add specific actions based on the summary if needed.]

3. Key Questions Raised:
   - [Highlight questions, if any.]

4. Conclusions or Decisions Made:
   - [Summarize the decisions made or conclusions reached.]
`)
}
