package archive

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidTimeRange is returned for an unparsable time-range token.
var ErrInvalidTimeRange = errors.New("invalid time range")

// Export-path time tokens. The interactive bot has its own token set
// (7days|30days|3months|all) defined in internal/engine; the two
// surfaces are intentionally kept separate.
const (
	RangeAll   = "all"
	RangeWeek  = "week"
	RangeMonth = "month"
)

var dateLayouts = []string{"2006-01-02", "02/01/2006"}

// ParseSince converts a user time-range token into a lower time bound.
// "all" means epoch zero; "week"/"7days" and "month"/"30days" are
// offsets from now; "3months" is 90 days; anything else is parsed as a
// calendar date. Unparsable input fails with ErrInvalidTimeRange.
func ParseSince(token string, now time.Time) (time.Time, error) {
	switch token {
	case RangeAll:
		return time.Unix(0, 0), nil
	case RangeWeek, "7days":
		return now.AddDate(0, 0, -7), nil
	case RangeMonth, "30days":
		return now.AddDate(0, 0, -30), nil
	case "3months":
		return now.AddDate(0, 0, -90), nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, token, now.Location()); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimeRange, token)
}
