package archive

import (
	"errors"
	"testing"
	"time"
)

func TestParseSince(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		token string
		want  time.Time
	}{
		{"all", time.Unix(0, 0)},
		{"week", now.AddDate(0, 0, -7)},
		{"7days", now.AddDate(0, 0, -7)},
		{"month", now.AddDate(0, 0, -30)},
		{"30days", now.AddDate(0, 0, -30)},
		{"3months", now.AddDate(0, 0, -90)},
		{"2024-01-31", time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)},
		{"31/01/2024", time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			got, err := ParseSince(tt.token, now)
			if err != nil {
				t.Fatalf("ParseSince(%q) error = %v", tt.token, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseSince(%q) = %v, want %v", tt.token, got, tt.want)
			}
		})
	}
}

func TestParseSinceInvalid(t *testing.T) {
	now := time.Now()
	for _, token := range []string{"", "yesterday", "13/13/2024", "next week"} {
		t.Run(token, func(t *testing.T) {
			_, err := ParseSince(token, now)
			if !errors.Is(err, ErrInvalidTimeRange) {
				t.Errorf("ParseSince(%q) error = %v, want ErrInvalidTimeRange", token, err)
			}
		})
	}
}
