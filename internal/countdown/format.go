package countdown

import (
	"fmt"
	"time"

	"clubsite/internal/domain"
)

// Style selects a display format for dates
type Style int

const (
	// StyleLong renders "Monday, December 15, 2025"
	StyleLong Style = iota
	// StyleShort renders "Dec 15, 2025"
	StyleShort
)

// FormatDate renders a date string for display.
// Input that cannot be parsed is returned unchanged.
func FormatDate(s string, style Style, loc *time.Location) string {
	y, m, d, ok := ParseDate(s, loc)
	if !ok {
		return s
	}
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	if style == StyleShort {
		return t.Format("Jan 2, 2006")
	}
	return t.Format("Monday, January 2, 2006")
}

// FormatTimeLeft renders "1d 2h 3m 4s"
func FormatTimeLeft(t domain.TimeLeft) string {
	return fmt.Sprintf("%dd %dh %dm %ds", t.Days, t.Hours, t.Minutes, t.Seconds)
}
