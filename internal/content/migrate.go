package content

import (
	"strings"
	"time"

	"clubsite/internal/countdown"
	"clubsite/internal/domain"
)

// NormalizeEventDate rewrites a stored date into YYYY-MM-DD.
// Comma-joined multi-day values become a start date plus an end date.
// ok is false when no part of raw can be read as a date.
func NormalizeEventDate(raw string) (date, endDate string, ok bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", "", false
	}

	if y, m, d, parsed := countdown.ParseDate(raw, time.UTC); parsed {
		return canonicalDate(y, m, d), "", true
	}

	if !strings.Contains(raw, ",") {
		return raw, "", false
	}

	// "March 14, 2025" contains a comma but is a single date; it was handled
	// above, so what remains is a list of days.
	var days []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		y, m, d, parsed := countdown.ParseDate(part, time.UTC)
		if !parsed {
			continue
		}
		days = append(days, canonicalDate(y, m, d))
	}
	if len(days) == 0 {
		return raw, "", false
	}
	if len(days) == 1 {
		return days[0], "", true
	}
	return days[0], days[len(days)-1], true
}

func canonicalDate(y int, m time.Month, d int) string {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
}

// migrateEvents brings events read from an older document up to the
// current date grammar. It reports whether anything changed.
func migrateEvents(events []domain.Event) bool {
	changed := false
	for i := range events {
		date, end, ok := NormalizeEventDate(events[i].Date)
		if !ok {
			continue
		}
		if date != events[i].Date {
			events[i].Date = date
			changed = true
		}
		if end != "" && events[i].EndDate == "" {
			events[i].EndDate = end
			changed = true
		}
		if events[i].EndDate != "" {
			if e, _, ok := NormalizeEventDate(events[i].EndDate); ok && e != events[i].EndDate {
				events[i].EndDate = e
				changed = true
			}
		}
	}
	return changed
}
