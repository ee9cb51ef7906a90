package countdown

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	isoDatePattern   = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})$`)
	clockPattern     = regexp.MustCompile(`(?i)^(\d{1,2}):(\d{2})(?::(\d{2}))?\s*(AM|PM)?$`)
	bareClockPattern = regexp.MustCompile(`(\d{1,2}):(\d{2})`)
)

// genericLayouts are tried in order when the strict ISO form does not match
var genericLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006/01/02",
	"01/02/2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"Monday, January 2, 2006",
	"Mon, Jan 2, 2006",
	"2 January 2006",
	"2 Jan 2006",
}

// ParseDate extracts calendar components from a date string.
// The strict YYYY-MM-DD form is matched first and used as-is; anything else
// goes through the generic layouts interpreted in loc.
func ParseDate(s string, loc *time.Location) (year int, month time.Month, day int, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, 0, 0, false
	}
	if loc == nil {
		loc = time.Local
	}

	if m := isoDatePattern.FindStringSubmatch(s); m != nil {
		y, _ := strconv.Atoi(m[1])
		mo, _ := strconv.Atoi(m[2])
		d, _ := strconv.Atoi(m[3])
		if mo < 1 || mo > 12 || d < 1 || d > daysIn(y, time.Month(mo)) {
			return 0, 0, 0, false
		}
		return y, time.Month(mo), d, true
	}

	for _, layout := range genericLayouts {
		t, err := time.ParseInLocation(layout, s, loc)
		if err != nil {
			continue
		}
		t = t.In(loc)
		return t.Year(), t.Month(), t.Day(), true
	}
	return 0, 0, 0, false
}

// ParseClock parses a time-of-day string into 24-hour components.
// Accepted forms are H:MM, H:MM:SS and either with an AM/PM suffix;
// failing those, the first bare H:MM found in the string is used.
func ParseClock(s string) (hour, minute, second int, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, 0, 0, false
	}

	if m := clockPattern.FindStringSubmatch(s); m != nil {
		hour, _ = strconv.Atoi(m[1])
		minute, _ = strconv.Atoi(m[2])
		if m[3] != "" {
			second, _ = strconv.Atoi(m[3])
		}
		if meridiem := strings.ToUpper(m[4]); meridiem != "" {
			if hour < 1 || hour > 12 {
				return 0, 0, 0, false
			}
			switch {
			case meridiem == "AM" && hour == 12:
				hour = 0
			case meridiem == "PM" && hour < 12:
				hour += 12
			}
		}
		if !validClock(hour, minute, second) {
			return 0, 0, 0, false
		}
		return hour, minute, second, true
	}

	if m := bareClockPattern.FindStringSubmatch(s); m != nil {
		hour, _ = strconv.Atoi(m[1])
		minute, _ = strconv.Atoi(m[2])
		if !validClock(hour, minute, 0) {
			return 0, 0, 0, false
		}
		return hour, minute, 0, true
	}
	return 0, 0, 0, false
}

// Target is the instant a countdown runs towards.
// Valid is false when the date could not be determined; such a target
// always reads as expired.
type Target struct {
	At      time.Time
	Valid   bool
	HasTime bool
}

// BuildTarget composes a date and an optional clock string into a target in loc.
// An empty or unparseable clock means midnight.
func BuildTarget(date, clock string, loc *time.Location) Target {
	if loc == nil {
		loc = time.Local
	}
	y, mo, d, ok := ParseDate(date, loc)
	if !ok {
		return Target{}
	}
	h, mi, sec, hasTime := ParseClock(clock)
	return Target{
		At:      time.Date(y, mo, d, h, mi, sec, 0, loc),
		Valid:   true,
		HasTime: hasTime,
	}
}

// TargetAt wraps an already known instant
func TargetAt(t time.Time) Target {
	if t.IsZero() {
		return Target{}
	}
	return Target{At: t, Valid: true, HasTime: true}
}

func validClock(h, m, s int) bool {
	return h >= 0 && h <= 23 && m >= 0 && m <= 59 && s >= 0 && s <= 59
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
