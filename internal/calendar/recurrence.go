package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/teambition/rrule-go"
)

// ParseRule parses an RRULE value (with or without the "RRULE:" prefix)
// anchored at start.
func ParseRule(rule string, start time.Time) (*rrule.RRule, error) {
	rule = strings.TrimSpace(rule)
	if rule == "" {
		return nil, fmt.Errorf("empty recurrence rule")
	}
	r, err := rrule.StrToRRule(rule)
	if err != nil {
		return nil, fmt.Errorf("invalid recurrence rule %q: %w", rule, err)
	}
	r.DTStart(start)
	return r, nil
}

// ValidateRule reports whether rule is a usable RRULE
func ValidateRule(rule string) error {
	_, err := ParseRule(rule, time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC))
	return err
}

// NextOccurrence returns the first occurrence of rule at or after now.
// ok is false once the rule is exhausted.
func NextOccurrence(rule string, start, now time.Time) (next time.Time, ok bool, err error) {
	r, err := ParseRule(rule, start)
	if err != nil {
		return time.Time{}, false, err
	}
	next = r.After(now, true)
	if next.IsZero() {
		return time.Time{}, false, nil
	}
	return next, true, nil
}

// Occurrences lists occurrences of rule between from and to, capped at limit
func Occurrences(rule string, start, from, to time.Time, limit int) ([]time.Time, error) {
	r, err := ParseRule(rule, start)
	if err != nil {
		return nil, err
	}
	out := r.Between(from, to, true)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
