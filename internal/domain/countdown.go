package domain

import "time"

// TimeLeft is the remaining time until a target instant.
// All fields are non-negative; Expired is set once the target has passed
// or could not be determined.
type TimeLeft struct {
	Days    int  `json:"days"`
	Hours   int  `json:"hours"`
	Minutes int  `json:"minutes"`
	Seconds int  `json:"seconds"`
	Expired bool `json:"isExpired"`
}

// TotalSeconds folds the breakdown back into seconds
func (t TimeLeft) TotalSeconds() int64 {
	return int64(t.Days)*86400 + int64(t.Hours)*3600 + int64(t.Minutes)*60 + int64(t.Seconds)
}

// CountdownView is what presentation clients receive for one event
type CountdownView struct {
	TimeLeft
	EventID   int         `json:"eventId"`
	Title     string      `json:"title"`
	Status    EventStatus `json:"status"`
	Target    *time.Time  `json:"target,omitempty"`
	LongDate  string      `json:"longDate"`
	ShortDate string      `json:"shortDate"`
	// Stale marks an event still labelled upcoming whose countdown has expired
	Stale bool `json:"stale"`
}
