package domain

// EventStatus is set at data entry; it is never derived from the event date
type EventStatus string

const (
	EventStatusUpcoming EventStatus = "upcoming"
	EventStatusPast     EventStatus = "past"
)

// Valid reports whether s is one of the known statuses
func (s EventStatus) Valid() bool {
	return s == EventStatusUpcoming || s == EventStatusPast
}

// EventType distinguishes free and paid events
type EventType string

const (
	EventTypeFree EventType = "free"
	EventTypePaid EventType = "paid"
)

// Event represents one club activity
type Event struct {
	ID          int         `json:"id" yaml:"id"`
	Title       string      `json:"title" yaml:"title"`
	Description string      `json:"description" yaml:"description"`
	Location    string      `json:"location" yaml:"location"`
	Category    string      `json:"category" yaml:"category"`
	// Date is canonically YYYY-MM-DD
	Date string `json:"date" yaml:"date"`
	// EndDate is only set for multi-day events
	EndDate string `json:"endDate,omitempty" yaml:"endDate,omitempty"`
	// Time is free text: "HH:MM", "HH:MM:SS", "H:MM AM/PM" or empty
	Time   string      `json:"time,omitempty" yaml:"time,omitempty"`
	Status EventStatus `json:"status" yaml:"status"`
	Image  string      `json:"image" yaml:"image"`

	Participants     int       `json:"participants,omitempty" yaml:"participants,omitempty"`
	Rating           float64   `json:"rating,omitempty" yaml:"rating,omitempty"`
	RegistrationLink string    `json:"registrationLink,omitempty" yaml:"registrationLink,omitempty"`
	Tags             []string  `json:"tags" yaml:"tags,omitempty"`
	EventType        EventType `json:"eventType,omitempty" yaml:"eventType,omitempty"`
	// Recurrence is an RFC 5545 RRULE, e.g. "FREQ=WEEKLY;BYDAY=WE"
	Recurrence string `json:"recurrence,omitempty" yaml:"recurrence,omitempty"`
}

// GetID implements the identified constraint used by the content helpers
func (e Event) GetID() int { return e.ID }

// SetID implements the identified constraint used by the content helpers
func (e *Event) SetID(id int) { e.ID = id }
