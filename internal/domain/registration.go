package domain

import "time"

// RegistrationRequest is submitted from the event registration form
type RegistrationRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

// Registration is a stored registration for one event
type Registration struct {
	ID        string    `json:"id"`
	EventID   int       `json:"eventId"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// RegistrationResponse confirms a registration
type RegistrationResponse struct {
	Registration     Registration `json:"registration"`
	EventTitle       string       `json:"eventTitle"`
	RegistrationLink string       `json:"registrationLink,omitempty"`
	Message          string       `json:"message"`
}
