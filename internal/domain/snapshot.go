package domain

import "time"

// ContentSnapshot is a backup copy of one content slot
type ContentSnapshot struct {
	Kind      string    `json:"kind"`
	Document  string    `json:"document"`
	UpdatedAt time.Time `json:"updated_at"`
}
