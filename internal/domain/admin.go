package domain

import "time"

// LoginRequest is the admin login payload
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the issued session token
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// AdminClaims is what a validated session token asserts
type AdminClaims struct {
	Username  string    `json:"username"`
	IssuedAt  time.Time `json:"issuedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// PlaylistImportRequest asks for a playlist's thumbnails to be added to the gallery
type PlaylistImportRequest struct {
	PlaylistID string `json:"playlistId"`
	Limit      int    `json:"limit,omitempty"`
}

// PlaylistImportResult reports what a playlist import added
type PlaylistImportResult struct {
	PlaylistID string   `json:"playlistId"`
	Added      []string `json:"added"`
	Gallery    []string `json:"gallery"`
}
