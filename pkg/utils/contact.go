package utils

import (
	"errors"
	"net/mail"
	"regexp"
	"strings"
)

var (
	// Digits after normalisation, with an optional leading +
	phoneRegex = regexp.MustCompile(`^\+?[0-9]{7,15}$`)
	// Separators people type between digit groups
	phoneSeparators = regexp.MustCompile(`[\s().\-]`)
)

// NormalizePhoneNumber strips separators from a phone number and checks that
// what remains is 7 to 15 digits, optionally prefixed with +.
func NormalizePhoneNumber(phone string) (string, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return "", errors.New("phone number cannot be empty")
	}

	normalized := phoneSeparators.ReplaceAllString(phone, "")
	if strings.HasPrefix(normalized, "00") {
		normalized = "+" + normalized[2:]
	}

	if !phoneRegex.MatchString(normalized) {
		return "", errors.New("invalid phone number format")
	}

	return normalized, nil
}

// NormalizeEmail lowercases and validates a bare email address
func NormalizeEmail(email string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", errors.New("email cannot be empty")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || !strings.Contains(email[strings.LastIndex(email, "@"):], ".") {
		return "", errors.New("invalid email address")
	}
	return strings.ToLower(email), nil
}
