package utils

import (
	"testing"
)

func TestNormalizePhoneNumber(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    string
		shouldError bool
	}{
		{
			name:     "local digits",
			input:    "0891234567",
			expected: "0891234567",
		},
		{
			name:     "dashes",
			input:    "090-930-0861",
			expected: "0909300861",
		},
		{
			name:     "international with plus",
			input:    "+91 98765 43210",
			expected: "+919876543210",
		},
		{
			name:     "international with 00",
			input:    "0044 20 7946 0958",
			expected: "+442079460958",
		},
		{
			name:     "parentheses and dots",
			input:    "(555) 010.4477",
			expected: "5550104477",
		},
		{
			name:        "empty",
			input:       "   ",
			shouldError: true,
		},
		{
			name:        "too short",
			input:       "12345",
			shouldError: true,
		},
		{
			name:        "letters",
			input:       "call me maybe",
			shouldError: true,
		},
		{
			name:        "too long",
			input:       "+1234567890123456",
			shouldError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := NormalizePhoneNumber(tt.input)
			if tt.shouldError {
				if err == nil {
					t.Errorf("NormalizePhoneNumber(%q) expected error, got %q", tt.input, result)
				}
				return
			}
			if err != nil {
				t.Errorf("NormalizePhoneNumber(%q) unexpected error: %v", tt.input, err)
				return
			}
			if result != tt.expected {
				t.Errorf("NormalizePhoneNumber(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		valid    bool
	}{
		{input: "Student@Uni.EDU", expected: "student@uni.edu", valid: true},
		{input: "  a.b+club@example.org ", expected: "a.b+club@example.org", valid: true},
		{input: "", valid: false},
		{input: "not-an-email", valid: false},
		{input: "Name <name@example.org>", valid: false},
		{input: "user@localhost", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result, err := NormalizeEmail(tt.input)
			if !tt.valid {
				if err == nil {
					t.Errorf("NormalizeEmail(%q) expected error, got %q", tt.input, result)
				}
				return
			}
			if err != nil || result != tt.expected {
				t.Errorf("NormalizeEmail(%q) = %q, %v; want %q", tt.input, result, err, tt.expected)
			}
		})
	}
}
