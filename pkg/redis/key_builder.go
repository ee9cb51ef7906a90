package redis

import "fmt"

// Key patterns (before environment prefixing)
const (
	KeyContentSlot   = "content:%s"             // content:events, content:gallery, ...
	KeyRegistrations = "registrations:event:%d" // registrations:event:42
)

// KeyBuilder provides environment-aware Redis key building functionality
type KeyBuilder struct {
	prefix string // Environment prefix (staging/prod)
}

// NewKeyBuilder creates a new key builder with environment-based prefix
func NewKeyBuilder(environment string) *KeyBuilder {
	prefix := "prod"
	switch environment {
	case "development", "staging":
		prefix = "staging"
	case "test":
		prefix = "test"
	}

	return &KeyBuilder{
		prefix: prefix,
	}
}

// BuildKey constructs a Redis key with the environment prefix
func (kb *KeyBuilder) BuildKey(key string) string {
	return fmt.Sprintf("%s:%s", kb.prefix, key)
}

// GetPrefix returns the current environment prefix
func (kb *KeyBuilder) GetPrefix() string {
	return kb.prefix
}

// ContentSlot is the unprefixed key of one content type's document
func ContentSlot(kind string) string {
	return fmt.Sprintf(KeyContentSlot, kind)
}

// RegistrationsSlot is the unprefixed key of one event's registrations
func RegistrationsSlot(eventID int) string {
	return fmt.Sprintf(KeyRegistrations, eventID)
}
