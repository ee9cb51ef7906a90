package content

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"clubsite/pkg/redis"
)

// CurrentVersion is written on every save.
// Version 0 is the legacy bare-array layout, version 1 wrapped the array
// without normalising event dates.
const CurrentVersion = 2

// Kind names one content slot
type Kind string

const (
	KindEvents       Kind = "events"
	KindCoordinators Kind = "coordinators"
	KindClubs        Kind = "clubs"
	KindGallery      Kind = "gallery"
)

// Kinds lists every content slot in a stable order
func Kinds() []Kind {
	return []Kind{KindEvents, KindCoordinators, KindClubs, KindGallery}
}

// ParseKind validates a slot name
func ParseKind(s string) (Kind, bool) {
	for _, k := range Kinds() {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

// SlotKey is the store key of a content slot
func SlotKey(kind Kind) string {
	return redis.ContentSlot(string(kind))
}

// RegistrationKey is the store key holding registrations of one event
func RegistrationKey(eventID int) string {
	return redis.RegistrationsSlot(eventID)
}

// Document is the persisted envelope of a slot
type Document struct {
	Version   int             `json:"version"`
	Kind      Kind            `json:"kind"`
	UpdatedAt time.Time       `json:"updated_at"`
	Items     json.RawMessage `json:"items"`
}

// encodeDocument wraps items into a current-version document
func encodeDocument[T any](kind Kind, items []T, now time.Time) (string, error) {
	if items == nil {
		items = []T{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("marshal %s: %w", kind, err)
	}
	doc := Document{Version: CurrentVersion, Kind: kind, UpdatedAt: now.UTC(), Items: raw}
	out, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("marshal %s document: %w", kind, err)
	}
	return string(out), nil
}

// decodeDocument reads either a versioned document or a legacy bare array
func decodeDocument(kind Kind, value string) (Document, error) {
	data := bytes.TrimSpace([]byte(value))
	if len(data) == 0 {
		return Document{}, fmt.Errorf("%s: empty value", kind)
	}

	if data[0] == '[' {
		return Document{Version: 0, Kind: kind, Items: json.RawMessage(data)}, nil
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("%s: %w", kind, err)
	}
	if doc.Kind != "" && doc.Kind != kind {
		return Document{}, fmt.Errorf("%s: document holds %q", kind, doc.Kind)
	}
	if len(doc.Items) == 0 || bytes.Equal(doc.Items, []byte("null")) {
		return Document{}, fmt.Errorf("%s: document has no items", kind)
	}
	doc.Kind = kind
	return doc, nil
}

// decodeItems unmarshals the items array of a document
func decodeItems[T any](doc Document) ([]T, error) {
	var items []T
	if err := json.Unmarshal(doc.Items, &items); err != nil {
		return nil, fmt.Errorf("%s items: %w", doc.Kind, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}
