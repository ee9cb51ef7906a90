package repository

import (
	"context"

	"clubsite/internal/domain"
)

// SnapshotRepository defines the interface for content snapshot operations
type SnapshotRepository interface {
	// Upsert stores the latest document of a content kind
	Upsert(ctx context.Context, snapshot *domain.ContentSnapshot) error

	// Delete removes the snapshot of a content kind
	Delete(ctx context.Context, kind string) error

	// Latest returns the stored snapshot of every kind
	Latest(ctx context.Context) ([]*domain.ContentSnapshot, error)

	// Get returns the snapshot of one kind, or nil when none exists
	Get(ctx context.Context, kind string) (*domain.ContentSnapshot, error)
}
