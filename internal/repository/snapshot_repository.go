package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"clubsite/internal/domain"
	"clubsite/pkg/database"
)

// snapshotRepository handles content snapshot operations with PostgreSQL
type snapshotRepository struct {
	db *database.PostgresDB
}

// NewSnapshotRepository creates a new snapshot repository
func NewSnapshotRepository(db *database.PostgresDB) SnapshotRepository {
	return &snapshotRepository{
		db: db,
	}
}

// Upsert stores the latest document of a content kind
func (r *snapshotRepository) Upsert(ctx context.Context, snapshot *domain.ContentSnapshot) error {
	query := `
		INSERT INTO content_snapshots (kind, document, updated_at)
		VALUES ($1, $2::jsonb, NOW())
		ON CONFLICT (kind) DO UPDATE SET
			document = EXCLUDED.document,
			updated_at = EXCLUDED.updated_at
		RETURNING updated_at
	`

	err := r.db.Pool.QueryRow(ctx, query, snapshot.Kind, snapshot.Document).Scan(&snapshot.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert %s snapshot: %w", snapshot.Kind, err)
	}

	return nil
}

// Delete removes the snapshot of a content kind
func (r *snapshotRepository) Delete(ctx context.Context, kind string) error {
	if _, err := r.db.Pool.Exec(ctx, `DELETE FROM content_snapshots WHERE kind = $1`, kind); err != nil {
		return fmt.Errorf("failed to delete %s snapshot: %w", kind, err)
	}
	return nil
}

// Latest returns the stored snapshot of every kind
func (r *snapshotRepository) Latest(ctx context.Context) ([]*domain.ContentSnapshot, error) {
	query := `
		SELECT kind, document::text, updated_at
		FROM content_snapshots
		ORDER BY kind
	`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query content snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []*domain.ContentSnapshot
	for rows.Next() {
		snapshot := &domain.ContentSnapshot{}
		if err := rows.Scan(&snapshot.Kind, &snapshot.Document, &snapshot.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan content snapshot row: %w", err)
		}
		snapshots = append(snapshots, snapshot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading content snapshot rows: %w", err)
	}

	return snapshots, nil
}

// Get returns the snapshot of one kind, or nil when none exists
func (r *snapshotRepository) Get(ctx context.Context, kind string) (*domain.ContentSnapshot, error) {
	query := `
		SELECT kind, document::text, updated_at
		FROM content_snapshots
		WHERE kind = $1
	`

	snapshot := &domain.ContentSnapshot{}
	err := r.db.Pool.QueryRow(ctx, query, kind).Scan(&snapshot.Kind, &snapshot.Document, &snapshot.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get %s snapshot: %w", kind, err)
	}

	return snapshot, nil
}
