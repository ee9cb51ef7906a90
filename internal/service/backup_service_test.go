package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clubsite/internal/content"
	"clubsite/internal/domain"
	"clubsite/pkg/logger"
)

// memorySnapshots is an in-memory SnapshotRepository
type memorySnapshots struct {
	mu        sync.Mutex
	snapshots map[string]string
	err       error
}

func newMemorySnapshots() *memorySnapshots {
	return &memorySnapshots{snapshots: make(map[string]string)}
}

func (m *memorySnapshots) Upsert(_ context.Context, s *domain.ContentSnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.snapshots[s.Kind] = s.Document
	return nil
}

func (m *memorySnapshots) Delete(_ context.Context, kind string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	delete(m.snapshots, kind)
	return nil
}

func (m *memorySnapshots) Latest(_ context.Context) ([]*domain.ContentSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := make([]*domain.ContentSnapshot, 0, len(m.snapshots))
	for kind, doc := range m.snapshots {
		out = append(out, &domain.ContentSnapshot{Kind: kind, Document: doc})
	}
	return out, nil
}

func (m *memorySnapshots) Get(_ context.Context, kind string) (*domain.ContentSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.snapshots[kind]
	if !ok {
		return nil, nil
	}
	return &domain.ContentSnapshot{Kind: kind, Document: doc}, nil
}

func (m *memorySnapshots) has(kind content.Kind) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.snapshots[string(kind)]
	return ok
}

func TestNewBackupService_Schedule(t *testing.T) {
	contentSvc, _ := newTestContent()

	svc, err := NewBackupService(contentSvc, newMemorySnapshots(), "", logger.NewNop())
	require.NoError(t, err)
	assert.Equal(t, DefaultBackupSchedule, svc.schedule)

	_, err = NewBackupService(contentSvc, newMemorySnapshots(), "every minute", logger.NewNop())
	assert.Error(t, err)
}

func TestBackupService_SyncMirrorsSlots(t *testing.T) {
	contentSvc, _ := newTestContent()
	repo := newMemorySnapshots()
	svc, err := NewBackupService(contentSvc, repo, "", logger.NewNop())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, contentSvc.SaveGalleryImages(ctx, []string{"/a.jpg"}))
	repo.snapshots[string(content.KindClubs)] = `{"version":2,"kind":"clubs","items":[]}`

	require.NoError(t, svc.Sync(ctx))

	assert.True(t, repo.has(content.KindGallery))
	assert.False(t, repo.has(content.KindClubs), "snapshot of a reset slot is dropped")
	assert.False(t, repo.has(content.KindEvents))
	assert.False(t, svc.LastSync().IsZero())
}

func TestBackupService_SyncReportsRepositoryError(t *testing.T) {
	contentSvc, _ := newTestContent()
	repo := newMemorySnapshots()
	repo.err = errors.New("connection refused")
	svc, err := NewBackupService(contentSvc, repo, "", logger.NewNop())
	require.NoError(t, err)

	assert.Error(t, svc.Sync(context.Background()))
	assert.True(t, svc.LastSync().IsZero())
}

func TestBackupService_NilSyncIsNoop(t *testing.T) {
	var svc *BackupService
	assert.NoError(t, svc.Sync(context.Background()))
}

func TestBackupService_StartRestoresAbsentSlots(t *testing.T) {
	ctx := context.Background()

	// Produce a snapshot from one service, restore into a fresh one
	source, _ := newTestContent()
	events := []domain.Event{{ID: 9, Title: "Restored", Date: "2026-02-01", Status: domain.EventStatusUpcoming}}
	require.NoError(t, source.SaveEvents(ctx, events))
	raw, found, err := source.Raw(ctx, content.KindEvents)
	require.NoError(t, err)
	require.True(t, found)

	repo := newMemorySnapshots()
	repo.snapshots[string(content.KindEvents)] = raw
	repo.snapshots[string(content.KindGallery)] = `{"version":2,"kind":"gallery","items":["/snap.jpg"]}`
	repo.snapshots["unknown"] = `[]`

	target, _ := newTestContent()
	require.NoError(t, target.SaveGalleryImages(ctx, []string{"/live.jpg"}))

	svc, err := NewBackupService(target, repo, "", logger.NewNop())
	require.NoError(t, err)
	require.NoError(t, svc.Start(ctx))
	t.Cleanup(func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = svc.Stop(stopCtx)
	})

	assert.Equal(t, events, target.GetEvents(ctx))
	assert.Equal(t, []string{"/live.jpg"}, target.GetGalleryImages(ctx), "present slots are never overwritten")
}

func TestBackupService_StopWritesFinalSnapshot(t *testing.T) {
	ctx := context.Background()
	contentSvc, _ := newTestContent()
	repo := newMemorySnapshots()
	svc, err := NewBackupService(contentSvc, repo, "", logger.NewNop())
	require.NoError(t, err)

	require.NoError(t, svc.Start(ctx))
	require.NoError(t, contentSvc.SaveClubs(ctx, content.DefaultClubs()))

	stopCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	require.NoError(t, svc.Stop(stopCtx))

	assert.True(t, repo.has(content.KindClubs))
	assert.NoError(t, svc.Stop(stopCtx), "second stop is a no-op")
}
