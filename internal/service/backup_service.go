package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"clubsite/internal/content"
	"clubsite/internal/domain"
	"clubsite/internal/repository"
	"clubsite/pkg/logger"
)

// DefaultBackupSchedule snapshots content every 15 minutes
const DefaultBackupSchedule = "*/15 * * * *"

// BackupService mirrors content slots into PostgreSQL snapshots and
// restores missing slots from them at startup.
type BackupService struct {
	content  *content.Service
	repo     repository.SnapshotRepository
	schedule string
	logger   *logger.Logger

	mu        sync.Mutex
	scheduler *cron.Cron
	isRunning bool
	lastSync  time.Time
}

// NewBackupService creates a backup service; schedule uses standard 5-field cron syntax
func NewBackupService(contentSvc *content.Service, repo repository.SnapshotRepository, schedule string, logger *logger.Logger) (*BackupService, error) {
	if schedule == "" {
		schedule = DefaultBackupSchedule
	}
	if _, err := cron.ParseStandard(schedule); err != nil {
		return nil, fmt.Errorf("invalid backup schedule %q: %w", schedule, err)
	}
	return &BackupService{
		content:  contentSvc,
		repo:     repo,
		schedule: schedule,
		logger:   logger.Named("backup"),
	}, nil
}

// Start restores absent slots from the latest snapshots and schedules syncs
func (s *BackupService) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	s.logger.Info("Starting backup service...")

	restored, err := s.restore(ctx)
	if err != nil {
		s.logger.WithError(err).Warn("Failed to restore from snapshots, continuing with current content")
	} else if restored > 0 {
		s.logger.WithField("slots", restored).Info("Restored content slots from snapshots")
	}

	s.scheduler = cron.New()
	if _, err := s.scheduler.AddFunc(s.schedule, s.scheduledSync); err != nil {
		return fmt.Errorf("failed to schedule backups: %w", err)
	}
	s.scheduler.Start()

	s.isRunning = true
	s.logger.WithField("schedule", s.schedule).Info("Backup service started successfully")
	return nil
}

// Stop halts the scheduler, waits for a running sync and writes a final snapshot
func (s *BackupService) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	scheduler := s.scheduler
	s.mu.Unlock()

	s.logger.Info("Stopping backup service...")

	select {
	case <-scheduler.Stop().Done():
	case <-ctx.Done():
		s.logger.Warn("Timed out waiting for scheduled backup to finish")
	}

	if err := s.Sync(ctx); err != nil {
		s.logger.WithError(err).Error("Failed to save final snapshot during shutdown")
		return err
	}

	s.logger.Info("Backup service stopped")
	return nil
}

// Sync copies every present slot into its snapshot and drops snapshots of
// slots that have been reset.
func (s *BackupService) Sync(ctx context.Context) error {
	if s == nil {
		return nil
	}

	var firstErr error
	for _, kind := range content.Kinds() {
		raw, found, err := s.content.Raw(ctx, kind)
		if err != nil {
			firstErr = keepFirst(firstErr, fmt.Errorf("read %s: %w", kind, err))
			continue
		}
		if !found {
			if err := s.repo.Delete(ctx, string(kind)); err != nil {
				firstErr = keepFirst(firstErr, err)
			}
			continue
		}
		snapshot := &domain.ContentSnapshot{Kind: string(kind), Document: raw}
		if err := s.repo.Upsert(ctx, snapshot); err != nil {
			firstErr = keepFirst(firstErr, err)
		}
	}

	if firstErr != nil {
		return firstErr
	}

	s.mu.Lock()
	s.lastSync = time.Now()
	s.mu.Unlock()

	s.logger.Debug("Content snapshots synced")
	return nil
}

// LastSync reports when the last successful sync finished
func (s *BackupService) LastSync() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSync
}

func (s *BackupService) scheduledSync() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := s.Sync(ctx); err != nil {
		s.logger.WithError(err).Error("Scheduled content backup failed")
	}
}

// restore writes snapshots back into slots that are currently absent
func (s *BackupService) restore(ctx context.Context) (int, error) {
	snapshots, err := s.repo.Latest(ctx)
	if err != nil {
		return 0, err
	}

	restored := 0
	for _, snapshot := range snapshots {
		kind, ok := content.ParseKind(snapshot.Kind)
		if !ok {
			continue
		}
		_, found, err := s.content.Raw(ctx, kind)
		if err != nil {
			return restored, err
		}
		if found {
			continue
		}
		if err := s.content.RestoreRaw(ctx, kind, snapshot.Document); err != nil {
			s.logger.WithError(err).WithField("kind", snapshot.Kind).Warn("Skipping unusable snapshot")
			continue
		}
		restored++
	}
	return restored, nil
}

func keepFirst(current, err error) error {
	if current != nil {
		return current
	}
	return err
}
