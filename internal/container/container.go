package container

import (
	"context"
	stderrors "errors"
	"fmt"

	"clubsite/internal/config"
	"clubsite/internal/content"
	"clubsite/internal/repository"
	"clubsite/internal/service"
	"clubsite/internal/service/auth"
	"clubsite/internal/service/media"
	"clubsite/pkg/database"
	"clubsite/pkg/logger"
	"clubsite/pkg/redis"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *logger.Logger
	RedisClient *redis.Client
	SQLite      *content.SQLiteStore
	DB          *database.PostgresDB
	Store       content.Store
	StoreName   string
	Content     *content.Service
	Services    *service.Services
}

// New creates a new dependency injection container
func New(ctx context.Context, cfg *config.Config, logger *logger.Logger) (*Container, error) {
	c := &Container{
		Config: cfg,
		Logger: logger,
	}

	if err := c.openStore(ctx); err != nil {
		return nil, err
	}
	logger.WithField("store", c.StoreName).Info("Content store initialized")

	c.Content = content.NewService(c.Store, logger.Logger, content.WithSelfHeal(cfg.ContentSelfHeal))
	countdownSvc := service.NewCountdownService(cfg.Location, cfg.TickInterval, logger)
	registrations := service.NewRegistrationService(c.Content, countdownSvc, cfg.RegistrationDelay, logger)

	c.Services = &service.Services{
		Countdown:     countdownSvc,
		Registrations: registrations,
		Export:        service.NewExportService(c.Content, countdownSvc, registrations, logger),
	}

	// Auth stays a nil interface when no credential is configured
	if cfg.AdminEnabled() {
		authService, err := auth.NewService(auth.Config{
			Username:     cfg.AdminUsername,
			PasswordHash: cfg.AdminPasswordHash,
			Password:     cfg.AdminPassword,
			Secret:       cfg.JWTSecret,
		}, logger)
		if err != nil {
			_ = c.Close(ctx)
			return nil, fmt.Errorf("failed to initialize admin auth: %w", err)
		}
		c.Services.Auth = authService
	} else {
		logger.Info("Admin credential not configured, admin routes disabled")
	}

	if cfg.YouTubeAPIKey != "" {
		c.Services.Media = media.NewYouTubeImporter(cfg.YouTubeAPIKey, logger)
	}

	if cfg.DatabaseURL != "" {
		if err := c.openBackup(ctx); err != nil {
			logger.WithError(err).Warn("Failed to initialize content backups, proceeding without snapshots")
		}
	}

	return c, nil
}

// openStore picks the content store. "auto" prefers Redis, then SQLite, then memory,
// and falls through when a configured backend cannot be reached.
func (c *Container) openStore(ctx context.Context) error {
	cfg := c.Config
	driver := cfg.StoreDriver
	if driver == "" {
		driver = config.StoreAuto
	}

	if driver == config.StoreRedis || (driver == config.StoreAuto && cfg.RedisURL != "") {
		client, err := redis.NewClient(cfg.RedisURL, cfg.Environment, c.Logger.Logger)
		switch {
		case err == nil:
			c.RedisClient = client
			c.Store = content.NewRedisStore(client)
			c.StoreName = config.StoreRedis
			return nil
		case driver == config.StoreRedis:
			return fmt.Errorf("failed to connect to Redis: %w", err)
		default:
			c.Logger.WithError(err).Warn("Failed to initialize Redis client, falling back")
		}
	}

	if driver == config.StoreSQLite || (driver == config.StoreAuto && cfg.SQLitePath != "") {
		store, err := content.OpenSQLiteStore(ctx, cfg.SQLitePath)
		switch {
		case err == nil:
			c.SQLite = store
			c.Store = store
			c.StoreName = config.StoreSQLite
			return nil
		case driver == config.StoreSQLite:
			return fmt.Errorf("failed to open SQLite store: %w", err)
		default:
			c.Logger.WithError(err).Warn("Failed to open SQLite store, falling back")
		}
	}

	if driver == config.StoreAuto {
		c.Logger.Warn("No persistent store configured, content edits will not survive a restart")
	}
	c.Store = content.NewMemoryStore()
	c.StoreName = config.StoreMemory
	return nil
}

func (c *Container) openBackup(ctx context.Context) error {
	db, err := database.NewPostgresDB(ctx, c.Config.DatabaseURL)
	if err != nil {
		return err
	}
	if err := db.EnsureSchema(ctx); err != nil {
		db.Close()
		return err
	}
	backup, err := service.NewBackupService(c.Content, repository.NewSnapshotRepository(db), c.Config.BackupCron, c.Logger)
	if err != nil {
		db.Close()
		return err
	}
	c.DB = db
	c.Services.Backup = backup
	return nil
}

// StoreHealth pings the active content store
func (c *Container) StoreHealth(ctx context.Context) error {
	switch {
	case c.RedisClient != nil:
		return c.RedisClient.Health(ctx)
	case c.SQLite != nil:
		return c.SQLite.Health(ctx)
	default:
		return nil
	}
}

// DatabaseHealth pings the snapshot database; nil when backups are off
func (c *Container) DatabaseHealth(ctx context.Context) error {
	if c.DB == nil {
		return nil
	}
	return c.DB.Health(ctx)
}

// Close stops the backup scheduler (writing a final snapshot) and
// releases every connection. It is safe to call more than once.
func (c *Container) Close(ctx context.Context) error {
	var errs []error

	if c.Services != nil && c.Services.Backup != nil {
		if err := c.Services.Backup.Stop(ctx); err != nil {
			errs = append(errs, fmt.Errorf("backup stop: %w", err))
		}
	}
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("redis close: %w", err))
		}
		c.RedisClient = nil
	}
	if c.SQLite != nil {
		if err := c.SQLite.Close(); err != nil {
			errs = append(errs, fmt.Errorf("sqlite close: %w", err))
		}
		c.SQLite = nil
	}
	if c.DB != nil {
		c.DB.Close()
		c.DB = nil
	}

	return stderrors.Join(errs...)
}
