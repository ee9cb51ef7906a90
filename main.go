package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"clubsite/internal/config"
	"clubsite/internal/container"
	"clubsite/internal/handler"
	"clubsite/internal/middleware"
	"clubsite/pkg/logger"
)

const shutdownTimeout = 25 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	var logOpts []logger.Option
	if cfg.IsDevelopment() {
		logOpts = append(logOpts, logger.WithConsole())
	}
	log, err := logger.New(cfg.LogLevel, logOpts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.WithError(err).Error("Server stopped with errors")
		_ = log.Sync()
		os.Exit(1)
	}
	log.Info("Application shutdown complete")
}

// run serves until SIGINT/SIGTERM or a listener failure, then shuts down
func run(cfg *config.Config, log *logger.Logger) error {
	log.WithFields(map[string]interface{}{
		"port":        cfg.Port,
		"log_level":   cfg.LogLevel,
		"environment": cfg.Environment,
		"timezone":    cfg.Location.String(),
	}).Info("Starting clubsite server")

	c, err := container.New(context.Background(), cfg, log)
	if err != nil {
		return fmt.Errorf("create container: %w", err)
	}

	// Missing slots are restored from snapshots before serving
	if c.Services.Backup != nil {
		if err := c.Services.Backup.Start(context.Background()); err != nil {
			_ = c.Close(context.Background())
			return fmt.Errorf("start backup service: %w", err)
		}
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second, // countdown streams clear their own deadline
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}
	server.Handler = setupRouter(c, server.RegisterOnShutdown)

	signals, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		log.Info("Server starting on port " + cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	var failure error
	select {
	case <-signals.Done():
		log.Info("Received shutdown signal")
	case failure = <-serveErr:
		log.WithError(failure).Error("Server failed, initiating shutdown")
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return errors.Join(failure, shutdown(ctx, server, c, log))
}

// shutdown drains HTTP traffic, then stops backups (final snapshot) and
// closes the stores
func shutdown(ctx context.Context, server *http.Server, c *container.Container, log *logger.Logger) error {
	var errs []error
	if err := server.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("http server shutdown: %w", err))
	}
	if err := c.Close(ctx); err != nil {
		errs = append(errs, fmt.Errorf("close container: %w", err))
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}
	log.Info("Graceful shutdown completed")
	return nil
}

// setupRouter builds the chi router. onShutdown registers hooks that must
// run when the server starts shutting down.
func setupRouter(c *container.Container, onShutdown func(func())) *chi.Mux {
	cfg := c.Config
	log := c.Logger

	r := chi.NewRouter()

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowedOrigins = cfg.AllowedOrigins

	r.Use(middleware.CORS(corsConfig, log))
	r.Use(middleware.RequestID(log))
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)

	healthHandler := handler.NewHealthHandler(log,
		handler.HealthCheck{Name: "store", Check: c.StoreHealth},
		handler.HealthCheck{Name: "database", Check: c.DatabaseHealth},
	)
	eventHandler := handler.NewEventHandler(c.Content, c.Services.Countdown, c.Services.Registrations, log)
	contentHandler := handler.NewContentHandler(c.Content, log)
	adminHandler := handler.NewAdminHandler(c.Content, c.Services, log)

	onShutdown(eventHandler.CloseStreams)

	r.Get("/health", healthHandler.Check)

	r.Route("/api", func(r chi.Router) {
		// Long-lived, so outside the request timeout
		r.Get("/events/{id}/countdown/stream", eventHandler.CountdownStream)

		r.Group(func(r chi.Router) {
			r.Use(chiMiddleware.Compress(5))
			r.Use(chiMiddleware.Timeout(60 * time.Second))

			eventHandler.RegisterRoutes(r)
			contentHandler.RegisterRoutes(r)
			adminHandler.RegisterRoutes(r)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"success":false,"error":{"type":"not_found","message":"Endpoint not found"}}`))
	})

	log.Info("Router configured successfully")
	return r
}
