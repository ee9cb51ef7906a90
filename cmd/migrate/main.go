package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"clubsite/internal/config"
	"clubsite/internal/container"
	"clubsite/internal/content"
	"clubsite/pkg/database"
	"clubsite/pkg/logger"
)

const usage = "Usage: go run ./cmd/migrate [up|drop|seed|reset|upgrade|dump|restore <file>]"

func main() {
	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(1)
	}
	command := os.Args[1]

	// Load configuration (also reads .env)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	switch command {
	case "up", "drop":
		if err := runSchema(ctx, cfg, command); err != nil {
			log.Fatalf("Failed to run %s: %v", command, err)
		}
		return
	}

	// dump writes to stdout, so only warnings are logged
	appLog, err := logger.New("warn")
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	// Snapshots are not involved in store maintenance
	cfg.DatabaseURL = ""

	c, err := container.New(ctx, cfg, appLog)
	if err != nil {
		log.Fatalf("Failed to open content store: %v", err)
	}
	defer func() { _ = c.Close(context.Background()) }()

	fmt.Fprintf(os.Stderr, "Using %s store\n", c.StoreName)

	switch command {
	case "seed":
		err = seed(ctx, c.Content)
	case "reset":
		err = reset(ctx, c.Content)
	case "upgrade":
		err = upgrade(ctx, c.Content)
	case "dump":
		err = dump(ctx, c.Content)
	case "restore":
		if len(os.Args) < 3 {
			fmt.Println(usage)
			os.Exit(1)
		}
		err = restore(ctx, c.Content, os.Args[2])
	default:
		fmt.Printf("Unknown command: %s\n", command)
		fmt.Println(usage)
		os.Exit(1)
	}
	if err != nil {
		log.Fatalf("Failed to run %s: %v", command, err)
	}
}

func runSchema(ctx context.Context, cfg *config.Config, command string) error {
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is not set")
	}
	db, err := database.NewPostgresDB(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	if command == "drop" {
		if err := db.DropSchema(ctx); err != nil {
			return err
		}
		fmt.Println("✅ Snapshot tables dropped successfully")
		return nil
	}
	if err := db.EnsureSchema(ctx); err != nil {
		return err
	}
	fmt.Println("✅ Snapshot tables created successfully")
	return nil
}

// seed writes the built-in defaults into every empty slot
func seed(ctx context.Context, svc *content.Service) error {
	for _, kind := range content.Kinds() {
		_, found, err := svc.Raw(ctx, kind)
		if err != nil {
			return err
		}
		if found {
			fmt.Printf("  Skipped %s: already stored\n", kind)
			continue
		}

		switch kind {
		case content.KindEvents:
			err = svc.SaveEvents(ctx, content.DefaultEvents())
		case content.KindCoordinators:
			err = svc.SaveCoordinators(ctx, content.DefaultCoordinators())
		case content.KindClubs:
			err = svc.SaveClubs(ctx, content.DefaultClubs())
		case content.KindGallery:
			err = svc.SaveGalleryImages(ctx, content.DefaultGallery())
		}
		if err != nil {
			return err
		}
		fmt.Printf("  Seeded %s\n", kind)
	}
	fmt.Println("✅ Content seeded successfully")
	return nil
}

func reset(ctx context.Context, svc *content.Service) error {
	for _, kind := range content.Kinds() {
		if err := svc.Reset(ctx, kind); err != nil {
			return err
		}
		fmt.Printf("  Reset %s\n", kind)
	}
	fmt.Println("✅ All slots reset to defaults")
	return nil
}

// upgrade rewrites older documents at the current version
func upgrade(ctx context.Context, svc *content.Service) error {
	for _, kind := range content.Kinds() {
		changed, err := svc.Upgrade(ctx, kind)
		if err != nil {
			return fmt.Errorf("%s: %w", kind, err)
		}
		if changed {
			fmt.Printf("  Upgraded %s to version %d\n", kind, content.CurrentVersion)
		} else {
			fmt.Printf("  %s is absent or current\n", kind)
		}
	}
	fmt.Println("✅ Upgrade completed successfully")
	return nil
}

// dump prints every stored document, keyed by kind, as one JSON object
func dump(ctx context.Context, svc *content.Service) error {
	out := make(map[string]json.RawMessage)
	for _, kind := range content.Kinds() {
		raw, found, err := svc.Raw(ctx, kind)
		if err != nil {
			return err
		}
		if found {
			out[string(kind)] = json.RawMessage(raw)
		}
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// restore writes back the documents of a dump file
func restore(ctx context.Context, svc *content.Service, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var docs map[string]json.RawMessage
	if err := json.Unmarshal(data, &docs); err != nil {
		return fmt.Errorf("invalid dump: %w", err)
	}
	for name, raw := range docs {
		kind, ok := content.ParseKind(name)
		if !ok {
			return fmt.Errorf("unknown content kind %q", name)
		}
		if err := svc.RestoreRaw(ctx, kind, string(raw)); err != nil {
			return fmt.Errorf("%s: %w", kind, err)
		}
		fmt.Printf("  Restored %s\n", kind)
	}
	fmt.Println("✅ Restore completed successfully")
	return nil
}
