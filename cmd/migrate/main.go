package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/Rrens/support-chat/internal/config"
	"github.com/Rrens/support-chat/internal/repository/postgres"
	"github.com/joho/godotenv"
)

func main() {
	down := flag.Bool("down", false, "roll back every applied migration")
	source := flag.String("source", "", "migration source URL (defaults to database.migrations)")
	flag.Parse()

	// Load .env file if it exists
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	if cfg.Database.Driver != "postgres" {
		fmt.Printf("Database driver is %s; its schema is created on startup, nothing to migrate\n", cfg.Database.Driver)
		return
	}

	sourceURL := cfg.Database.Migrations
	if *source != "" {
		sourceURL = *source
	}

	fmt.Printf("Migrating database at %s:%d from %s...\n", cfg.Database.Host, cfg.Database.Port, sourceURL)

	if *down {
		err = postgres.RollbackMigrations(cfg.Database.DSN(), sourceURL)
	} else {
		err = postgres.RunMigrations(cfg.Database.DSN(), sourceURL)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Migration failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Migrations completed successfully!")
}
