package main

import (
	"context"
	"fmt"
	"os"

	"restaurant-admin/internal/config"
	"restaurant-admin/internal/database"

	"github.com/caarlos0/env/v11"
)

// dbcheck connects with the DB_* environment, optionally migrates, and
// prints the schema version and row counts.
func main() {
	var cfg struct {
		Database config.DatabaseConfig
		Logger   config.LoggerConfig
	}
	if err := env.Parse(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Unable to load configuration: %v\n", err)
		os.Exit(1)
	}
	logger := config.NewLogger(cfg.Logger)

	ctx := context.Background()
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	var dbName string
	if err := pool.QueryRow(ctx, "SELECT current_database()").Scan(&dbName); err != nil {
		fmt.Fprintf(os.Stderr, "QueryRow failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Successfully connected to database: %s\n", dbName)

	if cfg.Database.Migrate {
		if err := database.Migrate(ctx, pool, logger); err != nil {
			fmt.Fprintf(os.Stderr, "Migration failed: %v\n", err)
			os.Exit(1)
		}
	}

	var version int
	err = pool.QueryRow(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&version)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Schema not installed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Schema version: %d (expected %d)\n", version, database.SchemaVersion)

	fmt.Println("\nRow counts:")
	for _, table := range []string{"restaurants", "restaurant_tables", "products", "menus", "menu_items"} {
		var n int
		if err := pool.QueryRow(ctx, "SELECT count(*) FROM "+table).Scan(&n); err != nil {
			fmt.Fprintf(os.Stderr, "Count failed for %s: %v\n", table, err)
			os.Exit(1)
		}
		fmt.Printf("  - %-18s %d\n", table, n)
	}
}
