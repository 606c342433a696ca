package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/yukikurage/task-scheduler/internal/config"
	"github.com/yukikurage/task-scheduler/internal/database"
)

// migrate creates or updates the schema and exits.
func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "optional YAML configuration file")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	log := cfg.NewLogger(os.Stderr)

	db, err := database.Connect(cfg, log)
	if err != nil {
		log.Error("failed to connect to database", "driver", cfg.DBDriver, "error", err)
		os.Exit(1)
	}

	if err := database.Migrate(db, database.DefaultSchema, log); err != nil {
		_ = database.Close(db)
		log.Error("migration failed", "error", err)
		os.Exit(1)
	}
	_ = database.Close(db)

	log.Info("schema is up to date", "driver", cfg.DBDriver)
}
