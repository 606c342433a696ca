package database

import (
	"fmt"
	"log/slog"

	"github.com/yukikurage/task-scheduler/internal/models"
	"gorm.io/gorm"
)

// Schema lists every table and secondary index the application owns.
// It is passed once to Migrate; nothing registers itself implicitly.
type Schema struct {
	Tables  []any
	Indexes []Index
}

// Index is a secondary index not expressible through struct tags.
type Index struct {
	Model   any
	Table   string
	Name    string
	Columns string
}

// DefaultSchema is the task scheduler schema.
var DefaultSchema = Schema{
	Tables: []any{
		&models.User{},
		&models.Resource{},
		&models.Task{},
		&models.TaskUser{},
		&models.TaskResource{},
	},
	Indexes: []Index{
		// Reverse lookups; the composite primary keys only cover task_id.
		{&models.TaskUser{}, "task_user", "idx_task_user_user_id", "user_id"},
		{&models.TaskResource{}, "task_resource", "idx_task_resource_resource_id", "resource_id"},
		// Time window scans
		{&models.Task{}, "tasks", "idx_tasks_window", "start_time, end_time"},
	},
}

// Migrate creates or updates the tables in schema, then its indexes.
func Migrate(db *gorm.DB, schema Schema, log *slog.Logger) error {
	log.Info("running database migrations", "tables", len(schema.Tables))
	if err := db.AutoMigrate(schema.Tables...); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := AddIndexes(db, schema.Indexes, log); err != nil {
		return fmt.Errorf("failed to add indexes: %w", err)
	}

	log.Info("database migrations completed")
	return nil
}

// AddIndexes creates any missing index from indexes.
func AddIndexes(db *gorm.DB, indexes []Index, log *slog.Logger) error {
	migrator := db.Migrator()

	for _, idx := range indexes {
		if migrator.HasIndex(idx.Model, idx.Name) {
			log.Debug("index already exists, skipping", "index", idx.Name)
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.Name, idx.Table, idx.Columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.Name, err)
		}

		log.Info("created index", "index", idx.Name, "table", idx.Table, "columns", idx.Columns)
	}

	return nil
}
