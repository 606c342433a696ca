package database

import (
	"time"

	"gorm.io/gorm"

	"github.com/yukikurage/task-scheduler/internal/utils"
)

// Paginate applies pagination to a GORM query
func Paginate(params utils.PaginationParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if params.Limit <= 0 {
			return db
		}
		return db.Offset(params.Offset).Limit(params.Limit)
	}
}

// OverlappingWindow keeps tasks whose [start_time, end_time) intersects [from, to).
// A nil bound leaves that side open.
func OverlappingWindow(from, to *time.Time) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if from != nil {
			db = db.Where("tasks.end_time > ?", *from)
		}
		if to != nil {
			db = db.Where("tasks.start_time < ?", *to)
		}
		return db
	}
}
