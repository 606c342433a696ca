package models

import "time"

type Task struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	Title     string    `gorm:"type:varchar(255);not null" json:"title"`
	StartTime time.Time `gorm:"not null;index" json:"start_time"`
	EndTime   time.Time `gorm:"not null;index" json:"end_time"`
	// CreatedBy is required on insert and cleared when the creator is deleted.
	CreatedBy *uint64   `gorm:"index" json:"created_by"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`

	// Relations
	Creator *User `gorm:"foreignKey:CreatedBy;constraint:OnDelete:SET NULL" json:"creator,omitempty"`
}
