package models

import "time"

type Resource struct {
	ID        uint64       `gorm:"primarykey" json:"id"`
	Name      string       `gorm:"type:varchar(255);not null;index" json:"name"`
	Type      ResourceType `gorm:"type:varchar(20);not null" json:"type"`
	IsActive  bool         `gorm:"not null" json:"is_active"`
	CreatedAt time.Time    `gorm:"not null" json:"created_at"`
}
