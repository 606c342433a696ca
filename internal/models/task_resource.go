package models

import "time"

type TaskResource struct {
	TaskID     uint64    `gorm:"primarykey;autoIncrement:false" json:"task_id"`
	ResourceID uint64    `gorm:"primarykey;autoIncrement:false" json:"resource_id"`
	AssignedAt time.Time `gorm:"autoCreateTime;not null" json:"assigned_at"`

	// Relations
	Task     *Task     `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE" json:"-"`
	Resource *Resource `gorm:"foreignKey:ResourceID;constraint:OnDelete:CASCADE" json:"-"`
}

func (TaskResource) TableName() string {
	return "task_resource"
}
