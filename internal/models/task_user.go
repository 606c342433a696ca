package models

import "time"

type TaskUser struct {
	TaskID     uint64    `gorm:"primarykey;autoIncrement:false" json:"task_id"`
	UserID     uint64    `gorm:"primarykey;autoIncrement:false" json:"user_id"`
	AssignedAt time.Time `gorm:"autoCreateTime;not null" json:"assigned_at"`

	// Relations
	Task *Task `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE" json:"-"`
	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (TaskUser) TableName() string {
	return "task_user"
}
