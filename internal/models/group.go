package models

import (
	"time"

	"gorm.io/gorm"
)

type Group struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	Name        string  `json:"name" gorm:"not null;size:100;index" validate:"required,min=1,max=100"`
	Description *string `json:"description" gorm:"type:text"`

	CreatedBy string         `json:"created_by" gorm:"not null;size:255"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Members []GroupMember `json:"members" gorm:"foreignKey:GroupID"`
}

func (Group) TableName() string {
	return "groups"
}

type GroupMember struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	GroupID   uint      `json:"group_id" gorm:"not null;uniqueIndex:idx_group_member"`
	StudentID string    `json:"student_id" gorm:"not null;size:255;uniqueIndex:idx_group_member"`
	JoinedAt  time.Time `json:"joined_at"`

	Student User `json:"student" gorm:"foreignKey:StudentID"`
}

func (GroupMember) TableName() string {
	return "group_members"
}
