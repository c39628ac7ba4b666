package models

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleStudent      UserRole = "student"
	RoleCollaborator UserRole = "collaborator"
	RoleAdmin        UserRole = "admin"
)

// IsStaff reports whether the role may manage simulations and assignments.
func (r UserRole) IsStaff() bool {
	return r == RoleCollaborator || r == RoleAdmin
}

// User mirrors the identity provider's subject. The ID is the Casdoor user
// id; this service never authenticates users itself.
type User struct {
	ID       string   `json:"id" gorm:"primaryKey;size:255"`
	FullName string   `json:"full_name" gorm:"not null;size:100"`
	Email    string   `json:"email" gorm:"uniqueIndex;not null;size:255"`
	Role     UserRole `json:"role" gorm:"not null;size:20;index"`

	IsActive bool `json:"is_active" gorm:"default:true"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (User) TableName() string {
	return "users"
}
