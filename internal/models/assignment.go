package models

import (
	"time"

	"gorm.io/gorm"
)

type AssignmentStatus string

const (
	AssignmentActive    AssignmentStatus = "ACTIVE"
	AssignmentClosed    AssignmentStatus = "CLOSED"
	AssignmentCompleted AssignmentStatus = "COMPLETED"
)

// SimulationAssignment grants a student (directly or through a group) the
// right to attempt a simulation, with an optional window override on either
// side of the simulation's default dates.
type SimulationAssignment struct {
	ID           uint `json:"id" gorm:"primaryKey"`
	SimulationID uint `json:"simulation_id" gorm:"not null;index"`

	// Exactly one of StudentID / GroupID is set.
	StudentID *string `json:"student_id" gorm:"size:255;index"`
	GroupID   *uint   `json:"group_id" gorm:"index"`

	Status AssignmentStatus `json:"status" gorm:"default:ACTIVE;index" validate:"omitempty,oneof=ACTIVE CLOSED COMPLETED"`

	// Window overrides; nil falls back to the simulation dates.
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`

	// Staff may pin an assignment open past its end date.
	KeepActive bool `json:"keep_active" gorm:"default:false"`

	AssignedBy string         `json:"assigned_by" gorm:"not null;size:255"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Simulation Simulation `json:"simulation" gorm:"foreignKey:SimulationID"`
	Student    *User      `json:"student" gorm:"foreignKey:StudentID"`
	Group      *Group     `json:"group" gorm:"foreignKey:GroupID"`
}

func (SimulationAssignment) TableName() string {
	return "simulation_assignments"
}

// EffectiveStartDate returns the assignment override if present, otherwise
// the simulation default.
func (a *SimulationAssignment) EffectiveStartDate() *time.Time {
	if a.StartDate != nil {
		return a.StartDate
	}
	return a.Simulation.StartDate
}

// EffectiveEndDate returns the assignment override if present, otherwise the
// simulation default.
func (a *SimulationAssignment) EffectiveEndDate() *time.Time {
	if a.EndDate != nil {
		return a.EndDate
	}
	return a.Simulation.EndDate
}
