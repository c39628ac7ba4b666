package models

import (
	"time"

	"gorm.io/gorm"
)

// VirtualRoom is a staff-controlled override that opens a simulation before
// its scheduled start date. An open room bypasses the start-date gate only;
// the end-date gate is unaffected.
type VirtualRoom struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	SimulationID uint   `json:"simulation_id" gorm:"not null;index"`
	OpenedBy     string `json:"opened_by" gorm:"not null;size:255"`

	OpenedAt time.Time  `json:"opened_at"`
	ClosedAt *time.Time `json:"closed_at"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Simulation Simulation `json:"simulation" gorm:"foreignKey:SimulationID"`
}

func (VirtualRoom) TableName() string {
	return "virtual_rooms"
}

// IsOpen reports whether the room is currently open.
func (r *VirtualRoom) IsOpen() bool {
	return r.ClosedAt == nil
}
