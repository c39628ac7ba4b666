package models

import (
	"time"

	"gorm.io/datatypes"
)

type NotificationType string
type NotificationPriority int

const (
	NotificationAssignmentCreated   NotificationType = "assignment_created"
	NotificationSimulationPublished NotificationType = "simulation_published"
	NotificationSessionSubmitted    NotificationType = "session_submitted"
	NotificationResultAvailable     NotificationType = "result_available"
	NotificationResultRegraded      NotificationType = "result_regraded"
	NotificationRoomOpened          NotificationType = "virtual_room_opened"

	PriorityLow      NotificationPriority = 1
	PriorityNormal   NotificationPriority = 2
	PriorityHigh     NotificationPriority = 3
	PriorityCritical NotificationPriority = 4
)

// Notification is the in-app record; delivery (email, push) belongs to the
// external consumer of the notification events.
type Notification struct {
	ID      uint             `json:"id" gorm:"primaryKey"`
	Type    NotificationType `json:"type" gorm:"not null;index"`
	Title   string           `json:"title" gorm:"not null;size:255"`
	Message string           `json:"message" gorm:"type:text"`

	RecipientID string `json:"recipient_id" gorm:"not null;size:255;index"`

	SimulationID *uint `json:"simulation_id" gorm:"index"`
	AssignmentID *uint `json:"assignment_id" gorm:"index"`

	Channels datatypes.JSON `json:"channels" gorm:"type:jsonb"` // ["email", "in_app"]
	Priority int            `json:"priority" gorm:"default:2"`

	SentAt *time.Time `json:"sent_at"`
	ReadAt *time.Time `json:"read_at"`

	CreatedAt time.Time `json:"created_at"`
	CreatedBy string    `json:"created_by" gorm:"size:255"`
}

func (Notification) TableName() string {
	return "notifications"
}
