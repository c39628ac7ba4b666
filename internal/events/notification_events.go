package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/leonardo-school/simulation-service/internal/models"
)

// EventType identifies the kind of notification event on the wire.
type EventType string

const (
	EventSimulationPublished EventType = "simulation.published"
	EventAssignmentCreated   EventType = "assignment.created"
	EventSessionSubmitted    EventType = "session.submitted"
	EventResultAvailable     EventType = "result.available"
	EventResultRegraded      EventType = "result.regraded"
	EventVirtualRoomOpened   EventType = "virtual_room.opened"
	EventBulkNotification    EventType = "notification.bulk"
)

// NotificationEvent is the envelope published to the notification topic.
// Data holds one of the typed payloads below.
type NotificationEvent struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Source    string      `json:"source"`
	Version   string      `json:"version"`
	Data      interface{} `json:"data"`
}

const (
	eventSource  = "simulation-service"
	eventVersion = "1.0"
)

// GenerateEventID returns a unique id for an event envelope.
func GenerateEventID() string {
	return uuid.NewString()
}

func newEvent(eventType EventType, data interface{}) *NotificationEvent {
	return &NotificationEvent{
		ID:        GenerateEventID(),
		Type:      eventType,
		Timestamp: time.Now(),
		Source:    eventSource,
		Version:   eventVersion,
		Data:      data,
	}
}

// ===== EVENT PAYLOADS =====

type SimulationPublishedEvent struct {
	SimulationID    uint       `json:"simulation_id"`
	SimulationTitle string     `json:"simulation_title"`
	StartDate       *time.Time `json:"start_date,omitempty"`
	EndDate         *time.Time `json:"end_date,omitempty"`
	StudentIDs      []string   `json:"student_ids"`
	PublishedBy     string     `json:"published_by"`
}

type AssignmentCreatedEvent struct {
	AssignmentIDs   []uint     `json:"assignment_ids"`
	SimulationID    uint       `json:"simulation_id"`
	SimulationTitle string     `json:"simulation_title"`
	StudentIDs      []string   `json:"student_ids"`
	StartDate       *time.Time `json:"start_date,omitempty"`
	EndDate         *time.Time `json:"end_date,omitempty"`
	AssignedBy      string     `json:"assigned_by"`
}

type SessionSubmittedEvent struct {
	SessionID       uint      `json:"session_id"`
	SimulationID    uint      `json:"simulation_id"`
	SimulationTitle string    `json:"simulation_title"`
	StudentID       string    `json:"student_id"`
	SubmittedAt     time.Time `json:"submitted_at"`
	GradingRequired bool      `json:"grading_required"`
}

type ResultAvailableEvent struct {
	ResultID        uint      `json:"result_id"`
	SimulationID    uint      `json:"simulation_id"`
	SimulationTitle string    `json:"simulation_title"`
	StudentID       string    `json:"student_id"`
	TotalScore      float64   `json:"total_score"`
	MaxScore        float64   `json:"max_score"`
	PendingCount    int       `json:"pending_count"`
	CompletedAt     time.Time `json:"completed_at"`
}

type ResultRegradedEvent struct {
	ResultID        uint      `json:"result_id"`
	SimulationID    uint      `json:"simulation_id"`
	SimulationTitle string    `json:"simulation_title"`
	StudentID       string    `json:"student_id"`
	QuestionID      uint      `json:"question_id"`
	NewScore        float64   `json:"new_score"`
	TotalScore      float64   `json:"total_score"`
	GradedBy        string    `json:"graded_by"`
	GradedAt        time.Time `json:"graded_at"`
}

type VirtualRoomOpenedEvent struct {
	RoomID          uint      `json:"room_id"`
	SimulationID    uint      `json:"simulation_id"`
	SimulationTitle string    `json:"simulation_title"`
	StudentIDs      []string  `json:"student_ids"`
	OpenedBy        string    `json:"opened_by"`
	OpenedAt        time.Time `json:"opened_at"`
}

type BulkNotificationEvent struct {
	RecipientIDs []string                    `json:"recipient_ids"`
	Type         models.NotificationType     `json:"notification_type"`
	Title        string                      `json:"title"`
	Message      string                      `json:"message"`
	Priority     models.NotificationPriority `json:"priority"`
	ActionURL    *string                     `json:"action_url,omitempty"`
	Metadata     map[string]interface{}      `json:"metadata,omitempty"`
	SenderID     string                      `json:"sender_id"`
}

// ===== CONSTRUCTORS =====

func NewSimulationPublishedEvent(simulationID uint, title string, startDate, endDate *time.Time, studentIDs []string, publishedBy string) *NotificationEvent {
	return newEvent(EventSimulationPublished, SimulationPublishedEvent{
		SimulationID:    simulationID,
		SimulationTitle: title,
		StartDate:       startDate,
		EndDate:         endDate,
		StudentIDs:      studentIDs,
		PublishedBy:     publishedBy,
	})
}

func NewAssignmentCreatedEvent(assignmentIDs []uint, simulationID uint, title string, studentIDs []string, startDate, endDate *time.Time, assignedBy string) *NotificationEvent {
	return newEvent(EventAssignmentCreated, AssignmentCreatedEvent{
		AssignmentIDs:   assignmentIDs,
		SimulationID:    simulationID,
		SimulationTitle: title,
		StudentIDs:      studentIDs,
		StartDate:       startDate,
		EndDate:         endDate,
		AssignedBy:      assignedBy,
	})
}

func NewSessionSubmittedEvent(sessionID, simulationID uint, title, studentID string, submittedAt time.Time, gradingRequired bool) *NotificationEvent {
	return newEvent(EventSessionSubmitted, SessionSubmittedEvent{
		SessionID:       sessionID,
		SimulationID:    simulationID,
		SimulationTitle: title,
		StudentID:       studentID,
		SubmittedAt:     submittedAt,
		GradingRequired: gradingRequired,
	})
}

func NewResultAvailableEvent(result *models.SimulationResult, title string) *NotificationEvent {
	return newEvent(EventResultAvailable, ResultAvailableEvent{
		ResultID:        result.ID,
		SimulationID:    result.SimulationID,
		SimulationTitle: title,
		StudentID:       result.StudentID,
		TotalScore:      result.TotalScore,
		MaxScore:        result.MaxScore,
		PendingCount:    result.PendingCount,
		CompletedAt:     result.CompletedAt,
	})
}

func NewResultRegradedEvent(result *models.SimulationResult, title string, questionID uint, newScore float64, gradedBy string) *NotificationEvent {
	return newEvent(EventResultRegraded, ResultRegradedEvent{
		ResultID:        result.ID,
		SimulationID:    result.SimulationID,
		SimulationTitle: title,
		StudentID:       result.StudentID,
		QuestionID:      questionID,
		NewScore:        newScore,
		TotalScore:      result.TotalScore,
		GradedBy:        gradedBy,
		GradedAt:        time.Now(),
	})
}

func NewVirtualRoomOpenedEvent(room *models.VirtualRoom, title string, studentIDs []string) *NotificationEvent {
	return newEvent(EventVirtualRoomOpened, VirtualRoomOpenedEvent{
		RoomID:          room.ID,
		SimulationID:    room.SimulationID,
		SimulationTitle: title,
		StudentIDs:      studentIDs,
		OpenedBy:        room.OpenedBy,
		OpenedAt:        room.OpenedAt,
	})
}

func NewBulkNotificationEvent(recipientIDs []string, notificationType models.NotificationType, title, message string, priority models.NotificationPriority, actionURL *string, metadata map[string]interface{}, senderID string) *NotificationEvent {
	return newEvent(EventBulkNotification, BulkNotificationEvent{
		RecipientIDs: recipientIDs,
		Type:         notificationType,
		Title:        title,
		Message:      message,
		Priority:     priority,
		ActionURL:    actionURL,
		Metadata:     metadata,
		SenderID:     senderID,
	})
}
