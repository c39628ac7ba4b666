package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/leonardo-school/simulation-service/internal/events"
	"github.com/leonardo-school/simulation-service/internal/models"
	"github.com/leonardo-school/simulation-service/internal/repositories"
)

// NotificationEventService fans domain happenings out to the notification
// topic and mirrors them as in-app notification rows. Delivery channels
// (email, push) are downstream consumers of the events.
type NotificationEventService interface {
	NotifySimulationPublished(ctx context.Context, simulationID uint, publishedBy string) error
	NotifyAssignmentCreated(ctx context.Context, assignmentIDs []uint, sim *models.Simulation, studentIDs []string, startDate, endDate *time.Time, assignedBy string) error
	NotifySessionSubmitted(ctx context.Context, session *models.SimulationSession, sim *models.Simulation, result *models.SimulationResult) error
	NotifyResultRegraded(ctx context.Context, result *models.SimulationResult, questionID uint, newScore float64, gradedBy string) error
	NotifyVirtualRoomOpened(ctx context.Context, room *models.VirtualRoom, sim *models.Simulation) error

	SendBulkNotification(ctx context.Context, recipientIDs []string, req *NotificationRequest, senderID string) error
}

type NotificationRequest struct {
	Type      models.NotificationType     `json:"type"`
	Title     string                      `json:"title"`
	Message   string                      `json:"message"`
	Priority  models.NotificationPriority `json:"priority"`
	ActionURL *string                     `json:"action_url,omitempty"`
	Metadata  map[string]interface{}      `json:"metadata,omitempty"`
}

type notificationEventService struct {
	repo           repositories.Repository
	eventPublisher events.EventPublisher
	logger         *slog.Logger
}

func NewNotificationEventService(
	repo repositories.Repository,
	eventPublisher events.EventPublisher,
	logger *slog.Logger,
) NotificationEventService {
	return &notificationEventService{
		repo:           repo,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

// ===== SIMULATION NOTIFICATIONS =====

func (s *notificationEventService) NotifySimulationPublished(ctx context.Context, simulationID uint, publishedBy string) error {
	s.logger.Info("Publishing simulation published event", "simulation_id", simulationID)

	sim, err := s.repo.Simulation().GetByID(ctx, simulationID)
	if err != nil {
		return fmt.Errorf("failed to get simulation: %w", err)
	}

	studentIDs, err := s.assignedStudentIDs(ctx, simulationID)
	if err != nil {
		s.logger.Warn("Failed to resolve assigned students",
			"simulation_id", simulationID, "error", err)
		studentIDs = nil
	}

	event := events.NewSimulationPublishedEvent(
		simulationID, sim.Title, sim.StartDate, sim.EndDate, studentIDs, publishedBy)

	s.persistNotifications(ctx, studentIDs, &models.Notification{
		Type:         models.NotificationSimulationPublished,
		Title:        "Simulation available",
		Message:      fmt.Sprintf("The simulation %q has been published.", sim.Title),
		SimulationID: &simulationID,
		Priority:     int(models.PriorityNormal),
		CreatedBy:    publishedBy,
	})

	return s.eventPublisher.PublishNotificationEvent(ctx, event)
}

// ===== ASSIGNMENT NOTIFICATIONS =====

func (s *notificationEventService) NotifyAssignmentCreated(ctx context.Context, assignmentIDs []uint, sim *models.Simulation, studentIDs []string, startDate, endDate *time.Time, assignedBy string) error {
	s.logger.Info("Publishing assignment created event",
		"simulation_id", sim.ID, "student_count", len(studentIDs))

	event := events.NewAssignmentCreatedEvent(
		assignmentIDs, sim.ID, sim.Title, studentIDs, startDate, endDate, assignedBy)

	simID := sim.ID
	s.persistNotifications(ctx, studentIDs, &models.Notification{
		Type:         models.NotificationAssignmentCreated,
		Title:        "New simulation assigned",
		Message:      fmt.Sprintf("You have been assigned the simulation %q.", sim.Title),
		SimulationID: &simID,
		Priority:     int(models.PriorityHigh),
		CreatedBy:    assignedBy,
	})

	return s.eventPublisher.PublishNotificationEvent(ctx, event)
}

// ===== SESSION / RESULT NOTIFICATIONS =====

func (s *notificationEventService) NotifySessionSubmitted(ctx context.Context, session *models.SimulationSession, sim *models.Simulation, result *models.SimulationResult) error {
	s.logger.Info("Publishing session submitted event",
		"session_id", session.ID, "result_id", result.ID)

	submittedAt := result.CompletedAt
	gradingRequired := result.PendingCount > 0

	submitted := events.NewSessionSubmittedEvent(
		session.ID, sim.ID, sim.Title, session.StudentID, submittedAt, gradingRequired)
	if err := s.eventPublisher.PublishNotificationEvent(ctx, submitted); err != nil {
		return err
	}

	simID := sim.ID
	s.persistNotifications(ctx, []string{session.StudentID}, &models.Notification{
		Type:         models.NotificationResultAvailable,
		Title:        "Result available",
		Message:      fmt.Sprintf("Your result for %q is ready: %.1f/%.1f points.", sim.Title, result.TotalScore, result.MaxScore),
		SimulationID: &simID,
		Priority:     int(models.PriorityNormal),
	})

	available := events.NewResultAvailableEvent(result, sim.Title)
	return s.eventPublisher.PublishNotificationEvent(ctx, available)
}

func (s *notificationEventService) NotifyResultRegraded(ctx context.Context, result *models.SimulationResult, questionID uint, newScore float64, gradedBy string) error {
	s.logger.Info("Publishing result regraded event",
		"result_id", result.ID, "question_id", questionID)

	sim, err := s.repo.Simulation().GetByID(ctx, result.SimulationID)
	if err != nil {
		return fmt.Errorf("failed to get simulation: %w", err)
	}

	event := events.NewResultRegradedEvent(result, sim.Title, questionID, newScore, gradedBy)

	simID := sim.ID
	s.persistNotifications(ctx, []string{result.StudentID}, &models.Notification{
		Type:         models.NotificationResultRegraded,
		Title:        "Result updated",
		Message:      fmt.Sprintf("An answer in your result for %q was re-graded. New total: %.1f points.", sim.Title, result.TotalScore),
		SimulationID: &simID,
		Priority:     int(models.PriorityNormal),
		CreatedBy:    gradedBy,
	})

	return s.eventPublisher.PublishNotificationEvent(ctx, event)
}

// ===== VIRTUAL ROOM NOTIFICATIONS =====

func (s *notificationEventService) NotifyVirtualRoomOpened(ctx context.Context, room *models.VirtualRoom, sim *models.Simulation) error {
	s.logger.Info("Publishing virtual room opened event",
		"room_id", room.ID, "simulation_id", sim.ID)

	studentIDs, err := s.assignedStudentIDs(ctx, sim.ID)
	if err != nil {
		s.logger.Warn("Failed to resolve assigned students",
			"simulation_id", sim.ID, "error", err)
		studentIDs = nil
	}

	event := events.NewVirtualRoomOpenedEvent(room, sim.Title, studentIDs)

	simID := sim.ID
	s.persistNotifications(ctx, studentIDs, &models.Notification{
		Type:         models.NotificationRoomOpened,
		Title:        "Simulation opened early",
		Message:      fmt.Sprintf("The simulation %q is open now, ahead of schedule.", sim.Title),
		SimulationID: &simID,
		Priority:     int(models.PriorityHigh),
		CreatedBy:    room.OpenedBy,
	})

	return s.eventPublisher.PublishNotificationEvent(ctx, event)
}

// ===== SYSTEM NOTIFICATIONS =====

func (s *notificationEventService) SendBulkNotification(ctx context.Context, recipientIDs []string, req *NotificationRequest, senderID string) error {
	s.logger.Info("Publishing bulk notification event",
		"recipient_count", len(recipientIDs), "notification_type", req.Type)

	event := events.NewBulkNotificationEvent(
		recipientIDs, req.Type, req.Title, req.Message, req.Priority,
		req.ActionURL, req.Metadata, senderID)

	s.persistNotifications(ctx, recipientIDs, &models.Notification{
		Type:      req.Type,
		Title:     req.Title,
		Message:   req.Message,
		Priority:  int(req.Priority),
		CreatedBy: senderID,
	})

	return s.eventPublisher.PublishNotificationEvent(ctx, event)
}

// ===== HELPERS =====

// assignedStudentIDs resolves every student currently covered by an active
// assignment of the simulation, expanding group assignments.
func (s *notificationEventService) assignedStudentIDs(ctx context.Context, simulationID uint) ([]string, error) {
	assignments, _, err := s.repo.Assignment().GetBySimulation(ctx, simulationID, repositories.AssignmentFilters{})
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var ids []string
	add := func(id string) {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}

	for _, assignment := range assignments {
		if assignment.Status != models.AssignmentActive {
			continue
		}
		if assignment.StudentID != nil {
			add(*assignment.StudentID)
			continue
		}
		if assignment.GroupID != nil {
			memberIDs, err := s.repo.Group().GetMemberIDs(ctx, *assignment.GroupID)
			if err != nil {
				return nil, err
			}
			for _, id := range memberIDs {
				add(id)
			}
		}
	}
	return ids, nil
}

// persistNotifications mirrors an event as in-app rows, one per recipient.
// Failures are logged; the event on the topic remains the source of truth.
func (s *notificationEventService) persistNotifications(ctx context.Context, recipientIDs []string, template *models.Notification) {
	if len(recipientIDs) == 0 {
		return
	}

	rows := make([]*models.Notification, 0, len(recipientIDs))
	for _, recipientID := range recipientIDs {
		row := *template
		row.RecipientID = recipientID
		rows = append(rows, &row)
	}

	if err := s.repo.Notification().CreateBatch(ctx, rows); err != nil {
		s.logger.Warn("Failed to persist in-app notifications",
			"type", template.Type, "count", len(rows), "error", err)
	}
}
