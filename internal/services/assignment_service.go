package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/leonardo-school/simulation-service/internal/models"
	"github.com/leonardo-school/simulation-service/internal/repositories"
	"github.com/leonardo-school/simulation-service/internal/validator"
)

// AssignmentService manages who may attempt which simulation and when. It
// also owns the lazy auto-close sweep that expires assignments on read.
type AssignmentService interface {
	Create(ctx context.Context, req *CreateAssignmentRequest, userID string, role models.UserRole) ([]*models.SimulationAssignment, error)
	GetByID(ctx context.Context, id uint, userID string, role models.UserRole) (*models.SimulationAssignment, error)
	Update(ctx context.Context, id uint, req *UpdateAssignmentRequest, userID string, role models.UserRole) (*models.SimulationAssignment, error)
	Delete(ctx context.Context, id uint, userID string, role models.UserRole) error
	Close(ctx context.Context, id uint, userID string, role models.UserRole) error

	ListBySimulation(ctx context.Context, simulationID uint, filters repositories.AssignmentFilters, userID string, role models.UserRole) ([]*models.SimulationAssignment, int64, error)
	ListForStudent(ctx context.Context, studentID string, filters repositories.AssignmentFilters) ([]*models.SimulationAssignment, int64, error)

	// MaybeAutoClose expires an overdue assignment in place. It reports
	// whether a close was performed; persistence failures are logged and
	// swallowed so reads never fail because of the sweep, and the
	// assignment then keeps its pre-sweep status.
	MaybeAutoClose(ctx context.Context, assignment *models.SimulationAssignment) bool
}

// ===== REQUEST STRUCTURES =====

// CreateAssignmentRequest targets one student, a list of students, or a
// group. Group targeting fans out into one assignment per current member.
type CreateAssignmentRequest struct {
	SimulationID uint       `json:"simulation_id" validate:"required"`
	StudentID    *string    `json:"student_id"`
	StudentIDs   []string   `json:"student_ids"`
	GroupID      *uint      `json:"group_id"`
	StartDate    *time.Time `json:"start_date"`
	EndDate      *time.Time `json:"end_date"`
	KeepActive   bool       `json:"keep_active"`
}

type UpdateAssignmentRequest struct {
	StartDate  *time.Time `json:"start_date"`
	EndDate    *time.Time `json:"end_date"`
	KeepActive *bool      `json:"keep_active"`
}

type assignmentService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	notifier  NotificationEventService
}

func NewAssignmentService(repo repositories.Repository, logger *slog.Logger, v *validator.Validator, notifier NotificationEventService) AssignmentService {
	return &assignmentService{
		repo:      repo,
		logger:    logger,
		validator: v,
		notifier:  notifier,
	}
}

// ===== CORE OPERATIONS =====

func (s *assignmentService) Create(ctx context.Context, req *CreateAssignmentRequest, userID string, role models.UserRole) ([]*models.SimulationAssignment, error) {
	s.logger.Info("Creating assignment",
		"simulation_id", req.SimulationID, "user_id", userID, "group_id", req.GroupID)

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if !role.IsStaff() {
		return nil, NewPermissionError(userID, req.SimulationID, "assignment", "create", "staff only")
	}

	targets := 0
	if req.StudentID != nil {
		targets++
	}
	if len(req.StudentIDs) > 0 {
		targets++
	}
	if req.GroupID != nil {
		targets++
	}
	if targets != 1 {
		return nil, ErrAssignmentInvalidTarget
	}

	if req.StartDate != nil && req.EndDate != nil && req.EndDate.Before(*req.StartDate) {
		return nil, NewValidationError("end_date", "must not precede start_date", req.EndDate)
	}

	sim, err := s.repo.Simulation().GetByID(ctx, req.SimulationID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSimulationNotFound
		}
		return nil, fmt.Errorf("failed to get simulation: %w", err)
	}
	if sim.Status != models.SimulationPublished {
		return nil, ErrSimulationNotPublished
	}

	var assignments []*models.SimulationAssignment
	var studentIDs []string

	switch {
	case req.StudentID != nil:
		assignments = append(assignments, s.buildAssignment(req, req.StudentID, nil, userID))
		studentIDs = []string{*req.StudentID}

	case len(req.StudentIDs) > 0:
		for i := range req.StudentIDs {
			assignments = append(assignments, s.buildAssignment(req, &req.StudentIDs[i], nil, userID))
		}
		studentIDs = req.StudentIDs

	case req.GroupID != nil:
		memberIDs, err := s.repo.Group().GetMemberIDs(ctx, *req.GroupID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve group members: %w", err)
		}
		// The group assignment row itself grants access to future members;
		// the fan-out below is only for notifying current ones.
		assignments = append(assignments, s.buildAssignment(req, nil, req.GroupID, userID))
		studentIDs = memberIDs
	}

	if err := s.repo.Assignment().CreateBatch(ctx, assignments); err != nil {
		return nil, fmt.Errorf("failed to create assignments: %w", err)
	}

	ids := make([]uint, len(assignments))
	for i, a := range assignments {
		ids[i] = a.ID
	}

	if err := s.notifier.NotifyAssignmentCreated(ctx, ids, sim, studentIDs, req.StartDate, req.EndDate, userID); err != nil {
		s.logger.Warn("Failed to send assignment notification",
			"simulation_id", req.SimulationID, "error", err)
	}

	s.logger.Info("Assignments created",
		"simulation_id", req.SimulationID, "count", len(assignments), "user_id", userID)
	return assignments, nil
}

func (s *assignmentService) buildAssignment(req *CreateAssignmentRequest, studentID *string, groupID *uint, userID string) *models.SimulationAssignment {
	return &models.SimulationAssignment{
		SimulationID: req.SimulationID,
		StudentID:    studentID,
		GroupID:      groupID,
		Status:       models.AssignmentActive,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		KeepActive:   req.KeepActive,
		AssignedBy:   userID,
	}
}

func (s *assignmentService) GetByID(ctx context.Context, id uint, userID string, role models.UserRole) (*models.SimulationAssignment, error) {
	assignment, err := s.repo.Assignment().GetByIDWithSimulation(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAssignmentNotFound
		}
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}

	if !role.IsStaff() && !s.belongsToStudent(ctx, assignment, userID) {
		return nil, NewPermissionError(userID, id, "assignment", "view", "not the assignee")
	}

	s.MaybeAutoClose(ctx, assignment)
	return assignment, nil
}

func (s *assignmentService) Update(ctx context.Context, id uint, req *UpdateAssignmentRequest, userID string, role models.UserRole) (*models.SimulationAssignment, error) {
	if !role.IsStaff() {
		return nil, NewPermissionError(userID, id, "assignment", "update", "staff only")
	}

	assignment, err := s.repo.Assignment().GetByIDWithSimulation(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAssignmentNotFound
		}
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}

	if req.StartDate != nil {
		assignment.StartDate = req.StartDate
	}
	if req.EndDate != nil {
		assignment.EndDate = req.EndDate
	}
	if req.KeepActive != nil {
		assignment.KeepActive = *req.KeepActive
		// Re-pinning an expired assignment reopens it.
		if *req.KeepActive && assignment.Status == models.AssignmentClosed {
			assignment.Status = models.AssignmentActive
		}
	}

	if err := s.repo.Assignment().Update(ctx, assignment); err != nil {
		return nil, fmt.Errorf("failed to update assignment: %w", err)
	}

	s.logger.Info("Assignment updated", "assignment_id", id, "user_id", userID)
	return assignment, nil
}

func (s *assignmentService) Delete(ctx context.Context, id uint, userID string, role models.UserRole) error {
	if !role.IsStaff() {
		return NewPermissionError(userID, id, "assignment", "delete", "staff only")
	}

	if _, err := s.repo.Assignment().GetByID(ctx, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrAssignmentNotFound
		}
		return fmt.Errorf("failed to get assignment: %w", err)
	}

	if err := s.repo.Assignment().Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete assignment: %w", err)
	}

	s.logger.Info("Assignment deleted", "assignment_id", id, "user_id", userID)
	return nil
}

func (s *assignmentService) Close(ctx context.Context, id uint, userID string, role models.UserRole) error {
	if !role.IsStaff() {
		return NewPermissionError(userID, id, "assignment", "close", "staff only")
	}

	if _, err := s.repo.Assignment().GetByID(ctx, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrAssignmentNotFound
		}
		return fmt.Errorf("failed to get assignment: %w", err)
	}

	if err := s.repo.Assignment().UpdateStatus(ctx, id, models.AssignmentClosed); err != nil {
		return fmt.Errorf("failed to close assignment: %w", err)
	}

	s.logger.Info("Assignment closed", "assignment_id", id, "user_id", userID)
	return nil
}

// ===== LISTING =====

func (s *assignmentService) ListBySimulation(ctx context.Context, simulationID uint, filters repositories.AssignmentFilters, userID string, role models.UserRole) ([]*models.SimulationAssignment, int64, error) {
	if !role.IsStaff() {
		return nil, 0, NewPermissionError(userID, simulationID, "assignment", "list", "staff only")
	}

	assignments, total, err := s.repo.Assignment().GetBySimulation(ctx, simulationID, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list assignments: %w", err)
	}

	for _, a := range assignments {
		s.MaybeAutoClose(ctx, a)
	}
	return assignments, total, nil
}

func (s *assignmentService) ListForStudent(ctx context.Context, studentID string, filters repositories.AssignmentFilters) ([]*models.SimulationAssignment, int64, error) {
	filters.StudentID = &studentID

	assignments, total, err := s.repo.Assignment().List(ctx, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list student assignments: %w", err)
	}

	for _, a := range assignments {
		s.MaybeAutoClose(ctx, a)
	}
	return assignments, total, nil
}

// ===== AUTO-CLOSE SWEEP =====

// MaybeAutoClose closes an assignment whose effective end date has passed,
// unless staff pinned it open. Returns true only when an assignment was
// actually closed; a failed write is swallowed and logged, the assignment
// keeps its pre-sweep status and the next read repeats the sweep.
func (s *assignmentService) MaybeAutoClose(ctx context.Context, assignment *models.SimulationAssignment) bool {
	if assignment.Status != models.AssignmentActive {
		return false
	}
	if assignment.KeepActive {
		return false
	}

	end := assignment.EffectiveEndDate()
	if end == nil || !end.Before(time.Now()) {
		return false
	}

	if err := s.repo.Assignment().UpdateStatus(ctx, assignment.ID, models.AssignmentClosed); err != nil {
		s.logger.Warn("Failed to persist assignment auto-close",
			"assignment_id", assignment.ID, "error", err)
		return false
	}

	assignment.Status = models.AssignmentClosed
	s.logger.Info("Assignment auto-closed",
		"assignment_id", assignment.ID, "end_date", end)
	return true
}

// belongsToStudent reports whether an assignment targets the student either
// directly or through group membership.
func (s *assignmentService) belongsToStudent(ctx context.Context, assignment *models.SimulationAssignment, studentID string) bool {
	if assignment.StudentID != nil {
		return *assignment.StudentID == studentID
	}
	if assignment.GroupID == nil {
		return false
	}

	memberIDs, err := s.repo.Group().GetMemberIDs(ctx, *assignment.GroupID)
	if err != nil {
		s.logger.Warn("Failed to resolve group members for permission check",
			"group_id", *assignment.GroupID, "error", err)
		return false
	}
	for _, id := range memberIDs {
		if id == studentID {
			return true
		}
	}
	return false
}
