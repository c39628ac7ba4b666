package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/leonardo-school/simulation-service/internal/models"
	"github.com/leonardo-school/simulation-service/internal/repositories"
	"github.com/leonardo-school/simulation-service/internal/scoring"
	"github.com/leonardo-school/simulation-service/internal/validator"
)

// SessionService runs the attempt lifecycle: start (or resume), incremental
// answer saves, and submission with scoring.
type SessionService interface {
	Start(ctx context.Context, simulationID uint, studentID string) (*models.SimulationSession, error)
	GetByID(ctx context.Context, sessionID uint, userID string, role models.UserRole) (*models.SimulationSession, error)
	SaveAnswer(ctx context.Context, sessionID uint, studentID string, req *SaveAnswerRequest) error
	Submit(ctx context.Context, sessionID uint, studentID string) (*models.SimulationResult, error)
	Abandon(ctx context.Context, sessionID uint, studentID string) error

	// CheckAccess evaluates the access window for a student without starting
	// anything. Handlers use it to light up the start button.
	CheckAccess(ctx context.Context, simulationID uint, studentID string) error
}

type SaveAnswerRequest struct {
	QuestionID uint    `json:"question_id" validate:"required"`
	AnswerID   *uint   `json:"answer_id"`
	Text       *string `json:"text"`
}

type sessionService struct {
	repo         repositories.Repository
	logger       *slog.Logger
	validator    *validator.Validator
	assignments  AssignmentService
	virtualRooms VirtualRoomService
	notifier     NotificationEventService
}

func NewSessionService(
	repo repositories.Repository,
	logger *slog.Logger,
	v *validator.Validator,
	assignments AssignmentService,
	virtualRooms VirtualRoomService,
	notifier NotificationEventService,
) SessionService {
	return &sessionService{
		repo:         repo,
		logger:       logger,
		validator:    v,
		assignments:  assignments,
		virtualRooms: virtualRooms,
		notifier:     notifier,
	}
}

// ===== START / RESUME =====

func (s *sessionService) Start(ctx context.Context, simulationID uint, studentID string) (*models.SimulationSession, error) {
	s.logger.Info("Starting session", "simulation_id", simulationID, "student_id", studentID)

	sim, err := s.repo.Simulation().GetByID(ctx, simulationID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSimulationNotFound
		}
		return nil, fmt.Errorf("failed to get simulation: %w", err)
	}

	assignmentID, err := s.checkAccess(ctx, sim, studentID)
	if err != nil {
		return nil, err
	}

	// An unfinished session always resumes, regardless of limits.
	if existing, err := s.repo.Session().GetInProgress(ctx, simulationID, studentID); err == nil {
		s.logger.Info("Resuming existing session",
			"session_id", existing.ID, "student_id", studentID)
		return existing, nil
	} else if !repositories.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to check open session: %w", err)
	}

	completed, err := s.repo.Result().CountCompleted(ctx, simulationID, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to count attempts: %w", err)
	}

	decision := scoring.CanStartAttempt(sim.IsRepeatable, completed, sim.MaxAttempts, false)
	if !decision.Allowed {
		switch decision.Reason {
		case scoring.ReasonNotRepeatable:
			return nil, ErrNotRepeatable
		default:
			return nil, ErrMaxAttemptsReached
		}
	}

	session := &models.SimulationSession{
		PublicID:     uuid.NewString(),
		SimulationID: simulationID,
		StudentID:    studentID,
		AssignmentID: assignmentID,
		Status:       models.SessionInProgress,
		StartedAt:    time.Now(),
	}
	if err := s.repo.Session().Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.logger.Info("Session started",
		"session_id", session.ID, "simulation_id", simulationID, "student_id", studentID,
		"attempt_number", completed+1)
	return session, nil
}

func (s *sessionService) GetByID(ctx context.Context, sessionID uint, userID string, role models.UserRole) (*models.SimulationSession, error) {
	session, err := s.repo.Session().GetByIDWithAnswers(ctx, sessionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	if session.StudentID != userID && !role.IsStaff() {
		return nil, NewPermissionError(userID, sessionID, "session", "view", "not the owner")
	}
	return session, nil
}

// ===== ANSWERS =====

func (s *sessionService) SaveAnswer(ctx context.Context, sessionID uint, studentID string, req *SaveAnswerRequest) error {
	if err := s.validator.Validate(req); err != nil {
		return err
	}

	session, err := s.getOwnedActive(ctx, sessionID, studentID)
	if err != nil {
		return err
	}

	if err := s.questionBelongsToSimulation(ctx, session.SimulationID, req.QuestionID); err != nil {
		return err
	}

	answer := &models.SessionAnswer{
		SessionID:  sessionID,
		QuestionID: req.QuestionID,
		AnswerID:   req.AnswerID,
		Text:       req.Text,
	}
	if err := s.repo.Session().UpsertAnswer(ctx, answer); err != nil {
		return fmt.Errorf("failed to save answer: %w", err)
	}

	s.logger.Debug("Answer saved",
		"session_id", sessionID, "question_id", req.QuestionID)
	return nil
}

// ===== SUBMIT =====

func (s *sessionService) Submit(ctx context.Context, sessionID uint, studentID string) (*models.SimulationResult, error) {
	s.logger.Info("Submitting session", "session_id", sessionID, "student_id", studentID)

	session, err := s.getOwnedActive(ctx, sessionID, studentID)
	if err != nil {
		return nil, err
	}

	sim, err := s.repo.Simulation().GetByID(ctx, session.SimulationID)
	if err != nil {
		return nil, fmt.Errorf("failed to get simulation: %w", err)
	}

	simQuestions, err := s.repo.Simulation().GetQuestions(ctx, session.SimulationID)
	if err != nil {
		return nil, fmt.Errorf("failed to get simulation questions: %w", err)
	}

	answers, err := s.repo.Session().GetAnswers(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session answers: %w", err)
	}
	answerByQuestion := make(map[uint]*models.SessionAnswer, len(answers))
	for _, a := range answers {
		answerByQuestion[a.QuestionID] = a
	}

	now := time.Now()
	result := &models.SimulationResult{
		SimulationID: session.SimulationID,
		StudentID:    studentID,
		SessionID:    sessionID,
		AssignmentID: session.AssignmentID,
		CompletedAt:  now,
	}

	for _, sq := range simQuestions {
		question, err := s.repo.Question().GetByIDWithDetails(ctx, sq.QuestionID)
		if err != nil {
			return nil, fmt.Errorf("failed to load question %d: %w", sq.QuestionID, err)
		}

		override := scoring.PointOverride{
			CustomPoints:         sq.CustomPoints,
			CustomNegativePoints: sq.CustomNegativePoints,
		}

		sub := scoring.SubmittedAnswer{}
		var answerID *uint
		var text *string
		if sa, ok := answerByQuestion[sq.QuestionID]; ok {
			sub.AnswerID = sa.AnswerID
			sub.Text = sa.Text
			answerID = sa.AnswerID
			text = sa.Text
		}

		scored := scoring.ScoreAnswer(question, sub, sim.Scoring, override)
		ra := models.ResultAnswer{
			QuestionID:   sq.QuestionID,
			AnswerID:     answerID,
			Text:         text,
			EarnedPoints: scored.EarnedPoints,
			Category:     scored.Category,
		}

		// Keyword auto-grading turns a pending open-text answer into a
		// scored one; answers without keywords stay pending for manual
		// review.
		if scored.Category == models.AnswerPending && text != nil {
			if fraction := scoring.ScoreKeywords(*text, question.Keywords); fraction != nil {
				points := scoring.EffectivePoints(question, sim.Scoring, override)
				ra.KeywordScore = fraction
				ra.EarnedPoints = *fraction * points
				if *fraction > 0 {
					ra.Category = models.AnswerCorrect
				} else {
					ra.Category = models.AnswerWrong
				}
			}
		}

		result.MaxScore += scoring.EffectivePoints(question, sim.Scoring, override)
		result.TotalScore += ra.EarnedPoints
		switch ra.Category {
		case models.AnswerCorrect:
			result.CorrectCount++
		case models.AnswerWrong:
			result.WrongCount++
		case models.AnswerBlank:
			result.BlankCount++
		case models.AnswerPending:
			result.PendingCount++
		}

		result.Answers = append(result.Answers, ra)
	}

	err = s.repo.Transaction(ctx, func(tx repositories.Repository) error {
		if err := tx.Result().Create(ctx, result); err != nil {
			return fmt.Errorf("failed to create result: %w", err)
		}

		session.Status = models.SessionSubmitted
		session.SubmittedAt = &now
		if err := tx.Session().Update(ctx, session); err != nil {
			return fmt.Errorf("failed to close session: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Session submitted",
		"session_id", sessionID, "result_id", result.ID,
		"total_score", result.TotalScore, "max_score", result.MaxScore,
		"pending_count", result.PendingCount)

	s.completeDirectAssignment(ctx, session, sim)

	if err := s.notifier.NotifySessionSubmitted(ctx, session, sim, result); err != nil {
		s.logger.Warn("Failed to send submission notification",
			"session_id", sessionID, "error", err)
	}

	return result, nil
}

func (s *sessionService) Abandon(ctx context.Context, sessionID uint, studentID string) error {
	session, err := s.getOwnedActive(ctx, sessionID, studentID)
	if err != nil {
		return err
	}

	session.Status = models.SessionAbandoned
	if err := s.repo.Session().Update(ctx, session); err != nil {
		return fmt.Errorf("failed to abandon session: %w", err)
	}

	s.logger.Info("Session abandoned", "session_id", sessionID, "student_id", studentID)
	return nil
}

// ===== ACCESS EVALUATION =====

func (s *sessionService) CheckAccess(ctx context.Context, simulationID uint, studentID string) error {
	sim, err := s.repo.Simulation().GetByID(ctx, simulationID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrSimulationNotFound
		}
		return fmt.Errorf("failed to get simulation: %w", err)
	}

	_, err = s.checkAccess(ctx, sim, studentID)
	return err
}

// checkAccess runs the auto-close sweep over the student's assignments and
// then the window evaluation. One granting assignment suffices; its id is
// returned for the session record. Creators attempt their own simulations
// against the simulation-level window without an assignment.
func (s *sessionService) checkAccess(ctx context.Context, sim *models.Simulation, studentID string) (*uint, error) {
	if sim.Status != models.SimulationPublished {
		return nil, ErrSimulationNotPublished
	}

	now := time.Now()
	roomOpen := s.virtualRooms.IsOpen(ctx, sim.ID)

	if sim.CreatedBy == studentID {
		decision := scoring.CanAccess(now, sim.StartDate, sim.EndDate, roomOpen, false)
		if !decision.Allowed {
			return nil, denialError(decision.Reason)
		}
		return nil, nil
	}

	assignments, err := s.repo.Assignment().GetForStudent(ctx, sim.ID, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get assignments: %w", err)
	}
	if len(assignments) == 0 {
		return nil, ErrNoAssignment
	}

	var lastReason scoring.DenialReason
	for _, assignment := range assignments {
		s.assignments.MaybeAutoClose(ctx, assignment)

		decision := scoring.CanAccess(
			now,
			assignment.EffectiveStartDate(),
			assignment.EffectiveEndDate(),
			roomOpen,
			assignment.Status == models.AssignmentActive,
		)
		if decision.Allowed {
			id := assignment.ID
			return &id, nil
		}
		// A not-yet-open window is the friendlier denial to surface when
		// the student holds several assignments.
		if lastReason != scoring.ReasonNotStarted {
			lastReason = decision.Reason
		}
	}

	return nil, denialError(lastReason)
}

func denialError(reason scoring.DenialReason) error {
	switch reason {
	case scoring.ReasonNotStarted:
		return ErrAccessNotStarted
	case scoring.ReasonExpired:
		return ErrAccessExpired
	case scoring.ReasonNotRepeatable:
		return ErrNotRepeatable
	case scoring.ReasonAttemptsReached:
		return ErrMaxAttemptsReached
	default:
		return ErrForbidden
	}
}

// completeDirectAssignment marks a direct (single-student) assignment as
// completed once its attempt is submitted. Group assignments stay active for
// the other members. Failures are logged only; the result already exists.
func (s *sessionService) completeDirectAssignment(ctx context.Context, session *models.SimulationSession, sim *models.Simulation) {
	if session.AssignmentID == nil || sim.IsRepeatable {
		return
	}

	assignment, err := s.repo.Assignment().GetByID(ctx, *session.AssignmentID)
	if err != nil {
		s.logger.Warn("Failed to load assignment after submit",
			"assignment_id", *session.AssignmentID, "error", err)
		return
	}
	if assignment.StudentID == nil || assignment.Status != models.AssignmentActive {
		return
	}

	if err := s.repo.Assignment().UpdateStatus(ctx, assignment.ID, models.AssignmentCompleted); err != nil {
		s.logger.Warn("Failed to mark assignment completed",
			"assignment_id", assignment.ID, "error", err)
	}
}

// ===== HELPERS =====

func (s *sessionService) getOwnedActive(ctx context.Context, sessionID uint, studentID string) (*models.SimulationSession, error) {
	session, err := s.repo.Session().GetByID(ctx, sessionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	if session.StudentID != studentID {
		return nil, NewPermissionError(studentID, sessionID, "session", "modify", "not the owner")
	}
	if session.Status == models.SessionSubmitted {
		return nil, ErrSessionAlreadySubmitted
	}
	if session.Status != models.SessionInProgress {
		return nil, ErrSessionNotActive
	}
	return session, nil
}

func (s *sessionService) questionBelongsToSimulation(ctx context.Context, simulationID, questionID uint) error {
	questions, err := s.repo.Simulation().GetQuestions(ctx, simulationID)
	if err != nil {
		return fmt.Errorf("failed to get simulation questions: %w", err)
	}
	for _, sq := range questions {
		if sq.QuestionID == questionID {
			return nil
		}
	}
	return ErrQuestionNotInSim
}
