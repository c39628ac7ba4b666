package postgres

import (
	"context"

	"github.com/leonardo-school/simulation-service/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SessionPostgreSQL struct {
	db *gorm.DB
}

func (s *SessionPostgreSQL) Create(ctx context.Context, session *models.SimulationSession) error {
	return s.db.WithContext(ctx).Create(session).Error
}

func (s *SessionPostgreSQL) GetByID(ctx context.Context, id uint) (*models.SimulationSession, error) {
	var session models.SimulationSession
	if err := s.db.WithContext(ctx).Preload("Simulation").First(&session, id).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *SessionPostgreSQL) GetByIDWithAnswers(ctx context.Context, id uint) (*models.SimulationSession, error) {
	var session models.SimulationSession
	if err := s.db.WithContext(ctx).
		Preload("Simulation").
		Preload("Answers").
		First(&session, id).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *SessionPostgreSQL) Update(ctx context.Context, session *models.SimulationSession) error {
	return s.db.WithContext(ctx).Save(session).Error
}

func (s *SessionPostgreSQL) GetInProgress(ctx context.Context, simulationID uint, studentID string) (*models.SimulationSession, error) {
	var session models.SimulationSession
	if err := s.db.WithContext(ctx).
		Where("simulation_id = ? AND student_id = ? AND status = ?",
			simulationID, studentID, models.SessionInProgress).
		Preload("Simulation").
		First(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *SessionPostgreSQL) HasInProgress(ctx context.Context, simulationID uint, studentID string) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).
		Model(&models.SimulationSession{}).
		Where("simulation_id = ? AND student_id = ? AND status = ?",
			simulationID, studentID, models.SessionInProgress).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *SessionPostgreSQL) UpsertAnswer(ctx context.Context, answer *models.SessionAnswer) error {
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "session_id"}, {Name: "question_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"answer_id", "text", "payload", "updated_at"}),
		}).
		Create(answer).Error
}

func (s *SessionPostgreSQL) GetAnswers(ctx context.Context, sessionID uint) ([]*models.SessionAnswer, error) {
	var answers []*models.SessionAnswer
	if err := s.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Find(&answers).Error; err != nil {
		return nil, err
	}
	return answers, nil
}
