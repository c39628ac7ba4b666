package models

import (
	"time"
)

type AnswerCategory string

const (
	AnswerCorrect AnswerCategory = "correct"
	AnswerWrong   AnswerCategory = "wrong"
	AnswerBlank   AnswerCategory = "blank"
	AnswerPending AnswerCategory = "pending"
)

// SimulationResult is one completed attempt. Rows are immutable after
// creation except for manual re-grading of open-text answers.
type SimulationResult struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	SimulationID uint   `json:"simulation_id" gorm:"not null;index"`
	StudentID    string `json:"student_id" gorm:"not null;size:255;index"`
	SessionID    uint   `json:"session_id" gorm:"not null;uniqueIndex"`
	AssignmentID *uint  `json:"assignment_id" gorm:"index"`

	TotalScore   float64 `json:"total_score"`
	MaxScore     float64 `json:"max_score"`
	CorrectCount int     `json:"correct_count"`
	WrongCount   int     `json:"wrong_count"`
	BlankCount   int     `json:"blank_count"`
	PendingCount int     `json:"pending_count"`

	CompletedAt time.Time `json:"completed_at"`
	CreatedAt   time.Time `json:"created_at"`

	// Relations
	Simulation Simulation     `json:"simulation" gorm:"foreignKey:SimulationID"`
	Student    User           `json:"student" gorm:"foreignKey:StudentID"`
	Answers    []ResultAnswer `json:"answers" gorm:"foreignKey:ResultID"`
}

func (SimulationResult) TableName() string {
	return "simulation_results"
}

// ResultAnswer is the scored outcome for one question of a result.
type ResultAnswer struct {
	ID         uint `json:"id" gorm:"primaryKey"`
	ResultID   uint `json:"result_id" gorm:"not null;uniqueIndex:idx_result_question"`
	QuestionID uint `json:"question_id" gorm:"not null;uniqueIndex:idx_result_question"`

	AnswerID *uint   `json:"answer_id"`
	Text     *string `json:"text" gorm:"type:text"`

	EarnedPoints float64        `json:"earned_points"`
	Category     AnswerCategory `json:"category" gorm:"not null;size:10"`

	// Keyword auto-grading outcome for open text; nil when not auto-gradable.
	KeywordScore *float64 `json:"keyword_score"`

	// Manual re-grading trail (open text only).
	GradedBy *string    `json:"graded_by" gorm:"size:255"`
	GradedAt *time.Time `json:"graded_at"`
	Feedback *string    `json:"feedback" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ResultAnswer) TableName() string {
	return "result_answers"
}
