package models

import (
	"time"

	"gorm.io/gorm"
)

type SimulationType string

const (
	SimulationOfficial  SimulationType = "OFFICIAL"
	SimulationQuickQuiz SimulationType = "QUICK_QUIZ"
	SimulationPersonal  SimulationType = "PERSONAL"
)

type SimulationStatus string

const (
	SimulationDraft     SimulationStatus = "DRAFT"
	SimulationPublished SimulationStatus = "PUBLISHED"
	SimulationArchived  SimulationStatus = "ARCHIVED"
)

type SimulationVisibility string

const (
	VisibilityPrivate SimulationVisibility = "PRIVATE"
	VisibilityGroup   SimulationVisibility = "GROUP"
	VisibilityPublic  SimulationVisibility = "PUBLIC"
)

// ScoringConfig holds the simulation-level defaults used when a question (or
// its per-simulation override) does not carry its own point values.
type ScoringConfig struct {
	CorrectPoints     float64 `json:"correct_points" gorm:"default:1"`
	WrongPoints       float64 `json:"wrong_points" gorm:"default:0"`
	BlankPoints       float64 `json:"blank_points" gorm:"default:0"`
	UseQuestionPoints bool    `json:"use_question_points" gorm:"default:false"`
}

type Simulation struct {
	ID          uint                 `json:"id" gorm:"primaryKey"`
	Title       string               `json:"title" gorm:"not null;size:200;index" validate:"required,min=1,max=200"`
	Description *string              `json:"description" gorm:"type:text" validate:"omitempty,max=2000"`
	Type        SimulationType       `json:"type" gorm:"not null;index" validate:"required,simulation_type"`
	Status      SimulationStatus     `json:"status" gorm:"default:DRAFT;index" validate:"omitempty,oneof=DRAFT PUBLISHED ARCHIVED"`
	Visibility  SimulationVisibility `json:"visibility" gorm:"default:PRIVATE" validate:"omitempty,oneof=PRIVATE GROUP PUBLIC"`

	// Attempt policy
	IsRepeatable bool `json:"is_repeatable" gorm:"default:false"`
	MaxAttempts  *int `json:"max_attempts" validate:"omitempty,min=1"` // nil = unlimited

	// Default access window; assignments may override either side.
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`

	Scoring ScoringConfig `json:"scoring" gorm:"embedded;embeddedPrefix:scoring_"`

	CreatedBy string         `json:"created_by" gorm:"not null;size:255;index"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Questions   []SimulationQuestion   `json:"questions" gorm:"foreignKey:SimulationID"`
	Assignments []SimulationAssignment `json:"assignments" gorm:"foreignKey:SimulationID"`
	Creator     User                   `json:"creator" gorm:"foreignKey:CreatedBy"`

	// Computed fields (not stored)
	QuestionsCount int     `json:"questions_count" gorm:"-"`
	ResultsCount   int     `json:"results_count" gorm:"-"`
	MaxScore       float64 `json:"max_score" gorm:"-"`
}

func (Simulation) TableName() string {
	return "simulations"
}

// SimulationQuestion links a question into a simulation with its position and
// optional per-simulation point overrides.
type SimulationQuestion struct {
	ID           uint `json:"id" gorm:"primaryKey"`
	SimulationID uint `json:"simulation_id" gorm:"not null;uniqueIndex:idx_sim_question"`
	QuestionID   uint `json:"question_id" gorm:"not null;uniqueIndex:idx_sim_question"`
	Order        int  `json:"order" gorm:"not null;default:0"`

	// Override the question's default points for this simulation only.
	CustomPoints         *float64 `json:"custom_points"`
	CustomNegativePoints *float64 `json:"custom_negative_points"`

	CreatedAt time.Time `json:"created_at"`

	Simulation Simulation `json:"-" gorm:"foreignKey:SimulationID"`
	Question   Question   `json:"question" gorm:"foreignKey:QuestionID"`
}

func (SimulationQuestion) TableName() string {
	return "simulation_questions"
}
