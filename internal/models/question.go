package models

import (
	"time"

	"gorm.io/gorm"
)

type QuestionType string

const (
	SingleChoice   QuestionType = "SINGLE_CHOICE"
	MultipleChoice QuestionType = "MULTIPLE_CHOICE"
	TrueFalse      QuestionType = "TRUE_FALSE"
	OpenText       QuestionType = "OPEN_TEXT"
)

// IsChoice reports whether the question is answered by selecting an option.
func (t QuestionType) IsChoice() bool {
	return t == SingleChoice || t == MultipleChoice || t == TrueFalse
}

type Question struct {
	ID   uint         `json:"id" gorm:"primaryKey"`
	Text string       `json:"text" gorm:"type:text;not null" validate:"required"`
	Type QuestionType `json:"type" gorm:"not null;index" validate:"required,question_type"`

	// Default point values; a SimulationQuestion row may override them and the
	// simulation scoring config may ignore them entirely.
	Points         float64 `json:"points" gorm:"default:1"`
	NegativePoints float64 `json:"negative_points" gorm:"default:0"` // typically <= 0

	Explanation *string `json:"explanation" gorm:"type:text"`

	CreatedBy string         `json:"created_by" gorm:"not null;size:255;index"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Answers  []AnswerOption    `json:"answers" gorm:"foreignKey:QuestionID"`
	Keywords []QuestionKeyword `json:"keywords" gorm:"foreignKey:QuestionID"`
}

func (Question) TableName() string {
	return "questions"
}

type AnswerOption struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	QuestionID uint   `json:"question_id" gorm:"not null;index"`
	Text       string `json:"text" gorm:"type:text;not null"`
	IsCorrect  bool   `json:"is_correct" gorm:"default:false"`
	Order      int    `json:"order" gorm:"default:0"`
}

func (AnswerOption) TableName() string {
	return "answer_options"
}

// QuestionKeyword drives the weighted partial credit for open-text answers.
type QuestionKeyword struct {
	ID         uint    `json:"id" gorm:"primaryKey"`
	QuestionID uint    `json:"question_id" gorm:"not null;index"`
	Keyword    string  `json:"keyword" gorm:"not null;size:200" validate:"required"`
	Weight     float64 `json:"weight" gorm:"default:1" validate:"min=0"`
	IsRequired bool    `json:"is_required" gorm:"default:false"`
}

func (QuestionKeyword) TableName() string {
	return "question_keywords"
}
