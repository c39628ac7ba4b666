package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type SessionStatus string

const (
	SessionInProgress SessionStatus = "IN_PROGRESS"
	SessionSubmitted  SessionStatus = "SUBMITTED"
	SessionAbandoned  SessionStatus = "ABANDONED"
)

// SimulationSession is one in-flight attempt. The partial unique index on
// (student_id, simulation_id) where status = IN_PROGRESS is what guarantees a
// single open session per pair under concurrent starts.
type SimulationSession struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	PublicID     string `json:"public_id" gorm:"uniqueIndex;size:36;not null"`
	SimulationID uint   `json:"simulation_id" gorm:"not null;index:idx_session_student_sim"`
	StudentID    string `json:"student_id" gorm:"not null;size:255;index:idx_session_student_sim"`
	AssignmentID *uint  `json:"assignment_id" gorm:"index"`

	Status      SessionStatus `json:"status" gorm:"default:IN_PROGRESS;index"`
	StartedAt   time.Time     `json:"started_at"`
	SubmittedAt *time.Time    `json:"submitted_at"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Simulation Simulation      `json:"simulation" gorm:"foreignKey:SimulationID"`
	Student    User            `json:"student" gorm:"foreignKey:StudentID"`
	Answers    []SessionAnswer `json:"answers" gorm:"foreignKey:SessionID"`
}

func (SimulationSession) TableName() string {
	return "simulation_sessions"
}

// SessionAnswer holds what the student submitted for one question. Choice
// questions carry AnswerID, open text carries Text; Payload keeps the raw
// client submission for auditing.
type SessionAnswer struct {
	ID         uint `json:"id" gorm:"primaryKey"`
	SessionID  uint `json:"session_id" gorm:"not null;uniqueIndex:idx_session_question"`
	QuestionID uint `json:"question_id" gorm:"not null;uniqueIndex:idx_session_question"`

	AnswerID *uint   `json:"answer_id"`
	Text     *string `json:"text" gorm:"type:text"`

	Payload datatypes.JSON `json:"payload" gorm:"type:jsonb"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (SessionAnswer) TableName() string {
	return "session_answers"
}
