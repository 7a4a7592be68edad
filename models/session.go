package models

import (
	"time"

	"gorm.io/gorm"
)

type SessionStatus string

const (
	StatusWaiting  SessionStatus = "WAITING"
	StatusActive   SessionStatus = "ACTIVE"
	StatusFinished SessionStatus = "FINISHED"
)

type GameSession struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	QuizID    uint           `json:"quiz_id" gorm:"not null"`
	Code      string         `json:"code" gorm:"uniqueIndex;not null"`
	Status    SessionStatus  `json:"status" gorm:"not null;default:'WAITING'"`
	StartedAt *time.Time     `json:"started_at"`
	EndedAt   *time.Time     `json:"ended_at"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Quiz         Quiz     `json:"quiz,omitempty"`
	Participants []User   `json:"participants,omitempty" gorm:"many2many:session_participants"`
	Answers      []Answer `json:"answers,omitempty" gorm:"foreignKey:SessionID"`
	Scores       []Score  `json:"scores,omitempty" gorm:"foreignKey:SessionID"`
}
