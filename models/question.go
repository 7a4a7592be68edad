package models

import (
	"time"

	"gorm.io/gorm"
)

type Question struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	QuizID    uint           `json:"quiz_id" gorm:"not null"`
	Content   string         `json:"content" gorm:"not null"`
	Type      string         `json:"type" gorm:"not null;default:'MULTIPLE_CHOICE'"`
	TimeLimit int            `json:"time_limit" gorm:"not null;default:30"` // seconds
	Points    int            `json:"points" gorm:"not null;default:100"`
	Order     int            `json:"order" gorm:"not null"` // 1-based, append-only, never reused
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Quiz    Quiz     `json:"quiz,omitempty"`
	Options []Option `json:"options,omitempty" gorm:"foreignKey:QuestionID"`
}
