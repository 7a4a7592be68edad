package models

import (
	"time"

	"gorm.io/gorm"
)

type Answer struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	SessionID  uint           `json:"session_id" gorm:"not null;uniqueIndex:uniq_answer_per_question"`
	QuestionID uint           `json:"question_id" gorm:"not null;uniqueIndex:uniq_answer_per_question"`
	UserID     uint           `json:"user_id" gorm:"not null;uniqueIndex:uniq_answer_per_question"`
	OptionID   uint           `json:"option_id" gorm:"not null"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Session  GameSession `json:"session,omitempty" gorm:"foreignKey:SessionID"`
	Question Question    `json:"question,omitempty"`
	User     User        `json:"user,omitempty"`
	Option   Option      `json:"option,omitempty"`
}
