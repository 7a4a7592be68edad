package models

import (
	"time"

	"gorm.io/gorm"
)

type Quiz struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	Title       string         `json:"title" gorm:"not null"`
	Description string         `json:"description"`
	IsPublic    bool           `json:"is_public" gorm:"not null;default:false"`
	OwnerID     uint           `json:"owner_id" gorm:"not null"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Owner     User          `json:"owner,omitempty"`
	Questions []Question    `json:"questions,omitempty" gorm:"foreignKey:QuizID"`
	Sessions  []GameSession `json:"sessions,omitempty" gorm:"foreignKey:QuizID"`
}
