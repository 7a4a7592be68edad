package models

import (
	"time"
)

type Score struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	SessionID uint      `json:"session_id" gorm:"not null;uniqueIndex:uniq_score_per_participant"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:uniq_score_per_participant"`
	Points    int       `json:"points" gorm:"not null;default:0"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Session GameSession `json:"session,omitempty" gorm:"foreignKey:SessionID"`
	User    User        `json:"user,omitempty"`
}
