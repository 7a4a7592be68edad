package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"

	"quizroom/models"
	"quizroom/store"
)

type sessionStore struct {
	db *gorm.DB
}

func (s sessionStore) Create(ctx context.Context, session *models.GameSession) error {
	return translate(s.db.WithContext(ctx).Create(session).Error)
}

func (s sessionStore) GetByCode(ctx context.Context, code string) (*models.GameSession, error) {
	var session models.GameSession
	err := s.db.WithContext(ctx).
		Preload("Quiz").
		Preload("Quiz.Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.order")
		}).
		Preload("Quiz.Questions.Options").
		Preload("Participants").
		Where("code = ?", code).
		First(&session).Error
	if err != nil {
		return nil, translate(err)
	}
	return &session, nil
}

func (s sessionStore) CodeExists(ctx context.Context, code string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.GameSession{}).
		Unscoped().
		Where("code = ?", code).
		Count(&count).Error
	if err != nil {
		return false, translate(err)
	}
	return count > 0, nil
}

func (s sessionStore) AddParticipant(ctx context.Context, sessionID, userID uint) error {
	// Association append upserts the join row with ON CONFLICT DO NOTHING,
	// which is what makes re-joining idempotent.
	session := models.GameSession{ID: sessionID}
	user := models.User{ID: userID}
	return translate(s.db.WithContext(ctx).Model(&session).Association("Participants").Append(&user))
}

func (s sessionStore) IsParticipant(ctx context.Context, sessionID, userID uint) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Table("session_participants").
		Where("game_session_id = ? AND user_id = ?", sessionID, userID).
		Count(&count).Error
	if err != nil {
		return false, translate(err)
	}
	return count > 0, nil
}

func (s sessionStore) UpdateStatus(ctx context.Context, sessionID uint, from, to models.SessionStatus, at time.Time) error {
	updates := map[string]any{"status": to}
	switch to {
	case models.StatusActive:
		updates["started_at"] = at
	case models.StatusFinished:
		updates["ended_at"] = at
	}

	// Conditional update: the transition applies only if the stored status
	// still matches. Zero rows means another request got there first.
	res := s.db.WithContext(ctx).
		Model(&models.GameSession{}).
		Where("id = ? AND status = ?", sessionID, from).
		Updates(updates)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return store.ErrStale
	}
	return nil
}
