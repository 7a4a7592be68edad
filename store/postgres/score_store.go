package postgres

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"quizroom/models"
)

type scoreStore struct {
	db *gorm.DB
}

// Award is a single conditional upsert so concurrent submissions for the
// same (session, participant) never lose increments.
func (s scoreStore) Award(ctx context.Context, sessionID, userID uint, points int) error {
	score := models.Score{
		SessionID: sessionID,
		UserID:    userID,
		Points:    points,
	}
	return translate(s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "session_id"}, {Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"points": gorm.Expr("scores.points + EXCLUDED.points"),
		}),
	}).Create(&score).Error)
}

func (s scoreStore) BySession(ctx context.Context, sessionID uint) ([]models.Score, error) {
	var scores []models.Score
	err := s.db.WithContext(ctx).
		Preload("User").
		Where("session_id = ?", sessionID).
		Order("points DESC, id ASC").
		Find(&scores).Error
	if err != nil {
		return nil, translate(err)
	}
	return scores, nil
}
