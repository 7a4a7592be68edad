package postgres

import (
	"context"

	"gorm.io/gorm"

	"quizroom/models"
)

type answerStore struct {
	db *gorm.DB
}

func (s answerStore) Create(ctx context.Context, answer *models.Answer) error {
	return translate(s.db.WithContext(ctx).Create(answer).Error)
}
