package postgres

import (
	"context"

	"gorm.io/gorm"

	"quizroom/models"
	"quizroom/store"
)

type quizStore struct {
	db *gorm.DB
}

func (s quizStore) Create(ctx context.Context, quiz *models.Quiz) error {
	return translate(s.db.WithContext(ctx).Create(quiz).Error)
}

func (s quizStore) GetByID(ctx context.Context, id uint) (*models.Quiz, error) {
	var quiz models.Quiz
	err := s.db.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.order")
		}).
		Preload("Questions.Options").
		First(&quiz, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &quiz, nil
}

func (s quizStore) ListVisible(ctx context.Context, ownerID uint, includePublic bool) ([]models.Quiz, error) {
	q := s.db.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.order")
		}).
		Preload("Questions.Options").
		Order("created_at DESC")

	if includePublic {
		q = q.Where("owner_id = ? OR is_public = ?", ownerID, true)
	} else {
		q = q.Where("owner_id = ?", ownerID)
	}

	var quizzes []models.Quiz
	if err := q.Find(&quizzes).Error; err != nil {
		return nil, translate(err)
	}
	return quizzes, nil
}

func (s quizStore) Update(ctx context.Context, quiz *models.Quiz) error {
	return translate(s.db.WithContext(ctx).Save(quiz).Error)
}

func (s quizStore) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Quiz{}, id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s quizStore) AddQuestion(ctx context.Context, question *models.Question) error {
	return translate(s.db.WithContext(ctx).Create(question).Error)
}

func (s quizStore) GetQuestion(ctx context.Context, quizID, questionID uint) (*models.Question, error) {
	var question models.Question
	err := s.db.WithContext(ctx).
		Preload("Options").
		Where("quiz_id = ?", quizID).
		First(&question, questionID).Error
	if err != nil {
		return nil, translate(err)
	}
	return &question, nil
}

func (s quizStore) UpdateQuestion(ctx context.Context, question *models.Question, options []models.Option) error {
	return translate(s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(question).Error; err != nil {
			return err
		}
		if err := tx.Where("question_id = ?", question.ID).Delete(&models.Option{}).Error; err != nil {
			return err
		}
		for i := range options {
			options[i].ID = 0
			options[i].QuestionID = question.ID
		}
		if len(options) == 0 {
			return nil
		}
		return tx.Create(&options).Error
	}))
}

func (s quizStore) DeleteQuestion(ctx context.Context, quizID, questionID uint) error {
	res := s.db.WithContext(ctx).
		Where("quiz_id = ?", quizID).
		Delete(&models.Question{}, questionID)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s quizStore) MaxQuestionOrder(ctx context.Context, quizID uint) (int, error) {
	// Soft-deleted questions keep their slot so orders are never reused.
	var max int
	err := s.db.WithContext(ctx).
		Model(&models.Question{}).
		Unscoped().
		Where("quiz_id = ?", quizID).
		Select(`COALESCE(MAX("order"), 0)`).
		Scan(&max).Error
	if err != nil {
		return 0, translate(err)
	}
	return max, nil
}

func (s quizStore) HasStartedSessions(ctx context.Context, quizID uint) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.GameSession{}).
		Where("quiz_id = ? AND status <> ?", quizID, models.StatusWaiting).
		Count(&count).Error
	if err != nil {
		return false, translate(err)
	}
	return count > 0, nil
}
