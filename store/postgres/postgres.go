// Package postgres implements the store interfaces on gorm.
package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"quizroom/models"
	"quizroom/store"
)

type Stores struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Stores {
	return &Stores{db: db}
}

// Migrate creates or updates the schema, including the unique indexes the
// engine relies on (session code, score key, one answer per question).
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Quiz{},
		&models.Question{},
		&models.Option{},
		&models.GameSession{},
		&models.Answer{},
		&models.Score{},
	)
}

func (s *Stores) Users() store.UserStore       { return userStore{s.db} }
func (s *Stores) Quizzes() store.QuizStore     { return quizStore{s.db} }
func (s *Stores) Sessions() store.SessionStore { return sessionStore{s.db} }
func (s *Stores) Answers() store.AnswerStore   { return answerStore{s.db} }
func (s *Stores) Scores() store.ScoreStore     { return scoreStore{s.db} }

func (s *Stores) Atomic(ctx context.Context, fn func(store.Stores) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(New(tx))
	})
}

// translate maps gorm errors to the store sentinel errors. Relies on
// TranslateError being enabled on the gorm config so unique violations
// surface as gorm.ErrDuplicatedKey.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return store.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return store.ErrDuplicate
	default:
		return err
	}
}
