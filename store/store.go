// Package store defines the persistence interfaces consumed by the game
// engine and the authoring services. Implementations live in store/postgres
// (gorm) and store/memory (test double).
package store

import (
	"context"
	"errors"
	"time"

	"quizroom/models"
)

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("store: record not found")

	// ErrDuplicate is returned when an insert violates a uniqueness
	// constraint (session code, score key, one answer per question).
	ErrDuplicate = errors.New("store: duplicate record")

	// ErrStale is returned by conditional updates whose precondition no
	// longer holds against the stored record.
	ErrStale = errors.New("store: stale precondition")
)

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

type QuizStore interface {
	Create(ctx context.Context, quiz *models.Quiz) error
	// GetByID loads the quiz with its questions and options, questions
	// ordered by their 1-based order column.
	GetByID(ctx context.Context, id uint) (*models.Quiz, error)
	// ListVisible returns quizzes owned by ownerID plus, when includePublic
	// is set, every public quiz.
	ListVisible(ctx context.Context, ownerID uint, includePublic bool) ([]models.Quiz, error)
	Update(ctx context.Context, quiz *models.Quiz) error
	Delete(ctx context.Context, id uint) error

	AddQuestion(ctx context.Context, question *models.Question) error
	GetQuestion(ctx context.Context, quizID, questionID uint) (*models.Question, error)
	UpdateQuestion(ctx context.Context, question *models.Question, options []models.Option) error
	DeleteQuestion(ctx context.Context, quizID, questionID uint) error
	// MaxQuestionOrder returns the highest order assigned so far, 0 for an
	// empty quiz. Orders are append-only and never reused.
	MaxQuestionOrder(ctx context.Context, quizID uint) (int, error)

	// HasStartedSessions reports whether any session referencing the quiz
	// has left WAITING. Such quizzes are locked against edits.
	HasStartedSessions(ctx context.Context, quizID uint) (bool, error)
}

type SessionStore interface {
	// Create inserts a new session; ErrDuplicate signals a join-code
	// collision and the caller regenerates the code.
	Create(ctx context.Context, session *models.GameSession) error
	// GetByCode loads the session with its quiz (questions and options)
	// and participant roster.
	GetByCode(ctx context.Context, code string) (*models.GameSession, error)
	CodeExists(ctx context.Context, code string) (bool, error)

	// AddParticipant is idempotent: re-adding an existing member is a no-op.
	AddParticipant(ctx context.Context, sessionID, userID uint) error
	IsParticipant(ctx context.Context, sessionID, userID uint) (bool, error)

	// UpdateStatus applies a conditional transition: the write succeeds only
	// if the stored status still equals from; otherwise ErrStale. The
	// matching timestamp (started_at or ended_at) is set to at.
	UpdateStatus(ctx context.Context, sessionID uint, from, to models.SessionStatus, at time.Time) error
}

type AnswerStore interface {
	// Create inserts the answer; ErrDuplicate signals the participant
	// already answered this question in this session.
	Create(ctx context.Context, answer *models.Answer) error
}

type ScoreStore interface {
	// Award applies an atomic upsert-with-increment on the
	// (session, participant) score row.
	Award(ctx context.Context, sessionID, userID uint, points int) error
	// BySession returns score rows ordered by points descending, ties
	// broken by row insertion order.
	BySession(ctx context.Context, sessionID uint) ([]models.Score, error)
}

// Stores bundles the per-entity stores and the transactional boundary.
type Stores interface {
	Users() UserStore
	Quizzes() QuizStore
	Sessions() SessionStore
	Answers() AnswerStore
	Scores() ScoreStore

	// Atomic runs fn against a transaction-scoped Stores: either every
	// write inside fn commits or none of them do.
	Atomic(ctx context.Context, fn func(Stores) error) error
}
