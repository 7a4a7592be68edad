package services

import (
	"context"
	"errors"

	"quizroom/game"
	"quizroom/models"
	"quizroom/store"
)

// ErrExactlyOneCorrect rejects question payloads whose options do not have
// exactly one correct entry; scoring is undefined otherwise.
var ErrExactlyOneCorrect = errors.New("each question must have exactly one correct option")

type QuizService struct {
	quizzes store.QuizStore
}

func NewQuizService(quizzes store.QuizStore) *QuizService {
	return &QuizService{quizzes: quizzes}
}

type CreateQuizRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	IsPublic    bool   `json:"is_public"`
}

type UpdateQuizRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	IsPublic    *bool  `json:"is_public"`
}

type QuestionRequest struct {
	Content   string          `json:"content" binding:"required"`
	Type      string          `json:"type"`
	TimeLimit int             `json:"time_limit" binding:"required,min=5,max=300"`
	Points    int             `json:"points" binding:"required,min=1"`
	Options   []OptionRequest `json:"options" binding:"required,min=2,max=6"`
}

type OptionRequest struct {
	Content   string `json:"content" binding:"required"`
	IsCorrect bool   `json:"is_correct"`
}

func (s *QuizService) CreateQuiz(ctx context.Context, ownerID uint, req *CreateQuizRequest) (*models.Quiz, error) {
	quiz := &models.Quiz{
		Title:       req.Title,
		Description: req.Description,
		IsPublic:    req.IsPublic,
		OwnerID:     ownerID,
	}
	if err := s.quizzes.Create(ctx, quiz); err != nil {
		return nil, game.Unavailable(err, "create quiz")
	}
	return quiz, nil
}

// ListQuizzes returns the caller's quizzes plus all public ones.
func (s *QuizService) ListQuizzes(ctx context.Context, callerID uint) ([]models.Quiz, error) {
	quizzes, err := s.quizzes.ListVisible(ctx, callerID, true)
	if err != nil {
		return nil, game.Unavailable(err, "list quizzes")
	}
	return quizzes, nil
}

// GetQuiz returns the quiz when the caller owns it or it is public.
func (s *QuizService) GetQuiz(ctx context.Context, callerID, quizID uint) (*models.Quiz, error) {
	quiz, err := s.quizzes.GetByID(ctx, quizID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, game.E(game.KindNotFound, "quiz %d not found", quizID)
	}
	if err != nil {
		return nil, game.Unavailable(err, "load quiz")
	}
	if quiz.OwnerID != callerID && !quiz.IsPublic {
		// Hidden quizzes are indistinguishable from missing ones.
		return nil, game.E(game.KindNotFound, "quiz %d not found", quizID)
	}
	return quiz, nil
}

func (s *QuizService) UpdateQuiz(ctx context.Context, callerID, quizID uint, req *UpdateQuizRequest) (*models.Quiz, error) {
	quiz, err := s.ownedEditableQuiz(ctx, callerID, quizID)
	if err != nil {
		return nil, err
	}

	if req.Title != "" {
		quiz.Title = req.Title
	}
	if req.Description != "" {
		quiz.Description = req.Description
	}
	if req.IsPublic != nil {
		quiz.IsPublic = *req.IsPublic
	}
	if err := s.quizzes.Update(ctx, quiz); err != nil {
		return nil, game.Unavailable(err, "update quiz")
	}
	return quiz, nil
}

func (s *QuizService) DeleteQuiz(ctx context.Context, callerID, quizID uint) error {
	if _, err := s.ownedEditableQuiz(ctx, callerID, quizID); err != nil {
		return err
	}
	if err := s.quizzes.Delete(ctx, quizID); err != nil {
		return game.Unavailable(err, "delete quiz")
	}
	return nil
}

// AddQuestion appends a question to the caller's quiz. Orders are 1-based
// and never reused, so the new question gets max(order)+1 even after
// deletions.
func (s *QuizService) AddQuestion(ctx context.Context, callerID, quizID uint, req *QuestionRequest) (*models.Question, error) {
	if _, err := s.ownedEditableQuiz(ctx, callerID, quizID); err != nil {
		return nil, err
	}
	if err := validateOptions(req.Options); err != nil {
		return nil, err
	}

	maxOrder, err := s.quizzes.MaxQuestionOrder(ctx, quizID)
	if err != nil {
		return nil, game.Unavailable(err, "question order")
	}

	question := &models.Question{
		QuizID:    quizID,
		Content:   req.Content,
		Type:      questionType(req.Type),
		TimeLimit: req.TimeLimit,
		Points:    req.Points,
		Order:     maxOrder + 1,
		Options:   buildOptions(req.Options),
	}
	if err := s.quizzes.AddQuestion(ctx, question); err != nil {
		return nil, game.Unavailable(err, "add question")
	}
	return question, nil
}

func (s *QuizService) UpdateQuestion(ctx context.Context, callerID, quizID, questionID uint, req *QuestionRequest) (*models.Question, error) {
	if _, err := s.ownedEditableQuiz(ctx, callerID, quizID); err != nil {
		return nil, err
	}
	if err := validateOptions(req.Options); err != nil {
		return nil, err
	}

	question, err := s.quizzes.GetQuestion(ctx, quizID, questionID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, game.E(game.KindNotFound, "question %d not found in quiz %d", questionID, quizID)
	}
	if err != nil {
		return nil, game.Unavailable(err, "load question")
	}

	question.Content = req.Content
	question.Type = questionType(req.Type)
	question.TimeLimit = req.TimeLimit
	question.Points = req.Points
	if err := s.quizzes.UpdateQuestion(ctx, question, buildOptions(req.Options)); err != nil {
		return nil, game.Unavailable(err, "update question")
	}
	return s.quizzes.GetQuestion(ctx, quizID, questionID)
}

func (s *QuizService) DeleteQuestion(ctx context.Context, callerID, quizID, questionID uint) error {
	if _, err := s.ownedEditableQuiz(ctx, callerID, quizID); err != nil {
		return err
	}
	err := s.quizzes.DeleteQuestion(ctx, quizID, questionID)
	if errors.Is(err, store.ErrNotFound) {
		return game.E(game.KindNotFound, "question %d not found in quiz %d", questionID, quizID)
	}
	if err != nil {
		return game.Unavailable(err, "delete question")
	}
	return nil
}

// ownedEditableQuiz resolves the quiz for a mutating operation: the caller
// must own it, and quizzes with started sessions are locked so running and
// finished games keep the content they were played against.
func (s *QuizService) ownedEditableQuiz(ctx context.Context, callerID, quizID uint) (*models.Quiz, error) {
	quiz, err := s.quizzes.GetByID(ctx, quizID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, game.E(game.KindNotFound, "quiz %d not found", quizID)
	}
	if err != nil {
		return nil, game.Unavailable(err, "load quiz")
	}
	if quiz.OwnerID != callerID {
		if !quiz.IsPublic {
			return nil, game.E(game.KindNotFound, "quiz %d not found", quizID)
		}
		return nil, game.E(game.KindForbidden, "only the owner may modify quiz %d", quizID)
	}

	started, err := s.quizzes.HasStartedSessions(ctx, quizID)
	if err != nil {
		return nil, game.Unavailable(err, "check sessions")
	}
	if started {
		return nil, game.E(game.KindConflict, "quiz %d has started sessions and is locked", quizID)
	}
	return quiz, nil
}

func validateOptions(options []OptionRequest) error {
	correct := 0
	for _, opt := range options {
		if opt.IsCorrect {
			correct++
		}
	}
	if correct != 1 {
		return ErrExactlyOneCorrect
	}
	return nil
}

func buildOptions(reqs []OptionRequest) []models.Option {
	options := make([]models.Option, 0, len(reqs))
	for _, opt := range reqs {
		options = append(options, models.Option{Content: opt.Content, IsCorrect: opt.IsCorrect})
	}
	return options
}

func questionType(t string) string {
	if t == "" {
		return "MULTIPLE_CHOICE"
	}
	return t
}
