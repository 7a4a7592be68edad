package game

import (
	"context"
	"errors"
	"strings"
	"time"

	"quizroom/models"
	"quizroom/store"
)

// SessionService orchestrates the session lifecycle against persistence and
// exposes the session's public operations. Every operation takes the
// authenticated caller explicitly; the service never reads ambient request
// state.
type SessionService struct {
	store    store.Stores
	codes    *CodeAllocator
	machine  StateMachine
	scorer   AnswerScorer
	ledger   *ScoreLedger
	notifier Notifier
	now      func() time.Time
}

func NewSessionService(st store.Stores, notifier Notifier) *SessionService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &SessionService{
		store:    st,
		codes:    NewCodeAllocator(st.Sessions()),
		ledger:   NewScoreLedger(st.Scores()),
		notifier: notifier,
		now:      time.Now,
	}
}

// CreateSession mints a join code and opens a new WAITING session for one
// of the caller's quizzes.
func (s *SessionService) CreateSession(ctx context.Context, callerID, quizID uint) (*models.GameSession, error) {
	quiz, err := s.store.Quizzes().GetByID(ctx, quizID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, E(KindNotFound, "quiz %d not found", quizID)
	}
	if err != nil {
		return nil, Unavailable(err, "load quiz")
	}
	if quiz.OwnerID != callerID {
		return nil, E(KindForbidden, "only the quiz owner may open a session for quiz %d", quizID)
	}

	// The allocator's existence check is advisory; the unique constraint on
	// the code column decides, and a losing insert mints a fresh code.
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := s.codes.Allocate(ctx)
		if err != nil {
			return nil, err
		}

		sess := &models.GameSession{
			QuizID: quiz.ID,
			Code:   code,
			Status: models.StatusWaiting,
		}
		err = s.store.Sessions().Create(ctx, sess)
		if errors.Is(err, store.ErrDuplicate) {
			continue
		}
		if err != nil {
			return nil, Unavailable(err, "create session")
		}

		sess.Quiz = *quiz
		return sess, nil
	}

	return nil, E(KindAllocationExhausted, "no free join code after %d attempts", maxCodeAttempts)
}

// GetSessionByCode looks a session up by its public join code.
func (s *SessionService) GetSessionByCode(ctx context.Context, code string) (*models.GameSession, error) {
	return s.getByCode(ctx, code)
}

// JoinSession adds the caller to a waiting session's roster. Re-joining a
// session the caller is already in is a no-op, not an error.
func (s *SessionService) JoinSession(ctx context.Context, callerID uint, code string) (*models.GameSession, error) {
	sess, err := s.getByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if err := s.machine.CheckJoin(sess); err != nil {
		return nil, err
	}

	if err := s.store.Sessions().AddParticipant(ctx, sess.ID, callerID); err != nil {
		return nil, Unavailable(err, "add participant")
	}

	s.notifier.Broadcast(sess.Code, EventParticipantJoined, map[string]any{
		"session_code": sess.Code,
		"user_id":      callerID,
	})
	return sess, nil
}

// StartSession moves a waiting session to ACTIVE. The transition is a
// conditional write: of two racing start requests exactly one succeeds, the
// other gets KindConflict.
func (s *SessionService) StartSession(ctx context.Context, callerID uint, code string) (*models.GameSession, error) {
	sess, err := s.getByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if err := s.machine.CheckStart(sess, callerID); err != nil {
		return nil, err
	}

	now := s.now()
	err = s.store.Sessions().UpdateStatus(ctx, sess.ID, models.StatusWaiting, models.StatusActive, now)
	if errors.Is(err, store.ErrStale) {
		return nil, E(KindConflict, "session %s was started concurrently", sess.Code)
	}
	if err != nil {
		return nil, Unavailable(err, "start session")
	}

	sess.Status = models.StatusActive
	sess.StartedAt = &now

	s.notifier.Broadcast(sess.Code, EventSessionStarted, map[string]any{
		"session_code": sess.Code,
		"started_at":   now,
	})
	return sess, nil
}

// SubmitResult is what a participant gets back for a graded answer.
type SubmitResult struct {
	Answer *models.Answer `json:"answer"`
	Points int            `json:"points"`
}

// SubmitAnswer grades the caller's answer, records it and applies the score
// increment as one atomic write. A participant answers each question at
// most once per session; a repeat submission gets KindConflict.
func (s *SessionService) SubmitAnswer(ctx context.Context, callerID uint, code string, questionID, optionID uint) (*SubmitResult, error) {
	sess, err := s.getByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	member, err := s.store.Sessions().IsParticipant(ctx, sess.ID, callerID)
	if err != nil {
		return nil, Unavailable(err, "check membership")
	}
	if err := s.machine.CheckSubmit(sess, member); err != nil {
		return nil, err
	}

	question := findQuestion(sess.Quiz.Questions, questionID)
	if question == nil {
		return nil, E(KindNotFound, "question %d is not part of quiz %d", questionID, sess.QuizID)
	}

	points, err := s.scorer.Score(question, optionID)
	if err != nil {
		return nil, err
	}

	answer := &models.Answer{
		SessionID:  sess.ID,
		QuestionID: questionID,
		UserID:     callerID,
		OptionID:   optionID,
	}
	err = s.store.Atomic(ctx, func(tx store.Stores) error {
		if err := tx.Answers().Create(ctx, answer); err != nil {
			return err
		}
		return NewScoreLedger(tx.Scores()).Award(ctx, sess.ID, callerID, points)
	})
	if errors.Is(err, store.ErrDuplicate) {
		return nil, E(KindConflict, "question %d was already answered in session %s", questionID, sess.Code)
	}
	if err != nil {
		var e *Error
		if errors.As(err, &e) {
			return nil, e
		}
		return nil, Unavailable(err, "record answer")
	}

	s.notifier.Broadcast(sess.Code, EventAnswerScored, map[string]any{
		"session_code": sess.Code,
		"user_id":      callerID,
		"question_id":  questionID,
		"points":       points,
	})
	return &SubmitResult{Answer: answer, Points: points}, nil
}

// EndResult carries the finished session and its final ranking.
type EndResult struct {
	Session  *models.GameSession `json:"session"`
	Rankings []Standing          `json:"rankings"`
}

// EndSession moves an active session to FINISHED and materializes the final
// ranking.
func (s *SessionService) EndSession(ctx context.Context, callerID uint, code string) (*EndResult, error) {
	sess, err := s.getByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if err := s.machine.CheckEnd(sess, callerID); err != nil {
		return nil, err
	}

	now := s.now()
	err = s.store.Sessions().UpdateStatus(ctx, sess.ID, models.StatusActive, models.StatusFinished, now)
	if errors.Is(err, store.ErrStale) {
		return nil, E(KindConflict, "session %s was ended concurrently", sess.Code)
	}
	if err != nil {
		return nil, Unavailable(err, "end session")
	}

	sess.Status = models.StatusFinished
	sess.EndedAt = &now

	rankings, err := s.ledger.Rank(ctx, sess.ID)
	if err != nil {
		return nil, err
	}

	s.notifier.Broadcast(sess.Code, EventSessionEnded, map[string]any{
		"session_code": sess.Code,
		"rankings":     rankings,
	})
	return &EndResult{Session: sess, Rankings: rankings}, nil
}

func (s *SessionService) getByCode(ctx context.Context, code string) (*models.GameSession, error) {
	code = strings.ToUpper(strings.TrimSpace(code))

	sess, err := s.store.Sessions().GetByCode(ctx, code)
	if errors.Is(err, store.ErrNotFound) {
		return nil, E(KindNotFound, "session %s not found", code)
	}
	if err != nil {
		return nil, Unavailable(err, "load session")
	}
	return sess, nil
}

func findQuestion(questions []models.Question, id uint) *models.Question {
	for i := range questions {
		if questions[i].ID == id {
			return &questions[i]
		}
	}
	return nil
}
