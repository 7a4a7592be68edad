package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quizroom/game"
	"quizroom/models"
	"quizroom/store/memory"
)

func questionReq(correct int) *QuestionRequest {
	opts := []OptionRequest{{Content: "A"}, {Content: "B"}, {Content: "C"}}
	for i := 0; i < correct && i < len(opts); i++ {
		opts[i].IsCorrect = true
	}
	return &QuestionRequest{
		Content:   "pick one",
		TimeLimit: 30,
		Points:    100,
		Options:   opts,
	}
}

func newQuizEnv(t *testing.T) (*memory.Stores, *QuizService, models.User, models.User) {
	t.Helper()
	ctx := context.Background()
	st := memory.New()
	svc := NewQuizService(st.Quizzes())

	owner := models.User{Name: "own", Email: "own@example.com", Password: "x"}
	require.NoError(t, st.Users().Create(ctx, &owner))
	other := models.User{Name: "oth", Email: "oth@example.com", Password: "x"}
	require.NoError(t, st.Users().Create(ctx, &other))
	return st, svc, owner, other
}

func TestQuizService_CreateAndGet(t *testing.T) {
	_, svc, owner, other := newQuizEnv(t)
	ctx := context.Background()

	quiz, err := svc.CreateQuiz(ctx, owner.ID, &CreateQuizRequest{Title: "private one"})
	require.NoError(t, err)

	_, err = svc.GetQuiz(ctx, owner.ID, quiz.ID)
	require.NoError(t, err)

	// Hidden quizzes look missing to everyone else.
	_, err = svc.GetQuiz(ctx, other.ID, quiz.ID)
	assert.Equal(t, game.KindNotFound, game.KindOf(err))

	public, err := svc.CreateQuiz(ctx, owner.ID, &CreateQuizRequest{Title: "public one", IsPublic: true})
	require.NoError(t, err)
	_, err = svc.GetQuiz(ctx, other.ID, public.ID)
	require.NoError(t, err)
}

func TestQuizService_QuestionOrderIsAppendOnly(t *testing.T) {
	_, svc, owner, _ := newQuizEnv(t)
	ctx := context.Background()

	quiz, err := svc.CreateQuiz(ctx, owner.ID, &CreateQuizRequest{Title: "ordering"})
	require.NoError(t, err)

	q1, err := svc.AddQuestion(ctx, owner.ID, quiz.ID, questionReq(1))
	require.NoError(t, err)
	q2, err := svc.AddQuestion(ctx, owner.ID, quiz.ID, questionReq(1))
	require.NoError(t, err)
	assert.Equal(t, 1, q1.Order)
	assert.Equal(t, 2, q2.Order)

	require.NoError(t, svc.DeleteQuestion(ctx, owner.ID, quiz.ID, q2.ID))

	// The freed slot is never handed out again.
	q3, err := svc.AddQuestion(ctx, owner.ID, quiz.ID, questionReq(1))
	require.NoError(t, err)
	assert.Equal(t, 3, q3.Order)
}

func TestQuizService_ExactlyOneCorrectOption(t *testing.T) {
	_, svc, owner, _ := newQuizEnv(t)
	ctx := context.Background()

	quiz, err := svc.CreateQuiz(ctx, owner.ID, &CreateQuizRequest{Title: "validation"})
	require.NoError(t, err)

	_, err = svc.AddQuestion(ctx, owner.ID, quiz.ID, questionReq(0))
	assert.ErrorIs(t, err, ErrExactlyOneCorrect)

	_, err = svc.AddQuestion(ctx, owner.ID, quiz.ID, questionReq(2))
	assert.ErrorIs(t, err, ErrExactlyOneCorrect)
}

func TestQuizService_MutationRequiresOwnership(t *testing.T) {
	_, svc, owner, other := newQuizEnv(t)
	ctx := context.Background()

	quiz, err := svc.CreateQuiz(ctx, owner.ID, &CreateQuizRequest{Title: "mine", IsPublic: true})
	require.NoError(t, err)

	_, err = svc.UpdateQuiz(ctx, other.ID, quiz.ID, &UpdateQuizRequest{Title: "theirs"})
	assert.Equal(t, game.KindForbidden, game.KindOf(err))

	err = svc.DeleteQuiz(ctx, other.ID, quiz.ID)
	assert.Equal(t, game.KindForbidden, game.KindOf(err))
}

func TestQuizService_LockedOnceSessionStarted(t *testing.T) {
	st, svc, owner, _ := newQuizEnv(t)
	ctx := context.Background()

	quiz, err := svc.CreateQuiz(ctx, owner.ID, &CreateQuizRequest{Title: "locked"})
	require.NoError(t, err)
	_, err = svc.AddQuestion(ctx, owner.ID, quiz.ID, questionReq(1))
	require.NoError(t, err)

	sess := models.GameSession{QuizID: quiz.ID, Code: "LOCKD1", Status: models.StatusWaiting}
	require.NoError(t, st.Sessions().Create(ctx, &sess))

	// Still editable while the session waits.
	_, err = svc.UpdateQuiz(ctx, owner.ID, quiz.ID, &UpdateQuizRequest{Title: "still mine"})
	require.NoError(t, err)

	require.NoError(t, st.Sessions().UpdateStatus(ctx, sess.ID, models.StatusWaiting, models.StatusActive, time.Now()))

	_, err = svc.UpdateQuiz(ctx, owner.ID, quiz.ID, &UpdateQuizRequest{Title: "too late"})
	assert.Equal(t, game.KindConflict, game.KindOf(err))
	_, err = svc.AddQuestion(ctx, owner.ID, quiz.ID, questionReq(1))
	assert.Equal(t, game.KindConflict, game.KindOf(err))
}
