package game

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quizroom/models"
	"quizroom/store/memory"
)

type recordingNotifier struct {
	mu     sync.Mutex
	events []string
}

func (n *recordingNotifier) Broadcast(_ string, event string, _ any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *recordingNotifier) Events() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.events...)
}

type testEnv struct {
	store    *memory.Stores
	svc      *SessionService
	notifier *recordingNotifier

	owner       models.User
	participant models.User
	quiz        models.Quiz
	question    models.Question
	correct     models.Option
	wrong       models.Option
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	env := &testEnv{store: memory.New(), notifier: &recordingNotifier{}}
	env.svc = NewSessionService(env.store, env.notifier)

	env.owner = models.User{Name: "hostess", Email: "host@example.com", Password: "x", Role: "HOST"}
	require.NoError(t, env.store.Users().Create(ctx, &env.owner))
	env.participant = models.User{Name: "pat", Email: "pat@example.com", Password: "x"}
	require.NoError(t, env.store.Users().Create(ctx, &env.participant))

	env.quiz = models.Quiz{Title: "capitals", OwnerID: env.owner.ID}
	require.NoError(t, env.store.Quizzes().Create(ctx, &env.quiz))

	question := models.Question{
		QuizID:    env.quiz.ID,
		Content:   "capital of France?",
		TimeLimit: 30,
		Points:    100,
		Order:     1,
		Options: []models.Option{
			{Content: "Paris", IsCorrect: true},
			{Content: "Lyon"},
		},
	}
	require.NoError(t, env.store.Quizzes().AddQuestion(ctx, &question))
	env.question = question
	env.correct = question.Options[0]
	env.wrong = question.Options[1]

	return env
}

func (env *testEnv) createSession(t *testing.T) *models.GameSession {
	t.Helper()
	sess, err := env.svc.CreateSession(context.Background(), env.owner.ID, env.quiz.ID)
	require.NoError(t, err)
	return sess
}

func TestSessionService_CreateSession(t *testing.T) {
	env := newTestEnv(t)

	sess := env.createSession(t)
	assert.Regexp(t, codePattern, sess.Code)
	assert.Equal(t, models.StatusWaiting, sess.Status)
	assert.Nil(t, sess.StartedAt)

	t.Run("unknown quiz", func(t *testing.T) {
		_, err := env.svc.CreateSession(context.Background(), env.owner.ID, 999)
		assert.Equal(t, KindNotFound, KindOf(err))
	})

	t.Run("not the owner", func(t *testing.T) {
		_, err := env.svc.CreateSession(context.Background(), env.participant.ID, env.quiz.ID)
		assert.Equal(t, KindForbidden, KindOf(err))
	})
}

func TestSessionService_JoinIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	sess := env.createSession(t)

	_, err := env.svc.JoinSession(ctx, env.participant.ID, sess.Code)
	require.NoError(t, err)
	_, err = env.svc.JoinSession(ctx, env.participant.ID, sess.Code)
	require.NoError(t, err)

	got, err := env.svc.GetSessionByCode(ctx, sess.Code)
	require.NoError(t, err)
	require.Len(t, got.Participants, 1)
	assert.Equal(t, env.participant.ID, got.Participants[0].ID)
}

func TestSessionService_JoinRequiresWaiting(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	sess := env.createSession(t)

	_, err := env.svc.StartSession(ctx, env.owner.ID, sess.Code)
	require.NoError(t, err)

	_, err = env.svc.JoinSession(ctx, env.participant.ID, sess.Code)
	assert.Equal(t, KindInvalidState, KindOf(err))
}

func TestSessionService_Lifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	sess := env.createSession(t)

	_, err := env.svc.JoinSession(ctx, env.participant.ID, sess.Code)
	require.NoError(t, err)

	started, err := env.svc.StartSession(ctx, env.owner.ID, sess.Code)
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, started.Status)
	require.NotNil(t, started.StartedAt)

	result, err := env.svc.SubmitAnswer(ctx, env.participant.ID, sess.Code, env.question.ID, env.correct.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, result.Points)
	require.NotNil(t, result.Answer)
	assert.Equal(t, env.correct.ID, result.Answer.OptionID)

	ended, err := env.svc.EndSession(ctx, env.owner.ID, sess.Code)
	require.NoError(t, err)
	assert.Equal(t, models.StatusFinished, ended.Session.Status)
	require.NotNil(t, ended.Session.EndedAt)
	require.Len(t, ended.Rankings, 1)
	assert.Equal(t, Standing{UserID: env.participant.ID, Name: "pat", Points: 100}, ended.Rankings[0])

	assert.Equal(t, []string{
		EventParticipantJoined,
		EventSessionStarted,
		EventAnswerScored,
		EventSessionEnded,
	}, env.notifier.Events())
}

func TestSessionService_WrongAnswerStillCreatesScoreRow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	sess := env.createSession(t)

	_, err := env.svc.JoinSession(ctx, env.participant.ID, sess.Code)
	require.NoError(t, err)
	_, err = env.svc.StartSession(ctx, env.owner.ID, sess.Code)
	require.NoError(t, err)

	result, err := env.svc.SubmitAnswer(ctx, env.participant.ID, sess.Code, env.question.ID, env.wrong.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Points)

	ended, err := env.svc.EndSession(ctx, env.owner.ID, sess.Code)
	require.NoError(t, err)
	require.Len(t, ended.Rankings, 1)
	assert.Equal(t, 0, ended.Rankings[0].Points)
}

func TestSessionService_SubmitAnswerPreconditions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	sess := env.createSession(t)

	_, err := env.svc.JoinSession(ctx, env.participant.ID, sess.Code)
	require.NoError(t, err)

	t.Run("session not active", func(t *testing.T) {
		_, err := env.svc.SubmitAnswer(ctx, env.participant.ID, sess.Code, env.question.ID, env.correct.ID)
		assert.Equal(t, KindInvalidState, KindOf(err))
	})

	_, err = env.svc.StartSession(ctx, env.owner.ID, sess.Code)
	require.NoError(t, err)

	t.Run("not a member", func(t *testing.T) {
		_, err := env.svc.SubmitAnswer(ctx, env.owner.ID, sess.Code, env.question.ID, env.correct.ID)
		assert.Equal(t, KindNotAMember, KindOf(err))
	})

	t.Run("question from another quiz", func(t *testing.T) {
		_, err := env.svc.SubmitAnswer(ctx, env.participant.ID, sess.Code, 999, env.correct.ID)
		assert.Equal(t, KindNotFound, KindOf(err))
	})

	t.Run("option from another question", func(t *testing.T) {
		_, err := env.svc.SubmitAnswer(ctx, env.participant.ID, sess.Code, env.question.ID, 999)
		assert.Equal(t, KindInvalidOption, KindOf(err))
	})

	t.Run("repeat submission", func(t *testing.T) {
		_, err := env.svc.SubmitAnswer(ctx, env.participant.ID, sess.Code, env.question.ID, env.correct.ID)
		require.NoError(t, err)
		_, err = env.svc.SubmitAnswer(ctx, env.participant.ID, sess.Code, env.question.ID, env.wrong.ID)
		assert.Equal(t, KindConflict, KindOf(err))
	})
}

func TestSessionService_ControlRequiresOwner(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	sess := env.createSession(t)

	_, err := env.svc.StartSession(ctx, env.participant.ID, sess.Code)
	assert.Equal(t, KindForbidden, KindOf(err))

	_, err = env.svc.EndSession(ctx, env.owner.ID, sess.Code)
	assert.Equal(t, KindInvalidState, KindOf(err), "ending a waiting session")

	_, err = env.svc.StartSession(ctx, env.owner.ID, sess.Code)
	require.NoError(t, err)

	_, err = env.svc.StartSession(ctx, env.owner.ID, sess.Code)
	assert.Equal(t, KindInvalidState, KindOf(err), "starting twice")

	_, err = env.svc.EndSession(ctx, env.participant.ID, sess.Code)
	assert.Equal(t, KindForbidden, KindOf(err))
}

func TestSessionService_ConcurrentStart(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	sess := env.createSession(t)

	const racers = 2
	errs := make([]error, racers)
	var wg sync.WaitGroup
	wg.Add(racers)
	for i := 0; i < racers; i++ {
		go func(i int) {
			defer wg.Done()
			_, errs[i] = env.svc.StartSession(ctx, env.owner.ID, sess.Code)
		}(i)
	}
	wg.Wait()

	var won, lost int
	for _, err := range errs {
		switch KindOf(err) {
		case 0:
			if err == nil {
				won++
			}
		case KindInvalidState, KindConflict:
			lost++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, won, "exactly one start must win")
	assert.Equal(t, racers-1, lost)

	got, err := env.svc.GetSessionByCode(ctx, sess.Code)
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, got.Status)
	assert.NotNil(t, got.StartedAt)
}

func TestSessionService_GetSessionByCode(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	sess := env.createSession(t)

	got, err := env.svc.GetSessionByCode(ctx, sess.Code)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, got.ID)
	require.Len(t, got.Quiz.Questions, 1)
	assert.Len(t, got.Quiz.Questions[0].Options, 2)

	_, err = env.svc.GetSessionByCode(ctx, "NOPE42")
	assert.Equal(t, KindNotFound, KindOf(err))
}
