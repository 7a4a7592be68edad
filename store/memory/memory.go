// Package memory is an in-memory implementation of the store interfaces,
// used as the persistence double in tests. It honors the same contracts as
// the postgres implementation: code uniqueness, idempotent roster inserts,
// conditional status updates and atomic score increments.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"quizroom/models"
	"quizroom/store"
)

type Stores struct {
	mu sync.Mutex

	users     map[uint]models.User
	quizzes   map[uint]models.Quiz
	questions map[uint]models.Question
	sessions  map[uint]models.GameSession
	codes     map[string]uint
	roster    map[uint][]uint // session id -> user ids in join order
	answers   []models.Answer
	scores    []models.Score // insertion order, backs rank tie-breaking

	maxOrder map[uint]int // quiz id -> highest question order ever assigned

	nextUser, nextQuiz, nextQuestion, nextOption uint
	nextSession, nextAnswer, nextScore           uint
}

func New() *Stores {
	return &Stores{
		users:     make(map[uint]models.User),
		quizzes:   make(map[uint]models.Quiz),
		questions: make(map[uint]models.Question),
		sessions:  make(map[uint]models.GameSession),
		codes:     make(map[string]uint),
		roster:    make(map[uint][]uint),
		maxOrder:  make(map[uint]int),
	}
}

func (s *Stores) Users() store.UserStore       { return userStore{s} }
func (s *Stores) Quizzes() store.QuizStore     { return quizStore{s} }
func (s *Stores) Sessions() store.SessionStore { return sessionStore{s} }
func (s *Stores) Answers() store.AnswerStore   { return answerStore{s} }
func (s *Stores) Scores() store.ScoreStore     { return scoreStore{s} }

// Atomic runs fn against the same stores. The double applies each write
// immediately; per-write atomicity is covered by the store mutex, which is
// enough for the engine tests.
func (s *Stores) Atomic(_ context.Context, fn func(store.Stores) error) error {
	return fn(s)
}

func (s *Stores) quizWithQuestions(id uint) (models.Quiz, bool) {
	quiz, ok := s.quizzes[id]
	if !ok {
		return models.Quiz{}, false
	}

	var questions []models.Question
	for _, q := range s.questions {
		if q.QuizID == id {
			questions = append(questions, cloneQuestion(q))
		}
	}
	sort.Slice(questions, func(i, j int) bool { return questions[i].Order < questions[j].Order })
	quiz.Questions = questions
	return quiz, true
}

func cloneQuestion(q models.Question) models.Question {
	out := q
	out.Options = append([]models.Option(nil), q.Options...)
	return out
}

type userStore struct{ s *Stores }

func (u userStore) Create(_ context.Context, user *models.User) error {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()

	for _, existing := range u.s.users {
		if existing.Email == user.Email {
			return store.ErrDuplicate
		}
	}
	u.s.nextUser++
	user.ID = u.s.nextUser
	user.CreatedAt = time.Now()
	u.s.users[user.ID] = *user
	return nil
}

func (u userStore) GetByID(_ context.Context, id uint) (*models.User, error) {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()

	user, ok := u.s.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &user, nil
}

func (u userStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()

	for _, user := range u.s.users {
		if user.Email == email {
			out := user
			return &out, nil
		}
	}
	return nil, store.ErrNotFound
}

type quizStore struct{ s *Stores }

func (q quizStore) Create(_ context.Context, quiz *models.Quiz) error {
	q.s.mu.Lock()
	defer q.s.mu.Unlock()

	q.s.nextQuiz++
	quiz.ID = q.s.nextQuiz
	quiz.CreatedAt = time.Now()
	stored := *quiz
	stored.Questions = nil
	q.s.quizzes[quiz.ID] = stored
	return nil
}

func (q quizStore) GetByID(_ context.Context, id uint) (*models.Quiz, error) {
	q.s.mu.Lock()
	defer q.s.mu.Unlock()

	quiz, ok := q.s.quizWithQuestions(id)
	if !ok {
		return nil, store.ErrNotFound
	}
	return &quiz, nil
}

func (q quizStore) ListVisible(_ context.Context, ownerID uint, includePublic bool) ([]models.Quiz, error) {
	q.s.mu.Lock()
	defer q.s.mu.Unlock()

	var out []models.Quiz
	for id, quiz := range q.s.quizzes {
		if quiz.OwnerID == ownerID || (includePublic && quiz.IsPublic) {
			full, _ := q.s.quizWithQuestions(id)
			out = append(out, full)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (q quizStore) Update(_ context.Context, quiz *models.Quiz) error {
	q.s.mu.Lock()
	defer q.s.mu.Unlock()

	stored, ok := q.s.quizzes[quiz.ID]
	if !ok {
		return store.ErrNotFound
	}
	stored.Title = quiz.Title
	stored.Description = quiz.Description
	stored.IsPublic = quiz.IsPublic
	q.s.quizzes[quiz.ID] = stored
	return nil
}

func (q quizStore) Delete(_ context.Context, id uint) error {
	q.s.mu.Lock()
	defer q.s.mu.Unlock()

	if _, ok := q.s.quizzes[id]; !ok {
		return store.ErrNotFound
	}
	delete(q.s.quizzes, id)
	for qid, question := range q.s.questions {
		if question.QuizID == id {
			delete(q.s.questions, qid)
		}
	}
	return nil
}

func (q quizStore) AddQuestion(_ context.Context, question *models.Question) error {
	q.s.mu.Lock()
	defer q.s.mu.Unlock()

	if _, ok := q.s.quizzes[question.QuizID]; !ok {
		return store.ErrNotFound
	}
	q.s.nextQuestion++
	question.ID = q.s.nextQuestion
	for i := range question.Options {
		q.s.nextOption++
		question.Options[i].ID = q.s.nextOption
		question.Options[i].QuestionID = question.ID
	}
	if question.Order > q.s.maxOrder[question.QuizID] {
		q.s.maxOrder[question.QuizID] = question.Order
	}
	q.s.questions[question.ID] = cloneQuestion(*question)
	return nil
}

func (q quizStore) GetQuestion(_ context.Context, quizID, questionID uint) (*models.Question, error) {
	q.s.mu.Lock()
	defer q.s.mu.Unlock()

	question, ok := q.s.questions[questionID]
	if !ok || question.QuizID != quizID {
		return nil, store.ErrNotFound
	}
	out := cloneQuestion(question)
	return &out, nil
}

func (q quizStore) UpdateQuestion(_ context.Context, question *models.Question, options []models.Option) error {
	q.s.mu.Lock()
	defer q.s.mu.Unlock()

	stored, ok := q.s.questions[question.ID]
	if !ok {
		return store.ErrNotFound
	}
	stored.Content = question.Content
	stored.Type = question.Type
	stored.TimeLimit = question.TimeLimit
	stored.Points = question.Points
	stored.Options = nil
	for _, opt := range options {
		q.s.nextOption++
		opt.ID = q.s.nextOption
		opt.QuestionID = stored.ID
		stored.Options = append(stored.Options, opt)
	}
	q.s.questions[question.ID] = stored
	return nil
}

func (q quizStore) DeleteQuestion(_ context.Context, quizID, questionID uint) error {
	q.s.mu.Lock()
	defer q.s.mu.Unlock()

	question, ok := q.s.questions[questionID]
	if !ok || question.QuizID != quizID {
		return store.ErrNotFound
	}
	delete(q.s.questions, questionID)
	return nil
}

func (q quizStore) MaxQuestionOrder(_ context.Context, quizID uint) (int, error) {
	q.s.mu.Lock()
	defer q.s.mu.Unlock()

	return q.s.maxOrder[quizID], nil
}

func (q quizStore) HasStartedSessions(_ context.Context, quizID uint) (bool, error) {
	q.s.mu.Lock()
	defer q.s.mu.Unlock()

	for _, sess := range q.s.sessions {
		if sess.QuizID == quizID && sess.Status != models.StatusWaiting {
			return true, nil
		}
	}
	return false, nil
}

type sessionStore struct{ s *Stores }

func (st sessionStore) Create(_ context.Context, session *models.GameSession) error {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()

	if _, taken := st.s.codes[session.Code]; taken {
		return store.ErrDuplicate
	}
	st.s.nextSession++
	session.ID = st.s.nextSession
	session.CreatedAt = time.Now()
	stored := *session
	stored.Quiz = models.Quiz{}
	stored.Participants = nil
	st.s.sessions[session.ID] = stored
	st.s.codes[session.Code] = session.ID
	return nil
}

func (st sessionStore) GetByCode(_ context.Context, code string) (*models.GameSession, error) {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()

	id, ok := st.s.codes[code]
	if !ok {
		return nil, store.ErrNotFound
	}
	session := st.s.sessions[id]
	if quiz, ok := st.s.quizWithQuestions(session.QuizID); ok {
		session.Quiz = quiz
	}
	for _, userID := range st.s.roster[id] {
		session.Participants = append(session.Participants, st.s.users[userID])
	}
	return &session, nil
}

func (st sessionStore) CodeExists(_ context.Context, code string) (bool, error) {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()

	_, ok := st.s.codes[code]
	return ok, nil
}

func (st sessionStore) AddParticipant(_ context.Context, sessionID, userID uint) error {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()

	if _, ok := st.s.sessions[sessionID]; !ok {
		return store.ErrNotFound
	}
	for _, existing := range st.s.roster[sessionID] {
		if existing == userID {
			return nil
		}
	}
	st.s.roster[sessionID] = append(st.s.roster[sessionID], userID)
	return nil
}

func (st sessionStore) IsParticipant(_ context.Context, sessionID, userID uint) (bool, error) {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()

	for _, existing := range st.s.roster[sessionID] {
		if existing == userID {
			return true, nil
		}
	}
	return false, nil
}

func (st sessionStore) UpdateStatus(_ context.Context, sessionID uint, from, to models.SessionStatus, at time.Time) error {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()

	session, ok := st.s.sessions[sessionID]
	if !ok {
		return store.ErrNotFound
	}
	if session.Status != from {
		return store.ErrStale
	}
	session.Status = to
	switch to {
	case models.StatusActive:
		session.StartedAt = &at
	case models.StatusFinished:
		session.EndedAt = &at
	}
	st.s.sessions[sessionID] = session
	return nil
}

type answerStore struct{ s *Stores }

func (a answerStore) Create(_ context.Context, answer *models.Answer) error {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()

	for _, existing := range a.s.answers {
		if existing.SessionID == answer.SessionID &&
			existing.QuestionID == answer.QuestionID &&
			existing.UserID == answer.UserID {
			return store.ErrDuplicate
		}
	}
	a.s.nextAnswer++
	answer.ID = a.s.nextAnswer
	answer.CreatedAt = time.Now()
	a.s.answers = append(a.s.answers, *answer)
	return nil
}

type scoreStore struct{ s *Stores }

func (sc scoreStore) Award(_ context.Context, sessionID, userID uint, points int) error {
	sc.s.mu.Lock()
	defer sc.s.mu.Unlock()

	for i := range sc.s.scores {
		if sc.s.scores[i].SessionID == sessionID && sc.s.scores[i].UserID == userID {
			sc.s.scores[i].Points += points
			return nil
		}
	}
	sc.s.nextScore++
	sc.s.scores = append(sc.s.scores, models.Score{
		ID:        sc.s.nextScore,
		SessionID: sessionID,
		UserID:    userID,
		Points:    points,
		CreatedAt: time.Now(),
	})
	return nil
}

func (sc scoreStore) BySession(_ context.Context, sessionID uint) ([]models.Score, error) {
	sc.s.mu.Lock()
	defer sc.s.mu.Unlock()

	var out []models.Score
	for _, score := range sc.s.scores {
		if score.SessionID == sessionID {
			score.User = sc.s.users[score.UserID]
			out = append(out, score)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Points != out[j].Points {
			return out[i].Points > out[j].Points
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}
