package game

import (
	"context"
	"crypto/rand"
	"math/big"

	"quizroom/store"
)

const (
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	// CodeLength is the length of a session join code. 36^6 candidates.
	CodeLength = 6

	maxCodeAttempts = 20
)

// CodeAllocator mints join codes that are unique across all stored
// sessions, active or not, since codes are kept permanently.
type CodeAllocator struct {
	sessions store.SessionStore
}

func NewCodeAllocator(sessions store.SessionStore) *CodeAllocator {
	return &CodeAllocator{sessions: sessions}
}

// Allocate returns a code not currently assigned to any session. The
// existence pre-check is racy under concurrent allocation; the insert-time
// uniqueness constraint is the authority, and the caller retries on
// store.ErrDuplicate.
func (a *CodeAllocator) Allocate(ctx context.Context) (string, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := randomCode()
		if err != nil {
			return "", Unavailable(err, "generate code")
		}

		exists, err := a.sessions.CodeExists(ctx, code)
		if err != nil {
			return "", Unavailable(err, "check code")
		}
		if !exists {
			return code, nil
		}
	}

	return "", E(KindAllocationExhausted, "no free join code after %d attempts", maxCodeAttempts)
}

func randomCode() (string, error) {
	buf := make([]byte, CodeLength)
	for i := range buf {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(codeAlphabet))))
		if err != nil {
			return "", err
		}
		buf[i] = codeAlphabet[n.Int64()]
	}
	return string(buf), nil
}
