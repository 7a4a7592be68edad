package game

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quizroom/models"
)

var codePattern = regexp.MustCompile(`^[A-Z0-9]{6}$`)

// existsFunc fakes only the existence pre-check; the remaining SessionStore
// methods are never reached by the allocator.
type existsFunc func(code string) bool

func (f existsFunc) Create(context.Context, *models.GameSession) error { panic("not used") }
func (f existsFunc) GetByCode(context.Context, string) (*models.GameSession, error) {
	panic("not used")
}
func (f existsFunc) AddParticipant(context.Context, uint, uint) error { panic("not used") }
func (f existsFunc) IsParticipant(context.Context, uint, uint) (bool, error) {
	panic("not used")
}
func (f existsFunc) UpdateStatus(context.Context, uint, models.SessionStatus, models.SessionStatus, time.Time) error {
	panic("not used")
}

func (f existsFunc) CodeExists(_ context.Context, code string) (bool, error) {
	return f(code), nil
}

func TestCodeAllocator_Allocate(t *testing.T) {
	allocator := NewCodeAllocator(existsFunc(func(string) bool { return false }))

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code, err := allocator.Allocate(context.Background())
		require.NoError(t, err)
		assert.Regexp(t, codePattern, code)
		seen[code] = true
	}
	// 50 draws from a 36^6 space colliding would point at a broken generator.
	assert.Len(t, seen, 50)
}

func TestCodeAllocator_RetriesOnCollision(t *testing.T) {
	calls := 0
	allocator := NewCodeAllocator(existsFunc(func(string) bool {
		calls++
		return calls <= 3
	}))

	code, err := allocator.Allocate(context.Background())
	require.NoError(t, err)
	assert.Regexp(t, codePattern, code)
	assert.Equal(t, 4, calls)
}

func TestCodeAllocator_Exhausted(t *testing.T) {
	allocator := NewCodeAllocator(existsFunc(func(string) bool { return true }))

	_, err := allocator.Allocate(context.Background())
	require.Error(t, err)
	assert.Equal(t, KindAllocationExhausted, KindOf(err))
}
