package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quizroom/models"
)

func sessionIn(status models.SessionStatus) *models.GameSession {
	return &models.GameSession{
		Code:   "X7K2M9",
		Status: status,
		Quiz:   models.Quiz{OwnerID: 1},
	}
}

func TestStateMachine_Join(t *testing.T) {
	var sm StateMachine

	require.NoError(t, sm.CheckJoin(sessionIn(models.StatusWaiting)))
	assert.Equal(t, KindInvalidState, KindOf(sm.CheckJoin(sessionIn(models.StatusActive))))
	assert.Equal(t, KindInvalidState, KindOf(sm.CheckJoin(sessionIn(models.StatusFinished))))
}

func TestStateMachine_Start(t *testing.T) {
	var sm StateMachine

	require.NoError(t, sm.CheckStart(sessionIn(models.StatusWaiting), 1))
	assert.Equal(t, KindForbidden, KindOf(sm.CheckStart(sessionIn(models.StatusWaiting), 2)))
	assert.Equal(t, KindInvalidState, KindOf(sm.CheckStart(sessionIn(models.StatusActive), 1)))
	assert.Equal(t, KindInvalidState, KindOf(sm.CheckStart(sessionIn(models.StatusFinished), 1)))
}

func TestStateMachine_Submit(t *testing.T) {
	var sm StateMachine

	require.NoError(t, sm.CheckSubmit(sessionIn(models.StatusActive), true))
	assert.Equal(t, KindNotAMember, KindOf(sm.CheckSubmit(sessionIn(models.StatusActive), false)))
	assert.Equal(t, KindInvalidState, KindOf(sm.CheckSubmit(sessionIn(models.StatusWaiting), true)))
	assert.Equal(t, KindInvalidState, KindOf(sm.CheckSubmit(sessionIn(models.StatusFinished), true)))
}

func TestStateMachine_End(t *testing.T) {
	var sm StateMachine

	require.NoError(t, sm.CheckEnd(sessionIn(models.StatusActive), 1))
	assert.Equal(t, KindForbidden, KindOf(sm.CheckEnd(sessionIn(models.StatusActive), 2)))
	assert.Equal(t, KindInvalidState, KindOf(sm.CheckEnd(sessionIn(models.StatusWaiting), 1)))
	assert.Equal(t, KindInvalidState, KindOf(sm.CheckEnd(sessionIn(models.StatusFinished), 1)))
}
