package game

import (
	"quizroom/models"
)

// StateMachine owns the legality checks for the session lifecycle:
// WAITING -> ACTIVE -> FINISHED, strictly linear, no backward transitions.
//
// These checks gate each operation up front; the state-changing writes are
// additionally re-validated by the store's conditional update, so a check
// passing here never authorizes a double-apply.
type StateMachine struct{}

// CheckJoin allows joining only while the session is waiting.
func (StateMachine) CheckJoin(sess *models.GameSession) error {
	if sess.Status != models.StatusWaiting {
		return E(KindInvalidState, "session %s is %s, joining is only allowed while waiting", sess.Code, sess.Status)
	}
	return nil
}

// CheckStart allows the owning quiz's owner to start a waiting session.
func (StateMachine) CheckStart(sess *models.GameSession, requesterID uint) error {
	if sess.Quiz.OwnerID != requesterID {
		return E(KindForbidden, "only the quiz owner may start session %s", sess.Code)
	}
	if sess.Status != models.StatusWaiting {
		return E(KindInvalidState, "session %s is %s, it can only be started while waiting", sess.Code, sess.Status)
	}
	return nil
}

// CheckSubmit allows answer submission by members of an active session.
func (StateMachine) CheckSubmit(sess *models.GameSession, isMember bool) error {
	if sess.Status != models.StatusActive {
		return E(KindInvalidState, "session %s is %s, answers are only accepted while active", sess.Code, sess.Status)
	}
	if !isMember {
		return E(KindNotAMember, "caller has not joined session %s", sess.Code)
	}
	return nil
}

// CheckEnd allows the owning quiz's owner to end an active session.
func (StateMachine) CheckEnd(sess *models.GameSession, requesterID uint) error {
	if sess.Quiz.OwnerID != requesterID {
		return E(KindForbidden, "only the quiz owner may end session %s", sess.Code)
	}
	if sess.Status != models.StatusActive {
		return E(KindInvalidState, "session %s is %s, it can only be ended while active", sess.Code, sess.Status)
	}
	return nil
}
