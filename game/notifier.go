package game

// Session event names broadcast to connected participants.
const (
	EventParticipantJoined = "participant_joined"
	EventSessionStarted    = "session_started"
	EventAnswerScored      = "answer_scored"
	EventSessionEnded      = "session_ended"
)

// Notifier pushes session events to connected participants. Delivery is
// best-effort: implementations must not block, and a failed broadcast never
// rolls back the state change that produced it.
type Notifier interface {
	Broadcast(sessionCode string, event string, payload any)
}

// NopNotifier discards all events.
type NopNotifier struct{}

func (NopNotifier) Broadcast(string, string, any) {}
