package game

import (
	"context"

	"quizroom/store"
)

// ScoreLedger accumulates per-participant points within a session. Totals
// only ever grow; repeated awards for the same key add up regardless of
// order.
type ScoreLedger struct {
	scores store.ScoreStore
}

func NewScoreLedger(scores store.ScoreStore) *ScoreLedger {
	return &ScoreLedger{scores: scores}
}

// Award adds points to the (session, participant) running total, creating
// the score row on first award. The increment is applied atomically at the
// persistence layer.
func (l *ScoreLedger) Award(ctx context.Context, sessionID, userID uint, points int) error {
	if err := l.scores.Award(ctx, sessionID, userID, points); err != nil {
		return Unavailable(err, "award points")
	}
	return nil
}

// Standing is one row of a session's ranking.
type Standing struct {
	UserID uint   `json:"user_id"`
	Name   string `json:"name"`
	Points int    `json:"points"`
}

// Rank returns the session's standings, points descending, ties broken by
// first-scored-first.
func (l *ScoreLedger) Rank(ctx context.Context, sessionID uint) ([]Standing, error) {
	rows, err := l.scores.BySession(ctx, sessionID)
	if err != nil {
		return nil, Unavailable(err, "load scores")
	}

	standings := make([]Standing, 0, len(rows))
	for _, row := range rows {
		standings = append(standings, Standing{
			UserID: row.UserID,
			Name:   row.User.Name,
			Points: row.Points,
		})
	}
	return standings, nil
}
