package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quizroom/models"
)

func TestAnswerScorer_Score(t *testing.T) {
	question := &models.Question{
		ID:     7,
		Points: 100,
		Options: []models.Option{
			{ID: 1, Content: "A", IsCorrect: true},
			{ID: 2, Content: "B"},
			{ID: 3, Content: "C"},
		},
	}

	tests := map[string]struct {
		question   *models.Question
		optionID   uint
		wantPoints int
		wantKind   Kind
	}{
		"correct option awards the question's points": {
			question:   question,
			optionID:   1,
			wantPoints: 100,
		},
		"wrong option awards zero": {
			question:   question,
			optionID:   2,
			wantPoints: 0,
		},
		"option from another question is a malformed request": {
			question: question,
			optionID: 99,
			wantKind: KindInvalidOption,
		},
		"question with no correct option scores zero for any selection": {
			question: &models.Question{
				ID:     8,
				Points: 50,
				Options: []models.Option{
					{ID: 4, Content: "A"},
					{ID: 5, Content: "B"},
				},
			},
			optionID:   4,
			wantPoints: 0,
		},
		"question with two correct options scores zero even for a correct one": {
			question: &models.Question{
				ID:     9,
				Points: 50,
				Options: []models.Option{
					{ID: 6, Content: "A", IsCorrect: true},
					{ID: 7, Content: "B", IsCorrect: true},
				},
			},
			optionID:   6,
			wantPoints: 0,
		},
	}

	var scorer AnswerScorer
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			points, err := scorer.Score(tt.question, tt.optionID)
			if tt.wantKind != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantKind, KindOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantPoints, points)
		})
	}
}
