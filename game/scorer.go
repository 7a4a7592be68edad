package game

import (
	"quizroom/models"
)

// AnswerScorer grades a submitted answer against the question's options.
type AnswerScorer struct{}

// Score awards the question's point value when the selected option is the
// question's single correct option, 0 for a wrong answer. An option that
// does not belong to the question is a malformed request, not a wrong
// answer, and yields KindInvalidOption.
func (AnswerScorer) Score(question *models.Question, selectedOptionID uint) (int, error) {
	var selected *models.Option
	correct := 0
	for i := range question.Options {
		if question.Options[i].IsCorrect {
			correct++
		}
		if question.Options[i].ID == selectedOptionID {
			selected = &question.Options[i]
		}
	}

	if selected == nil {
		return 0, E(KindInvalidOption, "option %d does not belong to question %d", selectedOptionID, question.ID)
	}

	// A question without exactly one correct option is broken data; every
	// selection scores 0 rather than failing the request.
	if correct != 1 || !selected.IsCorrect {
		return 0, nil
	}

	return question.Points, nil
}
