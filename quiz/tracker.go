package quiz

import (
	"time"

	"github.com/cokecancook/quiz-whiz/models"
	"github.com/cokecancook/quiz-whiz/utils"
)

// Tracker converts answer events into persisted statistics and history.
// Every mutation is written through the store before the call returns; a
// crash between update and persistence loses at most that single event.
type Tracker struct {
	store Store
}

func NewTracker(store Store) *Tracker {
	return &Tracker{store: store}
}

// RecordAnswer updates the statistic for the given question text, creating
// it on first answer. Practice and study additionally log a one-question
// attempt; test-mode attempts are logged once per session by
// FinishTestSession instead.
func (t *Tracker) RecordAnswer(quizID, questionText string, isCorrect bool, mode models.Mode) error {
	progress, err := t.store.LoadProgress(quizID)
	if err != nil {
		return err
	}

	stat := progress.QuestionStats[questionText]
	stat.Total++
	if isCorrect {
		stat.Correct++
	}
	progress.QuestionStats[questionText] = stat

	if mode != models.ModeTest {
		correct := 0
		if isCorrect {
			correct = 1
		}
		progress.History = append(progress.History, models.Attempt{
			Date:              time.Now(),
			QuestionsAnswered: 1,
			CorrectAnswers:    correct,
		})
	}

	if err := t.store.SaveProgress(quizID, progress); err != nil {
		return err
	}

	utils.LogSession("Recorded answer for quiz %s (mode: %s, correct: %t, stat: %d/%d)",
		quizID, mode, isCorrect, stat.Correct, stat.Total)
	return nil
}

// FinishTestSession records the final answer set of a completed or
// time-expired test: every question's statistic is updated, unanswered
// questions count as incorrect, and exactly one aggregate attempt covering
// the whole session is appended. Returns the final score.
func (t *Tracker) FinishTestSession(quizID string, answered []models.AnsweredQuestion) (int, error) {
	finalScore := 0
	for _, a := range answered {
		isCorrect := a.Correct()
		if isCorrect {
			finalScore++
		}
		if err := t.RecordAnswer(quizID, a.Question.Question, isCorrect, models.ModeTest); err != nil {
			return 0, err
		}
	}

	progress, err := t.store.LoadProgress(quizID)
	if err != nil {
		return 0, err
	}
	progress.History = append(progress.History, models.Attempt{
		Date:              time.Now(),
		QuestionsAnswered: len(answered),
		CorrectAnswers:    finalScore,
	})
	if err := t.store.SaveProgress(quizID, progress); err != nil {
		return 0, err
	}

	utils.LogSession("Test session finished for quiz %s: %d/%d correct",
		quizID, finalScore, len(answered))
	return finalScore, nil
}
