package quiz

import (
	"fmt"

	"github.com/cokecancook/quiz-whiz/models"
)

// memStore is an in-memory Store for engine tests.
type memStore struct {
	progress map[string]*models.Progress
	saveErr  error
}

func newMemStore() *memStore {
	return &memStore{progress: make(map[string]*models.Progress)}
}

func (m *memStore) LoadProgress(id string) (*models.Progress, error) {
	stored, ok := m.progress[id]
	if !ok {
		return models.NewProgress(), nil
	}
	// Hand out a copy so callers mutate only via SaveProgress.
	out := models.NewProgress()
	out.History = append(out.History, stored.History...)
	for k, v := range stored.QuestionStats {
		out.QuestionStats[k] = v
	}
	return out, nil
}

func (m *memStore) SaveProgress(id string, progress *models.Progress) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.progress[id] = progress
	return nil
}

// makeQuiz builds a quiz with n questions Q1..Qn. Each question's correct
// answer is its own "<text> A" option, so tests can tell correct from wrong
// for any shuffled question.
func makeQuiz(n int) *models.Quiz {
	questions := make([]models.Question, n)
	for i := range questions {
		text := fmt.Sprintf("Q%d", i+1)
		questions[i] = models.Question{
			Question:      text,
			Options:       []string{text + " A", text + " B", text + " C", text + " D"},
			CorrectAnswer: text + " A",
			Explanation:   "because " + text,
		}
	}
	return &models.Quiz{ID: "quiz-1", Name: "test quiz", Questions: questions}
}

// wrongAnswer returns an option of q that is not the correct answer.
func wrongAnswer(q models.Question) string {
	for _, opt := range q.Options {
		if opt != q.CorrectAnswer {
			return opt
		}
	}
	return ""
}
