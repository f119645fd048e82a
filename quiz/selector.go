package quiz

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/cokecancook/quiz-whiz/models"
	"github.com/cokecancook/quiz-whiz/utils"
)

// Store is the slice of the quiz store the engine depends on.
type Store interface {
	LoadProgress(id string) (*models.Progress, error)
	SaveProgress(id string, progress *models.Progress) error
}

// Selector produces the ordered question list for a new session.
type Selector struct {
	store Store
	rng   *rand.Rand
}

func NewSelector(store Store) *Selector {
	return newSelector(store, rand.New(rand.NewSource(time.Now().UnixNano())))
}

func newSelector(store Store, rng *rand.Rand) *Selector {
	return &Selector{store: store, rng: rng}
}

// Select returns the questions to present for a session of the given mode,
// each with its options independently shuffled. The requested length is
// clamped to the available question count; a quiz with no questions yields
// an empty session in every mode. Once returned, the session list is the
// single source of truth — no link to the canonical quiz order is kept.
func (s *Selector) Select(quiz *models.Quiz, mode models.Mode, length int) ([]models.Question, error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("unknown session mode %q", mode)
	}

	available := len(quiz.Questions)
	if length > available {
		utils.LogSession("Requested %d questions from quiz %s but only %d available, clamping",
			length, quiz.ID, available)
		length = available
	}
	if length < 0 {
		length = 0
	}

	var pool []models.Question
	if mode == models.ModeStudy {
		ranked, err := s.rankByPerformance(quiz)
		if err != nil {
			return nil, err
		}
		pool = ranked
	} else {
		pool = s.shuffleQuestions(quiz.Questions)
	}

	selected := make([]models.Question, length)
	for i, q := range pool[:length] {
		q.Options = s.shuffleOptions(q.Options)
		selected[i] = q
	}

	utils.LogSession("Selected %d/%d questions from quiz %s (mode: %s)",
		length, available, quiz.ID, mode)
	return selected, nil
}

// rankByPerformance orders questions ascending by observed correct ratio so
// the weakest come first. Never-answered questions rank as 1.0 and land
// last. The pre-shuffle gives tied questions a random relative order, which
// keeps repeated study sessions from drilling ties in a fixed order.
func (s *Selector) rankByPerformance(quiz *models.Quiz) ([]models.Question, error) {
	progress, err := s.store.LoadProgress(quiz.ID)
	if err != nil {
		return nil, err
	}

	ranked := s.shuffleQuestions(quiz.Questions)
	sort.SliceStable(ranked, func(i, j int) bool {
		return progress.StatFor(ranked[i].Question).Performance() <
			progress.StatFor(ranked[j].Question).Performance()
	})
	return ranked, nil
}

// shuffleQuestions returns a uniformly random permutation of questions,
// leaving the input untouched.
func (s *Selector) shuffleQuestions(questions []models.Question) []models.Question {
	shuffled := make([]models.Question, len(questions))
	copy(shuffled, questions)

	// Fisher-Yates shuffle
	for i := len(shuffled) - 1; i > 0; i-- {
		j := s.rng.Intn(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	return shuffled
}

// shuffleOptions randomizes option order so positions cannot be memorized.
// The correct answer travels by value, so checking is unaffected.
func (s *Selector) shuffleOptions(options []string) []string {
	if len(options) <= 1 {
		return options
	}

	shuffled := make([]string, len(options))
	copy(shuffled, options)

	for i := len(shuffled) - 1; i > 0; i-- {
		j := s.rng.Intn(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	return shuffled
}
