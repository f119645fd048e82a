// Package quizwhiz is the progress and selection engine of a local
// quiz-taking application: durable keyed storage of quizzes and per-quiz
// progress, mode-dependent question selection, and answer tracking. It is an
// embedded library; the surrounding UI owns all presentation and drives the
// engine synchronously from its event loop.
package quizwhiz

import (
	"github.com/joho/godotenv"

	"github.com/cokecancook/quiz-whiz/db"
	"github.com/cokecancook/quiz-whiz/models"
	"github.com/cokecancook/quiz-whiz/quiz"
	"github.com/cokecancook/quiz-whiz/utils"
)

const (
	// EnvDBPath overrides where the quiz store lives on disk.
	EnvDBPath = "QUIZWHIZ_DB_PATH"
	// EnvTestSecondsPerQuestion overrides the test-mode time budget.
	EnvTestSecondsPerQuestion = "QUIZWHIZ_TEST_SECONDS_PER_QUESTION"

	defaultDBPath = "./quizwhiz.db"
)

// Engine bundles the quiz store, question selector, and progress tracker
// behind the API surface the UI collaborator consumes.
type Engine struct {
	store              *db.DB
	selector           *quiz.Selector
	tracker            *quiz.Tracker
	secondsPerQuestion int
}

// Open initializes the engine over a quiz store at the given path.
func Open(dbPath string) (*Engine, error) {
	store, err := db.InitDB(dbPath)
	if err != nil {
		return nil, err
	}
	return &Engine{
		store:              store,
		selector:           quiz.NewSelector(store),
		tracker:            quiz.NewTracker(store),
		secondsPerQuestion: quiz.DefaultSecondsPerQuestion,
	}, nil
}

// OpenFromEnv reads configuration from a .env file (if present) and the
// QUIZWHIZ_* environment variables, then opens the engine.
func OpenFromEnv() (*Engine, error) {
	if err := godotenv.Load(); err != nil {
		utils.LogDebug("No .env file loaded: %v", err)
	}

	engine, err := Open(utils.GetEnvOrDefault(EnvDBPath, defaultDBPath))
	if err != nil {
		return nil, err
	}
	engine.secondsPerQuestion = utils.GetEnvInt(EnvTestSecondsPerQuestion, quiz.DefaultSecondsPerQuestion)
	return engine, nil
}

// Close releases the underlying store.
func (e *Engine) Close() error {
	utils.LogShutdown("Closing quiz store")
	return e.store.Close()
}

// ListQuizzes returns all stored quizzes, newest first. Storage corruption
// degrades to an empty list.
func (e *Engine) ListQuizzes() []models.Quiz {
	return e.store.ListQuizzes()
}

// SaveQuizzes replaces the stored quiz set.
func (e *Engine) SaveQuizzes(quizzes []models.Quiz) error {
	return e.store.SaveQuizzes(quizzes)
}

// DeleteQuiz removes a quiz and its progress.
func (e *Engine) DeleteQuiz(id string) error {
	return e.store.DeleteQuiz(id)
}

// LoadProgress returns the progress record for a quiz, empty if none exists.
func (e *Engine) LoadProgress(id string) (*models.Progress, error) {
	return e.store.LoadProgress(id)
}

// SaveProgress persists a progress record.
func (e *Engine) SaveProgress(id string, progress *models.Progress) error {
	return e.store.SaveProgress(id, progress)
}

// DeleteProgress removes a quiz's progress record.
func (e *Engine) DeleteProgress(id string) error {
	return e.store.DeleteProgress(id)
}

// ImportQuiz validates an uploaded quiz document, adds the new quiz to the
// stored set, and returns it. Rejection leaves the store untouched.
func (e *Engine) ImportQuiz(sourceName string, data []byte) (*models.Quiz, error) {
	imported, err := quiz.ParseQuiz(sourceName, data)
	if err != nil {
		return nil, err
	}

	quizzes := append(e.store.ListQuizzes(), *imported)
	if err := e.store.SaveQuizzes(quizzes); err != nil {
		return nil, err
	}
	return imported, nil
}

// SelectSession returns the ordered, option-shuffled question list for a new
// session without starting one.
func (e *Engine) SelectSession(q *models.Quiz, mode models.Mode, length int) ([]models.Question, error) {
	return e.selector.Select(q, mode, length)
}

// RecordAnswer persists the outcome of one answered question.
func (e *Engine) RecordAnswer(quizID, questionText string, isCorrect bool, mode models.Mode) error {
	return e.tracker.RecordAnswer(quizID, questionText, isCorrect, mode)
}

// FinishTestSession records a completed or time-expired test's final answer
// set and returns the score.
func (e *Engine) FinishTestSession(quizID string, answered []models.AnsweredQuestion) (int, error) {
	return e.tracker.FinishTestSession(quizID, answered)
}

// NewSession selects questions and starts an active session for the quiz.
func (e *Engine) NewSession(q *models.Quiz, mode models.Mode, length int) (*quiz.Session, error) {
	return quiz.NewSessionTimed(e.store, q, mode, length, e.secondsPerQuestion)
}
