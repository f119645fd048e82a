package quiz

import (
	"errors"
	"fmt"

	"github.com/cokecancook/quiz-whiz/models"
	"github.com/cokecancook/quiz-whiz/utils"
)

// Status is the session state machine's current state.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusActive    Status = "active"
	StatusFinished  Status = "finished"
	StatusReviewing Status = "reviewing"
)

// DefaultSecondsPerQuestion is the test-mode time budget per question
// (1.5 minutes).
const DefaultSecondsPerQuestion = 90

var (
	ErrEmptySession    = errors.New("session has no questions")
	ErrNotActive       = errors.New("session is not active")
	ErrNoAnswerChosen  = errors.New("no answer selected")
	ErrAlreadyAnswered = errors.New("answer already submitted for this question")
)

// Session owns all mutable state for one run through a selected question
// list: position, answers, running score, countdown, and pause flags. All
// methods are synchronous; the caller drives Tick from its own one-second
// timer and must stop ticking once the session leaves the active state.
type Session struct {
	quiz      *models.Quiz
	mode      models.Mode
	questions []models.Question
	answers   []string // "" means unanswered
	submitted []bool   // practice/study: answer recorded, final for that question
	tracker   *Tracker

	status          Status
	current         int
	score           int
	selected        string
	showExplanation bool

	remaining      int // seconds left, test mode only; -1 when no countdown
	paused         bool
	pausedByButton bool
}

// NewSession selects questions for the given quiz and mode and starts an
// active session. A selection that comes back empty (zero length requested,
// or a quiz with no questions) refuses to start.
func NewSession(store Store, quiz *models.Quiz, mode models.Mode, length int) (*Session, error) {
	return NewSessionTimed(store, quiz, mode, length, DefaultSecondsPerQuestion)
}

// NewSessionTimed is NewSession with an explicit test-mode per-question time
// budget in seconds.
func NewSessionTimed(store Store, quiz *models.Quiz, mode models.Mode, length, secondsPerQuestion int) (*Session, error) {
	questions, err := NewSelector(store).Select(quiz, mode, length)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, ErrEmptySession
	}

	s := &Session{
		quiz:      quiz,
		mode:      mode,
		questions: questions,
		answers:   make([]string, len(questions)),
		submitted: make([]bool, len(questions)),
		tracker:   NewTracker(store),
		status:    StatusActive,
		remaining: -1,
	}
	if mode == models.ModeTest {
		s.remaining = len(questions) * secondsPerQuestion
	}

	utils.LogSession("Session started: quiz %s, mode %s, %d questions",
		quiz.ID, mode, len(questions))
	return s, nil
}

func (s *Session) Status() Status           { return s.status }
func (s *Session) Mode() models.Mode        { return s.mode }
func (s *Session) Score() int               { return s.score }
func (s *Session) Length() int              { return len(s.questions) }
func (s *Session) CurrentIndex() int        { return s.current }
func (s *Session) SelectedAnswer() string   { return s.selected }
func (s *Session) ShowingExplanation() bool { return s.showExplanation }
func (s *Session) Remaining() int           { return s.remaining }
func (s *Session) Paused() bool             { return s.paused }

// CurrentQuestion returns the question at the session cursor.
func (s *Session) CurrentQuestion() models.Question {
	return s.questions[s.current]
}

// Questions returns the session's presentation-ordered question list.
func (s *Session) Questions() []models.Question {
	out := make([]models.Question, len(s.questions))
	copy(out, s.questions)
	return out
}

// SelectAnswer records the user's choice for the current question. In
// practice and study the choice is provisional until Submit and ignored once
// the explanation is showing. In test mode the answer may be changed any
// number of times; the running score is recomputed from scratch on every
// change so a later change supersedes an earlier one.
func (s *Session) SelectAnswer(answer string) error {
	if s.status != StatusActive {
		return ErrNotActive
	}
	if s.mode != models.ModeTest && s.submitted[s.current] {
		return nil
	}

	s.selected = answer
	s.answers[s.current] = answer

	if s.mode == models.ModeTest {
		s.score = s.scanScore()
	}
	return nil
}

// Submit finalizes the current practice/study answer: the statistic and a
// one-question attempt are persisted, the running score updates, and the
// explanation is shown. Once submitted the answer is final for that
// question. A failed persist leaves the question open so the user can retry
// by submitting again.
func (s *Session) Submit() error {
	if s.status != StatusActive {
		return ErrNotActive
	}
	if s.mode == models.ModeTest {
		return fmt.Errorf("test sessions score at the end, not per question")
	}
	// The submitted flag, not the explanation, is what makes an answer
	// final: navigating away and back clears the explanation but must not
	// allow the same question to be recorded twice.
	if s.submitted[s.current] {
		return ErrAlreadyAnswered
	}
	if s.selected == "" {
		return ErrNoAnswerChosen
	}

	isCorrect := s.selected == s.CurrentQuestion().CorrectAnswer
	if err := s.tracker.RecordAnswer(s.quiz.ID, s.CurrentQuestion().Question, isCorrect, s.mode); err != nil {
		return err
	}

	if isCorrect {
		s.score++
	}
	s.submitted[s.current] = true
	s.showExplanation = true
	return nil
}

// Next advances the cursor, restoring the stored answer in test mode and
// clearing selection and explanation otherwise. Advancing past the last
// question finishes the session.
func (s *Session) Next() error {
	if s.status != StatusActive {
		return ErrNotActive
	}

	if s.current < len(s.questions)-1 {
		s.current++
		if s.mode == models.ModeTest {
			s.selected = s.answers[s.current]
		} else {
			s.selected = ""
			s.showExplanation = false
		}
		return nil
	}
	return s.Finish()
}

// Prev moves the cursor back one question, restoring that question's stored
// answer.
func (s *Session) Prev() error {
	if s.status != StatusActive {
		return ErrNotActive
	}

	if s.current > 0 {
		s.current--
		s.selected = s.answers[s.current]
		if s.mode != models.ModeTest {
			s.showExplanation = false
		}
	}
	return nil
}

// Finish ends the session. A test session scores by scanning the final
// answer set, with unanswered questions counted incorrect, and logs exactly
// one aggregate attempt; practice and study keep the running score, their
// attempts having been logged per question.
func (s *Session) Finish() error {
	if s.status != StatusActive {
		return ErrNotActive
	}

	if s.mode == models.ModeTest {
		finalScore, err := s.tracker.FinishTestSession(s.quiz.ID, s.answeredQuestions())
		if err != nil {
			return err
		}
		s.score = finalScore
	}

	s.status = StatusFinished
	s.remaining = -1
	s.paused = false
	s.pausedByButton = false

	utils.LogSession("Session finished: quiz %s, mode %s, score %d/%d",
		s.quiz.ID, s.mode, s.score, len(s.questions))
	return nil
}

// Tick applies one second of test-mode countdown. Ticks are ignored outside
// an active unpaused test; reaching zero finishes the session automatically.
func (s *Session) Tick() error {
	if s.status != StatusActive || s.mode != models.ModeTest || s.paused || s.remaining < 0 {
		return nil
	}

	s.remaining--
	if s.remaining <= 0 {
		utils.LogSession("Time expired for quiz %s, finishing test", s.quiz.ID)
		return s.Finish()
	}
	return nil
}

// Pause freezes the countdown. byButton distinguishes an explicit user pause
// from one triggered by the application losing visibility.
func (s *Session) Pause(byButton bool) {
	if s.status != StatusActive {
		return
	}
	s.paused = true
	if byButton {
		s.pausedByButton = true
	}
}

// Resume dismisses a pause and lets ticks flow again.
func (s *Session) Resume(byButton bool) {
	s.paused = false
	if byButton {
		s.pausedByButton = false
	}
}

// PauseOnHide pauses an active test when the application loses visibility,
// unless the user had already paused by button (in which case the existing
// pause stands on its own).
func (s *Session) PauseOnHide() {
	if s.status == StatusActive && s.mode == models.ModeTest && !s.pausedByButton {
		s.Pause(false)
	}
}

// Review transitions a finished session to the reviewing state and returns
// the question/answer pairs in presentation order.
func (s *Session) Review() ([]models.AnsweredQuestion, error) {
	if s.status != StatusFinished {
		return nil, fmt.Errorf("cannot review a %s session", s.status)
	}
	s.status = StatusReviewing
	return s.answeredQuestions(), nil
}

// CloseReview returns a reviewing session to finished.
func (s *Session) CloseReview() {
	if s.status == StatusReviewing {
		s.status = StatusFinished
	}
}

// Restart discards the session, returning it to idle. The question list and
// answers are dropped; progress already persisted is unaffected.
func (s *Session) Restart() {
	s.status = StatusIdle
	s.questions = nil
	s.answers = nil
	s.submitted = nil
	s.current = 0
	s.score = 0
	s.selected = ""
	s.showExplanation = false
	s.remaining = -1
	s.paused = false
	s.pausedByButton = false
}

func (s *Session) answeredQuestions() []models.AnsweredQuestion {
	answered := make([]models.AnsweredQuestion, len(s.questions))
	for i, q := range s.questions {
		answered[i] = models.AnsweredQuestion{Question: q, UserAnswer: s.answers[i]}
	}
	return answered
}

// scanScore recomputes the test-mode running score from the full answer set.
func (s *Session) scanScore() int {
	score := 0
	for i, answer := range s.answers {
		if answer != "" && answer == s.questions[i].CorrectAnswer {
			score++
		}
	}
	return score
}
