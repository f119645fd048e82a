package models

import "time"

// Mode is the way a session presents questions and feedback.
type Mode string

const (
	ModePractice Mode = "practice" // immediate per-question feedback
	ModeTest     Mode = "test"     // timed, deferred feedback, answers changeable
	ModeStudy    Mode = "study"    // adaptive selection by weak performance
)

// Valid reports whether m is one of the three known modes.
func (m Mode) Valid() bool {
	return m == ModePractice || m == ModeTest || m == ModeStudy
}

// Question is a single multiple-choice question. Questions are immutable once
// part of a quiz. Statistics key on the question text, so two questions with
// identical text are indistinguishable to the tracker — a stable per-question
// id assigned at import would fix that.
type Question struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
}

// QuizData is the import document consumed from the file-upload collaborator.
type QuizData struct {
	Questions []Question `json:"questions"`
}

// Quiz is a stored quiz. The Questions order is the canonical storage order,
// distinct from any session's presentation order. History is the legacy
// embedded attempt log from the first storage layout; the store migrates it
// into the external Progress record on load and keeps it empty afterwards.
type Quiz struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Questions []Question `json:"questions"`
	CreatedAt time.Time  `json:"date"`
	History   []Attempt  `json:"history,omitempty"`
}

// Attempt is one logged record of questions answered and how many were
// correct. Practice and study append one per answered question; test appends
// one per completed session.
type Attempt struct {
	Date              time.Time `json:"date"`
	QuestionsAnswered int       `json:"questionsAnswered"`
	CorrectAnswers    int       `json:"correctAnswers"`
}

// QuestionStats accumulates answers for one distinct question text.
// Invariant: Correct <= Total.
type QuestionStats struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
}

// Performance returns the observed correct ratio. A question never yet
// answered reports 1.0 so that study mode ranks it last: the goal is
// remediation of known-weak questions, not coverage of unseen ones.
func (s QuestionStats) Performance() float64 {
	if s.Total == 0 {
		return 1.0
	}
	return float64(s.Correct) / float64(s.Total)
}

// Progress is the per-quiz progress record: the append-only attempt history
// and the per-question-text statistics. Created lazily on first answer,
// deleted only with its owning quiz.
type Progress struct {
	History       []Attempt                `json:"history"`
	QuestionStats map[string]QuestionStats `json:"questionStats"`
}

// NewProgress returns an empty progress record, the defined state for a quiz
// with no recorded answers.
func NewProgress() *Progress {
	return &Progress{
		History:       []Attempt{},
		QuestionStats: make(map[string]QuestionStats),
	}
}

// StatFor returns the stats recorded for the given question text, zero-valued
// if the question has never been answered.
func (p *Progress) StatFor(questionText string) QuestionStats {
	return p.QuestionStats[questionText]
}

// AnsweredQuestion pairs a session question with the user's final answer.
// An empty UserAnswer means the question was left unanswered.
type AnsweredQuestion struct {
	Question   Question
	UserAnswer string
}

// Correct reports whether the recorded answer matches the question's correct
// answer. Unanswered questions count as incorrect.
func (a AnsweredQuestion) Correct() bool {
	return a.UserAnswer != "" && a.UserAnswer == a.Question.CorrectAnswer
}
