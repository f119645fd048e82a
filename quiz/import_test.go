package quiz

import (
	"errors"
	"strings"
	"testing"

	"github.com/cokecancook/quiz-whiz/models"
)

const validImport = `{
	"questions": [
		{
			"question": "What is the capital of France?",
			"options": ["Paris", "Lyon", "Marseille", "Nice"],
			"correct_answer": "Paris",
			"explanation": "Paris has been the capital since 987."
		},
		{
			"question": "2 + 2 = ?",
			"options": ["3", "4"],
			"correct_answer": "4",
			"explanation": "Basic arithmetic."
		}
	]
}`

func TestParseQuizValid(t *testing.T) {
	quiz, err := ParseQuiz("geography.json", []byte(validImport))
	if err != nil {
		t.Fatalf("ParseQuiz error: %v", err)
	}

	if quiz.ID == "" {
		t.Error("imported quiz has no id")
	}
	if quiz.Name != "geography" {
		t.Errorf("name = %q, want %q (\".json\" stripped)", quiz.Name, "geography")
	}
	if len(quiz.Questions) != 2 {
		t.Fatalf("imported %d questions, want 2", len(quiz.Questions))
	}
	if quiz.Questions[0].CorrectAnswer != "Paris" {
		t.Errorf("correct_answer = %q, want Paris", quiz.Questions[0].CorrectAnswer)
	}
	if quiz.CreatedAt.IsZero() {
		t.Error("createdAt not set on import")
	}
	if len(quiz.History) != 0 {
		t.Error("imported quiz should have no legacy history")
	}
}

func TestParseQuizUniqueIDs(t *testing.T) {
	a, err := ParseQuiz("a.json", []byte(validImport))
	if err != nil {
		t.Fatalf("ParseQuiz error: %v", err)
	}
	b, err := ParseQuiz("a.json", []byte(validImport))
	if err != nil {
		t.Fatalf("ParseQuiz error: %v", err)
	}
	if a.ID == b.ID {
		t.Errorf("two imports share id %q", a.ID)
	}
}

func TestParseQuizRejections(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"not json", `{"questions": [`, "not valid JSON"},
		{"missing questions", `{"name": "x"}`, "missing 'questions'"},
		{"null questions", `{"questions": null}`, "missing 'questions'"},
		{"questions not a sequence", `{"questions": {"a": 1}}`, "must be an array"},
		{"questions wrong element type", `{"questions": [42]}`, "must be an array"},
		{"empty question text", `{"questions": [{"question": "   ", "options": ["a","b"], "correct_answer": "a", "explanation": ""}]}`, "empty question text"},
		{"single option", `{"questions": [{"question": "q", "options": ["a"], "correct_answer": "a", "explanation": ""}]}`, "at least two options"},
		{"duplicate options", `{"questions": [{"question": "q", "options": ["a","a","b"], "correct_answer": "a", "explanation": ""}]}`, "duplicate option"},
		{"empty option", `{"questions": [{"question": "q", "options": ["a",""], "correct_answer": "a", "explanation": ""}]}`, "empty option text"},
		{"blank option", `{"questions": [{"question": "q", "options": ["a","  "], "correct_answer": "a", "explanation": ""}]}`, "empty option text"},
		{"answer not an option", `{"questions": [{"question": "q", "options": ["a","b"], "correct_answer": "c", "explanation": ""}]}`, "not one of the options"},
	}

	for _, tt := range tests {
		_, err := ParseQuiz(tt.name, []byte(tt.doc))
		if err == nil {
			t.Errorf("%s: import accepted, want rejection", tt.name)
			continue
		}
		var importErr *models.ImportError
		if !errors.As(err, &importErr) {
			t.Errorf("%s: error %T, want *models.ImportError", tt.name, err)
			continue
		}
		if !strings.Contains(err.Error(), tt.want) {
			t.Errorf("%s: error %q does not mention %q", tt.name, err, tt.want)
		}
	}
}

func TestParseQuizAtomicRejection(t *testing.T) {
	// One bad question among good ones rejects the whole document.
	doc := `{
		"questions": [
			{"question": "fine", "options": ["a","b"], "correct_answer": "a", "explanation": ""},
			{"question": "broken", "options": ["a"], "correct_answer": "a", "explanation": ""},
			{"question": "also broken", "options": ["a","b"], "correct_answer": "z", "explanation": ""}
		]
	}`

	_, err := ParseQuiz("mixed.json", []byte(doc))
	var importErr *models.ImportError
	if !errors.As(err, &importErr) {
		t.Fatalf("error = %v, want *models.ImportError", err)
	}
	if len(importErr.Reasons) != 2 {
		t.Errorf("reported %d problems, want 2: %v", len(importErr.Reasons), importErr.Reasons)
	}
}
