package quizwhiz

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/cokecancook/quiz-whiz/models"
	"github.com/cokecancook/quiz-whiz/quiz"
)

const importDoc = `{
	"questions": [
		{"question": "Q1", "options": ["a","b","c"], "correct_answer": "a", "explanation": "e1"},
		{"question": "Q2", "options": ["a","b","c"], "correct_answer": "b", "explanation": "e2"},
		{"question": "Q3", "options": ["a","b","c"], "correct_answer": "c", "explanation": "e3"}
	]
}`

func openTestEngine(t *testing.T) *Engine {
	t.Helper()
	engine, err := Open(filepath.Join(t.TempDir(), "quizwhiz.db"))
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	t.Cleanup(func() { engine.Close() })
	return engine
}

func TestImportThenListRoundTrip(t *testing.T) {
	engine := openTestEngine(t)

	imported, err := engine.ImportQuiz("biology.json", []byte(importDoc))
	if err != nil {
		t.Fatalf("ImportQuiz error: %v", err)
	}

	quizzes := engine.ListQuizzes()
	if len(quizzes) != 1 {
		t.Fatalf("listed %d quizzes, want 1", len(quizzes))
	}
	if quizzes[0].ID != imported.ID || quizzes[0].Name != "biology" {
		t.Errorf("listed quiz = %+v, want imported %+v", quizzes[0], imported)
	}
	if len(quizzes[0].Questions) != 3 {
		t.Errorf("stored %d questions, want 3", len(quizzes[0].Questions))
	}
}

func TestImportRejectionLeavesStoreUntouched(t *testing.T) {
	engine := openTestEngine(t)

	_, err := engine.ImportQuiz("broken.json", []byte(`{"name": "no questions"}`))
	var importErr *models.ImportError
	if !errors.As(err, &importErr) {
		t.Fatalf("error = %v, want *models.ImportError", err)
	}
	if quizzes := engine.ListQuizzes(); len(quizzes) != 0 {
		t.Errorf("rejected import left %d quizzes behind", len(quizzes))
	}
}

func TestFullPracticeSessionThroughEngine(t *testing.T) {
	engine := openTestEngine(t)

	imported, err := engine.ImportQuiz("drill.json", []byte(importDoc))
	if err != nil {
		t.Fatalf("ImportQuiz error: %v", err)
	}

	session, err := engine.NewSession(imported, models.ModePractice, 3)
	if err != nil {
		t.Fatalf("NewSession error: %v", err)
	}

	for session.Status() == quiz.StatusActive {
		q := session.CurrentQuestion()
		if err := session.SelectAnswer(q.CorrectAnswer); err != nil {
			t.Fatalf("SelectAnswer error: %v", err)
		}
		if err := session.Submit(); err != nil {
			t.Fatalf("Submit error: %v", err)
		}
		if err := session.Next(); err != nil {
			t.Fatalf("Next error: %v", err)
		}
	}

	if session.Score() != 3 {
		t.Errorf("score = %d, want 3", session.Score())
	}

	progress, err := engine.LoadProgress(imported.ID)
	if err != nil {
		t.Fatalf("LoadProgress error: %v", err)
	}
	if len(progress.History) != 3 {
		t.Errorf("history has %d attempts, want 3", len(progress.History))
	}
	for _, text := range []string{"Q1", "Q2", "Q3"} {
		stat := progress.QuestionStats[text]
		if stat.Correct != 1 || stat.Total != 1 {
			t.Errorf("stat for %s = %+v, want {correct:1 total:1}", text, stat)
		}
	}
}

func TestDeleteQuizThroughEngine(t *testing.T) {
	engine := openTestEngine(t)

	imported, err := engine.ImportQuiz("gone.json", []byte(importDoc))
	if err != nil {
		t.Fatalf("ImportQuiz error: %v", err)
	}
	if err := engine.RecordAnswer(imported.ID, "Q1", true, models.ModeStudy); err != nil {
		t.Fatalf("RecordAnswer error: %v", err)
	}

	if err := engine.DeleteQuiz(imported.ID); err != nil {
		t.Fatalf("DeleteQuiz error: %v", err)
	}
	if quizzes := engine.ListQuizzes(); len(quizzes) != 0 {
		t.Errorf("quiz still listed after delete")
	}
	progress, err := engine.LoadProgress(imported.ID)
	if err != nil {
		t.Fatalf("LoadProgress error: %v", err)
	}
	if len(progress.QuestionStats) != 0 {
		t.Errorf("progress survived deletion: %+v", progress)
	}
}

func TestSelectSessionStudyUsesStoredStats(t *testing.T) {
	engine := openTestEngine(t)

	imported, err := engine.ImportQuiz("study.json", []byte(importDoc))
	if err != nil {
		t.Fatalf("ImportQuiz error: %v", err)
	}

	// Q2 is the weak question (0.25); Q1 is strong but imperfect (0.75);
	// Q3 never answered ranks as 1.0 and must come last.
	for i := 0; i < 4; i++ {
		if err := engine.RecordAnswer(imported.ID, "Q1", i != 3, models.ModeStudy); err != nil {
			t.Fatalf("RecordAnswer error: %v", err)
		}
		if err := engine.RecordAnswer(imported.ID, "Q2", i == 0, models.ModeStudy); err != nil {
			t.Fatalf("RecordAnswer error: %v", err)
		}
	}

	questions, err := engine.SelectSession(imported, models.ModeStudy, 2)
	if err != nil {
		t.Fatalf("SelectSession error: %v", err)
	}
	if len(questions) != 2 {
		t.Fatalf("selected %d questions, want 2", len(questions))
	}
	if questions[0].Question != "Q2" {
		t.Errorf("weakest question first = %q, want Q2", questions[0].Question)
	}
	if questions[1].Question != "Q1" {
		t.Errorf("second = %q, want Q1 (never-answered Q3 ranks last)", questions[1].Question)
	}
}
