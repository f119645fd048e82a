package quiz

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cokecancook/quiz-whiz/models"
	"github.com/cokecancook/quiz-whiz/utils"
)

// ParseQuiz validates an import document and builds a new quiz from it. The
// import is atomic: any structural problem rejects the whole document with a
// *models.ImportError and nothing is persisted. The quiz name derives from
// the source name with a trailing ".json" stripped.
func ParseQuiz(sourceName string, data []byte) (*models.Quiz, error) {
	utils.LogImport("Parsing quiz import from %q (%d bytes)", sourceName, len(data))

	var doc struct {
		Questions json.RawMessage `json:"questions"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		utils.LogImport("REJECT: document is not valid JSON: %v", err)
		return nil, &models.ImportError{Reasons: []string{"document is not valid JSON"}}
	}
	// A literal null survives as the RawMessage bytes "null" and would
	// unmarshal into a nil slice without complaint, so it is rejected the
	// same way as an absent field.
	if doc.Questions == nil || bytes.Equal(bytes.TrimSpace(doc.Questions), []byte("null")) {
		utils.LogImport("REJECT: missing 'questions' field")
		return nil, &models.ImportError{Reasons: []string{"missing 'questions' field"}}
	}

	var questions []models.Question
	if err := json.Unmarshal(doc.Questions, &questions); err != nil {
		utils.LogImport("REJECT: 'questions' is not an array of questions: %v", err)
		return nil, &models.ImportError{Reasons: []string{"'questions' must be an array of question records"}}
	}

	var reasons []string
	for i, q := range questions {
		if strings.TrimSpace(q.Question) == "" {
			reasons = append(reasons, fmt.Sprintf("question %d: empty question text", i+1))
			continue
		}
		if len(q.Options) < 2 {
			reasons = append(reasons, fmt.Sprintf("question %d: needs at least two options", i+1))
			continue
		}

		// Empty options are rejected outright: the session layer treats an
		// empty answer string as "unanswered", so an empty option could
		// never be selected unambiguously.
		seen := make(map[string]bool, len(q.Options))
		badOption := false
		for _, opt := range q.Options {
			if strings.TrimSpace(opt) == "" {
				reasons = append(reasons, fmt.Sprintf("question %d: empty option text", i+1))
				badOption = true
				break
			}
			if seen[opt] {
				reasons = append(reasons, fmt.Sprintf("question %d: duplicate option %q", i+1, opt))
				badOption = true
				break
			}
			seen[opt] = true
		}
		if badOption {
			continue
		}

		if !seen[q.CorrectAnswer] {
			reasons = append(reasons, fmt.Sprintf("question %d: correct_answer %q is not one of the options", i+1, q.CorrectAnswer))
		}
	}

	if len(reasons) > 0 {
		utils.LogImport("REJECT: %d invalid questions in %q", len(reasons), sourceName)
		return nil, &models.ImportError{Reasons: reasons}
	}

	quiz := &models.Quiz{
		ID:        uuid.NewString(),
		Name:      strings.TrimSuffix(sourceName, ".json"),
		Questions: questions,
		CreatedAt: time.Now(),
	}

	utils.LogImport("Accepted quiz %q with %d questions (id %s)",
		quiz.Name, len(quiz.Questions), quiz.ID)
	return quiz, nil
}
