package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/cokecancook/quiz-whiz/models"
	"github.com/cokecancook/quiz-whiz/utils"
)

// ListQuizzes returns every stored quiz, newest first. It fails soft: index
// corruption yields an empty list, manifest ids with no matching record are
// dropped, and undecodable records are skipped, all with the cause logged.
func (db *DB) ListQuizzes() []models.Quiz {
	utils.LogDB("Executing query: ListQuizzes")
	start := time.Now()

	ids, err := db.manifestIDs()
	if err != nil {
		utils.LogError("Failed to read quiz manifest: %v", err)
		return []models.Quiz{}
	}

	quizzes := make([]models.Quiz, 0, len(ids))
	for _, id := range ids {
		quiz, err := db.getQuiz(id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				utils.LogDB("Manifest id %s has no stored record, dropping", id)
			} else {
				utils.LogError("Failed to load quiz %s, skipping: %v", id, err)
			}
			continue
		}
		db.migrateLegacyHistory(quiz)
		quizzes = append(quizzes, *quiz)
	}

	sort.SliceStable(quizzes, func(i, j int) bool {
		return quizzes[i].CreatedAt.After(quizzes[j].CreatedAt)
	})

	duration := time.Since(start)
	utils.LogDB("ListQuizzes completed: %d quizzes in %v", len(quizzes), duration)
	return quizzes
}

// SaveQuizzes replaces the full stored set. Each quiz is written
// individually, then the manifest is rewritten atomically. A capacity
// failure part-way through is reported to the caller; quizzes written before
// it remain intact (last write wins per key, no rollback).
func (db *DB) SaveQuizzes(quizzes []models.Quiz) error {
	utils.LogDB("Saving %d quizzes", len(quizzes))
	start := time.Now()

	for _, quiz := range quizzes {
		if err := db.saveQuiz(&quiz); err != nil {
			utils.LogError("SaveQuizzes failed on quiz %s (%s): %v", quiz.ID, quiz.Name, err)
			return fmt.Errorf("saving quiz %q: %w", quiz.Name, err)
		}
	}

	tx, err := db.Begin()
	if err != nil {
		utils.LogError("Failed to start manifest transaction: %v", err)
		return mapWriteErr(err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM manifest"); err != nil {
		return mapWriteErr(err)
	}
	for _, quiz := range quizzes {
		if _, err := tx.Exec("INSERT INTO manifest (quiz_id) VALUES (?)", quiz.ID); err != nil {
			return mapWriteErr(err)
		}
	}
	if err := tx.Commit(); err != nil {
		return mapWriteErr(err)
	}

	duration := time.Since(start)
	utils.LogDB("SaveQuizzes completed: %d quizzes in %v", len(quizzes), duration)
	return nil
}

// DeleteQuiz removes the quiz record, its manifest entry, and its progress.
func (db *DB) DeleteQuiz(id string) error {
	utils.LogDB("Deleting quiz %s", id)

	if _, err := db.Exec("DELETE FROM manifest WHERE quiz_id = ?", id); err != nil {
		utils.LogError("Failed to remove quiz %s from manifest: %v", id, err)
		return mapWriteErr(err)
	}
	if _, err := db.Exec("DELETE FROM quizzes WHERE id = ?", id); err != nil {
		utils.LogError("Failed to delete quiz record %s: %v", id, err)
		return mapWriteErr(err)
	}
	if err := db.DeleteProgress(id); err != nil {
		return err
	}

	utils.LogDB("Quiz %s deleted", id)
	return nil
}

func (db *DB) manifestIDs() ([]string, error) {
	rows, err := db.Query("SELECT quiz_id FROM manifest ORDER BY position")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (db *DB) getQuiz(id string) (*models.Quiz, error) {
	var quiz models.Quiz
	var questionsJSON string
	var historyJSON sql.NullString

	err := db.QueryRow(`
        SELECT id, name, questions, created_at, history
        FROM quizzes WHERE id = ?
    `, id).Scan(&quiz.ID, &quiz.Name, &questionsJSON, &quiz.CreatedAt, &historyJSON)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(questionsJSON), &quiz.Questions); err != nil {
		return nil, fmt.Errorf("corrupt questions payload: %w", err)
	}
	if historyJSON.Valid && historyJSON.String != "" {
		if err := json.Unmarshal([]byte(historyJSON.String), &quiz.History); err != nil {
			return nil, fmt.Errorf("corrupt legacy history payload: %w", err)
		}
	}

	return &quiz, nil
}

func (db *DB) saveQuiz(quiz *models.Quiz) error {
	questionsJSON, err := json.Marshal(quiz.Questions)
	if err != nil {
		return err
	}

	var historyJSON interface{}
	if len(quiz.History) > 0 {
		raw, err := json.Marshal(quiz.History)
		if err != nil {
			return err
		}
		historyJSON = string(raw)
	}

	_, err = db.Exec(`
        INSERT OR REPLACE INTO quizzes (id, name, questions, created_at, history)
        VALUES (?, ?, ?, ?, ?)
    `, quiz.ID, quiz.Name, string(questionsJSON), quiz.CreatedAt, historyJSON)
	return mapWriteErr(err)
}

// migrateLegacyHistory upgrades a quiz stored in the old layout, where the
// attempt log lived inside the quiz record. The embedded attempts predate
// any externalized ones, so they are prepended to the progress history. The
// embedded copy is cleared only once the upgraded progress record has been
// persisted; a failed upgrade leaves the old layout in place for next load.
func (db *DB) migrateLegacyHistory(quiz *models.Quiz) {
	if len(quiz.History) == 0 {
		return
	}

	utils.LogDB("Migrating %d legacy embedded attempts for quiz %s", len(quiz.History), quiz.ID)

	progress, err := db.LoadProgress(quiz.ID)
	if err != nil {
		utils.LogError("Legacy history migration for quiz %s aborted: %v", quiz.ID, err)
		return
	}

	merged := make([]models.Attempt, 0, len(quiz.History)+len(progress.History))
	merged = append(merged, quiz.History...)
	merged = append(merged, progress.History...)
	progress.History = merged

	if err := db.SaveProgress(quiz.ID, progress); err != nil {
		utils.LogError("Failed to persist migrated progress for quiz %s: %v", quiz.ID, err)
		return
	}

	if _, err := db.Exec("UPDATE quizzes SET history = NULL WHERE id = ?", quiz.ID); err != nil {
		utils.LogError("Failed to clear legacy history for quiz %s: %v", quiz.ID, err)
		return
	}
	quiz.History = nil

	utils.LogDB("Legacy history migration for quiz %s completed", quiz.ID)
}
