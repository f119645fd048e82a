package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/cokecancook/quiz-whiz/models"
	"github.com/cokecancook/quiz-whiz/utils"
)

// LoadProgress returns the progress record for the given quiz id. Absence is
// a normal state, not a fault: a quiz with no recorded answers yields an
// empty progress record, never an error. A corrupt record degrades to the
// empty default with the cause logged.
func (db *DB) LoadProgress(id string) (*models.Progress, error) {
	utils.LogDB("Executing query: LoadProgress(%s)", id)

	var historyJSON, statsJSON string
	err := db.QueryRow(`
        SELECT history, question_stats FROM progress WHERE quiz_id = ?
    `, id).Scan(&historyJSON, &statsJSON)

	if errors.Is(err, sql.ErrNoRows) {
		utils.LogDB("No progress recorded for quiz %s, returning empty", id)
		return models.NewProgress(), nil
	}
	if err != nil {
		utils.LogError("LoadProgress(%s) failed: %v", id, err)
		return models.NewProgress(), err
	}

	progress := models.NewProgress()
	if err := json.Unmarshal([]byte(historyJSON), &progress.History); err != nil {
		utils.LogError("Corrupt history for quiz %s, returning empty: %v", id, err)
		return models.NewProgress(), nil
	}
	if err := json.Unmarshal([]byte(statsJSON), &progress.QuestionStats); err != nil {
		utils.LogError("Corrupt question stats for quiz %s, returning empty: %v", id, err)
		return models.NewProgress(), nil
	}
	if progress.History == nil {
		progress.History = []models.Attempt{}
	}
	if progress.QuestionStats == nil {
		progress.QuestionStats = make(map[string]models.QuestionStats)
	}

	return progress, nil
}

// SaveProgress writes the progress record for the given quiz id. A
// quota-exhausted store surfaces as models.ErrStorageFull; the caller must
// report it to the user.
func (db *DB) SaveProgress(id string, progress *models.Progress) error {
	utils.LogDB("Saving progress for quiz %s (%d attempts, %d question stats)",
		id, len(progress.History), len(progress.QuestionStats))
	start := time.Now()

	historyJSON, err := json.Marshal(progress.History)
	if err != nil {
		return err
	}
	statsJSON, err := json.Marshal(progress.QuestionStats)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
        INSERT OR REPLACE INTO progress (quiz_id, history, question_stats, updated_at)
        VALUES (?, ?, ?, CURRENT_TIMESTAMP)
    `, id, string(historyJSON), string(statsJSON))
	if err != nil {
		duration := time.Since(start)
		utils.LogError("SaveProgress(%s) failed: %v (%v)", id, err, duration)
		return mapWriteErr(err)
	}

	duration := time.Since(start)
	utils.LogDB("SaveProgress(%s) completed in %v", id, duration)
	return nil
}

// DeleteProgress removes the progress record for the given quiz id. Deleting
// progress that was never written is a no-op.
func (db *DB) DeleteProgress(id string) error {
	utils.LogDB("Deleting progress for quiz %s", id)

	if _, err := db.Exec("DELETE FROM progress WHERE quiz_id = ?", id); err != nil {
		utils.LogError("DeleteProgress(%s) failed: %v", id, err)
		return mapWriteErr(err)
	}
	return nil
}
