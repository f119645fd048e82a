package db

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"

	"github.com/cokecancook/quiz-whiz/models"
	"github.com/cokecancook/quiz-whiz/utils"
)

type DB struct {
	*sql.DB
}

func InitDB(dbPath string) (*DB, error) {
	utils.LogStartup("Initializing quiz store at: %s", dbPath)

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		utils.LogError("Failed to open quiz store: %v", err)
		return nil, err
	}

	if err := db.Ping(); err != nil {
		utils.LogError("Failed to ping quiz store: %v", err)
		return nil, err
	}

	utils.LogStartup("Quiz store connection established")

	if err := createTables(db); err != nil {
		utils.LogError("Failed to create tables: %v", err)
		return nil, err
	}

	utils.LogStartup("Quiz store tables initialized successfully")
	return &DB{db}, nil
}

func createTables(db *sql.DB) error {
	queries := []string{
		// Index of known quiz ids, in storage-write order.
		`CREATE TABLE IF NOT EXISTS manifest (
			position INTEGER PRIMARY KEY AUTOINCREMENT,
			quiz_id TEXT UNIQUE NOT NULL
		)`,

		// One record per quiz id. The history column is the legacy layout
		// that embedded the attempt log inside the quiz record; it is
		// migrated into the progress table on load.
		`CREATE TABLE IF NOT EXISTS quizzes (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			questions TEXT NOT NULL,
			created_at DATETIME NOT NULL,
			history TEXT
		)`,

		// One record per quiz id, absent until the first answer is recorded.
		`CREATE TABLE IF NOT EXISTS progress (
			quiz_id TEXT PRIMARY KEY,
			history TEXT NOT NULL,
			question_stats TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for i, query := range queries {
		utils.LogDB("Creating table %d/%d", i+1, len(queries))
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_quizzes_created_at ON quizzes(created_at DESC)",
	}

	for _, index := range indexes {
		if _, err := db.Exec(index); err != nil {
			utils.LogDB("Failed to create index (non-fatal): %v", err)
		}
	}

	return nil
}

// mapWriteErr converts a quota-exhausted SQLite write failure into the
// capacity error the caller is required to surface to the user. Other
// failures pass through unchanged.
func mapWriteErr(err error) error {
	if err == nil {
		return nil
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrFull {
		utils.LogError("Quiz store is full: %v", err)
		return fmt.Errorf("%w: %v", models.ErrStorageFull, err)
	}
	return err
}
