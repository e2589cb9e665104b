// Package history persists generation outcomes per user and day. The store
// doubles as a metrics sink and as the source of the history signals handed
// to the refinement service.
package history

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	coremetrics "github.com/aurelh/chronoplan/core/metrics"
)

// SQLiteStore persists one record per user and date, keeping the most
// recent generation for that day.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates the database and ensures schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	schema := `CREATE TABLE IF NOT EXISTS schedule_history (
        user_id TEXT,
        date TEXT,
        outcome TEXT,
        tasks_placed INTEGER,
        tasks_skipped INTEGER,
        utilization REAL,
        coverage REAL,
        created_at INTEGER,
        PRIMARY KEY(user_id, date)
    );`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

// RecordGeneration upserts the day's record, so regenerating a schedule
// overwrites the earlier outcome.
func (s *SQLiteStore) RecordGeneration(ev coremetrics.GenerationEvent) error {
	recorded := ev.Time
	if recorded.IsZero() {
		recorded = time.Now()
	}
	_, err := s.db.Exec(`INSERT INTO schedule_history
        (user_id, date, outcome, tasks_placed, tasks_skipped, utilization, coverage, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(user_id, date) DO UPDATE SET
            outcome = excluded.outcome,
            tasks_placed = excluded.tasks_placed,
            tasks_skipped = excluded.tasks_skipped,
            utilization = excluded.utilization,
            coverage = excluded.coverage,
            created_at = excluded.created_at`,
		ev.UserID.String(), ev.Date, ev.Outcome, ev.TasksPlaced, ev.TasksSkipped,
		ev.Summary.UtilizationRatio, ev.Summary.TaskCoverage, recorded.Unix())
	return err
}

// Recent returns up to limit past records for the user, most recent date
// first, shaped for the refinement context.
func (s *SQLiteStore) Recent(userID uuid.UUID, limit int) ([]map[string]any, error) {
	if limit <= 0 {
		limit = 7
	}
	rows, err := s.db.Query(`SELECT date, outcome, tasks_placed, tasks_skipped, utilization, coverage
        FROM schedule_history WHERE user_id = ? ORDER BY date DESC LIMIT ?`,
		userID.String(), limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var res []map[string]any
	for rows.Next() {
		var date, outcome string
		var placed, skipped int
		var utilization, coverage float64
		if err := rows.Scan(&date, &outcome, &placed, &skipped, &utilization, &coverage); err != nil {
			return nil, err
		}
		res = append(res, map[string]any{
			"date":          date,
			"outcome":       outcome,
			"tasks_placed":  placed,
			"tasks_skipped": skipped,
			"utilization":   utilization,
			"coverage":      coverage,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error { return s.db.Close() }
