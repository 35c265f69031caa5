package database

import (
	"database/sql"
	"fmt"

	"github.com/example/foxbox/pkg/models"
)

// ProgressRepository persists progress snapshots. It implements the
// progress store's Persistence collaborator: Load rebuilds the full
// snapshot at startup, Save replaces it after every mutation.
type ProgressRepository struct{}

// NewProgressRepository creates a new repository instance
func NewProgressRepository() *ProgressRepository {
	return &ProgressRepository{}
}

type progressRow struct {
	StudentID      string       `db:"student_id"`
	CardID         string       `db:"card_id"`
	Box            int          `db:"box"`
	LastReviewedAt sql.NullTime `db:"last_reviewed_at"`
}

type stateRow struct {
	StudentID       string `db:"student_id"`
	CurrentDayIndex int    `db:"current_day_index"`
}

type usageRow struct {
	StudentID string `db:"student_id"`
	UsageDate string `db:"usage_date"`
}

// Load reconstructs the snapshot from the progress, state and usage tables.
func (r *ProgressRepository) Load() (models.SnapshotMap, error) {
	snapshot := models.SnapshotMap{}

	record := func(studentID string) *models.StudentProgress {
		sp, ok := snapshot[studentID]
		if !ok {
			sp = &models.StudentProgress{
				StudentID: studentID,
				Progress:  make(map[string]*models.CardProgress),
			}
			snapshot[studentID] = sp
		}
		return sp
	}

	var cards []progressRow
	if err := DB.Select(&cards, "SELECT student_id, card_id, box, last_reviewed_at FROM student_progress"); err != nil {
		return nil, fmt.Errorf("failed to load student progress: %v", err)
	}
	for _, row := range cards {
		cp := &models.CardProgress{CardID: row.CardID, Box: row.Box}
		if row.LastReviewedAt.Valid {
			t := row.LastReviewedAt.Time
			cp.LastReviewedAt = &t
		}
		record(row.StudentID).Progress[row.CardID] = cp
	}

	var states []stateRow
	if err := DB.Select(&states, "SELECT student_id, current_day_index FROM student_state"); err != nil {
		return nil, fmt.Errorf("failed to load student state: %v", err)
	}
	for _, row := range states {
		record(row.StudentID).CurrentDayIndex = row.CurrentDayIndex
	}

	var usage []usageRow
	if err := DB.Select(&usage, "SELECT student_id, usage_date FROM student_usage ORDER BY usage_date"); err != nil {
		return nil, fmt.Errorf("failed to load student usage: %v", err)
	}
	for _, row := range usage {
		sp := record(row.StudentID)
		sp.UsageDates = append(sp.UsageDates, row.UsageDate)
	}

	return snapshot, nil
}

// Save replaces the persisted snapshot inside a single transaction, so a
// failed save never leaves the tables partially updated.
func (r *ProgressRepository) Save(snapshot models.SnapshotMap) error {
	tx, err := DB.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"student_progress", "student_state", "student_usage"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("failed to clear %s: %v", table, err)
		}
	}

	for studentID, sp := range snapshot {
		for _, cp := range sp.Progress {
			var reviewed sql.NullTime
			if cp.LastReviewedAt != nil {
				reviewed = sql.NullTime{Time: *cp.LastReviewedAt, Valid: true}
			}
			_, err := tx.Exec(
				"INSERT INTO student_progress (student_id, card_id, box, last_reviewed_at) VALUES ($1, $2, $3, $4)",
				studentID, cp.CardID, cp.Box, reviewed,
			)
			if err != nil {
				return fmt.Errorf("failed to save progress for student %s card %s: %v", studentID, cp.CardID, err)
			}
		}

		_, err := tx.Exec(
			"INSERT INTO student_state (student_id, current_day_index) VALUES ($1, $2)",
			studentID, sp.CurrentDayIndex,
		)
		if err != nil {
			return fmt.Errorf("failed to save state for student %s: %v", studentID, err)
		}

		for _, date := range sp.UsageDates {
			_, err := tx.Exec(
				"INSERT INTO student_usage (student_id, usage_date) VALUES ($1, $2)",
				studentID, date,
			)
			if err != nil {
				return fmt.Errorf("failed to save usage for student %s: %v", studentID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot: %v", err)
	}
	return nil
}
