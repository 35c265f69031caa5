package models

import "time"

// CardProgress tracks a single student's position with a single flashcard
// in the Leitner box scheme. Box is always in [1,8]; newly assigned cards
// start in box 1, box 8 means learned.
type CardProgress struct {
	CardID         string     `json:"cardId" db:"card_id"`
	Box            int        `json:"box" db:"box"`
	LastReviewedAt *time.Time `json:"lastReviewedAt,omitempty" db:"last_reviewed_at"`
}

// StudentProgress holds all progress for a single student: per-card boxes,
// the student's private cursor into the review calendar, and the calendar
// dates (YYYY-MM-DD) on which the student studied.
type StudentProgress struct {
	StudentID       string                   `json:"studentId" db:"student_id"`
	Progress        map[string]*CardProgress `json:"progress"`
	CurrentDayIndex int                      `json:"currentDayIndex,omitempty" db:"current_day_index"`
	UsageDates      []string                 `json:"usageDates,omitempty"`
}

// SnapshotMap is the serialized shape of all student progress, keyed by
// student ID. It is what the persistence collaborator loads and saves.
type SnapshotMap map[string]*StudentProgress

// Clone returns a deep copy of the record.
func (sp *StudentProgress) Clone() *StudentProgress {
	cp := &StudentProgress{
		StudentID:       sp.StudentID,
		Progress:        make(map[string]*CardProgress, len(sp.Progress)),
		CurrentDayIndex: sp.CurrentDayIndex,
	}
	for id, p := range sp.Progress {
		c := *p
		if p.LastReviewedAt != nil {
			t := *p.LastReviewedAt
			c.LastReviewedAt = &t
		}
		cp.Progress[id] = &c
	}
	if sp.UsageDates != nil {
		cp.UsageDates = append([]string(nil), sp.UsageDates...)
	}
	return cp
}

// Clone returns a deep copy of the snapshot.
func (m SnapshotMap) Clone() SnapshotMap {
	out := make(SnapshotMap, len(m))
	for id, sp := range m {
		out[id] = sp.Clone()
	}
	return out
}
