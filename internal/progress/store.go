// Package progress implements the authoritative per-student progress store.
// It owns box assignments, day cursors and usage dates, and writes every
// mutation through an injected persistence collaborator.
package progress

import (
	"errors"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/example/foxbox/internal/leitner"
	"github.com/example/foxbox/pkg/models"
)

// ErrNotAssigned is returned when an answer is recorded for a (student, card)
// pair that has no progress record. The store is left untouched.
var ErrNotAssigned = errors.New("progress: card not assigned to student")

// Persistence is the collaborator the store saves through. Load is called
// once at construction; Save is called after every mutation. Save failures
// are logged by the store, never surfaced to callers.
type Persistence interface {
	Load() (models.SnapshotMap, error)
	Save(snapshot models.SnapshotMap) error
}

// Store holds all student progress records. All operations are safe for
// concurrent use; each operation is atomic with respect to the others.
type Store struct {
	mu      sync.Mutex
	records models.SnapshotMap
	persist Persistence
}

// New creates a store restored from the persistence collaborator. A load
// failure starts the store empty rather than failing the caller.
func New(persist Persistence) *Store {
	records := models.SnapshotMap{}
	if persist != nil {
		loaded, err := persist.Load()
		if err != nil {
			log.Printf("progress: failed to load snapshot, starting empty: %v", err)
		} else if loaded != nil {
			records = loaded
		}
	}
	return &Store{records: records, persist: persist}
}

// record returns the student's record, creating it lazily.
// Caller must hold s.mu.
func (s *Store) record(studentID string) *models.StudentProgress {
	sp, ok := s.records[studentID]
	if !ok {
		sp = &models.StudentProgress{
			StudentID: studentID,
			Progress:  make(map[string]*models.CardProgress),
		}
		s.records[studentID] = sp
	}
	if sp.Progress == nil {
		sp.Progress = make(map[string]*models.CardProgress)
	}
	return sp
}

// save pushes the current snapshot to the persistence collaborator.
// Caller must hold s.mu.
func (s *Store) save() {
	if s.persist == nil {
		return
	}
	if err := s.persist.Save(s.records.Clone()); err != nil {
		log.Printf("progress: failed to save snapshot: %v", err)
	}
}

// AssignCards creates a box-1 progress record for every (student, card) pair
// not already present. Pairs that already have progress are untouched, so
// assigning the same set twice never resets progress.
func (s *Store) AssignCards(studentIDs, cardIDs []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := false
	for _, studentID := range studentIDs {
		sp := s.record(studentID)
		for _, cardID := range cardIDs {
			if _, ok := sp.Progress[cardID]; ok {
				continue
			}
			sp.Progress[cardID] = &models.CardProgress{CardID: cardID, Box: 1}
			changed = true
		}
	}
	if changed {
		s.save()
	}
}

// RecordAnswer applies the box transition for one answer event and stamps
// lastReviewedAt. Recording is deliberately not idempotent: each call is a
// distinct answer. A missing pair is a logged no-op returning ErrNotAssigned.
func (s *Store) RecordAnswer(studentID, cardID string, correct bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sp, ok := s.records[studentID]
	if !ok {
		log.Printf("progress: no record for student %s, cannot record answer for card %s", studentID, cardID)
		return ErrNotAssigned
	}
	cp, ok := sp.Progress[cardID]
	if !ok {
		log.Printf("progress: card %s not assigned to student %s, cannot record answer", cardID, studentID)
		return ErrNotAssigned
	}

	cp.Box = leitner.NextBox(cp.Box, correct)
	now := time.Now().UTC()
	cp.LastReviewedAt = &now

	s.save()
	return nil
}

// AdvanceDay moves the student's calendar cursor forward one day, wrapping
// modulo the calendar length, and returns the new index. The record is
// created lazily if absent.
func (s *Store) AdvanceDay(studentID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	sp := s.record(studentID)
	sp.CurrentDayIndex = (sp.CurrentDayIndex + 1) % leitner.CalendarLength
	s.save()
	return sp.CurrentDayIndex
}

// RecordUsage marks the given date as a study day for the student.
// Duplicate dates are ignored (set semantics).
func (s *Store) RecordUsage(studentID string, date time.Time) {
	day := date.UTC().Format("2006-01-02")

	s.mu.Lock()
	defer s.mu.Unlock()

	sp := s.record(studentID)
	for _, d := range sp.UsageDates {
		if d == day {
			return
		}
	}
	sp.UsageDates = append(sp.UsageDates, day)
	s.save()
}

// ResetAll wipes every student record. Destructive and unconditional; any
// confirmation step is the caller's responsibility.
func (s *Store) ResetAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = models.SnapshotMap{}
	s.save()
}

// GetProgress returns a deep copy of the student's record, or false if the
// student has none.
func (s *Store) GetProgress(studentID string) (*models.StudentProgress, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sp, ok := s.records[studentID]
	if !ok {
		return nil, false
	}
	return sp.Clone(), true
}

// GetCurrentDay returns the student's calendar cursor, 0 if the student has
// no record yet.
func (s *Store) GetCurrentDay(studentID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sp, ok := s.records[studentID]; ok {
		return sp.CurrentDayIndex
	}
	return 0
}

// UsageDates returns up to days usage dates for the student, newest first.
func (s *Store) UsageDates(studentID string, days int) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	sp, ok := s.records[studentID]
	if !ok || len(sp.UsageDates) == 0 {
		return nil
	}
	dates := append([]string(nil), sp.UsageDates...)
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	if len(dates) > days {
		dates = dates[:days]
	}
	return dates
}

// FirstActivityDate returns the earliest date the student studied, or ""
// if the student has never studied.
func (s *Store) FirstActivityDate(studentID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	sp, ok := s.records[studentID]
	if !ok || len(sp.UsageDates) == 0 {
		return ""
	}
	first := sp.UsageDates[0]
	for _, d := range sp.UsageDates[1:] {
		if d < first {
			first = d
		}
	}
	return first
}

// BoxDistribution returns how many of the student's cards sit in each box.
func (s *Store) BoxDistribution(studentID string) map[int]int {
	s.mu.Lock()
	defer s.mu.Unlock()

	dist := make(map[int]int)
	sp, ok := s.records[studentID]
	if !ok {
		return dist
	}
	for _, cp := range sp.Progress {
		dist[cp.Box]++
	}
	return dist
}

// Snapshot returns a deep copy of all records, suitable for serialization.
func (s *Store) Snapshot() models.SnapshotMap {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.records.Clone()
}

// StudentIDs returns the IDs of all students with a record.
func (s *Store) StudentIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(s.records))
	for id := range s.records {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
