package study

import (
	"errors"
	"math/rand"
	"time"

	"github.com/example/foxbox/internal/progress"
	"github.com/example/foxbox/pkg/models"
	"github.com/google/uuid"
)

// Phase is a study session's position in its two-state machine.
type Phase int

const (
	// PhaseInitial reviews the day's full due set.
	PhaseInitial Phase = iota
	// PhaseLowestBoxLoop re-presents only the cards failed this session,
	// repeatedly, until none remain failed.
	PhaseLowestBoxLoop
	// PhaseComplete is terminal.
	PhaseComplete
)

func (p Phase) String() string {
	switch p {
	case PhaseInitial:
		return "initial"
	case PhaseLowestBoxLoop:
		return "lowest-box loop"
	case PhaseComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// ErrSessionComplete is returned when an answer arrives after the session
// has already reached its terminal phase.
var ErrSessionComplete = errors.New("study: session is complete")

// Session drives one student's study session: a pass over the due deck,
// then zero or more catch-up passes over the cards failed so far. A card
// answered correctly leaves the failed set even if it failed on an earlier
// pass; a student who keeps failing keeps looping, visibly, via Pass().
//
// Session state is transient and never persisted; every answer is written
// through the progress store, which stays the sole authority.
type Session struct {
	ID        string
	StudentID string

	store *progress.Store

	phase  Phase
	deck   []models.Flashcard
	byID   map[string]models.Flashcard
	cursor int
	failed map[string]struct{}
	pass   int

	missing []string
	tier    Tier
	boxes   []int

	rng *rand.Rand
}

// StartSession selects the student's due deck and opens a session on it.
// Starting a session records a usage date for the student, whatever happens
// afterwards. An empty due set is not an error: the session begins already
// complete and the caller decides how to present "nothing to review".
func StartSession(store *progress.Store, selector *Selector, studentID string, now time.Time) (*Session, error) {
	deck, err := selector.SelectDueCards(studentID)
	if err != nil {
		return nil, err
	}

	store.RecordUsage(studentID, now)

	s := &Session{
		ID:        uuid.NewString(),
		StudentID: studentID,
		store:     store,
		phase:     PhaseInitial,
		deck:      deck.Cards,
		byID:      make(map[string]models.Flashcard, len(deck.Cards)),
		failed:    make(map[string]struct{}),
		pass:      1,
		missing:   deck.Missing,
		tier:      deck.Tier,
		boxes:     deck.Boxes,
		rng:       rand.New(rand.NewSource(now.UnixNano())),
	}
	for _, card := range deck.Cards {
		s.byID[card.ID] = card
	}
	if len(s.deck) == 0 {
		s.phase = PhaseComplete
	}
	return s, nil
}

// Current returns the card awaiting an answer, or false if the session is
// complete.
func (s *Session) Current() (models.Flashcard, bool) {
	if s.phase == PhaseComplete {
		return models.Flashcard{}, false
	}
	return s.deck[s.cursor], true
}

// Answer records the outcome for the current card and advances the session.
// The answer is written through the store before any session bookkeeping,
// so box transition and persistence happen together.
func (s *Session) Answer(correct bool) error {
	if s.phase == PhaseComplete {
		return ErrSessionComplete
	}

	card := s.deck[s.cursor]
	if err := s.store.RecordAnswer(s.StudentID, card.ID, correct); err != nil {
		return err
	}

	if correct {
		delete(s.failed, card.ID)
	} else {
		s.failed[card.ID] = struct{}{}
	}

	s.cursor++
	if s.cursor >= len(s.deck) {
		s.endOfPass()
	}
	return nil
}

// endOfPass either re-enters the catch-up loop over the failed cards or
// completes the session. The failed set carries over between passes.
func (s *Session) endOfPass() {
	if len(s.failed) == 0 {
		s.phase = PhaseComplete
		return
	}

	next := make([]models.Flashcard, 0, len(s.failed))
	for id := range s.failed {
		next = append(next, s.byID[id])
	}
	shuffle(next, s.rng)

	s.deck = next
	s.cursor = 0
	s.phase = PhaseLowestBoxLoop
	s.pass++
}

// Phase returns the session's current phase.
func (s *Session) Phase() Phase { return s.phase }

// Pass returns the 1-based pass number. It keeps growing while a student
// keeps failing, so a long catch-up loop is visible rather than looking
// like a frozen session.
func (s *Session) Pass() int { return s.pass }

// Position returns the 0-based cursor and the current deck size.
func (s *Session) Position() (int, int) { return s.cursor, len(s.deck) }

// FailedCount returns how many cards are currently in the failed set.
func (s *Session) FailedCount() int { return len(s.failed) }

// Missing returns the card IDs that had progress but no catalog entry when
// the deck was selected. A non-empty result is a data inconsistency the
// caller should report.
func (s *Session) Missing() []string { return s.missing }

// Tier returns the selection tier that produced the initial deck.
func (s *Session) Tier() Tier { return s.tier }

// Boxes returns the boxes reviewed by the initial deck selection.
func (s *Session) Boxes() []int { return s.boxes }
