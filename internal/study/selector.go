// Package study builds daily review decks and drives study sessions over
// the progress store.
package study

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/example/foxbox/internal/leitner"
	"github.com/example/foxbox/internal/progress"
	"github.com/example/foxbox/pkg/models"
)

// Catalog supplies the full flashcard content the selector resolves card
// IDs against.
type Catalog interface {
	GetAllCards() ([]models.Flashcard, error)
}

// Tier identifies which selection strategy produced a deck.
type Tier int

const (
	// TierSchedule is the primary day-index selection: boxes 1..maxBox.
	TierSchedule Tier = iota
	// TierBoxOne is the first fallback: all cards currently in box 1.
	TierBoxOne
	// TierAllAssigned is the second fallback: every assigned card.
	TierAllAssigned
	// TierRandomSample is the debug-only escape hatch: a random sample
	// from the full catalog. Never active unless Selector.DebugFallback.
	TierRandomSample
)

func (t Tier) String() string {
	switch t {
	case TierSchedule:
		return "schedule"
	case TierBoxOne:
		return "box-1 fallback"
	case TierAllAssigned:
		return "all-assigned fallback"
	case TierRandomSample:
		return "random sample (debug)"
	default:
		return "unknown"
	}
}

// randomSampleSize is how many catalog cards the debug tier serves.
const randomSampleSize = 5

// Deck is the ordered set of cards selected for one session phase.
// Missing lists card IDs that have progress but no catalog entry; they are
// excluded from Cards but must be surfaced by the caller, since dropping
// them silently would change the apparent deck size.
type Deck struct {
	Cards   []models.Flashcard
	Tier    Tier
	Boxes   []int
	Missing []string
}

// Selector computes the due set for a student on their current calendar day.
type Selector struct {
	store   *progress.Store
	catalog Catalog

	// DebugFallback enables the random-sample tier for empty selections.
	// Off by default: production selection ends at the all-assigned tier.
	DebugFallback bool

	rng *rand.Rand
}

// NewSelector creates a selector over the given store and catalog.
func NewSelector(store *progress.Store, catalog Catalog) *Selector {
	return &Selector{
		store:   store,
		catalog: catalog,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// SelectDueCards returns the shuffled deck for the student's current day.
//
// The primary selection takes every card whose box is within the calendar's
// ceiling for the day. When that is empty the fallback chain applies in
// order: box-1 cards, then all assigned cards, then (only with
// DebugFallback) a random catalog sample. An empty deck with the fallbacks
// exhausted means the student truly has nothing assigned.
func (s *Selector) SelectDueCards(studentID string) (*Deck, error) {
	all, err := s.catalog.GetAllCards()
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	byID := make(map[string]models.Flashcard, len(all))
	for _, card := range all {
		byID[card.ID] = card
	}

	day := s.store.GetCurrentDay(studentID)
	boxes := leitner.BoxesForDay(day)
	maxBox := boxes[len(boxes)-1]

	deck := &Deck{Tier: TierSchedule, Boxes: boxes}

	var ids []string
	sp, ok := s.store.GetProgress(studentID)
	if ok {
		for _, cp := range sp.Progress {
			if cp.Box >= 1 && cp.Box <= maxBox {
				ids = append(ids, cp.CardID)
			}
		}
		if len(ids) == 0 {
			var boxOne []string
			for _, cp := range sp.Progress {
				if cp.Box == 1 {
					boxOne = append(boxOne, cp.CardID)
				}
			}
			if len(boxOne) > 0 {
				deck.Tier = TierBoxOne
				ids = boxOne
			}
		}
		if len(ids) == 0 {
			var assigned []string
			for _, cp := range sp.Progress {
				assigned = append(assigned, cp.CardID)
			}
			// A record with no cards at all stays on the schedule tier:
			// the fallbacks only claim the deck when they fill it.
			if len(assigned) > 0 {
				deck.Tier = TierAllAssigned
				ids = assigned
			}
		}
	}

	for _, id := range ids {
		card, found := byID[id]
		if !found {
			deck.Missing = append(deck.Missing, id)
			continue
		}
		deck.Cards = append(deck.Cards, card)
	}

	if len(deck.Cards) == 0 && s.DebugFallback && len(all) > 0 {
		deck.Tier = TierRandomSample
		deck.Cards = append([]models.Flashcard(nil), all...)
		shuffle(deck.Cards, s.rng)
		if len(deck.Cards) > randomSampleSize {
			deck.Cards = deck.Cards[:randomSampleSize]
		}
		return deck, nil
	}

	shuffle(deck.Cards, s.rng)
	return deck, nil
}

// shuffle performs a Fisher–Yates shuffle in place.
func shuffle(cards []models.Flashcard, rng *rand.Rand) {
	for i := len(cards) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		cards[i], cards[j] = cards[j], cards[i]
	}
}
