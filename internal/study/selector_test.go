package study

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/example/foxbox/internal/progress"
	"github.com/example/foxbox/pkg/models"
)

type fakeCatalog struct {
	cards []models.Flashcard
	err   error
}

func (f *fakeCatalog) GetAllCards() ([]models.Flashcard, error) {
	return f.cards, f.err
}

func makeCards(ids ...string) []models.Flashcard {
	cards := make([]models.Flashcard, len(ids))
	for i, id := range ids {
		cards[i] = models.Flashcard{
			ID:          id,
			QuestionImg: "/flashcards/" + id + "Q.png",
			AnswerImg:   "/flashcards/" + id + "R.png",
		}
	}
	return cards
}

func newTestSelector(store *progress.Store, catalog Catalog) *Selector {
	s := NewSelector(store, catalog)
	s.rng = rand.New(rand.NewSource(1))
	return s
}

func deckIDs(d *Deck) map[string]bool {
	ids := make(map[string]bool, len(d.Cards))
	for _, c := range d.Cards {
		ids[c.ID] = true
	}
	return ids
}

// advanceTo moves a student's calendar cursor to the wanted day index.
func advanceTo(store *progress.Store, studentID string, day int) {
	for store.GetCurrentDay(studentID) != day {
		store.AdvanceDay(studentID)
	}
}

func TestSelectDueCardsScheduleTier(t *testing.T) {
	store := progress.New(nil)
	catalog := &fakeCatalog{cards: makeCards("c1", "c2", "c3")}
	store.AssignCards([]string{"alice"}, []string{"c1", "c2", "c3"})

	// Promote c2 to box 2 and c3 to box 3.
	store.RecordAnswer("alice", "c2", true)
	store.RecordAnswer("alice", "c3", true)
	store.RecordAnswer("alice", "c3", true)

	sel := newTestSelector(store, catalog)

	// Day 0: schedule ceiling is box 1, only c1 is due.
	deck, err := sel.SelectDueCards("alice")
	if err != nil {
		t.Fatalf("SelectDueCards: %v", err)
	}
	if deck.Tier != TierSchedule {
		t.Errorf("tier = %v, want %v", deck.Tier, TierSchedule)
	}
	ids := deckIDs(deck)
	if len(ids) != 1 || !ids["c1"] {
		t.Errorf("day 0 deck = %v, want [c1]", ids)
	}

	// Day 2: ceiling is box 3, all three cards are due.
	advanceTo(store, "alice", 2)
	deck, err = sel.SelectDueCards("alice")
	if err != nil {
		t.Fatalf("SelectDueCards: %v", err)
	}
	ids = deckIDs(deck)
	if len(ids) != 3 {
		t.Errorf("day 2 deck = %v, want all three cards", ids)
	}
	wantBoxes := []int{1, 2, 3}
	if len(deck.Boxes) != len(wantBoxes) {
		t.Fatalf("boxes = %v, want %v", deck.Boxes, wantBoxes)
	}
	for i, b := range wantBoxes {
		if deck.Boxes[i] != b {
			t.Errorf("boxes = %v, want %v", deck.Boxes, wantBoxes)
			break
		}
	}
}

func TestSelectDueCardsNeverExceedsCeiling(t *testing.T) {
	store := progress.New(nil)
	catalog := &fakeCatalog{cards: makeCards("low", "high")}
	store.AssignCards([]string{"alice"}, []string{"low", "high"})
	for i := 0; i < 4; i++ {
		store.RecordAnswer("alice", "high", true) // box 5
	}

	sel := newTestSelector(store, catalog)

	// Day 1: ceiling is box 2; "high" (box 5) must not appear.
	advanceTo(store, "alice", 1)
	deck, err := sel.SelectDueCards("alice")
	if err != nil {
		t.Fatalf("SelectDueCards: %v", err)
	}
	if deck.Tier != TierSchedule {
		t.Errorf("tier = %v, want %v", deck.Tier, TierSchedule)
	}
	ids := deckIDs(deck)
	if ids["high"] {
		t.Error("box 5 card selected with ceiling 2 and no fallback active")
	}
	if !ids["low"] {
		t.Error("box 1 card missing from schedule selection")
	}
}

func TestSelectDueCardsAllAssignedFallback(t *testing.T) {
	store := progress.New(nil)
	catalog := &fakeCatalog{cards: makeCards("c1", "c2")}
	store.AssignCards([]string{"alice"}, []string{"c1", "c2"})

	// Push both cards to box 5; day 0 has ceiling 1, so the schedule tier
	// and the box-1 tier are both empty.
	for _, id := range []string{"c1", "c2"} {
		for i := 0; i < 4; i++ {
			store.RecordAnswer("alice", id, true)
		}
	}

	sel := newTestSelector(store, catalog)
	deck, err := sel.SelectDueCards("alice")
	if err != nil {
		t.Fatalf("SelectDueCards: %v", err)
	}
	if deck.Tier != TierAllAssigned {
		t.Errorf("tier = %v, want %v", deck.Tier, TierAllAssigned)
	}
	ids := deckIDs(deck)
	if len(ids) != 2 || !ids["c1"] || !ids["c2"] {
		t.Errorf("deck = %v, want both assigned cards", ids)
	}
}

func TestSelectDueCardsEmptyRecordKeepsScheduleTier(t *testing.T) {
	store := progress.New(nil)
	catalog := &fakeCatalog{cards: makeCards("c1")}

	// Advancing the day creates a progress record with no cards. Neither
	// fallback can fill the deck, so neither may claim its tier label.
	store.AdvanceDay("alice")

	sel := newTestSelector(store, catalog)
	deck, err := sel.SelectDueCards("alice")
	if err != nil {
		t.Fatalf("SelectDueCards: %v", err)
	}
	if len(deck.Cards) != 0 {
		t.Fatalf("deck = %v, want empty", deckIDs(deck))
	}
	if deck.Tier != TierSchedule {
		t.Errorf("tier = %v, want %v for an empty deck", deck.Tier, TierSchedule)
	}
}

func TestSelectDueCardsDebugTierGated(t *testing.T) {
	store := progress.New(nil)
	catalog := &fakeCatalog{cards: makeCards("a", "b", "c", "d", "e", "f", "g")}

	// No assigned cards at all. With the debug flag off the deck is empty.
	sel := newTestSelector(store, catalog)
	deck, err := sel.SelectDueCards("nobody")
	if err != nil {
		t.Fatalf("SelectDueCards: %v", err)
	}
	if len(deck.Cards) != 0 {
		t.Errorf("deck = %v, want empty with debug fallback off", deckIDs(deck))
	}

	// With the flag on, a sample of 5 catalog cards is served.
	sel.DebugFallback = true
	deck, err = sel.SelectDueCards("nobody")
	if err != nil {
		t.Fatalf("SelectDueCards: %v", err)
	}
	if deck.Tier != TierRandomSample {
		t.Errorf("tier = %v, want %v", deck.Tier, TierRandomSample)
	}
	if len(deck.Cards) != 5 {
		t.Errorf("sample size = %d, want 5", len(deck.Cards))
	}
}

func TestSelectDueCardsEmptyEverything(t *testing.T) {
	store := progress.New(nil)
	sel := newTestSelector(store, &fakeCatalog{})

	deck, err := sel.SelectDueCards("nobody")
	if err != nil {
		t.Fatalf("SelectDueCards: %v", err)
	}
	if len(deck.Cards) != 0 {
		t.Errorf("deck = %v, want empty", deckIDs(deck))
	}
}

func TestSelectDueCardsSurfacesMissingCards(t *testing.T) {
	store := progress.New(nil)
	// Progress references c1 and "ghost", but only c1 exists in the catalog.
	catalog := &fakeCatalog{cards: makeCards("c1")}
	store.AssignCards([]string{"alice"}, []string{"c1", "ghost"})

	sel := newTestSelector(store, catalog)
	deck, err := sel.SelectDueCards("alice")
	if err != nil {
		t.Fatalf("SelectDueCards: %v", err)
	}
	ids := deckIDs(deck)
	if len(ids) != 1 || !ids["c1"] {
		t.Errorf("deck = %v, want [c1]", ids)
	}
	if len(deck.Missing) != 1 || deck.Missing[0] != "ghost" {
		t.Errorf("missing = %v, want [ghost]", deck.Missing)
	}

	// Progress for the dangling card is left intact.
	sp, _ := store.GetProgress("alice")
	if sp.Progress["ghost"].Box != 1 {
		t.Errorf("ghost box = %d, want 1 (untouched)", sp.Progress["ghost"].Box)
	}
}

func TestSelectDueCardsCatalogError(t *testing.T) {
	store := progress.New(nil)
	sel := newTestSelector(store, &fakeCatalog{err: errors.New("db down")})

	if _, err := sel.SelectDueCards("alice"); err == nil {
		t.Fatal("expected error when catalog fails")
	}
}
