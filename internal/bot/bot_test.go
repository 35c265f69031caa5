package bot

import (
	"testing"
	"time"

	"github.com/example/foxbox/internal/progress"
	"github.com/example/foxbox/internal/study"
	"github.com/example/foxbox/pkg/models"
)

type fakeCatalog struct {
	cards []models.Flashcard
}

func (f *fakeCatalog) GetAllCards() ([]models.Flashcard, error) {
	return f.cards, nil
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

func TestMatchesCurrentRejectsStaleCallback(t *testing.T) {
	store := progress.New(nil)
	store.AssignCards([]string{"alice"}, []string{"A", "B"})
	sel := study.NewSelector(store, &fakeCatalog{cards: makeCards("A", "B")})

	session, err := study.StartSession(store, sel, "alice", time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}

	first, ok := session.Current()
	if !ok {
		t.Fatal("no current card in a fresh session")
	}
	if !matchesCurrent(session, first.ID) {
		t.Fatal("current card's own button rejected")
	}

	// Answer the first card, then tap its still-visible button again. The
	// duplicate must not match, or the outcome would land on the second
	// card and advance the cursor past it unseen.
	if err := session.Answer(true); err != nil {
		t.Fatalf("Answer: %v", err)
	}
	second, ok := session.Current()
	if !ok {
		t.Fatal("session ended after one of two cards")
	}
	if second.ID == first.ID {
		t.Fatalf("cursor did not advance past %s", first.ID)
	}
	if matchesCurrent(session, first.ID) {
		t.Error("stale callback for an answered card matched")
	}
	if !matchesCurrent(session, second.ID) {
		t.Error("callback for the current card rejected")
	}

	// After completion no button may act.
	if err := session.Answer(true); err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if session.Phase() != study.PhaseComplete {
		t.Fatalf("phase = %v, want %v", session.Phase(), study.PhaseComplete)
	}
	if matchesCurrent(session, first.ID) || matchesCurrent(session, second.ID) {
		t.Error("callback matched after session completion")
	}
}
