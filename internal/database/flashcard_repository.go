package database

import (
	"fmt"

	"github.com/example/foxbox/pkg/models"
)

// FlashcardRepository handles database operations for the flashcard catalog.
// It satisfies the study package's Catalog interface.
type FlashcardRepository struct{}

// NewFlashcardRepository creates a new repository instance
func NewFlashcardRepository() *FlashcardRepository {
	return &FlashcardRepository{}
}

// GetAllCards returns every flashcard in the catalog
func (r *FlashcardRepository) GetAllCards() ([]models.Flashcard, error) {
	var cards []models.Flashcard
	err := DB.Select(&cards, "SELECT id, question_img, answer_img, set_id, created_at FROM flashcards ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to get flashcards: %v", err)
	}
	return cards, nil
}

// GetCardsBySet returns the flashcards belonging to a set
func (r *FlashcardRepository) GetCardsBySet(setID string) ([]models.Flashcard, error) {
	var cards []models.Flashcard
	err := DB.Select(&cards, "SELECT id, question_img, answer_img, set_id, created_at FROM flashcards WHERE set_id = $1 ORDER BY id", setID)
	if err != nil {
		return nil, fmt.Errorf("failed to get flashcards for set %s: %v", setID, err)
	}
	return cards, nil
}

// GetSets returns all flashcard sets without their cards
func (r *FlashcardRepository) GetSets() ([]models.FlashcardSet, error) {
	var sets []models.FlashcardSet
	err := DB.Select(&sets, "SELECT id, name FROM flashcard_sets ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to get flashcard sets: %v", err)
	}
	return sets, nil
}

// GetSetByID returns a single set together with its cards
func (r *FlashcardRepository) GetSetByID(setID string) (*models.FlashcardSet, error) {
	var set models.FlashcardSet
	err := DB.Get(&set, "SELECT id, name FROM flashcard_sets WHERE id = $1", setID)
	if err != nil {
		return nil, fmt.Errorf("failed to get flashcard set %s: %v", setID, err)
	}
	cards, err := r.GetCardsBySet(setID)
	if err != nil {
		return nil, err
	}
	set.Flashcards = cards
	return &set, nil
}

// CreateSet inserts a set if it doesn't already exist
func (r *FlashcardRepository) CreateSet(set *models.FlashcardSet) error {
	var existing string
	err := DB.Get(&existing, "SELECT id FROM flashcard_sets WHERE id = $1", set.ID)
	if err == nil {
		return nil
	}
	_, err = DB.Exec("INSERT INTO flashcard_sets (id, name) VALUES ($1, $2)", set.ID, set.Name)
	if err != nil {
		return fmt.Errorf("failed to create flashcard set %s: %v", set.ID, err)
	}
	return nil
}

// CreateOrUpdateCard inserts a flashcard or updates its images if present
func (r *FlashcardRepository) CreateOrUpdateCard(card *models.Flashcard) error {
	var existing string
	err := DB.Get(&existing, "SELECT id FROM flashcards WHERE id = $1", card.ID)
	if err == nil {
		_, err = DB.Exec(
			"UPDATE flashcards SET question_img = $1, answer_img = $2, set_id = $3 WHERE id = $4",
			card.QuestionImg, card.AnswerImg, card.SetID, card.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to update flashcard %s: %v", card.ID, err)
		}
		return nil
	}
	_, err = DB.Exec(
		"INSERT INTO flashcards (id, question_img, answer_img, set_id) VALUES ($1, $2, $3, $4)",
		card.ID, card.QuestionImg, card.AnswerImg, card.SetID,
	)
	if err != nil {
		return fmt.Errorf("failed to create flashcard %s: %v", card.ID, err)
	}
	return nil
}

// DeleteSet removes a set and its cards
func (r *FlashcardRepository) DeleteSet(setID string) error {
	if _, err := DB.Exec("DELETE FROM flashcards WHERE set_id = $1", setID); err != nil {
		return fmt.Errorf("failed to delete flashcards for set %s: %v", setID, err)
	}
	if _, err := DB.Exec("DELETE FROM flashcard_sets WHERE id = $1", setID); err != nil {
		return fmt.Errorf("failed to delete flashcard set %s: %v", setID, err)
	}
	return nil
}
