package models

import "time"

// Flashcard represents a single image-based flashcard
type Flashcard struct {
	ID          string    `json:"id" db:"id"`                     // e.g. "421FC_01"
	QuestionImg string    `json:"questionImg" db:"question_img"`  // Path or URL to the question image
	AnswerImg   string    `json:"answerImg" db:"answer_img"`      // Path or URL to the answer image
	SetID       string    `json:"setId" db:"set_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// FlashcardSet groups flashcards into an assignable unit (e.g. a chapter)
type FlashcardSet struct {
	ID         string      `json:"id" db:"id"` // e.g. "421"
	Name       string      `json:"name" db:"name"`
	Flashcards []Flashcard `json:"flashcards"`
}
