package models

// Student represents a single learner
type Student struct {
	ID      string `json:"id" db:"id"`
	Name    string `json:"name" db:"name"`
	ClassID string `json:"classId" db:"class_id"`
}

// Class represents a group of students taught together
type Class struct {
	ID       string    `json:"id" db:"id"` // e.g. "4B"
	Name     string    `json:"name" db:"name"`
	Students []Student `json:"students"`
}
