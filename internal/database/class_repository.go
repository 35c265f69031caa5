package database

import (
	"fmt"

	"github.com/example/foxbox/pkg/models"
)

// ClassRepository handles database operations for classes and students
type ClassRepository struct{}

// NewClassRepository creates a new repository instance
func NewClassRepository() *ClassRepository {
	return &ClassRepository{}
}

// GetClasses returns all classes with their students
func (r *ClassRepository) GetClasses() ([]models.Class, error) {
	var classes []models.Class
	err := DB.Select(&classes, "SELECT id, name FROM classes ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to get classes: %v", err)
	}
	for i := range classes {
		students, err := r.GetStudentsByClass(classes[i].ID)
		if err != nil {
			return nil, err
		}
		classes[i].Students = students
	}
	return classes, nil
}

// GetStudentsByClass returns the students enrolled in a class
func (r *ClassRepository) GetStudentsByClass(classID string) ([]models.Student, error) {
	var students []models.Student
	err := DB.Select(&students, "SELECT id, name, class_id FROM students WHERE class_id = $1 ORDER BY name", classID)
	if err != nil {
		return nil, fmt.Errorf("failed to get students for class %s: %v", classID, err)
	}
	return students, nil
}

// GetAllStudents returns every student across all classes
func (r *ClassRepository) GetAllStudents() ([]models.Student, error) {
	var students []models.Student
	err := DB.Select(&students, "SELECT id, name, class_id FROM students ORDER BY class_id, name")
	if err != nil {
		return nil, fmt.Errorf("failed to get students: %v", err)
	}
	return students, nil
}

// GetStudent returns a single student by ID
func (r *ClassRepository) GetStudent(studentID string) (*models.Student, error) {
	var student models.Student
	err := DB.Get(&student, "SELECT id, name, class_id FROM students WHERE id = $1", studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get student %s: %v", studentID, err)
	}
	return &student, nil
}

// CreateClass inserts a class if it doesn't already exist
func (r *ClassRepository) CreateClass(class *models.Class) error {
	var existing string
	err := DB.Get(&existing, "SELECT id FROM classes WHERE id = $1", class.ID)
	if err == nil {
		return nil
	}
	_, err = DB.Exec("INSERT INTO classes (id, name) VALUES ($1, $2)", class.ID, class.Name)
	if err != nil {
		return fmt.Errorf("failed to create class %s: %v", class.ID, err)
	}
	return nil
}

// CreateStudent inserts a student if they don't already exist
func (r *ClassRepository) CreateStudent(student *models.Student) error {
	var existing string
	err := DB.Get(&existing, "SELECT id FROM students WHERE id = $1", student.ID)
	if err == nil {
		return nil
	}
	_, err = DB.Exec(
		"INSERT INTO students (id, name, class_id) VALUES ($1, $2, $3)",
		student.ID, student.Name, student.ClassID,
	)
	if err != nil {
		return fmt.Errorf("failed to create student %s: %v", student.ID, err)
	}
	return nil
}
