package database

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// DB is the global database connection
var DB *sqlx.DB

// Connect establishes a connection to the database. DB_TYPE selects the
// backend: "postgres" uses DATABASE_URL, anything else uses a local SQLite
// file under data/.
func Connect() error {
	dbType := os.Getenv("DB_TYPE")

	if dbType == "postgres" {
		dsn := os.Getenv("DATABASE_URL")
		if dsn == "" {
			return fmt.Errorf("DATABASE_URL environment variable is not set")
		}
		db, err := sqlx.Connect("postgres", dsn)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %v", err)
		}
		DB = db
		return initializeSchema()
	}

	// Create data directory if it doesn't exist
	dataDir := "data"
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %v", err)
	}

	dbPath := filepath.Join(dataDir, "foxbox.db")
	db, err := sqlx.Connect("sqlite3", dbPath)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %v", err)
	}

	// Enable foreign keys
	_, err = db.Exec("PRAGMA foreign_keys = ON")
	if err != nil {
		return fmt.Errorf("failed to enable foreign keys: %v", err)
	}

	// SQLite doesn't support multiple writers
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	DB = db

	return initializeSchema()
}

// Close closes the database connection
func Close() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}

// initializeSchema creates necessary tables if they don't exist
func initializeSchema() error {
	// Create flashcard_sets table
	_, err := DB.Exec(`
		CREATE TABLE IF NOT EXISTS flashcard_sets (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create flashcard_sets table: %v", err)
	}

	// Create flashcards table
	_, err = DB.Exec(`
		CREATE TABLE IF NOT EXISTS flashcards (
			id TEXT PRIMARY KEY,
			question_img TEXT NOT NULL,
			answer_img TEXT NOT NULL,
			set_id TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (set_id) REFERENCES flashcard_sets(id)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create flashcards table: %v", err)
	}

	// Create classes table
	_, err = DB.Exec(`
		CREATE TABLE IF NOT EXISTS classes (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create classes table: %v", err)
	}

	// Create students table
	_, err = DB.Exec(`
		CREATE TABLE IF NOT EXISTS students (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			class_id TEXT NOT NULL,
			FOREIGN KEY (class_id) REFERENCES classes(id)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create students table: %v", err)
	}

	// Create student_progress table
	_, err = DB.Exec(`
		CREATE TABLE IF NOT EXISTS student_progress (
			student_id TEXT NOT NULL,
			card_id TEXT NOT NULL,
			box INTEGER NOT NULL DEFAULT 1,
			last_reviewed_at TIMESTAMP,
			PRIMARY KEY (student_id, card_id)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create student_progress table: %v", err)
	}

	// Create student_state table
	_, err = DB.Exec(`
		CREATE TABLE IF NOT EXISTS student_state (
			student_id TEXT PRIMARY KEY,
			current_day_index INTEGER NOT NULL DEFAULT 0
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create student_state table: %v", err)
	}

	// Create student_usage table
	_, err = DB.Exec(`
		CREATE TABLE IF NOT EXISTS student_usage (
			student_id TEXT NOT NULL,
			usage_date TEXT NOT NULL,
			PRIMARY KEY (student_id, usage_date)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create student_usage table: %v", err)
	}

	return nil
}
