// Package excel imports flashcard sets from Excel or CSV files into the
// catalog. Each row describes one card: its ID, question image, answer
// image, and the set it belongs to.
package excel

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/foxbox/internal/database"
	"github.com/example/foxbox/pkg/models"
	"github.com/xuri/excelize/v2"
)

// ImportConfig defines the import configuration
type ImportConfig struct {
	FilePath          string // Path to the Excel or CSV file
	CardIDColumn      string // Column with the card ID
	QuestionImgColumn string // Column with the question image path
	AnswerImgColumn   string // Column with the answer image path
	SetIDColumn       string // Column with the set ID
	SetNameColumn     string // Column with the set name
	SheetName         string // Name of the sheet to import
	StartRow          int    // The row to start importing from (1-based index)
}

// DefaultImportConfig returns the default import configuration
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		CardIDColumn:      "A",
		QuestionImgColumn: "B",
		AnswerImgColumn:   "C",
		SetIDColumn:       "D",
		SetNameColumn:     "E",
		SheetName:         "Sheet1",
		StartRow:          2, // By default, start from the second row (skip header)
	}
}

// ImportResult holds the result of an import operation
type ImportResult struct {
	TotalProcessed int
	SetsCreated    int
	Cards          int
	Skipped        int
	Errors         []string
}

// ImportCards imports flashcards from an Excel or CSV file
func ImportCards(config ImportConfig) (*ImportResult, error) {
	ext := strings.ToLower(filepath.Ext(config.FilePath))

	if ext == ".csv" {
		return importFromCSV(config)
	}

	return importFromExcel(config)
}

// importFromExcel imports flashcards from an Excel file
func importFromExcel(config ImportConfig) (*ImportResult, error) {
	f, err := excelize.OpenFile(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(config.SheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %v", err)
	}

	return importRows(rows, config)
}

// importFromCSV imports flashcards from a CSV file
func importFromCSV(config ImportConfig) (*ImportResult, error) {
	file, err := os.Open(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %v", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV file: %v", err)
		}
		rows = append(rows, row)
	}

	return importRows(rows, config)
}

// importRows walks the parsed rows and writes cards into the catalog,
// accumulating per-row errors instead of aborting the whole import.
func importRows(rows [][]string, config ImportConfig) (*ImportResult, error) {
	cardRepo := database.NewFlashcardRepository()

	result := &ImportResult{
		Errors: make([]string, 0),
	}

	// Track which sets have been created during this import
	createdSets := make(map[string]bool)

	for i, row := range rows {
		// Skip header rows
		if i < config.StartRow-1 {
			continue
		}

		result.TotalProcessed++

		if err := processRow(row, config, cardRepo, createdSets, result); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", i+1, err))
		}
	}

	return result, nil
}

// processRow imports a single row
func processRow(row []string, config ImportConfig, cardRepo *database.FlashcardRepository, createdSets map[string]bool, result *ImportResult) error {
	cardID := cellValue(row, config.CardIDColumn)
	questionImg := cellValue(row, config.QuestionImgColumn)
	answerImg := cellValue(row, config.AnswerImgColumn)
	setID := cellValue(row, config.SetIDColumn)
	setName := cellValue(row, config.SetNameColumn)

	if cardID == "" {
		result.Skipped++
		return nil
	}
	if questionImg == "" || answerImg == "" {
		result.Skipped++
		return fmt.Errorf("card %s is missing question or answer image", cardID)
	}
	if setID == "" {
		// Derive the set from the card ID prefix, e.g. "421FC_01" -> "421"
		if idx := strings.Index(cardID, "FC"); idx > 0 {
			setID = cardID[:idx]
		} else {
			result.Skipped++
			return fmt.Errorf("card %s has no set ID", cardID)
		}
	}
	if setName == "" {
		setName = "Chapter " + setID
	}

	if !createdSets[setID] {
		if err := cardRepo.CreateSet(&models.FlashcardSet{ID: setID, Name: setName}); err != nil {
			return err
		}
		createdSets[setID] = true
		result.SetsCreated++
	}

	card := &models.Flashcard{
		ID:          cardID,
		QuestionImg: questionImg,
		AnswerImg:   answerImg,
		SetID:       setID,
	}
	if err := cardRepo.CreateOrUpdateCard(card); err != nil {
		return err
	}
	result.Cards++

	return nil
}

// cellValue returns the trimmed value of the lettered column in a row,
// or "" when the row is too short.
func cellValue(row []string, column string) string {
	idx := columnIndex(column)
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// columnIndex converts a column letter ("A", "B", ... "AA") to a 0-based index
func columnIndex(column string) int {
	column = strings.ToUpper(strings.TrimSpace(column))
	if column == "" {
		return -1
	}
	idx := 0
	for _, ch := range column {
		if ch < 'A' || ch > 'Z' {
			return -1
		}
		idx = idx*26 + int(ch-'A') + 1
	}
	return idx - 1
}
