package excel

import "testing"

func TestColumnIndex(t *testing.T) {
	tests := []struct {
		column string
		want   int
	}{
		{"A", 0},
		{"B", 1},
		{"E", 4},
		{"Z", 25},
		{"AA", 26},
		{"a", 0},
		{" C ", 2},
		{"", -1},
		{"1", -1},
	}
	for _, tt := range tests {
		if got := columnIndex(tt.column); got != tt.want {
			t.Errorf("columnIndex(%q) = %d, want %d", tt.column, got, tt.want)
		}
	}
}

func TestCellValue(t *testing.T) {
	row := []string{"421FC_01", " /flashcards/421FC_01Q.png ", ""}

	if got := cellValue(row, "A"); got != "421FC_01" {
		t.Errorf("cellValue A = %q", got)
	}
	if got := cellValue(row, "B"); got != "/flashcards/421FC_01Q.png" {
		t.Errorf("cellValue B = %q, want trimmed", got)
	}
	if got := cellValue(row, "C"); got != "" {
		t.Errorf("cellValue C = %q, want empty", got)
	}
	// Column beyond the row length.
	if got := cellValue(row, "Z"); got != "" {
		t.Errorf("cellValue Z = %q, want empty", got)
	}
}
