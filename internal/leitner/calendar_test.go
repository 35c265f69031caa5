package leitner

import "testing"

func TestScheduleForDayTotalAndInRange(t *testing.T) {
	for day := 0; day < CalendarLength; day++ {
		got := ScheduleForDay(day)
		if got < 1 || got > MaxActiveBox {
			t.Errorf("ScheduleForDay(%d) = %d, want in [1,%d]", day, got, MaxActiveBox)
		}
	}
}

func TestScheduleForDayDeterministic(t *testing.T) {
	for day := 0; day < CalendarLength; day++ {
		if ScheduleForDay(day) != ScheduleForDay(day) {
			t.Fatalf("ScheduleForDay(%d) not deterministic", day)
		}
	}
}

func TestScheduleKnownEntries(t *testing.T) {
	// Spot-check against the printed calendar: box 7 appears exactly once,
	// on day 55; box 6 on days 23 and 59.
	if got := ScheduleForDay(55); got != 7 {
		t.Errorf("ScheduleForDay(55) = %d, want 7", got)
	}
	for _, day := range []int{23, 59} {
		if got := ScheduleForDay(day); got != 6 {
			t.Errorf("ScheduleForDay(%d) = %d, want 6", day, got)
		}
	}
	count7 := 0
	for day := 0; day < CalendarLength; day++ {
		if ScheduleForDay(day) == 7 {
			count7++
		}
	}
	if count7 != 1 {
		t.Errorf("box 7 scheduled %d times, want 1", count7)
	}
}

func TestBoxesForDay(t *testing.T) {
	tests := []struct {
		day  int
		want []int
	}{
		{0, []int{1}},
		{1, []int{1, 2}},
		{2, []int{1, 2, 3}},
		{55, []int{1, 2, 3, 4, 5, 6, 7}},
	}
	for _, tt := range tests {
		got := BoxesForDay(tt.day)
		if len(got) != len(tt.want) {
			t.Errorf("BoxesForDay(%d) = %v, want %v", tt.day, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("BoxesForDay(%d) = %v, want %v", tt.day, got, tt.want)
				break
			}
		}
	}
}

func TestBoxColorsCoverAllBoxes(t *testing.T) {
	for box := 1; box <= LearnedBox; box++ {
		if _, ok := BoxColors[box]; !ok {
			t.Errorf("BoxColors missing entry for box %d", box)
		}
	}
}
