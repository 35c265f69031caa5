// Package leitner implements the Leitner box scheduling rules: the fixed
// 64-day review calendar and the box transition applied after each answer.
package leitner

const (
	// CalendarLength is the number of days in the repeating review schedule
	CalendarLength = 64
	// MaxActiveBox is the highest box still subject to scheduled review
	MaxActiveBox = 7
	// LearnedBox is the terminal box; cards here are no longer scheduled
	LearnedBox = 8
)

// ReviewSchedule maps a day index to the highest box number due for review
// on that day. Box 1 is implicitly always included in the review.
var ReviewSchedule = [CalendarLength]int{
	1, 2, 3, 2, 4, 2, 3, 1, 2, 3, 2, 5, 4, 3, 2, 1,
	2, 3, 2, 4, 2, 3, 2, 6, 2, 3, 2, 5, 4, 3, 2, 1,
	2, 3, 2, 4, 2, 3, 2, 1, 2, 3, 2, 5, 4, 3, 2, 1,
	2, 3, 2, 4, 2, 3, 2, 7, 2, 3, 2, 6, 5, 4, 3, 2,
}

// BoxColors maps each box to its display color, matching the printed
// classroom calendar.
var BoxColors = map[int]string{
	1: "#ff5252", // red
	2: "#ffb74d", // orange
	3: "#ffee58", // yellow
	4: "#66bb6a", // green
	5: "#4fc3f7", // cyan
	6: "#ba68c8", // violet
	7: "#ec407a", // magenta
	8: "#9e9e9e", // grey (learned)
}

// ScheduleForDay returns the maximum box to review on the given day.
// dayIndex must be in [0, CalendarLength); callers wrap modulo
// CalendarLength. An out-of-range index panics.
func ScheduleForDay(dayIndex int) int {
	return ReviewSchedule[dayIndex]
}

// BoxesForDay returns the ordered list of boxes due for review on the given
// day: 1 through max(1, ScheduleForDay(dayIndex)).
func BoxesForDay(dayIndex int) []int {
	maxBox := ScheduleForDay(dayIndex)
	if maxBox < 1 {
		maxBox = 1
	}
	boxes := make([]int, maxBox)
	for i := range boxes {
		boxes[i] = i + 1
	}
	return boxes
}
