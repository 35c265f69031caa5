// Package scheduler runs the daily study-reminder job. It never mutates
// progress: advancing a student's calendar day stays an explicit action.
package scheduler

import (
	"log"
	"os"
	"time"

	"github.com/example/foxbox/internal/progress"
	"github.com/example/foxbox/internal/study"
	"github.com/go-co-op/gocron"
)

// DefaultReminderTime is when the daily reminder job fires (HH:MM, UTC)
const DefaultReminderTime = "08:00"

// Notifier interface for sending study reminders
type Notifier interface {
	SendStudyReminder(studentID string, dueCount int) error
}

// Scheduler manages scheduled tasks for the application
type Scheduler struct {
	scheduler *gocron.Scheduler
	store     *progress.Store
	selector  *study.Selector
	notifier  Notifier
}

// New creates a new scheduler instance
func New(store *progress.Store, selector *study.Selector, notifier Notifier) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		store:     store,
		selector:  selector,
		notifier:  notifier,
	}
}

// Start begins running all scheduled tasks
func (s *Scheduler) Start() {
	reminderTime := DefaultReminderTime
	if t := os.Getenv("REMINDER_TIME"); t != "" {
		reminderTime = t
	}

	if _, err := s.scheduler.Every(1).Day().At(reminderTime).Do(s.sendDailyReminders); err != nil {
		log.Printf("Error scheduling daily reminders: %v", err)
		return
	}

	// Start the scheduler in a non-blocking manner
	s.scheduler.StartAsync()
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// sendDailyReminders notifies every student who has a non-empty due set
func (s *Scheduler) sendDailyReminders() {
	for _, studentID := range s.store.StudentIDs() {
		deck, err := s.selector.SelectDueCards(studentID)
		if err != nil {
			log.Printf("Error selecting due cards for student %s: %v", studentID, err)
			continue
		}
		if len(deck.Missing) > 0 {
			log.Printf("Warning: student %s has progress for %d cards missing from the catalog: %v",
				studentID, len(deck.Missing), deck.Missing)
		}
		if len(deck.Cards) == 0 {
			continue
		}
		if err := s.notifier.SendStudyReminder(studentID, len(deck.Cards)); err != nil {
			log.Printf("Error sending reminder to student %s: %v", studentID, err)
		}
	}
}

// RunManualCheck forces a reminder check for a specific student
func (s *Scheduler) RunManualCheck(studentID string) error {
	deck, err := s.selector.SelectDueCards(studentID)
	if err != nil {
		return err
	}
	if len(deck.Cards) > 0 {
		return s.notifier.SendStudyReminder(studentID, len(deck.Cards))
	}
	return nil
}
