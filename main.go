package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/example/foxbox/internal/bot"
	"github.com/example/foxbox/internal/database"
	"github.com/example/foxbox/internal/progress"
	"github.com/example/foxbox/internal/scheduler"
	"github.com/example/foxbox/internal/study"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env if present; real environment variables win
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := database.Connect(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	// The store restores its snapshot through the database-backed
	// persistence collaborator and saves through it on every mutation.
	store := progress.New(database.NewProgressRepository())

	selector := study.NewSelector(store, database.NewFlashcardRepository())
	if os.Getenv("DEBUG_FALLBACK") == "true" {
		log.Println("Random-sample debug fallback enabled")
		selector.DebugFallback = true
	}

	b, err := bot.New(store, selector, database.NewClassRepository(), bot.DefaultConfig())
	if err != nil {
		log.Fatalf("Failed to create bot: %v", err)
	}

	// Daily study reminders; day advancement stays a manual action
	var sched *scheduler.Scheduler
	if os.Getenv("ENABLE_SCHEDULER") != "false" {
		sched = scheduler.New(store, selector, b)
		sched.Start()
	}

	done := make(chan struct{})

	go func() {
		sig := <-sigChan
		log.Printf("Received signal: %v\n", sig)
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()

		if sched != nil {
			sched.Stop()
		}
		if err := b.Stop(shutdownCtx); err != nil {
			log.Printf("Error during shutdown: %v", err)
		}

		close(done)
	}()

	log.Println("foxbox trainer started. Press Ctrl+C to stop.")
	go func() {
		if err := b.Start(ctx); err != nil && err != context.Canceled {
			log.Printf("Bot error: %v", err)
		}
	}()

	<-done
	log.Println("foxbox trainer stopped")
}
