package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bulkpickup_app/internal/config"
	"bulkpickup_app/internal/services"
	"bulkpickup_app/internal/tasks"
)

func main() {
	cfg := config.Load()
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL not set")
	}

	db, err := services.InitDB(cfg.DatabaseURL, cfg.IsProduction())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	store := tasks.NewGormStore(db)

	tasks.DefineTasks()
	runner := tasks.NewRunner(tasks.GlobalRegistry, tasks.Deps{
		Store:         store,
		Subscriptions: services.NewScheduleService(db),
		Notifier:      services.NewNotifier(cfg),
	})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	queued, err := tasks.QueuePickupRemindersTask.EnsureScheduled(ctx, store, time.Now())
	if err != nil {
		log.Fatalf("Failed to schedule pickup reminders: %v", err)
	}
	if queued {
		log.Println("Scheduled the daily pickup reminder scan")
	}

	log.Printf("Worker started. Checking every %s", cfg.WorkerInterval)
	runner.Run(ctx, cfg.WorkerInterval)
	log.Println("Worker stopped")
}
