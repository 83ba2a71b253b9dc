package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/alecthomas/kong"
	"gorm.io/gorm"

	"bulkpickup_app/internal/catalog"
	"bulkpickup_app/internal/config"
	"bulkpickup_app/internal/models"
	"bulkpickup_app/internal/services"
	"bulkpickup_app/internal/tasks"
)

type cli struct {
	Migrate      migrateCmd      `cmd:"" help:"Run database migrations and optionally seed the demo catalog."`
	ScheduleTask scheduleTaskCmd `cmd:"" name:"schedule-task" help:"Queue a task for the worker."`
	Notify       notifyCmd       `cmd:"" help:"Send a test message on one notification channel."`
}

type migrateCmd struct {
	Seed bool `help:"Seed zones, schedules and businesses when the database is empty."`
}

type scheduleTaskCmd struct {
	TaskName   string `arg:"" help:"Registered task name (log_info, queue_pickup_reminders, send_pickup_reminder)."`
	Arguments  string `default:"{}" help:"JSON arguments for the task."`
	Due        string `help:"Due time, RFC3339 or '2006-01-02 15:04' local. Defaults to now."`
	Recurring  string `help:"RRULE for recurring tasks, e.g. FREQ=DAILY. queue_pickup_reminders is always daily."`
	MaxAttempt int    `name:"max-attempt" default:"3" help:"Attempts before the task is marked failed."`
}

type notifyCmd struct {
	Channel string `arg:"" enum:"email,sms,push" help:"Channel to test (email, sms, push)."`
	To      string `arg:"" help:"Email address, phone number or Telegram chat id."`
	Message string `default:"BulkPickup Pro test notification" help:"Message text."`
}

func main() {
	ctx := kong.Parse(&cli{},
		kong.Name("pickupctl"),
		kong.Description("Admin utility for the BulkPickup Pro database and worker."),
		kong.UsageOnError(),
	)
	err := ctx.Run(context.Background())
	ctx.FatalIfErrorf(err)
}

func openDB(cfg config.Config) (*gorm.DB, error) {
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("pickupctl: DATABASE_URL is not set")
	}
	return services.InitDB(cfg.DatabaseURL, true)
}

func (cmd *migrateCmd) Run(_ context.Context) error {
	db, err := openDB(config.Load())
	if err != nil {
		return err
	}
	if err := services.AutoMigrate(db); err != nil {
		return fmt.Errorf("pickupctl: migrate: %w", err)
	}
	if !cmd.Seed {
		return nil
	}

	cat, err := catalog.Default()
	if err != nil {
		return err
	}
	seeded, err := services.SeedCatalog(db, cat)
	if err != nil {
		return fmt.Errorf("pickupctl: seed: %w", err)
	}
	if seeded {
		fmt.Fprintln(os.Stdout, "✓ Seeded demo catalog")
	}
	return nil
}

func (cmd *scheduleTaskCmd) Run(ctx context.Context) error {
	registry := tasks.NewRegistry()
	tasks.Define(registry)

	var args map[string]interface{}
	if err := json.Unmarshal([]byte(cmd.Arguments), &args); err != nil {
		return fmt.Errorf("pickupctl: invalid JSON arguments: %w", err)
	}

	due, err := parseDue(cmd.Due)
	if err != nil {
		return err
	}

	task, err := tasks.NewTask(registry, cmd.TaskName, args, due, cmd.Recurring, cmd.MaxAttempt)
	if err != nil {
		return fmt.Errorf("pickupctl: %w", err)
	}

	db, err := openDB(config.Load())
	if err != nil {
		return err
	}
	if err := tasks.NewGormStore(db).Enqueue(ctx, task); err != nil {
		return fmt.Errorf("pickupctl: create task: %w", err)
	}
	fmt.Fprintf(os.Stdout, "✓ Scheduled %s (ID: %d) due %s\n", task.TaskName, task.ID, task.Due.Format(time.RFC3339))
	return nil
}

func parseDue(raw string) (time.Time, error) {
	if raw == "" {
		return time.Now(), nil
	}
	if due, err := time.Parse(time.RFC3339, raw); err == nil {
		return due, nil
	}
	due, err := time.ParseInLocation("2006-01-02 15:04", raw, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("pickupctl: invalid due date %q, use RFC3339 or '2006-01-02 15:04'", raw)
	}
	return due, nil
}

func (cmd *notifyCmd) Run(ctx context.Context) error {
	cfg := config.Load()

	var err error
	switch cmd.Channel {
	case string(models.NotificationChannelEmail):
		err = services.NewEmailService(cfg).SendEmail(ctx, []string{cmd.To}, "BulkPickup Pro test", cmd.Message)
	case string(models.NotificationChannelSMS):
		err = services.NewWahaService(cfg).SendMessage(ctx, cmd.To, cmd.Message)
	case string(models.NotificationChannelPush):
		chatID, perr := strconv.ParseInt(cmd.To, 10, 64)
		if perr != nil {
			return fmt.Errorf("pickupctl: telegram chat id must be numeric: %w", perr)
		}
		err = services.NewTelegramService(cfg).SendMessage(ctx, chatID, cmd.Message)
	}
	if err != nil {
		return fmt.Errorf("pickupctl: send %s: %w", cmd.Channel, err)
	}
	fmt.Fprintf(os.Stdout, "✓ Sent %s message to %s\n", cmd.Channel, cmd.To)
	return nil
}
