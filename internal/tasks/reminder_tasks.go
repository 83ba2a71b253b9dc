package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"bulkpickup_app/internal/models"
	"bulkpickup_app/internal/services"
)

const (
	// DailyInterval re-queues the reminder scan once a day
	DailyInterval = "FREQ=DAILY"
	// ReminderRetryDelay is how long failed channels wait before a retry
	ReminderRetryDelay = 5 * time.Minute
	reminderMaxAttempt = 3
)

// QueuePickupRemindersTaskDef scans subscriptions and queues one send task per
// reminder due today
type QueuePickupRemindersTaskDef struct{}

func (t *QueuePickupRemindersTaskDef) TaskID() string {
	return "queue_pickup_reminders"
}

// CreateTask builds the recurring daily scan starting at first
func (t *QueuePickupRemindersTaskDef) CreateTask(first time.Time) (*models.ScheduledTask, error) {
	interval := DailyInterval
	return BuildScheduledTask(t.TaskID(), map[string]interface{}{}, first, &interval, models.ScheduledTaskTypeRecurring, 1)
}

// EnsureScheduled queues the daily scan, first due at first, unless an
// active one already exists. It reports whether a task was queued.
func (t *QueuePickupRemindersTaskDef) EnsureScheduled(ctx context.Context, store Store, first time.Time) (bool, error) {
	active, err := store.HasActive(ctx, t.TaskID())
	if err != nil {
		return false, fmt.Errorf("queue_pickup_reminders: check active: %w", err)
	}
	if active {
		return false, nil
	}

	task, err := t.CreateTask(first)
	if err != nil {
		return false, err
	}
	if err := store.Enqueue(ctx, task); err != nil {
		return false, fmt.Errorf("queue_pickup_reminders: enqueue: %w", err)
	}
	return true, nil
}

func (t *QueuePickupRemindersTaskDef) HandleExecution(ctx context.Context, deps Deps, task models.ScheduledTask) (map[string]interface{}, error) {
	if deps.Subscriptions == nil || deps.Store == nil {
		return nil, fmt.Errorf("queue_pickup_reminders: subscriptions and store are required")
	}

	subs, err := deps.Subscriptions.ActiveSubscriptions(ctx)
	if err != nil {
		return nil, err
	}

	now := deps.now()
	queued, skipped := 0, 0
	var failures []string

	for _, sub := range subs {
		channels := sub.NotificationPreferences.Channels()
		if len(channels) == 0 {
			skipped++
			continue
		}

		reminders, err := services.RemindersDue(sub, now)
		if err != nil {
			log.Printf("Skipping subscription %d: %v", sub.ID, err)
			failures = append(failures, fmt.Sprintf("subscription %d: %v", sub.ID, err))
			continue
		}

		for _, r := range reminders {
			send, err := SendPickupReminderTask.CreateTask(SendReminderArgs{
				SubscriptionID: sub.ID,
				Reminder:       r,
				Channels:       channels,
			}, now)
			if err == nil {
				err = deps.Store.Enqueue(ctx, send)
			}
			if err != nil {
				log.Printf("Failed to queue reminder for subscription %d: %v", sub.ID, err)
				failures = append(failures, fmt.Sprintf("subscription %d: %v", sub.ID, err))
				continue
			}
			queued++
		}
	}

	result := map[string]interface{}{
		"subscriptions": len(subs),
		"queued":        queued,
		"skipped":       skipped,
	}
	if len(failures) > 0 {
		result["errors"] = failures
	}
	return result, nil
}

var QueuePickupRemindersTask = &QueuePickupRemindersTaskDef{}

// SendReminderArgs defines the arguments for a reminder delivery task
type SendReminderArgs struct {
	SubscriptionID uint                         `json:"subscription_id"`
	Reminder       services.Reminder            `json:"reminder"`
	Channels       []models.NotificationChannel `json:"channels"`
	AttemptCount   int                          `json:"attempt_count"`
}

// SendPickupReminderTaskDef delivers one reminder on its channels
type SendPickupReminderTaskDef struct{}

func (t *SendPickupReminderTaskDef) TaskID() string {
	return "send_pickup_reminder"
}

// CreateTask builds a one-time ScheduledTask record for this task
func (t *SendPickupReminderTaskDef) CreateTask(args SendReminderArgs, due time.Time) (*models.ScheduledTask, error) {
	return BuildScheduledTask(t.TaskID(), args, due, nil, models.ScheduledTaskTypeOneTime, reminderMaxAttempt)
}

// HandleExecution sends the reminder. Channels that fail are re-queued on
// their own in ReminderRetryDelay until the task's max attempts are used up.
func (t *SendPickupReminderTaskDef) HandleExecution(ctx context.Context, deps Deps, task models.ScheduledTask) (map[string]interface{}, error) {
	if deps.Notifier == nil {
		return nil, fmt.Errorf("send_pickup_reminder: notifier is required")
	}

	var args SendReminderArgs
	if err := decodeArgs(task, &args); err != nil {
		return nil, err
	}

	channels := make([]models.NotificationChannel, 0, len(args.Channels))
	for _, ch := range args.Channels {
		if parsed, ok := models.ParseNotificationChannel(string(ch)); ok {
			channels = append(channels, parsed)
		}
	}
	if len(channels) == 0 {
		return map[string]interface{}{"status": "skipped", "message": "No channels enabled"}, nil
	}

	res := deps.Notifier.Deliver(ctx, args.Reminder, channels)
	failed := res.FailedChannels()

	result := map[string]interface{}{
		"sent":    res.Sent,
		"skipped": res.Skipped,
		"failed":  failed,
		"attempt": args.AttemptCount + 1,
	}
	if len(failed) == 0 {
		return result, nil
	}
	result["errors"] = res.Err().Error()

	maxAttempt := task.MaxAttempt
	if maxAttempt < 1 {
		maxAttempt = 1
	}
	if args.AttemptCount+1 >= maxAttempt {
		log.Printf("Max attempts (%d) reached for subscription %d on %v", maxAttempt, args.SubscriptionID, failed)
		return result, fmt.Errorf("%w: max attempts reached, failed channels %v: %v", ErrPermanent, failed, res.Err())
	}

	log.Printf("Partial failure on %v. Rescheduling for attempt %d", failed, args.AttemptCount+2)
	retryArgs := args
	retryArgs.Channels = failed
	retryArgs.AttemptCount = args.AttemptCount + 1

	retry, err := BuildScheduledTask(t.TaskID(), retryArgs, deps.now().Add(ReminderRetryDelay), nil, models.ScheduledTaskTypeOneTime, maxAttempt)
	if err != nil {
		return result, fmt.Errorf("failed to build retry task: %w", err)
	}
	if deps.Store == nil {
		return result, fmt.Errorf("send_pickup_reminder: no store to queue retry")
	}
	if err := deps.Store.Enqueue(ctx, retry); err != nil {
		return result, fmt.Errorf("failed to queue retry task: %w", err)
	}
	result["retry_due"] = retry.Due
	return result, nil
}

var SendPickupReminderTask = &SendPickupReminderTaskDef{}
