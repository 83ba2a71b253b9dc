package tasks

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"bulkpickup_app/internal/models"
)

// RetryDelay is how long a failed task waits before it is picked up again
const RetryDelay = 5 * time.Minute

// ErrPermanent marks a handler failure that must not be retried by the runner
var ErrPermanent = errors.New("permanent failure")

// Store persists scheduled tasks and their run history
type Store interface {
	Enqueue(ctx context.Context, task *models.ScheduledTask) error
	HasActive(ctx context.Context, taskName string) (bool, error)
	DueTasks(ctx context.Context, now time.Time) ([]models.ScheduledTask, error)
	Finish(ctx context.Context, task models.ScheduledTask, history models.ScheduledTaskHistory, update TaskUpdate) error
}

// TaskUpdate is the state a task moves to after one run
type TaskUpdate struct {
	Status  models.ScheduledTaskStatus
	Due     time.Time
	Attempt int
	LastRun time.Time
}

// nextTaskState decides what happens to a task after it ran at runAt.
// Attempt counts consecutive failures and resets on success.
func nextTaskState(task models.ScheduledTask, err error, runAt time.Time) TaskUpdate {
	update := TaskUpdate{Due: task.Due, LastRun: runAt}

	if err != nil {
		update.Attempt = task.Attempt + 1
		if !errors.Is(err, ErrPermanent) && update.Attempt < task.MaxAttempt {
			update.Status = models.ScheduledTaskStatusActive
			update.Due = runAt.Add(RetryDelay)
			return update
		}
		update.Status = models.ScheduledTaskStatusFailure
		return update
	}

	switch task.TaskType {
	case models.ScheduledTaskTypeRecurring:
		next := task.NextDue(runAt)
		// a rule that cannot move past the current due would run forever
		if next.After(task.Due) && next.After(runAt) {
			update.Status = models.ScheduledTaskStatusActive
			update.Due = next
			return update
		}
		update.Status = models.ScheduledTaskStatusDone
	default:
		update.Status = models.ScheduledTaskStatusDone
	}
	return update
}

// Runner executes due tasks against a registry
type Runner struct {
	registry *Registry
	deps     Deps
}

func NewRunner(registry *Registry, deps Deps) *Runner {
	return &Runner{registry: registry, deps: deps}
}

// RunDue executes every active task whose due time has passed and returns
// how many ran
func (r *Runner) RunDue(ctx context.Context) (int, error) {
	log.Println("Checking for pending tasks...")

	pending, err := r.deps.Store.DueTasks(ctx, r.deps.now())
	if err != nil {
		return 0, fmt.Errorf("failed to fetch pending tasks: %w", err)
	}
	if len(pending) == 0 {
		log.Println("No pending tasks found.")
		return 0, nil
	}

	log.Printf("Found %d pending tasks.", len(pending))
	ran := 0
	for _, task := range pending {
		if ctx.Err() != nil {
			return ran, ctx.Err()
		}
		if err := r.Execute(ctx, task); err != nil {
			log.Printf("Failed to record task %s (ID: %d): %v", task.TaskName, task.ID, err)
			continue
		}
		ran++
	}
	return ran, nil
}

// Execute runs a single task and records the outcome
func (r *Runner) Execute(ctx context.Context, task models.ScheduledTask) error {
	log.Printf("Processing task: %s (ID: %d)", task.TaskName, task.ID)

	startTime := r.deps.now()
	history := models.ScheduledTaskHistory{
		ScheduledTaskID: task.ID,
		TaskName:        task.TaskName,
		RunAt:           startTime,
		AttemptNumber:   task.Attempt + 1,
		Arguments:       task.Arguments,
	}

	handler, found := r.registry.Get(task.TaskName)
	if !found {
		log.Printf("Task handler not found for: %s. Marking as failure.", task.TaskName)
		history.Status = "handler_not_found"
		history.Result = map[string]interface{}{"error": "Handler not found"}
		return r.deps.Store.Finish(ctx, task, history, TaskUpdate{
			Status:  models.ScheduledTaskStatusFailure,
			Due:     task.Due,
			Attempt: task.Attempt + 1,
			LastRun: startTime,
		})
	}

	clock := time.Now()
	result, err := handler(ctx, r.deps, task)
	history.Runtime = int(time.Since(clock).Milliseconds())

	if err != nil {
		log.Printf("Task %s failed: %v", task.TaskName, err)
		history.Status = "failure"
		if result == nil {
			result = map[string]interface{}{}
		}
		result["error"] = err.Error()
	} else {
		log.Printf("Task %s completed successfully.", task.TaskName)
		history.Status = "success"
	}
	history.Result = result

	return r.deps.Store.Finish(ctx, task, history, nextTaskState(task, err, startTime))
}

// Run executes due tasks once immediately and then on every tick until ctx
// is cancelled
func (r *Runner) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := r.RunDue(ctx); err != nil && ctx.Err() == nil {
			log.Printf("Error running tasks: %v", err)
		}
		select {
		case <-ticker.C:
		case <-ctx.Done():
			return
		}
	}
}
