package tasks

import (
	"fmt"
	"time"

	"bulkpickup_app/internal/models"
)

// Define registers every task handler on r
func Define(r *Registry) {
	r.Register(LogInfoTask.TaskID(), LogInfoTask.HandleExecution)
	r.Register(QueuePickupRemindersTask.TaskID(), QueuePickupRemindersTask.HandleExecution)
	r.Register(SendPickupReminderTask.TaskID(), SendPickupReminderTask.HandleExecution)
}

// DefineTasks registers all available tasks on the global registry
func DefineTasks() {
	Define(GlobalRegistry)
}

// NewTask builds a task row for name. Known tasks go through their own
// CreateTask so their arguments and recurrence are filled in the same way
// the worker does it. recurring only applies to tasks without a fixed
// schedule.
func NewTask(r *Registry, name string, args map[string]interface{}, due time.Time, recurring string, maxAttempt int) (*models.ScheduledTask, error) {
	if _, ok := r.Get(name); !ok {
		return nil, fmt.Errorf("unknown task %s (known: %v)", name, r.Names())
	}

	switch name {
	case LogInfoTask.TaskID():
		message, _ := args["message"].(string)
		return LogInfoTask.CreateTask(message, due, maxAttempt)
	case QueuePickupRemindersTask.TaskID():
		return QueuePickupRemindersTask.CreateTask(due)
	}

	taskType := models.ScheduledTaskTypeOneTime
	var interval *string
	if recurring != "" {
		taskType = models.ScheduledTaskTypeRecurring
		interval = &recurring
	}
	return BuildScheduledTask(name, args, due, interval, taskType, maxAttempt)
}
