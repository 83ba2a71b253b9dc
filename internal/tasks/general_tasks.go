package tasks

import (
	"context"
	"log"
	"time"

	"bulkpickup_app/internal/models"
)

// LogInfoTaskDef encapsulates the log info task
type LogInfoTaskDef struct{}

// TaskID returns the unique identifier for this task
func (t *LogInfoTaskDef) TaskID() string {
	return "log_info"
}

// CreateTask builds a one-time log_info task
func (t *LogInfoTaskDef) CreateTask(message string, due time.Time, maxAttempt int) (*models.ScheduledTask, error) {
	return BuildScheduledTask(t.TaskID(), map[string]interface{}{"message": message}, due, nil, models.ScheduledTaskTypeOneTime, maxAttempt)
}

// HandleExecution logs the task's message argument
func (t *LogInfoTaskDef) HandleExecution(_ context.Context, _ Deps, task models.ScheduledTask) (map[string]interface{}, error) {
	message, ok := task.StringArg("message")
	if !ok {
		message = "No message provided"
	}
	log.Printf("[Task: log_info] Message: %s", message)

	return map[string]interface{}{
		"status":            "success",
		"message":           message,
		"max_attempts_info": task.MaxAttempt,
	}, nil
}

// LogInfoTask is the singleton instance of LogInfoTaskDef
var LogInfoTask = &LogInfoTaskDef{}
