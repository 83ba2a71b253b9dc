package tasks

import (
	"context"
	"sort"
	"sync"
	"time"

	"bulkpickup_app/internal/models"
	"bulkpickup_app/internal/services"
)

// SubscriptionSource lists the subscriptions the reminder tasks fan out over
type SubscriptionSource interface {
	ActiveSubscriptions(ctx context.Context) ([]models.ScheduleSubscription, error)
}

// ReminderSender delivers one reminder on a set of channels
type ReminderSender interface {
	Deliver(ctx context.Context, r services.Reminder, channels []models.NotificationChannel) services.DeliveryResult
}

// Deps is what task handlers may touch
type Deps struct {
	Store         Store
	Subscriptions SubscriptionSource
	Notifier      ReminderSender
	Now           func() time.Time
}

func (d Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// TaskHandler is the function signature for a task handler
// It takes context, the worker dependencies and the task row, and returns a
// result map and error
type TaskHandler func(ctx context.Context, deps Deps, task models.ScheduledTask) (map[string]interface{}, error)

// Registry stores the mapping of task names to handlers
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]TaskHandler
}

func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]TaskHandler)}
}

// GlobalRegistry is the default global registry
var GlobalRegistry = NewRegistry()

// Register adds a handler for a task name
func (r *Registry) Register(name string, handler TaskHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[name] = handler
}

// Get retrieves a handler for a task name
func (r *Registry) Get(name string) (TaskHandler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	handler, ok := r.handlers[name]
	return handler, ok
}

// Names lists registered task names, sorted
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
