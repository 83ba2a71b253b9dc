package tasks

import (
	"context"
	"time"

	"gorm.io/gorm"

	"bulkpickup_app/internal/models"
)

// GormStore keeps scheduled tasks in the application database
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Enqueue(ctx context.Context, task *models.ScheduledTask) error {
	return s.db.WithContext(ctx).Create(task).Error
}

// HasActive reports whether a task named taskName is still waiting to run
func (s *GormStore) HasActive(ctx context.Context, taskName string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.ScheduledTask{}).
		Where("task_name = ? AND status = ?", taskName, models.ScheduledTaskStatusActive).
		Count(&count).Error
	return count > 0, err
}

func (s *GormStore) DueTasks(ctx context.Context, now time.Time) ([]models.ScheduledTask, error) {
	var pending []models.ScheduledTask
	err := s.db.WithContext(ctx).
		Where("status = ? AND due <= ?", models.ScheduledTaskStatusActive, now).
		Order("due").
		Find(&pending).Error
	return pending, err
}

// Finish writes the history row and the task's new state together
func (s *GormStore) Finish(ctx context.Context, task models.ScheduledTask, history models.ScheduledTaskHistory, update TaskUpdate) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&history).Error; err != nil {
			return err
		}
		lastRun := update.LastRun
		return tx.Model(&models.ScheduledTask{}).Where("id = ?", task.ID).Updates(map[string]interface{}{
			"status":   update.Status,
			"due":      update.Due,
			"attempt":  update.Attempt,
			"last_run": &lastRun,
		}).Error
	})
}
