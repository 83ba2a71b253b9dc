package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"bulkpickup_app/internal/models"
)

const (
	defaultEventWindow = 90 * 24 * time.Hour
	maxEventWindow     = 366 * 24 * time.Hour
	defaultEventLimit  = 20
	maxEventLimit      = 100
	eventTimeStart     = "08:00"
	eventTimeEnd       = "17:00"
)

// ZoneSummary is the zone block embedded in schedule responses
type ZoneSummary struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	PickupDay string `json:"pickupDay,omitempty"`
}

// ScheduleSummary is one lookup result
type ScheduleSummary struct {
	ID             uint             `json:"id"`
	Name           string           `json:"name"`
	Type           string           `json:"type"`
	Frequency      models.Frequency `json:"frequency"`
	NextPickupDate string           `json:"nextPickupDate,omitempty"`
	Zone           *ZoneSummary     `json:"zone,omitempty"`
}

// PickupEvent is a single expanded occurrence
type PickupEvent struct {
	ID        string       `json:"id"`
	Date      string       `json:"date"`
	TimeStart string       `json:"timeStart"`
	TimeEnd   string       `json:"timeEnd"`
	Status    string       `json:"status"`
	Zone      *ZoneSummary `json:"zone,omitempty"`
}

// EventQuery bounds an event expansion. Zero values use today, +90 days
// and 20 events. Windows longer than a year and limits above 100 are cut
// down.
type EventQuery struct {
	From  time.Time
	To    time.Time
	Limit int
}

type ScheduleService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewScheduleService(db *gorm.DB) *ScheduleService {
	return &ScheduleService{db: db, now: time.Now}
}

// ListActive returns every active schedule with its zone
func (s *ScheduleService) ListActive(ctx context.Context) ([]models.PickupSchedule, error) {
	var schedules []models.PickupSchedule
	err := s.db.WithContext(ctx).Preload("Zone").
		Where("is_active = ?", true).
		Order("id ASC").
		Find(&schedules).Error
	if err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}
	return schedules, nil
}

// Lookup returns the schedules serving zip, or every active schedule when
// zip is empty.
func (s *ScheduleService) Lookup(ctx context.Context, zip string) ([]ScheduleSummary, error) {
	schedules, err := s.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	return SummarizeSchedules(FilterByZip(schedules, zip), s.now()), nil
}

// Get loads one schedule with its zone
func (s *ScheduleService) Get(ctx context.Context, id uint) (*models.PickupSchedule, error) {
	var schedule models.PickupSchedule
	err := s.db.WithContext(ctx).Preload("Zone").First(&schedule, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get schedule %d: %w", id, err)
	}
	return &schedule, nil
}

// Events expands the schedule's recurrence within q
func (s *ScheduleService) Events(ctx context.Context, id uint, q EventQuery) ([]PickupEvent, error) {
	schedule, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return ExpandEvents(*schedule, q, s.now())
}

// Create validates and stores a schedule
func (s *ScheduleService) Create(ctx context.Context, schedule *models.PickupSchedule) error {
	if _, err := ScheduleRule(*schedule); err != nil {
		return err
	}
	schedule.IsActive = true
	if err := s.db.WithContext(ctx).Create(schedule).Error; err != nil {
		return fmt.Errorf("create schedule: %w", err)
	}
	return nil
}

// Subscribe stores a subscription after checking the schedule exists
func (s *ScheduleService) Subscribe(ctx context.Context, sub *models.ScheduleSubscription) error {
	if _, err := s.Get(ctx, sub.ScheduleID); err != nil {
		return err
	}
	sub.IsActive = true
	if err := s.db.WithContext(ctx).Create(sub).Error; err != nil {
		return fmt.Errorf("create subscription: %w", err)
	}
	return nil
}

// Subscriptions returns the user's active subscriptions with their schedules
func (s *ScheduleService) Subscriptions(ctx context.Context, userID string) ([]models.ScheduleSubscription, error) {
	var subs []models.ScheduleSubscription
	err := s.db.WithContext(ctx).Preload("Schedule.Zone").
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("created_at DESC").
		Find(&subs).Error
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	return subs, nil
}

// Unsubscribe deactivates one of the user's subscriptions
func (s *ScheduleService) Unsubscribe(ctx context.Context, userID string, id uint) error {
	res := s.db.WithContext(ctx).Model(&models.ScheduleSubscription{}).
		Where("id = ? AND user_id = ? AND is_active = ?", id, userID, true).
		Update("is_active", false)
	if res.Error != nil {
		return fmt.Errorf("unsubscribe %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ActiveSubscriptions returns every active subscription, for the reminder task
func (s *ScheduleService) ActiveSubscriptions(ctx context.Context) ([]models.ScheduleSubscription, error) {
	var subs []models.ScheduleSubscription
	err := s.db.WithContext(ctx).Preload("Schedule.Zone").
		Where("is_active = ?", true).
		Find(&subs).Error
	if err != nil {
		return nil, fmt.Errorf("list active subscriptions: %w", err)
	}
	return subs, nil
}

// FilterByZip keeps schedules whose zone lists zip. An empty zip keeps all.
func FilterByZip(schedules []models.PickupSchedule, zip string) []models.PickupSchedule {
	if zip == "" {
		return schedules
	}
	out := make([]models.PickupSchedule, 0, len(schedules))
	for _, s := range schedules {
		if s.Zone != nil && s.Zone.HasZip(zip) {
			out = append(out, s)
		}
	}
	return out
}

// SummarizeSchedules attaches the next pickup date to each schedule.
// Schedules whose recurrence cannot be built are listed without a date.
func SummarizeSchedules(schedules []models.PickupSchedule, now time.Time) []ScheduleSummary {
	out := make([]ScheduleSummary, 0, len(schedules))
	for _, s := range schedules {
		summary := ScheduleSummary{
			ID:        s.ID,
			Name:      s.Name,
			Type:      s.Type,
			Frequency: s.Frequency,
			Zone:      zoneSummary(s.Zone, true),
		}
		if rule, err := ScheduleRule(s); err == nil {
			if next := NextPickup(rule, now); !next.IsZero() {
				summary.NextPickupDate = next.Format(time.DateOnly)
			}
		}
		out = append(out, summary)
	}
	return out
}

// ExpandEvents turns a schedule's recurrence into pickup events
func ExpandEvents(schedule models.PickupSchedule, q EventQuery, now time.Time) ([]PickupEvent, error) {
	rule, err := ScheduleRule(schedule)
	if err != nil {
		return nil, err
	}

	from := q.From
	if from.IsZero() {
		from = now
	}
	to := q.To
	if to.IsZero() {
		to = from.Add(defaultEventWindow)
	}
	if to.Sub(from) > maxEventWindow {
		to = from.Add(maxEventWindow)
	}
	limit := q.Limit
	if limit <= 0 {
		limit = defaultEventLimit
	}
	if limit > maxEventLimit {
		limit = maxEventLimit
	}

	dates := Occurrences(rule, from, to, limit)
	events := make([]PickupEvent, 0, len(dates))
	for _, d := range dates {
		events = append(events, PickupEvent{
			ID:        fmt.Sprintf("%d-%s", schedule.ID, d.Format("20060102")),
			Date:      d.Format(time.DateOnly),
			TimeStart: eventTimeStart,
			TimeEnd:   eventTimeEnd,
			Status:    "scheduled",
			Zone:      zoneSummary(schedule.Zone, false),
		})
	}
	return events, nil
}

func zoneSummary(z *models.ScheduleZone, withDay bool) *ZoneSummary {
	if z == nil {
		return nil
	}
	out := &ZoneSummary{ID: z.ID, Name: z.Name}
	if withDay {
		out.PickupDay = z.PickupDay
	}
	return out
}
