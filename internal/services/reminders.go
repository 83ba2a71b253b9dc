package services

import (
	"time"

	"bulkpickup_app/internal/models"
)

// RemindersDue returns the reminders a subscription should get on now's day:
// one for every advance day that lands exactly on a pickup. The schedule and
// its zone must be loaded.
func RemindersDue(sub models.ScheduleSubscription, now time.Time) ([]Reminder, error) {
	rule, err := ScheduleRule(sub.Schedule)
	if err != nil {
		return nil, err
	}

	today := startOfDay(now)
	seen := make(map[int]bool, len(sub.NotificationPreferences.AdvanceDays))
	var out []Reminder
	for _, ahead := range sub.NotificationPreferences.AdvanceDays {
		if ahead < 0 || seen[ahead] {
			continue
		}
		seen[ahead] = true

		pickup := today.AddDate(0, 0, ahead)
		if len(Occurrences(rule, pickup, pickup, 1)) == 0 {
			continue
		}
		out = append(out, Reminder{
			ScheduleName:   sub.Schedule.Name,
			ScheduleType:   sub.Schedule.Type,
			PickupDate:     pickup.Format(time.DateOnly),
			DaysAhead:      ahead,
			Email:          sub.Email,
			Phone:          sub.Phone,
			TelegramChatID: sub.TelegramChatID,
		})
	}
	return out, nil
}
