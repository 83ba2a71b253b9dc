package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/teambition/rrule-go"

	"bulkpickup_app/internal/models"
)

var weekdays = map[string]rrule.Weekday{
	"monday":    rrule.MO,
	"tuesday":   rrule.TU,
	"wednesday": rrule.WE,
	"thursday":  rrule.TH,
	"friday":    rrule.FR,
	"saturday":  rrule.SA,
	"sunday":    rrule.SU,
}

func weekdayFor(day string, fallback time.Time) rrule.Weekday {
	if wd, ok := weekdays[strings.ToLower(strings.TrimSpace(day))]; ok {
		return wd
	}
	return weekdays[strings.ToLower(fallback.Weekday().String())]
}

// ScheduleRule builds the recurrence of a pickup schedule. An explicit RRULE
// wins; otherwise the frequency is combined with the zone's pickup day
// (monthly means the first such weekday of each month). Missing pickup days
// fall back to the start date's weekday.
func ScheduleRule(s models.PickupSchedule) (*rrule.RRule, error) {
	start := s.StartDate.UTC()

	if s.Rules != nil && strings.TrimSpace(*s.Rules) != "" {
		rule, err := rrule.StrToRRule(strings.TrimPrefix(strings.TrimSpace(*s.Rules), "RRULE:"))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFrequency, err)
		}
		if rule.OrigOptions.Freq > rrule.DAILY {
			return nil, fmt.Errorf("%w: pickups cannot repeat more than once a day", ErrInvalidFrequency)
		}
		rule.DTStart(start)
		return rule, nil
	}

	pickupDay := ""
	if s.Zone != nil {
		pickupDay = s.Zone.PickupDay
	}
	wd := weekdayFor(pickupDay, start)

	opt := rrule.ROption{Dtstart: start}
	if s.EndDate != nil {
		opt.Until = s.EndDate.UTC()
	}

	switch s.Frequency {
	case models.FrequencyWeekly:
		opt.Freq = rrule.WEEKLY
		opt.Byweekday = []rrule.Weekday{wd}
	case models.FrequencyBiweekly:
		opt.Freq = rrule.WEEKLY
		opt.Interval = 2
		opt.Byweekday = []rrule.Weekday{wd}
	case models.FrequencyMonthly:
		opt.Freq = rrule.MONTHLY
		opt.Byweekday = []rrule.Weekday{wd.Nth(1)}
	case models.FrequencyYearly:
		opt.Freq = rrule.YEARLY
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidFrequency, s.Frequency)
	}

	rule, err := rrule.NewRRule(opt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFrequency, err)
	}
	return rule, nil
}

// maxOccurrenceSteps bounds how far Occurrences walks a rule, counted from
// its start date
const maxOccurrenceSteps = 50000

// Occurrences lists pickup dates in [from, to], at most limit of them. It
// walks the rule lazily and stops at limit, at to, or after
// maxOccurrenceSteps occurrences.
func Occurrences(rule *rrule.RRule, from, to time.Time, limit int) []time.Time {
	from, to = startOfDay(from), endOfDay(to)
	var dates []time.Time

	next := rule.Iterator()
	for steps := 0; steps < maxOccurrenceSteps; steps++ {
		d, ok := next()
		if !ok || d.After(to) {
			break
		}
		if d.Before(from) {
			continue
		}
		dates = append(dates, d)
		if limit > 0 && len(dates) >= limit {
			break
		}
	}
	return dates
}

// NextPickup returns the first occurrence on or after the day of now, or the
// zero time when the schedule has ended.
func NextPickup(rule *rrule.RRule, now time.Time) time.Time {
	return rule.After(startOfDay(now), true)
}

// DaysUntil counts calendar days between now and date
func DaysUntil(now, date time.Time) int {
	return int(startOfDay(date).Sub(startOfDay(now)).Hours() / 24)
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func endOfDay(t time.Time) time.Time {
	return startOfDay(t).Add(24*time.Hour - time.Nanosecond)
}
