package models

import (
	"time"

	"gorm.io/gorm"
)

// Frequency is how often a municipal pickup repeats
type Frequency string

const (
	FrequencyWeekly   Frequency = "weekly"
	FrequencyBiweekly Frequency = "biweekly"
	FrequencyMonthly  Frequency = "monthly"
	FrequencyYearly   Frequency = "yearly"
)

// Valid reports whether f is one of the supported frequencies
func (f Frequency) Valid() bool {
	switch f {
	case FrequencyWeekly, FrequencyBiweekly, FrequencyMonthly, FrequencyYearly:
		return true
	}
	return false
}

// ScheduleZone groups the ZIP codes that share a pickup day
type ScheduleZone struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name      string   `gorm:"type:varchar(100)" json:"name"`
	PickupDay string   `gorm:"type:varchar(20)" json:"pickupDay"` // lowercase weekday, e.g. "tuesday"
	ZipCodes  []string `gorm:"serializer:json" json:"zipCodes"`
}

// HasZip reports whether the zone covers zip
func (z ScheduleZone) HasZip(zip string) bool {
	for _, code := range z.ZipCodes {
		if code == zip {
			return true
		}
	}
	return false
}

// PickupSchedule is a recurring municipal collection
type PickupSchedule struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	MunicipalityID string     `gorm:"type:varchar(100);index" json:"municipalityId"`
	Name           string     `gorm:"type:varchar(255)" json:"scheduleName"`
	Type           string     `gorm:"type:varchar(50)" json:"scheduleType"`
	Description    string     `gorm:"type:text" json:"description,omitempty"`
	Frequency      Frequency  `gorm:"type:varchar(20)" json:"frequency"`
	StartDate      time.Time  `gorm:"type:date" json:"startDate"`
	EndDate        *time.Time `gorm:"type:date" json:"endDate,omitempty"`
	Rules          *string    `gorm:"type:text" json:"rules,omitempty"` // RFC 5545 RRULE, overrides Frequency
	IsActive       bool       `gorm:"default:true;index" json:"isActive"`

	ZoneID *uint         `gorm:"index" json:"zoneId,omitempty"`
	Zone   *ScheduleZone `gorm:"foreignKey:ZoneID" json:"zone,omitempty"`
}

// NotificationPreferences controls which reminder channels fire and when
type NotificationPreferences struct {
	Email       bool  `json:"email"`
	Push        bool  `json:"push"`
	SMS         bool  `json:"sms"`
	AdvanceDays []int `json:"advanceDays"`
}

// DefaultNotificationPreferences is used when a subscription omits them
func DefaultNotificationPreferences() NotificationPreferences {
	return NotificationPreferences{Email: true, Push: true, SMS: false, AdvanceDays: []int{1, 7}}
}

// Channels lists the enabled channels in delivery order
func (p NotificationPreferences) Channels() []NotificationChannel {
	var out []NotificationChannel
	if p.Email {
		out = append(out, NotificationChannelEmail)
	}
	if p.SMS {
		out = append(out, NotificationChannelSMS)
	}
	if p.Push {
		out = append(out, NotificationChannelPush)
	}
	return out
}

// RemindOn reports whether a reminder is due daysAhead days before a pickup
func (p NotificationPreferences) RemindOn(daysAhead int) bool {
	for _, d := range p.AdvanceDays {
		if d == daysAhead {
			return true
		}
	}
	return false
}

// ScheduleSubscription links a user address to a schedule for reminders
type ScheduleSubscription struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	UserID     string `gorm:"type:varchar(100);index" json:"userId"`
	AddressID  string `gorm:"type:varchar(100)" json:"addressId"`
	ScheduleID uint   `gorm:"index" json:"scheduleId"`

	NotificationPreferences NotificationPreferences `gorm:"serializer:json" json:"notificationPreferences"`

	Email          string `gorm:"type:varchar(255)" json:"email,omitempty"`
	Phone          string `gorm:"type:varchar(50)" json:"phone,omitempty"`
	TelegramChatID int64  `json:"telegramChatId,omitempty"`
	IsActive       bool   `gorm:"default:true;index" json:"isActive"`

	Schedule PickupSchedule `gorm:"foreignKey:ScheduleID" json:"schedule,omitempty"`
}
