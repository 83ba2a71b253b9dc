package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"unicode"

	"github.com/ettle/strcase"

	"bulkpickup_app/internal/config"
	"bulkpickup_app/internal/models"
)

type EmailSender interface {
	Configured() bool
	SendEmail(ctx context.Context, to []string, subject, body string) error
}

type PhoneSender interface {
	Configured() bool
	SendMessage(ctx context.Context, chatID, text string) error
}

type ChatSender interface {
	Configured() bool
	SendMessage(ctx context.Context, chatID int64, text string) error
}

// Reminder is one pickup notice for one subscriber
type Reminder struct {
	ScheduleName   string `json:"schedule_name"`
	ScheduleType   string `json:"schedule_type"`
	PickupDate     string `json:"pickup_date"`
	DaysAhead      int    `json:"days_ahead"`
	Email          string `json:"email,omitempty"`
	Phone          string `json:"phone,omitempty"`
	TelegramChatID int64  `json:"telegram_chat_id,omitempty"`
}

// Subject is the email subject line
func (r Reminder) Subject() string {
	return fmt.Sprintf("%s reminder: %s", Label(r.ScheduleType), r.PickupDate)
}

// Body is the message text shared by every channel
func (r Reminder) Body() string {
	when := fmt.Sprintf("in %d days", r.DaysAhead)
	switch r.DaysAhead {
	case 0:
		when = "today"
	case 1:
		when = "tomorrow"
	}
	return fmt.Sprintf("%s (%s) is %s, %s. Put items at the curb by 7am.",
		r.ScheduleName, Label(r.ScheduleType), when, r.PickupDate)
}

// Label turns a snake_case value such as "yard_waste" into "Yard waste"
func Label(s string) string {
	words := strings.ReplaceAll(strcase.ToSnake(s), "_", " ")
	if words == "" {
		return ""
	}
	r := []rune(words)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// DeliveryResult records what happened on each requested channel
type DeliveryResult struct {
	Sent    []models.NotificationChannel
	Skipped []models.NotificationChannel
	Failed  map[models.NotificationChannel]error
}

// Err joins the failures, or nil when nothing failed
func (d DeliveryResult) Err() error {
	if len(d.Failed) == 0 {
		return nil
	}
	errs := make([]error, 0, len(d.Failed))
	for ch, err := range d.Failed {
		errs = append(errs, fmt.Errorf("%s: %w", ch, err))
	}
	return errors.Join(errs...)
}

// FailedChannels lists failed channels in a stable order
func (d DeliveryResult) FailedChannels() []models.NotificationChannel {
	var out []models.NotificationChannel
	for _, ch := range []models.NotificationChannel{models.NotificationChannelEmail, models.NotificationChannelSMS, models.NotificationChannelPush} {
		if _, ok := d.Failed[ch]; ok {
			out = append(out, ch)
		}
	}
	return out
}

// Notifier fans a reminder out to email, WhatsApp and Telegram
type Notifier struct {
	Email EmailSender
	SMS   PhoneSender
	Push  ChatSender
}

func NewNotifier(cfg config.Config) *Notifier {
	return &Notifier{
		Email: NewEmailService(cfg),
		SMS:   NewWahaService(cfg),
		Push:  NewTelegramService(cfg),
	}
}

// Deliver sends r on each channel. Channels without credentials or without
// a recipient address are skipped rather than failed.
func (n *Notifier) Deliver(ctx context.Context, r Reminder, channels []models.NotificationChannel) DeliveryResult {
	res := DeliveryResult{Failed: map[models.NotificationChannel]error{}}

	for _, ch := range channels {
		var err error
		switch {
		case ch == models.NotificationChannelEmail && n.Email != nil && n.Email.Configured() && r.Email != "":
			err = n.Email.SendEmail(ctx, []string{r.Email}, r.Subject(), r.Body())
		case ch == models.NotificationChannelSMS && n.SMS != nil && n.SMS.Configured() && r.Phone != "":
			err = n.SMS.SendMessage(ctx, r.Phone, r.Body())
		case ch == models.NotificationChannelPush && n.Push != nil && n.Push.Configured() && r.TelegramChatID != 0:
			err = n.Push.SendMessage(ctx, r.TelegramChatID, r.Body())
		default:
			log.Printf("Skipping %s reminder for %s: channel not configured or no recipient", ch, r.ScheduleName)
			res.Skipped = append(res.Skipped, ch)
			continue
		}

		if err != nil {
			log.Printf("Failed to send %s reminder for %s: %v", ch, r.ScheduleName, err)
			res.Failed[ch] = err
			continue
		}
		res.Sent = append(res.Sent, ch)
	}
	return res
}
