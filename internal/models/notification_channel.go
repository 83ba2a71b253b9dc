package models

// NotificationChannel is a delivery route for pickup reminders
type NotificationChannel string

const (
	NotificationChannelEmail NotificationChannel = "email"
	NotificationChannelSMS   NotificationChannel = "sms"  // delivered over the WhatsApp gateway
	NotificationChannelPush  NotificationChannel = "push" // delivered over Telegram
)

// ParseNotificationChannel maps a stored string back to a channel
func ParseNotificationChannel(s string) (NotificationChannel, bool) {
	switch NotificationChannel(s) {
	case NotificationChannelEmail, NotificationChannelSMS, NotificationChannelPush:
		return NotificationChannel(s), true
	}
	return "", false
}
