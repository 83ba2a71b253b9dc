package services

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"
	"strings"

	"bulkpickup_app/internal/config"
)

// ErrChannelNotConfigured is returned by senders missing credentials
var ErrChannelNotConfigured = errors.New("notification channel not configured")

type EmailService struct {
	host     string
	port     string
	user     string
	password string
	from     string
	send     func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewEmailService(cfg config.Config) *EmailService {
	return &EmailService{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPass,
		from:     cfg.EmailFrom,
		send:     smtp.SendMail,
	}
}

// Configured reports whether SMTP credentials are present
func (s *EmailService) Configured() bool {
	return s.host != "" && s.port != "" && s.user != "" && s.password != ""
}

func (s *EmailService) SendEmail(ctx context.Context, to []string, subject, body string) error {
	if !s.Configured() {
		return fmt.Errorf("email: %w", ErrChannelNotConfigured)
	}
	if len(to) == 0 {
		return errors.New("email: no recipients")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	auth := smtp.PlainAuth("", s.user, s.password, s.host)
	message := buildEmailMessage(s.from, to, subject, body)
	addr := fmt.Sprintf("%s:%s", s.host, s.port)

	if err := s.send(addr, auth, s.from, to, message); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func buildEmailMessage(from string, to []string, subject, body string) []byte {
	var b strings.Builder
	if from != "" {
		fmt.Fprintf(&b, "From: %s\r\n", from)
	}
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(to, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	b.WriteString("\r\n")
	return []byte(b.String())
}
