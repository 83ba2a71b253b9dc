package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode"

	"bulkpickup_app/internal/config"
)

// WahaService sends WhatsApp messages through a WAHA gateway. It carries the
// "sms" reminder channel.
type WahaService struct {
	baseURL string
	apiKey  string
	client  *http.Client
	pause   func(time.Duration)
}

func NewWahaService(cfg config.Config) *WahaService {
	return &WahaService{
		baseURL: strings.TrimRight(cfg.WahaBaseURL, "/"),
		apiKey:  cfg.WahaAPIKey,
		client:  &http.Client{Timeout: 15 * time.Second},
		pause:   time.Sleep,
	}
}

// Configured reports whether a gateway URL is set
func (s *WahaService) Configured() bool {
	return s.baseURL != ""
}

func (s *WahaService) makeRequest(ctx context.Context, method, endpoint string, payload interface{}) error {
	var bodyReader io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal payload: %w", err)
		}
		bodyReader = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+endpoint, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("X-Api-Key", s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(body))
	}

	return nil
}

func (s *WahaService) chatAction(ctx context.Context, endpoint, chatID string) error {
	return s.makeRequest(ctx, http.MethodPost, endpoint, map[string]string{
		"chatId":  chatID,
		"session": "default",
	})
}

// NormalizeChatID turns a phone number into a WhatsApp chat id. Ten-digit
// numbers are treated as North American and get the "1" country code.
// Group ids pass through.
func NormalizeChatID(chatID string) string {
	chatID = strings.TrimSpace(chatID)

	if strings.HasSuffix(chatID, "@g.us") {
		return chatID
	}

	chatID = strings.TrimSuffix(chatID, "@c.us")

	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, chatID)

	if len(digits) == 10 {
		digits = "1" + digits
	}

	return digits + "@c.us"
}

// SendMessage mimics a person typing: seen, typing, stop typing, then send
func (s *WahaService) SendMessage(ctx context.Context, chatID, text string) error {
	if !s.Configured() {
		return fmt.Errorf("waha: %w", ErrChannelNotConfigured)
	}
	chatID = NormalizeChatID(chatID)
	if chatID == "@c.us" {
		return fmt.Errorf("waha: empty phone number")
	}

	if err := s.chatAction(ctx, "/api/sendSeen", chatID); err != nil {
		return fmt.Errorf("failed to send seen: %w", err)
	}
	s.pause(100 * time.Millisecond)

	if err := s.chatAction(ctx, "/api/startTyping", chatID); err != nil {
		return fmt.Errorf("failed to start typing: %w", err)
	}
	s.pause(150 * time.Millisecond)

	if err := s.chatAction(ctx, "/api/stopTyping", chatID); err != nil {
		return fmt.Errorf("failed to stop typing: %w", err)
	}
	s.pause(50 * time.Millisecond)

	if err := s.makeRequest(ctx, http.MethodPost, "/api/sendText", map[string]string{
		"chatId":  chatID,
		"text":    text,
		"session": "default",
	}); err != nil {
		return fmt.Errorf("failed to send text: %w", err)
	}

	return nil
}
