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
	referenceAttempts = 5
	maxHistoryLimit   = 100
)

// AcceptInput schedules the visit created by accepting a quote
type AcceptInput struct {
	ScheduledDate time.Time
	TimeStart     string
	TimeEnd       string
}

// BookingPage is a slice of a user's booking history
type BookingPage struct {
	Bookings   []models.Booking `json:"bookings"`
	TotalCount int64            `json:"totalCount"`
	Limit      int              `json:"limit"`
	Offset     int              `json:"offset"`
}

type BookingService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewBookingService(db *gorm.DB) *BookingService {
	return &BookingService{db: db, now: time.Now}
}

// CreateRequest opens a service request for quotes
func (s *BookingService) CreateRequest(ctx context.Context, req *models.ServiceRequest) error {
	now := s.now()
	req.Status = models.ServiceRequestStatusOpen
	req.ExpiresAt = now.Add(models.ServiceRequestTTL)
	if req.UrgencyLevel == "" {
		req.UrgencyLevel = "normal"
	}
	if req.Photos == nil {
		req.Photos = []string{}
	}
	if err := s.db.WithContext(ctx).Create(req).Error; err != nil {
		return fmt.Errorf("create service request: %w", err)
	}
	return nil
}

func (s *BookingService) getRequest(tx *gorm.DB, id uint) (*models.ServiceRequest, error) {
	var req models.ServiceRequest
	err := tx.First(&req, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get service request %d: %w", id, err)
	}
	return &req, nil
}

// SubmitQuote records a vendor's quote on an open request
func (s *BookingService) SubmitQuote(ctx context.Context, quote *models.ServiceQuote) error {
	db := s.db.WithContext(ctx)
	req, err := s.getRequest(db, quote.RequestID)
	if err != nil {
		return err
	}
	if req.Status != models.ServiceRequestStatusOpen || s.now().After(req.ExpiresAt) {
		return ErrRequestNotOpen
	}

	var count int64
	if err := db.Model(&models.Business{}).Where("id = ?", quote.BusinessID).Count(&count).Error; err != nil {
		return fmt.Errorf("check business %d: %w", quote.BusinessID, err)
	}
	if count == 0 {
		return fmt.Errorf("business %d: %w", quote.BusinessID, ErrNotFound)
	}

	quote.Status = models.QuoteStatusPending
	if quote.ValidUntil == nil {
		validUntil := s.now().Add(3 * 24 * time.Hour)
		quote.ValidUntil = &validUntil
	}
	if err := db.Create(quote).Error; err != nil {
		return fmt.Errorf("create quote: %w", err)
	}
	return nil
}

// Quotes lists a request's quotes, cheapest first
func (s *BookingService) Quotes(ctx context.Context, requestID uint) ([]models.ServiceQuote, error) {
	db := s.db.WithContext(ctx)
	if _, err := s.getRequest(db, requestID); err != nil {
		return nil, err
	}
	var quotes []models.ServiceQuote
	if err := db.Preload("Business").Where("request_id = ?", requestID).Order("amount ASC").Find(&quotes).Error; err != nil {
		return nil, fmt.Errorf("list quotes: %w", err)
	}
	return quotes, nil
}

// AcceptQuote turns a pending quote into a confirmed booking. Only one quote
// per request can win: the quote and its request are flipped with
// status-guarded updates, so a concurrent or second accept finds nothing to
// update and rolls back.
func (s *BookingService) AcceptQuote(ctx context.Context, quoteID uint, in AcceptInput) (*models.Booking, error) {
	var booking models.Booking

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var quote models.ServiceQuote
		if err := tx.First(&quote, quoteID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if quote.Status != models.QuoteStatusPending {
			return ErrQuoteNotPending
		}

		req, err := s.getRequest(tx, quote.RequestID)
		if err != nil {
			return err
		}
		if req.Status != models.ServiceRequestStatusOpen {
			return ErrRequestNotOpen
		}

		res := tx.Model(&models.ServiceQuote{}).
			Where("id = ? AND status = ?", quote.ID, models.QuoteStatusPending).
			Update("status", models.QuoteStatusAccepted)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrQuoteNotPending
		}

		res = tx.Model(&models.ServiceRequest{}).
			Where("id = ? AND status = ?", req.ID, models.ServiceRequestStatusOpen).
			Update("status", models.ServiceRequestStatusBooked)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrRequestNotOpen
		}

		reference, err := s.uniqueReference(tx)
		if err != nil {
			return err
		}

		booking = BookingFromQuote(quote, *req, in.ScheduledDate, in.TimeStart, in.TimeEnd, reference)
		return tx.Create(&booking).Error
	})
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidTransition) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("accept quote %d: %w", quoteID, err)
	}
	return &booking, nil
}

func (s *BookingService) uniqueReference(tx *gorm.DB) (string, error) {
	for i := 0; i < referenceAttempts; i++ {
		ref := GenerateBookingReference(s.now(), nil)
		var count int64
		if err := tx.Model(&models.Booking{}).Where("reference = ?", ref).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return ref, nil
		}
	}
	return "", errors.New("could not allocate a unique booking reference")
}

// History pages through a customer's bookings, newest first
func (s *BookingService) History(ctx context.Context, userID, status string, limit, offset int) (*BookingPage, error) {
	if limit < 1 {
		limit = 20
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	if offset < 0 {
		offset = 0
	}

	scoped := func() *gorm.DB {
		q := s.db.WithContext(ctx).Model(&models.Booking{}).Where("customer_user_id = ?", userID)
		if status != "" {
			q = q.Where("status = ?", status)
		}
		return q
	}

	var total int64
	if err := scoped().Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count bookings: %w", err)
	}

	var bookings []models.Booking
	if err := scoped().Preload("Business").Order("scheduled_date DESC, id DESC").Limit(limit).Offset(offset).Find(&bookings).Error; err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}

	return &BookingPage{Bookings: bookings, TotalCount: total, Limit: limit, Offset: offset}, nil
}

// Get loads one of the customer's bookings
func (s *BookingService) Get(ctx context.Context, userID string, id uint) (*models.Booking, error) {
	var booking models.Booking
	err := s.db.WithContext(ctx).Preload("Business").Preload("Request").
		Where("customer_user_id = ?", userID).
		First(&booking, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get booking %d: %w", id, err)
	}
	return &booking, nil
}

// Start marks the booking as in progress
func (s *BookingService) Start(ctx context.Context, userID string, id uint) (*models.Booking, error) {
	return s.transition(ctx, userID, id, func(b *models.Booking) error {
		return StartBooking(b, s.now())
	})
}

// Cancel cancels the booking with reason
func (s *BookingService) Cancel(ctx context.Context, userID string, id uint, reason string) (*models.Booking, error) {
	return s.transition(ctx, userID, id, func(b *models.Booking) error {
		return CancelBooking(b, reason)
	})
}

// Complete closes an in-progress booking
func (s *BookingService) Complete(ctx context.Context, userID string, id uint, in CompletionInput) (*models.Booking, error) {
	return s.transition(ctx, userID, id, func(b *models.Booking) error {
		return CompleteBooking(b, in, s.now())
	})
}

func (s *BookingService) transition(ctx context.Context, userID string, id uint, apply func(*models.Booking) error) (*models.Booking, error) {
	var booking models.Booking
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("customer_user_id = ?", userID).First(&booking, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := apply(&booking); err != nil {
			return err
		}
		return tx.Omit("Business", "Request").Save(&booking).Error
	})
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidTransition) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("update booking %d: %w", id, err)
	}
	return &booking, nil
}
