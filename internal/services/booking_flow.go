package services

import (
	"fmt"
	"math/rand/v2"
	"time"

	"bulkpickup_app/internal/models"
)

var (
	ErrBookingNotConfirmed   = fmt.Errorf("%w: booking is not confirmed", ErrInvalidTransition)
	ErrBookingNotCancellable = fmt.Errorf("%w: booking cannot be cancelled", ErrInvalidTransition)
	ErrBookingNotInProgress  = fmt.Errorf("%w: booking is not in progress", ErrInvalidTransition)
	ErrQuoteNotPending       = fmt.Errorf("%w: quote is not pending", ErrInvalidTransition)
	ErrRequestNotOpen        = fmt.Errorf("%w: service request is not open", ErrInvalidTransition)
)

// DefaultCancellationReason is stored when a cancel carries no reason
const DefaultCancellationReason = "Customer requested cancellation"

// CompletionInput carries the proof-of-work fields recorded on completion
type CompletionInput struct {
	Notes       string
	AfterPhotos []string
	Signature   string
}

// GenerateBookingReference returns BK-<year>-<6 digits>. intn defaults to
// math/rand when nil.
func GenerateBookingReference(now time.Time, intn func(int) int) string {
	if intn == nil {
		intn = rand.IntN
	}
	return fmt.Sprintf("BK-%d-%06d", now.Year(), intn(1_000_000))
}

// StartBooking moves a confirmed booking to in_progress
func StartBooking(b *models.Booking, now time.Time) error {
	if b.Status != models.BookingStatusConfirmed {
		return ErrBookingNotConfirmed
	}
	b.Status = models.BookingStatusInProgress
	b.ActualStartTime = &now
	return nil
}

// CancelBooking cancels any booking that is not already finished
func CancelBooking(b *models.Booking, reason string) error {
	if b.Status == models.BookingStatusCompleted || b.Status == models.BookingStatusCancelled {
		return fmt.Errorf("%w (status %s)", ErrBookingNotCancellable, b.Status)
	}
	if reason == "" {
		reason = DefaultCancellationReason
	}
	b.Status = models.BookingStatusCancelled
	b.CancellationReason = reason
	return nil
}

// CompleteBooking finishes an in-progress booking
func CompleteBooking(b *models.Booking, in CompletionInput, now time.Time) error {
	if b.Status != models.BookingStatusInProgress {
		return ErrBookingNotInProgress
	}
	b.Status = models.BookingStatusCompleted
	b.ActualEndTime = &now
	b.CompletedAt = &now
	b.CompletionNotes = in.Notes
	b.AfterPhotos = in.AfterPhotos
	if b.AfterPhotos == nil {
		b.AfterPhotos = []string{}
	}
	b.CustomerSignature = in.Signature
	return nil
}

// BookingFromQuote builds the confirmed booking that accepting q creates
func BookingFromQuote(q models.ServiceQuote, req models.ServiceRequest, scheduledDate time.Time, timeStart, timeEnd, reference string) models.Booking {
	return models.Booking{
		Reference:          reference,
		RequestID:          req.ID,
		QuoteID:            q.ID,
		CustomerUserID:     req.CustomerUserID,
		BusinessID:         q.BusinessID,
		ScheduledDate:      scheduledDate,
		ScheduledTimeStart: timeStart,
		ScheduledTimeEnd:   timeEnd,
		FinalAmount:        q.Amount + q.AdditionalFees,
		Status:             models.BookingStatusConfirmed,
		AfterPhotos:        []string{},
	}
}
