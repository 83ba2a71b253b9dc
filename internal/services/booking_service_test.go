package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"bulkpickup_app/internal/models"
)

var bookingNow = time.Date(2025, 10, 15, 9, 0, 0, 0, time.UTC)

type bookingFixture struct {
	db       *gorm.DB
	svc      *BookingService
	request  models.ServiceRequest
	haulers  []models.Business
	accepted AcceptInput
}

func newBookingFixture(t *testing.T) *bookingFixture {
	t.Helper()
	ctx := context.Background()

	db := newTestDB(t)
	svc := NewBookingService(db)
	svc.now = func() time.Time { return bookingNow }

	haulers := []models.Business{
		{Name: "Quick Haul", PriceRange: models.PriceStandard},
		{Name: "Green Junk Co", PriceRange: models.PriceBudget},
	}
	require.NoError(t, db.Create(&haulers).Error)

	request := models.ServiceRequest{
		CustomerUserID:  "user-1",
		AddressID:       "addr-1",
		ServiceCategory: "junk_removal",
		Description:     "Old sofa and two mattresses",
	}
	require.NoError(t, svc.CreateRequest(ctx, &request))

	return &bookingFixture{
		db:       db,
		svc:      svc,
		request:  request,
		haulers:  haulers,
		accepted: AcceptInput{ScheduledDate: day(2025, 10, 20), TimeStart: "09:00", TimeEnd: "11:00"},
	}
}

func (f *bookingFixture) quote(t *testing.T, business models.Business, amount float64) models.ServiceQuote {
	t.Helper()
	q := models.ServiceQuote{RequestID: f.request.ID, BusinessID: business.ID, Amount: amount, AdditionalFees: 10}
	require.NoError(t, f.svc.SubmitQuote(context.Background(), &q))
	return q
}

func TestCreateRequestOpensForAWeek(t *testing.T) {
	f := newBookingFixture(t)

	var stored models.ServiceRequest
	require.NoError(t, f.db.First(&stored, f.request.ID).Error)
	assert.Equal(t, models.ServiceRequestStatusOpen, stored.Status)
	assert.Equal(t, "normal", stored.UrgencyLevel)
	assert.WithinDuration(t, bookingNow.Add(models.ServiceRequestTTL), stored.ExpiresAt, time.Second)
}

func TestSubmitQuoteChecksRequestAndBusiness(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	q := f.quote(t, f.haulers[0], 150)
	assert.Equal(t, models.QuoteStatusPending, q.Status)
	require.NotNil(t, q.ValidUntil)
	assert.WithinDuration(t, bookingNow.Add(72*time.Hour), *q.ValidUntil, time.Second)

	err := f.svc.SubmitQuote(ctx, &models.ServiceQuote{RequestID: f.request.ID, BusinessID: 999, Amount: 10})
	assert.ErrorIs(t, err, ErrNotFound)

	err = f.svc.SubmitQuote(ctx, &models.ServiceQuote{RequestID: 999, BusinessID: f.haulers[0].ID, Amount: 10})
	assert.ErrorIs(t, err, ErrNotFound)

	f.svc.now = func() time.Time { return bookingNow.Add(8 * 24 * time.Hour) }
	err = f.svc.SubmitQuote(ctx, &models.ServiceQuote{RequestID: f.request.ID, BusinessID: f.haulers[1].ID, Amount: 10})
	assert.ErrorIs(t, err, ErrRequestNotOpen)
}

func TestQuotesCheapestFirst(t *testing.T) {
	f := newBookingFixture(t)

	f.quote(t, f.haulers[0], 200)
	f.quote(t, f.haulers[1], 120)

	quotes, err := f.svc.Quotes(context.Background(), f.request.ID)
	require.NoError(t, err)
	require.Len(t, quotes, 2)
	assert.Equal(t, 120.0, quotes[0].Amount)
	require.NotNil(t, quotes[0].Business)
	assert.Equal(t, "Green Junk Co", quotes[0].Business.Name)
}

func TestAcceptQuoteOnlyOneQuotePerRequestWins(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	first := f.quote(t, f.haulers[0], 150)
	second := f.quote(t, f.haulers[1], 140)

	booking, err := f.svc.AcceptQuote(ctx, first.ID, f.accepted)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusConfirmed, booking.Status)
	assert.Regexp(t, `^BK-2025-\d{6}$`, booking.Reference)
	assert.Equal(t, 160.0, booking.FinalAmount)
	assert.Equal(t, "user-1", booking.CustomerUserID)

	_, err = f.svc.AcceptQuote(ctx, second.ID, f.accepted)
	assert.ErrorIs(t, err, ErrRequestNotOpen)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = f.svc.AcceptQuote(ctx, first.ID, f.accepted)
	assert.ErrorIs(t, err, ErrQuoteNotPending)

	_, err = f.svc.AcceptQuote(ctx, 999, f.accepted)
	assert.ErrorIs(t, err, ErrNotFound)

	var bookings int64
	require.NoError(t, f.db.Model(&models.Booking{}).Where("request_id = ?", f.request.ID).Count(&bookings).Error)
	assert.EqualValues(t, 1, bookings)

	var stored models.ServiceRequest
	require.NoError(t, f.db.First(&stored, f.request.ID).Error)
	assert.Equal(t, models.ServiceRequestStatusBooked, stored.Status)

	var winner, loser models.ServiceQuote
	require.NoError(t, f.db.First(&winner, first.ID).Error)
	require.NoError(t, f.db.First(&loser, second.ID).Error)
	assert.Equal(t, models.QuoteStatusAccepted, winner.Status)
	assert.Equal(t, models.QuoteStatusPending, loser.Status)

	err = f.svc.SubmitQuote(ctx, &models.ServiceQuote{RequestID: f.request.ID, BusinessID: f.haulers[1].ID, Amount: 99})
	assert.ErrorIs(t, err, ErrRequestNotOpen)
}

func TestAcceptQuoteRollsBackWhenRequestAlreadyBooked(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	q := f.quote(t, f.haulers[0], 150)
	require.NoError(t, f.db.Model(&models.ServiceRequest{}).
		Where("id = ?", f.request.ID).
		Update("status", models.ServiceRequestStatusBooked).Error)

	_, err := f.svc.AcceptQuote(ctx, q.ID, f.accepted)
	assert.ErrorIs(t, err, ErrRequestNotOpen)

	var stored models.ServiceQuote
	require.NoError(t, f.db.First(&stored, q.ID).Error)
	assert.Equal(t, models.QuoteStatusPending, stored.Status)

	var bookings int64
	require.NoError(t, f.db.Model(&models.Booking{}).Count(&bookings).Error)
	assert.Zero(t, bookings)
}

func TestBookingTransitionsArePersisted(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	booking, err := f.svc.AcceptQuote(ctx, f.quote(t, f.haulers[0], 150).ID, f.accepted)
	require.NoError(t, err)

	reload := func() models.Booking {
		var b models.Booking
		require.NoError(t, f.db.First(&b, booking.ID).Error)
		return b
	}

	_, err = f.svc.Start(ctx, "someone-else", booking.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, models.BookingStatusConfirmed, reload().Status)

	_, err = f.svc.Complete(ctx, "user-1", booking.ID, CompletionInput{})
	assert.ErrorIs(t, err, ErrBookingNotInProgress)

	started, err := f.svc.Start(ctx, "user-1", booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusInProgress, started.Status)

	stored := reload()
	assert.Equal(t, models.BookingStatusInProgress, stored.Status)
	require.NotNil(t, stored.ActualStartTime)
	assert.WithinDuration(t, bookingNow, *stored.ActualStartTime, time.Second)

	_, err = f.svc.Start(ctx, "user-1", booking.ID)
	assert.ErrorIs(t, err, ErrBookingNotConfirmed)

	_, err = f.svc.Complete(ctx, "user-1", booking.ID, CompletionInput{
		Notes:       "Hauled everything",
		AfterPhotos: []string{"after-1.jpg"},
		Signature:   "J. Doe",
	})
	require.NoError(t, err)

	stored = reload()
	assert.Equal(t, models.BookingStatusCompleted, stored.Status)
	assert.Equal(t, "Hauled everything", stored.CompletionNotes)
	assert.Equal(t, []string{"after-1.jpg"}, stored.AfterPhotos)
	assert.Equal(t, "J. Doe", stored.CustomerSignature)
	require.NotNil(t, stored.CompletedAt)

	_, err = f.svc.Cancel(ctx, "user-1", booking.ID, "changed my mind")
	assert.ErrorIs(t, err, ErrBookingNotCancellable)
	assert.Equal(t, models.BookingStatusCompleted, reload().Status)
}

func TestCancelStoresDefaultReason(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	booking, err := f.svc.AcceptQuote(ctx, f.quote(t, f.haulers[0], 150).ID, f.accepted)
	require.NoError(t, err)

	_, err = f.svc.Cancel(ctx, "user-1", booking.ID, "")
	require.NoError(t, err)

	var stored models.Booking
	require.NoError(t, f.db.First(&stored, booking.ID).Error)
	assert.Equal(t, models.BookingStatusCancelled, stored.Status)
	assert.Equal(t, DefaultCancellationReason, stored.CancellationReason)
}

func TestHistoryFiltersAndCapsLimit(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	seed := []struct {
		user   string
		date   time.Time
		status models.BookingStatus
	}{
		{"user-1", day(2025, 9, 1), models.BookingStatusCompleted},
		{"user-1", day(2025, 10, 1), models.BookingStatusCancelled},
		{"user-1", day(2025, 11, 1), models.BookingStatusConfirmed},
		{"user-2", day(2025, 10, 5), models.BookingStatusConfirmed},
	}
	for i, s := range seed {
		b := models.Booking{
			Reference:      fmt.Sprintf("BK-2025-%06d", i),
			RequestID:      f.request.ID,
			CustomerUserID: s.user,
			BusinessID:     f.haulers[0].ID,
			ScheduledDate:  s.date,
			Status:         s.status,
			AfterPhotos:    []string{},
		}
		require.NoError(t, f.db.Create(&b).Error)
	}

	page, err := f.svc.History(ctx, "user-1", "", 500, -3)
	require.NoError(t, err)
	assert.Equal(t, maxHistoryLimit, page.Limit)
	assert.Equal(t, 0, page.Offset)
	assert.EqualValues(t, 3, page.TotalCount)
	require.Len(t, page.Bookings, 3)
	assert.Equal(t, "BK-2025-000002", page.Bookings[0].Reference)
	require.NotNil(t, page.Bookings[0].Business)
	assert.Equal(t, "Quick Haul", page.Bookings[0].Business.Name)

	page, err = f.svc.History(ctx, "user-1", string(models.BookingStatusCancelled), 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 20, page.Limit)
	require.Len(t, page.Bookings, 1)
	assert.Equal(t, "BK-2025-000001", page.Bookings[0].Reference)

	page, err = f.svc.History(ctx, "user-1", "", 1, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 3, page.TotalCount)
	require.Len(t, page.Bookings, 1)
	assert.Equal(t, "BK-2025-000001", page.Bookings[0].Reference)
}
