package models

import (
	"time"

	"gorm.io/gorm"
)

type ServiceRequestStatus string

const (
	ServiceRequestStatusOpen   ServiceRequestStatus = "open"
	ServiceRequestStatusBooked ServiceRequestStatus = "booked"
)

// ServiceRequestTTL is how long a request stays open for quotes
const ServiceRequestTTL = 7 * 24 * time.Hour

// ServiceRequest is a resident asking vendors for quotes
type ServiceRequest struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	CustomerUserID      string               `gorm:"type:varchar(100);index" json:"customerUserId"`
	AddressID           string               `gorm:"type:varchar(100)" json:"addressId"`
	ServiceCategory     string               `gorm:"type:varchar(50)" json:"serviceCategory"`
	Description         string               `gorm:"type:text" json:"description"`
	PreferredDate       *time.Time           `gorm:"type:date" json:"preferredDate,omitempty"`
	PreferredTimeStart  string               `gorm:"type:varchar(5)" json:"preferredTimeStart,omitempty"`
	PreferredTimeEnd    string               `gorm:"type:varchar(5)" json:"preferredTimeEnd,omitempty"`
	UrgencyLevel        string               `gorm:"type:varchar(20);default:'normal'" json:"urgencyLevel"`
	EstimatedBudget     *float64             `gorm:"type:decimal(10,2)" json:"estimatedBudget,omitempty"`
	SpecialInstructions string               `gorm:"type:text" json:"specialInstructions,omitempty"`
	Photos              []string             `gorm:"serializer:json" json:"photos"`
	Status              ServiceRequestStatus `gorm:"type:varchar(20);default:'open'" json:"status"`
	ExpiresAt           time.Time            `json:"expiresAt"`

	Quotes []ServiceQuote `gorm:"foreignKey:RequestID" json:"quotes,omitempty"`
}

type QuoteStatus string

const (
	QuoteStatusPending  QuoteStatus = "pending"
	QuoteStatusAccepted QuoteStatus = "accepted"
)

// ServiceQuote is a vendor's price for a request
type ServiceQuote struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	RequestID         uint        `gorm:"index" json:"requestId"`
	BusinessID        uint        `gorm:"index" json:"businessId"`
	Amount            float64     `gorm:"type:decimal(10,2)" json:"quoteAmount"`
	Details           string      `gorm:"type:text" json:"quoteDetails,omitempty"`
	EstimatedDuration string      `gorm:"type:varchar(50)" json:"estimatedDuration,omitempty"`
	AdditionalFees    float64     `gorm:"type:decimal(10,2)" json:"additionalFees"`
	ValidUntil        *time.Time  `json:"validUntil,omitempty"`
	Status            QuoteStatus `gorm:"type:varchar(20);default:'pending'" json:"status"`

	Business *Business `gorm:"foreignKey:BusinessID" json:"business,omitempty"`
}

type BookingStatus string

const (
	BookingStatusConfirmed  BookingStatus = "confirmed"
	BookingStatusInProgress BookingStatus = "in_progress"
	BookingStatusCompleted  BookingStatus = "completed"
	BookingStatusCancelled  BookingStatus = "cancelled"
)

// Booking is an accepted quote with a scheduled visit
type Booking struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Reference          string        `gorm:"type:varchar(20);uniqueIndex" json:"bookingReference"`
	RequestID          uint          `gorm:"index" json:"requestId"`
	QuoteID            uint          `gorm:"index" json:"quoteId"`
	CustomerUserID     string        `gorm:"type:varchar(100);index" json:"customerUserId"`
	BusinessID         uint          `gorm:"index" json:"businessId"`
	ScheduledDate      time.Time     `gorm:"type:date" json:"scheduledDate"`
	ScheduledTimeStart string        `gorm:"type:varchar(5)" json:"scheduledTimeStart"`
	ScheduledTimeEnd   string        `gorm:"type:varchar(5)" json:"scheduledTimeEnd,omitempty"`
	FinalAmount        float64       `gorm:"type:decimal(10,2)" json:"finalAmount"`
	Status             BookingStatus `gorm:"type:varchar(20);default:'confirmed';index" json:"status"`
	CancellationReason string        `gorm:"type:text" json:"cancellationReason,omitempty"`
	CompletionNotes    string        `gorm:"type:text" json:"completionNotes,omitempty"`
	AfterPhotos        []string      `gorm:"serializer:json" json:"afterPhotos"`
	CustomerSignature  string        `gorm:"type:text" json:"customerSignature,omitempty"`
	ActualStartTime    *time.Time    `json:"actualStartTime,omitempty"`
	ActualEndTime      *time.Time    `json:"actualEndTime,omitempty"`
	CompletedAt        *time.Time    `json:"completedAt,omitempty"`

	Business *Business       `gorm:"foreignKey:BusinessID" json:"business,omitempty"`
	Request  *ServiceRequest `gorm:"foreignKey:RequestID" json:"request,omitempty"`
}
