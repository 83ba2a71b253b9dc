package models

import (
	"time"

	"gorm.io/gorm"
)

// PriceRange is the dollar-sign tier shown on provider cards
type PriceRange string

const (
	PriceBudget   PriceRange = "$"
	PriceStandard PriceRange = "$$"
	PricePremium  PriceRange = "$$$"
)

// Rank orders price tiers; unknown tiers rank as standard
func (p PriceRange) Rank() int {
	switch p {
	case PriceBudget:
		return 1
	case PricePremium:
		return 3
	default:
		return 2
	}
}

// Business is a vendor profile
type Business struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	UserID             string     `gorm:"type:varchar(100);index" json:"userId,omitempty"`
	Name               string     `gorm:"type:varchar(255)" json:"businessName"`
	Type               string     `gorm:"type:varchar(50)" json:"businessType"`
	Description        string     `gorm:"type:text" json:"description,omitempty"`
	WebsiteURL         string     `gorm:"type:varchar(255)" json:"websiteUrl,omitempty"`
	Phone              string     `gorm:"type:varchar(50)" json:"phone,omitempty"`
	Email              string     `gorm:"type:varchar(255)" json:"email,omitempty"`
	LicenseNumber      string     `gorm:"type:varchar(100)" json:"licenseNumber,omitempty"`
	ServiceRadiusMiles int        `gorm:"default:25" json:"serviceRadiusMiles"`
	Rating             float64    `gorm:"type:decimal(3,2);default:0" json:"rating"`
	RatingCount        int        `gorm:"default:0" json:"ratingCount"`
	DistanceKm         float64    `gorm:"type:decimal(6,2)" json:"distanceKm"`
	PriceRange         PriceRange `gorm:"type:varchar(5);default:'$$'" json:"priceRange"`
	ResponseTime       string     `gorm:"type:varchar(50)" json:"responseTime,omitempty"`
	IsVerified         bool       `gorm:"default:false" json:"isVerified"`
	TotalJobsCompleted int        `gorm:"default:0" json:"totalJobsCompleted"`

	Services []BusinessService `gorm:"foreignKey:BusinessID" json:"services,omitempty"`
	Reviews  []BusinessReview  `gorm:"foreignKey:BusinessID" json:"reviews,omitempty"`
}

// OffersCategory reports whether any service matches category
func (b Business) OffersCategory(category string) bool {
	for _, s := range b.Services {
		if s.Category == category {
			return true
		}
	}
	return false
}

type BusinessService struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	BusinessID    uint    `gorm:"index" json:"businessId"`
	Category      string  `gorm:"type:varchar(50);index" json:"serviceCategory"`
	Name          string  `gorm:"type:varchar(255)" json:"serviceName"`
	Description   string  `gorm:"type:text" json:"description,omitempty"`
	BasePrice     float64 `gorm:"type:decimal(10,2)" json:"basePrice"`
	PriceUnit     string  `gorm:"type:varchar(20)" json:"priceUnit"`
	MinimumCharge float64 `gorm:"type:decimal(10,2)" json:"minimumCharge"`
	IsActive      bool    `gorm:"default:true" json:"isActive"`
}

type BusinessReview struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	BusinessID     uint   `gorm:"index" json:"businessId"`
	ReviewerUserID string `gorm:"type:varchar(100)" json:"reviewerUserId"`
	ReviewerName   string `gorm:"type:varchar(100)" json:"reviewerName,omitempty"`
	BookingID      *uint  `json:"bookingId,omitempty"`
	Rating         int    `json:"rating"` // 1..5
	Title          string `gorm:"type:varchar(255)" json:"reviewTitle,omitempty"`
	Text           string `gorm:"type:text" json:"reviewText,omitempty"`
	IsPublic       bool   `json:"isPublic"`
}
