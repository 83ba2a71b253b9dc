package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"gorm.io/gorm"

	"bulkpickup_app/internal/models"
)

const (
	searchCacheTTL  = 5 * time.Minute
	maxReviewsLimit = 100
)

// ProfileInput is the editable part of a business profile. A nil Services
// keeps the current list; a non-nil one replaces it.
type ProfileInput struct {
	Name               string
	Type               string
	Description        string
	WebsiteURL         string
	Phone              string
	Email              string
	LicenseNumber      string
	ServiceRadiusMiles int
	Services           []models.BusinessService
}

// ReviewPage is one page of public reviews, newest first
type ReviewPage struct {
	Reviews    []models.BusinessReview `json:"reviews"`
	TotalCount int64                   `json:"totalCount"`
	Page       int                     `json:"page"`
	Limit      int                     `json:"limit"`
	HasNext    bool                    `json:"hasNext"`
	HasPrev    bool                    `json:"hasPrev"`
}

type BusinessService struct {
	db    *gorm.DB
	cache *RedisCache
}

// NewBusinessService creates the service. cache may be nil.
func NewBusinessService(db *gorm.DB, cache *RedisCache) *BusinessService {
	return &BusinessService{db: db, cache: cache}
}

// Search runs SearchListings over every business, cached per query
func (s *BusinessService) Search(ctx context.Context, q SearchQuery) (SearchResult, error) {
	return GetOrSet(s.cache, ctx, q.CacheKey(), searchCacheTTL, func() (SearchResult, error) {
		var businesses []models.Business
		if err := s.db.WithContext(ctx).Preload("Services").Order("id ASC").Find(&businesses).Error; err != nil {
			return SearchResult{}, fmt.Errorf("load businesses: %w", err)
		}
		listings := make([]BusinessListing, 0, len(businesses))
		for _, b := range businesses {
			listings = append(listings, ListingFromBusiness(b))
		}
		return SearchListings(listings, q), nil
	})
}

// Get returns a full profile with active services and the latest public reviews
func (s *BusinessService) Get(ctx context.Context, id uint) (*models.Business, error) {
	var business models.Business
	err := s.db.WithContext(ctx).
		Preload("Services", "is_active = ?", true).
		Preload("Reviews", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_public = ?", true).Order("created_at DESC").Limit(10)
		}).
		First(&business, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get business %d: %w", id, err)
	}
	return &business, nil
}

// ProfileFor returns the business owned by userID
func (s *BusinessService) ProfileFor(ctx context.Context, userID string) (*models.Business, error) {
	var business models.Business
	err := s.db.WithContext(ctx).Preload("Services").Where("user_id = ?", userID).First(&business).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get profile for %s: %w", userID, err)
	}
	return &business, nil
}

// UpsertProfile creates or updates the business owned by userID
func (s *BusinessService) UpsertProfile(ctx context.Context, userID string, in ProfileInput) (*models.Business, bool, error) {
	var business models.Business
	created := false

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ?", userID).First(&business).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			created = true
			business = models.Business{UserID: userID, ServiceRadiusMiles: 25, PriceRange: models.PriceStandard}
		case err != nil:
			return err
		}

		business.Name = in.Name
		business.Type = in.Type
		business.Description = in.Description
		business.WebsiteURL = in.WebsiteURL
		business.Phone = in.Phone
		business.Email = in.Email
		business.LicenseNumber = in.LicenseNumber
		if in.ServiceRadiusMiles > 0 {
			business.ServiceRadiusMiles = in.ServiceRadiusMiles
		}

		if err := tx.Omit("Services", "Reviews").Save(&business).Error; err != nil {
			return err
		}

		if in.Services != nil {
			if err := tx.Where("business_id = ?", business.ID).Delete(&models.BusinessService{}).Error; err != nil {
				return err
			}
			for i := range in.Services {
				in.Services[i].ID = 0
				in.Services[i].BusinessID = business.ID
				in.Services[i].IsActive = true
			}
			if len(in.Services) > 0 {
				if err := tx.Create(&in.Services).Error; err != nil {
					return err
				}
			}
		}
		return tx.Preload("Services").First(&business, business.ID).Error
	})
	if err != nil {
		return nil, false, fmt.Errorf("upsert profile for %s: %w", userID, err)
	}

	s.invalidateSearch(ctx)
	return &business, created, nil
}

// AddReview stores a review and refreshes the business rating
func (s *BusinessService) AddReview(ctx context.Context, review *models.BusinessReview) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var business models.Business
		if err := tx.First(&business, review.BusinessID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := tx.Create(review).Error; err != nil {
			return err
		}

		rating, count := ApplyRating(business.Rating, business.RatingCount, review.Rating)
		return tx.Model(&business).Updates(map[string]interface{}{
			"rating":       rating,
			"rating_count": count,
		}).Error
	})
	if errors.Is(err, ErrNotFound) {
		return err
	}
	if err != nil {
		return fmt.Errorf("add review: %w", err)
	}

	s.invalidateSearch(ctx)
	return nil
}

// Reviews pages through a business's public reviews
func (s *BusinessService) Reviews(ctx context.Context, businessID uint, page, limit int) (*ReviewPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > maxReviewsLimit {
		limit = maxReviewsLimit
	}

	var exists int64
	if err := s.db.WithContext(ctx).Model(&models.Business{}).Where("id = ?", businessID).Count(&exists).Error; err != nil {
		return nil, fmt.Errorf("check business %d: %w", businessID, err)
	}
	if exists == 0 {
		return nil, ErrNotFound
	}

	public := func() *gorm.DB {
		return s.db.WithContext(ctx).Model(&models.BusinessReview{}).
			Where("business_id = ? AND is_public = ?", businessID, true)
	}

	var total int64
	if err := public().Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count reviews: %w", err)
	}

	var reviews []models.BusinessReview
	if err := public().Order("created_at DESC").Offset((page - 1) * limit).Limit(limit).Find(&reviews).Error; err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}

	return &ReviewPage{
		Reviews:    reviews,
		TotalCount: total,
		Page:       page,
		Limit:      limit,
		HasNext:    int64(page*limit) < total,
		HasPrev:    page > 1,
	}, nil
}

func (s *BusinessService) invalidateSearch(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeletePattern(ctx, "search:*"); err != nil {
		log.Printf("search cache invalidation failed: %v", err)
	}
}

// ApplyRating folds one new rating into a running average, rounded to two
// decimals to match the column.
func ApplyRating(avg float64, count, rating int) (float64, int) {
	total := avg*float64(count) + float64(rating)
	count++
	return math.Round(total/float64(count)*100) / 100, count
}
