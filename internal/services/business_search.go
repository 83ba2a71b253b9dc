package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ettle/strcase"

	"bulkpickup_app/internal/models"
)

const (
	defaultSearchLimit = 10
	maxSearchLimit     = 100
)

// BusinessListing is the search-result shape of a business
type BusinessListing struct {
	ID                 uint              `json:"id"`
	Name               string            `json:"name"`
	Rating             float64           `json:"rating"`
	RatingCount        int               `json:"ratingCount"`
	Distance           float64           `json:"distance"`
	Services           []string          `json:"services"`
	PriceRange         models.PriceRange `json:"priceRange"`
	ResponseTime       string            `json:"responseTime,omitempty"`
	IsVerified         bool              `json:"isVerified"`
	TotalJobsCompleted int               `json:"totalJobsCompleted"`
}

// SearchQuery holds the search filters. Zero values mean "no filter".
type SearchQuery struct {
	ServiceCategory string
	MinRating       float64
	SortBy          string
	Page            int
	Limit           int
}

// SearchResult is a page of listings; TotalCount counts every match
type SearchResult struct {
	Businesses []BusinessListing `json:"businesses"`
	TotalCount int               `json:"totalCount"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
}

// NormalizeCategory turns "Junk Removal" or "junkRemoval" into "junk_removal"
func NormalizeCategory(category string) string {
	return strcase.ToSnake(strings.TrimSpace(category))
}

// Normalized fills defaults and canonicalises the category
func (q SearchQuery) Normalized() SearchQuery {
	q.ServiceCategory = NormalizeCategory(q.ServiceCategory)
	if q.SortBy == "" {
		q.SortBy = "distance"
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = defaultSearchLimit
	}
	if q.Limit > maxSearchLimit {
		q.Limit = maxSearchLimit
	}
	return q
}

// CacheKey identifies the query in the search cache
func (q SearchQuery) CacheKey() string {
	n := q.Normalized()
	return fmt.Sprintf("search:%s:%g:%s:%d:%d", n.ServiceCategory, n.MinRating, n.SortBy, n.Page, n.Limit)
}

// ListingFromBusiness projects a business with its services onto a listing
func ListingFromBusiness(b models.Business) BusinessListing {
	categories := make([]string, 0, len(b.Services))
	for _, s := range b.Services {
		if s.IsActive {
			categories = append(categories, s.Category)
		}
	}
	return BusinessListing{
		ID:                 b.ID,
		Name:               b.Name,
		Rating:             b.Rating,
		RatingCount:        b.RatingCount,
		Distance:           b.DistanceKm,
		Services:           categories,
		PriceRange:         b.PriceRange,
		ResponseTime:       b.ResponseTime,
		IsVerified:         b.IsVerified,
		TotalJobsCompleted: b.TotalJobsCompleted,
	}
}

// SearchListings filters, sorts and pages listings. The input slice is not
// modified. Unknown sort keys keep the input order.
func SearchListings(listings []BusinessListing, q SearchQuery) SearchResult {
	q = q.Normalized()

	matched := make([]BusinessListing, 0, len(listings))
	for _, l := range listings {
		if q.ServiceCategory != "" && !hasCategory(l, q.ServiceCategory) {
			continue
		}
		if q.MinRating > 0 && l.Rating < q.MinRating {
			continue
		}
		matched = append(matched, l)
	}

	switch q.SortBy {
	case "distance":
		sort.SliceStable(matched, func(i, j int) bool { return matched[i].Distance < matched[j].Distance })
	case "rating":
		sort.SliceStable(matched, func(i, j int) bool { return matched[i].Rating > matched[j].Rating })
	case "price":
		sort.SliceStable(matched, func(i, j int) bool { return matched[i].PriceRange.Rank() < matched[j].PriceRange.Rank() })
	}

	result := SearchResult{
		Businesses: []BusinessListing{},
		TotalCount: len(matched),
		Page:       q.Page,
		Limit:      q.Limit,
	}
	start := (q.Page - 1) * q.Limit
	if start >= len(matched) {
		return result
	}
	end := start + q.Limit
	if end > len(matched) {
		end = len(matched)
	}
	result.Businesses = matched[start:end]
	return result
}

func hasCategory(l BusinessListing, category string) bool {
	for _, c := range l.Services {
		if c == category {
			return true
		}
	}
	return false
}
