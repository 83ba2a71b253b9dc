package services

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bulkpickup_app/internal/models"
)

func TestUpsertProfileCreatesThenReplacesServices(t *testing.T) {
	ctx := context.Background()
	svc := NewBusinessService(newTestDB(t), nil)

	business, created, err := svc.UpsertProfile(ctx, "owner-1", ProfileInput{
		Name: "Quick Haul",
		Type: "hauler",
		Services: []models.BusinessService{
			{Category: "junk_removal", Name: "Junk pickup", BasePrice: 99},
			{Category: "appliance_removal", Name: "Fridge removal", BasePrice: 149},
		},
	})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, 25, business.ServiceRadiusMiles)
	assert.Equal(t, models.PriceStandard, business.PriceRange)
	require.Len(t, business.Services, 2)
	for _, s := range business.Services {
		assert.True(t, s.IsActive)
		assert.Equal(t, business.ID, s.BusinessID)
	}

	updated, created, err := svc.UpsertProfile(ctx, "owner-1", ProfileInput{
		Name:               "Quick Haul & Sons",
		ServiceRadiusMiles: 40,
		Services:           []models.BusinessService{{Category: "yard_waste", Name: "Yard cleanup", BasePrice: 75}},
	})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, business.ID, updated.ID)
	assert.Equal(t, "Quick Haul & Sons", updated.Name)
	assert.Equal(t, 40, updated.ServiceRadiusMiles)
	require.Len(t, updated.Services, 1)
	assert.Equal(t, "yard_waste", updated.Services[0].Category)

	kept, _, err := svc.UpsertProfile(ctx, "owner-1", ProfileInput{Name: "Quick Haul"})
	require.NoError(t, err)
	require.Len(t, kept.Services, 1)
	assert.Equal(t, 40, kept.ServiceRadiusMiles)

	profile, err := svc.ProfileFor(ctx, "owner-1")
	require.NoError(t, err)
	assert.Equal(t, business.ID, profile.ID)

	_, err = svc.ProfileFor(ctx, "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAddReviewUpdatesRating(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := NewBusinessService(db, nil)

	business := models.Business{Name: "Quick Haul", Rating: 4, RatingCount: 1}
	require.NoError(t, db.Create(&business).Error)

	require.NoError(t, svc.AddReview(ctx, &models.BusinessReview{
		BusinessID: business.ID, ReviewerUserID: "user-1", Rating: 5, IsPublic: true,
	}))

	var stored models.Business
	require.NoError(t, db.First(&stored, business.ID).Error)
	assert.Equal(t, 4.5, stored.Rating)
	assert.Equal(t, 2, stored.RatingCount)

	err := svc.AddReview(ctx, &models.BusinessReview{BusinessID: 999, Rating: 3})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReviewsPagesPublicReviewsAndCapsLimit(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := NewBusinessService(db, nil)

	business := models.Business{Name: "Quick Haul"}
	require.NoError(t, db.Create(&business).Error)
	for i, public := range []bool{true, true, true, false} {
		require.NoError(t, svc.AddReview(ctx, &models.BusinessReview{
			BusinessID: business.ID, ReviewerUserID: "user", Rating: 3 + i%3, IsPublic: public,
		}))
	}

	page, err := svc.Reviews(ctx, business.ID, 1, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, page.TotalCount)
	assert.Len(t, page.Reviews, 2)
	assert.True(t, page.HasNext)
	assert.False(t, page.HasPrev)

	page, err = svc.Reviews(ctx, business.ID, 2, 2)
	require.NoError(t, err)
	assert.Len(t, page.Reviews, 1)
	assert.False(t, page.HasNext)
	assert.True(t, page.HasPrev)

	page, err = svc.Reviews(ctx, business.ID, 0, 10_000)
	require.NoError(t, err)
	assert.Equal(t, maxReviewsLimit, page.Limit)
	assert.Equal(t, 1, page.Page)
	assert.Len(t, page.Reviews, 3)

	_, err = svc.Reviews(ctx, 999, 1, 10)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetLoadsActiveServicesAndPublicReviews(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := NewBusinessService(db, nil)

	business, _, err := svc.UpsertProfile(ctx, "owner-1", ProfileInput{
		Name:     "Quick Haul",
		Services: []models.BusinessService{{Category: "junk_removal", Name: "Junk pickup"}},
	})
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.BusinessService{BusinessID: business.ID, Category: "retired", Name: "Old service"}).Error)
	require.NoError(t, db.Model(&models.BusinessService{}).
		Where("category = ?", "retired").Update("is_active", false).Error)
	require.NoError(t, svc.AddReview(ctx, &models.BusinessReview{BusinessID: business.ID, Rating: 5, IsPublic: true}))
	require.NoError(t, svc.AddReview(ctx, &models.BusinessReview{BusinessID: business.ID, Rating: 1, IsPublic: false}))

	got, err := svc.Get(ctx, business.ID)
	require.NoError(t, err)
	require.Len(t, got.Services, 1)
	assert.Equal(t, "junk_removal", got.Services[0].Category)
	require.Len(t, got.Reviews, 1)
	assert.Equal(t, 5, got.Reviews[0].Rating)

	_, err = svc.Get(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSearchCacheIsInvalidatedByProfileChanges(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	cache := NewRedisCacheFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = cache.Close() })

	svc := NewBusinessService(newTestDB(t), cache)

	_, _, err := svc.UpsertProfile(ctx, "owner-1", ProfileInput{Name: "Quick Haul"})
	require.NoError(t, err)

	q := SearchQuery{SortBy: "rating"}
	result, err := svc.Search(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, 1, result.TotalCount)
	assert.True(t, mr.Exists(cache.Key(q.CacheKey())))

	_, _, err = svc.UpsertProfile(ctx, "owner-2", ProfileInput{Name: "Green Junk Co"})
	require.NoError(t, err)
	assert.False(t, mr.Exists(cache.Key(q.CacheKey())))

	result, err = svc.Search(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, 2, result.TotalCount)
}
