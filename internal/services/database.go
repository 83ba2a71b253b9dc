package services

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"bulkpickup_app/internal/catalog"
	"bulkpickup_app/internal/models"
)

// InitDB initializes the database connection with connection pooling.
// Production only logs slow queries and warnings.
func InitDB(dsn string, production bool) (*gorm.DB, error) {
	level := logger.Info
	if production {
		level = logger.Warn
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(level),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Println("Database connection established")
	return db, nil
}

// AutoMigrate runs database migrations for all models
func AutoMigrate(db *gorm.DB) error {
	log.Println("Running database migrations...")

	err := db.AutoMigrate(
		&models.ScheduleZone{},
		&models.PickupSchedule{},
		&models.ScheduleSubscription{},
		&models.Business{},
		&models.BusinessService{},
		&models.BusinessReview{},
		&models.ServiceRequest{},
		&models.ServiceQuote{},
		&models.Booking{},
		&models.ScheduledTask{},
		&models.ScheduledTaskHistory{},
	)
	if err != nil {
		return err
	}

	log.Println("Database migrations completed")
	return nil
}

// SeedCatalog inserts the catalog's zones, schedules and businesses when the
// schedules table is empty. It returns false when seeding was skipped.
func SeedCatalog(db *gorm.DB, c *catalog.Catalog) (bool, error) {
	var count int64
	if err := db.Model(&models.PickupSchedule{}).Count(&count).Error; err != nil {
		return false, fmt.Errorf("count schedules: %w", err)
	}
	if count > 0 {
		log.Printf("Seed skipped: %d schedules already present", count)
		return false, nil
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		zoneIDs := make(map[string]uint, len(c.Seed.Zones))
		for _, z := range c.Seed.Zones {
			zone := models.ScheduleZone{Name: z.Name, PickupDay: z.PickupDay, ZipCodes: z.ZipCodes}
			if err := tx.Create(&zone).Error; err != nil {
				return fmt.Errorf("create zone %s: %w", z.Key, err)
			}
			zoneIDs[z.Key] = zone.ID
		}

		for _, s := range c.Seed.Schedules {
			zoneID := zoneIDs[s.Zone]
			schedule := models.PickupSchedule{
				MunicipalityID: s.MunicipalityID,
				Name:           s.Name,
				Type:           s.Type,
				Frequency:      models.Frequency(s.Frequency),
				StartDate:      s.StartDate,
				IsActive:       true,
				ZoneID:         &zoneID,
			}
			if s.Rules != "" {
				rules := s.Rules
				schedule.Rules = &rules
			}
			if err := tx.Create(&schedule).Error; err != nil {
				return fmt.Errorf("create schedule %s: %w", s.Name, err)
			}
		}

		for _, b := range c.Seed.Businesses {
			business := models.Business{
				Name:               b.Name,
				Type:               b.Type,
				Description:        b.Description,
				WebsiteURL:         b.WebsiteURL,
				Phone:              b.Phone,
				Email:              b.Email,
				ServiceRadiusMiles: 25,
				Rating:             b.Rating,
				RatingCount:        b.RatingCount,
				DistanceKm:         b.DistanceKm,
				PriceRange:         models.PriceRange(b.PriceRange),
				ResponseTime:       b.ResponseTime,
				IsVerified:         b.Verified,
				TotalJobsCompleted: b.JobsCompleted,
			}
			for _, s := range b.Services {
				business.Services = append(business.Services, models.BusinessService{
					Category:      s.Category,
					Name:          s.Name,
					Description:   s.Description,
					BasePrice:     s.BasePrice,
					PriceUnit:     s.PriceUnit,
					MinimumCharge: s.MinimumCharge,
					IsActive:      true,
				})
			}
			for _, r := range b.Reviews {
				business.Reviews = append(business.Reviews, models.BusinessReview{
					ReviewerUserID: "seed",
					ReviewerName:   r.Reviewer,
					Rating:         r.Rating,
					Title:          r.Title,
					Text:           r.Text,
					IsPublic:       true,
				})
			}
			if err := tx.Create(&business).Error; err != nil {
				return fmt.Errorf("create business %s: %w", b.Name, err)
			}
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	log.Printf("Seeded %d zones, %d schedules, %d businesses",
		len(c.Seed.Zones), len(c.Seed.Schedules), len(c.Seed.Businesses))
	return true, nil
}
