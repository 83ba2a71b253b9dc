package catalog

import (
	"fmt"
	"time"
)

// Seed describes the rows inserted into an empty database
type Seed struct {
	Zones      []SeedZone      `yaml:"zones"`
	Schedules  []SeedSchedule  `yaml:"schedules"`
	Businesses []SeedBusiness  `yaml:"businesses"`
}

type SeedZone struct {
	Key       string   `yaml:"key"`
	Name      string   `yaml:"name"`
	PickupDay string   `yaml:"pickupDay"`
	ZipCodes  []string `yaml:"zipCodes"`
}

type SeedSchedule struct {
	MunicipalityID string    `yaml:"municipalityId"`
	Name           string    `yaml:"name"`
	Type           string    `yaml:"type"`
	Frequency      string    `yaml:"frequency"`
	StartDate      time.Time `yaml:"startDate"`
	Rules          string    `yaml:"rules"`
	Zone           string    `yaml:"zone"`
}

type SeedService struct {
	Category      string  `yaml:"category"`
	Name          string  `yaml:"name"`
	Description   string  `yaml:"description"`
	BasePrice     float64 `yaml:"basePrice"`
	PriceUnit     string  `yaml:"priceUnit"`
	MinimumCharge float64 `yaml:"minimumCharge"`
}

type SeedReview struct {
	Rating   int    `yaml:"rating"`
	Title    string `yaml:"title"`
	Text     string `yaml:"text"`
	Reviewer string `yaml:"reviewer"`
}

type SeedBusiness struct {
	Name          string        `yaml:"name"`
	Type          string        `yaml:"type"`
	Description   string        `yaml:"description"`
	WebsiteURL    string        `yaml:"websiteUrl"`
	Phone         string        `yaml:"phone"`
	Email         string        `yaml:"email"`
	Rating        float64       `yaml:"rating"`
	RatingCount   int           `yaml:"ratingCount"`
	DistanceKm    float64       `yaml:"distanceKm"`
	PriceRange    string        `yaml:"priceRange"`
	ResponseTime  string        `yaml:"responseTime"`
	Verified      bool          `yaml:"verified"`
	JobsCompleted int           `yaml:"jobsCompleted"`
	Services      []SeedService `yaml:"services"`
	Reviews       []SeedReview  `yaml:"reviews"`
}

// Zone returns the zone with the given key
func (s Seed) Zone(key string) (SeedZone, bool) {
	for _, z := range s.Zones {
		if z.Key == key {
			return z, true
		}
	}
	return SeedZone{}, false
}

func (s Seed) validate() error {
	for _, sched := range s.Schedules {
		if _, ok := s.Zone(sched.Zone); !ok {
			return fmt.Errorf("catalog: schedule %q references unknown zone %q", sched.Name, sched.Zone)
		}
	}
	for _, b := range s.Businesses {
		for _, r := range b.Reviews {
			if r.Rating < 1 || r.Rating > 5 {
				return fmt.Errorf("catalog: review for %q has rating %d", b.Name, r.Rating)
			}
		}
	}
	return nil
}
