// Package catalog holds the static demo content shown on the portal screens
// and the rows used to seed a fresh database.
package catalog

import (
	_ "embed"
	"fmt"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var embeddedCatalog []byte

// PickupSchedule is a display-only upcoming pickup
type PickupSchedule struct {
	ID     int       `yaml:"id"`
	Type   string    `yaml:"type"`
	Date   time.Time `yaml:"date"`
	Zone   string    `yaml:"zone"`
	Status string    `yaml:"status"`
}

// ServiceProviderListing is a display-only provider card
type ServiceProviderListing struct {
	ID           int      `yaml:"id"`
	Name         string   `yaml:"name"`
	Rating       float64  `yaml:"rating"`
	RatingCount  int      `yaml:"ratingCount"`
	DistanceKm   float64  `yaml:"distanceKm"`
	Services     []string `yaml:"services"`
	PriceRange   string   `yaml:"priceRange"`
	ResponseTime string   `yaml:"responseTime"`
}

type MonitoredProperty struct {
	Address    string    `yaml:"address"`
	NextPickup time.Time `yaml:"nextPickup"`
}

type PortfolioStats struct {
	PropertiesMonitored int `yaml:"propertiesMonitored"`
	PickupSuccessRate   int `yaml:"pickupSuccessRate"`
}

type Professional struct {
	Properties []MonitoredProperty `yaml:"properties"`
	Stats      PortfolioStats      `yaml:"stats"`
}

type VendorMetric struct {
	Label string `yaml:"label"`
	Value string `yaml:"value"`
	Tone  string `yaml:"tone"`
}

type ServiceArea struct {
	Name        string `yaml:"name"`
	ZipRange    string `yaml:"zipRange"`
	ActiveLeads int    `yaml:"activeLeads"`
	Revenue     int    `yaml:"revenue"`
}

type Lead struct {
	Name     string `yaml:"name"`
	Service  string `yaml:"service"`
	Location string `yaml:"location"`
}

type LocationPerformance struct {
	Location string `yaml:"location"`
	Leads    int    `yaml:"leads"`
	Percent  int    `yaml:"percent"`
}

type Vendor struct {
	Metrics      []VendorMetric        `yaml:"metrics"`
	ServiceAreas []ServiceArea         `yaml:"serviceAreas"`
	Leads        []Lead                `yaml:"leads"`
	Performance  []LocationPerformance `yaml:"performance"`
}

// Catalog is the full demo content
type Catalog struct {
	Pickups      []PickupSchedule         `yaml:"pickups"`
	Providers    []ServiceProviderListing `yaml:"providers"`
	Professional Professional             `yaml:"professional"`
	Vendor       Vendor                   `yaml:"vendor"`
	Seed         Seed                     `yaml:"seed"`
}

// Parse decodes a catalog document
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("catalog: decode: %w", err)
	}
	if err := c.Seed.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
	defaultErr     error
)

// Default returns the embedded catalog, parsed once
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultCatalog, defaultErr = Parse(embeddedCatalog)
	})
	return defaultCatalog, defaultErr
}

// MustDefault is Default for program start-up
func MustDefault() *Catalog {
	c, err := Default()
	if err != nil {
		panic(err)
	}
	return c
}
