package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalogLoads(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	require.Len(t, c.Pickups, 2)
	assert.Equal(t, "Bulk Pickup", c.Pickups[0].Type)
	assert.Equal(t, time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC), c.Pickups[0].Date)

	require.Len(t, c.Providers, 3)
	assert.Equal(t, "Green Cleanup Services", c.Providers[0].Name)
	assert.Equal(t, []string{"Junk Removal", "Yard Cleanup"}, c.Providers[0].Services)
	assert.Equal(t, "$$", c.Providers[0].PriceRange)

	assert.Equal(t, 12, c.Professional.Stats.PropertiesMonitored)
	assert.Len(t, c.Vendor.Metrics, 4)
	assert.Equal(t, "$4,250", c.Vendor.Metrics[0].Value)
	assert.Len(t, c.Vendor.Performance, 2)
}

func TestSeedZonesResolve(t *testing.T) {
	c := MustDefault()
	for _, s := range c.Seed.Schedules {
		zone, ok := c.Seed.Zone(s.Zone)
		require.True(t, ok, s.Name)
		assert.NotEmpty(t, zone.PickupDay)
	}
}

func TestParseRejectsDanglingZone(t *testing.T) {
	_, err := Parse([]byte(`
seed:
  schedules:
    - name: Orphan
      zone: nowhere
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown zone")
}

func TestParseRejectsBadReviewRating(t *testing.T) {
	_, err := Parse([]byte(`
seed:
  businesses:
    - name: Bad
      reviews:
        - rating: 9
`))
	require.Error(t, err)
}
