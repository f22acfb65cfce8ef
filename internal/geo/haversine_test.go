package geo

import (
	"math"
	"testing"

	"celltrack-api/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestDistance(t *testing.T) {
	a := models.Point{Lat: 28.4744, Lon: 77.4860}
	b := models.Point{Lat: 28.4640, Lon: 77.5045}

	tests := []struct {
		name     string
		from, to models.Point
		expected float64
		delta    float64
	}{
		{
			name:     "same point",
			from:     a,
			to:       a,
			expected: 0,
			delta:    0,
		},
		{
			name:     "one degree of longitude at the equator",
			from:     models.Point{Lat: 0, Lon: 0},
			to:       models.Point{Lat: 0, Lon: 1},
			expected: 111320,
			delta:    1113.2,
		},
		{
			name:     "one degree of latitude",
			from:     models.Point{Lat: 10, Lon: 20},
			to:       models.Point{Lat: 11, Lon: 20},
			expected: 111195,
			delta:    1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Distance(tt.from, tt.to, Meters), tt.delta)
		})
	}

	t.Run("symmetric", func(t *testing.T) {
		assert.Equal(t, Distance(a, b, Meters), Distance(b, a, Meters))
	})
}

func TestDistance_UnitsShareOneRadius(t *testing.T) {
	a := models.Point{Lat: 28.4744, Lon: 77.4860}
	b := models.Point{Lat: 28.4686, Lon: 77.4950}

	meters := Distance(a, b, Meters)
	km := Distance(a, b, Kilometers)

	assert.InDelta(t, meters/1000, km, 1e-9)
	// A kilometer figure fed to meter-scale code would be off by three orders of magnitude.
	assert.Greater(t, meters, 500.0)
	assert.Less(t, km, 5.0)
}

func TestCentroid(t *testing.T) {
	assert.Equal(t, models.Point{}, Centroid(nil))
	got := Centroid([]models.Point{{Lat: 1, Lon: 2}, {Lat: 3, Lon: 4}})
	assert.InDelta(t, 2, got.Lat, 1e-12)
	assert.InDelta(t, 3, got.Lon, 1e-12)
}

func TestMeanPairwiseDistance(t *testing.T) {
	_, ok := MeanPairwiseDistance([]models.Point{{Lat: 1, Lon: 1}})
	assert.False(t, ok)

	mean, ok := MeanPairwiseDistance([]models.Point{{Lat: 0, Lon: 0}, {Lat: 0, Lon: 1}})
	assert.True(t, ok)
	assert.InDelta(t, 111195, mean, 1)
}

func TestLocalMeters(t *testing.T) {
	origin := models.Point{Lat: 28.47, Lon: 77.49}

	east, north := LocalMeters(origin, origin)
	assert.Zero(t, east)
	assert.Zero(t, north)

	p := models.Point{Lat: 28.475, Lon: 77.495}
	east, north = LocalMeters(origin, p)
	assert.Greater(t, east, 0.0)
	assert.Greater(t, north, 0.0)
	assert.InDelta(t, DistanceMeters(origin, p), math.Hypot(east, north), 1)
}
