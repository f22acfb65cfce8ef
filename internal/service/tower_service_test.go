package service

import (
	"context"
	"math"
	"testing"

	"celltrack-api/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockTowerCatalog is a mock implementation of the TowerCatalog interface
type MockTowerCatalog struct {
	mock.Mock
}

func (m *MockTowerCatalog) ListTowers(ctx context.Context, limit int) ([]models.TowerLocation, error) {
	args := m.Called(ctx, limit)
	towers, _ := args.Get(0).([]models.TowerLocation)
	return towers, args.Error(1)
}

func (m *MockTowerCatalog) FindNearbyTowers(ctx context.Context, lat, lon float64, radiusMeters int) ([]models.TowerLocation, error) {
	args := m.Called(ctx, lat, lon, radiusMeters)
	towers, _ := args.Get(0).([]models.TowerLocation)
	return towers, args.Error(1)
}

func TestTowerService_ListTowers(t *testing.T) {
	tests := []struct {
		name          string
		limit         int
		expectedLimit int
		mockErr       error
		expectError   bool
	}{
		{name: "default limit", limit: 0, expectedLimit: DefaultTowerListLimit},
		{name: "explicit limit", limit: 25, expectedLimit: 25},
		{name: "capped limit", limit: 100000, expectedLimit: MaxTowerListLimit},
		{name: "store error", limit: 5, expectedLimit: 5, mockErr: assert.AnError, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			catalog := new(MockTowerCatalog)
			svc := NewTowerService(catalog, new(MockResolver))
			towers := []models.TowerLocation{*towerAt(kpIdentity(12345), 28.4744, 77.4860, models.OriginImported)}
			catalog.On("ListTowers", mock.Anything, tt.expectedLimit).Return(towers, tt.mockErr).Once()

			got, err := svc.ListTowers(context.Background(), tt.limit)

			if tt.expectError {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, towers, got)
			}
			catalog.AssertExpectations(t)
		})
	}
}

func TestTowerService_NearbyTowers(t *testing.T) {
	tests := []struct {
		name           string
		lat, lon       float64
		radius         int
		expectedRadius int
		expectCall     bool
		expectError    bool
	}{
		{name: "default radius", lat: 28.47, lon: 77.49, radius: 0, expectedRadius: DefaultNearbyRadius, expectCall: true},
		{name: "capped radius", lat: 28.47, lon: 77.49, radius: 1e6, expectedRadius: MaxNearbyRadius, expectCall: true},
		{name: "latitude out of range", lat: 91, lon: 77.49, expectError: true},
		{name: "longitude out of range", lat: 28.47, lon: -181, expectError: true},
		{name: "nan latitude", lat: math.NaN(), lon: 77.49, expectError: true},
		{name: "infinite longitude", lat: 28.47, lon: math.Inf(1), expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			catalog := new(MockTowerCatalog)
			svc := NewTowerService(catalog, new(MockResolver))
			if tt.expectCall {
				catalog.On("FindNearbyTowers", mock.Anything, tt.lat, tt.lon, tt.expectedRadius).
					Return([]models.TowerLocation{}, nil).Once()
			}

			got, err := svc.NearbyTowers(context.Background(), tt.lat, tt.lon, tt.radius)

			if tt.expectError {
				assert.Error(t, err)
				catalog.AssertNotCalled(t, "FindNearbyTowers", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			} else {
				require.NoError(t, err)
				assert.Empty(t, got)
			}
			catalog.AssertExpectations(t)
		})
	}
}

func TestTowerService_ResolveTowers(t *testing.T) {
	resolver := new(MockResolver)
	ids := []models.TowerIdentity{kpIdentity(12345)}
	resolver.On("ResolveTowers", mock.Anything, ids).Return(resolvedTowers(12345)).Once()

	got := NewTowerService(new(MockTowerCatalog), resolver).ResolveTowers(context.Background(), ids)

	assert.Len(t, got, 1)
	resolver.AssertExpectations(t)
}
