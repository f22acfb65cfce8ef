package service

import (
	"context"
	"time"

	"celltrack-api/internal/models"
	"celltrack-api/internal/positioning"

	"github.com/stretchr/testify/mock"
)

// MockTowerStore is a mock implementation of the TowerStore interface
type MockTowerStore struct {
	mock.Mock
}

func (m *MockTowerStore) GetTower(ctx context.Context, id models.TowerIdentity) (*models.TowerLocation, error) {
	args := m.Called(ctx, id)
	loc, _ := args.Get(0).(*models.TowerLocation)
	return loc, args.Error(1)
}

func (m *MockTowerStore) UpsertTower(ctx context.Context, tower models.TowerLocation) error {
	args := m.Called(ctx, tower)
	return args.Error(0)
}

// MockTowerCache is a mock implementation of the TowerCache interface
type MockTowerCache struct {
	mock.Mock
}

func (m *MockTowerCache) GetTower(ctx context.Context, id models.TowerIdentity) (*models.TowerLocation, error) {
	args := m.Called(ctx, id)
	loc, _ := args.Get(0).(*models.TowerLocation)
	return loc, args.Error(1)
}

func (m *MockTowerCache) SetTower(ctx context.Context, tower models.TowerLocation, ttl time.Duration) error {
	args := m.Called(ctx, tower, ttl)
	return args.Error(0)
}

// MockCellLookup is a mock implementation of the CellLookup interface
type MockCellLookup struct {
	mock.Mock
}

func (m *MockCellLookup) Lookup(ctx context.Context, id models.TowerIdentity) (*models.TowerLocation, error) {
	args := m.Called(ctx, id)
	loc, _ := args.Get(0).(*models.TowerLocation)
	return loc, args.Error(1)
}

// MockPositionStore is a mock implementation of the PositionStore interface
type MockPositionStore struct {
	mock.Mock
}

func (m *MockPositionStore) SavePosition(ctx context.Context, rec models.PositionRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockPositionStore) LatestPosition(ctx context.Context, vehicleID string) (*models.PositionRecord, error) {
	args := m.Called(ctx, vehicleID)
	rec, _ := args.Get(0).(*models.PositionRecord)
	return rec, args.Error(1)
}

func (m *MockPositionStore) RecentPositions(ctx context.Context, vehicleID string, limit int) ([]models.PositionRecord, error) {
	args := m.Called(ctx, vehicleID, limit)
	recs, _ := args.Get(0).([]models.PositionRecord)
	return recs, args.Error(1)
}

// MockPositionCache is a mock implementation of the PositionCache interface
type MockPositionCache struct {
	mock.Mock
}

func (m *MockPositionCache) GetVehiclePosition(ctx context.Context, vehicleID string) (*models.PositionRecord, error) {
	args := m.Called(ctx, vehicleID)
	rec, _ := args.Get(0).(*models.PositionRecord)
	return rec, args.Error(1)
}

func (m *MockPositionCache) SetVehiclePosition(ctx context.Context, rec models.PositionRecord, ttl time.Duration) error {
	args := m.Called(ctx, rec, ttl)
	return args.Error(0)
}

// MockResolver is a mock implementation of the Resolver interface
type MockResolver struct {
	mock.Mock
}

func (m *MockResolver) ResolveTowers(ctx context.Context, ids []models.TowerIdentity) map[models.TowerIdentity]models.TowerLocation {
	args := m.Called(ctx, ids)
	return args.Get(0).(map[models.TowerIdentity]models.TowerLocation)
}

// MockEstimator is a mock implementation of the Estimator interface
type MockEstimator struct {
	mock.Mock
}

func (m *MockEstimator) Estimate(obs []models.CellObservation, towers positioning.TowerMap) models.PositionEstimate {
	args := m.Called(obs, towers)
	return args.Get(0).(models.PositionEstimate)
}

func kpIdentity(cid int) models.TowerIdentity {
	return models.TowerIdentity{MCC: 404, MNC: 45, LAC: 101, CellID: cid}
}

func intPtr(v int) *int { return &v }

func cell(cid, rssi int, ta *int) models.CellObservation {
	return models.CellObservation{CellID: cid, LAC: 101, MCC: 404, MNC: 45, SignalStrength: rssi, TimingAdvance: ta}
}

func towerAt(id models.TowerIdentity, lat, lon float64, origin models.TowerOrigin) *models.TowerLocation {
	return &models.TowerLocation{
		Identity:    id,
		Latitude:    lat,
		Longitude:   lon,
		RangeMeters: intPtr(1000),
		Origin:      origin,
	}
}
