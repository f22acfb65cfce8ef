package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"celltrack-api/internal/cache"
	"celltrack-api/internal/metrics"
	"celltrack-api/internal/models"
	"celltrack-api/internal/positioning"
	"celltrack-api/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	// ErrNoPosition is returned when a vehicle has no known position.
	ErrNoPosition = errors.New("service: no position for vehicle")
	// ErrInvalidReport is returned for reports missing a vehicle or cells.
	ErrInvalidReport = errors.New("service: invalid position report")
)

const (
	DefaultPositionCacheTTL = 5 * time.Minute
	DefaultHistoryLimit     = 100
	MaxHistoryLimit         = 1000

	// DemoModeAccuracy is reported for positions supplied by the reporter.
	DemoModeAccuracy = 50.0
)

// PositionStore persists position history.
type PositionStore interface {
	SavePosition(ctx context.Context, rec models.PositionRecord) error
	LatestPosition(ctx context.Context, vehicleID string) (*models.PositionRecord, error)
	RecentPositions(ctx context.Context, vehicleID string, limit int) ([]models.PositionRecord, error)
}

// PositionCache holds the last known position per vehicle.
type PositionCache interface {
	GetVehiclePosition(ctx context.Context, vehicleID string) (*models.PositionRecord, error)
	SetVehiclePosition(ctx context.Context, rec models.PositionRecord, ttl time.Duration) error
}

// Resolver resolves a batch of tower identities.
type Resolver interface {
	ResolveTowers(ctx context.Context, ids []models.TowerIdentity) map[models.TowerIdentity]models.TowerLocation
}

// Estimator fuses resolved observations into a position.
type Estimator interface {
	Estimate(obs []models.CellObservation, towers positioning.TowerMap) models.PositionEstimate
}

// PositionService runs reports through resolution and estimation and records the outcome.
type PositionService struct {
	resolver  Resolver
	estimator Estimator
	store     PositionStore
	cache     PositionCache
	metrics   *metrics.Collector
	logger    zerolog.Logger
	validate  *validator.Validate
	cacheTTL  time.Duration
	now       func() time.Time
}

// PositionServiceConfig wires a PositionService. Store and Cache may be nil for stateless estimation.
type PositionServiceConfig struct {
	Resolver  Resolver
	Estimator Estimator
	Store     PositionStore
	Cache     PositionCache
	Metrics   *metrics.Collector
	Logger    zerolog.Logger
	CacheTTL  time.Duration
}

func NewPositionService(cfg PositionServiceConfig) *PositionService {
	if cfg.Estimator == nil {
		cfg.Estimator = positioning.NewEngine()
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultPositionCacheTTL
	}
	return &PositionService{
		resolver:  cfg.Resolver,
		estimator: cfg.Estimator,
		store:     cfg.Store,
		cache:     cfg.Cache,
		metrics:   cfg.Metrics,
		logger:    cfg.Logger,
		validate:  validator.New(),
		cacheTTL:  cfg.CacheTTL,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// EstimatePosition resolves the observed towers and returns the fused estimate.
// Malformed observations are skipped. An estimate with method none is a valid result.
func (s *PositionService) EstimatePosition(ctx context.Context, obs []models.CellObservation) (models.PositionEstimate, error) {
	est, _ := s.estimate(ctx, obs)
	s.metrics.ObserveEstimate(est.Method)
	return est, nil
}

// ResolveTowers exposes the resolver for diagnostics.
func (s *PositionService) ResolveTowers(ctx context.Context, ids []models.TowerIdentity) map[models.TowerIdentity]models.TowerLocation {
	return s.resolver.ResolveTowers(ctx, ids)
}

// ProcessReport estimates the position for report, stores it in history and caches it as the vehicle's current position.
func (s *PositionService) ProcessReport(ctx context.Context, report models.PositionReport) (*models.PositionRecord, error) {
	if report.VehicleID == "" || len(report.Cells) == 0 {
		return nil, ErrInvalidReport
	}

	est, resolved := s.estimate(ctx, report.Cells)
	if !est.Found() {
		if demo, ok := demoEstimate(report.Position); ok {
			est = demo
		}
	}
	s.metrics.ObserveEstimate(est.Method)

	now := s.now()
	rec := models.PositionRecord{
		ID:             uuid.New(),
		VehicleID:      report.VehicleID,
		RouteID:        report.RouteID,
		Timestamp:      report.Timestamp,
		Estimate:       est,
		ResolvedTowers: resolved,
		DeviceType:     report.DeviceType,
		CreatedAt:      now,
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = now
	}
	if rec.DeviceType == "" {
		rec.DeviceType = models.DeviceMock
	}

	if s.store != nil {
		if err := s.store.SavePosition(ctx, rec); err != nil {
			return nil, fmt.Errorf("service: failed to save position: %w", err)
		}
	}

	if s.cache != nil && est.Found() {
		if err := s.cache.SetVehiclePosition(ctx, rec, s.cacheTTL); err != nil {
			s.logger.Warn().Err(err).Str("vehicle_id", rec.VehicleID).Msg("failed to cache current position")
		}
	}

	s.logger.Info().
		Str("vehicle_id", rec.VehicleID).
		Str("method", string(est.Method)).
		Float64("accuracy", est.AccuracyMeters).
		Int("resolved_towers", resolved).
		Msg("position processed")

	return &rec, nil
}

// CurrentPosition returns the last known position of the vehicle, preferring the cache.
func (s *PositionService) CurrentPosition(ctx context.Context, vehicleID string) (*models.PositionRecord, error) {
	if s.cache != nil {
		rec, err := s.cache.GetVehiclePosition(ctx, vehicleID)
		switch {
		case err == nil:
			return rec, nil
		case !errors.Is(err, cache.ErrMiss):
			s.logger.Warn().Err(err).Str("vehicle_id", vehicleID).Msg("position cache read failed")
		}
	}

	if s.store == nil {
		return nil, ErrNoPosition
	}
	rec, err := s.store.LatestPosition(ctx, vehicleID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoPosition
		}
		return nil, fmt.Errorf("service: failed to load latest position: %w", err)
	}
	return rec, nil
}

// RecentPositions returns up to limit history rows for the vehicle, newest first.
func (s *PositionService) RecentPositions(ctx context.Context, vehicleID string, limit int) ([]models.PositionRecord, error) {
	if vehicleID == "" {
		return nil, fmt.Errorf("service: vehicle id cannot be empty")
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}
	if s.store == nil {
		return []models.PositionRecord{}, nil
	}

	recs, err := s.store.RecentPositions(ctx, vehicleID, limit)
	if err != nil {
		return nil, fmt.Errorf("service: failed to load positions: %w", err)
	}
	return recs, nil
}

func (s *PositionService) estimate(ctx context.Context, obs []models.CellObservation) (models.PositionEstimate, int) {
	valid := make([]models.CellObservation, 0, len(obs))
	ids := make([]models.TowerIdentity, 0, len(obs))
	for _, o := range obs {
		if err := s.validate.Struct(o); err != nil {
			s.logger.Warn().Err(err).Str("tower", o.Identity().String()).Msg("skipping malformed cell observation")
			continue
		}
		valid = append(valid, o)
		ids = append(ids, o.Identity())
	}
	s.metrics.ObserveSkippedCells(len(obs) - len(valid))

	if len(valid) == 0 {
		return models.NoEstimate(), 0
	}

	located := s.resolver.ResolveTowers(ctx, ids)
	towers := make(positioning.TowerMap, len(located))
	for id, loc := range located {
		towers[id] = loc.Point()
	}

	return s.estimator.Estimate(valid, towers), len(towers)
}

// demoEstimate turns a reporter-supplied coordinate into an estimate.
func demoEstimate(p *models.Point) (models.PositionEstimate, bool) {
	if p == nil || !validCoordinate(p.Lat, p.Lon) {
		return models.PositionEstimate{}, false
	}
	return models.PositionEstimate{
		Latitude:       p.Lat,
		Longitude:      p.Lon,
		AccuracyMeters: DemoModeAccuracy,
		Method:         models.MethodDemoMode,
	}, true
}

func validCoordinate(lat, lon float64) bool {
	for _, v := range []float64{lat, lon} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}
