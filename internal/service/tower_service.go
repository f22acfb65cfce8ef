package service

import (
	"context"
	"fmt"

	"celltrack-api/internal/models"
)

const (
	DefaultTowerListLimit = 100
	MaxTowerListLimit     = 1000
	DefaultNearbyRadius   = 2000
	MaxNearbyRadius       = 50000
)

// TowerCatalog lists known towers from the durable store.
type TowerCatalog interface {
	ListTowers(ctx context.Context, limit int) ([]models.TowerLocation, error)
	FindNearbyTowers(ctx context.Context, lat, lon float64, radiusMeters int) ([]models.TowerLocation, error)
}

// TowerService answers tower browsing and diagnostic queries.
type TowerService struct {
	catalog  TowerCatalog
	resolver Resolver
}

func NewTowerService(catalog TowerCatalog, resolver Resolver) *TowerService {
	return &TowerService{catalog: catalog, resolver: resolver}
}

// ListTowers returns up to limit stored towers.
func (s *TowerService) ListTowers(ctx context.Context, limit int) ([]models.TowerLocation, error) {
	if limit <= 0 {
		limit = DefaultTowerListLimit
	}
	if limit > MaxTowerListLimit {
		limit = MaxTowerListLimit
	}

	towers, err := s.catalog.ListTowers(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list towers: %w", err)
	}
	return towers, nil
}

// NearbyTowers returns stored towers within radiusMeters of the coordinate, nearest first.
func (s *TowerService) NearbyTowers(ctx context.Context, lat, lon float64, radiusMeters int) ([]models.TowerLocation, error) {
	if !validCoordinate(lat, lon) {
		return nil, fmt.Errorf("service: coordinates must be finite with latitude in [-90, 90] and longitude in [-180, 180]")
	}
	if radiusMeters <= 0 {
		radiusMeters = DefaultNearbyRadius
	}
	if radiusMeters > MaxNearbyRadius {
		radiusMeters = MaxNearbyRadius
	}

	towers, err := s.catalog.FindNearbyTowers(ctx, lat, lon, radiusMeters)
	if err != nil {
		return nil, fmt.Errorf("service: failed to find nearby towers: %w", err)
	}
	return towers, nil
}

// ResolveTowers runs ids through the resolver chain.
func (s *TowerService) ResolveTowers(ctx context.Context, ids []models.TowerIdentity) map[models.TowerIdentity]models.TowerLocation {
	return s.resolver.ResolveTowers(ctx, ids)
}
