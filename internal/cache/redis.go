// Package cache is the shared key-value tier in front of the tower store. It also
// keeps each vehicle's last known position for the transport layer; the two use
// separate key spaces and separate TTLs.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"celltrack-api/internal/models"

	"github.com/redis/go-redis/v9"
)

// ErrMiss is returned when a key is absent or expired.
var ErrMiss = errors.New("cache: miss")

// RedisCache stores JSON payloads in Redis.
type RedisCache struct {
	client redis.UniversalClient
}

// NewRedisCache wraps an existing client.
func NewRedisCache(client redis.UniversalClient) *RedisCache {
	return &RedisCache{client: client}
}

type towerPayload struct {
	Lat         float64            `json:"lat"`
	Lon         float64            `json:"lon"`
	RangeMeters *int               `json:"range,omitempty"`
	Radio       string             `json:"radio,omitempty"`
	Origin      models.TowerOrigin `json:"origin"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// GetTower reads a cached tower location.
func (c *RedisCache) GetTower(ctx context.Context, id models.TowerIdentity) (*models.TowerLocation, error) {
	var p towerPayload
	if err := c.getJSON(ctx, id.CacheKey(), &p); err != nil {
		return nil, err
	}
	return &models.TowerLocation{
		Identity:    id,
		Latitude:    p.Lat,
		Longitude:   p.Lon,
		RangeMeters: p.RangeMeters,
		Radio:       p.Radio,
		Source:      models.SourceFastCache,
		Origin:      p.Origin,
		UpdatedAt:   p.UpdatedAt,
	}, nil
}

// SetTower caches a tower location for ttl.
func (c *RedisCache) SetTower(ctx context.Context, tower models.TowerLocation, ttl time.Duration) error {
	p := towerPayload{
		Lat:         tower.Latitude,
		Lon:         tower.Longitude,
		RangeMeters: tower.RangeMeters,
		Radio:       tower.Radio,
		Origin:      tower.Origin,
		UpdatedAt:   tower.UpdatedAt,
	}
	return c.setJSON(ctx, tower.Identity.CacheKey(), p, ttl)
}

// VehiclePositionKey is the key of a vehicle's last known position.
func VehiclePositionKey(vehicleID string) string {
	return "vehicle:position:" + vehicleID
}

// GetVehiclePosition reads a vehicle's last known position.
func (c *RedisCache) GetVehiclePosition(ctx context.Context, vehicleID string) (*models.PositionRecord, error) {
	var rec models.PositionRecord
	if err := c.getJSON(ctx, VehiclePositionKey(vehicleID), &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// SetVehiclePosition caches a vehicle's last known position for ttl.
func (c *RedisCache) SetVehiclePosition(ctx context.Context, rec models.PositionRecord, ttl time.Duration) error {
	return c.setJSON(ctx, VehiclePositionKey(rec.VehicleID), rec, ttl)
}

// Ping checks the Redis connection.
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) getJSON(ctx context.Context, key string, dst any) error {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrMiss
		}
		return fmt.Errorf("cache: failed to get %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("cache: failed to decode %s: %w", key, err)
	}
	return nil
}

func (c *RedisCache) setJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("cache: failed to encode %s: %w", key, err)
	}
	if err := c.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("cache: failed to set %s: %w", key, err)
	}
	return nil
}
