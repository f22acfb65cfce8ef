package repository

import (
	"context"
	"errors"
	"fmt"

	"celltrack-api/internal/models"

	"github.com/jackc/pgx/v5"
)

const towerColumns = `
	mcc,
	mnc,
	lac,
	cid,
	ST_Y(geom::geometry) as latitude,
	ST_X(geom::geometry) as longitude,
	range_meters,
	COALESCE(radio, ''),
	origin,
	updated_at
`

// GetTower returns the stored tower with the exact identity, or ErrNotFound
func (r *Repository) GetTower(ctx context.Context, id models.TowerIdentity) (*models.TowerLocation, error) {
	sql := `SELECT` + towerColumns + `
		FROM towers
		WHERE mcc = $1 AND mnc = $2 AND lac = $3 AND cid = $4
	`

	tower, err := scanTower(r.db.QueryRow(ctx, sql, id.MCC, id.MNC, id.LAC, id.CellID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("repository: failed to get tower %s: %w", id, err)
	}
	tower.Source = models.SourcePersistentStore
	return tower, nil
}

// UpsertTower inserts the tower or replaces the stored coordinate for its identity
func (r *Repository) UpsertTower(ctx context.Context, tower models.TowerLocation) error {
	sql := `
		INSERT INTO towers (mcc, mnc, lac, cid, geom, range_meters, radio, origin, updated_at)
		VALUES ($1, $2, $3, $4, ST_SetSRID(ST_MakePoint($6, $5), 4326), $7, NULLIF($8, ''), $9, now())
		ON CONFLICT (mcc, mnc, lac, cid) DO UPDATE SET
			geom = EXCLUDED.geom,
			range_meters = EXCLUDED.range_meters,
			radio = EXCLUDED.radio,
			origin = EXCLUDED.origin,
			updated_at = EXCLUDED.updated_at
	`

	id := tower.Identity
	_, err := r.db.Exec(ctx, sql,
		id.MCC, id.MNC, id.LAC, id.CellID,
		tower.Latitude, tower.Longitude,
		tower.RangeMeters, tower.Radio, string(tower.Origin),
	)
	if err != nil {
		return fmt.Errorf("repository: failed to upsert tower %s: %w", id, err)
	}
	return nil
}

// ListTowers returns up to limit stored towers
func (r *Repository) ListTowers(ctx context.Context, limit int) ([]models.TowerLocation, error) {
	sql := `SELECT` + towerColumns + `
		FROM towers
		ORDER BY mcc, mnc, lac, cid
		LIMIT $1
	`

	rows, err := r.db.Query(ctx, sql, limit)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to execute tower list query: %w", err)
	}
	return collectTowers(rows)
}

// FindNearbyTowers performs a spatial query for towers within radiusMeters of the coordinates, nearest first
func (r *Repository) FindNearbyTowers(ctx context.Context, lat, lon float64, radiusMeters int) ([]models.TowerLocation, error) {
	sql := `SELECT` + towerColumns + `
		FROM towers
		WHERE ST_DWithin(geom, ST_SetSRID(ST_MakePoint($2, $1), 4326)::geography, $3)
		ORDER BY geom <-> ST_SetSRID(ST_MakePoint($2, $1), 4326)::geography
		LIMIT 50
	`

	rows, err := r.db.Query(ctx, sql, lat, lon, radiusMeters)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to execute spatial query: %w", err)
	}
	return collectTowers(rows)
}

func collectTowers(rows pgx.Rows) ([]models.TowerLocation, error) {
	defer rows.Close()

	towers := []models.TowerLocation{}
	for rows.Next() {
		tower, err := scanTower(rows)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan tower: %w", err)
		}
		tower.Source = models.SourcePersistentStore
		towers = append(towers, *tower)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating rows: %w", err)
	}
	return towers, nil
}

func scanTower(row pgx.Row) (*models.TowerLocation, error) {
	var t models.TowerLocation
	var origin string
	err := row.Scan(
		&t.Identity.MCC,
		&t.Identity.MNC,
		&t.Identity.LAC,
		&t.Identity.CellID,
		&t.Latitude,
		&t.Longitude,
		&t.RangeMeters,
		&t.Radio,
		&origin,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	t.Origin = models.TowerOrigin(origin)
	return &t, nil
}
