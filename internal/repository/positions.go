package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"celltrack-api/internal/models"

	"github.com/jackc/pgx/v5"
)

const positionColumns = `
	id,
	vehicle_id,
	COALESCE(route_id, ''),
	ts,
	COALESCE(ST_Y(geom::geometry), 0) as latitude,
	COALESCE(ST_X(geom::geometry), 0) as longitude,
	accuracy,
	method,
	resolved_towers,
	COALESCE(device_type, ''),
	created_at
`

// SavePosition stores an estimate. Estimates without coordinates are stored with a NULL geometry.
func (r *Repository) SavePosition(ctx context.Context, rec models.PositionRecord) error {
	sql := `
		INSERT INTO positions (id, vehicle_id, route_id, ts, geom, accuracy, method, resolved_towers, device_type, created_at)
		VALUES (
			$1, $2, NULLIF($3, ''), $4,
			CASE WHEN $5::boolean THEN ST_SetSRID(ST_MakePoint($7, $6), 4326) END,
			$8, $9, $10, NULLIF($11, ''), $12
		)
	`

	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err := r.db.Exec(ctx, sql,
		rec.ID, rec.VehicleID, rec.RouteID, rec.Timestamp,
		rec.Estimate.Found(), rec.Estimate.Latitude, rec.Estimate.Longitude,
		rec.Estimate.AccuracyMeters, string(rec.Estimate.Method), rec.ResolvedTowers,
		string(rec.DeviceType), createdAt,
	)
	if err != nil {
		return fmt.Errorf("repository: failed to save position for vehicle %s: %w", rec.VehicleID, err)
	}
	return nil
}

// LatestPosition returns the most recent located estimate of the vehicle, or ErrNotFound
func (r *Repository) LatestPosition(ctx context.Context, vehicleID string) (*models.PositionRecord, error) {
	sql := `SELECT` + positionColumns + `
		FROM positions
		WHERE vehicle_id = $1 AND geom IS NOT NULL
		ORDER BY ts DESC
		LIMIT 1
	`

	rec, err := scanPosition(r.db.QueryRow(ctx, sql, vehicleID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("repository: failed to get latest position: %w", err)
	}
	return rec, nil
}

// RecentPositions returns up to limit estimates of the vehicle, newest first
func (r *Repository) RecentPositions(ctx context.Context, vehicleID string, limit int) ([]models.PositionRecord, error) {
	sql := `SELECT` + positionColumns + `
		FROM positions
		WHERE vehicle_id = $1
		ORDER BY ts DESC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, sql, vehicleID, limit)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to execute position query: %w", err)
	}
	defer rows.Close()

	records := []models.PositionRecord{}
	for rows.Next() {
		rec, err := scanPosition(rows)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan position: %w", err)
		}
		records = append(records, *rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating rows: %w", err)
	}
	return records, nil
}

func scanPosition(row pgx.Row) (*models.PositionRecord, error) {
	var rec models.PositionRecord
	var method, deviceType string
	err := row.Scan(
		&rec.ID,
		&rec.VehicleID,
		&rec.RouteID,
		&rec.Timestamp,
		&rec.Estimate.Latitude,
		&rec.Estimate.Longitude,
		&rec.Estimate.AccuracyMeters,
		&method,
		&rec.ResolvedTowers,
		&deviceType,
		&rec.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	rec.Estimate.Method = models.Method(method)
	rec.DeviceType = models.DeviceType(deviceType)
	return &rec, nil
}
