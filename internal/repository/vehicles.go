package repository

import (
	"context"
	"errors"
	"fmt"

	"celltrack-api/internal/models"

	"github.com/jackc/pgx/v5"
)

const vehicleColumns = `
	device_id,
	COALESCE(route_id, ''),
	status,
	last_update,
	created_at
`

// UpsertVehicle registers the vehicle or replaces its route, status and last update.
// It reports whether a new row was created.
func (r *Repository) UpsertVehicle(ctx context.Context, v models.Vehicle) (*models.Vehicle, bool, error) {
	sql := `
		INSERT INTO vehicles (device_id, route_id, status, last_update, created_at)
		VALUES ($1, NULLIF($2, ''), $3, $4, now())
		ON CONFLICT (device_id) DO UPDATE SET
			route_id = EXCLUDED.route_id,
			status = EXCLUDED.status,
			last_update = EXCLUDED.last_update
		RETURNING` + vehicleColumns + `, (xmax = 0) AS inserted
	`

	var out models.Vehicle
	var inserted bool
	err := r.db.QueryRow(ctx, sql, v.DeviceID, v.RouteID, v.Status, v.LastUpdate).Scan(
		&out.DeviceID,
		&out.RouteID,
		&out.Status,
		&out.LastUpdate,
		&out.CreatedAt,
		&inserted,
	)
	if err != nil {
		return nil, false, fmt.Errorf("repository: failed to upsert vehicle %s: %w", v.DeviceID, err)
	}
	return &out, inserted, nil
}

// GetVehicle returns the registered vehicle, or ErrNotFound
func (r *Repository) GetVehicle(ctx context.Context, deviceID string) (*models.Vehicle, error) {
	sql := `SELECT` + vehicleColumns + `
		FROM vehicles
		WHERE device_id = $1
	`

	v, err := scanVehicle(r.db.QueryRow(ctx, sql, deviceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("repository: failed to get vehicle %s: %w", deviceID, err)
	}
	return v, nil
}

// ListVehicles returns up to limit registered vehicles ordered by device id
func (r *Repository) ListVehicles(ctx context.Context, limit int) ([]models.Vehicle, error) {
	sql := `SELECT` + vehicleColumns + `
		FROM vehicles
		ORDER BY device_id
		LIMIT $1
	`

	rows, err := r.db.Query(ctx, sql, limit)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to execute vehicle list query: %w", err)
	}
	defer rows.Close()

	vehicles := []models.Vehicle{}
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan vehicle: %w", err)
		}
		vehicles = append(vehicles, *v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating rows: %w", err)
	}
	return vehicles, nil
}

func scanVehicle(row pgx.Row) (*models.Vehicle, error) {
	var v models.Vehicle
	if err := row.Scan(&v.DeviceID, &v.RouteID, &v.Status, &v.LastUpdate, &v.CreatedAt); err != nil {
		return nil, err
	}
	return &v, nil
}
