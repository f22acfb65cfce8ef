package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("repository: not found")

// DB is the subset of pgxpool.Pool used by the repository.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

var _ DB = (*pgxpool.Pool)(nil)

// Repository implements tower, position and vehicle storage on PostgreSQL with PostGIS
type Repository struct {
	db DB
}

// NewRepository creates a new PostgreSQL repository
func NewRepository(db DB) *Repository {
	return &Repository{db: db}
}

// Schema creates the tables and indexes used by the service.
const Schema = `
	CREATE EXTENSION IF NOT EXISTS postgis;

	CREATE TABLE IF NOT EXISTS towers (
		mcc INTEGER NOT NULL,
		mnc INTEGER NOT NULL,
		lac INTEGER NOT NULL,
		cid BIGINT NOT NULL,
		geom GEOGRAPHY(POINT, 4326) NOT NULL,
		range_meters INTEGER,
		radio VARCHAR(16),
		origin VARCHAR(32) NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (mcc, mnc, lac, cid)
	);
	CREATE INDEX IF NOT EXISTS towers_geom_idx ON towers USING GIST (geom);

	CREATE TABLE IF NOT EXISTS positions (
		id UUID PRIMARY KEY,
		vehicle_id VARCHAR(255) NOT NULL,
		route_id VARCHAR(255),
		ts TIMESTAMPTZ NOT NULL,
		geom GEOGRAPHY(POINT, 4326),
		accuracy DOUBLE PRECISION NOT NULL,
		method VARCHAR(32) NOT NULL,
		resolved_towers INTEGER NOT NULL,
		device_type VARCHAR(32),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	CREATE INDEX IF NOT EXISTS positions_vehicle_ts_idx ON positions (vehicle_id, ts DESC);

	CREATE TABLE IF NOT EXISTS vehicles (
		device_id VARCHAR(255) PRIMARY KEY,
		route_id VARCHAR(255),
		status VARCHAR(32) NOT NULL,
		last_update TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
`

// EnsureSchema creates missing tables and indexes
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("repository: failed to create schema: %w", err)
	}
	return nil
}

// Ping checks the database connection
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}
