package repository

import (
	"context"
	"fmt"

	"celltrack-api/internal/models"

	"github.com/jackc/pgx/v5"
)

// TxBeginner is implemented by *pgx.Conn and *pgxpool.Pool.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

var stagingColumns = []string{"mcc", "mnc", "lac", "cid", "lat", "lon", "range_meters", "radio"}

// ImportTowers bulk loads towers through a staging table and upserts them with origin imported.
// Duplicate identities in the input keep the last occurrence.
func ImportTowers(ctx context.Context, db TxBeginner, towers []models.TowerLocation) (int64, error) {
	var affected int64
	err := pgx.BeginFunc(ctx, db, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			CREATE TEMP TABLE towers_staging (
				seq BIGSERIAL,
				mcc INTEGER,
				mnc INTEGER,
				lac INTEGER,
				cid BIGINT,
				lat DOUBLE PRECISION,
				lon DOUBLE PRECISION,
				range_meters INTEGER,
				radio VARCHAR(16)
			) ON COMMIT DROP
		`)
		if err != nil {
			return fmt.Errorf("repository: failed to create staging table: %w", err)
		}

		_, err = tx.CopyFrom(ctx,
			pgx.Identifier{"towers_staging"},
			stagingColumns,
			pgx.CopyFromSlice(len(towers), func(i int) ([]any, error) {
				t := towers[i]
				id := t.Identity
				return []any{id.MCC, id.MNC, id.LAC, int64(id.CellID), t.Latitude, t.Longitude, t.RangeMeters, t.Radio}, nil
			}),
		)
		if err != nil {
			return fmt.Errorf("repository: failed to copy towers: %w", err)
		}

		tag, err := tx.Exec(ctx, `
			INSERT INTO towers (mcc, mnc, lac, cid, geom, range_meters, radio, origin, updated_at)
			SELECT DISTINCT ON (mcc, mnc, lac, cid)
				mcc, mnc, lac, cid,
				ST_SetSRID(ST_MakePoint(lon, lat), 4326)::geography,
				range_meters, NULLIF(radio, ''), $1, now()
			FROM towers_staging
			ORDER BY mcc, mnc, lac, cid, seq DESC
			ON CONFLICT (mcc, mnc, lac, cid) DO UPDATE SET
				geom = EXCLUDED.geom,
				range_meters = EXCLUDED.range_meters,
				radio = EXCLUDED.radio,
				origin = EXCLUDED.origin,
				updated_at = EXCLUDED.updated_at
		`, string(models.OriginImported))
		if err != nil {
			return fmt.Errorf("repository: failed to upsert staged towers: %w", err)
		}
		affected = tag.RowsAffected()
		return nil
	})
	if err != nil {
		return 0, err
	}
	return affected, nil
}
