package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"celltrack-api/internal/config"
	"celltrack-api/internal/models"
	"celltrack-api/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// Column positions in an OpenCellID export:
// radio,mcc,net,area,cell,unit,lon,lat,range,samples,changeable,created,updated,averageSignal
const (
	colRadio = 0
	colMCC   = 1
	colNet   = 2
	colArea  = 3
	colCell  = 4
	colLon   = 6
	colLat   = 7
	colRange = 8
	minCols  = 9
)

func main() {
	file := flag.String("file", "", "Path to the OpenCellID CSV file to import")
	mcc := flag.Int("mcc", 0, "Only import towers with this mobile country code (0 imports all)")
	flag.Parse()

	if *file == "" {
		fmt.Println("Error: --file flag is required")
		os.Exit(1)
	}

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	log.Info().Str("file", *file).Int("mcc", *mcc).Msg("starting import")

	f, err := os.Open(*file)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot open file")
	}
	defer f.Close()

	towers, skipped, err := parseCSV(f, *mcc)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot parse csv")
	}
	log.Info().Int("parsed", len(towers)).Int("skipped", skipped).Msg("parsed towers")

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, cfg.DBSource)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot connect to db")
	}
	defer conn.Close(ctx)

	if err := repository.NewRepository(conn).EnsureSchema(ctx); err != nil {
		log.Fatal().Err(err).Msg("cannot prepare schema")
	}

	n, err := repository.ImportTowers(ctx, conn, towers)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot import towers")
	}

	log.Info().Int64("upserted", n).Msg("import finished")
}

// parseCSV reads an OpenCellID export. Rows that cannot be parsed or fall outside
// the mcc filter are counted as skipped.
func parseCSV(r io.Reader, mccFilter int) ([]models.TowerLocation, int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read header: %w", err)
	}
	if len(header) < minCols || strings.TrimSpace(header[colRadio]) != "radio" {
		return nil, 0, fmt.Errorf("unexpected header: %s", strings.Join(header, ","))
	}

	var towers []models.TowerLocation
	skipped := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, skipped, fmt.Errorf("failed to read record: %w", err)
		}

		tower, ok := parseRecord(record)
		if !ok || (mccFilter != 0 && tower.Identity.MCC != mccFilter) {
			skipped++
			continue
		}
		towers = append(towers, tower)
	}

	return towers, skipped, nil
}

func parseRecord(record []string) (models.TowerLocation, bool) {
	if len(record) < minCols {
		return models.TowerLocation{}, false
	}

	ints := make([]int, 0, 4)
	for _, col := range []int{colMCC, colNet, colArea, colCell} {
		v, err := strconv.Atoi(strings.TrimSpace(record[col]))
		if err != nil {
			return models.TowerLocation{}, false
		}
		ints = append(ints, v)
	}
	id := models.TowerIdentity{MCC: ints[0], MNC: ints[1], LAC: ints[2], CellID: ints[3]}
	if id.MCC < 1 || id.MCC > 999 || id.MNC < 0 || id.LAC < 0 || id.CellID <= 0 {
		return models.TowerLocation{}, false
	}

	lon, err := strconv.ParseFloat(strings.TrimSpace(record[colLon]), 64)
	if err != nil || lon < -180 || lon > 180 {
		return models.TowerLocation{}, false
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(record[colLat]), 64)
	if err != nil || lat < -90 || lat > 90 {
		return models.TowerLocation{}, false
	}

	tower := models.TowerLocation{
		Identity:  id,
		Latitude:  lat,
		Longitude: lon,
		Radio:     strings.TrimSpace(record[colRadio]),
		Origin:    models.OriginImported,
	}
	if rng, err := strconv.Atoi(strings.TrimSpace(record[colRange])); err == nil && rng > 0 {
		tower.RangeMeters = &rng
	}
	return tower, true
}
