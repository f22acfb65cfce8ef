package main

import (
	"strings"
	"testing"

	"celltrack-api/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleExport = `radio,mcc,net,area,cell,unit,lon,lat,range,samples,changeable,created,updated,averageSignal
GSM,404,45,101,12345,0,77.4860,28.4744,800,12,1,1459692000,1459692000,0
LTE,404,45,101,12346,0,77.4950,28.4686,0,3,1,1459692000,1459692000,0
GSM,310,260,7,555,0,-122.4,37.7,1200,1,1,1459692000,1459692000,0
GSM,404,45,101,notanumber,0,77.5,28.4,800,1,1,1459692000,1459692000,0
GSM,404,45,101,12347,0,77.5045,128.4,800,1,1,1459692000,1459692000,0
GSM,404,45
`

func TestParseCSV(t *testing.T) {
	tests := []struct {
		name            string
		mcc             int
		expectedCells   []int
		expectedSkipped int
	}{
		{name: "all countries", mcc: 0, expectedCells: []int{12345, 12346, 555}, expectedSkipped: 3},
		{name: "filtered by mcc", mcc: 404, expectedCells: []int{12345, 12346}, expectedSkipped: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			towers, skipped, err := parseCSV(strings.NewReader(sampleExport), tt.mcc)
			require.NoError(t, err)

			cells := make([]int, 0, len(towers))
			for _, tower := range towers {
				cells = append(cells, tower.Identity.CellID)
				assert.Equal(t, models.OriginImported, tower.Origin)
			}
			assert.Equal(t, tt.expectedCells, cells)
			assert.Equal(t, tt.expectedSkipped, skipped)
		})
	}
}

func TestParseCSV_Fields(t *testing.T) {
	towers, _, err := parseCSV(strings.NewReader(sampleExport), 404)
	require.NoError(t, err)
	require.Len(t, towers, 2)

	first := towers[0]
	assert.Equal(t, models.TowerIdentity{MCC: 404, MNC: 45, LAC: 101, CellID: 12345}, first.Identity)
	assert.Equal(t, 28.4744, first.Latitude)
	assert.Equal(t, 77.4860, first.Longitude)
	assert.Equal(t, "GSM", first.Radio)
	require.NotNil(t, first.RangeMeters)
	assert.Equal(t, 800, *first.RangeMeters)

	assert.Nil(t, towers[1].RangeMeters, "zero range is treated as unknown")
}

func TestParseCSV_BadHeader(t *testing.T) {
	_, _, err := parseCSV(strings.NewReader("prefecture,municipality\n"), 0)
	assert.Error(t, err)

	_, _, err = parseCSV(strings.NewReader(""), 0)
	assert.Error(t, err)
}
