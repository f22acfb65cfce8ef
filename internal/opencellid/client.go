// Package opencellid looks up tower coordinates in the OpenCellID cell database.
package opencellid

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"celltrack-api/internal/models"
)

// ErrNotFound is returned when OpenCellID has no record of the cell.
var ErrNotFound = errors.New("opencellid: cell not found")

// DefaultRangeMeters is assumed when a record carries no coverage radius.
const DefaultRangeMeters = 1000

// Client queries the OpenCellID cell/get endpoint. It never retries; the caller
// bounds each call with its context.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a client for baseURL (for example https://opencellid.org).
// timeout bounds every request including reading the body.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Enabled reports whether an API key is configured.
func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

type cellResponse struct {
	Lat     *float64 `json:"lat"`
	Lon     *float64 `json:"lon"`
	Range   *int     `json:"range"`
	Samples int      `json:"samples"`
	Radio   string   `json:"radio"`
	Error   string   `json:"error"`
}

// Lookup fetches the tower location for id.
func (c *Client) Lookup(ctx context.Context, id models.TowerIdentity) (*models.TowerLocation, error) {
	q := url.Values{}
	q.Set("key", c.apiKey)
	q.Set("mcc", strconv.Itoa(id.MCC))
	q.Set("mnc", strconv.Itoa(id.MNC))
	q.Set("lac", strconv.Itoa(id.LAC))
	q.Set("cellid", strconv.Itoa(id.CellID))
	q.Set("format", "json")
	endpoint := c.baseURL + "/cell/get?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("opencellid: failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("opencellid: failed to query cell %s: %w", id, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("opencellid: HTTP %d for cell %s", resp.StatusCode, id)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("opencellid: failed to read response: %w", err)
	}

	var cell cellResponse
	if err := json.Unmarshal(body, &cell); err != nil {
		return nil, fmt.Errorf("opencellid: failed to decode response: %w", err)
	}
	if cell.Error != "" || cell.Lat == nil || cell.Lon == nil {
		return nil, ErrNotFound
	}

	rng := DefaultRangeMeters
	if cell.Range != nil {
		rng = *cell.Range
	}
	return &models.TowerLocation{
		Identity:    id,
		Latitude:    *cell.Lat,
		Longitude:   *cell.Lon,
		RangeMeters: &rng,
		Radio:       cell.Radio,
		Source:      models.SourceExternalService,
		Origin:      models.OriginExternalService,
		UpdatedAt:   time.Now().UTC(),
	}, nil
}
