// Package nominatim geocodes addresses through the OSM Nominatim API.
//
// Nominatim is free but strictly rate limited (absolute maximum one
// request per second) and requires an identifying User-Agent. The client
// shares one IntervalGate across all lookups so retries and concurrent
// searches never exceed the policy.
package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/koukeneko/wazai/internal/domain"
	"github.com/koukeneko/wazai/internal/geocode"
	"github.com/koukeneko/wazai/internal/observability"
)

const userAgent = "wazai-map/1.0 (+https://github.com/koukeneko/wazai)"

// retrySuffixes are appended one at a time when the bare address misses.
// Venue strings often omit the prefecture, and Nominatim resolves
// "桜丘町26-1 東京" where "桜丘町26-1" returns nothing.
var retrySuffixes = []string{" 東京", " 日本"}

// Client implements geocode.Geocoder against the Nominatim search API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	gate       *geocode.IntervalGate
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewClient creates a Nominatim client. The gate must be shared with any
// other consumer of the same Nominatim instance.
func NewClient(timeout time.Duration, gate *geocode.IntervalGate, logger *slog.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    "https://nominatim.openstreetmap.org/search",
		gate:       gate,
		logger:     logger,
		metrics:    metrics,
	}
}

// Name implements geocode.Geocoder.
func (c *Client) Name() string { return "nominatim" }

// Geocode resolves an address, retrying with location suffixes when the
// bare form has no match. Every attempt waits out the shared rate gate.
func (c *Client) Geocode(ctx context.Context, address string) (geocode.Result, error) {
	queries := make([]string, 0, 1+len(retrySuffixes))
	queries = append(queries, address)
	for _, suffix := range retrySuffixes {
		queries = append(queries, address+suffix)
	}

	for _, q := range queries {
		result, err := c.search(ctx, q)
		if err != nil {
			return geocode.Result{}, err
		}
		if result.Found {
			return result, nil
		}
	}
	return geocode.Result{Found: false}, nil
}

func (c *Client) search(ctx context.Context, query string) (geocode.Result, error) {
	waited, err := c.gate.Wait(ctx)
	if err != nil {
		return geocode.Result{}, fmt.Errorf("rate gate: %w", err)
	}
	if waited > 0 {
		c.metrics.RateLimitWait.Observe(waited.Seconds())
		c.logger.Debug("waited for nominatim rate gate", "waited", waited)
	}

	params := url.Values{
		"q":            {query},
		"format":       {"json"},
		"limit":        {"1"},
		"countrycodes": {"jp"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return geocode.Result{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return geocode.Result{}, fmt.Errorf("nominatim request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return geocode.Result{}, fmt.Errorf("nominatim API error: status %d: %s", resp.StatusCode, body)
	}

	var places []place
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return geocode.Result{}, fmt.Errorf("decode response: %w", err)
	}
	if len(places) == 0 {
		return geocode.Result{Found: false}, nil
	}

	p := places[0]
	lat, err := strconv.ParseFloat(p.Lat, 64)
	if err != nil {
		return geocode.Result{}, fmt.Errorf("parse lat %q: %w", p.Lat, err)
	}
	lon, err := strconv.ParseFloat(p.Lon, 64)
	if err != nil {
		return geocode.Result{}, fmt.Errorf("parse lon %q: %w", p.Lon, err)
	}

	return geocode.Result{
		Coordinates:      domain.Coordinates{Latitude: lat, Longitude: lon},
		FormattedAddress: p.DisplayName,
		Found:            true,
	}, nil
}

// Nominatim API response types. Coordinates come back as strings.

type place struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}
