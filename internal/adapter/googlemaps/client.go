// Package googlemaps geocodes addresses through the Google Maps
// Geocoding API. It is the highest-accuracy strategy in the chain and is
// only wired in when an API key is configured.
package googlemaps

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/koukeneko/wazai/internal/domain"
	"github.com/koukeneko/wazai/internal/geocode"
)

// Client implements geocode.Geocoder against the Google Maps Geocoding API.
type Client struct {
	key        string
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// NewClient creates a Google Maps geocoding client.
func NewClient(key string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		key:        key,
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    "https://maps.googleapis.com/maps/api/geocode/json",
		logger:     logger,
	}
}

// Name implements geocode.Geocoder.
func (c *Client) Name() string { return "googlemaps" }

// Geocode resolves an address. The region and language hints bias the
// global index toward Japanese results; the caller still verifies the
// outcome against the service area.
func (c *Client) Geocode(ctx context.Context, address string) (geocode.Result, error) {
	params := url.Values{
		"address":  {address},
		"key":      {c.key},
		"language": {"ja"},
		"region":   {"jp"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return geocode.Result{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return geocode.Result{}, fmt.Errorf("google maps request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return geocode.Result{}, fmt.Errorf("google maps API error: status %d: %s", resp.StatusCode, body)
	}

	var gr response
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return geocode.Result{}, fmt.Errorf("decode response: %w", err)
	}

	switch gr.Status {
	case "OK":
	case "ZERO_RESULTS":
		return geocode.Result{Found: false}, nil
	default:
		// OVER_QUERY_LIMIT, REQUEST_DENIED, INVALID_REQUEST and friends
		// are upstream failures, not misses.
		return geocode.Result{}, fmt.Errorf("google maps status %s: %s", gr.Status, gr.ErrorMessage)
	}

	if len(gr.Results) == 0 {
		return geocode.Result{Found: false}, nil
	}

	r := gr.Results[0]
	return geocode.Result{
		Coordinates: domain.Coordinates{
			Latitude:  r.Geometry.Location.Lat,
			Longitude: r.Geometry.Location.Lng,
		},
		FormattedAddress: r.FormattedAddress,
		Found:            true,
	}, nil
}

// Google Maps Geocoding API response types.

type response struct {
	Status       string   `json:"status"`
	ErrorMessage string   `json:"error_message"`
	Results      []result `json:"results"`
}

type result struct {
	FormattedAddress string   `json:"formatted_address"`
	Geometry         geometry `json:"geometry"`
}

type geometry struct {
	Location location `json:"location"`
}

type location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}
