// Package positionstack geocodes addresses through the PositionStack
// forward-geocoding API, the secondary paid strategy. PositionStack's
// Japanese coverage degrades sharply when the query still carries a
// building name or floor, so the client strips those before sending.
package positionstack

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

// Client implements geocode.Geocoder against the PositionStack API.
type Client struct {
	key        string
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// NewClient creates a PositionStack client.
func NewClient(key string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		key:        key,
		httpClient: &http.Client{Timeout: timeout},
		// The free tier is HTTP-only; paid plans accept HTTPS.
		baseURL: "http://api.positionstack.com/v1/forward",
		logger:  logger,
	}
}

// Name implements geocode.Geocoder.
func (c *Client) Name() string { return "positionstack" }

// Geocode resolves an address after stripping building and floor segments.
func (c *Client) Geocode(ctx context.Context, address string) (geocode.Result, error) {
	query := geocode.StripBuilding(address)
	if query == "" {
		return geocode.Result{Found: false}, nil
	}

	params := url.Values{
		"access_key": {c.key},
		"query":      {query},
		"country":    {"JP"},
		"limit":      {"1"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return geocode.Result{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return geocode.Result{}, fmt.Errorf("positionstack request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return geocode.Result{}, fmt.Errorf("positionstack API error: status %d: %s", resp.StatusCode, body)
	}

	var pr response
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return geocode.Result{}, fmt.Errorf("decode response: %w", err)
	}
	if pr.Error.Code != "" {
		return geocode.Result{}, fmt.Errorf("positionstack error %s: %s", pr.Error.Code, pr.Error.Message)
	}
	if len(pr.Data) == 0 {
		return geocode.Result{Found: false}, nil
	}

	d := pr.Data[0]
	if d.Latitude == 0 && d.Longitude == 0 {
		// PositionStack pads result arrays with empty objects.
		return geocode.Result{Found: false}, nil
	}

	return geocode.Result{
		Coordinates:      domain.Coordinates{Latitude: d.Latitude, Longitude: d.Longitude},
		FormattedAddress: d.Label,
		Found:            true,
	}, nil
}

// PositionStack API response types.

type response struct {
	Data  []entry  `json:"data"`
	Error apiError `json:"error"`
}

type entry struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Label     string  `json:"label"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
