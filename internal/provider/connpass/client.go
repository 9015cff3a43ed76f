// Package connpass fetches tech events from the Connpass v2 API.
package connpass

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
)

const resultCount = 10

// Client implements the provider contract for Connpass. The v2 API does
// keyword matching server side, so no local filtering is needed.
type Client struct {
	token      string
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// NewClient creates a Connpass provider. The API requires a bearer token.
func NewClient(token string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    "https://connpass.com/api/v2",
		logger:     logger,
	}
}

// Name implements provider.Provider.
func (c *Client) Name() string { return "Connpass" }

// Search implements provider.Provider.
func (c *Client) Search(ctx context.Context, keyword string) ([]domain.MapItem, error) {
	params := url.Values{
		"keyword": {keyword},
		"count":   {strconv.Itoa(resultCount)},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/event/?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("connpass request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("connpass API error: status %d: %s", resp.StatusCode, body)
	}

	var cr response
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	items := make([]domain.MapItem, 0, len(cr.Events))
	for _, ev := range cr.Events {
		items = append(items, c.transform(ev))
	}
	return items, nil
}

func (c *Client) transform(ev event) domain.Event {
	return domain.Event{
		Item: domain.Item{
			ID:          fmt.Sprintf("connpass-%d", ev.EventID),
			Title:       ev.Title,
			Description: description(ev),
			URL:         ev.EventURL,
			// Connpass venue data is too freeform to geocode reliably;
			// events cluster around Tokyo, which is the map default anyway.
			Coordinates: domain.Tokyo(),
			Address:     ev.Address,
			Source:      domain.SourceConnpass,
			Country:     domain.CountryJapan,
		},
		Start:     parseTime(ev.StartedAt),
		EventType: domain.EventTechMeetup,
	}
}

// description prefers the event's catch copy, falling back to a
// "place - address" line when the organizer wrote none.
func description(ev event) string {
	if ev.Catch != "" {
		return ev.Catch
	}
	switch {
	case ev.Place != "" && ev.Address != "":
		return ev.Place + " - " + ev.Address
	case ev.Place != "":
		return ev.Place
	default:
		return ev.Address
	}
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Connpass v2 API response types.

type response struct {
	Events []event `json:"events"`
}

type event struct {
	EventID   int64  `json:"event_id"`
	Title     string `json:"title"`
	Catch     string `json:"catch"`
	EventURL  string `json:"event_url"`
	StartedAt string `json:"started_at"`
	Place     string `json:"place"`
	Address   string `json:"address"`
}
