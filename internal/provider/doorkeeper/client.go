// Package doorkeeper fetches events from the Doorkeeper API, a Japanese
// event management platform.
//
// Doorkeeper's own search is strict, so a keyword query tries the API
// search first and falls back to fetching the recent-events firehose and
// filtering locally when the API returns nothing.
package doorkeeper

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"time"

	"github.com/koukeneko/wazai/internal/domain"
)

const (
	pagesToFetch   = 4
	resultsPerPage = 25
)

var htmlTagRe = regexp.MustCompile(`<[^>]*>`)

// Client implements the provider contract for Doorkeeper.
type Client struct {
	token      string
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// NewClient creates a Doorkeeper provider. An empty token disables it:
// the API rejects unauthenticated requests, so Search short-circuits.
func NewClient(token string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    "https://api.doorkeeper.jp",
		logger:     logger,
	}
}

// Name implements provider.Provider.
func (c *Client) Name() string { return "Doorkeeper" }

// Search implements provider.Provider.
func (c *Client) Search(ctx context.Context, keyword string) ([]domain.MapItem, error) {
	if c.token == "" {
		c.logger.Warn("doorkeeper API token not configured, skipping")
		return nil, nil
	}

	if keyword == "" {
		return c.fetchEvents(ctx, "")
	}

	items, err := c.fetchEvents(ctx, keyword)
	if err != nil {
		return nil, err
	}
	if len(items) > 0 {
		return items, nil
	}

	// API search found nothing; filter the unfiltered feed locally.
	all, err := c.fetchEvents(ctx, "")
	if err != nil {
		return nil, err
	}
	var matched []domain.MapItem
	for _, item := range all {
		if domain.MatchesKeyword(item, keyword) {
			matched = append(matched, item)
		}
	}
	return matched, nil
}

// fetchEvents pages through the events endpoint. A short page means the
// feed is exhausted; a page error keeps what was already fetched.
func (c *Client) fetchEvents(ctx context.Context, keyword string) ([]domain.MapItem, error) {
	var items []domain.MapItem

	for page := 1; page <= pagesToFetch; page++ {
		wrappers, err := c.fetchPage(ctx, page, keyword)
		if err != nil {
			if page == 1 {
				return nil, err
			}
			c.logger.Warn("doorkeeper page fetch failed", "page", page, "error", err)
			break
		}
		if len(wrappers) == 0 {
			break
		}

		for _, w := range wrappers {
			if w.Event.Title == "" {
				continue
			}
			items = append(items, c.transform(w.Event))
		}

		if len(wrappers) < resultsPerPage {
			break
		}
	}

	return items, nil
}

func (c *Client) fetchPage(ctx context.Context, page int, keyword string) ([]eventWrapper, error) {
	params := url.Values{
		"page":   {strconv.Itoa(page)},
		"sort":   {"published_at"},
		"locale": {"ja"},
	}
	if keyword != "" {
		params.Set("q", keyword)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/events?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("doorkeeper request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("doorkeeper API error: status %d: %s", resp.StatusCode, body)
	}

	var wrappers []eventWrapper
	if err := json.NewDecoder(resp.Body).Decode(&wrappers); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return wrappers, nil
}

func (c *Client) transform(ev event) domain.Event {
	return domain.Event{
		Item: domain.Item{
			ID:          fmt.Sprintf("doorkeeper-%d", ev.ID),
			Title:       ev.Title,
			Description: description(ev),
			URL:         ev.PublicURL,
			Coordinates: coordinates(ev),
			Address:     displayAddress(ev),
			Source:      domain.SourceDoorkeeper,
			Country:     domain.CountryJapan,
		},
		Start:     parseTime(ev.StartsAt),
		End:       parseTime(ev.EndsAt),
		EventType: domain.EventTechMeetup,
	}
}

// description strips the HTML body down to plain text, falling back to a
// venue line when the organizer wrote no body.
func description(ev event) string {
	if ev.Description != "" {
		plain := htmlTagRe.ReplaceAllString(ev.Description, "")
		return domain.NormalizeDescription(plain)
	}
	switch {
	case ev.VenueName != "" && ev.Address != "":
		return ev.VenueName + " - " + ev.Address
	case ev.VenueName != "":
		return ev.VenueName
	default:
		return ev.Address
	}
}

func displayAddress(ev event) string {
	switch {
	case ev.VenueName != "" && ev.Address != "":
		return ev.VenueName + " / " + ev.Address
	case ev.VenueName != "":
		return ev.VenueName
	default:
		return ev.Address
	}
}

// coordinates parses the API's string lat/long pair. Anything unparseable
// or out of range falls back to the Tokyo default rather than dropping
// the event.
func coordinates(ev event) domain.Coordinates {
	if ev.Lat == "" || ev.Long == "" {
		return domain.Tokyo()
	}
	lat, err := strconv.ParseFloat(ev.Lat, 64)
	if err != nil {
		return domain.Tokyo()
	}
	lon, err := strconv.ParseFloat(ev.Long, 64)
	if err != nil {
		return domain.Tokyo()
	}
	coords, err := domain.NewCoordinates(lat, lon)
	if err != nil {
		return domain.Tokyo()
	}
	return coords
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

// Doorkeeper API response types. Events arrive wrapped one level deep and
// coordinates come back as strings; "long" is the API's spelling.

type eventWrapper struct {
	Event event `json:"event"`
}

type event struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	PublicURL   string `json:"public_url"`
	StartsAt    string `json:"starts_at"`
	EndsAt      string `json:"ends_at"`
	VenueName   string `json:"venue_name"`
	Address     string `json:"address"`
	Lat         string `json:"lat"`
	Long        string `json:"long"`
}
