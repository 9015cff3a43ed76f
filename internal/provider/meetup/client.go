// Package meetup fetches events from the Meetup GraphQL API.
package meetup

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/koukeneko/wazai/internal/domain"
)

// Keyword search is location-anchored; Tokyo centers the default radius.
const (
	searchLat = 35.6895
	searchLon = 139.6917
)

const keywordSearchQuery = `query keywordSearch($query: String!, $lat: Float!, $lon: Float!) {
  keywordSearch(filter: { query: $query, lat: $lat, lon: $lon, source: EVENTS }) {
    edges {
      node {
        id
        title
        shortDescription
        eventUrl
        dateTime
        venue {
          name
          address
          city
          lat
          lon
        }
        group {
          name
        }
      }
    }
  }
}`

// Client implements the provider contract for Meetup.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// NewClient creates a Meetup provider. The GraphQL endpoint is public and
// needs no credentials.
func NewClient(timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    "https://www.meetup.com/gql2",
		logger:     logger,
	}
}

// Name implements provider.Provider.
func (c *Client) Name() string { return "Meetup" }

// Search implements provider.Provider. A blank keyword returns nothing:
// keywordSearch requires a query string, and an unfiltered feed around the
// search center would be noise.
func (c *Client) Search(ctx context.Context, keyword string) ([]domain.MapItem, error) {
	if strings.TrimSpace(keyword) == "" {
		return nil, nil
	}

	events, err := c.fetchEvents(ctx, keyword)
	if err != nil {
		return nil, err
	}

	var items []domain.MapItem
	for _, ev := range events {
		item, ok := transform(ev)
		if ok && domain.MatchesKeyword(item, keyword) {
			items = append(items, item)
		}
	}
	return items, nil
}

func (c *Client) fetchEvents(ctx context.Context, keyword string) ([]meetupEvent, error) {
	payload, err := json.Marshal(gqlRequest{
		Query: keywordSearchQuery,
		Variables: gqlVariables{
			Query: keyword,
			Lat:   searchLat,
			Lon:   searchLon,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("meetup request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("meetup API error: status %d: %s", resp.StatusCode, body)
	}

	var gr gqlResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	events := make([]meetupEvent, 0, len(gr.Data.KeywordSearch.Edges))
	for _, edge := range gr.Data.KeywordSearch.Edges {
		events = append(events, edge.Node)
	}
	return events, nil
}

// transform builds an event item; events without venue coordinates are
// dropped, since the search is already anchored on a default center and a
// second Tokyo pin would say nothing.
func transform(ev meetupEvent) (domain.Event, bool) {
	if ev.Venue == nil || ev.Venue.Lat == nil || ev.Venue.Lon == nil {
		return domain.Event{}, false
	}
	coords, err := domain.NewCoordinates(*ev.Venue.Lat, *ev.Venue.Lon)
	if err != nil {
		return domain.Event{}, false
	}

	return domain.Event{
		Item: domain.Item{
			ID:          "meetup-" + ev.ID,
			Title:       ev.Title,
			Description: description(ev),
			URL:         ev.EventURL,
			Coordinates: coords,
			Address:     venueAddress(ev.Venue),
			Source:      domain.SourceMeetup,
			Country:     domain.CountryJapan,
		},
		Start:     parseTime(ev.DateTime),
		EventType: domain.EventTechMeetup,
	}, true
}

func description(ev meetupEvent) string {
	if ev.ShortDescription != "" {
		return domain.NormalizeDescription(ev.ShortDescription)
	}
	if ev.Group != nil {
		return ev.Group.Name
	}
	return ""
}

func venueAddress(v *meetupVenue) string {
	var b strings.Builder
	if v.Name != "" {
		b.WriteString(v.Name)
	}
	if v.Address != "" {
		if b.Len() > 0 {
			b.WriteString(" / ")
		}
		b.WriteString(v.Address)
	}
	if v.City != "" {
		if b.Len() > 0 {
			b.WriteString(", ")
		}
		b.WriteString(v.City)
	}
	return b.String()
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

// Meetup GraphQL wire types.

type gqlRequest struct {
	Query     string       `json:"query"`
	Variables gqlVariables `json:"variables"`
}

type gqlVariables struct {
	Query string  `json:"query"`
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
}

type gqlResponse struct {
	Data struct {
		KeywordSearch struct {
			Edges []struct {
				Node meetupEvent `json:"node"`
			} `json:"edges"`
		} `json:"keywordSearch"`
	} `json:"data"`
}

type meetupEvent struct {
	ID               string       `json:"id"`
	Title            string       `json:"title"`
	ShortDescription string       `json:"shortDescription"`
	EventURL         string       `json:"eventUrl"`
	DateTime         string       `json:"dateTime"`
	Venue            *meetupVenue `json:"venue"`
	Group            *meetupGroup `json:"group"`
}

type meetupVenue struct {
	Name    string   `json:"name"`
	Address string   `json:"address"`
	City    string   `json:"city"`
	Lat     *float64 `json:"lat"`
	Lon     *float64 `json:"lon"`
}

type meetupGroup struct {
	Name string `json:"name"`
}
