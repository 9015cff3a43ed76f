// Package awsevents fetches AWS Summit and AWS Community Day events from
// the aws.amazon.com directory API.
//
// Summits are queried in zh_TW (the Taipei summit listing is only
// complete in that locale); Community Days come from the developer
// activities directory in en_US. The API publishes no coordinates, so
// venues map through a city-name table keyed off the location or title.
package awsevents

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/koukeneko/wazai/internal/domain"
)

const (
	summitDirectoryID    = "events-cards-interactive-summits-cards-interactive-events-summits-hub-interactive-cards1"
	communityDirectoryID = "developer-cards-interactive-dev-center-activities"
	communityTagID       = "GLOBAL#local-tags-series#aws-community-days"
	pageSize             = 50
)

// Client implements the provider contract for AWS events.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// NewClient creates an AWS events provider.
func NewClient(timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    "https://aws.amazon.com",
		logger:     logger,
	}
}

// Name implements provider.Provider.
func (c *Client) Name() string { return "AWS Events" }

// Search implements provider.Provider. A blank keyword returns nothing;
// the directories list events worldwide and would drown the map.
// The two directory fetches fail independently: losing Community Days
// still returns Summits, and vice versa.
func (c *Client) Search(ctx context.Context, keyword string) ([]domain.MapItem, error) {
	if strings.TrimSpace(keyword) == "" {
		return nil, nil
	}

	var items []domain.MapItem

	summits, err := c.fetchDirectory(ctx, summitDirectoryID, "zh_TW", "", domain.EventTechConference)
	if err != nil {
		c.logger.Warn("aws summit fetch failed", "error", err)
	} else {
		items = append(items, summits...)
	}

	community, err := c.fetchDirectory(ctx, communityDirectoryID, "en_US", communityTagID, domain.EventCommunityGathering)
	if err != nil {
		c.logger.Warn("aws community day fetch failed", "error", err)
	} else {
		items = append(items, community...)
	}

	var matched []domain.MapItem
	for _, item := range items {
		if domain.MatchesKeyword(item, keyword) {
			matched = append(matched, item)
		}
	}
	return matched, nil
}

func (c *Client) fetchDirectory(ctx context.Context, directoryID, locale, tagID string, eventType domain.EventType) ([]domain.MapItem, error) {
	params := url.Values{
		"item.directoryId": {directoryID},
		"item.locale":      {locale},
		"sort_by":          {"item.additionalFields.publishedDate"},
		"sort_order":       {"asc"},
		"size":             {strconv.Itoa(pageSize)},
	}
	if tagID != "" {
		params.Set("tags.id", tagID)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/dirs/items/search?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("aws directory request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("aws directory API error: status %d: %s", resp.StatusCode, body)
	}

	var ar response
	if err := json.NewDecoder(resp.Body).Decode(&ar); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	items := make([]domain.MapItem, 0, len(ar.Items))
	for _, w := range ar.Items {
		fields := w.Item.AdditionalFields
		title := eventTitle(fields)
		if title == "" {
			continue
		}
		items = append(items, domain.Event{
			Item: domain.Item{
				ID:          eventID(w.Item.ID),
				Title:       title,
				Description: eventDescription(fields),
				URL:         eventURL(fields),
				Coordinates: eventCoordinates(fields),
				Source:      domain.SourceAWSEvents,
				Country:     eventCountry(title),
			},
			Start:     eventStart(fields),
			EventType: eventType,
		})
	}
	return items, nil
}

// eventID hashes the directory item id into the compact id scheme the API
// exposes (directory ids are long opaque strings).
func eventID(rawID string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(rawID))
	return fmt.Sprintf("aws-summit-%d", h.Sum32())
}

func eventTitle(fields additionalFields) string {
	if fields.Title != "" {
		return strings.TrimSpace(fields.Title)
	}
	return strings.TrimSpace(fields.Heading)
}

func eventDescription(fields additionalFields) string {
	if fields.Body == "" {
		return "AWS Summit - Official AWS event"
	}
	return domain.NormalizeDescription(fields.Body)
}

func eventURL(fields additionalFields) string {
	if fields.CtaLink != "" {
		return fields.CtaLink
	}
	return "https://aws.amazon.com/events/summits/"
}

// eventCoordinates maps the venue through the city table: the location
// field first (Community Days carry one), then the title (Summits embed
// the city there).
func eventCoordinates(fields additionalFields) domain.Coordinates {
	for _, text := range []string{fields.Location, fields.Title} {
		if text == "" {
			continue
		}
		for _, city := range cities {
			if strings.Contains(text, city.name) {
				return city.coords
			}
		}
	}
	return defaultCoordinates
}

func eventCountry(title string) domain.Country {
	switch {
	case strings.Contains(title, "Taipei") || strings.Contains(title, "Taiwan"):
		return domain.CountryTaiwan
	case strings.Contains(title, "Tokyo") || strings.Contains(title, "Osaka") || strings.Contains(title, "Japan"):
		return domain.CountryJapan
	default:
		return domain.CountryDefault
	}
}

// eventStart combines the separate date and time fields. Times arrive as
// "15:00+00:00"; the offset is dropped and the date's midnight is used
// when the time is absent or malformed.
func eventStart(fields additionalFields) time.Time {
	if fields.Date == "" {
		return time.Time{}
	}
	date, err := time.Parse("2006-01-02", fields.Date)
	if err != nil {
		return time.Time{}
	}

	if fields.Time != "" {
		clean := fields.Time
		if idx := strings.IndexAny(clean, "+-"); idx >= 0 {
			clean = clean[:idx]
		}
		if t, err := time.Parse("15:04", clean); err == nil {
			return date.Add(time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute)
		}
	}
	return date
}

// AWS directory API response types.

type response struct {
	Items []itemWrapper `json:"items"`
}

type itemWrapper struct {
	Item eventItem `json:"item"`
}

type eventItem struct {
	ID               string           `json:"id"`
	AdditionalFields additionalFields `json:"additionalFields"`
}

type additionalFields struct {
	Title    string `json:"title"`
	Heading  string `json:"heading"`
	Body     string `json:"body"`
	CtaLink  string `json:"ctaLink"`
	Date     string `json:"date"`
	Time     string `json:"time"`
	Location string `json:"location"`
}
