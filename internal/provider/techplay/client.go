// Package techplay fetches events from the TechPlay RSS feed, a Japanese
// IT event aggregation service.
//
// The feed carries venue names and street addresses in a custom "tp:"
// namespace; addresses are resolved to coordinates through the geocoding
// chain. Online events are pinned to the Tokyo default instead of being
// geocoded.
package techplay

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/koukeneko/wazai/internal/domain"
	"github.com/koukeneko/wazai/internal/geocode"
)

const onlineIndicator = "オンライン"

// Client implements the provider contract for TechPlay.
type Client struct {
	httpClient *http.Client
	feedURL    string
	resolver   geocode.Resolver
	logger     *slog.Logger
}

// NewClient creates a TechPlay provider backed by the given resolver.
func NewClient(timeout time.Duration, resolver geocode.Resolver, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		feedURL:    "https://rss.techplay.jp/event/rss",
		resolver:   resolver,
		logger:     logger,
	}
}

// Name implements provider.Provider.
func (c *Client) Name() string { return "TechPlay" }

// Search implements provider.Provider. The feed has no query interface,
// so the whole feed is fetched and filtered locally.
func (c *Client) Search(ctx context.Context, keyword string) ([]domain.MapItem, error) {
	feed, err := c.fetchFeed(ctx)
	if err != nil {
		return nil, err
	}

	var items []domain.MapItem
	for _, it := range feed.Channel.Items {
		if it.Title == "" {
			continue
		}
		ev := c.transform(ctx, it)
		if domain.MatchesKeyword(ev, keyword) {
			items = append(items, ev)
		}
	}
	return items, nil
}

func (c *Client) fetchFeed(ctx context.Context) (*rss, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("techplay request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("techplay feed error: status %d: %s", resp.StatusCode, body)
	}

	var feed rss
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("decode feed: %w", err)
	}
	return &feed, nil
}

func (c *Client) transform(ctx context.Context, it item) domain.Event {
	address := displayAddress(it.EventPlace, it.EventAddress)

	return domain.Event{
		Item: domain.Item{
			ID:          "techplay-" + eventID(it),
			Title:       it.Title,
			Description: domain.NormalizeDescription(it.Description),
			URL:         it.Link,
			Coordinates: c.locate(ctx, it),
			Address:     address,
			Source:      domain.SourceTechPlay,
			Country:     domain.CountryJapan,
		},
		Start:     eventTime(it.EventDate, it.EventStartTime),
		End:       eventTime(it.EventDate, it.EventEndTime),
		EventType: domain.EventTechMeetup,
	}
}

// locate resolves the venue to coordinates. The street address beats the
// venue name when both are present; online events skip geocoding.
func (c *Client) locate(ctx context.Context, it item) domain.Coordinates {
	if strings.Contains(it.EventPlace, onlineIndicator) || strings.Contains(it.EventAddress, onlineIndicator) {
		return domain.Tokyo()
	}
	if it.EventAddress != "" {
		return c.resolver.Resolve(ctx, it.EventAddress, domain.Tokyo())
	}
	if it.EventPlace != "" {
		return c.resolver.Resolve(ctx, it.EventPlace, domain.Tokyo())
	}
	return domain.Tokyo()
}

// eventID extracts the numeric id from the event link
// (https://techplay.jp/event/986053 -> 986053), falling back to the guid.
func eventID(it item) string {
	if it.Link != "" {
		if idx := strings.LastIndex(it.Link, "/"); idx >= 0 && idx < len(it.Link)-1 {
			return it.Link[idx+1:]
		}
	}
	return it.GUID
}

func displayAddress(place, address string) string {
	switch {
	case place != "" && address != "":
		return place + " / " + address
	case place != "":
		return place
	default:
		return address
	}
}

// eventTime combines the feed's separate date and time fields
// ("2026-09-01", "19:00"). Date-only entries start at midnight JST.
func eventTime(date, clock string) time.Time {
	if date == "" {
		return time.Time{}
	}
	jst := time.FixedZone("JST", 9*60*60)
	if clock != "" {
		if t, err := time.ParseInLocation("2006-01-02 15:04", date+" "+clock, jst); err == nil {
			return t
		}
	}
	t, err := time.ParseInLocation("2006-01-02", date, jst)
	if err != nil {
		return time.Time{}
	}
	return t
}

// TechPlay RSS types. The tp: namespaced fields match by local name.

type rss struct {
	Channel channel `xml:"channel"`
}

type channel struct {
	Title string `xml:"title"`
	Items []item `xml:"item"`
}

type item struct {
	Title          string `xml:"title"`
	Link           string `xml:"link"`
	GUID           string `xml:"guid"`
	Description    string `xml:"description"`
	EventDate      string `xml:"eventDate"`
	EventStartTime string `xml:"eventStartTime"`
	EventEndTime   string `xml:"eventEndTime"`
	EventPlace     string `xml:"eventPlace"`
	EventAddress   string `xml:"eventAddress"`
}
