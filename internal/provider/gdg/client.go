// Package gdg fetches Google Developer Groups community events.
//
// The GDG API has no country filter, so the client first loads the
// chapter directory, keeps the active Taiwan and Japan chapters, and then
// joins upcoming events against that cache. Chapter records carry
// official coordinates, which beats geocoding chapter city names.
package gdg

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/koukeneko/wazai/internal/domain"
)

const proximityKm = 10000

var targetCountries = []string{"TW", "JP"}

// Client implements the provider contract for GDG Community.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger

	mu       sync.Mutex
	chapters map[int64]chapterInfo
}

// NewClient creates a GDG provider. The chapter cache loads lazily on the
// first search and is retried until it succeeds.
func NewClient(timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    "https://gdg.community.dev/api",
		logger:     logger,
	}
}

// Name implements provider.Provider.
func (c *Client) Name() string { return "GDG Community" }

// Search implements provider.Provider. A blank keyword returns nothing:
// the upcoming-events feed is global and too broad to show unfiltered.
func (c *Client) Search(ctx context.Context, keyword string) ([]domain.MapItem, error) {
	if strings.TrimSpace(keyword) == "" {
		return nil, nil
	}

	chapters, err := c.loadChapters(ctx)
	if err != nil {
		return nil, err
	}

	events, err := c.fetchUpcomingEvents(ctx)
	if err != nil {
		return nil, err
	}

	var items []domain.MapItem
	for _, ev := range events {
		chapter, ok := chapters[ev.Chapter.ID]
		if !ok {
			continue
		}
		item := transform(ev, chapter)
		if domain.MatchesKeyword(item, keyword) {
			items = append(items, item)
		}
	}
	return items, nil
}

// loadChapters returns the TW/JP chapter cache, fetching the directory on
// first use. A failed load is not cached; the next search retries.
func (c *Client) loadChapters(ctx context.Context) (map[int64]chapterInfo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.chapters != nil {
		return c.chapters, nil
	}

	params := url.Values{"chapters": {"true"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/chapter_region?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gdg chapter request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("gdg chapter API error: status %d: %s", resp.StatusCode, body)
	}

	var regions []region
	if err := json.NewDecoder(resp.Body).Decode(&regions); err != nil {
		return nil, fmt.Errorf("decode chapter response: %w", err)
	}

	chapters := make(map[int64]chapterInfo)
	for _, r := range regions {
		for _, ch := range r.Chapters {
			if ch.Active && isTargetCountry(ch.Country) {
				chapters[ch.ID] = ch
			}
		}
	}

	c.logger.Info("loaded gdg chapters", "count", len(chapters))
	c.chapters = chapters
	return chapters, nil
}

func isTargetCountry(country string) bool {
	for _, code := range targetCountries {
		if strings.EqualFold(country, code) {
			return true
		}
	}
	return false
}

func (c *Client) fetchUpcomingEvents(ctx context.Context) ([]gdgEvent, error) {
	params := url.Values{
		"result_types":       {"upcoming_event"},
		"order_by_proximity": {"true"},
		"proximity":          {fmt.Sprintf("%d", proximityKm)},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search/?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gdg search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("gdg search API error: status %d: %s", resp.StatusCode, body)
	}

	var sr searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	return sr.Results, nil
}

func transform(ev gdgEvent, chapter chapterInfo) domain.Event {
	return domain.Event{
		Item: domain.Item{
			ID:          fmt.Sprintf("gdg-%d", ev.ID),
			Title:       ev.Title,
			Description: description(ev),
			URL:         ev.URL,
			Coordinates: chapterCoordinates(chapter),
			Source:      domain.SourceGoogleCommunity,
			Country:     chapterCountry(chapter),
		},
		Start:     parseTime(ev.StartDate),
		EventType: domain.EventCommunityGathering,
	}
}

func description(ev gdgEvent) string {
	if ev.DescriptionShort == "" {
		return "GDG Community Event"
	}
	return domain.NormalizeDescription(ev.DescriptionShort)
}

func chapterCoordinates(chapter chapterInfo) domain.Coordinates {
	coords, err := domain.NewCoordinates(chapter.Latitude, chapter.Longitude)
	if err != nil || (chapter.Latitude == 0 && chapter.Longitude == 0) {
		return domain.Taipei()
	}
	return coords
}

func chapterCountry(chapter chapterInfo) domain.Country {
	switch strings.ToUpper(chapter.Country) {
	case "TW":
		return domain.CountryTaiwan
	case "JP":
		return domain.CountryJapan
	default:
		return domain.CountryDefault
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

// GDG Community API response types.

type region struct {
	ID       int64         `json:"id"`
	Title    string        `json:"title"`
	Chapters []chapterInfo `json:"chapters"`
}

type chapterInfo struct {
	ID        int64   `json:"id"`
	Active    bool    `json:"active"`
	City      string  `json:"city"`
	Country   string  `json:"country"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Title     string  `json:"title"`
}

type searchResponse struct {
	Results []gdgEvent `json:"results"`
}

type gdgEvent struct {
	ID               int64       `json:"id"`
	Title            string      `json:"title"`
	DescriptionShort string      `json:"description_short"`
	URL              string      `json:"url"`
	StartDate        string      `json:"start_date"`
	Chapter          chapterStub `json:"chapter"`
}

type chapterStub struct {
	ID int64 `json:"id"`
}
