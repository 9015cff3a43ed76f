package meetup

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koukeneko/wazai/internal/domain"
)

const searchJSON = `{"data": {"keywordSearch": {"edges": [
	{"node": {
		"id": "301000001",
		"title": "Tokyo Gophers Night",
		"shortDescription": "Monthly Go meetup",
		"eventUrl": "https://www.meetup.com/tokyo-gophers/events/301000001/",
		"dateTime": "2026-09-18T19:00:00+09:00",
		"venue": {"name": "Shibuya Hub", "address": "道玄坂1-2-3", "city": "Tokyo", "lat": 35.6595, "lon": 139.7005},
		"group": {"name": "Tokyo Gophers"}
	}},
	{"node": {
		"id": "301000002",
		"title": "Go Online Session",
		"shortDescription": "",
		"eventUrl": "https://www.meetup.com/events/301000002/",
		"dateTime": "2026-09-20T20:00:00+09:00",
		"venue": null,
		"group": {"name": "Remote Gophers"}
	}},
	{"node": {
		"id": "301000003",
		"title": "Go Broken Venue",
		"shortDescription": "Bad data",
		"eventUrl": "",
		"dateTime": "",
		"venue": {"name": "", "address": "", "city": "", "lat": 999.0, "lon": 139.0},
		"group": null
	}}
]}}}`

func testClient(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 5 * time.Second},
		baseURL:    baseURL,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestSearch(t *testing.T) {
	var gotBody gqlRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(searchJSON))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	items, err := c.Search(context.Background(), "go")
	require.NoError(t, err)

	assert.Equal(t, "go", gotBody.Variables.Query)
	assert.Equal(t, searchLat, gotBody.Variables.Lat)
	assert.Equal(t, searchLon, gotBody.Variables.Lon)
	assert.Contains(t, gotBody.Query, "keywordSearch")

	// Venue-less and invalid-coordinate events are dropped.
	require.Len(t, items, 1)
	ev := items[0].(domain.Event)
	assert.Equal(t, "meetup-301000001", ev.ID)
	assert.Equal(t, "Tokyo Gophers Night", ev.Title)
	assert.Equal(t, "Monthly Go meetup", ev.Description)
	assert.Equal(t, "Shibuya Hub / 道玄坂1-2-3, Tokyo", ev.Address)
	assert.Equal(t, 35.6595, ev.Coordinates.Latitude)
	assert.Equal(t, domain.SourceMeetup, ev.Source)
	assert.Equal(t, domain.CountryJapan, ev.Country)
	assert.Equal(t, domain.EventTechMeetup, ev.EventType)
	assert.Equal(t, time.Date(2026, 9, 18, 19, 0, 0, 0, time.FixedZone("", 9*3600)).Unix(), ev.Start.Unix())
}

func TestSearch_BlankKeywordReturnsNothing(t *testing.T) {
	c := testClient("http://unreachable.invalid")

	items, err := c.Search(context.Background(), "   ")
	require.NoError(t, err)
	assert.Nil(t, items)
}

func TestSearch_KeywordFiltersResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(searchJSON))
	}))
	defer srv.Close()

	// The upstream may return loosely related hits; the shared matcher
	// trims them to actual keyword matches.
	items, err := testClient(srv.URL).Search(context.Background(), "gophers")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "meetup-301000001", items[0].Common().ID)

	items, err = testClient(srv.URL).Search(context.Background(), "pycon")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestSearch_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Search(context.Background(), "go")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestSearch_GroupNameBacksMissingDescription(t *testing.T) {
	lat, lon := 35.0, 139.0
	ev, ok := transform(meetupEvent{
		ID:    "1",
		Title: "Untitled",
		Venue: &meetupVenue{Lat: &lat, Lon: &lon},
		Group: &meetupGroup{Name: "Osaka Gophers"},
	})
	require.True(t, ok)
	assert.Equal(t, "Osaka Gophers", ev.Description)
}
