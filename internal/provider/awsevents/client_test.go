package awsevents

import (
	"context"
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

const summitJSON = `{"items": [
	{"item": {"id": "summit-taipei-2026", "additionalFields": {
		"title": "AWS Summit Taipei",
		"body": "年度最大的 AWS 技術盛會",
		"ctaLink": "https://aws.amazon.com/tw/events/summits/taipei/",
		"date": "2026-07-15",
		"time": "09:00+08:00"
	}}},
	{"item": {"id": "summit-tokyo-2026", "additionalFields": {
		"title": "AWS Summit Tokyo",
		"body": "",
		"date": "2026-06-20"
	}}}
]}`

const communityJSON = `{"items": [
	{"item": {"id": "cd-taichung-2026", "additionalFields": {
		"heading": "AWS Community Day Taiwan",
		"body": "Community organized AWS event",
		"location": "Taipei, Taiwan",
		"date": "2026-09-27"
	}}}
]}`

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/dirs/items/search", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Query().Get("item.directoryId") {
		case summitDirectoryID:
			assert.Equal(t, "zh_TW", r.URL.Query().Get("item.locale"))
			_, _ = w.Write([]byte(summitJSON))
		case communityDirectoryID:
			assert.Equal(t, "en_US", r.URL.Query().Get("item.locale"))
			assert.Equal(t, communityTagID, r.URL.Query().Get("tags.id"))
			_, _ = w.Write([]byte(communityJSON))
		default:
			t.Errorf("unexpected directory %s", r.URL.Query().Get("item.directoryId"))
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testClient(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 5 * time.Second},
		baseURL:    baseURL,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestSearch_FetchesBothDirectories(t *testing.T) {
	c := testClient(testServer(t).URL)

	items, err := c.Search(context.Background(), "aws")
	require.NoError(t, err)
	require.Len(t, items, 3)

	taipei := items[0].(domain.Event)
	assert.Equal(t, "AWS Summit Taipei", taipei.Title)
	assert.Equal(t, domain.CountryTaiwan, taipei.Country)
	assert.Equal(t, 25.0330, taipei.Coordinates.Latitude)
	assert.Equal(t, domain.EventTechConference, taipei.EventType)
	assert.Contains(t, taipei.ID, "aws-summit-")
	assert.Equal(t, 9, taipei.Start.Hour())

	tokyo := items[1].(domain.Event)
	assert.Equal(t, domain.CountryJapan, tokyo.Country)
	assert.Equal(t, "AWS Summit - Official AWS event", tokyo.Description)
	assert.Equal(t, "https://aws.amazon.com/events/summits/", tokyo.URL)

	community := items[2].(domain.Event)
	assert.Equal(t, "AWS Community Day Taiwan", community.Title, "heading fills a missing title")
	assert.Equal(t, domain.EventCommunityGathering, community.EventType)
	assert.Equal(t, 25.0330, community.Coordinates.Latitude, "location field drives the city lookup")
}

func TestSearch_KeywordFilters(t *testing.T) {
	c := testClient(testServer(t).URL)

	items, err := c.Search(context.Background(), "taipei")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "AWS Summit Taipei", items[0].Common().Title)
}

func TestSearch_BlankKeywordReturnsNothing(t *testing.T) {
	c := testClient("http://unreachable.invalid")

	items, err := c.Search(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, items)
}

func TestSearch_OneDirectoryFailureIsIsolated(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("item.directoryId") == summitDirectoryID {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(communityJSON))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	items, err := c.Search(context.Background(), "community")
	require.NoError(t, err)
	require.Len(t, items, 1, "community days survive a summit directory outage")
}

func TestEventCoordinates_UnknownCityDefaults(t *testing.T) {
	coords := eventCoordinates(additionalFields{Title: "AWS Summit Atlantis"})
	assert.Equal(t, defaultCoordinates, coords)
}
