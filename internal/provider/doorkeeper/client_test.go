package doorkeeper

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

func testClient(baseURL string) *Client {
	return &Client{
		token:      "test-token",
		httpClient: &http.Client{Timeout: 5 * time.Second},
		baseURL:    baseURL,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestSearch_MissingTokenShortCircuits(t *testing.T) {
	c := testClient("http://unreachable.invalid")
	c.token = ""

	items, err := c.Search(context.Background(), "golang")
	require.NoError(t, err)
	assert.Nil(t, items)
}

func TestSearch_TransformsEvents(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/events", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "published_at", r.URL.Query().Get("sort"))
		assert.Equal(t, "ja", r.URL.Query().Get("locale"))
		assert.Equal(t, "golang", r.URL.Query().Get("q"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"event":{
			"id": 9001,
			"title": "Golang Tokyo #30",
			"description": "<p>Goの<b>LT大会</b>です</p>",
			"public_url": "https://golang-tokyo.doorkeeper.jp/events/9001",
			"starts_at": "2026-09-20T10:00:00.000+09:00",
			"ends_at": "2026-09-20T12:00:00.000+09:00",
			"venue_name": "某社オフィス",
			"address": "東京都港区六本木1-1",
			"lat": "35.6627",
			"long": "139.7316"
		}}]`))
	}))
	defer srv.Close()

	items, err := testClient(srv.URL).Search(context.Background(), "golang")
	require.NoError(t, err)
	require.Len(t, items, 1)

	ev, ok := items[0].(domain.Event)
	require.True(t, ok)
	assert.Equal(t, "doorkeeper-9001", ev.ID)
	assert.Equal(t, "GoのLT大会です", ev.Description, "HTML must be stripped")
	assert.Equal(t, "某社オフィス / 東京都港区六本木1-1", ev.Address)
	assert.Equal(t, 35.6627, ev.Coordinates.Latitude)
	assert.Equal(t, 139.7316, ev.Coordinates.Longitude)
	assert.Equal(t, domain.SourceDoorkeeper, ev.Source)
	assert.False(t, ev.Start.IsZero())
	assert.False(t, ev.End.IsZero())
}

func TestSearch_InvalidCoordinatesFallBackToTokyo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"event":{"id":1,"title":"bad lat","lat":"abc","long":"139.7"}},
			{"event":{"id":2,"title":"out of range","lat":"135.0","long":"200.0"}},
			{"event":{"id":3,"title":"no coords"}}
		]`))
	}))
	defer srv.Close()

	items, err := testClient(srv.URL).Search(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, items, 3)
	for _, item := range items {
		assert.Equal(t, domain.Tokyo(), item.Common().Coordinates)
	}
}

func TestSearch_DropsUntitledEvents(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"event":{"id":1,"title":""}},
			{"event":{"id":2,"title":"kept"}}
		]`))
	}))
	defer srv.Close()

	items, err := testClient(srv.URL).Search(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "doorkeeper-2", items[0].Common().ID)
}

func TestSearch_LocalFilterFallback(t *testing.T) {
	var queries []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		queries = append(queries, r.URL.Query().Get("q"))
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("q") != "" {
			_, _ = w.Write([]byte(`[]`))
			return
		}
		_, _ = w.Write([]byte(`[
			{"event":{"id":1,"title":"Rustの会"}},
			{"event":{"id":2,"title":"Kubernetes勉強会"}}
		]`))
	}))
	defer srv.Close()

	items, err := testClient(srv.URL).Search(context.Background(), "kubernetes")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "doorkeeper-2", items[0].Common().ID)
	assert.Equal(t, []string{"kubernetes", ""}, queries, "API search first, then unfiltered feed")
}

func TestSearch_StopsPagingOnShortPage(t *testing.T) {
	var pages []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pages = append(pages, r.URL.Query().Get("page"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"event":{"id":1,"title":"only one"}}]`))
	}))
	defer srv.Close()

	items, err := testClient(srv.URL).Search(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, []string{"1"}, pages, "a page below capacity ends pagination")
}

func TestSearch_FirstPageErrorPropagates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Search(context.Background(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}
