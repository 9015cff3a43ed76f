package positionstack

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
)

const testKey = "test-key"

func testClient(baseURL string) *Client {
	return &Client{
		key:        testKey,
		httpClient: &http.Client{Timeout: 5 * time.Second},
		baseURL:    baseURL,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestClient_Geocode_StripsBuildingFromQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, testKey, r.URL.Query().Get("access_key"))
		assert.Equal(t, "JP", r.URL.Query().Get("country"))
		assert.Equal(t, "桜丘町26-1", r.URL.Query().Get("query"), "building name must be stripped")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{"latitude":35.6563,"longitude":139.6994,"label":"Sakuragaokacho, Shibuya, Japan"}]}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	result, err := c.Geocode(context.Background(), "桜丘町26-1 セルリアンタワー 11F")
	require.NoError(t, err)

	assert.True(t, result.Found)
	assert.Equal(t, 35.6563, result.Coordinates.Latitude)
	assert.Equal(t, 139.6994, result.Coordinates.Longitude)
}

func TestClient_Geocode_EmptyData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	result, err := c.Geocode(context.Background(), "どこでもない場所1-1")
	require.NoError(t, err)
	assert.False(t, result.Found)
}

func TestClient_Geocode_PaddedEmptyEntry(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{}]}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	result, err := c.Geocode(context.Background(), "渋谷1-1")
	require.NoError(t, err)
	assert.False(t, result.Found)
}

func TestClient_Geocode_APIErrorObject(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"error":{"code":"invalid_access_key","message":"You have not supplied a valid API Access Key."}}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	_, err := c.Geocode(context.Background(), "渋谷1-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid_access_key")
}

func TestClient_Geocode_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	_, err := c.Geocode(context.Background(), "渋谷1-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}
