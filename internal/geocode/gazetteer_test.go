package geocode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koukeneko/wazai/internal/domain"
)

func TestGazetteer_WardBeforePrefecture(t *testing.T) {
	g := NewGazetteer()

	// Address containing both the prefecture and a ward: the ward entry
	// is more specific and must win.
	coords, ok := g.Lookup("東京都渋谷区道玄坂1-2-3")
	require.True(t, ok)
	assert.InDelta(t, 35.6640, coords.Latitude, 1e-9)
	assert.InDelta(t, 139.6982, coords.Longitude, 1e-9)
}

func TestGazetteer_TokyoNotShadowedByKyoto(t *testing.T) {
	g := NewGazetteer()

	// 東京都 contains 京都 as a substring; the entry order must keep a
	// plain Tokyo-prefecture address from geocoding to Kyoto.
	coords, ok := g.Lookup("東京都武蔵野市吉祥寺本町1-1")
	require.True(t, ok)
	assert.InDelta(t, 35.6812, coords.Latitude, 1e-9)

	coords, ok = g.Lookup("京都市左京区1-1")
	require.True(t, ok)
	assert.InDelta(t, 35.0116, coords.Latitude, 1e-9)
}

func TestGazetteer_TaiwanCities(t *testing.T) {
	g := NewGazetteer()

	coords, ok := g.Lookup("台北市信義區信義路五段7號")
	require.True(t, ok)
	assert.Equal(t, domain.Taipei(), coords)

	coords, ok = g.Lookup("高雄市前金區中正四路211號")
	require.True(t, ok)
	assert.Equal(t, domain.Kaohsiung(), coords)
}

func TestGazetteer_Miss(t *testing.T) {
	g := NewGazetteer()

	_, ok := g.Lookup("オンライン開催")
	assert.False(t, ok)
}

func TestGazetteer_Nearest(t *testing.T) {
	g := NewGazetteer()

	// A point in central Shibuya should be closest to the 渋谷区 entry.
	entry, dist, ok := g.Nearest(domain.Coordinates{Latitude: 35.6595, Longitude: 139.7005})
	require.True(t, ok)
	assert.Equal(t, "渋谷区", entry.Name)
	assert.Less(t, dist, 5.0)
}

func TestGazetteer_CustomEntriesPreserveOrder(t *testing.T) {
	g := NewGazetteerWithEntries([]Entry{
		{"道玄坂", domain.Coordinates{Latitude: 35.658, Longitude: 139.698}},
		{"渋谷", domain.Coordinates{Latitude: 35.664, Longitude: 139.698}},
	})

	coords, ok := g.Lookup("渋谷の道玄坂")
	require.True(t, ok)
	assert.Equal(t, 35.658, coords.Latitude)
}
