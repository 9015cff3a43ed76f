package geocode

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/koukeneko/wazai/internal/domain"
)

func TestCache_GetPut(t *testing.T) {
	c := NewCache()

	_, _, cached := c.Get("渋谷区")
	assert.False(t, cached)

	c.Put("渋谷区", domain.Coordinates{Latitude: 35.664, Longitude: 139.6982}, true)

	coords, found, cached := c.Get("渋谷区")
	assert.True(t, cached)
	assert.True(t, found)
	assert.Equal(t, 35.664, coords.Latitude)
}

func TestCache_NegativeEntry(t *testing.T) {
	c := NewCache()

	c.Put("存在しない住所", domain.Coordinates{}, false)

	_, found, cached := c.Get("存在しない住所")
	assert.True(t, cached, "a miss must be cached")
	assert.False(t, found)
	assert.Equal(t, 1, c.Len())
}

func TestCache_Overwrite(t *testing.T) {
	c := NewCache()

	c.Put("k", domain.Coordinates{}, false)
	c.Put("k", domain.Tokyo(), true)

	coords, found, cached := c.Get("k")
	assert.True(t, cached)
	assert.True(t, found)
	assert.Equal(t, domain.Tokyo(), coords)
	assert.Equal(t, 1, c.Len())
}

func TestCache_ConcurrentAccess(t *testing.T) {
	c := NewCache()

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			key := fmt.Sprintf("addr-%d", i%10)
			c.Put(key, domain.Tokyo(), true)
			c.Get(key)
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, c.Len())
}
