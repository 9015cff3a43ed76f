package geocode

import (
	"context"
	"log/slog"
	"strings"

	"github.com/koukeneko/wazai/internal/domain"
	"github.com/koukeneko/wazai/internal/observability"
)

// Resolution source names reported by ResolveDetailed and in metrics.
const (
	SourceCache     = "cache"
	SourceGazetteer = "gazetteer"
	SourceFallback  = "fallback"
)

// maxKnownAreaKm bounds how far a verified geocode may land from the
// nearest gazetteer entry when the locality itself is unknown.
const maxKnownAreaKm = 250

// serviceAreas are the bounding boxes a verified geocode must fall inside.
// A wrong-country coordinate is worse than no coordinate: the item would
// render on the wrong continent instead of at its city's default pin.
var serviceAreas = []struct {
	name                           string
	minLat, maxLat, minLon, maxLon float64
}{
	{"japan", 24.0, 45.9, 122.5, 146.2},
	{"taiwan", 21.8, 25.5, 119.3, 122.1},
}

// Strategy is one external geocoder in the chain. Verify enables bounds
// validation and locality cross-checking on its results; it is set for the
// paid providers, whose global indexes happily return a same-named street
// on another continent.
type Strategy struct {
	Geocoder Geocoder
	Verify   bool
}

// Chain resolves addresses through cache, gazetteer, and external
// strategies in order, short-circuiting on the first success.
// It implements Resolver and never returns an error: exhausting every
// strategy yields the caller's fallback coordinate.
type Chain struct {
	cache      *Cache
	gazetteer  *Gazetteer
	strategies []Strategy
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewChain assembles a resolution chain. Strategies are tried in slice order.
func NewChain(cache *Cache, gazetteer *Gazetteer, strategies []Strategy, logger *slog.Logger, metrics *observability.Metrics) *Chain {
	return &Chain{
		cache:      cache,
		gazetteer:  gazetteer,
		strategies: strategies,
		logger:     logger,
		metrics:    metrics,
	}
}

// Resolve implements Resolver.
func (c *Chain) Resolve(ctx context.Context, rawAddress string, fallback domain.Coordinates) domain.Coordinates {
	coords, _ := c.ResolveDetailed(ctx, rawAddress, fallback)
	return coords
}

// ResolveDetailed resolves an address and reports which source answered:
// "cache", "gazetteer", a strategy name, or "fallback".
func (c *Chain) ResolveDetailed(ctx context.Context, rawAddress string, fallback domain.Coordinates) (domain.Coordinates, string) {
	if strings.TrimSpace(rawAddress) == "" {
		return fallback, SourceFallback
	}

	normalized := Normalize(rawAddress)

	// A cached miss short-circuits too: the address is known-unresolvable
	// and re-trying it would burn rate-limited request budget.
	if coords, found, cached := c.cache.Get(normalized); cached {
		c.metrics.GeocodeCache.WithLabelValues("hit").Inc()
		if !found {
			return fallback, SourceCache
		}
		return coords, SourceCache
	}
	c.metrics.GeocodeCache.WithLabelValues("miss").Inc()

	if coords, ok := c.gazetteer.Lookup(normalized); ok {
		c.metrics.GeocodeLookups.WithLabelValues(SourceGazetteer, "hit").Inc()
		c.cache.Put(normalized, coords, true)
		return coords, SourceGazetteer
	}
	c.metrics.GeocodeLookups.WithLabelValues(SourceGazetteer, "miss").Inc()

	locality := Locality(normalized)

	for _, s := range c.strategies {
		name := s.Geocoder.Name()

		result, err := s.Geocoder.Geocode(ctx, normalized)
		if err != nil {
			c.metrics.GeocodeLookups.WithLabelValues(name, "error").Inc()
			c.logger.Warn("geocode strategy failed", "strategy", name, "address", normalized, "error", err)
			continue
		}
		if !result.Found {
			c.metrics.GeocodeLookups.WithLabelValues(name, "miss").Inc()
			c.logger.Debug("geocode strategy miss", "strategy", name, "address", normalized)
			continue
		}
		if s.Verify && !c.verify(result, locality) {
			c.metrics.GeocodeLookups.WithLabelValues(name, "rejected").Inc()
			c.logger.Warn("geocode result rejected by verification",
				"strategy", name,
				"address", normalized,
				"got", result.Coordinates.String(),
				"formatted", result.FormattedAddress,
			)
			continue
		}

		c.metrics.GeocodeLookups.WithLabelValues(name, "hit").Inc()
		c.cache.Put(normalized, result.Coordinates, true)
		return result.Coordinates, name
	}

	// Give up. The negative entry keeps repeat queries for this address O(1).
	c.metrics.GeocodeFallbacks.Inc()
	c.cache.Put(normalized, domain.Coordinates{}, false)
	return fallback, SourceFallback
}

// verify checks a strategy result against the service-area bounds and the
// locality token extracted during normalization.
func (c *Chain) verify(result Result, locality string) bool {
	if !withinServiceArea(result.Coordinates) {
		return false
	}
	// A formatted address that names a different locality than the query
	// is a non-result: the geocoder found a same-named place elsewhere.
	if locality != "" && result.FormattedAddress != "" {
		return strings.Contains(result.FormattedAddress, locality)
	}
	// No formatted address to cross-check: accept only coordinates near
	// some place the gazetteer knows about.
	if _, dist, ok := c.gazetteer.Nearest(result.Coordinates); ok {
		return dist <= maxKnownAreaKm
	}
	return true
}

func withinServiceArea(c domain.Coordinates) bool {
	for _, a := range serviceAreas {
		if c.Latitude >= a.minLat && c.Latitude <= a.maxLat &&
			c.Longitude >= a.minLon && c.Longitude <= a.maxLon {
			return true
		}
	}
	return false
}
