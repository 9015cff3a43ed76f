// Package geocode resolves free-text venue addresses into coordinates.
//
// Resolution runs through an ordered chain of strategies: a process-wide
// cache, an offline gazetteer of known place names, and then external
// geocoding APIs in priority order. The chain never fails; when every
// strategy comes up empty the caller's default coordinate is returned,
// because an item without a coordinate cannot be rendered on the map.
package geocode

import (
	"context"

	"github.com/koukeneko/wazai/internal/domain"
)

// Result is what an external geocoder returns for one address.
type Result struct {
	Coordinates      domain.Coordinates
	FormattedAddress string

	// Found is false when the upstream answered but had no match.
	// A miss is a normal outcome, not an error.
	Found bool
}

// Geocoder is one external resolution strategy in the chain.
type Geocoder interface {
	// Geocode resolves an address. Returning an error means the upstream
	// misbehaved (network, HTTP status, decode); a clean "no match" is
	// Result{Found: false} with a nil error.
	Geocode(ctx context.Context, address string) (Result, error)

	// Name identifies the strategy in logs and metrics.
	Name() string
}

// Resolver is the boundary provider adapters consume. Resolve never fails:
// it falls back to the supplied default when no strategy finds the address.
type Resolver interface {
	Resolve(ctx context.Context, rawAddress string, fallback domain.Coordinates) domain.Coordinates
}
