// Package provider defines the contract every activity source implements.
//
// Adapters live in subpackages, one per upstream platform. Each one fetches
// and transforms its source's data into domain items; the coordinator in
// internal/search owns fan-out, timeouts, and failure isolation.
package provider

import (
	"context"

	"github.com/koukeneko/wazai/internal/domain"
)

// Provider is one searchable activity source.
type Provider interface {
	// Search returns the items matching a keyword. A blank keyword means
	// "everything this source offers" unless the source is too broad to
	// enumerate. Returning an error fails this provider only; the
	// coordinator isolates it from the rest of the fan-out.
	Search(ctx context.Context, keyword string) ([]domain.MapItem, error)

	// Name identifies the provider in API responses, logs, and metrics.
	Name() string
}
