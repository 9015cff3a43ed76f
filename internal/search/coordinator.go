// Package search fans a query out across every registered provider and
// merges the results.
package search

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/koukeneko/wazai/internal/domain"
	"github.com/koukeneko/wazai/internal/observability"
	"github.com/koukeneko/wazai/internal/provider"
)

// Record summarizes one completed search for the audit trail.
type Record struct {
	Keyword        string         `json:"keyword"`
	Country        string         `json:"country"`
	ProviderFilter string         `json:"provider_filter"`
	PerProvider    map[string]int `json:"per_provider"`
	Total          int            `json:"total"`
	Duration       time.Duration  `json:"duration"`
	At             time.Time      `json:"at"`
}

// Auditor receives a record after each search. Implementations must not
// block: the coordinator publishes asynchronously and never waits.
type Auditor interface {
	Publish(ctx context.Context, rec Record)
}

// Coordinator fans searches out over registered providers. One slow or
// failing provider costs its own results, never the whole query.
type Coordinator struct {
	providers       []provider.Provider
	providerTimeout time.Duration
	auditor         Auditor
	logger          *slog.Logger
	metrics         *observability.Metrics
}

// NewCoordinator registers providers in the order their results should
// merge. auditor may be nil.
func NewCoordinator(providers []provider.Provider, providerTimeout time.Duration, auditor Auditor, logger *slog.Logger, metrics *observability.Metrics) *Coordinator {
	return &Coordinator{
		providers:       providers,
		providerTimeout: providerTimeout,
		auditor:         auditor,
		logger:          logger,
		metrics:         metrics,
	}
}

// ProviderNames lists the registered providers in registration order.
func (c *Coordinator) ProviderNames() []string {
	names := make([]string, len(c.providers))
	for i, p := range c.providers {
		names[i] = p.Name()
	}
	return names
}

// SearchAll queries every registered provider concurrently and merges the
// results in registration order.
//
// providerFilter is a case-insensitive substring over provider names;
// non-matching providers are never invoked. Blank and "ALL" select every
// provider. country narrows results to one country when it parses ("TW",
// "JP"); unrecognized values, including "ALL", disable the filter rather
// than failing the query.
func (c *Coordinator) SearchAll(ctx context.Context, keyword, country, providerFilter string) []domain.MapItem {
	start := time.Now()
	c.metrics.SearchRequests.Inc()

	selected := c.selectProviders(providerFilter)

	results := make([][]domain.MapItem, len(selected))
	g, gctx := errgroup.WithContext(ctx)
	for i, p := range selected {
		g.Go(func() error {
			results[i] = c.searchOne(gctx, p, keyword)
			return nil
		})
	}
	_ = g.Wait() // goroutines swallow their own errors

	perProvider := make(map[string]int, len(selected))
	var merged []domain.MapItem
	for i, p := range selected {
		perProvider[p.Name()] = len(results[i])
		merged = append(merged, results[i]...)
	}

	if wanted, ok := domain.ParseCountry(country); ok {
		merged = filterCountry(merged, wanted)
	}

	elapsed := time.Since(start)
	c.metrics.SearchDuration.Observe(elapsed.Seconds())
	c.metrics.ItemsReturned.Observe(float64(len(merged)))
	c.logger.Info("search completed",
		"keyword", keyword,
		"country", country,
		"provider_filter", providerFilter,
		"providers", len(selected),
		"items", len(merged),
		"duration", elapsed,
	)

	if c.auditor != nil {
		rec := Record{
			Keyword:        keyword,
			Country:        country,
			ProviderFilter: providerFilter,
			PerProvider:    perProvider,
			Total:          len(merged),
			Duration:       elapsed,
			At:             start.UTC(),
		}
		// Detached from the request context: the audit trail outlives
		// the HTTP response.
		go c.auditor.Publish(context.WithoutCancel(ctx), rec)
	}

	return merged
}

// searchOne runs a single provider under its own timeout and absorbs its
// failure.
func (c *Coordinator) searchOne(ctx context.Context, p provider.Provider, keyword string) []domain.MapItem {
	ctx, cancel := context.WithTimeout(ctx, c.providerTimeout)
	defer cancel()

	start := time.Now()
	items, err := p.Search(ctx, keyword)
	c.metrics.ProviderDuration.WithLabelValues(p.Name()).Observe(time.Since(start).Seconds())

	if err != nil {
		c.metrics.ProviderSearches.WithLabelValues(p.Name(), "error").Inc()
		c.logger.Warn("provider search failed", "provider", p.Name(), "keyword", keyword, "error", err)
		return nil
	}

	c.metrics.ProviderSearches.WithLabelValues(p.Name(), "ok").Inc()
	return items
}

func (c *Coordinator) selectProviders(providerFilter string) []provider.Provider {
	filter := strings.ToLower(strings.TrimSpace(providerFilter))
	// "ALL" is the no-filter sentinel, same as for the country parameter.
	if filter == "" || filter == "all" {
		return c.providers
	}

	var selected []provider.Provider
	for _, p := range c.providers {
		if strings.Contains(strings.ToLower(p.Name()), filter) {
			selected = append(selected, p)
		}
	}
	return selected
}

func filterCountry(items []domain.MapItem, wanted domain.Country) []domain.MapItem {
	filtered := items[:0]
	for _, item := range items {
		if item.Common().Country == wanted {
			filtered = append(filtered, item)
		}
	}
	return filtered
}
