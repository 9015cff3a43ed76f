package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/koukeneko/wazai/internal/adapter/googlemaps"
	"github.com/koukeneko/wazai/internal/adapter/httpapi"
	kafkaadapter "github.com/koukeneko/wazai/internal/adapter/kafka"
	"github.com/koukeneko/wazai/internal/adapter/nominatim"
	"github.com/koukeneko/wazai/internal/adapter/positionstack"
	"github.com/koukeneko/wazai/internal/config"
	"github.com/koukeneko/wazai/internal/geocode"
	"github.com/koukeneko/wazai/internal/observability"
	"github.com/koukeneko/wazai/internal/provider"
	"github.com/koukeneko/wazai/internal/provider/awsevents"
	"github.com/koukeneko/wazai/internal/provider/connpass"
	"github.com/koukeneko/wazai/internal/provider/doorkeeper"
	"github.com/koukeneko/wazai/internal/provider/gdg"
	"github.com/koukeneko/wazai/internal/provider/meetup"
	"github.com/koukeneko/wazai/internal/provider/taiwantech"
	"github.com/koukeneko/wazai/internal/provider/techplay"
	"github.com/koukeneko/wazai/internal/search"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	chain := buildGeocodeChain(cfg, logger, metrics)

	providers := buildProviders(cfg, chain, logger)

	// Audit publishing is optional; searches run unaudited when Kafka is
	// not configured.
	var auditor search.Auditor
	var auditPublisher *kafkaadapter.AuditPublisher
	if cfg.AuditEnabled() {
		auditPublisher = kafkaadapter.NewAuditPublisher(cfg.KafkaBrokers, cfg.KafkaAuditTopic, logger, metrics)
		auditor = auditPublisher
		logger.Info("search auditing enabled", "topic", cfg.KafkaAuditTopic, "brokers", cfg.KafkaBrokers)
	} else {
		logger.Info("search auditing disabled")
	}

	coordinator := search.NewCoordinator(providers, cfg.ProviderTimeout, auditor, logger, metrics)

	api := httpapi.NewServer(coordinator, httpapi.Options{
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
		AllowOrigins:   cfg.CORSAllowOrigins,
	}, logger, metrics)

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: api,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("http server listening", "addr", cfg.HTTPAddr, "providers", coordinator.ProviderNames())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if auditPublisher != nil {
		if err := auditPublisher.Close(); err != nil {
			logger.Error("audit publisher close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}

// buildGeocodeChain assembles the resolution chain: cache and gazetteer
// first, then external geocoders in cost order. Keyed services only join
// when their credential is configured; Nominatim always runs behind its
// usage-policy interval gate.
func buildGeocodeChain(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) *geocode.Chain {
	var strategies []geocode.Strategy

	if cfg.GoogleMapsAPIKey != "" {
		strategies = append(strategies, geocode.Strategy{
			Geocoder: googlemaps.NewClient(cfg.GoogleMapsAPIKey, cfg.GeocodeTimeout, logger),
			Verify:   true,
		})
	}

	gate := geocode.NewIntervalGate(cfg.NominatimInterval)
	strategies = append(strategies, geocode.Strategy{
		Geocoder: nominatim.NewClient(cfg.GeocodeTimeout, gate, logger, metrics),
	})

	if cfg.PositionStackKey != "" {
		strategies = append(strategies, geocode.Strategy{
			Geocoder: positionstack.NewClient(cfg.PositionStackKey, cfg.GeocodeTimeout, logger),
			Verify:   true,
		})
	}

	return geocode.NewChain(geocode.NewCache(), geocode.NewGazetteer(), strategies, logger, metrics)
}

// buildProviders constructs every event source. Registration order is
// merge order in search responses.
func buildProviders(cfg *config.Config, resolver geocode.Resolver, logger *slog.Logger) []provider.Provider {
	providers := []provider.Provider{
		connpass.NewClient(cfg.ConnpassToken, cfg.ProviderTimeout, logger),
		doorkeeper.NewClient(cfg.DoorkeeperToken, cfg.ProviderTimeout, logger),
		techplay.NewClient(cfg.ProviderTimeout, resolver, logger),
		gdg.NewClient(cfg.ProviderTimeout, logger),
		meetup.NewClient(cfg.ProviderTimeout, logger),
		awsevents.NewClient(cfg.ProviderTimeout, logger),
	}

	taiwan, err := taiwantech.NewProvider(logger)
	if err != nil {
		logger.Error("failed to load taiwan community events, source disabled", "error", err)
		return providers
	}
	return append(providers, taiwan)
}
