// Command geocode resolves a single address on the command line using the
// same resolution chain as the API server. Useful for checking how an
// address normalizes and which source ends up answering.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/koukeneko/wazai/internal/adapter/googlemaps"
	"github.com/koukeneko/wazai/internal/adapter/nominatim"
	"github.com/koukeneko/wazai/internal/adapter/positionstack"
	"github.com/koukeneko/wazai/internal/config"
	"github.com/koukeneko/wazai/internal/domain"
	"github.com/koukeneko/wazai/internal/geocode"
	"github.com/koukeneko/wazai/internal/observability"
)

var (
	offline bool
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "wazai-geocode <address>",
	Short: "Resolve an address to coordinates",
	Long: `Resolve an address through the normalization, gazetteer, and external
geocoder chain. API keys are read from the environment (or a .env file);
without them only the gazetteer and Nominatim are used.`,
	Args: cobra.ExactArgs(1),
	RunE: runGeocode,
}

func init() {
	rootCmd.Flags().BoolVar(&offline, "offline", false, "Skip external geocoders, use only the built-in gazetteer")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log chain decisions to stderr")
}

func main() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runGeocode(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	level := "error"
	if verbose {
		level = "debug"
	}
	logger := observability.NewLogger(level, "text")
	metrics := observability.NewMetricsForTesting()

	var strategies []geocode.Strategy
	if !offline {
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
	}

	chain := geocode.NewChain(geocode.NewCache(), geocode.NewGazetteer(), strategies, logger, metrics)

	address := args[0]
	coords, source := chain.ResolveDetailed(cmd.Context(), address, domain.Tokyo())

	fmt.Printf("address:    %s\n", address)
	fmt.Printf("normalized: %s\n", geocode.Normalize(address))
	fmt.Printf("source:     %s\n", source)
	fmt.Printf("latitude:   %.6f\n", coords.Latitude)
	fmt.Printf("longitude:  %.6f\n", coords.Longitude)
	if source == geocode.SourceFallback {
		fmt.Println("note:       address could not be resolved, showing fallback coordinates")
	}
	return nil
}
