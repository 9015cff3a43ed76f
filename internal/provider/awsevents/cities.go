package awsevents

import "github.com/koukeneko/wazai/internal/domain"

// defaultCoordinates is used when no city in the table matches; most
// unmatched listings are the global virtual events anchored to the US.
var defaultCoordinates = domain.Coordinates{Latitude: 40.7128, Longitude: -74.0060}

// cities maps venue city names to coordinates. Slice, not map: matching
// must be deterministic when a title mentions two cities.
var cities = []struct {
	name   string
	coords domain.Coordinates
}{
	// Americas
	{"New York", domain.Coordinates{Latitude: 40.7128, Longitude: -74.0060}},
	{"Los Angeles", domain.Coordinates{Latitude: 34.0522, Longitude: -118.2437}},
	{"San Francisco", domain.Coordinates{Latitude: 37.7749, Longitude: -122.4194}},
	{"Chicago", domain.Coordinates{Latitude: 41.8781, Longitude: -87.6298}},
	{"Toronto", domain.Coordinates{Latitude: 43.6532, Longitude: -79.3832}},
	{"Vancouver", domain.Coordinates{Latitude: 49.2827, Longitude: -123.1207}},
	{"Mexico City", domain.Coordinates{Latitude: 19.4326, Longitude: -99.1332}},
	{"Bogotá", domain.Coordinates{Latitude: 4.7110, Longitude: -74.0721}},
	{"São Paulo", domain.Coordinates{Latitude: -23.5505, Longitude: -46.6333}},
	{"Quito", domain.Coordinates{Latitude: -0.1807, Longitude: -78.4678}},

	// Europe
	{"London", domain.Coordinates{Latitude: 51.5074, Longitude: -0.1278}},
	{"Paris", domain.Coordinates{Latitude: 48.8566, Longitude: 2.3522}},
	{"Berlin", domain.Coordinates{Latitude: 52.5200, Longitude: 13.4050}},
	{"Amsterdam", domain.Coordinates{Latitude: 52.3676, Longitude: 4.9041}},
	{"Stockholm", domain.Coordinates{Latitude: 59.3293, Longitude: 18.0686}},
	{"Madrid", domain.Coordinates{Latitude: 40.4168, Longitude: -3.7038}},
	{"Milan", domain.Coordinates{Latitude: 45.4642, Longitude: 9.1900}},
	{"Zurich", domain.Coordinates{Latitude: 47.3769, Longitude: 8.5417}},
	{"Sofia", domain.Coordinates{Latitude: 42.6977, Longitude: 23.3219}},
	{"Zaragoza", domain.Coordinates{Latitude: 41.6488, Longitude: -0.8891}},

	// Asia Pacific
	{"Tokyo", domain.Coordinates{Latitude: 35.6762, Longitude: 139.6503}},
	{"Osaka", domain.Coordinates{Latitude: 34.6937, Longitude: 135.5023}},
	{"Singapore", domain.Coordinates{Latitude: 1.3521, Longitude: 103.8198}},
	{"Hong Kong", domain.Coordinates{Latitude: 22.3193, Longitude: 114.1694}},
	{"Seoul", domain.Coordinates{Latitude: 37.5665, Longitude: 126.9780}},
	{"Sydney", domain.Coordinates{Latitude: -33.8688, Longitude: 151.2093}},
	{"Melbourne", domain.Coordinates{Latitude: -37.8136, Longitude: 144.9631}},
	{"Mumbai", domain.Coordinates{Latitude: 19.0760, Longitude: 72.8777}},
	{"Bangkok", domain.Coordinates{Latitude: 13.7563, Longitude: 100.5018}},
	{"Taipei", domain.Coordinates{Latitude: 25.0330, Longitude: 121.5654}},

	// Africa
	{"Abuja", domain.Coordinates{Latitude: 9.0765, Longitude: 7.3986}},
	{"Kinshasa", domain.Coordinates{Latitude: -4.4419, Longitude: 15.2663}},
	{"Buea", domain.Coordinates{Latitude: 4.1560, Longitude: 9.2320}},
}
