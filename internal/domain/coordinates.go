package domain

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidCoordinate is returned when a latitude or longitude is outside
// the valid WGS-84 range.
var ErrInvalidCoordinate = errors.New("invalid coordinate")

const earthRadiusKm = 6371

// Coordinates is an immutable latitude/longitude pair.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// NewCoordinates validates and constructs a coordinate pair.
// Latitude must be within [-90, 90] and longitude within [-180, 180].
func NewCoordinates(lat, lon float64) (Coordinates, error) {
	if lat < -90 || lat > 90 {
		return Coordinates{}, fmt.Errorf("%w: latitude %v out of range [-90, 90]", ErrInvalidCoordinate, lat)
	}
	if lon < -180 || lon > 180 {
		return Coordinates{}, fmt.Errorf("%w: longitude %v out of range [-180, 180]", ErrInvalidCoordinate, lon)
	}
	return Coordinates{Latitude: lat, Longitude: lon}, nil
}

// Common fallback locations for items whose venue could not be resolved.

func Tokyo() Coordinates     { return Coordinates{Latitude: 35.6812, Longitude: 139.7671} }
func Taipei() Coordinates    { return Coordinates{Latitude: 25.0330, Longitude: 121.5654} }
func Kaohsiung() Coordinates { return Coordinates{Latitude: 22.6273, Longitude: 120.3014} }
func Taichung() Coordinates  { return Coordinates{Latitude: 24.1477, Longitude: 120.6736} }

// DistanceTo returns the great-circle distance to other in kilometers,
// computed with the Haversine formula.
func (c Coordinates) DistanceTo(other Coordinates) float64 {
	latDelta := toRadians(other.Latitude - c.Latitude)
	lonDelta := toRadians(other.Longitude - c.Longitude)

	a := math.Sin(latDelta/2)*math.Sin(latDelta/2) +
		math.Cos(toRadians(c.Latitude))*math.Cos(toRadians(other.Latitude))*
			math.Sin(lonDelta/2)*math.Sin(lonDelta/2)

	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

func (c Coordinates) String() string {
	return fmt.Sprintf("(%.4f, %.4f)", c.Latitude, c.Longitude)
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
