// internal/geo/distance.go
// Great-circle distance between user coordinates

package geo

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
	orbgeo "github.com/paulmach/orb/geo"
)

// EarthRadiusKm is the mean Earth radius used by DistanceKm
const EarthRadiusKm = 6371.0

// Coordinate is a latitude/longitude pair in degrees
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// NewCoordinate builds a coordinate from optional parts.
// Missing, non-finite or out-of-range input yields nil ("location absent").
func NewCoordinate(lat, lng *float64) *Coordinate {
	if lat == nil || lng == nil {
		return nil
	}
	c := Coordinate{Lat: *lat, Lng: *lng}
	if !c.Valid() {
		return nil
	}
	return &c
}

// Valid reports whether both parts are finite and in range
func (c Coordinate) Valid() bool {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lng) || math.IsInf(c.Lat, 0) || math.IsInf(c.Lng, 0) {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

// Point converts to an orb point (lng, lat order)
func (c Coordinate) Point() orb.Point {
	return orb.Point{c.Lng, c.Lat}
}

func known(c *Coordinate) bool {
	return c != nil && c.Valid()
}

// Known reports whether both coordinates are present and valid
func Known(a, b *Coordinate) bool {
	return known(a) && known(b)
}

// DistanceKm returns the haversine distance in kilometers.
// Unknown or invalid input degrades to 0, never NaN or a negative value.
func DistanceKm(a, b *Coordinate) float64 {
	if !Known(a, b) {
		return 0
	}

	lat1 := toRadians(a.Lat)
	lat2 := toRadians(b.Lat)
	dLat := toRadians(b.Lat - a.Lat)
	dLng := toRadians(b.Lng - a.Lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)

	// rounding can push h slightly outside [0,1] near identical or antipodal points
	h = math.Max(0, math.Min(1, h))

	d := EarthRadiusKm * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	if math.IsNaN(d) || d < 0 {
		return 0
	}
	return d
}

// Within reports whether p falls inside the bounding box of radiusKm around center.
// It is a cheap pre-filter; callers still compare the exact distance.
func Within(center, p Coordinate, radiusKm float64) bool {
	if radiusKm <= 0 {
		return true
	}
	// orb measures on a 6378137 m sphere; scale so the box is never tighter than ours
	meters := radiusKm * 1000 * (orb.EarthRadius / (EarthRadiusKm * 1000)) * 1.01
	bound := orbgeo.NewBoundAroundPoint(center.Point(), meters)
	if !boxUsable(bound) {
		return true
	}
	return bound.Contains(p.Point())
}

// Label renders a distance for display.
// Under 1 km uses meters, up to 10 km one decimal, beyond that whole kilometers.
func Label(km float64, isKnown bool) string {
	if !isKnown {
		return "location not set"
	}
	switch {
	case km < 1:
		return fmt.Sprintf("%d m", int(math.Round(km*1000)))
	case km < 10:
		return fmt.Sprintf("%.1f km", km)
	default:
		return fmt.Sprintf("%d km", int(math.Round(km)))
	}
}

// boxUsable rejects boxes that wrap the antimeridian or a pole
func boxUsable(b orb.Bound) bool {
	for _, v := range []float64{b.Min.X(), b.Min.Y(), b.Max.X(), b.Max.Y()} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	if b.Min.X() > b.Max.X() || b.Min.Y() > b.Max.Y() {
		return false
	}
	return b.Min.X() >= -180 && b.Max.X() <= 180 && b.Min.Y() >= -90 && b.Max.Y() <= 90
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
