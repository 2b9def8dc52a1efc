package geo

import (
	"math"
	"strconv"
)

// Point is a coordinate in decimal degrees.
type Point struct {
	Latitude  float64
	Longitude float64
}

const earthRadiusKm = 6371

// Distance returns the great-circle distance between two points in
// kilometers using the haversine formula. Inputs are assumed valid;
// callers validate via ParsePoint.
func Distance(from, to Point) float64 {
	lat1 := radians(from.Latitude)
	lat2 := radians(to.Latitude)
	deltaLat := radians(to.Latitude - from.Latitude)
	deltaLng := radians(to.Longitude - from.Longitude)

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(deltaLng/2)*math.Sin(deltaLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

// ParsePoint parses a lat/lng query parameter pair. Both values must be
// present, parseable and in range; anything else means no usable location
// and returns nil.
func ParsePoint(latValue, lngValue string) *Point {
	if latValue == "" || lngValue == "" {
		return nil
	}

	lat, err := strconv.ParseFloat(latValue, 64)
	if err != nil {
		return nil
	}

	lng, err := strconv.ParseFloat(lngValue, 64)
	if err != nil {
		return nil
	}

	if !valid(lat, lng) {
		return nil
	}

	return &Point{Latitude: lat, Longitude: lng}
}

func valid(lat, lng float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lng) {
		return false
	}

	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

func radians(degrees float64) float64 {
	return degrees * math.Pi / 180
}
