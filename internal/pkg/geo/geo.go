package geo

import "math"

// EarthRadiusMeters is the mean radius of the Earth.
const EarthRadiusMeters = 6371000

// HaversineDistance returns the great-circle distance in meters between two
// WGS84 coordinate pairs.
func HaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * (math.Pi / 180.0)
	dLon := (lon2 - lon1) * (math.Pi / 180.0)

	lat1Rad := lat1 * (math.Pi / 180.0)
	lat2Rad := lat2 * (math.Pi / 180.0)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(lat1Rad)*math.Cos(lat2Rad)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusMeters * c
}

// WithinRadius reports whether the reported point lies within radiusMeters of
// the site point, boundary inclusive, and returns the computed distance.
func WithinRadius(siteLat, siteLng, radiusMeters, reportedLat, reportedLng float64) (bool, float64) {
	distance := HaversineDistance(siteLat, siteLng, reportedLat, reportedLng)
	return distance <= radiusMeters, distance
}
