package geo

import (
	"math"
	"testing"
)

func TestHaversineDistanceZeroForIdenticalPoints(t *testing.T) {
	d := HaversineDistance(28.6139, 77.2090, 28.6139, 77.2090)
	if d != 0 {
		t.Errorf("HaversineDistance(same point) = %v, want 0", d)
	}
}

func TestHaversineDistanceSymmetric(t *testing.T) {
	cases := []struct {
		lat1, lon1, lat2, lon2 float64
	}{
		{28.6139, 77.2090, 28.7041, 77.1025},
		{-6.2088, 106.8456, -6.1751, 106.8650},
		{51.5074, -0.1278, 48.8566, 2.3522},
	}
	for _, c := range cases {
		ab := HaversineDistance(c.lat1, c.lon1, c.lat2, c.lon2)
		ba := HaversineDistance(c.lat2, c.lon2, c.lat1, c.lon1)
		if math.Abs(ab-ba) > 1e-9 {
			t.Errorf("distance not symmetric: %v vs %v", ab, ba)
		}
	}
}

func TestHaversineDistanceKnownValue(t *testing.T) {
	// 0.0045 degrees of latitude is roughly 500 meters.
	d := HaversineDistance(28.6139, 77.2090, 28.6184, 77.2090)
	if d < 495 || d > 505 {
		t.Errorf("HaversineDistance = %v, want ~500", d)
	}
}

func TestWithinRadiusBoundaryInclusive(t *testing.T) {
	siteLat, siteLng := 28.6139, 77.2090
	_, d := WithinRadius(siteLat, siteLng, 0, siteLat, siteLng+0.001)

	// A point exactly at the radius is classified as within range.
	within, _ := WithinRadius(siteLat, siteLng, d, siteLat, siteLng+0.001)
	if !within {
		t.Error("point exactly at radius should be within range")
	}

	within, _ = WithinRadius(siteLat, siteLng, d-0.01, siteLat, siteLng+0.001)
	if within {
		t.Error("point just beyond radius should be out of range")
	}
}

func TestWithinRadiusOutOfRange(t *testing.T) {
	// ~500m away from site with a 200m geofence.
	within, d := WithinRadius(28.6139, 77.2090, 200, 28.6184, 77.2090)
	if within {
		t.Errorf("point %vm away should be outside 200m radius", d)
	}
	if d < 495 || d > 505 {
		t.Errorf("distance = %v, want ~500", d)
	}
}
