package site

import "time"

// Site is a physical location personnel deploy to. A site may be
// geo-unconfigured (no coordinates); RadiusMeters is required and positive
// whenever coordinates are present.
type Site struct {
	ID           string
	AccountID    string
	Name         string
	Latitude     *float64
	Longitude    *float64
	RadiusMeters *int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// GeoConfigured reports whether the site carries a usable geofence.
func (s Site) GeoConfigured() bool {
	return s.Latitude != nil && s.Longitude != nil && s.RadiusMeters != nil && *s.RadiusMeters > 0
}
