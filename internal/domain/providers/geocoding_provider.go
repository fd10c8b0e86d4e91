package providers

import (
	"context"
)

// ResolvedDistrict is the outcome of resolving a free-text location.
type ResolvedDistrict struct {
	// District is the district-like field extracted from the geocoder's
	// address details.
	District string

	// Address holds the raw address fields returned by the geocoder.
	Address map[string]string
}

// GeocodingProvider resolves free-text locations to an administrative
// district via an external lookup service.
type GeocodingProvider interface {
	// ResolveDistrict geocodes a location and extracts its district.
	ResolveDistrict(ctx context.Context, location string) (*ResolvedDistrict, error)
}
