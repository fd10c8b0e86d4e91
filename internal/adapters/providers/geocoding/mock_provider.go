package geocoding

import (
	"context"
	"strings"

	"github.com/agrismart/platform/backend/internal/domain/providers"
	apperrors "github.com/agrismart/platform/backend/pkg/errors"
)

// MockGeocodingProvider implements a mock geocoding provider for local
// development without hitting the public Nominatim instance.
type MockGeocodingProvider struct{}

// NewMockGeocodingProvider creates a new mock geocoding provider
func NewMockGeocodingProvider() providers.GeocodingProvider {
	return &MockGeocodingProvider{}
}

// ResolveDistrict maps a handful of well-known Tamil Nadu places to their
// districts and fails for anything else, mirroring the real provider's errors.
func (m *MockGeocodingProvider) ResolveDistrict(ctx context.Context, location string) (*providers.ResolvedDistrict, error) {
	trimmed := strings.TrimSpace(location)
	if trimmed == "" {
		return nil, apperrors.NewEmptyInputError("location is required")
	}

	mockDistricts := map[string]string{
		"tambaram":      "Chengalpattu",
		"chengalpattu":  "Chengalpattu",
		"sriperumbudur": "Kanchipuram",
		"pollachi":      "Coimbatore",
		"kumbakonam":    "Thanjavur",
		"usilampatti":   "Madurai",
	}

	lower := strings.ToLower(trimmed)
	for place, district := range mockDistricts {
		if strings.Contains(lower, place) {
			return &providers.ResolvedDistrict{
				District: district,
				Address: map[string]string{
					"state_district": district,
					"state":          "Tamil Nadu",
					"country":        "India",
				},
			}, nil
		}
	}

	return nil, apperrors.NewGeocodeFailureError("no geocoding result for "+trimmed, nil)
}
