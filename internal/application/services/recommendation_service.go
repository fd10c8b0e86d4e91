package services

import (
	"context"
	"errors"

	"github.com/agrismart/platform/backend/internal/domain/entities"
	"github.com/agrismart/platform/backend/internal/domain/providers"
	"github.com/agrismart/platform/backend/internal/infrastructure/observability"
	"github.com/agrismart/platform/backend/internal/recommender"
	apperrors "github.com/agrismart/platform/backend/pkg/errors"
)

// RecommendationService resolves district input to IFS model recommendations.
// The district index is built once at construction and read concurrently.
type RecommendationService struct {
	index    *recommender.Index
	geocoder providers.GeocodingProvider
}

// NewRecommendationService creates a new recommendation service over the
// reference dataset.
func NewRecommendationService(records []recommender.Record, geocoder providers.GeocodingProvider) *RecommendationService {
	return &RecommendationService{
		index:    recommender.BuildIndex(records),
		geocoder: geocoder,
	}
}

// DistrictCount returns the number of distinct districts in the index.
func (s *RecommendationService) DistrictCount() int {
	return s.index.Len()
}

// Recommend routes to district or location resolution. An explicit district
// wins over free-text location when both are present.
func (s *RecommendationService) Recommend(ctx context.Context, location, district string) (*entities.RecommendationResponse, error) {
	switch {
	case district != "":
		return s.RecommendForDistrict(ctx, district)
	case location != "":
		return s.RecommendForLocation(ctx, location)
	default:
		return nil, apperrors.NewEmptyInputError("either district or location is required")
	}
}

// RecommendForDistrict matches a user-supplied district against the dataset
// and returns its deduplicated IFS models.
func (s *RecommendationService) RecommendForDistrict(ctx context.Context, district string) (*entities.RecommendationResponse, error) {
	_, span := observability.StartSpan(ctx, "recommendation.for_district")
	defer span.End()

	match, err := s.index.Match(district)
	if err != nil {
		if errors.Is(err, recommender.ErrEmptyInput) {
			return nil, apperrors.NewEmptyInputError("district input is empty")
		}
		var noMatch *recommender.NoMatchError
		if errors.As(err, &noMatch) {
			appErr := apperrors.NewNoMatchError("no district matched the input", err)
			observability.RecordError(span, appErr)
			return nil, appErr
		}
		return nil, apperrors.NewInternalError("district match failed", err)
	}

	items := dedupeRecommendations(s.index.Records(match.Key))

	return &entities.RecommendationResponse{
		InputDistrict:   district,
		MatchedDistrict: match.DisplayName,
		MatchScore:      match.Score,
		Recommendations: items,
	}, nil
}

// RecommendForLocation geocodes a free-text location to a district and then
// delegates to district matching, annotating the geocoding provenance.
func (s *RecommendationService) RecommendForLocation(ctx context.Context, location string) (*entities.RecommendationResponse, error) {
	ctx, span := observability.StartSpan(ctx, "recommendation.for_location")
	defer span.End()

	if s.geocoder == nil {
		return nil, apperrors.NewInternalError("no geocoding provider configured", nil)
	}

	resolved, err := s.geocoder.ResolveDistrict(ctx, location)
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}

	response, err := s.RecommendForDistrict(ctx, resolved.District)
	if err != nil {
		return nil, err
	}

	response.InputLocation = location
	response.GeocodedDistrict = resolved.District
	response.GeocodeAddress = resolved.Address
	return response, nil
}

// dedupeRecommendations collapses dataset rows that repeat the same model,
// description and zone, keeping first occurrence order.
func dedupeRecommendations(records []recommender.Record) []entities.RecommendationItem {
	type recKey struct {
		model       string
		description string
		zone        string
	}

	seen := make(map[recKey]struct{}, len(records))
	items := make([]entities.RecommendationItem, 0, len(records))
	for _, r := range records {
		key := recKey{model: r.ModelName, description: r.Description, zone: r.AgroClimaticZone}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		items = append(items, entities.RecommendationItem{
			Model:       r.ModelName,
			Zone:        r.AgroClimaticZone,
			Description: r.Description,
		})
	}
	return items
}
