package geocoding

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/agrismart/platform/backend/internal/domain/providers"
	"github.com/agrismart/platform/backend/internal/infrastructure/observability"
	apperrors "github.com/agrismart/platform/backend/pkg/errors"
)

const (
	nominatimBaseURL        = "https://nominatim.openstreetmap.org"
	defaultHTTPTimeout      = 15 * time.Second
	defaultDistrictCacheTTL = 60 * 60 * 24 * 30

	// minRequestInterval is the pacing Nominatim's usage policy asks for:
	// at most one request per second per client.
	minRequestInterval = time.Second

	// regionSuffix biases ambiguous queries toward the service area. It is
	// skipped when the caller already scoped the query to the country.
	regionSuffix = ", Tamil Nadu, India"
)

// districtFields are the address fields checked for a district, most
// specific first.
var districtFields = []string{"state_district", "district", "county", "region"}

// NominatimProvider implements GeocodingProvider against the OpenStreetMap
// Nominatim search API. Requests are serialized and paced to stay inside the
// public instance's rate limit; cache hits bypass the pacing entirely.
type NominatimProvider struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	cache      providers.CacheProvider
	metrics    *observability.Metrics

	mu       sync.Mutex
	lastCall time.Time
}

// NewNominatimProvider creates a new Nominatim geocoding provider.
func NewNominatimProvider(baseURL, userAgent string, cache providers.CacheProvider, metrics *observability.Metrics) providers.GeocodingProvider {
	return NewNominatimProviderWithOptions(baseURL, userAgent, cache, metrics, nil)
}

// NewNominatimProviderWithOptions allows overriding the HTTP client (used for tests).
func NewNominatimProviderWithOptions(baseURL, userAgent string, cache providers.CacheProvider, metrics *observability.Metrics, httpClient *http.Client) providers.GeocodingProvider {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = nominatimBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &NominatimProvider{
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  userAgent,
		httpClient: httpClient,
		cache:      cache,
		metrics:    metrics,
	}
}

type nominatimResult struct {
	DisplayName string            `json:"display_name"`
	Address     map[string]string `json:"address"`
}

// ResolveDistrict geocodes a free-text location and extracts its district.
func (p *NominatimProvider) ResolveDistrict(ctx context.Context, location string) (*providers.ResolvedDistrict, error) {
	trimmed := strings.TrimSpace(location)
	if trimmed == "" {
		return nil, apperrors.NewEmptyInputError("location is required")
	}

	query := trimmed
	if !strings.Contains(strings.ToLower(trimmed), "india") {
		query += regionSuffix
	}

	cacheKey := "geo:v1:district:" + hashKey(strings.ToLower(query))
	if p.cache != nil {
		if cached, err := p.cache.Get(ctx, cacheKey); err == nil && len(cached) > 0 {
			var resolved providers.ResolvedDistrict
			if err := json.Unmarshal(cached, &resolved); err == nil && resolved.District != "" {
				observability.RecordCacheHit(ctx, p.metrics, "geocode")
				return &resolved, nil
			}
		}
		observability.RecordCacheMiss(ctx, p.metrics, "geocode")
	}

	result, err := p.search(ctx, query)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, apperrors.NewGeocodeFailureError(
			fmt.Sprintf("no geocoding result for %q", trimmed), nil)
	}

	district := ""
	for _, field := range districtFields {
		if v := strings.TrimSpace(result.Address[field]); v != "" {
			district = v
			break
		}
	}
	if district == "" {
		keys := make([]string, 0, len(result.Address))
		for k := range result.Address {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return nil, apperrors.NewDistrictFieldMissingError(
			fmt.Sprintf("geocoding result for %q has no district field (got: %s)",
				trimmed, strings.Join(keys, ", ")))
	}

	resolved := &providers.ResolvedDistrict{
		District: district,
		Address:  result.Address,
	}

	if p.cache != nil {
		if payload, err := json.Marshal(resolved); err == nil {
			_ = p.cache.Set(ctx, cacheKey, payload, defaultDistrictCacheTTL)
		}
	}

	return resolved, nil
}

// search performs one paced request against the Nominatim search endpoint
// and returns its single best result, or nil when nothing matched.
func (p *NominatimProvider) search(ctx context.Context, query string) (*nominatimResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if wait := minRequestInterval - time.Since(p.lastCall); wait > 0 {
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return nil, apperrors.NewGeocodeFailureError("geocoding request cancelled", ctx.Err())
		}
	}
	p.lastCall = time.Now()

	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "jsonv2")
	params.Set("addressdetails", "1")
	params.Set("limit", "1")
	params.Set("countrycodes", "in")

	reqURL := p.baseURL + "/search?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, apperrors.NewGeocodeFailureError("failed to build geocoding request", err)
	}
	req.Header.Set("User-Agent", p.userAgent)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.NewGeocodeFailureError("geocoding request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.NewGeocodeFailureError(
			fmt.Sprintf("geocoding service returned status %d", resp.StatusCode), nil)
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, apperrors.NewGeocodeFailureError("failed to decode geocoding response", err)
	}
	if len(results) == 0 {
		return nil, nil
	}

	return &results[0], nil
}

func hashKey(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
