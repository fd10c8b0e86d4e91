package geocoding_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrismart/platform/backend/internal/adapters/providers/geocoding"
	apperrors "github.com/agrismart/platform/backend/pkg/errors"
)

type memoryCache struct {
	mu    sync.Mutex
	store map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{store: map[string][]byte{}}
}

func (c *memoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.store[key]; ok {
		return v, nil
	}
	return nil, fmt.Errorf("key not found: %s", key)
}

func (c *memoryCache) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store[key] = value
	return nil
}

func (c *memoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.store, key)
	return nil
}

func (c *memoryCache) Exists(ctx context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.store[key]
	return ok, nil
}

func geocodeServer(t *testing.T, handler func(r *http.Request) (int, string)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		status, body := handler(r)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
}

func TestResolveDistrict_Success(t *testing.T) {
	var gotQuery, gotUserAgent string
	server := geocodeServer(t, func(r *http.Request) (int, string) {
		gotQuery = r.URL.Query().Get("q")
		gotUserAgent = r.Header.Get("User-Agent")
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "jsonv2", r.URL.Query().Get("format"))
		assert.Equal(t, "1", r.URL.Query().Get("addressdetails"))
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		assert.Equal(t, "in", r.URL.Query().Get("countrycodes"))
		return http.StatusOK, `[{
			"display_name": "Tambaram, Chengalpattu, Tamil Nadu, India",
			"address": {
				"suburb": "Tambaram",
				"state_district": "Chengalpattu",
				"state": "Tamil Nadu",
				"country": "India"
			}
		}]`
	})
	defer server.Close()

	provider := geocoding.NewNominatimProviderWithOptions(server.URL, "test-agent/1.0", nil, nil, server.Client())

	resolved, err := provider.ResolveDistrict(context.Background(), "near Tambaram")
	require.NoError(t, err)

	assert.Equal(t, "Chengalpattu", resolved.District)
	assert.Equal(t, "Tamil Nadu", resolved.Address["state"])
	assert.Equal(t, "near Tambaram, Tamil Nadu, India", gotQuery)
	assert.Equal(t, "test-agent/1.0", gotUserAgent)
}

func TestResolveDistrict_SkipsSuffixWhenCountryPresent(t *testing.T) {
	var gotQuery string
	server := geocodeServer(t, func(r *http.Request) (int, string) {
		gotQuery = r.URL.Query().Get("q")
		return http.StatusOK, `[{"address": {"state_district": "Madurai"}}]`
	})
	defer server.Close()

	provider := geocoding.NewNominatimProviderWithOptions(server.URL, "test-agent/1.0", nil, nil, server.Client())

	_, err := provider.ResolveDistrict(context.Background(), "Usilampatti, India")
	require.NoError(t, err)
	assert.Equal(t, "Usilampatti, India", gotQuery)
}

func TestResolveDistrict_FieldPriority(t *testing.T) {
	cases := []struct {
		name    string
		address string
		want    string
	}{
		{
			name:    "state_district beats county",
			address: `{"state_district": "Chengalpattu", "county": "Tambaram Taluk"}`,
			want:    "Chengalpattu",
		},
		{
			name:    "district beats county",
			address: `{"district": "Kanchipuram", "county": "Sriperumbudur Taluk"}`,
			want:    "Kanchipuram",
		},
		{
			name:    "county when nothing better",
			address: `{"county": "Coimbatore", "region": "Kongu Nadu"}`,
			want:    "Coimbatore",
		},
		{
			name:    "region as last resort",
			address: `{"region": "Thanjavur", "state": "Tamil Nadu"}`,
			want:    "Thanjavur",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := geocodeServer(t, func(r *http.Request) (int, string) {
				return http.StatusOK, `[{"address": ` + tc.address + `}]`
			})
			defer server.Close()

			provider := geocoding.NewNominatimProviderWithOptions(server.URL, "test-agent/1.0", nil, nil, server.Client())

			resolved, err := provider.ResolveDistrict(context.Background(), "somewhere")
			require.NoError(t, err)
			assert.Equal(t, tc.want, resolved.District)
		})
	}
}

func TestResolveDistrict_EmptyLocation(t *testing.T) {
	provider := geocoding.NewNominatimProviderWithOptions("http://unused", "test-agent/1.0", nil, nil, nil)

	_, err := provider.ResolveDistrict(context.Background(), "   ")
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorTypeEmptyInput, appErr.Type)
}

func TestResolveDistrict_NoResults(t *testing.T) {
	server := geocodeServer(t, func(r *http.Request) (int, string) {
		return http.StatusOK, `[]`
	})
	defer server.Close()

	provider := geocoding.NewNominatimProviderWithOptions(server.URL, "test-agent/1.0", nil, nil, server.Client())

	_, err := provider.ResolveDistrict(context.Background(), "Atlantis")
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorTypeGeocodeFailure, appErr.Type)
}

func TestResolveDistrict_DistrictFieldMissing(t *testing.T) {
	server := geocodeServer(t, func(r *http.Request) (int, string) {
		return http.StatusOK, `[{"address": {"state": "Tamil Nadu", "country": "India"}}]`
	})
	defer server.Close()

	provider := geocoding.NewNominatimProviderWithOptions(server.URL, "test-agent/1.0", nil, nil, server.Client())

	_, err := provider.ResolveDistrict(context.Background(), "middle of nowhere")
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorTypeDistrictFieldMissing, appErr.Type)
	assert.Contains(t, appErr.Message, "country, state")
}

func TestResolveDistrict_ServerError(t *testing.T) {
	server := geocodeServer(t, func(r *http.Request) (int, string) {
		return http.StatusTooManyRequests, `{"error": "rate limited"}`
	})
	defer server.Close()

	provider := geocoding.NewNominatimProviderWithOptions(server.URL, "test-agent/1.0", nil, nil, server.Client())

	_, err := provider.ResolveDistrict(context.Background(), "Pollachi")
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorTypeGeocodeFailure, appErr.Type)
	assert.Contains(t, appErr.Message, "429")
}

func TestResolveDistrict_CacheHitSkipsLookup(t *testing.T) {
	calls := 0
	server := geocodeServer(t, func(r *http.Request) (int, string) {
		calls++
		return http.StatusOK, `[{"address": {"state_district": "Chengalpattu"}}]`
	})
	defer server.Close()

	cache := newMemoryCache()
	provider := geocoding.NewNominatimProviderWithOptions(server.URL, "test-agent/1.0", cache, nil, server.Client())

	first, err := provider.ResolveDistrict(context.Background(), "Tambaram")
	require.NoError(t, err)
	require.Equal(t, 1, calls)

	second, err := provider.ResolveDistrict(context.Background(), "Tambaram")
	require.NoError(t, err)
	assert.Equal(t, 1, calls, "second resolve should be served from cache")
	assert.Equal(t, first.District, second.District)

	var stored int
	for key := range cache.store {
		assert.Contains(t, key, "geo:v1:district:")
		stored++
	}
	assert.Equal(t, 1, stored)

	var resolved struct {
		District string `json:"District"`
	}
	for _, v := range cache.store {
		require.NoError(t, json.Unmarshal(v, &resolved))
	}
	assert.Equal(t, "Chengalpattu", resolved.District)
}
