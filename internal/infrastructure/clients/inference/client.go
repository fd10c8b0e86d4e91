package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/agrismart/platform/backend/internal/domain/entities"
	"github.com/agrismart/platform/backend/internal/domain/providers"
	"github.com/agrismart/platform/backend/pkg/config"
)

const (
	defaultTimeout = 120 * time.Second
	maxTopK        = 3
)

// HTTPClient calls the disease inference service over HTTP. The model behind
// it is opaque: raw image bytes in, class/confidence/top-k out.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPClient creates a new inference client from configuration.
func NewHTTPClient(cfg *config.ClassifierConfig) providers.DiseaseClassifier {
	timeout := defaultTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	return NewHTTPClientWithOptions(cfg.URL, &http.Client{Timeout: timeout})
}

// NewHTTPClientWithOptions allows overriding the base URL and HTTP client
// (used for tests).
func NewHTTPClientWithOptions(baseURL string, httpClient *http.Client) providers.DiseaseClassifier {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

type predictResponse struct {
	Class      string  `json:"class"`
	Confidence float64 `json:"confidence"`
	Top        []struct {
		Class      string  `json:"class"`
		Confidence float64 `json:"confidence"`
	} `json:"top"`
}

// Classify sends image bytes to the inference service and validates the
// response against the collaborator contract: confidence is a numeric
// fraction in [0,1] and top holds at most three entries sorted descending.
// Any other representation is a contract violation, not a value to coerce.
func (c *HTTPClient) Classify(ctx context.Context, image []byte, topK int) (*entities.DiseaseResult, error) {
	if len(image) == 0 {
		return nil, fmt.Errorf("empty image payload")
	}
	if topK <= 0 || topK > maxTopK {
		topK = maxTopK
	}

	reqURL := c.baseURL + "/predict?top_k=" + strconv.Itoa(topK)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(image))
	if err != nil {
		return nil, fmt.Errorf("failed to build inference request: %w", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("inference request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("inference service returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode inference response: %w", err)
	}

	return toDiseaseResult(payload)
}

func toDiseaseResult(payload predictResponse) (*entities.DiseaseResult, error) {
	if payload.Class == "" {
		return nil, fmt.Errorf("inference response missing class")
	}
	if payload.Confidence < 0 || payload.Confidence > 1 {
		return nil, fmt.Errorf("inference confidence %v outside [0,1]", payload.Confidence)
	}
	if len(payload.Top) > maxTopK {
		return nil, fmt.Errorf("inference response returned %d top entries, want at most %d", len(payload.Top), maxTopK)
	}

	result := &entities.DiseaseResult{
		Class:      payload.Class,
		Confidence: payload.Confidence,
	}
	prev := 1.0
	for _, p := range payload.Top {
		if p.Confidence < 0 || p.Confidence > 1 {
			return nil, fmt.Errorf("inference top confidence %v outside [0,1]", p.Confidence)
		}
		if p.Confidence > prev {
			return nil, fmt.Errorf("inference top entries not sorted by confidence")
		}
		prev = p.Confidence
		result.Top = append(result.Top, entities.DiseasePrediction{
			Class:      p.Class,
			Confidence: p.Confidence,
		})
	}
	return result, nil
}
