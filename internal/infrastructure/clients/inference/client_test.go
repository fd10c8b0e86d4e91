package inference_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/agrismart/platform/backend/internal/infrastructure/clients/inference"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/predict", r.URL.Path)
		assert.Equal(t, "3", r.URL.Query().Get("top_k"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"class": "Tomato___Late_blight",
			"confidence": 0.93,
			"top": [
				{"class": "Tomato___Late_blight", "confidence": 0.93},
				{"class": "Tomato___Early_blight", "confidence": 0.05},
				{"class": "Tomato___healthy", "confidence": 0.01}
			]
		}`))
	}))
	defer server.Close()

	client := inference.NewHTTPClientWithOptions(server.URL, server.Client())

	result, err := client.Classify(context.Background(), []byte{0xFF, 0xD8}, 3)
	require.NoError(t, err)

	assert.Equal(t, "Tomato___Late_blight", result.Class)
	assert.InDelta(t, 0.93, result.Confidence, 1e-9)
	require.Len(t, result.Top, 3)
	assert.Equal(t, "Tomato___Early_blight", result.Top[1].Class)
}

func TestClassify_EmptyImage(t *testing.T) {
	client := inference.NewHTTPClientWithOptions("http://unused", nil)

	_, err := client.Classify(context.Background(), nil, 3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty image payload")
}

func TestClassify_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := inference.NewHTTPClientWithOptions(server.URL, server.Client())

	_, err := client.Classify(context.Background(), []byte{0x01}, 3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
	assert.Contains(t, err.Error(), "model not loaded")
}

func TestClassify_ContractViolations(t *testing.T) {
	cases := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name:    "string confidence",
			body:    `{"class": "x", "confidence": "93%", "top": []}`,
			wantErr: "decode",
		},
		{
			name:    "confidence above one",
			body:    `{"class": "x", "confidence": 93.0, "top": []}`,
			wantErr: "outside [0,1]",
		},
		{
			name:    "missing class",
			body:    `{"confidence": 0.4, "top": []}`,
			wantErr: "missing class",
		},
		{
			name: "too many top entries",
			body: `{"class": "x", "confidence": 0.9, "top": [
				{"class": "a", "confidence": 0.9},
				{"class": "b", "confidence": 0.05},
				{"class": "c", "confidence": 0.03},
				{"class": "d", "confidence": 0.02}
			]}`,
			wantErr: "at most 3",
		},
		{
			name: "unsorted top entries",
			body: `{"class": "x", "confidence": 0.9, "top": [
				{"class": "b", "confidence": 0.05},
				{"class": "a", "confidence": 0.9}
			]}`,
			wantErr: "not sorted",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(tc.body))
			}))
			defer server.Close()

			client := inference.NewHTTPClientWithOptions(server.URL, server.Client())

			_, err := client.Classify(context.Background(), []byte{0x01}, 3)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}
