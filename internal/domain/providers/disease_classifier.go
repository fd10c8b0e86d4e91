package providers

import (
	"context"

	"github.com/agrismart/platform/backend/internal/domain/entities"
)

// DiseaseClassifier runs leaf disease recognition on raw image bytes. The
// model itself is an external collaborator; failures surface as opaque
// errors with their message preserved.
type DiseaseClassifier interface {
	// Classify predicts the disease class for an image. topK bounds the
	// number of alternative predictions returned (at most 3).
	Classify(ctx context.Context, image []byte, topK int) (*entities.DiseaseResult, error)
}
