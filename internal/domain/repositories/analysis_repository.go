package repositories

import (
	"context"

	"github.com/agrismart/platform/backend/internal/domain/entities"
)

// AnalysisRepository defines the interface for analysis history persistence.
type AnalysisRepository interface {
	// Create inserts one analysis record, assigning its identity and
	// creation timestamp when unset.
	Create(ctx context.Context, record *entities.AnalysisRecord) error

	// List returns history summaries ordered by recency.
	List(ctx context.Context, limit, offset int) ([]*entities.AnalysisSummary, error)

	// GetByID returns one full record, or a not-found error.
	GetByID(ctx context.Context, id string) (*entities.AnalysisRecord, error)
}
