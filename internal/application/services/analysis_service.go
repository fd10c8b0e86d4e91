package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/agrismart/platform/backend/internal/domain/entities"
	"github.com/agrismart/platform/backend/internal/domain/providers"
	"github.com/agrismart/platform/backend/internal/domain/repositories"
	"github.com/agrismart/platform/backend/internal/infrastructure/observability"
	apperrors "github.com/agrismart/platform/backend/pkg/errors"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 200
)

// AnalyzeInput carries one combined analysis request: a leaf image for the
// disease branch plus district or free-text location for the IFS branch.
type AnalyzeInput struct {
	Image    []byte
	Location string
	District string
	Crop     string
	SoilType string
	TopK     int
}

// AnalysisService orchestrates the two analysis branches. Both branches always
// run to completion independently: a failure on one side never cancels the
// other, and whatever succeeded is still persisted and returned.
type AnalysisService struct {
	classifier      providers.DiseaseClassifier
	recommendations *RecommendationService
	repo            repositories.AnalysisRepository
	metrics         *observability.Metrics
}

// NewAnalysisService creates a new analysis orchestration service
func NewAnalysisService(
	classifier providers.DiseaseClassifier,
	recommendations *RecommendationService,
	repo repositories.AnalysisRepository,
	metrics *observability.Metrics,
) *AnalysisService {
	return &AnalysisService{
		classifier:      classifier,
		recommendations: recommendations,
		repo:            repo,
		metrics:         metrics,
	}
}

// Analyze validates the request, fans out to both branches, waits for both to
// settle, and persists one record per call. Preconditions fail the whole
// request before either branch is dispatched.
func (s *AnalysisService) Analyze(ctx context.Context, input AnalyzeInput) (*entities.AnalysisRecord, error) {
	ctx, span := observability.StartSpan(ctx, "analysis.analyze")
	defer span.End()

	if len(input.Image) == 0 {
		return nil, apperrors.NewValidationError("image is required")
	}
	location := strings.TrimSpace(input.Location)
	district := strings.TrimSpace(input.District)
	if location == "" && district == "" {
		return nil, apperrors.NewValidationError("either district or location is required")
	}

	logger := observability.LoggerFromContext(ctx)

	var (
		wg sync.WaitGroup

		diseaseResult *entities.DiseaseResult
		diseaseErr    error

		ifsResult *entities.RecommendationResponse
		ifsErr    error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		diseaseResult, diseaseErr = s.classifier.Classify(ctx, input.Image, input.TopK)
	}()
	go func() {
		defer wg.Done()
		ifsResult, ifsErr = s.recommendations.Recommend(ctx, location, district)
	}()
	wg.Wait()

	if diseaseErr != nil {
		logger.Warn().Err(diseaseErr).Msg("disease branch failed")
		observability.RecordBranchFailure(ctx, s.metrics, "disease")
	}
	if ifsErr != nil {
		logger.Warn().Err(ifsErr).Msg("recommendation branch failed")
		observability.RecordBranchFailure(ctx, s.metrics, "ifs")
	}

	if diseaseErr != nil && ifsErr != nil {
		observability.RecordAnalyzeOutcome(ctx, s.metrics, "failed")
		err := apperrors.NewAnalysisFailedError(
			fmt.Sprintf("both analysis branches failed: disease: %v; recommendation: %v", diseaseErr, ifsErr),
			ifsErr,
		)
		observability.RecordError(span, err)
		return nil, err
	}

	record := &entities.AnalysisRecord{
		Location: location,
		District: district,
		Crop:     strings.TrimSpace(input.Crop),
		SoilType: strings.TrimSpace(input.SoilType),
	}

	if diseaseErr == nil {
		payload, err := json.Marshal(diseaseResult)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to encode disease result", err)
		}
		record.DiseaseResult = payload
	} else {
		record.ErrorMessage = "disease classification failed: " + diseaseErr.Error()
	}

	if ifsErr == nil {
		payload, err := json.Marshal(ifsResult)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to encode recommendation result", err)
		}
		record.IFSResult = payload
	} else {
		record.ErrorMessage = "recommendation lookup failed: " + ifsErr.Error()
	}

	if err := s.repo.Create(ctx, record); err != nil {
		observability.RecordAnalyzeOutcome(ctx, s.metrics, "persistence_failed")
		appErr := apperrors.NewPersistenceFailedError("analysis completed but could not be recorded", err)
		observability.RecordError(span, appErr)
		return nil, appErr
	}

	outcome := "success"
	if record.ErrorMessage != "" {
		outcome = "partial"
	}
	observability.RecordAnalyzeOutcome(ctx, s.metrics, outcome)

	logger.Info().
		Str("analysis_id", record.ID).
		Str("outcome", outcome).
		Msg("analysis persisted")

	return record, nil
}

// History lists persisted analyses, newest first. Limit is clamped to a sane
// page size and offset never goes negative.
func (s *AnalysisService) History(ctx context.Context, limit, offset int) ([]*entities.AnalysisSummary, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(ctx, limit, offset)
}

// HistoryDetail returns one full persisted analysis.
func (s *AnalysisService) HistoryDetail(ctx context.Context, id string) (*entities.AnalysisRecord, error) {
	if strings.TrimSpace(id) == "" {
		return nil, apperrors.NewValidationError("analysis id is required")
	}
	return s.repo.GetByID(ctx, id)
}
