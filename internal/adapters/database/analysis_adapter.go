package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/google/uuid"

	"github.com/agrismart/platform/backend/internal/domain/entities"
	"github.com/agrismart/platform/backend/internal/domain/repositories"
	"github.com/agrismart/platform/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/agrismart/platform/backend/pkg/errors"
)

const analysisTable = "analysis_log"

// AnalysisAdapter implements AnalysisRepository on PostgreSQL.
type AnalysisAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewAnalysisAdapter creates a new analysis history adapter
func NewAnalysisAdapter(client *postgres.Client) repositories.AnalysisRepository {
	return &AnalysisAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// newAnalysisAdapterWithDB wires the adapter to an arbitrary *sql.DB (used for tests).
func newAnalysisAdapterWithDB(db *sql.DB) *AnalysisAdapter {
	return &AnalysisAdapter{
		db: goqu.New("postgres", db),
	}
}

// Create inserts one analysis record. ID and CreatedAt are assigned here when
// the caller left them unset, so every persisted row has a stable identity.
func (a *AnalysisAdapter) Create(ctx context.Context, record *entities.AnalysisRecord) error {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	row := goqu.Record{
		"id":             record.ID,
		"created_at":     record.CreatedAt,
		"location":       nullString(record.Location),
		"district":       nullString(record.District),
		"crop":           nullString(record.Crop),
		"soil_type":      nullString(record.SoilType),
		"disease_result": nullJSON(record.DiseaseResult),
		"ifs_result":     nullJSON(record.IFSResult),
		"error_message":  nullString(record.ErrorMessage),
	}

	query, args, err := a.db.Insert(analysisTable).Rows(row).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build analysis insert query", err)
	}

	if _, err := a.db.ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to insert analysis record", err)
	}

	return nil
}

// List returns history summaries newest first. The stored branch payloads are
// unmarshalled just enough to surface the headline fields.
func (a *AnalysisAdapter) List(ctx context.Context, limit, offset int) ([]*entities.AnalysisSummary, error) {
	query, args, err := a.db.Select(
		"id", "created_at", "location", "district", "crop", "soil_type",
		"disease_result", "ifs_result",
	).From(analysisTable).
		Order(goqu.I("created_at").Desc(), goqu.I("id").Desc()).
		Limit(uint(limit)).
		Offset(uint(offset)).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build analysis list query", err)
	}

	rows, err := a.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list analysis records", err)
	}
	defer rows.Close()

	summaries := []*entities.AnalysisSummary{}
	for rows.Next() {
		var (
			summary       entities.AnalysisSummary
			location      sql.NullString
			district      sql.NullString
			crop          sql.NullString
			soilType      sql.NullString
			diseaseResult []byte
			ifsResult     []byte
		)
		if err := rows.Scan(
			&summary.ID, &summary.CreatedAt,
			&location, &district, &crop, &soilType,
			&diseaseResult, &ifsResult,
		); err != nil {
			return nil, apperrors.NewInternalError("failed to scan analysis record", err)
		}

		summary.Location = location.String
		summary.District = district.String
		summary.Crop = crop.String
		summary.SoilType = soilType.String

		if len(diseaseResult) > 0 {
			var disease entities.DiseaseResult
			if err := json.Unmarshal(diseaseResult, &disease); err == nil {
				summary.DiseaseClass = disease.Class
				confidence := disease.Confidence
				summary.DiseaseConfidence = &confidence
			}
		}
		if len(ifsResult) > 0 {
			var ifs entities.RecommendationResponse
			if err := json.Unmarshal(ifsResult, &ifs); err == nil {
				summary.MatchedDistrict = ifs.MatchedDistrict
			}
		}

		summaries = append(summaries, &summary)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate analysis records", err)
	}

	return summaries, nil
}

// GetByID returns one full record with its raw branch payloads.
func (a *AnalysisAdapter) GetByID(ctx context.Context, id string) (*entities.AnalysisRecord, error) {
	query, args, err := a.db.Select(
		"id", "created_at", "location", "district", "crop", "soil_type",
		"disease_result", "ifs_result", "error_message",
	).From(analysisTable).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build analysis get query", err)
	}

	var (
		record        entities.AnalysisRecord
		location      sql.NullString
		district      sql.NullString
		crop          sql.NullString
		soilType      sql.NullString
		diseaseResult []byte
		ifsResult     []byte
		errorMessage  sql.NullString
	)
	err = a.db.QueryRowContext(ctx, query, args...).Scan(
		&record.ID, &record.CreatedAt,
		&location, &district, &crop, &soilType,
		&diseaseResult, &ifsResult, &errorMessage,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError("analysis record not found")
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get analysis record", err)
	}

	record.Location = location.String
	record.District = district.String
	record.Crop = crop.String
	record.SoilType = soilType.String
	record.ErrorMessage = errorMessage.String
	if len(diseaseResult) > 0 {
		record.DiseaseResult = json.RawMessage(diseaseResult)
	}
	if len(ifsResult) > 0 {
		record.IFSResult = json.RawMessage(ifsResult)
	}

	return &record, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullJSON(raw json.RawMessage) interface{} {
	if len(raw) == 0 {
		return nil
	}
	return []byte(raw)
}
