package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/agrismart/platform/backend/internal/recommender"
	apperrors "github.com/agrismart/platform/backend/pkg/errors"
)

func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}

// respondWithAppError maps application error types onto HTTP statuses. A
// failed district match additionally carries the closest candidate so the
// client can render a "did you mean" hint.
func respondWithAppError(w http.ResponseWriter, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		respondWithError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	switch appErr.Type {
	case apperrors.ErrorTypeValidation, apperrors.ErrorTypeEmptyInput:
		respondWithError(w, http.StatusBadRequest, appErr.Message)
	case apperrors.ErrorTypeNotFound:
		respondWithError(w, http.StatusNotFound, appErr.Message)
	case apperrors.ErrorTypeNoMatch:
		payload := map[string]interface{}{
			"error": appErr.Message,
		}
		var noMatch *recommender.NoMatchError
		if errors.As(err, &noMatch) && noMatch.BestGuess != "" {
			payload["did_you_mean"] = noMatch.BestGuess
			payload["match_score"] = noMatch.BestScore
		}
		respondWithJSON(w, http.StatusNotFound, payload)
	case apperrors.ErrorTypeGeocodeFailure, apperrors.ErrorTypeDistrictFieldMissing:
		respondWithError(w, http.StatusUnprocessableEntity, appErr.Message)
	case apperrors.ErrorTypeAnalysisFailed, apperrors.ErrorTypePersistenceFailed:
		respondWithError(w, http.StatusInternalServerError, appErr.Message)
	default:
		respondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}
