package handlers

import (
	"net/http"

	"github.com/agrismart/platform/backend/internal/application/services"
)

// RecommendationHandler handles IFS recommendation HTTP requests
type RecommendationHandler struct {
	service *services.RecommendationService
}

// NewRecommendationHandler creates a new recommendation handler
func NewRecommendationHandler(service *services.RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{
		service: service,
	}
}

// Recommend handles GET /api/recommendations. It takes either an explicit
// district or a free-text location; district wins when both are present.
func (h *RecommendationHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	district := query.Get("district")
	location := query.Get("location")

	response, err := h.service.Recommend(r.Context(), location, district)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, response)
}
