package handlers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/agrismart/platform/backend/internal/application/services"
)

// maxImageBytes bounds the uploaded leaf image size.
const maxImageBytes = 10 << 20

// AnalysisHandler handles combined analysis HTTP requests
type AnalysisHandler struct {
	service *services.AnalysisService
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(service *services.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{
		service: service,
	}
}

// Analyze handles POST /api/analyze. The request is multipart: a leaf image
// under "file" plus district or location form fields.
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImageBytes)
	if err := r.ParseMultipartForm(maxImageBytes); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid multipart request: "+err.Error())
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "image file is required under field \"file\"")
		return
	}
	defer file.Close()

	image, err := io.ReadAll(file)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "failed to read image upload")
		return
	}

	topK := 3
	if v := r.FormValue("top_k"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			topK = parsed
		}
	}

	record, err := h.service.Analyze(r.Context(), services.AnalyzeInput{
		Image:    image,
		Location: r.FormValue("location"),
		District: r.FormValue("district"),
		Crop:     r.FormValue("crop"),
		SoilType: r.FormValue("soil_type"),
		TopK:     topK,
	})
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, record)
}

// History handles GET /api/history
func (h *AnalysisHandler) History(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	summaries, err := h.service.History(r.Context(), limit, offset)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"history": summaries,
		"count":   len(summaries),
	})
}

// HistoryDetail handles GET /api/history/{id}
func (h *AnalysisHandler) HistoryDetail(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "analysis ID is required")
		return
	}

	record, err := h.service.HistoryDetail(r.Context(), id)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, record)
}
