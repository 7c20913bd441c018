package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"inducthub/internal/model"
	"inducthub/internal/repository"
	"inducthub/internal/validate"
)

// InductionHandler handles induction definition endpoints
type InductionHandler struct {
	inductionRepo repository.InductionRepo
}

// NewInductionHandler creates a new induction handler
func NewInductionHandler(inductionRepo repository.InductionRepo) *InductionHandler {
	return &InductionHandler{inductionRepo: inductionRepo}
}

// Create handles POST /v1/inductions
func (h *InductionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var induction model.Induction
	if err := json.NewDecoder(r.Body).Decode(&induction); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if induction.Name == "" || len(induction.Questions) == 0 {
		writeError(w, http.StatusBadRequest, "name and questions are required")
		return
	}

	if err := h.inductionRepo.Create(r.Context(), &induction); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, induction)
}

// List handles GET /v1/inductions
func (h *InductionHandler) List(w http.ResponseWriter, r *http.Request) {
	inductions, err := h.inductionRepo.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, inductions)
}

// Get handles GET /v1/inductions/{id}
func (h *InductionHandler) Get(w http.ResponseWriter, r *http.Request) {
	induction, err := h.inductionRepo.GetByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if induction == nil {
		writeError(w, http.StatusNotFound, "induction not found")
		return
	}
	writeJSON(w, http.StatusOK, induction)
}

// Estimate handles GET /v1/inductions/{id}/estimate
func (h *InductionHandler) Estimate(w http.ResponseWriter, r *http.Request) {
	induction, err := h.inductionRepo.GetByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if induction == nil {
		writeError(w, http.StatusNotFound, "induction not found")
		return
	}

	minutes := validate.EstimateMinutes(induction.Questions)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"minutes": minutes,
		"range":   validate.FormatTimeRange(minutes),
	})
}
