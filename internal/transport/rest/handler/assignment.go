package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"inducthub/internal/model"
	"inducthub/internal/repository"
	"inducthub/internal/transport/rest/middleware"
)

// AssignmentHandler handles assignment endpoints
type AssignmentHandler struct {
	assignmentRepo repository.AssignmentRepo
	inductionRepo  repository.InductionRepo
}

// NewAssignmentHandler creates a new assignment handler
func NewAssignmentHandler(assignmentRepo repository.AssignmentRepo, inductionRepo repository.InductionRepo) *AssignmentHandler {
	return &AssignmentHandler{assignmentRepo: assignmentRepo, inductionRepo: inductionRepo}
}

type createAssignmentRequest struct {
	UserID        string           `json:"userId"`
	InductionID   string           `json:"inductionId"`
	AvailableFrom *model.Timestamp `json:"availableFrom,omitempty"`
	DueDate       *model.Timestamp `json:"dueDate,omitempty"`
}

// Create handles POST /v1/assignments (manager only)
func (h *AssignmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createAssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.UserID == "" || req.InductionID == "" {
		writeError(w, http.StatusBadRequest, "userId and inductionId are required")
		return
	}

	induction, err := h.inductionRepo.GetByID(r.Context(), req.InductionID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if induction == nil {
		writeError(w, http.StatusNotFound, "induction not found")
		return
	}

	assignment := &model.Assignment{
		UserID:        req.UserID,
		InductionID:   req.InductionID,
		Status:        model.AssignmentAssigned,
		AssignedAt:    model.NewTimestamp(time.Now()),
		AvailableFrom: req.AvailableFrom,
		DueDate:       req.DueDate,
	}
	if err := h.assignmentRepo.Create(r.Context(), assignment); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, assignment)
}

// ListMine handles GET /v1/assignments (staff: own assignments)
func (h *AssignmentHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	assignments, err := h.assignmentRepo.GetByUser(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, assignments)
}

// ListForUser handles GET /v1/users/{userId}/assignments (manager only)
func (h *AssignmentHandler) ListForUser(w http.ResponseWriter, r *http.Request) {
	assignments, err := h.assignmentRepo.GetByUser(r.Context(), mux.Vars(r)["userId"])
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, assignments)
}

// Get handles GET /v1/assignments/{id}
func (h *AssignmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	assignment, err := h.assignmentRepo.GetByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if assignment == nil {
		writeError(w, http.StatusNotFound, "assignment not found")
		return
	}

	if middleware.GetRole(r.Context()) == model.RoleStaff && assignment.UserID != middleware.GetUserID(r.Context()) {
		writeError(w, http.StatusNotFound, "assignment not found")
		return
	}
	writeJSON(w, http.StatusOK, assignment)
}

// Delete handles DELETE /v1/assignments/{id} (manager only)
func (h *AssignmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.assignmentRepo.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
