package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"inducthub/internal/model"
	"inducthub/internal/session"
	"inducthub/internal/transport/rest/middleware"
)

const maxUploadBytes = 16 << 20 // 16 MiB

// SessionHandler drives an induction-taking session over REST.
type SessionHandler struct {
	registry *session.Registry
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(registry *session.Registry) *SessionHandler {
	return &SessionHandler{registry: registry}
}

type sessionResponse struct {
	SessionID string                   `json:"sessionId"`
	State     model.SessionState       `json:"state"`
	Recovery  *model.RecoveryCandidate `json:"recovery,omitempty"`
}

func (h *SessionHandler) respond(w http.ResponseWriter, status int, s *session.Session) {
	writeJSON(w, status, sessionResponse{
		SessionID: s.ID,
		State:     s.Snapshot(),
		Recovery:  s.Recovery(),
	})
}

// Open handles POST /v1/assignments/{id}/session
func (h *SessionHandler) Open(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	s, err := h.registry.Open(r.Context(), userID, mux.Vars(r)["id"])
	if err != nil {
		if errors.Is(err, session.ErrNotYourAssignment) {
			writeError(w, http.StatusNotFound, "assignment not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.respond(w, http.StatusOK, s)
}

// Get handles GET /v1/assignments/{id}/session
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if s == nil {
		return
	}
	h.respond(w, http.StatusOK, s)
}

// Start handles POST /v1/assignments/{id}/session/start
func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if s == nil {
		return
	}
	if err := s.Start(r.Context()); err != nil {
		h.sessionError(w, err)
		return
	}
	h.respond(w, http.StatusOK, s)
}

// Answer handles PUT /v1/assignments/{id}/session/answers/{questionId}.
// JSON bodies carry choice and text answers; multipart bodies carry file
// uploads with the bytes in a "file" part.
func (h *SessionHandler) Answer(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if s == nil {
		return
	}
	questionID := mux.Vars(r)["questionId"]

	var value model.AnswerValue
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			writeError(w, http.StatusBadRequest, "invalid multipart body")
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			writeError(w, http.StatusBadRequest, "missing file part")
			return
		}
		defer file.Close()
		data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
		if err != nil {
			writeError(w, http.StatusBadRequest, "failed to read file")
			return
		}
		if int64(len(data)) > maxUploadBytes {
			writeError(w, http.StatusRequestEntityTooLarge, "file too large")
			return
		}
		value.File = &model.FileRef{
			Name:        header.Filename,
			Size:        int64(len(data)),
			ContentType: header.Header.Get("Content-Type"),
			Data:        data,
		}
	} else {
		if err := json.NewDecoder(r.Body).Decode(&value); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	if err := s.Answer(questionID, value); err != nil {
		h.sessionError(w, err)
		return
	}
	h.respond(w, http.StatusOK, s)
}

// Next handles POST /v1/assignments/{id}/session/next
func (h *SessionHandler) Next(w http.ResponseWriter, r *http.Request) {
	h.navigate(w, r, func(s *session.Session) error { return s.Next() })
}

// Prev handles POST /v1/assignments/{id}/session/prev
func (h *SessionHandler) Prev(w http.ResponseWriter, r *http.Request) {
	h.navigate(w, r, func(s *session.Session) error { return s.Prev() })
}

type jumpRequest struct {
	Index int `json:"index"`
}

// Jump handles POST /v1/assignments/{id}/session/jump
func (h *SessionHandler) Jump(w http.ResponseWriter, r *http.Request) {
	var req jumpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	h.navigate(w, r, func(s *session.Session) error { return s.JumpTo(req.Index) })
}

// Submission handles POST /v1/assignments/{id}/session/submission
func (h *SessionHandler) Submission(w http.ResponseWriter, r *http.Request) {
	h.navigate(w, r, func(s *session.Session) error { return s.GoToSubmission() })
}

// Back handles POST /v1/assignments/{id}/session/back
func (h *SessionHandler) Back(w http.ResponseWriter, r *http.Request) {
	var req jumpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	h.navigate(w, r, func(s *session.Session) error { return s.BackTo(req.Index) })
}

// Save handles POST /v1/assignments/{id}/session/save
func (h *SessionHandler) Save(w http.ResponseWriter, r *http.Request) {
	h.navigate(w, r, func(s *session.Session) error { return s.ForceSave() })
}

type submitRequest struct {
	Feedback string `json:"feedback"`
}

// Submit handles POST /v1/assignments/{id}/session/submit
func (h *SessionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if s == nil {
		return
	}
	var req submitRequest
	if r.Body != nil {
		// Body is optional; feedback is the only field.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	if err := s.Submit(r.Context(), req.Feedback); err != nil {
		h.sessionError(w, err)
		return
	}
	h.respond(w, http.StatusOK, s)
}

// Recover handles POST /v1/assignments/{id}/session/recover
func (h *SessionHandler) Recover(w http.ResponseWriter, r *http.Request) {
	h.navigate(w, r, func(s *session.Session) error { return s.RecoverSavedProgress() })
}

// Fresh handles POST /v1/assignments/{id}/session/fresh
func (h *SessionHandler) Fresh(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if s == nil {
		return
	}
	if err := s.StartFresh(r.Context()); err != nil {
		h.sessionError(w, err)
		return
	}
	h.respond(w, http.StatusOK, s)
}

// Close handles DELETE /v1/assignments/{id}/session
func (h *SessionHandler) Close(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if s == nil {
		return
	}
	h.registry.Close(s.AssignmentID)
	w.WriteHeader(http.StatusNoContent)
}

func (h *SessionHandler) navigate(w http.ResponseWriter, r *http.Request, op func(*session.Session) error) {
	s := h.session(w, r)
	if s == nil {
		return
	}
	if err := op(s); err != nil {
		h.sessionError(w, err)
		return
	}
	h.respond(w, http.StatusOK, s)
}

// session fetches the caller's open session and enforces ownership.
func (h *SessionHandler) session(w http.ResponseWriter, r *http.Request) *session.Session {
	s := h.registry.Get(mux.Vars(r)["id"])
	if s == nil {
		writeError(w, http.StatusNotFound, "no open session for assignment")
		return nil
	}
	if s.UserID != middleware.GetUserID(r.Context()) {
		writeError(w, http.StatusNotFound, "no open session for assignment")
		return nil
	}
	return s
}

func (h *SessionHandler) sessionError(w http.ResponseWriter, err error) {
	var incomplete *session.IncompleteError
	if errors.As(err, &incomplete) {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":          incomplete.Error(),
			"missingAnswers": incomplete.Missing,
		})
		return
	}
	switch {
	case errors.Is(err, session.ErrSessionNotReady),
		errors.Is(err, session.ErrSessionNotStarted),
		errors.Is(err, session.ErrIndexOutOfRange),
		errors.Is(err, session.ErrUnknownQuestion):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, session.ErrSubmitInFlight):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, session.ErrSessionClosed):
		writeError(w, http.StatusGone, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
