package handler

import (
	"log/slog"
	"net/http"

	"github.com/emoai/emoai-server/internal/apperror"
	"github.com/emoai/emoai-server/internal/auth"
	"github.com/emoai/emoai-server/internal/model"
	"github.com/emoai/emoai-server/internal/service"
)

// CheckinHandler serves the mood check-in endpoints. The owning user always
// comes from the validated token in the request context — never from the
// request body, so a client cannot write into another user's partition.
type CheckinHandler struct {
	checkins *service.CheckinService
	logger   *slog.Logger
}

// NewCheckinHandler creates a CheckinHandler.
func NewCheckinHandler(checkins *service.CheckinService, logger *slog.Logger) *CheckinHandler {
	return &CheckinHandler{
		checkins: checkins,
		logger:   logger,
	}
}

// HandleCreate appends a new check-in for the caller.
//
// HTTP: POST /checkins
// Body: {"mood", "note"?}
// Returns 201 with the created check-in.
func (h *CheckinHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized())
		return
	}

	var req struct {
		Mood string `json:"mood"`
		Note string `json:"note"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	checkin, err := h.checkins.Create(r.Context(), claims.UserID, req.Mood, req.Note)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]*model.Checkin{"checkin": checkin})
}

// HandleList returns all of the caller's check-ins in creation order.
//
// HTTP: GET /checkins
func (h *CheckinHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized())
		return
	}

	checkins, err := h.checkins.List(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string][]model.Checkin{"checkins": checkins})
}
