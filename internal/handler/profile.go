package handler

import (
	"log/slog"
	"net/http"

	"github.com/emoai/emoai-server/internal/apperror"
	"github.com/emoai/emoai-server/internal/auth"
	"github.com/emoai/emoai-server/internal/service"
)

// ProfileHandler serves the authenticated user's profile and stats.
type ProfileHandler struct {
	profiles *service.ProfileService
	logger   *slog.Logger
}

// NewProfileHandler creates a ProfileHandler.
func NewProfileHandler(profiles *service.ProfileService, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{
		profiles: profiles,
		logger:   logger,
	}
}

// HandleMe returns the caller's profile plus aggregated stats.
//
// HTTP: GET /me
// Auth: Required (RequireAuth middleware sets claims in context)
func (h *ProfileHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		// Should never happen on a RequireAuth-protected route, but be safe.
		writeError(w, apperror.Unauthorized())
		return
	}

	profile, err := h.profiles.Get(r.Context(), claims.UserID)
	if err != nil {
		h.logger.Error("HandleMe: profile lookup failed",
			slog.Int64("userID", claims.UserID),
			slog.String("error", err.Error()),
		)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}
