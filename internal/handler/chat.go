package handler

import (
	"log/slog"
	"net/http"

	"github.com/emoai/emoai-server/internal/apperror"
	"github.com/emoai/emoai-server/internal/auth"
	"github.com/emoai/emoai-server/internal/service"
)

// ChatHandler serves the scripted chatbot endpoint.
type ChatHandler struct {
	chat   *service.ChatService
	logger *slog.Logger
}

// NewChatHandler creates a ChatHandler.
func NewChatHandler(chat *service.ChatService, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{
		chat:   chat,
		logger: logger,
	}
}

// HandleChat returns the canned empathetic reply for the user's message.
//
// HTTP: POST /chat
// Body: {"text"}
func (h *ChatHandler) HandleChat(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized())
		return
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	reply, err := h.chat.Reply(r.Context(), claims.UserID, req.Text)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"reply": reply})
}
