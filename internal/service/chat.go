package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/emoai/emoai-server/internal/apperror"
	"github.com/emoai/emoai-server/internal/repository"
)

// keywordGroup is one rule of the chatbot: if any of its keywords appears in
// the lower-cased input, its reply is chosen.
type keywordGroup struct {
	keywords []string
	reply    string
}

// chatRules are scanned in order and the FIRST matching group wins. This is
// deliberately not a learning system — it is a fixed, auditable rule table.
// "deprimid" and "content" are stems: they match deprimido/deprimida and
// contento/contenta.
var chatRules = []keywordGroup{
	{
		keywords: []string{"ansioso", "ansiosa", "ansiedad"},
		reply: "Siento que te sientas ansioso/a. La ansiedad es muy incómoda, pero no estás solo/a. " +
			"Puedes intentar enfocar tu atención en 5 cosas que ves, 4 que puedes tocar, 3 que puedes oír, " +
			"2 que puedes oler y 1 que puedas saborear. ¿Quieres que te acompañe con más ejercicios?",
	},
	{
		keywords: []string{"triste", "deprimid"},
		reply: "Lamento que te sientas triste. A veces es importante permitirnos sentir esa tristeza sin juzgarnos. " +
			"Si te ayuda, puedes escribir qué es lo que más te pesa ahora mismo. Estoy aquí para leerte.",
	},
	{
		keywords: []string{"feliz", "content"},
		reply: "Me alegra mucho que te sientas bien. Es valioso reconocer también los momentos positivos. " +
			"¿Hay algo que quieras celebrar o algo que haya salido bien hoy?",
	},
}

// defaultReply is used when no keyword matches.
const defaultReply = "Gracias por compartir cómo te sientes. Recuerda que tus emociones son válidas. " +
	"Puedes probar un ejercicio de respiración profunda: inhala 4 segundos, retén 4, exhala 6. " +
	"Si quieres, cuéntame un poco más de lo que está pasando."

// ChatService produces scripted empathetic replies and records every
// interaction so the profile stats can count real chatbot activity.
type ChatService struct {
	chatLog repository.ChatLogRepository
	logger  *slog.Logger
}

// NewChatService creates a ChatService.
func NewChatService(chatLog repository.ChatLogRepository, logger *slog.Logger) *ChatService {
	return &ChatService{
		chatLog: chatLog,
		logger:  logger,
	}
}

// Reply picks the canned response for the user's message.
//
// Matching is case-insensitive substring search over the ordered rule table;
// the first group with any keyword present wins, and the generic default
// covers everything else. A failure to record the interaction is logged but
// doesn't fail the chat — stats are best-effort, replies are not.
func (s *ChatService) Reply(ctx context.Context, userID int64, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", apperror.ValidationFailed("text", "mensaje de texto requerido")
	}

	lower := strings.ToLower(text)

	reply := defaultReply
	for _, group := range chatRules {
		if matchesAny(lower, group.keywords) {
			reply = group.reply
			break
		}
	}

	if err := s.chatLog.Record(ctx, userID, time.Now()); err != nil {
		s.logger.Error("failed to record chat interaction",
			slog.Int64("userID", userID),
			slog.String("error", err.Error()),
		)
	}

	return reply, nil
}

func matchesAny(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
