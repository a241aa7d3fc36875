package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/emoai/emoai-server/internal/apperror"
	"github.com/emoai/emoai-server/internal/model"
	"github.com/emoai/emoai-server/internal/repository"
)

// CheckinService handles mood check-in business logic.
type CheckinService struct {
	checkins repository.CheckinRepository
	logger   *slog.Logger
}

// NewCheckinService creates a CheckinService.
func NewCheckinService(checkins repository.CheckinRepository, logger *slog.Logger) *CheckinService {
	return &CheckinService{
		checkins: checkins,
		logger:   logger,
	}
}

// Create validates and appends a new check-in for the given user.
//
// The mood must be one of the recognised labels — the front end only offers
// those five, and accepting free-form moods would break the average-mood
// aggregation. The note is optional free text.
func (s *CheckinService) Create(ctx context.Context, userID int64, mood, note string) (*model.Checkin, error) {
	mood = strings.TrimSpace(mood)
	if mood == "" {
		return nil, apperror.ValidationFailed("mood", "mood requerido")
	}
	if !model.ValidMood(mood) {
		return nil, apperror.ValidationFailed("mood",
			fmt.Sprintf("mood %q no reconocido", mood))
	}

	checkin := &model.Checkin{
		UserID: userID,
		Mood:   mood,
		Note:   strings.TrimSpace(note),
	}
	if err := s.checkins.CreateCheckin(ctx, checkin); err != nil {
		return nil, fmt.Errorf("service/checkin: creating checkin: %w", err)
	}

	s.logger.Info("checkin created",
		slog.Int64("checkinID", checkin.ID),
		slog.Int64("userID", userID),
		slog.String("mood", mood),
	)

	return checkin, nil
}

// List returns all of the user's check-ins in creation order. The caller's
// identity comes from the validated token, so one user can never list
// another's check-ins.
func (s *CheckinService) List(ctx context.Context, userID int64) ([]model.Checkin, error) {
	checkins, err := s.checkins.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service/checkin: listing checkins for user %d: %w", userID, err)
	}
	return checkins, nil
}
