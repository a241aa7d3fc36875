package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/emoai/emoai-server/internal/model"
	"github.com/emoai/emoai-server/internal/repository"
)

// chatSessionWindow is the rolling window for the chatbotSessions stat.
const chatSessionWindow = 7 * 24 * time.Hour

// ProfileService assembles the /me response: the caller's public profile
// plus stats aggregated from their actual history. The earlier demo returned
// hardcoded numbers here; this computes all four for real.
type ProfileService struct {
	users    repository.UserRepository
	checkins repository.CheckinRepository
	chatLog  repository.ChatLogRepository
	logger   *slog.Logger
}

// NewProfileService creates a ProfileService.
func NewProfileService(
	users repository.UserRepository,
	checkins repository.CheckinRepository,
	chatLog repository.ChatLogRepository,
	logger *slog.Logger,
) *ProfileService {
	return &ProfileService{
		users:    users,
		checkins: checkins,
		chatLog:  chatLog,
		logger:   logger,
	}
}

// Profile is the assembled /me payload.
type Profile struct {
	User  model.PublicUser `json:"user"`
	Stats model.Stats      `json:"stats"`
}

// Get returns the profile and stats for the given user id (taken from the
// validated token). Returns apperror.ErrNotFound if the user no longer
// exists — a defensive case, since accounts are never deleted here, but a
// valid token must not crash the handler on a missing record.
func (s *ProfileService) Get(ctx context.Context, userID int64) (*Profile, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service/profile: fetching user %d: %w", userID, err)
	}

	checkins, err := s.checkins.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service/profile: listing checkins for user %d: %w", userID, err)
	}

	chatCount, err := s.chatLog.CountSince(ctx, userID, time.Now().Add(-chatSessionWindow))
	if err != nil {
		return nil, fmt.Errorf("service/profile: counting chat sessions for user %d: %w", userID, err)
	}

	now := time.Now()
	return &Profile{
		User: user.Public(),
		Stats: model.Stats{
			TotalCheckins:   len(checkins),
			AverageMood:     averageMood(checkins),
			ChatbotSessions: chatCount,
			Streak:          streak(checkins, now),
		},
	}, nil
}

// averageMood buckets the mean mood score into the emoji the front end shows
// for the nearest mood option. A user with no check-ins gets the neutral
// face — there is no history to average.
func averageMood(checkins []model.Checkin) string {
	if len(checkins) == 0 {
		return "😐"
	}

	total := 0
	for _, c := range checkins {
		total += model.MoodScore(c.Mood)
	}
	avg := float64(total) / float64(len(checkins))

	switch {
	case avg >= 4.5:
		return "😁" // muy_bien
	case avg >= 3.5:
		return "😊" // bien
	case avg >= 2.5:
		return "😐" // neutral
	case avg >= 1.5:
		return "😢" // triste
	default:
		return "😰" // ansioso
	}
}

// streak counts consecutive calendar days with at least one check-in,
// ending today. No check-in yet today means the streak is 0 — the streak is
// something the user keeps alive, not a high-water mark.
//
// Days are compared in the server's local timezone, same as the check-in
// timestamps the user sees.
func streak(checkins []model.Checkin, now time.Time) int {
	if len(checkins) == 0 {
		return 0
	}

	days := make(map[string]bool, len(checkins))
	for _, c := range checkins {
		days[c.CreatedAt.Format("2006-01-02")] = true
	}

	count := 0
	for day := now; days[day.Format("2006-01-02")]; day = day.AddDate(0, 0, -1) {
		count++
	}
	return count
}
