package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/emoai/emoai-server/internal/apperror"
	"github.com/emoai/emoai-server/internal/model"
)

func newTestProfileService(users *fakeUserRepo, checkins *fakeCheckinRepo, chatLog *fakeChatLog) *ProfileService {
	return NewProfileService(users, checkins, chatLog, testLogger())
}

// addCheckinAt appends a check-in with an explicit timestamp, bypassing the
// service so tests can build arbitrary histories.
func addCheckinAt(repo *fakeCheckinRepo, userID int64, mood string, at time.Time) {
	repo.CreateCheckin(context.Background(), &model.Checkin{UserID: userID, Mood: mood, CreatedAt: at})
}

func TestProfileGet_UserNotFound(t *testing.T) {
	svc := newTestProfileService(newFakeUserRepo(), newFakeCheckinRepo(), &fakeChatLog{})

	_, err := svc.Get(context.Background(), 404)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestProfileGet_EmptyHistory(t *testing.T) {
	users := newFakeUserRepo()
	users.CreateUser(context.Background(), &model.User{Name: "Ana", Email: "ana@x.com", PasswordHash: "h"})

	svc := newTestProfileService(users, newFakeCheckinRepo(), &fakeChatLog{})

	profile, err := svc.Get(context.Background(), 1)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if profile.User.Email != "ana@x.com" {
		t.Errorf("User.Email = %q", profile.User.Email)
	}
	if profile.Stats.TotalCheckins != 0 {
		t.Errorf("TotalCheckins = %d, want 0", profile.Stats.TotalCheckins)
	}
	if profile.Stats.Streak != 0 {
		t.Errorf("Streak = %d, want 0", profile.Stats.Streak)
	}
	if profile.Stats.ChatbotSessions != 0 {
		t.Errorf("ChatbotSessions = %d, want 0", profile.Stats.ChatbotSessions)
	}
	if profile.Stats.AverageMood != "😐" {
		t.Errorf("AverageMood = %q, want neutral for no history", profile.Stats.AverageMood)
	}
}

func TestProfileGet_CountsAndChatSessions(t *testing.T) {
	users := newFakeUserRepo()
	users.CreateUser(context.Background(), &model.User{Name: "Ana", Email: "ana@x.com", PasswordHash: "h"})

	checkins := newFakeCheckinRepo()
	now := time.Now()
	addCheckinAt(checkins, 1, model.MoodBien, now)
	addCheckinAt(checkins, 1, model.MoodBien, now)
	addCheckinAt(checkins, 2, model.MoodTriste, now) // someone else's

	chatLog := &fakeChatLog{}
	chatLog.Record(context.Background(), 1, now.Add(-time.Hour))
	chatLog.Record(context.Background(), 1, now.Add(-8*24*time.Hour)) // outside window
	chatLog.Record(context.Background(), 2, now)

	svc := newTestProfileService(users, checkins, chatLog)

	profile, err := svc.Get(context.Background(), 1)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if profile.Stats.TotalCheckins != 2 {
		t.Errorf("TotalCheckins = %d, want 2", profile.Stats.TotalCheckins)
	}
	if profile.Stats.ChatbotSessions != 1 {
		t.Errorf("ChatbotSessions = %d, want 1 (7-day window, own rows only)", profile.Stats.ChatbotSessions)
	}
}

func TestAverageMood_Buckets(t *testing.T) {
	tests := []struct {
		name  string
		moods []string
		want  string
	}{
		{"all muy_bien", []string{model.MoodMuyBien, model.MoodMuyBien}, "😁"},
		{"mostly bien", []string{model.MoodBien, model.MoodBien, model.MoodMuyBien}, "😊"},
		{"neutral mix", []string{model.MoodMuyBien, model.MoodAnsioso}, "😐"},
		{"sad leaning", []string{model.MoodTriste, model.MoodTriste}, "😢"},
		{"all anxious", []string{model.MoodAnsioso}, "😰"},
		{"no history", nil, "😐"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var checkins []model.Checkin
			for _, m := range tt.moods {
				checkins = append(checkins, model.Checkin{Mood: m})
			}
			if got := averageMood(checkins); got != tt.want {
				t.Errorf("averageMood(%v) = %q, want %q", tt.moods, got, tt.want)
			}
		})
	}
}

func TestStreak(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.Local)
	day := func(offset int) time.Time { return now.AddDate(0, 0, offset) }

	tests := []struct {
		name string
		days []int // offsets from today with at least one check-in
		want int
	}{
		{"no checkins", nil, 0},
		{"today only", []int{0}, 1},
		{"three consecutive days ending today", []int{0, -1, -2}, 3},
		{"gap breaks the run", []int{0, -1, -3, -4}, 2},
		{"yesterday but not today", []int{-1, -2}, 0},
		{"multiple checkins same day count once", []int{0, 0, -1}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var checkins []model.Checkin
			for _, offset := range tt.days {
				checkins = append(checkins, model.Checkin{Mood: model.MoodBien, CreatedAt: day(offset)})
			}
			if got := streak(checkins, now); got != tt.want {
				t.Errorf("streak(%v) = %d, want %d", tt.days, got, tt.want)
			}
		})
	}
}
