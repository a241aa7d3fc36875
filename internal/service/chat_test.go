package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/emoai/emoai-server/internal/apperror"
)

// fakeChatLog is an in-memory repository.ChatLogRepository.
type fakeChatLog struct {
	entries []struct {
		userID int64
		at     time.Time
	}
}

func (f *fakeChatLog) Record(ctx context.Context, userID int64, at time.Time) error {
	f.entries = append(f.entries, struct {
		userID int64
		at     time.Time
	}{userID, at})
	return nil
}

func (f *fakeChatLog) CountSince(ctx context.Context, userID int64, since time.Time) (int, error) {
	count := 0
	for _, e := range f.entries {
		if e.userID == userID && !e.at.Before(since) {
			count++
		}
	}
	return count, nil
}

func TestChatReply_KeywordBranches(t *testing.T) {
	svc := NewChatService(&fakeChatLog{}, testLogger())

	tests := []struct {
		name      string
		text      string
		wantGroup int // index into chatRules, -1 = default reply
	}{
		{"anxiety keyword", "tengo mucha ansiedad por el examen", 0},
		{"anxiety masculine form", "estoy ansioso", 0},
		{"anxiety feminine form", "me siento ansiosa hoy", 0},
		{"sadness keyword", "me siento triste", 1},
		{"sadness stem matches deprimida", "estoy deprimida", 1},
		{"happiness keyword", "hoy estoy feliz", 2},
		{"happiness stem matches contenta", "estoy muy contenta", 2},
		{"uppercase input still matches", "TENGO ANSIEDAD", 0},
		{"no keyword falls back to default", "hoy fue un día cualquiera", -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply, err := svc.Reply(context.Background(), 1, tt.text)
			if err != nil {
				t.Fatalf("Reply() error = %v", err)
			}

			want := defaultReply
			if tt.wantGroup >= 0 {
				want = chatRules[tt.wantGroup].reply
			}
			if reply != want {
				t.Errorf("Reply(%q) picked the wrong branch:\ngot  %q\nwant %q", tt.text, reply, want)
			}
		})
	}
}

func TestChatReply_FirstMatchWins(t *testing.T) {
	svc := NewChatService(&fakeChatLog{}, testLogger())

	// Both a sadness and a happiness keyword — the sadness group comes first
	// in the rule table, so it must win.
	reply, err := svc.Reply(context.Background(), 1, "estoy triste pero también feliz")
	if err != nil {
		t.Fatalf("Reply() error = %v", err)
	}
	if reply != chatRules[1].reply {
		t.Errorf("Reply() = %q, want the sadness reply (first matching group)", reply)
	}
}

func TestChatReply_EmptyText(t *testing.T) {
	svc := NewChatService(&fakeChatLog{}, testLogger())

	for _, text := range []string{"", "   "} {
		_, err := svc.Reply(context.Background(), 1, text)
		if !errors.Is(err, apperror.ErrValidation) {
			t.Errorf("Reply(%q) error = %v, want ErrValidation", text, err)
		}
	}
}

func TestChatReply_RecordsInteraction(t *testing.T) {
	log := &fakeChatLog{}
	svc := NewChatService(log, testLogger())

	svc.Reply(context.Background(), 7, "hola")
	svc.Reply(context.Background(), 7, "tengo ansiedad")

	count, _ := log.CountSince(context.Background(), 7, time.Now().Add(-time.Minute))
	if count != 2 {
		t.Errorf("chat log has %d entries for user 7, want 2", count)
	}
}
