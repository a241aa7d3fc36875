package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/emoai/emoai-server/internal/apperror"
	"github.com/emoai/emoai-server/internal/model"
)

// fakeCheckinRepo is an in-memory repository.CheckinRepository.
type fakeCheckinRepo struct {
	checkins []model.Checkin
	nextID   int64
}

func newFakeCheckinRepo() *fakeCheckinRepo {
	return &fakeCheckinRepo{nextID: 1}
}

func (f *fakeCheckinRepo) CreateCheckin(ctx context.Context, c *model.Checkin) error {
	c.ID = f.nextID
	f.nextID++
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	f.checkins = append(f.checkins, *c)
	return nil
}

func (f *fakeCheckinRepo) ListByUser(ctx context.Context, userID int64) ([]model.Checkin, error) {
	out := []model.Checkin{}
	for _, c := range f.checkins {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCheckinRepo) CountByUser(ctx context.Context, userID int64) (int, error) {
	list, _ := f.ListByUser(ctx, userID)
	return len(list), nil
}

func TestCheckinCreate_Valid(t *testing.T) {
	svc := NewCheckinService(newFakeCheckinRepo(), testLogger())

	checkin, err := svc.Create(context.Background(), 1, model.MoodBien, "todo tranquilo")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if checkin.ID == 0 {
		t.Error("Create() did not assign an id")
	}
	if checkin.UserID != 1 {
		t.Errorf("UserID = %d, want 1", checkin.UserID)
	}
	if checkin.Mood != model.MoodBien {
		t.Errorf("Mood = %q, want %q", checkin.Mood, model.MoodBien)
	}
}

func TestCheckinCreate_MissingMood(t *testing.T) {
	svc := NewCheckinService(newFakeCheckinRepo(), testLogger())

	_, err := svc.Create(context.Background(), 1, "", "una nota")
	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("Create() error = %v, want ErrValidation", err)
	}
}

func TestCheckinCreate_UnrecognisedMood(t *testing.T) {
	svc := NewCheckinService(newFakeCheckinRepo(), testLogger())

	// The mood set is closed — free-form labels would break aggregation.
	for _, mood := range []string{"fantastico", "BIEN", "happy"} {
		_, err := svc.Create(context.Background(), 1, mood, "")
		if !errors.Is(err, apperror.ErrValidation) {
			t.Errorf("Create(%q) error = %v, want ErrValidation", mood, err)
		}
	}
}

func TestCheckinCreate_NoteIsOptional(t *testing.T) {
	svc := NewCheckinService(newFakeCheckinRepo(), testLogger())

	checkin, err := svc.Create(context.Background(), 1, model.MoodNeutral, "")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if checkin.Note != "" {
		t.Errorf("Note = %q, want empty", checkin.Note)
	}
}

func TestCheckinList_OwnerOnly(t *testing.T) {
	repo := newFakeCheckinRepo()
	svc := NewCheckinService(repo, testLogger())

	svc.Create(context.Background(), 1, model.MoodBien, "")
	svc.Create(context.Background(), 2, model.MoodTriste, "")
	svc.Create(context.Background(), 1, model.MoodMuyBien, "")

	list, err := svc.List(context.Background(), 1)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("List() returned %d checkins, want 2", len(list))
	}
	for _, c := range list {
		if c.UserID != 1 {
			t.Errorf("List() leaked checkin owned by user %d", c.UserID)
		}
	}
}
