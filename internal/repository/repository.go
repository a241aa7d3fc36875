// Package repository defines the storage interfaces the service layer
// programs against. The concrete implementation lives in repository/sqlite;
// services never import that package directly, which keeps them testable
// with in-memory fakes and the storage backend swappable.
package repository

import (
	"context"
	"time"

	"github.com/emoai/emoai-server/internal/model"
)

// UserRepository is the credential store. The method names carry the entity
// (CreateUser, not Create) because one storage value implements several of
// these interfaces at once.
//
// CreateUser fails with apperror.ErrDuplicateEmail when the email is already
// taken — email uniqueness is enforced by the store itself, not by a
// check-then-insert in the service, so concurrent registrations can't race
// past each other.
//
// Update replaces a record's mutable fields (password hash, the 2FA flag,
// and both one-time-code/expiry pairs) by id. There is no delete: accounts
// are never removed in this system.
//
// The Consume* operations are the single-use guarantee for one-time codes.
// Each clears a pending code ONLY if it still matches, in one atomic
// statement, and reports whether this call was the one that consumed it.
// Concurrent verifications of the same code therefore succeed exactly once;
// a read-check-then-Update sequence could not promise that.
type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
	ConsumeTwoFactorCode(ctx context.Context, userID int64, code string) (bool, error)
	ConsumeResetCode(ctx context.Context, userID int64, code, passwordHash string) (bool, error)
}

// CheckinRepository stores mood check-ins. Check-ins are append-only and
// partitioned per user; ListByUser returns them in creation order.
type CheckinRepository interface {
	CreateCheckin(ctx context.Context, checkin *model.Checkin) error
	ListByUser(ctx context.Context, userID int64) ([]model.Checkin, error)
	CountByUser(ctx context.Context, userID int64) (int, error)
}

// ChatLogRepository records one row per chatbot interaction so the profile
// stats can count real activity instead of a hardcoded number.
type ChatLogRepository interface {
	Record(ctx context.Context, userID int64, at time.Time) error
	CountSince(ctx context.Context, userID int64, since time.Time) (int, error)
}
