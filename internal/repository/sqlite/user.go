package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/emoai/emoai-server/internal/apperror"
	"github.com/emoai/emoai-server/internal/model"
	"github.com/emoai/emoai-server/internal/repository"
)

// compile-time check that *DB implements repository.UserRepository
var _ repository.UserRepository = (*DB)(nil)

// userColumns is the SELECT list shared by every user query, kept in one
// place so the scan order can't drift between GetByEmail and GetByID.
const userColumns = `id, name, email, password_hash, institution, avatar_url,
	two_factor_enabled, two_factor_code, two_factor_code_expires,
	reset_code, reset_code_expires, created_at, updated_at`

// CreateUser inserts a new user and fills in the assigned id and timestamps.
//
// DUPLICATE EMAILS:
// The UNIQUE constraint on email is the single source of truth for
// uniqueness. We don't SELECT-then-INSERT — that pattern has a race window
// where two concurrent registrations both pass the check. Instead we INSERT
// and translate the constraint violation into apperror.ErrDuplicateEmail.
func (db *DB) CreateUser(ctx context.Context, user *model.User) error {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	res, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (name, email, password_hash, institution, avatar_url,
			two_factor_enabled, two_factor_code, two_factor_code_expires,
			reset_code, reset_code_expires, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Institution,
		user.AvatarURL,
		user.TwoFactorEnabled,
		user.TwoFactorCode,
		user.TwoFactorCodeExpires,
		user.ResetCode,
		user.ResetCodeExpires,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: users.email") {
			return apperror.DuplicateEmail()
		}
		return fmt.Errorf("sqlite: inserting user (email=%s): %w", user.Email, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading new user id: %w", err)
	}
	user.ID = id

	return nil
}

// GetByEmail retrieves a user by their email, compared exactly as stored.
// Returns apperror.ErrNotFound if no user exists with that email.
func (db *DB) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email)

	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &apperror.AppError{
				Err:     apperror.ErrNotFound,
				Message: fmt.Sprintf("user not found with email %s", email),
			}
		}
		return nil, fmt.Errorf("sqlite: fetching user by email: %w", err)
	}
	return user, nil
}

// GetByID retrieves a user by their numeric id.
// Returns apperror.ErrNotFound if no user exists with that id.
func (db *DB) GetByID(ctx context.Context, id int64) (*model.User, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)

	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("user", id)
		}
		return nil, fmt.Errorf("sqlite: fetching user %d: %w", id, err)
	}
	return user, nil
}

// Update replaces a user's mutable fields by id: the password hash, the
// two-factor flag, and both one-time-code/expiry pairs. Code ISSUANCE goes
// through here (a fresh challenge overwrites any pending one); code
// CONSUMPTION does not — that is the Consume* methods, whose conditional
// write is what keeps codes single-use.
func (db *DB) Update(ctx context.Context, user *model.User) error {
	user.UpdatedAt = time.Now()

	res, err := db.conn.ExecContext(ctx,
		`UPDATE users SET
			password_hash = ?,
			two_factor_enabled = ?,
			two_factor_code = ?,
			two_factor_code_expires = ?,
			reset_code = ?,
			reset_code_expires = ?,
			updated_at = ?
		 WHERE id = ?`,
		user.PasswordHash,
		user.TwoFactorEnabled,
		user.TwoFactorCode,
		user.TwoFactorCodeExpires,
		user.ResetCode,
		user.ResetCodeExpires,
		user.UpdatedAt,
		user.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating user %d: %w", user.ID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking update result for user %d: %w", user.ID, err)
	}
	if affected == 0 {
		return apperror.NotFound("user", user.ID)
	}

	return nil
}

// ConsumeTwoFactorCode clears a pending two-factor code, but only if the
// stored code still equals the one presented.
//
// WHY A CONDITIONAL UPDATE?
// The match and the clear have to be one statement. If the service read the
// code, compared it, and then updated, two concurrent verifications could
// both pass the comparison before either cleared the code — and a one-time
// code would log in twice. Here the WHERE clause does the comparison inside
// the write, so exactly one caller sees RowsAffected == 1.
func (db *DB) ConsumeTwoFactorCode(ctx context.Context, userID int64, code string) (bool, error) {
	res, err := db.conn.ExecContext(ctx,
		`UPDATE users SET
			two_factor_code = NULL,
			two_factor_code_expires = NULL,
			updated_at = ?
		 WHERE id = ? AND two_factor_code = ?`,
		time.Now(), userID, code,
	)
	if err != nil {
		return false, fmt.Errorf("sqlite: consuming 2FA code for user %d: %w", userID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("sqlite: checking 2FA consume result for user %d: %w", userID, err)
	}
	return affected == 1, nil
}

// ConsumeResetCode replaces the password hash and clears the pending reset
// code in one statement, only if the stored code still equals the one
// presented. Same conditional-update reasoning as ConsumeTwoFactorCode: the
// code must not be spendable twice, and the new password must never land
// without the code being consumed in the same write.
func (db *DB) ConsumeResetCode(ctx context.Context, userID int64, code, passwordHash string) (bool, error) {
	res, err := db.conn.ExecContext(ctx,
		`UPDATE users SET
			password_hash = ?,
			reset_code = NULL,
			reset_code_expires = NULL,
			updated_at = ?
		 WHERE id = ? AND reset_code = ?`,
		passwordHash, time.Now(), userID, code,
	)
	if err != nil {
		return false, fmt.Errorf("sqlite: consuming reset code for user %d: %w", userID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("sqlite: checking reset consume result for user %d: %w", userID, err)
	}
	return affected == 1, nil
}

// scanUser reads one user row. sql.Null* types bridge the NULLable columns
// (avatar, pending codes) to the model's pointer fields.
func scanUser(row *sql.Row) (*model.User, error) {
	var (
		u             model.User
		avatarURL     sql.NullString
		tfCode        sql.NullString
		tfCodeExpires sql.NullTime
		resetCode     sql.NullString
		resetExpires  sql.NullTime
	)

	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&u.Institution,
		&avatarURL,
		&u.TwoFactorEnabled,
		&tfCode,
		&tfCodeExpires,
		&resetCode,
		&resetExpires,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if avatarURL.Valid {
		u.AvatarURL = &avatarURL.String
	}
	if tfCode.Valid {
		u.TwoFactorCode = &tfCode.String
	}
	if tfCodeExpires.Valid {
		u.TwoFactorCodeExpires = &tfCodeExpires.Time
	}
	if resetCode.Valid {
		u.ResetCode = &resetCode.String
	}
	if resetExpires.Valid {
		u.ResetCodeExpires = &resetExpires.Time
	}

	return &u, nil
}
