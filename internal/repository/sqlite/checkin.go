package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/emoai/emoai-server/internal/model"
	"github.com/emoai/emoai-server/internal/repository"
)

// compile-time checks that *DB implements the remaining repository interfaces
var (
	_ repository.CheckinRepository = (*DB)(nil)
	_ repository.ChatLogRepository = (*DB)(nil)
)

// CreateCheckin appends a new check-in and fills in the assigned id and
// timestamp. Check-ins are immutable after this — no update, no delete.
func (db *DB) CreateCheckin(ctx context.Context, checkin *model.Checkin) error {
	checkin.CreatedAt = time.Now()

	res, err := db.conn.ExecContext(ctx,
		`INSERT INTO checkins (user_id, mood, note, created_at) VALUES (?, ?, ?, ?)`,
		checkin.UserID,
		checkin.Mood,
		checkin.Note,
		checkin.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting checkin for user %d: %w", checkin.UserID, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading new checkin id: %w", err)
	}
	checkin.ID = id

	return nil
}

// ListByUser returns all of one user's check-ins in creation order.
// Ordering by id is creation order — ids are assigned monotonically.
func (db *DB) ListByUser(ctx context.Context, userID int64) ([]model.Checkin, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, user_id, mood, note, created_at
		 FROM checkins WHERE user_id = ? ORDER BY id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing checkins for user %d: %w", userID, err)
	}
	// rows MUST be closed, or the connection leaks back into the pool dirty.
	defer rows.Close()

	// Start with an empty (non-nil) slice so the JSON encoding is [] and
	// never null for a user with no check-ins.
	checkins := []model.Checkin{}
	for rows.Next() {
		var c model.Checkin
		if err := rows.Scan(&c.ID, &c.UserID, &c.Mood, &c.Note, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning checkin row: %w", err)
		}
		checkins = append(checkins, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating checkin rows: %w", err)
	}

	return checkins, nil
}

// CountByUser returns how many check-ins a user has made in total.
func (db *DB) CountByUser(ctx context.Context, userID int64) (int, error) {
	var count int
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM checkins WHERE user_id = ?`, userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("sqlite: counting checkins for user %d: %w", userID, err)
	}
	return count, nil
}

// Record logs one chatbot interaction for the stats aggregation.
func (db *DB) Record(ctx context.Context, userID int64, at time.Time) error {
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO chat_log (user_id, created_at) VALUES (?, ?)`,
		userID, at,
	)
	if err != nil {
		return fmt.Errorf("sqlite: recording chat interaction for user %d: %w", userID, err)
	}
	return nil
}

// CountSince returns how many chatbot interactions a user has had since the
// given instant. The (user_id, created_at) index makes this a range scan.
func (db *DB) CountSince(ctx context.Context, userID int64, since time.Time) (int, error) {
	var count int
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM chat_log WHERE user_id = ? AND created_at >= ?`,
		userID, since,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("sqlite: counting chat interactions for user %d: %w", userID, err)
	}
	return count, nil
}
