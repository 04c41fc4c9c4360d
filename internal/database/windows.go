package database

import (
	"context"
	"fmt"
	"time"

	"github.com/OjasThanawala/AI-Scheduling-Voicebot/internal/models"
)

// CreateWindow inserts the window together with its pre-computed slots in a
// single transaction. The overlap check covers the three conflict shapes:
// new start inside an existing window, new end inside an existing window,
// and full containment of an existing window.
func (db *DB) CreateWindow(ctx context.Context, window *models.Window, slots []models.Slot) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var conflicts int
	queryConflict := `SELECT COUNT(*) FROM windows
          WHERE date = ?
          AND (
              (start_time <= ? AND end_time > ?)
              OR (start_time < ? AND end_time >= ?)
              OR (? <= start_time AND ? >= end_time)
          )`
	err = tx.QueryRowContext(ctx, queryConflict,
		window.Date,
		window.StartTime, window.StartTime,
		window.EndTime, window.EndTime,
		window.StartTime, window.EndTime,
	).Scan(&conflicts)
	if err != nil {
		return fmt.Errorf("failed to check window conflicts: %w", err)
	}
	if conflicts > 0 {
		return ErrWindowConflict
	}

	now := time.Now()
	result, err := tx.ExecContext(ctx,
		`INSERT INTO windows (date, start_time, end_time, created_at) VALUES (?, ?, ?, ?)`,
		window.Date, window.StartTime, window.EndTime, now,
	)
	if err != nil {
		return fmt.Errorf("failed to insert window: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	for i := range slots {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO slots (window_id, date, start_time, end_time, booked) VALUES (?, ?, ?, ?, 0)`,
			id, slots[i].Date, slots[i].StartTime, slots[i].EndTime,
		)
		if err != nil {
			return fmt.Errorf("failed to insert slot: %w", err)
		}
		slotID, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get slot insert id: %w", err)
		}
		slots[i].ID = slotID
		slots[i].WindowID = id
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit window: %w", err)
	}

	window.ID = id
	window.CreatedAt = now
	return nil
}

// DeleteWindow removes the window and every slot it owns in one transaction.
// Booked slots are removed too; appointments referencing them are left
// behind untouched.
func (db *DB) DeleteWindow(ctx context.Context, id int64) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var exists int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM windows WHERE id = ?`, id).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check window existence: %w", err)
	}
	if exists == 0 {
		return ErrWindowNotFound
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM slots WHERE window_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete slots: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM windows WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete window: %w", err)
	}

	return tx.Commit()
}

// ListWindows returns every declared window ordered by date and start time.
func (db *DB) ListWindows(ctx context.Context) ([]*models.Window, error) {
	query := `SELECT id, date, start_time, end_time, created_at
              FROM windows ORDER BY date, start_time`
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list windows: %w", err)
	}
	defer rows.Close()

	var windows []*models.Window
	for rows.Next() {
		w := &models.Window{}
		if err := rows.Scan(&w.ID, &w.Date, &w.StartTime, &w.EndTime, &w.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan window: %w", err)
		}
		windows = append(windows, w)
	}
	return windows, rows.Err()
}

// GetWindow returns a single window by id.
func (db *DB) GetWindow(ctx context.Context, id int64) (*models.Window, error) {
	w := &models.Window{}
	query := `SELECT id, date, start_time, end_time, created_at FROM windows WHERE id = ?`
	err := db.QueryRowContext(ctx, query, id).Scan(&w.ID, &w.Date, &w.StartTime, &w.EndTime, &w.CreatedAt)
	if err != nil {
		return nil, ErrWindowNotFound
	}
	return w, nil
}

// ListSlots returns every slot, ordered for stable output.
func (db *DB) ListSlots(ctx context.Context) ([]*models.Slot, error) {
	return db.querySlots(ctx,
		`SELECT id, window_id, date, start_time, end_time, booked
         FROM slots ORDER BY date, start_time`)
}

// ListFreeSlots returns unbooked slots only, the feed for the availability
// snapshot and the agent's system prompt.
func (db *DB) ListFreeSlots(ctx context.Context) ([]*models.Slot, error) {
	return db.querySlots(ctx,
		`SELECT id, window_id, date, start_time, end_time, booked
         FROM slots WHERE booked = 0 ORDER BY date, start_time`)
}

// ListWindowSlots returns the slots owned by one window.
func (db *DB) ListWindowSlots(ctx context.Context, windowID int64) ([]*models.Slot, error) {
	return db.querySlots(ctx,
		`SELECT id, window_id, date, start_time, end_time, booked
         FROM slots WHERE window_id = ? ORDER BY start_time`, windowID)
}

func (db *DB) querySlots(ctx context.Context, query string, args ...any) ([]*models.Slot, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query slots: %w", err)
	}
	defer rows.Close()

	var slots []*models.Slot
	for rows.Next() {
		s := &models.Slot{}
		if err := rows.Scan(&s.ID, &s.WindowID, &s.Date, &s.StartTime, &s.EndTime, &s.Booked); err != nil {
			return nil, fmt.Errorf("failed to scan slot: %w", err)
		}
		slots = append(slots, s)
	}
	return slots, rows.Err()
}
