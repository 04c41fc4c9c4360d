package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/OjasThanawala/AI-Scheduling-Voicebot/internal/models"
)

// BookSlot finds the free slot matching (date, start, end), marks it booked
// and inserts the appointment, all inside one transaction. The mark step is
// a conditional update checked by affected-row count, so two concurrent
// bookings for the same slot can never both succeed.
func (db *DB) BookSlot(ctx context.Context, appt *models.Appointment) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var slotID int64
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM slots WHERE date = ? AND start_time = ? AND end_time = ? AND booked = 0 LIMIT 1`,
		appt.Date, appt.StartTime, appt.EndTime,
	).Scan(&slotID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrSlotUnavailable
	}
	if err != nil {
		return fmt.Errorf("failed to find slot: %w", err)
	}

	if err := bookSlotTx(ctx, tx, slotID); err != nil {
		return err
	}

	now := time.Now()
	result, err := tx.ExecContext(ctx,
		`INSERT INTO appointments (user_name, date, start_time, end_time, slot_id, created_at)
         VALUES (?, ?, ?, ?, ?, ?)`,
		appt.UserName, appt.Date, appt.StartTime, appt.EndTime, slotID, now,
	)
	if err != nil {
		return fmt.Errorf("failed to insert appointment: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit booking: %w", err)
	}

	appt.ID = id
	appt.SlotID = slotID
	appt.CreatedAt = now
	return nil
}

// bookSlotTx is the atomic find-and-mark step: the update only succeeds if
// the row is still unbooked.
func bookSlotTx(ctx context.Context, tx *sql.Tx, slotID int64) error {
	result, err := tx.ExecContext(ctx,
		`UPDATE slots SET booked = 1 WHERE id = ? AND booked = 0`, slotID)
	if err != nil {
		return fmt.Errorf("failed to mark slot booked: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrSlotUnavailable
	}
	return nil
}

// CancelByUser frees the slot of the user's first appointment (lowest id
// wins when a user holds several) and deletes the appointment row.
func (db *DB) CancelByUser(ctx context.Context, userName string) (*models.Appointment, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	appt, err := firstAppointmentTx(ctx, tx, userName)
	if err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx, `UPDATE slots SET booked = 0 WHERE id = ?`, appt.SlotID); err != nil {
		return nil, fmt.Errorf("failed to free slot: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM appointments WHERE id = ?`, appt.ID); err != nil {
		return nil, fmt.Errorf("failed to delete appointment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit cancel: %w", err)
	}
	return appt, nil
}

// MoveAppointment reschedules the user's first appointment onto the slot
// matching (date, start, end) inside a single transaction. If the target
// slot is taken the whole move rolls back and the existing appointment
// survives untouched.
func (db *DB) MoveAppointment(ctx context.Context, userName, date, startTime, endTime string) (*models.Appointment, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	appt, err := firstAppointmentTx(ctx, tx, userName)
	if err != nil {
		return nil, err
	}

	var newSlotID int64
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM slots WHERE date = ? AND start_time = ? AND end_time = ? AND booked = 0 LIMIT 1`,
		date, startTime, endTime,
	).Scan(&newSlotID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlotUnavailable
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find slot: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `UPDATE slots SET booked = 0 WHERE id = ?`, appt.SlotID); err != nil {
		return nil, fmt.Errorf("failed to free old slot: %w", err)
	}

	if err := bookSlotTx(ctx, tx, newSlotID); err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE appointments SET date = ?, start_time = ?, end_time = ?, slot_id = ? WHERE id = ?`,
		date, startTime, endTime, newSlotID, appt.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to re-point appointment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit move: %w", err)
	}

	appt.Date = date
	appt.StartTime = startTime
	appt.EndTime = endTime
	appt.SlotID = newSlotID
	return appt, nil
}

func firstAppointmentTx(ctx context.Context, tx *sql.Tx, userName string) (*models.Appointment, error) {
	appt := &models.Appointment{}
	err := tx.QueryRowContext(ctx,
		`SELECT id, user_name, date, start_time, end_time, slot_id, created_at
         FROM appointments WHERE user_name = ? ORDER BY id LIMIT 1`,
		userName,
	).Scan(&appt.ID, &appt.UserName, &appt.Date, &appt.StartTime, &appt.EndTime, &appt.SlotID, &appt.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoAppointment
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find appointment: %w", err)
	}
	return appt, nil
}

// ListAppointments returns every appointment ordered by date and time.
func (db *DB) ListAppointments(ctx context.Context) ([]*models.Appointment, error) {
	query := `SELECT id, user_name, date, start_time, end_time, slot_id, created_at
              FROM appointments ORDER BY date, start_time`
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	defer rows.Close()

	var appts []*models.Appointment
	for rows.Next() {
		a := &models.Appointment{}
		if err := rows.Scan(&a.ID, &a.UserName, &a.Date, &a.StartTime, &a.EndTime, &a.SlotID, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan appointment: %w", err)
		}
		appts = append(appts, a)
	}
	return appts, rows.Err()
}

// ListUserAppointments returns a user's appointments ordered by id.
func (db *DB) ListUserAppointments(ctx context.Context, userName string) ([]*models.Appointment, error) {
	query := `SELECT id, user_name, date, start_time, end_time, slot_id, created_at
              FROM appointments WHERE user_name = ? ORDER BY id`
	rows, err := db.QueryContext(ctx, query, userName)
	if err != nil {
		return nil, fmt.Errorf("failed to list user appointments: %w", err)
	}
	defer rows.Close()

	var appts []*models.Appointment
	for rows.Next() {
		a := &models.Appointment{}
		if err := rows.Scan(&a.ID, &a.UserName, &a.Date, &a.StartTime, &a.EndTime, &a.SlotID, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan appointment: %w", err)
		}
		appts = append(appts, a)
	}
	return appts, rows.Err()
}
