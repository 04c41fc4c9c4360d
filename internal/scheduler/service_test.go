package scheduler

import (
	"context"
	"io"
	"testing"

	"github.com/OjasThanawala/AI-Scheduling-Voicebot/internal/database"
	"github.com/OjasThanawala/AI-Scheduling-Voicebot/internal/events"
	"github.com/OjasThanawala/AI-Scheduling-Voicebot/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServices(t *testing.T) (*WindowsService, *BookingService, *database.DB, *events.EventBus) {
	t.Helper()

	logger := zerolog.New(io.Discard)
	db, err := database.NewDB(":memory:", &logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	bus := events.NewEventBus()
	return NewWindowsService(db, bus, &logger), NewBookingService(db, bus, &logger), db, bus
}

func TestWindowsService_CreateWindow(t *testing.T) {
	windows, _, db, bus := newTestServices(t)
	ctx := context.Background()

	var published []*events.Event
	bus.Subscribe(events.EventWindowCreated, func(e *events.Event) error {
		published = append(published, e)
		return nil
	})

	window, err := windows.CreateWindow(ctx, models.WindowRequest{
		Date: "2026-09-01", StartTime: "09:00", EndTime: "10:00",
	})
	require.NoError(t, err)
	assert.NotZero(t, window.ID)

	slots, err := db.ListWindowSlots(ctx, window.ID)
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, "09:00", slots[0].StartTime)
	assert.Equal(t, "09:30", slots[1].StartTime)

	require.Len(t, published, 1)
}

func TestWindowsService_CreateWindow_Validation(t *testing.T) {
	windows, _, _, _ := newTestServices(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		req     models.WindowRequest
		wantErr error
	}{
		{"bad date", models.WindowRequest{Date: "nope", StartTime: "09:00", EndTime: "10:00"}, ErrInvalidDate},
		{"bad start", models.WindowRequest{Date: "2026-09-01", StartTime: "nine", EndTime: "10:00"}, ErrInvalidTime},
		{"bad end", models.WindowRequest{Date: "2026-09-01", StartTime: "09:00", EndTime: "late"}, ErrInvalidTime},
		{"inverted", models.WindowRequest{Date: "2026-09-01", StartTime: "10:00", EndTime: "09:00"}, ErrInvalidRange},
		{"equal", models.WindowRequest{Date: "2026-09-01", StartTime: "09:00", EndTime: "09:00"}, ErrInvalidRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := windows.CreateWindow(ctx, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestWindowsService_CreateWindow_Conflict(t *testing.T) {
	windows, _, _, _ := newTestServices(t)
	ctx := context.Background()

	_, err := windows.CreateWindow(ctx, models.WindowRequest{Date: "2026-09-01", StartTime: "09:00", EndTime: "10:00"})
	require.NoError(t, err)

	_, err = windows.CreateWindow(ctx, models.WindowRequest{Date: "2026-09-01", StartTime: "09:30", EndTime: "10:30"})
	assert.ErrorIs(t, err, database.ErrWindowConflict)
}

func TestWindowsService_DeleteWindow(t *testing.T) {
	windows, _, db, bus := newTestServices(t)
	ctx := context.Background()

	deleted := 0
	bus.Subscribe(events.EventWindowDeleted, func(*events.Event) error { deleted++; return nil })

	window, err := windows.CreateWindow(ctx, models.WindowRequest{Date: "2026-09-01", StartTime: "09:00", EndTime: "10:00"})
	require.NoError(t, err)

	require.NoError(t, windows.DeleteWindow(ctx, window.ID))
	assert.Equal(t, 1, deleted)

	slots, err := db.ListSlots(ctx)
	require.NoError(t, err)
	assert.Empty(t, slots)

	assert.ErrorIs(t, windows.DeleteWindow(ctx, window.ID), database.ErrWindowNotFound)
}

func TestBookingService_Book(t *testing.T) {
	windows, ledger, _, bus := newTestServices(t)
	ctx := context.Background()

	booked := 0
	bus.Subscribe(events.EventAppointmentBooked, func(*events.Event) error { booked++; return nil })

	_, err := windows.CreateWindow(ctx, models.WindowRequest{Date: "2026-09-01", StartTime: "09:00", EndTime: "10:00"})
	require.NoError(t, err)

	result, err := ledger.Book(ctx, "Alice", "2026-09-01", "09:00")
	require.NoError(t, err)
	assert.True(t, result.Success())
	require.NotNil(t, result.Appointment)
	assert.Equal(t, "09:30", result.Appointment.EndTime)
	assert.Equal(t, 1, booked)

	// same slot again is a soft outcome, not an error
	result, err = ledger.Book(ctx, "Bob", "2026-09-01", "09:00")
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeSlotUnavailable, result.Outcome)
	assert.Equal(t, 1, booked)
}

func TestBookingService_Book_Validation(t *testing.T) {
	_, ledger, _, _ := newTestServices(t)
	ctx := context.Background()

	result, err := ledger.Book(ctx, "Alice", "not-a-date", "09:00")
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeValidationError, result.Outcome)

	result, err = ledger.Book(ctx, "Alice", "2026-09-01", "nine")
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeValidationError, result.Outcome)
}

func TestBookingService_Cancel(t *testing.T) {
	windows, ledger, db, _ := newTestServices(t)
	ctx := context.Background()

	_, err := windows.CreateWindow(ctx, models.WindowRequest{Date: "2026-09-01", StartTime: "09:00", EndTime: "10:00"})
	require.NoError(t, err)

	_, err = ledger.Book(ctx, "Alice", "2026-09-01", "09:00")
	require.NoError(t, err)

	result, err := ledger.Cancel(ctx, "Alice")
	require.NoError(t, err)
	assert.True(t, result.Success())

	free, err := db.ListFreeSlots(ctx)
	require.NoError(t, err)
	assert.Len(t, free, 2)

	result, err = ledger.Cancel(ctx, "Alice")
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeNoAppointment, result.Outcome)
}

func TestBookingService_Reschedule(t *testing.T) {
	windows, ledger, db, _ := newTestServices(t)
	ctx := context.Background()

	_, err := windows.CreateWindow(ctx, models.WindowRequest{Date: "2026-09-01", StartTime: "09:00", EndTime: "10:00"})
	require.NoError(t, err)

	_, err = ledger.Book(ctx, "Alice", "2026-09-01", "09:00")
	require.NoError(t, err)

	result, err := ledger.Reschedule(ctx, "Alice", "2026-09-01", "09:30")
	require.NoError(t, err)
	assert.True(t, result.Success())
	assert.Equal(t, "09:30", result.Appointment.StartTime)

	appts, err := db.ListUserAppointments(ctx, "Alice")
	require.NoError(t, err)
	require.Len(t, appts, 1)
	assert.Equal(t, "09:30", appts[0].StartTime)
}

func TestBookingService_Reschedule_TargetTakenKeepsOriginal(t *testing.T) {
	windows, ledger, db, _ := newTestServices(t)
	ctx := context.Background()

	_, err := windows.CreateWindow(ctx, models.WindowRequest{Date: "2026-09-01", StartTime: "09:00", EndTime: "10:00"})
	require.NoError(t, err)

	_, err = ledger.Book(ctx, "Alice", "2026-09-01", "09:00")
	require.NoError(t, err)
	_, err = ledger.Book(ctx, "Bob", "2026-09-01", "09:30")
	require.NoError(t, err)

	result, err := ledger.Reschedule(ctx, "Alice", "2026-09-01", "09:30")
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeSlotUnavailable, result.Outcome)

	// the failed move must not have destroyed Alice's appointment
	appts, err := db.ListUserAppointments(ctx, "Alice")
	require.NoError(t, err)
	require.Len(t, appts, 1)
	assert.Equal(t, "09:00", appts[0].StartTime)
}

func TestBookingService_Reschedule_NoAppointment(t *testing.T) {
	windows, ledger, _, _ := newTestServices(t)
	ctx := context.Background()

	_, err := windows.CreateWindow(ctx, models.WindowRequest{Date: "2026-09-01", StartTime: "09:00", EndTime: "10:00"})
	require.NoError(t, err)

	result, err := ledger.Reschedule(ctx, "Ghost", "2026-09-01", "09:00")
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeNoAppointment, result.Outcome)
}
