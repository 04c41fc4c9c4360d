package worker

import (
	"context"
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/OjasThanawala/AI-Scheduling-Voicebot/internal/database"
	"github.com/OjasThanawala/AI-Scheduling-Voicebot/internal/events"
	"github.com/OjasThanawala/AI-Scheduling-Voicebot/internal/models"
	"github.com/OjasThanawala/AI-Scheduling-Voicebot/internal/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWorker(t *testing.T) (*SnapshotWorker, *database.DB, *repository.MemorySessionRepository) {
	t.Helper()

	logger := zerolog.New(io.Discard)
	db, err := database.NewDB(":memory:", &logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	sessions := repository.NewMemorySessionRepository(time.Hour)
	w := NewSnapshotWorker(db, sessions, RetryPolicy{}, &logger)
	return w, db, sessions
}

func seedWindow(t *testing.T, db *database.DB) {
	t.Helper()

	window := &models.Window{Date: "2026-09-01", StartTime: "09:00", EndTime: "10:00"}
	slots := []models.Slot{
		{Date: "2026-09-01", StartTime: "09:00", EndTime: "09:30"},
		{Date: "2026-09-01", StartTime: "09:30", EndTime: "10:00"},
	}
	require.NoError(t, db.CreateWindow(context.Background(), window, slots))
}

func TestSnapshotRefresh(t *testing.T) {
	w, db, sessions := newTestWorker(t)
	ctx := context.Background()
	seedWindow(t, db)

	require.NoError(t, w.Refresh(ctx))

	raw, err := sessions.GetSnapshot(ctx)
	require.NoError(t, err)

	var entries []snapshotSlot
	require.NoError(t, json.Unmarshal([]byte(raw), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "09:00", entries[0].StartTime)
	assert.Equal(t, "09:30", entries[1].StartTime)
}

func TestSnapshotRefresh_ExcludesBooked(t *testing.T) {
	w, db, sessions := newTestWorker(t)
	ctx := context.Background()
	seedWindow(t, db)

	appt := &models.Appointment{
		UserName:  "Alice",
		Date:      "2026-09-01",
		StartTime: "09:00",
		EndTime:   "09:30",
	}
	require.NoError(t, db.BookSlot(ctx, appt))

	require.NoError(t, w.Refresh(ctx))

	raw, err := sessions.GetSnapshot(ctx)
	require.NoError(t, err)

	var entries []snapshotSlot
	require.NoError(t, json.Unmarshal([]byte(raw), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "09:30", entries[0].StartTime)
}

func TestSnapshotRefresh_EmptyStore(t *testing.T) {
	w, _, sessions := newTestWorker(t)
	ctx := context.Background()

	require.NoError(t, w.Refresh(ctx))

	raw, err := sessions.GetSnapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, "[]", raw)
}

func TestSnapshotWorker_EventsQueueRefresh(t *testing.T) {
	w, _, _ := newTestWorker(t)

	bus := events.NewEventBus()
	w.SubscribeTo(bus)

	require.NoError(t, bus.PublishJSON(events.EventAppointmentBooked, events.AppointmentEventPayload{AppointmentID: 1}))

	select {
	case <-w.refresh:
	default:
		t.Fatal("expected a queued refresh after an appointment event")
	}
}

func TestSnapshotWorker_NudgeDoesNotBlockWhenFull(t *testing.T) {
	w, _, _ := newTestWorker(t)

	for i := 0; i < models.SnapshotQueueSize+10; i++ {
		w.Nudge()
	}
	// channel full, extra nudges were dropped without blocking
	assert.Len(t, w.refresh, models.SnapshotQueueSize)
}

func TestRetryPolicy_NextDelay(t *testing.T) {
	p := RetryPolicy{InitialDelay: time.Second, BackoffFactor: 2, MaxDelay: 5 * time.Second}

	assert.Equal(t, time.Second, p.NextDelay(1))
	assert.Equal(t, 2*time.Second, p.NextDelay(2))
	assert.Equal(t, 4*time.Second, p.NextDelay(3))
	assert.Equal(t, 5*time.Second, p.NextDelay(4)) // clamped
	assert.Equal(t, time.Second, p.NextDelay(0))   // floor
}

func TestRetryPolicy_ZeroValueDefaults(t *testing.T) {
	var p RetryPolicy

	assert.Equal(t, time.Second, p.NextDelay(1))
	assert.Equal(t, 2*time.Second, p.NextDelay(2))
	assert.Equal(t, 30*time.Second, p.NextDelay(20)) // default cap

	filled := p.withDefaults()
	assert.Equal(t, 3, filled.MaxRetries)
}

func TestSnapshotWorker_StartStops(t *testing.T) {
	w, db, _ := newTestWorker(t)
	seedWindow(t, db)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop after context cancellation")
	}
}
