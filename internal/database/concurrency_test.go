package database

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/OjasThanawala/AI-Scheduling-Voicebot/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConcurrentBooking(t *testing.T) {
	logger := zerolog.New(zerolog.NewConsoleWriter())
	dbPath := filepath.Join(t.TempDir(), "concurrency.db")
	db, err := NewDB(dbPath, &logger)
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()

	w := &models.Window{Date: "2026-09-01", StartTime: "09:00", EndTime: "09:30"}
	require.NoError(t, db.CreateWindow(ctx, w, makeSlots(w.Date, [][2]string{{"09:00", "09:30"}})))

	const numGoroutines = 10
	var wg sync.WaitGroup
	wg.Add(numGoroutines)

	results := make(chan error, numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			defer wg.Done()
			appt := &models.Appointment{
				UserName:  fmt.Sprintf("User %d", id),
				Date:      "2026-09-01",
				StartTime: "09:00",
				EndTime:   "09:30",
			}
			results <- db.BookSlot(ctx, appt)
		}(i)
	}

	wg.Wait()
	close(results)

	successCount := 0
	unavailableCount := 0
	for err := range results {
		switch {
		case err == nil:
			successCount++
		case errors.Is(err, ErrSlotUnavailable):
			unavailableCount++
		default:
			t.Fatalf("unexpected booking error: %v", err)
		}
	}

	// At most one booking per slot is the hard invariant.
	assert.Equal(t, 1, successCount, "exactly one booking must win the slot")
	assert.Equal(t, numGoroutines-1, unavailableCount)

	appts, err := db.ListAppointments(ctx)
	require.NoError(t, err)
	assert.Len(t, appts, 1)

	free, err := db.ListFreeSlots(ctx)
	require.NoError(t, err)
	assert.Empty(t, free)
}
