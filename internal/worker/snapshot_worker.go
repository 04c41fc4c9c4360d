package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/OjasThanawala/AI-Scheduling-Voicebot/internal/domain"
	"github.com/OjasThanawala/AI-Scheduling-Voicebot/internal/events"
	"github.com/OjasThanawala/AI-Scheduling-Voicebot/internal/models"

	"github.com/rs/zerolog"
)

// SnapshotWorker keeps the shared availability snapshot current. Any booking
// or window event queues a refresh; a periodic tick catches anything missed.
type SnapshotWorker struct {
	store        domain.Store
	sessions     domain.SessionRepository
	retryPolicy  RetryPolicy
	refresh      chan struct{}
	tickInterval time.Duration
	logger       *zerolog.Logger
}

type snapshotSlot struct {
	Date      string `json:"Date"`
	StartTime string `json:"Start Time"`
}

func NewSnapshotWorker(store domain.Store, sessions domain.SessionRepository, retry RetryPolicy, logger *zerolog.Logger) *SnapshotWorker {
	return &SnapshotWorker{
		store:        store,
		sessions:     sessions,
		retryPolicy:  retry.withDefaults(),
		refresh:      make(chan struct{}, models.SnapshotQueueSize),
		tickInterval: 5 * time.Minute,
		logger:       logger,
	}
}

// SubscribeTo registers the worker on every event that changes availability.
func (w *SnapshotWorker) SubscribeTo(bus *events.EventBus) {
	handler := func(*events.Event) error {
		w.Nudge()
		return nil
	}
	bus.Subscribe(events.EventWindowCreated, handler)
	bus.Subscribe(events.EventWindowDeleted, handler)
	bus.Subscribe(events.EventAppointmentBooked, handler)
	bus.Subscribe(events.EventAppointmentCancelled, handler)
	bus.Subscribe(events.EventAppointmentMoved, handler)
}

// Nudge queues a refresh without blocking the publisher.
func (w *SnapshotWorker) Nudge() {
	select {
	case w.refresh <- struct{}{}:
	default:
		// a refresh is already queued, this one rides along
	}
}

// Start runs the refresh loop until ctx is done. One refresh happens
// immediately so the snapshot is populated before any conversation starts.
func (w *SnapshotWorker) Start(ctx context.Context) {
	w.logger.Info().Msg("snapshot worker started")
	defer w.logger.Info().Msg("snapshot worker stopped")

	w.refreshWithRetry(ctx)

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.refresh:
			w.drainPending()
			w.refreshWithRetry(ctx)
		case <-ticker.C:
			w.refreshWithRetry(ctx)
		}
	}
}

// drainPending collapses queued nudges so a burst of events costs one refresh.
func (w *SnapshotWorker) drainPending() {
	for {
		select {
		case <-w.refresh:
		default:
			return
		}
	}
}

func (w *SnapshotWorker) refreshWithRetry(ctx context.Context) {
	for attempt := 1; attempt <= w.retryPolicy.MaxRetries; attempt++ {
		err := w.Refresh(ctx)
		if err == nil {
			return
		}
		if ctx.Err() != nil {
			return
		}

		w.logger.Warn().Err(err).Int("attempt", attempt).Msg("snapshot refresh failed")
		if attempt == w.retryPolicy.MaxRetries {
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(w.retryPolicy.NextDelay(attempt)):
		}
	}
}

// Refresh recomputes the free-slot listing and stores it.
func (w *SnapshotWorker) Refresh(ctx context.Context) error {
	slots, err := w.store.ListFreeSlots(ctx)
	if err != nil {
		return fmt.Errorf("failed to list free slots: %w", err)
	}

	entries := make([]snapshotSlot, 0, len(slots))
	for _, s := range slots {
		entries = append(entries, snapshotSlot{Date: s.Date, StartTime: s.StartTime})
	}

	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	if err := w.sessions.SetSnapshot(ctx, string(data)); err != nil {
		return fmt.Errorf("failed to store snapshot: %w", err)
	}

	w.logger.Debug().Int("free_slots", len(entries)).Msg("availability snapshot refreshed")
	return nil
}
