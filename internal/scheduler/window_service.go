package scheduler

import (
	"context"

	"github.com/OjasThanawala/AI-Scheduling-Voicebot/internal/domain"
	"github.com/OjasThanawala/AI-Scheduling-Voicebot/internal/events"
	"github.com/OjasThanawala/AI-Scheduling-Voicebot/internal/models"

	"github.com/rs/zerolog"
)

// WindowsService validates availability requests, partitions accepted spans
// into bookable slots and persists both in one transaction.
type WindowsService struct {
	store    domain.Store
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
}

func NewWindowsService(store domain.Store, eventBus domain.EventPublisher, logger *zerolog.Logger) *WindowsService {
	return &WindowsService{store: store, eventBus: eventBus, logger: logger}
}

func (s *WindowsService) CreateWindow(ctx context.Context, req models.WindowRequest) (*models.Window, error) {
	if _, err := ParseDate(req.Date); err != nil {
		return nil, err
	}
	start, err := ParseClock(req.StartTime)
	if err != nil {
		return nil, err
	}
	end, err := ParseClock(req.EndTime)
	if err != nil {
		return nil, err
	}
	if !start.Before(end) {
		return nil, ErrInvalidRange
	}

	window := &models.Window{Date: req.Date, StartTime: req.StartTime, EndTime: req.EndTime}
	slots := Partition(req.Date, start, end)

	if err := s.store.CreateWindow(ctx, window, slots); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("date", window.Date).
		Str("start", window.StartTime).
		Str("end", window.EndTime).
		Int("slots", len(slots)).
		Msg("window created")

	s.publish(events.EventWindowCreated, events.WindowEventPayload{
		WindowID:  window.ID,
		Date:      window.Date,
		StartTime: window.StartTime,
		EndTime:   window.EndTime,
		SlotCount: len(slots),
	})

	return window, nil
}

func (s *WindowsService) DeleteWindow(ctx context.Context, id int64) error {
	if err := s.store.DeleteWindow(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Int64("window_id", id).Msg("window deleted")
	s.publish(events.EventWindowDeleted, events.WindowEventPayload{WindowID: id})
	return nil
}

func (s *WindowsService) ListWindows(ctx context.Context) ([]*models.Window, error) {
	return s.store.ListWindows(ctx)
}

func (s *WindowsService) ListFreeSlots(ctx context.Context) ([]*models.Slot, error) {
	return s.store.ListFreeSlots(ctx)
}

func (s *WindowsService) publish(eventType string, payload interface{}) {
	if s.eventBus == nil {
		return
	}
	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Warn().Err(err).Str("event", eventType).Msg("failed to publish event")
	}
}
