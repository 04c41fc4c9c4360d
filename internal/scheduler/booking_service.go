package scheduler

import (
	"context"
	"errors"

	"github.com/OjasThanawala/AI-Scheduling-Voicebot/internal/database"
	"github.com/OjasThanawala/AI-Scheduling-Voicebot/internal/domain"
	"github.com/OjasThanawala/AI-Scheduling-Voicebot/internal/events"
	"github.com/OjasThanawala/AI-Scheduling-Voicebot/internal/metrics"
	"github.com/OjasThanawala/AI-Scheduling-Voicebot/internal/models"

	"github.com/rs/zerolog"
)

// BookingService is the ledger over slot occupancy. Soft conditions
// (unavailable slot, missing appointment, malformed input) surface as tagged
// outcomes in the result; only infrastructure failures travel on the error.
type BookingService struct {
	store    domain.Store
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
}

func NewBookingService(store domain.Store, eventBus domain.EventPublisher, logger *zerolog.Logger) *BookingService {
	return &BookingService{store: store, eventBus: eventBus, logger: logger}
}

// Book reserves the free slot matching (date, startTime); the slot end is
// always startTime plus the fixed slot duration.
func (s *BookingService) Book(ctx context.Context, userName, date, startTime string) (models.BookingResult, error) {
	if _, err := ParseDate(date); err != nil {
		return validationResult(err), nil
	}
	start, err := ParseClock(startTime)
	if err != nil {
		return validationResult(err), nil
	}

	appt := &models.Appointment{
		UserName:  userName,
		Date:      date,
		StartTime: startTime,
		EndTime:   SlotEnd(start),
	}

	err = s.store.BookSlot(ctx, appt)
	switch {
	case errors.Is(err, database.ErrSlotUnavailable):
		metrics.IncBooking("book", string(models.OutcomeSlotUnavailable))
		return models.BookingResult{Outcome: models.OutcomeSlotUnavailable, Detail: err.Error()}, nil
	case err != nil:
		return models.BookingResult{}, err
	}

	s.logger.Info().
		Str("user", userName).
		Str("date", date).
		Str("start", startTime).
		Int64("slot_id", appt.SlotID).
		Msg("appointment booked")
	metrics.IncBooking("book", string(models.OutcomeSuccess))

	s.publish(events.EventAppointmentBooked, appt)
	return models.BookingResult{Outcome: models.OutcomeSuccess, Appointment: appt}, nil
}

// Cancel frees the user's first appointment; first match by id wins when a
// user holds more than one.
func (s *BookingService) Cancel(ctx context.Context, userName string) (models.BookingResult, error) {
	appt, err := s.store.CancelByUser(ctx, userName)
	switch {
	case errors.Is(err, database.ErrNoAppointment):
		metrics.IncBooking("cancel", string(models.OutcomeNoAppointment))
		return models.BookingResult{Outcome: models.OutcomeNoAppointment, Detail: err.Error()}, nil
	case err != nil:
		return models.BookingResult{}, err
	}

	s.logger.Info().Str("user", userName).Int64("slot_id", appt.SlotID).Msg("appointment cancelled")
	metrics.IncBooking("cancel", string(models.OutcomeSuccess))

	s.publish(events.EventAppointmentCancelled, appt)
	return models.BookingResult{Outcome: models.OutcomeSuccess, Appointment: appt}, nil
}

// Reschedule moves the user's appointment onto the requested slot in a
// single transaction. When the target slot is taken the move rolls back and
// the existing appointment survives.
func (s *BookingService) Reschedule(ctx context.Context, userName, date, startTime string) (models.BookingResult, error) {
	if _, err := ParseDate(date); err != nil {
		return validationResult(err), nil
	}
	start, err := ParseClock(startTime)
	if err != nil {
		return validationResult(err), nil
	}

	appt, err := s.store.MoveAppointment(ctx, userName, date, startTime, SlotEnd(start))
	switch {
	case errors.Is(err, database.ErrNoAppointment):
		metrics.IncBooking("reschedule", string(models.OutcomeNoAppointment))
		return models.BookingResult{Outcome: models.OutcomeNoAppointment, Detail: err.Error()}, nil
	case errors.Is(err, database.ErrSlotUnavailable):
		metrics.IncBooking("reschedule", string(models.OutcomeSlotUnavailable))
		return models.BookingResult{Outcome: models.OutcomeSlotUnavailable, Detail: err.Error()}, nil
	case err != nil:
		return models.BookingResult{}, err
	}

	s.logger.Info().
		Str("user", userName).
		Str("date", date).
		Str("start", startTime).
		Int64("slot_id", appt.SlotID).
		Msg("appointment rescheduled")
	metrics.IncBooking("reschedule", string(models.OutcomeSuccess))

	s.publish(events.EventAppointmentMoved, appt)
	return models.BookingResult{Outcome: models.OutcomeSuccess, Appointment: appt}, nil
}

func (s *BookingService) publish(eventType string, appt *models.Appointment) {
	if s.eventBus == nil {
		return
	}
	payload := events.AppointmentEventPayload{
		AppointmentID: appt.ID,
		UserName:      appt.UserName,
		Date:          appt.Date,
		StartTime:     appt.StartTime,
		EndTime:       appt.EndTime,
		SlotID:        appt.SlotID,
	}
	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Warn().Err(err).Str("event", eventType).Msg("failed to publish event")
	}
}

func validationResult(err error) models.BookingResult {
	return models.BookingResult{Outcome: models.OutcomeValidationError, Detail: err.Error()}
}
