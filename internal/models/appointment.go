package models

import "time"

// Appointment binds a user to exactly one booked slot.
// SlotID intentionally has no foreign key constraint: deleting a window
// removes its slots unconditionally and leaves appointments dangling (a kept
// limitation of the original system, surfaced instead of silently fixed).
type Appointment struct {
	ID        int64     `json:"id"`
	UserName  string    `json:"user_name"`
	Date      string    `json:"date"`
	StartTime string    `json:"start_time"`
	EndTime   string    `json:"end_time"`
	SlotID    int64     `json:"slot_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Outcome tags the result of a ledger operation. Soft outcomes are plain
// values; they never abort the calling turn.
type Outcome string

const (
	OutcomeSuccess         Outcome = "success"
	OutcomeSlotUnavailable Outcome = "slot_unavailable"
	OutcomeNoAppointment   Outcome = "no_appointment"
	OutcomeValidationError Outcome = "validation_error"
	OutcomeConflict        Outcome = "conflict"
	OutcomeNotFound        Outcome = "not_found"
	OutcomeNotAttempted    Outcome = "not_attempted"
	OutcomeNone            Outcome = "none"
)

// BookingResult is the tagged outcome of book/cancel/reschedule.
type BookingResult struct {
	Outcome     Outcome      `json:"outcome"`
	Appointment *Appointment `json:"appointment,omitempty"`
	Detail      string       `json:"detail,omitempty"`
}

func (r BookingResult) Success() bool { return r.Outcome == OutcomeSuccess }
