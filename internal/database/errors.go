package database

import "errors"

var (
	// ErrWindowConflict means a new window overlaps an existing one on the
	// same date.
	ErrWindowConflict = errors.New("timeslot already added")

	// ErrWindowNotFound means the referenced window id does not exist.
	ErrWindowNotFound = errors.New("window not found")

	// ErrSlotUnavailable means no free slot matched the requested
	// (date, start, end) triple.
	ErrSlotUnavailable = errors.New("timeslot not available or already booked")

	// ErrNoAppointment means no appointment exists for the user.
	ErrNoAppointment = errors.New("no existing appointment found")
)
