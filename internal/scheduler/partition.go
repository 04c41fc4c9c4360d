package scheduler

import (
	"errors"
	"fmt"
	"time"

	"github.com/OjasThanawala/AI-Scheduling-Voicebot/internal/models"
)

var (
	// ErrInvalidDate / ErrInvalidTime flag malformed wire strings.
	ErrInvalidDate = errors.New("invalid date format, expected YYYY-MM-DD")
	ErrInvalidTime = errors.New("invalid time format, expected HH:MM")

	// ErrInvalidRange flags start_time >= end_time.
	ErrInvalidRange = errors.New("end time must be after start time")
)

// ParseDate validates a YYYY-MM-DD wire date.
func ParseDate(raw string) (time.Time, error) {
	d, err := time.Parse(models.DateLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, raw)
	}
	return d, nil
}

// ParseClock validates a 24h HH:MM wire time.
func ParseClock(raw string) (time.Time, error) {
	c, err := time.Parse(models.ClockLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTime, raw)
	}
	return c, nil
}

// Partition cuts [start, end) into consecutive SlotDuration slots. A final
// remainder shorter than a full slot is dropped, never rounded up.
func Partition(date string, start, end time.Time) []models.Slot {
	var slots []models.Slot
	for cur := start; !cur.Add(models.SlotDuration).After(end); cur = cur.Add(models.SlotDuration) {
		slots = append(slots, models.Slot{
			Date:      date,
			StartTime: cur.Format(models.ClockLayout),
			EndTime:   cur.Add(models.SlotDuration).Format(models.ClockLayout),
		})
	}
	return slots
}

// SlotEnd computes the end clock string for a slot starting at startTime.
func SlotEnd(start time.Time) string {
	return start.Add(models.SlotDuration).Format(models.ClockLayout)
}
