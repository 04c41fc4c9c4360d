package models

import "time"

// Window is a declared availability span for the clinic on a single date.
// Times are clock strings in 24h "15:04" format, dates in "2006-01-02".
type Window struct {
	ID        int64     `json:"id"`
	Date      string    `json:"date"`
	StartTime string    `json:"start_time"`
	EndTime   string    `json:"end_time"`
	CreatedAt time.Time `json:"created_at"`
}

// Slot is a fixed-duration bookable unit carved out of a window.
// WindowID references the owning window; cascade delete follows it.
type Slot struct {
	ID        int64  `json:"id"`
	WindowID  int64  `json:"window_id"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Booked    bool   `json:"booked"`
}
