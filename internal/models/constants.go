package models

import "time"

const (
	// SlotDuration is the fixed length of an atomic bookable slot.
	SlotDuration = 30 * time.Minute

	// DateLayout and ClockLayout are the wire formats for dates and
	// clock times throughout the system.
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

const (
	// DefaultSessionTTL is how long an idle conversation session lives.
	DefaultSessionTTL = 24 * time.Hour

	// RateLimitMessages / RateLimitWindow bound how many conversational
	// turns a single session may run inside the window.
	RateLimitMessages = 20
	RateLimitWindow   = 60 * time.Second

	// SnapshotQueueSize bounds the availability worker's refresh queue.
	SnapshotQueueSize = 64
)
