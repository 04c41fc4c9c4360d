package domain

import (
	"context"
	"time"

	"github.com/OjasThanawala/AI-Scheduling-Voicebot/internal/models"
)

// Store is the persistence surface for windows, slots and appointments.
type Store interface {
	CreateWindow(ctx context.Context, window *models.Window, slots []models.Slot) error
	DeleteWindow(ctx context.Context, id int64) error
	ListWindows(ctx context.Context) ([]*models.Window, error)
	GetWindow(ctx context.Context, id int64) (*models.Window, error)
	ListSlots(ctx context.Context) ([]*models.Slot, error)
	ListFreeSlots(ctx context.Context) ([]*models.Slot, error)
	ListWindowSlots(ctx context.Context, windowID int64) ([]*models.Slot, error)

	BookSlot(ctx context.Context, appt *models.Appointment) error
	CancelByUser(ctx context.Context, userName string) (*models.Appointment, error)
	MoveAppointment(ctx context.Context, userName, date, startTime, endTime string) (*models.Appointment, error)
	ListAppointments(ctx context.Context) ([]*models.Appointment, error)
	ListUserAppointments(ctx context.Context, userName string) ([]*models.Appointment, error)
}

// SessionRepository keeps conversation sessions and the shared availability
// snapshot the agent prompt is built from.
type SessionRepository interface {
	GetSession(ctx context.Context, id string) (*models.Session, error)
	SetSession(ctx context.Context, session *models.Session) error
	ClearSession(ctx context.Context, id string) error
	CheckRateLimit(ctx context.Context, id string, limit int, window time.Duration) (bool, error)
	GetSnapshot(ctx context.Context) (string, error)
	SetSnapshot(ctx context.Context, snapshot string) error
}

// EventPublisher fans domain events out to in-process subscribers.
type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// WindowService manages availability windows and their slot partitions.
type WindowService interface {
	CreateWindow(ctx context.Context, req models.WindowRequest) (*models.Window, error)
	DeleteWindow(ctx context.Context, id int64) error
	ListWindows(ctx context.Context) ([]*models.Window, error)
	ListFreeSlots(ctx context.Context) ([]*models.Slot, error)
}

// Ledger executes booking operations and reports tagged outcomes. Soft
// outcomes come back in the result; the error channel is for infrastructure
// failures only.
type Ledger interface {
	Book(ctx context.Context, userName, date, startTime string) (models.BookingResult, error)
	Cancel(ctx context.Context, userName string) (models.BookingResult, error)
	Reschedule(ctx context.Context, userName, date, startTime string) (models.BookingResult, error)
}

// Transcriber converts recorded speech to text. External collaborator.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

// Synthesizer converts text to speech audio. External collaborator.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// IntentExtractor turns a user utterance into the agent's raw JSON intent
// payload. External collaborator; the strict parse happens in the core.
type IntentExtractor interface {
	Extract(ctx context.Context, session *models.Session, userText string) ([]byte, error)
}
