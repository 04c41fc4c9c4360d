package agent

import (
	"context"
	"io"
	"testing"

	"github.com/OjasThanawala/AI-Scheduling-Voicebot/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockLedger struct {
	mock.Mock
}

func (m *mockLedger) Book(ctx context.Context, userName, date, startTime string) (models.BookingResult, error) {
	args := m.Called(ctx, userName, date, startTime)
	return args.Get(0).(models.BookingResult), args.Error(1)
}

func (m *mockLedger) Cancel(ctx context.Context, userName string) (models.BookingResult, error) {
	args := m.Called(ctx, userName)
	return args.Get(0).(models.BookingResult), args.Error(1)
}

func (m *mockLedger) Reschedule(ctx context.Context, userName, date, startTime string) (models.BookingResult, error) {
	args := m.Called(ctx, userName, date, startTime)
	return args.Get(0).(models.BookingResult), args.Error(1)
}

func newTestDispatcher(ledger *mockLedger) *Dispatcher {
	logger := zerolog.New(io.Discard)
	return NewDispatcher(ledger, &logger)
}

func ptr(s string) *string { return &s }

func TestDispatch_Schedule(t *testing.T) {
	ledger := new(mockLedger)
	d := newTestDispatcher(ledger)
	ctx := context.Background()

	ledger.On("Book", ctx, "Alice", "2026-09-01", "09:00").
		Return(models.BookingResult{Outcome: models.OutcomeSuccess}, nil).Once()

	raw := []byte(`{"action":"SCHEDULE","date":"2026-09-01","time":"09:00","name":"Alice","assistant_message_to_the_user":"You're booked for 9am.","context":""}`)
	result, err := d.Dispatch(ctx, raw)
	require.NoError(t, err)

	assert.Equal(t, models.ActionSchedule, result.Action)
	assert.True(t, result.Attempted)
	assert.Equal(t, models.OutcomeSuccess, result.Outcome)
	// success keeps the agent's message verbatim
	assert.Equal(t, "You're booked for 9am.", result.Message)
	ledger.AssertExpectations(t)
}

func TestDispatch_Cancel(t *testing.T) {
	ledger := new(mockLedger)
	d := newTestDispatcher(ledger)
	ctx := context.Background()

	ledger.On("Cancel", ctx, "Bob").
		Return(models.BookingResult{Outcome: models.OutcomeSuccess}, nil).Once()

	raw := []byte(`{"action":"cancel","date":null,"time":null,"name":"Bob","assistant_message_to_the_user":"Your appointment is cancelled.","context":""}`)
	result, err := d.Dispatch(ctx, raw)
	require.NoError(t, err)

	assert.True(t, result.Attempted)
	assert.Equal(t, models.OutcomeSuccess, result.Outcome)
	ledger.AssertExpectations(t)
}

func TestDispatch_Reschedule_SlotUnavailableCorrectsMessage(t *testing.T) {
	ledger := new(mockLedger)
	d := newTestDispatcher(ledger)
	ctx := context.Background()

	ledger.On("Reschedule", ctx, "Carol", "2026-09-02", "10:00").
		Return(models.BookingResult{Outcome: models.OutcomeSlotUnavailable}, nil).Once()

	raw := []byte(`{"action":"RESCHEDULE","date":"2026-09-02","time":"10:00","name":"Carol","assistant_message_to_the_user":"Moved you to 10am.","context":""}`)
	result, err := d.Dispatch(ctx, raw)
	require.NoError(t, err)

	assert.True(t, result.Attempted)
	assert.Equal(t, models.OutcomeSlotUnavailable, result.Outcome)
	// the optimistic agent message must not stand alone
	assert.Contains(t, result.Message, "Moved you to 10am.")
	assert.Contains(t, result.Message, "no longer available")
	ledger.AssertExpectations(t)
}

func TestDispatch_MissingFieldsNotAttempted(t *testing.T) {
	ledger := new(mockLedger)
	d := newTestDispatcher(ledger)
	ctx := context.Background()

	intent := &models.Intent{
		Action:           "schedule",
		Date:             ptr("2026-09-01"),
		AssistantMessage: "What time works for you?",
	}
	result, err := d.Execute(ctx, intent)
	require.NoError(t, err)

	assert.False(t, result.Attempted)
	assert.Equal(t, models.OutcomeNotAttempted, result.Outcome)
	assert.Contains(t, result.Message, "What time works for you?")
	assert.Contains(t, result.Message, "time and name")
	ledger.AssertNotCalled(t, "Book", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDispatch_CancelMissingName(t *testing.T) {
	ledger := new(mockLedger)
	d := newTestDispatcher(ledger)

	intent := &models.Intent{Action: "cancel", AssistantMessage: "Who is this for?"}
	result, err := d.Execute(context.Background(), intent)
	require.NoError(t, err)

	assert.Equal(t, models.OutcomeNotAttempted, result.Outcome)
	assert.Contains(t, result.Message, "name")
	ledger.AssertNotCalled(t, "Cancel", mock.Anything, mock.Anything)
}

func TestDispatch_Unrelated(t *testing.T) {
	ledger := new(mockLedger)
	d := newTestDispatcher(ledger)

	raw := []byte(`{"action":"UNRELATED","date":null,"time":null,"name":null,"assistant_message_to_the_user":"I can help with appointments at the clinic.","context":""}`)
	result, err := d.Dispatch(context.Background(), raw)
	require.NoError(t, err)

	assert.False(t, result.Attempted)
	assert.Equal(t, models.OutcomeNone, result.Outcome)
	assert.Equal(t, "I can help with appointments at the clinic.", result.Message)
	ledger.AssertNotCalled(t, "Book", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDispatch_MalformedIntentFailsClosed(t *testing.T) {
	ledger := new(mockLedger)
	d := newTestDispatcher(ledger)

	result, err := d.Dispatch(context.Background(), []byte("I am not json at all"))
	require.NoError(t, err)

	assert.Equal(t, models.ActionUnrelated, result.Action)
	assert.False(t, result.Attempted)
	assert.Equal(t, fallbackMessage, result.Message)
	ledger.AssertNotCalled(t, "Book", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	ledger.AssertNotCalled(t, "Cancel", mock.Anything, mock.Anything)
}

func TestDispatch_NoAppointmentCorrectsMessage(t *testing.T) {
	ledger := new(mockLedger)
	d := newTestDispatcher(ledger)
	ctx := context.Background()

	ledger.On("Cancel", ctx, "Ghost").
		Return(models.BookingResult{Outcome: models.OutcomeNoAppointment}, nil).Once()

	intent := &models.Intent{
		Action:           "cancel",
		Name:             ptr("Ghost"),
		AssistantMessage: "Cancelled your appointment.",
	}
	result, err := d.Execute(ctx, intent)
	require.NoError(t, err)

	assert.Equal(t, models.OutcomeNoAppointment, result.Outcome)
	assert.Contains(t, result.Message, "couldn't find an existing appointment")
	ledger.AssertExpectations(t)
}
