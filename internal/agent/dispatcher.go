package agent

import (
	"context"
	"errors"
	"strings"

	"github.com/OjasThanawala/AI-Scheduling-Voicebot/internal/domain"
	"github.com/OjasThanawala/AI-Scheduling-Voicebot/internal/metrics"
	"github.com/OjasThanawala/AI-Scheduling-Voicebot/internal/models"

	"github.com/rs/zerolog"
)

const (
	// Fail-closed reply when the agent's output cannot be parsed at all.
	fallbackMessage = "Sorry, I couldn't process your request."

	slotUnavailableNotice = "Actually, that timeslot is no longer available. Could you pick another date or time?"
	noAppointmentNotice   = "Actually, I couldn't find an existing appointment under that name."
	invalidFieldsNotice   = "Actually, I couldn't make sense of the date or time you gave me. Could you repeat them?"
)

// DispatchResult is what a conversational turn produces: the action taken,
// whether a ledger call was actually attempted, its outcome, and the final
// message for the user.
type DispatchResult struct {
	Action    string         `json:"action"`
	Attempted bool           `json:"attempted"`
	Outcome   models.Outcome `json:"outcome"`
	Message   string         `json:"message"`
}

// Dispatcher routes parsed intents onto the booking ledger. It fails closed
// on unparseable intents and reports missing required fields as a distinct
// not-attempted outcome instead of silently skipping the call.
type Dispatcher struct {
	ledger domain.Ledger
	logger *zerolog.Logger
}

func NewDispatcher(ledger domain.Ledger, logger *zerolog.Logger) *Dispatcher {
	return &Dispatcher{ledger: ledger, logger: logger}
}

// Dispatch parses the agent's raw JSON output and executes the intent. The
// returned error is for infrastructure failures only; every conversational
// condition comes back as a result with a usable message.
func (d *Dispatcher) Dispatch(ctx context.Context, raw []byte) (DispatchResult, error) {
	intent, err := ParseIntent(raw)
	if err != nil {
		var parseErr *ParseError
		if errors.As(err, &parseErr) {
			d.logger.Warn().Err(err).Msg("unparseable intent, failing closed")
			metrics.IncIntent(models.ActionUnrelated)
			return DispatchResult{
				Action:  models.ActionUnrelated,
				Outcome: models.OutcomeNone,
				Message: fallbackMessage,
			}, nil
		}
		return DispatchResult{}, err
	}

	return d.Execute(ctx, intent)
}

// Execute runs an already-parsed intent against the ledger.
func (d *Dispatcher) Execute(ctx context.Context, intent *models.Intent) (DispatchResult, error) {
	action := intent.NormalizedAction()
	metrics.IncIntent(action)

	result := DispatchResult{
		Action:  action,
		Outcome: models.OutcomeNone,
		Message: intent.AssistantMessage,
	}

	if action == models.ActionUnrelated {
		return result, nil
	}

	if missing := missingFields(action, intent); len(missing) > 0 {
		d.logger.Debug().
			Str("action", action).
			Strs("missing", missing).
			Msg("intent missing required fields, not attempting booking call")
		result.Outcome = models.OutcomeNotAttempted
		result.Message = appendNotice(intent.AssistantMessage, missingFieldsNotice(missing))
		return result, nil
	}

	var (
		booking models.BookingResult
		err     error
	)
	switch action {
	case models.ActionSchedule:
		booking, err = d.ledger.Book(ctx, intent.NameValue(), intent.DateValue(), intent.TimeValue())
	case models.ActionReschedule:
		booking, err = d.ledger.Reschedule(ctx, intent.NameValue(), intent.DateValue(), intent.TimeValue())
	case models.ActionCancel:
		booking, err = d.ledger.Cancel(ctx, intent.NameValue())
	}
	if err != nil {
		return DispatchResult{}, err
	}

	result.Attempted = true
	result.Outcome = booking.Outcome

	// The agent's message stands on success; soft failures get a correction
	// appended so the user is never told "booked" when nothing was.
	switch booking.Outcome {
	case models.OutcomeSlotUnavailable:
		result.Message = appendNotice(intent.AssistantMessage, slotUnavailableNotice)
	case models.OutcomeNoAppointment:
		result.Message = appendNotice(intent.AssistantMessage, noAppointmentNotice)
	case models.OutcomeValidationError:
		result.Message = appendNotice(intent.AssistantMessage, invalidFieldsNotice)
	}

	return result, nil
}

func missingFields(action string, intent *models.Intent) []string {
	var missing []string
	switch action {
	case models.ActionSchedule, models.ActionReschedule:
		if intent.DateValue() == "" {
			missing = append(missing, "date")
		}
		if intent.TimeValue() == "" {
			missing = append(missing, "time")
		}
		if intent.NameValue() == "" {
			missing = append(missing, "name")
		}
	case models.ActionCancel:
		if intent.NameValue() == "" {
			missing = append(missing, "name")
		}
	}
	return missing
}

func missingFieldsNotice(missing []string) string {
	return "To go ahead I still need your " + joinNatural(missing) + "."
}

func joinNatural(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " and " + items[1]
	default:
		return strings.Join(items[:len(items)-1], ", ") + " and " + items[len(items)-1]
	}
}

func appendNotice(message, notice string) string {
	message = strings.TrimSpace(message)
	if message == "" {
		return notice
	}
	return message + " " + notice
}
