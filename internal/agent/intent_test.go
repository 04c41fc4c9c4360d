package agent

import (
	"errors"
	"testing"

	"github.com/OjasThanawala/AI-Scheduling-Voicebot/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIntent(t *testing.T) {
	raw := []byte(`{
		"action": "SCHEDULE",
		"date": "2026-09-01",
		"time": "09:00",
		"name": "Alice",
		"assistant_message_to_the_user": "Booked you in for 9am.",
		"context": ""
	}`)

	intent, err := ParseIntent(raw)
	require.NoError(t, err)
	assert.Equal(t, models.ActionSchedule, intent.NormalizedAction())
	assert.Equal(t, "2026-09-01", intent.DateValue())
	assert.Equal(t, "09:00", intent.TimeValue())
	assert.Equal(t, "Alice", intent.NameValue())
	assert.Equal(t, "Booked you in for 9am.", intent.AssistantMessage)
}

func TestParseIntent_NullFields(t *testing.T) {
	raw := []byte(`{
		"action": "CANCEL",
		"date": null,
		"time": null,
		"name": "Bob",
		"assistant_message_to_the_user": "Cancelling your appointment.",
		"context": ""
	}`)

	intent, err := ParseIntent(raw)
	require.NoError(t, err)
	assert.Equal(t, models.ActionCancel, intent.NormalizedAction())
	assert.Empty(t, intent.DateValue())
	assert.Empty(t, intent.TimeValue())
	assert.Equal(t, "Bob", intent.NameValue())
}

func TestParseIntent_Rejections(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty payload", ""},
		{"whitespace only", "   \n "},
		{"not json", "hello there"},
		{"markdown fence not accepted here", "```json\n{\"action\": \"cancel\"}\n```"},
		{"unknown field", `{"action": "cancel", "surprise": 1}`},
		{"trailing content", `{"action": "cancel"} {"action": "cancel"}`},
		{"wrong type", `{"action": ["cancel"]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseIntent([]byte(tt.raw))
			require.Error(t, err)

			var parseErr *ParseError
			assert.True(t, errors.As(err, &parseErr))
		})
	}
}

func TestNormalizedAction_UnknownCollapsesToUnrelated(t *testing.T) {
	intent := &models.Intent{Action: "BOOK_ME_MAYBE"}
	assert.Equal(t, models.ActionUnrelated, intent.NormalizedAction())

	intent = &models.Intent{Action: "  ReSchedule "}
	assert.Equal(t, models.ActionReschedule, intent.NormalizedAction())
}
