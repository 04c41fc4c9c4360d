package google

import (
	"testing"

	"github.com/OjasThanawala/AI-Scheduling-Voicebot/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestStripFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain json", `{"action":"cancel"}`, `{"action":"cancel"}`},
		{"json fence", "```json\n{\"action\":\"cancel\"}\n```", `{"action":"cancel"}`},
		{"bare fence", "```\n{\"action\":\"cancel\"}\n```", `{"action":"cancel"}`},
		{"surrounding whitespace", "  {\"action\":\"cancel\"}  \n", `{"action":"cancel"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripFences(tt.in))
		})
	}
}

func TestComposePrompt(t *testing.T) {
	session := &models.Session{Prompt: "You are an assistant."}
	session.Append(models.RoleUser, "hi")
	session.Append(models.RoleAssistant, "hello, how can I help?")

	got := composePrompt(session, "book me in")

	assert.Contains(t, got, "You are an assistant.")
	assert.Contains(t, got, "user: hi")
	assert.Contains(t, got, "assistant: hello, how can I help?")
	assert.True(t, len(got) > 0 && got[len(got)-len("user: book me in"):] == "user: book me in")
}
