package agent

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/OjasThanawala/AI-Scheduling-Voicebot/internal/models"
)

// ParseError reports that the agent's raw output was not a valid intent
// document. The dispatcher fails closed on it: no booking call is made.
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("intent parse failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("intent parse failed: %s", e.Reason)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ParseIntent decodes the agent's raw JSON output into an Intent. The decode
// is strict: unknown fields and trailing content are rejected. Markdown fence
// stripping belongs to the model client, not here.
func ParseIntent(raw []byte) (*models.Intent, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, &ParseError{Reason: "empty payload"}
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.DisallowUnknownFields()

	var intent models.Intent
	if err := dec.Decode(&intent); err != nil {
		return nil, &ParseError{Reason: "malformed json", Err: err}
	}
	if dec.More() {
		return nil, &ParseError{Reason: "trailing content after intent document"}
	}

	return &intent, nil
}
