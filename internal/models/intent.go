package models

import "strings"

const (
	ActionSchedule   = "schedule"
	ActionReschedule = "reschedule"
	ActionCancel     = "cancel"
	ActionUnrelated  = "unrelated"
)

// Intent is the structured action extracted by the conversational agent from
// one user utterance. Date, Time and Name are nil when the agent could not
// extract them.
type Intent struct {
	Action           string  `json:"action"`
	Date             *string `json:"date"`
	Time             *string `json:"time"`
	Name             *string `json:"name"`
	AssistantMessage string  `json:"assistant_message_to_the_user"`
	Context          string  `json:"context"`
}

// NormalizedAction lower-cases the action and collapses anything
// unrecognized to ActionUnrelated.
func (i *Intent) NormalizedAction() string {
	switch strings.ToLower(strings.TrimSpace(i.Action)) {
	case ActionSchedule:
		return ActionSchedule
	case ActionReschedule:
		return ActionReschedule
	case ActionCancel:
		return ActionCancel
	default:
		return ActionUnrelated
	}
}

func (i *Intent) DateValue() string {
	if i.Date == nil {
		return ""
	}
	return strings.TrimSpace(*i.Date)
}

func (i *Intent) TimeValue() string {
	if i.Time == nil {
		return ""
	}
	return strings.TrimSpace(*i.Time)
}

func (i *Intent) NameValue() string {
	if i.Name == nil {
		return ""
	}
	return strings.TrimSpace(*i.Name)
}
