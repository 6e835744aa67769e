package pipeline

import "github.com/yungbote/maiopinion/internal/domain"

const (
	EventStepStart    = "step_start"
	EventStepComplete = "step_complete"
	EventComplete     = "complete"
	EventError        = "error"
)

// Event is one progress message of a run.
type Event struct {
	Type    string         `json:"type"`
	Step    int            `json:"step,omitempty"`
	Message string         `json:"message,omitempty"`
	Result  string         `json:"result,omitempty"`
	Report  *domain.Report `json:"report,omitempty"`
}

// Notifier receives events in order. Implementations must not block for long.
type Notifier interface {
	Notify(Event)
}

type NotifierFunc func(Event)

func (f NotifierFunc) Notify(e Event) { f(e) }

type discard struct{}

func (discard) Notify(Event) {}

// Collect records every event; handy for the CLI and tests.
type Collect struct {
	Events []Event
}

func (c *Collect) Notify(e Event) { c.Events = append(c.Events, e) }

func ErrorEvent(err error) Event {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return Event{Type: EventError, Message: msg}
}
