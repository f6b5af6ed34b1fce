package events

import "time"

// EventType identifies the kind of event emitted while hunting.
type EventType string

const (
	EventHuntStart     EventType = "hunt.start"
	EventHuntStep      EventType = "hunt.step"
	EventHuntExpand    EventType = "hunt.expand"
	EventHuntEnd       EventType = "hunt.end"
	EventCheckoutStart EventType = "checkout.start"
	EventCheckoutDone  EventType = "checkout.done"
	EventRestoreDone   EventType = "restore.done"
	EventVerifyResult  EventType = "verify.result"
	EventOperation     EventType = "operation"
)

// Event is a single runtime event.
type Event struct {
	Type      EventType     `json:"type"`
	Timestamp time.Time     `json:"timestamp"`
	Data      any           `json:"data,omitempty"`
	Step      int           `json:"step,omitempty"`
	Duration  time.Duration `json:"duration,omitempty"`
}

// New creates an Event stamped with the current time.
func New(typ EventType, data any) Event {
	return Event{Type: typ, Timestamp: time.Now(), Data: data}
}
