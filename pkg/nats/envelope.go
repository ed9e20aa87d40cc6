package nats

import (
	"time"

	"mondichat-be/pkg/events"
)

const (
	StreamName    = "EVENTS"
	subjectPrefix = "events."
)

// envelope is the wire form of an event.
type envelope struct {
	Type       string                 `json:"type"`
	Data       map[string]interface{} `json:"data"`
	OccurredAt time.Time              `json:"occurred_at"`
}

func toEnvelope(e events.Event) envelope {
	return envelope{Type: e.EventType(), Data: e.Payload(), OccurredAt: e.Timestamp()}
}

func (e envelope) event() events.BaseEvent {
	return events.BaseEvent{Type: e.Type, Data: e.Data, OccurredAt: e.OccurredAt}
}

// Subject is the subject an event type is published on.
func Subject(eventType string) string {
	return subjectPrefix + eventType
}
