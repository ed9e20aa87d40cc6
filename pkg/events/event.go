package events

import "time"

const (
	TypeSnapshotReplaced = "SNAPSHOT_REPLACED"
	TypeRouteAssigned    = "ROUTE_ASSIGNED"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "SNAPSHOT_REPLACED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// SnapshotReplaced is emitted after an upload replaced the stored snapshot.
func SnapshotReplaced(batchId, layout string, count, skipped int, at time.Time) Event {
	return BaseEvent{
		Type: TypeSnapshotReplaced,
		Data: map[string]interface{}{
			"batch_id": batchId,
			"layout":   layout,
			"count":    count,
			"skipped":  skipped,
		},
		OccurredAt: at,
	}
}

// RouteAssigned is emitted when a user's route or quota changes.
func RouteAssigned(userId, routeCode string, quota float64, at time.Time) Event {
	return BaseEvent{
		Type: TypeRouteAssigned,
		Data: map[string]interface{}{
			"user_id":          userId,
			"route_code":       routeCode,
			"quota_percentage": quota,
		},
		OccurredAt: at,
	}
}
