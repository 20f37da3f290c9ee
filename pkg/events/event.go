package events

import "time"

// Event is the contract every published system event satisfies.
type Event interface {
	// EventType returns the unique code for this event (e.g. "QUERY_ANSWERED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the generic implementation the constructors below build on.
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

const (
	TypeQueryAnswered = "QUERY_ANSWERED"
	TypeQueryFailed   = "QUERY_FAILED"
)

// NewQueryAnswered records a successfully answered query for the async
// logging consumer.
func NewQueryAnswered(queryID, rawText, answer string, citations int, partial bool, latencyMs int64) Event {
	return BaseEvent{
		Type: TypeQueryAnswered,
		Data: map[string]interface{}{
			"query_id":   queryID,
			"raw_text":   rawText,
			"answer":     answer,
			"citations":  citations,
			"partial":    partial,
			"latency_ms": latencyMs,
		},
		OccurredAt: time.Now(),
	}
}

// NewQueryFailed records a terminally failed query together with its
// error kind.
func NewQueryFailed(rawText, errorKind, detail string, latencyMs int64) Event {
	return BaseEvent{
		Type: TypeQueryFailed,
		Data: map[string]interface{}{
			"raw_text":   rawText,
			"error_kind": errorKind,
			"detail":     detail,
			"latency_ms": latencyMs,
		},
		OccurredAt: time.Now(),
	}
}
