package a2a

import (
	"encoding/json"
	"fmt"
)

// Event is the closed, four-member discriminated union carried as the
// "result" of a streaming response (spec §3 "Events (streaming)", design
// note "Heterogeneous event unions"). Exactly one of the typed fields is
// non-nil; Kind names which one.
type Event struct {
	Kind EventKind

	Message  *Message
	Task     *Task
	Status   *TaskStatusUpdateEvent
	Artifact *TaskArtifactUpdateEvent
}

// EventKind discriminates Event.
type EventKind string

const (
	EventKindMessage  EventKind = "message"
	EventKindTask     EventKind = "task"
	EventKindStatus   EventKind = "status-update"
	EventKindArtifact EventKind = "artifact-update"
)

// kindProbe is decoded first to discover which variant to unmarshal into.
type kindProbe struct {
	Kind string `json:"kind"`
}

// DecodeEvent decodes a single JSON-RPC "result" payload into an Event.
// Unknown kinds return an error the caller may choose to drop silently — the
// streaming client does exactly that (spec §4.5, §9 design note 1).
func DecodeEvent(raw json.RawMessage) (Event, error) {
	var probe kindProbe
	if err := json.Unmarshal(raw, &probe); err != nil {
		return Event{}, fmt.Errorf("a2a: event has no decodable kind: %w", err)
	}

	switch EventKind(probe.Kind) {
	case EventKindMessage:
		var m Message
		if err := json.Unmarshal(raw, &m); err != nil {
			return Event{}, err
		}
		return Event{Kind: EventKindMessage, Message: &m}, nil
	case EventKindTask:
		var t Task
		if err := json.Unmarshal(raw, &t); err != nil {
			return Event{}, err
		}
		return Event{Kind: EventKindTask, Task: &t}, nil
	case EventKindStatus:
		var s TaskStatusUpdateEvent
		if err := json.Unmarshal(raw, &s); err != nil {
			return Event{}, err
		}
		return Event{Kind: EventKindStatus, Status: &s}, nil
	case EventKindArtifact:
		var a TaskArtifactUpdateEvent
		if err := json.Unmarshal(raw, &a); err != nil {
			return Event{}, err
		}
		return Event{Kind: EventKindArtifact, Artifact: &a}, nil
	default:
		return Event{}, fmt.Errorf("a2a: unrecognized event kind %q", probe.Kind)
	}
}

// Encodable is satisfied by every concrete event payload the dispatcher can
// emit onto an SSE stream (spec §4.4 step 8).
type Encodable interface {
	Message | Task | TaskStatusUpdateEvent | TaskArtifactUpdateEvent
}
