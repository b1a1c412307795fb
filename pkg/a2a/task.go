package a2a

import "time"

// TaskState enumerates the mutually-exclusive states a task may occupy
// (spec §3). The zero value is the empty string, which is none of the
// states below (in particular not TaskStateUnknown).
type TaskState string

const (
	TaskStateSubmitted     TaskState = "submitted"
	TaskStateWorking       TaskState = "working"
	TaskStateInputRequired TaskState = "input-required"
	TaskStateCompleted     TaskState = "completed"
	TaskStateCanceled      TaskState = "canceled"
	TaskStateFailed        TaskState = "failed"
	TaskStateRejected      TaskState = "rejected"
	TaskStateAuthRequired  TaskState = "auth-required"
	TaskStateUnknown       TaskState = "unknown"
)

// IsTerminal reports whether s is one of the four terminal states from which
// no further transition occurs (spec §3 invariant).
func (s TaskState) IsTerminal() bool {
	switch s {
	case TaskStateCompleted, TaskStateCanceled, TaskStateFailed, TaskStateRejected:
		return true
	default:
		return false
	}
}

// TaskStatus is the current lifecycle snapshot of a Task.
type TaskStatus struct {
	State     TaskState `json:"state"`
	Message   *Message  `json:"message,omitempty"`
	Timestamp string    `json:"timestamp,omitempty"` // ISO-8601 UTC, never numeric epoch
}

// NewTaskStatus stamps the current time in ISO-8601 UTC, matching the wire
// format mandated by spec §4.1.
func NewTaskStatus(state TaskState, msg *Message) TaskStatus {
	return TaskStatus{
		State:     state,
		Message:   msg,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// Task is a server-owned, stateful unit of agent work (spec §3).
type Task struct {
	ID        string         `json:"id"`
	ContextID string         `json:"contextId"`
	Status    TaskStatus     `json:"status"`
	History   []Message      `json:"history,omitempty"`
	Artifacts []Artifact     `json:"artifacts,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	Kind      string         `json:"kind"`
}

// NewTask constructs a freshly submitted task with a one-message history.
func NewTask(id, contextID string, first Message) *Task {
	return &Task{
		ID:        id,
		ContextID: contextID,
		Status:    NewTaskStatus(TaskStateSubmitted, nil),
		History:   []Message{first},
		Kind:      "task",
	}
}

// WithHistoryLimit returns a shallow copy of t whose History has been
// truncated to the spec's tasks/get semantics (§4.4): the last n entries
// when n > 0, or nil history when n <= 0.
func (t Task) WithHistoryLimit(n int) Task {
	out := t
	if n <= 0 {
		out.History = nil
		return out
	}
	if len(t.History) <= n {
		out.History = append([]Message(nil), t.History...)
		return out
	}
	out.History = append([]Message(nil), t.History[len(t.History)-n:]...)
	return out
}

// ---- Events (spec §3 "Events (streaming)") --------------------------------

// TaskStatusUpdateEvent reports a task status transition over a stream.
type TaskStatusUpdateEvent struct {
	TaskID    string         `json:"taskId"`
	ContextID string         `json:"contextId"`
	Kind      string         `json:"kind"` // always "status-update"
	Status    TaskStatus     `json:"status"`
	Final     bool           `json:"final"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// TaskArtifactUpdateEvent reports a new or appended artifact chunk over a
// stream.
type TaskArtifactUpdateEvent struct {
	TaskID    string         `json:"taskId"`
	ContextID string         `json:"contextId"`
	Kind      string         `json:"kind"` // always "artifact-update"
	Artifact  Artifact       `json:"artifact"`
	Append    bool           `json:"append,omitempty"`
	LastChunk bool           `json:"lastChunk,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// ---- JSON-RPC method parameter DTOs ----------------------------------------

// MessageSendParams is the body of message/send and message/stream.
type MessageSendParams struct {
	Message       Message        `json:"message" validate:"required"`
	Configuration *SendConfig    `json:"configuration,omitempty"`
	Metadata      map[string]any `json:"metadata,omitempty"`
}

// SendConfig carries optional per-call knobs (e.g. historyLength on the
// resulting task snapshot); kept intentionally small per spec scope.
type SendConfig struct {
	HistoryLength   *int     `json:"historyLength,omitempty"`
	AcceptedOutputs []string `json:"acceptedOutputModes,omitempty"`
}

// TaskIDParams is the body of tasks/cancel and pushNotificationConfig/get.
type TaskIDParams struct {
	ID       string         `json:"id" validate:"required"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// TaskQueryParams is the body of tasks/get.
type TaskQueryParams struct {
	ID            string `json:"id" validate:"required"`
	HistoryLength *int   `json:"historyLength,omitempty"`
}

// PushNotificationConfig describes a (never-delivered, per Non-goals) push
// notification sink.
type PushNotificationConfig struct {
	URL            string         `json:"url" validate:"required"`
	Token          string         `json:"token,omitempty"`
	Authentication map[string]any `json:"authentication,omitempty"`
}

// TaskPushNotificationConfig is the body of pushNotificationConfig/set (and
// the response shape of .../get).
type TaskPushNotificationConfig struct {
	TaskID                 string                 `json:"taskId" validate:"required"`
	PushNotificationConfig PushNotificationConfig `json:"pushNotificationConfig"`
}
