// Package adapter defines the contract an external agent implementation
// must satisfy (spec §4.3). Concrete adapters — backed by an LLM provider,
// a rules engine, anything — are injected by the host application; this
// package intentionally contains no LLM-provider code of its own (spec §1:
// "LLM provider adapters ... are out of scope", provided only by interface
// here).
package adapter

import (
	"context"

	"github.com/lumenforge/a2a-go/pkg/a2a"
	"github.com/lumenforge/a2a-go/pkg/tasks"
)

// ResponseType is the adapter's advisory classification of how it intends
// to handle a given message/send or message/stream call, letting the
// dispatcher skip task creation entirely for one-shot replies (spec §4.3).
type ResponseType string

const (
	ResponseTypeMessage ResponseType = "message"
	ResponseTypeTask    ResponseType = "task"
)

// EventSink is the channel-shaped contract handleStream emits events into.
// Send blocks the adapter's goroutine if the dispatcher's consumer is slow;
// callers should size buffering in the dispatcher, not here.
type EventSink interface {
	// Send emits one streaming event. ev must be one of Message, Task,
	// TaskStatusUpdateEvent, TaskArtifactUpdateEvent.
	Send(ev any)
}

// Adapter is the contract an external agent implementation satisfies
// (spec §4.3).
type Adapter interface {
	// ---- metadata getters ----
	AgentName() string
	AgentDescription() string
	CardCapabilities() a2a.AgentCapabilities
	Skills() []a2a.AgentSkill
	DefaultInputModes() []string
	DefaultOutputModes() []string

	// ResponseType advises the dispatcher whether handling params will
	// produce a one-shot Message or a stateful Task.
	ResponseType(ctx context.Context, params a2a.MessageSendParams) ResponseType

	// HandleMessageSend is invoked when ResponseType == message.
	HandleMessageSend(ctx context.Context, params a2a.MessageSendParams) (a2a.Message, error)

	// HandleTaskSend is invoked when ResponseType == task for the
	// non-streaming message/send path. The adapter must push status
	// transitions and artifacts into store as it works.
	HandleTaskSend(ctx context.Context, params a2a.MessageSendParams, taskID, contextID string, store *tasks.Store) error

	// HandleStream is invoked for message/stream. store/taskID/contextID
	// are present only for task-mode streams (empty strings and a nil
	// store for message-mode streams). Adapter panics/errors are swallowed
	// by the dispatcher, which finalizes the stream regardless (spec
	// §4.3, §7).
	HandleStream(ctx context.Context, params a2a.MessageSendParams, taskID, contextID string, store *tasks.Store, sink EventSink)
}

// ExtendedCardProvider is optionally implemented by an Adapter that wants
// to serve a richer card from agent/authenticatedExtendedCard than the one
// published at /.well-known/agent.json (spec §12 supplement).
type ExtendedCardProvider interface {
	ExtendedCard(ctx context.Context) a2a.AgentCard
}
