package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lumenforge/a2a-go/pkg/a2a"
	"github.com/lumenforge/a2a-go/pkg/tasks"
)

// Echo is a trivial reference Adapter that echoes the caller's text back,
// grounded on the teacher's EchoTaskManager (pkg/service/task_manager.go).
// It demonstrates the Adapter contract and gives the dispatcher, client and
// manager something real to exercise in tests without any external LLM
// dependency.
type Echo struct {
	Streaming bool
}

var _ Adapter = (*Echo)(nil)

func (e *Echo) AgentName() string        { return "Echo Agent" }
func (e *Echo) AgentDescription() string { return "Echoes back whatever text it is sent." }

func (e *Echo) CardCapabilities() a2a.AgentCapabilities {
	return a2a.AgentCapabilities{Streaming: e.Streaming}
}

func (e *Echo) Skills() []a2a.AgentSkill {
	return []a2a.AgentSkill{{ID: "echo", Name: "Echo"}}
}

func (e *Echo) DefaultInputModes() []string  { return []string{"text"} }
func (e *Echo) DefaultOutputModes() []string { return []string{"text"} }

// ResponseType always classifies as a one-shot message unless the caller's
// message already carries a taskId (an implicit continuation request per
// spec §3), in which case it classifies as task so the dispatcher keeps
// driving the existing task.
func (e *Echo) ResponseType(_ context.Context, params a2a.MessageSendParams) ResponseType {
	if params.Message.TaskID != "" {
		return ResponseTypeTask
	}
	return ResponseTypeMessage
}

func (e *Echo) HandleMessageSend(_ context.Context, params a2a.MessageSendParams) (a2a.Message, error) {
	return a2a.NewTextMessage("agent", uuid.NewString(), "echo: "+params.Message.Text()), nil
}

func (e *Echo) HandleTaskSend(_ context.Context, params a2a.MessageSendParams, taskID, _ string, store *tasks.Store) error {
	store.UpdateStatus(taskID, a2a.NewTaskStatus(a2a.TaskStateWorking, nil))
	store.AppendArtifact(taskID, a2a.Artifact{
		ArtifactID: uuid.NewString(),
		Parts:      []a2a.Part{a2a.NewTextPart("echo: " + params.Message.Text())},
	})
	store.UpdateStatus(taskID, a2a.NewTaskStatus(a2a.TaskStateCompleted, nil))
	return nil
}

func (e *Echo) HandleStream(_ context.Context, params a2a.MessageSendParams, taskID, contextID string, store *tasks.Store, sink EventSink) {
	text := params.Message.Text()

	if taskID == "" {
		sink.Send(a2a.NewTextMessage("agent", uuid.NewString(), "echo: "+text))
		return
	}

	sink.Send(a2a.TaskStatusUpdateEvent{
		TaskID: taskID, ContextID: contextID, Kind: "status-update",
		Status: a2a.NewTaskStatus(a2a.TaskStateWorking, nil),
	})
	store.UpdateStatus(taskID, a2a.NewTaskStatus(a2a.TaskStateWorking, nil))

	time.Sleep(10 * time.Millisecond)

	artifact := a2a.Artifact{
		ArtifactID: uuid.NewString(),
		Name:       "echo",
		Parts:      []a2a.Part{a2a.NewTextPart("echo: " + text)},
	}
	store.AppendArtifact(taskID, artifact)
	sink.Send(a2a.TaskArtifactUpdateEvent{
		TaskID: taskID, ContextID: contextID, Kind: "artifact-update",
		Artifact: artifact, Append: false, LastChunk: true,
	})

	final := a2a.NewTaskStatus(a2a.TaskStateCompleted, nil)
	store.UpdateStatus(taskID, final)
	sink.Send(a2a.TaskStatusUpdateEvent{
		TaskID: taskID, ContextID: contextID, Kind: "status-update",
		Status: final, Final: true,
	})
}
