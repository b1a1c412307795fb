package manager

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lumenforge/a2a-go/pkg/a2a"
)

// ToolCall is the opaque call a caller routes through the manager (spec
// §4.6 step 1-2): Name selects the registered agent, Instructions is the
// sole required argument.
type ToolCall struct {
	Name         string
	Instructions string
}

// Image is a non-text part classified as image content by its magic bytes.
type Image struct {
	Name  string
	Bytes []byte
}

// FileRef is a non-text part that did not classify as an image: either an
// inline byte buffer or a URL reference, never both.
type FileRef struct {
	Name string
	URL  string
	Data []byte
}

// AgentResponse is one fold of a stream's content: joined text plus any
// images/files gathered alongside it. Multiple AgentResponse values may be
// emitted per call (spec §4.6 invariants); an AgentResponse with empty
// Content but non-empty Images/Files is valid.
type AgentResponse struct {
	Content string
	Images  []Image
	Files   []FileRef
}

// AgentCall implements spec §4.6's agentCall algorithm: locate the named
// client, open a message/stream with a fresh user message carrying
// call.Instructions, and fold the resulting event sequence into zero or
// more AgentResponse values.
func (m *Manager) AgentCall(ctx context.Context, call ToolCall) ([]AgentResponse, error) {
	c, ok := m.Get(call.Name)
	if !ok {
		return nil, nil
	}
	if call.Instructions == "" {
		return nil, nil
	}

	stream, err := c.MessageStream(ctx, a2a.MessageSendParams{
		Message: a2a.NewTextMessage("user", uuid.NewString(), call.Instructions),
	})
	if err != nil {
		return nil, fmt.Errorf("manager: agent call %q: %w", call.Name, err)
	}
	defer stream.Close()

	f := &fold{}

	for {
		ev, ok := stream.Next()
		if !ok {
			break
		}
		f.apply(ev)
	}

	return f.responses, nil
}

// fold accumulates streamed events into AgentResponse values, holding the
// per-stream pendingText/pendingImages/pendingFiles buffers spec §4.6 step 4
// names.
type fold struct {
	responses []AgentResponse

	pendingText   string
	pendingImages []Image
	pendingFiles  []FileRef
}

func (f *fold) apply(ev a2a.Event) {
	switch ev.Kind {
	case a2a.EventKindMessage:
		f.applyMessage(*ev.Message)
	case a2a.EventKindTask:
		f.applyTask(*ev.Task)
	case a2a.EventKindArtifact:
		f.applyArtifact(*ev.Artifact)
	case a2a.EventKindStatus:
		f.applyStatus(*ev.Status)
	}
}

func (f *fold) applyMessage(m a2a.Message) {
	text, images, files := splitParts(m.Parts, "")
	if text == "" && len(images) == 0 && len(files) == 0 {
		return
	}
	f.responses = append(f.responses, AgentResponse{Content: text, Images: images, Files: files})
}

// applyTask folds a Task snapshot's artifacts as terminal artifact-update
// events (append=false, lastChunk=true), per spec §4.6 step 5 "Task".
func (f *fold) applyTask(t a2a.Task) {
	for _, artifact := range t.Artifacts {
		f.applyArtifact(a2a.TaskArtifactUpdateEvent{
			Artifact:  artifact,
			Append:    false,
			LastChunk: true,
		})
	}
}

func (f *fold) applyArtifact(ev a2a.TaskArtifactUpdateEvent) {
	text, images, files := splitParts(ev.Artifact.Parts, ev.Artifact.Name)

	if ev.Append {
		if trimmed := strings.TrimSpace(text); trimmed != "" {
			if f.pendingText != "" {
				f.pendingText += " " + trimmed
			} else {
				f.pendingText = trimmed
			}
		}
	} else if text != "" {
		f.pendingText = strings.TrimSpace(text)
	}
	f.pendingImages = append(f.pendingImages, images...)
	f.pendingFiles = append(f.pendingFiles, files...)

	if ev.LastChunk {
		f.flush()
	}
}

func (f *fold) applyStatus(ev a2a.TaskStatusUpdateEvent) {
	if ev.Status.State == a2a.TaskStateCompleted && f.pendingText != "" {
		f.flush()
	}
}

func (f *fold) flush() {
	if f.pendingText == "" && len(f.pendingImages) == 0 && len(f.pendingFiles) == 0 {
		return
	}
	f.responses = append(f.responses, AgentResponse{
		Content: f.pendingText,
		Images:  f.pendingImages,
		Files:   f.pendingFiles,
	})
	f.pendingText = ""
	f.pendingImages = nil
	f.pendingFiles = nil
}

// splitParts joins text-kind parts space-separated (skipping empty ones)
// and classifies every non-text part per spec §4.6 step 6. defaultName is
// the owning artifact's name, used for any Image part found (spec: "Image
// name defaults to the artifact name when available, else a fresh unique
// id"); message-folded parts pass an empty defaultName.
func splitParts(parts []a2a.Part, defaultName string) (text string, images []Image, files []FileRef) {
	imageName := func() string {
		if defaultName != "" {
			return defaultName
		}
		return uuid.NewString()
	}

	for _, p := range parts {
		switch p.Kind {
		case a2a.PartKindText:
			if p.Text == "" {
				continue
			}
			if text != "" {
				text += " "
			}
			text += p.Text

		case a2a.PartKindFile:
			if p.FileURL != "" {
				files = append(files, FileRef{Name: uuid.NewString(), URL: p.FileURL})
				continue
			}
			if looksLikeImage(p.FileBytes) {
				images = append(images, Image{Name: imageName(), Bytes: p.FileBytes})
			} else {
				files = append(files, FileRef{Name: uuid.NewString(), Data: p.FileBytes})
			}

		case a2a.PartKindData:
			if looksLikeImage(p.Data) {
				images = append(images, Image{Name: imageName(), Bytes: p.Data})
			} else {
				files = append(files, FileRef{Name: uuid.NewString(), Data: p.Data})
			}
		}
	}
	return text, images, files
}
