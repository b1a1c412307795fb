package manager

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lumenforge/a2a-go/pkg/a2a"
	"github.com/lumenforge/a2a-go/pkg/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes() []byte {
	return []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
}

func newTestClient(t *testing.T, name string, streamBody string) *client.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/.well-known/agent.json":
			_ = json.NewEncoder(w).Encode(a2a.AgentCard{
				Name: name, URL: "http://example.invalid", Version: "0.0.1",
				Capabilities: a2a.AgentCapabilities{Streaming: true},
			})
		case "/message/stream":
			w.Header().Set("Content-Type", "text/event-stream")
			_, _ = w.Write([]byte(streamBody))
			if f, ok := w.(http.Flusher); ok {
				f.Flush()
			}
		}
	}))
	t.Cleanup(srv.Close)

	c, err := client.New(context.Background(), srv.URL, client.Auth{}, nil)
	require.NoError(t, err)
	return c
}

func sseLine(t *testing.T, result any) string {
	t.Helper()
	raw, err := json.Marshal(map[string]any{"jsonrpc": "2.0", "id": 1, "result": result})
	require.NoError(t, err)
	return "data: " + string(raw) + "\n\n"
}

func TestAgentCallFoldsMessageEvent(t *testing.T) {
	msg := a2a.NewTextMessage("agent", "m1", "hello there")
	body := sseLine(t, msg)

	c := newTestClient(t, "echo", body)
	m := NewFromClients([]*client.Client{c})

	responses, err := m.AgentCall(context.Background(), ToolCall{Name: "echo", Instructions: "hi"})
	require.NoError(t, err)
	require.Len(t, responses, 1)
	assert.Equal(t, "hello there", responses[0].Content)
}

func TestAgentCallFoldsAppendedArtifactChunksThenStatus(t *testing.T) {
	chunk1 := a2a.TaskArtifactUpdateEvent{
		TaskID: "t1", ContextID: "c1", Kind: "artifact-update",
		Artifact: a2a.Artifact{ArtifactID: "a1", Parts: []a2a.Part{a2a.NewTextPart("part one")}},
		Append:   false,
	}
	chunk2 := a2a.TaskArtifactUpdateEvent{
		TaskID: "t1", ContextID: "c1", Kind: "artifact-update",
		Artifact: a2a.Artifact{ArtifactID: "a1", Parts: []a2a.Part{a2a.NewTextPart("part two")}},
		Append:   true, LastChunk: true,
	}
	status := a2a.TaskStatusUpdateEvent{
		TaskID: "t1", ContextID: "c1", Kind: "status-update",
		Status: a2a.NewTaskStatus(a2a.TaskStateCompleted, nil), Final: true,
	}

	body := sseLine(t, chunk1) + sseLine(t, chunk2) + sseLine(t, status)
	c := newTestClient(t, "echo", body)
	m := NewFromClients([]*client.Client{c})

	responses, err := m.AgentCall(context.Background(), ToolCall{Name: "echo", Instructions: "hi"})
	require.NoError(t, err)
	require.Len(t, responses, 1)
	assert.Equal(t, "part one part two", responses[0].Content)
}

func TestAgentCallFoldsAppendedChunksWithTrailingSpacesWithoutDoubling(t *testing.T) {
	chunk1 := a2a.TaskArtifactUpdateEvent{
		TaskID: "t1", ContextID: "c1", Kind: "artifact-update",
		Artifact: a2a.Artifact{ArtifactID: "a1", Parts: []a2a.Part{a2a.NewTextPart("First ")}},
		Append:   false,
	}
	chunk2 := a2a.TaskArtifactUpdateEvent{
		TaskID: "t1", ContextID: "c1", Kind: "artifact-update",
		Artifact: a2a.Artifact{ArtifactID: "a1", Parts: []a2a.Part{a2a.NewTextPart("second ")}},
		Append:   true,
	}
	chunk3 := a2a.TaskArtifactUpdateEvent{
		TaskID: "t1", ContextID: "c1", Kind: "artifact-update",
		Artifact: a2a.Artifact{ArtifactID: "a1", Parts: []a2a.Part{a2a.NewTextPart("third")}},
		Append:   true, LastChunk: true,
	}

	body := sseLine(t, chunk1) + sseLine(t, chunk2) + sseLine(t, chunk3)
	c := newTestClient(t, "echo", body)
	m := NewFromClients([]*client.Client{c})

	responses, err := m.AgentCall(context.Background(), ToolCall{Name: "echo", Instructions: "hi"})
	require.NoError(t, err)
	require.Len(t, responses, 1)
	assert.Equal(t, "First second third", responses[0].Content)
}

func TestAgentCallClassifiesImageBytes(t *testing.T) {
	artifactEvent := a2a.TaskArtifactUpdateEvent{
		TaskID: "t1", ContextID: "c1", Kind: "artifact-update",
		Artifact: a2a.Artifact{
			ArtifactID: "a1",
			Name:       "snapshot",
			Parts:      []a2a.Part{a2a.NewFileBytesPart(pngBytes())},
		},
		LastChunk: true,
	}
	body := sseLine(t, artifactEvent)

	c := newTestClient(t, "echo", body)
	m := NewFromClients([]*client.Client{c})

	responses, err := m.AgentCall(context.Background(), ToolCall{Name: "echo", Instructions: "hi"})
	require.NoError(t, err)
	require.Len(t, responses, 1)
	require.Len(t, responses[0].Images, 1)
	assert.Equal(t, "snapshot", responses[0].Images[0].Name)
	assert.Empty(t, responses[0].Files)
}

func TestAgentCallUnknownAgentReturnsEmpty(t *testing.T) {
	m := NewFromClients(nil)
	responses, err := m.AgentCall(context.Background(), ToolCall{Name: "nobody", Instructions: "hi"})
	require.NoError(t, err)
	assert.Empty(t, responses)
}

func TestSplitPartsJoinsTextAndSkipsEmpty(t *testing.T) {
	parts := []a2a.Part{
		a2a.NewTextPart("first"),
		a2a.NewTextPart(""),
		a2a.NewTextPart("second"),
	}
	text, images, files := splitParts(parts, "")
	assert.Equal(t, "first second", text)
	assert.Empty(t, images)
	assert.Empty(t, files)
}

func TestLooksLikeImageFallsBackToMimetype(t *testing.T) {
	assert.True(t, looksLikeImage(pngBytes()))
	assert.False(t, looksLikeImage([]byte("plain text content")))
}

func TestBase64RoundTripForFileBytesPart(t *testing.T) {
	raw := pngBytes()
	encoded := base64.StdEncoding.EncodeToString(raw)
	var p a2a.Part
	require.NoError(t, json.Unmarshal([]byte(`{"kind":"file","file":"`+encoded+`"}`), &p))
	assert.Equal(t, raw, p.FileBytes)
}
