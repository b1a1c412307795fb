package server

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/lumenforge/a2a-go/pkg/a2a"
	"github.com/lumenforge/a2a-go/pkg/adapter"
	"github.com/lumenforge/a2a-go/pkg/jsonrpc"
	"github.com/lumenforge/a2a-go/pkg/tasks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(streaming bool) *Server {
	card := a2a.AgentCard{
		Name:         "Test Agent",
		URL:          "http://localhost",
		Version:      "0.0.1",
		Capabilities: a2a.AgentCapabilities{Streaming: streaming},
	}
	return New(card, &adapter.Echo{Streaming: streaming}, tasks.New(), Options{})
}

func postJSON(t *testing.T, app *Server, path string, body any) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.App.Test(req)
	require.NoError(t, err)
	return resp
}

func decodeEnvelopeBody(t *testing.T, resp *http.Response) jsonrpc.Response {
	t.Helper()
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var env jsonrpc.Response
	require.NoError(t, json.Unmarshal(raw, &env))
	return env
}

func TestAgentCardEndpointServesRawCard(t *testing.T) {
	app := newTestServer(true)

	req := httptest.NewRequest(http.MethodGet, "/.well-known/agent.json", nil)
	resp, err := app.App.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var card a2a.AgentCard
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&card))
	assert.Equal(t, "Test Agent", card.Name)
}

func TestMessageSendMessageModeEchoesText(t *testing.T) {
	app := newTestServer(false)

	resp := postJSON(t, app, "/message/send", map[string]any{
		"jsonrpc": "2.0", "id": 1, "method": "message/send",
		"params": map[string]any{"message": a2a.NewTextMessage("user", "m1", "ping")},
	})
	env := decodeEnvelopeBody(t, resp)
	require.Nil(t, env.Error)

	raw, _ := json.Marshal(env.Result)
	var msg a2a.Message
	require.NoError(t, json.Unmarshal(raw, &msg))
	assert.Equal(t, "echo: ping", msg.Text())
}

func TestMessageSendTaskModeCreatesAndCompletesTask(t *testing.T) {
	app := newTestServer(false)

	// message/send always mints a fresh taskId (spec §4.4 step 4), ignoring
	// any taskId the caller supplied on the inbound message.
	msg := a2a.NewTextMessage("user", "m1", "ping")
	msg.TaskID = "explicit-task"
	resp := postJSON(t, app, "/message/send", map[string]any{
		"jsonrpc": "2.0", "id": 1, "method": "message/send",
		"params": map[string]any{"message": msg},
	})
	env := decodeEnvelopeBody(t, resp)
	require.Nil(t, env.Error)

	raw, _ := json.Marshal(env.Result)
	var task a2a.Task
	require.NoError(t, json.Unmarshal(raw, &task))
	assert.NotEqual(t, "explicit-task", task.ID)
	assert.NotEmpty(t, task.ID)
	assert.Equal(t, a2a.TaskStateCompleted, task.Status.State)
}

func TestMessageSendInvalidParamsReturns400(t *testing.T) {
	app := newTestServer(false)

	resp := postJSON(t, app, "/message/send", map[string]any{
		"jsonrpc": "2.0", "id": 1, "method": "message/send", "params": map[string]any{},
	})
	assert.Equal(t, 400, resp.StatusCode)
	env := decodeEnvelopeBody(t, resp)
	require.NotNil(t, env.Error)
	assert.Equal(t, int(a2a.ErrorCodeInvalidParams), env.Error.Code)
}

func TestMessageSendMalformedBodyReturnsParseError(t *testing.T) {
	app := newTestServer(false)

	req := httptest.NewRequest(http.MethodPost, "/message/send", strings.NewReader("not json"))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.App.Test(req)
	require.NoError(t, err)

	env := decodeEnvelopeBody(t, resp)
	require.NotNil(t, env.Error)
	assert.Equal(t, int(a2a.ErrorCodeParseError), env.Error.Code)
}

func TestMessageStreamUnsupportedReturns501WhenCardDisablesStreaming(t *testing.T) {
	app := newTestServer(false)

	resp := postJSON(t, app, "/message/stream", map[string]any{
		"jsonrpc": "2.0", "id": 1, "method": "message/stream",
		"params": map[string]any{"message": a2a.NewTextMessage("user", "m1", "ping")},
	})
	assert.Equal(t, 501, resp.StatusCode)
}

func TestMessageStreamMessageModeEmitsSSERecord(t *testing.T) {
	app := newTestServer(true)

	resp := postJSON(t, app, "/message/stream", map[string]any{
		"jsonrpc": "2.0", "id": 7, "method": "message/stream",
		"params": map[string]any{"message": a2a.NewTextMessage("user", "m1", "ping")},
	})
	require.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	scanner := bufio.NewScanner(resp.Body)
	defer resp.Body.Close()

	var line string
	for scanner.Scan() {
		if strings.HasPrefix(scanner.Text(), "data: ") {
			line = strings.TrimPrefix(scanner.Text(), "data: ")
			break
		}
	}
	require.NotEmpty(t, line)

	var env jsonrpc.Response
	require.NoError(t, json.Unmarshal([]byte(line), &env))

	raw, _ := json.Marshal(env.Result)
	ev, err := a2a.DecodeEvent(raw)
	require.NoError(t, err)
	assert.Equal(t, a2a.EventKindMessage, ev.Kind)
}

func TestTasksGetUnknownTaskReturns404(t *testing.T) {
	app := newTestServer(false)

	resp := postJSON(t, app, "/tasks/get", map[string]any{
		"jsonrpc": "2.0", "id": 1, "method": "tasks/get",
		"params": map[string]any{"id": "missing"},
	})
	assert.Equal(t, 404, resp.StatusCode)
}

func TestTasksGetReturnsTruncatedHistory(t *testing.T) {
	app := newTestServer(false)
	app.Store().Add(func() *a2a.Task {
		task := a2a.NewTask("t1", "c1", a2a.NewTextMessage("user", "m1", "one"))
		task.History = append(task.History, a2a.NewTextMessage("agent", "m2", "two"))
		return task
	}())

	limit := 1
	resp := postJSON(t, app, "/tasks/get", map[string]any{
		"jsonrpc": "2.0", "id": 1, "method": "tasks/get",
		"params": map[string]any{"id": "t1", "historyLength": limit},
	})
	env := decodeEnvelopeBody(t, resp)
	require.Nil(t, env.Error)

	raw, _ := json.Marshal(env.Result)
	var task a2a.Task
	require.NoError(t, json.Unmarshal(raw, &task))
	require.Len(t, task.History, 1)
	assert.Equal(t, "two", task.History[0].Text())
}

func TestTasksCancelIsIdempotentOnTerminalTask(t *testing.T) {
	app := newTestServer(false)
	task := a2a.NewTask("t1", "c1", a2a.NewTextMessage("user", "m1", "hi"))
	task.Status = a2a.NewTaskStatus(a2a.TaskStateCompleted, nil)
	app.Store().Add(task)

	resp := postJSON(t, app, "/tasks/cancel", map[string]any{
		"jsonrpc": "2.0", "id": 1, "method": "tasks/cancel",
		"params": map[string]any{"id": "t1"},
	})
	env := decodeEnvelopeBody(t, resp)
	require.Nil(t, env.Error)

	raw, _ := json.Marshal(env.Result)
	var got a2a.Task
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, a2a.TaskStateCompleted, got.Status.State)
}

func TestTasksCancelTransitionsNonTerminalTask(t *testing.T) {
	app := newTestServer(false)
	app.Store().Add(a2a.NewTask("t1", "c1", a2a.NewTextMessage("user", "m1", "hi")))

	resp := postJSON(t, app, "/tasks/cancel", map[string]any{
		"jsonrpc": "2.0", "id": 1, "method": "tasks/cancel",
		"params": map[string]any{"id": "t1"},
	})
	env := decodeEnvelopeBody(t, resp)
	require.Nil(t, env.Error)

	raw, _ := json.Marshal(env.Result)
	var got a2a.Task
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, a2a.TaskStateCanceled, got.Status.State)
}

func TestPushNotificationConfigSetAndGetRoundTrip(t *testing.T) {
	app := newTestServer(false)
	app.Store().Add(a2a.NewTask("t1", "c1", a2a.NewTextMessage("user", "m1", "hi")))

	setResp := postJSON(t, app, "/tasks/pushNotificationConfig/set", map[string]any{
		"jsonrpc": "2.0", "id": 1, "method": "tasks/pushNotificationConfig/set",
		"params": map[string]any{
			"taskId":                 "t1",
			"pushNotificationConfig": map[string]any{"url": "https://example.com/hook"},
		},
	})
	setEnv := decodeEnvelopeBody(t, setResp)
	require.Nil(t, setEnv.Error)

	getResp := postJSON(t, app, "/tasks/pushNotificationConfig/get", map[string]any{
		"jsonrpc": "2.0", "id": 2, "method": "tasks/pushNotificationConfig/get",
		"params": map[string]any{"id": "t1"},
	})
	getEnv := decodeEnvelopeBody(t, getResp)
	require.Nil(t, getEnv.Error)

	raw, _ := json.Marshal(getEnv.Result)
	var got a2a.TaskPushNotificationConfig
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, "https://example.com/hook", got.PushNotificationConfig.URL)
}

func TestAuthGateRejectsMissingBearerWhenRequired(t *testing.T) {
	card := a2a.AgentCard{
		Name: "Gated Agent", URL: "http://localhost", Version: "0.0.1",
		SecuritySchemes: []a2a.SecurityScheme{{Kind: "bearer", Name: "default"}},
	}
	app := New(card, &adapter.Echo{}, tasks.New(), Options{AuthGate: NewAuthGate([]string{"secret"}, nil)})

	resp := postJSON(t, app, "/message/send", map[string]any{
		"jsonrpc": "2.0", "id": 1, "method": "message/send",
		"params": map[string]any{"message": a2a.NewTextMessage("user", "m1", "hi")},
	})
	assert.Equal(t, 401, resp.StatusCode)
}

func TestAuthGateAcceptsMatchingBearer(t *testing.T) {
	card := a2a.AgentCard{
		Name: "Gated Agent", URL: "http://localhost", Version: "0.0.1",
		SecuritySchemes: []a2a.SecurityScheme{{Kind: "bearer", Name: "default"}},
	}
	app := New(card, &adapter.Echo{}, tasks.New(), Options{AuthGate: NewAuthGate([]string{"secret"}, nil)})

	raw, _ := json.Marshal(map[string]any{
		"jsonrpc": "2.0", "id": 1, "method": "message/send",
		"params": map[string]any{"message": a2a.NewTextMessage("user", "m1", "hi")},
	})
	req := httptest.NewRequest(http.MethodPost, "/message/send", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer secret")

	resp, err := app.App.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}
