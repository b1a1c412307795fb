package server

import (
	"bufio"
	"encoding/json"

	"github.com/gofiber/fiber/v3"
	"github.com/lumenforge/a2a-go/pkg/a2a"
	"github.com/lumenforge/a2a-go/pkg/adapter"
	"github.com/lumenforge/a2a-go/pkg/jsonrpc"
	"github.com/lumenforge/a2a-go/pkg/logging"
	"github.com/valyala/fasthttp"
)

func (s *Server) registerRoutes() {
	s.App.Get("/.well-known/agent.json", s.handleAgentCard)

	s.App.Post("/message/send", s.gate(s.handleMessageSend))
	s.App.Post("/message/stream", s.gate(s.handleMessageStream))
	s.App.Post("/tasks/get", s.gate(s.handleTasksGet))
	s.App.Post("/tasks/cancel", s.gate(s.handleTasksCancel))
	s.App.Post("/tasks/resubscribe", s.gate(s.handleTasksResubscribe))
	s.App.Post("/tasks/pushNotificationConfig/set", s.gate(s.handlePushSet))
	s.App.Post("/tasks/pushNotificationConfig/get", s.gate(s.handlePushGet))
	s.App.Post("/agent/authenticatedExtendedCard", s.gate(s.handleExtendedCard))
}

// gate wraps a handler with the bearer-token auth check from spec §4.4:
// every endpoint but the well-known card requires matching credentials
// when the card lists any securitySchemes.
func (s *Server) gate(next func(fiber.Ctx) error) func(fiber.Ctx) error {
	return func(c fiber.Ctx) error {
		if s.opts.AuthGate != nil && s.opts.AuthGate.Required() {
			if !s.opts.AuthGate.Authenticate(c.Get("Authorization")) {
				return c.Status(401).JSON(jsonrpc.Response{
					JSONRPC: "2.0",
					Error:   &jsonrpc.RPCError{Code: 401, Message: "unauthorized"},
				})
			}
		}
		return next(c)
	}
}

func (s *Server) handleAgentCard(c fiber.Ctx) error {
	return c.JSON(s.card)
}

func (s *Server) handleExtendedCard(c fiber.Ctx) error {
	req, ok := s.decodeEnvelope(c)
	if !ok {
		return nil
	}

	card := s.card
	if ext, ok := s.adapter.(adapter.ExtendedCardProvider); ok {
		card = ext.ExtendedCard(c.Context())
	}
	return c.JSON(jsonrpc.NewSuccess(req.ID, card))
}

// decodeEnvelope reads and parses the JSON-RPC envelope from the request
// body, writing an error response itself and returning ok=false on any
// failure (spec §4.1 "Envelope validation").
func (s *Server) decodeEnvelope(c fiber.Ctx) (jsonrpc.Request, bool) {
	req, err := jsonrpc.DecodeRequest(c.Body())
	if err != nil {
		_ = c.JSON(jsonrpc.NewError(nil, a2a.ErrParseError))
		return jsonrpc.Request{}, false
	}
	if !req.Valid() {
		_ = c.JSON(jsonrpc.NewError(req.ID, a2a.ErrInvalidRequest))
		return jsonrpc.Request{}, false
	}
	if req.JSONRPC != "2.0" {
		logging.L().Debug("dispatcher: jsonrpc version mismatch tolerated", "got", req.JSONRPC)
	}
	return req, true
}

func decodeParams[T any](req jsonrpc.Request) (T, *a2a.Error) {
	var v T
	if len(req.Params) == 0 {
		return v, a2a.ErrInvalidParams
	}
	if err := json.Unmarshal(req.Params, &v); err != nil {
		return v, a2a.ErrInvalidParams
	}
	if err := a2a.ValidateParams(v); err != nil {
		return v, a2a.ErrInvalidParams.WithData(err.Error())
	}
	return v, nil
}

func (s *Server) respondError(c fiber.Ctx, id json.RawMessage, status int, err *a2a.Error) error {
	return c.Status(status).JSON(jsonrpc.NewError(id, err))
}

// insertTask validates task's domain invariants (spec §3, grounded on the
// teacher's Task.Validate()) before inserting it into the store. A task
// minted via a2a.NewTask should always pass; this guards against a future
// caller constructing one by hand with a blank id/state.
func (s *Server) insertTask(task *a2a.Task) error {
	if err := a2a.ValidateTask(task); err != nil {
		return err
	}
	s.store.Add(task)
	return nil
}

// ---- message/send (spec §4.4 "message/send algorithm") --------------------

func (s *Server) handleMessageSend(c fiber.Ctx) error {
	req, ok := s.decodeEnvelope(c)
	if !ok {
		return nil
	}

	params, rpcErr := decodeParams[a2a.MessageSendParams](req)
	if rpcErr != nil {
		return s.respondError(c, req.ID, 400, rpcErr)
	}

	ctx := c.Context()

	switch s.adapter.ResponseType(ctx, params) {
	case adapter.ResponseTypeMessage:
		msg, err := s.adapter.HandleMessageSend(ctx, params)
		if err != nil {
			return s.respondError(c, req.ID, 500, a2a.ErrInternal.WithMessagef("%v", err))
		}
		return c.JSON(jsonrpc.NewSuccess(req.ID, s.filterMessageIfEnabled(msg)))

	default: // task
		// spec §4.4 step 4: message/send always mints a fresh taskId/contextId,
		// even if the inbound message already names one. Resuming an existing
		// task is message/stream's job, which checks existence/terminality
		// before reusing an id.
		taskID, contextID := newTaskID(), newContextID()

		task := a2a.NewTask(taskID, contextID, params.Message)
		if err := s.insertTask(task); err != nil {
			return s.respondError(c, req.ID, 500, a2a.ErrInternal.WithMessagef("%v", err))
		}

		if err := s.adapter.HandleTaskSend(ctx, params, taskID, contextID, s.store); err != nil {
			return s.respondError(c, req.ID, 500, a2a.ErrInternal.WithMessagef("%v", err))
		}

		updated, found := s.store.Get(taskID)
		if !found {
			return s.respondError(c, req.ID, 500, a2a.ErrTaskNotFound)
		}
		return c.JSON(jsonrpc.NewSuccess(req.ID, s.filterTaskIfEnabled(updated)))
	}
}

// ---- message/stream (spec §4.4 "message/stream algorithm") ----------------

func (s *Server) handleMessageStream(c fiber.Ctx) error {
	req, ok := s.decodeEnvelope(c)
	if !ok {
		return nil
	}

	if !s.card.Capabilities.Streaming {
		return s.respondError(c, req.ID, 501, a2a.ErrUnsupportedOperation.WithMessagef("streaming not implemented"))
	}

	params, rpcErr := decodeParams[a2a.MessageSendParams](req)
	if rpcErr != nil {
		return s.respondError(c, req.ID, 400, rpcErr)
	}

	var (
		taskID, contextID string
		isExisting        bool
		isTaskMode        bool
	)

	if params.Message.TaskID != "" {
		existing, found := s.store.Get(params.Message.TaskID)
		if !found {
			return s.respondError(c, req.ID, 400, a2a.ErrTaskNotFound)
		}
		if existing.Status.State.IsTerminal() {
			return s.respondError(c, req.ID, 400, a2a.ErrInvalidRequest.WithMessagef("task %s is terminal", existing.ID))
		}
		taskID, contextID = existing.ID, existing.ContextID
		isExisting = true
		isTaskMode = true
	} else {
		isTaskMode = s.adapter.ResponseType(c.Context(), params) == adapter.ResponseTypeTask
	}

	if isTaskMode && !isExisting {
		taskID, contextID = newTaskID(), newContextID()
		task := a2a.NewTask(taskID, contextID, params.Message)
		if err := s.insertTask(task); err != nil {
			return s.respondError(c, req.ID, 500, a2a.ErrInternal.WithMessagef("%v", err))
		}
	}

	if params.Metadata == nil {
		params.Metadata = map[string]any{}
	}
	var rawID any
	_ = json.Unmarshal(req.ID, &rawID)
	params.Metadata["requestId"] = rawID

	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache, no-transform")
	c.Set("Connection", "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	ctx := c.Context()
	filterReasoning := s.opts.FilterReasoning

	var store = s.store
	if !isTaskMode {
		store = nil
	}

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		ch := make(chan any, 16)

		go func() {
			defer close(ch)
			defer func() {
				if r := recover(); r != nil {
					logging.L().Error("adapter panicked during stream", "recover", r)
				}
			}()
			s.adapter.HandleStream(ctx, params, taskID, contextID, store, chanSink{ch})
		}()

		for ev := range ch {
			writeSSEEvent(w, req.ID, filterReasoning, ev)
		}
	}))

	return nil
}

type chanSink struct{ ch chan any }

func (s chanSink) Send(ev any) { s.ch <- ev }

func writeSSEEvent(w *bufio.Writer, id json.RawMessage, filterReasoning bool, ev any) {
	if filterReasoning {
		ev = applyFilter(ev)
	}

	payload, err := json.Marshal(jsonrpc.NewSuccess(id, ev))
	if err != nil {
		logging.L().Error("failed to encode SSE event", "error", err)
		return
	}

	_, _ = w.WriteString("data: ")
	_, _ = w.Write(payload)
	_, _ = w.WriteString("\n\n")
	_ = w.Flush()
}

func applyFilter(ev any) any {
	switch v := ev.(type) {
	case a2a.Message:
		return FilterMessage(v)
	case a2a.Task:
		out := v
		out.History = FilterHistory(v.History)
		return out
	case a2a.TaskStatusUpdateEvent:
		out := v
		out.Status = FilterTaskStatus(v.Status)
		return out
	case a2a.TaskArtifactUpdateEvent:
		out := v
		out.Artifact = FilterArtifact(v.Artifact)
		return out
	default:
		return ev
	}
}

func (s *Server) filterMessageIfEnabled(m a2a.Message) a2a.Message {
	if !s.opts.FilterReasoning {
		return m
	}
	return FilterMessage(m)
}

func (s *Server) filterTaskIfEnabled(t a2a.Task) a2a.Task {
	if !s.opts.FilterReasoning {
		return t
	}
	out := t
	out.History = FilterHistory(t.History)
	filtered := make([]a2a.Artifact, len(t.Artifacts))
	for i, a := range t.Artifacts {
		filtered[i] = FilterArtifact(a)
	}
	out.Artifacts = filtered
	if out.Status.Message != nil {
		out.Status = FilterTaskStatus(t.Status)
	}
	return out
}

// ---- tasks/get (spec §4.4 "tasks/get algorithm") ---------------------------

func (s *Server) handleTasksGet(c fiber.Ctx) error {
	req, ok := s.decodeEnvelope(c)
	if !ok {
		return nil
	}

	params, rpcErr := decodeParams[a2a.TaskQueryParams](req)
	if rpcErr != nil {
		return s.respondError(c, req.ID, 400, rpcErr)
	}

	task, found := s.store.Get(params.ID)
	if !found {
		return s.respondError(c, req.ID, 404, a2a.ErrTaskNotFound)
	}

	n := 0
	if params.HistoryLength != nil {
		n = *params.HistoryLength
	}
	task = task.WithHistoryLimit(n)

	return c.JSON(jsonrpc.NewSuccess(req.ID, s.filterTaskIfEnabled(task)))
}

// ---- tasks/cancel (spec §4.4 "tasks/cancel algorithm") ---------------------

func (s *Server) handleTasksCancel(c fiber.Ctx) error {
	req, ok := s.decodeEnvelope(c)
	if !ok {
		return nil
	}

	params, rpcErr := decodeParams[a2a.TaskIDParams](req)
	if rpcErr != nil {
		return s.respondError(c, req.ID, 400, rpcErr)
	}

	task, found := s.store.Get(params.ID)
	if !found {
		return s.respondError(c, req.ID, 404, a2a.ErrTaskNotFound)
	}

	if !task.Status.State.IsTerminal() {
		s.store.UpdateStatus(params.ID, a2a.NewTaskStatus(a2a.TaskStateCanceled, nil))
		task, _ = s.store.Get(params.ID)
	}

	return c.JSON(jsonrpc.NewSuccess(req.ID, s.filterTaskIfEnabled(task)))
}

// ---- tasks/resubscribe (spec §4.4 "tasks/resubscribe algorithm") ----------

func (s *Server) handleTasksResubscribe(c fiber.Ctx) error {
	req, ok := s.decodeEnvelope(c)
	if !ok {
		return nil
	}

	params, rpcErr := decodeParams[a2a.TaskIDParams](req)
	if rpcErr != nil {
		return s.respondError(c, req.ID, 400, rpcErr)
	}

	task, found := s.store.Get(params.ID)
	if !found {
		return s.respondError(c, req.ID, 404, a2a.ErrTaskNotFound)
	}

	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache, no-transform")
	c.Set("Connection", "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	filterReasoning := s.opts.FilterReasoning
	reqID := req.ID

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		terminal := task.Status.State.IsTerminal()

		// TODO: replay the full mid-flight event log for a running task
		// instead of this at-most-two-record snapshot (spec §9 open
		// question 2).
		if len(task.Artifacts) > 0 {
			last := task.Artifacts[len(task.Artifacts)-1]
			writeSSEEvent(w, reqID, filterReasoning, a2a.TaskArtifactUpdateEvent{
				TaskID: task.ID, ContextID: task.ContextID, Kind: "artifact-update",
				Artifact: last, Append: false, LastChunk: terminal,
			})
		}

		refreshed := a2a.NewTaskStatus(task.Status.State, task.Status.Message)
		writeSSEEvent(w, reqID, filterReasoning, a2a.TaskStatusUpdateEvent{
			TaskID: task.ID, ContextID: task.ContextID, Kind: "status-update",
			Status: refreshed, Final: terminal,
		})
	}))

	return nil
}

// ---- push notification config (echo only, never delivered) ----------------

func (s *Server) handlePushSet(c fiber.Ctx) error {
	req, ok := s.decodeEnvelope(c)
	if !ok {
		return nil
	}

	params, rpcErr := decodeParams[a2a.TaskPushNotificationConfig](req)
	if rpcErr != nil {
		return s.respondError(c, req.ID, 400, rpcErr)
	}

	if !s.store.SetPushNotificationConfig(params.TaskID, params.PushNotificationConfig) {
		return s.respondError(c, req.ID, 404, a2a.ErrTaskNotFound)
	}

	return c.JSON(jsonrpc.NewSuccess(req.ID, params))
}

func (s *Server) handlePushGet(c fiber.Ctx) error {
	req, ok := s.decodeEnvelope(c)
	if !ok {
		return nil
	}

	params, rpcErr := decodeParams[a2a.TaskIDParams](req)
	if rpcErr != nil {
		return s.respondError(c, req.ID, 400, rpcErr)
	}

	cfg, found := s.store.GetPushNotificationConfig(params.ID)
	if !found {
		cfg = a2a.PushNotificationConfig{}
	}

	return c.JSON(jsonrpc.NewSuccess(req.ID, a2a.TaskPushNotificationConfig{
		TaskID:                 params.ID,
		PushNotificationConfig: cfg,
	}))
}
