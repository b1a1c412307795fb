// Package server implements the A2A server-side dispatcher (spec §4.4):
// envelope validation, authentication gating, SSE-framed streaming
// responses, and the state-transition algorithms for every JSON-RPC method.
//
// Grounded on the teacher's pkg/service (A2AServer, RPCServer) and
// pkg/service/sse (SSEBroker), adapted to this spec's method names
// (message/send, message/stream, ...), wire shapes (kind-discriminated
// parts/events, contextId) and error codes.
package server

import (
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/lumenforge/a2a-go/pkg/a2a"
	"github.com/lumenforge/a2a-go/pkg/adapter"
	"github.com/lumenforge/a2a-go/pkg/logging"
	"github.com/lumenforge/a2a-go/pkg/tasks"
)

// Options configures a Server beyond its required Card/Adapter/Store.
type Options struct {
	// AuthGate gates every endpoint except the well-known card when the
	// card declares any securitySchemes. Pass nil to disable.
	AuthGate *AuthGate
	// FilterReasoning enables the optional reasoning-block filter (spec
	// §4.4) across outbound message/artifact/status text.
	FilterReasoning bool
	// BodyLimitBytes caps request body size (spec §6: 100 MiB default).
	BodyLimitBytes int
}

// DefaultBodyLimitBytes is the 100 MiB request body limit spec §6 names.
const DefaultBodyLimitBytes = 100 * 1024 * 1024

// Server bundles an AgentCard, an injected Adapter, and an in-process task
// store into a mountable fiber.App exposing the full A2A HTTP surface.
type Server struct {
	App *fiber.App

	card    a2a.AgentCard
	adapter adapter.Adapter
	store   *tasks.Store
	opts    Options
}

// New constructs a Server and registers every route from spec §4.4's table.
func New(card a2a.AgentCard, ad adapter.Adapter, store *tasks.Store, opts Options) *Server {
	if opts.BodyLimitBytes <= 0 {
		opts.BodyLimitBytes = DefaultBodyLimitBytes
	}
	if store == nil {
		store = tasks.New()
	}

	s := &Server{
		App:     fiber.New(fiber.Config{BodyLimit: opts.BodyLimitBytes}),
		card:    card,
		adapter: ad,
		store:   store,
		opts:    opts,
	}
	s.registerRoutes()
	return s
}

// Store exposes the underlying task store, mainly for tests and for hosts
// that want to seed or inspect tasks out of band.
func (s *Server) Store() *tasks.Store { return s.store }

func newTaskID() string    { return uuid.NewString() }
func newContextID() string { return uuid.NewString() }

func (s *Server) logf(event string, kv ...any) {
	args := append([]any{"event", event}, kv...)
	logging.L().Debug("dispatcher", args...)
}
