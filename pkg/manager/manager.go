// Package manager implements the client-side multiplexer (spec §4.6): a
// registry of streaming clients keyed by agent name, tool-call routing, and
// folding of heterogeneous streaming events into coherent AgentResponse
// values.
//
// Grounded on the teacher's pkg/tools/a2a (an MCP tool surface that calls out
// to other A2A agents — the direct analogue of this component) and
// pkg/catalog (agent registry by name), rebuilt against this spec's client
// and event types.
package manager

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/lumenforge/a2a-go/pkg/client"
	"github.com/lumenforge/a2a-go/pkg/config"
)

// Manager holds a stable map of agent name -> Client, built once at
// construction and read concurrently thereafter (spec §3 "Ownership").
type Manager struct {
	mu      sync.RWMutex
	clients map[string]*client.Client
}

// NewFromClients builds a Manager from an already-constructed client list,
// keyed by each client's resolved agent card name.
func NewFromClients(clients []*client.Client) *Manager {
	m := &Manager{clients: make(map[string]*client.Client, len(clients))}
	for _, c := range clients {
		m.clients[c.Card.Name] = c
	}
	return m
}

// NewFromConfig constructs a client for every entry in cfg.A2AServers,
// merging each server's env over cfg.GlobalEnv for its boot call, and
// returns a Manager keyed by the resulting agent card names. A server whose
// client fails to initialize (per spec §4.5, a fatal condition) aborts the
// whole construction — a manager either sees every configured agent or
// none.
func NewFromConfig(ctx context.Context, cfg config.Config) (*Manager, error) {
	clients := make([]*client.Client, 0, len(cfg.A2AServers))

	for name, server := range cfg.A2AServers {
		auth := client.Auth{}
		var boot *client.BootCall
		baseURL := ""

		if server.Run != nil {
			baseURL = server.Run.URL
			auth = client.Auth{BearerToken: server.Run.Token, APIKey: server.Run.APIKey}
		}
		if server.Boot != nil {
			env := config.MergedEnv(cfg.GlobalEnv, server.Boot.Env)
			boot = &client.BootCall{Command: server.Boot.Command, Args: server.Boot.Args, Env: env}
		}
		if baseURL == "" {
			return nil, fmt.Errorf("manager: server %q has no run.url to dial", name)
		}

		c, err := client.New(ctx, baseURL, auth, boot)
		if err != nil {
			return nil, fmt.Errorf("manager: server %q: %w", name, err)
		}
		clients = append(clients, c)
	}

	return NewFromClients(clients), nil
}

// Get returns the client registered under name, if any.
func (m *Manager) Get(name string) (*client.Client, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.clients[name]
	return c, ok
}

// Names returns the registered agent names, lexicographically sorted.
func (m *Manager) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.clients))
	for name := range m.clients {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
