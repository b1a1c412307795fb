package client

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/lumenforge/a2a-go/pkg/logging"
)

// BootCall spawns a colocated server process before a Client is usable
// (spec §4.5 "Initialization"). Env is merged over the current process
// environment; it does not replace it.
type BootCall struct {
	Command string
	Args    []string
	Env     map[string]string
}

func (b *BootCall) start() (*exec.Cmd, error) {
	cmd := exec.Command(b.Command, b.Args...)
	cmd.Env = os.Environ()
	for k, v := range b.Env {
		cmd.Env = append(cmd.Env, k+"="+v)
	}
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("client: boot call: %w", err)
	}
	return cmd, nil
}

const (
	cardPollAttempts = 30
	cardPollInterval = time.Second
)

// New constructs a Client, optionally spawning boot first. Without boot, one
// immediate agent-card fetch is made; with boot, the client polls for up to
// 30 seconds (30 attempts, 1s apart). Failure to retrieve the card is fatal
// to construction in both cases (spec §4.5).
func New(ctx context.Context, baseURL string, auth Auth, boot *BootCall) (*Client, error) {
	c := newClient(baseURL, auth)

	if boot == nil {
		card, err := c.AgentCard(ctx)
		if err != nil {
			return nil, fmt.Errorf("client: fetch agent card: %w", err)
		}
		c.Card = card
		return c, nil
	}

	if _, err := boot.start(); err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 1; attempt <= cardPollAttempts; attempt++ {
		card, err := c.AgentCard(ctx)
		if err == nil {
			c.Card = card
			return c, nil
		}
		lastErr = err

		logging.L().Debug("client: agent card not ready", "attempt", attempt, "error", err)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(cardPollInterval):
		}
	}

	return nil, fmt.Errorf("client: agent card unavailable after %d attempts: %w", cardPollAttempts, lastErr)
}
