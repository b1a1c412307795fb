// Command a2a-client loads a multiplexer config (spec §6) and sends one
// instruction to a named agent, printing the folded AgentResponse values.
// It exists to exercise pkg/client/pkg/manager end to end; an interactive
// REPL or MCP-server front end is left to the host application (CLI
// ergonomics are out of scope per spec §1).
//
// Grounded on the teacher's examples/agent-client/main.go (flag-parsed,
// one-shot agent call, plain main instead of a cobra command tree).
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/lumenforge/a2a-go/pkg/config"
	"github.com/lumenforge/a2a-go/pkg/logging"
	"github.com/lumenforge/a2a-go/pkg/manager"
)

func main() {
	configPath := flag.String("config", "", "path to the a2aServers config JSON (spec §6)")
	agentName := flag.String("agent", "", "name of the configured agent to call")
	instructions := flag.String("instructions", "", "instructions to send the agent")
	flag.Parse()

	logging.Init(charmlog.InfoLevel, map[string]any{"component": "a2a-client"}, nil)

	if *configPath == "" || *agentName == "" || *instructions == "" {
		fmt.Fprintln(os.Stderr, "usage: a2a-client -config <path> -agent <name> -instructions <text>")
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		logging.L().Fatal("failed to load config", "error", err)
	}

	ctx := context.Background()
	m, err := manager.NewFromConfig(ctx, cfg)
	if err != nil {
		logging.L().Fatal("failed to dial configured agents", "error", err)
	}

	responses, err := m.AgentCall(ctx, manager.ToolCall{Name: *agentName, Instructions: *instructions})
	if err != nil {
		logging.L().Fatal("agent call failed", "error", err)
	}
	if len(responses) == 0 {
		fmt.Println("(no response; check the agent name against:", m.Names(), ")")
		return
	}

	for i, r := range responses {
		fmt.Printf("--- response %d ---\n%s\n", i+1, r.Content)
		for _, img := range r.Images {
			fmt.Printf("[image: %s, %d bytes]\n", img.Name, len(img.Bytes))
		}
		for _, f := range r.Files {
			if f.URL != "" {
				fmt.Printf("[file: %s, url=%s]\n", f.Name, f.URL)
			} else {
				fmt.Printf("[file: %s, %d bytes]\n", f.Name, len(f.Data))
			}
		}
	}
}
