package manager

import (
	"context"
	"errors"
	"sort"

	"github.com/mark3labs/mcp-go/mcp"
)

// ToolKindA2AAgent is the type tag spec §4.6 assigns every tool
// availableTools() produces.
const ToolKindA2AAgent = "a2aAgent"

// ToolDefinition pairs an mcp-go tool definition with the type tag this
// spec requires (mcp.Tool itself carries no generic type-tag field, so it
// travels alongside rather than inside the tool schema).
type ToolDefinition struct {
	Tool mcp.Tool
	Kind string
}

// AvailableTools produces one tool definition per registered agent, each
// with a single required "instructions" string parameter (spec §4.6
// "availableTools()").
func (m *Manager) AvailableTools() []ToolDefinition {
	m.mu.RLock()
	defer m.mu.RUnlock()

	defs := make([]ToolDefinition, 0, len(m.clients))
	for _, name := range m.sortedNamesLocked() {
		c := m.clients[name]
		defs = append(defs, ToolDefinition{
			Tool: mcp.NewTool(
				c.Card.Name,
				mcp.WithDescription(c.Card.Description),
				mcp.WithString(
					"instructions",
					mcp.Description("Instructions to send to the agent."),
					mcp.Required(),
				),
			),
			Kind: ToolKindA2AAgent,
		})
	}
	return defs
}

func (m *Manager) sortedNamesLocked() []string {
	names := make([]string, 0, len(m.clients))
	for name := range m.clients {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HandleToolCall adapts an mcp-go CallToolRequest into agentCall, returning
// the folded plain-text content of every emitted AgentResponse, newline
// joined. Non-text content (images/files) is enumerated by name only, since
// mcp.CallToolResult's text content block cannot carry binary payloads
// directly.
func (m *Manager) HandleToolCall(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	toolCall, err := toolCallFromRequest(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	responses, err := m.AgentCall(ctx, toolCall)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(responses) == 0 {
		return mcp.NewToolResultError("no response from agent"), nil
	}

	text := ""
	for i, r := range responses {
		if i > 0 {
			text += "\n"
		}
		text += r.Content
		for _, img := range r.Images {
			text += "\n[image: " + img.Name + "]"
		}
		for _, f := range r.Files {
			text += "\n[file: " + f.Name + "]"
		}
	}
	return mcp.NewToolResultText(text), nil
}

func toolCallFromRequest(req mcp.CallToolRequest) (ToolCall, error) {
	args, ok := req.Params.Arguments.(map[string]any)
	if !ok {
		return ToolCall{}, errors.New("manager: tool call arguments are not an object")
	}
	instructions, ok := args["instructions"].(string)
	if !ok || instructions == "" {
		return ToolCall{}, errors.New("manager: tool call missing instructions")
	}
	return ToolCall{Name: req.Params.Name, Instructions: instructions}, nil
}
