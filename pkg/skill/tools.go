package skill

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// ToolProvider exposes a SkillLoader's activation set as mcp-go tools
// (spec §4.7 "Tool surface"): list-available (metadata only), activate,
// deactivate, and list-active. It mirrors pkg/manager's
// ToolDefinition/HandleToolCall shape so a server wiring both surfaces
// together treats them uniformly.
type ToolProvider struct {
	loader *SkillLoader
}

// NewToolProvider wraps loader's activation set as an mcp-go tool surface.
func NewToolProvider(loader *SkillLoader) *ToolProvider {
	return &ToolProvider{loader: loader}
}

// Tools returns the four tool definitions this provider handles.
func (p *ToolProvider) Tools() []mcp.Tool {
	return []mcp.Tool{
		mcp.NewTool(
			"agent-skills-list-available",
			mcp.WithDescription("List every discoverable skill's name and description, without loading its full body."),
		),
		mcp.NewTool(
			"agent-skill-activate",
			mcp.WithDescription("Activate a skill, loading its full instructions into context."),
			mcp.WithString("skill_name", mcp.Description("The skill's directory/frontmatter name."), mcp.Required()),
		),
		mcp.NewTool(
			"agent-skill-deactivate",
			mcp.WithDescription("Deactivate a previously activated skill."),
			mcp.WithString("skill_name", mcp.Description("The skill's directory/frontmatter name."), mcp.Required()),
		),
		mcp.NewTool(
			"agent-skills-list-active",
			mcp.WithDescription("List the names of currently activated skills."),
		),
	}
}

// HandleToolCall dispatches one of the four tools by name. Unrecognized
// tool names return an error result rather than an error return, matching
// pkg/manager.HandleToolCall's convention of surfacing failures to the
// caller through the tool result body.
func (p *ToolProvider) HandleToolCall(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	switch req.Params.Name {
	case "agent-skills-list-available":
		return p.handleListAvailable()
	case "agent-skill-activate":
		return p.handleActivate(req)
	case "agent-skill-deactivate":
		return p.handleDeactivate(req)
	case "agent-skills-list-active":
		return p.handleListActive()
	default:
		return mcp.NewToolResultError("unknown skill tool: " + req.Params.Name), nil
	}
}

func (p *ToolProvider) handleListAvailable() (*mcp.CallToolResult, error) {
	metas, err := p.loader.ListMetadata()
	if err != nil && len(metas) == 0 {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(metas) == 0 {
		return mcp.NewToolResultText("no skills are available"), nil
	}

	var b strings.Builder
	for _, m := range metas {
		fmt.Fprintf(&b, "%s: %s\n", m.Name, m.Description)
	}
	return mcp.NewToolResultText(strings.TrimRight(b.String(), "\n")), nil
}

func (p *ToolProvider) handleActivate(req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := skillNameArg(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	s, err := p.loader.Activate(name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(s.Body), nil
}

func (p *ToolProvider) handleDeactivate(req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := skillNameArg(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	p.loader.Deactivate(name)
	return mcp.NewToolResultText("deactivated " + name), nil
}

func (p *ToolProvider) handleListActive() (*mcp.CallToolResult, error) {
	names := p.loader.ActivatedNames()
	if len(names) == 0 {
		return mcp.NewToolResultText("no skills are currently activated"), nil
	}
	return mcp.NewToolResultText(strings.Join(names, "\n")), nil
}

func skillNameArg(req mcp.CallToolRequest) (string, error) {
	args, ok := req.Params.Arguments.(map[string]any)
	if !ok {
		return "", newError(ErrMissingRequiredField, "missing arguments")
	}
	name, ok := args["skill_name"].(string)
	if !ok || name == "" {
		return "", newError(ErrMissingRequiredField, "missing required argument 'skill_name'")
	}
	return name, nil
}
