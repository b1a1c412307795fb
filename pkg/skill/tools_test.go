package skill

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLoaderWithOneSkill(t *testing.T) *SkillLoader {
	t.Helper()
	root := t.TempDir()
	dir := filepath.Join(root, "greeter")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "SKILL.md"), []byte(skillDoc("greeter", "says hello")), 0o644))

	l := NewSkillLoader(root)
	require.NoError(t, l.LoadAll())
	return l
}

func callRequest(tool string, args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = tool
	req.Params.Arguments = args
	return req
}

func TestToolProviderActivateDeactivateListActive(t *testing.T) {
	l := newLoaderWithOneSkill(t)
	p := NewToolProvider(l)

	res, err := p.HandleToolCall(context.Background(), callRequest("agent-skill-activate", map[string]any{"skill_name": "greeter"}))
	require.NoError(t, err)
	require.False(t, res.IsError)
	assert.True(t, l.IsActivated("greeter"))

	res, err = p.HandleToolCall(context.Background(), callRequest("agent-skills-list-active", nil))
	require.NoError(t, err)
	require.False(t, res.IsError)

	res, err = p.HandleToolCall(context.Background(), callRequest("agent-skill-deactivate", map[string]any{"skill_name": "greeter"}))
	require.NoError(t, err)
	require.False(t, res.IsError)
	assert.False(t, l.IsActivated("greeter"))
}

func TestToolProviderListAvailableReturnsNameAndDescription(t *testing.T) {
	l := newLoaderWithOneSkill(t)
	p := NewToolProvider(l)

	res, err := p.HandleToolCall(context.Background(), callRequest("agent-skills-list-available", nil))
	require.NoError(t, err)
	require.False(t, res.IsError)

	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	assert.Contains(t, text.Text, "greeter")
	assert.Contains(t, text.Text, "says hello")
}

func TestToolProviderActivateUnknownSkillReturnsErrorResult(t *testing.T) {
	l := newLoaderWithOneSkill(t)
	p := NewToolProvider(l)

	res, err := p.HandleToolCall(context.Background(), callRequest("agent-skill-activate", map[string]any{"skill_name": "ghost"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestToolProviderUnknownToolNameReturnsErrorResult(t *testing.T) {
	l := newLoaderWithOneSkill(t)
	p := NewToolProvider(l)

	res, err := p.HandleToolCall(context.Background(), callRequest("not-a-real-tool", nil))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestToolProviderMissingSkillNameArgReturnsErrorResult(t *testing.T) {
	l := newLoaderWithOneSkill(t)
	p := NewToolProvider(l)

	res, err := p.HandleToolCall(context.Background(), callRequest("agent-skill-activate", map[string]any{}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}
