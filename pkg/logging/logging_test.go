package logging

import (
	"bytes"
	"testing"

	charmlog "github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLReturnsUsableLoggerBeforeInit(t *testing.T) {
	mu.Lock()
	stack = nil
	mu.Unlock()

	logger := L()
	require.NotNil(t, logger)
}

func TestInitResetsStackToSingleBaseFrame(t *testing.T) {
	var buf bytes.Buffer
	Init(charmlog.InfoLevel, map[string]any{"component": "test"}, &buf)

	mu.Lock()
	depth := len(stack)
	mu.Unlock()
	assert.Equal(t, 1, depth)

	L().Info("hello")
	assert.Contains(t, buf.String(), "hello")
	assert.Contains(t, buf.String(), "component")
}

func TestScopePushesAndPopsCleanly(t *testing.T) {
	var buf bytes.Buffer
	Init(charmlog.InfoLevel, nil, &buf)

	pop := Scope(map[string]any{"requestId": "r1"})
	L().Info("inside scope")
	pop()

	L().Info("outside scope")

	out := buf.String()
	assert.Contains(t, out, "requestId")
}

func TestScopePopIsIdempotent(t *testing.T) {
	Init(charmlog.InfoLevel, nil, &bytes.Buffer{})

	pop := Scope(map[string]any{"k": "v"})
	pop()
	assert.NotPanics(t, func() { pop() })
}

func TestScopeOutOfOrderPopShrinksStackWithoutPanic(t *testing.T) {
	Init(charmlog.InfoLevel, nil, &bytes.Buffer{})

	popOuter := Scope(map[string]any{"a": 1})
	popInner := Scope(map[string]any{"b": 2})

	assert.NotPanics(t, func() { popOuter() })
	assert.NotPanics(t, func() { popInner() })
}
