package jsonrpc

import (
	"encoding/json"
	"testing"

	"github.com/lumenforge/a2a-go/pkg/a2a"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRequestMalformedJSONFails(t *testing.T) {
	_, err := DecodeRequest([]byte(`not json`))
	require.Error(t, err)
}

func TestDecodeRequestWellFormed(t *testing.T) {
	req, err := DecodeRequest([]byte(`{"jsonrpc":"2.0","id":1,"method":"message/send","params":{}}`))
	require.NoError(t, err)
	assert.Equal(t, "2.0", req.JSONRPC)
	assert.Equal(t, "message/send", req.Method)
	assert.True(t, req.Valid())
}

func TestRequestValidRequiresJSONRPCAndID(t *testing.T) {
	assert.False(t, (Request{}).Valid())
	assert.False(t, (Request{JSONRPC: "2.0"}).Valid())
	assert.False(t, (Request{ID: json.RawMessage("1")}).Valid())
	assert.True(t, (Request{JSONRPC: "2.0", ID: json.RawMessage("1")}).Valid())
}

func TestRequestValidToleratesNonstandardVersion(t *testing.T) {
	// spec §9 open question 4: a jsonrpc value other than "2.0" is
	// tolerated at the envelope-validity level; only its absence fails.
	req := Request{JSONRPC: "1.0", ID: json.RawMessage("1")}
	assert.True(t, req.Valid())
}

func TestNewErrorUsesDefaultIDWhenEmpty(t *testing.T) {
	resp := NewError(nil, a2a.ErrParseError)
	assert.Equal(t, DefaultID, resp.ID)
	assert.Equal(t, int(a2a.ErrorCodeParseError), resp.Error.Code)
}

func TestNewErrorEchoesProvidedID(t *testing.T) {
	resp := NewError(json.RawMessage(`"req-1"`), a2a.ErrTaskNotFound)
	assert.Equal(t, json.RawMessage(`"req-1"`), resp.ID)
}

func TestNewSuccessEchoesIDAndCarriesResult(t *testing.T) {
	resp := NewSuccess(json.RawMessage("42"), map[string]string{"ok": "true"})
	assert.Equal(t, json.RawMessage("42"), resp.ID)
	assert.NotNil(t, resp.Result)
}
