package jsonrpc

import (
	"encoding/json"

	"github.com/lumenforge/a2a-go/pkg/a2a"
)

// DefaultID is used when a response must be emitted but the inbound request
// could not even be parsed far enough to recover its own id (spec §7
// "Propagation policy": "... or default id=1 if unrecoverable").
var DefaultID = json.RawMessage("1")

// DecodeRequest parses the raw HTTP body into a Request. On malformed JSON
// the caller should respond with ErrorCode parseError; on a well-formed
// object missing jsonrpc or id, with invalidRequest (spec §4.1).
func DecodeRequest(body []byte) (Request, error) {
	var req Request
	if err := json.Unmarshal(body, &req); err != nil {
		return Request{}, err
	}
	return req, nil
}

// Valid reports whether r carries the two envelope fields this runtime
// requires to route and reply: jsonrpc and id. A jsonrpc value other than
// "2.0" is tolerated (spec §4.1, §9 open question 4) — the mismatch is not
// rejected here, only the field's absence is.
func (r Request) Valid() bool {
	return r.JSONRPC != "" && len(r.ID) > 0
}

// NewSuccess wraps result in a success envelope echoing id.
func NewSuccess(id json.RawMessage, result any) Response {
	return Response{JSONRPC: "2.0", ID: id, Result: result}
}

// NewError wraps an a2a.Error in an error envelope echoing id (or
// DefaultID if id is empty).
func NewError(id json.RawMessage, err *a2a.Error) Response {
	if len(id) == 0 {
		id = DefaultID
	}
	return Response{
		JSONRPC: "2.0",
		ID:      id,
		Error: &RPCError{
			Code:    int(err.Code),
			Message: err.Message,
			Data:    err.Data,
		},
	}
}
