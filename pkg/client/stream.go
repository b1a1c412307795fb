package client

import (
	"bufio"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/lumenforge/a2a-go/pkg/a2a"
)

// EventStream is a lazy, finite, non-restartable sequence of typed events
// read line-by-line off an SSE response body (spec §4.5). Once Next
// returns false the stream is exhausted; a new call must reopen a fresh
// request.
type EventStream struct {
	resp    *http.Response
	scanner *bufio.Scanner
	closed  bool
}

func newEventStream(resp *http.Response) *EventStream {
	scanner := bufio.NewScanner(resp.Body)
	// SSE records here carry full task/artifact snapshots; grow past the
	// default 64KiB line limit to avoid truncating a large one.
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 8*1024*1024)

	return &EventStream{resp: resp, scanner: scanner}
}

// Next advances to the next decodable event, skipping blank lines,
// non-"data:" lines, and lines that fail to decode (spec §4.5, §9 open
// question 1: malformed or unrecognized-kind records are dropped silently
// rather than surfaced as errors). It returns ok=false once the underlying
// transport closes.
func (s *EventStream) Next() (ev a2a.Event, ok bool) {
	if s.closed {
		return a2a.Event{}, false
	}

	for s.scanner.Scan() {
		line := s.scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		data := strings.TrimPrefix(line, "data: ")
		if data == "" {
			continue
		}

		var env envelope
		if err := json.Unmarshal([]byte(data), &env); err != nil {
			continue
		}
		if env.Error != nil {
			continue
		}

		// Prefer the wrapped "result" field; a peer that emits bare,
		// unwrapped events still decodes via the whole record (spec §13
		// decision 1).
		payload := env.Result
		if len(payload) == 0 {
			payload = json.RawMessage(data)
		}

		decoded, err := a2a.DecodeEvent(payload)
		if err != nil {
			continue
		}
		return decoded, true
	}

	s.Close()
	return a2a.Event{}, false
}

// Close releases the underlying HTTP response body. Calling Next after
// Close always reports the stream exhausted. Safe to call more than once.
func (s *EventStream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.resp.Body.Close()
}
