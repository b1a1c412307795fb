package server

import (
	"regexp"

	"github.com/lumenforge/a2a-go/pkg/a2a"
)

// reasoningPatterns matches the reasoning-block tags spec §4.4 names,
// case-insensitive, with dot matching newlines so a multi-line reasoning
// block is stripped as a unit. Go's RE2 engine has no backreferences, so
// each tag name gets its own compiled open/close pattern rather than one
// pattern with a `\1` back-reference.
var reasoningPatterns = func() []*regexp.Regexp {
	names := []string{"think", "redacted_reasoning", "reasoning", "thinking"}
	out := make([]*regexp.Regexp, 0, len(names))
	for _, n := range names {
		out = append(out, regexp.MustCompile(`(?is)<`+n+`[^>]*>.*?</`+n+`>`))
	}
	return out
}()

// StripReasoning removes every reasoning-block substring from s, per spec
// §4.4 and testable property 6. Text with no match is returned unchanged.
func StripReasoning(s string) string {
	out := s
	for _, re := range reasoningPatterns {
		out = re.ReplaceAllString(out, "")
	}
	return out
}

// FilterMessage returns a copy of m with StripReasoning applied to every
// text-kind part; non-text parts pass through unchanged (spec §4.4).
func FilterMessage(m a2a.Message) a2a.Message {
	out := m
	out.Parts = filterParts(m.Parts)
	return out
}

// FilterArtifact returns a copy of a with StripReasoning applied to every
// text-kind part.
func FilterArtifact(a a2a.Artifact) a2a.Artifact {
	out := a
	out.Parts = filterParts(a.Parts)
	return out
}

// FilterTaskStatus returns a copy of s with StripReasoning applied to its
// message, if any.
func FilterTaskStatus(s a2a.TaskStatus) a2a.TaskStatus {
	out := s
	if s.Message != nil {
		m := FilterMessage(*s.Message)
		out.Message = &m
	}
	return out
}

// FilterHistory applies FilterMessage across a task history slice, as
// required when history is returned through tasks/get or
// tasks/resubscribe (spec §4.4).
func FilterHistory(history []a2a.Message) []a2a.Message {
	if history == nil {
		return nil
	}
	out := make([]a2a.Message, len(history))
	for i, m := range history {
		out[i] = FilterMessage(m)
	}
	return out
}

func filterParts(parts []a2a.Part) []a2a.Part {
	if parts == nil {
		return nil
	}
	out := make([]a2a.Part, len(parts))
	for i, p := range parts {
		if p.Kind == a2a.PartKindText {
			p.Text = StripReasoning(p.Text)
		}
		out[i] = p
	}
	return out
}
