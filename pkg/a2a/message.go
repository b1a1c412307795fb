package a2a

// Message represents message-kind communication between user and agent
// (spec §3). A client-assigned MessageId must be echoed byte-exact by the
// server; this runtime never rewrites it.
type Message struct {
	Role             string         `json:"role"`
	Parts            []Part         `json:"parts"`
	MessageID        string         `json:"messageId"`
	Kind             string         `json:"kind"`
	Metadata         map[string]any `json:"metadata,omitempty"`
	Extensions       []string       `json:"extensions,omitempty"`
	ReferenceTaskIDs []string       `json:"referenceTaskIds,omitempty"`
	TaskID           string         `json:"taskId,omitempty"`
	ContextID        string         `json:"contextId,omitempty"`
}

// NewTextMessage builds a one-part text Message with kind pre-set.
func NewTextMessage(role, messageID, text string) Message {
	return Message{
		Role:      role,
		Parts:     []Part{NewTextPart(text)},
		MessageID: messageID,
		Kind:      "message",
	}
}

// Text concatenates the text of every text-kind part, space-separated,
// skipping empty parts. The Echo adapter uses it to build its reply.
func (m Message) Text() string {
	out := ""
	for _, p := range m.Parts {
		if p.Kind != PartKindText || p.Text == "" {
			continue
		}
		if out != "" {
			out += " "
		}
		out += p.Text
	}
	return out
}
