package a2a

// Artifact is an additive product of a task (spec §3): text, file, or binary
// content surfaced by TaskArtifactUpdateEvent or embedded in a Task snapshot.
type Artifact struct {
	ArtifactID  string         `json:"artifactId"`
	Name        string         `json:"name,omitempty"`
	Description string         `json:"description,omitempty"`
	Parts       []Part         `json:"parts"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	Extensions  []string       `json:"extensions,omitempty"`
}

// Text concatenates the artifact's text-kind parts, mirroring Message.Text.
func (a Artifact) Text() string {
	out := ""
	for _, p := range a.Parts {
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
