package a2a

// AgentCapabilities describes what an agent supports (spec §3).
type AgentCapabilities struct {
	Streaming              bool     `json:"streaming"`
	PushNotifications      bool     `json:"pushNotifications"`
	StateTransitionHistory bool     `json:"stateTransitionHistory"`
	Extensions             []string `json:"extensions,omitempty"`
}

// AgentProvider names the organization behind an agent.
type AgentProvider struct {
	Organization string `json:"organization"`
	URL          string `json:"url,omitempty"`
}

// SecurityScheme is a discriminated description of one way a caller may
// authenticate to this agent. Kind is one of "bearer", "bearer-jwt",
// "apiKey" (spec §12 supplement over the teacher's single-scheme-list
// AgentAuthentication).
type SecurityScheme struct {
	Kind   string `json:"kind"`
	Name   string `json:"name,omitempty"`   // scheme label, e.g. "default"
	Header string `json:"header,omitempty"` // header name for apiKey schemes
}

// AgentSkill describes one capability an agent advertises (spec §3).
type AgentSkill struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Examples    []string `json:"examples,omitempty"`
	InputModes  []string `json:"inputModes,omitempty"`
	OutputModes []string `json:"outputModes,omitempty"`
}

// AgentCard is the descriptor published at /.well-known/agent.json (spec §3).
//
// Invariant: if SecuritySchemes is non-empty, every non-discovery endpoint
// requires matching credentials (enforced by pkg/server's auth gate, not by
// this type).
type AgentCard struct {
	Name                string            `json:"name"`
	Description         string            `json:"description,omitempty"`
	URL                 string            `json:"url"`
	Version             string            `json:"version"`
	Capabilities        AgentCapabilities `json:"capabilities"`
	DefaultInputModes   []string          `json:"defaultInputModes,omitempty"`
	DefaultOutputModes  []string          `json:"defaultOutputModes,omitempty"`
	Skills              []AgentSkill      `json:"skills"`
	Provider            *AgentProvider    `json:"provider,omitempty"`
	IconURL             string            `json:"iconUrl,omitempty"`
	DocumentationURL    string            `json:"documentationUrl,omitempty"`
	SecuritySchemes     []SecurityScheme  `json:"securitySchemes,omitempty"`
	Security            []string          `json:"security,omitempty"`
}

// RequiresAuth reports whether any non-discovery endpoint on this card must
// gate on credentials.
func (c AgentCard) RequiresAuth() bool {
	return len(c.SecuritySchemes) > 0
}
