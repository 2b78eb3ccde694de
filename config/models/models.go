package models

// ModelInfo describes a single model exposed by a provider.
type ModelInfo struct {
	Name string `json:"name"`
}

// ProviderOptions holds the connection settings for a provider.
// APIKey is stored encrypted on disk and decrypted in memory.
type ProviderOptions struct {
	BaseURL string `json:"baseURL,omitempty"`
	APIKey  string `json:"apiKey,omitempty"`
}

// ProviderConfig represents a single AI provider entry.
type ProviderConfig struct {
	NPM     string               `json:"npm,omitempty"`
	Name    string               `json:"name,omitempty"`
	Options ProviderOptions      `json:"options"`
	Models  map[string]ModelInfo `json:"models,omitempty"`
}

// Document is the full on-disk configuration: a mapping from provider
// identifier to provider entry.
type Document struct {
	Provider map[string]ProviderConfig `json:"provider"`
}

// NewDocument returns an empty configuration document.
func NewDocument() *Document {
	return &Document{Provider: make(map[string]ProviderConfig)}
}

// Clone returns a structural deep copy of the provider entry.
func (p ProviderConfig) Clone() ProviderConfig {
	out := p
	if p.Models != nil {
		out.Models = make(map[string]ModelInfo, len(p.Models))
		for id, m := range p.Models {
			out.Models[id] = m
		}
	}
	return out
}

// Clone returns a structural deep copy of the document. Callers may mutate
// the result freely without affecting the receiver.
func (d *Document) Clone() *Document {
	if d == nil {
		return NewDocument()
	}
	out := NewDocument()
	for id, p := range d.Provider {
		out.Provider[id] = p.Clone()
	}
	return out
}
