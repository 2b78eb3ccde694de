// Package presets carries the built-in provider catalog: well-known AI
// providers with their default endpoints, used to prefill the "add provider"
// form in the UI and the CLI.
package presets

import "sort"

// Preset describes one well-known provider.
type Preset struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	NPM          string `json:"npm,omitempty"`
	BaseURL      string `json:"baseURL"`
	DefaultModel string `json:"defaultModel,omitempty"`
}

var registry = make(map[string]Preset)

// Register adds a preset to the catalog, replacing any preset with the
// same id.
func Register(p Preset) {
	registry[p.ID] = p
}

// Get returns a preset by id.
func Get(id string) (Preset, bool) {
	p, ok := registry[id]
	return p, ok
}

// All returns every registered preset, sorted by id.
func All() []Preset {
	out := make([]Preset, 0, len(registry))
	for _, p := range registry {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func init() {
	Register(Preset{
		ID:           "openai",
		Name:         "OpenAI",
		NPM:          "@ai-sdk/openai",
		BaseURL:      "https://api.openai.com/v1",
		DefaultModel: "gpt-4o-mini",
	})
	Register(Preset{
		ID:           "anthropic",
		Name:         "Anthropic",
		NPM:          "@ai-sdk/anthropic",
		BaseURL:      "https://api.anthropic.com/v1",
		DefaultModel: "claude-3-5-sonnet-latest",
	})
	Register(Preset{
		ID:           "deepseek",
		Name:         "DeepSeek",
		NPM:          "@ai-sdk/deepseek",
		BaseURL:      "https://api.deepseek.com",
		DefaultModel: "deepseek-chat",
	})
	Register(Preset{
		ID:           "moonshot",
		Name:         "Moonshot AI",
		BaseURL:      "https://api.moonshot.cn/v1",
		DefaultModel: "moonshot-v1-8k",
	})
	Register(Preset{
		ID:           "ollama",
		Name:         "Ollama",
		NPM:          "ollama-ai-provider",
		BaseURL:      "http://localhost:11434/v1",
		DefaultModel: "llama3.1",
	})
	Register(Preset{
		ID:           "groq",
		Name:         "Groq",
		NPM:          "@ai-sdk/groq",
		BaseURL:      "https://api.groq.com/openai/v1",
		DefaultModel: "llama-3.1-8b-instant",
	})
}
