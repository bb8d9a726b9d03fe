// internal/catalog/catalog.go
package catalog

import "strings"

// API dialect identifiers understood by the gateway
const (
	DialectOpenAI    = "openai-completions"
	DialectAnthropic = "anthropic-messages"
)

// SuggestedModel is a catalog entry for a model an official provider offers
type SuggestedModel struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description,omitempty"`
	ContextWindow int    `json:"context_window,omitempty"`
	MaxTokens     int    `json:"max_tokens,omitempty"`
	Recommended   bool   `json:"recommended"`
}

// OfficialProvider describes a known AI provider. The ID doubles as the
// default name for a configured entry created from it.
type OfficialProvider struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	Icon            string           `json:"icon"`
	DefaultBaseURL  string           `json:"default_base_url,omitempty"`
	APIType         string           `json:"api_type"`
	SuggestedModels []SuggestedModel `json:"suggested_models"`
	RequiresAPIKey  bool             `json:"requires_api_key"`
	DocsURL         string           `json:"docs_url,omitempty"`
}

// OfficialProviders returns the built-in provider catalog.
// The list is immutable; callers must not modify the returned entries.
func OfficialProviders() []OfficialProvider {
	return []OfficialProvider{
		{
			ID:             "openai",
			Name:           "OpenAI",
			Icon:           "🤖",
			DefaultBaseURL: "https://api.openai.com/v1",
			APIType:        DialectOpenAI,
			RequiresAPIKey: true,
			DocsURL:        "https://platform.openai.com/docs",
			SuggestedModels: []SuggestedModel{
				{ID: "gpt-4o", Name: "GPT-4o", Description: "Flagship multimodal model", ContextWindow: 128000, MaxTokens: 16384, Recommended: true},
				{ID: "gpt-4o-mini", Name: "GPT-4o mini", Description: "Fast and affordable", ContextWindow: 128000, MaxTokens: 16384},
				{ID: "o3-mini", Name: "o3-mini", Description: "Reasoning model for harder tasks", ContextWindow: 200000, MaxTokens: 100000},
			},
		},
		{
			ID:             "anthropic",
			Name:           "Anthropic",
			Icon:           "✨",
			DefaultBaseURL: "https://api.anthropic.com",
			APIType:        DialectAnthropic,
			RequiresAPIKey: true,
			DocsURL:        "https://docs.anthropic.com",
			SuggestedModels: []SuggestedModel{
				{ID: "claude-sonnet-4-20250514", Name: "Claude Sonnet 4", Description: "Balanced model for everyday use", ContextWindow: 200000, MaxTokens: 64000, Recommended: true},
				{ID: "claude-opus-4-20250514", Name: "Claude Opus 4", Description: "Most capable flagship model", ContextWindow: 200000, MaxTokens: 32000},
				{ID: "claude-3-5-haiku-20241022", Name: "Claude Haiku 3.5", Description: "Fastest model for simple tasks", ContextWindow: 200000, MaxTokens: 8192},
			},
		},
		{
			ID:             "deepseek",
			Name:           "DeepSeek",
			Icon:           "🐋",
			DefaultBaseURL: "https://api.deepseek.com/v1",
			APIType:        DialectOpenAI,
			RequiresAPIKey: true,
			DocsURL:        "https://platform.deepseek.com/docs",
			SuggestedModels: []SuggestedModel{
				{ID: "deepseek-chat", Name: "DeepSeek Chat", Description: "General purpose chat model", ContextWindow: 64000, MaxTokens: 8192, Recommended: true},
				{ID: "deepseek-reasoner", Name: "DeepSeek Reasoner", Description: "Reasoning model", ContextWindow: 64000, MaxTokens: 8192},
			},
		},
		{
			ID:             "moonshot",
			Name:           "Moonshot",
			Icon:           "🌙",
			DefaultBaseURL: "https://api.moonshot.cn/v1",
			APIType:        DialectOpenAI,
			RequiresAPIKey: true,
			DocsURL:        "https://platform.moonshot.cn/docs",
			SuggestedModels: []SuggestedModel{
				{ID: "kimi-k2-0711-preview", Name: "Kimi K2", Description: "Latest Kimi model", ContextWindow: 128000, MaxTokens: 16384, Recommended: true},
				{ID: "moonshot-v1-128k", Name: "Moonshot v1 128K", ContextWindow: 128000, MaxTokens: 8192},
			},
		},
		{
			ID:             "zhipu",
			Name:           "Zhipu AI",
			Icon:           "🧠",
			DefaultBaseURL: "https://open.bigmodel.cn/api/paas/v4",
			APIType:        DialectOpenAI,
			RequiresAPIKey: true,
			DocsURL:        "https://open.bigmodel.cn/dev/api",
			SuggestedModels: []SuggestedModel{
				{ID: "glm-4.5", Name: "GLM-4.5", Description: "Flagship GLM model", ContextWindow: 128000, MaxTokens: 16384, Recommended: true},
				{ID: "glm-4.5-air", Name: "GLM-4.5 Air", Description: "Lightweight variant", ContextWindow: 128000, MaxTokens: 16384},
			},
		},
		{
			ID:             "ollama",
			Name:           "Ollama",
			Icon:           "🦙",
			DefaultBaseURL: "http://localhost:11434/v1",
			APIType:        DialectOpenAI,
			RequiresAPIKey: false,
			DocsURL:        "https://ollama.com/library",
			SuggestedModels: []SuggestedModel{
				{ID: "llama3.3", Name: "Llama 3.3", Description: "Local Llama model", ContextWindow: 128000, MaxTokens: 8192, Recommended: true},
				{ID: "qwen3", Name: "Qwen 3", Description: "Local Qwen model", ContextWindow: 128000, MaxTokens: 8192},
			},
		},
	}
}

// Resolve finds the official provider matching a configured provider name.
// Exact ID match wins; otherwise a name that contains an official ID as a
// substring matches it (tolerates suffixed names like "openai-custom").
// Returns nil when nothing matches, which is not an error: such entries are
// rendered as fully custom.
func Resolve(providers []OfficialProvider, name string) *OfficialProvider {
	for i := range providers {
		if providers[i].ID == name {
			return &providers[i]
		}
	}
	for i := range providers {
		if strings.Contains(name, providers[i].ID) {
			return &providers[i]
		}
	}
	return nil
}

// Get returns the official provider with the given ID, or nil.
func Get(providers []OfficialProvider, id string) *OfficialProvider {
	for i := range providers {
		if providers[i].ID == id {
			return &providers[i]
		}
	}
	return nil
}

// SuggestedModel returns the suggested model with the given ID, or nil.
func (p *OfficialProvider) SuggestedModel(id string) *SuggestedModel {
	for i := range p.SuggestedModels {
		if p.SuggestedModels[i].ID == id {
			return &p.SuggestedModels[i]
		}
	}
	return nil
}

// RecommendedModelIDs returns the IDs of the recommended suggested models,
// falling back to the first suggested model when none are flagged.
func (p *OfficialProvider) RecommendedModelIDs() []string {
	var ids []string
	for _, m := range p.SuggestedModels {
		if m.Recommended {
			ids = append(ids, m.ID)
		}
	}
	if len(ids) == 0 && len(p.SuggestedModels) > 0 {
		ids = append(ids, p.SuggestedModels[0].ID)
	}
	return ids
}
