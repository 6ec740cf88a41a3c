// Package llm provides LLM provider configuration and error handling
// for the structured-extraction client.
package llm

// Provider name constants.
const (
	ProviderOpenAI     = "openai"
	ProviderAnthropic  = "anthropic"
	ProviderOpenRouter = "openrouter"
	ProviderOllama     = "ollama"
)

// APIFormat identifies the wire format a provider speaks.
type APIFormat string

const (
	// APIFormatOpenAI is the /chat/completions format with tool_calls.
	// Used by OpenAI, OpenRouter, and most compatible gateways.
	APIFormatOpenAI APIFormat = "openai"
	// APIFormatAnthropic is the /v1/messages format with tool_use blocks.
	APIFormatAnthropic APIFormat = "anthropic"
)

// ProviderConfig describes how to reach a provider.
type ProviderConfig struct {
	BaseURL      string
	ChatEndpoint string
	Format       APIFormat
	AuthHeader   string // Empty means "Authorization: Bearer"
	ExtraHeaders map[string]string
}

var providers = map[string]ProviderConfig{
	ProviderOpenAI: {
		BaseURL:      "https://api.openai.com",
		ChatEndpoint: "/v1/chat/completions",
		Format:       APIFormatOpenAI,
	},
	ProviderOpenRouter: {
		BaseURL:      "https://openrouter.ai/api",
		ChatEndpoint: "/v1/chat/completions",
		Format:       APIFormatOpenAI,
	},
	ProviderAnthropic: {
		BaseURL:      "https://api.anthropic.com",
		ChatEndpoint: "/v1/messages",
		Format:       APIFormatAnthropic,
		AuthHeader:   "x-api-key",
		ExtraHeaders: map[string]string{"anthropic-version": "2023-06-01"},
	},
	ProviderOllama: {
		BaseURL:      "http://localhost:11434",
		ChatEndpoint: "/v1/chat/completions", // Ollama's OpenAI-compatible endpoint
		Format:       APIFormatOpenAI,
	},
}

// GetProviderConfig returns the configuration for a provider, falling
// back to the OpenAI-compatible shape for unknown names.
func GetProviderConfig(provider string) ProviderConfig {
	if cfg, ok := providers[provider]; ok {
		return cfg
	}
	return providers[ProviderOpenAI]
}
