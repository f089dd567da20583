// Package agent provides the text-generation collaborator used by the
// story engine. It defines a provider-agnostic Generator interface, an HTTP
// client speaking the Anthropic and OpenAI wire formats, and a
// deterministic mock for tests.
package agent

import "context"

// Message is one turn of a generation conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// GenConfig carries per-call generation parameters. The extended-reasoning
// fields are forwarded to the provider unchanged; the engine never
// interprets them.
type GenConfig struct {
	MaxTokens               int      `json:"max_tokens"`
	Temperature             float64  `json:"temperature"`
	TopP                    *float64 `json:"top_p,omitempty"`
	TopK                    *int     `json:"top_k,omitempty"`
	EnableExtendedReasoning bool     `json:"enable_extended_reasoning"`
	ReasoningBudget         int      `json:"reasoning_budget"`
}

// DefaultGenConfig returns the generation parameters used for full chapters.
func DefaultGenConfig() GenConfig {
	return GenConfig{
		MaxTokens:               32000,
		Temperature:             0.9,
		EnableExtendedReasoning: true,
		ReasoningBudget:         30000,
	}
}

// Generator produces text from a system prompt and a message history.
// Implementations own their transport concerns (timeouts, rate limits,
// retries); callers propagate failures without retrying.
type Generator interface {
	Generate(ctx context.Context, systemPrompt string, messages []Message, cfg GenConfig) (string, error)
}
