// Package llm abstracts the text generators the pipeline consumes: a
// provider interface plus OpenAI and Ollama implementations. Adapters in
// internal/agent wrap these into the total functions the pipeline needs;
// errors escape this package but never reach the orchestrator's callers.
package llm

import (
	"context"
	"errors"
	"time"
)

// TimeoutLLMCall bounds every generation call. The orchestrator itself
// imposes no timeout; this is the collaborator-provided bound it inherits.
const TimeoutLLMCall = 60 * time.Second

// Domain errors for the LLM package.
var (
	ErrNoChoices    = errors.New("no choices returned")
	ErrEmptyContent = errors.New("empty response content")
)

// Provider is the interface all text generators implement.
type Provider interface {
	// Name returns the provider identifier (e.g. "openai", "ollama").
	Name() string
	// Generate sends a completion request and returns the response.
	Generate(ctx context.Context, req *Request) (*Response, error)
}

// Request represents a generation request.
type Request struct {
	Model       string
	Messages    []Message
	Temperature float64
	MaxTokens   int
	// JSONMode asks the provider for a structured JSON object response.
	// Used by the extraction adapter; free-text drafting leaves it false.
	JSONMode bool
}

// Message represents a chat message.
type Message struct {
	Role    string // "system", "user", "assistant"
	Content string
}

// Response represents a generation response.
type Response struct {
	Content      string
	FinishReason string
	InputTokens  int
	OutputTokens int
	Model        string
}
