// Package testutil provides shared test helpers and mocks for Max tests.
package testutil

import (
	"context"
	"sync"

	"github.com/Quinntas/max/internal/llm"
)

// MockProvider implements llm.Provider for tests without live API calls.
// When Content is empty, Generate returns "mock response from " + ProviderName.
// Set Err to simulate generation failures.
type MockProvider struct {
	ProviderName string // provider identifier, e.g. "openai"
	Content      string // canned response; empty = "mock response from " + ProviderName
	Err          error  // if set, Generate returns this error
}

// Name returns the provider identifier (implements llm.Provider).
func (m *MockProvider) Name() string { return m.ProviderName }

// Generate returns a canned response or the configured error.
func (m *MockProvider) Generate(_ context.Context, req *llm.Request) (*llm.Response, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	content := m.Content
	if content == "" {
		content = "mock response from " + m.ProviderName
	}
	return &llm.Response{
		Content:      content,
		FinishReason: "stop",
		InputTokens:  10,
		OutputTokens: 20,
		Model:        req.Model,
	}, nil
}

// ScriptedProvider implements llm.Provider with a fixed response sequence.
// A pipeline run makes two generation calls (extraction, then drafting), so
// tests script both: Responses[0] is the extraction JSON, Responses[1] the
// drafted reply. It tracks call count and received requests for assertions.
// Set ErrOnCall (1-based) and Err to fail a specific call mid-sequence.
type ScriptedProvider struct {
	mu               sync.Mutex
	Responses        []string // sequence of response contents; call N gets Responses[N] or last if N >= len
	CallCount        int      // incremented on each Generate call
	ReceivedRequests []llm.Request
	ErrOnCall        int   // 1-based; when CallCount == ErrOnCall, Generate returns (nil, Err). 0 = never
	Err              error // error to return when ErrOnCall is hit
}

// Name returns "scripted".
func (p *ScriptedProvider) Name() string { return "scripted" }

// Generate returns the next content in the sequence and records the request.
func (p *ScriptedProvider) Generate(_ context.Context, req *llm.Request) (*llm.Response, error) {
	p.mu.Lock()
	p.CallCount++
	idx := p.CallCount - 1
	// Copy so callers cannot mutate recorded state after the fact.
	reqCopy := *req
	reqCopy.Messages = make([]llm.Message, len(req.Messages))
	copy(reqCopy.Messages, req.Messages)
	p.ReceivedRequests = append(p.ReceivedRequests, reqCopy)
	resps := p.Responses
	callCount := p.CallCount
	errOnCall := p.ErrOnCall
	errReturn := p.Err
	p.mu.Unlock()

	if errOnCall > 0 && callCount == errOnCall && errReturn != nil {
		return nil, errReturn
	}
	if len(resps) == 0 {
		return &llm.Response{
			Content:      "no responses configured",
			FinishReason: "stop",
			InputTokens:  10,
			OutputTokens: 20,
			Model:        req.Model,
		}, nil
	}
	if idx >= len(resps) {
		idx = len(resps) - 1
	}
	return &llm.Response{
		Content:      resps[idx],
		FinishReason: "stop",
		InputTokens:  10,
		OutputTokens: 20,
		Model:        req.Model,
	}, nil
}

// Requests returns a snapshot of the recorded requests.
func (p *ScriptedProvider) Requests() []llm.Request {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]llm.Request, len(p.ReceivedRequests))
	copy(out, p.ReceivedRequests)
	return out
}
