// Package agent wraps the LLM providers into the two total-function
// adapters the pipeline needs: structured lead extraction and customer-reply
// drafting. Both absorb collaborator failure locally — extraction falls back
// to the documented default, drafting to the empty string — so the
// orchestrator's control flow stays linear.
package agent

import (
	"sync"

	"github.com/Quinntas/max/internal/lead"
	"github.com/Quinntas/max/internal/llm"
	maxotel "github.com/Quinntas/max/internal/otel"
)

var tracer = maxotel.Tracer("github.com/Quinntas/max/internal/agent")

// DefaultModel is used unless the host overrides it per agent.
const DefaultModel = "gpt-4o"

// Generation knobs. Extraction runs cold for determinism; drafting keeps
// some temperature so replies don't read canned.
const (
	extractionTemperature = 0.0
	extractionMaxTokens   = 512
	responseTemperature   = 0.7
	responseMaxTokens     = 300
)

// Agent binds a dealership persona to a provider and model. One agent per
// dealership, cached process-wide (see Cache).
type Agent struct {
	provider     llm.Provider
	model        string
	systemPrompt string
	dealership   *lead.Dealership
}

// New creates an agent for a dealership. A nil dealership yields the
// default persona.
func New(provider llm.Provider, model string, dealership *lead.Dealership) *Agent {
	if model == "" {
		model = DefaultModel
	}
	return &Agent{
		provider:     provider,
		model:        model,
		systemPrompt: SystemPrompt(dealership),
		dealership:   dealership,
	}
}

// Dealership returns the tenant this agent is bound to (may be nil).
func (a *Agent) Dealership() *lead.Dealership { return a.dealership }

// tenantKey is the cache key for an agent's dealership; the default
// persona shares one slot.
func (a *Agent) tenantKey() string {
	if a.dealership == nil {
		return ""
	}
	return a.dealership.PID
}

// Cache is the process-wide per-tenant agent cache: one persona/model
// binding per dealership, populated lazily, read-mostly. A stale persona is
// acceptable until Clear or process restart (tenant-config hot-reload calls
// Clear for the affected dealership).
type Cache struct {
	mu     sync.RWMutex
	agents map[string]*Agent
}

// NewCache creates an empty agent cache.
func NewCache() *Cache {
	return &Cache{agents: make(map[string]*Agent)}
}

// GetOrCreate returns the cached agent for tenantID, building it with
// factory on first use. Safe for concurrent lookups.
func (c *Cache) GetOrCreate(tenantID string, factory func() *Agent) *Agent {
	c.mu.RLock()
	a, ok := c.agents[tenantID]
	c.mu.RUnlock()
	if ok {
		return a
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	// Re-check under the write lock; another goroutine may have won.
	if a, ok := c.agents[tenantID]; ok {
		return a
	}
	a = factory()
	c.agents[tenantID] = a
	return a
}

// Clear evicts one tenant's agent, or every agent when tenantID is empty.
func (c *Cache) Clear(tenantID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if tenantID == "" {
		c.agents = make(map[string]*Agent)
		return
	}
	delete(c.agents, tenantID)
}

// Len returns the number of cached agents.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.agents)
}
