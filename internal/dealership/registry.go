// Package dealership provides the tenant registry: per-dealership identity,
// persona config, business hours, and webhook rate limiting, loaded from a
// YAML file owned by the operator.
package dealership

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"golang.org/x/time/rate"
	"gopkg.in/yaml.v3"

	"github.com/Quinntas/max/internal/lead"
)

var (
	ErrDealershipNotFound = errors.New("dealership not found")
	ErrRateLimitExceeded  = errors.New("rate limit exceeded")
)

// File is the top-level YAML structure of the dealership registry file.
type File struct {
	Dealerships []Record `yaml:"dealerships"`
}

// Record is one dealership entry as written in the registry file.
type Record struct {
	ID            int64                  `yaml:"id"`
	PID           string                 `yaml:"pid"`
	Name          string                 `yaml:"name"`
	Brand         string                 `yaml:"brand,omitempty"`
	Phone         string                 `yaml:"phone,omitempty"`
	Timezone      string                 `yaml:"timezone,omitempty"`
	BusinessHours lead.BusinessHours     `yaml:"business_hours,omitempty"`
	RateLimit     int                    `yaml:"rate_limit,omitempty"` // webhook requests per second; 0 means no limit
	Config        *lead.DealershipConfig `yaml:"config,omitempty"`
}

// Registry resolves inbound traffic to a dealership and enforces per-tenant
// webhook rate limits.
type Registry struct {
	mu       sync.RWMutex
	byPID    map[string]*lead.Dealership
	byPhone  map[string]*lead.Dealership
	limiters map[string]*rate.Limiter
}

// NewRegistry builds a registry from parsed records.
func NewRegistry(records []Record) *Registry {
	r := &Registry{
		byPID:    make(map[string]*lead.Dealership),
		byPhone:  make(map[string]*lead.Dealership),
		limiters: make(map[string]*rate.Limiter),
	}
	for _, rec := range records {
		d := rec.toDealership()
		r.byPID[rec.PID] = d
		if rec.Phone != "" {
			r.byPhone[rec.Phone] = d
		}
		if rec.RateLimit > 0 {
			r.limiters[rec.PID] = rate.NewLimiter(rate.Limit(rec.RateLimit), rec.RateLimit*2) // burst = 2s worth
		}
	}
	return r
}

// Load reads and parses the registry YAML file. A missing file yields an
// empty registry (runs fall back to the default persona), not an error.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewRegistry(nil), nil
		}
		return nil, fmt.Errorf("reading dealership file %s: %w", path, err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing dealership file %s: %w", path, err)
	}
	return NewRegistry(f.Dealerships), nil
}

func (rec Record) toDealership() *lead.Dealership {
	return &lead.Dealership{
		ID:            rec.ID,
		PID:           rec.PID,
		Name:          rec.Name,
		Brand:         rec.Brand,
		Timezone:      rec.Timezone,
		BusinessHours: rec.BusinessHours,
		Config:        rec.Config,
	}
}

// ByPID returns the dealership with the given public id, or an error.
func (r *Registry) ByPID(pid string) (*lead.Dealership, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.byPID[pid]
	if !ok {
		return nil, ErrDealershipNotFound
	}
	return d, nil
}

// ByPhone resolves an inbound destination number to its dealership.
func (r *Registry) ByPhone(phone string) (*lead.Dealership, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.byPhone[phone]
	if !ok {
		return nil, ErrDealershipNotFound
	}
	return d, nil
}

// Allow checks the dealership's webhook rate limit. Unknown tenants and
// tenants without a configured limit are always allowed; the registry
// gatekeeps throughput, not existence.
func (r *Registry) Allow(pid string) error {
	r.mu.RLock()
	lim, ok := r.limiters[pid]
	r.mu.RUnlock()
	if !ok {
		return nil
	}
	if !lim.Allow() {
		return ErrRateLimitExceeded
	}
	return nil
}

// Len returns the number of registered dealerships.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byPID)
}
