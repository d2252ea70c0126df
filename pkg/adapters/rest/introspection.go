package rest

import (
	"github.com/aretw0/introspection"
)

// RepositoryState exposes internal state for observability.
type RepositoryState struct {
	BaseURL      string `json:"base_url"`
	SearchParam  string `json:"search_param"`
	BreakerState string `json:"breaker_state"`
	Requests     uint64 `json:"requests"`
	Failures     uint64 `json:"failures"`
	LastError    string `json:"last_error,omitempty"`
}

// State implements introspection.Introspectable.
func (r *Repository) State() any {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return RepositoryState{
		BaseURL:      r.base.String(),
		SearchParam:  r.config.SearchParam,
		BreakerState: r.breaker.State().String(),
		Requests:     r.requests,
		Failures:     r.failures,
		LastError:    r.lastErr,
	}
}

// ComponentType implements introspection.Component.
func (r *Repository) ComponentType() string {
	return "rest"
}

var _ introspection.Introspectable = (*Repository)(nil)
var _ introspection.Component = (*Repository)(nil)
