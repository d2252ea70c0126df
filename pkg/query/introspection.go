package query

import (
	"time"

	"github.com/aretw0/introspection"
)

// CacheState exposes internal state for observability.
type CacheState struct {
	Entries   int           `json:"entries"`
	Stale     int           `json:"stale"`
	InFlight  int           `json:"in_flight"`
	Epoch     uint64        `json:"epoch"`
	Fetches   uint64        `json:"fetches"`
	Evicted   uint64        `json:"evicted"`
	StaleTime time.Duration `json:"stale_time"`
}

// State implements introspection.Introspectable.
func (c *Cache) State() any {
	c.mu.RLock()
	defer c.mu.RUnlock()

	st := CacheState{
		Entries:   len(c.entries),
		Epoch:     c.epoch,
		Fetches:   c.fetches,
		Evicted:   c.evicted,
		StaleTime: c.staleTime,
	}
	for _, e := range c.entries {
		if e.stale || c.expired(e) {
			st.Stale++
		}
		if e.inFlight > 0 {
			st.InFlight++
		}
	}
	return st
}

// ComponentType implements introspection.Component.
func (c *Cache) ComponentType() string {
	return "cache"
}

var _ introspection.Introspectable = (*Cache)(nil)
var _ introspection.Component = (*Cache)(nil)
