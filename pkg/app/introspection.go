package app

import (
	"github.com/aretw0/introspection"
)

// ControllerState exposes internal state for observability.
type ControllerState struct {
	Search    string `json:"search"`
	Page      int    `json:"page"`
	PageSize  int    `json:"page_size"`
	Notes     int    `json:"notes"`
	Fetching  bool   `json:"fetching"`
	ReadSeq   uint64 `json:"read_seq"`
	Deleting  int    `json:"deleting"`
	Creating  bool   `json:"creating"`
	ReadError string `json:"read_error,omitempty"`
	Cache     any    `json:"cache"`
}

// State implements introspection.Introspectable.
func (c *Controller) State() any {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := ControllerState{
		Search:   c.search,
		Page:     c.page,
		PageSize: c.pageSize,
		Notes:    len(c.result.Notes),
		Fetching: c.fetching,
		ReadSeq:  c.seq,
		Deleting: len(c.deleting),
		Creating: c.creating,
		Cache:    c.cache.State(),
	}
	if c.readErr != nil {
		s.ReadError = c.readErr.Error()
	}
	return s
}

// ComponentType implements introspection.Component.
func (c *Controller) ComponentType() string {
	return "controller"
}

var _ introspection.Introspectable = (*Controller)(nil)
var _ introspection.Component = (*Controller)(nil)
