package app

import (
	"time"

	"github.com/aretw0/notehub/pkg/core"
)

// Snapshot is an immutable copy of the view state.
type Snapshot struct {
	// Version increases with every change; a listener can drop snapshots
	// older than one it already applied.
	Version uint64

	Input    string // raw search box text
	Search   string // committed search term
	Page     int
	PageSize int

	Notes      []core.Note
	TotalPages int
	HasResult  bool
	Stale      bool
	Fetching   bool
	ReadErr    error

	ModalOpen   bool
	Creating    bool
	Deleting    map[core.NoteID]bool
	MutationErr error
}

// Loading reports whether nothing can be shown yet because the first read
// is still running.
func (s Snapshot) Loading() bool {
	return s.Fetching && !s.HasResult
}

// Empty reports whether a read succeeded with zero notes.
func (s Snapshot) Empty() bool {
	return s.HasResult && len(s.Notes) == 0
}

// ShowPagination reports whether page controls should be rendered.
func (s Snapshot) ShowPagination() bool {
	return s.TotalPages > 1
}

// IsDeleting reports whether a delete of id is in flight.
func (s Snapshot) IsDeleting(id core.NoteID) bool {
	return s.Deleting[id]
}

// Snapshot returns the current view state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	deleting := make(map[core.NoteID]bool, len(c.deleting))
	for id := range c.deleting {
		deleting[id] = true
	}
	var notes []core.Note
	if c.hasResult {
		notes = append([]core.Note{}, c.result.Notes...)
	}
	return Snapshot{
		Version:     c.version,
		Input:       c.input,
		Search:      c.search,
		Page:        c.page,
		PageSize:    c.pageSize,
		Notes:       notes,
		TotalPages:  c.result.TotalPages,
		HasResult:   c.hasResult,
		Stale:       c.stale,
		Fetching:    c.fetching,
		ReadErr:     c.readErr,
		ModalOpen:   c.modalOpen,
		Creating:    c.creating,
		Deleting:    deleting,
		MutationErr: c.mutationErr,
	}
}

// SetDebounce changes the search quiet period for subsequent keystrokes.
func (c *Controller) SetDebounce(d time.Duration) {
	c.debouncer.SetDelay(d)
}
