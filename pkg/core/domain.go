package core

import "strings"

// Query is the client-held tuple that drives a list read.
type Query struct {
	Page     int
	PageSize int
	Search   string
}

// Normalize returns a copy with the search term trimmed and page values
// clamped to at least 1.
func (q Query) Normalize() Query {
	q.Search = strings.TrimSpace(q.Search)
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = 1
	}
	return q
}

// HasSearch reports whether the query carries a non-empty search filter.
func (q Query) HasSearch() bool {
	return strings.TrimSpace(q.Search) != ""
}

// FetchResult is one page of a list read.
type FetchResult struct {
	Notes      []Note `json:"notes"`
	TotalPages int    `json:"totalPages"`
}

// EventType represents the kind of change made to the collection.
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventDelete EventType = "DELETE"
)

// Event represents a successful mutation of the remote collection.
type Event struct {
	Type      EventType
	ID        NoteID
	Timestamp int64 // Unix timestamp
}

// String implements fmt.Stringer.
func (e Event) String() string {
	return string(e.Type) + " " + string(e.ID)
}
