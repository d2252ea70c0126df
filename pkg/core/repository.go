package core

import "context"

// Repository defines the contract for reaching the remote notes collection.
// Adhering to this interface keeps the core independent of the transport
// (REST today, anything else tomorrow).
type Repository interface {
	// List returns one page of notes, filtered by the query's search term
	// when it is not empty.
	List(ctx context.Context, q Query) (FetchResult, error)

	// Create stores a new note. The remote side assigns ID and timestamps.
	Create(ctx context.Context, d Draft) (Note, error)

	// Delete removes a note by its ID and returns what was removed.
	// Implementations may return a Note carrying only the ID.
	Delete(ctx context.Context, id NoteID) (Note, error)
}
