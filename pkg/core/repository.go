package core

import "context"

// Repository defines the contract for storing and retrieving notes.
// Implementations must write a single note atomically; nothing more is assumed about
// concurrent writers.
type Repository interface {
	// Save persists a note. It creates if not exists, or replaces it if it does.
	Save(ctx context.Context, n Note) error

	// Get retrieves a note by its ID. Missing notes yield an error wrapping ErrNotFound.
	Get(ctx context.Context, id string) (Note, error)

	// List returns all available notes.
	List(ctx context.Context) ([]Note, error)

	// Delete removes a note by its ID. Missing notes yield an error wrapping ErrNotFound.
	Delete(ctx context.Context, id string) error

	// Initialize ensures the underlying storage is ready (e.g., create directories, schema migration).
	Initialize(ctx context.Context) error
}

// AuthorLister is implemented by repositories that can filter by author natively.
// author is always passed in canonical lowercase form.
type AuthorLister interface {
	ListByAuthor(ctx context.Context, author string) ([]Note, error)
}

// Watchable is implemented by repositories that can report changes.
type Watchable interface {
	// Watch emits events for note IDs matching pattern until ctx is cancelled.
	Watch(ctx context.Context, pattern string) (<-chan Event, error)
}

// Closer is implemented by repositories holding connections.
type Closer interface {
	Close() error
}
