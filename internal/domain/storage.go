package domain

import "context"

// Store persists address records. Implementations live in the repository
// layer; the aggregate only depends on this interface.
type Store interface {
	// Insert writes a new record and returns the storage-assigned id. The
	// record's "aid" entry is ignored.
	Insert(ctx context.Context, rec Record) (int64, error)
	// Update rewrites an existing record keyed by its "aid" entry.
	Update(ctx context.Context, rec Record) error
	// Delete removes the record with the given id.
	Delete(ctx context.Context, aid int64) error
	// GetByID fetches one record by id.
	GetByID(ctx context.Context, aid int64) (Record, error)
	// ListByOwner fetches all records belonging to a user, ordered by id.
	ListByOwner(ctx context.Context, uid int64) ([]Record, error)
}
