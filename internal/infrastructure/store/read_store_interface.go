package store

// ReadStoreInterface is the storage contract shared by the in-memory and
// Postgres read stores. The projector writes through it; the query side and
// the command handler's catalog lookups read through it.
type ReadStoreInterface interface {
	// Set stores a read model, replacing any existing entry
	Set(collection, id string, data any)

	// Get retrieves a read model by id
	Get(collection, id string) (any, bool)

	// GetAll retrieves all items in a collection
	GetAll(collection string) []any

	// Delete removes a read model
	Delete(collection, id string)

	// Update atomically applies updateFn to an existing entry, returning
	// false when the entry does not exist
	Update(collection, id string, updateFn func(current any) any) bool
}
