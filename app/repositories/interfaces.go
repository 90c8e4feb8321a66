package repositories

// KeyValueStore is the persistence adapter the comment widget writes to.
// Get returns ErrNotFound when the key has never been set.
type KeyValueStore interface {
	Get(key string) (string, error)
	Set(key, value string) error
}
