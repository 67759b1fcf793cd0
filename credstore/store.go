// Package credstore provides the persistent key/value capability the session
// layers use to keep credentials across process restarts. Implementations are
// synchronous and assumed single-writer from the process's perspective.
package credstore

// Store is a durable string key/value store. Get reports whether the key was
// present, Set persists a value and Delete is idempotent.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Delete(key string)
}
