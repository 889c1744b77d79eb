// Package settings abstracts the key/value store the staging slot keeps the
// last captured exception in, separate from the exceptions queue so that the
// slot survives a process crash even when the queue database was never
// opened.
package settings

// Manager is the key/value contract a host application can satisfy with its
// own platform settings store. Values are strings; numeric fields are
// round-tripped by the caller.
type Manager interface {
	// Clear removes every stored key.
	Clear() error

	// Set stores value under key, overwriting any previous value.
	Set(key, value string) error

	// Get returns the value stored under key, reporting presence.
	Get(key string) (string, bool)

	// ContainsKey reports whether key is present.
	ContainsKey(key string) bool
}
