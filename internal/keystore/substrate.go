package keystore

import "errors"

var (
	// ErrQuotaExceeded is returned by substrates that enforce a storage quota.
	ErrQuotaExceeded = errors.New("storage quota exceeded")
)

// Notification describes a completed write, broadcast so other execution
// contexts sharing the same substrate can react. NewValue carries the exact
// serialized text written under Key. Origin identifies the writing context;
// subscribers drop their own notifications.
type Notification struct {
	Key      string `json:"key"`
	NewValue string `json:"newValue"`
	Origin   string `json:"origin"`
}

// Substrate is the origin-scoped synchronous key-value layer underneath the
// store. Consumers define this interface; implementations are the in-memory
// substrate and the Redis substrate.
type Substrate interface {
	// Get returns the raw text stored under key, and whether the key exists.
	Get(key string) (string, bool, error)

	// Set stores raw text under key, replacing any previous value.
	Set(key, value string) error

	// Delete removes the key. Deleting an absent key is not an error.
	Delete(key string) error
}

// Bus carries change notifications between contexts that share a substrate.
type Bus interface {
	// Publish broadcasts a notification to every subscriber, including the
	// publisher's own context (filtering happens at the subscriber).
	Publish(n Notification) error

	// Subscribe registers a handler for all notifications on this bus and
	// returns a function that unregisters it.
	Subscribe(handler func(Notification)) (unsubscribe func())
}
