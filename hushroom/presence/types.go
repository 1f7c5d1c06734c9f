package presence

import (
	"sync"
	"time"
)

const (
	// prefix for generated aliases
	AliasPrefix = "Anon-User-"

	// returned by Release for connections that were never bound
	UnknownAlias = "Unknown User"
)

// maps live connections to aliases and keeps released aliases reclaimable for a
// while. the live mapping, the counter and the reservation table share one lock
// because every operation touches more than one of them.
type Registry struct {
	mu sync.Mutex

	// connection id -> alias
	aliases map[string]string

	// alias -> connection id, the reverse of aliases
	owners map[string]string

	// alias -> reservation expiry
	reservations map[string]time.Time

	// last issued Anon-User number
	counter uint64

	persistence time.Duration
	now         func() time.Time
}

type Option func(*Registry)
