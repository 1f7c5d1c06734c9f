package presence

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

// creates a registry whose released aliases stay reserved for persistence
func NewRegistry(persistence time.Duration, opts ...Option) *Registry {
	r := &Registry{
		aliases:      make(map[string]string),
		owners:       make(map[string]string),
		reservations: make(map[string]time.Time),
		persistence:  persistence,
		now:          time.Now,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// replaces the clock, for tests
func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		r.now = now
	}
}

// binds connID to an alias. a non-empty claimed alias with an unexpired
// reservation is reclaimed and the reservation consumed; anything else gets a
// freshly generated alias. claim check and binding happen under one lock, so
// two connections racing for one reservation cannot both win.
//
// a connection that is already bound keeps its alias.
func (r *Registry) AssignOrReconnect(connID, claimed string) (alias string, reconnected bool) {
	claimed = strings.TrimSpace(claimed)

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.aliases[connID]; ok {
		return existing, false
	}

	if claimed != "" {
		if expiry, ok := r.reservations[claimed]; ok {
			delete(r.reservations, claimed)

			if r.now().Before(expiry) {
				r.bind(connID, claimed)
				return claimed, true
			}
		}
	}

	r.counter++
	alias = AliasPrefix + strconv.FormatUint(r.counter, 10)
	r.bind(connID, alias)

	return alias, false
}

// must be called with lock held
func (r *Registry) bind(connID, alias string) {
	r.aliases[connID] = alias
	r.owners[alias] = connID
}

// unbinds connID and reserves its alias until now + persistence. unknown
// connections return UnknownAlias and false.
func (r *Registry) Release(connID string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	alias, ok := r.aliases[connID]
	if !ok {
		return UnknownAlias, false
	}

	delete(r.aliases, connID)
	delete(r.owners, alias)
	r.reservations[alias] = r.now().Add(r.persistence)

	return alias, true
}

// returns the alias bound to connID
func (r *Registry) Lookup(connID string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	alias, ok := r.aliases[connID]
	return alias, ok
}

// reports whether alias belongs to a live connection
func (r *Registry) IsPresent(alias string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.owners[alias]
	return ok
}

// reports whether alias holds an unexpired reservation
func (r *Registry) IsReserved(alias string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	expiry, ok := r.reservations[alias]
	return ok && r.now().Before(expiry)
}

// number of live connections
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.aliases)
}

// sorted aliases of live connections
func (r *Registry) Aliases() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	aliases := make([]string, 0, len(r.aliases))
	for _, alias := range r.aliases {
		aliases = append(aliases, alias)
	}

	sort.Strings(aliases)
	return aliases
}

// number of reservation entries, lapsed ones included until swept
func (r *Registry) Reservations() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.reservations)
}

// drops reservations that lapsed at or before now and returns how many
func (r *Registry) Sweep(now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for alias, expiry := range r.reservations {
		if !now.Before(expiry) {
			delete(r.reservations, alias)
			removed++
		}
	}

	return removed
}

// configured reservation lifetime
func (r *Registry) PersistenceTimeout() time.Duration {
	return r.persistence
}
