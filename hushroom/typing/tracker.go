package typing

import (
	"sort"
	"sync"
)

// set of aliases currently composing a message
type Tracker struct {
	mu      sync.Mutex
	typists map[string]struct{}
}

func NewTracker() *Tracker {
	return &Tracker{
		typists: make(map[string]struct{}),
	}
}

// marks alias as typing. returns false if it already was.
func (t *Tracker) Start(alias string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.typists[alias]; ok {
		return false
	}

	t.typists[alias] = struct{}{}
	return true
}

// clears alias. returns false if it was not typing.
func (t *Tracker) Stop(alias string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.typists[alias]; !ok {
		return false
	}

	delete(t.typists, alias)
	return true
}

func (t *Tracker) Contains(alias string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	_, ok := t.typists[alias]
	return ok
}

// sorted copy, never nil
func (t *Tracker) Snapshot() []string {
	t.mu.Lock()
	out := make([]string, 0, len(t.typists))
	for alias := range t.typists {
		out = append(out, alias)
	}
	t.mu.Unlock()

	sort.Strings(out)
	return out
}

func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return len(t.typists)
}
