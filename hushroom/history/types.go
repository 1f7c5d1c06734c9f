package history

import (
	"sync"
	"time"
)

// a delivered chat message. immutable once appended.
type Record struct {
	Alias     string
	Text      string
	CreatedAt time.Time
}

// what clients receive on join. timestamps stay server-side.
type Entry struct {
	Alias string `json:"alias"`
	Msg   string `json:"msg"`
}

// append-only message buffer with time-based eviction
type Store struct {
	mu      sync.Mutex
	records []Record
	now     func() time.Time
}

type Option func(*Store)
