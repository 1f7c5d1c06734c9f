package history

import "time"

func NewStore(opts ...Option) *Store {
	s := &Store{
		records: make([]Record, 0, 64),
		now:     time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// replaces the clock used to timestamp appended records
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// appends a message stamped with the current time
func (s *Store) Append(alias, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, Record{
		Alias:     alias,
		Text:      text,
		CreatedAt: s.now(),
	})
}

// copies every retained message in insertion order
func (s *Store) Snapshot() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := make([]Entry, len(s.records))
	for i, rec := range s.records {
		entries[i] = Entry{Alias: rec.Alias, Msg: rec.Text}
	}

	return entries
}

// removes records created at or before now - retention and returns how many.
// survivors keep their order.
func (s *Store) Purge(now time.Time, retention time.Duration) int {
	cutoff := now.Add(-retention)

	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.records[:0]
	for _, rec := range s.records {
		if rec.CreatedAt.After(cutoff) {
			kept = append(kept, rec)
		}
	}

	removed := len(s.records) - len(kept)

	// clear the tail so purged records can be collected
	for i := len(kept); i < len(s.records); i++ {
		s.records[i] = Record{}
	}
	s.records = kept

	return removed
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.records)
}
