package history

import (
	"context"
	"fmt"
	"time"

	"codeberg.org/hushroom/server/internal/logger"
)

// something else with time-bounded entries to drop on each cycle
type Sweeper interface {
	Sweep(now time.Time) int
}

// outcome of one cleanup cycle
type CycleResult struct {
	Purged    int
	Remaining int
	Swept     map[string]int
}

// periodically purges messages older than the retention window. a failing
// cycle is logged and the next tick runs as usual.
type CleanupService struct {
	store     *Store
	interval  time.Duration
	retention time.Duration
	sweepers  []namedSweeper
	onCycle   func(CycleResult, error)
	now       func() time.Time
}

type namedSweeper struct {
	name    string
	sweeper Sweeper
}

type CleanupOption func(*CleanupService)

// also sweeps s on every cycle; name is used in logs and results
func WithSweeper(name string, s Sweeper) CleanupOption {
	return func(c *CleanupService) {
		c.sweepers = append(c.sweepers, namedSweeper{name: name, sweeper: s})
	}
}

// called after every cycle, successful or not
func OnCycle(fn func(CycleResult, error)) CleanupOption {
	return func(c *CleanupService) {
		c.onCycle = fn
	}
}

func WithCleanupClock(now func() time.Time) CleanupOption {
	return func(c *CleanupService) {
		c.now = now
	}
}

// creates a new cleanup service
func NewCleanupService(store *Store, interval, retention time.Duration, opts ...CleanupOption) *CleanupService {
	c := &CleanupService{
		store:     store,
		interval:  interval,
		retention: retention,
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// runs a cycle immediately, then one per interval until ctx is done
func (c *CleanupService) Start(ctx context.Context) {
	logger.Info("starting history cleanup service",
		"check_interval", c.interval,
		"retention", c.retention,
	)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	c.tick()

	for {
		select {
		case <-ctx.Done():
			logger.Info("history cleanup service stopped")
			return
		case <-ticker.C:
			c.tick()
		}
	}
}

func (c *CleanupService) tick() {
	result, err := c.RunOnce()

	if c.onCycle != nil {
		c.onCycle(result, err)
	}

	if err != nil {
		logger.ErrorErr(err, "history cleanup cycle failed, will retry next tick",
			"next_in", c.interval,
		)
		return
	}

	if result.Purged > 0 {
		logger.Info("purged old messages",
			"removed", result.Purged,
			"remaining", result.Remaining,
		)
	} else {
		logger.Debug("no messages purged", "remaining", result.Remaining)
	}

	for name, n := range result.Swept {
		if n > 0 {
			logger.Debug("swept expired entries", "sweeper", name, "removed", n)
		}
	}
}

// performs a single cycle. a panic inside the cycle is returned as an error.
func (c *CleanupService) RunOnce() (result CycleResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrCycleFailed, r)
		}
	}()

	now := c.now()

	result.Purged = c.store.Purge(now, c.retention)
	result.Remaining = c.store.Len()

	if len(c.sweepers) > 0 {
		result.Swept = make(map[string]int, len(c.sweepers))
		for _, s := range c.sweepers {
			result.Swept[s.name] = s.sweeper.Sweep(now)
		}
	}

	return result, nil
}
