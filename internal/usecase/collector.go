package usecase

import (
	"context"
	"errors"
	"time"

	drepo "OddsCast/internal/domain/repository"
	applogger "OddsCast/pkg/logger"

	"github.com/benbjohnson/clock"
)

// Collector runs the periodic ingestion loop. Exactly one collector
// must be active system-wide; the leader lock enforces that when
// multiple processes might start one.
type Collector struct {
	rec      *Recorder
	lock     drepo.LeaderLock
	interval time.Duration
	clk      clock.Clock
	l        *applogger.Logger

	leading bool
	done    chan struct{}
}

// NewCollector creates a Collector.
func NewCollector(rec *Recorder, lock drepo.LeaderLock, interval time.Duration, clk clock.Clock, l *applogger.Logger) *Collector {
	return &Collector{rec: rec, lock: lock, interval: interval, clk: clk, l: l, done: make(chan struct{})}
}

// Start launches the loop. It returns immediately; cycles run until ctx
// is cancelled or Stop is called.
func (c *Collector) Start(ctx context.Context) {
	go c.run(ctx)
}

func (c *Collector) run(ctx context.Context) {
	ticker := c.clk.Ticker(c.interval)
	defer ticker.Stop()

	// Run the first cycle without waiting a full interval.
	c.tick(ctx)

	for {
		select {
		case <-ctx.Done():
			c.release()
			return
		case <-c.done:
			c.release()
			return
		case <-ticker.C:
			c.tick(ctx)
		}
	}
}

func (c *Collector) tick(ctx context.Context) {
	if !c.ensureLeader(ctx) {
		return
	}

	cctx, cancel := context.WithTimeout(ctx, c.interval)
	defer cancel()

	if err := c.rec.RecordCycle(cctx); err != nil {
		if errors.Is(err, ErrCycleSkipped) {
			c.l.Warn("cycle skipped", applogger.Error(err))
			return
		}
		c.l.Error("cycle failed", applogger.Error(err))
	}
}

// ensureLeader acquires or renews the ingestion lease. Losing the lease
// demotes this process to read-only serving until it can reacquire.
func (c *Collector) ensureLeader(ctx context.Context) bool {
	if c.leading {
		ok, err := c.lock.Renew(ctx)
		if err != nil {
			c.l.Error("leader lease renew failed", applogger.Error(err))
			c.leading = false
			return false
		}
		if !ok {
			c.l.Warn("leader lease lost")
			c.leading = false
			return false
		}
		return true
	}

	ok, err := c.lock.Acquire(ctx)
	if err != nil {
		c.l.Error("leader lease acquire failed", applogger.Error(err))
		return false
	}
	if ok && !c.leading {
		c.l.Info("acquired ingestion leadership")
	}
	c.leading = ok
	return ok
}

func (c *Collector) release() {
	if !c.leading {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := c.lock.Release(ctx); err != nil {
		c.l.Warn("leader lease release failed", applogger.Error(err))
	}
	c.leading = false
}

// Stop terminates the loop and releases leadership.
func (c *Collector) Stop() {
	close(c.done)
}
