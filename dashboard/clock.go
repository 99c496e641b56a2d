package dashboard

import (
	"context"
	"sync"
	"time"
)

type clock struct {
	interval time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// StartClock refreshes CurrentTime every second until StopClock or ctx is done.
// Calling it while the clock runs is a no-op.
func (c *Controller) StartClock(ctx context.Context) {
	c.clock.mu.Lock()
	defer c.clock.mu.Unlock()

	if c.clock.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	c.clock.cancel = cancel
	c.clock.done = done

	c.tick()

	go func() {
		defer close(done)
		defer c.releaseClock(done)

		ticker := time.NewTicker(c.clock.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.tick()
			}
		}
	}()
}

// StopClock stops the ticker and waits for it to exit. Safe to call more than once.
func (c *Controller) StopClock() {
	c.clock.mu.Lock()
	cancel, done := c.clock.cancel, c.clock.done
	c.clock.cancel, c.clock.done = nil, nil
	c.clock.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// releaseClock clears the running clock when its own goroutine exits, so a clock stopped by
// ctx cancellation can be started again.
func (c *Controller) releaseClock(done chan struct{}) {
	c.clock.mu.Lock()
	defer c.clock.mu.Unlock()

	if c.clock.done != done {
		return
	}
	c.clock.cancel()
	c.clock.cancel, c.clock.done = nil, nil
}

func (c *Controller) tick() {
	now := c.now()
	c.update(func(s *State) { s.CurrentTime = now })
}
