// Package clock advances simulated screen time at a fixed cadence.
package clock

import (
	"sync"
	"time"

	bclock "github.com/benbjohnson/clock"
)

// DefaultPeriod is the wall time of one simulated minute.
const DefaultPeriod = 600 * time.Millisecond

// Clock calls onTick once per period while running. It knows nothing about
// thresholds or notifications.
type Clock struct {
	mu     sync.Mutex
	clk    bclock.Clock
	period time.Duration
	onTick func()

	ticker *bclock.Ticker
	stop   chan struct{}
}

// New creates a stopped clock. clk may be a mock in tests.
func New(clk bclock.Clock, period time.Duration, onTick func()) *Clock {
	if clk == nil {
		clk = bclock.New()
	}
	if period <= 0 {
		period = DefaultPeriod
	}
	return &Clock{clk: clk, period: period, onTick: onTick}
}

// Start begins ticking. Returns false if already running.
func (c *Clock) Start() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ticker != nil {
		return false
	}
	c.ticker = c.clk.Ticker(c.period)
	c.stop = make(chan struct{})
	go c.loop(c.ticker, c.stop)
	return true
}

// Stop halts ticking. It does not wait for an in-flight tick, so it is safe
// to call from inside onTick. Returns false if already stopped.
func (c *Clock) Stop() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ticker == nil {
		return false
	}
	c.ticker.Stop()
	close(c.stop)
	c.ticker = nil
	c.stop = nil
	return true
}

// Running reports whether the clock is ticking.
func (c *Clock) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ticker != nil
}

// Period is the configured tick interval.
func (c *Clock) Period() time.Duration {
	return c.period
}

// AfterFunc schedules f on the underlying clock, independent of Start/Stop.
func (c *Clock) AfterFunc(d time.Duration, f func()) *bclock.Timer {
	return c.clk.AfterFunc(d, f)
}

func (c *Clock) loop(t *bclock.Ticker, stop chan struct{}) {
	for {
		select {
		case <-stop:
			return
		case <-t.C:
			select {
			case <-stop:
				return
			default:
			}
			if c.onTick != nil {
				c.onTick()
			}
		}
	}
}
