package quiz

import (
	"sync"

	"daily-quiz-service/internal/domain"
)

// Clock counts down the seconds left in a quiz period. It never ticks on its
// own: the owner calls Tick once per elapsed second.
type Clock struct {
	mu        sync.Mutex
	period    int
	remaining int
	running   bool
	rollovers uint64
}

func NewClock() *Clock {
	return &Clock{}
}

// Start arms the clock with a full period. Calling Start on a running clock restarts it.
func (c *Clock) Start(periodSeconds int) error {
	if periodSeconds <= 0 {
		return domain.ErrInvalidPeriod
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.period = periodSeconds
	c.remaining = periodSeconds
	c.running = true
	c.rollovers = 0
	return nil
}

// Tick advances the clock by one second and reports whether the period rolled over.
// On reaching zero the clock wraps back to the full period, so zero is never observable.
func (c *Clock) Tick() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running {
		return false
	}
	c.remaining--
	if c.remaining <= 0 {
		c.remaining = c.period
		c.rollovers++
		return true
	}
	return false
}

// Remaining returns the seconds left in the current period.
func (c *Clock) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}

func (c *Clock) Period() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.period
}

func (c *Clock) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// Rollovers counts the periods completed since the last Start.
func (c *Clock) Rollovers() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rollovers
}

// Stop halts the clock. Ticks after Stop are ignored.
func (c *Clock) Stop() {
	c.mu.Lock()
	c.running = false
	c.mu.Unlock()
}

// Countdown returns the remaining time in display form.
func (c *Clock) Countdown() domain.Countdown {
	remaining := c.Remaining()
	return domain.Countdown{Remaining: remaining, Display: FormatHMS(remaining)}
}
