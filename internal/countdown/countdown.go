package countdown

import (
	"context"
	"sync"
	"time"

	"clubsite/internal/domain"
)

// DefaultInterval is the tick cadence when none is configured
const DefaultInterval = time.Second

// State of a countdown
type State int

const (
	StateIdle State = iota
	StateCounting
	StateExpired
)

func (s State) String() string {
	switch s {
	case StateCounting:
		return "counting"
	case StateExpired:
		return "expired"
	default:
		return "idle"
	}
}

// Option configures a Countdown
type Option func(*Countdown)

// WithLocation sets the zone in which date and clock strings are interpreted
func WithLocation(loc *time.Location) Option {
	return func(c *Countdown) {
		if loc != nil {
			c.loc = loc
		}
	}
}

// WithClock replaces time.Now, mostly for tests
func WithClock(now func() time.Time) Option {
	return func(c *Countdown) {
		if now != nil {
			c.now = now
		}
	}
}

// WithInterval sets the tick cadence used by Run
func WithInterval(d time.Duration) Option {
	return func(c *Countdown) {
		if d > 0 {
			c.interval = d
		}
	}
}

// Countdown tracks the time left until a single target.
// It is safe for concurrent use.
type Countdown struct {
	mu       sync.Mutex
	date     string
	clock    string
	target   Target
	prebuilt bool
	state    State

	loc      *time.Location
	now      func() time.Time
	interval time.Duration
	wake     chan struct{}
}

// New creates an idle countdown for a date and optional clock string
func New(date, clock string, opts ...Option) *Countdown {
	c := newCountdown(opts)
	c.date = date
	c.clock = clock
	return c
}

// NewFromTarget creates an idle countdown for an already resolved target
func NewFromTarget(t Target, opts ...Option) *Countdown {
	c := newCountdown(opts)
	c.target = t
	c.prebuilt = true
	return c
}

func newCountdown(opts []Option) *Countdown {
	c := &Countdown{
		loc:      time.Local,
		now:      time.Now,
		interval: DefaultInterval,
		wake:     make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Evaluate advances the state machine and returns the current time left
func (c *Countdown) Evaluate() domain.TimeLeft {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.evaluateLocked()
}

func (c *Countdown) evaluateLocked() domain.TimeLeft {
	switch c.state {
	case StateIdle:
		if !c.prebuilt {
			c.target = BuildTarget(c.date, c.clock, c.loc)
		}
		c.state = StateCounting
		return c.tickLocked()
	case StateCounting:
		return c.tickLocked()
	default:
		return expired()
	}
}

func (c *Countdown) tickLocked() domain.TimeLeft {
	left := Remaining(c.target, c.now())
	if left.Expired {
		c.state = StateExpired
	}
	return left
}

// SetTarget replaces the date and clock and restarts from idle
func (c *Countdown) SetTarget(date, clock string) {
	c.mu.Lock()
	c.date = date
	c.clock = clock
	c.prebuilt = false
	c.target = Target{}
	c.state = StateIdle
	c.mu.Unlock()
	c.Wake()
}

// Retarget replaces the target with a resolved one and restarts from idle
func (c *Countdown) Retarget(t Target) {
	c.mu.Lock()
	c.target = t
	c.prebuilt = true
	c.state = StateIdle
	c.mu.Unlock()
	c.Wake()
}

// State returns the current state
func (c *Countdown) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Target returns the resolved target; it is zero until the first evaluation
func (c *Countdown) Target() Target {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateIdle && !c.prebuilt {
		return BuildTarget(c.date, c.clock, c.loc)
	}
	return c.target
}

// Wake requests an immediate re-evaluation from a running loop.
// Calls never block; pending wakes coalesce.
func (c *Countdown) Wake() {
	select {
	case c.wake <- struct{}{}:
	default:
	}
}

// Run emits the time left immediately, then on every tick and every Wake,
// until ctx is done.
func (c *Countdown) Run(ctx context.Context, emit func(domain.TimeLeft)) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	emit(c.Evaluate())
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		case <-c.wake:
		}
		if ctx.Err() != nil {
			return
		}
		emit(c.Evaluate())
	}
}

// Watch runs c until ctx is done and delivers each value on the returned channel.
// A slow reader only sees the most recent value; the channel is closed on exit.
func Watch(ctx context.Context, c *Countdown) <-chan domain.TimeLeft {
	out := make(chan domain.TimeLeft, 1)
	go func() {
		defer close(out)
		c.Run(ctx, func(left domain.TimeLeft) {
			select {
			case out <- left:
				return
			default:
			}
			// drop the stale value and replace it
			select {
			case <-out:
			default:
			}
			select {
			case out <- left:
			default:
			}
		})
	}()
	return out
}
