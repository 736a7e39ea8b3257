package circuit

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// State represents circuit breaker state
type State int

const (
	StateClosed   State = iota // calls pass through
	StateOpen                  // calls fail fast
	StateHalfOpen              // probing whether the backend recovered
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "CLOSED"
	case StateOpen:
		return "OPEN"
	case StateHalfOpen:
		return "HALF_OPEN"
	default:
		return "UNKNOWN"
	}
}

var (
	ErrCircuitOpen     = errors.New("circuit breaker is open")
	ErrTooManyRequests = errors.New("too many requests in half-open state")
)

// Config defines circuit breaker configuration
type Config struct {
	Threshold        int           // consecutive failures before opening
	Timeout          time.Duration // open duration before probing
	SuccessThreshold int           // probe successes needed to close
	MaxHalfOpen      int           // concurrent probes allowed

	// IsFailure decides which errors count against the backend.
	// Nil counts every error except context cancellation.
	IsFailure func(error) bool
}

func DefaultConfig() Config {
	return Config{
		Threshold:        5,
		Timeout:          30 * time.Second,
		SuccessThreshold: 2,
		MaxHalfOpen:      1,
	}
}

// Snapshot is a point-in-time view used by the health endpoint.
type Snapshot struct {
	Name        string    `json:"name"`
	State       string    `json:"state"`
	Failures    int       `json:"failures"`
	LastFailure time.Time `json:"last_failure,omitempty"`
}

// Breaker guards calls to one remote backend.
type Breaker struct {
	mu               sync.Mutex
	name             string
	config           Config
	logger           *zap.Logger
	state            State
	failures         int
	successes        int
	halfOpenRequests int
	openedAt         time.Time
	lastFailure      time.Time
	now              func() time.Time
}

func NewBreaker(name string, config Config, logger *zap.Logger) *Breaker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.Threshold <= 0 {
		config.Threshold = DefaultConfig().Threshold
	}
	if config.SuccessThreshold <= 0 {
		config.SuccessThreshold = 1
	}
	if config.MaxHalfOpen <= 0 {
		config.MaxHalfOpen = 1
	}

	return &Breaker{
		name:   name,
		config: config,
		logger: logger,
		state:  StateClosed,
		now:    time.Now,
	}
}

// Execute runs fn when the breaker admits the call and records its outcome.
func (b *Breaker) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := b.Allow(); err != nil {
		return err
	}

	err := fn(ctx)
	b.Record(err)
	return err
}

// Allow admits or rejects one call.
func (b *Breaker) Allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateOpen:
		if b.now().Sub(b.openedAt) < b.config.Timeout {
			return ErrCircuitOpen
		}
		b.transitionTo(StateHalfOpen)
		b.halfOpenRequests = 1
		return nil

	case StateHalfOpen:
		if b.halfOpenRequests >= b.config.MaxHalfOpen {
			return ErrTooManyRequests
		}
		b.halfOpenRequests++
		return nil
	}
	return nil
}

// Record feeds the outcome of an admitted call back into the breaker.
func (b *Breaker) Record(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == StateHalfOpen && b.halfOpenRequests > 0 {
		b.halfOpenRequests--
	}

	if err != nil && b.countsAsFailure(err) {
		b.recordFailure()
		return
	}
	b.recordSuccess()
}

func (b *Breaker) countsAsFailure(err error) bool {
	if b.config.IsFailure != nil {
		return b.config.IsFailure(err)
	}
	return !errors.Is(err, context.Canceled)
}

// must hold lock
func (b *Breaker) recordFailure() {
	b.failures++
	b.successes = 0
	b.lastFailure = b.now()

	switch b.state {
	case StateClosed:
		if b.failures >= b.config.Threshold {
			b.transitionTo(StateOpen)
		}
	case StateHalfOpen:
		b.transitionTo(StateOpen)
	}
}

// must hold lock
func (b *Breaker) recordSuccess() {
	switch b.state {
	case StateHalfOpen:
		b.successes++
		if b.successes >= b.config.SuccessThreshold {
			b.transitionTo(StateClosed)
		}
	case StateClosed:
		b.failures = 0
	}
}

// must hold lock
func (b *Breaker) transitionTo(next State) {
	prev := b.state
	b.state = next
	b.halfOpenRequests = 0
	b.successes = 0

	switch next {
	case StateOpen:
		b.openedAt = b.now()
	case StateClosed:
		b.failures = 0
	}

	b.logger.Warn("Circuit breaker state changed",
		zap.String("name", b.name),
		zap.String("from", prev.String()),
		zap.String("to", next.String()),
		zap.Int("failures", b.failures),
	)
}

func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *Breaker) Snapshot() Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()

	return Snapshot{
		Name:        b.name,
		State:       b.state.String(),
		Failures:    b.failures,
		LastFailure: b.lastFailure,
	}
}

// Reset closes the breaker and forgets recorded failures.
func (b *Breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.state = StateClosed
	b.failures = 0
	b.successes = 0
	b.halfOpenRequests = 0

	b.logger.Info("Circuit breaker reset", zap.String("name", b.name))
}
