package health

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Payphone-Digital/marketplace/pkg/circuit"
	"go.uber.org/zap"
)

// Status represents health check status
type Status int

const (
	StatusUnknown Status = iota
	StatusHealthy
	StatusUnhealthy
	StatusDegraded
	StatusDisabled
)

func (s Status) String() string {
	switch s {
	case StatusHealthy:
		return "healthy"
	case StatusUnhealthy:
		return "unhealthy"
	case StatusDegraded:
		return "degraded"
	case StatusDisabled:
		return "disabled"
	default:
		return "unknown"
	}
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// CheckResult represents the result of a health check
type CheckResult struct {
	Name         string        `json:"-"`
	Status       Status        `json:"status"`
	Message      string        `json:"message,omitempty"`
	Latency      time.Duration `json:"latency_ns"`
	LastCheck    time.Time     `json:"last_check"`
	CheckCount   int           `json:"check_count"`
	FailureCount int           `json:"failure_count"`
	// Critical dependencies make the whole service unhealthy when they fail.
	Critical bool `json:"critical"`
}

// Checker probes one dependency.
type Checker interface {
	Check(ctx context.Context) (Status, string)
}

// CheckFunc adapts a function to Checker.
type CheckFunc func(ctx context.Context) (Status, string)

func (f CheckFunc) Check(ctx context.Context) (Status, string) {
	return f(ctx)
}

// PingChecker reports healthy when ping succeeds. A nil enabled func means always enabled.
func PingChecker(ping func(ctx context.Context) error, enabled func() bool) Checker {
	return CheckFunc(func(ctx context.Context) (Status, string) {
		if enabled != nil && !enabled() {
			return StatusDisabled, ""
		}
		if err := ping(ctx); err != nil {
			return StatusUnhealthy, err.Error()
		}
		return StatusHealthy, ""
	})
}

// BreakerChecker maps a circuit breaker state to a health status.
func BreakerChecker(b *circuit.Breaker) Checker {
	return CheckFunc(func(context.Context) (Status, string) {
		switch b.State() {
		case circuit.StateOpen:
			return StatusUnhealthy, "circuit open"
		case circuit.StateHalfOpen:
			return StatusDegraded, "circuit half-open"
		default:
			return StatusHealthy, ""
		}
	})
}

type registration struct {
	checker  Checker
	critical bool
}

// Monitor runs registered checks periodically and keeps the last result of each.
type Monitor struct {
	mu       sync.RWMutex
	checkers map[string]registration
	results  map[string]*CheckResult
	interval time.Duration
	timeout  time.Duration
	logger   *zap.Logger
	cancel   context.CancelFunc
	done     chan struct{}
	running  bool
	now      func() time.Time
}

// NewMonitor creates a new health monitor
func NewMonitor(interval time.Duration, logger *zap.Logger) *Monitor {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Monitor{
		checkers: make(map[string]registration),
		results:  make(map[string]*CheckResult),
		interval: interval,
		timeout:  5 * time.Second,
		logger:   logger,
		now:      time.Now,
	}
}

// Register adds a named check.
func (m *Monitor) Register(name string, checker Checker, critical bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.checkers[name] = registration{checker: checker, critical: critical}
	m.logger.Info("Registered health checker",
		zap.String("name", name),
		zap.Bool("critical", critical),
	)
}

// Start runs the checks once, then every interval until Stop.
func (m *Monitor) Start() {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.done = make(chan struct{})
	m.running = true
	m.mu.Unlock()

	go m.runChecks(ctx)
}

// Stop stops the health monitor and waits for the running round to end.
func (m *Monitor) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.running = false
	m.cancel()
	done := m.done
	m.mu.Unlock()

	<-done
}

func (m *Monitor) runChecks(ctx context.Context) {
	defer close(m.done)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.CheckAll(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.CheckAll(ctx)
		}
	}
}

// CheckAll runs every registered check now.
func (m *Monitor) CheckAll(ctx context.Context) {
	m.mu.RLock()
	checkers := make(map[string]registration, len(m.checkers))
	for name, reg := range m.checkers {
		checkers[name] = reg
	}
	m.mu.RUnlock()

	for name, reg := range checkers {
		checkCtx, cancel := context.WithTimeout(ctx, m.timeout)
		start := m.now()
		status, message := reg.checker.Check(checkCtx)
		cancel()

		result := CheckResult{
			Name:      name,
			Status:    status,
			Message:   message,
			Latency:   m.now().Sub(start),
			LastCheck: start,
			Critical:  reg.critical,
		}

		m.mu.Lock()
		if existing, ok := m.results[name]; ok {
			result.CheckCount = existing.CheckCount
			result.FailureCount = existing.FailureCount
		}
		result.CheckCount++
		if status == StatusUnhealthy {
			result.FailureCount++
		}
		m.results[name] = &result
		m.mu.Unlock()

		if status == StatusUnhealthy || status == StatusDegraded {
			m.logger.Warn("Health check failed",
				zap.String("name", name),
				zap.String("status", status.String()),
				zap.String("message", message),
				zap.Duration("latency", result.Latency),
			)
		}
	}
}

// GetResult gets the last result of a named check
func (m *Monitor) GetResult(name string) (*CheckResult, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result, exists := m.results[name]
	if !exists {
		return nil, false
	}
	resultCopy := *result
	return &resultCopy, true
}

// GetAllResults returns all health check results sorted by name
func (m *Monitor) GetAllResults() []CheckResult {
	m.mu.RLock()
	defer m.mu.RUnlock()

	results := make([]CheckResult, 0, len(m.results))
	for _, result := range m.results {
		results = append(results, *result)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Name < results[j].Name })
	return results
}

// Overall is unhealthy when a critical check is unhealthy, degraded when any
// other check is not healthy, and unknown before the first round.
func (m *Monitor) Overall() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(m.results) == 0 {
		return StatusUnknown
	}

	overall := StatusHealthy
	for _, result := range m.results {
		switch result.Status {
		case StatusHealthy, StatusDisabled:
		case StatusUnhealthy:
			if result.Critical {
				return StatusUnhealthy
			}
			overall = StatusDegraded
		default:
			overall = StatusDegraded
		}
	}
	return overall
}
