package circuit

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestBreaker(config Config) (*Breaker, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	b := NewBreaker("image-store", config, zap.NewNop())
	b.now = clock.now
	return b, clock
}

var errUpload = errors.New("upload failed")

func TestNewBreaker(t *testing.T) {
	b := NewBreaker("image-store", Config{}, nil)

	if b.State() != StateClosed {
		t.Errorf("Expected initial state CLOSED, got %s", b.State())
	}
	if b.config.Threshold != DefaultConfig().Threshold {
		t.Errorf("Expected default threshold, got %d", b.config.Threshold)
	}
}

func TestBreaker_OpensAfterThreshold(t *testing.T) {
	b, _ := newTestBreaker(Config{Threshold: 3, Timeout: time.Second})

	for i := 0; i < 3; i++ {
		b.Record(errUpload)
	}

	if b.State() != StateOpen {
		t.Fatalf("Expected OPEN after 3 failures, got %s", b.State())
	}
	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Errorf("Expected ErrCircuitOpen, got %v", err)
	}
}

func TestBreaker_SuccessResetsFailureCount(t *testing.T) {
	b, _ := newTestBreaker(Config{Threshold: 2, Timeout: time.Second})

	b.Record(errUpload)
	b.Record(nil)
	b.Record(errUpload)

	if b.State() != StateClosed {
		t.Errorf("Expected CLOSED with non-consecutive failures, got %s", b.State())
	}
}

func TestBreaker_HalfOpenLifecycle(t *testing.T) {
	b, clock := newTestBreaker(Config{Threshold: 1, Timeout: time.Minute, SuccessThreshold: 2, MaxHalfOpen: 1})

	b.Record(errUpload)
	clock.advance(30 * time.Second)
	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("Expected still open before timeout, got %v", err)
	}

	clock.advance(31 * time.Second)
	if err := b.Allow(); err != nil {
		t.Fatalf("Expected probe to be admitted, got %v", err)
	}
	if b.State() != StateHalfOpen {
		t.Fatalf("Expected HALF_OPEN, got %s", b.State())
	}
	if err := b.Allow(); !errors.Is(err, ErrTooManyRequests) {
		t.Errorf("Expected second concurrent probe to be rejected, got %v", err)
	}

	b.Record(nil)
	if err := b.Allow(); err != nil {
		t.Fatalf("Expected next probe after success, got %v", err)
	}
	b.Record(nil)

	if b.State() != StateClosed {
		t.Errorf("Expected CLOSED after 2 probe successes, got %s", b.State())
	}
}

func TestBreaker_HalfOpenFailureReopens(t *testing.T) {
	b, clock := newTestBreaker(Config{Threshold: 1, Timeout: time.Minute})

	b.Record(errUpload)
	clock.advance(time.Minute)
	_ = b.Allow()
	b.Record(errUpload)

	if b.State() != StateOpen {
		t.Errorf("Expected OPEN after failed probe, got %s", b.State())
	}
}

func TestBreaker_Execute(t *testing.T) {
	b, _ := newTestBreaker(Config{Threshold: 1, Timeout: time.Minute})
	ctx := context.Background()

	if err := b.Execute(ctx, func(context.Context) error { return nil }); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}

	if err := b.Execute(ctx, func(context.Context) error { return errUpload }); !errors.Is(err, errUpload) {
		t.Errorf("Expected upload error, got %v", err)
	}

	called := false
	err := b.Execute(ctx, func(context.Context) error {
		called = true
		return nil
	})
	if !errors.Is(err, ErrCircuitOpen) || called {
		t.Errorf("Expected fast failure without calling fn, got err=%v called=%v", err, called)
	}
}

func TestBreaker_IgnoresClassifiedErrors(t *testing.T) {
	errRejected := errors.New("rejected by store")
	b, _ := newTestBreaker(Config{
		Threshold: 1,
		Timeout:   time.Minute,
		IsFailure: func(err error) bool { return !errors.Is(err, errRejected) },
	})

	b.Record(errRejected)
	b.Record(context.Canceled)

	if b.State() != StateOpen {
		t.Errorf("Expected custom classifier to count cancellation, got %s", b.State())
	}
}

func TestBreaker_CancellationNotCountedByDefault(t *testing.T) {
	b, _ := newTestBreaker(Config{Threshold: 1, Timeout: time.Minute})

	b.Record(context.Canceled)

	if b.State() != StateClosed {
		t.Errorf("Expected CLOSED after cancellation, got %s", b.State())
	}
}

func TestBreaker_ResetAndSnapshot(t *testing.T) {
	b, _ := newTestBreaker(Config{Threshold: 1, Timeout: time.Hour})

	b.Record(errUpload)
	snap := b.Snapshot()
	if snap.State != "OPEN" || snap.Failures != 1 || snap.Name != "image-store" {
		t.Errorf("Unexpected snapshot %+v", snap)
	}

	b.Reset()
	if b.State() != StateClosed {
		t.Errorf("Expected CLOSED after reset, got %s", b.State())
	}
}

func TestState_String(t *testing.T) {
	tests := []struct {
		state    State
		expected string
	}{
		{StateClosed, "CLOSED"},
		{StateOpen, "OPEN"},
		{StateHalfOpen, "HALF_OPEN"},
		{State(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := tt.state.String(); got != tt.expected {
			t.Errorf("State(%d).String() = %s, want %s", tt.state, got, tt.expected)
		}
	}
}
