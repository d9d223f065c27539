package resilience

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNow struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeNow) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeNow) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

var errUpstream = errors.New("upstream failed")

func run(b *Breaker, success bool) error {
	return b.Execute(context.Background(), func(context.Context) error {
		if success {
			return nil
		}
		return errUpstream
	})
}

func TestBreakerStateTransitions(t *testing.T) {
	tests := []struct {
		name          string
		requests      []bool // true = success, false = failure
		expectedState State
	}{
		{"stays closed on successes", []bool{true, true, true}, StateClosed},
		{"opens after consecutive failures", []bool{false, false, false}, StateOpen},
		{"success resets the failure streak", []bool{false, false, true, false, false}, StateClosed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			breaker := New("generation", Settings{
				Interval: time.Minute,
				Timeout:  time.Minute,
				ReadyToTrip: func(counts Counts) bool {
					return counts.ConsecutiveFailures >= 3
				},
			})

			for _, success := range tt.requests {
				_ = run(breaker, success)
			}

			assert.Equal(t, tt.expectedState, breaker.State())
		})
	}
}

func TestBreakerRecovers(t *testing.T) {
	clock := &fakeNow{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}

	var transitions []string
	breaker := New("chat", Settings{
		Timeout: 10 * time.Second,
		Now:     clock.Now,
		ReadyToTrip: func(counts Counts) bool {
			return counts.ConsecutiveFailures >= 2
		},
		OnStateChange: func(name string, from, to State) {
			transitions = append(transitions, from.String()+"->"+to.String())
		},
	})

	require.ErrorIs(t, run(breaker, false), errUpstream)
	require.ErrorIs(t, run(breaker, false), errUpstream)
	assert.Equal(t, StateOpen, breaker.State())

	assert.ErrorIs(t, run(breaker, true), ErrCircuitOpen)

	clock.Advance(11 * time.Second)
	assert.Equal(t, StateHalfOpen, breaker.State())

	require.NoError(t, run(breaker, true))
	assert.Equal(t, StateClosed, breaker.State())
	assert.Equal(t, []string{"closed->open", "open->half-open", "half-open->closed"}, transitions)
}

func TestBreakerHalfOpenFailureReopens(t *testing.T) {
	clock := &fakeNow{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	breaker := New("generation", Settings{
		Timeout:     time.Second,
		Now:         clock.Now,
		ReadyToTrip: func(counts Counts) bool { return counts.ConsecutiveFailures >= 1 },
	})

	_ = run(breaker, false)
	clock.Advance(2 * time.Second)
	require.Equal(t, StateHalfOpen, breaker.State())

	_ = run(breaker, false)
	assert.Equal(t, StateOpen, breaker.State())
}

func TestBreakerIgnoresCancellation(t *testing.T) {
	breaker := New("generation", Settings{
		ReadyToTrip: func(counts Counts) bool { return counts.ConsecutiveFailures >= 1 },
	})

	err := breaker.Execute(context.Background(), func(context.Context) error {
		return context.Canceled
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StateClosed, breaker.State())
	assert.Equal(t, uint32(0), breaker.Counts().TotalFailures)
}

func TestBreakerCounts(t *testing.T) {
	breaker := New("test", Settings{Interval: time.Minute})

	_ = run(breaker, true)
	_ = run(breaker, true)
	_ = run(breaker, false)

	counts := breaker.Counts()
	assert.Equal(t, uint32(3), counts.Requests)
	assert.Equal(t, uint32(2), counts.TotalSuccesses)
	assert.Equal(t, uint32(1), counts.TotalFailures)
	assert.Equal(t, uint32(1), counts.ConsecutiveFailures)
}

func TestDoReturnsTypedResult(t *testing.T) {
	breaker := New("test", Settings{})

	got, err := Do(context.Background(), breaker, func(context.Context) (string, error) {
		return "image", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "image", got)
}

func TestBreakerPanicCountsAsFailure(t *testing.T) {
	breaker := New("test", Settings{})

	assert.Panics(t, func() {
		_ = breaker.Execute(context.Background(), func(context.Context) error {
			panic("boom")
		})
	})
	assert.Equal(t, uint32(1), breaker.Counts().TotalFailures)
}
