package clock

import (
	"sync"
	"time"
)

// Manual is a Clock that only moves when Advance is called.
//
// Ticks are delivered synchronously: Advance blocks until each due tick has
// been received or the ticker has been stopped, so a consumer never misses a
// tick. AfterFunc callbacks run on the goroutine calling Advance.
type Manual struct {
	mu      sync.Mutex
	now     time.Time
	timers  []*manualTimer
	tickers []*manualTicker
}

// NewManual creates a manual clock starting at now.
func NewManual(now time.Time) *Manual {
	return &Manual{now: now}
}

// Now returns the current manual time.
func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// NewTicker registers a ticker firing every d.
func (m *Manual) NewTicker(d time.Duration) Ticker {
	if d <= 0 {
		panic("clock: non-positive ticker interval")
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	t := &manualTicker{
		clock:  m,
		period: d,
		next:   m.now.Add(d),
		ch:     make(chan time.Time),
		stop:   make(chan struct{}),
	}
	m.tickers = append(m.tickers, t)
	return t
}

// AfterFunc schedules f to run once the clock has advanced by d.
func (m *Manual) AfterFunc(d time.Duration, f func()) Timer {
	m.mu.Lock()
	defer m.mu.Unlock()

	t := &manualTimer{clock: m, at: m.now.Add(d), f: f}
	m.timers = append(m.timers, t)
	return t
}

// Pending returns the number of timers and tickers still registered.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.timers) + len(m.tickers)
}

// Advance moves the clock forward by d, firing every timer and tick that
// falls due along the way in chronological order.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now.Add(d)

	for {
		timer, ticker := m.nextDue(target)
		switch {
		case timer != nil:
			m.now = timer.at
			m.removeTimer(timer)
			m.mu.Unlock()
			timer.f()
			m.mu.Lock()
		case ticker != nil:
			at := ticker.next
			m.now = at
			ticker.next = at.Add(ticker.period)
			m.mu.Unlock()
			select {
			case ticker.ch <- at:
			case <-ticker.stop:
			}
			m.mu.Lock()
		default:
			m.now = target
			m.mu.Unlock()
			return
		}
	}
}

// nextDue returns the earliest timer or ticker due at or before target.
// Timers win ties. Caller holds mu.
func (m *Manual) nextDue(target time.Time) (*manualTimer, *manualTicker) {
	var (
		bestTimer  *manualTimer
		bestTicker *manualTicker
	)
	for _, t := range m.timers {
		if t.at.After(target) {
			continue
		}
		if bestTimer == nil || t.at.Before(bestTimer.at) {
			bestTimer = t
		}
	}
	for _, t := range m.tickers {
		if t.next.After(target) {
			continue
		}
		if bestTicker == nil || t.next.Before(bestTicker.next) {
			bestTicker = t
		}
	}
	if bestTimer != nil && bestTicker != nil && bestTicker.next.Before(bestTimer.at) {
		return nil, bestTicker
	}
	if bestTimer != nil {
		return bestTimer, nil
	}
	return nil, bestTicker
}

func (m *Manual) removeTimer(t *manualTimer) bool {
	for i, existing := range m.timers {
		if existing == t {
			m.timers = append(m.timers[:i], m.timers[i+1:]...)
			return true
		}
	}
	return false
}

func (m *Manual) removeTicker(t *manualTicker) {
	for i, existing := range m.tickers {
		if existing == t {
			m.tickers = append(m.tickers[:i], m.tickers[i+1:]...)
			return
		}
	}
}

type manualTimer struct {
	clock *Manual
	at    time.Time
	f     func()
}

func (t *manualTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	return t.clock.removeTimer(t)
}

type manualTicker struct {
	clock    *Manual
	period   time.Duration
	next     time.Time
	ch       chan time.Time
	stop     chan struct{}
	stopOnce sync.Once
}

func (t *manualTicker) C() <-chan time.Time { return t.ch }

func (t *manualTicker) Stop() {
	t.stopOnce.Do(func() {
		close(t.stop)
		t.clock.mu.Lock()
		t.clock.removeTicker(t)
		t.clock.mu.Unlock()
	})
}
