package resttimer

import (
	"log/slog"
	"sync"
	"time"
)

// State is a snapshot of the countdown. Remaining is nil while idle and
// after finishing (it reads 0 on the final tick, then nil). Finished stays
// true after the countdown ends until a consumer acknowledges it, so a late
// observer still sees that it fired.
type State struct {
	Remaining *int  `json:"remainingSeconds"`
	Total     int   `json:"totalSeconds"`
	Running   bool  `json:"isRunning"`
	Finished  bool  `json:"finished"`
	Vibration []int `json:"vibrationPattern,omitempty"`
}

// FinishVibration is the cue pattern (delay/on/off milliseconds) clients play
// when the countdown ends. Carried on every finished state.
var FinishVibration = []int{0, 500, 200, 500}

// TickerFunc produces a tick channel and a cancel func. Production code
// passes DefaultTicker; tests inject a manual channel.
type TickerFunc func(d time.Duration) (<-chan time.Time, func())

// DefaultTicker wraps time.Ticker.
func DefaultTicker(d time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(d)
	return t.C, t.Stop
}

// Timer is a single-countdown rest timer. Starting preempts any running
// countdown; only one runs at a time. It lives for the whole process,
// independent of any one request or stream.
type Timer struct {
	mu      sync.Mutex
	ticker  TickerFunc
	alerter Alerter
	log     *slog.Logger

	remaining int
	total     int
	running   bool
	finished  bool
	stop      chan struct{}

	subMu sync.Mutex
	next  int
	subs  map[int]chan State
}

// New creates a stopped timer.
func New(ticker TickerFunc, alerter Alerter, log *slog.Logger) *Timer {
	if ticker == nil {
		ticker = DefaultTicker
	}
	if alerter == nil {
		alerter = NopAlerter{}
	}
	return &Timer{
		ticker:  ticker,
		alerter: alerter,
		log:     log,
		subs:    make(map[int]chan State),
	}
}

// Start begins a countdown of totalSeconds, cancelling any countdown already
// running and clearing a stale finished flag.
func (t *Timer) Start(totalSeconds int) {
	if totalSeconds <= 0 {
		return
	}

	t.mu.Lock()
	t.cancelLocked()
	t.total = totalSeconds
	t.remaining = totalSeconds
	t.running = true
	t.finished = false
	stop := make(chan struct{})
	t.stop = stop
	t.mu.Unlock()

	t.publish()

	tick, cancelTick := t.ticker(time.Second)
	go t.run(tick, cancelTick, stop)
}

// Stop cancels the countdown without firing the finished signal.
func (t *Timer) Stop() {
	t.mu.Lock()
	t.cancelLocked()
	t.running = false
	t.remaining = 0
	t.total = 0
	t.mu.Unlock()
	t.publish()
}

// ResetFinished acknowledges the finished signal. It is not self-clearing.
func (t *Timer) ResetFinished() {
	t.mu.Lock()
	t.finished = false
	t.mu.Unlock()
	t.publish()
}

// Close stops the countdown and releases all subscribers.
func (t *Timer) Close() {
	t.mu.Lock()
	t.cancelLocked()
	t.running = false
	t.remaining = 0
	t.total = 0
	t.mu.Unlock()

	t.subMu.Lock()
	for id, ch := range t.subs {
		delete(t.subs, id)
		close(ch)
	}
	t.subMu.Unlock()
}

// State returns the current snapshot.
func (t *Timer) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stateLocked()
}

// Subscribe registers a state stream. Every tick and transition is
// published; slow consumers drop updates instead of blocking the countdown.
func (t *Timer) Subscribe() (<-chan State, func()) {
	t.subMu.Lock()
	defer t.subMu.Unlock()

	id := t.next
	t.next++
	ch := make(chan State, 32)
	t.subs[id] = ch

	cancel := func() {
		t.subMu.Lock()
		defer t.subMu.Unlock()
		if sub, ok := t.subs[id]; ok {
			delete(t.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// run decrements once per tick until zero or cancellation.
func (t *Timer) run(tick <-chan time.Time, cancelTick func(), stop chan struct{}) {
	defer cancelTick()

	for {
		select {
		case <-stop:
			return
		case <-tick:
			t.mu.Lock()
			if t.stop != stop {
				// Preempted between tick delivery and lock acquisition.
				t.mu.Unlock()
				return
			}
			t.remaining--
			done := t.remaining <= 0
			if done {
				t.remaining = 0
			}
			t.mu.Unlock()

			t.publish()

			if done {
				t.finish(stop)
				return
			}
		}
	}
}

// finish transitions Running → Finished: remaining goes nil, the finished
// flag latches, and the alert chain fires exactly once.
func (t *Timer) finish(stop chan struct{}) {
	t.mu.Lock()
	if t.stop != stop {
		t.mu.Unlock()
		return
	}
	t.stop = nil
	t.running = false
	t.finished = true
	total := t.total
	t.mu.Unlock()

	t.alert(total)
	t.publish()
}

// alert runs the alerter; failures degrade and are never propagated so they
// cannot crash or block the countdown.
func (t *Timer) alert(totalSeconds int) {
	defer func() {
		if rec := recover(); rec != nil && t.log != nil {
			t.log.Error("rest timer alert panicked", "panic", rec)
		}
	}()
	if err := t.alerter.Finished(totalSeconds); err != nil && t.log != nil {
		t.log.Warn("rest timer alert failed", "error", err)
	}
}

func (t *Timer) cancelLocked() {
	if t.stop != nil {
		close(t.stop)
		t.stop = nil
	}
}

func (t *Timer) stateLocked() State {
	s := State{Total: t.total, Running: t.running, Finished: t.finished}
	if t.running {
		remaining := t.remaining
		s.Remaining = &remaining
	}
	if t.finished {
		s.Vibration = FinishVibration
	}
	return s
}

func (t *Timer) publish() {
	t.mu.Lock()
	s := t.stateLocked()
	t.mu.Unlock()

	t.subMu.Lock()
	defer t.subMu.Unlock()
	for _, ch := range t.subs {
		select {
		case ch <- s:
		default:
		}
	}
}
