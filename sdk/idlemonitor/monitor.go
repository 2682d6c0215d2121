// Package idlemonitor implements the client side of session idle
// detection: a three-phase state machine that waits out a configurable
// idle period, runs a visible warning countdown, and performs a single
// logout teardown when the countdown reaches zero.
package idlemonitor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Phase is the monitor's position in the idle-detection lifecycle.
type Phase int

const (
	// PhaseIdle means the user is considered active and no warning is
	// showing. The idle timer is armed.
	PhaseIdle Phase = iota
	// PhaseWarning means the countdown is running. User activity is
	// deliberately ignored; only Continue leaves this phase alive.
	PhaseWarning
	// PhaseExpired is terminal. The logout teardown has run (or is
	// running) and the monitor will not restart on its own.
	PhaseExpired
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseWarning:
		return "warning"
	case PhaseExpired:
		return "expired"
	default:
		return "unknown"
	}
}

const (
	defaultIdleWait        = 15 * time.Minute
	defaultWarningDuration = 60 * time.Second
	defaultTickInterval    = time.Second
)

// Callbacks notify the host application of lifecycle transitions. All
// callbacks are invoked outside the monitor's lock, so they may call
// back into the monitor. Nil callbacks are skipped.
type Callbacks struct {
	// OnWarning fires once when the warning phase begins, with the
	// full countdown value.
	OnWarning func(secondsRemaining int)
	// OnTick fires on every countdown decrement with the raw count and
	// its M:SS rendering.
	OnTick func(secondsRemaining int, formatted string)
	// OnContinue fires when the user dismisses the warning.
	OnContinue func()
	// OnExpired fires once, after the logout teardown has completed.
	OnExpired func()
}

// Monitor tracks user activity and drives the Idle -> Warning ->
// Expired state machine. All exported methods are safe for concurrent
// use.
type Monitor struct {
	mu sync.Mutex

	phase            Phase
	started          bool
	loggedOut        bool
	secondsRemaining int

	// gen invalidates timers and countdown goroutines from earlier
	// phases; each arm/reset bumps it and stale firings check it.
	gen int

	idleWait        time.Duration
	warningDuration time.Duration
	tickInterval    time.Duration

	idleTimer *time.Timer
	warnStop  chan struct{}

	client    *Client
	creds     CredentialStore
	navigate  func()
	callbacks Callbacks
	log       *slog.Logger
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithIdleWait sets how long the user may be inactive before the
// warning phase begins.
func WithIdleWait(d time.Duration) Option {
	return func(m *Monitor) { m.idleWait = d }
}

// WithWarningDuration sets the length of the warning countdown.
func WithWarningDuration(d time.Duration) Option {
	return func(m *Monitor) { m.warningDuration = d }
}

// WithTickInterval sets the countdown tick interval. The countdown
// starts at warningDuration/tickInterval and decrements by one per
// tick, so with the default one-second interval the count is seconds.
func WithTickInterval(d time.Duration) Option {
	return func(m *Monitor) { m.tickInterval = d }
}

// WithClient sets the session API client used for logout, keepalive,
// and reconciliation.
func WithClient(c *Client) Option {
	return func(m *Monitor) { m.client = c }
}

// WithCredentialStore sets the store cleared during logout teardown.
func WithCredentialStore(s CredentialStore) Option {
	return func(m *Monitor) { m.creds = s }
}

// WithNavigate sets the redirect invoked after logout teardown,
// typically pointing the UI at the login screen.
func WithNavigate(fn func()) Option {
	return func(m *Monitor) { m.navigate = fn }
}

// WithCallbacks sets the lifecycle callbacks.
func WithCallbacks(cb Callbacks) Option {
	return func(m *Monitor) { m.callbacks = cb }
}

// WithLogger sets the monitor's logger.
func WithLogger(log *slog.Logger) Option {
	return func(m *Monitor) { m.log = log }
}

// New creates a Monitor. It does not start tracking until Start is
// called.
func New(opts ...Option) *Monitor {
	m := &Monitor{
		phase:           PhaseIdle,
		idleWait:        defaultIdleWait,
		warningDuration: defaultWarningDuration,
		tickInterval:    defaultTickInterval,
		log:             slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start arms the idle timer. Calling Start on a running or expired
// monitor is a no-op.
func (m *Monitor) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.started || m.phase == PhaseExpired {
		return
	}
	m.started = true
	m.gen++
	m.armIdleTimerLocked(m.gen)
}

// Stop cancels all timers without logging out. The monitor can be
// restarted with Start unless it has expired.
func (m *Monitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.started {
		return
	}
	m.started = false
	m.gen++
	m.teardownTimersLocked()
	if m.phase == PhaseWarning {
		m.phase = PhaseIdle
		m.secondsRemaining = 0
	}
}

// Activity records user interaction. In the idle phase it re-arms the
// idle timer; during the warning countdown it is ignored, so ambient
// events like mouse movement cannot silently dismiss the warning.
func (m *Monitor) Activity() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.started || m.phase != PhaseIdle {
		return
	}
	m.gen++
	m.armIdleTimerLocked(m.gen)
}

// Continue dismisses the warning and returns to the idle phase. It
// also sends a keepalive so the server-side record is refreshed; a
// rejected keepalive expires the session immediately. Calling Continue
// outside the warning phase is a no-op.
func (m *Monitor) Continue(ctx context.Context) error {
	m.mu.Lock()
	if m.phase != PhaseWarning {
		m.mu.Unlock()
		return nil
	}
	m.gen++
	m.teardownTimersLocked()
	m.phase = PhaseIdle
	m.secondsRemaining = 0
	m.armIdleTimerLocked(m.gen)
	cb := m.callbacks.OnContinue
	m.mu.Unlock()

	if cb != nil {
		cb()
	}

	if m.client == nil {
		return nil
	}
	if err := m.client.KeepAlive(ctx); err != nil {
		if errors.Is(err, ErrUnauthorized) {
			m.expire()
			return err
		}
		m.log.Warn("keepalive after continue failed", "error", err)
		return err
	}
	return nil
}

// LogoutNow performs a user-initiated logout: the same teardown the
// expiry path runs, skipping the warning machinery. It is safe to call
// concurrently with an expiring countdown; the teardown runs once.
func (m *Monitor) LogoutNow() {
	m.expire()
}

// Phase returns the current lifecycle phase.
func (m *Monitor) Phase() Phase {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.phase
}

// SecondsRemaining returns the current countdown value, or zero
// outside the warning phase.
func (m *Monitor) SecondsRemaining() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.secondsRemaining
}

// Reconcile asks the server for its classification of the session and
// folds the answer into the local state machine. A tab waking from
// background sleep calls this to catch up on time it slept through:
// the server may have swept the session while no local timer fired.
func (m *Monitor) Reconcile(ctx context.Context) error {
	if m.client == nil {
		return nil
	}
	status, err := m.client.SessionStatus(ctx)
	if err != nil {
		if errors.Is(err, ErrUnauthorized) {
			m.expire()
			return nil
		}
		return fmt.Errorf("reconcile: %w", err)
	}

	switch status.Status {
	case "expired":
		m.expire()
	case "warning":
		remaining := 0
		if status.TimeRemaining != nil {
			remaining = *status.TimeRemaining
		}
		m.enterWarningFromReconcile(remaining)
	}
	return nil
}

// armIdleTimerLocked starts the idle timer for the given generation.
// Callers must hold m.mu.
func (m *Monitor) armIdleTimerLocked(gen int) {
	if m.idleTimer != nil {
		m.idleTimer.Stop()
	}
	m.idleTimer = time.AfterFunc(m.idleWait, func() {
		m.onIdleTimeout(gen)
	})
}

// teardownTimersLocked stops the idle timer and any running countdown.
// Callers must hold m.mu.
func (m *Monitor) teardownTimersLocked() {
	if m.idleTimer != nil {
		m.idleTimer.Stop()
		m.idleTimer = nil
	}
	if m.warnStop != nil {
		close(m.warnStop)
		m.warnStop = nil
	}
}

func (m *Monitor) onIdleTimeout(gen int) {
	m.mu.Lock()
	if gen != m.gen || m.phase != PhaseIdle || !m.started {
		m.mu.Unlock()
		return
	}
	onWarning, remaining := m.enterWarningLocked(m.totalTicks())
	m.mu.Unlock()

	if onWarning != nil {
		onWarning(remaining)
	}
}

// enterWarningFromReconcile moves an idle monitor into the warning
// phase using the server's remaining-seconds figure.
func (m *Monitor) enterWarningFromReconcile(remaining int) {
	m.mu.Lock()
	if m.phase != PhaseIdle || !m.started {
		m.mu.Unlock()
		return
	}
	if remaining <= 0 || remaining > m.totalTicks() {
		remaining = m.totalTicks()
	}
	onWarning, remaining := m.enterWarningLocked(remaining)
	m.mu.Unlock()

	if onWarning != nil {
		onWarning(remaining)
	}
}

// enterWarningLocked transitions to the warning phase and spawns the
// countdown goroutine. Callers must hold m.mu and invoke the returned
// callback after releasing it.
func (m *Monitor) enterWarningLocked(remaining int) (func(int), int) {
	m.gen++
	gen := m.gen
	m.phase = PhaseWarning
	m.secondsRemaining = remaining
	if m.idleTimer != nil {
		m.idleTimer.Stop()
		m.idleTimer = nil
	}
	stop := make(chan struct{})
	m.warnStop = stop
	go m.runCountdown(gen, stop)
	return m.callbacks.OnWarning, remaining
}

// runCountdown decrements the counter once per tick until it reaches
// zero or the warning is dismissed.
func (m *Monitor) runCountdown(gen int, stop chan struct{}) {
	ticker := time.NewTicker(m.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			m.mu.Lock()
			if gen != m.gen || m.phase != PhaseWarning {
				m.mu.Unlock()
				return
			}
			m.secondsRemaining--
			remaining := m.secondsRemaining
			onTick := m.callbacks.OnTick
			m.mu.Unlock()

			if onTick != nil {
				onTick(remaining, FormatCountdown(remaining))
			}
			if remaining <= 0 {
				m.expireFromCountdown(gen)
				return
			}
		}
	}
}

// expire is the single exit into the terminal phase. The first caller
// runs the logout teardown; every later caller returns immediately, so
// a countdown hitting zero and a concurrent manual logout produce
// exactly one logout request.
func (m *Monitor) expire() {
	m.mu.Lock()
	if m.loggedOut {
		m.mu.Unlock()
		return
	}
	m.finishExpire()
}

// expireFromCountdown is the countdown's entry into expiry. Unlike a
// manual logout it yields to a Continue that won the race at zero: if
// the generation moved on or the warning was dismissed, the logout is
// cancelled.
func (m *Monitor) expireFromCountdown(gen int) {
	m.mu.Lock()
	if m.loggedOut || gen != m.gen || m.phase != PhaseWarning {
		m.mu.Unlock()
		return
	}
	m.finishExpire()
}

// finishExpire completes the transition. Called with m.mu held;
// releases it before running side effects and callbacks.
func (m *Monitor) finishExpire() {
	m.loggedOut = true
	m.phase = PhaseExpired
	m.secondsRemaining = 0
	m.gen++
	m.teardownTimersLocked()
	onExpired := m.callbacks.OnExpired
	m.mu.Unlock()

	m.performLogout()

	if onExpired != nil {
		onExpired()
	}
}

// performLogout runs the teardown side effects: best-effort server
// logout, credential wipe, then navigation. A failed server call must
// not block the wipe; the sweep will evict the record anyway.
func (m *Monitor) performLogout() {
	if m.client != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := m.client.Logout(ctx); err != nil && !errors.Is(err, ErrUnauthorized) {
			m.log.Warn("server logout failed", "error", err)
		}
		cancel()
	}

	if m.creds != nil {
		m.creds.Clear()
	}

	if m.navigate != nil {
		m.navigate()
	}
}

func (m *Monitor) totalTicks() int {
	if m.tickInterval <= 0 {
		return 0
	}
	return int(m.warningDuration / m.tickInterval)
}

// FormatCountdown renders a countdown value as M:SS for display, so 60
// renders as "1:00" and 5 as "0:05".
func FormatCountdown(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
