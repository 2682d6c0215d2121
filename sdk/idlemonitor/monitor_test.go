package idlemonitor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeServer struct {
	*httptest.Server

	logoutCalls    atomic.Int64
	keepaliveCalls atomic.Int64

	mu         sync.Mutex
	status     SessionStatus
	logoutCode int
}

// newFakeServer serves the session API surface the monitor talks to.
func newFakeServer(t *testing.T) *fakeServer {
	t.Helper()

	fs := &fakeServer{logoutCode: http.StatusOK}
	fs.status = SessionStatus{Status: "active", Message: "Session is active"}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /user/logout", func(w http.ResponseWriter, r *http.Request) {
		fs.logoutCalls.Add(1)
		fs.mu.Lock()
		code := fs.logoutCode
		fs.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		json.NewEncoder(w).Encode(map[string]any{"success": code == http.StatusOK})
	})
	mux.HandleFunc("GET /user/me", func(w http.ResponseWriter, r *http.Request) {
		fs.keepaliveCalls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"success": true, "data": map[string]any{"user_id": "usr_jane"}})
	})
	mux.HandleFunc("GET /user/session-status", func(w http.ResponseWriter, r *http.Request) {
		fs.mu.Lock()
		status := fs.status
		fs.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"success": true, "data": status})
	})

	fs.Server = httptest.NewServer(mux)
	t.Cleanup(fs.Close)
	return fs
}

func (fs *fakeServer) setStatus(s SessionStatus) {
	fs.mu.Lock()
	fs.status = s
	fs.mu.Unlock()
}

func (fs *fakeServer) setLogoutCode(code int) {
	fs.mu.Lock()
	fs.logoutCode = code
	fs.mu.Unlock()
}

func newTestMonitor(t *testing.T, fs *fakeServer, extra ...Option) (*Monitor, *MemoryStore) {
	t.Helper()

	store := NewMemoryStore()
	store.SetToken("test-token")
	store.SetProfile(&Profile{UserID: "usr_jane", Email: "jane@example.com"})

	opts := []Option{
		WithIdleWait(40 * time.Millisecond),
		WithWarningDuration(50 * time.Millisecond),
		WithTickInterval(10 * time.Millisecond),
		WithCredentialStore(store),
	}
	if fs != nil {
		opts = append(opts, WithClient(NewClient(fs.URL, store.Token)))
	}
	opts = append(opts, extra...)

	m := New(opts...)
	t.Cleanup(m.Stop)
	return m, store
}

func TestActivityDefersWarning(t *testing.T) {
	var warned atomic.Bool
	m, _ := newTestMonitor(t, nil,
		WithIdleWait(100*time.Millisecond),
		WithCallbacks(Callbacks{OnWarning: func(int) { warned.Store(true) }}),
	)
	m.Start()

	// Keep poking well inside the idle wait for longer than one idle
	// period; the warning must not fire while activity keeps arriving.
	for i := 0; i < 10; i++ {
		m.Activity()
		time.Sleep(20 * time.Millisecond)
	}
	assert.False(t, warned.Load())
	assert.Equal(t, PhaseIdle, m.Phase())

	require.Eventually(t, warned.Load, 2*time.Second, 5*time.Millisecond)
}

func TestWarningStartsWithFullCountdown(t *testing.T) {
	var initial atomic.Int64
	m, _ := newTestMonitor(t, nil,
		WithCallbacks(Callbacks{OnWarning: func(s int) { initial.Store(int64(s)) }}),
	)
	m.Start()

	require.Eventually(t, func() bool { return initial.Load() > 0 }, 2*time.Second, 5*time.Millisecond)
	// 50ms of warning at 10ms per tick.
	assert.Equal(t, int64(5), initial.Load())
	assert.Equal(t, PhaseWarning, m.Phase())
}

func TestCountdownDecrementsToExpiry(t *testing.T) {
	var mu sync.Mutex
	var ticks []int
	var expired atomic.Bool

	fs := newFakeServer(t)
	m, _ := newTestMonitor(t, fs,
		WithCallbacks(Callbacks{
			OnTick: func(s int, _ string) {
				mu.Lock()
				ticks = append(ticks, s)
				mu.Unlock()
			},
			OnExpired: func() { expired.Store(true) },
		}),
	)
	m.Start()

	require.Eventually(t, expired.Load, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, PhaseExpired, m.Phase())

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, ticks)
	assert.Equal(t, 0, ticks[len(ticks)-1])
	for i := 1; i < len(ticks); i++ {
		assert.Equal(t, ticks[i-1]-1, ticks[i])
	}
}

func TestActivityIgnoredDuringWarning(t *testing.T) {
	var warned, expired atomic.Bool
	fs := newFakeServer(t)
	m, _ := newTestMonitor(t, fs,
		WithCallbacks(Callbacks{
			OnWarning: func(int) { warned.Store(true) },
			OnExpired: func() { expired.Store(true) },
		}),
	)
	m.Start()

	require.Eventually(t, warned.Load, 2*time.Second, 5*time.Millisecond)

	// Ambient events must not dismiss the warning.
	deadline := time.Now().Add(500 * time.Millisecond)
	for !expired.Load() && time.Now().Before(deadline) {
		m.Activity()
		time.Sleep(2 * time.Millisecond)
	}

	assert.True(t, expired.Load())
	assert.Equal(t, PhaseExpired, m.Phase())
}

func TestContinueReturnsToIdleAndRearms(t *testing.T) {
	var warnings atomic.Int64
	var continued atomic.Bool

	fs := newFakeServer(t)
	m, _ := newTestMonitor(t, fs,
		WithCallbacks(Callbacks{
			OnWarning:  func(int) { warnings.Add(1) },
			OnContinue: func() { continued.Store(true) },
		}),
	)
	m.Start()

	require.Eventually(t, func() bool { return warnings.Load() == 1 }, 2*time.Second, 5*time.Millisecond)

	require.NoError(t, m.Continue(context.Background()))
	assert.True(t, continued.Load())
	assert.Equal(t, PhaseIdle, m.Phase())
	assert.Equal(t, 0, m.SecondsRemaining())
	assert.EqualValues(t, 1, fs.keepaliveCalls.Load())
	assert.Zero(t, fs.logoutCalls.Load())

	// The idle timer is armed again, so a second idle period brings a
	// second warning.
	require.Eventually(t, func() bool { return warnings.Load() == 2 }, 2*time.Second, 5*time.Millisecond)
}

func TestContinueAtZeroCancelsLogout(t *testing.T) {
	fs := newFakeServer(t)

	var m *Monitor
	var continued atomic.Bool
	m, _ = newTestMonitor(t, fs,
		WithCallbacks(Callbacks{
			// Dismiss at the last possible moment: the tick that hits
			// zero runs this before the expiry path, so Continue wins.
			OnTick: func(s int, _ string) {
				if s == 0 {
					m.Continue(context.Background())
					continued.Store(true)
				}
			},
		}),
	)
	m.Start()

	require.Eventually(t, continued.Load, 2*time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)

	assert.NotEqual(t, PhaseExpired, m.Phase())
	assert.Zero(t, fs.logoutCalls.Load())
}

func TestContinueOutsideWarningIsNoop(t *testing.T) {
	fs := newFakeServer(t)
	m, _ := newTestMonitor(t, fs, WithIdleWait(time.Hour))
	m.Start()

	require.NoError(t, m.Continue(context.Background()))
	assert.Equal(t, PhaseIdle, m.Phase())
	assert.Zero(t, fs.keepaliveCalls.Load())
}

func TestExpiryLogsOutExactlyOnce(t *testing.T) {
	var expired atomic.Bool
	var navigated atomic.Int64
	fs := newFakeServer(t)
	m, store := newTestMonitor(t, fs,
		WithCallbacks(Callbacks{OnExpired: func() { expired.Store(true) }}),
		WithNavigate(func() { navigated.Add(1) }),
	)
	m.Start()

	// Race manual logouts against the expiring countdown.
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			time.Sleep(60 * time.Millisecond)
			m.LogoutNow()
		}()
	}
	wg.Wait()

	require.Eventually(t, expired.Load, 2*time.Second, 5*time.Millisecond)
	assert.EqualValues(t, 1, fs.logoutCalls.Load())
	assert.EqualValues(t, 1, navigated.Load())
	assert.Empty(t, store.Token())
	assert.Nil(t, store.Profile())
}

func TestLogoutFailureStillClearsCredentials(t *testing.T) {
	fs := newFakeServer(t)
	fs.setLogoutCode(http.StatusInternalServerError)

	var navigated atomic.Bool
	m, store := newTestMonitor(t, fs, WithNavigate(func() { navigated.Store(true) }))
	m.Start()
	m.LogoutNow()

	assert.EqualValues(t, 1, fs.logoutCalls.Load())
	assert.Empty(t, store.Token())
	assert.Nil(t, store.Profile())
	assert.True(t, navigated.Load())
	assert.Equal(t, PhaseExpired, m.Phase())
}

func TestReconcileExpiredFromServer(t *testing.T) {
	fs := newFakeServer(t)
	fs.setStatus(SessionStatus{Status: "expired", Message: "Session has expired"})

	m, store := newTestMonitor(t, fs, WithIdleWait(time.Hour))
	m.Start()

	require.NoError(t, m.Reconcile(context.Background()))
	assert.Equal(t, PhaseExpired, m.Phase())
	assert.EqualValues(t, 1, fs.logoutCalls.Load())
	assert.Empty(t, store.Token())
}

func TestReconcileAdoptsServerWarning(t *testing.T) {
	remaining := 3
	fs := newFakeServer(t)
	fs.setStatus(SessionStatus{Status: "warning", Message: "Session will expire soon", TimeRemaining: &remaining})

	m, _ := newTestMonitor(t, fs, WithIdleWait(time.Hour))
	m.Start()

	require.NoError(t, m.Reconcile(context.Background()))
	assert.Equal(t, PhaseWarning, m.Phase())
	assert.Equal(t, 3, m.SecondsRemaining())
}

func TestReconcileActiveLeavesMonitorAlone(t *testing.T) {
	fs := newFakeServer(t)

	m, _ := newTestMonitor(t, fs, WithIdleWait(time.Hour))
	m.Start()

	require.NoError(t, m.Reconcile(context.Background()))
	assert.Equal(t, PhaseIdle, m.Phase())
	assert.Zero(t, fs.logoutCalls.Load())
}

func TestStopCancelsWithoutLogout(t *testing.T) {
	var warned atomic.Bool
	fs := newFakeServer(t)
	m, store := newTestMonitor(t, fs,
		WithCallbacks(Callbacks{OnWarning: func(int) { warned.Store(true) }}),
	)
	m.Start()
	m.Stop()

	time.Sleep(150 * time.Millisecond)
	assert.False(t, warned.Load())
	assert.Zero(t, fs.logoutCalls.Load())
	assert.Equal(t, "test-token", store.Token())
}

func TestFormatCountdown(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{60, "1:00"},
		{75, "1:15"},
		{59, "0:59"},
		{5, "0:05"},
		{0, "0:00"},
		{-3, "0:00"},
		{600, "10:00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatCountdown(tt.seconds))
	}
}
