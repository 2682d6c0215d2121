// Package registry implements the in-memory session registry. Records
// live in a mutex-guarded map; eviction is TTL-based via Sweep rather
// than LRU, since correctness (not memory pressure) drives cleanup.
package registry

import (
	"sort"
	"sync"
	"time"

	"shoplane/internal/domain/session"
	"shoplane/internal/shared/logger"
)

// MemoryRegistry holds one session.Record per user. All operations are
// pure map work; no I/O happens under the lock.
type MemoryRegistry struct {
	mu      sync.RWMutex
	records map[string]*session.Record

	idleWait        time.Duration
	warningDuration time.Duration

	// now is replaceable in tests; production uses UTC wall-clock time.
	now func() time.Time

	logger logger.Interface
}

func NewMemoryRegistry(idleWait, warningDuration time.Duration, log logger.Interface) *MemoryRegistry {
	return &MemoryRegistry{
		records:         make(map[string]*session.Record),
		idleWait:        idleWait,
		warningDuration: warningDuration,
		now:             func() time.Time { return time.Now().UTC() },
		logger:          log,
	}
}

// idleTimeoutTotal is the full idle budget: idle wait plus warning countdown.
func (r *MemoryRegistry) idleTimeoutTotal() time.Duration {
	return r.idleWait + r.warningDuration
}

// Touch creates or refreshes the record for userID. Creation is lazy:
// the first authenticated request after login establishes the record
// with LoginTime == LastActivity.
func (r *MemoryRegistry) Touch(userID string, meta session.Metadata) {
	if userID == "" {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	rec, ok := r.records[userID]
	if !ok {
		r.records[userID] = &session.Record{
			UserID:       userID,
			LoginTime:    now,
			LastActivity: now,
			IPAddress:    meta.IPAddress,
			UserAgent:    meta.UserAgent,
		}
		r.logger.Debugw("session record created", "user_id", userID, "ip", meta.IPAddress)
		return
	}

	// LastActivity must never move backwards, even if the wall clock does.
	if now.After(rec.LastActivity) {
		rec.LastActivity = now
	}
	if meta.IPAddress != "" {
		rec.IPAddress = meta.IPAddress
	}
	if meta.UserAgent != "" {
		rec.UserAgent = meta.UserAgent
	}
}

// Classify reports the freshness of userID's record, measured from its
// last touch. A record at or past the total idle timeout is evicted and
// reported expired; one at or past the idle wait is in warning with the
// seconds left until eviction; anything fresher is active with the
// seconds left until the warning threshold.
func (r *MemoryRegistry) Classify(userID string) session.Status {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[userID]
	if !ok {
		return session.Status{State: session.StateExpired}
	}

	elapsed := r.now().Sub(rec.LastActivity)
	total := r.idleTimeoutTotal()

	switch {
	case elapsed >= total:
		delete(r.records, userID)
		r.logger.Debugw("stale session evicted on classify", "user_id", userID, "idle", elapsed)
		return session.Status{State: session.StateExpired}
	case elapsed >= r.idleWait:
		return session.Status{
			State:            session.StateWarning,
			SecondsRemaining: ceilSeconds(total - elapsed),
		}
	default:
		return session.Status{
			State:            session.StateActive,
			SecondsRemaining: ceilSeconds(r.idleWait - elapsed),
		}
	}
}

// Terminate evicts the record for userID. Absent records are a no-op,
// which makes logout idempotent.
func (r *MemoryRegistry) Terminate(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.records[userID]; ok {
		delete(r.records, userID)
		r.logger.Debugw("session terminated", "user_id", userID)
	}
}

// Sweep evicts every record past the total idle timeout and returns the
// eviction count. Work is O(records) and never raises.
func (r *MemoryRegistry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	total := r.idleTimeoutTotal()

	evicted := 0
	for userID, rec := range r.records {
		if now.Sub(rec.LastActivity) >= total {
			delete(r.records, userID)
			evicted++
		}
	}
	return evicted
}

// Active returns snapshots of all current records, sorted by user ID for
// stable listings.
func (r *MemoryRegistry) Active() []session.Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snapshots := make([]session.Snapshot, 0, len(r.records))
	for _, rec := range r.records {
		snapshots = append(snapshots, session.Snapshot{
			UserID:       rec.UserID,
			LoginTime:    rec.LoginTime,
			LastActivity: rec.LastActivity,
			IPAddress:    rec.IPAddress,
			UserAgent:    rec.UserAgent,
		})
	}
	sort.Slice(snapshots, func(i, j int) bool {
		return snapshots[i].UserID < snapshots[j].UserID
	})
	return snapshots
}

func (r *MemoryRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}

// ceilSeconds rounds a duration up to whole seconds, so a remainder of
// any fraction still reports at least one second left.
func ceilSeconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int((d + time.Second - 1) / time.Second)
}
