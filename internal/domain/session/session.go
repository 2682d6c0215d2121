// Package session defines the server-side session lifecycle model: one
// record per authenticated user, refreshed on every request and classified
// as active, warning, or expired based on idle time.
package session

import "time"

// State classifies how fresh a session record is.
type State string

const (
	StateActive  State = "active"
	StateWarning State = "warning"
	StateExpired State = "expired"
)

// Metadata carries connection details captured from each authenticated request.
type Metadata struct {
	IPAddress string
	UserAgent string
}

// Record is a single user's server-side session entry.
// LoginTime is set once at creation; LastActivity only ever moves forward.
type Record struct {
	UserID       string
	LoginTime    time.Time
	LastActivity time.Time
	IPAddress    string
	UserAgent    string
}

// Status is the result of classifying a record.
// SecondsRemaining means time until the warning threshold for an active
// session, and time until eviction for a session already in warning.
type Status struct {
	State            State
	SecondsRemaining int
}

// Snapshot is a read-only copy of a record for listings.
type Snapshot struct {
	UserID       string    `json:"user_id"`
	LoginTime    time.Time `json:"login_time"`
	LastActivity time.Time `json:"last_activity"`
	IPAddress    string    `json:"ip_address,omitempty"`
	UserAgent    string    `json:"user_agent,omitempty"`
}

// Registry maintains at most one record per authenticated identity.
// Implementations must be safe for concurrent use: Touch runs on every
// authenticated request while the sweep runs on its own goroutine.
type Registry interface {
	// Touch creates the record on first sight (lazily, not at login) and
	// refreshes LastActivity on every later call. It never fails.
	Touch(userID string, meta Metadata)

	// Classify reports the record's freshness. A missing or stale record
	// classifies as expired; a stale record is evicted on the way out.
	Classify(userID string) Status

	// Terminate evicts the record. Evicting an absent record is a no-op.
	Terminate(userID string)

	// Sweep evicts every record past the total idle timeout and returns
	// the number evicted. It is the authoritative expiry mechanism and
	// must not depend on clients polling.
	Sweep() int

	// Active returns snapshots of all current records.
	Active() []Snapshot

	// Len returns the number of current records.
	Len() int
}
