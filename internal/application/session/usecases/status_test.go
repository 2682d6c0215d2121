package usecases

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shoplane/internal/domain/session"
	"shoplane/internal/shared/logger"
)

type stubRegistry struct {
	status     session.Status
	snapshots  []session.Snapshot
	terminated []string
}

func (r *stubRegistry) Touch(userID string, meta session.Metadata) {}

func (r *stubRegistry) Classify(userID string) session.Status {
	return r.status
}

func (r *stubRegistry) Terminate(userID string) {
	r.terminated = append(r.terminated, userID)
}

func (r *stubRegistry) Sweep() int { return 0 }

func (r *stubRegistry) Active() []session.Snapshot { return r.snapshots }

func (r *stubRegistry) Len() int { return len(r.snapshots) }

func TestSessionStatusActive(t *testing.T) {
	uc := NewSessionStatusUseCase(&stubRegistry{
		status: session.Status{State: session.StateActive, SecondsRemaining: 842},
	})

	result := uc.Execute("user-1")

	assert.Equal(t, session.StateActive, result.Status)
	assert.Equal(t, "Session is active", result.Message)
	require.NotNil(t, result.TimeRemaining)
	assert.Equal(t, 842, *result.TimeRemaining)
}

func TestSessionStatusWarning(t *testing.T) {
	uc := NewSessionStatusUseCase(&stubRegistry{
		status: session.Status{State: session.StateWarning, SecondsRemaining: 37},
	})

	result := uc.Execute("user-1")

	assert.Equal(t, session.StateWarning, result.Status)
	assert.Equal(t, "Session will expire soon", result.Message)
	require.NotNil(t, result.TimeRemaining)
	assert.Equal(t, 37, *result.TimeRemaining)
}

func TestSessionStatusExpiredOmitsTimeRemaining(t *testing.T) {
	uc := NewSessionStatusUseCase(&stubRegistry{
		status: session.Status{State: session.StateExpired},
	})

	result := uc.Execute("user-1")

	assert.Equal(t, session.StateExpired, result.Status)
	assert.Equal(t, "Session has expired", result.Message)
	assert.Nil(t, result.TimeRemaining)
}

func TestLogoutTerminatesRegistryRecord(t *testing.T) {
	reg := &stubRegistry{}
	uc := NewLogoutUseCase(reg, logger.NewLoggerWithSlog(slog.New(slog.DiscardHandler)))

	uc.Execute(LogoutCommand{UserID: "user-1"})
	uc.Execute(LogoutCommand{UserID: "user-1"})

	assert.Equal(t, []string{"user-1", "user-1"}, reg.terminated)
}

func TestListSessions(t *testing.T) {
	reg := &stubRegistry{
		snapshots: []session.Snapshot{{UserID: "alice"}, {UserID: "bob"}},
	}
	uc := NewListSessionsUseCase(reg)

	result := uc.Execute()

	assert.Equal(t, 2, result.Total)
	require.Len(t, result.Sessions, 2)
	assert.Equal(t, "alice", result.Sessions[0].UserID)
}
