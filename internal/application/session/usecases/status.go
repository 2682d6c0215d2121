package usecases

import (
	"shoplane/internal/domain/session"
)

type SessionStatusResult struct {
	Status  session.State
	Message string
	// TimeRemaining is nil for expired sessions; otherwise seconds until
	// the next phase boundary (warning start for active, eviction for warning).
	TimeRemaining *int
}

type SessionStatusUseCase struct {
	registry session.Registry
}

func NewSessionStatusUseCase(registry session.Registry) *SessionStatusUseCase {
	return &SessionStatusUseCase{registry: registry}
}

func (uc *SessionStatusUseCase) Execute(userID string) *SessionStatusResult {
	status := uc.registry.Classify(userID)

	result := &SessionStatusResult{Status: status.State}
	switch status.State {
	case session.StateActive:
		result.Message = "Session is active"
	case session.StateWarning:
		result.Message = "Session will expire soon"
	case session.StateExpired:
		result.Message = "Session has expired"
		return result
	}

	remaining := status.SecondsRemaining
	result.TimeRemaining = &remaining
	return result
}
