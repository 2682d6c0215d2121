package usecases

import (
	"shoplane/internal/domain/session"
	"shoplane/internal/shared/logger"
)

type LogoutCommand struct {
	UserID string
}

type LogoutUseCase struct {
	registry session.Registry
	logger   logger.Interface
}

func NewLogoutUseCase(registry session.Registry, log logger.Interface) *LogoutUseCase {
	return &LogoutUseCase{
		registry: registry,
		logger:   log,
	}
}

// Execute evicts the caller's session record. Eviction of an absent
// record is a no-op, so repeated logout calls are harmless.
func (uc *LogoutUseCase) Execute(cmd LogoutCommand) {
	uc.registry.Terminate(cmd.UserID)
	uc.logger.Infow("user logged out", "user_id", cmd.UserID)
}
