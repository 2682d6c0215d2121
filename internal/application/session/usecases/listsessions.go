package usecases

import (
	"shoplane/internal/domain/session"
)

type ListSessionsResult struct {
	Total    int
	Sessions []session.Snapshot
}

type ListSessionsUseCase struct {
	registry session.Registry
}

func NewListSessionsUseCase(registry session.Registry) *ListSessionsUseCase {
	return &ListSessionsUseCase{registry: registry}
}

func (uc *ListSessionsUseCase) Execute() *ListSessionsResult {
	snapshots := uc.registry.Active()
	return &ListSessionsResult{
		Total:    len(snapshots),
		Sessions: snapshots,
	}
}
