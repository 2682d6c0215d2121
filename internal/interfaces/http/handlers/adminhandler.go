package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shoplane/internal/application/session/usecases"
	"shoplane/internal/shared/logger"
	"shoplane/internal/shared/utils"
)

type listSessionsExecutor interface {
	Execute() *usecases.ListSessionsResult
}

type AdminHandler struct {
	listSessionsUseCase listSessionsExecutor
	logger              logger.Interface
}

func NewAdminHandler(listUC listSessionsExecutor, log logger.Interface) *AdminHandler {
	return &AdminHandler{
		listSessionsUseCase: listUC,
		logger:              log,
	}
}

// ListSessions returns every live session record for the admin dashboard.
func (h *AdminHandler) ListSessions(c *gin.Context) {
	result := h.listSessionsUseCase.Execute()

	utils.SuccessResponse(c, http.StatusOK, "", gin.H{
		"total":    result.Total,
		"sessions": result.Sessions,
	})
}
