package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shoplane/internal/application/session/usecases"
	"shoplane/internal/interfaces/http/middleware"
	"shoplane/internal/shared/logger"
	"shoplane/internal/shared/utils"
)

type statusExecutor interface {
	Execute(userID string) *usecases.SessionStatusResult
}

type logoutExecutor interface {
	Execute(cmd usecases.LogoutCommand)
}

// SessionHandler serves the session lifecycle endpoints the storefront's
// idle monitor talks to.
type SessionHandler struct {
	statusUseCase statusExecutor
	logoutUseCase logoutExecutor
	logger        logger.Interface
}

func NewSessionHandler(statusUC statusExecutor, logoutUC logoutExecutor, log logger.Interface) *SessionHandler {
	return &SessionHandler{
		statusUseCase: statusUC,
		logoutUseCase: logoutUC,
		logger:        log,
	}
}

// SessionStatusResponse is the payload the idle monitor reconciles against.
type SessionStatusResponse struct {
	Status        string `json:"status"`
	Message       string `json:"message"`
	TimeRemaining *int   `json:"timeRemaining,omitempty"`
}

// Status reports whether the caller's session is active, in its warning
// window, or expired. Always 200; an expired session is a normal answer
// here, not an auth failure.
func (h *SessionHandler) Status(c *gin.Context) {
	userID := c.GetString(middleware.ContextKeyUserID)

	result := h.statusUseCase.Execute(userID)

	utils.SuccessResponse(c, http.StatusOK, "", SessionStatusResponse{
		Status:        string(result.Status),
		Message:       result.Message,
		TimeRemaining: result.TimeRemaining,
	})
}

// Logout evicts the caller's session record. The endpoint is idempotent
// and best-effort from the client's perspective: the browser clears its
// local state whether or not this call succeeds.
func (h *SessionHandler) Logout(c *gin.Context) {
	userID := c.GetString(middleware.ContextKeyUserID)

	h.logoutUseCase.Execute(usecases.LogoutCommand{UserID: userID})

	utils.SuccessResponse(c, http.StatusOK, "logged out successfully", nil)
}

// Me echoes the authenticated caller's identity. The storefront uses it
// to rehydrate the profile after a reload; it also exercises the
// activity-touch path like any other authenticated route.
func (h *SessionHandler) Me(c *gin.Context) {
	utils.SuccessResponse(c, http.StatusOK, "", gin.H{
		"user_id": c.GetString(middleware.ContextKeyUserID),
		"role":    c.GetString(middleware.ContextKeyUserRole),
	})
}
