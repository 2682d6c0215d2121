package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"shoplane/internal/application/auth/usecases"
	"shoplane/internal/shared/logger"
	"shoplane/internal/shared/utils"
)

type loginExecutor interface {
	Execute(ctx context.Context, cmd usecases.LoginCommand) (*usecases.LoginResult, error)
}

type AuthHandler struct {
	loginUseCase loginExecutor
	logger       logger.Interface
}

func NewAuthHandler(loginUC loginExecutor, log logger.Interface) *AuthHandler {
	return &AuthHandler{
		loginUseCase: loginUC,
		logger:       log,
	}
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	cmd := usecases.LoginCommand{
		Email:     req.Email,
		Password:  req.Password,
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}

	result, err := h.loginUseCase.Execute(c.Request.Context(), cmd)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "login successful", gin.H{
		"access_token": result.AccessToken,
		"expires_in":   result.ExpiresIn,
		"user": gin.H{
			"id":    result.UserID,
			"email": result.Email,
			"name":  result.Name,
			"role":  result.Role,
		},
	})
}
