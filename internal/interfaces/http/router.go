// Package http wires the gin engine: middleware chain, handlers, and routes.
package http

import (
	"github.com/gin-gonic/gin"

	authUsecases "shoplane/internal/application/auth/usecases"
	sessionUsecases "shoplane/internal/application/session/usecases"
	"shoplane/internal/domain/session"
	"shoplane/internal/domain/storefront"
	"shoplane/internal/domain/user"
	"shoplane/internal/infrastructure/auth"
	"shoplane/internal/infrastructure/config"
	"shoplane/internal/interfaces/http/handlers"
	"shoplane/internal/interfaces/http/middleware"
	"shoplane/internal/shared/logger"
)

// Router holds the gin engine and its handler dependencies.
type Router struct {
	engine            *gin.Engine
	cfg               *config.Config
	authHandler       *handlers.AuthHandler
	sessionHandler    *handlers.SessionHandler
	adminHandler      *handlers.AdminHandler
	storefrontHandler *handlers.StorefrontHandler
	authMiddleware    *middleware.AuthMiddleware
	registry          session.Registry
	logger            logger.Interface
}

// NewRouter creates the HTTP router with all dependencies wired.
func NewRouter(
	cfg *config.Config,
	registry session.Registry,
	userRepo user.Repository,
	hasher *auth.BcryptPasswordHasher,
	jwtService *auth.JWTService,
	log logger.Interface,
) *Router {
	engine := gin.New()

	loginUC := authUsecases.NewLoginUseCase(userRepo, hasher, jwtService, log.Named("login"))
	statusUC := sessionUsecases.NewSessionStatusUseCase(registry)
	logoutUC := sessionUsecases.NewLogoutUseCase(registry, log.Named("logout"))
	listSessionsUC := sessionUsecases.NewListSessionsUseCase(registry)

	return &Router{
		engine:            engine,
		cfg:               cfg,
		authHandler:       handlers.NewAuthHandler(loginUC, log),
		sessionHandler:    handlers.NewSessionHandler(statusUC, logoutUC, log),
		adminHandler:      handlers.NewAdminHandler(listSessionsUC, log),
		storefrontHandler: handlers.NewStorefrontHandler(storefront.NewMemoryKV(), log),
		authMiddleware:    middleware.NewAuthMiddleware(jwtService, log),
		registry:          registry,
		logger:            log,
	}
}

// SetupRoutes registers the middleware chain and all routes.
func (r *Router) SetupRoutes() {
	r.engine.Use(middleware.Recovery(r.logger))
	r.engine.Use(middleware.CORS(r.cfg.Server.AllowedOrigins))
	r.engine.Use(middleware.RequestID())
	r.engine.Use(middleware.RequestLogger(r.logger))

	r.engine.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.engine.Group("/api")

	api.POST("/auth/login", r.authHandler.Login)

	// The lifecycle endpoints must not refresh the record they inspect:
	// a status poll that counted as activity would keep an abandoned tab
	// alive forever and the warning state could never be observed.
	lifecycle := api.Group("", r.authMiddleware.RequireAuth())
	{
		lifecycle.GET("/user/session-status", r.sessionHandler.Status)
		lifecycle.POST("/user/logout", r.sessionHandler.Logout)
	}

	// Every other authenticated route refreshes the caller's session
	// record via the activity middleware; that refresh is what keeps a
	// busy user out of the warning window.
	authed := api.Group("", r.authMiddleware.RequireAuth(), middleware.Activity(r.registry))
	{
		authed.GET("/user/me", r.sessionHandler.Me)
		authed.GET("/user/cart", r.storefrontHandler.GetCart)
		authed.PUT("/user/cart", r.storefrontHandler.SaveCart)
	}

	admin := api.Group("/admin", r.authMiddleware.RequireAuth(), middleware.Activity(r.registry), r.authMiddleware.RequireAdmin())
	{
		admin.GET("/sessions", r.adminHandler.ListSessions)
	}
}

// GetEngine returns the underlying gin engine.
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
