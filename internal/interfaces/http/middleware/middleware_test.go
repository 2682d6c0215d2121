package middleware

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shoplane/internal/domain/session"
	"shoplane/internal/domain/user"
	"shoplane/internal/infrastructure/auth"
	"shoplane/internal/shared/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func discardLogger() logger.Interface {
	return logger.NewLoggerWithSlog(slog.New(slog.DiscardHandler))
}

type touchCall struct {
	userID string
	meta   session.Metadata
}

type recordingRegistry struct {
	touches []touchCall
}

func (r *recordingRegistry) Touch(userID string, meta session.Metadata) {
	r.touches = append(r.touches, touchCall{userID: userID, meta: meta})
}

func (r *recordingRegistry) Classify(userID string) session.Status {
	return session.Status{State: session.StateActive}
}

func (r *recordingRegistry) Terminate(userID string)      {}
func (r *recordingRegistry) Sweep() int                   { return 0 }
func (r *recordingRegistry) Active() []session.Snapshot   { return nil }
func (r *recordingRegistry) Len() int                     { return len(r.touches) }

func bearerFor(t *testing.T, svc *auth.JWTService, u *user.User) string {
	t.Helper()
	token, _, err := svc.Generate(u)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestRequireAuthRejectsMissingToken(t *testing.T) {
	m := NewAuthMiddleware(auth.NewJWTService("secret", 60), discardLogger())

	engine := gin.New()
	engine.GET("/protected", m.RequireAuth(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuthRejectsMalformedHeader(t *testing.T) {
	m := NewAuthMiddleware(auth.NewJWTService("secret", 60), discardLogger())

	engine := gin.New()
	engine.GET("/protected", m.RequireAuth(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Token abc123")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuthPopulatesContext(t *testing.T) {
	svc := auth.NewJWTService("secret", 60)
	m := NewAuthMiddleware(svc, discardLogger())

	var gotUserID, gotRole string
	engine := gin.New()
	engine.GET("/protected", m.RequireAuth(), func(c *gin.Context) {
		gotUserID = c.GetString(ContextKeyUserID)
		gotRole = c.GetString(ContextKeyUserRole)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", bearerFor(t, svc, &user.User{ID: "usr_1", Email: "a@b.c", Role: user.RoleAdmin}))
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "usr_1", gotUserID)
	assert.Equal(t, string(user.RoleAdmin), gotRole)
}

func TestRequireAdminForbidsCustomers(t *testing.T) {
	svc := auth.NewJWTService("secret", 60)
	m := NewAuthMiddleware(svc, discardLogger())

	engine := gin.New()
	engine.GET("/admin", m.RequireAuth(), m.RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", bearerFor(t, svc, &user.User{ID: "usr_1", Email: "a@b.c", Role: user.RoleCustomer}))
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestActivityTouchesRegistryBeforeHandler(t *testing.T) {
	registry := &recordingRegistry{}

	var touchesSeenInHandler int
	engine := gin.New()
	engine.GET("/shop", func(c *gin.Context) {
		c.Set(ContextKeyUserID, "usr_1")
	}, Activity(registry), func(c *gin.Context) {
		touchesSeenInHandler = len(registry.touches)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/shop", nil)
	req.Header.Set("User-Agent", "storefront-spa/2.1")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	require.Len(t, registry.touches, 1)
	assert.Equal(t, 1, touchesSeenInHandler, "touch must happen before the handler runs")
	assert.Equal(t, "usr_1", registry.touches[0].userID)
	assert.Equal(t, "storefront-spa/2.1", registry.touches[0].meta.UserAgent)
}

func TestActivitySkipsAnonymousRequests(t *testing.T) {
	registry := &recordingRegistry{}

	engine := gin.New()
	engine.GET("/shop", Activity(registry), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/shop", nil))

	assert.Empty(t, registry.touches)
}
