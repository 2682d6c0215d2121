package middleware

import (
	"github.com/gin-gonic/gin"

	"shoplane/internal/domain/session"
)

// Activity refreshes the caller's session record before the handler runs.
// It sits behind RequireAuth on every authenticated route, which is what
// makes record creation lazy: the first authenticated request after login
// is what establishes the record, not the login itself.
func Activity(registry session.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID := c.GetString(ContextKeyUserID); userID != "" {
			registry.Touch(userID, session.Metadata{
				IPAddress: c.ClientIP(),
				UserAgent: c.Request.UserAgent(),
			})
		}
		c.Next()
	}
}
