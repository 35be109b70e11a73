package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"stocks-simulator/session"
)

const userIDKey = "user_id"

// RequireLogin resolves the session cookie and stores the user id on the
// context. Requests without a live session are redirected to /login before
// any handler runs.
func RequireLogin(sessions *session.Manager, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := sessions.Resolve(c)
		if err != nil {
			if !errors.Is(err, session.ErrNotFound) {
				logger.Warn("resolve session", zap.Error(err))
			}
			c.Redirect(http.StatusSeeOther, "/login")
			c.Abort()
			return
		}
		c.Set(userIDKey, userID)
		c.Next()
	}
}

// UserID returns the id stored by RequireLogin, or false outside a guarded
// route.
func UserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(userIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}
