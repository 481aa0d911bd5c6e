package auth

import (
	"Camp/internal/apperr"

	"github.com/gin-gonic/gin"
)

const contextKeyUserID = "user_id"

// UserIDFromContext returns the current user ID set by RequireSession. 0 if not set.
func UserIDFromContext(c *gin.Context) int64 {
	v, ok := c.Get(contextKeyUserID)
	if !ok {
		return 0
	}
	id, ok := v.(int64)
	if !ok {
		return 0
	}
	return id
}

// RequireSession returns a middleware that resolves the session cookie and
// sets the current user ID in context. It guards read routes too. On failure
// it emits the redirect-class Unauthenticated outcome into the shared error
// pipeline rather than writing a response itself.
func RequireSession(sessions *Store, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cookieName)
		if err != nil || token == "" {
			abortUnauthenticated(c)
			return
		}
		userID, ok := sessions.Resolve(c.Request.Context(), token)
		if !ok {
			abortUnauthenticated(c)
			return
		}
		c.Set(contextKeyUserID, userID)
		c.Next()
	}
}

func abortUnauthenticated(c *gin.Context) {
	_ = c.Error(apperr.Unauthenticated("you must be signed in first"))
	c.Abort()
}
