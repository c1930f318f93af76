package auth

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// HeaderSessionKey is the request header carrying the session token.
const HeaderSessionKey = "Session-Key"

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

// RequireSession returns a middleware that resolves the Session-Key header
// to a user ID and sets it in context. Missing header, unknown token and
// expired session all respond 401 with the same body.
func RequireSession(sessions *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(HeaderSessionKey)
		if key == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			return
		}
		userID, err := sessions.GetUserID(c.Request.Context(), key)
		if err != nil {
			if errors.Is(err, ErrNoSession) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
				return
			}
			log.Printf("session lookup: %v", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		c.Set(contextKeyUserID, userID)
		c.Next()
	}
}
