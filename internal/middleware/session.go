package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"forumhub/internal/session"
)

const (
	UserIDKey    = "user_id"
	UsernameKey  = "username"
	SessionIDKey = "session_id"
)

// SessionMiddleware resolves the session cookie against the session store
// and annotates the request with the acting user.
type SessionMiddleware struct {
	store      session.Store
	cookieName string
}

// NewSessionMiddleware creates a new session middleware.
func NewSessionMiddleware(store session.Store, cookieName string) *SessionMiddleware {
	return &SessionMiddleware{
		store:      store,
		cookieName: cookieName,
	}
}

// RequireAuth returns a Gin middleware that rejects requests without a live
// session.
func (m *SessionMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, err := m.resolve(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "authentication required",
			})
			return
		}

		c.Set(UserIDKey, sess.UserID)
		c.Set(UsernameKey, sess.Username)
		c.Set(SessionIDKey, sess.ID)

		c.Next()
	}
}

// OptionalAuth returns a Gin middleware that annotates the actor when a live
// session is present and passes the request through either way.
func (m *SessionMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if sess, err := m.resolve(c); err == nil {
			c.Set(UserIDKey, sess.UserID)
			c.Set(UsernameKey, sess.Username)
			c.Set(SessionIDKey, sess.ID)
		}

		c.Next()
	}
}

func (m *SessionMiddleware) resolve(c *gin.Context) (*session.Session, error) {
	sessionID, err := c.Cookie(m.cookieName)
	if err != nil || sessionID == "" {
		return nil, errors.New("no session cookie")
	}
	return m.store.Get(c.Request.Context(), sessionID)
}

// GetUserID extracts the acting user's ID from Gin context.
func GetUserID(c *gin.Context) string {
	if id, exists := c.Get(UserIDKey); exists {
		return id.(string)
	}
	return ""
}

// GetUsername extracts the acting user's username from Gin context.
func GetUsername(c *gin.Context) string {
	if username, exists := c.Get(UsernameKey); exists {
		return username.(string)
	}
	return ""
}

// GetSessionID extracts the session ID from Gin context.
func GetSessionID(c *gin.Context) string {
	if id, exists := c.Get(SessionIDKey); exists {
		return id.(string)
	}
	return ""
}
