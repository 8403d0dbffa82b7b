package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/seminaires/backend/internal/models"
	"github.com/seminaires/backend/pkg/response"
)

// ContextSession is the key for the current models.Session in gin context.
const ContextSession = "session"

// SessionResolver turns a session cookie into a session (implemented by *auth.Service).
type SessionResolver interface {
	CurrentSession(ctx context.Context, token string) (models.Session, bool)
}

// LoadSession resolves the session cookie, if any, and stores the session in
// context. It never rejects a request; see RequireSession.
func LoadSession(resolver SessionResolver, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cookieName)
		if err == nil && token != "" {
			if sess, ok := resolver.CurrentSession(c.Request.Context(), token); ok {
				c.Set(ContextSession, sess)
			}
		}
		c.Next()
	}
}

// RequireSession redirects callers without a session to the login page.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !SessionFrom(c).Valid() {
			response.RedirectToLogin(c)
			return
		}
		c.Next()
	}
}

// SessionFrom returns the session stored by LoadSession, or the zero session.
func SessionFrom(c *gin.Context) models.Session {
	v, ok := c.Get(ContextSession)
	if !ok {
		return models.Session{}
	}
	sess, _ := v.(models.Session)
	return sess
}
