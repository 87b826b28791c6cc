package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Guyuepp/market-front/domain"
)

const (
	SessionCookie = "market_session"
	SessionHeader = "X-Session-ID"

	viewerKey = "viewer"
)

// SessionID returns the session id the request carries, the header wins over the cookie.
func SessionID(c *gin.Context) string {
	if id := c.GetHeader(SessionHeader); id != "" {
		return id
	}
	id, _ := c.Cookie(SessionCookie)
	return id
}

// SetSession tells the caller which session to send next time.
func SetSession(c *gin.Context, sessionID string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, sessionID, maxAge, "/", "", false, true)
	c.Header(SessionHeader, sessionID)
}

// Session resolves the request's viewer. A request without a known session gets
// a new anonymous one.
func Session(registry domain.ViewerRegistry, maxAge int) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := SessionID(c)
		if id != "" {
			v, err := registry.Get(id)
			if err == nil {
				c.Set(viewerKey, v)
				c.Next()
				return
			}
			if !errors.Is(err, domain.ErrSessionNotFound) {
				logrus.Errorf("failed to get session %s: %v", id, err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": domain.ErrInternalServerError.Error()})
				return
			}
		}

		v, err := registry.Open("")
		if err != nil {
			logrus.Errorf("failed to open anonymous session: %v", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": domain.ErrInternalServerError.Error()})
			return
		}
		SetSession(c, v.SessionID, maxAge)
		c.Set(viewerKey, v)
		c.Next()
	}
}

// Viewer returns the viewer set by Session. It panics if the middleware is missing.
func Viewer(c *gin.Context) *domain.Viewer {
	return c.MustGet(viewerKey).(*domain.Viewer)
}
