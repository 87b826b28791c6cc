package rest

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Guyuepp/market-front/domain"
	"github.com/Guyuepp/market-front/internal/rest/middleware"
	"github.com/Guyuepp/market-front/internal/rest/request"
	"github.com/Guyuepp/market-front/internal/rest/response"
)

// SocketServer attaches a websocket connection to a session
type SocketServer interface {
	Serve(w http.ResponseWriter, r *http.Request, sessionID string) error
}

type SessionHandler struct {
	Registry domain.ViewerRegistry
	Socket   SocketServer
	MaxAge   int
}

func NewSessionHandler(registry domain.ViewerRegistry, socket SocketServer, maxAge int) *SessionHandler {
	return &SessionHandler{
		Registry: registry,
		Socket:   socket,
		MaxAge:   maxAge,
	}
}

// Open starts a session for the token in the body, or an anonymous one.
// A session the request already carries is logged out first.
func (h *SessionHandler) Open(c *gin.Context) {
	var req request.Session
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, err)
		return
	}

	if old := middleware.SessionID(c); old != "" {
		if err := h.Registry.Logout(c.Request.Context(), old); err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
			logrus.Warnf("failed to close previous session %s: %v", old, err)
		}
	}

	v, err := h.Registry.Open(req.Token)
	if err != nil {
		abortWithError(c, err)
		return
	}
	middleware.SetSession(c, v.SessionID, h.MaxAge)
	c.JSON(http.StatusCreated, response.Session{SessionID: v.SessionID, Authenticated: v.Authenticated})
}

// Logout clears the viewer's like state and forgets the session
func (h *SessionHandler) Logout(c *gin.Context) {
	id := middleware.SessionID(c)
	if id == "" {
		abortWithError(c, domain.ErrSessionNotFound)
		return
	}
	if err := h.Registry.Logout(c.Request.Context(), id); err != nil {
		abortWithError(c, err)
		return
	}
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", false, true)
	c.Status(http.StatusNoContent)
}

func (h *SessionHandler) Get(c *gin.Context) {
	v := middleware.Viewer(c)
	c.JSON(http.StatusOK, response.Session{SessionID: v.SessionID, Authenticated: v.Authenticated})
}

// Subscribe upgrades to a websocket that receives the session's store events
func (h *SessionHandler) Subscribe(c *gin.Context) {
	v := middleware.Viewer(c)
	if err := h.Socket.Serve(c.Writer, c.Request, v.SessionID); err != nil {
		// the upgrader already wrote the error response
		logrus.Warnf("websocket upgrade failed for session %s: %v", v.SessionID, err)
	}
}
