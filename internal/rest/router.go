package rest

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Guyuepp/market-front/domain"
	"github.com/Guyuepp/market-front/internal/rest/middleware"
	"github.com/Guyuepp/market-front/internal/rest/request"
)

type RouterConfig struct {
	Registry domain.ViewerRegistry
	Socket   SocketServer
	Timeout  time.Duration
	// SessionMaxAge is the session cookie lifetime in seconds
	SessionMaxAge int
}

// NewRouter registers every route of the viewer facing API
func NewRouter(cfg RouterConfig) (*gin.Engine, error) {
	if err := request.RegisterValidators(); err != nil {
		return nil, err
	}

	route := gin.Default()
	route.Use(middleware.Prometheus())
	route.Use(middleware.CORS())
	route.Use(middleware.SetRequestContextWithTimeout(cfg.Timeout))

	sessionHandler := NewSessionHandler(cfg.Registry, cfg.Socket, cfg.SessionMaxAge)
	productHandler := NewProductHandler()
	commentHandler := NewCommentHandler()

	route.GET("/metrics", gin.WrapH(promhttp.Handler()))
	route.POST("/session", sessionHandler.Open)
	route.DELETE("/session", sessionHandler.Logout)

	viewer := route.Group("/")
	viewer.Use(middleware.Session(cfg.Registry, cfg.SessionMaxAge))
	{
		viewer.GET("/session", sessionHandler.Get)
		viewer.GET("/ws", sessionHandler.Subscribe)

		viewer.GET("/products", productHandler.FetchProducts)
		viewer.GET("/products/:id", productHandler.GetByID)
		viewer.POST("/products/:id/like", productHandler.ToggleLike)
		viewer.POST("/products/:id/report", productHandler.Report)
		viewer.GET("/likes", productHandler.FetchLikes)

		viewer.GET("/products/:id/comments", commentHandler.FetchComments)
		viewer.POST("/products/:id/comments", commentHandler.CreateComment)
		viewer.PUT("/products/:id/comments/:commentId", commentHandler.UpdateComment)
		viewer.DELETE("/products/:id/comments/:commentId", commentHandler.DeleteComment)
	}
	return route, nil
}
