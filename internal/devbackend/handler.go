// Package devbackend is a small marketplace backend speaking the same REST contract
// as the real one. It backs local runs and integration tests.
package devbackend

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Guyuepp/market-front/domain"
)

type Handler struct {
	Listings domain.ListingRepository
	Comments domain.CommentRepository
}

func NewHandler(listings domain.ListingRepository, comments domain.CommentRepository) *Handler {
	return &Handler{
		Listings: listings,
		Comments: comments,
	}
}

type commentRequest struct {
	Content  string     `json:"content"`
	ParentID *domain.ID `json:"parentId"`
}

type reportRequest struct {
	Reason string `json:"reason"`
}

// NewRouter registers the backend API
func NewRouter(h *Handler) *gin.Engine {
	route := gin.Default()
	api := route.Group("/api")
	{
		api.GET("/products/list", h.FetchProducts)
		api.GET("/products/:id", h.GetProduct)
		api.POST("/products/:id/like", h.ToggleLike)
		api.POST("/products/:id/report", h.Report)
		api.GET("/products/:id/comments", h.FetchComments)
		api.POST("/products/:id/comments", h.CreateComment)
		api.PUT("/comments/:id", h.UpdateComment)
		api.DELETE("/comments/:id", h.DeleteComment)
	}
	return route
}

// viewerOf takes the bearer token as the caller's identity
func viewerOf(c *gin.Context) string {
	token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(token)
}

func ok(c *gin.Context, body gin.H) {
	if body == nil {
		body = gin.H{}
	}
	body["success"] = true
	c.JSON(http.StatusOK, body)
}

func fail(c *gin.Context, err error) {
	code := http.StatusInternalServerError
	msg := err.Error()
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		code = http.StatusUnauthorized
	case errors.Is(err, domain.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, domain.ErrBadParamInput), errors.Is(err, domain.ErrEmptyContent):
		code = http.StatusBadRequest
	default:
		logrus.Errorf("%s %s: %v", c.Request.Method, c.FullPath(), err)
		msg = domain.ErrInternalServerError.Error()
	}
	c.AbortWithStatusJSON(code, gin.H{"success": false, "message": msg})
}

func (h *Handler) FetchProducts(c *gin.Context) {
	var q domain.ProductQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		fail(c, domain.ErrBadParamInput)
		return
	}
	page, err := h.Listings.Fetch(c.Request.Context(), viewerOf(c), q)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{
		"content":       page.Content,
		"page":          page.Page,
		"size":          page.Size,
		"totalElements": page.TotalElements,
		"totalPages":    page.TotalPages,
	})
}

func (h *Handler) GetProduct(c *gin.Context) {
	p, err := h.Listings.GetByID(c.Request.Context(), viewerOf(c), domain.ID(c.Param("id")))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"product": p})
}

func (h *Handler) ToggleLike(c *gin.Context) {
	res, err := h.Listings.ToggleLike(c.Request.Context(), viewerOf(c), domain.ID(c.Param("id")))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"isLiked": res.IsLiked, "likeCount": res.LikeCount})
}

func (h *Handler) Report(c *gin.Context) {
	var req reportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, domain.ErrBadParamInput)
		return
	}
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		fail(c, domain.ErrEmptyContent)
		return
	}
	if err := h.Listings.Report(c.Request.Context(), viewerOf(c), domain.ID(c.Param("id")), reason); err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"message": "reported"})
}

func (h *Handler) FetchComments(c *gin.Context) {
	comments, err := h.Comments.FetchByProduct(c.Request.Context(), viewerOf(c), domain.ID(c.Param("id")))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"comments": comments})
}

func (h *Handler) CreateComment(c *gin.Context) {
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, domain.ErrBadParamInput)
		return
	}
	content := strings.TrimSpace(req.Content)
	if err := domain.ValidateCommentContent(content); err != nil {
		fail(c, err)
		return
	}
	id, err := h.Comments.Store(c.Request.Context(), viewerOf(c), domain.ID(c.Param("id")), content, req.ParentID)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"id": id, "message": "created"})
}

func (h *Handler) UpdateComment(c *gin.Context) {
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, domain.ErrBadParamInput)
		return
	}
	content := strings.TrimSpace(req.Content)
	if err := domain.ValidateCommentContent(content); err != nil {
		fail(c, err)
		return
	}
	if err := h.Comments.Update(c.Request.Context(), viewerOf(c), domain.ID(c.Param("id")), content); err != nil {
		fail(c, err)
		return
	}
	ok(c, nil)
}

func (h *Handler) DeleteComment(c *gin.Context) {
	if err := h.Comments.Delete(c.Request.Context(), viewerOf(c), domain.ID(c.Param("id"))); err != nil {
		fail(c, err)
		return
	}
	ok(c, nil)
}
