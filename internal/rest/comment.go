package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Guyuepp/market-front/domain"
	"github.com/Guyuepp/market-front/internal/rest/middleware"
	"github.com/Guyuepp/market-front/internal/rest/request"
	"github.com/Guyuepp/market-front/internal/rest/response"
)

// CommentHandler serves the comment store of the requesting viewer
type CommentHandler struct{}

func NewCommentHandler() *CommentHandler {
	return &CommentHandler{}
}

// FetchComments reloads the product's comments. A failed load still answers 200,
// with the previous list and an error message.
func (h *CommentHandler) FetchComments(c *gin.Context) {
	v := middleware.Viewer(c)
	v.Comments.FetchComments(c.Request.Context(), productID(c))
	h.writeState(c, http.StatusOK, v)
}

func (h *CommentHandler) CreateComment(c *gin.Context) {
	var req request.Comment
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	v := middleware.Viewer(c)
	if err := v.Comments.CreateComment(c.Request.Context(), productID(c), req.Content, req.ParentID); err != nil {
		abortWithError(c, err)
		return
	}
	h.writeState(c, http.StatusCreated, v)
}

func (h *CommentHandler) UpdateComment(c *gin.Context) {
	var req request.UpdateComment
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	v := middleware.Viewer(c)
	commentID := domain.ID(c.Param("commentId"))
	if err := v.Comments.UpdateComment(c.Request.Context(), commentID, req.Content, productID(c)); err != nil {
		abortWithError(c, err)
		return
	}
	h.writeState(c, http.StatusOK, v)
}

func (h *CommentHandler) DeleteComment(c *gin.Context) {
	v := middleware.Viewer(c)
	commentID := domain.ID(c.Param("commentId"))
	if err := v.Comments.DeleteComment(c.Request.Context(), commentID, productID(c)); err != nil {
		abortWithError(c, err)
		return
	}
	h.writeState(c, http.StatusOK, v)
}

func (h *CommentHandler) writeState(c *gin.Context, code int, v *domain.Viewer) {
	c.JSON(code, response.NewCommentStateFromDomain(v.Comments.State(), v.Comments.Threads()))
}
