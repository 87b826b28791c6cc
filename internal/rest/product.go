package rest

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Guyuepp/market-front/domain"
	"github.com/Guyuepp/market-front/internal/rest/middleware"
	"github.com/Guyuepp/market-front/internal/rest/request"
	"github.com/Guyuepp/market-front/internal/rest/response"
)

const MaxLikeIDs = 100

// ProductHandler serves listings and likes of the requesting viewer
type ProductHandler struct{}

func NewProductHandler() *ProductHandler {
	return &ProductHandler{}
}

// FetchProducts will fetch a list page and seed the viewer's like cache from it
func (h *ProductHandler) FetchProducts(c *gin.Context) {
	var q domain.ProductQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}

	v := middleware.Viewer(c)
	page, err := v.Products.FetchProducts(c.Request.Context(), q)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.NewProductPageFromDomain(page, v.Likes.Snapshot()))
}

// GetByID will load the detail page: the product and its comment threads
func (h *ProductHandler) GetByID(c *gin.Context) {
	v := middleware.Viewer(c)
	view, err := v.Products.LoadProductPage(c.Request.Context(), productID(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.NewProductDetailFromDomain(view, v.Likes.Snapshot()))
}

// ToggleLike answers with the like cache after the toggle, which is what the UI renders
func (h *ProductHandler) ToggleLike(c *gin.Context) {
	v := middleware.Viewer(c)
	id := productID(c)
	if _, err := v.Products.ToggleLike(c.Request.Context(), id); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, likeOf(v, id))
}

func (h *ProductHandler) Report(c *gin.Context) {
	var req request.Report
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	v := middleware.Viewer(c)
	if err := v.Products.ReportProduct(c.Request.Context(), productID(c), req.Reason); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// FetchLikes reads like flags and counts from the cache, ids are comma separated
func (h *ProductHandler) FetchLikes(c *gin.Context) {
	var ids []domain.ID
	for _, raw := range strings.Split(c.Query("ids"), ",") {
		if raw = strings.TrimSpace(raw); raw != "" {
			ids = append(ids, domain.ID(raw))
		}
	}
	if len(ids) > MaxLikeIDs {
		badRequest(c, fmt.Errorf("%w: at most %d ids", domain.ErrBadParamInput, MaxLikeIDs))
		return
	}

	v := middleware.Viewer(c)
	res := make([]response.Like, len(ids))
	for i, id := range ids {
		res[i] = likeOf(v, id)
	}
	c.JSON(http.StatusOK, res)
}

func likeOf(v *domain.Viewer, id domain.ID) response.Like {
	return response.Like{
		ProductID: id,
		IsLiked:   v.Likes.IsLiked(id),
		LikeCount: v.Likes.GetLikeCount(id),
	}
}
