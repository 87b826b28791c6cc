package rest_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Guyuepp/market-front/internal/client"
	"github.com/Guyuepp/market-front/internal/rest"
	"github.com/Guyuepp/market-front/internal/rest/middleware"
	"github.com/Guyuepp/market-front/internal/session"
)

// backend is a tiny in-memory marketplace. "alice" owns comment 1.
type backend struct {
	mu       sync.Mutex
	comments []gin.H
	liked    bool
	writes   atomic.Int32
}

func (b *backend) routes(r *gin.Engine) {
	auth := func(ctx *gin.Context) bool {
		if ctx.GetHeader("Authorization") != "Bearer alice" {
			ctx.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "login required"})
			return false
		}
		return true
	}

	r.GET("/api/products/list", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{
			"success": true,
			"content": []gin.H{
				{"id": 5, "title": "road bike", "price": "120.50", "isLiked": false, "likeCount": 2},
				{"id": 6, "title": "bike lock", "price": 9.99, "isLiked": false, "likeCount": 0},
			},
			"page": 0, "size": 20, "totalElements": 2, "totalPages": 1,
		})
	})
	r.GET("/api/products/:id", func(ctx *gin.Context) {
		if ctx.Param("id") != "5" {
			ctx.JSON(http.StatusNotFound, gin.H{"success": false, "message": "no such product"})
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"success": true, "product": gin.H{"id": 5, "title": "road bike", "price": "120.50", "likeCount": 2}})
	})
	r.POST("/api/products/:id/like", func(ctx *gin.Context) {
		if !auth(ctx) {
			return
		}
		b.mu.Lock()
		b.liked = !b.liked
		liked := b.liked
		b.mu.Unlock()
		count := 2
		if liked {
			count = 3
		}
		ctx.JSON(http.StatusOK, gin.H{"success": true, "isLiked": liked, "likeCount": count})
	})
	r.POST("/api/products/:id/report", func(ctx *gin.Context) {
		b.writes.Add(1)
		ctx.JSON(http.StatusOK, gin.H{"success": true})
	})
	r.GET("/api/products/:id/comments", func(ctx *gin.Context) {
		b.mu.Lock()
		defer b.mu.Unlock()
		ctx.JSON(http.StatusOK, gin.H{"success": true, "comments": b.comments})
	})
	r.POST("/api/products/:id/comments", func(ctx *gin.Context) {
		b.writes.Add(1)
		if !auth(ctx) {
			return
		}
		var body struct {
			Content  string  `json:"content"`
			ParentID *string `json:"parentId"`
		}
		_ = ctx.ShouldBindJSON(&body)
		b.mu.Lock()
		b.comments = append(b.comments, gin.H{
			"id": len(b.comments) + 1, "productId": 5, "parentId": body.ParentID,
			"content": body.Content, "authorDisplayName": "alice", "isOwnedByViewer": true,
		})
		b.mu.Unlock()
		ctx.JSON(http.StatusOK, gin.H{"success": true})
	})
	r.PUT("/api/comments/:id", func(ctx *gin.Context) {
		b.writes.Add(1)
		if !auth(ctx) {
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"success": true})
	})
	r.DELETE("/api/comments/:id", func(ctx *gin.Context) {
		b.writes.Add(1)
		ctx.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "not your comment"})
	})
}

type harness struct {
	t       *testing.T
	router  http.Handler
	backend *backend
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	b := &backend{comments: []gin.H{
		{"id": 1, "productId": 5, "parentId": nil, "content": "still available?", "authorDisplayName": "bob"},
	}}
	engine := gin.New()
	b.routes(engine)
	srv := httptest.NewServer(engine)
	t.Cleanup(srv.Close)

	c, err := client.New(srv.URL)
	require.NoError(t, err)

	router, err := rest.NewRouter(rest.RouterConfig{
		Registry:      session.NewManager(session.Config{Client: c}),
		SessionMaxAge: 3600,
	})
	require.NoError(t, err)
	return &harness{t: t, router: router, backend: b}
}

func (h *harness) do(method, path, sessionID, body string) *httptest.ResponseRecorder {
	h.t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if sessionID != "" {
		req.Header.Set(middleware.SessionHeader, sessionID)
	}
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

func (h *harness) login(token string) string {
	h.t.Helper()
	w := h.do(http.MethodPost, "/session", "", `{"token":"`+token+`"}`)
	require.Equal(h.t, http.StatusCreated, w.Code)
	var res struct {
		SessionID     string `json:"sessionId"`
		Authenticated bool   `json:"authenticated"`
	}
	require.NoError(h.t, json.Unmarshal(w.Body.Bytes(), &res))
	require.NotEmpty(h.t, res.SessionID)
	assert.Equal(h.t, token != "", res.Authenticated)
	return res.SessionID
}

func TestAnonymousSessionIsCreated(t *testing.T) {
	h := newHarness(t)

	w := h.do(http.MethodGet, "/products", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	id := w.Header().Get(middleware.SessionHeader)
	assert.NotEmpty(t, id)
	assert.Contains(t, w.Header().Get("Set-Cookie"), middleware.SessionCookie+"="+id)

	// the same session is reused
	w = h.do(http.MethodGet, "/session", id, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"sessionId":"`+id+`","authenticated":false}`, w.Body.String())
}

func TestProductsAndLikes(t *testing.T) {
	h := newHarness(t)
	sid := h.login("alice")

	w := h.do(http.MethodGet, "/products?page=0&keyword=bike", sid, "")
	require.Equal(t, http.StatusOK, w.Code)
	var page struct {
		Content []struct {
			ID        string `json:"id"`
			IsLiked   bool   `json:"isLiked"`
			LikeCount int64  `json:"likeCount"`
		} `json:"content"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	require.Len(t, page.Content, 2)
	assert.Equal(t, "5", page.Content[0].ID)

	w = h.do(http.MethodPost, "/products/5/like", sid, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"productId":"5","isLiked":true,"likeCount":3}`, w.Body.String())

	w = h.do(http.MethodGet, "/likes?ids=5,6,,7", sid, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[
		{"productId":"5","isLiked":true,"likeCount":3},
		{"productId":"6","isLiked":false,"likeCount":0},
		{"productId":"7","isLiked":false,"likeCount":0}
	]`, w.Body.String())

	w = h.do(http.MethodGet, "/products?page=abc", sid, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLikeRequiresLogin(t *testing.T) {
	h := newHarness(t)
	sid := h.login("")

	w := h.do(http.MethodPost, "/products/5/like", sid, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"message":"login required"}`, w.Body.String())
}

func TestProductDetail(t *testing.T) {
	h := newHarness(t)
	sid := h.login("")

	w := h.do(http.MethodGet, "/products/5", sid, "")
	require.Equal(t, http.StatusOK, w.Code)
	var detail struct {
		Product struct {
			ID string `json:"id"`
		} `json:"product"`
		Comments struct {
			Threads []struct {
				ID      string `json:"id"`
				Replies []any  `json:"replies"`
			} `json:"threads"`
		} `json:"comments"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &detail))
	assert.Equal(t, "5", detail.Product.ID)
	require.Len(t, detail.Comments.Threads, 1)
	assert.NotNil(t, detail.Comments.Threads[0].Replies)

	w = h.do(http.MethodGet, "/products/404", sid, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"message":"no such product"}`, w.Body.String())
}

func TestComments(t *testing.T) {
	h := newHarness(t)
	sid := h.login("alice")

	t.Run("blank content is rejected locally", func(t *testing.T) {
		w := h.do(http.MethodPost, "/products/5/comments", sid, `{"content":"   "}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		w = h.do(http.MethodPut, "/products/5/comments/1", sid, `{"content":""}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Zero(t, h.backend.writes.Load())
	})

	t.Run("reply is visible after create", func(t *testing.T) {
		w := h.do(http.MethodPost, "/products/5/comments", sid, `{"content":"yes it is","parentId":"1"}`)
		require.Equal(t, http.StatusCreated, w.Code)

		var state struct {
			ProductID string `json:"productId"`
			Threads   []struct {
				ID      string `json:"id"`
				Replies []struct {
					Content string `json:"content"`
				} `json:"replies"`
			} `json:"threads"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
		assert.Equal(t, "5", state.ProductID)
		require.Len(t, state.Threads, 1)
		require.Len(t, state.Threads[0].Replies, 1)
		assert.Equal(t, "yes it is", state.Threads[0].Replies[0].Content)
	})

	t.Run("update", func(t *testing.T) {
		w := h.do(http.MethodPut, "/products/5/comments/2", sid, `{"content":"edited"}`)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("delete of someone else's comment", func(t *testing.T) {
		w := h.do(http.MethodDelete, "/products/5/comments/1", sid, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.JSONEq(t, `{"message":"not your comment"}`, w.Body.String())
	})

	t.Run("anonymous create needs login", func(t *testing.T) {
		anon := h.login("")
		w := h.do(http.MethodPost, "/products/5/comments", anon, `{"content":"hi"}`)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestReport(t *testing.T) {
	h := newHarness(t)
	sid := h.login("alice")

	w := h.do(http.MethodPost, "/products/5/report", sid, `{"reason":" "}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, h.backend.writes.Load())

	w = h.do(http.MethodPost, "/products/5/report", sid, `{"reason":"counterfeit"}`)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestLogout(t *testing.T) {
	h := newHarness(t)
	sid := h.login("alice")

	w := h.do(http.MethodPost, "/products/5/like", sid, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = h.do(http.MethodDelete, "/session", sid, "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = h.do(http.MethodDelete, "/session", sid, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	// the old id is unknown now, a fresh anonymous session with an empty like cache is opened
	w = h.do(http.MethodGet, "/likes?ids=5", sid, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEqual(t, sid, w.Header().Get(middleware.SessionHeader))
	assert.JSONEq(t, `[{"productId":"5","isLiked":false,"likeCount":0}]`, w.Body.String())
}
