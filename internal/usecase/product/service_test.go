package product_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Guyuepp/market-front/domain"
	"github.com/Guyuepp/market-front/domain/mocks"
	"github.com/Guyuepp/market-front/internal/usecase/comment"
	"github.com/Guyuepp/market-front/internal/usecase/like"
	"github.com/Guyuepp/market-front/internal/usecase/product"
)

var page = domain.ProductPage{
	Content: []domain.Product{
		{ID: "5", Title: "road bike", IsLiked: true, LikeCount: 3},
		{ID: "6", Title: "bike lock", IsLiked: false, LikeCount: 0},
	},
	Size: 20, TotalElements: 2, TotalPages: 1,
}

type fixture struct {
	api      *mocks.ProductAPI
	likeAPI  *mocks.LikeAPI
	comments *mocks.CommentAPI
	cache    *mocks.ProductCache
	likes    *like.Store
	tree     *comment.Store
}

func newFixture(withCache bool) (*fixture, *product.Service) {
	f := &fixture{
		api:      new(mocks.ProductAPI),
		likeAPI:  new(mocks.LikeAPI),
		comments: new(mocks.CommentAPI),
		cache:    new(mocks.ProductCache),
	}
	f.likes = like.NewStore(f.likeAPI)
	f.tree = comment.NewStore(f.comments)

	var cache domain.ProductCache
	if withCache {
		cache = f.cache
	}
	return f, product.NewService(f.api, f.tree, f.likes, cache, "sess-1", time.Minute)
}

func TestFetchProducts(t *testing.T) {
	q := domain.ProductQuery{Keyword: "bike"}.Normalize()

	t.Run("without cache seeds likes", func(t *testing.T) {
		f, svc := newFixture(false)
		f.api.On("FetchProducts", mock.Anything, q).Return(page, nil).Once()

		got, err := svc.FetchProducts(context.TODO(), domain.ProductQuery{Keyword: "bike"})
		require.NoError(t, err)
		assert.Equal(t, page, got)
		assert.True(t, f.likes.IsLiked("5"))
		assert.Equal(t, int64(3), f.likes.GetLikeCount("5"))
		assert.False(t, f.likes.IsLiked("6"))
		f.api.AssertExpectations(t)
	})

	t.Run("cache miss loads and stores", func(t *testing.T) {
		f, svc := newFixture(true)
		f.cache.On("GetPage", mock.Anything, "sess-1", q).Return(domain.CachedPage{}, domain.ErrCacheMiss).Once()
		f.api.On("FetchProducts", mock.Anything, q).Return(page, nil).Once()
		f.cache.On("SetPage", mock.Anything, "sess-1", q, page, uint64(0), time.Minute).Return(nil).Once()

		_, err := svc.FetchProducts(context.TODO(), q)
		require.NoError(t, err)
		assert.True(t, f.likes.IsLiked("5"))
		f.cache.AssertExpectations(t)
	})

	t.Run("fresh hit skips backend", func(t *testing.T) {
		f, svc := newFixture(true)
		f.cache.On("GetPage", mock.Anything, "sess-1", q).Return(domain.CachedPage{Page: page}, nil).Once()

		_, err := svc.FetchProducts(context.TODO(), q)
		require.NoError(t, err)
		assert.True(t, f.likes.IsLiked("5"))
		f.api.AssertNotCalled(t, "FetchProducts", mock.Anything, mock.Anything)
	})

	t.Run("expired hit is served and rebuilt in background", func(t *testing.T) {
		f, svc := newFixture(true)
		f.cache.On("GetPage", mock.Anything, "sess-1", q).Return(domain.CachedPage{Page: page, Expired: true}, nil).Once()
		f.api.On("FetchProducts", mock.Anything, q).Return(page, nil).Once()
		rebuilt := make(chan struct{})
		f.cache.On("SetPage", mock.Anything, "sess-1", q, page, uint64(0), time.Minute).Return(nil).Once().
			Run(func(mock.Arguments) { close(rebuilt) })

		got, err := svc.FetchProducts(context.TODO(), q)
		require.NoError(t, err)
		assert.Equal(t, page, got)
		assert.Eventually(t, func() bool {
			select {
			case <-rebuilt:
				return true
			default:
				return false
			}
		}, time.Second, 10*time.Millisecond)
	})

	t.Run("cache error falls back to backend", func(t *testing.T) {
		f, svc := newFixture(true)
		f.cache.On("GetPage", mock.Anything, "sess-1", q).Return(domain.CachedPage{}, errors.New("redis down")).Once()
		f.api.On("FetchProducts", mock.Anything, q).Return(page, nil).Once()
		f.cache.On("SetPage", mock.Anything, "sess-1", q, page, uint64(0), time.Minute).Return(errors.New("redis down")).Once()

		got, err := svc.FetchProducts(context.TODO(), q)
		require.NoError(t, err)
		assert.Equal(t, page, got)
	})

	t.Run("backend failure keeps like cache", func(t *testing.T) {
		f, svc := newFixture(false)
		f.likes.InitializeLikes([]domain.LikeSeed{{ProductID: "9", IsLiked: true, LikeCount: 1}})
		f.api.On("FetchProducts", mock.Anything, q).Return(domain.ProductPage{}, &domain.APIError{StatusCode: http.StatusBadGateway}).Once()

		_, err := svc.FetchProducts(context.TODO(), q)
		assert.ErrorIs(t, err, domain.ErrRequestFailed)
		assert.True(t, f.likes.IsLiked("9"))
	})
}

func TestLoadProductPage(t *testing.T) {
	comments := []domain.Comment{
		{ID: "1", ProductID: "5", Content: "price negotiable?"},
	}

	t.Run("product and comments", func(t *testing.T) {
		f, svc := newFixture(false)
		f.likes.InitializeLikes([]domain.LikeSeed{{ProductID: "6", IsLiked: true, LikeCount: 2}})
		f.api.On("FetchProduct", mock.Anything, domain.ID("5")).Return(page.Content[0], nil).Once()
		f.comments.On("FetchComments", mock.Anything, domain.ID("5")).Return(comments, nil).Once()

		view, err := svc.LoadProductPage(context.TODO(), "5")
		require.NoError(t, err)
		assert.Equal(t, domain.ID("5"), view.Product.ID)
		require.Len(t, view.Threads, 1)
		assert.Equal(t, domain.ID("1"), view.Threads[0].ID)
		assert.Equal(t, comments, view.Comments.Comments)

		// merged, the list entries survive
		assert.True(t, f.likes.IsLiked("5"))
		assert.Equal(t, int64(3), f.likes.GetLikeCount("5"))
		assert.True(t, f.likes.IsLiked("6"))
	})

	t.Run("comment failure does not fail the page", func(t *testing.T) {
		f, svc := newFixture(false)
		f.api.On("FetchProduct", mock.Anything, domain.ID("5")).Return(page.Content[0], nil).Once()
		f.comments.On("FetchComments", mock.Anything, domain.ID("5")).Return(nil, errors.New("timeout")).Once()

		view, err := svc.LoadProductPage(context.TODO(), "5")
		require.NoError(t, err)
		assert.Error(t, view.Comments.Err)
		assert.Empty(t, view.Threads)
	})

	t.Run("product not found", func(t *testing.T) {
		f, svc := newFixture(false)
		f.api.On("FetchProduct", mock.Anything, domain.ID("404")).
			Return(domain.Product{}, &domain.APIError{StatusCode: http.StatusNotFound}).Once()
		f.comments.On("FetchComments", mock.Anything, domain.ID("404")).Return([]domain.Comment{}, nil).Once()

		_, err := svc.LoadProductPage(context.TODO(), "404")
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.False(t, f.likes.IsLiked("404"))
	})
}

func TestToggleLike(t *testing.T) {
	q := domain.ProductQuery{}.Normalize()
	liked := domain.ProductPage{
		Content: []domain.Product{
			{ID: "5", Title: "road bike", IsLiked: true, LikeCount: 3},
			{ID: "6", Title: "bike lock", IsLiked: true, LikeCount: 1},
		},
		Size: 20, TotalElements: 2, TotalPages: 1,
	}

	t.Run("list reload right after a toggle shows the toggle", func(t *testing.T) {
		f, svc := newFixture(true)
		f.cache.On("GetPage", mock.Anything, "sess-1", q).Return(domain.CachedPage{}, domain.ErrCacheMiss).Once()
		f.api.On("FetchProducts", mock.Anything, q).Return(page, nil).Once()
		f.cache.On("SetPage", mock.Anything, "sess-1", q, page, uint64(0), time.Minute).Return(nil).Once()
		_, err := svc.FetchProducts(context.TODO(), q)
		require.NoError(t, err)

		f.likeAPI.On("ToggleLike", mock.Anything, domain.ID("6")).Return(domain.LikeResult{IsLiked: true, LikeCount: 1}, nil).Once()
		f.cache.On("InvalidateViewer", mock.Anything, "sess-1").Return(nil).Once()
		res, err := svc.ToggleLike(context.TODO(), "6")
		require.NoError(t, err)
		assert.True(t, res.IsLiked)
		f.cache.AssertCalled(t, "InvalidateViewer", mock.Anything, "sess-1")

		// the old page is still readable, as if the delete had not landed yet
		f.cache.On("GetPage", mock.Anything, "sess-1", q).Return(domain.CachedPage{Page: page, Generation: 0}, nil).Once()
		f.api.On("FetchProducts", mock.Anything, q).Return(liked, nil).Once()
		f.cache.On("SetPage", mock.Anything, "sess-1", q, liked, uint64(1), time.Minute).Return(nil).Once()

		got, err := svc.FetchProducts(context.TODO(), q)
		require.NoError(t, err)
		assert.Equal(t, liked, got)
		assert.True(t, f.likes.IsLiked("6"))
		assert.Equal(t, int64(1), f.likes.GetLikeCount("6"))
		f.api.AssertExpectations(t)
		f.cache.AssertExpectations(t)
	})

	t.Run("failed toggle keeps the cache", func(t *testing.T) {
		f, svc := newFixture(true)
		f.likeAPI.On("ToggleLike", mock.Anything, domain.ID("6")).
			Return(domain.LikeResult{}, &domain.APIError{StatusCode: http.StatusUnauthorized}).Once()

		_, err := svc.ToggleLike(context.TODO(), "6")
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
		f.cache.AssertNotCalled(t, "InvalidateViewer", mock.Anything, mock.Anything)

		f.cache.On("GetPage", mock.Anything, "sess-1", q).Return(domain.CachedPage{Page: page}, nil).Once()
		_, err = svc.FetchProducts(context.TODO(), q)
		require.NoError(t, err)
		f.api.AssertNotCalled(t, "FetchProducts", mock.Anything, mock.Anything)
	})

	t.Run("page loaded across a toggle is loaded again", func(t *testing.T) {
		f, svc := newFixture(false)
		f.likeAPI.On("ToggleLike", mock.Anything, domain.ID("6")).Return(domain.LikeResult{IsLiked: true, LikeCount: 1}, nil).Once()
		f.api.On("FetchProducts", mock.Anything, q).Return(page, nil).Once().
			Run(func(mock.Arguments) {
				_, err := svc.ToggleLike(context.TODO(), "6")
				assert.NoError(t, err)
			})
		f.api.On("FetchProducts", mock.Anything, q).Return(liked, nil).Once()

		got, err := svc.FetchProducts(context.TODO(), q)
		require.NoError(t, err)
		assert.Equal(t, liked, got)
		assert.True(t, f.likes.IsLiked("6"))
		assert.Equal(t, int64(1), f.likes.GetLikeCount("6"))
		f.api.AssertNumberOfCalls(t, "FetchProducts", 2)
	})

	t.Run("list load during a toggle does not seed", func(t *testing.T) {
		f, svc := newFixture(false)
		f.api.On("FetchProducts", mock.Anything, q).Return(page, nil)
		f.likeAPI.On("ToggleLike", mock.Anything, domain.ID("6")).Return(domain.LikeResult{IsLiked: true, LikeCount: 1}, nil).Once().
			Run(func(mock.Arguments) {
				got, err := svc.FetchProducts(context.TODO(), q)
				assert.NoError(t, err)
				assert.Equal(t, page, got)
			})

		_, err := svc.ToggleLike(context.TODO(), "6")
		require.NoError(t, err)
		assert.True(t, f.likes.IsLiked("6"))
		assert.False(t, f.likes.IsLiked("5"))
		f.api.AssertNumberOfCalls(t, "FetchProducts", 3)
	})
}

func TestReportProduct(t *testing.T) {
	f, svc := newFixture(false)
	f.api.On("ReportProduct", mock.Anything, domain.ID("5"), "counterfeit").Return(nil).Once()

	assert.ErrorIs(t, svc.ReportProduct(context.TODO(), "5", "   "), domain.ErrEmptyContent)
	assert.NoError(t, svc.ReportProduct(context.TODO(), "5", " counterfeit "))
	f.api.AssertExpectations(t)
}

func TestInvalidateCache(t *testing.T) {
	f, svc := newFixture(true)
	f.cache.On("InvalidateViewer", mock.Anything, "sess-1").Return(errors.New("redis down")).Once()
	svc.InvalidateCache(context.TODO())
	f.cache.AssertExpectations(t)

	_, noCache := newFixture(false)
	assert.NotPanics(t, func() { noCache.InvalidateCache(context.TODO()) })
}
