package domain

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Product is a marketplace listing as the backend reports it to the current viewer
type Product struct {
	ID                ID              `json:"id"`
	Title             string          `json:"title"`
	Price             decimal.Decimal `json:"price"`
	Status            string          `json:"status"`
	Category          string          `json:"category,omitempty"`
	ThumbnailURL      string          `json:"thumbnailUrl,omitempty"`
	SellerDisplayName string          `json:"sellerDisplayName"`
	CreatedAt         string          `json:"createdAt"`
	IsLiked           bool            `json:"isLiked"`
	LikeCount         int64           `json:"likeCount"`
}

// LikeSeed extracts the like information the backend reported for p.
func (p Product) LikeSeed() LikeSeed {
	return LikeSeed{ProductID: p.ID, IsLiked: p.IsLiked, LikeCount: p.LikeCount}
}

// ProductQuery is the filter of a product list page
type ProductQuery struct {
	Page     int    `form:"page"`
	Size     int    `form:"size"`
	Keyword  string `form:"keyword"`
	Category string `form:"category"`
	Sort     string `form:"sort"`
}

// Normalize clamps paging values into the range the backend accepts.
func (q ProductQuery) Normalize() ProductQuery {
	if q.Page < 0 {
		q.Page = 0
	}
	if q.Size <= 0 {
		q.Size = DefaultPageSize
	}
	if q.Size > MaxPageSize {
		q.Size = MaxPageSize
	}
	return q
}

// Values encodes the query as backend query params. Empty filters are omitted.
func (q ProductQuery) Values() url.Values {
	v := url.Values{}
	v.Set("page", strconv.Itoa(q.Page))
	v.Set("size", strconv.Itoa(q.Size))
	if q.Keyword != "" {
		v.Set("keyword", q.Keyword)
	}
	if q.Category != "" {
		v.Set("category", q.Category)
	}
	if q.Sort != "" {
		v.Set("sort", q.Sort)
	}
	return v
}

// ProductPage is one page of a product list
type ProductPage struct {
	Content       []Product `json:"content"`
	Page          int       `json:"page"`
	Size          int       `json:"size"`
	TotalElements int64     `json:"totalElements"`
	TotalPages    int       `json:"totalPages"`
}

// LikeSeeds extracts the like information of every product on the page.
func (p ProductPage) LikeSeeds() []LikeSeed {
	seeds := make([]LikeSeed, len(p.Content))
	for i := range p.Content {
		seeds[i] = p.Content[i].LikeSeed()
	}
	return seeds
}

// ProductDetailView is everything a product detail page renders
type ProductDetailView struct {
	Product  Product
	Threads  []CommentThread
	Comments CommentState
}

// ProductAPI is the backend contract for listings
type ProductAPI interface {
	FetchProducts(ctx context.Context, q ProductQuery) (ProductPage, error)
	FetchProduct(ctx context.Context, productID ID) (Product, error)
	ReportProduct(ctx context.Context, productID ID, reason string) error
}

// CachedPage is a cached list page and the like generation it was loaded under
type CachedPage struct {
	Page       ProductPage
	Generation uint64
	Expired    bool
}

// ProductCache caches list pages per viewer session
type ProductCache interface {
	// GetPage returns ErrCacheMiss if nothing is cached.
	GetPage(ctx context.Context, viewer string, q ProductQuery) (CachedPage, error)
	// SetPage stores page, generation is the viewer's like generation when the load started.
	SetPage(ctx context.Context, viewer string, q ProductQuery, page ProductPage, generation uint64, ttl time.Duration) error
	// InvalidateViewer drops every page cached for viewer.
	InvalidateViewer(ctx context.Context, viewer string) error
}

type ProductUsecase interface {
	FetchProducts(ctx context.Context, q ProductQuery) (ProductPage, error)
	LoadProductPage(ctx context.Context, productID ID) (ProductDetailView, error)
	ReportProduct(ctx context.Context, productID ID, reason string) error
	// ToggleLike toggles through the like store and drops the cached pages before
	// returning, so the next list load cannot bring back the old like state.
	ToggleLike(ctx context.Context, productID ID) (LikeResult, error)
	InvalidateCache(ctx context.Context)
}
