package domain

import "context"

// LikeSeed is the like information a product list or detail fetch reports for one product
type LikeSeed struct {
	ProductID ID
	IsLiked   bool
	LikeCount int64
}

// LikeResult is the backend's answer to a toggle: the state after the toggle
type LikeResult struct {
	IsLiked   bool  `json:"isLiked"`
	LikeCount int64 `json:"likeCount"`
}

// LikeSnapshot is a read-only view of the viewer's like cache.
// The maps are never mutated after they are handed out.
type LikeSnapshot struct {
	Liked  map[ID]struct{}
	Counts map[ID]int64
}

// LikeAPI is the backend contract for likes
type LikeAPI interface {
	// ToggleLike carries no desired state, the backend decides like or unlike.
	ToggleLike(ctx context.Context, productID ID) (LikeResult, error)
}

// LikeStateUsecase tracks which products the viewer liked and each product's like count
type LikeStateUsecase interface {
	// InitializeLikes replaces the whole cache, it never merges.
	InitializeLikes(seeds []LikeSeed)
	// MergeLikes upserts entries and keeps everything else.
	MergeLikes(seeds []LikeSeed)
	IsLiked(productID ID) bool
	GetLikeCount(productID ID) int64
	ToggleLike(ctx context.Context, productID ID) (LikeResult, error)
	// Reset clears the cache on logout.
	Reset()
	Snapshot() LikeSnapshot
	Subscribe(l Listener) (unsubscribe func())
}
