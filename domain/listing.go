package domain

import "context"

// Sort orders accepted by the product list
const (
	SortLatest    = "latest"
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortLikes     = "likes"
)

// ListingRepository defines the contract for listing persistence of the dev backend.
// viewer is the caller's identity, empty for an anonymous caller; it decides isLiked.
type ListingRepository interface {
	// Fetch retrieves one page of listings matching q.
	Fetch(ctx context.Context, viewer string, q ProductQuery) (ProductPage, error)

	// GetByID returns ErrNotFound if the listing doesn't exist.
	GetByID(ctx context.Context, viewer string, id ID) (Product, error)

	// ToggleLike flips the viewer's like and the listing's like count in one transaction.
	// Returns ErrNotFound if the listing doesn't exist.
	ToggleLike(ctx context.Context, viewer string, id ID) (LikeResult, error)

	// Report stores a report. Returns ErrNotFound if the listing doesn't exist.
	Report(ctx context.Context, viewer string, id ID, reason string) error

	Count(ctx context.Context) (int64, error)
	Store(ctx context.Context, p *Product) error
}

// CommentRepository defines the contract for comment persistence of the dev backend
type CommentRepository interface {
	// FetchByProduct returns every comment of a listing, oldest first.
	FetchByProduct(ctx context.Context, viewer string, productID ID) ([]Comment, error)

	// Store returns ErrNotFound if the listing doesn't exist and ErrBadParamInput
	// if the parent belongs to another listing.
	Store(ctx context.Context, viewer string, productID ID, content string, parentID *ID) (ID, error)

	// Update returns ErrUnauthorized if viewer is not the author.
	Update(ctx context.Context, viewer string, id ID, content string) error

	// Delete removes the comment and its direct replies.
	// Returns ErrUnauthorized if viewer is not the author.
	Delete(ctx context.Context, viewer string, id ID) error
}
