package domain

import (
	"context"
	"strings"
)

// Comment is a comment on a product listing as returned by the backend
type Comment struct {
	ID                    ID      `json:"id"`
	ProductID             ID      `json:"productId"`
	ParentID              *ID     `json:"parentId"`
	Content               string  `json:"content"`
	AuthorDisplayName     string  `json:"authorDisplayName"`
	AuthorProfileImageURL *string `json:"authorProfileImageUrl"`
	CreatedAt             string  `json:"createdAt"`

	// IsOwnedByViewer 由后端计算，客户端只信任这个标记
	IsOwnedByViewer bool `json:"isOwnedByViewer"`
}

// IsTopLevel reports whether the comment has no parent.
func (c Comment) IsTopLevel() bool {
	return c.ParentID == nil || c.ParentID.IsZero()
}

// CommentThread is a top-level comment with the replies rendered under it
type CommentThread struct {
	Comment
	Replies []Comment `json:"replies"`
}

// CommentState is a read-only snapshot of a comment store
type CommentState struct {
	// ProductID is the product of the latest fetch
	ProductID ID
	// CommentsProductID is the product Comments belong to. After a failed fetch for
	// another product it still names the product of the kept list.
	CommentsProductID ID
	Comments          []Comment
	Loading           bool
	Err               error
}

// ListMatches reports whether Comments belong to the product of the latest fetch.
func (s CommentState) ListMatches() bool {
	return s.CommentsProductID == s.ProductID
}

// ValidateCommentContent rejects blank content before anything is sent.
func ValidateCommentContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return ErrEmptyContent
	}
	return nil
}

// CommentAPI is the backend contract for comments
type CommentAPI interface {
	// FetchComments returns the full comment list of a product in backend order.
	FetchComments(ctx context.Context, productID ID) ([]Comment, error)
	// CreateComment posts a new comment; parentID is nil for a top-level comment.
	CreateComment(ctx context.Context, productID ID, content string, parentID *ID) error
	// UpdateComment returns ErrUnauthorized if the viewer is not the owner.
	UpdateComment(ctx context.Context, commentID ID, content string) error
	// DeleteComment returns ErrUnauthorized if the viewer is not the owner.
	DeleteComment(ctx context.Context, commentID ID) error
}

// CommentTreeUsecase holds the comment list of the product being viewed
type CommentTreeUsecase interface {
	FetchComments(ctx context.Context, productID ID)
	CreateComment(ctx context.Context, productID ID, content string, parentID *ID) error
	UpdateComment(ctx context.Context, commentID ID, content string, productID ID) error
	DeleteComment(ctx context.Context, commentID ID, productID ID) error
	State() CommentState
	Threads() []CommentThread
	Subscribe(l Listener) (unsubscribe func())
}
