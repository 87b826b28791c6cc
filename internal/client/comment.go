package client

import (
	"context"
	"net/http"

	"github.com/Guyuepp/market-front/domain"
)

type commentsResponse struct {
	envelope
	Comments []domain.Comment `json:"comments"`
}

type createCommentRequest struct {
	Content  string     `json:"content"`
	ParentID *domain.ID `json:"parentId"`
}

type updateCommentRequest struct {
	Content string `json:"content"`
}

func (c *Client) FetchComments(ctx context.Context, productID domain.ID) ([]domain.Comment, error) {
	var res commentsResponse
	if err := c.do(ctx, http.MethodGet, "/api/products/"+escape(productID)+"/comments", nil, nil, &res); err != nil {
		return nil, err
	}
	if res.Comments == nil {
		return []domain.Comment{}, nil
	}
	return res.Comments, nil
}

func (c *Client) CreateComment(ctx context.Context, productID domain.ID, content string, parentID *domain.ID) error {
	if parentID != nil && parentID.IsZero() {
		parentID = nil
	}
	body := createCommentRequest{Content: content, ParentID: parentID}
	return c.do(ctx, http.MethodPost, "/api/products/"+escape(productID)+"/comments", nil, body, nil)
}

func (c *Client) UpdateComment(ctx context.Context, commentID domain.ID, content string) error {
	body := updateCommentRequest{Content: content}
	return c.do(ctx, http.MethodPut, "/api/comments/"+escape(commentID), nil, body, nil)
}

func (c *Client) DeleteComment(ctx context.Context, commentID domain.ID) error {
	return c.do(ctx, http.MethodDelete, "/api/comments/"+escape(commentID), nil, nil, nil)
}
