package client

import (
	"context"
	"net/http"

	"github.com/Guyuepp/market-front/domain"
)

type likeResponse struct {
	envelope
	domain.LikeResult
}

func (c *Client) ToggleLike(ctx context.Context, productID domain.ID) (domain.LikeResult, error) {
	var res likeResponse
	if err := c.do(ctx, http.MethodPost, "/api/products/"+escape(productID)+"/like", nil, nil, &res); err != nil {
		return domain.LikeResult{}, err
	}
	return res.LikeResult, nil
}
