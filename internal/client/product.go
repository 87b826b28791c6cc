package client

import (
	"context"
	"net/http"

	"github.com/Guyuepp/market-front/domain"
)

type productsResponse struct {
	envelope
	domain.ProductPage
}

type productResponse struct {
	envelope
	Product domain.Product `json:"product"`
}

type reportRequest struct {
	Reason string `json:"reason"`
}

func (c *Client) FetchProducts(ctx context.Context, q domain.ProductQuery) (domain.ProductPage, error) {
	var res productsResponse
	if err := c.do(ctx, http.MethodGet, "/api/products/list", q.Values(), nil, &res); err != nil {
		return domain.ProductPage{}, err
	}
	if res.Content == nil {
		res.Content = []domain.Product{}
	}
	return res.ProductPage, nil
}

func (c *Client) FetchProduct(ctx context.Context, productID domain.ID) (domain.Product, error) {
	var res productResponse
	if err := c.do(ctx, http.MethodGet, "/api/products/"+escape(productID), nil, nil, &res); err != nil {
		return domain.Product{}, err
	}
	return res.Product, nil
}

func (c *Client) ReportProduct(ctx context.Context, productID domain.ID, reason string) error {
	return c.do(ctx, http.MethodPost, "/api/products/"+escape(productID)+"/report", nil, reportRequest{Reason: reason}, nil)
}
