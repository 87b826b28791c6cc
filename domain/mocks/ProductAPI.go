package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/Guyuepp/market-front/domain"
)

// ProductAPI is a mock type for the ProductAPI type
type ProductAPI struct {
	mock.Mock
}

// FetchProducts provides a mock function with given fields: ctx, q
func (_m *ProductAPI) FetchProducts(ctx context.Context, q domain.ProductQuery) (domain.ProductPage, error) {
	ret := _m.Called(ctx, q)
	return ret.Get(0).(domain.ProductPage), ret.Error(1)
}

// FetchProduct provides a mock function with given fields: ctx, productID
func (_m *ProductAPI) FetchProduct(ctx context.Context, productID domain.ID) (domain.Product, error) {
	ret := _m.Called(ctx, productID)
	return ret.Get(0).(domain.Product), ret.Error(1)
}

// ReportProduct provides a mock function with given fields: ctx, productID, reason
func (_m *ProductAPI) ReportProduct(ctx context.Context, productID domain.ID, reason string) error {
	ret := _m.Called(ctx, productID, reason)
	return ret.Error(0)
}
