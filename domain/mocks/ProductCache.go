package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/Guyuepp/market-front/domain"
)

// ProductCache is a mock type for the ProductCache type
type ProductCache struct {
	mock.Mock
}

// GetPage provides a mock function with given fields: ctx, viewer, q
func (_m *ProductCache) GetPage(ctx context.Context, viewer string, q domain.ProductQuery) (domain.CachedPage, error) {
	ret := _m.Called(ctx, viewer, q)
	return ret.Get(0).(domain.CachedPage), ret.Error(1)
}

// SetPage provides a mock function with given fields: ctx, viewer, q, page, generation, ttl
func (_m *ProductCache) SetPage(ctx context.Context, viewer string, q domain.ProductQuery, page domain.ProductPage, generation uint64, ttl time.Duration) error {
	ret := _m.Called(ctx, viewer, q, page, generation, ttl)
	return ret.Error(0)
}

// InvalidateViewer provides a mock function with given fields: ctx, viewer
func (_m *ProductCache) InvalidateViewer(ctx context.Context, viewer string) error {
	ret := _m.Called(ctx, viewer)
	return ret.Error(0)
}
