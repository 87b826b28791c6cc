package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/Guyuepp/market-front/domain"
)

// LikeAPI is a mock type for the LikeAPI type
type LikeAPI struct {
	mock.Mock
}

// ToggleLike provides a mock function with given fields: ctx, productID
func (_m *LikeAPI) ToggleLike(ctx context.Context, productID domain.ID) (domain.LikeResult, error) {
	ret := _m.Called(ctx, productID)

	var r0 domain.LikeResult
	if rf, ok := ret.Get(0).(func(context.Context, domain.ID) domain.LikeResult); ok {
		r0 = rf(ctx, productID)
	} else {
		r0 = ret.Get(0).(domain.LikeResult)
	}

	return r0, ret.Error(1)
}
