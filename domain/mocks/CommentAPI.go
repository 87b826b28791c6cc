package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/Guyuepp/market-front/domain"
)

// CommentAPI is a mock type for the CommentAPI type
type CommentAPI struct {
	mock.Mock
}

// FetchComments provides a mock function with given fields: ctx, productID
func (_m *CommentAPI) FetchComments(ctx context.Context, productID domain.ID) ([]domain.Comment, error) {
	ret := _m.Called(ctx, productID)

	var r0 []domain.Comment
	if rf, ok := ret.Get(0).(func(context.Context, domain.ID) []domain.Comment); ok {
		r0 = rf(ctx, productID)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.Comment)
	}

	return r0, ret.Error(1)
}

// CreateComment provides a mock function with given fields: ctx, productID, content, parentID
func (_m *CommentAPI) CreateComment(ctx context.Context, productID domain.ID, content string, parentID *domain.ID) error {
	ret := _m.Called(ctx, productID, content, parentID)
	return ret.Error(0)
}

// UpdateComment provides a mock function with given fields: ctx, commentID, content
func (_m *CommentAPI) UpdateComment(ctx context.Context, commentID domain.ID, content string) error {
	ret := _m.Called(ctx, commentID, content)
	return ret.Error(0)
}

// DeleteComment provides a mock function with given fields: ctx, commentID
func (_m *CommentAPI) DeleteComment(ctx context.Context, commentID domain.ID) error {
	ret := _m.Called(ctx, commentID)
	return ret.Error(0)
}
