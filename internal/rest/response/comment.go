package response

import "github.com/Guyuepp/market-front/domain"

type CommentState struct {
	ProductID domain.ID              `json:"productId"`
	Comments  []domain.Comment       `json:"comments"`
	Threads   []domain.CommentThread `json:"threads"`
	Loading   bool                   `json:"loading"`
	// Error 上次拉取失败时的提示, 列表仍是上一次成功的结果
	Error string `json:"error,omitempty"`
}

// NewCommentStateFromDomain leaves the list empty when the store still holds another
// product's comments after a failed fetch.
func NewCommentStateFromDomain(state domain.CommentState, threads []domain.CommentThread) CommentState {
	res := CommentState{
		ProductID: state.ProductID,
		Loading:   state.Loading,
	}
	if state.ListMatches() {
		res.Comments = state.Comments
		res.Threads = threads
	}
	if res.Comments == nil {
		res.Comments = []domain.Comment{}
	}
	if res.Threads == nil {
		res.Threads = []domain.CommentThread{}
	}
	if state.Err != nil {
		res.Error = domain.MessageOf(state.Err, "failed to load comments")
	}
	return res
}
