package response

import "github.com/Guyuepp/market-front/domain"

type ProductPage struct {
	Content       []domain.Product `json:"content"`
	Page          int              `json:"page"`
	Size          int              `json:"size"`
	TotalElements int64            `json:"totalElements"`
	TotalPages    int              `json:"totalPages"`
}

// NewProductPageFromDomain renders like flags from the like cache, which may be
// newer than the (possibly cached) page.
func NewProductPageFromDomain(p domain.ProductPage, likes domain.LikeSnapshot) ProductPage {
	content := make([]domain.Product, len(p.Content))
	for i, product := range p.Content {
		content[i] = withLikes(product, likes)
	}
	return ProductPage{
		Content:       content,
		Page:          p.Page,
		Size:          p.Size,
		TotalElements: p.TotalElements,
		TotalPages:    p.TotalPages,
	}
}

type ProductDetail struct {
	Product  domain.Product `json:"product"`
	Comments CommentState   `json:"comments"`
}

func NewProductDetailFromDomain(v domain.ProductDetailView, likes domain.LikeSnapshot) ProductDetail {
	return ProductDetail{
		Product:  withLikes(v.Product, likes),
		Comments: NewCommentStateFromDomain(v.Comments, v.Threads),
	}
}

func withLikes(p domain.Product, likes domain.LikeSnapshot) domain.Product {
	if count, ok := likes.Counts[p.ID]; ok {
		_, p.IsLiked = likes.Liked[p.ID]
		p.LikeCount = count
	}
	return p
}

type Like struct {
	ProductID domain.ID `json:"productId"`
	IsLiked   bool      `json:"isLiked"`
	LikeCount int64     `json:"likeCount"`
}

type Session struct {
	SessionID     string `json:"sessionId"`
	Authenticated bool   `json:"authenticated"`
}
