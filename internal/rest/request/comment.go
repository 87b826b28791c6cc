package request

import "github.com/Guyuepp/market-front/domain"

type Comment struct {
	Content  string     `json:"content" binding:"notblank,max=2000"`
	ParentID *domain.ID `json:"parentId"`
}

type UpdateComment struct {
	Content string `json:"content" binding:"notblank,max=2000"`
}
