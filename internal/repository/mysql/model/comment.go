package model

import (
	"time"

	"github.com/Guyuepp/market-front/domain"
)

type Comment struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	ProductID int64     `gorm:"column:product_id;not null;index"`
	Author    string    `gorm:"column:author;type:varchar(64);not null"`
	Content   string    `gorm:"type:text;not null"`
	ParentID  *int64    `gorm:"column:parent_id"`
	CreatedAt time.Time `gorm:"type:datetime"`
}

func (Comment) TableName() string {
	return "comment"
}

// ToDomain renders the comment for viewer; only the author owns it.
func (m *Comment) ToDomain(viewer string) domain.Comment {
	c := domain.Comment{
		ID:                domain.IDFromInt64(m.ID),
		ProductID:         domain.IDFromInt64(m.ProductID),
		Content:           m.Content,
		AuthorDisplayName: m.Author,
		CreatedAt:         m.CreatedAt.Format(DateTimeFormat),
		IsOwnedByViewer:   viewer != "" && viewer == m.Author,
	}
	if m.ParentID != nil {
		parent := domain.IDFromInt64(*m.ParentID)
		c.ParentID = &parent
	}
	return c
}
