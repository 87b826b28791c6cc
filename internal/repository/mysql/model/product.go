package model

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Guyuepp/market-front/domain"
)

const DateTimeFormat = "2006-01-02T15:04:05"

type Product struct {
	ID           int64           `gorm:"primaryKey;autoIncrement"`
	Title        string          `gorm:"type:varchar(120);not null"`
	Price        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Status       string          `gorm:"type:varchar(20);not null;default:'ON_SALE'"`
	Category     string          `gorm:"type:varchar(45);index"`
	ThumbnailURL string          `gorm:"column:thumbnail_url;type:varchar(255)"`
	SellerName   string          `gorm:"column:seller_name;type:varchar(45);not null"`
	Likes        int64           `gorm:"default:0"`
	CreatedAt    time.Time       `gorm:"type:datetime"`
}

func (Product) TableName() string {
	return "product"
}

// ToDomain renders the listing for a viewer, liked tells whether that viewer likes it.
func (m *Product) ToDomain(liked bool) domain.Product {
	return domain.Product{
		ID:                domain.IDFromInt64(m.ID),
		Title:             m.Title,
		Price:             m.Price,
		Status:            m.Status,
		Category:          m.Category,
		ThumbnailURL:      m.ThumbnailURL,
		SellerDisplayName: m.SellerName,
		CreatedAt:         m.CreatedAt.Format(DateTimeFormat),
		IsLiked:           liked,
		LikeCount:         m.Likes,
	}
}

func NewProductFromDomain(p *domain.Product) *Product {
	return &Product{
		Title:        p.Title,
		Price:        p.Price,
		Status:       p.Status,
		Category:     p.Category,
		ThumbnailURL: p.ThumbnailURL,
		SellerName:   p.SellerDisplayName,
		Likes:        p.LikeCount,
	}
}
