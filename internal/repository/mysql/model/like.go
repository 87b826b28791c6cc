package model

import "time"

type Like struct {
	ProductID int64     `gorm:"column:product_id;primaryKey"`
	Viewer    string    `gorm:"column:viewer;type:varchar(64);primaryKey"`
	CreatedAt time.Time `gorm:"type:datetime"`
}

func (Like) TableName() string {
	return "product_likes"
}

type Report struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	ProductID int64     `gorm:"column:product_id;not null;index"`
	Viewer    string    `gorm:"column:viewer;type:varchar(64)"`
	Reason    string    `gorm:"type:varchar(500);not null"`
	CreatedAt time.Time `gorm:"type:datetime"`
}

func (Report) TableName() string {
	return "product_report"
}
