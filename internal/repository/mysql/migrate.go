package mysql

import (
	"gorm.io/gorm"

	"github.com/Guyuepp/market-front/internal/repository/mysql/model"
)

// AutoMigrate creates or updates the dev backend tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&model.Product{}, &model.Comment{}, &model.Like{}, &model.Report{})
}
