package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/Guyuepp/market-front/domain"
	"github.com/Guyuepp/market-front/internal/repository/mysql/model"
)

type productRepository struct {
	DB *gorm.DB
}

var _ domain.ListingRepository = (*productRepository)(nil)

// NewProductRepository 创建商品数据库操作层
func NewProductRepository(db *gorm.DB) *productRepository {
	return &productRepository{db}
}

func orderOf(sort string) string {
	switch sort {
	case domain.SortPriceAsc:
		return "price ASC, id ASC"
	case domain.SortPriceDesc:
		return "price DESC, id DESC"
	case domain.SortLikes:
		return "likes DESC, id DESC"
	default:
		return "created_at DESC, id DESC"
	}
}

func (m *productRepository) Fetch(ctx context.Context, viewer string, q domain.ProductQuery) (domain.ProductPage, error) {
	q = q.Normalize()

	tx := m.DB.WithContext(ctx).Model(&model.Product{})
	if q.Keyword != "" {
		tx = tx.Where("title LIKE ?", "%"+q.Keyword+"%")
	}
	if q.Category != "" {
		tx = tx.Where("category = ?", q.Category)
	}
	// Count 和 Find 共用同一组条件
	tx = tx.Session(&gorm.Session{})

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return domain.ProductPage{}, err
	}

	var products []model.Product
	err := tx.Order(orderOf(q.Sort)).
		Offset(q.Page * q.Size).
		Limit(q.Size).
		Find(&products).Error
	if err != nil {
		return domain.ProductPage{}, err
	}

	ids := make([]int64, len(products))
	for i := range products {
		ids[i] = products[i].ID
	}
	liked, err := m.likedSet(ctx, viewer, ids)
	if err != nil {
		return domain.ProductPage{}, err
	}

	page := domain.ProductPage{
		Content:       make([]domain.Product, len(products)),
		Page:          q.Page,
		Size:          q.Size,
		TotalElements: total,
		TotalPages:    int((total + int64(q.Size) - 1) / int64(q.Size)),
	}
	for i := range products {
		_, ok := liked[products[i].ID]
		page.Content[i] = products[i].ToDomain(ok)
	}
	return page, nil
}

func (m *productRepository) likedSet(ctx context.Context, viewer string, ids []int64) (map[int64]struct{}, error) {
	res := make(map[int64]struct{})
	if viewer == "" || len(ids) == 0 {
		return res, nil
	}

	var likedIDs []int64
	err := m.DB.WithContext(ctx).
		Model(&model.Like{}).
		Where("viewer = ? AND product_id IN ?", viewer, ids).
		Pluck("product_id", &likedIDs).Error
	if err != nil {
		return nil, err
	}
	for _, id := range likedIDs {
		res[id] = struct{}{}
	}
	return res, nil
}

func (m *productRepository) GetByID(ctx context.Context, viewer string, id domain.ID) (domain.Product, error) {
	pid, err := parseID(id)
	if err != nil {
		return domain.Product{}, err
	}

	var product model.Product
	if err := m.DB.WithContext(ctx).First(&product, "id = ?", pid).Error; err != nil {
		return domain.Product{}, notFound(err)
	}
	liked, err := m.likedSet(ctx, viewer, []int64{pid})
	if err != nil {
		return domain.Product{}, err
	}
	_, ok := liked[pid]
	return product.ToDomain(ok), nil
}

func (m *productRepository) ToggleLike(ctx context.Context, viewer string, id domain.ID) (domain.LikeResult, error) {
	if viewer == "" {
		return domain.LikeResult{}, domain.ErrUnauthorized
	}
	pid, err := parseID(id)
	if err != nil {
		return domain.LikeResult{}, err
	}

	var res domain.LikeResult
	err = m.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var product model.Product
		if err := tx.Select("id").First(&product, "id = ?", pid).Error; err != nil {
			return notFound(err)
		}

		deleted := tx.Where("product_id = ? AND viewer = ?", pid, viewer).Delete(&model.Like{})
		if deleted.Error != nil {
			return deleted.Error
		}
		if deleted.RowsAffected == 0 {
			if err := tx.Create(&model.Like{ProductID: pid, Viewer: viewer}).Error; err != nil {
				return err
			}
			res.IsLiked = true
		}

		// 以点赞记录为准重算计数
		if err := tx.Model(&model.Like{}).
			Where("product_id = ?", pid).
			Count(&res.LikeCount).Error; err != nil {
			return err
		}
		return tx.Model(&model.Product{}).
			Where("id = ?", pid).
			UpdateColumn("likes", res.LikeCount).Error
	})
	if err != nil {
		return domain.LikeResult{}, err
	}
	return res, nil
}

func (m *productRepository) Report(ctx context.Context, viewer string, id domain.ID, reason string) error {
	pid, err := parseID(id)
	if err != nil {
		return err
	}

	var n int64
	if err := m.DB.WithContext(ctx).Model(&model.Product{}).Where("id = ?", pid).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return m.DB.WithContext(ctx).Create(&model.Report{
		ProductID: pid,
		Viewer:    viewer,
		Reason:    reason,
	}).Error
}

func (m *productRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := m.DB.WithContext(ctx).Model(&model.Product{}).Count(&n).Error
	return n, err
}

func (m *productRepository) Store(ctx context.Context, p *domain.Product) error {
	productModel := model.NewProductFromDomain(p)
	if err := m.DB.WithContext(ctx).Create(productModel).Error; err != nil {
		return err
	}
	*p = productModel.ToDomain(false)
	return nil
}
