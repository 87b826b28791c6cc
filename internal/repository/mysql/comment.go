package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/Guyuepp/market-front/domain"
	"github.com/Guyuepp/market-front/internal/repository/mysql/model"
)

type commentRepository struct {
	DB *gorm.DB
}

var _ domain.CommentRepository = (*commentRepository)(nil)

func NewCommentRepository(db *gorm.DB) *commentRepository {
	return &commentRepository{
		DB: db,
	}
}

func (c *commentRepository) productExists(ctx context.Context, pid int64) error {
	var n int64
	if err := c.DB.WithContext(ctx).Model(&model.Product{}).Where("id = ?", pid).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (c *commentRepository) FetchByProduct(ctx context.Context, viewer string, productID domain.ID) ([]domain.Comment, error) {
	pid, err := parseID(productID)
	if err != nil {
		return nil, err
	}
	if err := c.productExists(ctx, pid); err != nil {
		return nil, err
	}

	var comments []model.Comment
	err = c.DB.WithContext(ctx).
		Where("product_id = ?", pid).
		Order("created_at ASC, id ASC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}

	res := make([]domain.Comment, len(comments))
	for i := range comments {
		res[i] = comments[i].ToDomain(viewer)
	}
	return res, nil
}

func (c *commentRepository) Store(ctx context.Context, viewer string, productID domain.ID, content string, parentID *domain.ID) (domain.ID, error) {
	if viewer == "" {
		return "", domain.ErrUnauthorized
	}
	pid, err := parseID(productID)
	if err != nil {
		return "", err
	}
	if err := c.productExists(ctx, pid); err != nil {
		return "", err
	}

	comment := model.Comment{
		ProductID: pid,
		Author:    viewer,
		Content:   content,
	}
	if parentID != nil && !parentID.IsZero() {
		parent, err := c.get(ctx, *parentID)
		if err != nil || parent.ProductID != pid {
			return "", domain.ErrBadParamInput
		}
		comment.ParentID = &parent.ID
	}

	if err := c.DB.WithContext(ctx).Create(&comment).Error; err != nil {
		return "", err
	}
	return domain.IDFromInt64(comment.ID), nil
}

func (c *commentRepository) get(ctx context.Context, id domain.ID) (model.Comment, error) {
	cid, err := parseID(id)
	if err != nil {
		return model.Comment{}, err
	}
	var comment model.Comment
	if err := c.DB.WithContext(ctx).First(&comment, "id = ?", cid).Error; err != nil {
		return model.Comment{}, notFound(err)
	}
	return comment, nil
}

// owned returns the comment if viewer wrote it
func (c *commentRepository) owned(ctx context.Context, viewer string, id domain.ID) (model.Comment, error) {
	if viewer == "" {
		return model.Comment{}, domain.ErrUnauthorized
	}
	comment, err := c.get(ctx, id)
	if err != nil {
		return model.Comment{}, err
	}
	if comment.Author != viewer {
		return model.Comment{}, domain.ErrUnauthorized
	}
	return comment, nil
}

func (c *commentRepository) Update(ctx context.Context, viewer string, id domain.ID, content string) error {
	comment, err := c.owned(ctx, viewer, id)
	if err != nil {
		return err
	}
	return c.DB.WithContext(ctx).
		Model(&model.Comment{}).
		Where("id = ?", comment.ID).
		Update("content", content).Error
}

func (c *commentRepository) Delete(ctx context.Context, viewer string, id domain.ID) error {
	comment, err := c.owned(ctx, viewer, id)
	if err != nil {
		return err
	}
	result := c.DB.WithContext(ctx).
		Where("id = ? OR parent_id = ?", comment.ID, comment.ID).
		Delete(&model.Comment{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
